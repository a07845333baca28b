// Package sitesource abstracts where the static site's HTML lives.
// The page server and the live layer read through a Source, which is
// backed by a local directory in development and an S3 bucket in
// production.
package sitesource
