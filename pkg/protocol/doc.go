// Package protocol defines the binary wire format between a live
// session and its browser client: varint-based patch frames flowing
// server to client, and compact event frames flowing back. All
// decoders are hardened against hostile input with allocation and
// collection limits.
package protocol
