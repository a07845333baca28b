package sitesource

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3API is the slice of the S3 client the source needs. *s3.Client
// satisfies it.
type S3API interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, opts ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3 serves site files from an S3 bucket.
type S3 struct {
	client S3API
	bucket string
	prefix string
}

// S3Option configures the S3 source.
type S3Option func(*S3)

// WithPrefix prepends a key prefix to every lookup, e.g. "site/v2".
func WithPrefix(prefix string) S3Option {
	return func(s *S3) { s.prefix = strings.Trim(prefix, "/") }
}

// NewS3 creates an S3-backed source. Construct the client with
// s3.New(s3.Options{Region: ..., Credentials: ...}).
func NewS3(client S3API, bucket string, opts ...S3Option) *S3 {
	s := &S3{client: client, bucket: bucket}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get fetches the object at key. Missing keys map to ErrNotFound.
func (s *S3) Get(ctx context.Context, key string) ([]byte, error) {
	full := key
	if s.prefix != "" {
		full = path.Join(s.prefix, key)
	}
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(full),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	defer out.Body.Close()
	return io.ReadAll(out.Body)
}
