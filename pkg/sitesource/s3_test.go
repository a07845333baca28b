package sitesource

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

type fakeS3 struct {
	objects map[string]string
	gotKeys []string
}

func (f *fakeS3) GetObject(ctx context.Context, in *s3.GetObjectInput, opts ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.gotKeys = append(f.gotKeys, *in.Key)
	body, ok := f.objects[*in.Key]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader([]byte(body)))}, nil
}

func TestS3Get(t *testing.T) {
	fake := &fakeS3{objects: map[string]string{"index.html": "home"}}
	src := NewS3(fake, "site-bucket")

	data, err := src.Get(context.Background(), "index.html")
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "home" {
		t.Errorf("got %q", data)
	}

	if _, err := src.Get(context.Background(), "missing.html"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing key: got %v, want ErrNotFound", err)
	}
}

func TestS3Prefix(t *testing.T) {
	fake := &fakeS3{objects: map[string]string{"site/v2/docs/index.html": "docs"}}
	src := NewS3(fake, "site-bucket", WithPrefix("/site/v2/"))

	data, err := Page(context.Background(), src, "/docs/")
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "docs" {
		t.Errorf("got %q", data)
	}
	if len(fake.gotKeys) == 0 || fake.gotKeys[len(fake.gotKeys)-1] != "site/v2/docs/index.html" {
		t.Errorf("requested keys = %v", fake.gotKeys)
	}
}
