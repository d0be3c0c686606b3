package inspect

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/vango-dev/elemkit/elem"
	"github.com/vango-dev/elemkit/internal/errors"
)

// Store persists snapshots. name carries the extension that selects the
// encoding (.json, .yaml, .yml or .msgpack); a name without one is stored
// as JSON.
type Store interface {
	Put(ctx context.Context, name string, snap *Snapshot) error
}

func encodeSnapshot(name string, snap *Snapshot) (string, []byte, error) {
	format, ok := elem.FormatFromPath(name)
	if !ok {
		format = elem.FormatJSON
		name += ".json"
	}
	data, err := elem.Marshal(format, snap)
	if err != nil {
		return "", nil, errors.New("E305").WithDetailf("encode %s", name).Wrap(err)
	}
	return name, data, nil
}

func contentType(name string) string {
	format, _ := elem.FormatFromPath(name)
	switch format {
	case elem.FormatYAML:
		return "application/yaml"
	case elem.FormatMsgpack:
		return "application/msgpack"
	}
	return "application/json"
}

// FSStore writes snapshots below a directory.
type FSStore struct {
	dir string
}

// NewFSStore creates the directory if needed.
func NewFSStore(dir string) (*FSStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.New("E305").WithDetailf("dir %s", dir).Wrap(err)
	}
	return &FSStore{dir: dir}, nil
}

// Dir returns the store directory.
func (s *FSStore) Dir() string { return s.dir }

// Put implements Store.
func (s *FSStore) Put(_ context.Context, name string, snap *Snapshot) error {
	name, data, err := encodeSnapshot(name, snap)
	if err != nil {
		return err
	}
	p := filepath.Join(s.dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		return errors.New("E305").WithDetailf("file %s", p).Wrap(err)
	}
	if err := os.WriteFile(p, data, 0644); err != nil {
		return errors.New("E305").WithDetailf("file %s", p).Wrap(err)
	}
	return nil
}

// S3API is the part of *s3.Client used by S3Store.
type S3API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Store writes snapshots to an S3 bucket.
//
// Example usage:
//
//	client := inspect.NewS3Client("eu-west-1", "")
//	store := inspect.NewS3Store(client, "my-bucket", "snapshots/")
type S3Store struct {
	client S3API
	bucket string
	prefix string
}

// NewS3Store creates an S3Store. prefix is prepended to every key.
func NewS3Store(client S3API, bucket, prefix string) *S3Store {
	return &S3Store{client: client, bucket: bucket, prefix: prefix}
}

// Put implements Store.
func (s *S3Store) Put(ctx context.Context, name string, snap *Snapshot) error {
	name, data, err := encodeSnapshot(name, snap)
	if err != nil {
		return err
	}
	key := s.prefix + name
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType(name)),
		Metadata: map[string]string{
			"scenario":      snap.Scenario,
			"snapshot-time": time.Now().UTC().Format(time.RFC3339),
		},
	})
	if err != nil {
		return errors.New("E305").WithDetailf("s3://%s/%s", s.bucket, key).Wrap(err)
	}
	return nil
}

// NewS3Client builds a client for region from the standard AWS_* environment
// credentials. endpoint overrides the service endpoint and switches to
// path-style addressing, for S3-compatible stores.
func NewS3Client(region, endpoint string) *s3.Client {
	opts := s3.Options{
		Region:      region,
		Credentials: aws.NewCredentialsCache(envCredentials{}),
	}
	if endpoint != "" {
		opts.BaseEndpoint = aws.String(endpoint)
		opts.UsePathStyle = true
	}
	return s3.New(opts)
}

type envCredentials struct{}

func (envCredentials) Retrieve(context.Context) (aws.Credentials, error) {
	id := os.Getenv("AWS_ACCESS_KEY_ID")
	secret := os.Getenv("AWS_SECRET_ACCESS_KEY")
	if id == "" || secret == "" {
		return aws.Credentials{}, errors.New("E305").WithDetail("AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY must be set")
	}
	return aws.Credentials{
		AccessKeyID:     id,
		SecretAccessKey: secret,
		SessionToken:    os.Getenv("AWS_SESSION_TOKEN"),
		Source:          "environment",
	}, nil
}

// ParseS3URL splits s3://bucket/prefix. A non-empty prefix is returned
// with a trailing slash. ok is false for other schemes.
func ParseS3URL(u string) (bucket, prefix string, ok bool) {
	rest, found := strings.CutPrefix(u, "s3://")
	if !found {
		return "", "", false
	}
	bucket, prefix, _ = strings.Cut(rest, "/")
	if bucket == "" {
		return "", "", false
	}
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return bucket, prefix, true
}

// OpenStore returns an S3Store for s3://bucket/prefix destinations and an
// FSStore for anything else. region and endpoint are passed to NewS3Client.
func OpenStore(dest, region, endpoint string) (Store, error) {
	if bucket, prefix, ok := ParseS3URL(dest); ok {
		return NewS3Store(NewS3Client(region, endpoint), bucket, prefix), nil
	}
	if strings.Contains(dest, "://") {
		return nil, errors.New("E305").WithDetailf("unsupported destination %s", dest)
	}
	return NewFSStore(dest)
}
