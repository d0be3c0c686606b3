package inspect

import (
	"context"
	stderrors "errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/vango-dev/elemkit/elem"
	"github.com/vango-dev/elemkit/internal/errors"
)

func sampleSnapshot() *Snapshot {
	return &Snapshot{
		Scenario:  "sample",
		Rendered:  true,
		Markup:    "<p>x</p>",
		Listeners: 1,
		Steps:     []StepResult{{Index: 0, Op: "click", Markup: "<p>x</p>", Log: []string{"click p"}}},
		Log:       []string{"click p"},
	}
}

func TestFSStore(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "snaps")
	store, err := NewFSStore(dir)
	if err != nil {
		t.Fatalf("NewFSStore() error = %v", err)
	}

	tests := []struct {
		name   string
		file   string
		format elem.Format
	}{
		{"sample.json", "sample.json", elem.FormatJSON},
		{"nested/sample.yaml", "nested/sample.yaml", elem.FormatYAML},
		{"sample.msgpack", "sample.msgpack", elem.FormatMsgpack},
		{"bare", "bare.json", elem.FormatJSON},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := store.Put(context.Background(), tt.name, sampleSnapshot()); err != nil {
				t.Fatalf("Put() error = %v", err)
			}
			data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(tt.file)))
			if err != nil {
				t.Fatalf("ReadFile() error = %v", err)
			}
			var got Snapshot
			if err := elem.Unmarshal(tt.format, data, &got); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			if got.Markup != "<p>x</p>" || len(got.Steps) != 1 || got.Steps[0].Op != "click" {
				t.Errorf("decoded snapshot = %+v", got)
			}
		})
	}
}

type fakeS3 struct {
	inputs []*s3.PutObjectInput
	bodies [][]byte
	err    error
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	body, _ := io.ReadAll(in.Body)
	f.inputs = append(f.inputs, in)
	f.bodies = append(f.bodies, body)
	return &s3.PutObjectOutput{}, nil
}

func TestS3Store(t *testing.T) {
	client := &fakeS3{}
	store := NewS3Store(client, "bucket", "runs/")

	if err := store.Put(context.Background(), "sample.yaml", sampleSnapshot()); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	in := client.inputs[0]
	if aws.ToString(in.Bucket) != "bucket" || aws.ToString(in.Key) != "runs/sample.yaml" {
		t.Errorf("bucket/key = %s/%s", aws.ToString(in.Bucket), aws.ToString(in.Key))
	}
	if aws.ToString(in.ContentType) != "application/yaml" {
		t.Errorf("ContentType = %s", aws.ToString(in.ContentType))
	}
	if in.Metadata["scenario"] != "sample" {
		t.Errorf("Metadata = %v", in.Metadata)
	}
	var got Snapshot
	if err := elem.Unmarshal(elem.FormatYAML, client.bodies[0], &got); err != nil || got.Markup != "<p>x</p>" {
		t.Errorf("body = %q, %v", client.bodies[0], err)
	}

	client.err = stderrors.New("denied")
	if err := store.Put(context.Background(), "x", sampleSnapshot()); !stderrors.Is(err, errors.New("E305")) {
		t.Errorf("Put() error = %v, want E305", err)
	}
}

func TestParseS3URL(t *testing.T) {
	tests := []struct {
		in             string
		bucket, prefix string
		ok             bool
	}{
		{"s3://b", "b", "", true},
		{"s3://b/", "b", "", true},
		{"s3://b/runs", "b", "runs/", true},
		{"s3://b/runs/daily/", "b", "runs/daily/", true},
		{"s3://", "", "", false},
		{"/tmp/out", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			bucket, prefix, ok := ParseS3URL(tt.in)
			if bucket != tt.bucket || prefix != tt.prefix || ok != tt.ok {
				t.Errorf("ParseS3URL(%q) = %q, %q, %v", tt.in, bucket, prefix, ok)
			}
		})
	}
}

func TestOpenStore(t *testing.T) {
	dir := t.TempDir()
	st, err := OpenStore(dir, "", "")
	if err != nil {
		t.Fatalf("OpenStore(dir) error = %v", err)
	}
	if fs, ok := st.(*FSStore); !ok || fs.Dir() != dir {
		t.Errorf("OpenStore(dir) = %T", st)
	}

	st, err = OpenStore("s3://bucket/p", "us-east-1", "http://localhost:9000")
	if err != nil {
		t.Fatalf("OpenStore(s3) error = %v", err)
	}
	if s3s, ok := st.(*S3Store); !ok || s3s.bucket != "bucket" || s3s.prefix != "p/" {
		t.Errorf("OpenStore(s3) = %+v", st)
	}

	if _, err := OpenStore("gs://bucket", "", ""); !stderrors.Is(err, errors.New("E305")) {
		t.Errorf("OpenStore(gs) error = %v, want E305", err)
	}
}

func TestEnvCredentials(t *testing.T) {
	t.Setenv("AWS_ACCESS_KEY_ID", "")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "")
	if _, err := (envCredentials{}).Retrieve(context.Background()); err == nil {
		t.Error("Retrieve() without env succeeded")
	}

	t.Setenv("AWS_ACCESS_KEY_ID", "id")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "secret")
	creds, err := (envCredentials{}).Retrieve(context.Background())
	if err != nil || creds.AccessKeyID != "id" || creds.SecretAccessKey != "secret" {
		t.Errorf("Retrieve() = %+v, %v", creds, err)
	}
}
