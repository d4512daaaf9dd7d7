package logstore

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

func writeLog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".nextflow.log")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRemotePath(t *testing.T) {
	tests := []struct {
		base string
		want string
	}{
		{"latch:///your_log_dir", "latch:///your_log_dir/nf_nf_core_isoseq/brave-otter/nextflow.log"},
		{"s3://bucket/logs/", "s3://bucket/logs/nf_nf_core_isoseq/brave-otter/nextflow.log"},
		{"file:///var/log/nf", "file:///var/log/nf/nf_nf_core_isoseq/brave-otter/nextflow.log"},
	}
	for _, tt := range tests {
		got, err := RemotePath(tt.base, "nf_nf_core_isoseq", "brave-otter")
		if err != nil {
			t.Fatalf("RemotePath(%q) error = %v", tt.base, err)
		}
		if got != tt.want {
			t.Errorf("RemotePath(%q) = %q, want %q", tt.base, got, tt.want)
		}
	}
}

func TestRemotePath_RejectsUnsafeSegments(t *testing.T) {
	for _, name := range []string{"", ".", "..", "../../etc", "a/b", `a\b`} {
		if got, err := RemotePath("file:///var/log/nf", "nf_nf_core_isoseq", name); err == nil {
			t.Errorf("RemotePath(name=%q) = %q, want error", name, got)
		}
	}
	if _, err := RemotePath("file:///var/log/nf", "../x", "run-01"); err == nil {
		t.Error("RemotePath() accepted a pipeline id with a separator")
	}
}

func TestParseLocation(t *testing.T) {
	tests := []struct {
		loc, scheme, rest string
	}{
		{"s3://b/k", "s3", "b/k"},
		{"file:///tmp/x", "file", "/tmp/x"},
		{"/tmp/x", "", "/tmp/x"},
		{"HTTPS://host/p", "https", "host/p"},
	}
	for _, tt := range tests {
		scheme, rest := ParseLocation(tt.loc)
		if scheme != tt.scheme || rest != tt.rest {
			t.Errorf("ParseLocation(%q) = %q, %q; want %q, %q", tt.loc, scheme, rest, tt.scheme, tt.rest)
		}
	}
}

func TestParseS3(t *testing.T) {
	bucket, key, err := ParseS3("s3://logs/nf/run/nextflow.log")
	if err != nil {
		t.Fatalf("ParseS3() error = %v", err)
	}
	if bucket != "logs" || key != "nf/run/nextflow.log" {
		t.Errorf("ParseS3() = %q, %q", bucket, key)
	}
	for _, bad := range []string{"s3://bucket", "s3:///key", "file:///x"} {
		if _, _, err := ParseS3(bad); err == nil {
			t.Errorf("ParseS3(%q) should fail", bad)
		}
	}
}

func TestFileStore_Upload(t *testing.T) {
	local := writeLog(t, "Nextflow log line\n")
	dest := filepath.Join(t.TempDir(), "nf_nf_core_isoseq", "run-1", "nextflow.log")

	if err := (FileStore{}).Upload(context.Background(), local, "file://"+dest); err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	got, err := os.ReadFile(dest)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "Nextflow log line\n" {
		t.Errorf("content = %q", got)
	}
	if _, err := os.Stat(dest + ".tmp"); !os.IsNotExist(err) {
		t.Errorf("temp file left behind")
	}
}

func TestFileStore_Relative(t *testing.T) {
	local := writeLog(t, "x")
	if err := (FileStore{}).Upload(context.Background(), local, "relative/path"); err == nil {
		t.Error("Upload() to a relative path should fail")
	}
}

func TestHTTPStore_Upload(t *testing.T) {
	var gotBody, gotAuth, gotMethod string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotAuth = r.Header.Get("Authorization")
		data, _ := io.ReadAll(r.Body)
		gotBody = string(data)
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	s := NewHTTPStore(HTTPConfig{BearerToken: "secret"})
	local := writeLog(t, "log body")
	if err := s.Upload(context.Background(), local, server.URL+"/logs/run/nextflow.log"); err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if gotMethod != http.MethodPut {
		t.Errorf("method = %s, want PUT", gotMethod)
	}
	if gotAuth != "Bearer secret" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotBody != "log body" {
		t.Errorf("body = %q", gotBody)
	}
}

func TestHTTPStore_Error(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte("denied"))
	}))
	defer server.Close()

	s := NewHTTPStore(HTTPConfig{})
	if err := s.Upload(context.Background(), writeLog(t, "x"), server.URL); err == nil {
		t.Error("Upload() should fail on 403")
	}
}

type fakeUploader struct {
	bucket, key, body string
	err               error
}

func (f *fakeUploader) Upload(_ context.Context, in *s3.PutObjectInput, _ ...func(*manager.Uploader)) (*manager.UploadOutput, error) {
	f.bucket = aws.ToString(in.Bucket)
	f.key = aws.ToString(in.Key)
	data, _ := io.ReadAll(in.Body)
	f.body = string(data)
	return &manager.UploadOutput{}, f.err
}

func TestS3Store_Upload(t *testing.T) {
	fake := &fakeUploader{}
	s := &S3Store{uploader: fake}
	local := writeLog(t, "s3 content")

	if err := s.Upload(context.Background(), local, "s3://logs/nf_nf_core_isoseq/run/nextflow.log"); err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if fake.bucket != "logs" || fake.key != "nf_nf_core_isoseq/run/nextflow.log" {
		t.Errorf("uploaded to %s/%s", fake.bucket, fake.key)
	}
	if fake.body != "s3 content" {
		t.Errorf("body = %q", fake.body)
	}

	fake.err = errors.New("access denied")
	if err := s.Upload(context.Background(), local, "s3://logs/k"); err == nil {
		t.Error("Upload() should surface uploader errors")
	}
}

type recordingStore struct{ remotes []string }

func (r *recordingStore) Upload(_ context.Context, _, remote string) error {
	r.remotes = append(r.remotes, remote)
	return nil
}

func TestComposite_Routes(t *testing.T) {
	s3Rec, fileRec := &recordingStore{}, &recordingStore{}
	c := NewComposite(map[string]Store{SchemeS3: s3Rec, SchemeFile: fileRec})

	ctx := context.Background()
	if err := c.Upload(ctx, "l", "s3://b/k"); err != nil {
		t.Fatal(err)
	}
	if err := c.Upload(ctx, "l", "/abs/path"); err != nil {
		t.Fatal(err)
	}
	if len(s3Rec.remotes) != 1 || len(fileRec.remotes) != 1 {
		t.Errorf("routing: s3=%v file=%v", s3Rec.remotes, fileRec.remotes)
	}
	if err := c.Upload(ctx, "l", "gs://b/k"); err == nil {
		t.Error("Upload() for an unregistered scheme should fail")
	}
	if c.Supports("gs://b/k") {
		t.Error("Supports(gs://) = true")
	}
}

func TestNew_RejectsUnknownScheme(t *testing.T) {
	if _, err := New(context.Background(), "latch:///your_log_dir", Config{}); err == nil {
		t.Error("New() should reject latch:// bases")
	}
	c, err := New(context.Background(), "file:///tmp/logs", Config{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if !c.Supports("file:///tmp/logs/x") || !c.Supports("https://host/x") {
		t.Error("file and https stores should be registered")
	}
}
