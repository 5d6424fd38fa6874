package archive

import (
	"context"
	"errors"
	"io"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"

	"studivio/internal/config"
	"studivio/internal/services"
)

type fakeObjectStore struct {
	bucket      string
	key         string
	body        string
	contentType string
	metadata    map[string]string
	putErr      error
	exists      bool
}

func (f *fakeObjectStore) PutObject(_ context.Context, bucket, object string, reader io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	if f.putErr != nil {
		return minio.UploadInfo{}, f.putErr
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return minio.UploadInfo{}, err
	}
	if int64(len(data)) != size {
		return minio.UploadInfo{}, errors.New("size mismatch")
	}
	f.bucket, f.key, f.body, f.contentType = bucket, object, string(data), opts.ContentType
	f.metadata = opts.UserMetadata
	return minio.UploadInfo{Bucket: bucket, Key: object, Size: size}, nil
}

func (f *fakeObjectStore) BucketExists(context.Context, string) (bool, error) {
	return f.exists, nil
}

func TestObjectKeyLayout(t *testing.T) {
	at := time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC)
	got := ObjectKey("Alice", "../Week 1: Cells?.pdf", at, "abc")
	want := "alice/2026/03/abc-Week-1-Cells.pdf"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestObjectKeySegmentsAreASCII(t *testing.T) {
	at := time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC)
	cases := []struct {
		user, filename, want string
	}{
		{"alice", "Résumé 📄.PDF", "alice/2026/03/id-Resume.pdf"},
		{"alice", "日本語.mp3", "alice/2026/03/id-upload.mp3"},
		{"alice", `C:\Users\bob\lecture  notes.m4a`, "alice/2026/03/id-lecture-notes.m4a"},
		{"alice", "my.notes v2.pdf", "alice/2026/03/id-my.notes-v2.pdf"},
		{"alice", "", "alice/2026/03/id-upload"},
		{"Alice Smith!", "a.pdf", "alice-smith/2026/03/id-a.pdf"},
		{"  ", "a.pdf", "unknown/2026/03/id-a.pdf"},
	}
	for _, tc := range cases {
		got := ObjectKey(tc.user, tc.filename, at, "id")
		if got != tc.want {
			t.Fatalf("ObjectKey(%q, %q) = %q, want %q", tc.user, tc.filename, got, tc.want)
		}
		for _, r := range got {
			if r >= 0x80 {
				t.Fatalf("ObjectKey(%q, %q) = %q contains non-ASCII", tc.user, tc.filename, got)
			}
		}
	}
}

func TestBucketStoreMetadataIsASCII(t *testing.T) {
	fake := &fakeObjectStore{}
	bucket := NewBucket(fake, "uploads")

	filename := "Résumé 📄.pdf"
	if _, err := bucket.Store(context.Background(), "Zoë", filename, []byte("%PDF-1.4")); err != nil {
		t.Fatalf("Store returned error: %v", err)
	}
	for key, value := range fake.metadata {
		for _, r := range value {
			if r >= 0x80 {
				t.Fatalf("metadata %s=%q contains non-ASCII", key, value)
			}
		}
	}
	if fake.metadata["owner"] != "zoe" {
		t.Fatalf("unexpected owner metadata %q", fake.metadata["owner"])
	}
	decoded, err := url.PathUnescape(fake.metadata["filename"])
	if err != nil || decoded != filename {
		t.Fatalf("expected filename metadata to round-trip, got %q (%v)", decoded, err)
	}
}

func TestBucketStoreUploadsBytes(t *testing.T) {
	fake := &fakeObjectStore{}
	bucket := NewBucket(fake, "uploads")
	bucket.now = func() time.Time { return time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC) }

	key, err := bucket.Store(context.Background(), "alice", "notes.pdf", []byte("%PDF-1.4"))
	if err != nil {
		t.Fatalf("Store returned error: %v", err)
	}
	if !strings.HasPrefix(key, "alice/2026/10/") || !strings.HasSuffix(key, "-notes.pdf") {
		t.Fatalf("unexpected key %q", key)
	}
	if fake.bucket != "uploads" || fake.key != key || fake.body != "%PDF-1.4" {
		t.Fatalf("unexpected upload %#v", fake)
	}
	if fake.contentType != "application/pdf" {
		t.Fatalf("expected pdf content type, got %q", fake.contentType)
	}
}

func TestBucketStoreFailureIsUpstream(t *testing.T) {
	bucket := NewBucket(&fakeObjectStore{putErr: errors.New("connection refused")}, "uploads")
	if _, err := bucket.Store(context.Background(), "alice", "a.mp3", []byte("x")); !errors.Is(err, services.ErrUpstream) {
		t.Fatalf("expected upstream error, got %v", err)
	}
}

func TestBucketCheck(t *testing.T) {
	if err := NewBucket(&fakeObjectStore{exists: true}, "b").Check(context.Background()); err != nil {
		t.Fatalf("Check returned error: %v", err)
	}
	if err := NewBucket(&fakeObjectStore{}, "b").Check(context.Background()); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected missing bucket to be a configuration error, got %v", err)
	}
}

func TestNewDisabledIsNoop(t *testing.T) {
	cfg := config.Default()
	archiver, err := New(&cfg)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	key, err := archiver.Store(context.Background(), "alice", "a.pdf", []byte("x"))
	if err != nil || key != "" {
		t.Fatalf("expected no-op store, got %q %v", key, err)
	}
}
