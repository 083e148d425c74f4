package storage

import (
	"context"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/google/uuid"

	"estatehub/internal/config"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Front View.JPG", "front-view.jpg"},
		{"../../etc/passwd", "passwd"},
		{`C:\Users\me\kitchen.png`, "kitchen.png"},
		{"???", "image"},
		{"", "image"},
	}
	for _, tt := range tests {
		if got := SanitizeFilename(tt.in); got != tt.want {
			t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestObjectKeyLayout(t *testing.T) {
	id := uuid.New()
	key := ObjectKey(CollectionListings, id, "Lounge.webp")

	prefix := "listings-images/" + id.String() + "/"
	if !strings.HasPrefix(key, prefix) {
		t.Fatalf("key %q does not start with %q", key, prefix)
	}
	if !strings.HasSuffix(key, "-lounge.webp") {
		t.Errorf("key %q lost the file name", key)
	}
	if ObjectKey(CollectionListings, id, "Lounge.webp") == key {
		t.Error("two uploads of the same file produced the same key")
	}
}

type fakeS3 struct {
	s3iface.S3API
	objects   map[string][]byte
	failOnDel map[string]bool
}

func (f *fakeS3) PutObjectWithContext(_ aws.Context, in *s3.PutObjectInput, _ ...request.Option) (*s3.PutObjectOutput, error) {
	buf := make([]byte, aws.Int64Value(in.ContentLength))
	_, _ = in.Body.Read(buf)
	f.objects[aws.StringValue(in.Key)] = buf
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObjectWithContext(_ aws.Context, in *s3.DeleteObjectInput, _ ...request.Option) (*s3.DeleteObjectOutput, error) {
	key := aws.StringValue(in.Key)
	if f.failOnDel[key] {
		return nil, context.DeadlineExceeded
	}
	delete(f.objects, key)
	return &s3.DeleteObjectOutput{}, nil
}

func (f *fakeS3) ListObjectsV2PagesWithContext(_ aws.Context, in *s3.ListObjectsV2Input, fn func(*s3.ListObjectsV2Output, bool) bool, _ ...request.Option) error {
	out := &s3.ListObjectsV2Output{}
	for key := range f.objects {
		if strings.HasPrefix(key, aws.StringValue(in.Prefix)) {
			out.Contents = append(out.Contents, &s3.Object{Key: aws.String(key)})
		}
	}
	fn(out, true)
	return nil
}

func newTestStore(fake *fakeS3) ImageStore {
	cfg := config.Default()
	cfg.Storage.Bucket = "estate"
	cfg.Storage.PublicBaseURL = "https://cdn.example.com/estate/"
	return NewS3Store(fake, cfg)
}

func TestS3StoreRoundTrip(t *testing.T) {
	fake := &fakeS3{objects: map[string][]byte{}}
	store := newTestStore(fake)
	ctx := context.Background()

	url, err := store.Upload(ctx, "listings-images/a/1-x.jpg", []byte("jpeg"), "image/jpeg")
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if url != "https://cdn.example.com/estate/listings-images/a/1-x.jpg" {
		t.Fatalf("url = %q", url)
	}

	key, ok := store.KeyFromURL(url)
	if !ok || key != "listings-images/a/1-x.jpg" {
		t.Fatalf("KeyFromURL = %q, %v", key, ok)
	}
	if _, ok := store.KeyFromURL("https://elsewhere.example.com/x.jpg"); ok {
		t.Error("foreign URL mapped to a key")
	}

	if err := store.Delete(ctx, key); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(fake.objects) != 0 {
		t.Errorf("object still present: %v", fake.objects)
	}
}

func TestS3StoreDeletePrefixReportsFailures(t *testing.T) {
	fake := &fakeS3{
		objects: map[string][]byte{
			"listings-images/a/1.jpg": nil,
			"listings-images/a/2.jpg": nil,
			"listings-images/b/3.jpg": nil,
		},
		failOnDel: map[string]bool{"listings-images/a/2.jpg": true},
	}
	store := newTestStore(fake)

	failed, err := store.DeletePrefix(context.Background(), "listings-images/a/")
	if err != nil {
		t.Fatalf("DeletePrefix: %v", err)
	}
	if len(failed) != 1 || failed[0] != "listings-images/a/2.jpg" {
		t.Errorf("failed = %v", failed)
	}
	if _, ok := fake.objects["listings-images/b/3.jpg"]; !ok {
		t.Error("object outside prefix was removed")
	}
	if _, ok := fake.objects["listings-images/a/1.jpg"]; ok {
		t.Error("object under prefix was kept")
	}
}
