package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"estatehub/pkg/utils"
)

func TestValidateImages(t *testing.T) {
	big := append(append([]byte(nil), pngBytes...), make([]byte, 2<<20)...)
	files := []ImageUpload{
		{Filename: "ok.png", Size: int64(len(pngBytes)), Data: pngBytes},
		{Filename: "empty.png"},
		{Filename: "huge.png", Size: int64(len(big)), Data: big[:testLimits.MaxFileBytes+1]},
		{Filename: "doc.pdf", Size: 9, Data: []byte("%PDF-1.4\n")},
		{Filename: "ok.jpg", Size: int64(len(jpegBytes)), Data: jpegBytes},
		{Filename: "", Size: int64(len(jpegBytes)), Data: jpegBytes},
	}

	valid, rejected := ValidateImages(files, 3, testLimits)

	if len(valid) != 1 || valid[0].Filename != "ok.png" || valid[0].ContentType != "image/png" {
		t.Fatalf("valid = %+v", valid)
	}

	wantRejected := []string{"empty.png", "huge.png", "doc.pdf", "ok.jpg", "unnamed"}
	if len(rejected) != len(wantRejected) {
		t.Fatalf("rejected = %+v", rejected)
	}
	for i, name := range wantRejected {
		if rejected[i].Filename != name || rejected[i].Reason == "" {
			t.Fatalf("rejected[%d] = %+v, want %s with a reason", i, rejected[i], name)
		}
	}
}

func TestUploadBatchCleansUpOnFailure(t *testing.T) {
	store := newFakeImageStore()
	pending := newFakePendingRepo()
	m := NewImageManager(store, pending, zap.NewNop())

	images := []ValidImage{
		{Filename: "a.png", ContentType: "image/png", Data: pngBytes},
		{Filename: "b.png", ContentType: "image/png", Data: pngBytes},
	}
	urls, keys, err := m.UploadBatch(context.Background(), uuid.New(), images)
	if err != nil || len(urls) != 2 || len(keys) != 2 {
		t.Fatalf("UploadBatch = %v %v %v", urls, keys, err)
	}

	store.uploadErr = errors.New("bucket unavailable")
	if _, _, err := m.UploadBatch(context.Background(), uuid.New(), images); !errors.Is(err, utils.ErrStorageError) {
		t.Fatalf("err = %v, want ErrStorageError", err)
	}
	if store.count() != 2 {
		t.Fatalf("store holds %d objects, want the first batch only", store.count())
	}
}

func TestDiscardURLsSkipsForeignURLs(t *testing.T) {
	store := newFakeImageStore("listings-images/x/a.png")
	pending := newFakePendingRepo()
	m := NewImageManager(store, pending, zap.NewNop())

	m.DiscardURLs(context.Background(), uuid.New(), []string{fakeCDN + "listings-images/x/a.png", "https://other.test/b.png"}, "test")

	if store.count() != 0 {
		t.Fatal("managed object not deleted")
	}
	if len(pending.keys()) != 0 {
		t.Fatalf("unexpected staged keys %v", pending.keys())
	}
}
