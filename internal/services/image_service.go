package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"estatehub/internal/config"
	resp "estatehub/internal/models/response_models"
	"estatehub/internal/repositories"
	"estatehub/internal/storage"
	"estatehub/pkg/utils"
)

// ImageUpload is one file of a multipart batch. Data may be truncated just
// past the size ceiling; Size is the size the client declared.
type ImageUpload struct {
	Filename string
	Size     int64
	Data     []byte
}

type ValidImage struct {
	Filename    string
	ContentType string
	Data        []byte
}

type UploadLimits struct {
	MaxFileBytes int64
	MaxImages    int
	AllowedTypes []string
}

func LimitsFromConfig(cfg *config.Config) UploadLimits {
	return UploadLimits{
		MaxFileBytes: cfg.Uploads.MaxFileBytes,
		MaxImages:    cfg.Uploads.MaxImages,
		AllowedTypes: cfg.Uploads.AllowedTypes,
	}
}

// ValidateImages splits a batch into files that may be uploaded and files
// that are rejected, each with a reason. kept counts images the listing
// already holds and will keep.
func ValidateImages(files []ImageUpload, kept int, limits UploadLimits) ([]ValidImage, []resp.RejectedImage) {
	valid := make([]ValidImage, 0, len(files))
	rejected := make([]resp.RejectedImage, 0)

	for _, f := range files {
		name := f.Filename
		if name == "" {
			name = "unnamed"
		}

		size := f.Size
		if int64(len(f.Data)) > size {
			size = int64(len(f.Data))
		}
		if size == 0 {
			rejected = append(rejected, resp.RejectedImage{Filename: name, Reason: "file is empty"})
			continue
		}
		if limits.MaxFileBytes > 0 && size > limits.MaxFileBytes {
			rejected = append(rejected, resp.RejectedImage{
				Filename: name,
				Reason:   fmt.Sprintf("file exceeds %d MB", limits.MaxFileBytes>>20),
			})
			continue
		}

		mt := mimetype.Detect(f.Data)
		if !allowedType(mt, limits.AllowedTypes) {
			rejected = append(rejected, resp.RejectedImage{
				Filename: name,
				Reason:   fmt.Sprintf("unsupported file type %s", mt.String()),
			})
			continue
		}

		if limits.MaxImages > 0 && kept+len(valid) >= limits.MaxImages {
			rejected = append(rejected, resp.RejectedImage{
				Filename: name,
				Reason:   fmt.Sprintf("a listing may hold at most %d images", limits.MaxImages),
			})
			continue
		}

		valid = append(valid, ValidImage{
			Filename:    name,
			ContentType: strings.SplitN(mt.String(), ";", 2)[0],
			Data:        f.Data,
		})
	}
	return valid, rejected
}

func allowedType(mt *mimetype.MIME, allowed []string) bool {
	for _, a := range allowed {
		if mt.Is(a) {
			return true
		}
	}
	return false
}

// ImageManager owns object-store side effects for listing and avatar
// images. Deletes that fail are staged for the reconciler instead of being
// dropped.
type ImageManager interface {
	UploadBatch(ctx context.Context, listingID uuid.UUID, images []ValidImage) (urls []string, keys []string, err error)
	UploadAvatar(ctx context.Context, accountID uuid.UUID, image ValidImage) (url string, key string, err error)
	// DiscardKeys removes objects and stages any it could not remove.
	DiscardKeys(ctx context.Context, entityID uuid.UUID, keys []string, reason string)
	DiscardURLs(ctx context.Context, entityID uuid.UUID, urls []string, reason string)
	PurgeListing(ctx context.Context, listingID uuid.UUID)
}

type imageManager struct {
	store   storage.ImageStore
	pending repositories.ImageDeletionRepository
	log     *zap.Logger
}

func NewImageManager(store storage.ImageStore, pending repositories.ImageDeletionRepository, log *zap.Logger) ImageManager {
	return &imageManager{store: store, pending: pending, log: log}
}

func (m *imageManager) UploadBatch(ctx context.Context, listingID uuid.UUID, images []ValidImage) ([]string, []string, error) {
	urls := make([]string, 0, len(images))
	keys := make([]string, 0, len(images))

	for _, img := range images {
		key := storage.ObjectKey(storage.CollectionListings, listingID, img.Filename)
		url, err := m.store.Upload(ctx, key, img.Data, img.ContentType)
		if err != nil {
			m.log.Error("image upload failed",
				zap.String("listing_id", listingID.String()),
				zap.String("key", key),
				zap.Error(err))
			m.DiscardKeys(ctx, listingID, keys, "upload batch aborted")
			return nil, nil, utils.ErrStorageError
		}
		urls = append(urls, url)
		keys = append(keys, key)
	}
	return urls, keys, nil
}

func (m *imageManager) UploadAvatar(ctx context.Context, accountID uuid.UUID, img ValidImage) (string, string, error) {
	key := storage.ObjectKey(storage.CollectionAccounts, accountID, img.Filename)
	url, err := m.store.Upload(ctx, key, img.Data, img.ContentType)
	if err != nil {
		m.log.Error("avatar upload failed",
			zap.String("account_id", accountID.String()),
			zap.String("key", key),
			zap.Error(err))
		return "", "", utils.ErrStorageError
	}
	return url, key, nil
}

func (m *imageManager) DiscardKeys(ctx context.Context, entityID uuid.UUID, keys []string, reason string) {
	var failed []string
	for _, key := range keys {
		if err := m.store.Delete(ctx, key); err != nil {
			m.log.Warn("image delete failed, staging for retry",
				zap.String("key", key), zap.Error(err))
			failed = append(failed, key)
		}
	}
	m.stage(ctx, entityID, failed, reason)
}

func (m *imageManager) DiscardURLs(ctx context.Context, entityID uuid.UUID, urls []string, reason string) {
	keys := make([]string, 0, len(urls))
	for _, u := range urls {
		key, ok := m.store.KeyFromURL(u)
		if !ok {
			m.log.Warn("image url is not managed by the store", zap.String("url", u))
			continue
		}
		keys = append(keys, key)
	}
	m.DiscardKeys(ctx, entityID, keys, reason)
}

func (m *imageManager) PurgeListing(ctx context.Context, listingID uuid.UUID) {
	prefix := storage.EntityPrefix(storage.CollectionListings, listingID)
	failed, err := m.store.DeletePrefix(ctx, prefix)
	if err != nil {
		m.log.Warn("listing image purge failed, staging prefix for retry",
			zap.String("listing_id", listingID.String()), zap.Error(err))
		m.stage(ctx, listingID, []string{prefix}, "listing deleted")
		return
	}
	m.stage(ctx, listingID, failed, "listing deleted")
}

func (m *imageManager) stage(ctx context.Context, entityID uuid.UUID, keys []string, reason string) {
	if len(keys) == 0 {
		return
	}
	if err := m.pending.Stage(ctx, entityID, keys, reason); err != nil {
		m.log.Error("could not stage image deletions",
			zap.Strings("keys", keys), zap.Error(err))
	}
}
