// Package storage keeps listing and profile images in an S3-compatible
// bucket. Object keys follow <collection>-images/<entity-id>/<filename>.
package storage

import (
	"context"
	"fmt"
	"path"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

type ImageStore interface {
	// Upload stores body under key and returns its public URL.
	Upload(ctx context.Context, key string, body []byte, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
	// DeletePrefix removes every object under prefix and returns the keys
	// it could not remove.
	DeletePrefix(ctx context.Context, prefix string) ([]string, error)
	// KeyFromURL maps a public URL produced by Upload back to its key.
	KeyFromURL(url string) (string, bool)
}

const (
	CollectionListings = "listings"
	CollectionAccounts = "accounts"
)

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// SanitizeFilename reduces a client-supplied filename to a safe base name.
func SanitizeFilename(name string) string {
	base := path.Base(strings.ReplaceAll(name, "\\", "/"))
	base = unsafeChars.ReplaceAllString(base, "-")
	base = strings.Trim(base, "-.")
	if base == "" {
		return "image"
	}
	if len(base) > 80 {
		base = base[len(base)-80:]
	}
	return strings.ToLower(base)
}

// EntityPrefix is the folder holding every image of one entity.
func EntityPrefix(collection string, entityID uuid.UUID) string {
	return fmt.Sprintf("%s-images/%s/", collection, entityID)
}

// IsPrefix reports whether key names a whole entity folder rather than
// one object.
func IsPrefix(key string) bool {
	return strings.HasSuffix(key, "/")
}

// ObjectKey builds a unique key for a new upload.
func ObjectKey(collection string, entityID uuid.UUID, filename string) string {
	return EntityPrefix(collection, entityID) + uuid.NewString() + "-" + SanitizeFilename(filename)
}
