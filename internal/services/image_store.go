package services

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ImageStore writes base64 data-URI payloads to the media directory and
// hands back the relative path stored on the recipe.
type ImageStore struct {
	dir string
}

func NewImageStore(dir string) (*ImageStore, error) {
	if err := os.MkdirAll(filepath.Join(dir, "recipes"), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create media dir: %w", err)
	}
	return &ImageStore{dir: dir}, nil
}

var imageExtensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// Save accepts "data:image/png;base64,...." payloads. Filenames are random
// so concurrent uploads never collide.
func (s *ImageStore) Save(dataURI string) (string, error) {
	mime, encoded, ok := splitDataURI(dataURI)
	if !ok {
		return "", newValidationError("image", "image must be a base64 data URI")
	}

	ext, ok := imageExtensions[mime]
	if !ok {
		return "", newValidationError("image", "unsupported image type "+mime)
	}

	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", newValidationError("image", "invalid base64 payload")
	}

	name := filepath.Join("recipes", uuid.New().String()+ext)
	if err := os.WriteFile(filepath.Join(s.dir, name), raw, 0o644); err != nil {
		return "", fmt.Errorf("failed to write image: %w", err)
	}

	return filepath.ToSlash(name), nil
}

func splitDataURI(uri string) (mime, payload string, ok bool) {
	if !strings.HasPrefix(uri, "data:") {
		return "", "", false
	}
	meta, payload, found := strings.Cut(uri[len("data:"):], ",")
	if !found {
		return "", "", false
	}
	mime, _, _ = strings.Cut(meta, ";")
	return mime, payload, true
}
