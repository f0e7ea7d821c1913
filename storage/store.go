package storage

import (
	"bijouterie_server/structs"
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
)

// Store is the blob store holding repair photos.
type Store interface {
	Upload(ctx context.Context, objectPath string, body io.Reader, size int64, contentType string) error
	PublicURL(objectPath string) string
	Remove(ctx context.Context, objectPaths []string) error
}

// New builds the configured backend.
func New(ctx context.Context, cfg *structs.StorageConfig) (Store, error) {
	switch cfg.Backend {
	case "", "minio":
		return NewMinioStore(cfg)
	case "s3":
		return NewS3Store(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported storage backend %q", cfg.Backend)
	}
}

// PhotoPath scopes a new object under its repair and item: <repair>/<item>/<uuid>.<ext>
func PhotoPath(repairID, itemID uuid.UUID, fileName string) string {
	return fmt.Sprintf("%s/%s/%s.%s", repairID, itemID, uuid.New(), Extension(fileName))
}

// RepairPrefix is the object prefix shared by every photo of a repair.
func RepairPrefix(repairID uuid.UUID) string {
	return repairID.String() + "/"
}

// Extension returns the lowercased file extension, jpg when absent.
func Extension(fileName string) string {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(fileName), "."))
	if ext == "" {
		return "jpg"
	}
	return ext
}

var allowedContentTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

func IsAllowedContentType(contentType string) bool {
	return allowedContentTypes[strings.ToLower(contentType)]
}

func publicURL(base, objectPath string) string {
	return strings.TrimSuffix(base, "/") + "/" + objectPath
}
