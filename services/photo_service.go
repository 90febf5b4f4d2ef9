package services

import (
	"context"
	"fmt"
	"io"
	"log"
	"path"
	"strings"

	"github.com/google/uuid"
)

// ObjectStore is the slice of the photo bucket this service needs. Allows
// injecting the real bucket from main and a fake in tests.
type ObjectStore interface {
	Upload(ctx context.Context, objectName, contentType string, r io.Reader) (string, error)
	Delete(ctx context.Context, objectName string) error
}

type PhotoService struct {
	participants *ParticipantService
	store        ObjectStore
}

func NewPhotoService(participants *ParticipantService, store ObjectStore) *PhotoService {
	return &PhotoService{participants: participants, store: store}
}

var allowedPhotoTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// UploadProgressPhoto stores the caller's progress photo and records its
// public URL on their participant row. A previous photo is removed from the
// bucket best-effort after the new one is in place.
func (s *PhotoService) UploadProgressPhoto(ctx context.Context, clerkID, contentType string, r io.Reader) (string, error) {
	if s.store == nil {
		return "", fmt.Errorf("photo storage is not configured")
	}

	ext, ok := allowedPhotoTypes[contentType]
	if !ok {
		return "", fmt.Errorf("unsupported photo type %q", contentType)
	}

	p, err := s.participants.GetByClerkID(ctx, clerkID)
	if err != nil {
		return "", err
	}

	objectName := fmt.Sprintf("progress-photos/%s/%s%s", p.ID, uuid.New(), ext)
	url, err := s.store.Upload(ctx, objectName, contentType, r)
	if err != nil {
		return "", fmt.Errorf("failed to upload photo: %w", err)
	}

	if err := s.participants.SetPhotoURL(ctx, clerkID, url); err != nil {
		return "", err
	}

	if p.PhotoURL != nil {
		if old, ok := objectNameFromURL(*p.PhotoURL); ok {
			if err := s.store.Delete(ctx, old); err != nil {
				// The new photo is already live; a stale object is only cost.
				log.Printf("Failed to delete previous photo %s: %v", old, err)
			}
		}
	}

	return url, nil
}

// objectNameFromURL recovers the bucket object name from a public
// storage.googleapis.com URL.
func objectNameFromURL(url string) (string, bool) {
	const prefix = "https://storage.googleapis.com/"
	if !strings.HasPrefix(url, prefix) {
		return "", false
	}
	rest := strings.TrimPrefix(url, prefix)
	// Strip the leading bucket segment.
	parts := strings.SplitN(rest, "/", 2)
	if len(parts) != 2 || path.Clean(parts[1]) == "." {
		return "", false
	}
	return parts[1], true
}
