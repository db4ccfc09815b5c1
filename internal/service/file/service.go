package file

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/presenza-hq/presenza-backend-go/internal/pkg/storage"
)

type FileService interface {
	// UploadAttendancePhoto stores a check-in/check-out face photo and
	// returns its storage path. punch is "in" or "out".
	UploadAttendancePhoto(ctx context.Context, employeeID string, date time.Time, file io.Reader, filename string, punch string) (string, error)

	DeleteFile(ctx context.Context, path string) error
	GetFileURL(ctx context.Context, path string) (string, error)
}

type fileServiceImpl struct {
	storage storage.FileStorage
}

func NewFileService(storage storage.FileStorage) FileService {
	return &fileServiceImpl{
		storage: storage,
	}
}

// UploadAttendancePhoto stores the punch photo under
// attendance/<employee>/<date>/.
func (s *fileServiceImpl) UploadAttendancePhoto(ctx context.Context, employeeID string, date time.Time, file io.Reader, filename string, punch string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	allowedExts := []string{".jpg", ".jpeg", ".png"}

	isValid := false
	for _, allowed := range allowedExts {
		if ext == allowed {
			isValid = true
			break
		}
	}

	if !isValid {
		return "", fmt.Errorf("invalid file type: only jpg, jpeg, png allowed")
	}

	newFilename := fmt.Sprintf("%s-%s-%s%s", punch, date.Format("20060102"), uuid.New().String(), ext)
	path := filepath.Join("attendance", employeeID, date.Format("2006-01-02"), newFilename)

	contentType := "image/jpeg"
	if ext == ".png" {
		contentType = "image/png"
	}

	uploadedPath, err := s.storage.Upload(ctx, file, path, contentType)
	if err != nil {
		return "", fmt.Errorf("failed to upload attendance photo: %w", err)
	}

	return uploadedPath, nil
}

// DeleteFile removes a stored file.
func (s *fileServiceImpl) DeleteFile(ctx context.Context, path string) error {
	if err := s.storage.Delete(ctx, path); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// GetFileURL resolves a stored path to a servable URL.
func (s *fileServiceImpl) GetFileURL(ctx context.Context, path string) (string, error) {
	url, err := s.storage.GetURL(ctx, path)
	if err != nil {
		return "", fmt.Errorf("failed to get file URL: %w", err)
	}
	return url, nil
}
