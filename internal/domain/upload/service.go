package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultMaxFileSize = 5 * 1024 * 1024 // 5 MB
	DefaultDir         = "./uploads"
	URLPrefix          = "/uploads"
)

// AllowedMimeTypes defines which image types are accepted
var AllowedMimeTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// Storage keeps uploaded images as flat files in one directory.
// Stored names are opaque and never collide.
type Storage struct {
	dir     string
	maxSize int64
}

func NewStorage(dir string, maxSize int64) (*Storage, error) {
	if dir == "" {
		dir = DefaultDir
	}
	if maxSize <= 0 {
		maxSize = DefaultMaxFileSize
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &Storage{dir: dir, maxSize: maxSize}, nil
}

func (s *Storage) Dir() string { return s.dir }

// Save validates the uploaded image and writes it to disk.
// Returns the stored file name.
func (s *Storage) Save(ctx context.Context, fileHeader *multipart.FileHeader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if fileHeader.Size == 0 {
		return "", ErrEmptyFile
	}
	if fileHeader.Size > s.maxSize {
		return "", ErrFileTooLarge
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	// Detect MIME type from first 512 bytes
	buf := make([]byte, 512)
	n, err := io.ReadFull(file, buf)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	if n == 0 {
		return "", ErrEmptyFile
	}
	mimeType := strings.Split(http.DetectContentType(buf[:n]), ";")[0]
	if !AllowedMimeTypes[mimeType] {
		return "", ErrInvalidMimeType
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("failed to rewind file: %w", err)
	}

	filename := fmt.Sprintf("%s_%s%s", uuid.New().String(), sanitizeName(fileHeader.Filename), mimeToExt(mimeType))
	absPath := filepath.Join(s.dir, filename)

	dst, err := os.OpenFile(absPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}

	written, copyErr := io.Copy(dst, io.LimitReader(file, s.maxSize+1))
	closeErr := dst.Close()
	switch {
	case copyErr != nil:
		_ = os.Remove(absPath)
		return "", fmt.Errorf("failed to write file: %w", copyErr)
	case closeErr != nil:
		_ = os.Remove(absPath)
		return "", fmt.Errorf("failed to close file: %w", closeErr)
	case written > s.maxSize:
		_ = os.Remove(absPath)
		return "", ErrFileTooLarge
	}

	return filename, nil
}

// Remove deletes a stored file. A missing file is not an error.
func (s *Storage) Remove(name string) error {
	if !isStoredName(name) {
		return ErrInvalidName
	}
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove %s: %w", name, err)
	}
	return nil
}

// Prune removes every stored file whose name is not in keep and returns
// the removed names. Hidden files, subdirectories and files modified within
// minAge are left alone: a fresh file may belong to a product whose row is
// not committed yet.
func (s *Storage) Prune(ctx context.Context, keep map[string]struct{}, minAge time.Duration) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload directory: %w", err)
	}

	var removed []string
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return removed, err
		}
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		if _, ok := keep[name]; ok {
			continue
		}
		info, err := e.Info()
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return removed, fmt.Errorf("failed to stat %s: %w", name, err)
		}
		if time.Since(info.ModTime()) < minAge {
			continue
		}
		if err := s.Remove(name); err != nil {
			return removed, err
		}
		removed = append(removed, name)
	}
	return removed, nil
}

func isStoredName(name string) bool {
	return name != "" && name != "." && name != ".." && filepath.Base(name) == name && !strings.ContainsAny(name, `/\`)
}

func sanitizeName(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.TrimSuffix(name, filepath.Ext(name)) // strip extension (added separately)
	name = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' {
			return r
		}
		return '_'
	}, name)
	if len(name) > 40 {
		name = name[:40]
	}
	if name == "" || name == "." {
		return "image"
	}
	return name
}

func mimeToExt(mime string) string {
	switch mime {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ".bin"
	}
}
