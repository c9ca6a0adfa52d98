// Package storage keeps export files and serves import workbooks, on the
// local filesystem or in Azure Blob Storage.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/straye-as/client-admin/internal/config"
	"go.uber.org/zap"
)

// ErrNotFound is returned when an object does not exist
var ErrNotFound = errors.New("object not found")

// ErrInvalidName is returned for empty or escaping object names
var ErrInvalidName = errors.New("invalid object name")

// Storage stores named objects
type Storage interface {
	// Put writes data under name and returns the number of bytes written
	Put(ctx context.Context, name, contentType string, data io.Reader) (int64, error)
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	Delete(ctx context.Context, name string) error
	// Location describes where name lives, for messages
	Location(name string) string
}

// NewStorage creates the storage selected by cfg.Mode
func NewStorage(cfg *config.StorageConfig, logger *zap.Logger) (Storage, error) {
	switch cfg.Mode {
	case "local", "":
		return NewLocalStorage(cfg.LocalBasePath)
	case "cloud", "azure":
		if cfg.CloudConnectionString == "" {
			return nil, fmt.Errorf("cloud connection string required for azure storage")
		}
		return NewAzureBlobStorage(cfg.CloudConnectionString, cfg.CloudContainer, logger)
	default:
		return nil, fmt.Errorf("unsupported storage mode: %s", cfg.Mode)
	}
}

// ExportName builds a unique object name for an export file, grouped by day:
// exports/2024/05/01/<uuid>-clients.csv
func ExportName(filename string, now time.Time) string {
	return path.Join("exports", now.UTC().Format("2006/01/02"), uuid.New().String()+"-"+filename)
}

// CleanName normalizes name to a slash-separated relative path
func CleanName(name string) (string, error) {
	name = strings.TrimSpace(strings.ReplaceAll(name, "\\", "/"))
	clean := path.Clean("/" + name)[1:]
	if clean == "" || clean == "." {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return clean, nil
}

// LocalStorage keeps objects under a base directory
type LocalStorage struct {
	basePath string
}

// NewLocalStorage creates basePath if needed
func NewLocalStorage(basePath string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &LocalStorage{basePath: basePath}, nil
}

func (s *LocalStorage) fullPath(name string) (string, error) {
	clean, err := CleanName(name)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.basePath, filepath.FromSlash(clean)), nil
}

// Put writes data to basePath/name, replacing any existing file
func (s *LocalStorage) Put(_ context.Context, name, _ string, data io.Reader) (int64, error) {
	full, err := s.fullPath(name)
	if err != nil {
		return 0, err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return 0, fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(full)
	if err != nil {
		return 0, fmt.Errorf("failed to create file: %w", err)
	}
	size, err := io.Copy(file, data)
	if cerr := file.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(full)
		return 0, fmt.Errorf("failed to write file: %w", err)
	}
	return size, nil
}

// Open opens basePath/name for reading
func (s *LocalStorage) Open(_ context.Context, name string) (io.ReadCloser, error) {
	full, err := s.fullPath(name)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(full)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return file, nil
}

// Delete removes basePath/name. Missing files are not an error.
func (s *LocalStorage) Delete(_ context.Context, name string) error {
	full, err := s.fullPath(name)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// Location returns the file path of name
func (s *LocalStorage) Location(name string) string {
	full, err := s.fullPath(name)
	if err != nil {
		return name
	}
	return full
}
