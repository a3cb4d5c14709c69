package blobs

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/speculo/internal/common"
	"github.com/ternarybob/speculo/internal/interfaces"
)

// blobMeta is the sidecar metadata written next to each blob.
type blobMeta struct {
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

// Store is a filesystem-backed blob store. Keys map to paths under the base
// directory and retrieval URLs are served from the configured base URL, so
// stored URLs stay valid for the life of the deployment.
type Store struct {
	baseDir string
	baseURL string
	logger  arbor.ILogger
}

// NewStore creates a filesystem blob store rooted at the configured path.
func NewStore(config *common.BlobConfig, logger arbor.ILogger) (interfaces.BlobStore, error) {
	if err := os.MkdirAll(config.Path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create blob directory: %w", err)
	}

	return &Store{
		baseDir: config.Path,
		baseURL: strings.TrimSuffix(config.BaseURL, "/"),
		logger:  logger,
	}, nil
}

func (s *Store) Write(key string, data []byte, contentType string) error {
	path, err := s.resolve(key)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create blob directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write blob %s: %w", key, err)
	}

	meta := blobMeta{ContentType: contentType, Size: int64(len(data))}
	metaData, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("failed to encode blob metadata: %w", err)
	}
	if err := os.WriteFile(path+".meta", metaData, 0644); err != nil {
		return fmt.Errorf("failed to write blob metadata %s: %w", key, err)
	}

	s.logger.Debug().
		Str("key", key).
		Str("content_type", contentType).
		Int("size", len(data)).
		Msg("Blob stored")

	return nil
}

func (s *Store) Read(key string) ([]byte, error) {
	path, err := s.resolve(key)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, interfaces.ErrNotFound
		}
		return nil, fmt.Errorf("failed to read blob %s: %w", key, err)
	}
	return data, nil
}

func (s *Store) Exists(key string) (bool, error) {
	path, err := s.resolve(key)
	if err != nil {
		return false, err
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat blob %s: %w", key, err)
	}
	return true, nil
}

func (s *Store) ContentType(key string) string {
	path, err := s.resolve(key)
	if err != nil {
		return ""
	}

	data, err := os.ReadFile(path + ".meta")
	if err != nil {
		return ""
	}

	var meta blobMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		return ""
	}
	return meta.ContentType
}

// URL returns the long-lived retrieval URL for a key.
func (s *Store) URL(key string) string {
	return s.baseURL + "/" + strings.TrimPrefix(key, "/")
}

// resolve maps a key to a filesystem path, rejecting traversal outside the
// base directory.
func (s *Store) resolve(key string) (string, error) {
	if key == "" {
		return "", fmt.Errorf("blob key is required")
	}

	cleaned := filepath.Clean(strings.TrimPrefix(key, "/"))
	if cleaned == "." || strings.HasPrefix(cleaned, "..") {
		return "", fmt.Errorf("invalid blob key: %s", key)
	}
	return filepath.Join(s.baseDir, cleaned), nil
}
