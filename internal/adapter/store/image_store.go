package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"immobiliare-core/internal/domain/entity"
)

// GeneratedImagesPath is the URL prefix generated images are served under.
const GeneratedImagesPath = "/generated_images"

// LocalImageStore writes generated images to a directory served as static files.
type LocalImageStore struct {
	dir     string
	baseURL string
}

func NewLocalImageStore(dir, publicBaseURL string) (*LocalImageStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create generated images dir: %w", err)
	}
	return &LocalImageStore{
		dir:     dir,
		baseURL: strings.TrimRight(publicBaseURL, "/"),
	}, nil
}

func (s *LocalImageStore) Dir() string { return s.dir }

func (s *LocalImageStore) Save(_ context.Context, img *entity.GeneratedImage) (string, error) {
	data, err := img.Payload.Bytes()
	if err != nil {
		return "", err
	}
	name := fmt.Sprintf("renovated_%s.png", uuid.NewString())
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("write generated image: %w", err)
	}
	return s.baseURL + GeneratedImagesPath + "/" + name, nil
}
