package storage

import (
	"context"
	"os"
	"path/filepath"
)

type FileProfileStore struct {
	FilePath string
}

func NewFileProfileStore(filePath string) *FileProfileStore {
	return &FileProfileStore{FilePath: filePath}
}

func (p *FileProfileStore) Load(ctx context.Context) ([]byte, error) {
	return os.ReadFile(p.FilePath)
}

type FilePlanStore struct {
	FilePath string
}

func NewFilePlanStore(filePath string) *FilePlanStore {
	return &FilePlanStore{FilePath: filePath}
}

func (p *FilePlanStore) Save(ctx context.Context, data []byte) error {
	if dir := filepath.Dir(p.FilePath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(p.FilePath, data, 0o644)
}

func (p *FilePlanStore) Load(ctx context.Context) ([]byte, error) {
	return os.ReadFile(p.FilePath)
}
