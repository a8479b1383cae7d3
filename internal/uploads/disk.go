package uploads

import (
	"context"
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
)

// DiskStore keeps images in <root>/uploads/produtos.
type DiskStore struct {
	root string
}

func NewDiskStore(root string) *DiskStore {
	return &DiskStore{root: root}
}

// Dir — каталог, который раздаётся как /uploads
func (s *DiskStore) Dir() string {
	return filepath.Join(s.root, "uploads")
}

func (s *DiskStore) Save(c *gin.Context, file *multipart.FileHeader) (string, error) {
	dir := filepath.Join(s.root, filepath.FromSlash(URLPrefix))
	if err := os.MkdirAll(dir, 0o755); err != nil { // гарантируем наличие папки
		return "", fmt.Errorf("create uploads dir: %w", err)
	}

	name := newName(file.Filename)
	if err := c.SaveUploadedFile(file, filepath.Join(dir, name)); err != nil {
		return "", fmt.Errorf("save image file: %w", err)
	}
	return URLPrefix + name, nil
}

func (s *DiskStore) Remove(_ context.Context, relPath string) error {
	clean, ok := withinUploads(relPath)
	if !ok {
		return fmt.Errorf("image path %q is outside the uploads directory", relPath)
	}
	p := filepath.Join(s.root, filepath.FromSlash(clean))
	if !fileExists(p) {
		return nil
	}
	if err := os.Remove(p); err != nil {
		return fmt.Errorf("remove image: %w", err)
	}
	return nil
}

// helper для проверки наличия файла
func fileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
