// Package uploads stores product images and removes them when products change.
package uploads

import (
	"context"
	"io"
	"mime/multipart"
	"path"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-faster/errors"
	"github.com/google/uuid"
)

// URLPrefix — префикс относительного пути, который сохраняется в imagemProduto
const URLPrefix = "/uploads/produtos/"

// ErrNotFound is returned by Source.Get when no image is stored under the path.
var ErrNotFound = errors.New("image not found")

// Store is the file store holding product images.
//
// Save returns the relative path to persist with the product. Remove deletes
// the file behind a stored path and is a no-op when it no longer exists.
type Store interface {
	Save(c *gin.Context, file *multipart.FileHeader) (string, error)
	Remove(ctx context.Context, relPath string) error
}

// Object — содержимое картинки, отдаваемое клиенту
type Object struct {
	Body        io.ReadCloser
	ContentType string
	Size        int64
}

// Source reads images back for backends that gin cannot serve as a static directory.
type Source interface {
	Get(ctx context.Context, relPath string) (*Object, error)
}

// newName генерирует уникальное имя, сохраняя расширение исходного файла
func newName(original string) string {
	ext := strings.ToLower(filepath.Ext(original))
	return uuid.NewString() + ext
}

// withinUploads проверяет, что путь после очистки остаётся в /uploads/produtos/
func withinUploads(relPath string) (string, bool) {
	clean := path.Clean("/" + relPath)
	if !strings.HasPrefix(clean, URLPrefix) {
		return "", false
	}
	return clean, true
}
