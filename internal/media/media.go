// Package media загружает файлы товаров на внешний медиахостинг.
package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"
	"sync"

	"backoffice/internal/domain"
)

// ErrDisabled загрузка не настроена
var ErrDisabled = errors.New("media upload is not configured")

type Uploader interface {
	// Upload возвращает публичный URL загруженного файла
	Upload(ctx context.Context, name string, r io.Reader, kind domain.MediaKind) (string, error)
}

// KindOf определяет тип медиа по Content-Type, затем по расширению
func KindOf(contentType, filename string) domain.MediaKind {
	ct := strings.ToLower(contentType)
	if ct == "" || ct == "application/octet-stream" {
		ct = mime.TypeByExtension(strings.ToLower(filepath.Ext(filename)))
	}
	if strings.HasPrefix(ct, "video/") {
		return domain.MediaVideo
	}
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".mp4", ".mov", ".webm", ".mkv", ".avi":
		return domain.MediaVideo
	}
	return domain.MediaImage
}

// Disabled отклоняет любую загрузку
type Disabled struct{}

func (Disabled) Upload(context.Context, string, io.Reader, domain.MediaKind) (string, error) {
	return "", ErrDisabled
}

// Fake читает файл и возвращает предсказуемый URL (тесты, STORAGE=memory)
type Fake struct {
	BaseURL string

	mu    sync.Mutex
	names []string
}

func (f *Fake) Upload(_ context.Context, name string, r io.Reader, kind domain.MediaKind) (string, error) {
	if _, err := io.Copy(io.Discard, r); err != nil {
		return "", err
	}
	f.mu.Lock()
	f.names = append(f.names, name)
	f.mu.Unlock()
	base := f.BaseURL
	if base == "" {
		base = "https://media.local"
	}
	return fmt.Sprintf("%s/%s/%s", base, kind, filepath.Base(name)), nil
}

func (f *Fake) Uploaded() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.names...)
}
