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
)

// StaticURLPrefix - префикс, под которым роутер раздаёт каталог загрузок.
const StaticURLPrefix = "/static/"

var ErrInvalidKey = errors.New("invalid storage key")

type localUploader struct {
	root string
}

// NewLocalUploader сохраняет файлы в dir и отдаёт ссылки вида /static/{key}.
func NewLocalUploader(dir string) (FileUploader, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve upload dir %q: %w", dir, err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir %q: %w", abs, err)
	}
	return &localUploader{root: abs}, nil
}

func (u *localUploader) resolve(key string) (string, error) {
	clean := path.Clean("/" + key)
	if clean == "/" {
		return "", ErrInvalidKey
	}
	full := filepath.Join(u.root, filepath.FromSlash(clean))
	if !strings.HasPrefix(full, u.root+string(os.PathSeparator)) {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return full, nil
}

func (u *localUploader) Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error) {
	full, err := u.resolve(key)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory for %s: %w", key, err)
	}

	f, err := os.Create(full)
	if err != nil {
		return nil, fmt.Errorf("failed to create file for %s: %w", key, err)
	}
	if _, err := io.Copy(f, reader); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write file for %s: %w", key, err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("failed to close file for %s: %w", key, err)
	}

	return &UploadResult{Key: key, Location: u.GetPublicURL(key)}, nil
}

func (u *localUploader) Delete(ctx context.Context, key string) error {
	full, err := u.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete file %s: %w", key, err)
	}
	return nil
}

func (u *localUploader) GetPublicURL(key string) string {
	if key == "" {
		return ""
	}
	return StaticURLPrefix + strings.TrimPrefix(key, "/")
}
