package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

type UploadResult struct {
	Key      string
	Location string
	ETag     string
}

type FileUploader interface {
	Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error)

	Delete(ctx context.Context, key string) error

	GetPublicURL(key string) string
}

var ErrUnsupportedExtension = errors.New("unsupported file extension")

var imageExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
}

// ImageContentType возвращает content type для разрешённого расширения фото.
func ImageContentType(filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	ct, ok := imageExtensions[ext]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedExtension, ext)
	}
	return ct, nil
}

// FighterPhotoKey строит ключ вида fighters/{id}_{имя}{ext}. Имя файла от клиента
// прогоняется через slug, поэтому "../" и прочие разделители в ключ не попадают.
func FighterPhotoKey(fighterID int, filename string) string {
	base, ext := splitName(filename)
	return path.Join("fighters", fmt.Sprintf("%d_%s%s", fighterID, base, ext))
}

// MediaKey - ключ медиафайла события; uuid исключает перезапись одноимённых файлов.
func MediaKey(eventID int, filename string) string {
	base, ext := splitName(filename)
	return path.Join("events", fmt.Sprintf("%d", eventID), fmt.Sprintf("%s_%s%s", uuid.NewString()[:8], base, ext))
}

func splitName(filename string) (string, string) {
	name := filepath.Base(strings.ReplaceAll(filename, `\`, "/"))
	ext := strings.ToLower(filepath.Ext(name))
	base := slug.Make(strings.TrimSuffix(name, filepath.Ext(name)))
	if base == "" {
		base = "file"
	}
	// расширение тоже чистим: в нём не должно быть ничего, кроме букв и цифр
	cleanExt := slug.Make(strings.TrimPrefix(ext, "."))
	if cleanExt == "" {
		return base, ""
	}
	return base, "." + cleanExt
}
