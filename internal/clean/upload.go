package clean

import (
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/Zia-11/web-project/internal/config"
	apperrors "github.com/Zia-11/web-project/pkg/util"
)

const uploadSubdir = "uploads"

// StoredFile references an accepted upload.
type StoredFile struct {
	Name string
	Path string
	URL  string
}

// Uploader stores accepted files under the media root.
type Uploader struct {
	cfg config.UploadConfig
}

// NewUploader builds an uploader for the configured media root.
func NewUploader(cfg config.UploadConfig) *Uploader {
	return &Uploader{cfg: cfg}
}

// MaxBytes returns the configured size limit.
func (u *Uploader) MaxBytes() int64 {
	return u.cfg.MaxBytes
}

// Accept validates and stores an uploaded file. Oversized uploads are
// rejected before anything touches the disk; the declared size is
// checked first and the copy itself is capped in case the header lies.
func (u *Uploader) Accept(header *multipart.FileHeader) (*StoredFile, error) {
	if header == nil {
		return nil, apperrors.NewValidationError("validation failed", apperrors.FieldErrors(map[string][]string{
			"file": {"this field is required"},
		}))
	}
	if header.Size > u.cfg.MaxBytes {
		return nil, apperrors.NewTooLarge(u.cfg.MaxBytes)
	}

	// Strip any path components a hostile client put in the filename.
	name := filepath.Base(filepath.Clean(header.Filename))
	if name == "" || name == "." || name == string(filepath.Separator) {
		return nil, apperrors.NewValidationError("validation failed", apperrors.FieldErrors(map[string][]string{
			"file": {"a valid filename is required"},
		}))
	}

	src, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	dir := filepath.Join(u.cfg.Root, uploadSubdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	dstPath := filepath.Join(dir, name)
	dst, err := os.Create(dstPath)
	if err != nil {
		return nil, err
	}

	written, err := io.Copy(dst, io.LimitReader(src, u.cfg.MaxBytes+1))
	if closeErr := dst.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(dstPath)
		return nil, err
	}
	if written > u.cfg.MaxBytes {
		_ = os.Remove(dstPath)
		return nil, apperrors.NewTooLarge(u.cfg.MaxBytes)
	}

	urlPrefix := strings.TrimSuffix(u.cfg.URLPath, "/")
	return &StoredFile{
		Name: name,
		Path: dstPath,
		URL:  path.Join(urlPrefix, uploadSubdir, name),
	}, nil
}
