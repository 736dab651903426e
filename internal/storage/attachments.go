// Package storage keeps complaint attachments on the local filesystem under generated names.
package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/spec-kit/publicvoice/internal/config"
	"github.com/spec-kit/publicvoice/internal/domain"
	apperrors "github.com/spec-kit/publicvoice/pkg/util/errorutil"
)

var allowedTypes = []string{
	"image/jpeg",
	"image/png",
	"image/gif",
	"application/pdf",
	"application/msword",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// LocalStore writes uploads into a directory served at PublicPath.
type LocalStore struct {
	dir        string
	publicPath string
	maxFiles   int
	maxBytes   int64
}

// NewLocalStore creates the upload directory if needed.
func NewLocalStore(cfg config.UploadConfig) (*LocalStore, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStore{dir: cfg.Dir, publicPath: cfg.PublicPath, maxFiles: cfg.MaxFiles, maxBytes: cfg.MaxFileBytes}, nil
}

// Dir returns the directory that backs PublicPath.
func (s *LocalStore) Dir() string { return s.dir }

// PublicPath returns the URL prefix attachments are served under.
func (s *LocalStore) PublicPath() string { return s.publicPath }

// SaveAll validates and stores every file. Nothing is left on disk when any file is rejected.
func (s *LocalStore) SaveAll(files []*multipart.FileHeader) ([]domain.Attachment, error) {
	if s.maxFiles > 0 && len(files) > s.maxFiles {
		return nil, apperrors.NewValidationError(fmt.Sprintf("at most %d attachments allowed", s.maxFiles),
			map[string]any{"attachments": len(files)})
	}
	saved := make([]domain.Attachment, 0, len(files))
	for _, fh := range files {
		att, err := s.save(fh)
		if err != nil {
			s.Remove(saved)
			return nil, err
		}
		saved = append(saved, att)
	}
	return saved, nil
}

// Remove deletes stored files, ignoring ones already gone.
func (s *LocalStore) Remove(attachments []domain.Attachment) {
	for _, att := range attachments {
		_ = os.Remove(att.Path)
	}
}

func (s *LocalStore) save(fh *multipart.FileHeader) (domain.Attachment, error) {
	if s.maxBytes > 0 && fh.Size > s.maxBytes {
		return domain.Attachment{}, apperrors.NewValidationError("attachment too large",
			map[string]any{"file": fh.Filename, "max_bytes": s.maxBytes})
	}
	src, err := fh.Open()
	if err != nil {
		return domain.Attachment{}, apperrors.NewValidationError("unreadable attachment", map[string]any{"file": fh.Filename})
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, s.readLimit()))
	if err != nil {
		return domain.Attachment{}, apperrors.NewInternalError(err)
	}
	if s.maxBytes > 0 && int64(len(data)) > s.maxBytes {
		return domain.Attachment{}, apperrors.NewValidationError("attachment too large",
			map[string]any{"file": fh.Filename, "max_bytes": s.maxBytes})
	}

	detected, ok := Allowed(data)
	if !ok {
		return domain.Attachment{}, apperrors.NewValidationError("only images (jpeg, png, gif) and documents (pdf, doc, docx) are allowed",
			map[string]any{"file": fh.Filename, "content_type": detected.String()})
	}

	name := uuid.NewString() + detected.Extension()
	target := filepath.Join(s.dir, name)
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return domain.Attachment{}, apperrors.NewInternalError(err)
	}
	return domain.Attachment{
		FileName:    name,
		Path:        target,
		URL:         path.Join(s.publicPath, name),
		ContentType: detected.String(),
		SizeBytes:   int64(len(data)),
	}, nil
}

func (s *LocalStore) readLimit() int64 {
	if s.maxBytes > 0 {
		return s.maxBytes + 1
	}
	return 1 << 30
}

// Allowed sniffs data and reports whether its type, or one of its parents, is on the allow-list.
func Allowed(data []byte) (*mimetype.MIME, bool) {
	detected := mimetype.Detect(data)
	for m := detected; m != nil; m = m.Parent() {
		for _, allowed := range allowedTypes {
			if m.Is(allowed) {
				return detected, true
			}
		}
	}
	return detected, false
}
