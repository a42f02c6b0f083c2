// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package upload stores user uploads on the local disk under generated
// unique names.
package upload

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/olegiv/folio/internal/imaging"
	"github.com/olegiv/folio/internal/util"
)

// URLPrefix is the public path under which uploads are served.
const URLPrefix = "/uploads/"

// Kind selects the accepted file types of an upload.
type Kind string

// Upload kinds.
const (
	KindImage    Kind = "image"
	KindDocument Kind = "document"
	KindFile     Kind = "file"
)

// Upload errors.
var (
	ErrTooLarge        = errors.New("file too large")
	ErrUnsupportedType = errors.New("file type not allowed")
	ErrInvalidName     = errors.New("invalid filename")
	ErrNotFound        = errors.New("file not found")
)

// documentType describes an accepted document extension. sniffed lists
// the detected content types that are consistent with it.
type documentType struct {
	mimeType string
	sniffed  []string
}

var documentTypes = map[string]documentType{
	".pdf":  {"application/pdf", []string{"application/pdf"}},
	".txt":  {"text/plain", []string{"text/plain"}},
	".md":   {"text/markdown", []string{"text/plain"}},
	".doc":  {"application/msword", []string{"application/msword", "application/x-ole-storage"}},
	".docx": {"application/vnd.openxmlformats-officedocument.wordprocessingml.document", []string{"application/vnd.openxmlformats-officedocument.wordprocessingml.document", "application/zip"}},
}

// File describes a stored upload.
type File struct {
	Filename     string `json:"filename"`
	OriginalName string `json:"originalName"`
	URL          string `json:"url"`
	Size         int64  `json:"size"`
	MimeType     string `json:"mimeType"`
	Width        int    `json:"width,omitempty"`
	Height       int    `json:"height,omitempty"`
}

// Storage writes uploads into one directory.
type Storage struct {
	dir     string
	maxSize int64
	logger  *slog.Logger
	now     func() time.Time
}

// New creates the upload directory if needed and returns a Storage.
func New(dir string, maxSize int64, logger *slog.Logger) (*Storage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating upload directory: %w", err)
	}
	return &Storage{dir: dir, maxSize: maxSize, logger: logger, now: time.Now}, nil
}

// Dir returns the upload directory.
func (s *Storage) Dir() string {
	return s.dir
}

// MaxSize returns the size limit of one upload in bytes.
func (s *Storage) MaxSize() int64 {
	return s.maxSize
}

// Save validates the content read from r against kind and stores it.
// Images are normalized before they are written.
func (s *Storage) Save(kind Kind, originalName string, r io.Reader) (*File, error) {
	data, err := io.ReadAll(io.LimitReader(r, s.maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading upload: %w", err)
	}
	if int64(len(data)) > s.maxSize {
		return nil, ErrTooLarge
	}

	original, err := util.SanitizeFilename(originalName)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidName, err)
	}
	ext := strings.ToLower(filepath.Ext(original))

	var (
		f       *File
		content []byte
	)
	switch {
	case imaging.IsImageExt(ext) && (kind == KindImage || kind == KindFile):
		f, content, err = prepareImage(data)
	case kind == KindDocument || kind == KindFile:
		f, content, err = prepareDocument(ext, data)
	default:
		err = ErrUnsupportedType
	}
	if err != nil {
		return nil, err
	}

	name, err := s.newName(f.Filename)
	if err != nil {
		return nil, err
	}
	path, err := util.SafeJoinPath(s.dir, name)
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return nil, fmt.Errorf("writing upload: %w", err)
	}

	f.Filename = name
	f.OriginalName = original
	f.URL = URLPrefix + name
	s.logger.Info("file uploaded", "filename", name, "kind", string(kind), "size", f.Size, "mime_type", f.MimeType)
	return f, nil
}

// prepareImage normalizes an image. The returned File carries the target
// extension in Filename.
func prepareImage(data []byte) (*File, []byte, error) {
	res, err := imaging.Normalize(data)
	if errors.Is(err, imaging.ErrUnsupportedFormat) {
		return nil, nil, ErrUnsupportedType
	}
	if err != nil {
		return nil, nil, err
	}
	return &File{
		Filename: res.Ext,
		Size:     int64(len(res.Data)),
		MimeType: res.MimeType,
		Width:    res.Width,
		Height:   res.Height,
	}, res.Data, nil
}

// prepareDocument checks that data looks like what its extension claims.
func prepareDocument(ext string, data []byte) (*File, []byte, error) {
	dt, ok := documentTypes[ext]
	if !ok || !sniffMatches(data, dt.sniffed) {
		return nil, nil, ErrUnsupportedType
	}
	return &File{Filename: ext, Size: int64(len(data)), MimeType: dt.mimeType}, data, nil
}

// sniffMatches reports whether the detected type of data, or one of its
// parents, is in accepted.
func sniffMatches(data []byte, accepted []string) bool {
	for m := mimetype.Detect(data); m != nil; m = m.Parent() {
		if mimetype.EqualsAny(m.String(), accepted...) {
			return true
		}
	}
	return false
}

// newName returns "<unix-ms>-<8 hex chars><ext>".
func (s *Storage) newName(ext string) (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("generating filename: %w", err)
	}
	suffix := strings.ReplaceAll(id.String(), "-", "")[:8]
	return fmt.Sprintf("%d-%s%s", s.now().UnixMilli(), suffix, ext), nil
}

// Delete removes the upload called name.
func (s *Storage) Delete(name string) error {
	if !util.IsPlainFilename(name) {
		return ErrInvalidName
	}
	path, err := util.SafeJoinPath(s.dir, name)
	if err != nil {
		return ErrInvalidName
	}
	if err := os.Remove(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ErrNotFound
		}
		return fmt.Errorf("deleting upload: %w", err)
	}
	s.logger.Info("file deleted", "filename", name)
	return nil
}
