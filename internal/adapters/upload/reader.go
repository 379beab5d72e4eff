// Package upload accepts claim attachments. It checks the file type the
// intake form allows for each slot, rejects content that does not match the
// extension, and records the sniffed content type; the bytes themselves are
// passed through untouched.
package upload

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/csg33k/wc-intake/internal/domain"
)

var (
	ErrUnsupportedType = errors.New("unsupported attachment type")
	ErrTooLarge        = errors.New("attachment too large")
	ErrEmpty           = errors.New("attachment is empty")
	ErrContentMismatch = errors.New("attachment content does not match its extension")
)

// Allowed extensions per slot.
var (
	WageStatementTypes = []string{"pdf", "xls", "xlsx"}
	DocumentTypes      = []string{"pdf", "jpg", "png", "xls", "xlsx"}
)

// contentTypes lists, per extension, the detected types the bytes may have.
// Office files that are too short to classify fully are accepted by their
// container type.
var contentTypes = map[string][]string{
	"pdf":  {"application/pdf"},
	"jpg":  {"image/jpeg"},
	"png":  {"image/png"},
	"xls":  {"application/vnd.ms-excel", "application/x-ole-storage"},
	"xlsx": {"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "application/zip"},
}

// Reader validates attachments. MaxBytes of 0 disables the size check.
type Reader struct {
	MaxBytes int64
}

func NewReader(maxBytes int64) *Reader {
	return &Reader{MaxBytes: maxBytes}
}

// WageStatement validates the single wage statement upload.
func (r *Reader) WageStatement(filename string, data []byte) (*domain.Attachment, error) {
	return r.read(filename, data, WageStatementTypes)
}

// Document validates one supporting document.
func (r *Reader) Document(filename string, data []byte) (*domain.Attachment, error) {
	return r.read(filename, data, DocumentTypes)
}

func (r *Reader) read(filename string, data []byte, allowed []string) (*domain.Attachment, error) {
	ext := Extension(filename)
	if !contains(allowed, ext) {
		return nil, fmt.Errorf("%w: %q (allowed: %s)", ErrUnsupportedType, filename, strings.Join(allowed, ", "))
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrEmpty, filename)
	}
	if r.MaxBytes > 0 && int64(len(data)) > r.MaxBytes {
		return nil, fmt.Errorf("%w: %q is %d bytes, limit %d", ErrTooLarge, filename, len(data), r.MaxBytes)
	}
	mt := mimetype.Detect(data)
	if !matches(mt, contentTypes[ext]) {
		return nil, fmt.Errorf("%w: %q looks like %s", ErrContentMismatch, filename, mt.String())
	}
	return &domain.Attachment{
		Filename:    filepath.Base(filename),
		ContentType: mt.String(),
		Data:        data,
	}, nil
}

// matches reports whether mt or one of its parent types is in want.
func matches(mt *mimetype.MIME, want []string) bool {
	for m := mt; m != nil; m = m.Parent() {
		for _, w := range want {
			if m.Is(w) {
				return true
			}
		}
	}
	return false
}

// Extension returns the lower-cased extension of name without the dot.
// "jpeg" is folded into "jpg".
func Extension(name string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	if ext == "jpeg" {
		return "jpg"
	}
	return ext
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
