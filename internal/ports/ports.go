package ports

import (
	"context"
	"io"

	"github.com/csg33k/wc-intake/internal/domain"
)

// SignatureReader is the signature-capture collaborator. A nil signature
// with a nil error means nothing was supplied.
type SignatureReader interface {
	Read(data []byte) (*domain.Signature, error)
}

// AttachmentReader is the upload collaborator. It validates the file type
// for each slot and never rewrites the bytes.
type AttachmentReader interface {
	WageStatement(filename string, data []byte) (*domain.Attachment, error)
	Document(filename string, data []byte) (*domain.Attachment, error)
}

// ReviewRenderer writes a printable claim review.
type ReviewRenderer interface {
	RenderReview(ctx context.Context, doc *domain.ReviewDocument, w io.Writer) error
}
