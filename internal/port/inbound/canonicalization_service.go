// Package inbound defines the inbound ports (interfaces) for the application layer.
// These ports represent the entry points into the application's core business logic.
package inbound

import (
	"context"
	"io"

	"github.com/nmdp-bioinformatics/gl-smartsort/internal/application/dto"
	"github.com/nmdp-bioinformatics/gl-smartsort/internal/port/outbound"
)

// CanonicalizationService defines the inbound port for canonicalizing GL strings.
type CanonicalizationService interface {
	// Canonicalize canonicalizes each line independently; results keep input order.
	Canonicalize(ctx context.Context, lines []string) ([]dto.CanonicalResult, error)
	// Stream reads newline-separated GL strings from r and writes one result per line to w.
	Stream(ctx context.Context, r io.Reader, w outbound.ResultWriter) (dto.StreamStats, error)
}
