package outbound

import "github.com/nmdp-bioinformatics/gl-smartsort/internal/application/dto"

// ResultWriter defines the outbound port for emitting canonicalization results.
type ResultWriter interface {
	Write(result dto.CanonicalResult) error
	// Flush writes any buffered output.
	Flush() error
}
