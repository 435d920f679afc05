// Package output provides result writers that render canonicalization
// results as plain text, JSON lines or a YAML document stream.
package output

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/nmdp-bioinformatics/gl-smartsort/internal/application/dto"
	"github.com/nmdp-bioinformatics/gl-smartsort/internal/config"
	"github.com/nmdp-bioinformatics/gl-smartsort/internal/port/outbound"

	"gopkg.in/yaml.v3"
)

// ErrUnknownFormat is returned for an output format without a writer.
var ErrUnknownFormat = errors.New("unknown output format")

// NewWriter returns the result writer for format. An empty format selects text.
func NewWriter(format string, w io.Writer) (outbound.ResultWriter, error) {
	switch format {
	case "", config.FormatText:
		return NewTextWriter(w), nil
	case config.FormatJSON:
		return NewJSONWriter(w), nil
	case config.FormatYAML:
		return NewYAMLWriter(w), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// TextWriter writes the canonical form of each line followed by a newline.
type TextWriter struct {
	buf *bufio.Writer
}

// NewTextWriter creates a buffered text writer.
func NewTextWriter(w io.Writer) *TextWriter {
	return &TextWriter{buf: bufio.NewWriter(w)}
}

// Write implements outbound.ResultWriter.
func (t *TextWriter) Write(result dto.CanonicalResult) error {
	if _, err := t.buf.WriteString(result.Canonical); err != nil {
		return err
	}
	return t.buf.WriteByte('\n')
}

// Flush implements outbound.ResultWriter.
func (t *TextWriter) Flush() error {
	return t.buf.Flush()
}

// JSONWriter writes one JSON object per line.
type JSONWriter struct {
	buf *bufio.Writer
	enc *json.Encoder
}

// NewJSONWriter creates a buffered JSON lines writer.
func NewJSONWriter(w io.Writer) *JSONWriter {
	buf := bufio.NewWriter(w)
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	return &JSONWriter{buf: buf, enc: enc}
}

// Write implements outbound.ResultWriter.
func (j *JSONWriter) Write(result dto.CanonicalResult) error {
	return j.enc.Encode(result)
}

// Flush implements outbound.ResultWriter.
func (j *JSONWriter) Flush() error {
	return j.buf.Flush()
}

// YAMLWriter writes one YAML document per line.
type YAMLWriter struct {
	buf     *bufio.Writer
	enc     *yaml.Encoder
	written int
}

// NewYAMLWriter creates a buffered YAML stream writer.
func NewYAMLWriter(w io.Writer) *YAMLWriter {
	buf := bufio.NewWriter(w)
	enc := yaml.NewEncoder(buf)
	enc.SetIndent(2)
	return &YAMLWriter{buf: buf, enc: enc}
}

// Write implements outbound.ResultWriter.
func (y *YAMLWriter) Write(result dto.CanonicalResult) error {
	if err := y.enc.Encode(result); err != nil {
		return err
	}
	y.written++
	return nil
}

// Flush closes the YAML stream and flushes it. The writer must not be used
// afterwards.
func (y *YAMLWriter) Flush() error {
	// Closing an encoder that never started a stream is an emitter error.
	if y.written > 0 {
		if err := y.enc.Close(); err != nil {
			return err
		}
	}
	return y.buf.Flush()
}
