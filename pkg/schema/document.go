package schema

import (
	"path"
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// Format names the serialization of a definition document.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
)

// FormatFromPath picks the format from a file extension.
func FormatFromPath(location string) (Format, error) {
	if idx := strings.IndexAny(location, "?#"); idx >= 0 {
		location = location[:idx]
	}
	switch strings.ToLower(path.Ext(location)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", goerr.Wrap(ErrUnsupportedFormat, "cannot infer format", goerr.V("location", location))
	}
}

// Document wraps the raw definition payload and its origin.
type Document struct {
	source Source
	format Format
	raw    []byte
}

// NewDocument constructs a Document, inferring the format from the source
// location.
func NewDocument(src Source, raw []byte) (Document, error) {
	if src == nil {
		return Document{}, goerr.New("source is required")
	}
	format, err := FormatFromPath(src.Location())
	if err != nil {
		return Document{}, err
	}
	return NewDocumentWithFormat(src, format, raw)
}

// NewDocumentWithFormat constructs a Document with an explicit format.
func NewDocumentWithFormat(src Source, format Format, raw []byte) (Document, error) {
	if src == nil {
		return Document{}, goerr.New("source is required")
	}
	if len(raw) == 0 {
		return Document{}, goerr.New("document is empty", goerr.V("location", src.Location()))
	}
	clone := append([]byte(nil), raw...)
	return Document{source: src, format: format, raw: clone}, nil
}

// Source returns the origin metadata for the document.
func (d Document) Source() Source {
	return d.source
}

// Format reports the document serialization.
func (d Document) Format() Format {
	return d.format
}

// Raw returns a copy of the payload.
func (d Document) Raw() []byte {
	return append([]byte(nil), d.raw...)
}

// Location returns the string identifier for the origin.
func (d Document) Location() string {
	if d.source == nil {
		return ""
	}
	return d.source.Location()
}
