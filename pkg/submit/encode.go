package submit

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/goliatone/go-profileform/pkg/model"
)

// Format controls how a snapshot is serialized.
type Format string

const (
	// FormatJSON emits an indented JSON object in field order.
	FormatJSON Format = "json"
	// FormatFormURLEncoded emits application/x-www-form-urlencoded payloads;
	// multi-choice fields repeat their key.
	FormatFormURLEncoded Format = "form"
	// FormatPrettyText emits one "name: value" line per field.
	FormatPrettyText Format = "pretty"
)

// ParseFormat resolves a format name, defaulting to JSON for "".
func ParseFormat(raw string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(raw))) {
	case "", FormatJSON:
		return FormatJSON, nil
	case FormatFormURLEncoded:
		return FormatFormURLEncoded, nil
	case FormatPrettyText:
		return FormatPrettyText, nil
	default:
		return "", fmt.Errorf("submit: unknown format %q", raw)
	}
}

// ContentType reports the media type of the format.
func (f Format) ContentType() string {
	switch f {
	case FormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case FormatPrettyText:
		return "text/plain; charset=utf-8"
	default:
		return "application/json"
	}
}

// Encode serializes snapshot using format.
func Encode(snapshot model.Snapshot, format Format) ([]byte, error) {
	switch format {
	case FormatFormURLEncoded:
		return []byte(encodeForm(snapshot)), nil
	case FormatPrettyText:
		return []byte(encodePretty(snapshot)), nil
	case FormatJSON, "":
		out, err := json.MarshalIndent(snapshot, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("submit: encode json: %w", err)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("submit: unknown format %q", format)
	}
}

func encodeForm(snapshot model.Snapshot) string {
	form := url.Values{}
	for _, name := range snapshot.Names() {
		value, _ := snapshot.Get(name)
		switch typed := value.(type) {
		case []string:
			for _, item := range typed {
				form.Add(name, item)
			}
		case string:
			form.Set(name, typed)
		}
	}
	return form.Encode()
}

func encodePretty(snapshot model.Snapshot) string {
	var builder strings.Builder
	for _, name := range snapshot.Names() {
		value, _ := snapshot.Get(name)
		builder.WriteString(name)
		builder.WriteString(": ")
		switch typed := value.(type) {
		case []string:
			builder.WriteString(strings.Join(typed, ", "))
		case string:
			builder.WriteString(strings.ReplaceAll(typed, "\n", "\n  "))
		}
		builder.WriteByte('\n')
	}
	return builder.String()
}
