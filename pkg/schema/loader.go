package schema

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"net/http"
	"os"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/goliatone/go-profileform/pkg/model"
)

var (
	ErrUnsupportedFormat = errors.New("schema: unsupported definition format")
	ErrHTTPDisabled      = errors.New("schema: http sources are disabled")
	ErrUnknownRuleField  = errors.New("schema: validation rules reference an unknown field")
	ErrDocumentTooLarge  = errors.New("schema: definition document exceeds the size limit")
)

// DefaultMaxDocumentBytes bounds documents fetched from URL sources.
const DefaultMaxDocumentBytes int64 = 1 << 20

// Option configures a Loader.
type Option func(*Loader)

// WithFS sets the filesystem used for SourceKindFS sources.
func WithFS(files fs.FS) Option {
	return func(l *Loader) {
		l.fs = files
	}
}

// WithHTTPClient enables URL sources using client.
func WithHTTPClient(client *http.Client) Option {
	return func(l *Loader) {
		if client != nil {
			clone := *client
			l.http = &clone
		}
	}
}

// WithRequestTimeout bounds URL fetches. It enables URL sources with the
// default client when none was configured.
func WithRequestTimeout(timeout time.Duration) Option {
	return func(l *Loader) {
		l.timeout = timeout
	}
}

// WithMaxDocumentBytes overrides DefaultMaxDocumentBytes.
func WithMaxDocumentBytes(n int64) Option {
	return func(l *Loader) {
		if n > 0 {
			l.maxBytes = n
		}
	}
}

// Loader reads definition documents and decodes them into validated form
// definitions.
type Loader struct {
	fs      fs.FS
	http    *http.Client
	timeout time.Duration

	maxBytes int64
}

// New constructs a Loader.
func New(opts ...Option) *Loader {
	l := &Loader{maxBytes: DefaultMaxDocumentBytes}
	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}
	if l.http == nil && l.timeout > 0 {
		l.http = &http.Client{}
	}
	if l.http != nil && l.timeout > 0 && l.http.Timeout == 0 {
		l.http.Timeout = l.timeout
	}
	return l
}

// Load fetches the raw document behind src.
func (l *Loader) Load(ctx context.Context, src Source) (Document, error) {
	if src == nil {
		return Document{}, goerr.New("source is nil")
	}
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}

	var (
		data []byte
		err  error
	)
	switch src.Kind() {
	case SourceKindFile:
		data, err = os.ReadFile(src.Location())
	case SourceKindFS:
		if l.fs == nil {
			return Document{}, goerr.New("loader has no filesystem", goerr.V("location", src.Location()))
		}
		data, err = fs.ReadFile(l.fs, src.Location())
	case SourceKindURL:
		data, err = l.fetch(ctx, src.Location())
	default:
		return Document{}, goerr.New("unsupported source kind", goerr.V("kind", src.Kind()))
	}
	if err != nil {
		return Document{}, goerr.Wrap(err, "failed to read definition", goerr.V("location", src.Location()))
	}
	return NewDocument(src, data)
}

// LoadDefinition loads, decodes and validates the definition behind src.
func (l *Loader) LoadDefinition(ctx context.Context, src Source) (model.FormDefinition, error) {
	doc, err := l.Load(ctx, src)
	if err != nil {
		return model.FormDefinition{}, err
	}
	return Decode(doc)
}

// LoadFile is a shortcut for loading a definition from disk.
func LoadFile(ctx context.Context, path string) (model.FormDefinition, error) {
	return New().LoadDefinition(ctx, SourceFromFile(path))
}

// LoadFS is a shortcut for loading a definition from files.
func LoadFS(ctx context.Context, files fs.FS, name string) (model.FormDefinition, error) {
	return New(WithFS(files)).LoadDefinition(ctx, SourceFromFS(name))
}

func (l *Loader) fetch(ctx context.Context, rawURL string) ([]byte, error) {
	if l.http == nil {
		return nil, ErrHTTPDisabled
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := l.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, goerr.New("unexpected status", goerr.V("status", resp.StatusCode))
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, l.maxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > l.maxBytes {
		return nil, goerr.Wrap(ErrDocumentTooLarge, "definition too large", goerr.V("limit", l.maxBytes))
	}
	return data, nil
}
