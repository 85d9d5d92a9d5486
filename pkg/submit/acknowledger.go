package submit

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-profileform/pkg/model"
)

// Receipt is the acknowledgment produced for an accepted submission.
type Receipt struct {
	ID          string         `json:"id"`
	Format      Format         `json:"format"`
	ContentType string         `json:"contentType"`
	Body        string         `json:"body" masq:"secret"`
	Values      model.Snapshot `json:"values" masq:"secret"`
	AcceptedAt  time.Time      `json:"acceptedAt"`
}

// AckOption configures an Acknowledger.
type AckOption func(*Acknowledger)

// WithWriter sets where acknowledgments are printed. Nil disables printing.
func WithWriter(w io.Writer) AckOption {
	return func(a *Acknowledger) {
		a.out = w
	}
}

// WithFormat selects the serialization of the acknowledgment body.
func WithFormat(format Format) AckOption {
	return func(a *Acknowledger) {
		if format != "" {
			a.format = format
		}
	}
}

// WithLogger attaches a logger that records accepted submissions.
func WithLogger(logger *slog.Logger) AckOption {
	return func(a *Acknowledger) {
		a.logger = logger
	}
}

// WithIDGenerator overrides receipt id generation.
func WithIDGenerator(fn func() string) AckOption {
	return func(a *Acknowledger) {
		if fn != nil {
			a.newID = fn
		}
	}
}

// WithClock overrides the time source used for receipts.
func WithClock(fn func() time.Time) AckOption {
	return func(a *Acknowledger) {
		if fn != nil {
			a.now = fn
		}
	}
}

// Acknowledger is the default Handler: it serializes the snapshot and
// presents it back to the user. Nothing is sent over the network or stored.
type Acknowledger struct {
	out    io.Writer
	format Format
	logger *slog.Logger
	newID  func() string
	now    func() time.Time

	mu   sync.Mutex
	last *Receipt
}

var _ Handler = (*Acknowledger)(nil)

// NewAcknowledger builds an Acknowledger emitting indented JSON by default.
func NewAcknowledger(opts ...AckOption) *Acknowledger {
	a := &Acknowledger{
		format: FormatJSON,
		newID:  func() string { return uuid.NewString() },
		now:    time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}
	return a
}

// Acknowledge builds the receipt for snapshot and prints it when a writer is
// configured.
func (a *Acknowledger) Acknowledge(ctx context.Context, snapshot model.Snapshot) (Receipt, error) {
	if err := ctx.Err(); err != nil {
		return Receipt{}, err
	}

	body, err := Encode(snapshot, a.format)
	if err != nil {
		return Receipt{}, err
	}

	receipt := Receipt{
		ID:          a.newID(),
		Format:      a.format,
		ContentType: a.format.ContentType(),
		Body:        string(body),
		Values:      snapshot,
		AcceptedAt:  a.now().UTC(),
	}

	if a.out != nil {
		if _, err := fmt.Fprintln(a.out, receipt.Body); err != nil {
			return Receipt{}, fmt.Errorf("submit: write acknowledgment: %w", err)
		}
	}
	if a.logger != nil {
		a.logger.Info("submission accepted",
			"receipt", receipt.ID,
			"fields", len(snapshot.Names()),
		)
	}

	a.mu.Lock()
	a.last = &receipt
	a.mu.Unlock()

	return receipt, nil
}

// Submit implements Handler.
func (a *Acknowledger) Submit(ctx context.Context, snapshot model.Snapshot) error {
	_, err := a.Acknowledge(ctx, snapshot)
	return err
}

// Last returns the most recent receipt.
func (a *Acknowledger) Last() (Receipt, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.last == nil {
		return Receipt{}, false
	}
	return *a.last, true
}
