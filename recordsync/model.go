package recordsync

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/viant/recordsync/internal/logging"
	"github.com/viant/recordsync/record"
)

// DefaultCollection is the collection clients are registered in.
const DefaultCollection = "Clientes"

// ErrClosed is returned by operations started after Close.
var ErrClosed = errors.New("recordsync: controller closed")

// Op identifies the operation a Result belongs to.
type Op string

const (
	OpLoad   Op = "load"
	OpSubmit Op = "submit"
)

// Ordering decides which of several concurrent load responses is kept.
type Ordering int

const (
	// LatestIssued keeps the response of the most recently issued load and
	// discards older responses that complete later.
	LatestIssued Ordering = iota

	// LatestCompleted keeps whichever response completes last.
	LatestCompleted
)

func (o Ordering) String() string {
	switch o {
	case LatestIssued:
		return "issued"
	case LatestCompleted:
		return "completed"
	}
	return fmt.Sprintf("ordering(%d)", int(o))
}

// ParseOrdering parses "issued" or "completed". An empty string selects
// LatestIssued.
func ParseOrdering(s string) (Ordering, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "issued", "latest-issued":
		return LatestIssued, nil
	case "completed", "latest-completed":
		return LatestCompleted, nil
	}
	return LatestIssued, fmt.Errorf("recordsync: unknown ordering %q", s)
}

// Result is the outcome of a Load or Submit.
type Result struct {
	Op Op

	// Seq is the sequence number of the load that produced Records. For a
	// Submit it is the refresh load issued after the write.
	Seq uint64

	// ID is the identifier the store assigned to a submitted document.
	ID string

	// Records is the snapshot fetched by the load. It is set even when the
	// snapshot was discarded as stale.
	Records []record.Record

	// Stale reports that a newer snapshot had already been applied, so this
	// one did not replace the record list.
	Stale bool

	// Err is a *FetchFailure, a *WriteFailure, ErrClosed or nil.
	Err error
}

// OK reports whether the operation succeeded.
func (r Result) OK() bool { return r.Err == nil }

// FetchFailure reports that reading the collection failed.
type FetchFailure struct {
	Collection string
	Err        error
}

func (e *FetchFailure) Error() string {
	return fmt.Sprintf("recordsync: fetch %s: %v", e.Collection, e.Err)
}

func (e *FetchFailure) Unwrap() error { return e.Err }

// WriteFailure reports that inserting a document failed.
type WriteFailure struct {
	Collection string
	Err        error
}

func (e *WriteFailure) Error() string {
	return fmt.Sprintf("recordsync: write %s: %v", e.Collection, e.Err)
}

func (e *WriteFailure) Unwrap() error { return e.Err }

// Options configures a Controller.
type Options struct {
	// Collection is the collection name; defaults to DefaultCollection.
	Collection string

	// Schema names the two stored fields; defaults to record.ClientPhone.
	Schema record.Schema

	// Ordering selects how concurrent load responses are reconciled.
	Ordering Ordering

	// ResetDraft clears the draft after a successful submit, provided it
	// was not edited while the write was in flight.
	ResetDraft bool

	// RequestTimeout bounds every store call. Zero means no timeout.
	RequestTimeout time.Duration

	// Logger receives diagnostics; nil discards them.
	Logger *logging.Logger

	// OnChange, when set, is called with a copy of the record list each
	// time a snapshot is applied. It runs on the completing goroutine; calls
	// are serialised and made in the order snapshots are applied, so the last
	// call always matches Records. It must not wait on Load or Submit.
	OnChange func(records []record.Record)
}

func (o *Options) init() error {
	if strings.TrimSpace(o.Collection) == "" {
		o.Collection = DefaultCollection
	}
	if o.Schema == (record.Schema{}) {
		o.Schema = record.ClientPhone
	}
	if err := o.Schema.Validate(); err != nil {
		return err
	}
	if o.Ordering != LatestIssued && o.Ordering != LatestCompleted {
		return fmt.Errorf("recordsync: invalid %v", o.Ordering)
	}
	if o.RequestTimeout < 0 {
		return fmt.Errorf("recordsync: negative request timeout %v", o.RequestTimeout)
	}
	if o.Logger == nil {
		o.Logger = logging.Discard()
	}
	return nil
}
