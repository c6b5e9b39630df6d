package recordsync

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/viant/recordsync/document"
	"github.com/viant/recordsync/internal/logging"
	"github.com/viant/recordsync/record"
)

// Controller owns the draft and the record list of a client registration
// screen and synchronises them with a document collection.
type Controller struct {
	store document.Store
	opts  Options
	log   *logging.Logger

	base   context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	issued atomic.Uint64

	// notifyMu orders OnChange calls the same way snapshots are applied.
	notifyMu sync.Mutex

	mu      sync.Mutex
	closed  bool
	draft   record.Draft
	records []record.Record
	applied uint64
}

// New creates a controller with an empty draft and an empty record list.
// It does not load; call Load once the screen is shown.
func New(store document.Store, opts Options) (*Controller, error) {
	if store == nil {
		return nil, fmt.Errorf("recordsync: store is nil")
	}
	if err := opts.init(); err != nil {
		return nil, err
	}
	base, cancel := context.WithCancel(context.Background())
	return &Controller{
		store:   store,
		opts:    opts,
		log:     opts.Logger,
		base:    base,
		cancel:  cancel,
		records: []record.Record{},
	}, nil
}

// Collection returns the collection name the controller syncs with.
func (c *Controller) Collection() string { return c.opts.Collection }

// Schema returns the record schema in use.
func (c *Controller) Schema() record.Schema { return c.opts.Schema }

// Draft returns the current draft.
func (c *Controller) Draft() record.Draft {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft
}

// SetDraft replaces the draft.
func (c *Controller) SetDraft(d record.Draft) {
	c.mu.Lock()
	c.draft = d
	c.mu.Unlock()
}

// SetName updates the draft name field.
func (c *Controller) SetName(v string) {
	c.mu.Lock()
	c.draft.Name = v
	c.mu.Unlock()
}

// SetSecondary updates the draft secondary field.
func (c *Controller) SetSecondary(v string) {
	c.mu.Lock()
	c.draft.Secondary = v
	c.mu.Unlock()
}

// Records returns a copy of the last applied record list.
func (c *Controller) Records() []record.Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	return cloneRecords(c.records)
}

// Load fetches the whole collection asynchronously and replaces the record
// list with the decoded snapshot. The returned channel receives one Result
// and is then closed.
func (c *Controller) Load(ctx context.Context) <-chan Result {
	out := make(chan Result, 1)
	if !c.begin() {
		out <- Result{Op: OpLoad, Err: ErrClosed}
		close(out)
		return out
	}
	seq := c.issued.Add(1)
	go func() {
		defer c.wg.Done()
		defer close(out)
		out <- c.load(ctx, seq)
	}()
	return out
}

// Submit inserts the draft as a new document asynchronously. Empty fields
// are written as-is. On success the record list is refreshed and the Result
// carries both the new document ID and the refresh outcome; on failure no
// refresh happens.
func (c *Controller) Submit(ctx context.Context, d record.Draft) <-chan Result {
	out := make(chan Result, 1)
	if !c.begin() {
		out <- Result{Op: OpSubmit, Err: ErrClosed}
		close(out)
		return out
	}
	go func() {
		defer c.wg.Done()
		defer close(out)
		out <- c.submit(ctx, d)
	}()
	return out
}

// Wait blocks until every in-flight operation has completed.
func (c *Controller) Wait() { c.wg.Wait() }

// Close cancels in-flight requests, waits for them and discards the record
// list. Later operations fail with ErrClosed.
func (c *Controller) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	c.cancel()
	c.wg.Wait()

	c.mu.Lock()
	c.records = nil
	c.mu.Unlock()
	return nil
}

func (c *Controller) begin() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	c.wg.Add(1)
	return true
}

func (c *Controller) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *Controller) load(ctx context.Context, seq uint64) Result {
	rctx, cancel := c.requestContext(ctx)
	defer cancel()

	docs, err := c.store.FetchAll(rctx, c.opts.Collection)
	if err != nil {
		failure := &FetchFailure{Collection: c.opts.Collection, Err: err}
		c.log.Warnf("error getting documents: %v", failure)
		return Result{Op: OpLoad, Seq: seq, Err: failure}
	}

	fields := make([]map[string]any, len(docs))
	for i, doc := range docs {
		fields[i] = doc.Fields
	}
	records := c.opts.Schema.DecodeAll(fields)
	if !c.apply(seq, records) {
		if c.isClosed() {
			return Result{Op: OpLoad, Seq: seq, Err: ErrClosed}
		}
		c.log.Infof("discarded stale snapshot %d of %s (%d records)", seq, c.opts.Collection, len(records))
		return Result{Op: OpLoad, Seq: seq, Records: records, Stale: true}
	}
	for _, r := range records {
		c.log.Infof("%s: %s=%s, %s=%s", c.opts.Collection, c.opts.Schema.Name, r.Name, c.opts.Schema.Secondary, r.Secondary)
	}
	return Result{Op: OpLoad, Seq: seq, Records: cloneRecords(records)}
}

// apply installs records as the current list unless the ordering policy or
// a closed controller rejects it.
func (c *Controller) apply(seq uint64, records []record.Record) bool {
	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return false
	}
	if c.opts.Ordering == LatestIssued && seq < c.applied {
		c.mu.Unlock()
		return false
	}
	c.applied = seq
	c.records = records
	onChange := c.opts.OnChange
	c.mu.Unlock()

	if onChange != nil {
		onChange(cloneRecords(records))
	}
	return true
}

func (c *Controller) submit(ctx context.Context, d record.Draft) Result {
	fields := c.opts.Schema.Encode(d.Record())

	rctx, cancel := c.requestContext(ctx)
	id, err := c.store.Insert(rctx, c.opts.Collection, fields)
	cancel()
	if err != nil {
		failure := &WriteFailure{Collection: c.opts.Collection, Err: err}
		c.log.Warnf("error writing document: %v", failure)
		return Result{Op: OpSubmit, Err: failure}
	}
	c.log.Infof("document written to %s with ID %s", c.opts.Collection, id)

	if c.opts.ResetDraft {
		c.mu.Lock()
		if c.draft == d {
			c.draft = record.Draft{}
		}
		c.mu.Unlock()
	}

	refreshed := c.load(ctx, c.issued.Add(1))
	refreshed.Op = OpSubmit
	refreshed.ID = id
	return refreshed
}

// requestContext derives the context of a single store call: it is
// cancelled by Close and bounded by RequestTimeout when set.
func (c *Controller) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(c.base, cancel)
	if c.opts.RequestTimeout <= 0 {
		return ctx, func() { stop(); cancel() }
	}
	ctx, cancelTimeout := context.WithTimeout(ctx, c.opts.RequestTimeout)
	return ctx, func() { cancelTimeout(); stop(); cancel() }
}

func cloneRecords(records []record.Record) []record.Record {
	if records == nil {
		return nil
	}
	out := make([]record.Record, len(records))
	copy(out, records)
	return out
}
