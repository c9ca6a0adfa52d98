package listview

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/straye-as/client-admin/internal/domain"
	"github.com/straye-as/client-admin/internal/ui"
	"go.uber.org/zap"
)

// Record is anything with a backend id
type Record interface {
	RecordID() int64
}

// Entity names a record type in user-facing messages
type Entity struct {
	// Singular in lower case, e.g. "client"
	Singular string
	// Plural in lower case, e.g. "clients"
	Plural string
}

func (e Entity) title() string {
	if e.Singular == "" {
		return ""
	}
	return strings.ToUpper(e.Singular[:1]) + e.Singular[1:]
}

// LoadFailedMessage is shown when the list cannot be fetched
func (e Entity) LoadFailedMessage() string { return "Failed to load " + e.Plural }

// CreatedMessage is shown when a record is added to the list
func (e Entity) CreatedMessage() string { return e.title() + " created" }

// UpdatedMessage is shown when a record in the list is replaced
func (e Entity) UpdatedMessage() string { return e.title() + " updated" }

// DeletedMessage is shown after a confirmed delete succeeds
func (e Entity) DeletedMessage() string { return e.title() + " deleted" }

// DeleteFailedMessage is shown when a confirmed delete fails
func (e Entity) DeleteFailedMessage() string { return "Failed to delete " + e.Singular }

// Options configures a Controller
type Options[T Record] struct {
	Entity Entity
	Schema Schema[T]
	Load   func(ctx context.Context) ([]T, error)
	// Delete may be nil for read-only lists
	Delete func(ctx context.Context, id int64) error
	// ConfirmDelete returns the title and message of the delete confirmation
	ConfirmDelete func(rec T) (string, string)
	// PageSize is the initial page size, 0 for everything
	PageSize  int
	Notifier  ui.Notifier
	Confirmer ui.Confirmer
	Logger    *zap.Logger
}

// Controller holds one list screen: the fetched records, the total count and
// the filter, sort and page state. All methods are safe for concurrent use.
type Controller[T Record] struct {
	opts   Options[T]
	logger *zap.Logger

	mu      sync.Mutex
	records []T
	count   int64
	query   Query
	loading bool
	loaded  bool
	closed  bool
}

// NewController creates an empty list
func NewController[T Record](opts Options[T]) *Controller[T] {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller[T]{
		opts:   opts,
		logger: logger.With(zap.String("list", opts.Entity.Plural)),
		query:  Query{PageSize: opts.PageSize},
	}
}

// Entity returns the names used in messages
func (c *Controller[T]) Entity() Entity { return c.opts.Entity }

// Load fetches the records. On failure the previous records are kept.
func (c *Controller[T]) Load(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.loading = true
	c.mu.Unlock()

	records, err := c.opts.Load(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = false
	if c.closed {
		return nil
	}
	if err != nil {
		c.logger.Warn("failed to load list", zap.Error(err))
		c.opts.Notifier.Notify(c.opts.Entity.LoadFailedMessage())
		return err
	}
	c.records = records
	c.count = int64(len(records))
	c.loaded = true
	return nil
}

// Loading reports whether a fetch is in flight
func (c *Controller[T]) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// Loaded reports whether at least one fetch succeeded
func (c *Controller[T]) Loaded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loaded
}

// View returns the visible page
func (c *Controller[T]) View() Page[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Derive(c.records, c.query, c.opts.Schema)
}

// Query returns the current filter, sort and page state
func (c *Controller[T]) Query() Query {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.query
}

// SetFilter changes the filter and goes back to the first page
func (c *Controller[T]) SetFilter(filter string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.query.Filter = filter
	c.query.PageIndex = 0
}

// SetSort changes the active sort
func (c *Controller[T]) SetSort(key string, dir SortDir) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.query.SortKey = key
	c.query.SortDir = dir
}

// SetPage changes the page index and size
func (c *Controller[T]) SetPage(index, size int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if index < 0 {
		index = 0
	}
	if size < 0 {
		size = 0
	}
	c.query.PageIndex = index
	c.query.PageSize = size
}

// Records returns a copy of every fetched record in backend order
func (c *Controller[T]) Records() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]T(nil), c.records...)
}

// Find returns the record with id
func (c *Controller[T]) Find(id int64) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i := c.indexOf(id); i >= 0 {
		return c.records[i], true
	}
	var zero T
	return zero, false
}

// Count returns the total record count
func (c *Controller[T]) Count() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.count
}

// SetCount overrides the count with the backend's figure
func (c *Controller[T]) SetCount(n int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if n < 0 {
		n = 0
	}
	c.count = n
}

func (c *Controller[T]) indexOf(id int64) int {
	for i, rec := range c.records {
		if rec.RecordID() == id {
			return i
		}
	}
	return -1
}

// ApplyCreated appends rec, bumps the count and notifies
func (c *Controller[T]) ApplyCreated(rec T) {
	if !c.Insert(rec) {
		return
	}
	c.opts.Notifier.Notify(c.opts.Entity.CreatedMessage())
}

// Insert appends rec and bumps the count without notifying
func (c *Controller[T]) Insert(rec T) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	c.records = append(c.records, rec)
	c.count++
	return true
}

// ApplyUpdated replaces the record with the same id. Unknown ids are ignored.
func (c *Controller[T]) ApplyUpdated(rec T) bool {
	if !c.Replace(rec) {
		return false
	}
	c.opts.Notifier.Notify(c.opts.Entity.UpdatedMessage())
	return true
}

// Replace swaps in rec without notifying
func (c *Controller[T]) Replace(rec T) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	i := c.indexOf(rec.RecordID())
	if i < 0 {
		return false
	}
	c.records[i] = rec
	return true
}

// Remove drops the record with id without notifying
func (c *Controller[T]) Remove(id int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remove(id)
}

func (c *Controller[T]) remove(id int64) bool {
	if c.closed {
		return false
	}
	i := c.indexOf(id)
	if i < 0 {
		return false
	}
	c.records = append(c.records[:i:i], c.records[i+1:]...)
	if c.count > 0 {
		c.count--
	}
	return true
}

// Delete confirms and deletes the record with id. A declined confirmation
// returns domain.ErrCancelled without contacting the backend.
func (c *Controller[T]) Delete(ctx context.Context, id int64) error {
	if c.opts.Delete == nil {
		return fmt.Errorf("%s cannot be deleted", c.opts.Entity.Plural)
	}
	rec, ok := c.Find(id)
	if !ok {
		return domain.NewAPIError(404, fmt.Sprintf("%s %d is not in the list", c.opts.Entity.title(), id))
	}

	title, message := "", ""
	if c.opts.ConfirmDelete != nil {
		title, message = c.opts.ConfirmDelete(rec)
	}
	if title == "" {
		title = ui.DefaultConfirmTitle
	}
	if message == "" {
		message = ui.DefaultConfirmMessage
	}
	if !c.opts.Confirmer.Confirm(ctx, title, message) {
		return domain.ErrCancelled
	}

	if err := c.opts.Delete(ctx, id); err != nil {
		c.logger.Warn("failed to delete record", zap.Int64("id", id), zap.Error(err))
		c.opts.Notifier.Notify(c.opts.Entity.DeleteFailedMessage())
		return err
	}

	c.mu.Lock()
	c.remove(id)
	c.mu.Unlock()
	c.opts.Notifier.Notify(c.opts.Entity.DeletedMessage())
	return nil
}

// Close detaches the list. Later results and mutations are ignored.
func (c *Controller[T]) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}
