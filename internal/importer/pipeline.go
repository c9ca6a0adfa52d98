// Package importer turns an uploaded spreadsheet into client records:
// parse, normalize, validate, partition, then one bulk submit.
package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/straye-as/client-admin/internal/domain"
	"github.com/straye-as/client-admin/internal/ui"
	"go.uber.org/zap"
)

// Operator-facing messages
const (
	MsgParseFailed  = "Failed to parse file"
	MsgSubmitFailed = "Import failed. Check file and try again."
)

// ImportedMessage returns the success notification for n created clients
func ImportedMessage(n int) string {
	return fmt.Sprintf("Imported %d client(s)", n)
}

// State is the pipeline's position in its lifecycle
type State string

const (
	StateIdle         State = "idle"
	StateParsing      State = "parsing"
	StatePartitioned  State = "partitioned"
	StateParseFailed  State = "parse-failed"
	StateSubmitting   State = "submitting"
	StateSubmitted    State = "submitted"
	StateSubmitFailed State = "submit-failed"
)

// BulkCreator sends all candidates in a single request
type BulkCreator interface {
	BulkCreate(ctx context.Context, reqs []domain.CreateClientRequest) ([]domain.Client, error)
}

// Pipeline holds one import session. Loading a new file from any state
// starts over; in-flight work is never cancelled, its result is dropped.
type Pipeline struct {
	creator   BulkCreator
	notifier  ui.Notifier
	logger    *zap.Logger
	validator *Validator

	mu         sync.Mutex
	state      State
	result     Result
	generation int
	onComplete func(count int)
}

// NewPipeline creates an idle pipeline
func NewPipeline(creator BulkCreator, notifier ui.Notifier, logger *zap.Logger) *Pipeline {
	return &Pipeline{
		creator:   creator,
		notifier:  notifier,
		logger:    logger,
		validator: NewValidator(),
		state:     StateIdle,
		result:    Result{Valid: []domain.CreateClientRequest{}, Errors: []RowError{}},
	}
}

// OnComplete registers a callback run with the created count after a
// successful submit
func (p *Pipeline) OnComplete(fn func(count int)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onComplete = fn
}

// State returns the current state
func (p *Pipeline) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Result returns a copy of the current partition
func (p *Pipeline) Result() Result {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Result{
		Valid:  append([]domain.CreateClientRequest{}, p.result.Valid...),
		Errors: append([]RowError{}, p.result.Errors...),
	}
}

// Load parses a workbook and partitions its rows. A nil reader is a no-op.
// On a parse failure both result sets are empty.
func (p *Pipeline) Load(_ context.Context, r io.Reader) error {
	if r == nil {
		return nil
	}

	p.mu.Lock()
	p.generation++
	gen := p.generation
	p.state = StateParsing
	p.result = Result{Valid: []domain.CreateClientRequest{}, Errors: []RowError{}}
	p.mu.Unlock()

	rows, err := Parse(r)

	p.mu.Lock()
	defer p.mu.Unlock()
	if gen != p.generation {
		return nil
	}
	if err != nil {
		p.state = StateParseFailed
		p.notifier.Notify(MsgParseFailed)
		p.logger.Warn("failed to parse import file", zap.Error(err))
		return err
	}

	p.result = p.validator.Partition(rows)
	p.state = StatePartitioned
	p.logger.Debug("import file partitioned",
		zap.Int("valid", len(p.result.Valid)),
		zap.Int("invalid", len(p.result.Errors)),
	)
	return nil
}

// Submit sends the valid set as one bulk-create request and returns the
// number of created clients. With no valid rows it returns 0 without a
// request. A failed submit keeps the partition so it can be retried.
func (p *Pipeline) Submit(ctx context.Context) (int, error) {
	p.mu.Lock()
	if p.state != StatePartitioned && p.state != StateSubmitFailed {
		p.mu.Unlock()
		return 0, nil
	}
	valid := append([]domain.CreateClientRequest{}, p.result.Valid...)
	if len(valid) == 0 {
		p.mu.Unlock()
		return 0, nil
	}
	gen := p.generation
	p.state = StateSubmitting
	p.mu.Unlock()

	created, err := p.creator.BulkCreate(ctx, valid)

	p.mu.Lock()
	current := gen == p.generation
	if err != nil {
		if current {
			p.state = StateSubmitFailed
		}
		p.mu.Unlock()
		p.notifier.Notify(MsgSubmitFailed)
		p.logger.Warn("bulk import failed", zap.Int("rows", len(valid)), zap.Error(err))
		return 0, errors.Join(domain.ErrSubmitFailed, err)
	}

	count := len(created)
	if current {
		p.state = StateSubmitted
	}
	onComplete := p.onComplete
	p.mu.Unlock()

	p.notifier.Notify(ImportedMessage(count))
	p.logger.Info("clients imported", zap.Int("count", count))
	if onComplete != nil {
		onComplete(count)
	}
	return count, nil
}

// Reset discards the partition and returns to idle
func (p *Pipeline) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.generation++
	p.state = StateIdle
	p.result = Result{Valid: []domain.CreateClientRequest{}, Errors: []RowError{}}
}
