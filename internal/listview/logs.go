package listview

import (
	"context"
	"sort"

	"github.com/straye-as/client-admin/internal/domain"
	"github.com/straye-as/client-admin/internal/ui"
	"go.uber.org/zap"
)

// LogsAPI is what the audit log screen needs from the backend
type LogsAPI interface {
	List(ctx context.Context) ([]domain.AuditLog, error)
}

// LogsController is the read-only audit log screen. Entries are shown newest
// first; an action filter narrows them to one exact action.
type LogsController struct {
	*Controller[domain.AuditLog]

	action string
}

// NewLogsController creates the audit log screen
func NewLogsController(api LogsAPI, notifier ui.Notifier, logger *zap.Logger) *LogsController {
	load := func(ctx context.Context) ([]domain.AuditLog, error) {
		logs, err := api.List(ctx)
		if err != nil {
			return nil, err
		}
		sort.SliceStable(logs, func(i, j int) bool {
			return logs[i].Timestamp.After(logs[j].Timestamp)
		})
		return logs, nil
	}
	return &LogsController{
		Controller: NewController(Options[domain.AuditLog]{
			Entity:   Entity{Singular: "log", Plural: "logs"},
			Schema:   LogSchema,
			Load:     load,
			PageSize: 25,
			Notifier: notifier,
			Logger:   logger,
		}),
	}
}

// SetAction limits the view to one action, "" for all. The page resets.
func (c *LogsController) SetAction(action string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.action = action
	c.query.PageIndex = 0
}

// Action returns the active action filter
func (c *LogsController) Action() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.action
}

// Actions lists the distinct actions present, in first-seen order
func (c *LogsController) Actions() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	seen := make(map[string]bool)
	var actions []string
	for _, l := range c.records {
		if !seen[l.Action] {
			seen[l.Action] = true
			actions = append(actions, l.Action)
		}
	}
	return actions
}

// View returns the visible page after the action filter and search
func (c *LogsController) View() Page[domain.AuditLog] {
	c.mu.Lock()
	defer c.mu.Unlock()
	logs := c.records
	if c.action != "" {
		logs = make([]domain.AuditLog, 0, len(c.records))
		for _, l := range c.records {
			if l.Action == c.action {
				logs = append(logs, l)
			}
		}
	}
	return Derive(logs, c.query, c.opts.Schema)
}
