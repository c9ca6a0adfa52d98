// Package dashboard summarizes the client base and recent audit activity.
package dashboard

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/straye-as/client-admin/internal/domain"
	"go.uber.org/zap"
)

// RecentLogLimit is how many audit entries the summary carries
const RecentLogLimit = 5

// UnknownLocation labels clients without a location
const UnknownLocation = "Unknown"

// LocationCount is the number of clients in one location
type LocationCount struct {
	Location string `json:"location"`
	Count    int    `json:"count"`
}

// Summary is what the dashboard shows
type Summary struct {
	Total      int               `json:"total"`
	Active     int               `json:"active"`
	Inactive   int               `json:"inactive"`
	ByLocation []LocationCount   `json:"byLocation"`
	RecentLogs []domain.AuditLog `json:"recentLogs"`
}

// ClientLister lists clients
type ClientLister interface {
	List(ctx context.Context) ([]domain.Client, error)
}

// LogLister lists audit logs
type LogLister interface {
	List(ctx context.Context) ([]domain.AuditLog, error)
}

// Aggregator builds a Summary from the backend
type Aggregator struct {
	clients ClientLister
	logs    LogLister
	logger  *zap.Logger
}

// NewAggregator creates an Aggregator. logs may be nil when the operator
// cannot read audit logs.
func NewAggregator(clients ClientLister, logs LogLister, logger *zap.Logger) *Aggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Aggregator{clients: clients, logs: logs, logger: logger}
}

// Summarize fetches clients and logs. Failing to list clients is an error;
// failing to list logs yields a summary without logs.
func (a *Aggregator) Summarize(ctx context.Context) (*Summary, error) {
	clients, err := a.clients.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load clients: %w", err)
	}

	summary := Summarize(clients)
	if a.logs == nil {
		return summary, nil
	}

	logs, err := a.logs.List(ctx)
	if err != nil {
		a.logger.Debug("dashboard logs unavailable", zap.Error(err))
		return summary, nil
	}
	summary.RecentLogs = Recent(logs, RecentLogLimit)
	return summary, nil
}

// Summarize counts clients by state and by location
func Summarize(clients []domain.Client) *Summary {
	s := &Summary{Total: len(clients), ByLocation: []LocationCount{}, RecentLogs: []domain.AuditLog{}}
	index := make(map[string]int)
	for _, c := range clients {
		if c.Active {
			s.Active++
		} else {
			s.Inactive++
		}

		loc := strings.TrimSpace(c.Location)
		if loc == "" {
			loc = UnknownLocation
		}
		i, ok := index[loc]
		if !ok {
			i = len(s.ByLocation)
			index[loc] = i
			s.ByLocation = append(s.ByLocation, LocationCount{Location: loc})
		}
		s.ByLocation[i].Count++
	}
	return s
}

// Recent returns the n newest logs, newest first
func Recent(logs []domain.AuditLog, n int) []domain.AuditLog {
	sorted := append([]domain.AuditLog(nil), logs...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.After(sorted[j].Timestamp)
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}
