// Package ui defines the ports screen controllers use to talk to whatever
// front-end is driving them: the CLI, the console server, or a test.
package ui

import (
	"context"
	"sync"
	"time"

	"github.com/straye-as/client-admin/internal/auth"
	"go.uber.org/zap"
)

// Notifier shows transient messages to the operator
type Notifier interface {
	// Notify shows a message that needs no response
	Notify(message string)
	// Offer shows a message with a single action. It returns true only if
	// the operator takes the action before timeout elapses or ctx ends.
	Offer(ctx context.Context, message, action string, timeout time.Duration) bool
}

// Navigator moves the operator to another screen
type Navigator interface {
	Navigate(route auth.Route)
}

// Confirmer asks the operator a yes/no question. Only an explicit yes is true.
type Confirmer interface {
	Confirm(ctx context.Context, title, message string) bool
}

// Default confirmation texts
const (
	DefaultConfirmTitle   = "Confirm"
	DefaultConfirmMessage = "Are you sure?"
)

// Offer is one recorded Offer call
type Offer struct {
	Message string
	Action  string
	Timeout time.Duration
}

// Recorder implements every port in memory. Offers and confirmations are
// answered from the configured values.
type Recorder struct {
	mu sync.Mutex

	AcceptOffers bool
	ConfirmWith  bool

	messages      []string
	offers        []Offer
	routes        []auth.Route
	confirmations []string
}

// Notify implements Notifier
func (r *Recorder) Notify(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, message)
}

// Offer implements Notifier
func (r *Recorder) Offer(_ context.Context, message, action string, timeout time.Duration) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.offers = append(r.offers, Offer{Message: message, Action: action, Timeout: timeout})
	return r.AcceptOffers
}

// Navigate implements Navigator
func (r *Recorder) Navigate(route auth.Route) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.routes = append(r.routes, route)
}

// Confirm implements Confirmer
func (r *Recorder) Confirm(_ context.Context, title, message string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.confirmations = append(r.confirmations, title+": "+message)
	return r.ConfirmWith
}

// Messages returns the notifications shown so far
func (r *Recorder) Messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.messages...)
}

// LastMessage returns the most recent notification or ""
func (r *Recorder) LastMessage() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.messages) == 0 {
		return ""
	}
	return r.messages[len(r.messages)-1]
}

// Offers returns the offers shown so far
func (r *Recorder) Offers() []Offer {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Offer(nil), r.offers...)
}

// Routes returns the navigations so far
func (r *Recorder) Routes() []auth.Route {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]auth.Route(nil), r.routes...)
}

// Confirmations returns the "title: message" of every confirmation asked
func (r *Recorder) Confirmations() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.confirmations...)
}

// LogNotifier writes notifications to a zap logger. It never accepts offers,
// so a failed request behaves as if the offer was dismissed.
type LogNotifier struct {
	Logger *zap.Logger
}

// Notify implements Notifier
func (n LogNotifier) Notify(message string) {
	n.Logger.Info(message)
}

// Offer implements Notifier
func (n LogNotifier) Offer(_ context.Context, message, action string, _ time.Duration) bool {
	n.Logger.Info(message, zap.String("action", action), zap.Bool("accepted", false))
	return false
}

// NopNavigator ignores navigation
type NopNavigator struct{}

// Navigate implements Navigator
func (NopNavigator) Navigate(auth.Route) {}

// StaticConfirmer answers every confirmation with Answer
type StaticConfirmer struct {
	Answer bool
}

// Confirm implements Confirmer
func (c StaticConfirmer) Confirm(context.Context, string, string) bool {
	return c.Answer
}
