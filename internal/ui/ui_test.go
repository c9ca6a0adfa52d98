package ui_test

import (
	"context"
	"testing"
	"time"

	"github.com/straye-as/client-admin/internal/auth"
	"github.com/straye-as/client-admin/internal/ui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextConfirmer(t *testing.T) {
	var c ui.ContextConfirmer
	assert.False(t, c.Confirm(context.Background(), "Delete", "sure?"))
	assert.True(t, c.Confirm(ui.WithConfirmation(context.Background(), true), "Delete", "sure?"))
	assert.False(t, c.Confirm(ui.WithConfirmation(context.Background(), false), "Delete", "sure?"))
}

func TestFeedSinceAndTrim(t *testing.T) {
	f := ui.NewFeed(2, nil)
	mark := f.Mark()

	f.Notify("one")
	accepted := f.Offer(context.Background(), "Request failed. Try again?", "Retry", time.Second)
	assert.False(t, accepted)

	got := f.Since(mark)
	require.Len(t, got, 2)
	assert.Equal(t, "one", got[0].Message)
	assert.Equal(t, "Retry", got[1].Action)

	mark = f.Mark()
	f.Notify("three")
	assert.Len(t, f.Since(mark), 1)
	// only the last two survive
	assert.Len(t, f.Since(0), 2)
	assert.Equal(t, "three", f.Since(0)[1].Message)
}

func TestRecorderDefaults(t *testing.T) {
	rec := &ui.Recorder{}
	assert.False(t, rec.Offer(context.Background(), "m", "a", time.Second))
	assert.False(t, rec.Confirm(context.Background(), "t", "m"))
	rec.Navigate(auth.RouteLogin)
	assert.Equal(t, []auth.Route{auth.RouteLogin}, rec.Routes())
	assert.Empty(t, rec.LastMessage())
}

func TestRouteTracker(t *testing.T) {
	var tr ui.RouteTracker
	assert.Equal(t, auth.Route(""), tr.Current())
	tr.Navigate(auth.RouteClients)
	assert.Equal(t, auth.RouteClients, tr.Current())
}
