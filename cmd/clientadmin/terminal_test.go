package main

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/straye-as/client-admin/internal/auth"
	"github.com/stretchr/testify/assert"
)

func TestTerminalConfirm(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		assumeYes bool
		want      bool
	}{
		{name: "yes", input: "y\n", want: true},
		{name: "full yes", input: "YES\n", want: true},
		{name: "no", input: "n\n", want: false},
		{name: "empty line", input: "\n", want: false},
		{name: "end of input", input: "", want: false},
		{name: "assume yes", input: "", assumeYes: true, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var errOut bytes.Buffer
			term := newTerminal(strings.NewReader(tt.input), &bytes.Buffer{}, &errOut, tt.assumeYes)
			got := term.Confirm(context.Background(), "Delete Client", "Are you sure?")
			assert.Equal(t, tt.want, got)
			assert.Contains(t, errOut.String(), "Delete Client")
		})
	}
}

func TestTerminalOffer(t *testing.T) {
	var errOut bytes.Buffer
	term := newTerminal(strings.NewReader("retry\n"), &bytes.Buffer{}, &errOut, false)
	assert.True(t, term.Offer(context.Background(), "Request failed", "retry", time.Second))
	assert.Contains(t, errOut.String(), "Request failed")
}

func TestTerminalOfferExpires(t *testing.T) {
	r := newBlockingReader(t)
	term := newTerminal(r, &bytes.Buffer{}, &bytes.Buffer{}, false)
	start := time.Now()
	assert.False(t, term.Offer(context.Background(), "Request failed", "retry", 20*time.Millisecond))
	assert.Less(t, time.Since(start), time.Second)
}

func TestTerminalOfferCancelled(t *testing.T) {
	r := newBlockingReader(t)
	term := newTerminal(r, &bytes.Buffer{}, &bytes.Buffer{}, false)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.False(t, term.Offer(ctx, "Request failed", "retry", time.Minute))
}

func TestTerminalNavigateToLogin(t *testing.T) {
	var errOut bytes.Buffer
	term := newTerminal(strings.NewReader(""), &bytes.Buffer{}, &errOut, false)
	term.Navigate(auth.RouteClients)
	assert.Empty(t, errOut.String())
	term.Navigate(auth.RouteLogin)
	assert.Contains(t, errOut.String(), "clientadmin login")
}

func TestTableRender(t *testing.T) {
	var out bytes.Buffer
	tbl := newTable("Clients", "ID", "Name")
	tbl.add("1", "Alice")
	tbl.add("22", "Bob")
	tbl.render(&out)

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	assert.Len(t, lines, 5)
	assert.Contains(t, lines[0], "Clients")
	assert.Contains(t, lines[1], "ID")
	assert.Contains(t, lines[1], "|")
	assert.True(t, strings.HasPrefix(strings.TrimSpace(lines[2]), "---"))
	assert.Contains(t, lines[3], "Alice")
	assert.Contains(t, lines[4], "Bob")
}

func TestTableRenderEmpty(t *testing.T) {
	var out bytes.Buffer
	newTable("", "ID").render(&out)
	assert.Contains(t, out.String(), "(none)")
}

// blockingReader never returns, like an idle terminal
type blockingReader struct {
	done chan struct{}
}

func newBlockingReader(t *testing.T) *blockingReader {
	r := &blockingReader{done: make(chan struct{})}
	t.Cleanup(func() { close(r.done) })
	return r
}

func (r *blockingReader) Read([]byte) (int, error) {
	<-r.done
	return 0, io.EOF
}
