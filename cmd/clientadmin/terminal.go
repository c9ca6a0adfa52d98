package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/straye-as/client-admin/internal/auth"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	promptStyle = lipgloss.NewStyle().Bold(true)
)

// terminal is the CLI front-end: notifications go to stderr, answers are
// read line by line from stdin
type terminal struct {
	out       io.Writer
	errOut    io.Writer
	assumeYes bool

	in       io.Reader
	readOnce sync.Once
	lines    chan string
}

func newTerminal(in io.Reader, out, errOut io.Writer, assumeYes bool) *terminal {
	return &terminal{in: in, out: out, errOut: errOut, assumeYes: assumeYes}
}

// answers starts the single stdin reader. The channel closes at EOF.
func (t *terminal) answers() <-chan string {
	t.readOnce.Do(func() {
		t.lines = make(chan string)
		go func() {
			defer close(t.lines)
			scanner := bufio.NewScanner(t.in)
			for scanner.Scan() {
				t.lines <- strings.TrimSpace(scanner.Text())
			}
		}()
	})
	return t.lines
}

// Notify implements ui.Notifier
func (t *terminal) Notify(message string) {
	fmt.Fprintln(t.errOut, noticeStyle.Render(message))
}

// Offer implements ui.Notifier. The action is taken by typing it or "y"
// before timeout.
func (t *terminal) Offer(ctx context.Context, message, action string, timeout time.Duration) bool {
	fmt.Fprintf(t.errOut, "%s %s ", noticeStyle.Render(message), promptStyle.Render(fmt.Sprintf("[%s/n]", action)))
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case line, ok := <-t.answers():
		return ok && (strings.EqualFold(line, action) || isYes(line))
	case <-timer.C:
		fmt.Fprintln(t.errOut)
		return false
	case <-ctx.Done():
		fmt.Fprintln(t.errOut)
		return false
	}
}

// Confirm implements ui.Confirmer
func (t *terminal) Confirm(ctx context.Context, title, message string) bool {
	fmt.Fprintln(t.errOut, titleStyle.Render(title))
	if t.assumeYes {
		fmt.Fprintf(t.errOut, "%s %s\n", message, mutedStyle.Render("(yes)"))
		return true
	}
	fmt.Fprintf(t.errOut, "%s %s ", message, promptStyle.Render("[y/N]"))

	select {
	case line, ok := <-t.answers():
		return ok && isYes(line)
	case <-ctx.Done():
		fmt.Fprintln(t.errOut)
		return false
	}
}

// Navigate implements ui.Navigator. Only the way back to login needs telling.
func (t *terminal) Navigate(route auth.Route) {
	if route == auth.RouteLogin {
		fmt.Fprintln(t.errOut, mutedStyle.Render(`Run "clientadmin login" to sign in.`))
	}
}

// prompt asks for a single line of input
func (t *terminal) prompt(ctx context.Context, label string) (string, error) {
	fmt.Fprint(t.errOut, promptStyle.Render(label+": "))
	select {
	case line, ok := <-t.answers():
		if !ok {
			return "", io.ErrUnexpectedEOF
		}
		return line, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func isYes(s string) bool {
	switch strings.ToLower(s) {
	case "y", "yes":
		return true
	}
	return false
}

// table renders rows under headers with padded columns
type table struct {
	title   string
	headers []string
	rows    [][]string
}

func newTable(title string, headers ...string) *table {
	return &table{title: title, headers: headers}
}

func (t *table) add(cells ...string) {
	t.rows = append(t.rows, cells)
}

func (t *table) render(w io.Writer) {
	if t.title != "" {
		fmt.Fprintln(w, titleStyle.Render(t.title))
	}
	if len(t.rows) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("(none)"))
		return
	}

	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if i < len(widths) && lipgloss.Width(cell) > widths[i] {
				widths[i] = lipgloss.Width(cell)
			}
		}
	}
	// padding is part of the rendered width
	total := len(widths) - 1
	for i := range widths {
		widths[i] += 2
		total += widths[i]
	}

	sep := mutedStyle.Render("|")
	var sb strings.Builder
	for i, h := range t.headers {
		sb.WriteString(headerStyle.Width(widths[i]).Render(h))
		if i < len(t.headers)-1 {
			sb.WriteString(sep)
		}
	}
	sb.WriteString("\n")
	sb.WriteString(mutedStyle.Render(strings.Repeat("-", total)))
	sb.WriteString("\n")
	for _, row := range t.rows {
		for i := range t.headers {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			sb.WriteString(cellStyle.Width(widths[i]).Render(cell))
			if i < len(t.headers)-1 {
				sb.WriteString(sep)
			}
		}
		sb.WriteString("\n")
	}
	fmt.Fprint(w, sb.String())
}

// fields renders label/value pairs, one per line
func fields(w io.Writer, title string, pairs ...string) {
	if title != "" {
		fmt.Fprintln(w, titleStyle.Render(title))
	}
	width := 0
	for i := 0; i < len(pairs); i += 2 {
		if l := lipgloss.Width(pairs[i]); l > width {
			width = l
		}
	}
	label := mutedStyle.Width(width + 2)
	for i := 0; i+1 < len(pairs); i += 2 {
		fmt.Fprintf(w, "%s%s\n", label.Render(pairs[i]), pairs[i+1])
	}
}
