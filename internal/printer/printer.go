// Package printer writes human-facing CLI output with the active theme.
package printer

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/colonyops/redline/internal/core/styles"
)

type ctxKey struct{}

// Printer writes status lines to out and errors to err.
type Printer struct {
	out io.Writer
	err io.Writer
}

// New creates a Printer.
func New(out, err io.Writer) *Printer {
	return &Printer{out: out, err: err}
}

// NewContext returns a context carrying p.
func NewContext(ctx context.Context, p *Printer) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

// Ctx returns the Printer stored in ctx, or one writing to stdout and
// stderr.
func Ctx(ctx context.Context) *Printer {
	if p, ok := ctx.Value(ctxKey{}).(*Printer); ok {
		return p
	}
	return New(os.Stdout, os.Stderr)
}

// Printf writes an unstyled line.
func (p *Printer) Printf(format string, args ...any) {
	_, _ = fmt.Fprintf(p.out, format+"\n", args...)
}

// Successf writes a line prefixed with the accepted icon.
func (p *Printer) Successf(format string, args ...any) {
	p.line(p.out, styles.AcceptedStyle.Render(styles.IconAccepted), format, args...)
}

// Infof writes a muted line.
func (p *Printer) Infof(format string, args ...any) {
	p.line(p.out, styles.MutedStyle.Render(styles.IconUndecided), format, args...)
}

// Warnf writes a warning to the error stream.
func (p *Printer) Warnf(format string, args ...any) {
	p.line(p.err, styles.WarningStyle.Render(styles.IconRisk), format, args...)
}

// Errorf writes an error to the error stream.
func (p *Printer) Errorf(format string, args ...any) {
	p.line(p.err, styles.RejectedStyle.Render(styles.IconRejected), format, args...)
}

func (p *Printer) line(w io.Writer, icon, format string, args ...any) {
	_, _ = fmt.Fprintf(w, "%s %s\n", icon, fmt.Sprintf(format, args...))
}
