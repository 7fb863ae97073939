package handler

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// Printer writes user facing status lines.
type Printer struct {
	w       io.Writer
	warn    *color.Color
	fail    *color.Color
	success *color.Color
}

// NewPrinter returns a Printer writing to w. Colors are only emitted when
// colored is true.
func NewPrinter(w io.Writer, colored bool) *Printer {
	p := &Printer{
		w:       w,
		warn:    color.New(color.FgYellow),
		fail:    color.New(color.FgRed),
		success: color.New(color.FgGreen),
	}
	for _, c := range []*color.Color{p.warn, p.fail, p.success} {
		if colored {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p *Printer) Warn(format string, args ...any) {
	p.warn.Fprintln(p.w, "⚠️ "+fmt.Sprintf(format, args...))
}

func (p *Printer) Error(format string, args ...any) {
	p.fail.Fprintln(p.w, "❌ "+fmt.Sprintf(format, args...))
}

func (p *Printer) Success(format string, args ...any) {
	p.success.Fprintln(p.w, "✔️ "+fmt.Sprintf(format, args...))
}

// FormatList renders labels the way Python prints a list of strings,
// e.g. ['144p', '360p'].
func FormatList(items []string) string {
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = "'" + s + "'"
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
