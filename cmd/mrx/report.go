package main

import (
	"fmt"
	"io"
	"strings"
)

// reporter prints an indented key/value tree. Each nesting level adds
// two spaces of indent.
type reporter struct {
	w      io.Writer
	indent string
}

func newReporter(w io.Writer) *reporter {
	return &reporter{w: w}
}

func (r *reporter) kv(key string, value any) {
	fmt.Fprintf(r.w, "%s%s: %v\n", r.indent, key, value)
}

func (r *reporter) line(text string) {
	fmt.Fprintf(r.w, "%s%s\n", r.indent, text)
}

// child opens a nested section headed by desc and returns a reporter
// for its contents.
func (r *reporter) child(desc string) *reporter {
	r.line(desc)
	return &reporter{w: r.w, indent: r.indent + "  "}
}

func (r *reporter) section(format string, args ...any) *reporter {
	return r.child(fmt.Sprintf(format, args...))
}

func (r *reporter) blank() {
	fmt.Fprintln(r.w, strings.TrimRight(r.indent, " "))
}
