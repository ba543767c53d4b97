package querybuilder

import (
	"strconv"
	"strings"
)

// writer accumulates SQL text and positional ($n) arguments.
type writer struct {
	sql  strings.Builder
	args []any
}

func (w *writer) bind(value any) string {
	w.args = append(w.args, value)
	return "$" + strconv.Itoa(len(w.args))
}

func (w *writer) write(parts ...string) {
	for _, p := range parts {
		w.sql.WriteString(p)
	}
}

// expand replaces each '?' in expr with the next bound argument. Extra
// '?' characters without an argument are left as-is.
func (w *writer) expand(expr string, args []any) {
	next := 0
	for i := 0; i < len(expr); i++ {
		if expr[i] == '?' && next < len(args) {
			w.sql.WriteString(w.bind(args[next]))
			next++
			continue
		}
		w.sql.WriteByte(expr[i])
	}
}

func (w *writer) where(conditions []Condition) {
	if len(conditions) == 0 {
		return
	}
	w.write(" WHERE ")
	for i, c := range conditions {
		if i > 0 {
			w.write(" AND ")
		}
		c.render(w)
	}
}
