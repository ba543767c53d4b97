package querybuilder

type Condition interface {
	render(w *writer)
}

type compare struct {
	column string
	op     string
	value  any
}

func (c compare) render(w *writer) {
	w.write(c.column, " ", c.op, " ", w.bind(c.value))
}

func Eq(column string, value any) Condition  { return compare{column: column, op: "=", value: value} }
func Lt(column string, value any) Condition  { return compare{column: column, op: "<", value: value} }
func Gt(column string, value any) Condition  { return compare{column: column, op: ">", value: value} }
func Gte(column string, value any) Condition { return compare{column: column, op: ">=", value: value} }

type membership struct {
	column string
	values []any
	negate bool
}

// In renders "column IN (...)". An empty list matches nothing.
func In(column string, values ...any) Condition {
	return membership{column: column, values: values}
}

// NotIn renders "column NOT IN (...)". An empty list matches everything.
func NotIn(column string, values ...any) Condition {
	return membership{column: column, values: values, negate: true}
}

func (m membership) render(w *writer) {
	if len(m.values) == 0 {
		if m.negate {
			w.write("1=1")
		} else {
			w.write("1=0")
		}
		return
	}

	w.write(m.column)
	if m.negate {
		w.write(" NOT")
	}
	w.write(" IN (")
	for i, v := range m.values {
		if i > 0 {
			w.write(", ")
		}
		w.write(w.bind(v))
	}
	w.write(")")
}

type isNull struct {
	column string
}

func IsNull(column string) Condition { return isNull{column: column} }

func (c isNull) render(w *writer) {
	w.write(c.column, " IS NULL")
}

type expr struct {
	sql  string
	args []any
}

// Expr embeds raw SQL with '?' placeholders.
func Expr(sql string, args ...any) Condition {
	return expr{sql: sql, args: args}
}

func (e expr) render(w *writer) {
	w.expand(e.sql, e.args)
}
