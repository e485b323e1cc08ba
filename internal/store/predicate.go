package store

import "strings"

const (
	opLike = "LIKE"
	opLTE  = "<="
)

// likeEscape is the ESCAPE character used for LIKE patterns. It is not a
// string-literal escape in any supported dialect.
const likeEscape = "!"

type predicate struct {
	column string
	op     string
	arg    any
}

func (p predicate) render(placeholder string) string {
	if p.op == opLike {
		return p.column + " LIKE " + placeholder + " ESCAPE '" + likeEscape + "'"
	}
	return p.column + " " + p.op + " " + placeholder
}

// whereBuilder collects the active predicates of a query and joins them
// with AND.
type whereBuilder struct {
	dialect Dialect
	preds   []predicate
}

func (w *whereBuilder) add(column, op string, arg any) {
	w.preds = append(w.preds, predicate{column: column, op: op, arg: arg})
}

// contains adds a literal substring match on column.
func (w *whereBuilder) contains(column, substr string) {
	w.add(column, opLike, containsPattern(substr))
}

// build renders the clause including its leading " WHERE ", or an empty
// string when no predicate is active. Placeholders are numbered from
// firstArg.
func (w *whereBuilder) build(firstArg int) (string, []any) {
	if len(w.preds) == 0 {
		return "", nil
	}
	conds := make([]string, len(w.preds))
	args := make([]any, len(w.preds))
	for i, p := range w.preds {
		conds[i] = p.render(w.dialect.bind(firstArg + i))
		args[i] = p.arg
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// containsPattern escapes LIKE metacharacters in s and wraps it in %.
func containsPattern(s string) string {
	r := strings.NewReplacer(
		likeEscape, likeEscape+likeEscape,
		"%", likeEscape+"%",
		"_", likeEscape+"_",
	)
	return "%" + r.Replace(s) + "%"
}
