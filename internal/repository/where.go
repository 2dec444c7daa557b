package repository

import (
	"fmt"
	"strings"
)

// whereBuilder accumulates positional filter clauses for list queries.
type whereBuilder struct {
	clauses []string
	args    []any
}

// add appends val and a clause whose %[1]d verbs refer to its placeholder number.
func (w *whereBuilder) add(format string, val any) {
	w.args = append(w.args, val)
	w.clauses = append(w.clauses, fmt.Sprintf(format, len(w.args)))
}

func (w *whereBuilder) sql() string {
	if len(w.clauses) == 0 {
		return "1=1"
	}
	return strings.Join(w.clauses, " AND ")
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern matches term as a literal substring; LIKE wildcards in it are escaped.
func likePattern(term string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(strings.TrimSpace(term))) + "%"
}

// likeAny builds a case-insensitive clause matching one pattern placeholder against any column.
func likeAny(columns ...string) string {
	parts := make([]string, len(columns))
	for i, col := range columns {
		parts[i] = "LOWER(" + col + `) LIKE $%[1]d ESCAPE '\'`
	}
	return "(" + strings.Join(parts, " OR ") + ")"
}
