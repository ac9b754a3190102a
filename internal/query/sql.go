package query

import (
	"fmt"
	"strings"
)

var sqlOperators = map[Op]string{
	OpEq:  "=",
	OpGt:  ">",
	OpGte: ">=",
	OpLt:  "<",
	OpLte: "<=",
}

// Where renders the filters as a parameterised AND clause whose first
// placeholder is $firstArg. It returns "" and no args when there are no
// filters.
func (s *Spec) Where(firstArg int) (string, []any) {
	if len(s.Filters) == 0 {
		return "", nil
	}

	parts := make([]string, 0, len(s.Filters))
	args := make([]any, 0, len(s.Filters))
	n := firstArg
	for _, f := range s.Filters {
		if f.Kind == KindTextArray {
			parts = append(parts, fmt.Sprintf("$%d = ANY(%s)", n, f.Column))
		} else {
			parts = append(parts, fmt.Sprintf("%s %s $%d", f.Column, sqlOperators[f.Op], n))
		}
		args = append(args, f.Value)
		n++
	}
	return strings.Join(parts, " AND "), args
}

// OrderBy renders the sort keys followed by an id tiebreaker so that
// pagination is stable.
func (s *Spec) OrderBy() string {
	parts := make([]string, 0, len(s.Sort)+1)
	for _, k := range s.Sort {
		dir := "ASC"
		if k.Desc {
			dir = "DESC"
		}
		parts = append(parts, k.Column+" "+dir)
	}
	parts = append(parts, "id ASC")
	return strings.Join(parts, ", ")
}
