// Package query turns client supplied listing parameters into a validated,
// typed description of a catalog query. Nothing from the request reaches
// SQL except through the allow-listed columns of a Schema and bound
// parameters.
package query

import (
	"fmt"
	"math"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/BradenHooton/storefront/internal/models"
	"github.com/google/uuid"
)

// Kind is the value type of a field; it decides how raw values are parsed.
type Kind int

const (
	KindText Kind = iota
	KindNumber
	KindBool
	KindTime
	KindID
	KindTextArray // eq means "contains"
)

type Op string

const (
	OpEq  Op = "eq"
	OpGt  Op = "gt"
	OpGte Op = "gte"
	OpLt  Op = "lt"
	OpLte Op = "lte"
)

var comparisonOps = map[string]Op{
	"gt":  OpGt,
	"gte": OpGte,
	"lt":  OpLt,
	"lte": OpLte,
}

// Reserved parameter names never become filters.
const (
	ParamPage   = "page"
	ParamSort   = "sort"
	ParamLimit  = "limit"
	ParamFields = "fields"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100
	// MaxOffset bounds (page-1)*limit to what the store accepts as OFFSET
	// on every platform.
	MaxOffset = math.MaxInt32
)

// Field describes one client-visible field. A Field with an empty Column
// may be projected but not filtered or sorted.
type Field struct {
	Column string
	Kind   Kind
	// Ops lists the comparison operators accepted in addition to eq.
	Ops []Op
}

func (f Field) allows(op Op) bool {
	if op == OpEq {
		return true
	}
	if f.Kind != KindNumber && f.Kind != KindTime {
		return false
	}
	for _, o := range f.Ops {
		if o == op {
			return true
		}
	}
	return false
}

// Schema is the allow-list of fields a listing endpoint accepts.
type Schema struct {
	Fields      map[string]Field
	DefaultSort string // e.g. "-createdAt"
}

type Filter struct {
	Field  string
	Column string
	Kind   Kind
	Op     Op
	Value  any
}

type SortKey struct {
	Field  string
	Column string
	Desc   bool
}

// Spec is a validated listing request.
type Spec struct {
	Filters []Filter
	Sort    []SortKey
	Fields  []string
	Page    int
	Limit   int
	Skip    int
}

// Build validates params against schema. Any unknown field, disallowed
// operator, or unparseable value fails with models.ErrValidation.
func Build(params url.Values, schema Schema) (*Spec, error) {
	spec := &Spec{Page: 1, Limit: DefaultLimit}

	keys := make([]string, 0, len(params))
	for key := range params {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		switch key {
		case ParamPage, ParamSort, ParamLimit, ParamFields:
			continue
		}

		name, op, err := parseKey(key)
		if err != nil {
			return nil, err
		}
		field, ok := schema.Fields[name]
		if !ok || field.Column == "" {
			return nil, models.NewValidationError("cannot filter on %q", name)
		}
		if !field.allows(op) {
			return nil, models.NewValidationError("operator %q is not allowed on %q", op, name)
		}

		for _, raw := range params[key] {
			value, err := parseValue(field.Kind, raw)
			if err != nil {
				return nil, models.NewValidationError("invalid value for %q: %v", name, err)
			}
			spec.Filters = append(spec.Filters, Filter{
				Field:  name,
				Column: field.Column,
				Kind:   field.Kind,
				Op:     op,
				Value:  value,
			})
		}
	}

	sortParam := params.Get(ParamSort)
	if sortParam == "" {
		sortParam = schema.DefaultSort
	}
	sortKeys, err := parseSort(sortParam, schema)
	if err != nil {
		return nil, err
	}
	spec.Sort = sortKeys

	fields, err := parseFields(params.Get(ParamFields), schema)
	if err != nil {
		return nil, err
	}
	spec.Fields = fields

	if raw := params.Get(ParamPage); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return nil, models.NewValidationError("page must be a positive integer")
		}
		spec.Page = page
	}
	if raw := params.Get(ParamLimit); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > MaxLimit {
			return nil, models.NewValidationError("limit must be an integer between 1 and %d", MaxLimit)
		}
		spec.Limit = limit
	}
	if spec.Page-1 > MaxOffset/spec.Limit {
		return nil, models.NewValidationError("page %d is out of range", spec.Page)
	}
	spec.Skip = (spec.Page - 1) * spec.Limit

	return spec, nil
}

// parseKey splits "price[gte]" into ("price", OpGte). The operator is only
// recognised as a complete bracketed suffix.
func parseKey(key string) (string, Op, error) {
	open := strings.IndexByte(key, '[')
	if open < 0 {
		if strings.ContainsRune(key, ']') {
			return "", "", models.NewValidationError("malformed parameter %q", key)
		}
		return key, OpEq, nil
	}
	if open == 0 || !strings.HasSuffix(key, "]") || strings.Count(key, "[") != 1 || strings.Count(key, "]") != 1 {
		return "", "", models.NewValidationError("malformed parameter %q", key)
	}

	name := key[:open]
	token := key[open+1 : len(key)-1]
	op, ok := comparisonOps[token]
	if !ok {
		return "", "", models.NewValidationError("unknown operator %q", token)
	}
	return name, op, nil
}

func parseValue(kind Kind, raw string) (any, error) {
	switch kind {
	case KindNumber:
		f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, fmt.Errorf("not a number")
		}
		return f, nil
	case KindBool:
		b, err := strconv.ParseBool(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("not a boolean")
		}
		return b, nil
	case KindTime:
		return parseTime(strings.TrimSpace(raw))
	case KindID:
		id, err := uuid.Parse(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("not an id")
		}
		return id.String(), nil
	default:
		return raw, nil
	}
}

func parseTime(raw string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("not a timestamp")
}

func parseSort(raw string, schema Schema) ([]SortKey, error) {
	if raw == "" {
		return nil, nil
	}
	var keys []SortKey
	seen := make(map[string]bool)
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		desc := strings.HasPrefix(part, "-")
		name := strings.TrimPrefix(part, "-")

		field, ok := schema.Fields[name]
		if !ok || field.Column == "" || field.Kind == KindTextArray {
			return nil, models.NewValidationError("cannot sort on %q", name)
		}
		if seen[name] {
			continue
		}
		seen[name] = true
		keys = append(keys, SortKey{Field: name, Column: field.Column, Desc: desc})
	}
	return keys, nil
}

func parseFields(raw string, schema Schema) ([]string, error) {
	if raw == "" {
		return nil, nil
	}
	var fields []string
	seen := make(map[string]bool)
	for _, name := range strings.Split(raw, ",") {
		name = strings.TrimSpace(name)
		if name == "" || seen[name] {
			continue
		}
		if _, ok := schema.Fields[name]; !ok {
			return nil, models.NewValidationError("unknown field %q", name)
		}
		seen[name] = true
		fields = append(fields, name)
	}
	return fields, nil
}

// CheckPage rejects a page that starts at or beyond total matching rows.
// The first page is deliberately exempt: an empty result on page 1 is an
// empty listing, not ErrPageOutOfRange. Keep the Skip > 0 guard.
func (s *Spec) CheckPage(total int64) error {
	if s.Skip > 0 && int64(s.Skip) >= total {
		return models.ErrPageOutOfRange
	}
	return nil
}
