package docstore

import (
	"fmt"
	"strings"
	"unicode"
)

// Operator enumerates the comparisons the query representation supports.
type Operator string

// Comparison operators
const (
	OpEqual          Operator = "="
	OpNotEqual       Operator = "!="
	OpGreaterThan    Operator = ">"
	OpGreaterOrEqual Operator = ">="
	OpLessThan       Operator = "<"
	OpLessOrEqual    Operator = "<="
	// OpContains matches records whose string field contains the value.
	OpContains Operator = "CONTAINS"
	// OpIn matches records whose field equals one of the values in a []string.
	OpIn Operator = "IN"
)

// Condition is a single field comparison.
type Condition struct {
	Field string
	Op    Operator
	Value interface{}
}

// Predicate is a conjunction of conditions over the fields of a document
// type. Predicates are immutable; And returns a new predicate.
type Predicate struct {
	conds []Condition
}

// Equal matches records whose field equals value.
func Equal(field string, value interface{}) *Predicate {
	return newPredicate(field, OpEqual, value)
}

// NotEqual matches records whose field differs from value.
func NotEqual(field string, value interface{}) *Predicate {
	return newPredicate(field, OpNotEqual, value)
}

// GreaterThan matches records whose field exceeds value.
func GreaterThan(field string, value interface{}) *Predicate {
	return newPredicate(field, OpGreaterThan, value)
}

// GreaterOrEqual matches records whose field is at least value.
func GreaterOrEqual(field string, value interface{}) *Predicate {
	return newPredicate(field, OpGreaterOrEqual, value)
}

// LessThan matches records whose field is below value.
func LessThan(field string, value interface{}) *Predicate {
	return newPredicate(field, OpLessThan, value)
}

// LessOrEqual matches records whose field is at most value.
func LessOrEqual(field string, value interface{}) *Predicate {
	return newPredicate(field, OpLessOrEqual, value)
}

// Contains matches records whose string field contains value.
func Contains(field string, value string) *Predicate {
	return newPredicate(field, OpContains, value)
}

// In matches records whose field equals one of values.
func In(field string, values []string) *Predicate {
	return newPredicate(field, OpIn, values)
}

func newPredicate(field string, op Operator, value interface{}) *Predicate {
	return &Predicate{conds: []Condition{{Field: field, Op: op, Value: value}}}
}

// And combines two predicates into a conjunction.
func (p *Predicate) And(q *Predicate) *Predicate {
	merged := &Predicate{conds: make([]Condition, 0, len(p.conds)+len(q.conds))}
	merged.conds = append(merged.conds, p.conds...)
	merged.conds = append(merged.conds, q.conds...)
	return merged
}

// Conditions returns a copy of the predicate's conditions.
func (p *Predicate) Conditions() []Condition {
	out := make([]Condition, len(p.conds))
	copy(out, p.conds)
	return out
}

// SortOrder defines the direction of sorting.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// Sort specifies field and direction for ordering results.
type Sort struct {
	Field string
	Order SortOrder
}

// ParseSortKey interprets a sort key of the form "Field" for ascending or
// "-Field" for descending order. The target store supports a single ORDER BY
// column, so only the first comma-separated token is honored. The field name
// is normalized, so a lowercase or mixed-case key still resolves.
func ParseSortKey(key string) (Sort, error) {
	if i := strings.Index(key, ","); i >= 0 {
		key = key[:i]
	}
	key = strings.TrimSpace(key)
	order := SortAsc
	if strings.HasPrefix(key, "-") {
		order = SortDesc
		key = strings.TrimSpace(key[1:])
	}
	if key == "" {
		return Sort{}, NewValidationError("sort key is required")
	}
	return Sort{Field: NormalizeField(key), Order: order}, nil
}

// NormalizeField maps a field name onto its stored spelling: the identifier
// field uses the store-reserved lowercase "id", every other field the
// exported Go casing.
func NormalizeField(name string) string {
	if name == "" {
		return name
	}
	if strings.EqualFold(name, idField) {
		return idField
	}
	r := []rune(name)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

// Query is the structured form handed to an Executor. Executors render it to
// their native dialect in a single step; no query text is ever rewritten
// after rendering.
type Query struct {
	// Projection limits the returned fields; empty means the whole record.
	Projection []string
	Predicate  *Predicate
	Sort       *Sort
	// Limit caps the number of results; zero means unlimited.
	Limit int
}

// Parameter is a bound value in a rendered Cosmos SQL query.
type Parameter struct {
	Name  string
	Value interface{}
}

// RenderSQL renders the query into the Cosmos DB SQL dialect. Values are
// bound as parameters, never spliced into the text, so literals containing
// operator or keyword tokens cannot corrupt the query.
func (q Query) RenderSQL() (string, []Parameter) {
	var b strings.Builder
	b.WriteString("SELECT ")
	if q.Limit > 0 {
		fmt.Fprintf(&b, "TOP %d ", q.Limit)
	}
	if len(q.Projection) == 0 {
		b.WriteString("*")
	} else {
		for i, field := range q.Projection {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString("c." + NormalizeField(field))
		}
	}
	b.WriteString(" FROM c")

	var params []Parameter
	if q.Predicate != nil && len(q.Predicate.conds) > 0 {
		b.WriteString(" WHERE ")
		for i, cond := range q.Predicate.conds {
			if i > 0 {
				b.WriteString(" AND ")
			}
			name := fmt.Sprintf("@p%d", i)
			field := NormalizeField(cond.Field)
			switch cond.Op {
			case OpContains:
				fmt.Fprintf(&b, "CONTAINS(c.%s, %s)", field, name)
			case OpIn:
				fmt.Fprintf(&b, "ARRAY_CONTAINS(%s, c.%s)", name, field)
			default:
				fmt.Fprintf(&b, "c.%s %s %s", field, cond.Op, name)
			}
			params = append(params, Parameter{Name: name, Value: cond.Value})
		}
	}

	if q.Sort != nil {
		dir := "ASC"
		if q.Sort.Order == SortDesc {
			dir = "DESC"
		}
		fmt.Fprintf(&b, " ORDER BY c.%s %s", NormalizeField(q.Sort.Field), dir)
	}
	return b.String(), params
}
