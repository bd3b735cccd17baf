package docstore

import (
	"context"
	"reflect"
	"sort"
	"strings"
	"sync"
)

// fakeExecutor is an in-memory Executor with store-like query semantics:
// conjunction filters, single-column sort, projection, and limit. It mimics
// the collaborator contract closely enough to exercise the pagination and
// tenancy logic without a live store.
type fakeExecutor struct {
	mu        sync.Mutex
	items     map[string]Record
	queries   int
	failQuery error
}

func newFakeExecutor() *fakeExecutor {
	return &fakeExecutor{items: map[string]Record{}}
}

func (f *fakeExecutor) ReadItem(_ context.Context, id string) (Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.items[id]
	if !ok {
		return nil, ErrItemNotFound
	}
	return cloneRecord(rec), nil
}

func (f *fakeExecutor) UpsertItem(_ context.Context, rec Record) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	id, _ := rec[idField].(string)
	f.items[id] = cloneRecord(rec)
	return nil
}

func (f *fakeExecutor) DeleteItem(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[id]; !ok {
		return ErrItemNotFound
	}
	delete(f.items, id)
	return nil
}

func (f *fakeExecutor) Query(_ context.Context, q Query) ([]Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries++
	if f.failQuery != nil {
		return nil, f.failQuery
	}

	var matches []Record
	for _, rec := range f.items {
		if matchesPredicate(rec, q.Predicate) {
			matches = append(matches, cloneRecord(rec))
		}
	}

	if q.Sort != nil {
		field := NormalizeField(q.Sort.Field)
		desc := q.Sort.Order == SortDesc
		sort.SliceStable(matches, func(i, j int) bool {
			c := compareValues(matches[i][field], matches[j][field])
			if desc {
				return c > 0
			}
			return c < 0
		})
	}

	if q.Limit > 0 && len(matches) > q.Limit {
		matches = matches[:q.Limit]
	}

	if len(q.Projection) > 0 {
		projected := make([]Record, 0, len(matches))
		for _, rec := range matches {
			p := Record{}
			for _, field := range q.Projection {
				key := NormalizeField(field)
				if v, ok := rec[key]; ok {
					p[key] = v
				}
			}
			projected = append(projected, p)
		}
		matches = projected
	}
	return matches, nil
}

func matchesPredicate(rec Record, pred *Predicate) bool {
	if pred == nil {
		return true
	}
	for _, cond := range pred.Conditions() {
		if !matchesCondition(rec, cond) {
			return false
		}
	}
	return true
}

func matchesCondition(rec Record, cond Condition) bool {
	value, ok := rec[NormalizeField(cond.Field)]
	if !ok {
		return false
	}
	switch cond.Op {
	case OpEqual:
		return compareValues(value, cond.Value) == 0
	case OpNotEqual:
		return compareValues(value, cond.Value) != 0
	case OpGreaterThan:
		return compareValues(value, cond.Value) > 0
	case OpGreaterOrEqual:
		return compareValues(value, cond.Value) >= 0
	case OpLessThan:
		return compareValues(value, cond.Value) < 0
	case OpLessOrEqual:
		return compareValues(value, cond.Value) <= 0
	case OpContains:
		s, ok1 := value.(string)
		sub, ok2 := cond.Value.(string)
		return ok1 && ok2 && strings.Contains(s, sub)
	case OpIn:
		id, ok1 := value.(string)
		set, ok2 := cond.Value.([]string)
		if !ok1 || !ok2 {
			return false
		}
		for _, candidate := range set {
			if candidate == id {
				return true
			}
		}
		return false
	}
	return false
}

// compareValues orders two record values: numerically when both are
// numeric, lexicographically when both are strings.
func compareValues(a, b interface{}) int {
	fa, oka := toFloat(a)
	fb, okb := toFloat(b)
	if oka && okb {
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		}
		return 0
	}
	sa, oka := a.(string)
	sb, okb := b.(string)
	if oka && okb {
		return strings.Compare(sa, sb)
	}
	if reflect.DeepEqual(a, b) {
		return 0
	}
	return -1
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func cloneRecord(rec Record) Record {
	out := make(Record, len(rec))
	for k, v := range rec {
		out[k] = v
	}
	return out
}
