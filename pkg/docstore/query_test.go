package docstore

import (
	"errors"
	"reflect"
	"testing"
)

func TestRenderSQL(t *testing.T) {
	tests := []struct {
		name       string
		query      Query
		wantSQL    string
		wantParams []Parameter
	}{
		{
			name:    "select all",
			query:   Query{},
			wantSQL: "SELECT * FROM c",
		},
		{
			name: "single equality",
			query: Query{
				Predicate: Equal("Name", "Wes"),
			},
			wantSQL: "SELECT * FROM c WHERE c.Name = @p0",
			wantParams: []Parameter{
				{Name: "@p0", Value: "Wes"},
			},
		},
		{
			name: "conjunction with sort",
			query: Query{
				Predicate: GreaterThan("Age", 21).And(Equal("EntityType", "svc.person")),
				Sort:      &Sort{Field: "Age", Order: SortAsc},
			},
			wantSQL: "SELECT * FROM c WHERE c.Age > @p0 AND c.EntityType = @p1 ORDER BY c.Age ASC",
			wantParams: []Parameter{
				{Name: "@p0", Value: 21},
				{Name: "@p1", Value: "svc.person"},
			},
		},
		{
			name: "ids projection",
			query: Query{
				Projection: []string{"id"},
				Predicate:  Equal("EntityType", "svc.person"),
				Sort:       &Sort{Field: "Name", Order: SortDesc},
			},
			wantSQL: "SELECT c.id FROM c WHERE c.EntityType = @p0 ORDER BY c.Name DESC",
			wantParams: []Parameter{
				{Name: "@p0", Value: "svc.person"},
			},
		},
		{
			name: "limit renders as TOP",
			query: Query{
				Limit:     1,
				Predicate: Equal("Name", "Wes"),
			},
			wantSQL: "SELECT TOP 1 * FROM c WHERE c.Name = @p0",
			wantParams: []Parameter{
				{Name: "@p0", Value: "Wes"},
			},
		},
		{
			name: "contains",
			query: Query{
				Predicate: Contains("Name", "es"),
			},
			wantSQL: "SELECT * FROM c WHERE CONTAINS(c.Name, @p0)",
			wantParams: []Parameter{
				{Name: "@p0", Value: "es"},
			},
		},
		{
			name: "in over id window",
			query: Query{
				Predicate: In("id", []string{"a", "b"}),
			},
			wantSQL: "SELECT * FROM c WHERE ARRAY_CONTAINS(@p0, c.id)",
			wantParams: []Parameter{
				{Name: "@p0", Value: []string{"a", "b"}},
			},
		},
		{
			name: "lowercase field is normalized",
			query: Query{
				Predicate: Equal("age", 30),
				Sort:      &Sort{Field: "name", Order: SortAsc},
			},
			wantSQL: "SELECT * FROM c WHERE c.Age = @p0 ORDER BY c.Name ASC",
			wantParams: []Parameter{
				{Name: "@p0", Value: 30},
			},
		},
		{
			name: "hostile literal stays a bound value",
			query: Query{
				Predicate: Equal("Name", "x' OR 1=1 --"),
			},
			wantSQL: "SELECT * FROM c WHERE c.Name = @p0",
			wantParams: []Parameter{
				{Name: "@p0", Value: "x' OR 1=1 --"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, params := tt.query.RenderSQL()
			if sql != tt.wantSQL {
				t.Errorf("RenderSQL() = %q, want %q", sql, tt.wantSQL)
			}
			if !reflect.DeepEqual(params, tt.wantParams) {
				t.Errorf("params = %#v, want %#v", params, tt.wantParams)
			}
		})
	}
}

func TestRenderSQL_AllComparisonOperators(t *testing.T) {
	tests := []struct {
		pred *Predicate
		want string
	}{
		{NotEqual("Age", 5), "SELECT * FROM c WHERE c.Age != @p0"},
		{GreaterThan("Age", 5), "SELECT * FROM c WHERE c.Age > @p0"},
		{GreaterOrEqual("Age", 5), "SELECT * FROM c WHERE c.Age >= @p0"},
		{LessThan("Age", 5), "SELECT * FROM c WHERE c.Age < @p0"},
		{LessOrEqual("Age", 5), "SELECT * FROM c WHERE c.Age <= @p0"},
	}
	for _, tt := range tests {
		sql, _ := Query{Predicate: tt.pred}.RenderSQL()
		if sql != tt.want {
			t.Errorf("RenderSQL() = %q, want %q", sql, tt.want)
		}
	}
}

func TestPredicate_AndIsImmutable(t *testing.T) {
	base := Equal("Name", "Wes")
	combined := base.And(Equal("Age", 30))

	if got := len(base.Conditions()); got != 1 {
		t.Fatalf("base predicate grew to %d conditions", got)
	}
	if got := len(combined.Conditions()); got != 2 {
		t.Fatalf("combined predicate has %d conditions, want 2", got)
	}
}

func TestPredicate_ConditionsReturnsCopy(t *testing.T) {
	p := Equal("Name", "Wes")
	conds := p.Conditions()
	conds[0].Field = "mutated"
	if p.Conditions()[0].Field != "Name" {
		t.Fatal("mutating the returned slice altered the predicate")
	}
}

func TestParseSortKey(t *testing.T) {
	tests := []struct {
		key     string
		want    Sort
		wantErr bool
	}{
		{key: "Name", want: Sort{Field: "Name", Order: SortAsc}},
		{key: "-Name", want: Sort{Field: "Name", Order: SortDesc}},
		{key: "age", want: Sort{Field: "Age", Order: SortAsc}},
		{key: "-age", want: Sort{Field: "Age", Order: SortDesc}},
		{key: "id", want: Sort{Field: "id", Order: SortAsc}},
		{key: " Name ", want: Sort{Field: "Name", Order: SortAsc}},
		{key: "Name,Age", want: Sort{Field: "Name", Order: SortAsc}},
		{key: "-Name,Age", want: Sort{Field: "Name", Order: SortDesc}},
		{key: "", wantErr: true},
		{key: "-", wantErr: true},
		{key: "   ", wantErr: true},
		{key: ",Age", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, err := ParseSortKey(tt.key)
			if tt.wantErr {
				var verr *ValidationError
				if !errors.As(err, &verr) {
					t.Fatalf("ParseSortKey(%q) error = %v, want ValidationError", tt.key, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseSortKey(%q) returned error: %v", tt.key, err)
			}
			if got != tt.want {
				t.Errorf("ParseSortKey(%q) = %+v, want %+v", tt.key, got, tt.want)
			}
		})
	}
}

func TestNormalizeField(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"id", "id"},
		{"Id", "id"},
		{"ID", "id"},
		{"name", "Name"},
		{"Name", "Name"},
		{"firstName", "FirstName"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeField(tt.in); got != tt.want {
			t.Errorf("NormalizeField(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
