package postgrest

import "testing"

func TestFilterString(t *testing.T) {
	tests := []struct {
		name   string
		filter Filter
		want   string
	}{
		{
			name:   "equals",
			filter: NewFilter("name", Equals, "phone"),
			want:   "name.eq=phone",
		},
		{
			name:   "not equals",
			filter: NewFilter("status", NotEquals, "archived"),
			want:   "status.neq=archived",
		},
		{
			name:   "greater than",
			filter: NewFilter("price", GreaterThan, "100"),
			want:   "price.gt=100",
		},
		{
			name:   "less than",
			filter: NewFilter("price", LessThan, "100"),
			want:   "price.lt=100",
		},
		{
			name:   "greater than or equals",
			filter: NewFilter("age", GreaterThanOrEquals, "21"),
			want:   "age.gte=21",
		},
		{
			name:   "less than or equals",
			filter: NewFilter("age", LessThanOrEquals, "65"),
			want:   "age.lte=65",
		},
		{
			name:   "empty value still renders",
			filter: NewFilter("note", Equals, ""),
			want:   "note.eq=",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.filter.String(); got != tc.want {
				t.Errorf("Filter.String() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestSortString(t *testing.T) {
	tests := []struct {
		name string
		sort Sort
		want string
	}{
		{"ascending", Sort{Column: "created_at", Order: Ascending}, "created_at.asc"},
		{"descending", Sort{Column: "price", Order: Descending}, "price.desc"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.sort.String(); got != tc.want {
				t.Errorf("Sort.String() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestOperatorCode(t *testing.T) {
	codes := map[Operator]string{
		Equals:              "eq",
		NotEquals:           "neq",
		GreaterThan:         "gt",
		LessThan:            "lt",
		GreaterThanOrEquals: "gte",
		LessThanOrEquals:    "lte",
	}
	for op, want := range codes {
		if got := op.Code(); got != want {
			t.Errorf("Operator(%d).Code() = %q, want %q", op, got, want)
		}
	}
}
