package utils

import "testing"

func TestPaginationFrom(t *testing.T) {
	cases := []struct {
		name  string
		page  string
		limit string
		want  Pagination
	}{
		{"defaults", "", "", Pagination{Page: 1, Limit: 20, Offset: 0}},
		{"explicit window", "3", "5", Pagination{Page: 3, Limit: 5, Offset: 10}},
		{"garbage falls back", "abc", "xyz", Pagination{Page: 1, Limit: 20, Offset: 0}},
		{"zero and negative fall back", "0", "-1", Pagination{Page: 1, Limit: 20, Offset: 0}},
		{"limit capped", "2", "500", Pagination{Page: 2, Limit: 100, Offset: 100}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := paginationFrom(tc.page, tc.limit)
			if got != tc.want {
				t.Fatalf("expected %+v, got %+v", tc.want, got)
			}
		})
	}
}
