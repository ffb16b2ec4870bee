package services

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestApplyFilter(t *testing.T) {
	sales := sampleSales()

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"zero filter", Filter{}, []string{"Ana", "Bruno", "Ana", "Carla", "Bruno"}},
		{"region", Filter{Region: "Nordeste"}, []string{"Bruno", "Bruno"}},
		{"region case insensitive", Filter{Region: "sul"}, []string{"Carla"}},
		{"year", Filter{Year: 2022}, []string{"Ana", "Bruno"}},
		{"salespeople", Filter{Salespeople: []string{"Carla", "Ana"}}, []string{"Ana", "Ana", "Carla"}},
		{"combined", Filter{Region: "Sudeste", Year: 2023, Salespeople: []string{"Ana"}}, []string{"Ana"}},
		{"no match", Filter{Year: 1999}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ApplyFilter(sales, tt.filter)
			names := make([]string, 0, len(got))
			for _, s := range got {
				names = append(names, s.Salesperson)
			}
			if diff := cmp.Diff(tt.want, names); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestApplyFilter_Idempotent(t *testing.T) {
	f := Filter{Region: "Sudeste", Year: 2023}
	once := ApplyFilter(sampleSales(), f)
	twice := ApplyFilter(once, f)

	if diff := cmp.Diff(once, twice); diff != "" {
		t.Errorf("filter is not idempotent (-once +twice):\n%s", diff)
	}
}

func TestApplyFilter_YearMatchesPurchaseDate(t *testing.T) {
	for _, s := range ApplyFilter(sampleSales(), Filter{Year: 2023}) {
		if s.PurchaseDate.Year() != 2023 {
			t.Errorf("sale from %d passed a 2023 filter", s.PurchaseDate.Year())
		}
	}
}

func TestApplyFilter_RecordsWithoutRegion(t *testing.T) {
	sales := sampleSales()
	sales[0].Region = ""

	got := ApplyFilter(sales, Filter{Region: "Norte"})
	if len(got) != 1 || got[0].Salesperson != "Ana" {
		t.Errorf("records without a region should pass: %+v", got)
	}
}

func TestDistinctSalespeople(t *testing.T) {
	if diff := cmp.Diff([]string{"Ana", "Bruno", "Carla"}, DistinctSalespeople(sampleSales())); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
	if got := DistinctSalespeople(nil); got == nil || len(got) != 0 {
		t.Errorf("DistinctSalespeople(nil) = %v", got)
	}
}

func TestNormalizeRegion(t *testing.T) {
	tests := map[string]string{
		"Brasil":    "",
		" brasil ":  "",
		"":          "",
		"Nordeste":  "Nordeste",
		" Sudeste ": "Sudeste",
	}
	for in, want := range tests {
		if got := NormalizeRegion(in); got != want {
			t.Errorf("NormalizeRegion(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFilter_Query(t *testing.T) {
	f := Filter{Region: "Sul", Year: 2021, Salespeople: []string{"Ana"}}
	if got := f.Query(); got != (Query{Region: "Sul", Year: 2021}) {
		t.Errorf("Query() = %+v", got)
	}
	if !(Filter{}).IsZero() || f.IsZero() {
		t.Error("IsZero mismatch")
	}
}
