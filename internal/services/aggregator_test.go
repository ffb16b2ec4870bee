package services

import (
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/text/language"

	"sales-dashboard/internal/models"
)

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) <= 1e-6*math.Max(1, math.Abs(b))
}

func TestRevenueByLocation(t *testing.T) {
	got := RevenueByLocation(sampleSales())

	want := []models.LocationSummary{
		{Location: "SP", Latitude: -22.19, Longitude: -48.79, Revenue: 1280.1},
		{Location: "BA", Latitude: -13.29, Longitude: -41.71, Revenue: 319.7},
		{Location: "RS", Latitude: -30.17, Longitude: -53.5, Revenue: 50.2},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestRevenueByMonth(t *testing.T) {
	got := RevenueByMonth(sampleSales(), language.English)

	want := []models.MonthlySummary{
		{Month: date(2022, 1, 1), Year: 2022, MonthName: "January", Revenue: 1500},
		{Month: date(2023, 3, 1), Year: 2023, MonthName: "March", Revenue: 130.3},
		{Month: date(2023, 7, 1), Year: 2023, MonthName: "July", Revenue: 19.7},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestRevenueByMonth_Portuguese(t *testing.T) {
	got := RevenueByMonth(sampleSales(), language.MustParse("pt-BR"))
	if got[0].MonthName != "janeiro" || got[1].MonthName != "março" {
		t.Errorf("month names = %q, %q", got[0].MonthName, got[1].MonthName)
	}
}

func TestRevenueByMonth_GroupsAcrossTimezones(t *testing.T) {
	loc := time.FixedZone("BRT", -3*60*60)
	sales := []models.Sale{
		{PurchaseDate: time.Date(2022, 5, 31, 23, 0, 0, 0, loc), Price: 1},
		{PurchaseDate: time.Date(2022, 5, 1, 0, 0, 0, 0, time.UTC), Price: 2},
	}
	got := RevenueByMonth(sales, language.English)
	if len(got) != 1 || got[0].Revenue != 3 {
		t.Errorf("expected a single May bucket, got %+v", got)
	}
}

func TestRevenueByCategory(t *testing.T) {
	got := RevenueByCategory(sampleSales())

	want := []models.CategorySummary{
		{Category: "eletronicos", Revenue: 1200},
		{Category: "moveis", Revenue: 300},
		{Category: "livros", Revenue: 130.3},
		{Category: "brinquedos", Revenue: 19.7},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestSalespersonStats(t *testing.T) {
	got := SalespersonStats(sampleSales())

	want := []models.SalespersonSummary{
		{Salesperson: "Ana", Revenue: 1280.1, Sales: 2},
		{Salesperson: "Bruno", Revenue: 319.7, Sales: 2},
		{Salesperson: "Carla", Revenue: 50.2, Sales: 1},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestAggregates_PartitionTotal(t *testing.T) {
	sales := make([]models.Sale, 0, 1000)
	for i := 0; i < 1000; i++ {
		sales = append(sales, models.Sale{
			PurchaseDate: date(2020+i%4, time.Month(1+i%12), 1+i%28),
			Price:        float64(i%97) + 0.01*float64(i%100),
			Location:     []string{"SP", "RJ", "MG", "BA"}[i%4],
			Category:     []string{"livros", "moveis", "eletronicos"}[i%3],
			Salesperson:  []string{"Ana", "Bruno", "Carla", "Dani", "Edu"}[i%5],
		})
	}

	total := TotalRevenue(sales)
	sum := func(values ...float64) float64 {
		var s float64
		for _, v := range values {
			s += v
		}
		return s
	}

	var locs, months, cats, people []float64
	for _, l := range RevenueByLocation(sales) {
		locs = append(locs, l.Revenue)
	}
	for _, m := range RevenueByMonth(sales, language.English) {
		months = append(months, m.Revenue)
	}
	for _, c := range RevenueByCategory(sales) {
		cats = append(cats, c.Revenue)
	}
	count := 0
	for _, p := range SalespersonStats(sales) {
		people = append(people, p.Revenue)
		count += p.Sales
	}

	for name, values := range map[string][]float64{"locations": locs, "monthly": months, "categories": cats, "salespeople": people} {
		if got := sum(values...); !approxEqual(got, total) {
			t.Errorf("%s total = %v, want %v", name, got, total)
		}
	}
	if count != len(sales) {
		t.Errorf("salesperson counts = %d, want %d", count, len(sales))
	}
}

func TestAggregates_SortedDescending(t *testing.T) {
	locs := RevenueByLocation(sampleSales())
	for i := 1; i < len(locs); i++ {
		if locs[i-1].Revenue < locs[i].Revenue {
			t.Errorf("locations not descending at %d", i)
		}
	}
	cats := RevenueByCategory(sampleSales())
	for i := 1; i < len(cats); i++ {
		if cats[i-1].Revenue < cats[i].Revenue {
			t.Errorf("categories not descending at %d", i)
		}
	}
}

func TestAggregates_Empty(t *testing.T) {
	if got := RevenueByLocation(nil); got == nil || len(got) != 0 {
		t.Errorf("RevenueByLocation(nil) = %v", got)
	}
	if got := RevenueByMonth(nil, language.English); got == nil || len(got) != 0 {
		t.Errorf("RevenueByMonth(nil) = %v", got)
	}
	if got := RevenueByCategory(nil); got == nil || len(got) != 0 {
		t.Errorf("RevenueByCategory(nil) = %v", got)
	}
	if got := SalespersonStats(nil); got == nil || len(got) != 0 {
		t.Errorf("SalespersonStats(nil) = %v", got)
	}
	if got := TotalRevenue(nil); got != 0 {
		t.Errorf("TotalRevenue(nil) = %v", got)
	}
}

func TestTopSalespeople(t *testing.T) {
	stats := []models.SalespersonSummary{
		{Salesperson: "Ana", Revenue: 100, Sales: 1},
		{Salesperson: "Bruno", Revenue: 50, Sales: 5},
		{Salesperson: "Carla", Revenue: 75, Sales: 5},
	}

	tests := []struct {
		name string
		by   Metric
		n    int
		want []string
	}{
		{"revenue", MetricRevenue, 2, []string{"Ana", "Carla"}},
		{"count keeps ties stable", MetricCount, 2, []string{"Bruno", "Carla"}},
		{"n larger than input", MetricRevenue, 10, []string{"Ana", "Carla", "Bruno"}},
		{"n zero", MetricRevenue, 0, []string{}},
		{"n negative", MetricCount, -1, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TopSalespeople(stats, tt.by, tt.n)
			names := make([]string, 0, len(got))
			for _, s := range got {
				names = append(names, s.Salesperson)
			}
			if diff := cmp.Diff(tt.want, names); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}

	if stats[0].Salesperson != "Ana" || stats[1].Salesperson != "Bruno" {
		t.Error("TopSalespeople must not reorder its input")
	}
	if got := TopSalespeople(nil, MetricRevenue, 3); got == nil || len(got) != 0 {
		t.Errorf("TopSalespeople(nil) = %v", got)
	}
}

func TestTopLocations(t *testing.T) {
	locs := RevenueByLocation(sampleSales())
	if got := TopLocations(locs, 2); len(got) != 2 || got[0].Location != "SP" {
		t.Errorf("TopLocations = %+v", got)
	}
	if got := TopLocations(locs, 0); got == nil || len(got) != 0 {
		t.Errorf("TopLocations(n=0) = %v", got)
	}
}

func TestParseMetric(t *testing.T) {
	tests := []struct {
		in   string
		want Metric
		ok   bool
	}{
		{"", MetricRevenue, true},
		{"revenue", MetricRevenue, true},
		{"count", MetricCount, true},
		{"rating", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseMetric(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseMetric(%q) = %q, %v", tt.in, got, ok)
		}
	}
}
