package services

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"

	"sales-dashboard/internal/models"
)

// Metric selects the figure a salesperson ranking is ordered by.
type Metric string

const (
	MetricRevenue Metric = "revenue"
	MetricCount   Metric = "count"
)

func ParseMetric(s string) (Metric, bool) {
	switch Metric(s) {
	case MetricRevenue, "":
		return MetricRevenue, true
	case MetricCount:
		return MetricCount, true
	default:
		return "", false
	}
}

// TotalRevenue sums every price in sales.
func TotalRevenue(sales []models.Sale) float64 {
	total := decimal.Zero
	for _, s := range sales {
		total = total.Add(decimal.NewFromFloat(s.Price))
	}
	return total.InexactFloat64()
}

type locationGroup struct {
	location string
	lat, lon float64
	revenue  decimal.Decimal
}

// RevenueByLocation sums revenue per purchase location, keeping the first
// coordinates seen for each, highest revenue first.
func RevenueByLocation(sales []models.Sale) []models.LocationSummary {
	groups := make(map[string]*locationGroup)
	order := make([]string, 0)

	for _, s := range sales {
		g, ok := groups[s.Location]
		if !ok {
			g = &locationGroup{location: s.Location, lat: s.Latitude, lon: s.Longitude}
			groups[s.Location] = g
			order = append(order, s.Location)
		}
		g.revenue = g.revenue.Add(decimal.NewFromFloat(s.Price))
	}

	result := make([]models.LocationSummary, 0, len(order))
	for _, key := range order {
		g := groups[key]
		result = append(result, models.LocationSummary{
			Location:  g.location,
			Latitude:  g.lat,
			Longitude: g.lon,
			Revenue:   g.revenue.InexactFloat64(),
		})
	}
	slices.SortStableFunc(result, func(a, b models.LocationSummary) int {
		return compareDesc(a.Revenue, b.Revenue)
	})
	return result
}

// RevenueByMonth sums revenue per calendar month in chronological order.
func RevenueByMonth(sales []models.Sale, tag language.Tag) []models.MonthlySummary {
	groups := make(map[time.Time]decimal.Decimal)

	for _, s := range sales {
		d := s.PurchaseDate
		month := time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
		groups[month] = groups[month].Add(decimal.NewFromFloat(s.Price))
	}

	result := make([]models.MonthlySummary, 0, len(groups))
	for month, revenue := range groups {
		result = append(result, models.MonthlySummary{
			Month:     month,
			Year:      month.Year(),
			MonthName: MonthName(month.Month(), tag),
			Revenue:   revenue.InexactFloat64(),
		})
	}
	slices.SortFunc(result, func(a, b models.MonthlySummary) int {
		return a.Month.Compare(b.Month)
	})
	return result
}

// RevenueByCategory sums revenue per product category, highest first.
func RevenueByCategory(sales []models.Sale) []models.CategorySummary {
	groups := make(map[string]decimal.Decimal)
	order := make([]string, 0)

	for _, s := range sales {
		if _, ok := groups[s.Category]; !ok {
			order = append(order, s.Category)
		}
		groups[s.Category] = groups[s.Category].Add(decimal.NewFromFloat(s.Price))
	}

	result := make([]models.CategorySummary, 0, len(order))
	for _, category := range order {
		result = append(result, models.CategorySummary{
			Category: category,
			Revenue:  groups[category].InexactFloat64(),
		})
	}
	slices.SortStableFunc(result, func(a, b models.CategorySummary) int {
		return compareDesc(a.Revenue, b.Revenue)
	})
	return result
}

type salespersonGroup struct {
	revenue decimal.Decimal
	sales   int
}

// SalespersonStats computes revenue and sale count per salesperson in
// first-seen order. Rankings are derived from this one result with
// TopSalespeople.
func SalespersonStats(sales []models.Sale) []models.SalespersonSummary {
	groups := make(map[string]*salespersonGroup)
	order := make([]string, 0)

	for _, s := range sales {
		g, ok := groups[s.Salesperson]
		if !ok {
			g = &salespersonGroup{}
			groups[s.Salesperson] = g
			order = append(order, s.Salesperson)
		}
		g.revenue = g.revenue.Add(decimal.NewFromFloat(s.Price))
		g.sales++
	}

	result := make([]models.SalespersonSummary, 0, len(order))
	for _, name := range order {
		g := groups[name]
		result = append(result, models.SalespersonSummary{
			Salesperson: name,
			Revenue:     g.revenue.InexactFloat64(),
			Sales:       g.sales,
		})
	}
	return result
}

// TopSalespeople ranks a copy of stats by metric and keeps the first n.
func TopSalespeople(stats []models.SalespersonSummary, by Metric, n int) []models.SalespersonSummary {
	if n <= 0 || len(stats) == 0 {
		return []models.SalespersonSummary{}
	}

	ranked := slices.Clone(stats)
	slices.SortStableFunc(ranked, func(a, b models.SalespersonSummary) int {
		if by == MetricCount {
			return compareDesc(float64(a.Sales), float64(b.Sales))
		}
		return compareDesc(a.Revenue, b.Revenue)
	})
	return ranked[:min(n, len(ranked))]
}

// TopLocations keeps the n highest-revenue entries of an already sorted
// location view.
func TopLocations(locations []models.LocationSummary, n int) []models.LocationSummary {
	if n <= 0 || len(locations) == 0 {
		return []models.LocationSummary{}
	}
	return locations[:min(n, len(locations))]
}

func compareDesc(a, b float64) int {
	if a > b {
		return -1
	}
	if a < b {
		return 1
	}
	return 0
}
