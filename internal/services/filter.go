package services

import (
	"slices"
	"strings"

	"sales-dashboard/internal/models"
)

// Filter selects a subset of the sale table. Zero values mean "pass all"
// for their dimension.
type Filter struct {
	Region      string
	Year        int
	Salespeople []string
}

// Query is the part of a filter the products API can apply upstream.
type Query struct {
	Region string
	Year   int
}

func (f Filter) IsZero() bool {
	return f.Region == "" && f.Year == 0 && len(f.Salespeople) == 0
}

func (f Filter) Query() Query {
	return Query{Region: f.Region, Year: f.Year}
}

// ApplyFilter returns the sales matching every non-empty dimension of f, in
// input order. Records without a region pass the region test: the field is
// only present when the upstream payload carries it.
func ApplyFilter(sales []models.Sale, f Filter) []models.Sale {
	if f.IsZero() {
		return sales
	}

	var people map[string]struct{}
	if len(f.Salespeople) > 0 {
		people = make(map[string]struct{}, len(f.Salespeople))
		for _, name := range f.Salespeople {
			people[name] = struct{}{}
		}
	}

	result := make([]models.Sale, 0, len(sales))
	for _, s := range sales {
		if f.Region != "" && s.Region != "" && !strings.EqualFold(s.Region, f.Region) {
			continue
		}
		if f.Year != 0 && s.PurchaseDate.Year() != f.Year {
			continue
		}
		if people != nil {
			if _, ok := people[s.Salesperson]; !ok {
				continue
			}
		}
		result = append(result, s)
	}
	return result
}

// DistinctSalespeople lists salesperson names in first-seen order.
func DistinctSalespeople(sales []models.Sale) []string {
	names := make([]string, 0)
	for _, s := range sales {
		if !slices.Contains(names, s.Salesperson) {
			names = append(names, s.Salesperson)
		}
	}
	return names
}

// AllRegions is the pseudo-region that disables region filtering.
const AllRegions = "Brasil"

// Regions lists the sidebar choices, AllRegions first.
var Regions = []string{AllRegions, "Centro-Oeste", "Nordeste", "Norte", "Sudeste", "Sul"}

// NormalizeRegion maps AllRegions and blanks to the empty "no filter" value.
func NormalizeRegion(region string) string {
	region = strings.TrimSpace(region)
	if strings.EqualFold(region, AllRegions) {
		return ""
	}
	return region
}
