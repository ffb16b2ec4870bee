package models

import "time"

// Sale is one normalized row of the products API payload.
type Sale struct {
	PurchaseDate time.Time `json:"purchase_date"`
	Price        float64   `json:"price"`
	Location     string    `json:"location"`
	Latitude     float64   `json:"lat"`
	Longitude    float64   `json:"lon"`
	Category     string    `json:"category"`
	Salesperson  string    `json:"salesperson"`

	Product      string  `json:"product,omitempty"`
	Freight      float64 `json:"freight,omitempty"`
	PaymentType  string  `json:"payment_type,omitempty"`
	Installments int     `json:"installments,omitempty"`
	Rating       int     `json:"rating,omitempty"`
	Region       string  `json:"region,omitempty"`
}

type LocationSummary struct {
	Location  string  `json:"location"`
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
	Revenue   float64 `json:"revenue"`
}

type MonthlySummary struct {
	Month     time.Time `json:"month"`
	Year      int       `json:"year"`
	MonthName string    `json:"month_name"`
	Revenue   float64   `json:"revenue"`
}

type CategorySummary struct {
	Category string  `json:"category"`
	Revenue  float64 `json:"revenue"`
}

type SalespersonSummary struct {
	Salesperson string  `json:"salesperson"`
	Revenue     float64 `json:"revenue"`
	Sales       int     `json:"sales"`
}

// Overview holds the headline metrics shown above every dashboard tab.
type Overview struct {
	Revenue          float64 `json:"revenue"`
	SalesCount       int     `json:"sales_count"`
	FormattedRevenue string  `json:"formatted_revenue"`
	FormattedSales   string  `json:"formatted_sales"`
}

// Summary bundles every view computed from one filtered table so that all
// consumers read the same figures.
type Summary struct {
	Overview    Overview             `json:"overview"`
	Locations   []LocationSummary    `json:"locations"`
	Monthly     []MonthlySummary     `json:"monthly"`
	Categories  []CategorySummary    `json:"categories"`
	Salespeople []SalespersonSummary `json:"salespeople"`
}
