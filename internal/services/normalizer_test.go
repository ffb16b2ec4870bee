package services

import (
	"encoding/json"
	stderrors "errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/hashicorp/go-multierror"

	"sales-dashboard/internal/models"
)

func TestNormalizer_Normalize(t *testing.T) {
	raw := rawSale("25/12/2022", 149.9, "Ana")
	raw[KeyProduct] = "Cadeira"
	raw[KeyFreight] = json.Number("12.5")
	raw[KeyPaymentType] = "cartao_credito"
	raw[KeyInstallments] = 3.0
	raw[KeyRating] = "4"
	raw[KeyRegion] = " Sudeste "

	sales, err := Normalizer{}.Normalize([]map[string]any{raw})
	if err != nil {
		t.Fatal(err)
	}

	want := []models.Sale{{
		PurchaseDate: time.Date(2022, 12, 25, 0, 0, 0, 0, time.UTC),
		Price:        149.9,
		Location:     "SP",
		Latitude:     -22.19,
		Longitude:    -48.79,
		Category:     "livros",
		Salesperson:  "Ana",
		Product:      "Cadeira",
		Freight:      12.5,
		PaymentType:  "cartao_credito",
		Installments: 3,
		Rating:       4,
		Region:       "Sudeste",
	}}
	if diff := cmp.Diff(want, sales); diff != "" {
		t.Errorf("sales mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalizer_DayFirstDates(t *testing.T) {
	sales, err := Normalizer{}.Normalize([]map[string]any{
		rawSale("01/02/2021", 1.0, "Ana"),
		rawSale("31/01/2021", 1.0, "Ana"),
		rawSale("5/3/2022", 1.0, "Ana"),
		rawSale("09/7/2022", 1.0, "Ana"),
	})
	if err != nil {
		t.Fatal(err)
	}
	if sales[0].PurchaseDate.Month() != time.February || sales[0].PurchaseDate.Day() != 1 {
		t.Errorf("01/02/2021 parsed as %v", sales[0].PurchaseDate)
	}
	if sales[1].PurchaseDate.Month() != time.January {
		t.Errorf("31/01/2021 parsed as %v", sales[1].PurchaseDate)
	}
	if want := time.Date(2022, 3, 5, 0, 0, 0, 0, time.UTC); !sales[2].PurchaseDate.Equal(want) {
		t.Errorf("5/3/2022 parsed as %v, want %v", sales[2].PurchaseDate, want)
	}
	if want := time.Date(2022, 7, 9, 0, 0, 0, 0, time.UTC); !sales[3].PurchaseDate.Equal(want) {
		t.Errorf("09/7/2022 parsed as %v, want %v", sales[3].PurchaseDate, want)
	}
}

func TestNormalizer_MalformedDate(t *testing.T) {
	tests := []struct {
		name string
		date any
	}{
		{"iso layout", "2023-13-40"},
		{"month out of range", "01/13/2023"},
		{"day out of range", "32/01/2023"},
		{"empty", ""},
		{"not a string", 20230101.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := rawSale("", 1.0, "Ana")
			raw[KeyPurchaseDate] = tt.date

			sales, err := Normalizer{}.Normalize([]map[string]any{raw})
			var dateErr *MalformedDateError
			if !stderrors.As(err, &dateErr) {
				t.Fatalf("err = %v, want MalformedDateError", err)
			}
			if sales != nil {
				t.Error("strict mode should return no sales")
			}
			if dateErr.Index != 0 {
				t.Errorf("Index = %d", dateErr.Index)
			}
		})
	}
}

func TestNormalizer_InvalidFields(t *testing.T) {
	tests := []struct {
		name  string
		field string
		edit  func(map[string]any)
	}{
		{"missing price", KeyPrice, func(r map[string]any) { delete(r, KeyPrice) }},
		{"price not numeric", KeyPrice, func(r map[string]any) { r[KeyPrice] = "cheap" }},
		{"negative price", KeyPrice, func(r map[string]any) { r[KeyPrice] = -1.0 }},
		{"missing location", KeyLocation, func(r map[string]any) { delete(r, KeyLocation) }},
		{"salesperson wrong type", KeySalesperson, func(r map[string]any) { r[KeySalesperson] = 7.0 }},
		{"latitude null", KeyLatitude, func(r map[string]any) { r[KeyLatitude] = nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := rawSale("01/01/2022", 10.0, "Ana")
			tt.edit(raw)

			_, err := Normalizer{}.Normalize([]map[string]any{raw})
			var fieldErr *InvalidFieldError
			if !stderrors.As(err, &fieldErr) {
				t.Fatalf("err = %v, want InvalidFieldError", err)
			}
			if fieldErr.Field != tt.field {
				t.Errorf("Field = %q, want %q", fieldErr.Field, tt.field)
			}
		})
	}
}

func TestNormalizer_SkipInvalid(t *testing.T) {
	raw := []map[string]any{
		rawSale("01/01/2022", 10.0, "Ana"),
		rawSale("2023-13-40", 10.0, "Bruno"),
		rawSale("02/01/2022", "abc", "Carla"),
		rawSale("03/01/2022", 20.0, "Dani"),
	}

	sales, err := Normalizer{SkipInvalid: true}.Normalize(raw)

	var merr *multierror.Error
	if !stderrors.As(err, &merr) {
		t.Fatalf("err = %v, want *multierror.Error", err)
	}
	if len(merr.Errors) != 2 {
		t.Errorf("expected 2 skipped records, got %d", len(merr.Errors))
	}

	var dateErr *MalformedDateError
	if !stderrors.As(merr.Errors[0], &dateErr) || dateErr.Index != 1 {
		t.Errorf("first error = %v", merr.Errors[0])
	}
	if !strings.Contains(merr.Errors[1].Error(), "record 2") {
		t.Errorf("second error = %v", merr.Errors[1])
	}

	got := make([]string, 0, len(sales))
	for _, s := range sales {
		got = append(got, s.Salesperson)
	}
	if diff := cmp.Diff([]string{"Ana", "Dani"}, got); diff != "" {
		t.Errorf("kept sales mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalizer_Empty(t *testing.T) {
	sales, err := Normalizer{}.Normalize(nil)
	if err != nil {
		t.Fatal(err)
	}
	if sales == nil || len(sales) != 0 {
		t.Errorf("sales = %v, want empty slice", sales)
	}
}
