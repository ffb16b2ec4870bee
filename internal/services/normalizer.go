package services

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"

	"sales-dashboard/internal/models"
)

// PurchaseDateLayout is the day/month/year layout used by the products API.
// Day and month may be written with or without a leading zero.
const PurchaseDateLayout = "2/1/2006"

// Upstream payload keys.
const (
	KeyPurchaseDate = "Data da Compra"
	KeyPrice        = "Preço"
	KeyLocation     = "Local da compra"
	KeyLatitude     = "lat"
	KeyLongitude    = "lon"
	KeyCategory     = "Categoria do Produto"
	KeySalesperson  = "Vendedor"
	KeyProduct      = "Produto"
	KeyFreight      = "Frete"
	KeyPaymentType  = "Tipo de pagamento"
	KeyInstallments = "Quantidade de parcelas"
	KeyRating       = "Avaliação da compra"
	KeyRegion       = "Região"
)

// MalformedDateError reports a purchase date that does not match
// PurchaseDateLayout.
type MalformedDateError struct {
	Index int
	Value string
	Err   error
}

func (e *MalformedDateError) Error() string {
	return fmt.Sprintf("record %d: malformed purchase date %q", e.Index, e.Value)
}

func (e *MalformedDateError) Unwrap() error {
	return e.Err
}

// InvalidFieldError reports a required field that is missing or has the
// wrong type.
type InvalidFieldError struct {
	Index  int
	Field  string
	Reason string
}

func (e *InvalidFieldError) Error() string {
	return fmt.Sprintf("record %d: field %q %s", e.Index, e.Field, e.Reason)
}

// Normalizer turns decoded JSON records into typed sales.
//
// With SkipInvalid unset the first bad record rejects the whole batch.
// With SkipInvalid set bad records are dropped and reported together in a
// *multierror.Error alongside the records that were kept.
type Normalizer struct {
	SkipInvalid bool
}

func (n Normalizer) Normalize(raw []map[string]any) ([]models.Sale, error) {
	sales := make([]models.Sale, 0, len(raw))
	var skipped *multierror.Error

	for i, record := range raw {
		sale, err := normalizeRecord(i, record)
		if err != nil {
			if !n.SkipInvalid {
				return nil, err
			}
			skipped = multierror.Append(skipped, err)
			continue
		}
		sales = append(sales, sale)
	}

	return sales, skipped.ErrorOrNil()
}

func normalizeRecord(i int, record map[string]any) (models.Sale, error) {
	rawDate, ok := record[KeyPurchaseDate].(string)
	if !ok {
		return models.Sale{}, &MalformedDateError{Index: i, Value: fmt.Sprint(record[KeyPurchaseDate])}
	}
	date, err := time.Parse(PurchaseDateLayout, strings.TrimSpace(rawDate))
	if err != nil {
		return models.Sale{}, &MalformedDateError{Index: i, Value: rawDate, Err: err}
	}

	f := fieldReader{index: i, record: record}
	sale := models.Sale{
		PurchaseDate: date,
		Price:        f.number(KeyPrice, true),
		Location:     f.text(KeyLocation, true),
		Latitude:     f.number(KeyLatitude, true),
		Longitude:    f.number(KeyLongitude, true),
		Category:     f.text(KeyCategory, true),
		Salesperson:  f.text(KeySalesperson, true),
		Product:      f.text(KeyProduct, false),
		Freight:      f.number(KeyFreight, false),
		PaymentType:  f.text(KeyPaymentType, false),
		Installments: int(f.number(KeyInstallments, false)),
		Rating:       int(f.number(KeyRating, false)),
		Region:       f.text(KeyRegion, false),
	}
	if f.err != nil {
		return models.Sale{}, f.err
	}
	if sale.Price < 0 {
		return models.Sale{}, &InvalidFieldError{Index: i, Field: KeyPrice, Reason: "is negative"}
	}

	return sale, nil
}

// fieldReader keeps the first extraction error so a record is validated in
// one straight pass.
type fieldReader struct {
	index  int
	record map[string]any
	err    error
}

func (f *fieldReader) fail(field, reason string) {
	if f.err == nil {
		f.err = &InvalidFieldError{Index: f.index, Field: field, Reason: reason}
	}
}

func (f *fieldReader) text(key string, required bool) string {
	v, ok := f.record[key]
	if !ok || v == nil {
		if required {
			f.fail(key, "is missing")
		}
		return ""
	}
	s, ok := v.(string)
	if !ok {
		f.fail(key, fmt.Sprintf("must be a string, got %T", v))
		return ""
	}
	return strings.TrimSpace(s)
}

func (f *fieldReader) number(key string, required bool) float64 {
	v, ok := f.record[key]
	if !ok || v == nil {
		if required {
			f.fail(key, "is missing")
		}
		return 0
	}

	var n float64
	switch x := v.(type) {
	case float64:
		n = x
	case int:
		n = float64(x)
	case int64:
		n = float64(x)
	case json.Number:
		parsed, err := x.Float64()
		if err != nil {
			f.fail(key, "is not a number")
			return 0
		}
		n = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			f.fail(key, "is not a number")
			return 0
		}
		n = parsed
	default:
		f.fail(key, fmt.Sprintf("must be a number, got %T", v))
		return 0
	}

	if math.IsNaN(n) || math.IsInf(n, 0) {
		f.fail(key, "is not a finite number")
		return 0
	}
	return n
}
