package handlers

import (
	stderrors "errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"sales-dashboard/internal/errors"
	"sales-dashboard/internal/services"
)

const maxTopN = 100

// parseFilter reads region, year and repeated salesperson params.
func parseFilter(q url.Values) (services.Filter, error) {
	f := services.Filter{
		Region: services.NormalizeRegion(q.Get("region")),
	}

	if raw := strings.TrimSpace(q.Get("year")); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil || year < 1 {
			return f, errors.BadRequest(fmt.Sprintf("invalid year %q", raw))
		}
		f.Year = year
	}

	for _, name := range q["salesperson"] {
		if name = strings.TrimSpace(name); name != "" {
			f.Salespeople = append(f.Salespeople, name)
		}
	}
	return f, nil
}

// parseTop returns the requested top-N, or 0 when the param is absent.
func parseTop(q url.Values) (int, error) {
	raw := strings.TrimSpace(q.Get("top"))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 || n > maxTopN {
		return 0, errors.BadRequest(fmt.Sprintf("top must be between 1 and %d", maxTopN))
	}
	return n, nil
}

// serviceError classifies analytics failures for the client.
func serviceError(err error) *errors.AppError {
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}

	var dateErr *services.MalformedDateError
	var fieldErr *services.InvalidFieldError
	if stderrors.As(err, &dateErr) || stderrors.As(err, &fieldErr) {
		return errors.InvalidData(err, "Sales data could not be normalized")
	}
	return errors.Upstream(err, "Sales data is unavailable")
}
