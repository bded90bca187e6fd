package catalog

import (
	"math"
	"strconv"
	"strings"

	"github.com/gdg-garage/travel-booking/internal/models"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10

	FeaturedMinRating = 4.5
	FeaturedLimit     = 5
)

// ParsePage coerces raw page/limit query values. Anything that is not a
// positive integer falls back to the default.
func ParsePage(rawPage, rawLimit string) (page, limit int) {
	return positiveIntOr(rawPage, DefaultPage), positiveIntOr(rawLimit, DefaultLimit)
}

func positiveIntOr(raw string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 {
		return def
	}
	return n
}

// SearchFilters holds the recognised search keys. Nil fields impose no constraint.
type SearchFilters struct {
	Destination string
	StartDate   *models.Date
	EndDate     *models.Date
	MinPrice    *float64
	MaxPrice    *float64
	MinRating   *float64
}

// SearchQuery is the raw, unparsed form of SearchFilters as it arrives in a query string.
type SearchQuery struct {
	Destination string
	StartDate   string
	EndDate     string
	MinPrice    string
	MaxPrice    string
	MinRating   string
}

// ParseFilters drops values that do not parse instead of failing. The date
// range applies only when both ends are present and valid.
func ParseFilters(q SearchQuery) SearchFilters {
	f := SearchFilters{
		Destination: strings.TrimSpace(q.Destination),
		MinPrice:    optionalFloat(q.MinPrice),
		MaxPrice:    optionalFloat(q.MaxPrice),
		MinRating:   optionalFloat(q.MinRating),
	}

	start, startErr := models.ParseDate(q.StartDate)
	end, endErr := models.ParseDate(q.EndDate)
	if startErr == nil && endErr == nil {
		f.StartDate = &start
		f.EndDate = &end
	}
	return f
}

func optionalFloat(raw string) *float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
