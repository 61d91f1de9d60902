// Package params normalizes untrusted list parameters from the query string.
//
// Everything here is total: malformed pagination input falls back to a
// default instead of failing the request. The one exception is the year
// filter, which is type-critical (it is bound to an integer column) and is
// reported back to the caller as ErrInvalidYear so it never reaches SQL.
package params

import (
	"errors"
	"net/url"
	"strconv"
	"strings"

	"github.com/Shimizu-Technology/wows-catalog/internal/models"
)

// Pagination bounds shared by every list route.
const (
	MinPage        = 1
	MaxPage        = 10000
	MinPerPage     = 1
	MaxPerPage     = 100
	DefaultPage    = 1
	DefaultPerPage = 20 // JSON API and admin list
	WebPerPage     = 12 // public web list
)

// ErrInvalidYear is returned when the year filter is present but not an integer.
var ErrInvalidYear = errors.New("year must be a 32-bit integer")

// Clamp parses raw as an integer and clips it into [lo, hi].
// Unparsable input returns def. Integers too large for an int are clipped
// to the nearest bound rather than treated as garbage.
func Clamp(raw string, lo, hi, def int) int {
	s := strings.TrimSpace(raw)
	n, err := strconv.Atoi(s)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			if strings.HasPrefix(s, "-") {
				return lo
			}
			return hi
		}
		return def
	}
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}

// Text trims a string filter. The bool is false when nothing is left.
func Text(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	return s, s != ""
}

// Year parses the year filter. A blank value returns (nil, nil).
func Year(raw string) (*int, error) {
	s, ok := Text(raw)
	if !ok {
		return nil, nil
	}
	// The year column is a 32-bit integer; anything wider would fail in SQL.
	n, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return nil, ErrInvalidYear
	}
	y := int(n)
	return &y, nil
}

// Pagination reads page and per_page from the query string.
func Pagination(q url.Values, perPageDefault int) (page, perPage int) {
	page = Clamp(q.Get("page"), MinPage, MaxPage, DefaultPage)
	perPage = Clamp(q.Get("per_page"), MinPerPage, MaxPerPage, perPageDefault)
	return page, perPage
}

// Defaults are the per-route choices FromQuery cannot infer.
type Defaults struct {
	PerPage    int
	MovieMatch models.MovieMatch
}

// FromQuery builds a FilterSpec from page, per_page, q, movie and year.
//
// When the year is malformed the returned spec is still usable (it simply has
// no year filter) and the error is ErrInvalidYear; callers choose whether to
// reject the request or drop the filter.
func FromQuery(q url.Values, d Defaults) (models.FilterSpec, error) {
	spec := models.FilterSpec{MovieMatch: d.MovieMatch}
	if spec.MovieMatch == "" {
		spec.MovieMatch = models.MovieExact
	}
	spec.Page, spec.PerPage = Pagination(q, d.PerPage)

	if s, ok := Text(q.Get("q")); ok {
		spec.Query = s
	}
	if s, ok := Text(q.Get("movie")); ok {
		spec.Movie = s
	}

	year, err := Year(q.Get("year"))
	if err != nil {
		return spec, err
	}
	spec.Year = year
	return spec, nil
}
