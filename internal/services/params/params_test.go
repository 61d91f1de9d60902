package params

import (
	"errors"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shimizu-Technology/wows-catalog/internal/models"
)

func TestClamp(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want int
	}{
		{"in range", "5", 5},
		{"lower bound", "1", 1},
		{"upper bound", "100", 100},
		{"below range clips", "0", 1},
		{"negative clips", "-7", 1},
		{"above range clips", "101", 100},
		{"surrounding whitespace", "  42 ", 42},
		{"empty uses default", "", 20},
		{"garbage uses default", "abc", 20},
		{"float uses default", "3.5", 20},
		{"overflow clips high", "999999999999999999999999", 100},
		{"negative overflow clips low", "-999999999999999999999999", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Clamp(tt.raw, 1, 100, 20)
			assert.Equal(t, tt.want, got)
		})
	}
}

// Clamp output always lands inside the bounds, whatever the input.
func TestClampIsTotal(t *testing.T) {
	inputs := []string{"", " ", "x", "-1", "0", "1", "50", "10000", "10001", "1e3", "0x10", "+3", "９"}
	for _, raw := range inputs {
		got := Clamp(raw, MinPage, MaxPage, DefaultPage)
		assert.GreaterOrEqual(t, got, MinPage, "input %q", raw)
		assert.LessOrEqual(t, got, MaxPage, "input %q", raw)
	}
}

func TestYear(t *testing.T) {
	y, err := Year("")
	require.NoError(t, err)
	assert.Nil(t, y)

	y, err = Year("   ")
	require.NoError(t, err)
	assert.Nil(t, y)

	y, err = Year(" 1999 ")
	require.NoError(t, err)
	require.NotNil(t, y)
	assert.Equal(t, 1999, *y)

	_, err = Year("nineteen")
	assert.True(t, errors.Is(err, ErrInvalidYear))

	for _, raw := range []string{"3000000000", "-2147483649", "99999999999999999999"} {
		y, err = Year(raw)
		assert.True(t, errors.Is(err, ErrInvalidYear), raw)
		assert.Nil(t, y, raw)
	}

	y, err = Year("2147483647")
	require.NoError(t, err)
	assert.Equal(t, 2147483647, *y)
}

func TestFromQuery(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		spec, err := FromQuery(url.Values{}, Defaults{PerPage: WebPerPage, MovieMatch: models.MovieFold})
		require.NoError(t, err)
		assert.Equal(t, models.FilterSpec{
			Page:       1,
			PerPage:    12,
			MovieMatch: models.MovieFold,
		}, spec)
	})

	t.Run("all filters", func(t *testing.T) {
		q := url.Values{
			"page":     {"2"},
			"per_page": {"500"},
			"q":        {"  hero "},
			"movie":    {" Heat "},
			"year":     {"1995"},
		}
		spec, err := FromQuery(q, Defaults{PerPage: DefaultPerPage})
		require.NoError(t, err)
		assert.Equal(t, 2, spec.Page)
		assert.Equal(t, 100, spec.PerPage)
		assert.Equal(t, "hero", spec.Query)
		assert.Equal(t, "Heat", spec.Movie)
		assert.Equal(t, models.MovieExact, spec.MovieMatch)
		require.NotNil(t, spec.Year)
		assert.Equal(t, 1995, *spec.Year)
	})

	t.Run("blank filters are not provided", func(t *testing.T) {
		q := url.Values{"q": {"   "}, "movie": {""}, "year": {" "}}
		spec, err := FromQuery(q, Defaults{PerPage: DefaultPerPage})
		require.NoError(t, err)
		assert.Empty(t, spec.Query)
		assert.Empty(t, spec.Movie)
		assert.Nil(t, spec.Year)
	})

	t.Run("bad year keeps the rest", func(t *testing.T) {
		q := url.Values{"q": {"hero"}, "year": {"199x"}}
		spec, err := FromQuery(q, Defaults{PerPage: DefaultPerPage})
		assert.ErrorIs(t, err, ErrInvalidYear)
		assert.Equal(t, "hero", spec.Query)
		assert.Nil(t, spec.Year)
	})
}
