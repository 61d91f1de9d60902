// query.go builds the WHERE clauses for the v_wows list queries.
//
// Go Pattern: Instead of concatenating SQL with values, we collect typed
// clause/argument pairs and render placeholders at the end. Only the
// PRESENCE of a clause depends on user input; values are always bound.
package database

import (
	"fmt"
	"strings"

	"github.com/Shimizu-Technology/wows-catalog/internal/models"
)

// Columns returned by the list queries.
const (
	listColumns  = "id, movie, year, director, role_name, full_line, image_data_uri"
	adminColumns = "id, movie, year, director, role_name, full_line"
)

// clause is one SQL condition with a `?` marker per argument.
type clause struct {
	sql  string
	args []any
}

// Predicate is an ordered list of conditions joined with AND.
type Predicate struct {
	clauses []clause
}

// And appends a condition. sql must contain exactly one `?` per arg.
func (p *Predicate) And(sql string, args ...any) {
	if n := strings.Count(sql, "?"); n != len(args) {
		panic(fmt.Sprintf("predicate %q has %d markers but %d args", sql, n, len(args)))
	}
	p.clauses = append(p.clauses, clause{sql: sql, args: args})
}

// Empty reports whether no condition was added.
func (p *Predicate) Empty() bool {
	return len(p.clauses) == 0
}

// Where renders the predicate as a PostgreSQL WHERE clause with $1..$n
// placeholders. An empty predicate renders as "".
func (p *Predicate) Where() (string, []any) {
	if p.Empty() {
		return "", nil
	}

	var sb strings.Builder
	var args []any
	n := 0
	sb.WriteString("WHERE ")
	for i, c := range p.clauses {
		if i > 0 {
			sb.WriteString(" AND ")
		}
		for _, r := range c.sql {
			if r == '?' {
				n++
				fmt.Fprintf(&sb, "$%d", n)
				continue
			}
			sb.WriteRune(r)
		}
		args = append(args, c.args...)
	}
	return sb.String(), args
}

// escapeLike makes s match literally inside a LIKE/ILIKE pattern.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// searchClause is the free-text match across the four text columns.
func searchClause(p *Predicate, q string) {
	like := "%" + escapeLike(q) + "%"
	p.And("(movie ILIKE ? OR director ILIKE ? OR role_name ILIKE ? OR full_line ILIKE ?)",
		like, like, like, like)
}

// WowPredicate builds the public list predicate (API and web).
func WowPredicate(f models.FilterSpec) *Predicate {
	p := &Predicate{}
	if f.Movie != "" {
		if f.MovieMatch == models.MovieFold {
			p.And("LOWER(movie) = LOWER(?)", f.Movie)
		} else {
			p.And("movie = ?", f.Movie)
		}
	}
	if f.Year != nil {
		p.And("year = ?", *f.Year)
	}
	if f.Query != "" {
		searchClause(p, f.Query)
	}
	return p
}

// AdminPredicate builds the admin list predicate: free text only.
func AdminPredicate(f models.FilterSpec) *Predicate {
	p := &Predicate{}
	if f.Query != "" {
		searchClause(p, f.Query)
	}
	return p
}

// Offset converts a 1-indexed page into a row offset.
func Offset(page, perPage int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * perPage
}

// PageCount is ceil(total/perPage), never less than 1.
func PageCount(total, perPage int) int {
	if perPage < 1 {
		return 1
	}
	pages := (total + perPage - 1) / perPage
	if pages < 1 {
		return 1
	}
	return pages
}

// pageQueries returns the count and page statements for one predicate.
// Both share the same WHERE text and arguments; the page statement appends
// LIMIT and OFFSET as the last two placeholders.
func pageQueries(columns string, p *Predicate, page, perPage int) (countSQL, pageSQL string, countArgs, pageArgs []any) {
	where, args := p.Where()
	countSQL = strings.TrimSpace("SELECT COUNT(*) FROM v_wows " + where)
	pageSQL = fmt.Sprintf("SELECT %s FROM v_wows %s ORDER BY id ASC LIMIT $%d OFFSET $%d",
		columns, where, len(args)+1, len(args)+2)
	pageSQL = strings.Join(strings.Fields(pageSQL), " ")

	pageArgs = make([]any, 0, len(args)+2)
	pageArgs = append(pageArgs, args...)
	pageArgs = append(pageArgs, perPage, Offset(page, perPage))
	return countSQL, pageSQL, args, pageArgs
}
