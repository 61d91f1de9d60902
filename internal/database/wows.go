// wows.go holds the read queries against the v_wows view.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Shimizu-Technology/wows-catalog/internal/models"
)

// ListWows returns one page of the public list plus the total match count.
// The count and the page are two statements over the same predicate.
func (db *DB) ListWows(ctx context.Context, f models.FilterSpec) (*models.WowPage, error) {
	return db.listPage(ctx, listColumns, WowPredicate(f), f.Page, f.PerPage)
}

// ListAdminWows is the admin list: free-text search only, no image column.
func (db *DB) ListAdminWows(ctx context.Context, f models.FilterSpec) (*models.WowPage, error) {
	return db.listPage(ctx, adminColumns, AdminPredicate(f), f.Page, f.PerPage)
}

func (db *DB) listPage(ctx context.Context, columns string, p *Predicate, page, perPage int) (*models.WowPage, error) {
	countSQL, pageSQL, countArgs, pageArgs := pageQueries(columns, p, page, perPage)

	var total int
	if err := db.GetContext(ctx, &total, countSQL, countArgs...); err != nil {
		return nil, fmt.Errorf("count query failed: %w", err)
	}

	// Ensure we return an empty array, not null
	items := []models.WowRecord{}
	if err := db.SelectContext(ctx, &items, pageSQL, pageArgs...); err != nil {
		return nil, fmt.Errorf("list query failed: %w", err)
	}

	return &models.WowPage{Total: total, Items: items}, nil
}

// GetWow retrieves a single view row by id.
func (db *DB) GetWow(ctx context.Context, id int64) (*models.WowRecord, error) {
	var w models.WowRecord
	err := db.GetContext(ctx, &w, `SELECT * FROM v_wows WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get wow %d: %w", id, err)
	}
	return &w, nil
}

// DistinctMovies lists every movie title for the web filter dropdown.
func (db *DB) DistinctMovies(ctx context.Context) ([]string, error) {
	movies := []string{}
	err := db.SelectContext(ctx, &movies,
		`SELECT DISTINCT movie FROM v_wows WHERE movie <> '' ORDER BY movie`)
	if err != nil {
		return nil, fmt.Errorf("failed to list movies: %w", err)
	}
	return movies, nil
}

// DistinctYears lists every known year, newest first.
func (db *DB) DistinctYears(ctx context.Context) ([]int, error) {
	years := []int{}
	err := db.SelectContext(ctx, &years,
		`SELECT DISTINCT year FROM v_wows WHERE year IS NOT NULL ORDER BY year DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list years: %w", err)
	}
	return years, nil
}
