// Package models defines the data structures used throughout the application.
//
// Go Pattern: Models are plain structs with JSON tags for serialization.
// The database package handles persistence; nothing here talks to storage.
//
// JSON tags (e.g., `json:"id"`) control how struct fields are serialized
// to/from JSON. The `db` tags work with sqlx for column mapping, and the
// `form` tags let Gin bind HTML form posts and query strings.
package models

import (
	"encoding/json"
	"time"
)

// WowRecord is one row of the read-only v_wows view.
// The view flattens the JSON documents stored in the data table.
type WowRecord struct {
	ID           int64           `json:"id" db:"id"`
	Movie        string          `json:"movie" db:"movie"`
	Year         *int            `json:"year" db:"year"` // Pointer = nullable
	Director     string          `json:"director" db:"director"`
	RoleName     string          `json:"role_name" db:"role_name"`
	FullLine     string          `json:"full_line" db:"full_line"`
	ImageDataURI string          `json:"image_data_uri,omitempty" db:"image_data_uri"`
	VideoJSON    json.RawMessage `json:"video_json,omitempty" db:"video_json"` // JSONB, kept as raw JSON
	RawJSON      json.RawMessage `json:"raw_json,omitempty" db:"raw_json"`
}

// Video holds the clip URLs per quality.
type Video struct {
	P1080 string `json:"1080p"`
	P720  string `json:"720p"`
	P480  string `json:"480p"`
	P360  string `json:"360p"`
}

// DataDocument is the write model: the JSON object stored per row in the data table.
type DataDocument struct {
	Movie             string `json:"movie"`
	Year              int    `json:"year"`
	ReleaseDate       string `json:"release_date"`
	Director          string `json:"director"`
	Character         string `json:"character"`
	MovieDuration     string `json:"movie_duration"`
	Timestamp         string `json:"timestamp"`
	FullLine          string `json:"full_line"`
	CurrentWowInMovie int    `json:"current_wow_in_movie"`
	TotalWowsInMovie  int    `json:"total_wows_in_movie"`
	Video             Video  `json:"video"`
	Audio             string `json:"audio"`
	Image             string `json:"image" validate:"imagedatauri"`
}

// Document defaults applied when a field is missing or unparsable.
const (
	DefaultYear     = 2000
	DefaultWowIndex = 1
)

// DocumentRow is a raw row of the data table.
type DocumentRow struct {
	ID   int64  `db:"id"`
	Data []byte `db:"data"`
}

// FlatForm is the admin edit form: every field is a string and the nested
// video object is spread over four scalar fields.
type FlatForm struct {
	Movie             string `form:"movie"`
	Year              string `form:"year"`
	ReleaseDate       string `form:"release_date"`
	Director          string `form:"director"`
	Character         string `form:"character"`
	MovieDuration     string `form:"movie_duration"`
	Timestamp         string `form:"timestamp"`
	FullLine          string `form:"full_line"`
	CurrentWowInMovie string `form:"current_wow_in_movie"`
	TotalWowsInMovie  string `form:"total_wows_in_movie"`
	Audio             string `form:"audio"`
	Image             string `form:"image"`
	Video1080p        string `form:"video_1080p"`
	Video720p         string `form:"video_720p"`
	Video480p         string `form:"video_480p"`
	Video360p         string `form:"video_360p"`
}

// User is an admin account.
// Note: We store the bcrypt HASH of the password, never the password itself.
type User struct {
	ID           int64     `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	PasswordHash string    `json:"-" db:"password_hash"` // "-" means never serialize to JSON
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// AdminIdentity is the authenticated admin resolved for the current request.
// The auth guard puts it on the Gin context; admin handlers read it back.
type AdminIdentity struct {
	Username  string
	SessionID string
}

// MovieMatch selects how the movie filter compares titles.
type MovieMatch string

const (
	MovieExact MovieMatch = "exact" // case-sensitive equality (JSON API)
	MovieFold  MovieMatch = "fold"  // case-insensitive equality (web list)
)

// FilterSpec is the normalized set of list-query parameters for one request.
// Empty strings and a nil Year mean "not provided".
type FilterSpec struct {
	Page       int
	PerPage    int
	Query      string
	Movie      string
	MovieMatch MovieMatch
	Year       *int
}

// WowPage is one page of list results plus the total match count.
type WowPage struct {
	Total int
	Items []WowRecord
}

// --- Request/Response DTOs ---

// LoginRequest is the form body for POST /admin/login.
type LoginRequest struct {
	Username string `form:"username"`
	Password string `form:"password"`
	Next     string `form:"next"`
}

// ListResponse is returned by GET /api/wows.
type ListResponse struct {
	Page    int         `json:"page"`
	PerPage int         `json:"per_page"`
	Total   int         `json:"total"`
	Items   []WowRecord `json:"items"`
}

// ErrorResponse is a standard error format for all API errors.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// HealthResponse is returned by the health check endpoint.
type HealthResponse struct {
	Status   string `json:"status"`
	Version  string `json:"version"`
	Database string `json:"database"`
}
