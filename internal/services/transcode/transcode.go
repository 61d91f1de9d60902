// Package transcode converts wow documents between their stored JSON form,
// the flat admin form, and display strings.
//
// Go Pattern: Decoding failures come back as explicit (value, error) or
// (value, ok) pairs. A caller cannot use a half-decoded document by accident;
// it has to look at the error first.
package transcode

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Shimizu-Technology/wows-catalog/internal/models"
)

// ErrNotObject is returned when stored JSON is valid but is not an object.
var ErrNotObject = errors.New("document is not a JSON object")

// Defaults returns a document with every default applied.
func Defaults() models.DataDocument {
	return models.DataDocument{
		Year:              models.DefaultYear,
		CurrentWowInMovie: models.DefaultWowIndex,
		TotalWowsInMovie:  models.DefaultWowIndex,
	}
}

// Template is the starting document for the "new wow" form.
func Template() models.DataDocument {
	doc := Defaults()
	doc.Image = "data:image/png;base64,"
	return doc
}

// flexInt accepts a JSON number or a numeric string. Anything else that is
// still valid JSON leaves it unset so the field default wins.
type flexInt struct {
	n   int
	set bool
}

func (f *flexInt) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			f.n, f.set = n, true
		}
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(b, &num); err != nil {
		return err
	}
	if n, err := num.Int64(); err == nil {
		f.n, f.set = int(n), true
		return nil
	}
	if fl, err := num.Float64(); err == nil {
		f.n, f.set = int(fl), true
	}
	return nil
}

// storedDocument mirrors models.DataDocument with lenient numeric fields.
type storedDocument struct {
	Movie             string        `json:"movie"`
	Year              flexInt       `json:"year"`
	ReleaseDate       string        `json:"release_date"`
	Director          string        `json:"director"`
	Character         string        `json:"character"`
	MovieDuration     string        `json:"movie_duration"`
	Timestamp         string        `json:"timestamp"`
	FullLine          string        `json:"full_line"`
	CurrentWowInMovie flexInt       `json:"current_wow_in_movie"`
	TotalWowsInMovie  flexInt       `json:"total_wows_in_movie"`
	Video             *models.Video `json:"video"`
	Audio             string        `json:"audio"`
	Image             string        `json:"image"`
}

// unwrapString handles documents that were stored as a JSON string holding
// the real JSON text (double-encoded). Structured values pass through.
func unwrapString(raw []byte) ([]byte, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '"' {
		return raw, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, err
	}
	return bytes.TrimSpace([]byte(s)), nil
}

// Decode parses a stored document, applying defaults for missing fields.
func Decode(raw []byte) (models.DataDocument, error) {
	body, err := unwrapString(raw)
	if err != nil {
		return models.DataDocument{}, fmt.Errorf("decode document: %w", err)
	}
	if len(body) == 0 || body[0] != '{' {
		return models.DataDocument{}, ErrNotObject
	}

	var in storedDocument
	if err := json.Unmarshal(body, &in); err != nil {
		return models.DataDocument{}, fmt.Errorf("decode document: %w", err)
	}

	doc := Defaults()
	doc.Movie = in.Movie
	doc.ReleaseDate = in.ReleaseDate
	doc.Director = in.Director
	doc.Character = in.Character
	doc.MovieDuration = in.MovieDuration
	doc.Timestamp = in.Timestamp
	doc.FullLine = in.FullLine
	doc.Audio = in.Audio
	doc.Image = in.Image
	if in.Year.set {
		doc.Year = in.Year.n
	}
	if in.CurrentWowInMovie.set {
		doc.CurrentWowInMovie = in.CurrentWowInMovie.n
	}
	if in.TotalWowsInMovie.set {
		doc.TotalWowsInMovie = in.TotalWowsInMovie.n
	}
	if in.Video != nil {
		doc.Video = *in.Video
	}
	return doc, nil
}

// DecodeVideo parses the video_json column. ok is false when the column is
// empty, null, or not a video object; the detail page then shows no player.
func DecodeVideo(raw json.RawMessage) (*models.Video, bool) {
	body, err := unwrapString(raw)
	if err != nil || len(body) == 0 || body[0] != '{' {
		return nil, false
	}
	var v models.Video
	if err := json.Unmarshal(body, &v); err != nil {
		return nil, false
	}
	return &v, true
}

// Encode serializes a document for storage. Non-ASCII text and HTML
// characters are written as-is.
func Encode(doc models.DataDocument) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// PrettyPrint renders v as indented JSON for display.
// Raw JSON bytes are re-indented. If v cannot be rendered as JSON the plain
// string form is returned instead.
func PrettyPrint(v any) string {
	switch raw := v.(type) {
	case nil:
		return "null"
	case json.RawMessage:
		return prettyRaw(raw)
	case []byte:
		return prettyRaw(raw)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Sprint(v)
	}
	return strings.TrimRight(buf.String(), "\n")
}

func prettyRaw(raw []byte) string {
	if len(bytes.TrimSpace(raw)) == 0 {
		return "null"
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return string(raw)
	}
	return buf.String()
}

// AsInt is a best-effort integer parse with a fallback.
func AsInt(raw string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return def
	}
	return n
}

// ToForm flattens a document into the admin form representation.
func ToForm(doc models.DataDocument) models.FlatForm {
	return models.FlatForm{
		Movie:             doc.Movie,
		Year:              strconv.Itoa(doc.Year),
		ReleaseDate:       doc.ReleaseDate,
		Director:          doc.Director,
		Character:         doc.Character,
		MovieDuration:     doc.MovieDuration,
		Timestamp:         doc.Timestamp,
		FullLine:          doc.FullLine,
		CurrentWowInMovie: strconv.Itoa(doc.CurrentWowInMovie),
		TotalWowsInMovie:  strconv.Itoa(doc.TotalWowsInMovie),
		Audio:             doc.Audio,
		Image:             doc.Image,
		Video1080p:        doc.Video.P1080,
		Video720p:         doc.Video.P720,
		Video480p:         doc.Video.P480,
		Video360p:         doc.Video.P360,
	}
}

// FromForm rebuilds a document from a submitted form.
// Strings are trimmed; numbers fall back to their defaults when unparsable.
func FromForm(f models.FlatForm) models.DataDocument {
	trim := strings.TrimSpace
	return models.DataDocument{
		Movie:             trim(f.Movie),
		Year:              AsInt(f.Year, models.DefaultYear),
		ReleaseDate:       trim(f.ReleaseDate),
		Director:          trim(f.Director),
		Character:         trim(f.Character),
		MovieDuration:     trim(f.MovieDuration),
		Timestamp:         trim(f.Timestamp),
		FullLine:          trim(f.FullLine),
		CurrentWowInMovie: AsInt(f.CurrentWowInMovie, models.DefaultWowIndex),
		TotalWowsInMovie:  AsInt(f.TotalWowsInMovie, models.DefaultWowIndex),
		Audio:             trim(f.Audio),
		Image:             trim(f.Image),
		Video: models.Video{
			P1080: trim(f.Video1080p),
			P720:  trim(f.Video720p),
			P480:  trim(f.Video480p),
			P360:  trim(f.Video360p),
		},
	}
}
