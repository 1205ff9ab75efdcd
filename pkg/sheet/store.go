// Package sheet is the record-store side of the cataloguer: the canonical
// row schema, the storage boundary, and title resolution against the
// processed/unprocessed partition.
package sheet

import "errors"

// Row is one catalogue entry. The column order is a fixed contract; see
// Values. UID stays a text cell, blank until the badge has been processed,
// which is exactly the partition predicate.
//
// Canonical schema (historical revisions of the sheet disagreed; this is the
// documented one): uid, title, model, style, victories, days, hours,
// minutes, defended, treats, latlon, city, county, state.
type Row struct {
	Index     int    `gorm:"primaryKey;column:row_index"`
	UID       string `gorm:"size:16"`
	Title     string `gorm:"size:255;index"`
	Model     string `gorm:"size:64"`
	Style     string `gorm:"size:32"`
	Victories int
	Days      int
	Hours     int
	Minutes   int
	Defended  float64
	Treats    int
	Latlon    string `gorm:"size:64"`
	City      string `gorm:"size:128"`
	County    string `gorm:"size:128"`
	State     string `gorm:"size:128"`
}

func (Row) TableName() string { return "sheet_rows" }

// Processed reports whether the row has an assigned id.
func (r Row) Processed() bool { return r.UID != "" }

// Values returns the row cells in canonical column order. This replaces the
// original's attribute iteration so the order is a compile-time contract.
func (r Row) Values() []any {
	return []any{
		r.UID, r.Title, r.Model, r.Style,
		r.Victories, r.Days, r.Hours, r.Minutes, r.Defended, r.Treats,
		r.Latlon, r.City, r.County, r.State,
	}
}

// Columns matches Values, used for headers and sort addressing.
var Columns = []string{
	"uid", "title", "model", "style",
	"victories", "days", "hours", "minutes", "defended", "treats",
	"latlon", "city", "county", "state",
}

// Store is everything the pipeline needs from the backing spreadsheet/table.
// Row index is the unit of update addressing.
type Store interface {
	// Rows returns all records ordered by row index.
	Rows() ([]Row, error)
	// WriteRow replaces the row at row.Index with the given values.
	WriteRow(Row) error
	// SortByLocation reorders rows by state, county, city, title ascending.
	SortByLocation() error
	// NextUID returns max assigned uid + 1. The batch reserves its whole
	// contiguous id range from one call; batches must not run concurrently.
	NextUID() (int, error)
}

// Partition splits rows into processed (uid assigned) and unprocessed.
func Partition(rows []Row) (processed, unprocessed []Row) {
	for _, r := range rows {
		if r.Processed() {
			processed = append(processed, r)
		} else {
			unprocessed = append(unprocessed, r)
		}
	}
	return processed, unprocessed
}

// ErrTitleNotFound is returned when resolution exhausts the manual retry.
var ErrTitleNotFound = errors.New("title search unsuccessful")

// ErrBadSelection is returned when a duplicate disambiguation answer is not
// among the candidate rows.
var ErrBadSelection = errors.New("selected index is not a candidate row")
