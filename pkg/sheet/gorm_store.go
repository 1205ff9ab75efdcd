package sheet

import (
	"fmt"
	"sort"
	"strconv"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// GormStore keeps the sheet in a Postgres table keyed by row index.
type GormStore struct {
	db *gorm.DB
}

// OpenGormStore connects with the given DSN and migrates the sheet table.
func OpenGormStore(dsn string) (*GormStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return NewGormStore(db)
}

// NewGormStore wraps an existing connection (shared with the API server).
func NewGormStore(db *gorm.DB) (*GormStore, error) {
	if err := db.AutoMigrate(&Row{}); err != nil {
		return nil, fmt.Errorf("migrate sheet_rows: %w", err)
	}
	return &GormStore{db: db}, nil
}

func (s *GormStore) Rows() ([]Row, error) {
	var rows []Row
	if err := s.db.Order("row_index").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	return rows, nil
}

func (s *GormStore) WriteRow(r Row) error {
	if err := s.db.Save(&r).Error; err != nil {
		return fmt.Errorf("write row %d: %w", r.Index, err)
	}
	return nil
}

func (s *GormStore) NextUID() (int, error) {
	rows, err := s.Rows()
	if err != nil {
		return 0, err
	}
	next := 1
	for _, r := range rows {
		if !r.Processed() {
			continue
		}
		n, err := strconv.Atoi(r.UID)
		if err != nil {
			continue // malformed uid cell, skip rather than clobber
		}
		if n >= next {
			next = n + 1
		}
	}
	return next, nil
}

// SortByLocation rewrites row indexes so the table reads state, county,
// city, title ascending, mirroring the original geographic sheet sort.
func (s *GormStore) SortByLocation() error {
	rows, err := s.Rows()
	if err != nil {
		return err
	}
	indexes := make([]int, len(rows))
	for i, r := range rows {
		indexes[i] = r.Index
	}
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.State != b.State {
			return a.State < b.State
		}
		if a.County != b.County {
			return a.County < b.County
		}
		if a.City != b.City {
			return a.City < b.City
		}
		return a.Title < b.Title
	})
	return s.db.Transaction(func(tx *gorm.DB) error {
		// two passes: indexes are the primary key, so park rows out of the
		// live range first to avoid collisions mid-rewrite
		for i := range rows {
			old := rows[i].Index
			if err := tx.Model(&Row{}).Where("row_index = ?", old).
				Update("row_index", -(i + 1)).Error; err != nil {
				return err
			}
		}
		for i := range rows {
			if err := tx.Model(&Row{}).Where("row_index = ?", -(i + 1)).
				Update("row_index", indexes[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
