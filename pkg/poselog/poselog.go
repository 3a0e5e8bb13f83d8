// Package poselog persists dead-reckoned pose samples to a SQLite file so
// runs can be inspected (and plotted) afterwards.  Writes are decimated by
// the caller; this is not meant to keep up with the control tick.
package poselog

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS pose (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		at_us INTEGER NOT NULL,
		x_mm REAL NOT NULL,
		y_mm REAL NOT NULL,
		heading_rad REAL NOT NULL,
		velocity_mm_s REAL NOT NULL,
		omega_rad_s REAL NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS pose_at_us ON pose(at_us)`,
}

// Sample is one recorded pose.
type Sample struct {
	At          time.Time
	XMM         float64
	YMM         float64
	HeadingRad  float64
	VelocityMMS float64
	OmegaRadS   float64
}

type Store struct {
	db     *sql.DB
	insert *sql.Stmt
}

// Open creates or opens the log at path and ensures the schema exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("poselog: creating schema: %w", err)
		}
	}
	insert, err := db.Prepare(`INSERT INTO pose
		(at_us, x_mm, y_mm, heading_rad, velocity_mm_s, omega_rad_s)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db, insert: insert}, nil
}

func (s *Store) Append(p Sample) error {
	_, err := s.insert.Exec(p.At.UnixMicro(),
		p.XMM, p.YMM, p.HeadingRad, p.VelocityMMS, p.OmegaRadS)
	return err
}

// Samples returns every recorded pose in time order.
func (s *Store) Samples() ([]Sample, error) {
	rows, err := s.db.Query(`SELECT at_us, x_mm, y_mm, heading_rad,
		velocity_mm_s, omega_rad_s FROM pose ORDER BY at_us, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Sample
	for rows.Next() {
		var atUs int64
		var p Sample
		if err := rows.Scan(&atUs, &p.XMM, &p.YMM, &p.HeadingRad,
			&p.VelocityMMS, &p.OmegaRadS); err != nil {
			return nil, err
		}
		p.At = time.UnixMicro(atUs)
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) Close() error {
	_ = s.insert.Close()
	return s.db.Close()
}
