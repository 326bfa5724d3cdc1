package journal

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

type SQLiteJournal struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLiteJournal, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("journal: apply schema: %w", err)
	}
	return &SQLiteJournal{db: db}, nil
}

func (j *SQLiteJournal) RecordFill(f FillRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO fills
		(fill_id, time, instrument, units, price, target_exposure, account_exposure)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		f.FillID, f.Time, f.Instrument, f.Units, f.Price,
		f.TargetExposure, f.AccountExposure,
	)
	return err
}

func (j *SQLiteJournal) RecordSnapshot(s SnapshotRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO snapshots
		(snapshot_id, time, inventory, exposure)
		VALUES (?, ?, ?, ?)`,
		s.SnapshotID, s.Time, s.Inventory, s.Exposure,
	)
	return err
}

// GetFill looks a single fill up by id.
func (j *SQLiteJournal) GetFill(fillID string) (FillRecord, error) {
	row := j.db.QueryRow(`
		SELECT fill_id, time, instrument, units, price, target_exposure, account_exposure
		FROM fills WHERE fill_id = ?`, fillID)

	var f FillRecord
	err := row.Scan(&f.FillID, &f.Time, &f.Instrument, &f.Units, &f.Price,
		&f.TargetExposure, &f.AccountExposure)
	if err == sql.ErrNoRows {
		return f, fmt.Errorf("journal: no fill %q", fillID)
	}
	return f, err
}

// ListFillsBetween returns the fills executed in [start, end), oldest
// first.
func (j *SQLiteJournal) ListFillsBetween(start, end time.Time) ([]FillRecord, error) {
	rows, err := j.db.Query(`
		SELECT fill_id, time, instrument, units, price, target_exposure, account_exposure
		FROM fills WHERE time >= ? AND time < ? ORDER BY time`, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []FillRecord
	for rows.Next() {
		var f FillRecord
		if err := rows.Scan(&f.FillID, &f.Time, &f.Instrument, &f.Units, &f.Price,
			&f.TargetExposure, &f.AccountExposure); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// LatestSnapshot returns the most recent inventory checkpoint.
func (j *SQLiteJournal) LatestSnapshot() (SnapshotRecord, error) {
	row := j.db.QueryRow(`
		SELECT snapshot_id, time, inventory, exposure
		FROM snapshots ORDER BY snapshot_id DESC LIMIT 1`)

	var s SnapshotRecord
	err := row.Scan(&s.SnapshotID, &s.Time, &s.Inventory, &s.Exposure)
	if err == sql.ErrNoRows {
		return s, fmt.Errorf("journal: no snapshots")
	}
	return s, err
}

func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}
