package journal

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"
)

// CSVJournal appends fills to a CSV file; snapshots are dropped since
// they do not fit tabular output. Useful for quick inspection without
// SQLite tooling.
type CSVJournal struct {
	file *os.File
	w    *csv.Writer
}

func NewCSV(path string) (*CSVJournal, error) {
	_, statErr := os.Stat(path)
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("journal: open csv: %w", err)
	}

	j := &CSVJournal{file: file, w: csv.NewWriter(file)}
	if os.IsNotExist(statErr) {
		header := []string{"fill_id", "time", "instrument", "units", "price", "target_exposure", "account_exposure"}
		if err := j.w.Write(header); err != nil {
			file.Close()
			return nil, err
		}
		j.w.Flush()
	}
	return j, j.w.Error()
}

func (j *CSVJournal) RecordFill(f FillRecord) error {
	row := []string{
		f.FillID,
		f.Time.UTC().Format(time.RFC3339),
		f.Instrument,
		strconv.FormatInt(f.Units, 10),
		strconv.FormatFloat(f.Price, 'f', -1, 64),
		strconv.FormatInt(f.TargetExposure, 10),
		strconv.FormatInt(f.AccountExposure, 10),
	}
	if err := j.w.Write(row); err != nil {
		return err
	}
	j.w.Flush()
	return j.w.Error()
}

func (j *CSVJournal) RecordSnapshot(SnapshotRecord) error { return nil }

func (j *CSVJournal) Close() error {
	j.w.Flush()
	if err := j.w.Error(); err != nil {
		j.file.Close()
		return err
	}
	return j.file.Close()
}
