// Package data loads historical daily bar archives. A data directory
// holds one file per trading day named YYYYMMDD.zip or YYYYMMDD.csv.xz,
// each containing a headerless CSV of intraday bars:
//
//	<ms offset into day>,<open>,<high>,<low>,<close>[,<volume>]
//
// Days iterate in filename order; entries that are not day archives are
// skipped.
package data

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/ulikunitz/xz"
	"github.com/xyproto/unzip"

	"github.com/rustyeddy/hedger/market"
)

// DayBars iterates the day archives of one directory.
type DayBars struct {
	paths []string
	idx   int
}

// List scans dir and returns an iterator over its day archives, sorted
// by name, which for YYYYMMDD files is date order.
func List(dir string) (*DayBars, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("data: read dir: %w", err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)
	return &DayBars{paths: paths}, nil
}

// NextDay returns the date and bars of the next day archive. It skips
// files it does not recognize and returns io.EOF once the directory is
// exhausted.
func (d *DayBars) NextDay() (time.Time, []market.Bar, error) {
	for d.idx < len(d.paths) {
		path := d.paths[d.idx]
		d.idx++

		day, ok := dayDate(path)
		if !ok {
			continue
		}

		var bars []market.Bar
		var err error
		switch {
		case strings.HasSuffix(path, ".zip"):
			bars, err = readZipDay(path, day)
		case strings.HasSuffix(path, ".csv.xz"):
			bars, err = readXZDay(path, day)
		default:
			continue
		}
		if err != nil {
			return time.Time{}, nil, fmt.Errorf("data: %s: %w", filepath.Base(path), err)
		}
		return day, bars, nil
	}
	return time.Time{}, nil, io.EOF
}

// dayDate parses the leading YYYYMMDD of the file name.
func dayDate(path string) (time.Time, bool) {
	name := filepath.Base(path)
	if len(name) < 8 {
		return time.Time{}, false
	}
	day, err := time.ParseInLocation("20060102", name[:8], time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return day, true
}

func readZipDay(path string, day time.Time) ([]market.Bar, error) {
	tmp, err := os.MkdirTemp("", "daybars")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(tmp)

	if err := unzip.Extract(path, tmp); err != nil {
		return nil, fmt.Errorf("extract: %w", err)
	}

	var csvs []string
	err = filepath.WalkDir(tmp, func(p string, de os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !de.IsDir() && strings.HasSuffix(p, ".csv") {
			csvs = append(csvs, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(csvs) == 0 {
		return nil, fmt.Errorf("no csv entry in archive")
	}
	sort.Strings(csvs)

	f, err := os.Open(csvs[0])
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return parseBars(f, day)
}

func readXZDay(path string, day time.Time) ([]market.Bar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r, err := xz.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("xz: %w", err)
	}
	return parseBars(r, day)
}

// parseBars reads headerless bar rows. The volume column is optional.
func parseBars(r io.Reader, day time.Time) ([]market.Bar, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	var bars []market.Bar
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(row) < 5 {
			return nil, fmt.Errorf("row %d: want at least 5 fields, got %d", len(bars)+1, len(row))
		}

		ms, err := strconv.ParseInt(strings.TrimSpace(row[0]), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: time: %w", len(bars)+1, err)
		}

		var vals [4]float64
		for i := 0; i < 4; i++ {
			vals[i], err = strconv.ParseFloat(strings.TrimSpace(row[i+1]), 64)
			if err != nil {
				return nil, fmt.Errorf("row %d: %w", len(bars)+1, err)
			}
		}

		bar := market.Bar{
			Time:  day.Unix() + ms/1000,
			Open:  vals[0],
			High:  vals[1],
			Low:   vals[2],
			Close: vals[3],
		}
		if len(row) > 5 {
			bar.Volume, err = strconv.ParseFloat(strings.TrimSpace(row[5]), 64)
			if err != nil {
				return nil, fmt.Errorf("row %d: volume: %w", len(bars)+1, err)
			}
		}
		bars = append(bars, bar)
	}
	return bars, nil
}
