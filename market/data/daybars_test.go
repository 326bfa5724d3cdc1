package data

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ulikunitz/xz"
)

const day1CSV = "60000,1.1000,1.1010,1.0990,1.1005,120\n120000,1.1005,1.1020,1.1000,1.1015,80\n"
const day2CSV = "60000,1.1015,1.1030,1.1010,1.1025\n"

func writeZipDay(t *testing.T, dir, name, content string) {
	t.Helper()
	f, err := os.Create(filepath.Join(dir, name))
	require.NoError(t, err)
	defer f.Close()

	zw := zip.NewWriter(f)
	w, err := zw.Create("bars.csv")
	require.NoError(t, err)
	_, err = io.WriteString(w, content)
	require.NoError(t, err)
	require.NoError(t, zw.Close())
}

func writeXZDay(t *testing.T, dir, name, content string) {
	t.Helper()
	f, err := os.Create(filepath.Join(dir, name))
	require.NoError(t, err)
	defer f.Close()

	w, err := xz.NewWriter(f)
	require.NoError(t, err)
	_, err = io.WriteString(w, content)
	require.NoError(t, err)
	require.NoError(t, w.Close())
}

func TestDayBarsIteratesInDateOrder(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeZipDay(t, dir, "20240102.zip", day2CSV)
	writeZipDay(t, dir, "20240101.zip", day1CSV)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("not a day"), 0644))

	days, err := List(dir)
	require.NoError(t, err)

	day, bars, err := days.NextDay()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), day)
	require.Len(t, bars, 2)
	assert.Equal(t, day.Unix()+60, bars[0].Time)
	assert.Equal(t, 1.1000, bars[0].Open)
	assert.Equal(t, 1.1005, bars[0].Close)
	assert.Equal(t, 120.0, bars[0].Volume)
	assert.Equal(t, 1.1015, bars[1].Close)

	day, bars, err = days.NextDay()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), day)
	require.Len(t, bars, 1)
	assert.Equal(t, 1.1025, bars[0].Close)
	assert.Equal(t, 0.0, bars[0].Volume)

	_, _, err = days.NextDay()
	assert.Equal(t, io.EOF, err)
}

func TestDayBarsReadsXZ(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeXZDay(t, dir, "20240103.csv.xz", day1CSV)

	days, err := List(dir)
	require.NoError(t, err)

	day, bars, err := days.NextDay()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), day)
	require.Len(t, bars, 2)
	assert.Equal(t, 1.1005, bars[0].Close)
}

func TestDayBarsEmptyDir(t *testing.T) {
	t.Parallel()

	days, err := List(t.TempDir())
	require.NoError(t, err)
	_, _, err = days.NextDay()
	assert.Equal(t, io.EOF, err)
}

func TestDayBarsBadRow(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeZipDay(t, dir, "20240101.zip", "60000,1.1\n")

	days, err := List(dir)
	require.NoError(t, err)
	_, _, err = days.NextDay()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "20240101.zip")
}

func TestListMissingDir(t *testing.T) {
	t.Parallel()

	_, err := List(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}
