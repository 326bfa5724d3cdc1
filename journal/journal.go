// Package journal records what the trading loop actually did: every
// fill it booked and every inventory snapshot it emitted. The journal
// is side output; losing it never affects trading state.
package journal

import "time"

// FillRecord is one executed reconciliation order.
type FillRecord struct {
	FillID          string
	Time            time.Time
	Instrument      string
	Units           int64
	Price           float64
	TargetExposure  int64
	AccountExposure int64
}

// SnapshotRecord is a serialized inventory checkpoint taken after a
// fill was applied.
type SnapshotRecord struct {
	SnapshotID string
	Time       time.Time
	Inventory  string
	Exposure   int64
}

type Journal interface {
	RecordFill(FillRecord) error
	RecordSnapshot(SnapshotRecord) error
	Close() error
}

// Discard is a Journal that drops everything, for runs where no
// journaling was configured.
type Discard struct{}

func (Discard) RecordFill(FillRecord) error         { return nil }
func (Discard) RecordSnapshot(SnapshotRecord) error { return nil }
func (Discard) Close() error                        { return nil }
