package agent

import (
	"github.com/rustyeddy/hedger/gear"
	"github.com/rustyeddy/hedger/market"
)

// BiCoast is a symmetric hedger that never dies: instead of deactivating
// when its PL target is reached, it closes the position, re-centers the
// gear band at the price that triggered the take, and raises the target
// by one epoch target. The epoch target is scale*exposure/span, the
// profit of one full traversal step of the band.
type BiCoast struct {
	EpochTarget float64    `json:"epoch_target"`
	Hedger      GearHedger `json:"hedger"`
}

func NewBiCoast(price, span, scale, exposure float64) *BiCoast {
	epoch := scale * exposure / span
	return &BiCoast{
		EpochTarget: epoch,
		Hedger:      *NewSymmetric(price-span, price+span, scale, scale, exposure, epoch),
	}
}

// MidPrice is the current center of the gear band.
func (b *BiCoast) MidPrice() float64 {
	return (b.Hedger.GearF.P0 + b.Hedger.GearF.PN) / 2
}

func (b *BiCoast) shiftMidTo(price float64) {
	span := b.Hedger.GearF.Span() / 2
	b.Hedger.GearF = gear.Symmetric(price-span, price+span)
}

// TargetAction re-centers the band at the tentative price and arms the
// next epoch instead of deactivating.
func (b *BiCoast) TargetAction() int64 {
	b.Hedger.Target += b.EpochTarget
	b.shiftMidTo(b.Hedger.TentativePrice)
	return 0
}

// NextExposure is the gear-hedger policy with the BiCoast target action:
// a profit take closes the position and re-centers rather than killing
// the agent.
func (b *BiCoast) NextExposure(tick market.Tick) int64 {
	closePrice := b.Hedger.closePrice(tick)
	if b.Hedger.PL.PLAtPrice(closePrice) > b.Hedger.Target {
		b.Hedger.TentativePrice = closePrice
		b.Hedger.TentativeExposure = 0
		return b.TargetAction()
	}
	return b.Hedger.TargetExposure(tick)
}

func (b *BiCoast) TargetExposure(tick market.Tick) int64 {
	return b.Hedger.TargetExposure(tick)
}

func (b *BiCoast) Close(tick market.Tick) int64 {
	return b.Hedger.Close(tick)
}

// UpdateOnFill books the fill; the target check never trips because the
// target was already raised above realized profit by TargetAction.
func (b *BiCoast) UpdateOnFill(fill OrderFill) {
	b.Hedger.UpdateOnFill(fill)
	// the inner hedger may have concluded it is done; BiCoast never is
	b.Hedger.Active = true
}

func (b *BiCoast) NextExposureAndFill(fill OrderFill) {
	b.Hedger.TentativePrice = fill.Price
	b.Hedger.TentativeExposure += fill.Units
	b.UpdateOnFill(fill)
}

func (b *BiCoast) Exposure() int64 { return b.Hedger.Exposure() }

// IsActive is always true; a BiCoast agent runs until removed.
func (b *BiCoast) IsActive() bool { return true }

// Deactivate is a no-op; removal from the inventory is the only exit.
func (b *BiCoast) Deactivate() {}

// ToBeClosed is always false; the target only recalibrates the band.
func (b *BiCoast) ToBeClosed() bool { return false }
