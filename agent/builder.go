package agent

import (
	"errors"
	"math"
)

// ErrEmptySpec is returned by Build when no agent case is set.
var ErrEmptySpec = errors.New("agent: empty agent spec")

// ErrAmbiguousSpec is returned by Build when more than one case is set.
var ErrAmbiguousSpec = errors.New("agent: more than one agent case set")

// GAgent is the durable, human-meaningful description of a hedger: a
// tagged variant whose single non-nil case says how to construct the
// runtime GearHedger. It serializes as an object with one key naming
// the case, e.g. {"Symmetric": {"pmid": ..., ...}}.
type GAgent struct {
	OHLC      *OHLCSpec      `json:"OHLC,omitempty"`
	CL        *CLSpec        `json:"CL,omitempty"`
	Symmetric *SymmetricSpec `json:"Symmetric,omitempty"`
	Buy       *BuySpec       `json:"Buy,omitempty"`
	Sell      *SellSpec      `json:"Sell,omitempty"`
	JumpLong  *JumpLongSpec  `json:"JumpLong,omitempty"`
	Coastline *CoastlineSpec `json:"Coastline,omitempty"`
	Segment   *SegmentSpec   `json:"Segment,omitempty"`
}

// OHLCSpec anchors a segment agent on a daily bar: flat at the higher
// of open and close, long toward the low, short toward the high, with
// both arms clipped to Exposure.
type OHLCSpec struct {
	Open     float64  `json:"open"`
	High     float64  `json:"high"`
	Low      float64  `json:"low"`
	Close    float64  `json:"close"`
	Scale    float64  `json:"scale"`
	Exposure float64  `json:"exposure"`
	Target   *float64 `json:"target,omitempty"`
}

// CLSpec is the coastline trader expressed as a segment: Size units per
// Scale step, IMax steps wide, centered I0 steps away from Price in the
// direction of the trade.
type CLSpec struct {
	Direction int64    `json:"direction"`
	Price     float64  `json:"price"`
	Scale     float64  `json:"scale"`
	Size      float64  `json:"size"`
	I0        *float64 `json:"i0,omitempty"`
	IMax      float64  `json:"imax"`
	Target    *float64 `json:"target,omitempty"`
}

type SymmetricSpec struct {
	PMid     float64 `json:"pmid"`
	Span     float64 `json:"span"`
	Scale    float64 `json:"scale"`
	Exposure float64 `json:"exposure"`
	Target   float64 `json:"target"`
}

type BuySpec struct {
	Price0   float64 `json:"price0"`
	Price1   float64 `json:"price1"`
	Scale    float64 `json:"scale"`
	Exposure float64 `json:"exposure"`
}

type SellSpec struct {
	Price0   float64 `json:"price0"`
	Price1   float64 `json:"price1"`
	Scale    float64 `json:"scale"`
	Exposure float64 `json:"exposure"`
}

type JumpLongSpec struct {
	Price0   float64 `json:"price0"`
	Scale    float64 `json:"scale"`
	Exposure float64 `json:"exposure"`
}

type CoastlineSpec struct {
	Direction int64   `json:"direction"`
	Price0    float64 `json:"price0"`
	Scale     float64 `json:"scale"`
	Size      float64 `json:"size"`
	IMax      float64 `json:"imax"`
}

type SegmentSpec struct {
	Price0    float64 `json:"price0"`
	Exposure0 float64 `json:"exposure0"`
	PriceN    float64 `json:"pricen"`
	ExposureN float64 `json:"exposuren"`
	Scale     float64 `json:"scale"`
	Target    float64 `json:"target"`
}

// Build constructs the runtime GearHedger described by the spec.
func (a GAgent) Build() (*GearHedger, error) {
	cases := 0
	for _, set := range []bool{
		a.OHLC != nil, a.CL != nil, a.Symmetric != nil, a.Buy != nil,
		a.Sell != nil, a.JumpLong != nil, a.Coastline != nil, a.Segment != nil,
	} {
		if set {
			cases++
		}
	}
	if cases == 0 {
		return nil, ErrEmptySpec
	}
	if cases > 1 {
		return nil, ErrAmbiguousSpec
	}

	switch {
	case a.OHLC != nil:
		return a.OHLC.build(), nil
	case a.CL != nil:
		return a.CL.build(), nil
	case a.Symmetric != nil:
		s := a.Symmetric
		return NewSymmetric(s.PMid-s.Span, s.PMid+s.Span, s.Scale, s.Scale, s.Exposure, s.Target), nil
	case a.Buy != nil:
		b := a.Buy
		return NewBuyer(b.Price0, b.Price1, b.Scale, b.Scale, b.Exposure), nil
	case a.Sell != nil:
		s := a.Sell
		return NewSeller(s.Price0, s.Price1, s.Scale, s.Scale, s.Exposure), nil
	case a.JumpLong != nil:
		j := a.JumpLong
		return NewJump(j.Price0, 1, 0, j.Scale, j.Scale, j.Exposure), nil
	case a.Coastline != nil:
		c := a.Coastline
		return NewCoastline(c.Direction, c.Price0, c.Scale, c.Size, c.IMax), nil
	default:
		s := a.Segment
		return NewSegment(s.Price0, s.Exposure0, s.PriceN, s.ExposureN, s.Scale, s.Target), nil
	}
}

func (s *OHLCSpec) build() *GearHedger {
	// price of zero exposure
	zerop := s.Close
	if s.Open >= s.Close {
		zerop = s.Open
	}
	exposure0 := math.Min(s.Exposure, s.Exposure*(zerop-s.Low)/(s.High-zerop))
	exposuren := -math.Min(s.Exposure, s.Exposure*(s.High-zerop)/(zerop-s.Low))
	target := NoTarget
	if s.Target != nil {
		target = *s.Target
	}
	return NewSegment(s.Low, exposure0, s.High, exposuren, s.Scale, target)
}

func (s *CLSpec) build() *GearHedger {
	i0 := 1.0
	if s.I0 != nil {
		i0 = *s.I0
	}
	shift := i0 * s.Scale
	zerop := s.Price - shift
	if s.Direction > 0 {
		zerop = s.Price + shift
	}

	low := zerop - s.IMax*s.Scale
	high := zerop + s.IMax*s.Scale

	target := s.Size * s.Scale
	if s.Target != nil {
		target = *s.Target
	}
	exposure := s.Size * s.IMax

	return NewSegment(low, exposure, high, -exposure, s.Scale, target)
}
