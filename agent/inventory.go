package agent

import (
	"fmt"
	"sort"

	"github.com/rustyeddy/hedger/market"
)

// AgentInventory is a named collection of hedgers that behaves as one
// composite agent: quotes are forwarded to every active member and a
// single fill is broadcast identically to all of them, each member
// privately accounting for its own contribution.
//
// PL is the aggregate realized PL carried across checkpoints.
type AgentInventory struct {
	Agents map[string]*GearHedger `json:"agents"`
	PL     float64                `json:"pl"`
}

func NewInventory() *AgentInventory {
	return &AgentInventory{Agents: make(map[string]*GearHedger)}
}

// names returns the member keys in sorted order so traversal is
// deterministic. Results never depend on the order, only side-effect
// sequencing does.
func (inv *AgentInventory) names() []string {
	out := make([]string, 0, len(inv.Agents))
	for name := range inv.Agents {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Exposure sums the exposure of the active members.
func (inv *AgentInventory) Exposure() int64 {
	var total int64
	for _, a := range inv.Agents {
		if a.IsActive() {
			total += a.Exposure()
		}
	}
	return total
}

// NextExposure forwards the tick to every active member and sums the
// exposures they want, staging each member's tentative trade.
func (inv *AgentInventory) NextExposure(tick market.Tick) int64 {
	var total int64
	for _, name := range inv.names() {
		if a := inv.Agents[name]; a.IsActive() {
			total += a.NextExposure(tick)
		}
	}
	return total
}

// TargetExposure on the inventory is a no-op; targets live on members.
func (inv *AgentInventory) TargetExposure(tick market.Tick) int64 { return 0 }

// TargetAction on the inventory is a no-op; targets live on members.
func (inv *AgentInventory) TargetAction() int64 { return 0 }

// Close stages a flat position on every member.
func (inv *AgentInventory) Close(tick market.Tick) int64 {
	for _, name := range inv.names() {
		inv.Agents[name].Close(tick)
	}
	return 0
}

// UpdateOnFill broadcasts the fill to every active member. Each member
// settles its own tentative exposure against it; members that staged no
// trade are left untouched.
func (inv *AgentInventory) UpdateOnFill(fill OrderFill) {
	for _, name := range inv.names() {
		if a := inv.Agents[name]; a.IsActive() {
			a.UpdateOnFill(fill)
		}
	}
}

// NextExposureAndFill primes the members with a synthetic zero-spread
// tick at the fill price before broadcasting the fill, so members rearm
// their trip-wires on both.
func (inv *AgentInventory) NextExposureAndFill(fill OrderFill) {
	inv.NextExposure(market.Tick{Bid: fill.Price, Ask: fill.Price})
	inv.UpdateOnFill(fill)
}

// IsActive is always true: the inventory never self-terminates.
func (inv *AgentInventory) IsActive() bool { return true }

// ToBeClosed is always false: the inventory never self-terminates.
func (inv *AgentInventory) ToBeClosed() bool { return false }

// Deactivate broadcasts to every member.
func (inv *AgentInventory) Deactivate() {
	for _, a := range inv.Agents {
		a.Deactivate()
	}
}

// Merge inserts every entry of other, keyed by name. On a name
// collision the entry from other wins.
func (inv *AgentInventory) Merge(other *AgentInventory) {
	if inv.Agents == nil {
		inv.Agents = make(map[string]*GearHedger)
	}
	for name, a := range other.Agents {
		inv.Agents[name] = a
	}
}

// MergeTwo replaces members name1 and name2 by their MergeFlat under
// outname.
func (inv *AgentInventory) MergeTwo(name1, name2, outname string) error {
	a1, ok := inv.Agents[name1]
	if !ok {
		return fmt.Errorf("inventory: no agent %q", name1)
	}
	a2, ok := inv.Agents[name2]
	if !ok {
		return fmt.Errorf("inventory: no agent %q", name2)
	}
	if _, exists := inv.Agents[outname]; exists && outname != name1 && outname != name2 {
		return fmt.Errorf("inventory: agent %q already exists", outname)
	}

	merged := a1.MergeFlat(a2)
	delete(inv.Agents, name1)
	delete(inv.Agents, name2)
	inv.Agents[outname] = merged
	return nil
}
