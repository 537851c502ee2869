// Package validate implements the per-bel location-legality predicate the
// placer calls on every trial move: a pure (no side effects) combination of
// region and architecture-specific rules. Cluster membership is not
// consulted.
package validate

import (
	"github.com/latticeforge/pnrcore/design"
	"github.com/latticeforge/pnrcore/devgraph"
	"github.com/latticeforge/pnrcore/ids"
)

// SliceAttrs names the attributes a slice-family cell carries, read from
// CellInfo.Attrs, that two co-located slices must agree on when either
// drives a flip-flop (an ECP5-style TRELLIS_SLICE clocking constraint).
type SliceAttrs struct {
	UsingDFF ids.Id
	ClkSig   ids.Id
	LsrSig   ids.Id
	ClkMux   ids.Id
	LsrMux   ids.Id
	SRMode   ids.Id
	HasL6Mux ids.Id
}

// SliceConfig enables the slice-compatibility and L6MUX rules for bels of
// SliceType. Leave the zero value (SliceType == ids.None) to skip both
// rules for an architecture with no such constraint.
type SliceConfig struct {
	SliceType ids.Id
	Attrs     SliceAttrs
}

func (s SliceConfig) enabled() bool { return s.SliceType != ids.None }

// FamilyChecker reports whether the target part actually has the silicon
// for cellType, for cell types that only exist on some part variants within
// a family (e.g. ECP5's DCUA/EXTREFB/PCSCLKDIV, absent on the smallest
// parts).
type FamilyChecker interface {
	HasPrimitive(cellType ids.Id) bool
}

// LABLocator resolves the (lab, alm) coordinate of a bel belonging to a
// Cyclone-V-style logic array block, or ok=false if bel does not belong to
// one.
type LABLocator interface {
	LABLocation(bel devgraph.BelId) (lab, alm int, ok bool)
}

// LABChecker implements the sharing rules within one LAB: combinational
// input-count limits and, for flip-flops, control-set (clock/reset/enable)
// consistency across the ALMs of one LAB.
type LABChecker interface {
	IsALMLegal(lab, alm int) bool
	CheckLABInputCount(lab int) bool
	IsLABCtrlSetLegal(lab int) bool
}

// ALMConfig enables the LAB/ALM rules for bels of CombBelType/FFBelType.
// Leave Locator nil to skip the rules for an architecture with no ALM
// structure.
type ALMConfig struct {
	CombBelType, FFBelType ids.Id
	Locator                LABLocator
	Checker                LABChecker
}

func (a ALMConfig) enabled() bool { return a.Locator != nil && a.Checker != nil }

// Validator combines every location-validity rule an architecture opts
// into. The zero value performs only the two rules that apply universally:
// family exclusion (empty map, so always a no-op) and region compliance.
type Validator struct {
	Slice SliceConfig
	Family FamilyChecker
	Excluded map[ids.Id]struct{}
	ALM ALMConfig
}

// IsBelLocationValid reports whether bel's current occupant, if any, may
// legally sit there. It reads only db/graph state and never mutates
// either, so it is safe to call on every candidate move.
func (v Validator) IsBelLocationValid(db *design.Database, graph devgraph.Graph, bel devgraph.BelId) bool {
	cell := db.BoundCell(bel)
	if cell == nil {
		return true
	}
	if !cell.TestRegion(bel) {
		return false
	}

	belType := graph.BelType(bel)

	if v.Slice.enabled() && belType == v.Slice.SliceType {
		if !v.sliceLocationValid(db, graph, bel, cell) {
			return false
		}
	}

	if _, excluded := v.Excluded[cell.Type]; excluded {
		if v.Family == nil || !v.Family.HasPrimitive(cell.Type) {
			return false
		}
	}

	if v.ALM.enabled() {
		switch belType {
		case v.ALM.CombBelType:
			return v.almLocationValid(bel, false)
		case v.ALM.FFBelType:
			return v.almLocationValid(bel, true)
		}
	}

	return true
}

// sliceLocationValid applies the L6MUX half-slice restriction and then
// slice-compatibility across every occupied slice bel sharing bel's tile.
func (v Validator) sliceLocationValid(db *design.Database, graph devgraph.Graph, bel devgraph.BelId, cell *design.CellInfo) bool {
	loc := graph.BelLocation(bel)
	if loc.Z%2 == 1 && BoolAttr(cell, v.Slice.Attrs.HasL6Mux) {
		return false
	}

	var tileCells []*design.CellInfo
	for _, other := range graph.BelsByTile(loc.X, loc.Y) {
		if c := db.BoundCell(other); c != nil {
			tileCells = append(tileCells, c)
		}
	}
	return v.Slice.slicesCompatible(tileCells)
}

// slicesCompatible requires every DFF-using cell in cells to agree on its
// clock/reset network and mux/mode settings with the first such cell found;
// combinational-only slices impose no constraint.
func (s SliceConfig) slicesCompatible(cells []*design.CellInfo) bool {
	a := s.Attrs
	var first *design.CellInfo
	for _, cell := range cells {
		if !BoolAttr(cell, a.UsingDFF) {
			continue
		}
		if first == nil {
			first = cell
			continue
		}
		if !attrsEqual(cell, first, a.ClkSig) || !attrsEqual(cell, first, a.LsrSig) ||
			!attrsEqual(cell, first, a.ClkMux) || !attrsEqual(cell, first, a.LsrMux) ||
			!attrsEqual(cell, first, a.SRMode) {
			return false
		}
	}
	return true
}

// almLocationValid applies the shared-LAB rules to a comb or FF bel: every
// ALM must be internally legal and respect its LAB's input-count budget,
// and a flip-flop's LAB must additionally agree on one control set.
func (v Validator) almLocationValid(bel devgraph.BelId, isFF bool) bool {
	lab, alm, ok := v.ALM.Locator.LABLocation(bel)
	if !ok {
		return true
	}
	if !v.ALM.Checker.IsALMLegal(lab, alm) || !v.ALM.Checker.CheckLABInputCount(lab) {
		return false
	}
	if isFF && !v.ALM.Checker.IsLABCtrlSetLegal(lab) {
		return false
	}
	return true
}

// BoolAttr reads a boolean-flavored attribute (a width-1 int property),
// defaulting to false when absent or of the wrong kind.
func BoolAttr(cell *design.CellInfo, name ids.Id) bool {
	if name == ids.None || cell == nil {
		return false
	}
	p, ok := cell.Attrs[name]
	if !ok || !p.IsInt() {
		return false
	}
	return p.AsInt() != 0
}

func attrsEqual(a, b *design.CellInfo, name ids.Id) bool {
	if name == ids.None {
		return true
	}
	pa, oka := a.Attrs[name]
	pb, okb := b.Attrs[name]
	if oka != okb {
		return false
	}
	if !oka {
		return true
	}
	if pa.IsString() != pb.IsString() {
		return false
	}
	if pa.IsString() {
		return pa.AsString() == pb.AsString()
	}
	return pa.AsInt() == pb.AsInt()
}
