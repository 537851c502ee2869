// Package lut implements the LUT-input permuter: reordering a
// 4-input combinational LUT's inputs by timing criticality and rewriting
// its truth-table parameter to match, without changing the function it
// computes.
package lut

import (
	"fmt"
	"sort"

	"github.com/latticeforge/pnrcore/design"
	"github.com/latticeforge/pnrcore/ids"
	"github.com/latticeforge/pnrcore/property"
)

// NumLUTInputs is the input count this permuter is specialized for (a
// 4-input LUT, as found on every supported architecture's logic slice).
const NumLUTInputs = 4

// CriticalitySource is the external timing analyser C4 reads
// criticalities from. A net with criticality 0 behaves
// as if it were unconnected for ordering purposes.
type CriticalitySource interface {
	// Criticality returns the criticality in [0,1] of the net on
	// (cell, port), or 0 if the port is unconnected or unknown to the
	// analyser.
	Criticality(cell, port ids.Id) float64
}

// SliceSpec describes one LUT's input ports and truth-table parameter
// name on a cell, e.g. ports A0..D0 and parameter LUT0_INITVAL.
type SliceSpec struct {
	InputPorts [NumLUTInputs]ids.Id
	InitParam  ids.Id
}

// MuxParamName, given an input port's Id string, names the per-pin mux
// parameter the permutation records, e.g. "A0" -> "A0MUX".
func MuxParamName(table *ids.Table, port ids.Id) ids.Id {
	return table.Intern(table.StrOf(port) + "MUX")
}

// PermuteSlice applies the LUT-input permuter to a single LUT on cell, as
// specified by spec. It is a no-op (returns immediately) if
// cell.BelStrength is above StrengthStrong, i.e. the cell is locked
// locked.
func PermuteSlice(db *design.Database, table *ids.Table, crit CriticalitySource, cell *design.CellInfo, spec SliceSpec) error {
	if cell.BelStrength > design.StrengthStrong {
		return nil
	}

	type rankedInput struct {
		criticality float64
		origIndex   int
	}

	origNets := make([]*design.NetInfo, NumLUTInputs)
	ranked := make([]rankedInput, NumLUTInputs)

	for i, port := range spec.InputPorts {
		if !cell.HasPort(port) {
			if err := db.AddInput(cell, port); err != nil {
				return err
			}
		}
		pi := cell.Port(port)
		origNets[i] = pi.Net

		c := 0.0
		if pi.Net != nil {
			c = crit.Criticality(cell.Name, port)
		}
		ranked[i] = rankedInput{criticality: c, origIndex: i}
	}

	// Least critical first (the physically slowest pin gets the least
	// critical net); stable sort so ties keep their original pin order.
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].criticality < ranked[j].criticality
	})

	// perm[newPinIndex] = origPinIndex the new pin now carries.
	perm := make([]int, NumLUTInputs)
	for i, r := range ranked {
		perm[i] = r.origIndex
	}

	for i, port := range spec.InputPorts {
		if err := db.DisconnectPort(cell, port); err != nil {
			return err
		}
		muxParam := MuxParamName(table, port)
		if src := origNets[perm[i]]; src != nil {
			if err := db.ConnectPort(src, cell, port); err != nil {
				return err
			}
			db.SetParam(cell, muxParam, property.FromString(table.StrOf(port)))
		} else {
			db.SetParam(cell, muxParam, property.FromString("1"))
		}
	}

	rewriteTruthTable(db, cell, spec, perm)
	return nil
}

// rewriteTruthTable rewrites the LUT's truth table to match perm, by delegating to
// PermuteTruthTable, then writes the result back as the LUT's
// InitParam property.
func rewriteTruthTable(db *design.Database, cell *design.CellInfo, spec SliceSpec, perm []int) {
	oldInit := property.IntOrDefault(cell.Params, spec.InitParam, 0)
	newInit := PermuteTruthTable(oldInit, perm)
	db.SetParam(cell, spec.InitParam, property.FromInt(newInit, 1<<NumLUTInputs))
}

// PermuteTruthTable computes the new NumLUTInputs-input truth table for a
// LUT whose pins are reassigned according to perm: pin k now carries the
// net that used to be on pin perm[k]. For every output index i in
// [0,16), the new table's bit i equals the old table's bit at index
// Σ_k ((i>>k)&1) << perm[k]. This is a pure function of
// (oldInit, perm), independent of any cell/net state, which is what
// keeps permutation idempotent and function-preserving.
func PermuteTruthTable(oldInit int64, perm []int) int64 {
	var newInit int64
	for i := 0; i < 1<<NumLUTInputs; i++ {
		oldIndex := 0
		for k := 0; k < NumLUTInputs; k++ {
			if i&(1<<k) != 0 {
				oldIndex |= 1 << uint(perm[k])
			}
		}
		if oldInit&(1<<uint(oldIndex)) != 0 {
			newInit |= 1 << uint(i)
		}
	}
	return newInit
}

// IsLogicModeSlice reports whether cell is of the given slice cell type
// and has its MODE parameter set to "LOGIC" (or unset, which defaults to
// logic mode, mirroring the source system's str_or_default convention).
func IsLogicModeSlice(cell *design.CellInfo, sliceType ids.Id, modeParam ids.Id) bool {
	if cell.Type != sliceType {
		return false
	}
	return property.StrOrDefault(cell.Params, modeParam, "LOGIC") == "LOGIC"
}

// PermuteAll applies PermuteSlice to every LUT named in specs, for every
// cell in db matching sliceType and logic mode. This is the
// top-level permute-all-luts operation.
func PermuteAll(db *design.Database, table *ids.Table, crit CriticalitySource, sliceType, modeParam ids.Id, specs []SliceSpec) error {
	for _, cell := range db.Cells() {
		if !IsLogicModeSlice(cell, sliceType, modeParam) {
			continue
		}
		for _, spec := range specs {
			if err := PermuteSlice(db, table, crit, cell, spec); err != nil {
				return fmt.Errorf("permuting cell %q: %w", table.StrOf(cell.Name), err)
			}
		}
	}
	return nil
}
