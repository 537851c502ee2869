package design

import "github.com/latticeforge/pnrcore/devgraph"

// canOverride reports whether a binding held by a different owner at
// `held` strength may be replaced by a new request at `requested`
// strength: only a strictly stronger request displaces it; anything else
// is a structural conflict the caller must resolve by unbinding first.
// Rebinding a bel/wire/pip to the owner that already holds it never
// reaches canOverride (the bind calls compare owners first) and always
// succeeds. This is the resolved override rule, recorded in DESIGN.md.
func canOverride(held, requested Strength) bool {
	return requested > held
}

// BindBel binds cell to bel at the given strength. It fails if bel is
// already bound to a different cell at an equal or greater strength, or
// if cell is already bound to a different bel.
func (d *Database) BindBel(bel devgraph.BelId, cell *CellInfo, strength Strength) error {
	if !cell.Bel.IsNone() && cell.Bel != bel {
		return structuralf("BindBel", "cell %q is already bound to a different bel", cell.Name)
	}

	slot := d.bels[bel]
	if slot != nil && slot.cell != nil && slot.cell != cell {
		if !canOverride(slot.strength, strength) {
			return structuralf("BindBel", "bel is already bound at strength %d", slot.strength)
		}
		slot.cell.Bel = devgraph.NoneBel
		slot.cell.BelStrength = StrengthNone
	}
	if slot == nil {
		slot = &belSlot{}
		d.bels[bel] = slot
	}
	slot.cell = cell
	slot.strength = strength
	cell.Bel = bel
	cell.BelStrength = strength
	return nil
}

// UnbindBel releases whatever cell is bound to bel. It is a no-op if bel
// is not bound.
func (d *Database) UnbindBel(bel devgraph.BelId) error {
	slot := d.bels[bel]
	if slot == nil || slot.cell == nil {
		return nil
	}
	slot.cell.Bel = devgraph.NoneBel
	slot.cell.BelStrength = StrengthNone
	slot.cell = nil
	slot.strength = StrengthNone
	return nil
}

// BoundCell returns the cell bound to bel, or nil.
func (d *Database) BoundCell(bel devgraph.BelId) *CellInfo {
	if slot := d.bels[bel]; slot != nil {
		return slot.cell
	}
	return nil
}

// CheckBelAvail reports whether bel is unbound.
func (d *Database) CheckBelAvail(bel devgraph.BelId) bool {
	slot := d.bels[bel]
	return slot == nil || slot.cell == nil
}

// BindWire binds net to own wire at the given strength, recording the
// entry in net.Wires with no uphill pip (i.e. wire becomes a tree root).
func (d *Database) BindWire(wire devgraph.WireId, net *NetInfo, strength Strength) error {
	slot := d.wires[wire]
	if slot != nil && slot.net != nil && slot.net != net {
		if !canOverride(slot.strength, strength) {
			return structuralf("BindWire", "wire is already bound at strength %d", slot.strength)
		}
		delete(slot.net.Wires, wire)
	}
	if slot == nil {
		slot = &wireSlot{}
		d.wires[wire] = slot
	}
	slot.net = net
	slot.strength = strength
	net.Wires[wire] = WireBinding{Pip: devgraph.NonePip, Strength: strength}
	return nil
}

// UnbindWire releases the net bound to wire, removing it from that net's
// wire tree. It is a no-op if wire is not bound.
func (d *Database) UnbindWire(wire devgraph.WireId) error {
	slot := d.wires[wire]
	if slot == nil || slot.net == nil {
		return nil
	}
	delete(slot.net.Wires, wire)
	slot.net = nil
	slot.strength = StrengthNone
	return nil
}

// BoundNet returns the net bound to wire, or nil.
func (d *Database) BoundNet(wire devgraph.WireId) *NetInfo {
	if slot := d.wires[wire]; slot != nil {
		return slot.net
	}
	return nil
}

// CheckWireAvail reports whether wire is unbound.
func (d *Database) CheckWireAvail(wire devgraph.WireId) bool {
	slot := d.wires[wire]
	return slot == nil || slot.net == nil
}

// BindPip binds net to pip and, implicitly, to pip's destination wire
// net.Wires[dst] is recorded with pip as its uphill driver.
func (d *Database) BindPip(graph devgraph.Graph, pip devgraph.PipId, net *NetInfo, strength Strength) error {
	pslot := d.pips[pip]
	if pslot != nil && pslot.net != nil && pslot.net != net {
		if !canOverride(pslot.strength, strength) {
			return structuralf("BindPip", "pip is already bound at strength %d", pslot.strength)
		}
		if err := d.unbindPipFrom(pslot, pip, graph); err != nil {
			return err
		}
	}

	dst := graph.PipDstWire(pip)
	wslot := d.wires[dst]
	if wslot != nil && wslot.net != nil && wslot.net != net {
		if !canOverride(wslot.strength, strength) {
			return structuralf("BindPip", "destination wire is already bound at strength %d", wslot.strength)
		}
		delete(wslot.net.Wires, dst)
	}
	if wslot == nil {
		wslot = &wireSlot{}
		d.wires[dst] = wslot
	}
	wslot.net = net
	wslot.strength = strength

	if pslot == nil {
		pslot = &pipSlot{}
		d.pips[pip] = pslot
	}
	pslot.net = net
	pslot.strength = strength

	net.Wires[dst] = WireBinding{Pip: pip, Strength: strength}
	return nil
}

func (d *Database) unbindPipFrom(slot *pipSlot, pip devgraph.PipId, graph devgraph.Graph) error {
	net := slot.net
	if net == nil {
		return nil
	}
	dst := graph.PipDstWire(pip)
	delete(net.Wires, dst)
	if wslot := d.wires[dst]; wslot != nil && wslot.net == net {
		wslot.net = nil
		wslot.strength = StrengthNone
	}
	slot.net = nil
	slot.strength = StrengthNone
	return nil
}

// UnbindPip releases the net bound to pip, together with the implicit
// binding of its destination wire. It is a no-op if pip is not bound.
func (d *Database) UnbindPip(graph devgraph.Graph, pip devgraph.PipId) error {
	slot := d.pips[pip]
	if slot == nil || slot.net == nil {
		return nil
	}
	return d.unbindPipFrom(slot, pip, graph)
}

// BoundPipNet returns the net bound to pip, or nil.
func (d *Database) BoundPipNet(pip devgraph.PipId) *NetInfo {
	if slot := d.pips[pip]; slot != nil {
		return slot.net
	}
	return nil
}

// CheckPipAvail reports whether pip is unbound.
func (d *Database) CheckPipAvail(pip devgraph.PipId) bool {
	slot := d.pips[pip]
	return slot == nil || slot.net == nil
}
