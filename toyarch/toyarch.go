// Package toyarch is a small, deterministic, in-memory implementation of
// devgraph.Graph over an explicit tile grid. It exists to give the rest of
// this module a worked example of wiring a real backend against the core,
// which toyarch's own end-to-end test runs the packer and placement
// resolver against. The tests of the other packages use their own small
// hand-written graph doubles instead.
package toyarch

import (
	"github.com/latticeforge/pnrcore/devgraph"
	"github.com/latticeforge/pnrcore/ids"
)

type belData struct {
	typ      ids.Id
	loc      devgraph.Loc
	category devgraph.BelCategory
	pins     []ids.Id
	pinWire  map[ids.Id]devgraph.WireId
	pinType  map[ids.Id]devgraph.PortType
}

type wireData struct {
	siteIndex int
	belPins   []devgraph.BelPin
	uphill    []devgraph.PipId
	downhill  []devgraph.PipId
}

type pipData struct {
	src, dst  devgraph.WireId
	sitePort  bool
	synthetic bool
}

// Device is a fully materialized toy device graph. Construct one with
// Builder; Device itself is read-only and implements devgraph.Graph.
type Device struct {
	bels      []belData
	wires     []wireData
	pips      []pipData
	tileIndex map[[2]int32][]devgraph.BelId
}

func (d *Device) BelsByTile(x, y int32) []devgraph.BelId {
	return d.tileIndex[[2]int32{x, y}]
}

func (d *Device) BelLocation(b devgraph.BelId) devgraph.Loc { return d.bels[b.Raw()].loc }
func (d *Device) BelType(b devgraph.BelId) ids.Id           { return d.bels[b.Raw()].typ }
func (d *Device) BelCategory(b devgraph.BelId) devgraph.BelCategory {
	return d.bels[b.Raw()].category
}
func (d *Device) BelPins(b devgraph.BelId) []ids.Id { return d.bels[b.Raw()].pins }

func (d *Device) BelPinWire(b devgraph.BelId, pin ids.Id) devgraph.WireId {
	if w, ok := d.bels[b.Raw()].pinWire[pin]; ok {
		return w
	}
	return devgraph.NoneWire
}

func (d *Device) BelPinType(b devgraph.BelId, pin ids.Id) devgraph.PortType {
	return d.bels[b.Raw()].pinType[pin]
}

func (d *Device) WireBelPins(w devgraph.WireId) []devgraph.BelPin { return d.wires[w.Raw()].belPins }
func (d *Device) WireSiteIndex(w devgraph.WireId) int             { return d.wires[w.Raw()].siteIndex }

func (d *Device) PipsUphill(w devgraph.WireId) []devgraph.PipId   { return d.wires[w.Raw()].uphill }
func (d *Device) PipsDownhill(w devgraph.WireId) []devgraph.PipId { return d.wires[w.Raw()].downhill }
func (d *Device) PipSrcWire(p devgraph.PipId) devgraph.WireId     { return d.pips[p.Raw()].src }
func (d *Device) PipDstWire(p devgraph.PipId) devgraph.WireId     { return d.pips[p.Raw()].dst }

func (d *Device) IsSitePort(p devgraph.PipId) bool     { return d.pips[p.Raw()].sitePort }
func (d *Device) IsPipSynthetic(p devgraph.PipId) bool { return d.pips[p.Raw()].synthetic }

// Builder accumulates bels, wires and pips, assigning each a dense index as
// it is added, and produces an immutable Device.
type Builder struct {
	d *Device
}

// NewBuilder starts an empty device.
func NewBuilder() *Builder {
	return &Builder{d: &Device{tileIndex: make(map[[2]int32][]devgraph.BelId)}}
}

// AddBel declares a new bel of the given type and location, returning its
// handle. category controls whether cluster traversal may terminate on it
// (see devgraph.BelCategory).
func (b *Builder) AddBel(typ ids.Id, loc devgraph.Loc, category devgraph.BelCategory) devgraph.BelId {
	bel := devgraph.NewBelId(int32(len(b.d.bels)))
	b.d.bels = append(b.d.bels, belData{
		typ:      typ,
		loc:      loc,
		category: category,
		pinWire:  make(map[ids.Id]devgraph.WireId),
		pinType:  make(map[ids.Id]devgraph.PortType),
	})
	key := [2]int32{loc.X, loc.Y}
	b.d.tileIndex[key] = append(b.d.tileIndex[key], bel)
	return bel
}

// AddWire declares a new wire. siteIndex is the wire's site, or -1 for
// inter-site general routing.
func (b *Builder) AddWire(siteIndex int) devgraph.WireId {
	wire := devgraph.NewWireId(int32(len(b.d.wires)))
	b.d.wires = append(b.d.wires, wireData{siteIndex: siteIndex})
	return wire
}

// ConnectPin attaches pin on bel to wire, in the given direction, updating
// both the bel's and the wire's side of the link.
func (b *Builder) ConnectPin(bel devgraph.BelId, pin ids.Id, dir devgraph.PortType, wire devgraph.WireId) {
	bd := &b.d.bels[bel.Raw()]
	if _, exists := bd.pinWire[pin]; !exists {
		bd.pins = append(bd.pins, pin)
	}
	bd.pinWire[pin] = wire
	bd.pinType[pin] = dir

	wd := &b.d.wires[wire.Raw()]
	wd.belPins = append(wd.belPins, devgraph.BelPin{Bel: bel, Pin: pin})
}

// AddPip declares a new pip from src to dst, returning its handle. sitePort
// marks a pip that crosses a site boundary (the routing search in
// clusterplace treats these specially); synthetic marks a bookkeeping-only
// pip that traversals must skip.
func (b *Builder) AddPip(src, dst devgraph.WireId, sitePort, synthetic bool) devgraph.PipId {
	pip := devgraph.NewPipId(int32(len(b.d.pips)))
	b.d.pips = append(b.d.pips, pipData{src: src, dst: dst, sitePort: sitePort, synthetic: synthetic})
	b.d.wires[src.Raw()].downhill = append(b.d.wires[src.Raw()].downhill, pip)
	b.d.wires[dst.Raw()].uphill = append(b.d.wires[dst.Raw()].uphill, pip)
	return pip
}

// Build finalizes the device. The Builder must not be used afterward.
func (b *Builder) Build() *Device {
	return b.d
}
