// Package devgraph declares the read-only device graph view: the
// interface every architecture backend implements over its bels, wires
// and pips, and the opaque handle types the rest of the core is built on.
//
// Real backends load this data from a relocatable, mmap-friendly device
// file and hand out borrowed slices; devgraph itself is backend
// agnostic and never allocates on the caller's behalf beyond what an
// interface implementation chooses to do.
package devgraph

import "github.com/latticeforge/pnrcore/ids"

// index is the common representation backing BelId/WireId/PipId: a flat
// architecture-assigned index. Real architectures are free to pack a tile
// location and intra-tile index into this same int32 (as ECP5-class
// backends do) or use it as a routing-node id (as interchange-class
// backends do); the core only relies on equality, hashing and a total
// order, never on the bit layout.
type index int32

// noneIndex is the sentinel "unbound/invalid" value shared by all three
// handle types.
const noneIndex index = -1

// BelId identifies a placement site (a "basic element of logic").
type BelId struct{ idx index }

// WireId identifies a routing graph node.
type WireId struct{ idx index }

// PipId identifies a programmable interconnect point between two wires.
type PipId struct{ idx index }

// NoneBel is the sentinel "no bel" value.
var NoneBel = BelId{idx: noneIndex}

// NoneWire is the sentinel "no wire" value.
var NoneWire = WireId{idx: noneIndex}

// NonePip is the sentinel "no pip" value.
var NonePip = PipId{idx: noneIndex}

// NewBelId wraps a raw architecture index as a BelId. Architecture
// backends use this to construct handles; core code only compares and
// forwards them.
func NewBelId(raw int32) BelId { return BelId{idx: index(raw)} }

// NewWireId wraps a raw architecture index as a WireId.
func NewWireId(raw int32) WireId { return WireId{idx: index(raw)} }

// NewPipId wraps a raw architecture index as a PipId.
func NewPipId(raw int32) PipId { return PipId{idx: index(raw)} }

// Raw returns the underlying architecture index.
func (b BelId) Raw() int32 { return int32(b.idx) }

// Raw returns the underlying architecture index.
func (w WireId) Raw() int32 { return int32(w.idx) }

// Raw returns the underlying architecture index.
func (p PipId) Raw() int32 { return int32(p.idx) }

// IsNone reports whether b is the sentinel "unbound" value.
func (b BelId) IsNone() bool { return b.idx == noneIndex }

// IsNone reports whether w is the sentinel "unbound" value.
func (w WireId) IsNone() bool { return w.idx == noneIndex }

// IsNone reports whether p is the sentinel "unbound" value.
func (p PipId) IsNone() bool { return p.idx == noneIndex }

// Less gives BelId a total order, for deterministic iteration when a
// caller sorts a slice of bels (e.g. for reproducible diagnostics).
func (b BelId) Less(o BelId) bool { return b.idx < o.idx }

// Less gives WireId a total order.
func (w WireId) Less(o WireId) bool { return w.idx < o.idx }

// Less gives PipId a total order.
func (p PipId) Less(o PipId) bool { return p.idx < o.idx }

// Loc is an integer tile coordinate; Z sub-indexes bels within a tile.
type Loc struct {
	X, Y, Z int32
}

// PortType is the direction of a bel pin or cell port.
type PortType int

const (
	PortIn PortType = iota
	PortOut
	PortInout
)

// BelPin names a (bel, pin) pair, as returned by WireBelPins.
type BelPin struct {
	Bel BelId
	Pin ids.Id
}

// BelCategory classifies a bel for cluster-routing purposes: only
// logic bels, not routing-only or synthetic bels, terminate a cluster
// traversal.
type BelCategory int

const (
	BelCategoryLogic BelCategory = iota
	BelCategoryRouting
	BelCategorySynthetic
)

// Graph is the read-only device graph API the core requires from any
// architecture backend. All methods must be side-effect free and
// safe to call concurrently with each other (the device graph never
// changes during a PnR run).
type Graph interface {
	// BelsByTile returns every bel located at tile (x, y).
	BelsByTile(x, y int32) []BelId

	// BelLocation returns the tile coordinate of b.
	BelLocation(b BelId) Loc
	// BelType returns the architecture type name of b (e.g. "SLICE").
	BelType(b BelId) ids.Id
	// BelCategory classifies b for cluster traversal purposes.
	BelCategory(b BelId) BelCategory
	// BelPins returns the pin names of b, in architecture-defined order.
	BelPins(b BelId) []ids.Id
	// BelPinWire returns the wire attached to pin on b, or NoneWire.
	BelPinWire(b BelId, pin ids.Id) WireId
	// BelPinType returns the direction of pin on b.
	BelPinType(b BelId, pin ids.Id) PortType

	// WireBelPins returns every (bel, pin) attached to w.
	WireBelPins(w WireId) []BelPin
	// WireSiteIndex returns the site index of w, or -1 for inter-site
	// (general routing) wires.
	WireSiteIndex(w WireId) int

	// PipsUphill returns the pips that drive w.
	PipsUphill(w WireId) []PipId
	// PipsDownhill returns the pips driven by w.
	PipsDownhill(w WireId) []PipId
	// PipSrcWire returns the source wire of p.
	PipSrcWire(p PipId) WireId
	// PipDstWire returns the destination wire of p.
	PipDstWire(p PipId) WireId

	// IsSitePort reports whether p crosses a site boundary.
	IsSitePort(p PipId) bool
	// IsPipSynthetic reports whether p is a synthetic (non-routable,
	// bookkeeping-only) pip that traversals must skip.
	IsPipSynthetic(p PipId) bool
}
