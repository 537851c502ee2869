// Package design implements the design database: the owning store of
// cells and nets, their binding state against device-graph resources, and
// the region/cluster registries, together with the operations that keep
// the binding duality, port/net duality, and wire-tree closure true after
// every call. Binding a cell does not check its region (validate reports a
// cell bound outside its region) and does not touch cluster membership.
package design

import (
	"github.com/latticeforge/pnrcore/devgraph"
	"github.com/latticeforge/pnrcore/ids"
	"github.com/latticeforge/pnrcore/property"
)

// Strength is the "how pinned" level of a binding. The placer may only
// move bindings of strength <= Strong; Locked and User bindings are never
// touched by automated placement.
type Strength int

const (
	StrengthNone Strength = iota
	StrengthWeak
	StrengthStrong
	StrengthPlacer
	StrengthLocked
	StrengthUser
)

// ClusterId names a cluster. It equals the Id of the cluster's root cell
// Roots are assigned a fresh ClusterId equal to their own cell name.
type ClusterId = ids.Id

// NoCluster is the sentinel "cell is not part of any cluster" value.
const NoCluster = ids.None

// PortRef names a (cell, port) pair, optionally carrying a delay budget
// for the arc it terminates.
type PortRef struct {
	Cell   *CellInfo
	Port   ids.Id
	Budget property.Delay
}

// IsNone reports whether r refers to no cell, i.e. an absent driver.
func (r PortRef) IsNone() bool { return r.Cell == nil }

// PortInfo is one named, directed port on a cell, and the net (if any)
// attached to it.
type PortInfo struct {
	Name ids.Id
	Type devgraph.PortType
	Net  *NetInfo
}

// ClockConstraint records a target clock period for a net acting as a
// clock source.
type ClockConstraint struct {
	High   property.DelayPair
	Low    property.DelayPair
	Period property.DelayPair
}

// WireBinding is the uphill pip (or none, if the wire is a tree root) and
// strength recorded against one wire owned by a net.
type WireBinding struct {
	Pip      devgraph.PipId
	Strength Strength
}

// CellInfo is a technology-mapped logic cell. It is always accessed
// through a *CellInfo obtained from a Database; the pointer is stable for
// the cell's lifetime, which is how cross-references (ports, clusters,
// regions) stay valid without a separate handle type.
type CellInfo struct {
	Name, Type, HierPath ids.Id

	ports     *portTable
	Params    map[ids.Id]property.Property
	Attrs     map[ids.Id]property.Property

	Bel         devgraph.BelId
	BelStrength Strength

	Cluster ClusterId

	Region *Region

	// ArchData is an architecture-specific sidecar (e.g. ECP5's
	// sliceInfo), populated by that architecture's assign-arch-info pass
	// after frontend loading. The core never reads it; only validators
	// for a specific architecture type-assert it.
	ArchData any
}

func newCellInfo(name, typ, hierpath ids.Id) *CellInfo {
	return &CellInfo{
		Name:     name,
		Type:     typ,
		HierPath: hierpath,
		ports:    newPortTable(),
		Params:   make(map[ids.Id]property.Property),
		Attrs:    make(map[ids.Id]property.Property),
		Bel:      devgraph.NoneBel,
		Cluster:  NoCluster,
	}
}

// Ports returns the cell's ports in insertion order (the ordering
// guarantee).
func (c *CellInfo) Ports() []*PortInfo { return c.ports.ordered() }

// Port returns the named port, or nil if the cell has no such port.
func (c *CellInfo) Port(name ids.Id) *PortInfo { return c.ports.get(name) }

// HasPort reports whether the cell has a port of that name.
func (c *CellInfo) HasPort(name ids.Id) bool { return c.ports.get(name) != nil }

// NetInfo is a single electrical net: at most one driver, an ordered
// sequence of users, and the routing tree (by destination wire) it owns.
type NetInfo struct {
	Name, HierPath ids.Id

	Driver PortRef
	Users  []PortRef

	Attrs map[ids.Id]property.Property

	// Wires maps each wire this net owns to the uphill pip that drives
	// it (NonePip if the wire is a tree root) and the binding strength.
	// The key set is exactly this net's owned wires.
	Wires map[devgraph.WireId]WireBinding

	ClkConstr *ClockConstraint

	Region *Region
}

func newNetInfo(name, hierpath ids.Id) *NetInfo {
	return &NetInfo{
		Name:     name,
		HierPath: hierpath,
		Attrs:    make(map[ids.Id]property.Property),
		Wires:    make(map[devgraph.WireId]WireBinding),
	}
}

// Region is a named subset of device resources a cell or net may be
// constrained to.
type Region struct {
	Name ids.Id

	ConstrBels  bool
	ConstrWires bool
	ConstrPips  bool

	Bels    map[devgraph.BelId]struct{}
	Wires   map[devgraph.WireId]struct{}
	PipLocs map[devgraph.Loc]struct{}
}

// NewRegion creates an empty, non-constraining region named name.
func NewRegion(name ids.Id) *Region {
	return &Region{
		Name:    name,
		Bels:    make(map[devgraph.BelId]struct{}),
		Wires:   make(map[devgraph.WireId]struct{}),
		PipLocs: make(map[devgraph.Loc]struct{}),
	}
}

// TestRegion reports whether bel is admitted by the cell's region
// constraint, or true if the cell has no constraining region.
func (c *CellInfo) TestRegion(bel devgraph.BelId) bool {
	if c.Region == nil || !c.Region.ConstrBels {
		return true
	}
	_, ok := c.Region.Bels[bel]
	return ok
}
