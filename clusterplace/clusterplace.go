// Package clusterplace resolves a packed cluster onto concrete device
// bels: given a candidate bel for the cluster's root cell, it walks the
// routing graph a short distance from each chain node to find the next
// node's bel and every satellite's bel, entirely independently of the
// general placer's cost function.
package clusterplace

import (
	"github.com/latticeforge/pnrcore/cluster"
	"github.com/latticeforge/pnrcore/design"
	"github.com/latticeforge/pnrcore/devgraph"
	"github.com/latticeforge/pnrcore/ids"
)

// maxExpansionDepth bounds how many ordinary (non-site-port) pips the
// search crosses while out on general routing before giving up; pips
// taken inside a site are not counted. Cluster interconnect is always
// short-range, so an
// unbounded search would only mean a hunt for a device wiring bug.
const maxExpansionDepth = 2

// direction is which way the routing graph is walked from a starting
// wire: uphill from an input pin, downhill from an output pin.
type direction int

const (
	uphill direction = iota
	downhill
)

// wireNodeState tracks whether the search is still inside the originating
// site, has left it onto general routing, or has reached a sink site.
type wireNodeState int

const (
	stateInSinkSite wireNodeState = iota
	stateInRouting
	stateInSourceSite
	stateOnlyInSourceSite
)

type wireNode struct {
	wire  devgraph.WireId
	state wireNodeState
	depth int
}

// CellTypeChecker reports whether a cell type may legally occupy a bel,
// e.g. a bel's underlying site/primitive matches the cell's technology.
type CellTypeChecker interface {
	IsValidBelForCellType(cellType ids.Id, bel devgraph.BelId) bool
}

// PinMapper resolves which bel pins implement a cell port, once a
// concrete bel has been chosen for the cell's type. The identity mapper
// below covers architectures where cell ports and bel pins share names.
type PinMapper interface {
	CellBelPins(cellType ids.Id, bel devgraph.BelId, cellPort ids.Id) []ids.Id
}

// IdentityPinMapper maps every cell port directly onto a bel pin of the
// same name.
type IdentityPinMapper struct{}

func (IdentityPinMapper) CellBelPins(_ ids.Id, _ devgraph.BelId, cellPort ids.Id) []ids.Id {
	return []ids.Id{cellPort}
}

// findClusterBels walks the routing graph from wire in direction,
// collecting every logic bel it reaches that is not synthetic.
// outOfSiteExpansion allows the walk to leave the originating site onto
// general routing and into a sink site; when false the search is
// confined to bels reachable without ever crossing a site boundary. The
// walk stops expanding past maxExpansionDepth ordinary-pip hops taken on
// general routing.
func findClusterBels(graph devgraph.Graph, wire devgraph.WireId, dir direction, outOfSiteExpansion bool) map[devgraph.BelId]struct{} {
	bels := map[devgraph.BelId]struct{}{}

	start := wireNode{wire: wire, state: stateInSourceSite, depth: 0}
	if !outOfSiteExpansion {
		start.state = stateOnlyInSourceSite
	}

	stack := []wireNode{start}
	for len(stack) > 0 {
		curr := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		var pips []devgraph.PipId
		if dir == downhill {
			pips = graph.PipsDownhill(curr.wire)
		} else {
			pips = graph.PipsUphill(curr.wire)
		}

		for _, pip := range pips {
			if graph.IsPipSynthetic(pip) {
				continue
			}
			if next, ok := expand(graph, pip, curr, dir); ok {
				stack = append(stack, next)
				if next.state == stateInSinkSite || next.state == stateOnlyInSourceSite {
					collectBels(graph, next.wire, curr.wire, dir, bels)
				}
			}
		}
	}
	return bels
}

// expand computes the next wire-node state after crossing pip from curr,
// or reports ok=false if the walk must not continue past it.
func expand(graph devgraph.Graph, pip devgraph.PipId, curr wireNode, dir direction) (wireNode, bool) {
	var wire devgraph.WireId
	if dir == uphill {
		wire = graph.PipSrcWire(pip)
	} else {
		wire = graph.PipDstWire(pip)
	}
	if wire.IsNone() {
		return wireNode{}, false
	}

	next := wireNode{wire: wire, depth: curr.depth}
	if next.depth >= maxExpansionDepth {
		return wireNode{}, false
	}

	if graph.IsSitePort(pip) {
		switch curr.state {
		case stateOnlyInSourceSite:
			return wireNode{}, false
		case stateInSourceSite:
			next.state = stateInRouting
		case stateInRouting:
			next.state = stateInSinkSite
		case stateInSinkSite:
			return wireNode{}, false
		default:
			return wireNode{}, false
		}
	} else {
		if curr.state == stateInRouting {
			next.depth++
		}
		next.state = curr.state
	}

	return next, true
}

// collectBels adds every logic bel attached to wire to bels, verifying
// (for an uphill walk) that the bel is actually the one reached by
// backward exploration via prevWire.
func collectBels(graph devgraph.Graph, wire, prevWire devgraph.WireId, dir direction, bels map[devgraph.BelId]struct{}) {
	for _, bp := range graph.WireBelPins(wire) {
		if _, already := bels[bp.Bel]; already {
			continue
		}
		if graph.BelCategory(bp.Bel) != devgraph.BelCategoryLogic {
			continue
		}

		if dir == uphill {
			for _, pin := range graph.BelPins(bp.Bel) {
				if graph.BelPinWire(bp.Bel, pin) == prevWire {
					bels[bp.Bel] = struct{}{}
					break
				}
			}
		} else {
			bels[bp.Bel] = struct{}{}
		}
	}
}

// Placement is one (cell, bel) assignment produced by GetClusterPlacement.
type Placement struct {
	Cell *design.CellInfo
	Bel  devgraph.BelId
}

// GetClusterRootCell returns the cluster's root cell.
func GetClusterRootCell(db *design.Database, clusterID design.ClusterId) *design.CellInfo {
	c := db.Cluster(clusterID)
	if c == nil {
		return nil
	}
	return c.Root
}

// GetClusterPlacement resolves every member of clusterID onto a concrete
// bel, given a candidate bel for the root, by walking the routing graph
// from each chain node to the next and from each node's registered ports
// to its satellites. It reports false if any member cannot be placed.
func GetClusterPlacement(graph devgraph.Graph, checker CellTypeChecker, mapper PinMapper, db *design.Database, desc cluster.Description, clusterID design.ClusterId, rootBel devgraph.BelId) ([]Placement, bool) {
	c := db.Cluster(clusterID)
	if c == nil {
		return nil, false
	}
	if !checker.IsValidBelForCellType(c.Root.Type, rootBel) {
		return nil, false
	}

	var placement []Placement
	var nextBel devgraph.BelId

	for _, node := range c.ClusterNodes {
		if node == c.Root {
			nextBel = rootBel
		} else {
			found, ok := findNextChainBel(graph, checker, desc, node.Type, nextBel)
			if !ok {
				return nil, false
			}
			nextBel = found
		}
		placement = append(placement, Placement{Cell: node, Bel: nextBel})

		for _, sat := range c.ClusterNodeCells[node.Name] {
			satBel, ok := findSatelliteBel(graph, checker, mapper, desc, node, nextBel, sat)
			if !ok {
				return nil, false
			}
			placement = append(placement, Placement{Cell: sat.Cell, Bel: satBel})
		}
	}
	return placement, true
}

// findNextChainBel locates the bel reached by following the chain's
// dedicated source-port wire downhill from bel, out of its originating
// site, that is valid for nodeType.
func findNextChainBel(graph devgraph.Graph, checker CellTypeChecker, desc cluster.Description, nodeType ids.Id, bel devgraph.BelId) (devgraph.BelId, bool) {
	wire := graph.BelPinWire(bel, desc.ChainSourcePort)
	if wire.IsNone() {
		return devgraph.NoneBel, false
	}
	for candidate := range findClusterBels(graph, wire, downhill, true) {
		if checker.IsValidBelForCellType(nodeType, candidate) {
			return candidate, true
		}
	}
	return devgraph.NoneBel, false
}

// findSatelliteBel locates the bel for a satellite cell claimed through
// node's port, by resolving the node bel's pin(s) for that port and
// walking the routing graph in the direction implied by the port type.
func findSatelliteBel(graph devgraph.Graph, checker CellTypeChecker, mapper PinMapper, desc cluster.Description, node *design.CellInfo, nodeBel devgraph.BelId, sat design.ClusterNodeCell) (devgraph.BelId, bool) {
	portInfo := node.Port(sat.Port)
	if portInfo == nil || portInfo.Type == devgraph.PortInout {
		return devgraph.NoneBel, false
	}

	dir := uphill
	if portInfo.Type == devgraph.PortOut {
		dir = downhill
	}

	for _, belPin := range mapper.CellBelPins(node.Type, nodeBel, sat.Port) {
		wire := graph.BelPinWire(nodeBel, belPin)
		if wire.IsNone() {
			continue
		}
		candidates := findClusterBels(graph, wire, dir, desc.OutOfSiteExpansion)
		for bel := range candidates {
			if checker.IsValidBelForCellType(sat.Cell.Type, bel) {
				return bel, true
			}
		}
	}
	return devgraph.NoneBel, false
}

// GetClusterOffset returns cell's tile displacement relative to its
// cluster's root. If both cell and root already hold a bel, the offset is
// read directly from graph via GetClusterOffsetFromLocs; otherwise it
// falls back to the chain family's average per-node offset multiplied by
// the cell's chain distance from the root, giving the placer a seed
// position before it resolves the exact bel.
func GetClusterOffset(graph devgraph.Graph, db *design.Database, desc cluster.Description, cell *design.CellInfo) devgraph.Loc {
	var offset devgraph.Loc
	if cell.Cluster == design.NoCluster {
		return offset
	}
	c := db.Cluster(cell.Cluster)
	if c == nil {
		return offset
	}
	root := c.Root

	if !cell.Bel.IsNone() && !root.Bel.IsNone() {
		return GetClusterOffsetFromLocs(graph.BelLocation(root.Bel), graph.BelLocation(cell.Bel))
	}

	if !desc.Chainable() {
		return offset
	}

	nodeName, ok := c.CellClusterNodeMap[cell.Name]
	if !ok {
		return offset
	}
	for i, node := range c.ClusterNodes {
		if node.Name == nodeName {
			offset.X = desc.AvgXOffset * int32(i)
			offset.Y = desc.AvgYOffset * int32(i)
			return offset
		}
	}
	return offset
}

// GetClusterOffsetFromLocs is GetClusterOffset's bel-aware counterpart:
// once both cell and root hold a bel, the offset is their exact location
// difference, Z included.
func GetClusterOffsetFromLocs(rootLoc, cellLoc devgraph.Loc) devgraph.Loc {
	return devgraph.Loc{
		X: cellLoc.X - rootLoc.X,
		Y: cellLoc.Y - rootLoc.Y,
		Z: cellLoc.Z - rootLoc.Z,
	}
}

// Bounds is the inclusive tile bounding box of a placed cluster.
type Bounds struct {
	MinX, MinY, MaxX, MaxY int32
}

// GetClusterBounds computes the tile bounding box spanned by placement,
// using graph to resolve each bel's location. It returns ok=false for an
// empty placement.
func GetClusterBounds(graph devgraph.Graph, placement []Placement) (Bounds, bool) {
	if len(placement) == 0 {
		return Bounds{}, false
	}
	first := graph.BelLocation(placement[0].Bel)
	b := Bounds{MinX: first.X, MaxX: first.X, MinY: first.Y, MaxY: first.Y}
	for _, p := range placement[1:] {
		loc := graph.BelLocation(p.Bel)
		if loc.X < b.MinX {
			b.MinX = loc.X
		}
		if loc.X > b.MaxX {
			b.MaxX = loc.X
		}
		if loc.Y < b.MinY {
			b.MinY = loc.Y
		}
		if loc.Y > b.MaxY {
			b.MaxY = loc.Y
		}
	}
	return b, true
}

// IsClusterStrict reports whether cell's cluster must be placed as a
// rigid unit (true) or may be partially placed (false). Every cluster
// family produced by the cluster packer is rigid.
func IsClusterStrict(cell *design.CellInfo) bool {
	return cell.Cluster != design.NoCluster
}
