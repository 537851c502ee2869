// Package cluster packs chains of cells linked through dedicated,
// non-general-routing interconnect (e.g. carry chains, cascade busses)
// into design.Cluster macros the placer must move as a single unit.
package cluster

import (
	"github.com/latticeforge/pnrcore/design"
	"github.com/latticeforge/pnrcore/devgraph"
	"github.com/latticeforge/pnrcore/ids"
)

// Description is the architecture-supplied recipe for one cluster family,
// e.g. "carry chains" or "DSP cascade macros".
type Description struct {
	Name ids.Id

	// RootCellTypes are the cell types a chain node is built from. A cell
	// of one of these types that is not already the sink of another
	// node's chain connection starts a new cluster.
	RootCellTypes map[ids.Id]struct{}

	// ChainSourcePort/ChainSinkPort are the dedicated driver/receiver
	// ports that thread one chain node to the next (e.g. COUT -> CIN).
	// Leave both as ids.None for a cluster family with no chaining, where
	// every matching cell is its own single-node cluster together with its
	// satellites; a matching cell that claims no satellite is left
	// unclustered.
	ChainSourcePort, ChainSinkPort ids.Id

	// SatelliteCellTypesByPort maps a chain node's port name to the set
	// of cell types allowed to attach through it as a satellite (e.g. the
	// LUT feeding a carry cell's S input, or the flip-flop driven by its
	// O output).
	SatelliteCellTypesByPort map[ids.Id]map[ids.Id]struct{}

	// AvgXOffset/AvgYOffset are the typical tile displacement between one
	// chain node and the next, used by the placement resolver to seed a
	// starting guess before it is corrected against the actual routing
	// graph.
	AvgXOffset, AvgYOffset int32

	// OutOfSiteExpansion allows the placement resolver's routing-graph
	// search to leave a chain node's originating site when hunting for a
	// satellite's bel. Leave false for site-local satellites (the common
	// case); set true for an architecture whose cluster interconnect
	// spans multiple sites.
	OutOfSiteExpansion bool
}

// Chainable reports whether desc describes a chained cluster family (one
// node threads to the next through dedicated interconnect) as opposed to
// a family of single-node macros.
func (d Description) Chainable() bool {
	return d.ChainSourcePort != ids.None && d.ChainSinkPort != ids.None
}

// Pack finds every cluster of desc's family in db and registers it. index
// is stamped onto every produced cluster and is otherwise opaque to Pack;
// callers distinguish cluster families at placement time by index or by
// inspecting a member cell's type.
func Pack(db *design.Database, desc Description, index uint32) error {
	roots, err := findRoots(db, desc)
	if err != nil {
		return err
	}

	for _, root := range roots {
		c := design.NewCluster(root, index)
		count := growChain(db, desc, root, c)

		if count == 1 && !desc.Chainable() {
			root.Cluster = design.NoCluster
			continue
		}
		db.RegisterCluster(c)
	}
	return nil
}

// findRoots marks and returns every cell that starts a new cluster of
// desc's family: either family has no chaining (every matching cell is a
// root), or the cell's chain-sink port is unconnected or not driven by
// the chain-source port of another cell of the same type.
func findRoots(db *design.Database, desc Description) ([]*design.CellInfo, error) {
	var roots []*design.CellInfo

	for _, cell := range db.Cells() {
		if cell.Cluster != design.NoCluster {
			continue
		}
		if _, ok := desc.RootCellTypes[cell.Type]; !ok {
			continue
		}

		if !desc.Chainable() {
			cell.Cluster = cell.Name
			roots = append(roots, cell)
			continue
		}

		sink := cell.Port(desc.ChainSinkPort)
		if sink == nil || sink.Net == nil {
			cell.Cluster = cell.Name
			roots = append(roots, cell)
			continue
		}

		driver := sink.Net.Driver
		if driver.IsNone() || driver.Cell.Type != cell.Type || driver.Port != desc.ChainSourcePort {
			cell.Cluster = cell.Name
			roots = append(roots, cell)

			// The dedicated sink port of a chain starter is usually tied
			// to a fixed GND/VCC net by the frontend; that net is not
			// reachable through the dedicated interconnect, so drop it.
			if err := db.DisconnectPort(cell, desc.ChainSinkPort); err != nil {
				return nil, err
			}
		}
	}
	return roots, nil
}

// growChain walks the chain starting at root, claiming satellites at each
// node and threading to the next node through the chain-source net, and
// returns the total number of cells (nodes plus satellites) claimed.
func growChain(db *design.Database, desc Description, root *design.CellInfo, c *design.Cluster) int {
	count := 0
	node := root

	for {
		count++
		satellites, claimedAtNode := claimSatellites(desc, node, root.Name, c)
		count += claimedAtNode

		c.CellClusterNodeMap[node.Name] = node.Name
		c.ClusterNodes = append(c.ClusterNodes, node)
		c.ClusterNodeCells[node.Name] = satellites

		if !desc.Chainable() {
			return count
		}

		next := nextChainNode(desc, node, root.Name)
		if next == nil {
			return count
		}
		node = next
	}
}

// claimSatellites claims every satellite cell reachable from node's
// registered ports, resolving same-type-sibling conflicts via
// compatibleCells, and returns them alongside how many were claimed.
func claimSatellites(desc Description, node *design.CellInfo, clusterID ids.Id, c *design.Cluster) ([]design.ClusterNodeCell, int) {
	var satellites []design.ClusterNodeCell
	seenByType := map[ids.Id]*design.CellInfo{}
	excludeNets := map[ids.Id]struct{}{}
	claimed := 0

	for _, port := range node.Ports() {
		allowedTypes, ok := desc.SatelliteCellTypesByPort[port.Name]
		if !ok {
			continue
		}

		switch port.Type {
		case devgraph.PortOut:
			if port.Net == nil {
				continue
			}
			excludeNets[port.Net.Name] = struct{}{}
			if len(port.Net.Users) != 1 {
				continue
			}
			user := port.Net.Users[0].Cell
			if user == nil {
				continue
			}
			if _, ok := allowedTypes[user.Type]; !ok {
				continue
			}
			if existing, seen := seenByType[user.Type]; seen && !compatibleCells(existing, user, excludeNets) {
				continue
			}
			seenByType[user.Type] = user

			user.Cluster = clusterID
			c.CellClusterNodeMap[user.Name] = node.Name
			satellites = append(satellites, design.ClusterNodeCell{Port: port.Name, Cell: user})
			claimed++

		case devgraph.PortIn:
			if port.Net == nil || len(port.Net.Users) != 1 {
				continue
			}
			driver := port.Net.Driver.Cell
			if driver == nil {
				continue
			}
			if _, ok := allowedTypes[driver.Type]; !ok {
				continue
			}

			driver.Cluster = clusterID
			c.CellClusterNodeMap[driver.Name] = node.Name
			satellites = append(satellites, design.ClusterNodeCell{Port: port.Name, Cell: driver})
			claimed++
		}
	}
	return satellites, claimed
}

// compatibleCells reports whether two same-type candidate satellites agree
// on every input net outside excludeNets, e.g. two flip-flops sharing a
// carry node must also share their clock/reset/enable nets to belong to
// the same cluster.
func compatibleCells(existing, candidate *design.CellInfo, excludeNets map[ids.Id]struct{}) bool {
	if existing.Type != candidate.Type {
		return false
	}
	for _, np := range candidate.Ports() {
		if np.Type != devgraph.PortIn {
			continue
		}
		if np.Net != nil {
			if _, excluded := excludeNets[np.Net.Name]; excluded {
				continue
			}
		}
		op := existing.Port(np.Name)
		if op == nil {
			continue
		}
		if np.Net != op.Net {
			return false
		}
	}
	return true
}

// nextChainNode follows node's chain-source net to the next node of the
// same root cell type, claiming it for clusterID, or returns nil if the
// chain ends here.
func nextChainNode(desc Description, node *design.CellInfo, clusterID ids.Id) *design.CellInfo {
	source := node.Port(desc.ChainSourcePort)
	if source == nil || source.Net == nil {
		return nil
	}
	for _, u := range source.Net.Users {
		if u.Cell == nil {
			continue
		}
		if _, ok := desc.RootCellTypes[u.Cell.Type]; ok {
			u.Cell.Cluster = clusterID
			return u.Cell
		}
	}
	return nil
}
