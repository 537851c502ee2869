package design

import "github.com/latticeforge/pnrcore/ids"

// ClusterNodeCell is a satellite cell attached to a cluster node, along
// with the node-local port it was claimed through.
type ClusterNodeCell struct {
	Port ids.Id
	Cell *CellInfo
}

// Cluster is a macro of cells wired through dedicated chain interconnect
// that the placer must relocate atomically. It is produced
// once, by the cluster packer, and never mutated afterwards.
type Cluster struct {
	Root  *CellInfo
	Index uint32

	// ClusterNodes lists the chain nodes in order from root to tail.
	ClusterNodes []*CellInfo

	// ClusterNodeCells maps a node cell's name to the satellites
	// attached to it, in discovery order.
	ClusterNodeCells map[ids.Id][]ClusterNodeCell

	// CellClusterNodeMap maps every member cell's name (node or
	// satellite) to the name of the chain node it belongs to.
	CellClusterNodeMap map[ids.Id]ids.Id
}

// NewCluster creates an empty cluster rooted at root.
func NewCluster(root *CellInfo, index uint32) *Cluster {
	return &Cluster{
		Root:               root,
		Index:              index,
		ClusterNodeCells:   make(map[ids.Id][]ClusterNodeCell),
		CellClusterNodeMap: make(map[ids.Id]ids.Id),
	}
}

// RegisterCluster adds cluster to the database's cluster registry under
// cluster.Root.Name, and stamps that ClusterId onto every member cell.
func (d *Database) RegisterCluster(cluster *Cluster) {
	id := cluster.Root.Name
	d.clusters[id] = cluster
	cluster.Root.Cluster = id
	for _, node := range cluster.ClusterNodes {
		node.Cluster = id
		for _, sat := range cluster.ClusterNodeCells[node.Name] {
			sat.Cell.Cluster = id
		}
	}
}

// Cluster looks up a cluster by id.
func (d *Database) Cluster(id ClusterId) *Cluster { return d.clusters[id] }

// ClearCluster removes a cluster from the registry and clears the
// ClusterId on every member cell. cluster.Pack does not call it: a
// single-cell, non-chained "cluster" is never registered, and Pack clears
// that root's ClusterId itself.
func (d *Database) ClearCluster(id ClusterId) {
	cluster, ok := d.clusters[id]
	if !ok {
		return
	}
	cluster.Root.Cluster = NoCluster
	for _, node := range cluster.ClusterNodes {
		node.Cluster = NoCluster
		for _, sat := range cluster.ClusterNodeCells[node.Name] {
			sat.Cell.Cluster = NoCluster
		}
	}
	delete(d.clusters, id)
}
