package design

import (
	"github.com/latticeforge/pnrcore/devgraph"
	"github.com/latticeforge/pnrcore/ids"
	"github.com/latticeforge/pnrcore/property"
)

// belSlot is the binding state for one device bel.
type belSlot struct {
	cell     *CellInfo
	strength Strength
}

// wireSlot/pipSlot are the binding state for one device wire/pip. Unlike
// a net's own Wires map, these live on the Database because every bel,
// wire and pip is a device-wide resource shared across all nets.
type wireSlot struct {
	net      *NetInfo
	strength Strength
}

type pipSlot struct {
	net      *NetInfo
	strength Strength
}

// Database owns every CellInfo and NetInfo for the duration of a PnR run,
// together with the binding state of every bel/wire/pip and the region
// and cluster registries. It performs no internal locking: all
// mutation is expected to happen on a single executor.
type Database struct {
	cells map[ids.Id]*CellInfo
	nets  map[ids.Id]*NetInfo

	bels  map[devgraph.BelId]*belSlot
	wires map[devgraph.WireId]*wireSlot
	pips  map[devgraph.PipId]*pipSlot

	regions  map[ids.Id]*Region
	clusters map[ClusterId]*Cluster
}

// NewDatabase creates an empty design database.
func NewDatabase() *Database {
	return &Database{
		cells:    make(map[ids.Id]*CellInfo),
		nets:     make(map[ids.Id]*NetInfo),
		bels:     make(map[devgraph.BelId]*belSlot),
		wires:    make(map[devgraph.WireId]*wireSlot),
		pips:     make(map[devgraph.PipId]*pipSlot),
		regions:  make(map[ids.Id]*Region),
		clusters: make(map[ClusterId]*Cluster),
	}
}

// AddCell creates and registers a new cell. It fails if a cell with that
// name already exists.
func (d *Database) AddCell(name, typ, hierpath ids.Id) (*CellInfo, error) {
	if _, exists := d.cells[name]; exists {
		return nil, structuralf("AddCell", "cell %q already exists", name)
	}
	ci := newCellInfo(name, typ, hierpath)
	d.cells[name] = ci
	return ci, nil
}

// Cell looks up a cell by name.
func (d *Database) Cell(name ids.Id) *CellInfo { return d.cells[name] }

// Cells returns every cell in the database. Order is unspecified; callers
// that need determinism should sort by Name.
func (d *Database) Cells() []*CellInfo {
	out := make([]*CellInfo, 0, len(d.cells))
	for _, c := range d.cells {
		out = append(out, c)
	}
	return out
}

// AddNet creates and registers a new net. It fails if a net with that
// name already exists.
func (d *Database) AddNet(name, hierpath ids.Id) (*NetInfo, error) {
	if _, exists := d.nets[name]; exists {
		return nil, structuralf("AddNet", "net %q already exists", name)
	}
	ni := newNetInfo(name, hierpath)
	d.nets[name] = ni
	return ni, nil
}

// Net looks up a net by name.
func (d *Database) Net(name ids.Id) *NetInfo { return d.nets[name] }

// Nets returns every net in the database. Order is unspecified.
func (d *Database) Nets() []*NetInfo {
	out := make([]*NetInfo, 0, len(d.nets))
	for _, n := range d.nets {
		out = append(out, n)
	}
	return out
}

// AddPort adds a new, unconnected port to cell. It fails if the cell
// already has a port of that name.
func (d *Database) AddPort(cell *CellInfo, name ids.Id, dir devgraph.PortType) error {
	if cell.HasPort(name) {
		return structuralf("AddPort", "cell %q already has port %q", cell.Name, name)
	}
	cell.ports.add(&PortInfo{Name: name, Type: dir})
	return nil
}

// AddInput is a convenience wrapper around AddPort for input ports.
func (d *Database) AddInput(cell *CellInfo, name ids.Id) error {
	return d.AddPort(cell, name, devgraph.PortIn)
}

// AddOutput is a convenience wrapper around AddPort for output ports.
func (d *Database) AddOutput(cell *CellInfo, name ids.Id) error {
	return d.AddPort(cell, name, devgraph.PortOut)
}

// AddInout is a convenience wrapper around AddPort for inout ports.
func (d *Database) AddInout(cell *CellInfo, name ids.Id) error {
	return d.AddPort(cell, name, devgraph.PortInout)
}

// ConnectPort attaches cell's port to net, setting the driver link (if
// port is an output) or appending to the user list (otherwise). It fails
// if port does not exist, is already connected, or is an output and net
// already has a driver.
func (d *Database) ConnectPort(net *NetInfo, cell *CellInfo, port ids.Id) error {
	pi := cell.Port(port)
	if pi == nil {
		return structuralf("ConnectPort", "cell %q has no port %q", cell.Name, port)
	}
	if pi.Net != nil {
		return structuralf("ConnectPort", "cell %q port %q is already connected", cell.Name, port)
	}

	ref := PortRef{Cell: cell, Port: port}
	switch pi.Type {
	case devgraph.PortOut:
		if !net.Driver.IsNone() {
			return structuralf("ConnectPort", "net %q already has a driver", net.Name)
		}
		net.Driver = ref
	default: // PortIn, PortInout: both act as users
		net.Users = append(net.Users, ref)
	}

	pi.Net = net
	return nil
}

// DisconnectPort removes the net link on cell's port, symmetrically
// undoing whichever of Driver/Users held the back-reference. It is a
// no-op if the port is already unconnected.
func (d *Database) DisconnectPort(cell *CellInfo, port ids.Id) error {
	pi := cell.Port(port)
	if pi == nil {
		return structuralf("DisconnectPort", "cell %q has no port %q", cell.Name, port)
	}
	net := pi.Net
	if net == nil {
		return nil
	}

	if !net.Driver.IsNone() && net.Driver.Cell == cell && net.Driver.Port == port {
		net.Driver = PortRef{}
	} else {
		for i, u := range net.Users {
			if u.Cell == cell && u.Port == port {
				net.Users = append(net.Users[:i], net.Users[i+1:]...)
				break
			}
		}
	}
	pi.Net = nil
	return nil
}

// SetParam sets a parameter on cell.
func (d *Database) SetParam(cell *CellInfo, name ids.Id, value property.Property) {
	cell.Params[name] = value
}

// UnsetParam removes a parameter from cell.
func (d *Database) UnsetParam(cell *CellInfo, name ids.Id) {
	delete(cell.Params, name)
}

// SetAttr sets an attribute on cell.
func (d *Database) SetAttr(cell *CellInfo, name ids.Id, value property.Property) {
	cell.Attrs[name] = value
}

// UnsetAttr removes an attribute from cell.
func (d *Database) UnsetAttr(cell *CellInfo, name ids.Id) {
	delete(cell.Attrs, name)
}

// AddRegion registers and returns a new region.
func (d *Database) AddRegion(name ids.Id) *Region {
	r := NewRegion(name)
	d.regions[name] = r
	return r
}

// Region looks up a region by name.
func (d *Database) Region(name ids.Id) *Region { return d.regions[name] }
