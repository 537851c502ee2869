package design

import "github.com/latticeforge/pnrcore/ids"

// portTable is an insertion-ordered map[ids.Id]*PortInfo. Cells need
// stable port iteration order but also O(1) lookup by name, so a
// plain map is not enough on its own.
type portTable struct {
	order []ids.Id
	byId  map[ids.Id]*PortInfo
}

func newPortTable() *portTable {
	return &portTable{byId: make(map[ids.Id]*PortInfo)}
}

func (t *portTable) get(name ids.Id) *PortInfo {
	return t.byId[name]
}

func (t *portTable) add(p *PortInfo) {
	if _, exists := t.byId[p.Name]; !exists {
		t.order = append(t.order, p.Name)
	}
	t.byId[p.Name] = p
}

func (t *portTable) ordered() []*PortInfo {
	out := make([]*PortInfo, 0, len(t.order))
	for _, name := range t.order {
		out = append(out, t.byId[name])
	}
	return out
}
