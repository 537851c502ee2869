package design

import (
	"testing"

	"github.com/latticeforge/pnrcore/devgraph"
	"github.com/latticeforge/pnrcore/ids"
	"github.com/latticeforge/pnrcore/property"
)

// fakeGraph is the minimal devgraph.Graph needed to exercise BindPip's
// implicit destination-wire binding; IsSitePort and IsPipSynthetic report
// false, and every other method panics if called, so a mistaken code path
// shows up immediately in test failures.
type fakeGraph struct {
	pipDst map[devgraph.PipId]devgraph.WireId
}

func newFakeGraph() *fakeGraph { return &fakeGraph{pipDst: map[devgraph.PipId]devgraph.WireId{}} }

func (g *fakeGraph) link(pip devgraph.PipId, dst devgraph.WireId) { g.pipDst[pip] = dst }

func (g *fakeGraph) BelsByTile(x, y int32) []devgraph.BelId             { panic("unused") }
func (g *fakeGraph) BelLocation(b devgraph.BelId) devgraph.Loc          { panic("unused") }
func (g *fakeGraph) BelType(b devgraph.BelId) ids.Id                    { panic("unused") }
func (g *fakeGraph) BelCategory(b devgraph.BelId) devgraph.BelCategory  { panic("unused") }
func (g *fakeGraph) BelPins(b devgraph.BelId) []ids.Id                  { panic("unused") }
func (g *fakeGraph) BelPinWire(b devgraph.BelId, p ids.Id) devgraph.WireId {
	panic("unused")
}
func (g *fakeGraph) BelPinType(b devgraph.BelId, p ids.Id) devgraph.PortType {
	panic("unused")
}
func (g *fakeGraph) WireBelPins(w devgraph.WireId) []devgraph.BelPin { panic("unused") }
func (g *fakeGraph) WireSiteIndex(w devgraph.WireId) int             { panic("unused") }
func (g *fakeGraph) PipsUphill(w devgraph.WireId) []devgraph.PipId   { panic("unused") }
func (g *fakeGraph) PipsDownhill(w devgraph.WireId) []devgraph.PipId { panic("unused") }
func (g *fakeGraph) PipSrcWire(p devgraph.PipId) devgraph.WireId     { panic("unused") }
func (g *fakeGraph) PipDstWire(p devgraph.PipId) devgraph.WireId     { return g.pipDst[p] }
func (g *fakeGraph) IsSitePort(p devgraph.PipId) bool                { return false }
func (g *fakeGraph) IsPipSynthetic(p devgraph.PipId) bool            { return false }

// Binding a cell onto a bel, wiring a net through it, then unbinding
// and disconnecting again should leave no residue behind.
func TestBindingRoundTrip(t *testing.T) {
	table := ids.NewTable()
	nA := table.Intern("A")
	nC := table.Intern("c")
	nN := table.Intern("n")
	tLUT4 := table.Intern("LUT4")

	db := NewDatabase()
	c, err := db.AddCell(nC, tLUT4, ids.None)
	if err != nil {
		t.Fatal(err)
	}
	n, err := db.AddNet(nN, ids.None)
	if err != nil {
		t.Fatal(err)
	}

	if err := db.AddInput(c, nA); err != nil {
		t.Fatal(err)
	}
	if err := db.ConnectPort(n, c, nA); err != nil {
		t.Fatal(err)
	}

	b0 := devgraph.NewBelId(0)
	if err := db.BindBel(b0, c, StrengthStrong); err != nil {
		t.Fatal(err)
	}

	if c.Bel != b0 {
		t.Fatalf("c.Bel = %v, want %v", c.Bel, b0)
	}
	if db.BoundCell(b0) != c {
		t.Fatalf("BoundCell(b0) did not return c")
	}
	if len(n.Users) != 1 || n.Users[0].Cell != c || n.Users[0].Port != nA {
		t.Fatalf("n.Users = %+v, want a single (c, A) entry", n.Users)
	}

	if err := db.UnbindBel(b0); err != nil {
		t.Fatal(err)
	}
	if !c.Bel.IsNone() {
		t.Fatalf("c.Bel = %v after unbind, want none", c.Bel)
	}
	if !db.CheckBelAvail(b0) {
		t.Fatalf("bel not available after unbind")
	}

	if err := db.DisconnectPort(c, nA); err != nil {
		t.Fatal(err)
	}
	if len(n.Users) != 0 {
		t.Fatalf("n.Users = %+v after disconnect, want empty", n.Users)
	}
	if c.Port(nA).Net != nil {
		t.Fatalf("port A still linked to a net after disconnect")
	}
}

// A driver port's back-reference to its net is exact, and a net can
// never acquire a second driver.
func TestConnectPortDriverDuality(t *testing.T) {
	table := ids.NewTable()
	nO, nC, nN := table.Intern("O"), table.Intern("c"), table.Intern("n")

	db := NewDatabase()
	c, _ := db.AddCell(nC, table.Intern("LUT4"), ids.None)
	n, _ := db.AddNet(nN, ids.None)
	_ = db.AddOutput(c, nO)

	if err := db.ConnectPort(n, c, nO); err != nil {
		t.Fatal(err)
	}
	if n.Driver.Cell != c || n.Driver.Port != nO {
		t.Fatalf("n.Driver = %+v, want (c, O)", n.Driver)
	}

	// A second driver on an already-driven net is a structural error.
	c2, _ := db.AddCell(table.Intern("c2"), table.Intern("LUT4"), ids.None)
	_ = db.AddOutput(c2, nO)
	if err := db.ConnectPort(n, c2, nO); err == nil {
		t.Fatalf("ConnectPort allowed a second driver on net %q", n.Name)
	}
}

// A net's wire tree grows through BindWire/BindPip and shrinks cleanly
// through UnbindPip, without disturbing unrelated wires.
func TestWireTreeClosure(t *testing.T) {
	table := ids.NewTable()
	db := NewDatabase()
	n, _ := db.AddNet(table.Intern("n"), ids.None)

	graph := newFakeGraph()
	root := devgraph.NewWireId(0)
	mid := devgraph.NewWireId(1)
	pip := devgraph.NewPipId(0)
	graph.link(pip, mid)

	if err := db.BindWire(root, n, StrengthWeak); err != nil {
		t.Fatal(err)
	}
	if err := db.BindPip(graph, pip, n, StrengthWeak); err != nil {
		t.Fatal(err)
	}

	wantWires := map[devgraph.WireId]bool{root: true, mid: true}
	if len(n.Wires) != len(wantWires) {
		t.Fatalf("n.Wires = %+v, want keys %v", n.Wires, wantWires)
	}
	for w := range wantWires {
		if _, ok := n.Wires[w]; !ok {
			t.Fatalf("n.Wires missing %v", w)
		}
		if db.BoundNet(w) != n {
			t.Fatalf("BoundNet(%v) != n", w)
		}
	}
	if n.Wires[mid].Pip != pip {
		t.Fatalf("n.Wires[mid].Pip = %v, want %v", n.Wires[mid].Pip, pip)
	}

	if err := db.UnbindPip(graph, pip); err != nil {
		t.Fatal(err)
	}
	if _, ok := n.Wires[mid]; ok {
		t.Fatalf("n.Wires still contains mid after UnbindPip")
	}
	if !db.CheckWireAvail(mid) {
		t.Fatalf("mid wire not available after UnbindPip")
	}
	if _, ok := n.Wires[root]; !ok {
		t.Fatalf("UnbindPip should not have touched the unrelated root wire")
	}
}

func TestBindBelRejectsStrongerConflict(t *testing.T) {
	table := ids.NewTable()
	db := NewDatabase()
	c1, _ := db.AddCell(table.Intern("c1"), table.Intern("LUT4"), ids.None)
	c2, _ := db.AddCell(table.Intern("c2"), table.Intern("LUT4"), ids.None)
	bel := devgraph.NewBelId(0)

	if err := db.BindBel(bel, c1, StrengthStrong); err != nil {
		t.Fatal(err)
	}
	if err := db.BindBel(bel, c2, StrengthWeak); err == nil {
		t.Fatalf("BindBel allowed a weak binding to displace a strong one")
	}
	if err := db.BindBel(bel, c2, StrengthUser); err != nil {
		t.Fatalf("BindBel should allow a user-strength override: %v", err)
	}
	if db.BoundCell(bel) != c2 {
		t.Fatalf("BoundCell(bel) = %v, want c2", db.BoundCell(bel))
	}
	if !c1.Bel.IsNone() {
		t.Fatalf("displaced cell c1 still thinks it holds a bel")
	}
}

func TestRegisterAndClearCluster(t *testing.T) {
	table := ids.NewTable()
	db := NewDatabase()
	root, _ := db.AddCell(table.Intern("root"), table.Intern("CARRY"), ids.None)
	tail, _ := db.AddCell(table.Intern("tail"), table.Intern("CARRY"), ids.None)

	cluster := NewCluster(root, 0)
	cluster.ClusterNodes = []*CellInfo{root, tail}
	cluster.CellClusterNodeMap[root.Name] = root.Name
	cluster.CellClusterNodeMap[tail.Name] = tail.Name

	db.RegisterCluster(cluster)
	if root.Cluster != root.Name || tail.Cluster != root.Name {
		t.Fatalf("RegisterCluster did not stamp ClusterId on all members")
	}
	if db.Cluster(root.Name) != cluster {
		t.Fatalf("Cluster lookup mismatch")
	}

	db.ClearCluster(root.Name)
	if root.Cluster != NoCluster || tail.Cluster != NoCluster {
		t.Fatalf("ClearCluster left a member with a stale ClusterId")
	}
	if db.Cluster(root.Name) != nil {
		t.Fatalf("ClearCluster did not remove the registry entry")
	}
}

func TestTestRegion(t *testing.T) {
	table := ids.NewTable()
	db := NewDatabase()
	c, _ := db.AddCell(table.Intern("c"), table.Intern("LUT4"), ids.None)

	if !c.TestRegion(devgraph.NewBelId(5)) {
		t.Fatalf("unconstrained cell should admit any bel")
	}

	region := db.AddRegion(table.Intern("r"))
	region.ConstrBels = true
	allowed := devgraph.NewBelId(1)
	region.Bels[allowed] = struct{}{}
	c.Region = region

	if !c.TestRegion(allowed) {
		t.Fatalf("region should admit the bel it lists")
	}
	if c.TestRegion(devgraph.NewBelId(2)) {
		t.Fatalf("region should reject a bel it does not list")
	}
}

func TestPropertyHelpersOnCell(t *testing.T) {
	table := ids.NewTable()
	db := NewDatabase()
	c, _ := db.AddCell(table.Intern("c"), table.Intern("LUT4"), ids.None)

	mode := table.Intern("MODE")
	db.SetParam(c, mode, property.FromString("LOGIC"))
	if got := property.StrOrDefault(c.Params, mode, ""); got != "LOGIC" {
		t.Fatalf("SetParam/StrOrDefault round trip failed: got %q", got)
	}
	db.UnsetParam(c, mode)
	if _, ok := c.Params[mode]; ok {
		t.Fatalf("UnsetParam did not remove MODE")
	}
}
