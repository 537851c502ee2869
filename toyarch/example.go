package toyarch

import (
	"github.com/latticeforge/pnrcore/cluster"
	"github.com/latticeforge/pnrcore/devgraph"
	"github.com/latticeforge/pnrcore/ids"
)

// CarryChainExample is a small, fully wired two-site worked example: a
// two-node CARRY chain (site0's COUT leaves the site, crosses general
// routing, and re-enters site1's CIN) plus an FF satellite driven by
// site0's carry bel through a site-local pip on its O pin. It mirrors
// chainable_ports and gives the cluster packer and placement resolver a
// device graph to run against instead of a synthetic double.
type CarryChainExample struct {
	Device *Device
	Desc   cluster.Description

	CarryType, FFType ids.Id
	PCin, PCout, PO   ids.Id

	Carry0, Carry1, FF0 devgraph.BelId
}

// NewCarryChainExample builds the example against table, interning every
// name it needs.
func NewCarryChainExample(table *ids.Table) CarryChainExample {
	carryType := table.Intern("CARRY")
	ffType := table.Intern("FF")
	pCin := table.Intern("CIN")
	pCout := table.Intern("COUT")
	pO := table.Intern("O")
	pFfD := table.Intern("D")

	b := NewBuilder()

	carry0 := b.AddBel(carryType, devgraph.Loc{X: 0, Y: 0}, devgraph.BelCategoryLogic)
	carry1 := b.AddBel(carryType, devgraph.Loc{X: 0, Y: 1}, devgraph.BelCategoryLogic)
	ff0 := b.AddBel(ffType, devgraph.Loc{X: 0, Y: 0}, devgraph.BelCategoryLogic)

	wCarry0Cin := b.AddWire(0)
	wCarry0Cout := b.AddWire(0)
	wCarry1Cin := b.AddWire(1)
	wCarry1Cout := b.AddWire(1)
	wCarry0O := b.AddWire(0)
	wFf0D := b.AddWire(0)
	wGeneralMid := b.AddWire(-1)

	b.ConnectPin(carry0, pCin, devgraph.PortIn, wCarry0Cin)
	b.ConnectPin(carry0, pCout, devgraph.PortOut, wCarry0Cout)
	b.ConnectPin(carry0, pO, devgraph.PortOut, wCarry0O)
	b.ConnectPin(carry1, pCin, devgraph.PortIn, wCarry1Cin)
	b.ConnectPin(carry1, pCout, devgraph.PortOut, wCarry1Cout)
	b.ConnectPin(ff0, pFfD, devgraph.PortIn, wFf0D)

	// carry0.COUT leaves site0 onto general routing, then re-enters
	// site1 at carry1.CIN; both crossings are site ports.
	b.AddPip(wCarry0Cout, wGeneralMid, true, false)
	b.AddPip(wGeneralMid, wCarry1Cin, true, false)

	// carry0.O drives ff0.D without leaving site0.
	b.AddPip(wCarry0O, wFf0D, false, false)

	desc := cluster.Description{
		Name:            table.Intern("CARRYCHAIN"),
		RootCellTypes:   map[ids.Id]struct{}{carryType: {}},
		ChainSourcePort: pCout,
		ChainSinkPort:   pCin,
		SatelliteCellTypesByPort: map[ids.Id]map[ids.Id]struct{}{
			pO: {ffType: {}},
		},
		AvgXOffset: 0,
		AvgYOffset: 1,
	}

	return CarryChainExample{
		Device:    b.Build(),
		Desc:      desc,
		CarryType: carryType,
		FFType:    ffType,
		PCin:      pCin,
		PCout:     pCout,
		PO:        pO,
		Carry0:    carry0,
		Carry1:    carry1,
		FF0:       ff0,
	}
}

// Checker is a CellTypeChecker that accepts every cell type against the
// bel type it would actually sit on in the example device; nothing else
// is ever asked of it.
type Checker struct{ ex CarryChainExample }

// NewChecker returns ex's matching CellTypeChecker.
func NewChecker(ex CarryChainExample) Checker { return Checker{ex: ex} }

func (c Checker) IsValidBelForCellType(cellType ids.Id, bel devgraph.BelId) bool {
	switch bel {
	case c.ex.Carry0, c.ex.Carry1:
		return cellType == c.ex.CarryType
	case c.ex.FF0:
		return cellType == c.ex.FFType
	default:
		return false
	}
}
