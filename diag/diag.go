// Package diag carries structured diagnostics out of the core: the
// Issue values that wrap a structural error with the cell/net/bel it
// concerns, and a human-readable dump of database state for interactive
// debugging, independent of whatever progress reporting a placer keeps
// on its own.
package diag

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/latticeforge/pnrcore/design"
	"github.com/latticeforge/pnrcore/devgraph"
	"github.com/latticeforge/pnrcore/ids"
)

// Kind classifies an Issue the way the core classifies every failure it
// can report: a structural violation (a broken invariant, always fatal
// to the operation that raised it) or a legality rejection (a recoverable
// "no" that callers are expected to retry around).
type Kind int

const (
	KindStructural Kind = iota
	KindLegality
)

func (k Kind) String() string {
	if k == KindLegality {
		return "legality"
	}
	return "structural"
}

// Issue is a structured diagnostic attached to the cell/net/bel it
// concerns. It implements error so a StructuralError returned by the
// design package can be wrapped in one without callers losing the
// ability to log or compare errors uniformly.
type Issue struct {
	Kind    Kind
	Message string
	Cell    *design.CellInfo
	Net     *design.NetInfo
	Bel     devgraph.BelId

	err error
}

func (i *Issue) Error() string {
	return fmt.Sprintf("%s: %s", i.Kind, i.Message)
}

// Unwrap exposes the wrapped error, if any, to errors.Is/errors.As.
func (i *Issue) Unwrap() error { return i.err }

// Wrap turns err into a structural Issue concerning cell/net/bel (any of
// which may be left at its zero value when not applicable). It returns
// nil for a nil err.
func Wrap(err error, cell *design.CellInfo, net *design.NetInfo, bel devgraph.BelId) *Issue {
	if err == nil {
		return nil
	}
	return &Issue{
		Kind:    KindStructural,
		Message: err.Error(),
		Cell:    cell,
		Net:     net,
		Bel:     bel,
		err:     err,
	}
}

// Rejection builds a legality Issue: not wrapping an error (a legality
// rejection is a plain bool return, never an error, per the core's error
// handling design), just a note for a diagnostics log explaining why a
// candidate move was rejected.
func Rejection(message string, cell *design.CellInfo, bel devgraph.BelId) *Issue {
	return &Issue{Kind: KindLegality, Message: message, Cell: cell, Bel: bel}
}

// Dump renders a table.NewWriter summary of db's cells, nets and
// bindings, in the manner of a PrintState register/buffer dump: useful
// for dropping into a log or terminal while chasing a specific design,
// never parsed by anything else in this module.
func Dump(db *design.Database, names *ids.Table) string {
	var out string

	cells := db.Cells()
	nets := db.Nets()

	summary := table.NewWriter()
	summary.SetTitle("Database Summary")
	summary.AppendHeader(table.Row{"Cells", "Nets", "Bound Cells", "Clustered Cells"})

	boundCells, clusteredCells := 0, 0
	for _, c := range cells {
		if !c.Bel.IsNone() {
			boundCells++
		}
		if c.Cluster != design.NoCluster {
			clusteredCells++
		}
	}
	summary.AppendRow(table.Row{len(cells), len(nets), boundCells, clusteredCells})
	out += summary.Render() + "\n\n"

	cellTable := table.NewWriter()
	cellTable.SetTitle("Cells")
	cellTable.AppendHeader(table.Row{"Name", "Type", "Bel", "Cluster"})
	for _, c := range cells {
		bel := "-"
		if !c.Bel.IsNone() {
			bel = fmt.Sprintf("%d", c.Bel.Raw())
		}
		cluster := "-"
		if c.Cluster != design.NoCluster {
			cluster = names.StrOf(c.Cluster)
		}
		cellTable.AppendRow(table.Row{names.StrOf(c.Name), names.StrOf(c.Type), bel, cluster})
	}
	out += cellTable.Render() + "\n\n"

	netTable := table.NewWriter()
	netTable.SetTitle("Nets")
	netTable.AppendHeader(table.Row{"Name", "Driver", "Users"})
	for _, n := range nets {
		driver := "-"
		if !n.Driver.IsNone() {
			driver = fmt.Sprintf("%s.%s", names.StrOf(n.Driver.Cell.Name), names.StrOf(n.Driver.Port))
		}
		netTable.AppendRow(table.Row{names.StrOf(n.Name), driver, len(n.Users)})
	}
	out += netTable.Render()

	return out
}
