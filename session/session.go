// Package session funnels binding and permutation requests into a
// single-threaded owner of the design database, the way every other
// mutator in this codebase already assumes the database is driven: one
// caller at a time, no internal locking. Session holds that state;
// Runner is the akita ticking wrapper an external placer/router loop
// drives it through.
package session

import (
	"fmt"

	"github.com/latticeforge/pnrcore/cluster"
	"github.com/latticeforge/pnrcore/design"
	"github.com/latticeforge/pnrcore/devgraph"
	"github.com/latticeforge/pnrcore/diag"
	"github.com/latticeforge/pnrcore/ids"
	"github.com/latticeforge/pnrcore/lut"
	"github.com/latticeforge/pnrcore/validate"
)

// Session owns one design, the device graph it is placed against, the
// cluster families recognized on it, and the location-legality rules an
// architecture opted into. None of its methods are safe to call
// concurrently; Runner is what makes that safe to rely on.
type Session struct {
	DB        *design.Database
	Graph     devgraph.Graph
	Table     *ids.Table
	Crit      lut.CriticalitySource
	Validator validate.Validator
	Clusters  []cluster.Description
}

// NewSession assembles a Session from its collaborators.
func NewSession(db *design.Database, graph devgraph.Graph, table *ids.Table, crit lut.CriticalitySource, v validate.Validator, clusters []cluster.Description) *Session {
	return &Session{DB: db, Graph: graph, Table: table, Crit: crit, Validator: v, Clusters: clusters}
}

// PackClusters runs cluster.Pack for every registered cluster family,
// stamping family index i onto every cluster it produces.
func (s *Session) PackClusters() error {
	for i, desc := range s.Clusters {
		if err := cluster.Pack(s.DB, desc, uint32(i)); err != nil {
			return err
		}
	}
	return nil
}

// Apply performs one queued request against the database and reports a
// structural Issue on failure, or nil on success. It never panics:
// design's own mutators return plain errors for every violated
// invariant, which Apply wraps rather than propagating raw.
func (s *Session) Apply(req *Request) *diag.Issue {
	switch req.Kind {
	case RequestBindBel:
		return diag.Wrap(s.DB.BindBel(req.Bel, req.Cell, req.Strength), req.Cell, nil, req.Bel)
	case RequestUnbindBel:
		return diag.Wrap(s.DB.UnbindBel(req.Bel), nil, nil, req.Bel)
	case RequestBindWire:
		return diag.Wrap(s.DB.BindWire(req.Wire, req.Net, req.Strength), nil, req.Net, devgraph.NoneBel)
	case RequestUnbindWire:
		return diag.Wrap(s.DB.UnbindWire(req.Wire), nil, nil, devgraph.NoneBel)
	case RequestBindPip:
		return diag.Wrap(s.DB.BindPip(s.Graph, req.Pip, req.Net, req.Strength), nil, req.Net, devgraph.NoneBel)
	case RequestUnbindPip:
		return diag.Wrap(s.DB.UnbindPip(s.Graph, req.Pip), nil, nil, devgraph.NoneBel)
	case RequestPermuteSlice:
		return diag.Wrap(lut.PermuteSlice(s.DB, s.Table, s.Crit, req.Cell, req.PermuteSpec), req.Cell, nil, devgraph.NoneBel)
	default:
		return diag.Wrap(fmt.Errorf("unknown request kind %d", req.Kind), nil, nil, devgraph.NoneBel)
	}
}
