package session

import (
	"github.com/sarchlab/akita/v4/sim"

	"github.com/latticeforge/pnrcore/design"
	"github.com/latticeforge/pnrcore/devgraph"
	"github.com/latticeforge/pnrcore/diag"
	"github.com/latticeforge/pnrcore/lut"
)

// RequestKind selects which Database mutator a Request drives.
type RequestKind int

const (
	RequestBindBel RequestKind = iota
	RequestUnbindBel
	RequestBindWire
	RequestUnbindWire
	RequestBindPip
	RequestUnbindPip
	RequestPermuteSlice
)

// Request is one queued binding or permutation call. Only the fields
// relevant to Kind are read; the rest are left zero.
type Request struct {
	sim.MsgMeta

	Kind RequestKind

	Bel  devgraph.BelId
	Wire devgraph.WireId
	Pip  devgraph.PipId

	Cell *design.CellInfo
	Net  *design.NetInfo

	Strength design.Strength

	PermuteSpec lut.SliceSpec
}

func (r *Request) Meta() *sim.MsgMeta { return &r.MsgMeta }

// Clone copies r, assigning the clone a fresh message ID.
func (r *Request) Clone() sim.Msg {
	clone := *r
	clone.ID = sim.GetIDGenerator().Generate()
	return &clone
}

// RequestBuilder assembles a Request one field at a time, in the
// codebase's usual fluent WithX message-builder style.
type RequestBuilder struct {
	req Request
}

func (b RequestBuilder) WithSrc(src sim.RemotePort) RequestBuilder {
	b.req.Src = src
	return b
}

func (b RequestBuilder) WithDst(dst sim.RemotePort) RequestBuilder {
	b.req.Dst = dst
	return b
}

func (b RequestBuilder) WithSendTime(t sim.VTimeInSec) RequestBuilder {
	b.req.SendTime = t
	return b
}

func (b RequestBuilder) WithKind(kind RequestKind) RequestBuilder {
	b.req.Kind = kind
	return b
}

func (b RequestBuilder) WithBel(bel devgraph.BelId) RequestBuilder {
	b.req.Bel = bel
	return b
}

func (b RequestBuilder) WithWire(wire devgraph.WireId) RequestBuilder {
	b.req.Wire = wire
	return b
}

func (b RequestBuilder) WithPip(pip devgraph.PipId) RequestBuilder {
	b.req.Pip = pip
	return b
}

func (b RequestBuilder) WithCell(cell *design.CellInfo) RequestBuilder {
	b.req.Cell = cell
	return b
}

func (b RequestBuilder) WithNet(net *design.NetInfo) RequestBuilder {
	b.req.Net = net
	return b
}

func (b RequestBuilder) WithStrength(strength design.Strength) RequestBuilder {
	b.req.Strength = strength
	return b
}

func (b RequestBuilder) WithPermuteSpec(spec lut.SliceSpec) RequestBuilder {
	b.req.PermuteSpec = spec
	return b
}

func (b RequestBuilder) Build() *Request {
	req := b.req
	req.ID = sim.GetIDGenerator().Generate()
	return &req
}

// Response reports the outcome of one Request: Issue is nil on success.
type Response struct {
	sim.MsgMeta

	Issue *diag.Issue
}

func (r *Response) Meta() *sim.MsgMeta { return &r.MsgMeta }

func (r *Response) Clone() sim.Msg {
	clone := *r
	clone.ID = sim.GetIDGenerator().Generate()
	return &clone
}

// ResponseBuilder assembles a Response.
type ResponseBuilder struct {
	resp Response
}

func (b ResponseBuilder) WithSrc(src sim.RemotePort) ResponseBuilder {
	b.resp.Src = src
	return b
}

func (b ResponseBuilder) WithDst(dst sim.RemotePort) ResponseBuilder {
	b.resp.Dst = dst
	return b
}

func (b ResponseBuilder) WithSendTime(t sim.VTimeInSec) ResponseBuilder {
	b.resp.SendTime = t
	return b
}

func (b ResponseBuilder) WithIssue(issue *diag.Issue) ResponseBuilder {
	b.resp.Issue = issue
	return b
}

func (b ResponseBuilder) Build() *Response {
	resp := b.resp
	resp.ID = sim.GetIDGenerator().Generate()
	return &resp
}
