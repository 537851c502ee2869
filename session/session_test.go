package session

import (
	"testing"

	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/akita/v4/sim/directconnection"

	"github.com/latticeforge/pnrcore/design"
	"github.com/latticeforge/pnrcore/devgraph"
	"github.com/latticeforge/pnrcore/diag"
	"github.com/latticeforge/pnrcore/ids"
	"github.com/latticeforge/pnrcore/validate"
)

func newTestSession(t *testing.T) (*Session, *ids.Table, *design.Database, *design.CellInfo, devgraph.BelId) {
	t.Helper()
	table := ids.NewTable()
	db := design.NewDatabase()
	cell, err := db.AddCell(table.Intern("c0"), table.Intern("LUT"), ids.None)
	if err != nil {
		t.Fatal(err)
	}
	bel := devgraph.NewBelId(0)
	s := NewSession(db, nil, table, nil, validate.Validator{}, nil)
	return s, table, db, cell, bel
}

func TestApplyBindAndUnbindBel(t *testing.T) {
	s, _, db, cell, bel := newTestSession(t)

	bindReq := RequestBuilder{}.WithKind(RequestBindBel).WithBel(bel).WithCell(cell).WithStrength(design.StrengthStrong).Build()
	if issue := s.Apply(bindReq); issue != nil {
		t.Fatalf("bind failed: %v", issue)
	}
	if db.BoundCell(bel) != cell {
		t.Fatalf("BoundCell = %v, want %v", db.BoundCell(bel), cell)
	}

	unbindReq := RequestBuilder{}.WithKind(RequestUnbindBel).WithBel(bel).Build()
	if issue := s.Apply(unbindReq); issue != nil {
		t.Fatalf("unbind failed: %v", issue)
	}
	if db.BoundCell(bel) != nil {
		t.Fatalf("bel still bound after unbind")
	}
}

func TestApplyReportsStructuralIssueOnDoubleBind(t *testing.T) {
	s, table, db, cell, bel := newTestSession(t)
	other, err := db.AddCell(table.Intern("c1"), table.Intern("LUT"), ids.None)
	if err != nil {
		t.Fatal(err)
	}

	first := RequestBuilder{}.WithKind(RequestBindBel).WithBel(bel).WithCell(cell).WithStrength(design.StrengthUser).Build()
	if issue := s.Apply(first); issue != nil {
		t.Fatalf("first bind failed: %v", issue)
	}

	second := RequestBuilder{}.WithKind(RequestBindBel).WithBel(bel).WithCell(other).WithStrength(design.StrengthUser).Build()
	issue := s.Apply(second)
	if issue == nil {
		t.Fatalf("expected a structural issue rebinding a user-strength bel")
	}
	if issue.Kind != diag.KindStructural {
		t.Fatalf("Kind = %v, want KindStructural", issue.Kind)
	}
	if issue.Bel != bel {
		t.Fatalf("issue.Bel = %v, want %v", issue.Bel, bel)
	}
}

func TestApplyRejectsUnknownRequestKind(t *testing.T) {
	s, _, _, _, _ := newTestSession(t)
	req := RequestBuilder{}.WithKind(RequestKind(99)).Build()
	if issue := s.Apply(req); issue == nil {
		t.Fatalf("expected an issue for an unrecognized request kind")
	}
}

// TestRunnerAppliesOneRequestPerTick drives a Runner through a real
// akita engine: a requester port sends a bind request across a direct
// connection, the engine runs until quiescent, and the requester reads
// back the Runner's response.
func TestRunnerAppliesOneRequestPerTick(t *testing.T) {
	session, _, db, cell, bel := newTestSession(t)

	engine := sim.NewSerialEngine()
	runner := NewRunnerBuilder().WithEngine(engine).WithFreq(1 * sim.GHz).Build("Runner", session)

	requester := sim.NewLimitNumMsgPort(runner, 1, "Requester")

	conn := directconnection.MakeBuilder().WithEngine(engine).Build("TestConn")
	conn.PlugIn(requester)
	conn.PlugIn(runner.Requests)

	req := RequestBuilder{}.
		WithSrc(requester.AsRemote()).
		WithDst(runner.Requests.AsRemote()).
		WithSendTime(engine.CurrentTime()).
		WithKind(RequestBindBel).
		WithBel(bel).
		WithCell(cell).
		WithStrength(design.StrengthStrong).
		Build()

	if err := requester.Send(req); err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	runner.TickNow(engine.CurrentTime())
	engine.Run()

	if db.BoundCell(bel) != cell {
		t.Fatalf("Runner did not apply the bind request: BoundCell = %v", db.BoundCell(bel))
	}

	item := requester.PeekIncoming()
	if item == nil {
		t.Fatalf("requester received no response")
	}
	resp, ok := item.(*Response)
	if !ok {
		t.Fatalf("response has unexpected type %T", item)
	}
	if resp.Issue != nil {
		t.Fatalf("response carried an unexpected issue: %v", resp.Issue)
	}
}
