package session

import (
	"github.com/sarchlab/akita/v4/sim"
)

// Runner is the ticking wrapper around a Session: an external
// placer/router loop sends it Requests on its Requests port and reads
// the matching Response back, one request handled per Tick. It is a
// demonstration of folding Session's calls into the engine's
// cooperative execution model, not a replacement for the search loop
// itself.
type Runner struct {
	*sim.TickingComponent

	session  *Session
	Requests sim.Port
}

// Tick retrieves at most one queued Request and applies it to the
// session, replying on the same port to whoever sent it.
func (r *Runner) Tick() (madeProgress bool) {
	item := r.Requests.PeekIncoming()
	if item == nil {
		return false
	}
	r.Requests.RetrieveIncoming()

	req, ok := item.(*Request)
	if !ok {
		return true
	}

	issue := r.session.Apply(req)

	resp := ResponseBuilder{}.
		WithSrc(r.Requests.AsRemote()).
		WithDst(req.Meta().Src).
		WithSendTime(r.Engine.CurrentTime()).
		WithIssue(issue).
		Build()

	r.Requests.Send(resp)
	return true
}

// RunnerBuilder builds a Runner, mirroring the fluent WithEngine/WithFreq
// component builders used throughout this codebase.
type RunnerBuilder struct {
	engine sim.Engine
	freq   sim.Freq
}

// NewRunnerBuilder starts a builder with no engine or frequency set.
func NewRunnerBuilder() RunnerBuilder {
	return RunnerBuilder{}
}

// WithEngine sets the engine driving the runner's ticks.
func (b RunnerBuilder) WithEngine(engine sim.Engine) RunnerBuilder {
	b.engine = engine
	return b
}

// WithFreq sets the runner's ticking frequency.
func (b RunnerBuilder) WithFreq(freq sim.Freq) RunnerBuilder {
	b.freq = freq
	return b
}

// Build creates a Runner over session, named name, with a single-slot
// inbound port named name+".Requests".
func (b RunnerBuilder) Build(name string, session *Session) *Runner {
	r := &Runner{session: session}
	r.TickingComponent = sim.NewTickingComponent(name, b.engine, b.freq, r)

	r.Requests = sim.NewLimitNumMsgPort(r, 1, name+".Requests")
	r.AddPort("Requests", r.Requests)

	return r
}
