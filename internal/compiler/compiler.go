package compiler

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/specialistvlad/plangen/internal/assembler"
	"github.com/specialistvlad/plangen/internal/ctxlog"
	"github.com/specialistvlad/plangen/internal/graph"
	"github.com/specialistvlad/plangen/internal/partialgraph"
	"github.com/specialistvlad/plangen/internal/plan"
	"github.com/specialistvlad/plangen/internal/planerr"
	"github.com/specialistvlad/plangen/internal/propagator"
	"github.com/specialistvlad/plangen/internal/validator"
)

// Mode names a compilation mode.
type Mode string

const (
	ModeStrict  Mode = "strict"
	ModeRelaxed Mode = "relaxed"
)

const outcomeOK = "ok"

// Compiler compiles raw plans against a fixed set of operator types. It holds
// no per-request state and is safe for concurrent use.
type Compiler struct {
	decoder partialgraph.Decoder
	metrics *Metrics
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithMetrics records every compilation in m.
func WithMetrics(m *Metrics) Option {
	return func(c *Compiler) { c.metrics = m }
}

// New returns a compiler that decodes operators with dec, usually a
// *registry.Registry.
func New(dec partialgraph.Decoder, opts ...Option) *Compiler {
	c := &Compiler{decoder: dec}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CompileStrict validates raw and wires it into a pipeline. Any problem fails
// the whole compilation. Problems of the same stage are reported together.
func (c *Compiler) CompileStrict(ctx context.Context, raw *plan.Plan) (*assembler.Pipeline, error) {
	requestID := uuid.NewString()
	ctx = withRequest(ctx, requestID, ModeStrict)
	start := time.Now()

	p, err := c.compileStrict(ctx, raw)
	c.finish(ctx, ModeStrict, err, time.Since(start))
	if err != nil {
		return nil, err
	}
	p.RequestID = requestID
	return p, nil
}

func (c *Compiler) compileStrict(ctx context.Context, raw *plan.Plan) (*assembler.Pipeline, error) {
	logger := ctxlog.FromContext(ctx)
	if raw == nil {
		return nil, &planerr.MalformedRequestError{Msg: "no plan given"}
	}

	g, err := c.buildGraph(raw)
	if err != nil {
		return nil, err
	}
	logger.Debug("Graph built.", "operators", g.Len(), "links", len(g.Links()))

	if err := validator.Validate(g); err != nil {
		return nil, err
	}
	logger.Debug("Graph validated.")

	inst, err := graph.Instantiate(g)
	if err != nil {
		return nil, err
	}

	schemas, err := propagator.Propagate(g, inst)
	if err != nil {
		return nil, err
	}
	schemas.Failures().Each(func(id string, err error) {
		logger.Warn("Operator rejected its input schema.", "operator", id, "error", err)
	})

	p, err := assembler.Assemble(g, inst)
	if err != nil {
		return nil, err
	}
	p.Schemas = schemas
	logger.Info("Pipeline assembled.", "root", p.SinkID, "connectors", len(p.Connectors))
	return p, nil
}

// buildGraph decodes every operator first so that all invalid predicates are
// reported at once. Graph construction errors stop at the first one.
func (c *Compiler) buildGraph(raw *plan.Plan) (*graph.Graph, error) {
	var errs []error
	g := graph.New()
	for _, op := range raw.Operators {
		pred, err := c.decoder.Decode(op)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if len(errs) > 0 {
			continue
		}
		if err := g.AddNode(pred); err != nil {
			return nil, err
		}
	}
	if err := planerr.Join(errs...); err != nil {
		return nil, err
	}

	for _, l := range raw.Links {
		if err := g.AddLink(l.Origin, l.Destination); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// CompileRelaxed infers the attributes available at each operator's input.
// Operators that cannot be decoded are skipped. Links into them still carry
// their origin's output, so the editor can offer hints for an operator the
// user is still filling in. Only a nil plan is an error.
func (c *Compiler) CompileRelaxed(ctx context.Context, raw *plan.Plan) (*HintMap, error) {
	requestID := uuid.NewString()
	ctx = withRequest(ctx, requestID, ModeRelaxed)
	start := time.Now()

	if raw == nil {
		err := &planerr.MalformedRequestError{Msg: "no plan given"}
		c.finish(ctx, ModeRelaxed, err, time.Since(start))
		return nil, err
	}

	hints := c.compileRelaxed(ctx, raw)
	hints.RequestID = requestID
	c.finish(ctx, ModeRelaxed, nil, time.Since(start))
	return hints, nil
}

func (c *Compiler) compileRelaxed(ctx context.Context, raw *plan.Plan) *HintMap {
	logger := ctxlog.FromContext(ctx)

	filtered := partialgraph.Filter(ctx, c.decoder, raw)
	c.metrics.discarded(filtered.Discarded.Len())
	g := filtered.Graph

	inst := graph.InstantiateBestEffort(g)
	for _, id := range g.Nodes() {
		if err := inst.Failure(id); err != nil {
			logger.Debug("Operator could not be built.", "operator", id, "error", err)
		}
	}

	schemas, err := propagator.Propagate(g, inst)
	if err != nil {
		logger.Debug("Plan has a cycle, propagating what is reachable.", "error", err)
		schemas = propagator.PropagateUnchecked(g, inst)
	}
	schemas.Failures().Each(func(id string, err error) {
		logger.Debug("Operator rejected its input schema.", "operator", id, "error", err)
	})

	hints := newHintMap("")
	for _, id := range g.Nodes() {
		if g.Kind(id).Source {
			continue
		}
		inputs, ok := schemas.InputSchemas(id)
		if !ok {
			continue
		}
		for _, s := range inputs {
			hints.add(id, s.Names()...)
		}
	}
	for _, l := range filtered.Dangling {
		out, ok := schemas.OutputSchema(l.Origin)
		if !ok {
			continue
		}
		hints.add(l.Destination, out.Names()...)
	}

	logger.Info("Hints computed.", "operators", hints.Len(), "discarded", filtered.Discarded.Len())
	return hints
}

func withRequest(ctx context.Context, requestID string, mode Mode) context.Context {
	logger := ctxlog.FromContext(ctx).With("request_id", requestID, "mode", string(mode))
	return ctxlog.WithLogger(ctx, logger)
}

func (c *Compiler) finish(ctx context.Context, mode Mode, err error, elapsed time.Duration) {
	outcome := outcomeOK
	if err != nil {
		outcome = planerr.Describe(err)[0].Kind
		ctxlog.FromContext(ctx).Info("Compilation failed.", "outcome", outcome, "error", err)
	}
	c.metrics.observe(mode, outcome, elapsed)
}
