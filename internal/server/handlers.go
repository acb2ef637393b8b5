package server

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/specialistvlad/plangen/internal/assembler"
	"github.com/specialistvlad/plangen/internal/compiler"
	"github.com/specialistvlad/plangen/internal/ctxlog"
	"github.com/specialistvlad/plangen/internal/plan"
	"github.com/specialistvlad/plangen/internal/planerr"
)

// Event names shared by the server and its clients.
const (
	EventAutocomplete       = "autocomplete"
	EventAutocompleteResult = "autocomplete:result"
	EventAutocompleteError  = "autocomplete:error"
	EventCompile            = "compile"
	EventCompileResult      = "compile:result"
)

// AutocompleteResult answers an autocomplete request.
type AutocompleteResult struct {
	RequestID string            `json:"requestID"`
	Hints     *compiler.HintMap `json:"hints"`
}

// CompileResult answers a compile request. Problems is empty exactly when OK
// is true.
type CompileResult struct {
	RequestID  string              `json:"requestID,omitempty"`
	OK         bool                `json:"ok"`
	Root       string              `json:"root,omitempty"`
	Operators  []string            `json:"operators,omitempty"`
	Connectors []string            `json:"connectors,omitempty"`
	Schemas    map[string][]string `json:"schemas,omitempty"`
	Problems   []planerr.Problem   `json:"problems,omitempty"`
}

// ErrorResult reports a request that could not be handled at all.
type ErrorResult struct {
	Problems []planerr.Problem `json:"problems"`
}

// Compiler is the part of *compiler.Compiler the handlers need.
type Compiler interface {
	CompileStrict(ctx context.Context, raw *plan.Plan) (*assembler.Pipeline, error)
	CompileRelaxed(ctx context.Context, raw *plan.Plan) (*compiler.HintMap, error)
}

// HandleAutocomplete decodes payload as a JSON plan and returns its hints.
func HandleAutocomplete(ctx context.Context, c Compiler, payload any) (*AutocompleteResult, error) {
	raw, err := decodePayload(payload)
	if err != nil {
		return nil, err
	}
	hints, err := c.CompileRelaxed(ctx, raw)
	if err != nil {
		return nil, err
	}
	return &AutocompleteResult{RequestID: hints.RequestID, Hints: hints}, nil
}

// HandleCompile decodes payload as a JSON plan and compiles it strictly.
// Compilation problems are part of the result, not an error.
func HandleCompile(ctx context.Context, c Compiler, payload any) *CompileResult {
	raw, err := decodePayload(payload)
	if err != nil {
		return &CompileResult{Problems: planerr.Describe(err)}
	}
	p, err := c.CompileStrict(ctx, raw)
	if err != nil {
		ctxlog.FromContext(ctx).Debug("Compile request rejected.", "error", err)
		return &CompileResult{Problems: planerr.Describe(err)}
	}
	return Summarize(p)
}

// Summarize flattens a pipeline into its wire form.
func Summarize(p *assembler.Pipeline) *CompileResult {
	res := &CompileResult{
		RequestID: p.RequestID,
		OK:        true,
		Root:      p.SinkID,
		Operators: p.Operators.Keys(),
	}
	for _, conn := range p.Connectors {
		res.Connectors = append(res.Connectors, conn.ID())
	}
	if p.Schemas != nil {
		res.Schemas = make(map[string][]string)
		for _, id := range p.Schemas.Nodes() {
			if out, ok := p.Schemas.OutputSchema(id); ok {
				res.Schemas[id] = out.Names()
			}
		}
	}
	return res
}

// decodePayload accepts the forms a socket.io argument arrives in: a JSON
// string, raw bytes, or an already decoded object.
func decodePayload(payload any) (*plan.Plan, error) {
	var data []byte
	switch v := payload.(type) {
	case nil:
		return nil, &planerr.MalformedRequestError{Msg: "empty request"}
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		var err error
		if data, err = json.Marshal(v); err != nil {
			return nil, &planerr.MalformedRequestError{Msg: fmt.Sprintf("cannot read %T payload", v), Err: err}
		}
	}
	return plan.ParseJSON(data)
}
