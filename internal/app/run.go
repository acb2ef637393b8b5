package app

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/specialistvlad/plangen/internal/client"
	"github.com/specialistvlad/plangen/internal/ctxlog"
	"github.com/specialistvlad/plangen/internal/fsutil"
	"github.com/specialistvlad/plangen/internal/plan"
	"github.com/specialistvlad/plangen/internal/planerr"
	"github.com/specialistvlad/plangen/internal/server"
)

// Report is what Run prints for one plan file.
type Report struct {
	File     string                     `json:"file"`
	Mode     string                     `json:"mode"`
	Compile  *server.CompileResult      `json:"compile,omitempty"`
	Hints    *server.AutocompleteResult `json:"hints,omitempty"`
	Remote   json.RawMessage            `json:"remote,omitempty"`
	Problems []planerr.Problem          `json:"problems,omitempty"`
}

// Run executes the main application logic: it serves the editor endpoints
// until ctx is done, or compiles every plan under PlanPath and prints one
// JSON report per plan.
func (app *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, ctxlog.FromContext(app.ctx))
	logger := ctxlog.FromContext(ctx)
	logger.Debug("App.Run method started.")

	if app.config.Serve {
		return app.serve(ctx)
	}

	if app.config.HealthcheckPort > 0 {
		health := server.NewHealthCheck(ctx, app.metrics, app.config.HealthcheckPort)
		health.Start()
		defer health.Shutdown()
	}

	files, err := app.planFiles()
	if err != nil {
		return err
	}
	if len(files) == 0 {
		logger.Warn("No plan files found, nothing to compile.", "path", app.config.PlanPath)
		return nil
	}

	var remote *client.Client
	if app.config.Remote != "" {
		if remote, err = client.New(app.config.Remote, app.config.RemoteTimeout); err != nil {
			return err
		}
	}

	enc := json.NewEncoder(app.outW)
	enc.SetIndent("", "  ")
	failed := 0
	for _, f := range files {
		report := app.compileFile(ctx, remote, f)
		if len(report.Problems) > 0 || (report.Compile != nil && !report.Compile.OK) {
			failed++
		}
		if err := enc.Encode(report); err != nil {
			return fmt.Errorf("failed to write report for %s: %w", f, err)
		}
	}

	logger.Debug("App.Run method finished.", "plans", len(files), "failed", failed)
	if failed > 0 {
		return fmt.Errorf("%d of %d plan(s) failed to compile", failed, len(files))
	}
	return nil
}

func (app *App) planFiles() ([]string, error) {
	info, err := os.Stat(app.config.PlanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read plan path: %w", err)
	}
	if !info.IsDir() {
		return []string{app.config.PlanPath}, nil
	}
	return fsutil.FindFilesByExtension(app.config.PlanPath, ".json", ".hcl")
}

func (app *App) compileFile(ctx context.Context, remote *client.Client, path string) *Report {
	logger := ctxlog.FromContext(ctx).With("file", path)
	ctx = ctxlog.WithLogger(ctx, logger)
	report := &Report{File: path, Mode: app.config.Mode}

	raw, err := plan.LoadFile(ctx, path)
	if err != nil {
		report.Problems = planerr.Describe(err)
		return report
	}

	if remote != nil {
		if app.config.Mode == ModeRelaxed {
			report.Remote, err = remote.Autocomplete(ctx, raw)
		} else {
			report.Remote, err = remote.Compile(ctx, raw)
		}
		if err != nil {
			report.Problems = planerr.Describe(err)
		}
		return report
	}

	if app.config.Mode == ModeRelaxed {
		hints, err := app.compiler.CompileRelaxed(ctx, raw)
		if err != nil {
			report.Problems = planerr.Describe(err)
			return report
		}
		report.Hints = &server.AutocompleteResult{RequestID: hints.RequestID, Hints: hints}
		return report
	}

	p, err := app.compiler.CompileStrict(ctx, raw)
	if err != nil {
		report.Problems = planerr.Describe(err)
		return report
	}
	report.Compile = server.Summarize(p)
	return report
}

func (app *App) serve(ctx context.Context) error {
	srv := server.New(ctx, app.compiler, app.metrics, app.config.Port)
	srv.Start()
	<-ctx.Done()
	ctxlog.FromContext(ctx).Info("Stop requested.", "reason", context.Cause(ctx))
	return srv.Shutdown()
}
