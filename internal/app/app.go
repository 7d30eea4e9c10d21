// Package app orchestrates a generation run: loading the graph, driving
// the scheduler, and installing the emitted Ninja files.
package app

import (
	"context"
	"path/filepath"

	"go.trai.ch/ninjagen/internal/adapters/config"
	"go.trai.ch/ninjagen/internal/core/domain"
	"go.trai.ch/ninjagen/internal/core/ports"
	"go.trai.ch/ninjagen/internal/engine/ninja"
	"go.trai.ch/ninjagen/internal/engine/scheduler"
)

// App wires the emission core to its adapters.
type App struct {
	logger ports.Logger
	files  ports.FileWriter
}

// New creates the application.
func New(logger ports.Logger, files ports.FileWriter) *App {
	return &App{logger: logger, files: files}
}

// GenerateOptions carries the CLI-facing knobs of a run.
type GenerateOptions struct {
	// ManifestPath is the build manifest driving the run.
	ManifestPath string

	// RootPath is the on-disk source root the virtual paths map to.
	RootPath string

	// Quiet suppresses per-target progress lines.
	Quiet bool
}

// GenerateFromManifest loads the manifest and emits all Ninja files.
func (a *App) GenerateFromManifest(ctx context.Context, opts GenerateOptions) error {
	rootPath, err := filepath.Abs(opts.RootPath)
	if err != nil {
		return err
	}
	graph, err := config.Load(opts.ManifestPath, rootPath)
	if err != nil {
		return err
	}
	manifestAbs, err := filepath.Abs(opts.ManifestPath)
	if err != nil {
		return err
	}
	return a.Generate(ctx, graph, manifestAbs, opts.Quiet)
}

// Generate runs the emission over an already-resolved graph. One pool task
// per target writes that target's fragment; when the pool drains the
// toolchain and root files are installed.
func (a *App) Generate(ctx context.Context, graph *domain.Graph, manifestPath string, quiet bool) error {
	sched := scheduler.New(a.logger)
	defer sched.Shutdown()
	sched.SuppressOutputForTesting(quiet)

	if manifestPath != "" {
		// The manifest is an input of the generated output; rerunning the
		// generator must be triggered when it changes.
		sched.AddGenDependency(manifestPath)
	}

	writer := ninja.NewWriter(graph, sched, a.files)
	writer.ScheduleTargetFileWrites()

	ok := sched.Run()
	sched.WaitForPoolTasks()
	if err := ctx.Err(); err != nil {
		return err
	}
	if !ok {
		return domain.ErrEmissionFailed
	}
	if err := writer.CheckUnknownGeneratedInputs(); err != nil {
		return err
	}

	return writer.WriteToolchainAndRootFiles()
}
