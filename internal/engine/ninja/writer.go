package ninja

import (
	"bytes"
	"fmt"
	"strings"

	"go.trai.ch/ninjagen/internal/core/domain"
	"go.trai.ch/ninjagen/internal/core/ports"
	"go.trai.ch/ninjagen/internal/engine/scheduler"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// Writer drives the whole emission: one scheduled task per target writes
// that target's fragment, and once the pool drains the toolchain and root
// files are installed.
type Writer struct {
	graph *domain.Graph
	sched *scheduler.Scheduler
	files ports.FileWriter
}

// NewWriter creates the emission driver.
func NewWriter(g *domain.Graph, sched *scheduler.Scheduler, files ports.FileWriter) *Writer {
	return &Writer{graph: g, sched: sched, files: files}
}

// EmitTarget renders one target's Ninja fragment into a buffer. Errors
// inside the writers surface through the scheduler.
func EmitTarget(g *domain.Graph, t *domain.Target, sched *scheduler.Scheduler) []byte {
	var out bytes.Buffer
	switch t.Type {
	case domain.OutputAction, domain.OutputActionForEach, domain.OutputCopy,
		domain.OutputGroup, domain.OutputBundle, domain.OutputSwiftModule:
		newActionTargetWriter(g, t, sched, &out).run()
	case domain.OutputRustLibrary, domain.OutputRustProcMacro:
		newRustTargetWriter(g, t, sched, &out).run()
	default:
		if t.Rust != nil {
			newRustTargetWriter(g, t, sched, &out).run()
		} else {
			newCBinaryTargetWriter(g, t, sched, &out).run()
		}
	}
	return out.Bytes()
}

// ScheduleTargetFileWrites submits one pool task per target. Each task
// streams the fragment and atomically installs it; the work count mirrors
// the outstanding tasks so the main loop drains exactly when the last file
// lands.
func (w *Writer) ScheduleTargetFileWrites() {
	// Hold one unit while scheduling so the loop cannot drain early.
	w.sched.IncrementWorkCount()
	defer w.sched.DecrementWorkCount()

	for _, t := range w.graph.Targets() {
		target := t
		w.sched.IncrementWorkCount()
		w.sched.ScheduleWork(func() {
			defer w.sched.DecrementWorkCount()
			w.writeTargetFile(target)
		})
	}
}

func (w *Writer) writeTargetFile(t *domain.Target) {
	w.checkGeneratedInputs(t)
	if !t.RuntimeDepsOutputFile.IsZero() {
		w.sched.AddWriteRuntimeDepsTarget(t)
	}

	content := EmitTarget(w.graph, t, w.sched)
	if w.sched.IsFailed() {
		return
	}
	path := w.graph.Build.AbsPath(w.graph.NinjaFileForTarget(t))
	if err := w.files.WriteIfChanged(path, content); err != nil {
		w.sched.FailWithError(fmt.Errorf("%w: %s: %w", domain.ErrWriteFailed, path, err))
		return
	}
	w.sched.Log("gen", t.Label.UserVisibleName(true))
}

// checkGeneratedInputs records every source or input inside the build
// directory that no transitive dependency generates. Whether a recorded
// file is actually an error can only be decided after every target
// completes, since a write_file may produce it; CheckUnknownGeneratedInputs
// does that final pass.
func (w *Writer) checkGeneratedInputs(t *domain.Target) {
	buildDir := w.graph.Build.BuildDir

	var candidates []domain.SourceFile
	for _, source := range t.Sources {
		if strings.HasPrefix(source.Value(), buildDir) {
			candidates = append(candidates, source)
		}
	}
	for _, input := range t.Config.Inputs {
		if strings.HasPrefix(input.Value(), buildDir) {
			candidates = append(candidates, input)
		}
	}
	if len(candidates) == 0 {
		return
	}

	generated := w.depGeneratedFiles(t)
	for _, file := range candidates {
		if !generated[file.Value()] {
			w.sched.AddUnknownGeneratedInput(t, file)
		}
	}
}

// depGeneratedFiles collects the files the target's transitive deps
// produce, as source-absolute paths.
func (w *Writer) depGeneratedFiles(t *domain.Target) map[string]bool {
	buildDir := w.graph.Build.BuildDir
	generated := make(map[string]bool)
	visited := make(map[string]bool)

	addOutput := func(f domain.OutputFile) {
		if !f.IsZero() {
			generated[buildDir+f.Value()] = true
		}
	}

	var walk func(t *domain.Target)
	walk = func(t *domain.Target) {
		for _, deps := range [][]domain.Label{t.PublicDeps, t.PrivateDeps, t.DataDeps} {
			for _, label := range deps {
				dep := w.graph.Target(label)
				if dep == nil || visited[dep.Label.String()] {
					continue
				}
				visited[dep.Label.String()] = true

				addOutput(dep.DependencyOutputFile)
				addOutput(dep.LinkOutputFile)

				settings := w.graph.SettingsFor(dep.Toolchain)
				switch dep.Type {
				case domain.OutputAction:
					if dep.Action != nil {
						for _, p := range dep.Action.Outputs.Patterns() {
							if out, err := domain.ExpandPattern(p, func(sub *domain.Substitution) (string, bool) {
								return domain.GetTargetSubstitution(settings, dep, sub)
							}); err == nil {
								addOutput(domain.NewOutputFile(out))
							}
						}
					}
				case domain.OutputActionForEach:
					if dep.Action != nil {
						for _, source := range dep.Sources {
							for _, out := range domain.ApplyListToSourceAsOutputFiles(
								settings, dep, dep.Action.Outputs, source) {
								addOutput(out)
							}
						}
					}
				case domain.OutputCopy:
					var outputsList domain.SubstitutionList
					if tool := w.graph.ToolchainForTarget(dep).Tool(domain.ToolCopy); tool != nil {
						outputsList = tool.Outputs()
					}
					if dep.Action != nil && !dep.Action.Outputs.Empty() {
						outputsList = dep.Action.Outputs
					}
					for _, source := range dep.Sources {
						for _, out := range domain.ApplyListToSourceAsOutputFiles(
							settings, dep, outputsList, source) {
							addOutput(out)
						}
					}
				}

				walk(dep)
			}
		}
	}
	walk(t)
	return generated
}

// CheckUnknownGeneratedInputs reports the first recorded input that no
// dependency generates and no write_file produced. Call after the pool
// has drained.
func (w *Writer) CheckUnknownGeneratedInputs() error {
	unknown := w.sched.SortedUnknownGeneratedInputs()
	if len(unknown) == 0 {
		return nil
	}
	inputs := w.sched.UnknownGeneratedInputs()
	first := unknown[0]
	err := zerr.With(domain.ErrUnknownGeneratedInput, "file", first.Value())
	if targets := inputs[first]; len(targets) > 0 {
		err = zerr.With(err, "target", targets[0].Label.UserVisibleName(true))
	}
	return err
}

// WriteToolchainAndRootFiles renders every toolchain.ninja concurrently
// and then the root build.ninja. Call only after the pool has drained so
// every fragment referenced by an include line exists.
func (w *Writer) WriteToolchainAndRootFiles() error {
	var g errgroup.Group
	for _, tc := range w.graph.Toolchains() {
		tc := tc
		g.Go(func() error {
			var out bytes.Buffer
			WriteToolchainFile(w.graph, tc, w.graph.TargetsInToolchain(tc.Label()), &out)
			path := w.graph.Build.AbsPath(w.graph.NinjaFileForToolchain(tc.Label()))
			if err := w.files.WriteIfChanged(path, out.Bytes()); err != nil {
				return fmt.Errorf("%w: %s: %w", domain.ErrWriteFailed, path, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	var out bytes.Buffer
	WriteRootBuildFile(w.graph, &out)
	path := w.graph.Build.AbsPath(domain.NewOutputFile("build.ninja"))
	if err := w.files.WriteIfChanged(path, out.Bytes()); err != nil {
		return fmt.Errorf("%w: %s: %w", domain.ErrWriteFailed, path, err)
	}
	return nil
}
