package ninja

import (
	"bytes"

	"go.trai.ch/ninjagen/internal/core/domain"
	"go.trai.ch/ninjagen/internal/engine/scheduler"
)

// rustTargetWriter emits the single rustc edge of a Rust target. The crate
// root is the explicit input; every other source and the dependency rlibs
// are implicit, so edits to any module rebuild the crate.
type rustTargetWriter struct {
	*targetWriter
	tool *domain.Tool
}

func newRustTargetWriter(g *domain.Graph, t *domain.Target, sched *scheduler.Scheduler, out *bytes.Buffer) *rustTargetWriter {
	base := newTargetWriter(g, t, sched, out)
	return &rustTargetWriter{
		targetWriter: base,
		tool:         base.toolchain.Tool(domain.ToolNameForTargetFinalOutput(t)),
	}
}

func (w *rustTargetWriter) run() {
	if w.target.Rust == nil {
		panic("rust writer invoked for target without rust values: " + w.target.Label.String())
	}
	if w.tool == nil {
		w.sched.FailWithError(withTargetContext(domain.ErrUnknownTool, w.target,
			"tool", domain.ToolNameForTargetFinalOutput(w.target)))
		return
	}

	w.writeSharedVars()

	outputs := domain.ApplyListToLinkerAsOutputFiles(
		w.settings, w.target, w.tool, w.tool.Outputs())

	numStampUses := 1
	inputDeps := w.writeInputsStampAndGetDep(numStampUses)
	orderOnly := w.writeInputDepsStampAndGetDep(nil, numStampUses)

	cd, ok := w.getClassifiedDeps()
	if !ok {
		return
	}

	// Everything except the crate root is an implicit input.
	implicit := make([]domain.OutputFile, 0, len(w.target.Sources))
	for _, source := range w.target.Sources {
		if source == w.target.Rust.CrateRoot {
			continue
		}
		implicit = append(implicit,
			domain.NewOutputFile(w.pathOutput.RebasedSourcePath(source)))
	}
	implicit = append(implicit, inputDeps...)

	directRustDeps := make([]*domain.Target, 0, len(cd.linkableDeps))
	for _, dep := range cd.linkableDeps {
		if dep.Rust != nil {
			directRustDeps = append(directRustDeps, dep)
			implicit = append(implicit, dep.DependencyOutputFile)
		}
	}

	// Non-Rust deps (and everything non-linkable) only gate ordering. The
	// hard-dep stamp and the non-linkable list overlap, so dedupe.
	var orderOnlyDeps []domain.OutputFile
	seen := make(map[string]bool)
	appendOrderOnly := func(f domain.OutputFile) {
		if f.IsZero() || seen[f.Value()] {
			return
		}
		seen[f.Value()] = true
		orderOnlyDeps = append(orderOnlyDeps, f)
	}
	for _, f := range orderOnly {
		appendOrderOnly(f)
	}
	for _, dep := range cd.nonLinkableDeps {
		appendOrderOnly(dep.DependencyOutputFile)
	}

	w.writeCompilerBuildLine([]domain.SourceFile{w.target.Rust.CrateRoot},
		implicit, orderOnlyDeps, w.tool.Name(), outputs)

	w.writeEdgeVariable(domain.RustSubstitutionCrateName.NinjaName, func() {
		w.out.WriteByte(' ')
		w.out.WriteString(EscapeString(w.target.Rust.CrateName, EscapeNinjaCommand))
	})
	w.writeEdgeVariable(domain.RustSubstitutionCrateType.NinjaName, func() {
		w.out.WriteByte(' ')
		w.out.WriteString(w.target.Rust.CrateType.String())
	})
	if len(w.target.Config.RustFlags) > 0 {
		w.writeEdgeVariable(domain.RustSubstitutionRustFlags.NinjaName, func() {
			w.writeFlagList(w.target.Config.RustFlags)
		})
	}
	if len(w.target.Config.RustEnv) > 0 {
		w.writeEdgeVariable(domain.RustSubstitutionRustEnv.NinjaName, func() {
			w.writeFlagList(w.target.Config.RustEnv)
		})
	}
	w.writeEdgeVariable(domain.RustSubstitutionRustDeps.NinjaName, func() {
		w.writeRustDeps(directRustDeps)
	})
	w.writeRustOutputSubstitutions()
	w.writePool(w.tool)
}

// writeRustDeps emits the --extern flag per direct Rust dep and a
// -Ldependency search entry for every transitive rlib directory.
func (w *rustTargetWriter) writeRustDeps(directRustDeps []*domain.Target) {
	cmd := NewPathOutput(w.pathOutput.BuildDir(), EscapeNinjaCommand)

	for _, dep := range directRustDeps {
		w.out.WriteString(" --extern ")
		w.out.WriteString(EscapeString(dep.Rust.CrateName, EscapeNinjaCommand))
		w.out.WriteByte('=')
		cmd.WriteFile(w.out, dep.DependencyOutputFile)
	}

	seenDirs := make(map[string]bool)
	for _, dep := range w.resolved.InheritedRustLibs(w.target) {
		dir := domain.SourceDirOf(dep.DependencyOutputFile.Value())
		dir = trimTrailingSlash(dir)
		if dir == "" || seenDirs[dir] {
			continue
		}
		seenDirs[dir] = true
		w.out.WriteString(" -Ldependency=")
		w.out.WriteString(EscapeString(dir, EscapeNinjaCommand))
	}
}

func (w *rustTargetWriter) writeSharedVars() {
	bits := w.toolchain.SubstitutionBits()
	for _, sub := range []*domain.Substitution{
		domain.SubstitutionLabel,
		domain.SubstitutionRootGenDir,
		domain.SubstitutionRootOutDir,
		domain.SubstitutionTargetGenDir,
		domain.SubstitutionTargetOutDir,
		domain.SubstitutionTargetOutputName,
	} {
		if !bits.Used(sub) {
			continue
		}
		v, _ := domain.GetTargetSubstitution(w.settings, w.target, sub)
		w.out.WriteString(sub.NinjaName)
		w.out.WriteString(" = ")
		w.out.WriteString(EscapeString(v, EscapeNinja))
		w.out.WriteByte('\n')
	}
}

func (w *rustTargetWriter) writeRustOutputSubstitutions() {
	ext, _ := domain.GetLinkerSubstitution(w.settings, w.target, w.tool, domain.SubstitutionOutputExtension)
	w.out.WriteString("  output_extension = ")
	w.out.WriteString(EscapeString(ext, EscapeNinja))
	w.out.WriteByte('\n')

	dir, _ := domain.GetLinkerSubstitution(w.settings, w.target, w.tool, domain.SubstitutionOutputDir)
	w.out.WriteString("  output_dir = ")
	w.out.WriteString(EscapeString(dir, EscapeNinja))
	w.out.WriteByte('\n')
}

func trimTrailingSlash(s string) string {
	if len(s) > 0 && s[len(s)-1] == '/' {
		return s[:len(s)-1]
	}
	return s
}
