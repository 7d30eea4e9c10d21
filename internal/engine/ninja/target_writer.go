package ninja

import (
	"bytes"
	"strings"

	"go.trai.ch/ninjagen/internal/core/domain"
	"go.trai.ch/ninjagen/internal/engine/resolve"
	"go.trai.ch/ninjagen/internal/engine/scheduler"
)

// targetWriter carries the state shared by every per-target writer. A
// writer is ephemeral: one instance streams one target's Ninja fragment
// into its buffer and is discarded.
type targetWriter struct {
	graph     *domain.Graph
	target    *domain.Target
	toolchain *domain.Toolchain
	settings  *domain.Settings
	resolved  *resolve.ResolvedTargetData
	sched     *scheduler.Scheduler

	out        *bytes.Buffer
	pathOutput *PathOutput
	rulePrefix string
}

func newTargetWriter(g *domain.Graph, t *domain.Target, sched *scheduler.Scheduler, out *bytes.Buffer) *targetWriter {
	settings := g.SettingsFor(t.Toolchain)
	return &targetWriter{
		graph:      g,
		target:     t,
		toolchain:  g.ToolchainForTarget(t),
		settings:   settings,
		resolved:   resolve.New(g),
		sched:      sched,
		out:        out,
		pathOutput: NewPathOutput(g.Build.BuildDir, EscapeNinja),
		rulePrefix: RulePrefixForToolchain(settings),
	}
}

// writeCompilerBuildLine emits one "build" statement:
//
//	build <outputs>: <rule> <inputs> | <implicit> || <order_only>
func (w *targetWriter) writeCompilerBuildLine(inputs []domain.SourceFile,
	implicitDeps, orderOnlyDeps []domain.OutputFile,
	toolName string, outputs []domain.OutputFile) {

	w.out.WriteString("build")
	w.pathOutput.WriteFiles(w.out, outputs)

	w.out.WriteString(": ")
	w.out.WriteString(w.rulePrefix)
	w.out.WriteString(toolName)

	w.pathOutput.WriteSourceFiles(w.out, inputs)

	if len(implicitDeps) > 0 {
		w.out.WriteString(" |")
		w.pathOutput.WriteFiles(w.out, implicitDeps)
	}
	if len(orderOnlyDeps) > 0 {
		w.out.WriteString(" ||")
		w.pathOutput.WriteFiles(w.out, orderOnlyDeps)
	}
	w.out.WriteByte('\n')
}

// writeStampEdge emits a stamp build line over arbitrary output files.
func (w *targetWriter) writeStampEdge(output domain.OutputFile, inputs []domain.OutputFile) {
	w.out.WriteString("build ")
	w.pathOutput.WriteFile(w.out, output)
	w.out.WriteString(": ")
	w.out.WriteString(w.rulePrefix)
	w.out.WriteString(domain.ToolStamp)
	w.pathOutput.WriteFiles(w.out, inputs)
	w.out.WriteByte('\n')
}

// objDirFile returns "<target obj dir>/<target name><suffix>".
func (w *targetWriter) objDirFile(suffix string) domain.OutputFile {
	outDir, _ := domain.GetTargetSubstitution(w.settings, w.target, domain.SubstitutionTargetOutDir)
	return domain.NewOutputFile(outDir + "/" + w.target.Label.Name + suffix)
}

// writeInputsStampAndGetDep handles the target's extra input files. With
// more than one input (and more than one consumer) a stamp groups them so
// every compile references a single file.
func (w *targetWriter) writeInputsStampAndGetDep(numStampUses int) []domain.OutputFile {
	inputs := w.target.Config.Inputs
	if len(inputs) == 0 {
		return nil
	}

	outs := make([]domain.OutputFile, 0, len(inputs))
	for _, in := range inputs {
		outs = append(outs, domain.NewOutputFile(w.pathOutput.RebasedSourcePath(in)))
	}
	if len(outs) == 1 || numStampUses == 1 {
		return outs
	}

	stamp := w.objDirFile(".inputs.stamp")
	w.writeStampEdge(stamp, outs)
	return []domain.OutputFile{stamp}
}

// writeInputDepsStampAndGetDep collects the hard dependencies (actions,
// copies, and anything else that generates inputs) whose outputs must
// exist before this target's sources compile. With more than one such file
// a single .inputdeps.stamp edge is emitted and returned; the result is
// consumed as order-only deps.
func (w *targetWriter) writeInputDepsStampAndGetDep(extraHardDeps []*domain.Target, numStampUses int) []domain.OutputFile {
	var files []domain.OutputFile
	add := func(dep *domain.Target) {
		if !dep.DependencyOutputFile.IsZero() {
			files = append(files, dep.DependencyOutputFile)
		}
	}

	for _, dep := range extraHardDeps {
		add(dep)
	}
	for _, dep := range w.resolved.LinkedDeps(w.target) {
		if dep.HardDep() {
			add(dep)
		}
	}

	if len(files) == 0 {
		return nil
	}
	if len(files) == 1 || numStampUses == 1 {
		return files
	}

	stamp := w.objDirFile(".inputdeps.stamp")
	w.writeStampEdge(stamp, files)
	return []domain.OutputFile{stamp}
}

// classifiedDeps is the writer-facing view of the dependency lists, split
// by the role each dep plays on the link edge.
type classifiedDeps struct {
	linkableDeps    []*domain.Target
	nonLinkableDeps []*domain.Target
	frameworkDeps   []*domain.Target
	swiftModuleDeps []*domain.Target

	// extraObjectFiles are object files inherited from source-set deps,
	// absorbed into this target's link.
	extraObjectFiles []domain.OutputFile
}

// getClassifiedDeps splits linked and data deps by role. Linkable deps
// with no link output are a user error reported through the scheduler.
func (w *targetWriter) getClassifiedDeps() (classifiedDeps, bool) {
	var cd classifiedDeps
	ok := true

	classify := func(dep *domain.Target) {
		switch {
		case dep.Bundle != nil && dep.Bundle.IsFramework:
			cd.frameworkDeps = append(cd.frameworkDeps, dep)
		case dep.IsLinkable():
			if dep.LinkOutputFile.IsZero() {
				w.sched.FailWithError(missingLinkOutputError(w.target, dep))
				ok = false
				return
			}
			cd.linkableDeps = append(cd.linkableDeps, dep)
		case dep.Type == domain.OutputSourceSet:
			cd.extraObjectFiles = append(cd.extraObjectFiles,
				w.sourceSetObjectFiles(dep)...)
			cd.nonLinkableDeps = append(cd.nonLinkableDeps, dep)
		default:
			cd.nonLinkableDeps = append(cd.nonLinkableDeps, dep)
		}
		if dep.UsesSwift() && dep.Swift != nil {
			cd.swiftModuleDeps = append(cd.swiftModuleDeps, dep)
		}
	}

	for _, dep := range w.resolved.LinkedDeps(w.target) {
		classify(dep)
	}
	for _, dep := range w.resolved.DataDeps(w.target) {
		cd.nonLinkableDeps = append(cd.nonLinkableDeps, dep)
	}
	return cd, ok
}

// sourceSetObjectFiles recomputes the object files a source-set dep
// contributes to its linking consumer.
func (w *targetWriter) sourceSetObjectFiles(dep *domain.Target) []domain.OutputFile {
	depSettings := w.graph.SettingsFor(dep.Toolchain)
	depToolchain := w.graph.ToolchainForTarget(dep)
	var out []domain.OutputFile
	for _, source := range dep.Sources {
		// Module maps produce pcms, not objects; Swift contributes through
		// the module and partial outputs instead.
		if source.IsModuleMapType() || source.IsSwiftType() {
			continue
		}
		_, outputs, ok := domain.GetOutputFilesForSource(depSettings, depToolchain, dep, source)
		if !ok || len(outputs) == 0 {
			continue
		}
		out = append(out, outputs[0])
	}
	return out
}

// writeOrderOnlyDependencies appends " || <files>" for the non-linkable
// deps' dependency outputs.
func (w *targetWriter) writeOrderOnlyDependencies(nonLinkable []*domain.Target) {
	wrote := false
	for _, dep := range nonLinkable {
		if dep.DependencyOutputFile.IsZero() {
			continue
		}
		if !wrote {
			w.out.WriteString(" ||")
			wrote = true
		}
		w.out.WriteByte(' ')
		w.pathOutput.WriteFile(w.out, dep.DependencyOutputFile)
	}
}

// writeFlagList appends each flag escaped for command context, preceded by
// a space.
func (w *targetWriter) writeFlagList(flags []string) {
	for _, f := range flags {
		w.out.WriteByte(' ')
		w.out.WriteString(EscapeString(f, EscapeNinjaCommand))
	}
}

// writeVariable emits "name = value..." via fill, skipping nothing: the
// caller decides whether the toolchain references the variable.
func (w *targetWriter) writeVariable(name string, fill func()) {
	w.out.WriteString(name)
	w.out.WriteString(" =")
	fill()
	w.out.WriteByte('\n')
}

// writeEdgeVariable is writeVariable indented into the scope of the
// preceding build line.
func (w *targetWriter) writeEdgeVariable(name string, fill func()) {
	w.out.WriteString("  ")
	w.writeVariable(name, fill)
}

// writePool emits the edge-scoped pool assignment when the tool has one.
func (w *targetWriter) writePool(tool *domain.Tool) {
	if tool == nil || tool.Pool() == "" {
		return
	}
	w.out.WriteString("  pool = ")
	w.out.WriteString(w.rulePrefix)
	w.out.WriteString(tool.Pool())
	w.out.WriteByte('\n')
}

func missingLinkOutputError(target, dep *domain.Target) error {
	return withTargetContext(domain.ErrMissingLinkOutput, target, "dependency", dep.Label.UserVisibleName(false))
}

// labelIdentifier converts a label into text usable inside a rule name.
func labelIdentifier(l domain.Label) string {
	s := strings.TrimPrefix(l.Dir, "//") + l.Name
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z',
			c >= '0' && c <= '9', c == '_':
			sb.WriteByte(c)
		default:
			sb.WriteByte('_')
		}
	}
	return sb.String()
}
