package ninja

import (
	"bytes"

	"go.trai.ch/ninjagen/internal/core/domain"
	"go.trai.ch/ninjagen/internal/engine/scheduler"
)

// moduleDep describes one Clang module visible to a target's compiles.
type moduleDep struct {
	// modulemap is the input module.modulemap source file.
	modulemap domain.SourceFile

	// moduleName is the internal module name, the target's label.
	moduleName string

	// pcm is the compiled version of the module.
	pcm domain.OutputFile

	// isSelf marks the module of the current target.
	isSelf bool
}

// cBinaryTargetWriter emits the Ninja fragment of one C-family binary
// target: compile edges, PCH edges, module edges, and the link or stamp
// edge.
type cBinaryTargetWriter struct {
	*targetWriter
	tool *domain.Tool
}

func newCBinaryTargetWriter(g *domain.Graph, t *domain.Target, sched *scheduler.Scheduler, out *bytes.Buffer) *cBinaryTargetWriter {
	base := newTargetWriter(g, t, sched, out)
	return &cBinaryTargetWriter{
		targetWriter: base,
		tool:         base.toolchain.Tool(domain.ToolNameForTargetFinalOutput(t)),
	}
}

func (w *cBinaryTargetWriter) run() {
	types := w.target.SourceTypesUsed()
	if types.MixedSourceUsed() ||
		(types.SwiftSourceUsed() && (types.Get(domain.SourceC) ||
			types.Get(domain.SourceCPP) || types.Get(domain.SourceM) ||
			types.Get(domain.SourceMM))) {
		w.sched.FailWithError(withTargetContext(domain.ErrMixedSources, w.target, "", ""))
		return
	}

	moduleDeps := w.moduleDepsInformation()

	w.writeCompilerVars(moduleDeps)

	numStampUses := len(w.target.Sources)

	inputDeps := w.writeInputsStampAndGetDep(numStampUses)

	// The input dependencies are order-only: Ninja brings them up to date
	// before compiling, but changing them does not recompile everything.
	// Real dependencies surface through the compiler-generated depfiles
	// once a first build exists; the order-only stamp only matters for the
	// very first build, where no .d files exist yet.
	orderOnlyDeps := w.writeInputDepsStampAndGetDep(nil, numStampUses)

	// GCC-style .gch outputs are compiler inputs, never linked; MSVC PCH
	// outputs are object files and must be linked. Keep the two apart.
	pchObjFiles, pchOtherFiles := w.writePCHCommands(inputDeps, orderOnlyDeps)
	pchFiles := pchOtherFiles
	if len(pchObjFiles) > 0 {
		pchFiles = pchObjFiles
	}

	var objFiles []domain.OutputFile
	var otherFiles []domain.SourceFile
	if !types.SwiftSourceUsed() {
		objFiles, otherFiles = w.writeSources(pchFiles, inputDeps, orderOnlyDeps, moduleDeps)
	} else {
		objFiles = w.writeSwiftSources(inputDeps, orderOnlyDeps)
	}

	objFiles = append(objFiles, pchObjFiles...)
	if !w.checkForDuplicateObjectFiles(objFiles) {
		return
	}

	if w.target.Type == domain.OutputSourceSet {
		w.writeSourceSetStamp(objFiles)
	} else {
		w.writeLinkerStuff(objFiles, otherFiles, inputDeps)
	}
}

func moduleMapFromTargetSources(t *domain.Target) (domain.SourceFile, bool) {
	for _, sf := range t.Sources {
		if sf.IsModuleMapType() {
			return sf, true
		}
	}
	return domain.SourceFile{}, false
}

func (w *cBinaryTargetWriter) moduleDepsInformation() []moduleDep {
	var ret []moduleDep

	add := func(t *domain.Target, isSelf bool) {
		modulemap, ok := moduleMapFromTargetSources(t)
		if !ok {
			panic("module deps requested for target without module map")
		}
		settings := w.graph.SettingsFor(t.Toolchain)
		toolchain := w.graph.ToolchainForTarget(t)
		_, outputs, ok := domain.GetOutputFilesForSource(settings, toolchain, t, modulemap)
		if !ok || len(outputs) != 1 {
			// Must be exactly one .pcm from a .modulemap.
			panic(domain.ErrModuleMapOutputs.Error() + ": " + t.Label.String())
		}
		ret = append(ret, moduleDep{
			modulemap:  modulemap,
			moduleName: t.Label.UserVisibleName(false),
			pcm:        outputs[0],
			isSelf:     isSelf,
		})
	}

	if w.target.SourceTypesUsed().Get(domain.SourceModuleMap) {
		add(w.target, true)
	}
	for _, dep := range w.resolved.LinkedDeps(w.target) {
		// A .modulemap source means the dependency is modularized.
		if dep.SourceTypesUsed().Get(domain.SourceModuleMap) {
			add(dep, false)
		}
	}
	return ret
}

func (w *cBinaryTargetWriter) writeCompilerVars(moduleDeps []moduleDep) {
	bits := w.toolchain.SubstitutionBits()
	types := w.target.SourceTypesUsed()
	cfg := &w.target.Config

	if bits.Used(domain.CSubstitutionDefines) && len(cfg.Defines) > 0 {
		w.writeVariable(domain.CSubstitutionDefines.NinjaName, func() {
			for _, d := range cfg.Defines {
				w.out.WriteString(" -D")
				w.out.WriteString(EscapeString(d, EscapeNinjaCommand))
			}
		})
	}
	if bits.Used(domain.CSubstitutionIncludeDirs) && len(cfg.IncludeDirs) > 0 {
		w.writeVariable(domain.CSubstitutionIncludeDirs.NinjaName, func() {
			for _, dir := range cfg.IncludeDirs {
				w.out.WriteString(" -I")
				w.out.WriteString(EscapeString(
					w.pathOutput.RebasedSourcePath(domain.NewSourceFile(dir)), EscapeNinjaCommand))
			}
		})
	}

	type flagVar struct {
		sub   *domain.Substitution
		used  bool
		flags []string
	}
	vars := []flagVar{
		{domain.CSubstitutionCFlags, types.CSourceUsed() || types.SwiftSourceUsed(), cfg.CFlags},
		{domain.CSubstitutionCFlagsC, types.Get(domain.SourceC), cfg.CFlagsC},
		{domain.CSubstitutionCFlagsCc, types.Get(domain.SourceCPP) || types.Get(domain.SourceModuleMap), cfg.CFlagsCc},
		{domain.CSubstitutionCFlagsObjC, types.Get(domain.SourceM), cfg.CFlagsObjC},
		{domain.CSubstitutionCFlagsObjCc, types.Get(domain.SourceMM), cfg.CFlagsObjCc},
		{domain.CSubstitutionAsmFlags, types.Get(domain.SourceS), cfg.AsmFlags},
		{domain.CSubstitutionSwiftFlags, types.SwiftSourceUsed(), cfg.SwiftFlags},
	}
	for _, v := range vars {
		if !bits.Used(v.sub) || !v.used || len(v.flags) == 0 {
			continue
		}
		flags := v.flags
		w.writeVariable(v.sub.NinjaName, func() { w.writeFlagList(flags) })
	}

	if len(moduleDeps) > 0 {
		if types.Get(domain.SourceCPP) || types.Get(domain.SourceModuleMap) {
			w.writeModuleDepsSubstitution(domain.CSubstitutionModuleDeps, moduleDeps, true)
			w.writeModuleDepsSubstitution(domain.CSubstitutionModuleDepsNoSelf, moduleDeps, false)
		}
	}

	w.writeSharedVars(bits)
}

func (w *cBinaryTargetWriter) writeModuleDepsSubstitution(sub *domain.Substitution, moduleDeps []moduleDep, includeSelf bool) {
	if !w.toolchain.SubstitutionBits().Used(sub) {
		return
	}
	w.out.WriteString(sub.NinjaName)
	w.out.WriteString(" = -Xclang ")
	w.out.WriteString(EscapeString("-fmodules-embed-all-files", EscapeNinjaCommand))
	for _, md := range moduleDeps {
		if md.isSelf && !includeSelf {
			continue
		}
		w.out.WriteByte(' ')
		w.out.WriteString(EscapeString("-fmodule-file=", EscapeNinjaCommand))
		w.pathOutput.WriteFile(w.out, md.pcm)
	}
	w.out.WriteByte('\n')
}

// writeSharedVars emits the target-scope variables the toolchain's rules
// reference.
func (w *cBinaryTargetWriter) writeSharedVars(bits *domain.SubstitutionBits) {
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

func (w *cBinaryTargetWriter) writePCHCommands(inputDeps, orderOnlyDeps []domain.OutputFile) (objFiles, otherFiles []domain.OutputFile) {
	if !w.target.Config.HasPrecompiledHeaders() {
		return nil, nil
	}
	types := w.target.SourceTypesUsed()

	write := func(flagSub *domain.Substitution, toolName string, srcType domain.SourceType, gccOnly bool) {
		tool := w.toolchain.Tool(toolName)
		if tool == nil || tool.AsC() == nil {
			return
		}
		pch := tool.AsC().PrecompiledHeaderType
		if pch == domain.PCHNone || (gccOnly && pch != domain.PCHGCC) || !types.Get(srcType) {
			return
		}
		w.writePCHCommand(flagSub, toolName, pch, inputDeps, orderOnlyDeps, &objFiles, &otherFiles)
	}

	write(domain.CSubstitutionCFlagsC, domain.ToolCc, domain.SourceC, false)
	write(domain.CSubstitutionCFlagsCc, domain.ToolCxx, domain.SourceCPP, false)
	write(domain.CSubstitutionCFlagsObjC, domain.ToolObjC, domain.SourceM, true)
	write(domain.CSubstitutionCFlagsObjCc, domain.ToolObjCxx, domain.SourceMM, true)
	return objFiles, otherFiles
}

func (w *cBinaryTargetWriter) writePCHCommand(flagSub *domain.Substitution,
	toolName string, pchType domain.PCHType,
	inputDeps, orderOnlyDeps []domain.OutputFile,
	objFiles, otherFiles *[]domain.OutputFile) {

	switch pchType {
	case domain.PCHMSVC:
		w.writeWindowsPCHCommand(flagSub, toolName, inputDeps, orderOnlyDeps, objFiles)
	case domain.PCHGCC:
		w.writeGCCPCHCommand(flagSub, toolName, inputDeps, orderOnlyDeps, otherFiles)
	case domain.PCHNone:
		panic("cannot write a PCH command with no PCH header type")
	}
}

func (w *cBinaryTargetWriter) writeGCCPCHCommand(flagSub *domain.Substitution,
	toolName string, inputDeps, orderOnlyDeps []domain.OutputFile,
	gchFiles *[]domain.OutputFile) {

	outputs := pchOutputFiles(w.settings, w.target, toolName, domain.PCHGCC)
	if len(outputs) == 0 {
		return
	}
	*gchFiles = append(*gchFiles, outputs...)

	w.writeCompilerBuildLine([]domain.SourceFile{w.target.Config.PrecompiledSource},
		inputDeps, orderOnlyDeps, toolName, outputs)

	// The edge overrides the language flag variable with the target's
	// flags for this language followed by the -x <header lang> the .gch
	// compile needs.
	w.out.WriteString("  ")
	w.out.WriteString(flagSub.NinjaName)
	w.out.WriteString(" =")
	w.writeFlagList(w.pchLangFlags(toolName))
	w.out.WriteString(" -x ")
	w.out.WriteString(pchLangForToolType(toolName))
	w.out.WriteString("\n\n")
}

func (w *cBinaryTargetWriter) writeWindowsPCHCommand(flagSub *domain.Substitution,
	toolName string, inputDeps, orderOnlyDeps []domain.OutputFile,
	objFiles *[]domain.OutputFile) {

	outputs := pchOutputFiles(w.settings, w.target, toolName, domain.PCHMSVC)
	if len(outputs) == 0 {
		return
	}
	*objFiles = append(*objFiles, outputs...)

	w.writeCompilerBuildLine([]domain.SourceFile{w.target.Config.PrecompiledSource},
		inputDeps, orderOnlyDeps, toolName, outputs)

	// /Yc is appended to the existing flag variable instead of replacing
	// it.
	w.out.WriteString("  ")
	w.out.WriteString(flagSub.NinjaName)
	w.out.WriteString(" = ${")
	w.out.WriteString(flagSub.NinjaName)
	w.out.WriteString("} /Yc")
	w.out.WriteString(w.target.Config.PrecompiledHeader)
	w.out.WriteString("\n\n")
}

func (w *cBinaryTargetWriter) pchLangFlags(toolName string) []string {
	cfg := &w.target.Config
	switch toolName {
	case domain.ToolCc:
		return cfg.CFlagsC
	case domain.ToolCxx:
		return cfg.CFlagsCc
	case domain.ToolObjC:
		return cfg.CFlagsObjC
	case domain.ToolObjCxx:
		return cfg.CFlagsObjCc
	}
	return nil
}

func (w *cBinaryTargetWriter) writeSources(pchDeps, inputDeps, orderOnlyDeps []domain.OutputFile,
	moduleDeps []moduleDep) (objFiles []domain.OutputFile, otherFiles []domain.SourceFile) {

	objFiles = make([]domain.OutputFile, 0, len(w.target.Sources))

	for _, source := range w.target.Sources {
		toolName, toolOutputs, ok := domain.GetOutputFilesForSource(
			w.settings, w.toolchain, w.target, source)
		if !ok {
			if source.IsDefType() {
				otherFiles = append(otherFiles, source)
			}
			continue // No output for this source.
		}

		deps := make([]domain.OutputFile, 0, len(inputDeps)+len(pchDeps)+len(moduleDeps))
		deps = append(deps, inputDeps...)

		if toolName != domain.ToolNone {
			tool := w.toolchain.Tool(toolName)
			if c := tool.AsC(); c != nil && c.PrecompiledHeaderType != domain.PCHNone {
				// Only include the PCH outputs matching this tool's
				// language: a CXX PCH file must not become a dep of a C
				// compile. The match is by the suffix naming scheme of
				// the PCH output files.
				var ext string
				switch c.PrecompiledHeaderType {
				case domain.PCHMSVC:
					ext = windowsPCHObjectExtension(toolName)
				case domain.PCHGCC:
					ext = gccPCHOutputExtension(toolName)
				}
				for _, dep := range pchDeps {
					if ext != "" && hasSuffix(dep.Value(), ext) {
						deps = append(deps, dep)
					}
				}
			}

			for _, md := range moduleDeps {
				if toolOutputs[0] != md.pcm {
					deps = append(deps, md.pcm)
				}
			}

			w.writeCompilerBuildLine([]domain.SourceFile{source}, deps,
				orderOnlyDeps, toolName, toolOutputs)
			w.writePool(tool)
		}

		// A compiler can produce more than one output; only the first is
		// linked.
		if !source.IsModuleMapType() {
			objFiles = append(objFiles, toolOutputs[0])
		}
	}
	w.out.WriteByte('\n')
	return objFiles, otherFiles
}

func hasSuffix(s, suffix string) bool {
	return len(s) >= len(suffix) && s[len(s)-len(suffix):] == suffix
}

func (w *cBinaryTargetWriter) checkForDuplicateObjectFiles(files []domain.OutputFile) bool {
	seen := make(map[string]bool, len(files))
	for _, f := range files {
		if seen[f.Value()] {
			w.sched.FailWithError(withTargetContext(
				domain.ErrDuplicateObjectFile, w.target, "file", f.Value()))
			return false
		}
		seen[f.Value()] = true
	}
	return true
}

func (w *cBinaryTargetWriter) writeSourceSetStamp(objFiles []domain.OutputFile) {
	cd, ok := w.getClassifiedDeps()
	if !ok {
		return
	}
	stamp := w.target.DependencyOutputFile
	if stamp.IsZero() {
		stamp = w.objDirFile(".stamp")
	}
	w.out.WriteString("build ")
	w.pathOutput.WriteFile(w.out, stamp)
	w.out.WriteString(": ")
	w.out.WriteString(w.rulePrefix)
	w.out.WriteString(domain.ToolStamp)
	w.pathOutput.WriteFiles(w.out, objFiles)
	w.writeOrderOnlyDependencies(cd.nonLinkableDeps)
	w.out.WriteByte('\n')
}

func (w *cBinaryTargetWriter) writeLinkerStuff(objFiles []domain.OutputFile,
	otherFiles []domain.SourceFile, inputDeps []domain.OutputFile) {

	outputFiles := domain.ApplyListToLinkerAsOutputFiles(
		w.settings, w.target, w.tool, w.tool.Outputs())

	w.out.WriteString("build")
	w.pathOutput.WriteFiles(w.out, outputFiles)

	w.out.WriteString(": ")
	w.out.WriteString(w.rulePrefix)
	w.out.WriteString(domain.ToolNameForTargetFinalOutput(w.target))

	cd, ok := w.getClassifiedDeps()
	if !ok {
		return
	}

	// Object files.
	w.pathOutput.WriteFiles(w.out, objFiles)
	w.pathOutput.WriteFiles(w.out, cd.extraObjectFiles)

	// Dependencies.
	var implicitDeps []domain.OutputFile
	var solibs []domain.OutputFile
	for _, dep := range cd.linkableDeps {
		if dep.Type == domain.OutputRustLibrary || dep.Type == domain.OutputRustProcMacro {
			// Handled by the rust-specific flag lists below.
			continue
		}
		// The link output is always an explicit input. A shared library
		// with a separate interface file additionally depends on that file
		// implicitly, so relinks key off interface changes.
		w.out.WriteByte(' ')
		w.pathOutput.WriteFile(w.out, dep.LinkOutputFile)
		if dep.DependencyOutputFile.Value() != dep.LinkOutputFile.Value() {
			implicitDeps = append(implicitDeps, dep.DependencyOutputFile)
			solibs = append(solibs, dep.LinkOutputFile)
		}
	}

	var optionalDefFile *domain.SourceFile
	for i := range otherFiles {
		if otherFiles[i].IsDefType() {
			optionalDefFile = &otherFiles[i]
			implicitDeps = append(implicitDeps,
				domain.NewOutputFile(w.pathOutput.RebasedSourcePath(otherFiles[i])))
			break // Only one def file is allowed.
		}
	}

	// Libraries specified by paths.
	for _, lib := range w.resolved.LinkedLibraries(w.target) {
		if lib.IsSourceFile() {
			implicitDeps = append(implicitDeps,
				domain.NewOutputFile(w.pathOutput.RebasedSourcePath(lib.SourceFile())))
		}
	}

	// A framework bundle dep relinks its consumers through its stamp, so
	// an API change in the framework propagates even though the bundle is
	// never an input of the link command itself.
	for _, dep := range cd.frameworkDeps {
		implicitDeps = append(implicitDeps, dep.DependencyOutputFile)
	}

	// The input dependency is only strictly needed when there are no
	// object files to carry it transitively.
	if len(objFiles) == 0 {
		implicitDeps = append(implicitDeps, inputDeps...)
	}

	// A final target depending on a Rust .rlib depends on the entire tree
	// of transitive rlibs inside the linking unit.
	var transitiveRustLibs []domain.OutputFile
	if w.target.IsFinal() {
		for _, dep := range w.resolved.InheritedRustLibs(w.target) {
			transitiveRustLibs = append(transitiveRustLibs, dep.DependencyOutputFile)
			implicitDeps = append(implicitDeps, dep.DependencyOutputFile)
		}
	}

	// Swift modules from dependencies (and possibly self).
	var swiftModules []domain.OutputFile
	if w.target.IsFinal() {
		for _, dep := range cd.swiftModuleDeps {
			swiftModules = append(swiftModules, dep.Swift.ModuleOutputFile)
			implicitDeps = append(implicitDeps, dep.Swift.ModuleOutputFile)
		}
		if w.target.UsesSwift() && w.target.Swift != nil {
			swiftModules = append(swiftModules, w.target.Swift.ModuleOutputFile)
			implicitDeps = append(implicitDeps, w.target.Swift.ModuleOutputFile)
		}
	}

	if len(implicitDeps) > 0 {
		w.out.WriteString(" |")
		w.pathOutput.WriteFiles(w.out, implicitDeps)
	}

	// Data deps and other non-linkable deps are order-only so they are
	// present at runtime without forcing relinks.
	w.writeOrderOnlyDependencies(cd.nonLinkableDeps)
	w.out.WriteByte('\n')

	switch w.target.Type {
	case domain.OutputExecutable, domain.OutputSharedLibrary, domain.OutputLoadableModule:
		w.writeEdgeVariable(domain.SubstitutionLdFlags.NinjaName, func() {
			w.writeLinkerFlags(optionalDefFile)
		})
		w.writeEdgeVariable(domain.SubstitutionLibs.NinjaName, func() {
			w.writeLibs()
		})
		w.writeEdgeVariable(domain.SubstitutionFrameworks.NinjaName, func() {
			w.writeFrameworks()
		})
		w.writeEdgeVariable(domain.SubstitutionSwiftModules.NinjaName, func() {
			w.writeSwiftModules(swiftModules)
		})
	case domain.OutputStaticLibrary:
		w.writeEdgeVariable(domain.SubstitutionArFlags.NinjaName, func() {
			w.writeFlagList(w.target.Config.ArFlags)
		})
	}
	w.writeOutputSubstitutions()
	w.writeLibsList(domain.SubstitutionSoLibs.NinjaName, solibs)
	w.writeLibsList(domain.SubstitutionRlibs.NinjaName, transitiveRustLibs)
	w.writePool(w.tool)
}

func (w *cBinaryTargetWriter) writeLinkerFlags(optionalDefFile *domain.SourceFile) {
	c := w.tool.AsC()
	w.writeFlagList(w.target.Config.LdFlags)

	for _, dir := range w.resolved.LinkedLibraryDirs(w.target) {
		w.out.WriteByte(' ')
		w.out.WriteString(libDirSwitch(c))
		w.out.WriteString(EscapeString(trimTrailingSlash(
			w.pathOutput.RebasedSourcePath(domain.NewSourceFile(dir))), EscapeNinjaCommand))
	}
	for _, dir := range w.target.Config.FrameworkDirs {
		w.out.WriteByte(' ')
		w.out.WriteString(frameworkDirSwitch(c))
		w.out.WriteString(EscapeString(trimTrailingSlash(
			w.pathOutput.RebasedSourcePath(domain.NewSourceFile(dir))), EscapeNinjaCommand))
	}
	if optionalDefFile != nil {
		w.out.WriteString(" /DEF:")
		w.out.WriteString(EscapeString(
			w.pathOutput.RebasedSourcePath(*optionalDefFile), EscapeNinjaCommand))
	}
}

func (w *cBinaryTargetWriter) writeLibs() {
	c := w.tool.AsC()
	for _, lib := range w.resolved.LinkedLibraries(w.target) {
		w.out.WriteByte(' ')
		if lib.IsSourceFile() {
			w.out.WriteString(EscapeString(
				w.pathOutput.RebasedSourcePath(lib.SourceFile()), EscapeNinjaCommand))
		} else {
			w.out.WriteString(libSwitch(c))
			w.out.WriteString(EscapeString(lib.Value(), EscapeNinjaCommand))
		}
	}
}

func (w *cBinaryTargetWriter) writeFrameworks() {
	c := w.tool.AsC()
	for _, fw := range w.target.Config.Frameworks {
		w.out.WriteByte(' ')
		w.out.WriteString(frameworkSwitch(c))
		w.out.WriteString(EscapeString(trimFrameworkSuffix(fw), EscapeNinjaCommand))
	}
}

func (w *cBinaryTargetWriter) writeSwiftModules(files []domain.OutputFile) {
	c := w.tool.AsC()
	for _, f := range files {
		w.out.WriteByte(' ')
		w.out.WriteString(swiftModuleSwitch(c))
		w.out.WriteString(EscapeString(f.Value(), EscapeNinjaCommand))
	}
}

func (w *cBinaryTargetWriter) writeOutputSubstitutions() {
	ext, _ := domain.GetLinkerSubstitution(w.settings, w.target, w.tool, domain.SubstitutionOutputExtension)
	w.out.WriteString("  output_extension = ")
	w.out.WriteString(EscapeString(ext, EscapeNinja))
	w.out.WriteByte('\n')

	dir, _ := domain.GetLinkerSubstitution(w.settings, w.target, w.tool, domain.SubstitutionOutputDir)
	w.out.WriteString("  output_dir = ")
	w.out.WriteString(EscapeString(dir, EscapeNinja))
	w.out.WriteByte('\n')
}

func (w *cBinaryTargetWriter) writeLibsList(name string, files []domain.OutputFile) {
	if len(files) == 0 {
		return
	}
	w.out.WriteString("  ")
	w.out.WriteString(name)
	w.out.WriteString(" =")
	cmdOut := NewPathOutput(w.pathOutput.BuildDir(), EscapeNinjaCommand)
	cmdOut.WriteFiles(w.out, files)
	w.out.WriteByte('\n')
}

func trimFrameworkSuffix(name string) string {
	const suffix = ".framework"
	if hasSuffix(name, suffix) {
		return name[:len(name)-len(suffix)]
	}
	return name
}
