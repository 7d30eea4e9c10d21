package ninja

import "go.trai.ch/ninjagen/internal/core/domain"

// writeSwiftSources emits the single compile edge of a Swift-building
// target. All Swift sources compile as one unit whose primary output is
// the .swiftmodule; the tool's other outputs (and per-source partial
// outputs, when declared) hang off a stamp so downstream edges depend on a
// single file.
func (w *cBinaryTargetWriter) writeSwiftSources(inputDeps, orderOnlyDeps []domain.OutputFile) []domain.OutputFile {
	if w.target.Swift == nil {
		panic("swift sources on a target without swift values: " + w.target.Label.String())
	}
	tool := w.toolchain.Tool(domain.ToolSwift)
	if tool == nil {
		w.sched.FailWithError(withTargetContext(domain.ErrUnknownTool, w.target, "tool", domain.ToolSwift))
		return nil
	}

	var objFiles []domain.OutputFile

	swiftmoduleOutput := w.target.Swift.ModuleOutputFile

	additionalOutputs := domain.ApplyListToLinkerAsOutputFiles(
		w.settings, w.target, tool, tool.Outputs())
	additionalOutputs = removeOutput(additionalOutputs, swiftmoduleOutput)

	for _, output := range additionalOutputs {
		if output.AsSourceFile(w.settings.Build.BuildDir).IsObjectType() {
			objFiles = append(objFiles, output)
		}
	}

	if c := tool.AsC(); c != nil && !c.PartialOutputs.Empty() {
		for _, source := range w.target.Sources {
			if !source.IsSwiftType() {
				continue
			}
			partials := domain.ApplyListToSourceAsOutputFiles(
				w.settings, w.target, c.PartialOutputs, source)
			for _, output := range partials {
				additionalOutputs = append(additionalOutputs, output)
				if output.AsSourceFile(w.settings.Build.BuildDir).IsObjectType() {
					objFiles = append(objFiles, output)
				}
			}
		}
	}

	// The target waits for the Swift modules of its Swift-building deps;
	// order-only is enough because the compiler rediscovers real module
	// dependencies itself.
	swiftOrderOnly := make([]domain.OutputFile, 0, len(orderOnlyDeps))
	seen := make(map[string]bool)
	appendUnique := func(f domain.OutputFile) {
		if f.IsZero() || seen[f.Value()] {
			return
		}
		seen[f.Value()] = true
		swiftOrderOnly = append(swiftOrderOnly, f)
	}
	for _, f := range orderOnlyDeps {
		appendUnique(f)
	}
	for _, dep := range w.resolved.SwiftModuleDeps(w.target) {
		appendUnique(dep.DependencyOutputFile)
	}

	w.writeCompilerBuildLine(w.target.Sources, inputDeps, swiftOrderOnly,
		tool.Name(), []domain.OutputFile{swiftmoduleOutput})

	if len(additionalOutputs) > 0 {
		w.out.WriteByte('\n')
		w.writeCompilerBuildLine(
			[]domain.SourceFile{swiftmoduleOutput.AsSourceFile(w.settings.Build.BuildDir)},
			inputDeps, swiftOrderOnly, domain.ToolStamp, additionalOutputs)
	}

	w.out.WriteByte('\n')
	return objFiles
}

func removeOutput(files []domain.OutputFile, victim domain.OutputFile) []domain.OutputFile {
	out := files[:0]
	for _, f := range files {
		if f != victim {
			out = append(out, f)
		}
	}
	return out
}
