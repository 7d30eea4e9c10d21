package ninja

import (
	"bytes"

	"go.trai.ch/ninjagen/internal/core/domain"
	"go.trai.ch/ninjagen/internal/engine/scheduler"
)

// actionTargetWriter emits actions, per-source actions, copies, and the
// stamp-only grouping targets.
type actionTargetWriter struct {
	*targetWriter
}

func newActionTargetWriter(g *domain.Graph, t *domain.Target, sched *scheduler.Scheduler, out *bytes.Buffer) *actionTargetWriter {
	return &actionTargetWriter{targetWriter: newTargetWriter(g, t, sched, out)}
}

func (w *actionTargetWriter) run() {
	switch w.target.Type {
	case domain.OutputAction, domain.OutputActionForEach:
		w.writeAction()
	case domain.OutputCopy:
		w.writeCopy()
	default:
		// Groups, bundles, and Swift module groupings only need a stamp.
		w.writeGroupStamp()
	}
}

// actionRuleName returns the target-unique rule name for the action's
// command.
func (w *actionTargetWriter) actionRuleName() string {
	return w.rulePrefix + "__" + labelIdentifier(w.target.Label) + "___rule"
}

func (w *actionTargetWriter) writeAction() {
	action := w.target.Action
	if action == nil {
		panic("action writer invoked for target without action values: " + w.target.Label.String())
	}

	ruleName := w.actionRuleName()

	// The rule: the script followed by the argument templates, with
	// placeholders deferred to per-edge Ninja variables.
	w.out.WriteString("rule ")
	w.out.WriteString(ruleName)
	w.out.WriteString("\n  command = ")
	w.out.WriteString(EscapeString(
		w.pathOutput.RebasedSourcePath(action.Script), EscapeNinjaCommand))
	for _, arg := range action.Args.Patterns() {
		w.out.WriteByte(' ')
		w.out.WriteString(EncodePatternForRule(arg))
	}
	w.out.WriteString("\n  description = ACTION ")
	w.out.WriteString(EscapeString(w.target.Label.UserVisibleName(false), EscapeNinjaPreformatted))
	w.out.WriteString("\n  restat = 1\n")
	if action.Pool != "" {
		w.out.WriteString("  pool = ")
		w.out.WriteString(w.rulePrefix)
		w.out.WriteString(action.Pool)
		w.out.WriteByte('\n')
	}
	w.out.WriteByte('\n')

	inputDeps := w.writeInputDepsStampAndGetDep(nil, len(w.target.Sources)+1)

	var allOutputs []domain.OutputFile
	if w.target.Type == domain.OutputActionForEach {
		sourceSubs := usedSourceSubstitutions(action)
		for _, source := range w.target.Sources {
			outputs := domain.ApplyListToSourceAsOutputFiles(
				w.settings, w.target, action.Outputs, source)
			allOutputs = append(allOutputs, outputs...)

			w.out.WriteString("build")
			w.pathOutput.WriteFiles(w.out, outputs)
			w.out.WriteString(": ")
			w.out.WriteString(ruleName)
			w.pathOutput.WriteSourceFiles(w.out, []domain.SourceFile{source})
			w.out.WriteString(" | ")
			w.pathOutput.WriteSourceFile(w.out, action.Script)
			if len(inputDeps) > 0 {
				w.out.WriteString(" ||")
				w.pathOutput.WriteFiles(w.out, inputDeps)
			}
			w.out.WriteByte('\n')

			w.writeSourceVariables(sourceSubs, source)
			if !action.Depfile.Empty() {
				depfile := domain.ApplyPatternToSource(
					w.settings, w.target, action.Depfile, source)
				w.out.WriteString("  depfile = ")
				w.out.WriteString(EscapeString(depfile, EscapeNinja))
				w.out.WriteByte('\n')
			}
		}
	} else {
		allOutputs = w.expandActionOutputs()

		w.out.WriteString("build")
		w.pathOutput.WriteFiles(w.out, allOutputs)
		w.out.WriteString(": ")
		w.out.WriteString(ruleName)
		w.pathOutput.WriteSourceFiles(w.out, w.target.Sources)
		w.out.WriteString(" | ")
		w.pathOutput.WriteSourceFile(w.out, action.Script)
		if len(inputDeps) > 0 {
			w.out.WriteString(" ||")
			w.pathOutput.WriteFiles(w.out, inputDeps)
		}
		w.out.WriteByte('\n')

		// A single edge still has to bind the target-scope placeholders
		// the rule references.
		for _, sub := range usedSourceSubstitutions(action) {
			v, ok := domain.GetTargetSubstitution(w.settings, w.target, sub)
			if !ok {
				continue
			}
			w.out.WriteString("  ")
			w.out.WriteString(sub.NinjaName)
			w.out.WriteString(" = ")
			w.out.WriteString(EscapeString(v, EscapeNinja))
			w.out.WriteByte('\n')
		}
	}
	w.out.WriteByte('\n')

	for _, output := range allOutputs {
		w.sched.AddGeneratedFile(w.target, output)
	}

	w.writeDependencyStamp(allOutputs)
}

// expandActionOutputs expands a plain action's output templates, which may
// only reference target-scope placeholders.
func (w *actionTargetWriter) expandActionOutputs() []domain.OutputFile {
	var out []domain.OutputFile
	for _, p := range w.target.Action.Outputs.Patterns() {
		expanded, err := domain.ExpandPattern(p, func(sub *domain.Substitution) (string, bool) {
			return domain.GetTargetSubstitution(w.settings, w.target, sub)
		})
		if err != nil {
			w.sched.FailWithError(withTargetContext(
				domain.ErrInvalidSubstitution, w.target, "pattern", p.String()))
			return out
		}
		out = append(out, domain.NewOutputFile(expanded))
	}
	return out
}

// usedSourceSubstitutions collects the placeholders, other than {{source}}
// and {{output}}, that an action's argument and depfile templates
// reference, so each edge can bind them.
func usedSourceSubstitutions(action *domain.ActionValues) []*domain.Substitution {
	var out []*domain.Substitution
	seen := make(map[*domain.Substitution]bool)
	collect := func(subs []*domain.Substitution) {
		for _, s := range subs {
			if s == domain.SubstitutionSource || s == domain.SubstitutionOutput {
				continue // bound by ${in} and ${out}
			}
			if !seen[s] {
				seen[s] = true
				out = append(out, s)
			}
		}
	}
	collect(action.Args.Required())
	collect(action.Depfile.Required())
	return out
}

func (w *actionTargetWriter) writeSourceVariables(subs []*domain.Substitution, source domain.SourceFile) {
	for _, sub := range subs {
		v := domain.ApplyPatternToSource(w.settings, w.target,
			patternOf(sub), source)
		w.out.WriteString("  ")
		w.out.WriteString(sub.NinjaName)
		w.out.WriteString(" = ")
		w.out.WriteString(EscapeString(v, EscapeNinja))
		w.out.WriteByte('\n')
	}
}

// patternOf wraps a single placeholder as a pattern for expansion.
func patternOf(sub *domain.Substitution) domain.SubstitutionPattern {
	return domain.MustParsePattern(sub.Name)
}

func (w *actionTargetWriter) writeCopy() {
	tool := w.toolchain.Tool(domain.ToolCopy)
	if tool == nil {
		w.sched.FailWithError(withTargetContext(domain.ErrUnknownTool, w.target, "tool", domain.ToolCopy))
		return
	}

	outputsList := tool.Outputs()
	if w.target.Action != nil && !w.target.Action.Outputs.Empty() {
		outputsList = w.target.Action.Outputs
	}

	inputDeps := w.writeInputDepsStampAndGetDep(nil, len(w.target.Sources)+1)

	var allOutputs []domain.OutputFile
	for _, source := range w.target.Sources {
		outputs := domain.ApplyListToSourceAsOutputFiles(
			w.settings, w.target, outputsList, source)
		allOutputs = append(allOutputs, outputs...)
		w.writeCompilerBuildLine([]domain.SourceFile{source}, nil, inputDeps,
			domain.ToolCopy, outputs)
	}
	w.out.WriteByte('\n')

	for _, output := range allOutputs {
		w.sched.AddGeneratedFile(w.target, output)
	}

	w.writeDependencyStamp(allOutputs)
}

// writeGroupStamp emits the stamp edge standing in for a target that
// produces nothing itself: deps' outputs as inputs, data deps order-only.
func (w *actionTargetWriter) writeGroupStamp() {
	var inputs []domain.OutputFile
	for _, dep := range w.resolved.LinkedDeps(w.target) {
		if !dep.DependencyOutputFile.IsZero() {
			inputs = append(inputs, dep.DependencyOutputFile)
		}
	}
	stamp := w.dependencyStampFile()
	w.out.WriteString("build ")
	w.pathOutput.WriteFile(w.out, stamp)
	w.out.WriteString(": ")
	w.out.WriteString(w.rulePrefix)
	w.out.WriteString(domain.ToolStamp)
	w.pathOutput.WriteFiles(w.out, inputs)
	w.writeOrderOnlyDependencies(w.resolved.DataDeps(w.target))
	w.out.WriteByte('\n')
}

// writeDependencyStamp groups an action's outputs behind the target's
// dependency output so consumers wait on a single file.
func (w *actionTargetWriter) writeDependencyStamp(outputs []domain.OutputFile) {
	stamp := w.dependencyStampFile()
	w.writeStampEdge(stamp, outputs)
}

func (w *actionTargetWriter) dependencyStampFile() domain.OutputFile {
	if !w.target.DependencyOutputFile.IsZero() {
		return w.target.DependencyOutputFile
	}
	return w.objDirFile(".stamp")
}
