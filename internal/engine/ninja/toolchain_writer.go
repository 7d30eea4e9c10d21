package ninja

import (
	"bytes"
	"strconv"

	"go.trai.ch/ninjagen/internal/core/domain"
)

// toolchainWriter emits one toolchain.ninja: pool blocks, one rule per
// tool, then include lines pulling in every per-target fragment of the
// toolchain.
type toolchainWriter struct {
	graph      *domain.Graph
	toolchain  *domain.Toolchain
	settings   *domain.Settings
	out        *bytes.Buffer
	rulePrefix string
}

// WriteToolchainFile renders the rules file for one toolchain and the
// includes for the given targets.
func WriteToolchainFile(g *domain.Graph, tc *domain.Toolchain, targets []*domain.Target, out *bytes.Buffer) {
	settings := g.SettingsFor(tc.Label())
	w := &toolchainWriter{
		graph:      g,
		toolchain:  tc,
		settings:   settings,
		out:        out,
		rulePrefix: RulePrefixForToolchain(settings),
	}
	w.run(targets)
}

func (w *toolchainWriter) run(targets []*domain.Target) {
	w.writePools()
	w.writeRules()

	for _, t := range targets {
		w.out.WriteString("include ")
		w.out.WriteString(EscapeString(w.graph.NinjaFileForTarget(t).Value(), EscapeNinja))
		w.out.WriteByte('\n')
	}
}

func (w *toolchainWriter) writePools() {
	for _, pool := range w.toolchain.Pools() {
		w.out.WriteString("pool ")
		w.out.WriteString(w.rulePrefix)
		w.out.WriteString(pool.Name)
		w.out.WriteString("\n  depth = ")
		w.out.WriteString(strconv.Itoa(pool.Depth))
		w.out.WriteString("\n\n")
	}
}

func (w *toolchainWriter) writeRules() {
	for _, name := range w.toolchain.ToolNames() {
		tool := w.toolchain.Tool(name)
		if tool.Command().Empty() {
			continue
		}
		w.writeToolRule(name, tool)
	}
}

func (w *toolchainWriter) writeToolRule(name string, tool *domain.Tool) {
	w.out.WriteString("rule ")
	w.out.WriteString(EscapeString(w.rulePrefix+name, EscapeNinja))
	w.out.WriteByte('\n')

	w.writeRulePattern("command", tool.Command())
	w.writeRulePattern("description", tool.Description())
	w.writeRulePattern("depfile", tool.Depfile())
	if c := tool.AsC(); c != nil && c.DepsFormat != "" && !tool.Depfile().Empty() {
		w.out.WriteString("  deps = ")
		w.out.WriteString(c.DepsFormat)
		w.out.WriteByte('\n')
	}
	w.writeRulePattern("rspfile", tool.Rspfile())
	w.writeRulePattern("rspfile_content", tool.RspfileContent())
	if tool.Restat() {
		w.out.WriteString("  restat = 1\n")
	}
	if tool.Pool() != "" {
		w.out.WriteString("  pool = ")
		w.out.WriteString(w.rulePrefix)
		w.out.WriteString(tool.Pool())
		w.out.WriteByte('\n')
	}
	w.out.WriteByte('\n')
}

func (w *toolchainWriter) writeRulePattern(attr string, p domain.SubstitutionPattern) {
	if p.Empty() {
		return
	}
	w.out.WriteString("  ")
	w.out.WriteString(attr)
	w.out.WriteString(" = ")
	w.out.WriteString(EncodePatternForRule(p))
	w.out.WriteByte('\n')
}
