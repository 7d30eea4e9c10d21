package domain

import (
	"sort"

	"go.trai.ch/zerr"
)

// Pool limits the concurrency of the rules that reference it.
type Pool struct {
	Name  string
	Depth int
}

// Toolchain is a named set of tools plus the union of the placeholders its
// tools reference. A toolchain is mutable until Seal() succeeds, after
// which it is immutable.
type Toolchain struct {
	label  Label
	tools  map[string]*Tool
	pools  map[string]Pool
	bits   SubstitutionBits
	sealed bool
}

// NewToolchain creates an empty toolchain with the given label.
func NewToolchain(label Label) *Toolchain {
	return &Toolchain{
		label: label,
		tools: make(map[string]*Tool),
		pools: make(map[string]Pool),
	}
}

// Label returns the toolchain's label.
func (tc *Toolchain) Label() Label { return tc.label }

// SetTool registers a tool under its name. Panics when called after Seal.
func (tc *Toolchain) SetTool(t *Tool) {
	if tc.sealed {
		panic("toolchain " + tc.label.String() + " mutated after Seal")
	}
	tc.tools[t.Name()] = t
}

// SetPool registers a pool definition. Panics when called after Seal.
func (tc *Toolchain) SetPool(p Pool) {
	if tc.sealed {
		panic("toolchain " + tc.label.String() + " mutated after Seal")
	}
	tc.pools[p.Name] = p
}

// Seal completes every tool and merges their substitution bits. After a
// successful Seal the toolchain never changes.
func (tc *Toolchain) Seal() error {
	if tc.sealed {
		return nil
	}
	for _, t := range tc.tools {
		if err := t.Complete(); err != nil {
			return zerr.With(err, "toolchain", tc.label.String())
		}
		bits := t.SubstitutionBits()
		for _, s := range bits.List() {
			tc.bits.mark(s)
		}
	}
	tc.sealed = true
	return nil
}

// Tool returns the named tool, or nil when the toolchain does not define
// it.
func (tc *Toolchain) Tool(name string) *Tool {
	if name == ToolNone {
		return nil
	}
	return tc.tools[name]
}

// Pools returns the pool definitions sorted by name.
func (tc *Toolchain) Pools() []Pool {
	out := make([]Pool, 0, len(tc.pools))
	for _, p := range tc.pools {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// ToolNames returns the defined tool names sorted for deterministic
// emission.
func (tc *Toolchain) ToolNames() []string {
	out := make([]string, 0, len(tc.tools))
	for name := range tc.tools {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// SubstitutionBits returns the union of placeholders referenced by the
// toolchain's tools. Only valid after Seal.
func (tc *Toolchain) SubstitutionBits() *SubstitutionBits {
	if !tc.sealed {
		panic("substitution bits queried before Seal")
	}
	return &tc.bits
}

// ToolForSourceTypeOf returns the tool compiling the given source type, or
// nil.
func (tc *Toolchain) ToolForSourceTypeOf(t SourceType) *Tool {
	return tc.Tool(ToolForSourceType(t))
}

// ToolNameForTargetFinalOutput maps a target's output type to the tool that
// produces its final output.
func ToolNameForTargetFinalOutput(t *Target) string {
	switch t.Type {
	case OutputExecutable:
		if t.Rust != nil {
			return ToolRustBin
		}
		return ToolLink
	case OutputSharedLibrary:
		if t.Rust != nil {
			return rustToolForCrate(t.Rust.CrateType)
		}
		return ToolSolink
	case OutputLoadableModule:
		if t.Rust != nil {
			return rustToolForCrate(t.Rust.CrateType)
		}
		return ToolSolinkModule
	case OutputStaticLibrary:
		if t.Rust != nil {
			return rustToolForCrate(t.Rust.CrateType)
		}
		return ToolAlink
	case OutputRustLibrary:
		return ToolRustRlib
	case OutputRustProcMacro:
		return ToolRustProcMacro
	case OutputCopy:
		return ToolCopy
	case OutputSourceSet, OutputGroup, OutputBundle, OutputSwiftModule:
		return ToolStamp
	}
	return ToolNone
}

func rustToolForCrate(ct CrateType) string {
	switch ct {
	case CrateBin:
		return ToolRustBin
	case CrateRlib:
		return ToolRustRlib
	case CrateDylib:
		return ToolRustDylib
	case CrateCDylib:
		return ToolRustCDylib
	case CrateStaticlib:
		return ToolRustStaticlib
	case CrateProcMacro:
		return ToolRustProcMacro
	}
	return ToolNone
}
