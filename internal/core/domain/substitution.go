package domain

import (
	"sort"
	"strings"

	"go.trai.ch/zerr"
)

// Substitution is a named placeholder usable inside tool templates, e.g.
// "{{source}}". Placeholders are identified by pointer; every occurrence of
// a given placeholder resolves to the same *Substitution.
//
// NinjaName is the variable name used when the placeholder is forwarded to
// Ninja rather than expanded by the emission core ("${cflags_cc}").
type Substitution struct {
	Name      string
	NinjaName string
}

// General substitutions, valid in every tool.
var (
	SubstitutionSource = &Substitution{"{{source}}", "in"}
	SubstitutionOutput = &Substitution{"{{output}}", "out"}

	SubstitutionSourceNamePart        = &Substitution{"{{source_name_part}}", "source_name_part"}
	SubstitutionSourceFilePart        = &Substitution{"{{source_file_part}}", "source_file_part"}
	SubstitutionSourceDir             = &Substitution{"{{source_dir}}", "source_dir"}
	SubstitutionSourceRootRelativeDir = &Substitution{"{{source_root_relative_dir}}", "source_root_relative_dir"}
	SubstitutionSourceGenDir          = &Substitution{"{{source_gen_dir}}", "source_gen_dir"}
	SubstitutionSourceOutDir          = &Substitution{"{{source_out_dir}}", "source_out_dir"}

	SubstitutionLabel            = &Substitution{"{{label}}", "label"}
	SubstitutionLabelName        = &Substitution{"{{label_name}}", "label_name"}
	SubstitutionLabelNoToolchain = &Substitution{"{{label_no_toolchain}}", "label_no_toolchain"}
	SubstitutionRootGenDir       = &Substitution{"{{root_gen_dir}}", "root_gen_dir"}
	SubstitutionRootOutDir       = &Substitution{"{{root_out_dir}}", "root_out_dir"}
	SubstitutionTargetGenDir     = &Substitution{"{{target_gen_dir}}", "target_gen_dir"}
	SubstitutionTargetOutDir     = &Substitution{"{{target_out_dir}}", "target_out_dir"}
	SubstitutionTargetOutputName = &Substitution{"{{target_output_name}}", "target_output_name"}
)

// Linker-tool substitutions.
var (
	SubstitutionOutputDir           = &Substitution{"{{output_dir}}", "output_dir"}
	SubstitutionOutputExtension     = &Substitution{"{{output_extension}}", "output_extension"}
	SubstitutionLinkerInputs        = &Substitution{"{{inputs}}", "in"}
	SubstitutionLinkerInputsNewline = &Substitution{"{{inputs_newline}}", "in_newline"}
	SubstitutionLdFlags             = &Substitution{"{{ldflags}}", "ldflags"}
	SubstitutionArFlags             = &Substitution{"{{arflags}}", "arflags"}
	SubstitutionLibs                = &Substitution{"{{libs}}", "libs"}
	SubstitutionSoLibs              = &Substitution{"{{solibs}}", "solibs"}
	SubstitutionRlibs               = &Substitution{"{{rlibs}}", "rlibs"}
	SubstitutionFrameworks          = &Substitution{"{{frameworks}}", "frameworks"}
	SubstitutionSwiftModules        = &Substitution{"{{swiftmodules}}", "swiftmodules"}
)

// C-family compiler substitutions.
var (
	CSubstitutionCFlags           = &Substitution{"{{cflags}}", "cflags"}
	CSubstitutionCFlagsC          = &Substitution{"{{cflags_c}}", "cflags_c"}
	CSubstitutionCFlagsCc         = &Substitution{"{{cflags_cc}}", "cflags_cc"}
	CSubstitutionCFlagsObjC       = &Substitution{"{{cflags_objc}}", "cflags_objc"}
	CSubstitutionCFlagsObjCc      = &Substitution{"{{cflags_objcc}}", "cflags_objcc"}
	CSubstitutionAsmFlags         = &Substitution{"{{asmflags}}", "asmflags"}
	CSubstitutionSwiftFlags       = &Substitution{"{{swiftflags}}", "swiftflags"}
	CSubstitutionDefines          = &Substitution{"{{defines}}", "defines"}
	CSubstitutionIncludeDirs      = &Substitution{"{{include_dirs}}", "include_dirs"}
	CSubstitutionModuleName       = &Substitution{"{{module_name}}", "module_name"}
	CSubstitutionModuleDeps       = &Substitution{"{{module_deps}}", "module_deps"}
	CSubstitutionModuleDepsNoSelf = &Substitution{"{{module_deps_no_self}}", "module_deps_no_self"}
)

// Rust compiler substitutions.
var (
	RustSubstitutionRustFlags = &Substitution{"{{rustflags}}", "rustflags"}
	RustSubstitutionRustEnv   = &Substitution{"{{rustenv}}", "rustenv"}
	RustSubstitutionCrateName = &Substitution{"{{crate_name}}", "crate_name"}
	RustSubstitutionCrateType = &Substitution{"{{crate_type}}", "crate_type"}
	RustSubstitutionRustDeps  = &Substitution{"{{rustdeps}}", "rustdeps"}
)

// General-tool extras.
var (
	SubstitutionRspFileName = &Substitution{"{{response_file_name}}", "rspfile"}
)

var allSubstitutions = []*Substitution{
	SubstitutionSource, SubstitutionOutput,
	SubstitutionSourceNamePart, SubstitutionSourceFilePart,
	SubstitutionSourceDir, SubstitutionSourceRootRelativeDir,
	SubstitutionSourceGenDir, SubstitutionSourceOutDir,
	SubstitutionLabel, SubstitutionLabelName, SubstitutionLabelNoToolchain,
	SubstitutionRootGenDir, SubstitutionRootOutDir,
	SubstitutionTargetGenDir, SubstitutionTargetOutDir,
	SubstitutionTargetOutputName,
	SubstitutionOutputDir, SubstitutionOutputExtension,
	SubstitutionLinkerInputs, SubstitutionLinkerInputsNewline,
	SubstitutionLdFlags, SubstitutionArFlags, SubstitutionLibs,
	SubstitutionSoLibs, SubstitutionRlibs, SubstitutionFrameworks,
	SubstitutionSwiftModules,
	CSubstitutionCFlags, CSubstitutionCFlagsC, CSubstitutionCFlagsCc,
	CSubstitutionCFlagsObjC, CSubstitutionCFlagsObjCc,
	CSubstitutionAsmFlags, CSubstitutionSwiftFlags,
	CSubstitutionDefines, CSubstitutionIncludeDirs,
	CSubstitutionModuleName, CSubstitutionModuleDeps, CSubstitutionModuleDepsNoSelf,
	RustSubstitutionRustFlags, RustSubstitutionRustEnv,
	RustSubstitutionCrateName, RustSubstitutionCrateType,
	RustSubstitutionRustDeps,
	SubstitutionRspFileName,
}

var substitutionsByName = func() map[string]*Substitution {
	m := make(map[string]*Substitution, len(allSubstitutions))
	for _, s := range allSubstitutions {
		m[s.Name] = s
	}
	return m
}()

// SubstitutionRange is one segment of a pattern: either a literal chunk or
// a placeholder reference. Exactly one of the two fields is meaningful.
type SubstitutionRange struct {
	Literal string
	Subst   *Substitution // nil for literal ranges
}

// IsLiteral reports whether this range carries literal text.
func (r SubstitutionRange) IsLiteral() bool { return r.Subst == nil }

// SubstitutionPattern is an ordered sequence of literal chunks and
// placeholder references parsed from a template string such as
// "clang -c {{source}} -o {{output}}".
type SubstitutionPattern struct {
	ranges []SubstitutionRange
}

// ParsePattern parses a template string into a pattern. Unknown
// placeholders are an error.
func ParsePattern(s string) (SubstitutionPattern, error) {
	var p SubstitutionPattern
	for len(s) > 0 {
		open := strings.Index(s, "{{")
		if open < 0 {
			p.ranges = append(p.ranges, SubstitutionRange{Literal: s})
			break
		}
		if open > 0 {
			p.ranges = append(p.ranges, SubstitutionRange{Literal: s[:open]})
		}
		s = s[open:]
		closing := strings.Index(s, "}}")
		if closing < 0 {
			return SubstitutionPattern{}, zerr.With(ErrInvalidSubstitution, "pattern", s)
		}
		name := s[:closing+2]
		sub, ok := substitutionsByName[name]
		if !ok {
			return SubstitutionPattern{}, zerr.With(ErrInvalidSubstitution, "placeholder", name)
		}
		p.ranges = append(p.ranges, SubstitutionRange{Subst: sub})
		s = s[closing+2:]
	}
	return p, nil
}

// MustParsePattern is ParsePattern for statically known templates.
func MustParsePattern(s string) SubstitutionPattern {
	p, err := ParsePattern(s)
	if err != nil {
		panic(err)
	}
	return p
}

// Ranges returns the ordered segments of the pattern.
func (p SubstitutionPattern) Ranges() []SubstitutionRange { return p.ranges }

// Empty reports whether the pattern has no segments.
func (p SubstitutionPattern) Empty() bool { return len(p.ranges) == 0 }

// String reassembles the original template text.
func (p SubstitutionPattern) String() string {
	var sb strings.Builder
	for _, r := range p.ranges {
		if r.IsLiteral() {
			sb.WriteString(r.Literal)
		} else {
			sb.WriteString(r.Subst.Name)
		}
	}
	return sb.String()
}

// Required returns the distinct placeholders the pattern references, in
// first-occurrence order.
func (p SubstitutionPattern) Required() []*Substitution {
	var out []*Substitution
	seen := make(map[*Substitution]bool)
	for _, r := range p.ranges {
		if r.Subst != nil && !seen[r.Subst] {
			seen[r.Subst] = true
			out = append(out, r.Subst)
		}
	}
	return out
}

// SubstitutionList is an ordered sequence of patterns, used for tool output
// lists and action argument lists.
type SubstitutionList struct {
	patterns []SubstitutionPattern
}

// ParseList parses each template string into a pattern.
func ParseList(templates []string) (SubstitutionList, error) {
	var l SubstitutionList
	for _, t := range templates {
		p, err := ParsePattern(t)
		if err != nil {
			return SubstitutionList{}, err
		}
		l.patterns = append(l.patterns, p)
	}
	return l, nil
}

// MustParseList is ParseList for statically known templates.
func MustParseList(templates ...string) SubstitutionList {
	l, err := ParseList(templates)
	if err != nil {
		panic(err)
	}
	return l
}

// Patterns returns the ordered patterns.
func (l SubstitutionList) Patterns() []SubstitutionPattern { return l.patterns }

// Empty reports whether the list has no patterns.
func (l SubstitutionList) Empty() bool { return len(l.patterns) == 0 }

// Required returns the distinct placeholders referenced by any pattern.
func (l SubstitutionList) Required() []*Substitution {
	var out []*Substitution
	seen := make(map[*Substitution]bool)
	for _, p := range l.patterns {
		for _, s := range p.Required() {
			if !seen[s] {
				seen[s] = true
				out = append(out, s)
			}
		}
	}
	return out
}

// SubstitutionBits is the set of placeholders referenced anywhere in a
// toolchain's tools. Writers consult it to avoid emitting variables no rule
// reads.
type SubstitutionBits struct {
	used map[*Substitution]bool
}

// Used reports whether the placeholder is referenced.
func (b *SubstitutionBits) Used(s *Substitution) bool { return b.used[s] }

// MergePattern records every placeholder in p.
func (b *SubstitutionBits) MergePattern(p SubstitutionPattern) {
	for _, s := range p.Required() {
		b.mark(s)
	}
}

// MergeList records every placeholder in l.
func (b *SubstitutionBits) MergeList(l SubstitutionList) {
	for _, p := range l.patterns {
		b.MergePattern(p)
	}
}

func (b *SubstitutionBits) mark(s *Substitution) {
	if b.used == nil {
		b.used = make(map[*Substitution]bool)
	}
	b.used[s] = true
}

// List returns the referenced placeholders sorted by name, for
// deterministic emission.
func (b *SubstitutionBits) List() []*Substitution {
	out := make([]*Substitution, 0, len(b.used))
	for s := range b.used {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
