package domain

import "go.trai.ch/zerr"

// Tool names are stable identifiers used for lookup in a toolchain.
const (
	ToolNone = ""

	ToolCc        = "cc"
	ToolCxx       = "cxx"
	ToolCxxModule = "cxx_module"
	ToolObjC      = "objc"
	ToolObjCxx    = "objcxx"
	ToolAsm       = "asm"
	ToolSwift     = "swift"

	ToolAlink        = "alink"
	ToolSolink       = "solink"
	ToolSolinkModule = "solink_module"
	ToolLink         = "link"

	ToolStamp = "stamp"
	ToolCopy  = "copy"

	ToolRustBin       = "rust_bin"
	ToolRustRlib      = "rust_rlib"
	ToolRustDylib     = "rust_dylib"
	ToolRustCDylib    = "rust_cdylib"
	ToolRustStaticlib = "rust_staticlib"
	ToolRustProcMacro = "rust_macro"
)

// ToolKind tags the tool variant.
type ToolKind int

const (
	ToolKindGeneral ToolKind = iota
	ToolKindC
	ToolKindRust
)

// PCHType selects the precompiled header policy of a C-family tool.
type PCHType int

const (
	PCHNone PCHType = iota
	PCHMSVC
	PCHGCC
)

// CTool holds the C-family specialization of a tool.
type CTool struct {
	PrecompiledHeaderType PCHType

	// DepsFormat is the value of the Ninja "deps" rule attribute ("gcc" or
	// "msvc"); empty means the rule has no deps line.
	DepsFormat string

	// LinkOutput and DependOutput name which of the tool's outputs other
	// targets link against vs. depend on. When both are empty the first
	// output serves both roles.
	LinkOutput   SubstitutionPattern
	DependOutput SubstitutionPattern

	// PartialOutputs are per-source outputs of a Swift compile.
	PartialOutputs SubstitutionList

	// Linker switches. Empty values fall back to the conventional Unix
	// spellings at emission time.
	LibSwitch          string
	LibDirSwitch       string
	FrameworkSwitch    string
	FrameworkDirSwitch string
	SwiftModuleSwitch  string
}

// RustTool holds the Rust specialization of a tool.
type RustTool struct {
	// MayLink is true for crate types whose output participates in linking
	// directly (bin, dylib, cdylib, proc-macro).
	MayLink bool
}

// Tool describes one toolchain entry: the command template, its outputs,
// and the rule attributes emitted for it. A tool is mutable until
// Complete() is called, after which any setter panics.
type Tool struct {
	name string
	kind ToolKind

	command                SubstitutionPattern
	defaultOutputExtension string
	defaultOutputDir       SubstitutionPattern
	depfile                SubstitutionPattern
	description            SubstitutionPattern
	outputs                SubstitutionList
	runtimeOutputs         SubstitutionList
	outputPrefix           string
	restat                 bool
	rspfile                SubstitutionPattern
	rspfileContent         SubstitutionPattern
	pool                   string

	c    *CTool
	rust *RustTool

	complete bool
}

// NewTool creates a tool of the kind implied by its name: C-family for
// compiler and linker names, Rust for rust_* names, general otherwise.
func NewTool(name string) *Tool {
	switch name {
	case ToolCc, ToolCxx, ToolCxxModule, ToolObjC, ToolObjCxx, ToolAsm, ToolSwift,
		ToolAlink, ToolSolink, ToolSolinkModule, ToolLink:
		return &Tool{name: name, kind: ToolKindC, c: &CTool{}}
	case ToolRustBin, ToolRustRlib, ToolRustDylib, ToolRustCDylib,
		ToolRustStaticlib, ToolRustProcMacro:
		return &Tool{name: name, kind: ToolKindRust, rust: &RustTool{}}
	default:
		return &Tool{name: name, kind: ToolKindGeneral}
	}
}

// Name returns the tool's stable name.
func (t *Tool) Name() string { return t.name }

// Kind returns the variant tag.
func (t *Tool) Kind() ToolKind { return t.kind }

// AsC returns the C specialization, or nil for other kinds.
func (t *Tool) AsC() *CTool { return t.c }

// AsRust returns the Rust specialization, or nil for other kinds.
func (t *Tool) AsRust() *RustTool { return t.rust }

func (t *Tool) mutable() {
	if t.complete {
		panic("tool " + t.name + " mutated after Complete")
	}
}

// Command returns the command template.
func (t *Tool) Command() SubstitutionPattern { return t.command }

// SetCommand sets the command template.
func (t *Tool) SetCommand(p SubstitutionPattern) { t.mutable(); t.command = p }

// DefaultOutputExtension returns the extension applied when the target does
// not override it. Includes the leading dot when nonempty.
func (t *Tool) DefaultOutputExtension() string { return t.defaultOutputExtension }

// SetDefaultOutputExtension sets the default extension. It must be empty or
// start with a dot.
func (t *Tool) SetDefaultOutputExtension(ext string) {
	t.mutable()
	if ext != "" && ext[0] != '.' {
		panic("output extension must start with a dot: " + ext)
	}
	t.defaultOutputExtension = ext
}

// DefaultOutputDir returns the directory applied when the target does not
// override it.
func (t *Tool) DefaultOutputDir() SubstitutionPattern { return t.defaultOutputDir }

// SetDefaultOutputDir sets the default output directory pattern.
func (t *Tool) SetDefaultOutputDir(p SubstitutionPattern) { t.mutable(); t.defaultOutputDir = p }

// Depfile returns the depfile template.
func (t *Tool) Depfile() SubstitutionPattern { return t.depfile }

// SetDepfile sets the depfile template.
func (t *Tool) SetDepfile(p SubstitutionPattern) { t.mutable(); t.depfile = p }

// Description returns the description template.
func (t *Tool) Description() SubstitutionPattern { return t.description }

// SetDescription sets the description template.
func (t *Tool) SetDescription(p SubstitutionPattern) { t.mutable(); t.description = p }

// Outputs returns the output template list.
func (t *Tool) Outputs() SubstitutionList { return t.outputs }

// SetOutputs sets the output template list.
func (t *Tool) SetOutputs(l SubstitutionList) { t.mutable(); t.outputs = l }

// RuntimeOutputs returns the runtime-output template list.
func (t *Tool) RuntimeOutputs() SubstitutionList { return t.runtimeOutputs }

// SetRuntimeOutputs sets the runtime-output template list.
func (t *Tool) SetRuntimeOutputs(l SubstitutionList) { t.mutable(); t.runtimeOutputs = l }

// OutputPrefix returns the prefix prepended to the target output name
// ("lib" for most linkers).
func (t *Tool) OutputPrefix() string { return t.outputPrefix }

// SetOutputPrefix sets the output prefix.
func (t *Tool) SetOutputPrefix(s string) { t.mutable(); t.outputPrefix = s }

// Restat reports whether rules for this tool carry "restat = 1".
func (t *Tool) Restat() bool { return t.restat }

// SetRestat sets the restat flag.
func (t *Tool) SetRestat(r bool) { t.mutable(); t.restat = r }

// Rspfile returns the response file name template.
func (t *Tool) Rspfile() SubstitutionPattern { return t.rspfile }

// SetRspfile sets the response file name template.
func (t *Tool) SetRspfile(p SubstitutionPattern) { t.mutable(); t.rspfile = p }

// RspfileContent returns the response file content template.
func (t *Tool) RspfileContent() SubstitutionPattern { return t.rspfileContent }

// SetRspfileContent sets the response file content template.
func (t *Tool) SetRspfileContent(p SubstitutionPattern) { t.mutable(); t.rspfileContent = p }

// Pool returns the name of the pool rules for this tool run in, or "".
func (t *Tool) Pool() string { return t.pool }

// SetPool sets the pool name.
func (t *Tool) SetPool(name string) { t.mutable(); t.pool = name }

// Complete seals the tool. Every placeholder referenced by its templates,
// except the description, is validated against the tool's allowed set;
// afterwards no field may change.
func (t *Tool) Complete() error {
	if t.complete {
		return nil
	}
	if err := t.validateTemplates(); err != nil {
		return err
	}
	if t.kind == ToolKindRust {
		switch t.name {
		case ToolRustBin, ToolRustDylib, ToolRustCDylib, ToolRustProcMacro:
			t.rust.MayLink = true
		}
	}
	t.complete = true
	return nil
}

// IsComplete reports whether the tool has been sealed.
func (t *Tool) IsComplete() bool { return t.complete }

// SubstitutionBits returns the placeholders referenced by this tool's
// templates. Only valid on a completed tool.
func (t *Tool) SubstitutionBits() SubstitutionBits {
	if !t.complete {
		panic("substitution bits queried before Complete")
	}
	var bits SubstitutionBits
	bits.MergePattern(t.command)
	bits.MergePattern(t.depfile)
	bits.MergePattern(t.description)
	bits.MergePattern(t.rspfile)
	bits.MergePattern(t.rspfileContent)
	bits.MergePattern(t.defaultOutputDir)
	bits.MergeList(t.outputs)
	bits.MergeList(t.runtimeOutputs)
	if t.c != nil {
		bits.MergePattern(t.c.LinkOutput)
		bits.MergePattern(t.c.DependOutput)
		bits.MergeList(t.c.PartialOutputs)
	}
	return bits
}

func (t *Tool) validateTemplates() error {
	check := func(p SubstitutionPattern) error {
		for _, s := range p.Required() {
			if !t.ValidateSubstitution(s) {
				return zerr.With(zerr.With(ErrInvalidSubstitution, "tool", t.name),
					"placeholder", s.Name)
			}
		}
		return nil
	}
	checkList := func(l SubstitutionList) error {
		for _, p := range l.Patterns() {
			if err := check(p); err != nil {
				return err
			}
		}
		return nil
	}
	for _, p := range []SubstitutionPattern{t.command, t.depfile, t.rspfile,
		t.rspfileContent, t.defaultOutputDir} {
		if err := check(p); err != nil {
			return err
		}
	}
	if err := checkList(t.outputs); err != nil {
		return err
	}
	if err := checkList(t.runtimeOutputs); err != nil {
		return err
	}
	if t.c != nil {
		for _, p := range []SubstitutionPattern{t.c.LinkOutput, t.c.DependOutput} {
			if err := check(p); err != nil {
				return err
			}
		}
		if err := checkList(t.c.PartialOutputs); err != nil {
			return err
		}
	}
	// Descriptions may reference any known placeholder.
	return nil
}

// ValidateSubstitution reports whether the placeholder is allowed in this
// tool's templates.
func (t *Tool) ValidateSubstitution(s *Substitution) bool {
	if isTargetSubstitution(s) {
		return true
	}
	switch t.kind {
	case ToolKindC:
		if t.isCLinker() {
			return isLinkerSubstitution(s)
		}
		return isCCompilerSubstitution(s)
	case ToolKindRust:
		return isRustSubstitution(s) || isLinkerSubstitution(s)
	default:
		return isGeneralToolSubstitution(s)
	}
}

func (t *Tool) isCLinker() bool {
	switch t.name {
	case ToolAlink, ToolSolink, ToolSolinkModule, ToolLink:
		return true
	}
	return false
}

// isTargetSubstitution covers placeholders bound from the target alone,
// valid everywhere.
func isTargetSubstitution(s *Substitution) bool {
	switch s {
	case SubstitutionLabel, SubstitutionLabelName, SubstitutionLabelNoToolchain,
		SubstitutionRootGenDir, SubstitutionRootOutDir,
		SubstitutionTargetGenDir, SubstitutionTargetOutDir,
		SubstitutionTargetOutputName:
		return true
	}
	return false
}

func isSourceSubstitution(s *Substitution) bool {
	switch s {
	case SubstitutionSource, SubstitutionSourceNamePart,
		SubstitutionSourceFilePart, SubstitutionSourceDir,
		SubstitutionSourceRootRelativeDir, SubstitutionSourceGenDir,
		SubstitutionSourceOutDir:
		return true
	}
	return false
}

func isCCompilerSubstitution(s *Substitution) bool {
	if isSourceSubstitution(s) || s == SubstitutionOutput {
		return true
	}
	switch s {
	case CSubstitutionCFlags, CSubstitutionCFlagsC, CSubstitutionCFlagsCc,
		CSubstitutionCFlagsObjC, CSubstitutionCFlagsObjCc,
		CSubstitutionAsmFlags, CSubstitutionSwiftFlags,
		CSubstitutionDefines, CSubstitutionIncludeDirs,
		CSubstitutionModuleName, CSubstitutionModuleDeps,
		CSubstitutionModuleDepsNoSelf:
		return true
	}
	return false
}

func isLinkerSubstitution(s *Substitution) bool {
	switch s {
	case SubstitutionOutput, SubstitutionOutputDir, SubstitutionOutputExtension,
		SubstitutionLinkerInputs, SubstitutionLinkerInputsNewline,
		SubstitutionLdFlags, SubstitutionArFlags, SubstitutionLibs,
		SubstitutionSoLibs, SubstitutionRlibs, SubstitutionFrameworks,
		SubstitutionSwiftModules, SubstitutionRspFileName:
		return true
	}
	return false
}

func isRustSubstitution(s *Substitution) bool {
	if isSourceSubstitution(s) || s == SubstitutionOutput {
		return true
	}
	switch s {
	case RustSubstitutionRustFlags, RustSubstitutionRustEnv,
		RustSubstitutionCrateName, RustSubstitutionCrateType,
		RustSubstitutionRustDeps:
		return true
	}
	return false
}

func isGeneralToolSubstitution(s *Substitution) bool {
	return isSourceSubstitution(s) || s == SubstitutionSource ||
		s == SubstitutionOutput || s == SubstitutionLinkerInputs ||
		s == SubstitutionLinkerInputsNewline || s == SubstitutionOutputDir ||
		s == SubstitutionOutputExtension || s == SubstitutionRspFileName
}

// ToolForSourceType returns the tool name that compiles the given source
// type, or ToolNone when the source is consumed elsewhere (linker inputs,
// headers).
func ToolForSourceType(t SourceType) string {
	switch t {
	case SourceC:
		return ToolCc
	case SourceCPP:
		return ToolCxx
	case SourceM:
		return ToolObjC
	case SourceMM:
		return ToolObjCxx
	case SourceS:
		return ToolAsm
	case SourceModuleMap:
		return ToolCxxModule
	case SourceSwift:
		return ToolSwift
	}
	return ToolNone
}
