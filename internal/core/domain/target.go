package domain

// OutputType classifies what a target produces.
type OutputType int

const (
	OutputUnknown OutputType = iota
	OutputGroup
	OutputExecutable
	OutputSharedLibrary
	OutputLoadableModule
	OutputStaticLibrary
	OutputSourceSet
	OutputCopy
	OutputAction
	OutputActionForEach
	OutputBundle
	OutputRustLibrary
	OutputRustProcMacro
	OutputSwiftModule
)

// String returns the manifest spelling of the output type.
func (t OutputType) String() string {
	switch t {
	case OutputGroup:
		return "group"
	case OutputExecutable:
		return "executable"
	case OutputSharedLibrary:
		return "shared_library"
	case OutputLoadableModule:
		return "loadable_module"
	case OutputStaticLibrary:
		return "static_library"
	case OutputSourceSet:
		return "source_set"
	case OutputCopy:
		return "copy"
	case OutputAction:
		return "action"
	case OutputActionForEach:
		return "action_foreach"
	case OutputBundle:
		return "bundle"
	case OutputRustLibrary:
		return "rust_library"
	case OutputRustProcMacro:
		return "rust_proc_macro"
	case OutputSwiftModule:
		return "swift_module"
	}
	return "unknown"
}

// CrateType is the Rust crate kind of a Rust target.
type CrateType int

const (
	CrateBin CrateType = iota
	CrateRlib
	CrateDylib
	CrateCDylib
	CrateStaticlib
	CrateProcMacro
)

// String returns the rustc spelling of the crate type.
func (c CrateType) String() string {
	switch c {
	case CrateBin:
		return "bin"
	case CrateRlib:
		return "rlib"
	case CrateDylib:
		return "dylib"
	case CrateCDylib:
		return "cdylib"
	case CrateStaticlib:
		return "staticlib"
	case CrateProcMacro:
		return "proc-macro"
	}
	return "bin"
}

// SwiftValues is the Swift-specific sub-record of a target.
type SwiftValues struct {
	ModuleName string

	// ModuleOutputFile is the .swiftmodule produced by the target's single
	// Swift compile edge.
	ModuleOutputFile OutputFile
}

// RustValues is the Rust-specific sub-record of a target.
type RustValues struct {
	CrateName string
	CrateRoot SourceFile
	CrateType CrateType
}

// ActionValues is the action/action_foreach sub-record of a target.
type ActionValues struct {
	Script               SourceFile
	Args                 SubstitutionList
	Outputs              SubstitutionList
	Depfile              SubstitutionPattern
	ResponseFileContents SubstitutionList
	Pool                 string
}

// BundleValues is the bundle sub-record of a target.
type BundleValues struct {
	// IsFramework marks framework bundles; their stamp becomes an implicit
	// dependency of linking consumers.
	IsFramework bool
}

// Target is one node of the resolved build graph. It is constructed by the
// front-end (or the manifest loader) and read-only during emission.
type Target struct {
	Label Label
	Type  OutputType

	Sources []SourceFile

	PublicDeps  []Label
	PrivateDeps []Label
	DataDeps    []Label

	Toolchain Label
	Config    ConfigValues

	// OutputName is the base name of the final output; defaults to
	// Label.Name. ComputedOutputName additionally carries the final-output
	// tool's prefix and is what {{target_output_name}} binds to.
	OutputName         string
	ComputedOutputName string

	// OutputExtension overrides the tool default when OutputExtensionSet.
	// An empty override with the flag set means "no extension".
	OutputExtension    string
	OutputExtensionSet bool

	// OutputDir overrides the tool's default output dir when nonempty
	// (build-dir-relative).
	OutputDir string

	// RuntimeDepsOutputFile, when set, names a runtime-deps listing for the
	// target. The writer registers such targets with the scheduler; the
	// listing itself is not written.
	RuntimeDepsOutputFile OutputFile

	// LinkOutputFile is what consumers pass to their linker;
	// DependencyOutputFile is what consumers depend on. They differ for
	// shared libraries with separate interface files (.so vs .so.TOC).
	LinkOutputFile       OutputFile
	DependencyOutputFile OutputFile

	Swift  *SwiftValues
	Rust   *RustValues
	Action *ActionValues
	Bundle *BundleValues

	sourceTypes SourceTypeSet
}

// FinalizeSources computes the source type set. The graph calls this when
// the target is added; tests constructing targets by hand call it directly.
func (t *Target) FinalizeSources() {
	t.sourceTypes = NewSourceTypeSet()
	for _, s := range t.Sources {
		t.sourceTypes.Set(s.Type())
	}
	if t.OutputName == "" {
		t.OutputName = t.Label.Name
	}
	if t.ComputedOutputName == "" {
		t.ComputedOutputName = t.OutputName
	}
}

// SourceTypesUsed returns the set of source types present in Sources.
func (t *Target) SourceTypesUsed() *SourceTypeSet { return &t.sourceTypes }

// UsesSwift reports whether any source is Swift. Swift and C sources must
// not mix within one target.
func (t *Target) UsesSwift() bool { return t.sourceTypes.SwiftSourceUsed() }

// IsLinkable reports whether consumers link against this target's output.
func (t *Target) IsLinkable() bool {
	switch t.Type {
	case OutputStaticLibrary, OutputSharedLibrary,
		OutputRustLibrary, OutputRustProcMacro:
		return true
	}
	return false
}

// IsFinal reports whether this target is an endpoint of linking: its link
// edge gathers transitive Rust rlibs and Swift modules.
func (t *Target) IsFinal() bool {
	switch t.Type {
	case OutputExecutable, OutputSharedLibrary, OutputLoadableModule,
		OutputBundle:
		return true
	}
	return false
}

// HardDep reports whether dependents must be built strictly after this
// target completes (generated inputs may not exist before).
func (t *Target) HardDep() bool {
	switch t.Type {
	case OutputAction, OutputActionForEach, OutputCopy, OutputBundle:
		return true
	}
	return false
}
