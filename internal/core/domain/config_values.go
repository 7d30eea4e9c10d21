package domain

// LibFile is a linker library reference: either a bare name resolved by the
// linker ("z", resulting in "-lz") or a source-absolute file path linked by
// path.
type LibFile struct {
	value        string
	isSourceFile bool
}

// NewLibFile returns a library referenced by name.
func NewLibFile(name string) LibFile {
	return LibFile{value: name}
}

// NewLibFilePath returns a library referenced by source path.
func NewLibFilePath(file SourceFile) LibFile {
	return LibFile{value: file.Value(), isSourceFile: true}
}

// IsSourceFile reports whether this library is referenced by path.
func (l LibFile) IsSourceFile() bool { return l.isSourceFile }

// Value returns the name form. Only valid when !IsSourceFile().
func (l LibFile) Value() string { return l.value }

// SourceFile returns the path form. Only valid when IsSourceFile().
func (l LibFile) SourceFile() SourceFile { return NewSourceFile(l.value) }

// ConfigValues holds the per-target flattened config state consumed by the
// writers. The front-end has already applied config inheritance; the
// emission core reads these lists verbatim.
type ConfigValues struct {
	Defines     []string
	IncludeDirs []string // source-absolute directories

	CFlags      []string
	CFlagsC     []string
	CFlagsCc    []string
	CFlagsObjC  []string
	CFlagsObjCc []string
	AsmFlags    []string
	SwiftFlags  []string

	LdFlags []string
	ArFlags []string

	Libs          []LibFile
	LibDirs       []string // source-absolute directories
	Frameworks    []string
	FrameworkDirs []string

	RustFlags []string
	RustEnv   []string

	PrecompiledHeader string
	PrecompiledSource SourceFile

	// Inputs are extra files the target's compile and link edges depend
	// on; action, copy and group edges do not list them.
	Inputs []SourceFile
}

// HasPrecompiledHeaders reports whether PCH edges should be emitted.
func (c *ConfigValues) HasPrecompiledHeaders() bool {
	return c.PrecompiledHeader != "" && !c.PrecompiledSource.IsZero()
}
