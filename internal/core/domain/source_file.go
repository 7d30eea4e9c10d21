package domain

// SourceFile is a source-absolute file path ("//a/hello.c"). It is a value
// type; two source files are equal iff their paths are equal.
type SourceFile struct {
	value string
}

// NewSourceFile wraps a source-absolute path.
func NewSourceFile(path string) SourceFile {
	return SourceFile{value: path}
}

// Value returns the underlying source-absolute path.
func (f SourceFile) Value() string { return f.value }

// IsZero reports whether the source file is unset.
func (f SourceFile) IsZero() bool { return f.value == "" }

// Dir returns the containing directory with a trailing slash.
func (f SourceFile) Dir() string { return SourceDirOf(f.value) }

// SourceType classifies a source file by its extension.
type SourceType int

const (
	SourceUnknown SourceType = iota
	SourceC
	SourceCPP
	SourceH
	SourceM
	SourceMM
	SourceS
	SourceO
	SourceDef
	SourceModuleMap
	SourceRust
	SourceGo
	SourceSwift

	sourceNumTypes
)

// Type derives the source type from the file extension. Module maps are
// recognized by the ".modulemap" extension.
func (f SourceFile) Type() SourceType {
	switch Extension(f.value) {
	case "c":
		return SourceC
	case "cc", "cpp", "cxx":
		return SourceCPP
	case "h", "hpp", "hxx", "hh":
		return SourceH
	case "m":
		return SourceM
	case "mm":
		return SourceMM
	case "S", "s", "asm":
		return SourceS
	case "o", "obj":
		return SourceO
	case "def":
		return SourceDef
	case "modulemap":
		return SourceModuleMap
	case "rs":
		return SourceRust
	case "go":
		return SourceGo
	case "swift":
		return SourceSwift
	}
	return SourceUnknown
}

// IsDefType reports whether this is a linker .def file.
func (f SourceFile) IsDefType() bool { return f.Type() == SourceDef }

// IsObjectType reports whether this is a precompiled object file.
func (f SourceFile) IsObjectType() bool { return f.Type() == SourceO }

// IsModuleMapType reports whether this is a Clang module map.
func (f SourceFile) IsModuleMapType() bool { return f.Type() == SourceModuleMap }

// IsSwiftType reports whether this is a Swift source.
func (f SourceFile) IsSwiftType() bool { return f.Type() == SourceSwift }

// SourceTypeSet records which source types appear in a target's sources.
type SourceTypeSet struct {
	flags [sourceNumTypes]bool
	empty bool
}

// NewSourceTypeSet returns an empty set.
func NewSourceTypeSet() SourceTypeSet {
	return SourceTypeSet{empty: true}
}

// Set marks the given type as used.
func (s *SourceTypeSet) Set(t SourceType) {
	s.flags[t] = true
	s.empty = false
}

// Get reports whether the given type is used.
func (s *SourceTypeSet) Get(t SourceType) bool { return s.flags[t] }

// CSourceUsed reports whether any C-family input is present. An empty set
// counts as C so that targets without sources still get C linking rules.
func (s *SourceTypeSet) CSourceUsed() bool {
	return s.empty || s.Get(SourceCPP) || s.Get(SourceH) || s.Get(SourceC) ||
		s.Get(SourceM) || s.Get(SourceMM) || s.Get(SourceS) ||
		s.Get(SourceO) || s.Get(SourceDef)
}

// RustSourceUsed reports whether any Rust source is present.
func (s *SourceTypeSet) RustSourceUsed() bool { return s.Get(SourceRust) }

// GoSourceUsed reports whether any Go source is present.
func (s *SourceTypeSet) GoSourceUsed() bool { return s.Get(SourceGo) }

// SwiftSourceUsed reports whether any Swift source is present.
func (s *SourceTypeSet) SwiftSourceUsed() bool { return s.Get(SourceSwift) }

// MixedSourceUsed reports whether sources from two or more incompatible
// language families (C, Rust, Go) are mixed in one target.
func (s *SourceTypeSet) MixedSourceUsed() bool {
	n := 0
	if !s.empty && s.CSourceUsed() {
		n++
	}
	if s.RustSourceUsed() {
		n++
	}
	if s.GoSourceUsed() {
		n++
	}
	return n >= 2
}
