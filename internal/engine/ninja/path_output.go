package ninja

import (
	"bytes"

	"go.trai.ch/ninjagen/internal/core/domain"
)

// PathOutput writes graph paths relative to the build directory, applying
// one escape mode chosen at construction. Paths always use forward slashes
// regardless of host OS.
//
// Ninja runs from the build directory and resolves the paths of every
// generated file, including the per-target fragments under obj/, against
// it, so output files are written verbatim and source files are rebased
// against the build dir.
type PathOutput struct {
	buildDir string
	mode     EscapeMode
}

// NewPathOutput creates a formatter for files under buildDir
// (source-absolute, trailing slash).
func NewPathOutput(buildDir string, mode EscapeMode) *PathOutput {
	return &PathOutput{buildDir: buildDir, mode: mode}
}

// BuildDir returns the directory paths are made relative to.
func (p *PathOutput) BuildDir() string { return p.buildDir }

// WriteFile writes one output file.
func (p *PathOutput) WriteFile(out *bytes.Buffer, f domain.OutputFile) {
	out.WriteString(EscapeString(f.Value(), p.mode))
}

// WriteFiles writes each output file preceded by a space.
func (p *PathOutput) WriteFiles(out *bytes.Buffer, files []domain.OutputFile) {
	for _, f := range files {
		out.WriteByte(' ')
		p.WriteFile(out, f)
	}
}

// WriteSourceFile writes one source file rebased to the build dir.
func (p *PathOutput) WriteSourceFile(out *bytes.Buffer, f domain.SourceFile) {
	out.WriteString(EscapeString(p.RebasedSourcePath(f), p.mode))
}

// WriteSourceFiles writes each source file preceded by a space.
func (p *PathOutput) WriteSourceFiles(out *bytes.Buffer, files []domain.SourceFile) {
	for _, f := range files {
		out.WriteByte(' ')
		p.WriteSourceFile(out, f)
	}
}

// RebasedSourcePath returns the build-dir-relative spelling of a source
// file without escaping.
func (p *PathOutput) RebasedSourcePath(f domain.SourceFile) string {
	v := f.Value()
	if len(v) > len(p.buildDir) && v[:len(p.buildDir)] == p.buildDir {
		return v[len(p.buildDir):]
	}
	return domain.RebaseSourceToBuildDir(v, p.buildDir)
}
