package domain

import (
	"strings"

	"go.trai.ch/zerr"
)

// Substitution application binds placeholder values and expands patterns
// into plain strings and output files. No escaping happens here; the
// emission site chooses the escape mode when the text is written.

// ExpandPattern substitutes every placeholder using bind. A placeholder
// bind reports as unbound is an error.
func ExpandPattern(p SubstitutionPattern, bind func(*Substitution) (string, bool)) (string, error) {
	var sb strings.Builder
	for _, r := range p.Ranges() {
		if r.IsLiteral() {
			sb.WriteString(r.Literal)
			continue
		}
		v, ok := bind(r.Subst)
		if !ok {
			return "", zerr.With(ErrUnboundSubstitution, "placeholder", r.Subst.Name)
		}
		sb.WriteString(v)
	}
	return sb.String(), nil
}

// GetTargetSubstitution binds a target-scope placeholder. The second result
// is false for placeholders that need source or linker scope.
func GetTargetSubstitution(s *Settings, t *Target, sub *Substitution) (string, bool) {
	switch sub {
	case SubstitutionLabel:
		return t.Label.UserVisibleName(true), true
	case SubstitutionLabelName:
		return t.Label.Name, true
	case SubstitutionLabelNoToolchain:
		return t.Label.UserVisibleName(false), true
	case SubstitutionRootGenDir:
		return s.OutputSubdir() + "gen", true
	case SubstitutionRootOutDir:
		if s.OutputSubdir() == "" {
			return ".", true
		}
		return strings.TrimSuffix(s.OutputSubdir(), "/"), true
	case SubstitutionTargetGenDir:
		return dirInBuildDir(s, "gen", t.Label.Dir), true
	case SubstitutionTargetOutDir:
		return dirInBuildDir(s, "obj", t.Label.Dir), true
	case SubstitutionTargetOutputName:
		return t.ComputedOutputName, true
	}
	return "", false
}

// ApplyPatternToSource expands a pattern with source-scope bindings,
// returning the raw string.
func ApplyPatternToSource(s *Settings, t *Target, p SubstitutionPattern, source SourceFile) string {
	out, err := ExpandPattern(p, func(sub *Substitution) (string, bool) {
		return bindSourceSubstitution(s, t, source, sub)
	})
	if err != nil {
		panic(err)
	}
	return out
}

// ApplyPatternToSourceAsOutputFile is ApplyPatternToSource yielding an
// OutputFile.
func ApplyPatternToSourceAsOutputFile(s *Settings, t *Target, p SubstitutionPattern, source SourceFile) OutputFile {
	return NewOutputFile(ApplyPatternToSource(s, t, p, source))
}

// ApplyListToSourceAsOutputFiles expands each pattern of the list for one
// source, yielding one OutputFile per pattern.
func ApplyListToSourceAsOutputFiles(s *Settings, t *Target, l SubstitutionList, source SourceFile) []OutputFile {
	out := make([]OutputFile, 0, len(l.Patterns()))
	for _, p := range l.Patterns() {
		out = append(out, ApplyPatternToSourceAsOutputFile(s, t, p, source))
	}
	return out
}

func bindSourceSubstitution(s *Settings, t *Target, source SourceFile, sub *Substitution) (string, bool) {
	if v, ok := GetTargetSubstitution(s, t, sub); ok {
		return v, true
	}
	switch sub {
	case SubstitutionSource:
		return rebaseForBuild(s, source.Value()), true
	case SubstitutionSourceNamePart:
		return NamePart(source.Value()), true
	case SubstitutionSourceFilePart:
		return FilePart(source.Value()), true
	case SubstitutionSourceDir:
		return strings.TrimSuffix(rebaseForBuild(s, source.Dir()), "/"), true
	case SubstitutionSourceRootRelativeDir:
		return strings.TrimSuffix(SourceRootRelative(source.Dir()), "/"), true
	case SubstitutionSourceGenDir:
		return dirInBuildDir(s, "gen", source.Dir()), true
	case SubstitutionSourceOutDir:
		return dirInBuildDir(s, "obj", source.Dir()), true
	}
	return "", false
}

// ApplyPatternToLinkerAsOutputFile expands a pattern with linker-scope
// bindings for the given target and tool.
func ApplyPatternToLinkerAsOutputFile(s *Settings, t *Target, tool *Tool, p SubstitutionPattern) OutputFile {
	out, err := ExpandPattern(p, func(sub *Substitution) (string, bool) {
		return bindLinkerSubstitution(s, t, tool, sub)
	})
	if err != nil {
		panic(err)
	}
	return NewOutputFile(out)
}

// ApplyListToLinkerAsOutputFiles expands each pattern of a linker tool's
// output list.
func ApplyListToLinkerAsOutputFiles(s *Settings, t *Target, tool *Tool, l SubstitutionList) []OutputFile {
	out := make([]OutputFile, 0, len(l.Patterns()))
	for _, p := range l.Patterns() {
		out = append(out, ApplyPatternToLinkerAsOutputFile(s, t, tool, p))
	}
	return out
}

// GetLinkerSubstitution binds a linker-scope placeholder to its value.
func GetLinkerSubstitution(s *Settings, t *Target, tool *Tool, sub *Substitution) (string, bool) {
	return bindLinkerSubstitution(s, t, tool, sub)
}

func bindLinkerSubstitution(s *Settings, t *Target, tool *Tool, sub *Substitution) (string, bool) {
	if v, ok := GetTargetSubstitution(s, t, sub); ok {
		return v, true
	}
	switch sub {
	case SubstitutionOutputDir:
		return outputDirForTarget(s, t, tool), true
	case SubstitutionOutputExtension:
		if t.OutputExtensionSet {
			return t.OutputExtension, true
		}
		return tool.DefaultOutputExtension(), true
	}
	return "", false
}

// outputDirForTarget resolves {{output_dir}}: the target override wins,
// then the tool's default pattern, then the target's obj dir.
func outputDirForTarget(s *Settings, t *Target, tool *Tool) string {
	if t.OutputDir != "" {
		return t.OutputDir
	}
	if !tool.DefaultOutputDir().Empty() {
		out, err := ExpandPattern(tool.DefaultOutputDir(), func(sub *Substitution) (string, bool) {
			return GetTargetSubstitution(s, t, sub)
		})
		if err != nil {
			panic(err)
		}
		return out
	}
	return dirInBuildDir(s, "obj", t.Label.Dir)
}

// GetOutputFilesForSource computes the outputs of compiling one source:
// the tool name and the tool's output list applied to the source. ok is
// false when no tool compiles this source type, except for object files,
// which yield ToolNone, their own build-relative path, and ok true.
func GetOutputFilesForSource(s *Settings, tc *Toolchain, t *Target, source SourceFile) (string, []OutputFile, bool) {
	if source.IsObjectType() {
		// Precompiled objects skip compilation and go straight to the
		// linker.
		return ToolNone, []OutputFile{NewOutputFile(rebaseForBuild(s, source.Value()))}, true
	}
	toolName := ToolForSourceType(source.Type())
	if toolName == ToolNone {
		return ToolNone, nil, false
	}
	tool := tc.Tool(toolName)
	if tool == nil || tool.Outputs().Empty() {
		return ToolNone, nil, false
	}
	return toolName, ApplyListToSourceAsOutputFiles(s, t, tool.Outputs(), source), true
}

// rebaseForBuild rewrites a source-absolute path relative to the build
// dir. Paths already inside the build dir stay build-relative.
func rebaseForBuild(s *Settings, path string) string {
	if strings.HasPrefix(path, s.Build.BuildDir) {
		return strings.TrimPrefix(path, s.Build.BuildDir)
	}
	return RebaseSourceToBuildDir(path, s.Build.BuildDir)
}

// dirInBuildDir maps a source dir into the toolchain's obj/ or gen/ tree:
// ("obj", "//a/") -> "obj/a".
func dirInBuildDir(s *Settings, tree, dir string) string {
	rel := strings.TrimSuffix(SourceRootRelative(dir), "/")
	out := s.OutputSubdir() + tree
	if strings.HasPrefix(dir, s.Build.BuildDir) {
		rel = strings.TrimSuffix(strings.TrimPrefix(dir, s.Build.BuildDir), "/")
	}
	if rel != "" {
		out += "/" + rel
	}
	return out
}
