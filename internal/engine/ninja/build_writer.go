package ninja

import (
	"bytes"
	"strings"

	"go.trai.ch/ninjagen/internal/core/domain"
)

// WriteRootBuildFile renders the root build.ninja: the version pin, one
// subninja per toolchain file, phony aliases for every target, and the
// default statement.
func WriteRootBuildFile(g *domain.Graph, out *bytes.Buffer) {
	out.WriteString("ninja_required_version = 1.7.1\n\n")

	for _, tc := range g.Toolchains() {
		out.WriteString("subninja ")
		out.WriteString(EscapeString(g.NinjaFileForToolchain(tc.Label()).Value(), EscapeNinja))
		out.WriteByte('\n')
	}
	out.WriteByte('\n')

	writePhonyRules(g, out)
}

func writePhonyRules(g *domain.Graph, out *bytes.Buffer) {
	// Bare-name aliases only when a name is unambiguous and does not
	// collide with an output path.
	nameCount := make(map[string]int)
	for _, t := range g.Targets() {
		nameCount[t.Label.Name]++
	}

	var all []domain.OutputFile
	for _, t := range g.Targets() {
		file := phonyFileForTarget(t)
		if file.IsZero() {
			continue
		}
		all = append(all, file)

		alias := strings.TrimPrefix(t.Label.Dir, "//") + t.Label.Name
		aliasWithColon := strings.TrimSuffix(strings.TrimPrefix(t.Label.Dir, "//"), "/") + ":" + t.Label.Name

		writePhony := func(name string) {
			if name == "" || name == file.Value() {
				return
			}
			out.WriteString("build ")
			out.WriteString(EscapeString(name, EscapeNinja))
			out.WriteString(": phony ")
			out.WriteString(EscapeString(file.Value(), EscapeNinja))
			out.WriteByte('\n')
		}
		writePhony(aliasWithColon)
		if alias != aliasWithColon {
			writePhony(alias)
		}
		if nameCount[t.Label.Name] == 1 && t.Label.Name != aliasWithColon {
			writePhony(t.Label.Name)
		}
	}

	if len(all) == 0 {
		return
	}
	out.WriteString("\nbuild all: phony")
	for _, f := range all {
		out.WriteByte(' ')
		out.WriteString(EscapeString(f.Value(), EscapeNinja))
	}
	out.WriteString("\ndefault all\n")
}

func phonyFileForTarget(t *domain.Target) domain.OutputFile {
	if !t.DependencyOutputFile.IsZero() {
		return t.DependencyOutputFile
	}
	return t.LinkOutputFile
}
