package domain

import (
	"path/filepath"
	"sort"
	"strings"

	"go.trai.ch/zerr"
)

// BuildSettings is the per-build state shared by every toolchain: the build
// directory (source-absolute, trailing slash) and the on-disk root it maps
// to.
type BuildSettings struct {
	// BuildDir is where Ninja files are written, e.g. "//out/".
	BuildDir string

	// RootPath is the absolute filesystem path of the source root. Only the
	// adapters use it; the emission core works in virtual paths.
	RootPath string
}

// AbsPath maps a build-dir-relative output file to its on-disk location.
func (b *BuildSettings) AbsPath(f OutputFile) string {
	return filepath.Join(b.RootPath,
		filepath.FromSlash(SourceRootRelative(b.BuildDir)),
		filepath.FromSlash(f.Value()))
}

// Settings is the per-toolchain view of a build: the toolchain identity and
// whether it is the default one. Non-default toolchains nest their output
// under a subdirectory named after the toolchain.
type Settings struct {
	Build          *BuildSettings
	ToolchainLabel Label
	Default        bool
}

// OutputSubdir returns the build-dir-relative prefix for this toolchain's
// output ("" for the default toolchain, "gcc/" otherwise).
func (s *Settings) OutputSubdir() string {
	if s.Default {
		return ""
	}
	return s.ToolchainLabel.Name + "/"
}

// Graph is the fully resolved build description handed to the emission
// core. It is immutable once resolution completes.
type Graph struct {
	Build *BuildSettings

	DefaultToolchain Label

	targets    map[string]*Target
	toolchains map[string]*Toolchain
}

// NewGraph creates an empty graph over the given build settings.
func NewGraph(build *BuildSettings) *Graph {
	return &Graph{
		Build:      build,
		targets:    make(map[string]*Target),
		toolchains: make(map[string]*Toolchain),
	}
}

// AddToolchain registers a toolchain. The first toolchain added becomes the
// default unless SetDefaultToolchain is called.
func (g *Graph) AddToolchain(tc *Toolchain) error {
	key := tc.Label().String()
	if _, ok := g.toolchains[key]; ok {
		return zerr.With(ErrDuplicateToolchain, "toolchain", key)
	}
	g.toolchains[key] = tc
	if g.DefaultToolchain.IsZero() {
		g.DefaultToolchain = tc.Label()
	}
	return nil
}

// SetDefaultToolchain overrides the default toolchain.
func (g *Graph) SetDefaultToolchain(label Label) { g.DefaultToolchain = label }

// AddTarget registers a target and finalizes its derived source state.
func (g *Graph) AddTarget(t *Target) error {
	key := t.Label.String()
	if _, ok := g.targets[key]; ok {
		return zerr.With(ErrDuplicateTarget, "target", key)
	}
	t.FinalizeSources()
	g.targets[key] = t
	return nil
}

// Target resolves a label to its target, or nil.
func (g *Graph) Target(label Label) *Target {
	return g.targets[label.String()]
}

// Toolchain resolves a toolchain label, or nil.
func (g *Graph) Toolchain(label Label) *Toolchain {
	return g.toolchains[label.String()]
}

// ToolchainForTarget returns the toolchain a target builds in.
func (g *Graph) ToolchainForTarget(t *Target) *Toolchain {
	return g.Toolchain(t.Toolchain)
}

// SettingsFor returns the per-toolchain settings view.
func (g *Graph) SettingsFor(tc Label) *Settings {
	return &Settings{
		Build:          g.Build,
		ToolchainLabel: tc,
		Default:        tc == g.DefaultToolchain,
	}
}

// Targets returns all targets sorted by label for deterministic iteration.
func (g *Graph) Targets() []*Target {
	out := make([]*Target, 0, len(g.targets))
	for _, t := range g.targets {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Label.String() < out[j].Label.String()
	})
	return out
}

// Toolchains returns all toolchains sorted by label.
func (g *Graph) Toolchains() []*Toolchain {
	out := make([]*Toolchain, 0, len(g.toolchains))
	for _, tc := range g.toolchains {
		out = append(out, tc)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Label().String() < out[j].Label().String()
	})
	return out
}

// TargetsInToolchain returns the targets of one toolchain sorted by label.
func (g *Graph) TargetsInToolchain(tc Label) []*Target {
	var out []*Target
	for _, t := range g.Targets() {
		if t.Toolchain == tc {
			out = append(out, t)
		}
	}
	return out
}

// Validate checks cross-references: every dep label and toolchain label
// must resolve.
func (g *Graph) Validate() error {
	for _, t := range g.Targets() {
		if g.Toolchain(t.Toolchain) == nil {
			return zerr.With(zerr.With(ErrToolchainNotFound,
				"target", t.Label.String()),
				"toolchain", t.Toolchain.String())
		}
		for _, deps := range [][]Label{t.PublicDeps, t.PrivateDeps, t.DataDeps} {
			for _, dep := range deps {
				if g.Target(dep) == nil {
					return zerr.With(zerr.With(ErrTargetNotFound,
						"target", t.Label.String()),
						"dependency", dep.String())
				}
			}
		}
	}
	return nil
}

// NinjaFileForTarget returns the build-dir-relative path of a target's
// Ninja fragment: "obj/<dir>/<name>.ninja" (under the toolchain subdir for
// non-default toolchains).
func (g *Graph) NinjaFileForTarget(t *Target) OutputFile {
	settings := g.SettingsFor(t.Toolchain)
	dir := strings.TrimSuffix(SourceRootRelative(t.Label.Dir), "/")
	path := settings.OutputSubdir() + "obj/"
	if dir != "" {
		path += dir + "/"
	}
	return NewOutputFile(path + t.Label.Name + ".ninja")
}

// NinjaFileForToolchain returns the build-dir-relative path of a
// toolchain's rules file.
func (g *Graph) NinjaFileForToolchain(tc Label) OutputFile {
	settings := g.SettingsFor(tc)
	if settings.Default {
		return NewOutputFile("toolchain.ninja")
	}
	return NewOutputFile(settings.OutputSubdir() + "toolchain.ninja")
}
