// Package resolve derives per-target data from the resolved graph:
// dependency spans and the transitive closures the link edges need.
// Dependency spans and library lists are computed on demand and memoized
// per instance; the Rust, Swift and framework closures are recomputed on
// each call.
//
// Instances are not internally synchronized. Confine one instance to one
// goroutine, or create one per goroutine; the underlying graph is
// read-only and safely shared.
package resolve

import "go.trai.ch/ninjagen/internal/core/domain"

// ResolvedTargetData memoizes derived dependency information for the
// targets of one graph.
type ResolvedTargetData struct {
	graph *domain.Graph
	infos map[string]*targetInfo
}

type targetInfo struct {
	target *domain.Target

	linkedDeps []*domain.Target
	dataDeps   []*domain.Target

	hasLibInfo bool
	libDirs    []string
	libs       []domain.LibFile
}

// New creates an empty cache over the graph.
func New(g *domain.Graph) *ResolvedTargetData {
	return &ResolvedTargetData{
		graph: g,
		infos: make(map[string]*targetInfo),
	}
}

func (r *ResolvedTargetData) info(t *domain.Target) *targetInfo {
	key := t.Label.String()
	if info, ok := r.infos[key]; ok {
		return info
	}
	info := &targetInfo{target: t}
	for _, dep := range t.PublicDeps {
		if d := r.graph.Target(dep); d != nil {
			info.linkedDeps = append(info.linkedDeps, d)
		}
	}
	for _, dep := range t.PrivateDeps {
		if d := r.graph.Target(dep); d != nil {
			info.linkedDeps = append(info.linkedDeps, d)
		}
	}
	for _, dep := range t.DataDeps {
		if d := r.graph.Target(dep); d != nil {
			info.dataDeps = append(info.dataDeps, d)
		}
	}
	r.infos[key] = info
	return info
}

// LinkedDeps returns the public and private dependencies of the target in
// declaration order.
func (r *ResolvedTargetData) LinkedDeps(t *domain.Target) []*domain.Target {
	return r.info(t).linkedDeps
}

// DataDeps returns the data dependencies of the target.
func (r *ResolvedTargetData) DataDeps(t *domain.Target) []*domain.Target {
	return r.info(t).dataDeps
}

// LinkedLibraries returns every library file to add to the target's final
// link command, collected over the transitive linked deps with
// first-occurrence deduplication.
func (r *ResolvedTargetData) LinkedLibraries(t *domain.Target) []domain.LibFile {
	return r.libInfo(t).libs
}

// LinkedLibraryDirs returns every library search directory for the
// target's final link command, deduplicated preserving first occurrence.
func (r *ResolvedTargetData) LinkedLibraryDirs(t *domain.Target) []string {
	return r.libInfo(t).libDirs
}

func (r *ResolvedTargetData) libInfo(t *domain.Target) *targetInfo {
	info := r.info(t)
	if !info.hasLibInfo {
		r.computeLibInfo(info)
	}
	return info
}

// computeLibInfo walks the linked deps post-order so a target's own libs
// come after the ones its dependencies contribute.
func (r *ResolvedTargetData) computeLibInfo(info *targetInfo) {
	seenDirs := make(map[string]bool)
	seenLibs := make(map[domain.LibFile]bool)
	visited := make(map[string]bool)

	var walk func(t *domain.Target)
	walk = func(t *domain.Target) {
		key := t.Label.String()
		if visited[key] {
			return
		}
		visited[key] = true

		for _, dep := range r.info(t).linkedDeps {
			walk(dep)
		}
		for _, dir := range t.Config.LibDirs {
			if !seenDirs[dir] {
				seenDirs[dir] = true
				info.libDirs = append(info.libDirs, dir)
			}
		}
		for _, lib := range t.Config.Libs {
			if !seenLibs[lib] {
				seenLibs[lib] = true
				info.libs = append(info.libs, lib)
			}
		}
	}
	walk(info.target)
	info.hasLibInfo = true
}

// InheritedRustLibs returns the transitive Rust library (rlib) deps of a
// final target in dependency-declaration order, deduplicated.
func (r *ResolvedTargetData) InheritedRustLibs(t *domain.Target) []*domain.Target {
	var out []*domain.Target
	visited := make(map[string]bool)

	var walk func(t *domain.Target)
	walk = func(t *domain.Target) {
		for _, dep := range r.info(t).linkedDeps {
			key := dep.Label.String()
			if visited[key] {
				continue
			}
			visited[key] = true
			if dep.Type == domain.OutputRustLibrary {
				out = append(out, dep)
			}
			// Shared libraries contain their own rlibs; do not reach
			// through them.
			if dep.Type != domain.OutputSharedLibrary {
				walk(dep)
			}
		}
	}
	walk(t)
	return out
}

// SwiftModuleDeps returns the dependencies whose Swift modules the target
// consumes, reaching through non-linkable groupings.
func (r *ResolvedTargetData) SwiftModuleDeps(t *domain.Target) []*domain.Target {
	var out []*domain.Target
	visited := make(map[string]bool)

	var walk func(t *domain.Target)
	walk = func(t *domain.Target) {
		for _, dep := range r.info(t).linkedDeps {
			key := dep.Label.String()
			if visited[key] {
				continue
			}
			visited[key] = true
			if dep.UsesSwift() && dep.Swift != nil {
				out = append(out, dep)
				continue
			}
			if !dep.IsLinkable() {
				walk(dep)
			}
		}
	}
	walk(t)
	return out
}

// FrameworkDeps returns the framework-bundle dependencies of the target,
// reaching through non-linkable groupings.
func (r *ResolvedTargetData) FrameworkDeps(t *domain.Target) []*domain.Target {
	var out []*domain.Target
	visited := make(map[string]bool)

	var walk func(t *domain.Target)
	walk = func(t *domain.Target) {
		for _, dep := range r.info(t).linkedDeps {
			key := dep.Label.String()
			if visited[key] {
				continue
			}
			visited[key] = true
			if dep.Bundle != nil && dep.Bundle.IsFramework {
				out = append(out, dep)
				continue
			}
			if !dep.IsLinkable() {
				walk(dep)
			}
		}
	}
	walk(t)
	return out
}
