package ninja_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/ninjagen/internal/core/domain"
	"go.trai.ch/ninjagen/internal/engine/ninja"
)

func rustLib(dir, name string) *domain.Target {
	t := makeTarget(dir, name, domain.OutputRustLibrary, dir+"src/lib.rs", dir+"src/util.rs")
	t.Rust = &domain.RustValues{
		CrateName: name,
		CrateRoot: domain.NewSourceFile(dir + "src/lib.rs"),
		CrateType: domain.CrateRlib,
	}
	return t
}

func TestRustWriter_RlibEdge(t *testing.T) {
	tc := makeToolchain(t, domain.PCHNone)
	lib := rustLib("//r/", "r1")
	lib.Config.RustFlags = []string{"--edition=2021"}
	g := makeGraph(t, tc, lib)

	out := string(ninja.EmitTarget(g, lib, quietScheduler(t)))

	// The crate root is the explicit input; other sources are implicit so
	// module edits rebuild the crate.
	assert.Contains(t, out, "build obj/r/libr1.rlib: rust_rlib r/src/lib.rs | r/src/util.rs\n")
	assert.Contains(t, out, "  crate_name = r1\n")
	assert.Contains(t, out, "  crate_type = rlib\n")
	assert.Contains(t, out, "  rustflags = --edition=2021\n")
	assert.Contains(t, out, "  output_dir = obj/r\n")
}

func TestRustWriter_ExternsAndSearchDirs(t *testing.T) {
	tc := makeToolchain(t, domain.PCHNone)
	dep := rustLib("//d/", "dep")
	bin := makeTarget("//b/", "tool", domain.OutputExecutable, "//b/main.rs")
	bin.Rust = &domain.RustValues{
		CrateName: "tool",
		CrateRoot: domain.NewSourceFile("//b/main.rs"),
		CrateType: domain.CrateBin,
	}
	bin.PrivateDeps = []domain.Label{domain.NewLabel("//d/", "dep")}
	g := makeGraph(t, tc, dep, bin)

	out := string(ninja.EmitTarget(g, bin, quietScheduler(t)))

	// The bin target routes through the rust writer even though its
	// output type is executable.
	assert.Contains(t, out, "build obj/b/tool: rust_bin b/main.rs | obj/d/libdep.rlib\n")
	assert.Contains(t, out, "  rustdeps = --extern dep=obj/d/libdep.rlib -Ldependency=obj/d\n")
}

func TestRustWriter_NonRustDepsAreOrderOnly(t *testing.T) {
	tc := makeToolchain(t, domain.PCHNone)
	gen := makeTarget("//g/", "gen", domain.OutputAction)
	gen.Action = &domain.ActionValues{Script: domain.NewSourceFile("//g/gen.py")}
	lib := rustLib("//r/", "r1")
	lib.PrivateDeps = []domain.Label{domain.NewLabel("//g/", "gen")}
	g := makeGraph(t, tc, gen, lib)

	out := string(ninja.EmitTarget(g, lib, quietScheduler(t)))

	assert.Contains(t, out, "build obj/r/libr1.rlib: rust_rlib r/src/lib.rs | r/src/util.rs || obj/g/gen.stamp\n")
}
