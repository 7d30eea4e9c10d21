package ninja_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/ninjagen/internal/core/domain"
	"go.trai.ch/ninjagen/internal/engine/ninja"
)

func TestSwiftWriter_SingleCompileEdge(t *testing.T) {
	tc := makeToolchain(t, domain.PCHNone)
	app := makeTarget("//a/", "app", domain.OutputExecutable, "//a/main.swift", "//a/util.swift")
	g := makeGraph(t, tc, app)

	out := string(ninja.EmitTarget(g, app, quietScheduler(t)))

	// All Swift sources compile as one edge producing the swiftmodule.
	assert.Contains(t, out, "build obj/a/app.swiftmodule: swift a/main.swift a/util.swift\n")

	// Partial outputs hang off the swiftmodule through a stamp, so
	// downstream edges depend on one file.
	assert.Contains(t, out, "build obj/a/main.o obj/a/util.o: stamp obj/a/app.swiftmodule\n")

	// The partial objects are what gets linked; the swiftmodule itself is
	// an implicit input.
	assert.Contains(t, out, "build app: link obj/a/main.o obj/a/util.o | obj/a/app.swiftmodule\n")
	// The target's own swiftmodule is carried on the link edge.
	assert.Contains(t, out, "  swiftmodules = -Wl,-add_ast_path,obj/a/app.swiftmodule\n")
}

func TestSwiftWriter_DependencyModulesAreOrderOnly(t *testing.T) {
	tc := makeToolchain(t, domain.PCHNone)
	lib := makeTarget("//l/", "lib", domain.OutputSourceSet, "//l/lib.swift")
	app := makeTarget("//a/", "app", domain.OutputExecutable, "//a/main.swift")
	app.PublicDeps = []domain.Label{domain.NewLabel("//l/", "lib")}
	g := makeGraph(t, tc, app, lib)

	out := string(ninja.EmitTarget(g, app, quietScheduler(t)))

	assert.Contains(t, out, "build obj/a/app.swiftmodule: swift a/main.swift || obj/l/lib.stamp\n")

	// A final target lists dependency swiftmodules on its link edge.
	assert.Contains(t, out,
		"  swiftmodules = -Wl,-add_ast_path,obj/l/lib.swiftmodule -Wl,-add_ast_path,obj/a/app.swiftmodule\n")
}
