package ninja_test

import (
	"io"
	"testing"

	"github.com/stretchr/testify/require"
	"go.trai.ch/ninjagen/internal/adapters/config"
	"go.trai.ch/ninjagen/internal/adapters/logger"
	"go.trai.ch/ninjagen/internal/core/domain"
	"go.trai.ch/ninjagen/internal/engine/scheduler"
)

// testToolchainLabel is the default toolchain used across writer tests.
var testToolchainLabel = domain.NewLabel("//toolchains/", "clang")

// makeToolchain assembles a toolchain resembling a real clang setup, with
// the PCH policy of the C-family compilers selectable per test.
func makeToolchain(t *testing.T, pchType domain.PCHType) *domain.Toolchain {
	t.Helper()
	tc := domain.NewToolchain(testToolchainLabel)

	compiler := func(name, lang string) *domain.Tool {
		tool := domain.NewTool(name)
		tool.SetCommand(domain.MustParsePattern(
			"clang -MMD -MF {{output}}.d {{defines}} {{include_dirs}} {{cflags}} " + lang + " -c {{source}} -o {{output}}"))
		tool.SetDepfile(domain.MustParsePattern("{{output}}.d"))
		tool.SetDescription(domain.MustParsePattern("CC {{output}}"))
		tool.SetOutputs(domain.MustParseList(
			"{{source_out_dir}}/{{target_output_name}}.{{source_name_part}}.o"))
		tool.AsC().DepsFormat = "gcc"
		tool.AsC().PrecompiledHeaderType = pchType
		return tool
	}
	tc.SetTool(compiler(domain.ToolCc, "{{cflags_c}}"))
	tc.SetTool(compiler(domain.ToolCxx, "{{cflags_cc}} {{module_deps}}"))
	tc.SetTool(compiler(domain.ToolObjC, "{{cflags_objc}}"))
	tc.SetTool(compiler(domain.ToolObjCxx, "{{cflags_objcc}}"))

	cxxModule := domain.NewTool(domain.ToolCxxModule)
	cxxModule.SetCommand(domain.MustParsePattern(
		"clang -x c++-module {{cflags_cc}} {{module_deps_no_self}} -c {{source}} -o {{output}}"))
	cxxModule.SetDescription(domain.MustParsePattern("CXX_MODULE {{output}}"))
	cxxModule.SetOutputs(domain.MustParseList("{{source_out_dir}}/{{source_name_part}}.pcm"))
	tc.SetTool(cxxModule)

	link := domain.NewTool(domain.ToolLink)
	link.SetCommand(domain.MustParsePattern(
		"clang {{ldflags}} {{inputs}} -o {{output}} {{solibs}} {{rlibs}} {{libs}} {{frameworks}} {{swiftmodules}}"))
	link.SetDescription(domain.MustParsePattern("LINK {{output}}"))
	link.SetOutputs(domain.MustParseList("{{target_output_name}}{{output_extension}}"))
	tc.SetTool(link)

	solink := domain.NewTool(domain.ToolSolink)
	solink.SetCommand(domain.MustParsePattern(
		"clang -shared {{ldflags}} {{inputs}} -o {{output}} {{solibs}} {{rlibs}} {{libs}} {{frameworks}} {{swiftmodules}}"))
	solink.SetOutputs(domain.MustParseList("{{target_output_name}}{{output_extension}}"))
	solink.SetOutputPrefix("lib")
	solink.SetDefaultOutputExtension(".so")
	tc.SetTool(solink)

	alink := domain.NewTool(domain.ToolAlink)
	alink.SetCommand(domain.MustParsePattern("ar rcs {{arflags}} {{output}} {{inputs}}"))
	alink.SetOutputs(domain.MustParseList("{{output_dir}}/{{target_output_name}}{{output_extension}}"))
	alink.SetOutputPrefix("lib")
	alink.SetDefaultOutputExtension(".a")
	alink.SetDefaultOutputDir(domain.MustParsePattern("{{target_out_dir}}"))
	tc.SetTool(alink)

	stamp := domain.NewTool(domain.ToolStamp)
	stamp.SetCommand(domain.MustParsePattern("touch {{output}}"))
	stamp.SetDescription(domain.MustParsePattern("STAMP {{output}}"))
	tc.SetTool(stamp)

	cp := domain.NewTool(domain.ToolCopy)
	cp.SetCommand(domain.MustParsePattern("cp -af {{source}} {{output}}"))
	cp.SetOutputs(domain.MustParseList("{{source_out_dir}}/{{source_file_part}}"))
	tc.SetTool(cp)

	swift := domain.NewTool(domain.ToolSwift)
	swift.SetCommand(domain.MustParsePattern(
		"swiftc -emit-module {{swiftflags}} -o {{output}} {{source}}"))
	swift.SetOutputs(domain.MustParseList(
		"{{target_out_dir}}/{{target_output_name}}.swiftmodule"))
	swift.AsC().PartialOutputs = domain.MustParseList(
		"{{source_out_dir}}/{{source_name_part}}.o")
	tc.SetTool(swift)

	rust := func(name, ext, prefix string) *domain.Tool {
		tool := domain.NewTool(name)
		tool.SetCommand(domain.MustParsePattern(
			"rustc --crate-name {{crate_name}} --crate-type {{crate_type}} {{rustflags}} -o {{output}} {{rustdeps}} {{source}}"))
		tool.SetOutputs(domain.MustParseList(
			"{{target_out_dir}}/{{target_output_name}}" + ext))
		tool.SetOutputPrefix(prefix)
		return tool
	}
	tc.SetTool(rust(domain.ToolRustBin, "", ""))
	tc.SetTool(rust(domain.ToolRustRlib, ".rlib", "lib"))
	tc.SetTool(rust(domain.ToolRustStaticlib, ".a", "lib"))

	require.NoError(t, tc.Seal())
	return tc
}

// makeGraph builds a graph with the given toolchain and targets, resolving
// every target's output files.
func makeGraph(t *testing.T, tc *domain.Toolchain, targets ...*domain.Target) *domain.Graph {
	t.Helper()
	g := domain.NewGraph(&domain.BuildSettings{BuildDir: "//", RootPath: "/src"})
	require.NoError(t, g.AddToolchain(tc))
	for _, target := range targets {
		target.Toolchain = tc.Label()
		target.Label = target.Label.InToolchain(tc.Label())
		for i := range target.PublicDeps {
			target.PublicDeps[i] = target.PublicDeps[i].InToolchain(tc.Label())
		}
		for i := range target.PrivateDeps {
			target.PrivateDeps[i] = target.PrivateDeps[i].InToolchain(tc.Label())
		}
		for i := range target.DataDeps {
			target.DataDeps[i] = target.DataDeps[i].InToolchain(tc.Label())
		}
		require.NoError(t, g.AddTarget(target))
	}
	require.NoError(t, g.Validate())
	require.NoError(t, config.ResolveOutputs(g))
	return g
}

func makeTarget(dir, name string, outputType domain.OutputType, sources ...string) *domain.Target {
	target := &domain.Target{
		Label: domain.NewLabel(dir, name),
		Type:  outputType,
	}
	for _, s := range sources {
		target.Sources = append(target.Sources, domain.NewSourceFile(s))
	}
	return target
}

// quietScheduler returns a scheduler whose output goes nowhere.
func quietScheduler(t *testing.T) *scheduler.Scheduler {
	t.Helper()
	log := logger.New()
	log.SetOutput(io.Discard)
	sched := scheduler.New(log)
	sched.SuppressOutputForTesting(true)
	t.Cleanup(sched.Shutdown)
	return sched
}
