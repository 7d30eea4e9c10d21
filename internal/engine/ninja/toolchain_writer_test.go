package ninja_test

import (
	"bytes"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/ninjagen/internal/core/domain"
	"go.trai.ch/ninjagen/internal/engine/ninja"
)

func TestToolchainWriter_Golden(t *testing.T) {
	tc := domain.NewToolchain(testToolchainLabel)
	tc.SetPool(domain.Pool{Name: "link_pool", Depth: 4})

	cc := domain.NewTool(domain.ToolCc)
	cc.SetCommand(domain.MustParsePattern(
		"clang -MMD -MF {{output}}.d {{defines}} {{include_dirs}} {{cflags}} {{cflags_c}} -c {{source}} -o {{output}}"))
	cc.SetDepfile(domain.MustParsePattern("{{output}}.d"))
	cc.SetDescription(domain.MustParsePattern("CC {{output}}"))
	cc.SetOutputs(domain.MustParseList(
		"{{source_out_dir}}/{{target_output_name}}.{{source_name_part}}.o"))
	cc.AsC().DepsFormat = "gcc"
	tc.SetTool(cc)

	link := domain.NewTool(domain.ToolLink)
	link.SetCommand(domain.MustParsePattern(
		"clang {{ldflags}} {{inputs}} -o {{output}} {{libs}}"))
	link.SetDescription(domain.MustParsePattern("LINK {{output}}"))
	link.SetOutputs(domain.MustParseList("{{target_output_name}}{{output_extension}}"))
	link.SetPool("link_pool")
	tc.SetTool(link)

	stamp := domain.NewTool(domain.ToolStamp)
	stamp.SetCommand(domain.MustParsePattern("touch {{output}}"))
	stamp.SetRestat(true)
	tc.SetTool(stamp)

	require.NoError(t, tc.Seal())

	hello := makeTarget("//a/", "hello", domain.OutputExecutable, "//a/hello.c")
	g := makeGraph(t, tc, hello)

	var out bytes.Buffer
	ninja.WriteToolchainFile(g, tc, g.TargetsInToolchain(tc.Label()), &out)

	gold := goldie.New(t)
	gold.Assert(t, "toolchain", out.Bytes())
}

func TestToolchainWriter_NonDefaultPrefixesRules(t *testing.T) {
	def := makeToolchain(t, domain.PCHNone)

	host := domain.NewToolchain(domain.NewLabel("//toolchains/", "host"))
	cc := domain.NewTool(domain.ToolCc)
	cc.SetCommand(domain.MustParsePattern("gcc -c {{source}} -o {{output}}"))
	cc.SetOutputs(domain.MustParseList("{{source_out_dir}}/{{source_name_part}}.o"))
	host.SetTool(cc)
	require.NoError(t, host.Seal())

	g := domain.NewGraph(&domain.BuildSettings{BuildDir: "//", RootPath: "/src"})
	require.NoError(t, g.AddToolchain(def))
	require.NoError(t, g.AddToolchain(host))

	var out bytes.Buffer
	ninja.WriteToolchainFile(g, host, nil, &out)

	assert.Contains(t, out.String(), "rule host_cc\n")
}

func TestRootBuildWriter(t *testing.T) {
	tc := makeToolchain(t, domain.PCHNone)
	hello := makeTarget("//a/", "hello", domain.OutputExecutable, "//a/hello.c")
	tools := makeTarget("//g/", "tools", domain.OutputGroup)
	g := makeGraph(t, tc, hello, tools)

	var out bytes.Buffer
	ninja.WriteRootBuildFile(g, &out)
	s := out.String()

	assert.Contains(t, s, "ninja_required_version = 1.7.1\n")
	assert.Contains(t, s, "subninja toolchain.ninja\n")
	assert.Contains(t, s, "build a$:hello: phony hello\n")
	assert.Contains(t, s, "build g$:tools: phony obj/g/tools.stamp\n")
	// A bare-name alias would collide with the output itself.
	assert.NotContains(t, s, "build hello: phony hello")
	assert.Contains(t, s, "build tools: phony obj/g/tools.stamp\n")
	assert.Contains(t, s, "build all: phony hello obj/g/tools.stamp\n")
	assert.Contains(t, s, "default all\n")
}
