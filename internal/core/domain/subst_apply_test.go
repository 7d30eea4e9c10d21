package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/ninjagen/internal/core/domain"
)

func testSettings(buildDir string) *domain.Settings {
	return &domain.Settings{
		Build:          &domain.BuildSettings{BuildDir: buildDir},
		ToolchainLabel: domain.NewLabel("//toolchains/", "clang"),
		Default:        true,
	}
}

func testTarget(dir, name string) *domain.Target {
	t := &domain.Target{
		Label: domain.NewLabel(dir, name),
		Type:  domain.OutputExecutable,
	}
	t.FinalizeSources()
	return t
}

func TestApplyListToSource_OutputFiles(t *testing.T) {
	s := testSettings("//")
	target := testTarget("//a/", "hello")

	list := domain.MustParseList("{{source_out_dir}}/{{target_output_name}}.{{source_name_part}}.o")
	outs := domain.ApplyListToSourceAsOutputFiles(s, target, list, domain.NewSourceFile("//a/hello.c"))
	require.Len(t, outs, 1)
	assert.Equal(t, "obj/a/hello.hello.o", outs[0].Value())
}

func TestApplyPatternToSource_Bindings(t *testing.T) {
	s := testSettings("//out/")
	target := testTarget("//base/files/", "tool")
	source := domain.NewSourceFile("//base/files/main.cc")

	cases := map[string]string{
		"{{source}}":                   "../base/files/main.cc",
		"{{source_name_part}}":         "main",
		"{{source_file_part}}":         "main.cc",
		"{{source_dir}}":               "../base/files",
		"{{source_root_relative_dir}}": "base/files",
		"{{source_gen_dir}}":           "gen/base/files",
		"{{source_out_dir}}":           "obj/base/files",
		"{{target_out_dir}}":           "obj/base/files",
		"{{target_gen_dir}}":           "gen/base/files",
		"{{target_output_name}}":       "tool",
		"{{root_out_dir}}":             ".",
		"{{root_gen_dir}}":             "gen",
		"{{label_name}}":               "tool",
		"{{label_no_toolchain}}":       "//base/files:tool",
	}
	for pattern, want := range cases {
		got := domain.ApplyPatternToSource(s, target,
			domain.MustParsePattern(pattern), source)
		assert.Equal(t, want, got, pattern)
	}
}

func TestApplyPatternToSource_GeneratedFileInBuildDir(t *testing.T) {
	s := testSettings("//out/")
	target := testTarget("//a/", "gen")
	source := domain.NewSourceFile("//out/gen/a/generated.cc")

	got := domain.ApplyPatternToSource(s, target,
		domain.MustParsePattern("{{source}}"), source)
	assert.Equal(t, "gen/a/generated.cc", got)
}

func TestNonDefaultToolchain_Subdir(t *testing.T) {
	s := &domain.Settings{
		Build:          &domain.BuildSettings{BuildDir: "//out/"},
		ToolchainLabel: domain.NewLabel("//toolchains/", "host"),
		Default:        false,
	}
	target := testTarget("//a/", "x")

	outDir, ok := domain.GetTargetSubstitution(s, target, domain.SubstitutionTargetOutDir)
	require.True(t, ok)
	assert.Equal(t, "host/obj/a", outDir)

	rootOut, ok := domain.GetTargetSubstitution(s, target, domain.SubstitutionRootOutDir)
	require.True(t, ok)
	assert.Equal(t, "host", rootOut)
}

func TestLinkerSubstitutions_ExtensionAndDir(t *testing.T) {
	s := testSettings("//")
	target := testTarget("//a/", "hello")

	tool := domain.NewTool(domain.ToolSolink)
	tool.SetDefaultOutputExtension(".so")
	tool.SetOutputs(domain.MustParseList("{{output_dir}}/{{target_output_name}}{{output_extension}}"))
	tool.SetOutputPrefix("lib")
	require.NoError(t, tool.Complete())

	ext, ok := domain.GetLinkerSubstitution(s, target, tool, domain.SubstitutionOutputExtension)
	require.True(t, ok)
	assert.Equal(t, ".so", ext)

	// Target override wins, even when empty.
	target.OutputExtension = ""
	target.OutputExtensionSet = true
	ext, _ = domain.GetLinkerSubstitution(s, target, tool, domain.SubstitutionOutputExtension)
	assert.Equal(t, "", ext)

	// No override and no tool default: the target's obj dir.
	dir, ok := domain.GetLinkerSubstitution(s, target, tool, domain.SubstitutionOutputDir)
	require.True(t, ok)
	assert.Equal(t, "obj/a", dir)

	target.OutputDir = "bin"
	dir, _ = domain.GetLinkerSubstitution(s, target, tool, domain.SubstitutionOutputDir)
	assert.Equal(t, "bin", dir)
}

func TestGetOutputFilesForSource(t *testing.T) {
	s := testSettings("//")
	tc := domain.NewToolchain(domain.NewLabel("//toolchains/", "clang"))
	cc := domain.NewTool(domain.ToolCc)
	cc.SetCommand(domain.MustParsePattern("cc {{source}} {{output}}"))
	cc.SetOutputs(domain.MustParseList("{{source_out_dir}}/{{target_output_name}}.{{source_name_part}}.o"))
	tc.SetTool(cc)
	require.NoError(t, tc.Seal())

	target := testTarget("//a/", "hello")

	toolName, outs, ok := domain.GetOutputFilesForSource(s, tc, target, domain.NewSourceFile("//a/hello.c"))
	require.True(t, ok)
	assert.Equal(t, domain.ToolCc, toolName)
	require.Len(t, outs, 1)
	assert.Equal(t, "obj/a/hello.hello.o", outs[0].Value())

	// Headers have no tool and no outputs.
	_, _, ok = domain.GetOutputFilesForSource(s, tc, target, domain.NewSourceFile("//a/hello.h"))
	assert.False(t, ok)

	// Objects pass through to the linker with no tool.
	toolName, outs, ok = domain.GetOutputFilesForSource(s, tc, target, domain.NewSourceFile("//a/blob.o"))
	require.True(t, ok)
	assert.Equal(t, domain.ToolNone, toolName)
	require.Len(t, outs, 1)
	assert.Equal(t, "a/blob.o", outs[0].Value())
}
