package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/ninjagen/internal/adapters/config"
	"go.trai.ch/ninjagen/internal/core/domain"
)

const manifest = `
build_dir: //out/
toolchains:
  - label: //toolchains:clang
    pools:
      - name: link_pool
        depth: 2
    tools:
      cc:
        command: clang -c {{source}} -o {{output}}
        outputs:
          - "{{source_out_dir}}/{{target_output_name}}.{{source_name_part}}.o"
      link:
        command: clang {{ldflags}} {{inputs}} -o {{output}} {{libs}}
        outputs:
          - "{{target_output_name}}{{output_extension}}"
        pool: link_pool
      solink:
        command: clang -shared {{inputs}} -o {{output}}
        outputs:
          - "{{output_dir}}/{{target_output_name}}{{output_extension}}"
        output_prefix: lib
        default_output_extension: .so
        link_output: "{{output_dir}}/{{target_output_name}}{{output_extension}}"
        depend_output: "{{output_dir}}/{{target_output_name}}{{output_extension}}.TOC"
      stamp:
        command: touch {{output}}
targets:
  - label: //a:hello
    type: executable
    sources: [//a/hello.c]
    deps: [//f:foo]
    ldflags: [-m64]
  - label: //f:foo
    type: shared_library
    sources: [//f/foo.c]
`

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "build.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_BuildsResolvedGraph(t *testing.T) {
	g, err := config.Load(writeManifest(t, manifest), "/src")
	require.NoError(t, err)

	assert.Equal(t, "//out/", g.Build.BuildDir)

	tcLabel := domain.NewLabel("//toolchains/", "clang")
	assert.Equal(t, tcLabel, g.DefaultToolchain)

	tc := g.Toolchain(tcLabel)
	require.NotNil(t, tc)
	require.NotNil(t, tc.Tool(domain.ToolCc))
	assert.Equal(t, "link_pool", tc.Tool(domain.ToolLink).Pool())
	require.Len(t, tc.Pools(), 1)
	assert.Equal(t, 2, tc.Pools()[0].Depth)

	hello := g.Target(domain.NewLabel("//a/", "hello").InToolchain(tcLabel))
	require.NotNil(t, hello)
	assert.Equal(t, domain.OutputExecutable, hello.Type)
	assert.Equal(t, []string{"-m64"}, hello.Config.LdFlags)
	assert.Equal(t, "hello", hello.LinkOutputFile.Value())
	assert.Equal(t, "hello", hello.DependencyOutputFile.Value())

	// The solink tool's separate link/depend outputs.
	foo := g.Target(domain.NewLabel("//f/", "foo").InToolchain(tcLabel))
	require.NotNil(t, foo)
	assert.Equal(t, "obj/f/libfoo.so", foo.LinkOutputFile.Value())
	assert.Equal(t, "obj/f/libfoo.so.TOC", foo.DependencyOutputFile.Value())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"), "/src")
	require.ErrorIs(t, err, domain.ErrManifestReadFailed)
}

func TestLoad_BadYaml(t *testing.T) {
	_, err := config.Load(writeManifest(t, "toolchains: [unclosed"), "/src")
	require.ErrorIs(t, err, domain.ErrManifestParseFailed)
}

func TestLoad_UnknownDependency(t *testing.T) {
	_, err := config.Load(writeManifest(t, `
toolchains:
  - label: //tc:x
    tools:
      stamp:
        command: touch {{output}}
targets:
  - label: //a:a
    type: group
    deps: [//missing:dep]
`), "/src")
	require.ErrorIs(t, err, domain.ErrTargetNotFound)
}

func TestLoad_InvalidSubstitutionInTool(t *testing.T) {
	_, err := config.Load(writeManifest(t, `
toolchains:
  - label: //tc:x
    tools:
      cc:
        command: clang {{bogus}}
`), "/src")
	require.ErrorIs(t, err, domain.ErrInvalidSubstitution)
}

func TestLoad_DisallowedSubstitutionInTool(t *testing.T) {
	_, err := config.Load(writeManifest(t, `
toolchains:
  - label: //tc:x
    tools:
      cc:
        command: clang {{ldflags}} -c {{source}}
`), "/src")
	require.ErrorIs(t, err, domain.ErrInvalidSubstitution)
}
