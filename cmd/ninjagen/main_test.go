package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testManifest = `
build_dir: //out/
toolchains:
  - label: //toolchains:clang
    tools:
      cc:
        command: clang -c {{source}} -o {{output}}
        outputs:
          - "{{source_out_dir}}/{{target_output_name}}.{{source_name_part}}.o"
      link:
        command: clang {{inputs}} -o {{output}}
        outputs:
          - "{{target_output_name}}{{output_extension}}"
      stamp:
        command: touch {{output}}
targets:
  - label: //a:hello
    type: executable
    sources: [//a/hello.c]
`

func TestRun_Gen(t *testing.T) {
	root := t.TempDir()
	manifest := filepath.Join(root, "build.yaml")
	require.NoError(t, os.WriteFile(manifest, []byte(testManifest), 0o644))

	code := run(context.Background(), []string{
		"gen", "--manifest", manifest, "--root", root, "--quiet",
	})
	assert.Equal(t, 0, code)

	_, err := os.Stat(filepath.Join(root, "out", "build.ninja"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(root, "out", "toolchain.ninja"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(root, "out", "obj", "a", "hello.ninja"))
	assert.NoError(t, err)
}

func TestRun_GenMissingManifest(t *testing.T) {
	root := t.TempDir()
	code := run(context.Background(), []string{
		"gen", "--manifest", filepath.Join(root, "missing.yaml"), "--root", root,
	})
	assert.Equal(t, 1, code)
}

func TestRun_Version(t *testing.T) {
	code := run(context.Background(), []string{"version"})
	assert.Equal(t, 0, code)
}
