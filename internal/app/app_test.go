package app_test

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/ninjagen/internal/adapters/fs"
	"go.trai.ch/ninjagen/internal/adapters/logger"
	"go.trai.ch/ninjagen/internal/app"
	"go.trai.ch/ninjagen/internal/core/domain"
	"go.trai.ch/ninjagen/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

const manifest = `
build_dir: //out/
toolchains:
  - label: //toolchains:clang
    tools:
      cc:
        command: clang -c {{source}} -o {{output}}
        outputs:
          - "{{source_out_dir}}/{{target_output_name}}.{{source_name_part}}.o"
      link:
        command: clang {{ldflags}} {{inputs}} -o {{output}} {{libs}}
        outputs:
          - "{{target_output_name}}{{output_extension}}"
      stamp:
        command: touch {{output}}
targets:
  - label: //a:hello
    type: executable
    sources: [//a/hello.c]
  - label: //g:all_tools
    type: group
    deps: [//a:hello]
`

func quietApp(t *testing.T) *app.App {
	t.Helper()
	log := logger.New()
	log.SetOutput(io.Discard)
	return app.New(log, fs.NewWriter())
}

func writeTree(t *testing.T) (root, manifestPath string) {
	t.Helper()
	root = t.TempDir()
	manifestPath = filepath.Join(root, "build.yaml")
	require.NoError(t, os.WriteFile(manifestPath, []byte(manifest), 0o644))
	return root, manifestPath
}

func TestGenerateFromManifest_WritesAllFiles(t *testing.T) {
	root, manifestPath := writeTree(t)

	err := quietApp(t).GenerateFromManifest(context.Background(), app.GenerateOptions{
		ManifestPath: manifestPath,
		RootPath:     root,
		Quiet:        true,
	})
	require.NoError(t, err)

	read := func(rel string) string {
		content, err := os.ReadFile(filepath.Join(root, "out", rel))
		require.NoError(t, err, rel)
		return string(content)
	}

	rootFile := read("build.ninja")
	assert.Contains(t, rootFile, "ninja_required_version = 1.7.1\n")
	assert.Contains(t, rootFile, "subninja toolchain.ninja\n")

	toolchainFile := read("toolchain.ninja")
	assert.Contains(t, toolchainFile, "rule cc\n")
	assert.Contains(t, toolchainFile, "include obj/a/hello.ninja\n")
	assert.Contains(t, toolchainFile, "include obj/g/all_tools.ninja\n")

	helloFile := read(filepath.Join("obj", "a", "hello.ninja"))
	assert.Contains(t, helloFile, "build obj/a/hello.hello.o: cc ../a/hello.c\n")
	assert.Contains(t, helloFile, "build hello: link obj/a/hello.hello.o\n")

	groupFile := read(filepath.Join("obj", "g", "all_tools.ninja"))
	assert.Contains(t, groupFile, "build obj/g/all_tools.stamp: stamp hello\n")
}

// Two runs over the same manifest produce byte-identical output.
func TestGenerate_Idempotent(t *testing.T) {
	root, manifestPath := writeTree(t)
	a := quietApp(t)
	opts := app.GenerateOptions{ManifestPath: manifestPath, RootPath: root, Quiet: true}

	require.NoError(t, a.GenerateFromManifest(context.Background(), opts))
	first, err := os.ReadFile(filepath.Join(root, "out", "build.ninja"))
	require.NoError(t, err)
	firstHello, err := os.ReadFile(filepath.Join(root, "out", "obj", "a", "hello.ninja"))
	require.NoError(t, err)

	require.NoError(t, a.GenerateFromManifest(context.Background(), opts))
	second, err := os.ReadFile(filepath.Join(root, "out", "build.ninja"))
	require.NoError(t, err)
	secondHello, err := os.ReadFile(filepath.Join(root, "out", "obj", "a", "hello.ninja"))
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, firstHello, secondHello)
}

const generatedInputManifest = `
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
    sources: [//a/hello.c, //out/gen/g/version.c]
`

const generatingDep = `
    deps: [//g:gen]
  - label: //g:gen
    type: action
    action:
      script: //g/gen.py
      outputs: ["{{target_gen_dir}}/version.c"]
`

func TestGenerate_UnknownGeneratedInputFails(t *testing.T) {
	root := t.TempDir()
	manifestPath := filepath.Join(root, "build.yaml")
	require.NoError(t, os.WriteFile(manifestPath, []byte(generatedInputManifest), 0o644))

	err := quietApp(t).GenerateFromManifest(context.Background(), app.GenerateOptions{
		ManifestPath: manifestPath,
		RootPath:     root,
		Quiet:        true,
	})
	require.ErrorIs(t, err, domain.ErrUnknownGeneratedInput)
}

func TestGenerate_GeneratedInputWithDependencyPasses(t *testing.T) {
	root := t.TempDir()
	manifestPath := filepath.Join(root, "build.yaml")
	require.NoError(t, os.WriteFile(manifestPath,
		[]byte(generatedInputManifest+generatingDep), 0o644))

	err := quietApp(t).GenerateFromManifest(context.Background(), app.GenerateOptions{
		ManifestPath: manifestPath,
		RootPath:     root,
		Quiet:        true,
	})
	require.NoError(t, err)
}

func TestGenerate_WriteFailureSurfaces(t *testing.T) {
	root, manifestPath := writeTree(t)

	ctrl := gomock.NewController(t)
	files := mocks.NewMockFileWriter(ctrl)
	files.EXPECT().WriteIfChanged(gomock.Any(), gomock.Any()).
		Return(os.ErrPermission).AnyTimes()

	log := logger.New()
	log.SetOutput(io.Discard)
	a := app.New(log, files)

	err := a.GenerateFromManifest(context.Background(), app.GenerateOptions{
		ManifestPath: manifestPath,
		RootPath:     root,
		Quiet:        true,
	})
	require.Error(t, err)
}
