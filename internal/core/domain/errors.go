package domain

import "go.trai.ch/zerr"

var (
	// ErrDuplicateObjectFile is returned when two sources of one target map to
	// the same object file path.
	ErrDuplicateObjectFile = zerr.New("duplicate object file")

	// ErrMixedSources is returned when a target mixes sources from
	// incompatible language families (C, Rust, Go) or mixes Swift with C.
	ErrMixedSources = zerr.New("mixed incompatible source languages")

	// ErrMissingLinkOutput is returned when a linkable dependency has no link
	// output file.
	ErrMissingLinkOutput = zerr.New("linkable dependency has no link output")

	// ErrInvalidSubstitution is returned when a tool template references a
	// placeholder that is unknown or not allowed for that tool.
	ErrInvalidSubstitution = zerr.New("invalid substitution in tool template")

	// ErrUnboundSubstitution is returned when pattern expansion encounters a
	// placeholder with no bound value.
	ErrUnboundSubstitution = zerr.New("unbound substitution")

	// ErrUnknownTool is returned when a toolchain has no tool for a requested
	// name or source type.
	ErrUnknownTool = zerr.New("toolchain does not define tool")

	// ErrDuplicateTarget is returned when two targets share a label.
	ErrDuplicateTarget = zerr.New("duplicate target label")

	// ErrDuplicateToolchain is returned when two toolchains share a label.
	ErrDuplicateToolchain = zerr.New("duplicate toolchain label")

	// ErrTargetNotFound is returned when a dependency label resolves to no
	// target in the graph.
	ErrTargetNotFound = zerr.New("target not found")

	// ErrToolchainNotFound is returned when a target references a toolchain
	// that is not in the graph.
	ErrToolchainNotFound = zerr.New("toolchain not found")

	// ErrModuleMapOutputs is returned when a module map compile produces a
	// number of outputs other than one.
	ErrModuleMapOutputs = zerr.New("module map must produce exactly one output")

	// ErrUnknownGeneratedInput is returned when a target lists an input
	// inside the build directory that no dependency generates.
	ErrUnknownGeneratedInput = zerr.New("input from the build directory is not generated by any dependency")

	// ErrWriteFailed is returned when flushing an emitted Ninja file fails.
	ErrWriteFailed = zerr.New("failed to write ninja file")

	// ErrManifestReadFailed is returned when the build manifest cannot be read.
	ErrManifestReadFailed = zerr.New("failed to read build manifest")

	// ErrManifestParseFailed is returned when the build manifest cannot be
	// parsed.
	ErrManifestParseFailed = zerr.New("failed to parse build manifest")

	// ErrEmissionFailed is returned by the top-level generate operation when
	// any target writer reported an error.
	ErrEmissionFailed = zerr.New("ninja generation failed")
)
