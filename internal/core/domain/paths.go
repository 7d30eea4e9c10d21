package domain

import "strings"

// Virtual paths are source-absolute: they begin with "//" and use forward
// slashes on every host. Directories keep a trailing slash. These helpers
// are lexical only; nothing here touches the filesystem.

// IsSourceAbsolute reports whether path begins with the source-root marker.
func IsSourceAbsolute(path string) bool {
	return strings.HasPrefix(path, "//")
}

// SourceDirOf returns the directory portion of a source-absolute file path,
// with a trailing slash: "//a/b.c" -> "//a/".
func SourceDirOf(path string) string {
	i := strings.LastIndexByte(path, '/')
	if i < 0 {
		return path
	}
	return path[:i+1]
}

// FilePart returns the file name portion: "//a/b.c" -> "b.c".
func FilePart(path string) string {
	i := strings.LastIndexByte(path, '/')
	if i < 0 {
		return path
	}
	return path[i+1:]
}

// NamePart returns the file name without its extension: "//a/b.c" -> "b".
func NamePart(path string) string {
	file := FilePart(path)
	if i := strings.LastIndexByte(file, '.'); i > 0 {
		return file[:i]
	}
	return file
}

// Extension returns the extension without the dot, or "" when there is
// none. Hidden files ("/.foo") have no extension.
func Extension(path string) string {
	file := FilePart(path)
	if i := strings.LastIndexByte(file, '.'); i > 0 {
		return file[i+1:]
	}
	return ""
}

// RebaseSourceToBuildDir rewrites a source-absolute path relative to the
// build directory (itself source-absolute, trailing slash). The result uses
// "../" hops to climb from the build dir back to the source root:
//
//	RebaseSourceToBuildDir("//a/b.c", "//out/")  -> "../a/b.c"
//	RebaseSourceToBuildDir("//a/b.c", "//")      -> "a/b.c"
func RebaseSourceToBuildDir(path, buildDir string) string {
	rel := strings.TrimPrefix(path, "//")
	depth := strings.Count(strings.TrimPrefix(buildDir, "//"), "/")
	return strings.Repeat("../", depth) + rel
}

// SourceRootRelative strips the source-root marker: "//a/b.c" -> "a/b.c".
func SourceRootRelative(path string) string {
	return strings.TrimPrefix(path, "//")
}
