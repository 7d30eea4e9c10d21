// Package ninja renders the resolved graph into Ninja build files: the
// per-target fragments, the per-toolchain rules files, and the root
// build.ninja.
package ninja

import "strings"

// EscapeMode selects how a string is quoted at the point it is written.
// Escaping never happens during substitution expansion; the emission site
// alone knows which mode applies.
type EscapeMode int

const (
	// EscapeNone writes the string verbatim.
	EscapeNone EscapeMode = iota

	// EscapeNinja quotes for Ninja identifiers and paths: "$", ":" and
	// space become "$$", "$:" and "$ ".
	EscapeNinja

	// EscapeNinjaCommand quotes for tokens inside a Ninja command line:
	// Ninja quoting for "$" and space plus shell quoting of
	// metacharacters.
	EscapeNinjaCommand

	// EscapeShell quotes for text Ninja never parses (rspfile contents):
	// shell metacharacters only.
	EscapeShell

	// EscapeNinjaPreformatted quotes command text that is already
	// shell-formed (rule templates): only "$" needs protection.
	EscapeNinjaPreformatted
)

// shellChars are metacharacters that need a backslash outside quotes.
const shellChars = `"'$ \*?[]~#!;<>()|` + "`&"

// EscapeString returns s quoted for the given mode.
func EscapeString(s string, mode EscapeMode) string {
	switch mode {
	case EscapeNinja:
		return escapeNinja(s)
	case EscapeNinjaCommand:
		return escapeNinjaCommand(s)
	case EscapeShell:
		return escapeShell(s)
	case EscapeNinjaPreformatted:
		return strings.ReplaceAll(s, "$", "$$")
	}
	return s
}

func escapeNinja(s string) string {
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '$':
			sb.WriteString("$$")
		case ':':
			sb.WriteString("$:")
		case ' ':
			sb.WriteString("$ ")
		default:
			sb.WriteByte(s[i])
		}
	}
	return sb.String()
}

func escapeNinjaCommand(s string) string {
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '$':
			sb.WriteString("$$")
		case ' ':
			sb.WriteString("\\$ ")
		default:
			if strings.IndexByte(shellChars, c) >= 0 {
				sb.WriteByte('\\')
			}
			sb.WriteByte(c)
		}
	}
	return sb.String()
}

func escapeShell(s string) string {
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if strings.IndexByte(shellChars, c) >= 0 {
			sb.WriteByte('\\')
		}
		sb.WriteByte(c)
	}
	return sb.String()
}
