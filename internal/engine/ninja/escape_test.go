package ninja_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/ninjagen/internal/engine/ninja"
)

func TestEscapeString_NinjaMode(t *testing.T) {
	assert.Equal(t, "a$ b", ninja.EscapeString("a b", ninja.EscapeNinja))
	assert.Equal(t, "a$:b", ninja.EscapeString("a:b", ninja.EscapeNinja))
	assert.Equal(t, "a$$b", ninja.EscapeString("a$b", ninja.EscapeNinja))
	assert.Equal(t, "plain/path.o", ninja.EscapeString("plain/path.o", ninja.EscapeNinja))
}

func TestEscapeString_CommandMode(t *testing.T) {
	// Ninja sees "$ " and hands the shell "\ ".
	assert.Equal(t, `a\$ b`, ninja.EscapeString("a b", ninja.EscapeNinjaCommand))
	assert.Equal(t, "a$$b", ninja.EscapeString("a$b", ninja.EscapeNinjaCommand))
	assert.Equal(t, `-DX=\"y\"`, ninja.EscapeString(`-DX="y"`, ninja.EscapeNinjaCommand))
	// Colons are fine inside commands.
	assert.Equal(t, "a:b", ninja.EscapeString("a:b", ninja.EscapeNinjaCommand))
}

func TestEscapeString_ShellMode(t *testing.T) {
	assert.Equal(t, `a\ b`, ninja.EscapeString("a b", ninja.EscapeShell))
	assert.Equal(t, `a\$b`, ninja.EscapeString("a$b", ninja.EscapeShell))
}

func TestEscapeString_Preformatted(t *testing.T) {
	assert.Equal(t, "echo $$PATH -o x", ninja.EscapeString("echo $PATH -o x", ninja.EscapeNinjaPreformatted))
}
