package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/ninjagen/internal/core/domain"
)

func TestSourceFile_Type(t *testing.T) {
	cases := map[string]domain.SourceType{
		"//a/x.c":         domain.SourceC,
		"//a/x.cc":        domain.SourceCPP,
		"//a/x.cpp":       domain.SourceCPP,
		"//a/x.cxx":       domain.SourceCPP,
		"//a/x.h":         domain.SourceH,
		"//a/x.hpp":       domain.SourceH,
		"//a/x.m":         domain.SourceM,
		"//a/x.mm":        domain.SourceMM,
		"//a/x.S":         domain.SourceS,
		"//a/x.s":         domain.SourceS,
		"//a/x.asm":       domain.SourceS,
		"//a/x.o":         domain.SourceO,
		"//a/x.obj":       domain.SourceO,
		"//a/x.def":       domain.SourceDef,
		"//a/x.modulemap": domain.SourceModuleMap,
		"//a/x.rs":        domain.SourceRust,
		"//a/x.go":        domain.SourceGo,
		"//a/x.swift":     domain.SourceSwift,
		"//a/x.txt":       domain.SourceUnknown,
		"//a/x":           domain.SourceUnknown,
	}
	for path, want := range cases {
		assert.Equal(t, want, domain.NewSourceFile(path).Type(), path)
	}
}

func TestSourceTypeSet_CSourceUsed(t *testing.T) {
	s := domain.NewSourceTypeSet()
	// An empty set counts as C.
	assert.True(t, s.CSourceUsed())

	s.Set(domain.SourceRust)
	assert.False(t, s.CSourceUsed())

	s.Set(domain.SourceCPP)
	assert.True(t, s.CSourceUsed())
}

// Mixing is defined as two or more of {C, Rust, Go} present; a lone family
// is fine no matter how many files it has.
func TestSourceTypeSet_MixedSourceUsed(t *testing.T) {
	var s domain.SourceTypeSet

	s = domain.NewSourceTypeSet()
	s.Set(domain.SourceC)
	s.Set(domain.SourceCPP)
	assert.False(t, s.MixedSourceUsed())

	s = domain.NewSourceTypeSet()
	s.Set(domain.SourceRust)
	assert.False(t, s.MixedSourceUsed())

	s = domain.NewSourceTypeSet()
	s.Set(domain.SourceC)
	s.Set(domain.SourceRust)
	assert.True(t, s.MixedSourceUsed())

	s = domain.NewSourceTypeSet()
	s.Set(domain.SourceRust)
	s.Set(domain.SourceGo)
	assert.True(t, s.MixedSourceUsed())
}

func TestPaths_Helpers(t *testing.T) {
	assert.Equal(t, "//a/", domain.SourceDirOf("//a/b.c"))
	assert.Equal(t, "b.c", domain.FilePart("//a/b.c"))
	assert.Equal(t, "b", domain.NamePart("//a/b.c"))
	assert.Equal(t, "c", domain.Extension("//a/b.c"))
	assert.Equal(t, "", domain.Extension("//a/b"))

	assert.Equal(t, "a/b.c", domain.RebaseSourceToBuildDir("//a/b.c", "//"))
	assert.Equal(t, "../a/b.c", domain.RebaseSourceToBuildDir("//a/b.c", "//out/"))
	assert.Equal(t, "../../a/b.c", domain.RebaseSourceToBuildDir("//a/b.c", "//out/debug/"))
}
