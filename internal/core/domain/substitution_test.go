package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/ninjagen/internal/core/domain"
)

func TestParsePattern_LiteralsAndPlaceholders(t *testing.T) {
	p, err := domain.ParsePattern("clang -c {{source}} -o {{output}}")
	require.NoError(t, err)

	ranges := p.Ranges()
	require.Len(t, ranges, 4)
	assert.Equal(t, "clang -c ", ranges[0].Literal)
	assert.Same(t, domain.SubstitutionSource, ranges[1].Subst)
	assert.Equal(t, " -o ", ranges[2].Literal)
	assert.Same(t, domain.SubstitutionOutput, ranges[3].Subst)

	assert.Equal(t, "clang -c {{source}} -o {{output}}", p.String())
}

func TestParsePattern_UnknownPlaceholder(t *testing.T) {
	_, err := domain.ParsePattern("{{bogus}}")
	require.ErrorIs(t, err, domain.ErrInvalidSubstitution)
}

func TestParsePattern_UnterminatedPlaceholder(t *testing.T) {
	_, err := domain.ParsePattern("echo {{source")
	require.ErrorIs(t, err, domain.ErrInvalidSubstitution)
}

func TestPattern_Required(t *testing.T) {
	p := domain.MustParsePattern("{{source}} {{output}} {{source}}")
	req := p.Required()
	require.Len(t, req, 2)
	assert.Same(t, domain.SubstitutionSource, req[0])
	assert.Same(t, domain.SubstitutionOutput, req[1])
}

// Expanding a pattern holding only one placeholder must return the bound
// value untouched.
func TestExpandPattern_RoundTrip(t *testing.T) {
	for _, sub := range []*domain.Substitution{
		domain.SubstitutionSource,
		domain.SubstitutionSourceNamePart,
		domain.SubstitutionTargetOutputName,
		domain.CSubstitutionCFlagsCc,
		domain.RustSubstitutionCrateName,
	} {
		p := domain.MustParsePattern(sub.Name)
		got, err := domain.ExpandPattern(p, func(s *domain.Substitution) (string, bool) {
			return "v", s == sub
		})
		require.NoError(t, err, sub.Name)
		assert.Equal(t, "v", got, sub.Name)
	}
}

func TestExpandPattern_UnboundIsError(t *testing.T) {
	p := domain.MustParsePattern("{{source}}")
	_, err := domain.ExpandPattern(p, func(*domain.Substitution) (string, bool) {
		return "", false
	})
	require.ErrorIs(t, err, domain.ErrUnboundSubstitution)
}

func TestSubstitutionBits_MergeAndList(t *testing.T) {
	var bits domain.SubstitutionBits
	bits.MergePattern(domain.MustParsePattern("x {{source}} {{cflags_cc}}"))
	bits.MergeList(domain.MustParseList("{{output}}", "{{source}}"))

	assert.True(t, bits.Used(domain.SubstitutionSource))
	assert.True(t, bits.Used(domain.SubstitutionOutput))
	assert.True(t, bits.Used(domain.CSubstitutionCFlagsCc))
	assert.False(t, bits.Used(domain.CSubstitutionModuleDeps))

	list := bits.List()
	require.Len(t, list, 3)
	// Sorted by placeholder name.
	assert.Same(t, domain.CSubstitutionCFlagsCc, list[0])
	assert.Same(t, domain.SubstitutionOutput, list[1])
	assert.Same(t, domain.SubstitutionSource, list[2])
}
