package sync

import (
	"testing"

	"github.com/stretchr/testify/require"

	"parlwatch-backend/services/sync/db"
)

func TestNameMatches(t *testing.T) {
	// diacritics and case never matter
	require.True(t, nameMatches("José António Silva", "jose antonio silva"))

	// parliamentary short name contained in the full legal name
	require.True(t, nameMatches("Maria Silva", "Maria da Conceição Pereira Silva"))

	// 70% token overlap on the shorter name
	require.True(t, nameMatches(
		"João Pedro Matos Fernandes",
		"João Matos Fernandes Costa"))

	require.False(t, nameMatches("Ana Costa", "Rui Tavares"))
	require.False(t, nameMatches("", "Rui Tavares"))
	require.False(t, nameMatches("Ana Maria Costa", "Ana Rita Bernardes"))
}

func TestMatchDeputy(t *testing.T) {
	candidates := []db.ActiveDeputy{
		{ID: 1, Name: "Maria da Conceição Pereira Silva", ShortName: "Maria Silva"},
		{ID: 2, Name: "Maria Madalena Silva Carvalho", ShortName: "Madalena Silva"},
		{ID: 3, Name: "Rui Tavares", ShortName: "Rui Tavares"},
	}

	d, ok := matchDeputy("Rui Tavares", candidates)
	require.True(t, ok)
	require.EqualValues(t, 3, d.ID)

	// both Silvas pass the containment check, similarity picks the
	// closer one
	d, ok = matchDeputy("Maria Silva", candidates)
	require.True(t, ok)
	require.EqualValues(t, 1, d.ID)

	d, ok = matchDeputy("Madalena Silva", candidates)
	require.True(t, ok)
	require.EqualValues(t, 2, d.ID)

	_, ok = matchDeputy("Carlos Abreu", candidates)
	require.False(t, ok)
}
