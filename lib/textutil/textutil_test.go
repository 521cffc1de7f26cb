package textutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStripDiacritics(t *testing.T) {
	require.Equal(t, "Jose Abstencao", StripDiacritics("José Abstenção"))
	require.Equal(t, "quorum", StripDiacritics("quórum"))
	require.Equal(t, "plain", StripDiacritics("plain"))
}

func TestNormalizeName(t *testing.T) {
	require.Equal(t, "maria da conceicao silva", NormalizeName("Maria da Conceição Silva"))
	require.Equal(t, "rui tavares", NormalizeName(" Rui Tavares. "))
	require.Equal(t, "", NormalizeName("123."))
}

func TestTokens(t *testing.T) {
	require.Equal(t, []string{"rui", "tavares"}, Tokens("rui  tavares"))
	require.Empty(t, Tokens(""))
}
