package parlamento

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParsePortugueseDate(t *testing.T) {
	require.Equal(t, "1975-08-23", ParsePortugueseDate("23 de Agosto de 1975"))
	require.Equal(t, "1980-03-05", ParsePortugueseDate("5 de março de 1980"))
	require.Equal(t, "1962-01-01", ParsePortugueseDate("Nascida a 1 de Janeiro de 1962"))
	require.Equal(t, "", ParsePortugueseDate("1975-08-23"))
	require.Equal(t, "", ParsePortugueseDate("23 de Augusto de 1975"))
	require.Equal(t, "", ParsePortugueseDate(""))
}

const biographyPage = `
<html><body>
<span id="ctl00_ucDOB_rptContent_ctl01_lblText">23 de Agosto de 1975</span>
<span id="ctl00_ucProf_rptContent_ctl01_lblText">Advogada</span>
<span id="ctl00_ucHabilitacoes_rptContent_ctl01_lblText">Licenciatura em Direito</span>
<span id="ctl00_ucHabilitacoes_rptContent_ctl02_lblText">Mestrado em Ciência Política</span>
<span id="ctl00_ucCargosExercidos_rptContent_ctl01_lblText">Vereadora</span>
<span id="ctl00_unrelated_lblText">ignorar</span>
</body></html>`

func TestParseBiography(t *testing.T) {
	bio := ParseBiography(7421, biographyPage)
	require.NotNil(t, bio)
	require.EqualValues(t, 7421, bio.BiographyId)
	require.Equal(t, "1975-08-23", bio.BirthDate)
	require.Equal(t, "Advogada", bio.Profession)
	require.Equal(t, "Licenciatura em Direito; Mestrado em Ciência Política", bio.Education)
	require.Equal(t, "Vereadora", bio.BioNarrative)
}

func TestParseBiographyIsoDate(t *testing.T) {
	bio := ParseBiography(1, `<span id="x_ucDOB_rptContent_ctl01_lblText">1975-08-23</span>`)
	require.NotNil(t, bio)
	require.Equal(t, "1975-08-23", bio.BirthDate)
}

func TestParseBiographyEmptyPage(t *testing.T) {
	require.Nil(t, ParseBiography(1, "<html><body></body></html>"))
}
