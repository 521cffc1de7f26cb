package sync

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"parlwatch-backend/lib/apis/parlamento"
)

func TestParseVoteDetail(t *testing.T) {
	detail := `Aprovado<BR>A Favor: <I>PS</I>, <I>BE</I>, <I>PAN</I>` +
		`<BR>Contra: <I>CH</I>, <I>IL</I>` +
		`<BR>Absten&ccedil;&atilde;o:&nbsp;<I>PSD</I>, <I>CDS-PP</I>`

	favor, against, abstain := ParseVoteDetail(detail)
	require.Equal(t, []string{"PS", "BE", "PAN"}, favor)
	require.Equal(t, []string{"CH", "IL"}, against)
	require.Equal(t, []string{"PSD", "CDS-PP"}, abstain)
}

func TestParseVoteDetailSpacing(t *testing.T) {
	// no space after the label colon, stray space inside a tag
	favor, against, abstain := ParseVoteDetail("A Favor: <I>PSD</I>, <I> CDS-PP</I><BR>Contra:<I>CH</I>")
	require.Equal(t, []string{"PSD", "CDS-PP"}, favor)
	require.Equal(t, []string{"CH"}, against)
	require.Empty(t, abstain)
}

func TestParseVoteDetailUnaccentedLabel(t *testing.T) {
	_, _, abstain := ParseVoteDetail("Abstencao: PCP, L")
	require.Equal(t, []string{"PCP", "L"}, abstain)
}

func TestParseVoteDetailDropsProse(t *testing.T) {
	favor, against, abstain := ParseVoteDetail(
		"A Favor: PS, " + strings.Repeat("verylongexplanation", 3) + ", PSD")
	require.Equal(t, []string{"PS", "PSD"}, favor)
	require.Empty(t, against)
	require.Empty(t, abstain)
}

func TestParseVoteDetailIgnoresLabelsMidLine(t *testing.T) {
	// "contra" buried in prose must not open a position list
	favor, against, abstain := ParseVoteDetail(
		"Requerimento votado contra o parecer da mesa<BR>A Favor: PS")
	require.Equal(t, []string{"PS"}, favor)
	require.Empty(t, against)
	require.Empty(t, abstain)
}

func TestParseVoteDetailEmpty(t *testing.T) {
	favor, against, abstain := ParseVoteDetail("")
	require.Empty(t, favor)
	require.Empty(t, against)
	require.Empty(t, abstain)
}

func TestInitiativeStatus(t *testing.T) {
	eventos := []parlamento.Evento{
		{Fase: "Entrada", CodigoFase: "10", DataFase: "2025-01-02"},
		{Fase: "Votação na generalidade", CodigoFase: "30", DataFase: "2025-02-10"},
		{Fase: "Baixa comissão", CodigoFase: "20", DataFase: "2025-01-20"},
	}
	require.Equal(t, "Votação na generalidade", initiativeStatus(eventos))
	require.Equal(t, "", initiativeStatus(nil))

	// events without dates never become the status
	require.Equal(t, "Entrada", initiativeStatus([]parlamento.Evento{
		{Fase: "Desconhecida"},
		{Fase: "Entrada", DataFase: "2025-01-02"},
	}))
}

func TestInitiativeSubmittedAt(t *testing.T) {
	eventos := []parlamento.Evento{
		{Fase: "Publicação", CodigoFase: "20", DataFase: "2025-01-05"},
		{Fase: "Entrada", CodigoFase: "10", DataFase: "2025-01-02"},
	}
	require.Equal(t, "2025-01-02", initiativeSubmittedAt(eventos))
	require.Equal(t, "", initiativeSubmittedAt(nil))
}

func TestJsonList(t *testing.T) {
	require.Equal(t, "[]", jsonList(nil))
	require.Equal(t, `["PS","CDS-PP"]`, jsonList([]string{"PS", "CDS-PP"}))
	require.Equal(t, []string{"PS", "CDS-PP"}, decodeJsonList(`["PS","CDS-PP"]`))
	require.Nil(t, decodeJsonList("not json"))
}
