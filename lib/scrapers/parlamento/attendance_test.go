package parlamento

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	require.Equal(t, StatusPresent, ParseStatus("Presença (P)"))
	require.Equal(t, StatusPresent, ParseStatus("Presença registada"))
	require.Equal(t, StatusPresent, ParseStatus("(P)"))
	require.Equal(t, StatusAbsentQuorum, ParseStatus("Falta por quórum"))
	require.Equal(t, StatusAbsentJustified, ParseStatus("Ausência - falta justificada"))
	require.Equal(t, StatusAbsentJustified, ParseStatus("Missão Oficial"))
	require.Equal(t, StatusAbsentJustified, ParseStatus("Substituição nos termos do artigo 5."))
	require.Equal(t, StatusAbsentUnjustified, ParseStatus("Falta"))
	require.Equal(t, StatusAbsentUnjustified, ParseStatus(""))
}

func TestParseMeetingList(t *testing.T) {
	html := `
<table>
<tr><td><a id="r1" href="/DeputadoGP/Paginas/DetalheReuniaoPlenaria.aspx?BID=335330" class="link">2025-12-18</a></td></tr>
<tr><td><a id="r2" href="/DeputadoGP/Paginas/DetalheReuniaoPlenaria.aspx?BID=335201">2025-12-17</a></td></tr>
<tr><td><a href="/DeputadoGP/Paginas/OutraPagina.aspx?BID=999">2025-12-16</a></td></tr>
</table>`

	meetings := parseMeetingList(html)
	require.Len(t, meetings, 2)
	require.Equal(t, Meeting{Bid: 335330, Date: "2025-12-18"}, meetings[0])
	require.Equal(t, Meeting{Bid: 335201, Date: "2025-12-17"}, meetings[1])
}

func TestParseMeetingAttendance(t *testing.T) {
	html := `
<div>
  <a id="ctl00_hplDeputado" href="/DeputadoGP/Paginas/Biografia.aspx?BID=7421">Maria Silva</a>
  <span id="ctl00_lblGP">PS</span>
  <span id="ctl00_lblPresenca">Presença registada</span>
  <span id="ctl00_lblMotivo"></span>
</div>
<div>
  <a id="ctl01_hplDeputado" href="/DeputadoGP/Paginas/Biografia.aspx?BID=8532">Rui Tavares</a>
  <span id="ctl01_lblGP">PSD</span>
  <span id="ctl01_lblPresenca">Falta justificada</span>
  <span id="ctl01_lblMotivo">Missão oficial</span>
</div>`

	meeting := Meeting{Bid: 335330, Date: "2025-12-18"}
	records := parseMeetingAttendance(meeting, html)
	require.Len(t, records, 2)

	diff := cmp.Diff(AttendanceRecord{
		MeetingBid:  335330,
		MeetingDate: "2025-12-18",
		DeputyBid:   7421,
		DeputyName:  "Maria Silva",
		Party:       "PS",
		Status:      StatusPresent,
		StatusRaw:   "Presença registada",
	}, records[0])
	require.Empty(t, diff)

	require.Equal(t, StatusAbsentJustified, records[1].Status)
	require.Equal(t, "Missão oficial", records[1].Reason)
	require.EqualValues(t, 8532, records[1].DeputyBid)
}

func TestParseMeetingAttendanceEmpty(t *testing.T) {
	require.Empty(t, parseMeetingAttendance(Meeting{}, "<html><body>nada</body></html>"))
}
