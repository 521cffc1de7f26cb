package sync

import (
	"fmt"
	"strings"

	"parlwatch-backend/lib/apis/parlamento"
)

const fallbackLegislature = 17

var romanNumerals = map[string]int64{
	"I": 1, "II": 2, "III": 3, "IV": 4, "V": 5,
	"VI": 6, "VII": 7, "VIII": 8, "IX": 9, "X": 10,
	"XI": 11, "XII": 12, "XIII": 13, "XIV": 14, "XV": 15,
	"XVI": 16, "XVII": 17, "XVIII": 18, "XIX": 19, "XX": 20,
}

// parseLegislature maps the Roman numeral legislature designation of
// the feed ("XVII") onto its ordinal. Unknown designations fall back
// to the current legislature rather than failing the whole row.
func parseLegislature(legDes string) int64 {
	n, ok := romanNumerals[strings.ToUpper(strings.TrimSpace(legDes))]
	if !ok {
		return fallbackLegislature
	}
	return n
}

// isActiveDeputy checks whether any status entry marks the deputy as
// holding an effective seat.
func isActiveDeputy(d parlamento.Deputado) bool {
	for _, s := range d.DepSituacao {
		if strings.Contains(strings.ToLower(s.SioDes), "efetivo") {
			return true
		}
	}
	return false
}

// getCurrentParty picks the party entry still in effect on the given
// day (ISO date): an entry with no end date or one ending in the
// future wins, otherwise the first entry stands in. Deputies with no
// party entries at all (rare, independents) yield "".
func getCurrentParty(d parlamento.Deputado, today string) string {
	if len(d.DepGP) == 0 {
		return ""
	}
	for _, gp := range d.DepGP {
		if gp.GpDtFim == "" || gp.GpDtFim > today {
			return gp.GpSigla
		}
	}
	return d.DepGP[0].GpSigla
}

// getMandateDates folds the status entries into a single mandate
// interval: the earliest start and the latest end, where an open-ended
// entry (no end date) keeps the mandate open regardless of closed
// entries around it.
func getMandateDates(d parlamento.Deputado) (start, end string) {
	open := false
	for _, s := range d.DepSituacao {
		if s.SioDtInicio != "" && (start == "" || s.SioDtInicio < start) {
			start = s.SioDtInicio
		}
		if s.SioDtFim == "" {
			open = true
		} else if s.SioDtFim > end {
			end = s.SioDtFim
		}
	}
	if open {
		end = ""
	}
	return start, end
}

// deduplicateDeputies collapses duplicate DepId rows. The feed repeats
// a deputy when their situation changes mid-legislature; the row whose
// mandate starts latest carries the current state, ties keep the row
// seen first.
func deduplicateDeputies(deputados []parlamento.Deputado) []parlamento.Deputado {
	type entry struct {
		idx   int
		start string
	}
	seen := make(map[int64]entry)
	var order []int64

	for i, d := range deputados {
		start, _ := getMandateDates(d)
		prev, ok := seen[d.DepId]
		if !ok {
			seen[d.DepId] = entry{idx: i, start: start}
			order = append(order, d.DepId)
			continue
		}
		if start != "" && (prev.start == "" || start > prev.start) {
			seen[d.DepId] = entry{idx: i, start: start}
		}
	}

	out := make([]parlamento.Deputado, 0, len(order))
	for _, id := range order {
		out = append(out, deputados[seen[id].idx])
	}
	return out
}

var partyColors = map[string]string{
	"PS":     "#FF66B2",
	"PSD":    "#FF6600",
	"CH":     "#202056",
	"IL":     "#00ADEF",
	"BE":     "#C40000",
	"PCP":    "#C41200",
	"L":      "#00AA00",
	"PAN":    "#009639",
	"CDS-PP": "#0066CC",
}

const defaultPartyColor = "#808080"

func partyColor(acronym string) string {
	if c, ok := partyColors[acronym]; ok {
		return c
	}
	return defaultPartyColor
}

func photoUrl(depId int64) string {
	return fmt.Sprintf("https://app.parlamento.pt/webutils/getimage.aspx?id=%d&type=deputado", depId)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
