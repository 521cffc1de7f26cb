package parlamento

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"parlwatch-backend/lib/textutil"
)

// Biography holds whatever could be extracted from a deputy's
// biography page. A page with none of the fields yields a nil
// Biography, which callers treat as "no data", not an error.
type Biography struct {
	BiographyId  int64
	BirthDate    string
	Profession   string
	Education    string
	BioNarrative string
	SourceUrl    string
}

var ptMonths = map[string]string{
	"janeiro":   "01",
	"fevereiro": "02",
	"marco":     "03",
	"abril":     "04",
	"maio":      "05",
	"junho":     "06",
	"julho":     "07",
	"agosto":    "08",
	"setembro":  "09",
	"outubro":   "10",
	"novembro":  "11",
	"dezembro":  "12",
}

var (
	isoDateRegex = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	ptDateRegex  = regexp.MustCompile(`(\d{1,2})\s+de\s+(\w+)\s+de\s+(\d{4})`)
)

// ParsePortugueseDate turns "23 de Agosto de 1975" into "1975-08-23".
// Returns "" when the text does not look like a date.
func ParsePortugueseDate(dateStr string) string {
	normalized := strings.ToLower(textutil.StripDiacritics(dateStr))
	m := ptDateRegex.FindStringSubmatch(normalized)
	if m == nil {
		return ""
	}
	month, ok := ptMonths[m[2]]
	if !ok {
		return ""
	}
	day := m[1]
	if len(day) == 1 {
		day = "0" + day
	}
	return fmt.Sprintf("%s-%s-%s", m[3], month, day)
}

// the page renders every field as repeated SharePoint spans whose ids
// share a field prefix, e.g. ucDOB_rptContent_ctl01_lblText.
func extractSpanValues(doc *goquery.Document, fieldId string) []string {
	idPattern := regexp.MustCompile(fieldId + `_rptContent_ctl\d+_lblText`)

	var values []string
	doc.Find("span[id]").Each(func(_ int, s *goquery.Selection) {
		id, _ := s.Attr("id")
		if !idPattern.MatchString(id) {
			return
		}
		text := strings.TrimSpace(s.Text())
		if text != "" {
			values = append(values, text)
		}
	})
	return values
}

func extractSpanValue(doc *goquery.Document, fieldId string) string {
	values := extractSpanValues(doc, fieldId)
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

// FetchBiography scrapes one biography page. Birth dates arrive either
// already in ISO form or as Portuguese long-form dates.
func (c *Client) FetchBiography(ctx context.Context, biographyId int64) (*Biography, error) {
	ctx, span := tracer.Start(ctx, "FetchBiography")
	defer span.End()

	url := fmt.Sprintf("%s?BID=%d", biographyUrl, biographyId)
	html, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}

	bio := ParseBiography(biographyId, html)
	if bio != nil {
		bio.SourceUrl = url
	}
	return bio, nil
}

func ParseBiography(biographyId int64, html string) *Biography {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	birthDate := extractSpanValue(doc, "ucDOB")
	if birthDate != "" && !isoDateRegex.MatchString(birthDate) {
		birthDate = ParsePortugueseDate(birthDate)
	}

	profession := extractSpanValue(doc, "ucProf")
	education := strings.Join(extractSpanValues(doc, "ucHabilitacoes"), "; ")
	bioNarrative := strings.Join(extractSpanValues(doc, "ucCargosExercidos"), "\n")

	if birthDate == "" && profession == "" && education == "" && bioNarrative == "" {
		return nil
	}

	return &Biography{
		BiographyId:  biographyId,
		BirthDate:    birthDate,
		Profession:   profession,
		Education:    education,
		BioNarrative: bioNarrative,
	}
}
