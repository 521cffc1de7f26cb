package parlamento

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("lib/scrapers/parlamento")

// Meeting is one plenary sitting listed on the index page. Bid is the
// site's own identifier space, unrelated to the open-data DepId.
type Meeting struct {
	Bid  int64
	Date string
}

type AttendanceStatus string

const (
	StatusPresent           AttendanceStatus = "present"
	StatusAbsentQuorum      AttendanceStatus = "absent_quorum"
	StatusAbsentJustified   AttendanceStatus = "absent_justified"
	StatusAbsentUnjustified AttendanceStatus = "absent_unjustified"
)

// AttendanceRecord is one deputy row on a meeting detail page.
type AttendanceRecord struct {
	MeetingBid  int64
	MeetingDate string
	DeputyBid   int64
	DeputyName  string
	Party       string
	Status      AttendanceStatus
	StatusRaw   string
	Reason      string
}

// index page rows look like:
// <a ... href="/DeputadoGP/Paginas/DetalheReuniaoPlenaria.aspx?BID=335330">2025-12-18</a>
var meetingLinkRegex = regexp.MustCompile(`href="[^"]*DetalheReuniaoPlenaria\.aspx\?BID=(\d+)"[^>]*>(\d{4}-\d{2}-\d{2})<`)

// each deputy on the detail page repeats the same four SharePoint
// controls: hplDeputado (link with the biography BID), lblGP,
// lblPresenca and lblMotivo.
var deputyBlockRegex = regexp.MustCompile(`hplDeputado[^>]*href="[^"]*BID=(\d+)"[^>]*>([^<]+)</a>[\s\S]*?lblGP[^>]*>([^<]*)<[\s\S]*?lblPresenca[^>]*>([^<]*)<[\s\S]*?lblMotivo[^>]*>([^<]*)<`)

// ParseStatus maps the free-text presence label onto the fixed
// four-way taxonomy. Unrecognized text counts as an unjustified
// absence rather than an error.
func ParseStatus(statusText string) AttendanceStatus {
	normalized := strings.ToLower(strings.TrimSpace(statusText))

	if strings.Contains(normalized, "presença") || strings.Contains(normalized, "(p)") {
		return StatusPresent
	}
	if strings.Contains(normalized, "quórum") {
		return StatusAbsentQuorum
	}
	if strings.Contains(normalized, "justificada") ||
		strings.Contains(normalized, "missão oficial") ||
		strings.Contains(normalized, "substituição") {
		return StatusAbsentJustified
	}
	return StatusAbsentUnjustified
}

// FetchMeetingList scrapes the plenary index page.
func (c *Client) FetchMeetingList(ctx context.Context) ([]Meeting, error) {
	ctx, span := tracer.Start(ctx, "FetchMeetingList")
	defer span.End()

	html, err := c.get(ctx, meetingListUrl)
	if err != nil {
		return nil, err
	}
	return parseMeetingList(html), nil
}

func parseMeetingList(html string) []Meeting {
	var meetings []Meeting
	for _, m := range meetingLinkRegex.FindAllStringSubmatch(html, -1) {
		bid, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			continue
		}
		meetings = append(meetings, Meeting{Bid: bid, Date: m[2]})
	}
	return meetings
}

// FetchMeetingAttendance scrapes the detail page of one sitting.
func (c *Client) FetchMeetingAttendance(ctx context.Context, meeting Meeting) ([]AttendanceRecord, error) {
	ctx, span := tracer.Start(ctx, "FetchMeetingAttendance")
	defer span.End()

	url := fmt.Sprintf("%s?BID=%d", meetingDetailUrl, meeting.Bid)
	html, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}
	return parseMeetingAttendance(meeting, html), nil
}

func parseMeetingAttendance(meeting Meeting, html string) []AttendanceRecord {
	var records []AttendanceRecord
	for _, m := range deputyBlockRegex.FindAllStringSubmatch(html, -1) {
		bid, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			continue
		}
		name := strings.TrimSpace(m[2])
		statusRaw := strings.TrimSpace(m[4])
		if name == "" || statusRaw == "" {
			continue
		}
		records = append(records, AttendanceRecord{
			MeetingBid:  meeting.Bid,
			MeetingDate: meeting.Date,
			DeputyBid:   bid,
			DeputyName:  name,
			Party:       strings.TrimSpace(m[3]),
			Status:      ParseStatus(statusRaw),
			StatusRaw:   statusRaw,
			Reason:      strings.TrimSpace(m[5]),
		})
	}
	return records
}

// FetchAllAttendance lists meetings newer than sinceDate (exclusive,
// empty means all) and scrapes each one sequentially. The politeness
// delay between requests comes from the client.
func (c *Client) FetchAllAttendance(ctx context.Context, sinceDate string) ([]Meeting, []AttendanceRecord, error) {
	meetings, err := c.FetchMeetingList(ctx)
	if err != nil {
		return nil, nil, err
	}

	if sinceDate != "" {
		kept := meetings[:0]
		for _, m := range meetings {
			if m.Date > sinceDate {
				kept = append(kept, m)
			}
		}
		slog.InfoContext(ctx, "incremental attendance scrape",
			"since", sinceDate, "total", len(meetings), "new", len(kept))
		meetings = kept
	}

	var attendance []AttendanceRecord
	for i, meeting := range meetings {
		slog.InfoContext(ctx, "fetching meeting attendance",
			"date", meeting.Date, "bid", meeting.Bid, "n", i+1, "total", len(meetings))
		records, err := c.FetchMeetingAttendance(ctx, meeting)
		if err != nil {
			return nil, nil, fmt.Errorf("meeting %d: %w", meeting.Bid, err)
		}
		attendance = append(attendance, records...)
	}
	return meetings, attendance, nil
}
