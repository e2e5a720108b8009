// internal/infra/scrape/calendar.go
package scrape

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"regexp"
	"strings"
	"time"

	"surf_class_notifier/internal/domain/class"

	"github.com/sirupsen/logrus"
)

// Sentinels stored when a scraped row is missing a cell.
const (
	noTimeAvailable  = "No time available"
	noCoachAvailable = "No coach available"
)

// CalendarClient talks to the class-registration site: one login per
// run, then one day-listing fetch per date in the window.
type CalendarClient struct {
	httpClient *http.Client
	baseURL    string
	email      string
	password   string
	logger     *logrus.Logger
}

func NewCalendarClient(baseURL, email, password string, logger *logrus.Logger) (*CalendarClient, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}
	return &CalendarClient{
		httpClient: &http.Client{Jar: jar, Timeout: 30 * time.Second},
		baseURL:    strings.TrimRight(baseURL, "/"),
		email:      email,
		password:   password,
		logger:     logger,
	}, nil
}

// Start logs into the site and keeps the session cookie for the
// subsequent day fetches. A failure here is unrecoverable for the run.
func (c *CalendarClient) Start(ctx context.Context) error {
	form := url.Values{
		"login":    {c.email},
		"password": {c.password},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/login", strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("login request failed: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("login returned status %d", resp.StatusCode)
	}
	c.logger.Info("Calendar site login succeeded")
	return nil
}

// FetchSessionsForDate loads the day listing and extracts the raw
// session rows.
func (c *CalendarClient) FetchSessionsForDate(ctx context.Context, date time.Time) ([]class.ScrapedSession, error) {
	listingURL := fmt.Sprintf("%s/?page=calendario_aulas&source=mes&data=%s", c.baseURL, siteDate(date))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, listingURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build day request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch day listing: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("day listing returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read day listing: %w", err)
	}
	return ExtractDaySessions(string(body)), nil
}

func (c *CalendarClient) Close() {
	// The site session is cookie-scoped; nothing to tear down.
}

// siteDate renders the date the way the site's calendar widget expects:
// no zero padding and a zero-based month.
func siteDate(date time.Time) string {
	return fmt.Sprintf("%d-%d-%d", date.Year(), int(date.Month())-1, date.Day())
}

// The day listing renders each class as a three-cell row: name on the
// left half, time range in the free column, coach on the right half.
var (
	classCellRe = regexp.MustCompile(`class="col-50"[^>]*align="left"[^>]*>\s*([^<]*?)\s*<`)
	timeCellsRe = regexp.MustCompile(`class="col"[^>]*align="left"[^>]*>\s*([^<]*?)\s*<`)
	coachCellRe = regexp.MustCompile(`class="col-50"[^>]*align="right"[^>]*>\s*([^<]*?)\s*<`)
)

// ExtractDaySessions pulls raw session records out of a day listing
// page. Rows with missing time or coach cells get sentinel values
// rather than being dropped.
func ExtractDaySessions(html string) []class.ScrapedSession {
	names := classCellRe.FindAllStringSubmatch(html, -1)
	times := timeCellsRe.FindAllStringSubmatch(html, -1)
	coaches := coachCellRe.FindAllStringSubmatch(html, -1)

	sessions := make([]class.ScrapedSession, 0, len(names))
	for i, name := range names {
		s := class.ScrapedSession{
			ClassName: strings.ToUpper(strings.TrimSpace(name[1])),
			TimeRange: noTimeAvailable,
			CoachName: noCoachAvailable,
		}
		if i < len(times) && strings.TrimSpace(times[i][1]) != "" {
			s.TimeRange = strings.TrimSpace(times[i][1])
		}
		if i < len(coaches) && strings.TrimSpace(coaches[i][1]) != "" {
			s.CoachName = strings.TrimSpace(coaches[i][1])
		}
		sessions = append(sessions, s)
	}
	return sessions
}
