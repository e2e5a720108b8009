// internal/infra/scrape/forecast.go
package scrape

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"time"

	"surf_class_notifier/internal/domain/forecast"

	"github.com/sirupsen/logrus"
)

// ForecastScraper fetches the surf-forecast page and extracts the
// ordered (period label, energy) observations the index is built from.
type ForecastScraper struct {
	httpClient *http.Client
	pageURL    string
	logger     *logrus.Logger
}

func NewForecastScraper(pageURL string, logger *logrus.Logger) *ForecastScraper {
	return &ForecastScraper{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		pageURL:    pageURL,
		logger:     logger,
	}
}

// The forecast table carries one cell per half-day period and, in a
// separate row, one energy cell per period, in the same column order.
var (
	timeCellRe   = regexp.MustCompile(`forecast-table-time__cell[^>]*>\s*([A-Za-z]+)\s*<`)
	energyCellRe = regexp.MustCompile(`forecast-table-energy__cell[^>]*>\s*(?:<strong[^>]*>)?\s*([^<]+?)\s*<`)
)

func (s *ForecastScraper) FetchRows(ctx context.Context) ([]forecast.Row, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build forecast request: %w", err)
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch forecast page: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("forecast page returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read forecast page: %w", err)
	}

	rows := ExtractForecastRows(string(body))
	if len(rows) == 0 {
		return nil, fmt.Errorf("forecast page yielded no rows")
	}
	s.logger.WithField("rows", len(rows)).Debug("Forecast rows scraped")
	return rows, nil
}

// ExtractForecastRows pairs the period-label cells with the energy
// cells in document order. Trailing labels without a matching energy
// cell are dropped, matching how the table trails off at the horizon.
func ExtractForecastRows(html string) []forecast.Row {
	labels := timeCellRe.FindAllStringSubmatch(html, -1)
	energies := energyCellRe.FindAllStringSubmatch(html, -1)

	n := len(labels)
	if len(energies) < n {
		n = len(energies)
	}
	rows := make([]forecast.Row, 0, n)
	for i := 0; i < n; i++ {
		rows = append(rows, forecast.Row{
			PeriodLabel: labels[i][1],
			Energy:      energies[i][1],
		})
	}
	return rows
}
