// internal/infra/weather/client.go
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const defaultBaseURL = "https://api.weatherapi.com/v1"

// Client resolves the short weather marker (emoji plus temperature)
// that decorates the digest header.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	location   string
	logger     *logrus.Logger
}

func NewClient(apiKey, location string, logger *logrus.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    defaultBaseURL,
		apiKey:     apiKey,
		location:   location,
		logger:     logger,
	}
}

type apiResponse struct {
	Forecast struct {
		ForecastDay []struct {
			Day struct {
				AvgTempC  float64 `json:"avgtemp_c"`
				Condition struct {
					Text string `json:"text"`
				} `json:"condition"`
			} `json:"day"`
		} `json:"forecastday"`
	} `json:"forecast"`
}

// Lookup fetches the day's average temperature and condition and
// renders them as e.g. "☀️+21".
func (c *Client) Lookup(ctx context.Context, date time.Time) (string, error) {
	params := url.Values{
		"key": {c.apiKey},
		"q":   {c.location},
		"dt":  {date.Format("2006-01-02")},
		"aqi": {"no"},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/forecast.json?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("build weather request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch weather: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("weather API returned status %d", resp.StatusCode)
	}

	var payload apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode weather response: %w", err)
	}
	if len(payload.Forecast.ForecastDay) == 0 {
		return "", fmt.Errorf("weather response carried no forecast days")
	}

	day := payload.Forecast.ForecastDay[0].Day
	return Marker(day.Condition.Text, day.AvgTempC), nil
}

// Marker renders the condition emoji and the rounded temperature, with
// a leading + for non-negative values.
func Marker(condition string, avgTempC float64) string {
	temperature := int(math.Round(avgTempC))
	formatted := fmt.Sprintf("%+d", temperature)
	return conditionEmoji(condition) + formatted
}

func conditionEmoji(condition string) string {
	text := strings.ToLower(condition)
	switch {
	case strings.Contains(text, "clear") || strings.Contains(text, "sunny"):
		return "☀️"
	case strings.Contains(text, "rain") || strings.Contains(text, "drizzle"):
		return "🌧️"
	case strings.Contains(text, "cloud"):
		return "☁️"
	case strings.Contains(text, "storm") || strings.Contains(text, "thunder"):
		return "⛈️"
	default:
		return "🌥️"
	}
}
