package weather

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarker(t *testing.T) {
	tests := []struct {
		condition string
		avgTempC  float64
		want      string
	}{
		{"Sunny", 21.3, "☀️+21"},
		{"Clear", 18.5, "☀️+19"},
		{"Patchy rain possible", 14.0, "🌧️+14"},
		{"Light drizzle", 12.8, "🌧️+13"},
		{"Partly cloudy", 16.0, "☁️+16"},
		{"Thundery outbreaks", 19.0, "⛈️+19"},
		{"Mist", 10.0, "🌥️+10"},
		{"Clear", -3.4, "☀️-3"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Marker(tt.condition, tt.avgTempC), "condition %q", tt.condition)
	}
}

func TestLookup(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/forecast.json", r.URL.Path)
		assert.Equal(t, "secret", r.URL.Query().Get("key"))
		assert.Equal(t, "Ericeira", r.URL.Query().Get("q"))
		assert.Equal(t, "2025-03-10", r.URL.Query().Get("dt"))
		fmt.Fprint(w, `{"forecast":{"forecastday":[{"day":{"avgtemp_c":17.6,"condition":{"text":"Sunny"}}}]}}`)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	marker, err := client.Lookup(context.Background(), time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "☀️+18", marker)
}

func TestLookup_NoForecastDays(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"forecast":{"forecastday":[]}}`)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Lookup(context.Background(), time.Now())
	assert.Error(t, err)
}

func TestLookup_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad key", http.StatusForbidden)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Lookup(context.Background(), time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 403")
}

func newTestClient(baseURL string) *Client {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	client := NewClient("secret", "Ericeira", logger)
	client.baseURL = baseURL
	return client
}
