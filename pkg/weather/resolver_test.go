package weather

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/go-go-golems/weatherchat/pkg/inference/tools"
	"github.com/go-go-golems/weatherchat/pkg/turns"
	"github.com/stretchr/testify/require"
)

type fakeAPIs struct {
	geocode  any
	forecast any
	status   int

	geocodeQueries  []url.Values
	forecastQueries []url.Values
}

func (f *fakeAPIs) server(t *testing.T) *httptest.Server {
	mux := http.NewServeMux()
	writeJSON := func(w http.ResponseWriter, v any) {
		w.Header().Set("Content-Type", "application/json")
		if f.status != 0 {
			w.WriteHeader(f.status)
		}
		require.NoError(t, json.NewEncoder(w).Encode(v))
	}
	mux.HandleFunc("/geo/search", func(w http.ResponseWriter, r *http.Request) {
		f.geocodeQueries = append(f.geocodeQueries, r.URL.Query())
		writeJSON(w, f.geocode)
	})
	mux.HandleFunc("/meteo/forecast", func(w http.ResponseWriter, r *http.Request) {
		f.forecastQueries = append(f.forecastQueries, r.URL.Query())
		writeJSON(w, f.forecast)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestResolver(t *testing.T, f *fakeAPIs, opts ...Option) *Resolver {
	srv := f.server(t)
	opts = append([]Option{
		WithGeocodeEndpoint(srv.URL + "/geo"),
		WithForecastEndpoint(srv.URL + "/meteo"),
	}, opts...)
	r, err := NewResolver(opts...)
	require.NoError(t, err)
	return r
}

var parisGeocode = []map[string]any{
	{"lat": "48.8588897", "lon": "2.3200410", "display_name": "Paris, Ile-de-France, France"},
}

func TestResolve_Success(t *testing.T) {
	f := &fakeAPIs{
		geocode: parisGeocode,
		forecast: map[string]any{"current_weather": map[string]any{
			"time": "2025-06-01T12:00", "interval": 900,
			"temperature": 21.4, "windspeed": 11.2, "winddirection": 225,
			"is_day": 1, "weathercode": 2,
		}},
	}
	r := newTestResolver(t, f, WithGeocodeAPIKey("secret"))

	res := r.Resolve(context.Background(), "Paris")
	require.Equal(t, turns.ToolResult{
		"temperature":   21.4,
		"windspeed":     11.2,
		"winddirection": "SW",
		"is_day":        "Day",
		"weathercode":   "Partly cloudy",
	}, res)

	require.Len(t, f.geocodeQueries, 1)
	require.Equal(t, "Paris", f.geocodeQueries[0].Get("city"))
	require.Equal(t, "secret", f.geocodeQueries[0].Get("api_key"))
	require.Equal(t, "48.8588897", f.forecastQueries[0].Get("latitude"))
	require.Equal(t, "2.3200410", f.forecastQueries[0].Get("longitude"))
	require.Equal(t, "true", f.forecastQueries[0].Get("current_weather"))
}

func TestResolve_ErrorResults(t *testing.T) {
	t.Run("no location", func(t *testing.T) {
		f := &fakeAPIs{}
		r := newTestResolver(t, f)
		res := r.Resolve(context.Background(), "")
		require.Equal(t, turns.ErrorResult("Could not find location: model did not provide location"), res)
		require.Empty(t, f.geocodeQueries)
	})

	t.Run("unknown location", func(t *testing.T) {
		f := &fakeAPIs{geocode: []any{}}
		r := newTestResolver(t, f)
		res := r.Resolve(context.Background(), "Qqzxy")
		require.Equal(t, turns.ErrorResult("Could not find location: no geocode_data"), res)
		require.Empty(t, f.forecastQueries)
	})

	t.Run("no current weather", func(t *testing.T) {
		f := &fakeAPIs{geocode: parisGeocode, forecast: map[string]any{"latitude": 48.86}}
		r := newTestResolver(t, f)
		res := r.Resolve(context.Background(), "Paris")
		require.Equal(t, turns.ErrorResult("Could not get weather data"), res)
	})

	t.Run("http failure", func(t *testing.T) {
		f := &fakeAPIs{geocode: map[string]any{"error": "invalid key"}, status: http.StatusUnauthorized}
		r := newTestResolver(t, f)
		res := r.Resolve(context.Background(), "Paris")
		reason, ok := res.Error()
		require.True(t, ok)
		require.Contains(t, reason, "Could not find location")
	})
}

func TestRegister_ToolAndAlias(t *testing.T) {
	f := &fakeAPIs{geocode: []any{}}
	r := newTestResolver(t, f)
	reg := tools.NewRegistry()
	require.NoError(t, Register(reg, r))

	def, ok := reg.Get(ToolName)
	require.True(t, ok)
	require.Equal(t, []string{"location"}, def.ParameterNames())
	_, ok = reg.Get(ToolAlias)
	require.True(t, ok)

	res := reg.Execute(context.Background(), turns.ToolCall{Name: ToolAlias, Arguments: map[string]any{"location": "Qqzxy"}})
	require.Equal(t, turns.ErrorResult("Could not find location: no geocode_data"), res)

	res = reg.Execute(context.Background(), turns.ToolCall{Name: ToolName, Arguments: map[string]any{}})
	require.Equal(t, turns.ErrorResult("Could not find location: model did not provide location"), res)
}
