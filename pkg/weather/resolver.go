package weather

import (
	"context"
	"fmt"
	"net/url"

	"github.com/go-go-golems/weatherchat/pkg/turns"
	client "github.com/mutablelogic/go-client"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const (
	DefaultGeocodeEndpoint  = "https://geocode.maps.co"
	DefaultForecastEndpoint = "https://api.open-meteo.com/v1"
)

// Resolver looks up the current weather of a city: the city is geocoded
// first, then the forecast API is asked for the current conditions at its
// coordinates.
type Resolver struct {
	geocode  *client.Client
	forecast *client.Client
	apiKey   string
}

type config struct {
	geocodeEndpoint  string
	forecastEndpoint string
	apiKey           string
	clientOpts       []client.ClientOpt
}

type Option func(*config)

func WithGeocodeEndpoint(u string) Option {
	return func(c *config) { c.geocodeEndpoint = u }
}

func WithForecastEndpoint(u string) Option {
	return func(c *config) { c.forecastEndpoint = u }
}

// WithGeocodeAPIKey sets the api_key sent to the geocoding service.
func WithGeocodeAPIKey(key string) Option {
	return func(c *config) { c.apiKey = key }
}

// WithClientOpts passes options to both HTTP clients.
func WithClientOpts(opts ...client.ClientOpt) Option {
	return func(c *config) { c.clientOpts = append(c.clientOpts, opts...) }
}

func NewResolver(opts ...Option) (*Resolver, error) {
	cfg := config{
		geocodeEndpoint:  DefaultGeocodeEndpoint,
		forecastEndpoint: DefaultForecastEndpoint,
	}
	for _, o := range opts {
		o(&cfg)
	}

	geocode, err := client.New(append(cfg.clientOpts, client.OptEndpoint(cfg.geocodeEndpoint))...)
	if err != nil {
		return nil, errors.Wrap(err, "could not create geocode client")
	}
	forecast, err := client.New(append(cfg.clientOpts, client.OptEndpoint(cfg.forecastEndpoint))...)
	if err != nil {
		return nil, errors.Wrap(err, "could not create forecast client")
	}
	return &Resolver{geocode: geocode, forecast: forecast, apiKey: cfg.apiKey}, nil
}

type geocodeResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

type currentWeather struct {
	Temperature   float64 `json:"temperature"`
	Windspeed     float64 `json:"windspeed"`
	Winddirection float64 `json:"winddirection"`
	IsDay         int     `json:"is_day"`
	Weathercode   int     `json:"weathercode"`
	Time          string  `json:"time"`
}

type forecastResponse struct {
	CurrentWeather *currentWeather `json:"current_weather"`
}

// Resolve returns the current weather for location. Failures are reported as
// a result with an "error" key rather than as an error.
func (r *Resolver) Resolve(ctx context.Context, location string) turns.ToolResult {
	if location == "" {
		return turns.ErrorResult("Could not find location: model did not provide location")
	}

	lat, lon, err := r.coordinates(ctx, location)
	if err != nil {
		log.Debug().Err(err).Str("location", location).Msg("geocoding failed")
		return turns.ErrorResult(fmt.Sprintf("Could not find location: %v", err))
	}

	query := url.Values{}
	query.Set("latitude", lat)
	query.Set("longitude", lon)
	query.Set("current_weather", "true")
	var resp forecastResponse
	if err := r.forecast.DoWithContext(ctx, nil, &resp, client.OptPath("forecast"), client.OptQuery(query)); err != nil {
		log.Debug().Err(err).Str("location", location).Msg("forecast request failed")
		return turns.ErrorResult(fmt.Sprintf("Could not get weather data: %v", err))
	}
	if resp.CurrentWeather == nil {
		return turns.ErrorResult("Could not get weather data")
	}

	cw := resp.CurrentWeather
	return turns.ToolResult{
		"temperature":   cw.Temperature,
		"windspeed":     cw.Windspeed,
		"winddirection": CompassPoint(cw.Winddirection),
		"is_day":        dayOrNight(cw.IsDay),
		"weathercode":   DescribeWeatherCode(cw.Weathercode),
	}
}

var errNoGeocodeData = errors.New("no geocode_data")

func (r *Resolver) coordinates(ctx context.Context, location string) (string, string, error) {
	query := url.Values{}
	query.Set("city", location)
	if r.apiKey != "" {
		query.Set("api_key", r.apiKey)
	}
	var results []geocodeResult
	if err := r.geocode.DoWithContext(ctx, nil, &results, client.OptPath("search"), client.OptQuery(query)); err != nil {
		return "", "", err
	}
	if len(results) == 0 {
		return "", "", errNoGeocodeData
	}
	log.Debug().Str("location", location).Str("match", results[0].DisplayName).Msg("geocoded location")
	return results[0].Lat, results[0].Lon, nil
}
