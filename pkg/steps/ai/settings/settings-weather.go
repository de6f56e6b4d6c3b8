package settings

import "github.com/huandu/go-clone"

const (
	DefaultGeocodeURL  = "https://geocode.maps.co"
	DefaultForecastURL = "https://api.open-meteo.com/v1"
)

type WeatherSettings struct {
	GeocodeURL    string `yaml:"geocode-url"`
	GeocodeAPIKey string `yaml:"geocode-api-key,omitempty"`
	ForecastURL   string `yaml:"forecast-url"`
}

func NewWeatherSettings() *WeatherSettings {
	return &WeatherSettings{
		GeocodeURL:  DefaultGeocodeURL,
		ForecastURL: DefaultForecastURL,
	}
}

func (s *WeatherSettings) Clone() *WeatherSettings {
	return clone.Clone(s).(*WeatherSettings)
}
