package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func sampleConditions() CurrentConditions {
	return CurrentConditions{
		Coord: Coord{Lon: -112.3314, Lat: 33.63},
		Weather: []WeatherCondition{
			{ID: 800, Main: "Clear", Description: "clear sky", Icon: "01d"},
		},
		Main: MainReadings{
			Temp:      101.3,
			FeelsLike: 98.6,
			TempMin:   97.2,
			TempMax:   104.1,
			Pressure:  1008,
			Humidity:  18,
		},
		Wind:   Wind{Speed: 9.22, Deg: 240},
		Clouds: Clouds{All: 5},
		Sys:    Sys{Country: "US", Sunrise: 1724751060, Sunset: 1724798220},
		Dt:     1724779800,
		ID:     123456,
		Name:   "Surprise",
	}
}

func TestFlatten(t *testing.T) {
	obs := sampleConditions().Flatten()

	assert.Equal(t, int64(123456), obs.LocationID)
	assert.Equal(t, "Surprise", obs.LocationName)
	assert.Equal(t, "US", obs.LocationCountry)
	assert.Equal(t, -112.3314, obs.LocationLon)
	assert.Equal(t, 33.63, obs.LocationLat)
	assert.Equal(t, "Clear", obs.WeatherMain)
	assert.Equal(t, "clear sky", obs.WeatherDescription)
	assert.Equal(t, 101.3, obs.Temperature)
	assert.Equal(t, 98.6, obs.TemperatureFeelsLike)
	assert.Equal(t, 97.2, obs.TemperatureMin)
	assert.Equal(t, 104.1, obs.TemperatureMax)
	assert.Equal(t, 1008, obs.Pressure)
	assert.Equal(t, 18, obs.Humidity)
	assert.Equal(t, 9.22, obs.WindSpeed)
	assert.Equal(t, 240, obs.WindDegrees)
	assert.Equal(t, 5, obs.Clouds)

	assert.Equal(t, time.Unix(1724751060, 0).UTC(), obs.Sunrise)
	assert.Equal(t, time.Unix(1724798220, 0).UTC(), obs.Sunset)
	assert.Equal(t, time.Unix(1724779800, 0).UTC(), obs.ObservedAt)
	// Sunrise and sunset come from their own fields and must differ.
	assert.NotEqual(t, obs.Sunrise, obs.Sunset)
}

func TestFlatten_NoWeatherEntries(t *testing.T) {
	cond := sampleConditions()
	cond.Weather = nil

	obs := cond.Flatten()
	assert.Empty(t, obs.WeatherMain)
	assert.Empty(t, obs.WeatherDescription)
}

func TestAsLocation(t *testing.T) {
	loc := sampleConditions().Flatten().AsLocation()

	assert.Equal(t, Location{
		ID:      123456,
		Name:    "Surprise",
		Country: "US",
		Lon:     -112.3314,
		Lat:     33.63,
	}, loc)
}
