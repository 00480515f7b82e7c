package domain

import "time"

// CurrentConditions mirrors the OpenWeatherMap current-weather payload
// (data/2.5/weather). Snapshot files store this shape verbatim, so every
// field the provider sends survives a round trip through disk.
type CurrentConditions struct {
	Coord   Coord              `json:"coord"`
	Weather []WeatherCondition `json:"weather"`
	Main    MainReadings       `json:"main"`
	Wind    Wind               `json:"wind"`
	Clouds  Clouds             `json:"clouds"`
	Sys     Sys                `json:"sys"`
	Dt      int64              `json:"dt"`
	ID      int64              `json:"id"`
	Name    string             `json:"name"`
}

// Coord is a WGS-84 longitude/latitude pair.
type Coord struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

// WeatherCondition is one entry of the payload's weather array. The first
// entry is the primary condition.
type WeatherCondition struct {
	ID          int    `json:"id"`
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon,omitempty"`
}

// MainReadings holds the thermodynamic readings.
type MainReadings struct {
	Temp      float64 `json:"temp"`
	FeelsLike float64 `json:"feels_like"`
	TempMin   float64 `json:"temp_min"`
	TempMax   float64 `json:"temp_max"`
	Pressure  int     `json:"pressure"`
	Humidity  int     `json:"humidity"`
}

// Wind holds wind speed and direction.
type Wind struct {
	Speed float64 `json:"speed"`
	Deg   int     `json:"deg"`
	Gust  float64 `json:"gust,omitempty"`
}

// Clouds holds cloud cover percentage.
type Clouds struct {
	All int `json:"all"`
}

// Sys holds country and sun times as Unix epochs.
type Sys struct {
	Country string `json:"country"`
	Sunrise int64  `json:"sunrise"`
	Sunset  int64  `json:"sunset"`
}

// Observation is the flattened row shape loaded into the current_weather
// table: one row per fetch.
type Observation struct {
	LocationID           int64
	LocationName         string
	LocationCountry      string
	Sunrise              time.Time
	Sunset               time.Time
	LocationLon          float64
	LocationLat          float64
	WeatherMain          string
	WeatherDescription   string
	ObservedAt           time.Time
	Temperature          float64
	TemperatureFeelsLike float64
	TemperatureMin       float64
	TemperatureMax       float64
	Pressure             int
	Humidity             int
	WindSpeed            float64
	WindDegrees          int
	Clouds               int
}

// Location is the durable, deduplicated projection of observations. ID is
// unique across the locations table; rows are inserted at most once and
// never updated.
type Location struct {
	ID      int64
	Name    string
	Country string
	Lon     float64
	Lat     float64
}

// Flatten projects the nested payload into the observations row shape.
// Sunrise, sunset, and the observation time are converted from Unix epochs
// to UTC timestamps.
func (c CurrentConditions) Flatten() Observation {
	obs := Observation{
		LocationID:           c.ID,
		LocationName:         c.Name,
		LocationCountry:      c.Sys.Country,
		Sunrise:              time.Unix(c.Sys.Sunrise, 0).UTC(),
		Sunset:               time.Unix(c.Sys.Sunset, 0).UTC(),
		LocationLon:          c.Coord.Lon,
		LocationLat:          c.Coord.Lat,
		ObservedAt:           time.Unix(c.Dt, 0).UTC(),
		Temperature:          c.Main.Temp,
		TemperatureFeelsLike: c.Main.FeelsLike,
		TemperatureMin:       c.Main.TempMin,
		TemperatureMax:       c.Main.TempMax,
		Pressure:             c.Main.Pressure,
		Humidity:             c.Main.Humidity,
		WindSpeed:            c.Wind.Speed,
		WindDegrees:          c.Wind.Deg,
		Clouds:               c.Clouds.All,
	}
	if len(c.Weather) > 0 {
		obs.WeatherMain = c.Weather[0].Main
		obs.WeatherDescription = c.Weather[0].Description
	}
	return obs
}

// AsLocation returns the durable location projection of an observation.
func (o Observation) AsLocation() Location {
	return Location{
		ID:      o.LocationID,
		Name:    o.LocationName,
		Country: o.LocationCountry,
		Lon:     o.LocationLon,
		Lat:     o.LocationLat,
	}
}
