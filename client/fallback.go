package client

import (
	"time"

	"github.com/Awatif2003/marinesafe/core"
)

// Fallback data returned inside Degraded results when the backend cannot be
// reached. Values are deliberately marked so a substituted record can never
// be mistaken for a genuine backend response.

const fallbackBoatID = "OFFLINE-BOAT"

func fallbackWeather(now time.Time) []core.WeatherObservation {
	return []core.WeatherObservation{
		{
			ID:          1,
			Temperature: 25,
			Humidity:    60,
			WindSpeed:   2.5,
			Condition:   "Partly Cloudy",
			Location:    "Offline fallback",
			Pressure:    1013,
			Visibility:  10,
			Timestamp:   core.ISOTimestamp(now),
		},
	}
}

func fallbackLocations(now time.Time) []core.LocationFix {
	return []core.LocationFix{
		{
			ID:        1,
			Latitude:  -6.2088,
			Longitude: 106.8456,
			Timestamp: core.ISOTimestamp(now),
			BoatID:    fallbackBoatID,
			Address:   "Offline fallback position",
			Accuracy:  10,
		},
	}
}

func fallbackAlerts(now time.Time) []core.Alert {
	return []core.Alert{
		{
			AlertID:   1,
			AlertType: "Weather",
			Message:   "High winds expected (offline fallback)",
			AlertTime: core.ISOTimestamp(now),
			BoatID:    fallbackBoatID,
			LCDStatus: "Active",
		},
		{
			AlertID:   2,
			AlertType: "Navigation",
			Message:   "Shallow waters ahead (offline fallback)",
			AlertTime: core.ISOTimestamp(now.Add(-5 * time.Minute)),
			BoatID:    fallbackBoatID,
			LCDStatus: "Acknowledged",
		},
	}
}
