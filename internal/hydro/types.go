package hydro

// Station is a hydrometric gauging station.
type Station struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Province     string   `json:"province"`
	Latitude     float64  `json:"latitude"`
	Longitude    float64  `json:"longitude"`
	DrainageArea *float64 `json:"drainage_area"`
}

// WaterLevel is one reading taken at a station.
type WaterLevel struct {
	ID         int64    `json:"id"`
	StationID  string   `json:"station_id"`
	Level      float64  `json:"level"`
	Discharge  *float64 `json:"discharge"`
	RecordedAt string   `json:"recorded_at"`
}
