package hydro

import (
	"context"
	"database/sql"
	"fmt"
)

// Repository defines the read operations on stations and readings.
type Repository interface {
	ListStations(ctx context.Context) ([]Station, error)
	ListStationsByName(ctx context.Context, name string) ([]Station, error)
	ListWaterLevels(ctx context.Context) ([]WaterLevel, error)
	ListWaterLevelsByStation(ctx context.Context, stationID string) ([]WaterLevel, error)
}

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite-backed hydrometric repository.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

const stationColumns = `id, name, province, latitude, longitude, drainage_area`

// ListStations returns every station ordered by id.
func (r *SQLiteRepository) ListStations(ctx context.Context) ([]Station, error) {
	const query = `SELECT ` + stationColumns + ` FROM hydrometric_stations ORDER BY id`
	return r.queryStations(ctx, query)
}

// ListStationsByName returns stations whose name equals name, ignoring case.
func (r *SQLiteRepository) ListStationsByName(ctx context.Context, name string) ([]Station, error) {
	const query = `SELECT ` + stationColumns + ` FROM hydrometric_stations
		WHERE name = ? COLLATE NOCASE ORDER BY id`
	return r.queryStations(ctx, query, name)
}

const levelColumns = `id, station_id, level, discharge, recorded_at`

// ListWaterLevels returns every reading, oldest first.
func (r *SQLiteRepository) ListWaterLevels(ctx context.Context) ([]WaterLevel, error) {
	const query = `SELECT ` + levelColumns + ` FROM water_levels ORDER BY recorded_at, id`
	return r.queryLevels(ctx, query)
}

// ListWaterLevelsByStation returns the readings of one station, oldest first.
func (r *SQLiteRepository) ListWaterLevelsByStation(ctx context.Context, stationID string) ([]WaterLevel, error) {
	const query = `SELECT ` + levelColumns + ` FROM water_levels
		WHERE station_id = ? ORDER BY recorded_at, id`
	return r.queryLevels(ctx, query, stationID)
}

// queryStations executes a station query and scans all rows.
func (r *SQLiteRepository) queryStations(ctx context.Context, query string, args ...any) ([]Station, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying stations: %w", err)
	}
	defer rows.Close()

	stations := make([]Station, 0)
	for rows.Next() {
		var (
			s    Station
			area sql.NullFloat64
		)
		if err := rows.Scan(&s.ID, &s.Name, &s.Province, &s.Latitude, &s.Longitude, &area); err != nil {
			return nil, fmt.Errorf("scanning station: %w", err)
		}
		s.DrainageArea = nullFloat(area)
		stations = append(stations, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating stations: %w", err)
	}
	return stations, nil
}

// queryLevels executes a water-level query and scans all rows.
func (r *SQLiteRepository) queryLevels(ctx context.Context, query string, args ...any) ([]WaterLevel, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying water levels: %w", err)
	}
	defer rows.Close()

	levels := make([]WaterLevel, 0)
	for rows.Next() {
		var (
			l         WaterLevel
			discharge sql.NullFloat64
		)
		if err := rows.Scan(&l.ID, &l.StationID, &l.Level, &discharge, &l.RecordedAt); err != nil {
			return nil, fmt.Errorf("scanning water level: %w", err)
		}
		l.Discharge = nullFloat(discharge)
		levels = append(levels, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating water levels: %w", err)
	}
	return levels, nil
}

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
