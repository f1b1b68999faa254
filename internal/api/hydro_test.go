package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nerrad567/hydrochat/internal/hydro"
)

type stationBody struct {
	Stations []hydro.Station `json:"hydrometric_station"`
	Error    string          `json:"error"`
}

type levelBody struct {
	Levels []hydro.WaterLevel `json:"waterlevel"`
	Error  string             `json:"error"`
}

func TestListStations(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(t, http.MethodGet, "/hydrometric_station", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode[stationBody](t, rec)
	require.Len(t, body.Stations, 3)
	assert.Equal(t, "02KF005", body.Stations[0].ID)
}

func TestStationsByName(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(t, http.MethodGet, "/hydrometric_station_by_name?name=bow%20river%20at%20calgary", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode[stationBody](t, rec)
	require.Len(t, body.Stations, 1)
	assert.Equal(t, "05BH004", body.Stations[0].ID)
	assert.Equal(t, "AB", body.Stations[0].Province)
}

func TestStationsByName_NoMatch(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(t, http.MethodGet, "/hydrometric_station_by_name?name=nowhere", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"hydrometric_station":[]}`, rec.Body.String())
}

func TestStationsByName_MissingName(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(t, http.MethodGet, "/hydrometric_station_by_name", nil, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	body := decode[stationBody](t, rec)
	assert.Nil(t, body.Stations)
	assert.Equal(t, "name is required", body.Error)
}

func TestListWaterLevels(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(t, http.MethodGet, "/waterlevel", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode[levelBody](t, rec)
	assert.Len(t, body.Levels, 5)
}

func TestWaterLevelsByStation(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(t, http.MethodGet, "/waterlevel_by_id?stationId=05BH004", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode[levelBody](t, rec)
	require.Len(t, body.Levels, 2)
	assert.InDelta(t, 1.184, body.Levels[0].Level, 1e-9)
	assert.Equal(t, "05BH004", body.Levels[1].StationID)
}

func TestWaterLevelsByStation_NullDischarge(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(t, http.MethodGet, "/waterlevel_by_id?stationId=02KF005", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"discharge":null`)
}

func TestWaterLevelsByStation_MissingID(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(t, http.MethodGet, "/waterlevel_by_id", nil, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"waterlevel":null,"error":"stationId is required"}`, rec.Body.String())
}
