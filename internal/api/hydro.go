package api

import (
	"net/http"
	"strings"
)

func (s *Server) handleListStations(w http.ResponseWriter, r *http.Request) {
	stations, err := s.hydro.ListStations(r.Context())
	s.writeList(w, r, "hydrometric_station", stations, err)
}

// handleStationsByName matches ?name= case-insensitively.
func (s *Server) handleStationsByName(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		writeFailure(w, "hydrometric_station", "name is required")
		return
	}

	stations, err := s.hydro.ListStationsByName(r.Context(), name)
	s.writeList(w, r, "hydrometric_station", stations, err)
}

func (s *Server) handleListWaterLevels(w http.ResponseWriter, r *http.Request) {
	levels, err := s.hydro.ListWaterLevels(r.Context())
	s.writeList(w, r, "waterlevel", levels, err)
}

// handleWaterLevelsByStation returns the readings for ?stationId=.
func (s *Server) handleWaterLevelsByStation(w http.ResponseWriter, r *http.Request) {
	stationID := strings.TrimSpace(r.URL.Query().Get("stationId"))
	if stationID == "" {
		writeFailure(w, "waterlevel", "stationId is required")
		return
	}

	levels, err := s.hydro.ListWaterLevelsByStation(r.Context(), stationID)
	s.writeList(w, r, "waterlevel", levels, err)
}
