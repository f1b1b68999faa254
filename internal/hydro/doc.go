// Package hydro serves hydrometric stations and their water-level readings.
//
// Both tables are read-only from the service's point of view. A reading's
// station_id refers to a station id by convention; the link is not
// enforced by the store.
package hydro
