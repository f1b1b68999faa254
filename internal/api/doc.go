// Package api implements the hydrochat HTTP API.
//
// This package provides:
//   - Read routes for chat messages, hydrometric stations and water levels
//   - Mutating message routes guarded by a shared admin key header
//   - A small language poll (choices, votes, vote log)
//   - A root descriptor listing every registered route
//   - Middleware stack (request ID, logging, recovery, CORS, body limit)
//
// # Response Shape
//
// Read routes answer 200 with rows under a named field ({"chat":[...]}).
// A store failure answers 400 with that field null and a generic error
// string; details are only logged. Mutating routes answer {"success":bool}
// with 201 on success, 401 when the admin key does not match, and 400 when
// the input is invalid or the store changed nothing.
//
// # Events
//
// Successful mutations are handed to an events.Publisher, which forwards
// them to MQTT and InfluxDB when those are configured.
//
// The server follows the same lifecycle pattern as other infrastructure components:
//
//	server, err := api.New(deps)
//	server.Start(ctx)
//	defer server.Close()
package api
