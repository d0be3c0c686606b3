// Package server exposes inspector sessions over HTTP.
//
// Routes:
//
//	POST   /run                      run a scenario to completion
//	GET    /sessions                 list open sessions
//	POST   /sessions                 open a session from a scenario body
//	GET    /sessions/{id}            current snapshot
//	POST   /sessions/{id}/steps      apply one step
//	POST   /sessions/{id}/snapshots  persist the snapshot (with a Store)
//	DELETE /sessions/{id}            close the session
//	GET    /sessions/{id}/ws         websocket stream of step results
//
// Request bodies are JSON, YAML or msgpack according to Content-Type.
// Responses follow ?format= or the Accept header.
package server
