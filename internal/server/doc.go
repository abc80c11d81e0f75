// Package server exposes the recordings directory over HTTP and runs the
// single-instance recording daemon behind cmd/ished.
//
// Routes:
//
//	GET    /api/status
//	GET    /api/recordings
//	GET    /api/recordings/{name}
//	PUT    /api/recordings/{name}
//	DELETE /api/recordings/{name}
//	GET    /api/bundle
//	GET    /api/journal?limit=N
//
// Names are validated by the recordings store before any filesystem access.
// Invalid names map to 400, missing recordings to 404, everything else to
// 500. Error bodies are JSON: {"error": "...", "kind": "...", "requestId": "..."}.
package server
