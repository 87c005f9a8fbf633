// Package server exposes a chat session over HTTP.
//
// Routes:
//
//	GET    /api/messages  transcript
//	POST   /api/messages  {"prompt": "..."} -> {"reply": message|null, "empty": bool}
//	DELETE /api/messages  clear the transcript
//	GET    /healthz       liveness
package server
