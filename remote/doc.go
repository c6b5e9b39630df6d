// Package remote exposes a document.Store over HTTP and provides the
// matching client, so the sync controller can talk to a collection served by
// another process.
//
// Routes:
//
//	GET  /health
//	GET  /collections/{collection}/documents   -> {"documents":[{"id":..,"fields":{..}}]}
//	POST /collections/{collection}/documents   <- {"nome":..,"telefone":..} -> 201 {"id":..}
package remote
