// Package services contains the core pipeline logic: the query
// orchestrator that turns a question into a cache lookup, a
// document-scoped similarity search and a grounded generation call, and
// the ingest service that chunks, embeds and indexes documents.
//
// All external collaborators are injected as ports; the services hold
// them for their whole lifetime and never reconstruct a client per
// request.
package services
