// Package driven provides interfaces for infrastructure adapters (secondary/outbound ports).
//
// The query pipeline treats everything behind these interfaces as an
// external collaborator: the embedding and generation services, the
// vector index, the answer cache, and the document metadata store. The
// orchestrator never assumes exclusive access to any of them.
package driven
