// Package storage provides evaluation Storage backends: the JSON-file
// append log the reference flow uses, an in-memory map for tests, and an
// embedded SQLite database for deployments that outgrow a flat file.
package storage
