// Package handlers contains the HTTP handlers for the Compass API: intake
// evaluation, catalog administration, stored evaluation retrieval, export,
// and health. Handlers hold their collaborators and translate their typed
// errors into the JSON error contract; they never reach into the rules
// engine internals.
package handlers
