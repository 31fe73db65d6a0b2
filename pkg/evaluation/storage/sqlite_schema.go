package storage

// SchemaVersion is the current database schema version.
const SchemaVersion = 1

// Schema contains the SQL statements to create the evaluations database.
// Verdicts are stored as a JSON column: the evaluation result is an
// immutable document, and the only query axes are id and evaluated_at.
const Schema = `
CREATE TABLE IF NOT EXISTS evaluations (
    seq INTEGER PRIMARY KEY AUTOINCREMENT,
    id TEXT NOT NULL UNIQUE,
    business_id TEXT NOT NULL,
    evaluated_at TIMESTAMP NOT NULL,
    applied_obligations TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_evaluations_evaluated_at ON evaluations(evaluated_at);
CREATE INDEX IF NOT EXISTS idx_evaluations_business_id ON evaluations(business_id);

CREATE TABLE IF NOT EXISTS schema_info (
    version INTEGER NOT NULL
);
`
