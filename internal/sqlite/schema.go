// Package sqlite implements the project record store on an embedded SQLite
// database. It is pure CRUD over the projects table and has no awareness of
// the filesystem layout around it.
package sqlite

// Schema DDL for the projects table. Timestamps are epoch seconds so that
// ordering and restamping stay trivial; meta is an opaque JSON object owned
// by callers.
const (
	createProjects = `CREATE TABLE IF NOT EXISTS projects (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL UNIQUE,
    content_path TEXT NOT NULL,
    chosen_character TEXT,
    created_at REAL NOT NULL,
    updated_at REAL NOT NULL,
    meta TEXT NOT NULL DEFAULT '{}'
);`

	idxProjectsName = `CREATE INDEX IF NOT EXISTS idx_projects_name ON projects(name);`
)
