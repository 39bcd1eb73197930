package store

import "fmt"

// CurrentSchemaVersion is the version written to PRAGMA user_version for a
// freshly created table.
const CurrentSchemaVersion = 1

// TableName is the table holding one row per submitted profile.
const TableName = "users"

// Schema for creating the SQLite profiles table
const Schema = `
CREATE TABLE IF NOT EXISTS users (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	lastname TEXT NOT NULL,
	age INTEGER NOT NULL CHECK (age >= 0),
	gender TEXT NOT NULL,
	phone TEXT NOT NULL,
	email TEXT NOT NULL
);
`

const tableExists = `SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`

const dropSchema = `DROP TABLE IF EXISTS users`

const insertProfile = `INSERT INTO users (name, lastname, age, gender, phone, email) VALUES (?, ?, ?, ?, ?, ?)`

const selectProfiles = `SELECT id, name, lastname, age, gender, phone, email FROM users ORDER BY id ASC`

// PRAGMA arguments can't be bound as parameters
func setUserVersion(version int) string {
	return fmt.Sprintf("PRAGMA user_version = %d", version)
}
