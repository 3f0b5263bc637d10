package testutil

import (
	"database/sql"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"userRegistration/internal/db"
	"userRegistration/internal/passwd"
)

// OpenInMemoryDB opens an in-memory SQLite database and applies migrations.
// name isolates the database from other tests; the DB is closed via t.Cleanup.
func OpenInMemoryDB(t *testing.T, name string) *sql.DB {
	t.Helper()
	// Shared cache lets every pooled connection see the same in-memory database.
	d, err := db.Open("file:" + name + "?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })
	return d
}

// FastHasher returns a bcrypt hasher at the minimum cost so tests stay quick.
func FastHasher() passwd.Hasher {
	return passwd.New(bcrypt.MinCost)
}

// CountUsername returns how many rows in users carry username, querying the table directly.
func CountUsername(t *testing.T, d *sql.DB, username string) int {
	t.Helper()
	var n int
	if err := d.QueryRow(`SELECT COUNT(*) FROM users WHERE username = ?`, username).Scan(&n); err != nil {
		t.Fatalf("count username %q: %v", username, err)
	}
	return n
}
