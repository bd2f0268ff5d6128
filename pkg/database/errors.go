package database

import "strings"

// IsUniqueViolation reports whether err is a SQLite unique constraint
// violation. When column is non-empty (as "table.column"), the violation must
// be on that column. Both mattn/go-sqlite3 and modernc.org/sqlite surface
// constraint failures as text, so this matches on the message.
func IsUniqueViolation(err error, column string) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	if !strings.Contains(msg, "UNIQUE constraint failed") {
		return false
	}
	return column == "" || strings.Contains(msg, column)
}

// IsForeignKeyViolation reports whether err is a SQLite foreign key
// constraint violation.
func IsForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}
