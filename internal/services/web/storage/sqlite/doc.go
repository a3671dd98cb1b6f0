// Package sqlite provides the web session store backed by SQLite.
package sqlite
