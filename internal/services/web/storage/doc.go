// Package storage declares persistence for web sessions.
//
// A session row maps the opaque session cookie to the backend bearer token.
// Rows are disposable: losing one only signs the browser out.
package storage
