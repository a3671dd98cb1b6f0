// Package web assembles the browser-facing student registration service.
//
// It opens the session store, builds the backend REST client and the auth
// and language contexts, composes the feature modules behind the shared
// middleware chain, and serves the result over HTTP.
package web
