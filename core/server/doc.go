// Package server holds the HTTP server configuration.
//
// While the start command handles the server startup, this package defines the
// listen port, the API key protecting the routes, the paths left public, and the
// graceful shutdown budget.
//
// # Usage
//
// This package is primarily used by the core/config package to embed server settings
// and by the start command to configure fiber and the auth middleware.
package server
