// Package middleware contains HTTP middleware for the Fiber application.
//
// # Components
//
//   - Auth: API key validation. Paths listed as public (the status root, swagger and
//     metrics) are served without a key, and an empty key disables the check.
//   - RayID: Generates a unique Request ID (RayID) for every incoming request,
//     injecting it into the context and response headers for tracing.
//
// Both are registered globally in the start command, RayID first.
package middleware
