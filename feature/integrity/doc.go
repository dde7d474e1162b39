// Package integrity provides health checks for the sales history reconciler.
//
// # Checks Provided
//
//   - Sources: the detail, header, product and extension tables exist and have readable headers.
//   - History: the history store layout (DBF header or SQL columns) matches the output schema.
//   - Storage: the archive bucket exists and which archives it holds.
//
// # HTTP Endpoints
//
//   - GET /integrity : Runs all checks.
//   - GET /integrity/sources : Runs the source table check.
//   - GET /integrity/history : Runs the history schema check.
//   - GET /integrity/storage : Runs the storage check (supports ?fix=true).
package integrity
