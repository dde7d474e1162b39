// Package utils provides loose value conversion helpers shared by the table codec,
// the reconcile engine and the history store. Legacy tables carry the same logical value
// as string, number, decimal or raw bytes depending on the source, so every consumer
// goes through these helpers instead of asserting concrete types.
package utils
