// Package sales is the HTTP front door of the sales history reconciler.
//
// # Routes
//
//   - GET /                        static capability description
//   - GET /historico               the stored history as {total, data}
//   - GET /reporte                 runs one reconciliation pass
//   - GET /descargar/historico     the raw history file
//   - GET /descargar/historico.xlsx the history as an Excel workbook
//
// Passes are serialized inside the process; concurrent history reads share one
// store scan.
package sales
