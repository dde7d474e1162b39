package sales

import (
	"bytes"
	"path/filepath"

	"sales-history/core/logger"
	"sales-history/core/reconcile"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for the sales history.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the sales routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Get("/", h.HandleStatus)
	app.Get("/historico", h.HandleHistory)
	app.Get("/reporte", h.HandleReport)
	app.Get("/descargar/historico", h.HandleDownload)
	app.Get("/descargar/historico.xlsx", h.HandleExport)
}

// HandleStatus describes the service.
// @Summary Service Status
// @Description Lists the endpoints offered by the sales history service.
// @Tags sales
// @Produce json
// @Success 200 {object} sales.Status
// @Router / [get]
func (h *Handler) HandleStatus(c *fiber.Ctx) error {
	return c.JSON(h.service.Status())
}

// HandleHistory returns the stored history.
// @Summary Get History
// @Description Returns every record in the history store. An absent store is empty.
// @Tags sales
// @Produce json
// @Success 200 {object} sales.HistoryView
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /historico [get]
func (h *Handler) HandleHistory(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	view, err := h.service.History(c.Context())
	if err != nil {
		l.Error("History read failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(view)
}

// HandleReport runs a reconciliation pass.
// @Summary Run Reconciliation
// @Description Appends sales not yet in the history and returns the pass summary.
// @Tags sales
// @Produce json
// @Success 200 {object} sales.RunSummary
// @Failure 404 {object} map[string]string "Source table missing"
// @Failure 500 {object} map[string]string "Store failure or unexpected error"
// @Router /reporte [get]
func (h *Handler) HandleReport(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	l.Info("Starting reconciliation pass")

	summary, err := h.service.Run(c.Context())
	if err != nil {
		kind := reconcile.KindOf(err)
		status := fiber.StatusInternalServerError
		if kind == reconcile.KindSourceMissing {
			status = fiber.StatusNotFound
		}
		l.Error("Reconciliation failed", zap.String("kind", string(kind)), zap.Error(err))
		return c.Status(status).JSON(fiber.Map{
			"error": err.Error(),
			"kind":  string(kind),
		})
	}

	l.Info("Reconciliation completed",
		zap.Int("appended", summary.Appended),
		zap.Int("total", summary.Total))

	return c.JSON(summary)
}

// HandleDownload sends the raw history file.
// @Summary Download History File
// @Description Downloads the history store file as an attachment.
// @Tags sales
// @Produce octet-stream
// @Success 200 {file} file
// @Failure 404 {object} map[string]string "History file not available"
// @Router /descargar/historico [get]
func (h *Handler) HandleDownload(c *fiber.Ctx) error {
	path, err := h.service.DownloadPath()
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Download(path, filepath.Base(path))
}

// HandleExport sends the history as an Excel workbook.
// @Summary Export History
// @Description Exports the history store as an xlsx workbook.
// @Tags sales
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} file
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /descargar/historico.xlsx [get]
func (h *Handler) HandleExport(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var buf bytes.Buffer
	if err := h.service.Export(c.Context(), &buf); err != nil {
		l.Error("Export failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	c.Attachment("historico.xlsx")
	c.Set(fiber.HeaderContentType, ExportContentType)
	return c.Send(buf.Bytes())
}
