// Package server exposes the report and import history over HTTP.
package server

import (
	"context"
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"fjacquet/statement-ledger/internal/apperror"
	"fjacquet/statement-ledger/internal/logging"
	"fjacquet/statement-ledger/internal/models"
	"fjacquet/statement-ledger/internal/report"
	"fjacquet/statement-ledger/internal/validation"
)

// ReportBuilder answers report requests.
type ReportBuilder interface {
	Build(ctx context.Context, filter report.Filter) (report.Report, error)
}

// HistoryReader lists recorded import runs.
type HistoryReader interface {
	ListImportRuns(ctx context.Context, limit int) ([]models.ImportRun, error)
}

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// Server serves the ledger API.
type Server struct {
	app       *fiber.App
	reports   ReportBuilder
	history   HistoryReader
	generator *report.ReportGenerator
	logger    logging.Logger
	version   string
}

// New creates a Server and registers its routes.
func New(reports ReportBuilder, history HistoryReader, generator *report.ReportGenerator, logger logging.Logger, version string) *Server {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	s := &Server{
		reports:   reports,
		history:   history,
		generator: generator,
		logger:    logger,
		version:   version,
	}
	s.app = fiber.New(fiber.Config{
		AppName:               "statement-ledger",
		DisableStartupMessage: true,
		ErrorHandler:          s.handleError,
	})
	s.app.Get("/api/health", s.handleHealth)
	s.app.Get("/api/report", s.handleReport)
	s.app.Get("/api/imports", s.handleImports)
	return s
}

// App returns the underlying fiber application.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen serves on addr until Shutdown is called.
func (s *Server) Listen(addr string) error {
	s.logger.Info("Starting HTTP server", logging.Field{Key: "address", Value: addr})
	return s.app.Listen(addr)
}

// Shutdown stops the server, waiting for in-flight requests until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"version": s.version,
	})
}

// handleReport serves GET /api/report?month=MM/YYYY or ?from=...&to=...,
// with format=json (default) or format=text.
func (s *Server) handleReport(c *fiber.Ctx) error {
	format := c.Query("format", report.FormatJSON)
	if err := validation.IsValidReportFormat(format); err != nil {
		return err
	}

	filter, err := report.ParseFilter(c.Query("month"), c.Query("from"), c.Query("to"))
	if err != nil {
		return err
	}

	rep, err := s.reports.Build(c.UserContext(), filter)
	if err != nil {
		return err
	}

	body, err := s.generator.GenerateReport(&rep, format)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	if format == report.FormatText {
		c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	} else {
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)
	}
	return c.Send(body)
}

// handleImports serves GET /api/imports?limit=N, most recent first.
func (s *Server) handleImports(c *fiber.Ctx) error {
	limit := 20
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return &apperror.ValidationError{Field: "limit", Reason: "must be a non-negative integer"}
		}
		limit = n
	}

	runs, err := s.history.ListImportRuns(c.UserContext(), limit)
	if err != nil {
		if !errors.Is(err, apperror.ErrStoreUnavailable) {
			return err
		}
		runs = nil
	}
	if runs == nil {
		runs = []models.ImportRun{}
	}
	return c.JSON(runs)
}

func (s *Server) handleError(c *fiber.Ctx, err error) error {
	var validation *apperror.ValidationError
	var fiberErr *fiber.Error

	switch {
	case errors.As(err, &validation):
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: validation.Error(), Field: validation.Field})
	case errors.As(err, &fiberErr):
		return c.Status(fiberErr.Code).JSON(errorResponse{Error: fiberErr.Message})
	default:
		s.logger.WithError(err).Error("Request failed",
			logging.Field{Key: "path", Value: c.Path()})
		return c.Status(fiber.StatusInternalServerError).JSON(errorResponse{Error: "internal error"})
	}
}
