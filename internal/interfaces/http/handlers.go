package http

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/garyjia/station-report/internal/application/service"
	"github.com/garyjia/station-report/internal/domain/report"
	"github.com/garyjia/station-report/internal/domain/station"
)

// Handlers contains all HTTP request handlers.
// The host has one operator, so every handler touching the session or the
// resolver holds mu. Clipboard writes run outside mu.
type Handlers struct {
	resolver *service.StationResolver
	reports  *service.ReportService
	health   HealthFunc
	logger   Logger

	mu      sync.Mutex
	session *service.Session
}

// NewHandlers creates a new Handlers instance with a fresh session
func NewHandlers(
	resolver *service.StationResolver,
	reports *service.ReportService,
	health HealthFunc,
	logger Logger,
) *Handlers {
	return &Handlers{
		resolver: resolver,
		reports:  reports,
		health:   health,
		logger:   logger,
		session:  reports.NewSession(),
	}
}

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status     string      `json:"status"`
	Timestamp  string      `json:"timestamp"`
	Components interface{} `json:"components,omitempty"`
}

// StationResponse is the station state shown next to the form
type StationResponse struct {
	Origin    station.Origin `json:"origin"`
	Value     string         `json:"value"`
	Effective string         `json:"effective"`
	Options   []string       `json:"options"`
}

// SessionResponse is the report session state after an action
type SessionResponse struct {
	State   string `json:"state"`
	Kind    string `json:"kind,omitempty"`
	Preview string `json:"preview"`
}

// CopyResponse is the session state after a copy. Stale is set when the
// session was changed while the write was in flight.
type CopyResponse struct {
	SessionResponse
	Copied string `json:"copied"`
	Stale  bool   `json:"stale"`
}

// UpdateStationRequest is the body of PUT /api/station
type UpdateStationRequest struct {
	Origin string `json:"origin" binding:"required"`
	Value  string `json:"value"`
}

// SetOriginRequest is the body of POST /api/station/origin
type SetOriginRequest struct {
	Origin string `json:"origin" binding:"required"`
}

// SelectTypeRequest is the body of POST /api/report/type
type SelectTypeRequest struct {
	Kind string `json:"kind" binding:"required"`
}

// GenerateRequest is the body of POST /api/report/generate
type GenerateRequest struct {
	Fields map[string]string `json:"fields"`
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	resp := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	status := http.StatusOK

	if h.health != nil {
		healthy, details := h.health(c.Request.Context())
		resp.Components = details
		if !healthy {
			resp.Status = "degraded"
			status = http.StatusServiceUnavailable
		}
	}

	c.JSON(status, Response{Success: status == http.StatusOK, Data: resp})
}

// ListKinds handles GET /api/report/kinds
func (h *Handlers) ListKinds(c *gin.Context) {
	schemas := make([]report.Schema, 0, len(report.Kinds))
	for _, k := range report.Kinds {
		if s, ok := report.SchemaFor(k); ok {
			schemas = append(schemas, s)
		}
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: schemas})
}

// GetStation handles GET /api/station
func (h *Handlers) GetStation(c *gin.Context) {
	h.mu.Lock()
	defer h.mu.Unlock()

	c.JSON(http.StatusOK, Response{Success: true, Data: h.stationResponse()})
}

// UpdateStation handles PUT /api/station
func (h *Handlers) UpdateStation(c *gin.Context) {
	var req UpdateStationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request body", err)
		return
	}

	origin := station.Origin(req.Origin)
	if !origin.IsValid() {
		h.badRequest(c, "origin must be select or manual", nil)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	var err error
	if origin == station.OriginManual {
		err = h.resolver.SetManual(c.Request.Context(), req.Value)
	} else {
		err = h.resolver.Select(c.Request.Context(), req.Value)
	}
	if err != nil {
		h.fail(c, "Failed to update station", err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: h.stationResponse()})
}

// SetStationOrigin handles POST /api/station/origin
func (h *Handlers) SetStationOrigin(c *gin.Context) {
	var req SetOriginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request body", err)
		return
	}

	origin := station.Origin(req.Origin)
	if !origin.IsValid() {
		h.badRequest(c, "origin must be select or manual", nil)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	change, err := h.resolver.SetOrigin(c.Request.Context(), origin)
	if err != nil {
		h.fail(c, "Failed to change station origin", err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: change})
}

// BlurStation handles POST /api/station/blur
func (h *Handlers) BlurStation(c *gin.Context) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.resolver.Blur(c.Request.Context()); err != nil {
		h.fail(c, "Failed to commit station input", err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: h.stationResponse()})
}

// SelectReportType handles POST /api/report/type
func (h *Handlers) SelectReportType(c *gin.Context) {
	var req SelectTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request body", err)
		return
	}

	kind, err := report.ParseKind(req.Kind)
	if err != nil {
		h.badRequest(c, err.Error(), nil)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.reports.SelectReportType(c.Request.Context(), h.session, kind); err != nil {
		h.fail(c, "Failed to select report type", err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: h.sessionResponse()})
}

// GenerateReport handles POST /api/report/generate
func (h *Handlers) GenerateReport(c *gin.Context) {
	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request body", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if _, err := h.reports.GenerateReport(c.Request.Context(), h.session, report.FieldSet(req.Fields)); err != nil {
		h.fail(c, "Failed to generate report", err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: h.sessionResponse()})
}

// CopyReport handles POST /api/report/copy
func (h *Handlers) CopyReport(c *gin.Context) {
	ctx := c.Request.Context()

	h.mu.Lock()
	pending, err := h.reports.StartCopy(ctx, h.session)
	h.mu.Unlock()
	if err != nil {
		h.fail(c, "Failed to copy report", err)
		return
	}

	var copyErr error
	select {
	case copyErr = <-pending.Done():
	case <-ctx.Done():
		copyErr = ctx.Err()
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	applied, err := h.reports.FinishCopy(ctx, h.session, pending, copyErr)
	if err != nil {
		h.fail(c, "Failed to copy report", err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: CopyResponse{
		SessionResponse: h.sessionResponse(),
		Copied:          pending.Text(),
		Stale:           !applied,
	}})
}

// GetPreview handles GET /api/report/preview
func (h *Handlers) GetPreview(c *gin.Context) {
	h.mu.Lock()
	defer h.mu.Unlock()

	c.JSON(http.StatusOK, Response{Success: true, Data: h.sessionResponse()})
}

func (h *Handlers) stationResponse() StationResponse {
	current := h.resolver.Current()
	effective, _ := h.resolver.EffectiveName()
	return StationResponse{
		Origin:    current.Origin,
		Value:     current.Value,
		Effective: effective,
		Options:   h.resolver.Options(),
	}
}

func (h *Handlers) sessionResponse() SessionResponse {
	return SessionResponse{
		State:   h.session.State().String(),
		Kind:    h.session.Kind().String(),
		Preview: h.session.Preview(),
	}
}

func (h *Handlers) badRequest(c *gin.Context, msg string, err error) {
	if err != nil {
		h.logger.Error("Invalid request", "path", c.Request.URL.Path, "error", err)
	}
	c.JSON(http.StatusBadRequest, Response{Success: false, Error: msg})
}

// fail maps service errors to statuses: unmet preconditions are the
// operator's to fix (409), clipboard refusals come from upstream (502)
func (h *Handlers) fail(c *gin.Context, msg string, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error(msg, "error", err)
	} else {
		h.logger.Info(msg, "error", err)
	}
	c.JSON(status, Response{Success: false, Error: err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, report.ErrPrecondition):
		return http.StatusConflict
	case errors.Is(err, report.ErrUnknownKind):
		return http.StatusBadRequest
	case errors.Is(err, report.ErrClipboardDenied):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
