package analyses

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"smart-ats/internal/shared/server/middleware"
	"smart-ats/internal/shared/server/respond"
)

const (
	defaultMaxUpload    = 10 << 20
	defaultHistoryLimit = 20
)

// Handler wires HTTP handlers to the analyses service.
type Handler struct {
	Svc          *Service
	MaxUpload    int64
	HistoryLimit int
	// EndpointHosts lists the hosts a caller may name in the endpoint field.
	// Empty rejects every override.
	EndpointHosts []string
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, maxUpload int64, historyLimit int) *Handler {
	if maxUpload <= 0 {
		maxUpload = defaultMaxUpload
	}
	if historyLimit <= 0 {
		historyLimit = defaultHistoryLimit
	}
	return &Handler{Svc: svc, MaxUpload: maxUpload, HistoryLimit: historyLimit}
}

// RegisterRoutes attaches analysis routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/analyses", h.createAnalysis)
	rg.GET("/analyses", h.listAnalyses)
	rg.GET("/analyses/:id", h.getAnalysis)
	rg.GET("/analyses/:id/report", h.renderAnalysis)
}

func (h *Handler) createAnalysis(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxUpload)

	fileHeader, err := c.FormFile("resume")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respond.Error(c, http.StatusRequestEntityTooLarge, ErrorCodeTooLarge, "resume exceeds the upload limit", nil)
			return
		}
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "resume file is required", nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "unable to read resume file", nil)
		return
	}
	defer file.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, file); err != nil {
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "unable to read resume file", nil)
		return
	}

	endpoint := strings.TrimSpace(c.PostForm("endpoint"))
	if endpoint != "" && !h.endpointAllowed(endpoint) {
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "endpoint override is not allowed", nil)
		return
	}
	sub := Submission{
		JobDescription: c.PostForm("jobDescription"),
		FileName:       fileHeader.Filename,
		ContentType:    fileHeader.Header.Get("Content-Type"),
		Data:           buf.Bytes(),
		Endpoint:       endpoint,
		Model:          c.PostForm("model"),
	}

	ctx := WithRequestID(c.Request.Context(), middleware.RequestIDFromContext(c))
	analysis, err := h.Svc.Analyze(ctx, sub)
	if err != nil {
		switch {
		case errors.Is(err, ErrMissingInput):
			respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, err.Error(), nil)
		case errors.Is(err, ErrExtraction):
			respond.Error(c, http.StatusUnprocessableEntity, ErrorCodeExtraction, err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, ErrorCodeInternal, "failed to analyze resume", nil)
		}
		return
	}

	c.Set("analysisId", analysis.ID)
	respond.JSON(c, http.StatusCreated, analysis)
}

// endpointAllowed accepts an http(s) URL whose host is listed in EndpointHosts.
// Overrides are only meaningful for the ollama provider; the credentialed
// providers always call their configured base URL.
func (h *Handler) endpointAllowed(raw string) bool {
	if h.Svc == nil || h.Svc.Provider != "ollama" || len(h.EndpointHosts) == 0 {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Hostname() == "" {
		return false
	}
	for _, host := range h.EndpointHosts {
		if strings.EqualFold(host, u.Host) || strings.EqualFold(host, u.Hostname()) {
			return true
		}
	}
	return false
}

func (h *Handler) getAnalysis(c *gin.Context) {
	analysis, ok := h.lookup(c)
	if !ok {
		return
	}
	respond.OK(c, analysis)
}

func (h *Handler) renderAnalysis(c *gin.Context) {
	analysis, ok := h.lookup(c)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := analysis.Report.Render(&buf); err != nil {
		respond.Error(c, http.StatusInternalServerError, ErrorCodeInternal, "failed to render report", nil)
		return
	}
	c.Data(http.StatusOK, "text/plain; charset=utf-8", buf.Bytes())
}

func (h *Handler) lookup(c *gin.Context) (Analysis, bool) {
	analysisID := c.Param("id")
	if analysisID == "" {
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "analysis id is required", nil)
		return Analysis{}, false
	}

	analysis, err := h.Svc.Get(c.Request.Context(), analysisID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, ErrorCodeNotFound, "analysis not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, ErrorCodeInternal, "failed to fetch analysis", nil)
		}
		return Analysis{}, false
	}
	c.Set("analysisId", analysis.ID)
	return analysis, true
}

func (h *Handler) listAnalyses(c *gin.Context) {
	limit := h.HistoryLimit
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	if limit > h.HistoryLimit {
		limit = h.HistoryLimit
	}

	analyses, err := h.Svc.List(c.Request.Context(), limit)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, ErrorCodeInternal, "failed to list analyses", nil)
		return
	}

	resp := make([]gin.H, 0, len(analyses))
	for _, a := range analyses {
		resp = append(resp, gin.H{
			"id":                a.ID,
			"fileName":          a.FileName,
			"status":            a.Status,
			"finalScore":        a.Report.FinalScore,
			"finalScoreDisplay": a.Report.FinalScoreDisplay,
			"scoreSource":       a.Report.ScoreSource,
			"missingSkills":     a.Report.MissingSkills,
			"createdAt":         a.CreatedAt,
		})
	}

	respond.OK(c, resp)
}
