package restapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"wallet_analyzer/internal/app/port"
	"wallet_analyzer/internal/domain/entity"
	"wallet_analyzer/internal/infrastructure/export"
)

// AnalyzeRequest is the body of the analyze endpoint. Chains is optional; an
// empty list means the default chain set for the detected address family.
type AnalyzeRequest struct {
	Address string   `json:"address" binding:"required"`
	Chains  []string `json:"chains"`
}

// AnalyzeResponse wraps the report with request bookkeeping.
type AnalyzeResponse struct {
	Report           *entity.WalletReport `json:"report"`
	ProcessingTimeMS int64                `json:"processing_time_ms"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// AnalyzeHandler serves the wallet analysis endpoints.
type AnalyzeHandler struct {
	analyzer port.WalletAnalyzer
	insights port.InsightsAgent // nil when the feature is not configured
	logger   *zap.Logger
}

func NewAnalyzeHandler(analyzer port.WalletAnalyzer, insights port.InsightsAgent, logger *zap.Logger) *AnalyzeHandler {
	return &AnalyzeHandler{
		analyzer: analyzer,
		insights: insights,
		logger:   logger.Named("AnalyzeHandler"),
	}
}

// PostAnalyze handles POST /api/v1/analyze.
//
// Query parameters:
//
//	format=json|csv      response rendering, default json
//	include_insights     generate the AI narrative when the agent is configured
func (h *AnalyzeHandler) PostAnalyze(c *gin.Context) {
	started := time.Now()

	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	report, err := h.analyzer.Analyze(c.Request.Context(), req.Address, req.Chains)
	if err != nil {
		if errors.Is(err, entity.ErrInvalidAddress) {
			c.JSON(http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
			return
		}
		h.logger.Error("Analysis failed", zap.String("address", req.Address), zap.Error(err))
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "analysis failed"})
		return
	}

	if c.Query("include_insights") == "true" {
		h.attachInsights(c, report)
	}

	if c.DefaultQuery("format", "json") == "csv" {
		c.Header("Content-Type", "text/csv")
		c.Header("Content-Disposition", `attachment; filename="wallet_report_`+report.Address+`.csv"`)
		c.Status(http.StatusOK)
		if err := export.WriteCSV(c.Writer, report); err != nil {
			h.logger.Error("CSV rendering failed", zap.Error(err))
		}
		return
	}

	c.JSON(http.StatusOK, AnalyzeResponse{
		Report:           report,
		ProcessingTimeMS: time.Since(started).Milliseconds(),
	})
}

// attachInsights fills report.AIInsights best-effort. A narrative failure
// downgrades to a warning on the report.
func (h *AnalyzeHandler) attachInsights(c *gin.Context, report *entity.WalletReport) {
	if h.insights == nil {
		report.Warnings = append(report.Warnings, "insights requested but no AI provider is configured")
		return
	}
	text, err := h.insights.GenerateInsights(c.Request.Context(), report)
	if err != nil {
		h.logger.Warn("Insights generation failed", zap.Error(err))
		report.Warnings = append(report.Warnings, "insights generation failed")
		return
	}
	report.AIInsights = text
}

// GetHealth handles GET /health.
func (h *AnalyzeHandler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
