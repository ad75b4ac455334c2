// Package api serves reconciliation run history over HTTP for the
// dashboard.
package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/MixMasterMitch/mint-amazon-linker/internal/infrastructure/storage"
)

// Server exposes run history endpoints backed by storage.
type Server struct {
	storage *storage.Storage
	logger  *slog.Logger
}

// NewServer creates an API server.
func NewServer(store *storage.Storage, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{storage: store, logger: logger}
}

// RunResponse is a run with its record rows inlined for the detail view.
type RunResponse struct {
	*storage.Run
	Records []RecordResponse `json:"records,omitempty"`
}

// RecordResponse is a joined record with its itemization decoded.
type RecordResponse struct {
	ID            int64        `json:"id"`
	TransactionID string       `json:"transaction_id"`
	OrderID       string       `json:"order_id"`
	OrderDate     string       `json:"order_date"`
	Amount        float64      `json:"amount"`
	IsUnmodified  bool         `json:"is_unmodified"`
	Items         []RecordItem `json:"items"`
}

// RecordItem is one line of a record's itemization.
type RecordItem struct {
	TrackingID  string  `json:"tracking_id,omitempty"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		SkipPaths: []string{"/api/health"},
	}))

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://localhost:5173", "http://localhost:8080"},
		AllowMethods:     []string{"GET", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api := router.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "healthy"})
		})
		api.GET("/stats", s.getStats)
		api.GET("/runs", s.getRuns)
		api.GET("/runs/:runId", s.getRunDetail)
	}

	return router
}

func (s *Server) getStats(c *gin.Context) {
	stats, err := s.storage.GetStats()
	if err != nil {
		s.logger.Error("failed to fetch stats", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch stats"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (s *Server) getRuns(c *gin.Context) {
	limitStr := c.DefaultQuery("limit", "20")
	limit, _ := strconv.Atoi(limitStr)
	if limit <= 0 {
		limit = 20
	}

	runs, err := s.storage.GetRecentRuns(limit)
	if err != nil {
		s.logger.Error("failed to fetch runs", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch runs"})
		return
	}

	// Empty list rather than null
	if runs == nil {
		runs = []*storage.Run{}
	}
	c.JSON(http.StatusOK, runs)
}

func (s *Server) getRunDetail(c *gin.Context) {
	runID := c.Param("runId")

	run, err := s.storage.GetRun(runID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Run not found"})
		return
	}

	rows, err := s.storage.GetRecordsByRun(runID)
	if err != nil {
		s.logger.Error("failed to fetch records",
			slog.String("run_id", runID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch records"})
		return
	}

	resp := RunResponse{Run: run, Records: make([]RecordResponse, 0, len(rows))}
	for _, row := range rows {
		resp.Records = append(resp.Records, rowToResponse(row))
	}

	c.JSON(http.StatusOK, resp)
}

func rowToResponse(row *storage.JoinedRecordRow) RecordResponse {
	resp := RecordResponse{
		ID:            row.ID,
		TransactionID: row.TransactionID,
		OrderID:       row.OrderID,
		OrderDate:     row.OrderDate.Format("2006-01-02"),
		Amount:        row.Amount,
		IsUnmodified:  row.IsUnmodified,
		Items:         []RecordItem{},
	}

	items, err := row.Items()
	if err != nil {
		return resp
	}
	for _, item := range items {
		resp.Items = append(resp.Items, RecordItem{
			TrackingID:  item.TrackingID,
			Description: item.Description,
			Amount:      item.Amount,
		})
	}
	return resp
}
