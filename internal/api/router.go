package api

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"wwtp-carbon/internal/analysis"
	"wwtp-carbon/internal/api/handlers"
	"wwtp-carbon/internal/api/middleware"
	"wwtp-carbon/internal/api/models"
	"wwtp-carbon/internal/carbon"
	"wwtp-carbon/internal/ingest"
	"wwtp-carbon/internal/pipeline"
	"wwtp-carbon/internal/session"
)

// Deps are the collaborators the router wires into handlers.
type Deps struct {
	Engine  *carbon.Engine
	State   *session.State
	Reports *session.Cache[*pipeline.Report]
	Ingest  ingest.Options
	Anomaly analysis.AnomalyConfig
	Log     zerolog.Logger

	AllowedOrigins []string
	// RateLimit is requests per second across /api/v1; 0 disables it.
	RateLimit float64
	RateBurst int
	// StaticDir holds the built dashboard. Skipped when empty or missing.
	StaticDir string
}

func NewRouter(d Deps) *gin.Engine {
	router := gin.New()
	router.Use(middleware.ErrorHandler(d.Log))
	router.Use(middleware.CORS(d.AllowedOrigins))
	router.Use(middleware.Logger(d.Log))

	datasets := handlers.NewDatasetHandler(d.State, d.Ingest, d.Log)
	accounting := handlers.NewAccountingHandler(d.State, d.Engine, d.Reports, d.Anomaly)
	units := handlers.NewUnitHandler(d.State)
	formulas := handlers.NewFormulaHandler(d.State)
	optimization := handlers.NewOptimizationHandler(d.State, d.Engine)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1", middleware.RateLimit(d.RateLimit, d.RateBurst))
	{
		api.POST("/datasets", datasets.Upload)
		api.GET("/months", datasets.ListMonths)
		api.PUT("/months/selected", datasets.SelectMonth)

		api.POST("/accounting", accounting.Run)
		api.POST("/accounting/records", accounting.EnrichRecords)
		api.GET("/reports/:id", accounting.GetReport)
		api.GET("/reports/:id/ledger", accounting.GetLedger)

		api.GET("/factors", handlers.GetFactors(d.Engine))

		api.GET("/units", units.ListUnits)
		api.PUT("/units/:name", units.UpdateUnit)

		api.GET("/formulas", formulas.ListFormulas)
		api.POST("/formulas", formulas.SaveFormula)
		api.GET("/formulas/results", formulas.Results)
		api.DELETE("/formulas/:name", formulas.DeleteFormula)
		api.POST("/formulas/:name/evaluate", formulas.Evaluate)

		api.GET("/optimization/measures", optimization.ListMeasures)
		api.POST("/optimization", optimization.Simulate)
	}

	notFound := func(c *gin.Context) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error: models.ErrorDetail{Code: "NOT_FOUND", Message: "Not found"},
		})
	}
	if info, err := os.Stat(d.StaticDir); d.StaticDir != "" && err == nil && info.IsDir() {
		router.Static("/assets", filepath.Join(d.StaticDir, "assets"))
		router.StaticFile("/favicon.ico", filepath.Join(d.StaticDir, "favicon.ico"))
		index := filepath.Join(d.StaticDir, "index.html")
		// SPA routing: every non-API path gets index.html.
		router.NoRoute(func(c *gin.Context) {
			if strings.HasPrefix(c.Request.URL.Path, "/api") {
				notFound(c)
				return
			}
			c.File(index)
		})
		d.Log.Info().Str("dir", d.StaticDir).Msg("serving static files")
	} else {
		router.NoRoute(notFound)
	}
	return router
}
