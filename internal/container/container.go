package container

import (
	"context"
	"fmt"
	"log"

	"goexplain/adapters/tabular"
	"goexplain/app"
	"goexplain/internal/chart"
	"goexplain/internal/config"
	"goexplain/internal/insight"
	"goexplain/internal/profile"
	"goexplain/internal/report"
	"goexplain/internal/session"
	"goexplain/ui"
)

// analysisConcurrency bounds the per-dataset worker fan-out in the
// profiler and the pair-grid builder
const analysisConcurrency = 4

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config

	// Infrastructure
	Sessions *session.Store

	// Analysis components
	Reader   *tabular.Reader
	Engine   *insight.Engine
	Profiler *profile.Profiler
	Charts   *chart.Builder
	Reports  *report.Builder
	Analysis *app.AnalysisService

	// Entry points
	UI  *ui.App
	API *ui.Server
}

// New creates a fully wired dependency injection container
func New(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	c := &Container{Config: cfg}

	c.initInfrastructure()
	c.initAnalysis()
	if err := c.initEntryPoints(); err != nil {
		return nil, fmt.Errorf("failed to initialize entry points: %w", err)
	}

	log.Printf("Container initialized successfully")
	return c, nil
}

// initInfrastructure initializes session and dataset storage
func (c *Container) initInfrastructure() {
	c.Sessions = session.NewStore(
		c.Config.Session.TTL,
		c.Config.Session.SweepInterval,
		c.Config.History.Limit,
	)
}

// initAnalysis initializes the analysis pipeline
func (c *Container) initAnalysis() {
	c.Reader = tabular.NewReader()
	c.Engine = insight.NewEngine(insight.Thresholds{
		Strong:   c.Config.Insight.StrongCorrelation,
		Moderate: c.Config.Insight.ModerateCorrelation,
		Weak:     c.Config.Insight.WeakCorrelation,
		HighMean: c.Config.Insight.HighMeanThreshold,
	})
	c.Profiler = profile.NewProfiler(analysisConcurrency)
	c.Charts = chart.NewBuilder(analysisConcurrency)
	c.Reports = report.NewBuilder()

	c.Analysis = app.NewAnalysisService(
		c.Reader,
		c.Sessions,
		c.Engine,
		c.Profiler,
		c.Charts,
		c.Reports,
		c.Config.Preview.Rows,
	)
}

// initEntryPoints initializes the dashboard and the JSON API
func (c *Container) initEntryPoints() error {
	uiApp, err := ui.NewApp(c.Analysis, c.Sessions, ui.Config{
		Port:        c.Config.Server.Port,
		MaxUploadMB: int64(c.Config.Upload.MaxFileSizeMB),
	})
	if err != nil {
		return fmt.Errorf("failed to create UI app: %w", err)
	}
	c.UI = uiApp

	c.API = ui.NewServer(c.Analysis, ui.APIConfig{
		Port:        c.Config.Server.APIPort,
		GinMode:     c.Config.Server.GinMode,
		MaxUploadMB: int64(c.Config.Upload.MaxFileSizeMB),
	})
	return nil
}

// Shutdown gracefully shuts down all components
func (c *Container) Shutdown(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if c.Sessions != nil {
		c.Sessions.Close()
	}
	return nil
}
