package ui

import (
	"embed"
	"fmt"
	"html/template"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"

	"goexplain/app"
	"goexplain/internal/session"
)

//go:embed templates/* static/*
var embeddedFiles embed.FS

// App represents the dashboard UI application
type App struct {
	router    *chi.Mux
	service   *app.AnalysisService
	sessions  *session.Store
	config    Config
	templates *template.Template
}

// Config holds UI application configuration
type Config struct {
	Port        string
	MaxUploadMB int64
}

// NewApp creates a new UI application
func NewApp(service *app.AnalysisService, sessions *session.Store, config Config) (*App, error) {
	if config.MaxUploadMB <= 0 {
		config.MaxUploadMB = 25
	}

	// Parse templates (including fragments)
	funcMap := template.FuncMap{
		"mul": func(a, b float64) float64 { return a * b },
		"add": func(a, b int) int { return a + b },
		"max": func(a, b float64) float64 {
			if a > b {
				return a
			}
			return b
		},
		"until": func(n int) []int {
			res := make([]int, n)
			for i := range res {
				res[i] = i
			}
			return res
		},
		"markdown": renderMarkdown,
	}
	templates, err := template.New("").Funcs(funcMap).ParseFS(embeddedFiles, "templates/*.html", "templates/fragments/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	a := &App{
		router:    chi.NewRouter(),
		service:   service,
		sessions:  sessions,
		config:    config,
		templates: templates,
	}

	a.setupMiddleware()
	a.setupRoutes()

	return a, nil
}

// setupMiddleware configures HTTP middleware
func (a *App) setupMiddleware() {
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Compress(5))
	a.router.Use(a.withSession)

	// Serve static files
	staticFS := http.FileServer(http.FS(embeddedFiles))
	a.router.Handle("/static/*", staticFS)
}

// setupRoutes configures the application routes
func (a *App) setupRoutes() {
	// Main page
	a.router.Get("/", a.handleIndex)

	// Dataset ingestion
	a.router.Post("/upload", a.handleUpload)
	a.router.Post("/demo", a.handleDemo)

	// HTMX tab fragments
	a.router.Get("/tabs/overview", a.handleOverviewTab)
	a.router.Get("/tabs/charts", a.handleChartsTab)
	a.router.Get("/tabs/insights", a.handleInsightsTab)

	// Chart payloads for the client-side renderer
	a.router.Get("/charts/render", a.handleChartRender)

	// Report download
	a.router.Get("/report", a.handleReport)

	// Upload history fragment
	a.router.Get("/history", a.handleHistory)
}

// Router exposes the configured handler, mainly for tests
func (a *App) Router() http.Handler {
	return a.router
}

// Start starts the HTTP server
func (a *App) Start() error {
	addr := ":" + a.config.Port
	log.Printf("Starting GoExplain UI server on %s", addr)
	return http.ListenAndServe(addr, a.router)
}

// Template helpers
func (a *App) renderTemplate(w http.ResponseWriter, templateName string, data interface{}) {
	w.Header().Set("Content-Type", "text/html")
	if err := a.templates.ExecuteTemplate(w, templateName, data); err != nil {
		log.Printf("Template error: %v", err)
		http.Error(w, "Template error", http.StatusInternalServerError)
	}
}

// HTMX helpers
func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

func (a *App) renderPartial(w http.ResponseWriter, templateName string, data interface{}) {
	a.renderTemplate(w, templateName, data)
}

// renderMarkdown converts the inline markdown in captions and insights
// into HTML. Raw HTML in the source is dropped, only the markdown
// formatting survives.
func renderMarkdown(s string) template.HTML {
	renderer := mdhtml.NewRenderer(mdhtml.RendererOptions{Flags: mdhtml.CommonFlags | mdhtml.SkipHTML})
	return template.HTML(markdown.ToHTML([]byte(s), nil, renderer))
}
