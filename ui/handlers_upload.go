package ui

import (
	"fmt"
	"log"
	"net/http"
	"strings"

	"goexplain/app"
	"goexplain/internal/testkit"
)

var validUploadExtensions = []string{".csv", ".xlsx"}

// Browsers disagree on spreadsheet MIME types, so unexpected ones are
// logged rather than rejected.
var expectedUploadMimeTypes = []string{
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	"application/vnd.ms-excel",
	"text/csv",
	"application/csv",
	"text/plain",
}

// handleUpload ingests a dataset file and swaps in the dashboard
func (a *App) handleUpload(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("dataset")
	if err != nil {
		log.Printf("[Upload] FAILED - no file in request: %v", err)
		a.renderUploadError(w, "No file uploaded")
		return
	}
	defer file.Close()

	maxBytes := a.config.MaxUploadMB * 1024 * 1024
	if header.Size > maxBytes {
		log.Printf("[Upload] FAILED - file too large: %d bytes", header.Size)
		a.renderUploadError(w, fmt.Sprintf("File size (%.1f MB) exceeds the %d MB limit",
			float64(header.Size)/(1024*1024), a.config.MaxUploadMB))
		return
	}

	filename := header.Filename
	if !hasValidExtension(filename) {
		log.Printf("[Upload] FAILED - invalid file extension: %s", filename)
		a.renderUploadError(w, "Only CSV (.csv) and Excel (.xlsx) files are allowed")
		return
	}

	if contentType := header.Header.Get("Content-Type"); !isExpectedMimeType(contentType) {
		log.Printf("[Upload] WARNING - unexpected MIME type %q for file: %s", contentType, filename)
	}

	result, err := a.service.Upload(r.Context(), file, filename)
	if err != nil {
		log.Printf("[Upload] FAILED - could not parse %s: %v", filename, err)
		a.renderUploadError(w, fmt.Sprintf("Could not parse %s. Check the file contents and try again.", filename))
		return
	}

	a.finishUpload(w, r, result)
}

// handleDemo loads the bundled synthetic sales dataset
func (a *App) handleDemo(w http.ResponseWriter, r *http.Request) {
	result, err := a.service.Upload(r.Context(), strings.NewReader(testkit.SampleCSV()), "demo_sales.csv")
	if err != nil {
		log.Printf("[Demo] FAILED - could not load demo data: %v", err)
		a.renderUploadError(w, "Could not load the demo dataset")
		return
	}

	a.finishUpload(w, r, result)
}

func (a *App) finishUpload(w http.ResponseWriter, r *http.Request, result *app.UploadResult) {
	if err := a.sessions.SetDataset(sessionID(r), result.Dataset); err != nil {
		log.Printf("[Upload] FAILED - session rejected dataset: %v", err)
		http.Error(w, "Session expired, reload the page", http.StatusInternalServerError)
		return
	}

	log.Printf("[Upload] Loaded %s: %s", result.Dataset.Filename, result.Dataset.Shape())

	if !isHTMX(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	// The history sidebar listens for this event and refreshes itself.
	w.Header().Set("HX-Trigger", "dataset-loaded")
	a.renderPartial(w, "dashboard.html", dashboardData(result.Dataset, result.Warnings))
}

// Upload failures swap an error banner into the dashboard area, so the
// response stays a 200 for the HTMX exchange.
func (a *App) renderUploadError(w http.ResponseWriter, message string) {
	a.renderPartial(w, "upload_error.html", map[string]interface{}{
		"Message": message,
	})
}

func hasValidExtension(filename string) bool {
	lower := strings.ToLower(filename)
	for _, ext := range validUploadExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

func isExpectedMimeType(contentType string) bool {
	for _, mimeType := range expectedUploadMimeTypes {
		if contentType == mimeType {
			return true
		}
	}
	return strings.Contains(contentType, "excel") || strings.Contains(contentType, "csv")
}
