// Package api exposes the upload/process/preview/download HTTP surface
// around the batch processor.
package api

import (
	"errors"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"linkedin-leads/internal/database"
	"linkedin-leads/internal/models"
	"linkedin-leads/internal/orchestrator"
	"linkedin-leads/internal/storage"
)

// Processor schedules a table for background processing.
type Processor interface {
	Enqueue(table *storage.Table, inputFile, resultFile, resultPath string) error
}

// Handler holds the API dependencies
type Handler struct {
	cfg       models.Config
	store     *storage.FileStore
	db        *database.Storage // may be nil; /status then reports not found
	processor Processor
}

// NewHandler creates a new Handler instance
func NewHandler(cfg models.Config, store *storage.FileStore, db *database.Storage, processor Processor) *Handler {
	return &Handler{
		cfg:       cfg,
		store:     store,
		db:        db,
		processor: processor,
	}
}

// Register mounts all routes on the router
func (h *Handler) Register(r gin.IRouter) {
	r.POST("/upload", h.Upload)
	r.POST("/process", h.Process)
	r.GET("/download/:file", h.Download)
	r.GET("/preview/:file", h.Preview)
	r.GET("/status/:file", h.Status)
	r.GET("/ping", h.Ping)
}

// Upload receives a multipart CSV, stores it in the upload directory and
// validates its shape. Rejected files are removed again.
func (h *Handler) Upload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "no file uploaded"})
		return
	}

	if !strings.HasSuffix(strings.ToLower(file.Filename), ".csv") {
		log.Printf("⚠️ Rejected upload with invalid file type: %s", file.Filename)
		c.JSON(http.StatusBadRequest, gin.H{"detail": "only CSV files are allowed"})
		return
	}

	name := h.store.FreeUploadName(file.Filename)
	path := h.store.UploadPath(name)

	if err := c.SaveUploadedFile(file, path); err != nil {
		log.Printf("❌ Failed to save upload %s: %v", name, err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "upload failed"})
		return
	}

	if err := storage.CheckIssues(path, h.cfg.URLColumn); err != nil {
		log.Printf("⚠️ CSV validation failed for %s: %v", name, err)
		os.Remove(path)
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	log.Printf("📥 Uploaded %s", name)
	c.JSON(http.StatusOK, gin.H{"filename": name})
}

// Process schedules background processing of an uploaded file and returns
// immediately. The caller polls for the result file or asks /status.
func (h *Handler) Process(c *gin.Context) {
	filename := c.PostForm("filename")
	if filename == "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "filename is required"})
		return
	}
	filename = filepath.Base(filename)

	path := h.store.UploadPath(filename)
	if !h.store.Exists(path) {
		c.JSON(http.StatusNotFound, gin.H{"detail": "file not found"})
		return
	}

	table, err := storage.ReadTable(path)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid CSV: " + err.Error()})
		return
	}
	if len(table.Rows) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "CSV file contains no valid data rows"})
		return
	}

	resultFile := h.cfg.ResultPrefix + filename
	if err := h.processor.Enqueue(table, filename, resultFile, h.store.ResultPath(resultFile)); err != nil {
		if errors.Is(err, orchestrator.ErrBatchInProgress) {
			c.JSON(http.StatusConflict, gin.H{"detail": err.Error()})
			return
		}
		log.Printf("❌ Failed to schedule batch for %s: %v", filename, err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "processing failed to start"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"result_file": resultFile, "status": "processing"})
}

// Download streams a result CSV.
func (h *Handler) Download(c *gin.Context) {
	file := filepath.Base(c.Param("file"))
	path := h.store.ResultPath(file)
	if !h.store.Exists(path) {
		c.JSON(http.StatusNotFound, gin.H{"detail": "result file not found"})
		return
	}
	c.FileAttachment(path, file)
}

// Preview returns the first rows of a result CSV as JSON records.
func (h *Handler) Preview(c *gin.Context) {
	file := filepath.Base(c.Param("file"))
	path := h.store.ResultPath(file)
	if !h.store.Exists(path) {
		c.JSON(http.StatusNotFound, gin.H{"detail": "result file not found"})
		return
	}

	table, err := storage.ReadTable(path)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid CSV: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, table.Records(h.cfg.PreviewRows))
}

// Status reports the job record behind a result file.
func (h *Handler) Status(c *gin.Context) {
	if h.db == nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "job tracking is not available"})
		return
	}

	file := filepath.Base(c.Param("file"))
	job, err := h.db.Jobs.GetJobByResultFile(file)
	if errors.Is(err, database.ErrJobNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"detail": "no job found for this result file"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "failed to load job"})
		return
	}

	stats, err := h.db.Profiles.GetProfileStats(job.ID)
	if err != nil {
		log.Printf("⚠️ Failed to load profile stats for job %s: %v", job.ID, err)
		stats = map[string]int{}
	}

	c.JSON(http.StatusOK, gin.H{"job": job, "rows": stats})
}

// Ping reports service health; unhealthy when the results directory is not
// writable, since processing could then never persist its output.
func (h *Handler) Ping(c *gin.Context) {
	probe, err := os.CreateTemp(h.store.ResultsDir, ".ping-*")
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "unhealthy", "error": err.Error()})
		return
	}
	probe.Close()
	os.Remove(probe.Name())

	c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "healthy"})
}
