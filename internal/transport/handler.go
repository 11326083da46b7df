package transport

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"go-cfimages/internal/config"
	apperrors "go-cfimages/internal/errors"
	"go-cfimages/internal/logger"
	"go-cfimages/internal/service"
	"go-cfimages/pkg/validation"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// NewHandler builds the local REST facade over the image service.
func NewHandler(svc service.ImageService, cfg *config.Config) http.Handler {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), requestSizeLimiter(cfg.MaxRequestBodySize))

	r.GET("/health", healthCheck)
	r.POST("/images", uploadImage(svc, cfg))
	r.GET("/images", listImages(svc, cfg))
	r.DELETE("/images/:id", deleteImage(svc, cfg))

	return r
}

func uploadImage(svc service.ImageService, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		ctx, cancel := contextWithTimeout(c, cfg)
		defer cancel()

		fileHeader, err := c.FormFile("file")
		if err != nil {
			respondError(c, http.StatusBadRequest, "missing file part", err)
			return
		}

		// Spool the part to disk so the upload path is identical to
		// the CLI's: validate a local file, then send it
		tmp, err := os.CreateTemp("", "cfimages-*"+filepath.Ext(fileHeader.Filename))
		if err != nil {
			respondError(c, http.StatusInternalServerError, "failed to spool upload", err)
			return
		}
		tmpPath := tmp.Name()
		tmp.Close()
		defer os.Remove(tmpPath)

		if err := c.SaveUploadedFile(fileHeader, tmpPath); err != nil {
			respondError(c, http.StatusInternalServerError, "failed to spool upload", err)
			return
		}

		metadata, err := validation.ParseMetadata(c.PostForm("metadata"))
		if err != nil {
			respondError(c, apperrors.GetStatusCode(err), "invalid metadata", err)
			return
		}

		record, err := svc.Upload(ctx, service.UploadRequest{
			FilePath:          tmpPath,
			CustomID:          c.PostForm("id"),
			RequireSignedURLs: c.PostForm("requireSignedURLs") == "true",
			Metadata:          metadata,
		})
		if err != nil {
			respondError(c, apperrors.GetStatusCode(err), "upload failed", err)
			return
		}

		logger.WithFields(logrus.Fields{
			"id":                 record.ID,
			"processing_time_ms": time.Since(start).Milliseconds(),
		}).Info("Image uploaded")

		c.JSON(http.StatusCreated, gin.H{
			"success":           true,
			"id":                record.ID,
			"url":               record.URL(),
			"uploaded":          record.Uploaded,
			"requireSignedURLs": record.RequireSignedURLs,
		})
	}
}

func listImages(svc service.ImageService, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := contextWithTimeout(c, cfg)
		defer cancel()

		limit, err := strconv.Atoi(c.DefaultQuery("per_page", "50"))
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid per_page", err)
			return
		}
		page, _ := strconv.Atoi(c.DefaultQuery("page", "0"))

		list, err := svc.List(ctx, limit, page)
		if err != nil {
			respondError(c, apperrors.GetStatusCode(err), "list failed", err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"images":  list.Images,
			"count":   list.Count,
		})
	}
}

func deleteImage(svc service.ImageService, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := contextWithTimeout(c, cfg)
		defer cancel()

		deleted, err := svc.Delete(ctx, c.Param("id"))
		if err != nil {
			respondError(c, apperrors.GetStatusCode(err), "delete failed", err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"deleted": deleted,
		})
	}
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "available",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func contextWithTimeout(c *gin.Context, cfg *config.Config) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), cfg.RequestTimeout)
}

// Middleware and helper functions
func requestSizeLimiter(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

func respondError(c *gin.Context, code int, message string, err error) {
	logger.WithError(err).WithFields(logrus.Fields{
		"status_code": code,
		"path":        c.Request.URL.Path,
		"method":      c.Request.Method,
	}).Error("Request failed")

	c.AbortWithStatusJSON(code, ErrorResponse{
		Error:   http.StatusText(code),
		Message: apperrors.UserMessage(err),
	})
}
