// Package handlers is made to handle requests
package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"lsb-steganography/crypto"
	"lsb-steganography/models"
	"lsb-steganography/service"
	"lsb-steganography/stego"
)

type StegoHandler struct {
	service        *service.StegoService
	maxUploadBytes int64
}

func NewStegoHandler(svc *service.StegoService, maxUploadBytes int64) *StegoHandler {
	return &StegoHandler{
		service:        svc,
		maxUploadBytes: maxUploadBytes,
	}
}

func (h *StegoHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"message": "Steganography API is running",
		"version": "2.0.0",
	})
}

func (h *StegoHandler) InsertMessage(c *gin.Context) {
	if err := c.Request.ParseMultipartForm(h.maxUploadBytes); err != nil {
		c.JSON(http.StatusBadRequest, models.StegoResponse{
			Success: false,
			Message: fmt.Sprintf("Failed to parse form: %v", err),
			Code:    codeBadRequest,
		})
		return
	}

	key := c.PostForm("key")
	useEncryption := c.PostForm("use_encryption") == "true"

	if err := crypto.ValidateKey(key); err != nil {
		c.JSON(http.StatusBadRequest, models.StegoResponse{
			Success: false,
			Message: fmt.Sprintf("Invalid key: %v", err),
			Code:    codeBadRequest,
		})
		return
	}

	coverData, coverHeader, err := readFormFile(c, "cover_file")
	if err != nil {
		c.JSON(http.StatusBadRequest, models.StegoResponse{
			Success: false,
			Message: fmt.Sprintf("Cover file is required: %v", err),
			Code:    codeBadRequest,
		})
		return
	}

	secretData, _, err := readFormFile(c, "secret_file")
	if err != nil {
		c.JSON(http.StatusBadRequest, models.StegoResponse{
			Success: false,
			Message: fmt.Sprintf("Secret file is required: %v", err),
			Code:    codeBadRequest,
		})
		return
	}

	stegoData, ext, report, err := h.service.EmbedBytes(c.Request.Context(), coverHeader.Filename,
		coverData, secretData, key, useEncryption)
	if err != nil {
		status, code := errorStatus(err)
		c.JSON(status, models.StegoResponse{
			Success: false,
			Message: fmt.Sprintf("Failed to embed secret data: %v", err),
			Code:    code,
		})
		return
	}

	baseFilename := strings.TrimSuffix(coverHeader.Filename, filepath.Ext(coverHeader.Filename))
	outputFilename := fmt.Sprintf("%s_stego%s", baseFilename, ext)
	contentType := contentTypeFor(ext)

	// Set headers for file download
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Transfer-Encoding", "binary")
	c.Header("Content-Disposition", attachment(outputFilename))
	c.Header("Content-Length", fmt.Sprintf("%d", len(stegoData)))

	// Include metadata about the steganography operation
	c.Header("X-Stego-Message", fmt.Sprintf("Secret data embedded in %s carrier", report.Kind))
	c.Header("X-Stego-PSNR", fmt.Sprintf("%.2f", report.PSNR))
	c.Header("X-Stego-Capacity", fmt.Sprintf("%d", report.MaxPayload))
	if report.AudioInfo != nil && report.AudioInfo.Frames > 0 {
		c.Header("X-Stego-Frames", fmt.Sprintf("%d", report.AudioInfo.Frames))
	}

	c.Data(http.StatusOK, contentType, stegoData)
}

func (h *StegoHandler) ExtractMessage(c *gin.Context) {
	if err := c.Request.ParseMultipartForm(h.maxUploadBytes); err != nil {
		c.JSON(http.StatusBadRequest, models.ExtractResponse{
			Success: false,
			Message: fmt.Sprintf("Failed to parse form: %v", err),
			Code:    codeBadRequest,
		})
		return
	}

	key := c.PostForm("key")
	useEncryption := c.PostForm("use_encryption") == "true"

	if err := crypto.ValidateKey(key); err != nil {
		c.JSON(http.StatusBadRequest, models.ExtractResponse{
			Success: false,
			Message: fmt.Sprintf("Invalid key: %v", err),
			Code:    codeBadRequest,
		})
		return
	}

	stegoData, stegoHeader, err := readFormFile(c, "stego_file")
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ExtractResponse{
			Success: false,
			Message: fmt.Sprintf("Stego file is required: %v", err),
			Code:    codeBadRequest,
		})
		return
	}

	secretData, err := h.service.ExtractBytes(c.Request.Context(), stegoHeader.Filename, stegoData, key, useEncryption)
	if err != nil {
		status, code := errorStatus(err)
		c.JSON(status, models.ExtractResponse{
			Success: false,
			Message: fmt.Sprintf("Failed to extract secret data: %v", err),
			Code:    code,
		})
		return
	}

	secretFilename := filepath.Base(c.PostForm("output_filename"))
	if secretFilename == "." || secretFilename == string(filepath.Separator) {
		secretFilename = "secret.bin"
	}

	// Set headers for file download
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Transfer-Encoding", "binary")
	c.Header("Content-Disposition", attachment(secretFilename))
	c.Header("Content-Length", fmt.Sprintf("%d", len(secretData)))

	c.Data(http.StatusOK, "application/octet-stream", secretData)
}

func (h *StegoHandler) Capacity(c *gin.Context) {
	if err := c.Request.ParseMultipartForm(h.maxUploadBytes); err != nil {
		c.JSON(http.StatusBadRequest, models.CapacityResponse{
			Success: false,
			Message: fmt.Sprintf("Failed to parse form: %v", err),
			Code:    codeBadRequest,
		})
		return
	}

	useEncryption := c.PostForm("use_encryption") == "true"

	coverData, coverHeader, err := readFormFile(c, "cover_file")
	if err != nil {
		c.JSON(http.StatusBadRequest, models.CapacityResponse{
			Success: false,
			Message: fmt.Sprintf("Cover file is required: %v", err),
			Code:    codeBadRequest,
		})
		return
	}

	report, err := h.service.CapacityBytes(c.Request.Context(), coverHeader.Filename, coverData, useEncryption)
	if err != nil {
		status, code := errorStatus(err)
		c.JSON(status, models.CapacityResponse{
			Success: false,
			Message: fmt.Sprintf("Failed to calculate capacity: %v", err),
			Code:    code,
		})
		return
	}

	c.JSON(http.StatusOK, models.CapacityResponse{
		Success:        true,
		CapacityReport: report,
	})
}

func readFormFile(c *gin.Context, field string) ([]byte, *multipart.FileHeader, error) {
	file, header, err := c.Request.FormFile(field)
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, nil, err
	}
	return data, header, nil
}

const (
	codeBadRequest       = "bad_request"
	codeInvalidCarrier   = "invalid_carrier"
	codePayloadTooLarge  = "payload_too_large"
	codeFrameNotFound    = "frame_not_found"
	codeFrameCorrupted   = "frame_corrupted"
	codeDecryptionFailed = "decryption_failed"
	codeInternal         = "internal_error"
)

// errorStatus maps codec errors to an HTTP status and response code.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, stego.ErrInvalidCarrier):
		return http.StatusUnsupportedMediaType, codeInvalidCarrier
	case errors.Is(err, stego.ErrPayloadTooLarge):
		return http.StatusRequestEntityTooLarge, codePayloadTooLarge
	case errors.Is(err, stego.ErrFrameNotFound):
		return http.StatusNotFound, codeFrameNotFound
	case errors.Is(err, stego.ErrFrameCorrupted):
		return http.StatusUnprocessableEntity, codeFrameCorrupted
	case errors.Is(err, stego.ErrDecryptionFailed):
		return http.StatusUnauthorized, codeDecryptionFailed
	}
	return http.StatusInternalServerError, codeInternal
}

// attachment formats a Content-Disposition value, quoting or RFC 2231
// encoding the filename as needed.
func attachment(filename string) string {
	return mime.FormatMediaType("attachment", map[string]string{"filename": filename})
}

func contentTypeFor(ext string) string {
	switch strings.ToLower(ext) {
	case ".wav":
		return "audio/wav"
	case ".png":
		return "image/png"
	case ".bmp":
		return "image/bmp"
	case ".tif", ".tiff":
		return "image/tiff"
	}
	return "application/octet-stream"
}
