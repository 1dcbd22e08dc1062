package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/trust_ledger_app/internal/core/ports/services"
	"github.com/SscSPs/trust_ledger_app/internal/dto"
	"github.com/SscSPs/trust_ledger_app/internal/importer"
	"github.com/SscSPs/trust_ledger_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

type importHandler struct {
	importService portssvc.ImportSvc
}

// RegisterImportRoutes registers the import staging and review routes.
func RegisterImportRoutes(rg *gin.RouterGroup, importService portssvc.ImportSvc) {
	h := &importHandler{importService: importService}

	imports := rg.Group("/imports")
	{
		imports.POST("", h.startImport)
		imports.GET("/:batchID", h.getBatch)
		imports.POST("/:batchID/approve", h.approveImport)
		imports.POST("/:batchID/reject", h.rejectImport)
	}
}

// startImport godoc
// @Summary Stage an import for review
// @Description Accepts JSON rows, or a multipart upload with a CSV "file" and a "bankAccountID" field. Bad rows are reported, not raised.
// @Tags imports
// @Accept  json,mpfd
// @Produce  json
// @Param   body body dto.StartImportRequest false "Rows to stage"
// @Success 201 {object} dto.StartImportResult
// @Failure 400 {object} map[string]interface{} "Malformed upload"
// @Security BearerAuth
// @Router /imports [post]
func (h *importHandler) startImport(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.StartImportRequest
	if c.ContentType() == gin.MIMEMultipartPOSTForm {
		req.BankAccountID = c.PostForm("bankAccountID")
		fileHeader, err := c.FormFile("file")
		if err != nil {
			logger.Warn("CSV file missing from import upload", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": "A CSV file is required in the \"file\" field"})
			return
		}
		f, err := fileHeader.Open()
		if err != nil {
			logger.Error("Failed to open uploaded CSV", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Could not read uploaded file"})
			return
		}
		defer f.Close()

		req.Rows, err = importer.ParseCSV(f)
		if err != nil {
			logger.Warn("Failed to parse uploaded CSV", slog.String("file", fileHeader.Filename), slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid CSV: " + err.Error()})
			return
		}
	} else if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for StartImport", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}

	logger.Info("Received import upload", slog.String("bank_account_id", req.BankAccountID), slog.Int("rows", len(req.Rows)))

	result, err := h.importService.StartImport(c.Request.Context(), req.BankAccountID, req.Rows, actor)
	if err != nil {
		respondError(c, logger, err, "stage import")
		return
	}
	c.JSON(http.StatusCreated, result)
}

// getBatch godoc
// @Summary Get an import batch
// @Tags imports
// @Produce  json
// @Param   batchID path string true "Batch ID"
// @Success 200 {object} dto.ImportBatchResponse
// @Security BearerAuth
// @Router /imports/{batchID} [get]
func (h *importHandler) getBatch(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("batch_id", c.Param("batchID")))

	batch, err := h.importService.GetBatch(c.Request.Context(), c.Param("batchID"))
	if err != nil {
		respondError(c, logger, err, "retrieve import batch")
		return
	}
	c.JSON(http.StatusOK, dto.ToImportBatchResponse(batch))
}

// approveImport godoc
// @Summary Approve an import batch
// @Description Promotes staged rows to production. The approver must not be the uploader.
// @Tags imports
// @Produce  json
// @Param   batchID path string true "Batch ID"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]string "Dual control violation or missing capability"
// @Failure 409 {object} map[string]string "Batch already resolved"
// @Security BearerAuth
// @Router /imports/{batchID}/approve [post]
func (h *importHandler) approveImport(c *gin.Context) {
	batchID := c.Param("batchID")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("batch_id", batchID))
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}

	counts, err := h.importService.ApproveImport(c.Request.Context(), batchID, actor)
	if err != nil {
		respondError(c, logger, err, "approve import")
		return
	}
	c.JSON(http.StatusOK, gin.H{"batchID": batchID, "status": "COMMITTED", "counts": counts})
}

// rejectImport godoc
// @Summary Reject an import batch
// @Tags imports
// @Accept  json
// @Produce  json
// @Param   batchID path string true "Batch ID"
// @Param   body body dto.RejectImportRequest true "Rejection reason"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /imports/{batchID}/reject [post]
func (h *importHandler) rejectImport(c *gin.Context) {
	batchID := c.Param("batchID")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("batch_id", batchID))
	var req dto.RejectImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for RejectImport", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}

	if err := h.importService.RejectImport(c.Request.Context(), batchID, actor, req.Reason); err != nil {
		respondError(c, logger, err, "reject import")
		return
	}
	c.JSON(http.StatusOK, gin.H{"batchID": batchID, "status": "REJECTED"})
}
