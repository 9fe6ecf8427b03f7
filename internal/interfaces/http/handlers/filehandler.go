package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/application/crm/dto"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/application/crm/usecases"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/interfaces/http/middleware"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/shared/errors"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/shared/logger"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/shared/utils"
)

type uploadFileUseCase interface {
	Execute(ctx context.Context, cmd usecases.UploadFileCommand) (*dto.FileDTO, error)
}

type listFilesUseCase interface {
	Execute(ctx context.Context, companyID uint) ([]*dto.FileDTO, error)
}

type deleteFileUseCase interface {
	Execute(ctx context.Context, companyID, fileID uint) error
}

// multipartOverhead is added to the upload ceiling when capping the body so
// form boundaries and fields fit.
const multipartOverhead = 1 << 20

type FileHandler struct {
	uploadUC  uploadFileUseCase
	listUC    listFilesUseCase
	deleteUC  deleteFileUseCase
	maxUpload int64
	logger    logger.Interface
}

func NewFileHandler(
	uploadUC uploadFileUseCase,
	listUC listFilesUseCase,
	deleteUC deleteFileUseCase,
	maxUpload int64,
	logger logger.Interface,
) *FileHandler {
	return &FileHandler{
		uploadUC:  uploadUC,
		listUC:    listUC,
		deleteUC:  deleteUC,
		maxUpload: maxUpload,
		logger:    logger,
	}
}

// UploadFile handles POST /api/v1/files (multipart field "file", optional "lead_id")
// @Summary Upload file
// @Description Upload a document, optionally attached to a lead. Counts against the plan storage limit
// @Tags Files
// @Accept multipart/form-data
// @Produce json
// @Security Bearer
// @Param file formData file true "Document"
// @Param lead_id formData int false "Lead ID"
// @Success 201 {object} utils.APIResponse{data=dto.FileDTO}
// @Failure 400 {object} utils.APIResponse
// @Failure 402 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Router /files [post]
func (h *FileHandler) UploadFile(c *gin.Context) {
	companyID, err := middleware.GetCompanyID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	userID, err := middleware.GetUserID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if h.maxUpload > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUpload+multipartOverhead)
	}

	header, err := c.FormFile("file")
	if err != nil {
		h.logger.Warnw("invalid upload", "error", err, "company_id", companyID)
		utils.ErrorResponseWithError(c, errors.NewValidationError("file is required", err.Error()))
		return
	}

	var leadID *uint
	if raw := c.PostForm("lead_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || id == 0 {
			utils.ErrorResponseWithError(c, errors.NewValidationError("invalid lead_id", raw))
			return
		}
		v := uint(id)
		leadID = &v
	}

	body, err := header.Open()
	if err != nil {
		h.logger.Errorw("failed to open uploaded file", "error", err)
		utils.ErrorResponseWithError(c, errors.NewBadRequestError("failed to read uploaded file"))
		return
	}
	defer body.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	result, err := h.uploadUC.Execute(c.Request.Context(), usecases.UploadFileCommand{
		CompanyID:   companyID,
		UserID:      userID,
		LeadID:      leadID,
		FileName:    header.Filename,
		ContentType: contentType,
		Size:        header.Size,
		Body:        body,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "File uploaded successfully")
}

// ListFiles handles GET /api/v1/files
// @Summary List files
// @Description List the company's uploaded documents
// @Tags Files
// @Produce json
// @Security Bearer
// @Success 200 {object} utils.APIResponse{data=[]dto.FileDTO}
// @Failure 403 {object} utils.APIResponse
// @Router /files [get]
func (h *FileHandler) ListFiles(c *gin.Context) {
	companyID, err := middleware.GetCompanyID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.listUC.Execute(c.Request.Context(), companyID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// DeleteFile handles DELETE /api/v1/files/:id
// @Summary Delete file
// @Tags Files
// @Security Bearer
// @Param id path int true "File ID"
// @Success 204
// @Failure 404 {object} utils.APIResponse
// @Router /files/{id} [delete]
func (h *FileHandler) DeleteFile(c *gin.Context) {
	companyID, err := middleware.GetCompanyID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	fileID, err := parseIDParam(c, "id")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if err := h.deleteUC.Execute(c.Request.Context(), companyID, fileID); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.NoContentResponse(c)
}
