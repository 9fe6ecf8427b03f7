package usecases

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/application/crm/dto"
	subscriptionUsecases "github.com/csiqueira956/cflow-gestor-backend-sub002/internal/application/subscription/usecases"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/domain/storedfile"
	vo "github.com/csiqueira956/cflow-gestor-backend-sub002/internal/domain/subscription/valueobjects"
	apperrors "github.com/csiqueira956/cflow-gestor-backend-sub002/internal/shared/errors"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/shared/logger"
)

type UploadFileCommand struct {
	CompanyID   uint
	UserID      uint
	LeadID      *uint
	FileName    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// UploadFileUseCase stores a document. It is admitted while storage usage is
// below the plan ceiling.
type UploadFileUseCase struct {
	fileRepo  storedfile.Repository
	storage   FileStorage
	guard     *CapacityGuard
	maxUpload int64
	logger    logger.Interface
}

func NewUploadFileUseCase(
	fileRepo storedfile.Repository,
	storage FileStorage,
	guard *CapacityGuard,
	maxUpload int64,
	logger logger.Interface,
) *UploadFileUseCase {
	return &UploadFileUseCase{
		fileRepo:  fileRepo,
		storage:   storage,
		guard:     guard,
		maxUpload: maxUpload,
		logger:    logger,
	}
}

func (uc *UploadFileUseCase) Execute(ctx context.Context, cmd UploadFileCommand) (*dto.FileDTO, error) {
	if cmd.Size <= 0 {
		return nil, apperrors.NewValidationError("file is empty")
	}
	if uc.maxUpload > 0 && cmd.Size > uc.maxUpload {
		return nil, apperrors.NewValidationError("file too large", fmt.Sprintf("max %d bytes", uc.maxUpload))
	}

	name := path.Base(strings.ReplaceAll(cmd.FileName, "\\", "/"))
	key := fmt.Sprintf("companies/%d/%s%s", cmd.CompanyID, uuid.NewString(), strings.ToLower(path.Ext(name)))

	f, err := storedfile.NewStoredFile(cmd.CompanyID, cmd.UserID, cmd.LeadID, name, key, cmd.ContentType, cmd.Size)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	err = uc.guard.Run(ctx, cmd.CompanyID, vo.ResourceStorage, func(ctx context.Context) error {
		if err := uc.storage.Put(ctx, key, cmd.Body, cmd.Size, cmd.ContentType); err != nil {
			uc.logger.Errorw("failed to store file", "error", err, "key", key)
			return fmt.Errorf("failed to store file: %w", err)
		}
		if err := uc.fileRepo.Create(ctx, f); err != nil {
			uc.logger.Errorw("failed to record file", "error", err, "key", key)
			if delErr := uc.storage.Delete(ctx, key); delErr != nil {
				uc.logger.Warnw("failed to remove orphaned file", "error", delErr, "key", key)
			}
			return fmt.Errorf("failed to record file: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Infow("file uploaded", "file_id", f.ID(), "company_id", cmd.CompanyID, "size", cmd.Size)
	return dto.ToFileDTO(f, uc.storage.URL(key)), nil
}

type ListFilesUseCase struct {
	fileRepo storedfile.Repository
	storage  FileStorage
	logger   logger.Interface
}

func NewListFilesUseCase(fileRepo storedfile.Repository, storage FileStorage, logger logger.Interface) *ListFilesUseCase {
	return &ListFilesUseCase{
		fileRepo: fileRepo,
		storage:  storage,
		logger:   logger,
	}
}

func (uc *ListFilesUseCase) Execute(ctx context.Context, companyID uint) ([]*dto.FileDTO, error) {
	files, err := uc.fileRepo.ListByCompany(ctx, companyID)
	if err != nil {
		uc.logger.Errorw("failed to list files", "error", err, "company_id", companyID)
		return nil, fmt.Errorf("failed to list files: %w", err)
	}
	out := make([]*dto.FileDTO, 0, len(files))
	for _, f := range files {
		out = append(out, dto.ToFileDTO(f, uc.storage.URL(f.StorageKey())))
	}
	return out, nil
}

// DeleteFileUseCase removes a document and frees its storage.
type DeleteFileUseCase struct {
	fileRepo    storedfile.Repository
	storage     FileStorage
	invalidator subscriptionUsecases.StatusInvalidator
	logger      logger.Interface
}

func NewDeleteFileUseCase(
	fileRepo storedfile.Repository,
	storage FileStorage,
	invalidator subscriptionUsecases.StatusInvalidator,
	logger logger.Interface,
) *DeleteFileUseCase {
	return &DeleteFileUseCase{
		fileRepo:    fileRepo,
		storage:     storage,
		invalidator: invalidator,
		logger:      logger,
	}
}

func (uc *DeleteFileUseCase) Execute(ctx context.Context, companyID, fileID uint) error {
	f, err := uc.fileRepo.GetByID(ctx, companyID, fileID)
	if err != nil {
		uc.logger.Errorw("failed to get file", "error", err, "file_id", fileID)
		return fmt.Errorf("failed to get file: %w", err)
	}
	if f == nil {
		return apperrors.NewNotFoundError("file not found")
	}

	if err := uc.fileRepo.Delete(ctx, companyID, fileID); err != nil {
		uc.logger.Errorw("failed to delete file record", "error", err, "file_id", fileID)
		return fmt.Errorf("failed to delete file: %w", err)
	}
	uc.invalidator.InvalidateStatus(ctx, companyID)

	if err := uc.storage.Delete(ctx, f.StorageKey()); err != nil {
		uc.logger.Warnw("failed to delete stored object", "error", err, "key", f.StorageKey())
	}

	uc.logger.Infow("file deleted", "file_id", fileID, "company_id", companyID)
	return nil
}
