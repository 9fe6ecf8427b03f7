// Package storedfile tracks uploaded documents. Their sizes add up to the
// tenant's storage usage.
package storedfile

import (
	"context"
	"fmt"
	"strings"
	"time"
)

type StoredFile struct {
	id          uint
	companyID   uint
	uploadedBy  uint
	leadID      *uint
	name        string
	storageKey  string
	contentType string
	sizeBytes   int64
	createdAt   time.Time
}

func NewStoredFile(companyID, uploadedBy uint, leadID *uint, name, storageKey, contentType string, sizeBytes int64) (*StoredFile, error) {
	if companyID == 0 {
		return nil, fmt.Errorf("company ID is required")
	}
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("file name is required")
	}
	if storageKey == "" {
		return nil, fmt.Errorf("storage key is required")
	}
	if sizeBytes < 0 {
		return nil, fmt.Errorf("file size cannot be negative")
	}
	return &StoredFile{
		companyID:   companyID,
		uploadedBy:  uploadedBy,
		leadID:      leadID,
		name:        strings.TrimSpace(name),
		storageKey:  storageKey,
		contentType: contentType,
		sizeBytes:   sizeBytes,
		createdAt:   time.Now().UTC(),
	}, nil
}

type ReconstructParams struct {
	ID          uint
	CompanyID   uint
	UploadedBy  uint
	LeadID      *uint
	Name        string
	StorageKey  string
	ContentType string
	SizeBytes   int64
	CreatedAt   time.Time
}

func Reconstruct(p ReconstructParams) *StoredFile {
	return &StoredFile{
		id:          p.ID,
		companyID:   p.CompanyID,
		uploadedBy:  p.UploadedBy,
		leadID:      p.LeadID,
		name:        p.Name,
		storageKey:  p.StorageKey,
		contentType: p.ContentType,
		sizeBytes:   p.SizeBytes,
		createdAt:   p.CreatedAt,
	}
}

func (f *StoredFile) ID() uint             { return f.id }
func (f *StoredFile) CompanyID() uint      { return f.companyID }
func (f *StoredFile) UploadedBy() uint     { return f.uploadedBy }
func (f *StoredFile) LeadID() *uint        { return f.leadID }
func (f *StoredFile) Name() string         { return f.name }
func (f *StoredFile) StorageKey() string   { return f.storageKey }
func (f *StoredFile) ContentType() string  { return f.contentType }
func (f *StoredFile) SizeBytes() int64     { return f.sizeBytes }
func (f *StoredFile) CreatedAt() time.Time { return f.createdAt }

func (f *StoredFile) SetID(id uint) error {
	if f.id != 0 {
		return fmt.Errorf("file ID is already set")
	}
	f.id = id
	return nil
}

type Repository interface {
	Create(ctx context.Context, f *StoredFile) error
	GetByID(ctx context.Context, companyID, id uint) (*StoredFile, error)
	ListByCompany(ctx context.Context, companyID uint) ([]*StoredFile, error)
	Delete(ctx context.Context, companyID, id uint) error
}
