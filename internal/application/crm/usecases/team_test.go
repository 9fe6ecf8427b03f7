package usecases

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/domain/user"
	apperrors "github.com/csiqueira956/cflow-gestor-backend-sub002/internal/shared/errors"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/shared/logger"
)

func TestCreateUser(t *testing.T) {
	users := &mockUserRepository{}
	inv := &mockInvalidator{}
	uc := NewCreateUserUseCase(users, mockHasher{}, NewCapacityGuard(allowAll(), inv, logger.NewNopLogger()), logger.NewNopLogger())

	result, err := uc.Execute(context.Background(), CreateUserCommand{
		CompanyID: 5,
		Name:      "Rafa",
		Email:     "rafa@example.com",
		Password:  "senha-segura",
	})

	require.NoError(t, err)
	assert.Equal(t, "seller", result.Role)
	require.Len(t, users.users, 1)
	assert.Equal(t, "hashed:senha-segura", users.users[0].PasswordHash())
	assert.Equal(t, []uint{5}, inv.ids)
}

func TestCreateUser_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		users   *mockUserRepository
		checker *mockLimitChecker
		cmd     CreateUserCommand
		wantErr apperrors.ErrorType
	}{
		{
			name:    "seat ceiling reached",
			users:   &mockUserRepository{},
			checker: denyAll(3, 3),
			cmd:     CreateUserCommand{CompanyID: 5, Name: "Rafa", Email: "rafa@example.com", Password: "senha-segura"},
			wantErr: apperrors.ErrorTypeLimitReached,
		},
		{
			name:    "duplicate email",
			users:   &mockUserRepository{emailUsed: true},
			checker: allowAll(),
			cmd:     CreateUserCommand{CompanyID: 5, Name: "Rafa", Email: "rafa@example.com", Password: "senha-segura"},
			wantErr: apperrors.ErrorTypeConflict,
		},
		{
			name:    "invalid role",
			users:   &mockUserRepository{},
			checker: allowAll(),
			cmd:     CreateUserCommand{CompanyID: 5, Name: "Rafa", Email: "rafa@example.com", Password: "senha-segura", Role: "owner"},
			wantErr: apperrors.ErrorTypeValidation,
		},
		{
			name:    "short password",
			users:   &mockUserRepository{},
			checker: allowAll(),
			cmd:     CreateUserCommand{CompanyID: 5, Name: "Rafa", Email: "rafa@example.com", Password: "curta"},
			wantErr: apperrors.ErrorTypeValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := NewCreateUserUseCase(tt.users, mockHasher{}, NewCapacityGuard(tt.checker, &mockInvalidator{}, logger.NewNopLogger()), logger.NewNopLogger())

			_, err := uc.Execute(context.Background(), tt.cmd)

			appErr := apperrors.GetAppError(err)
			require.NotNil(t, appErr, "unexpected error: %v", err)
			assert.Equal(t, tt.wantErr, appErr.Type)
			assert.Empty(t, tt.users.users)
		})
	}
}

func TestDeactivateUser(t *testing.T) {
	seller, err := user.NewUser(5, "Rafa", "rafa@example.com", "hash", user.RoleSeller)
	require.NoError(t, err)
	users := &mockUserRepository{}
	require.NoError(t, users.Create(context.Background(), seller))
	inv := &mockInvalidator{}
	uc := NewDeactivateUserUseCase(users, inv, logger.NewNopLogger())

	assert.True(t, apperrors.IsValidationError(uc.Execute(context.Background(), 5, seller.ID(), seller.ID())))

	require.NoError(t, uc.Execute(context.Background(), 5, 99, seller.ID()))
	assert.False(t, seller.IsActive())
	assert.Equal(t, []uint{5}, inv.ids)

	assert.True(t, apperrors.IsNotFoundError(uc.Execute(context.Background(), 6, 99, seller.ID())))
}

func TestUploadFile(t *testing.T) {
	files := &mockFileRepository{}
	storage := newMemoryStorage()
	inv := &mockInvalidator{}
	uc := NewUploadFileUseCase(files, storage, NewCapacityGuard(allowAll(), inv, logger.NewNopLogger()), 1024, logger.NewNopLogger())

	body := "contrato assinado"
	result, err := uc.Execute(context.Background(), UploadFileCommand{
		CompanyID:   5,
		UserID:      1,
		FileName:    `C:\docs\Contrato.PDF`,
		ContentType: "application/pdf",
		Size:        int64(len(body)),
		Body:        strings.NewReader(body),
	})

	require.NoError(t, err)
	assert.Equal(t, "Contrato.PDF", result.Name)
	require.Len(t, files.files, 1)
	key := files.files[0].StorageKey()
	assert.True(t, strings.HasPrefix(key, "companies/5/"))
	assert.True(t, strings.HasSuffix(key, ".pdf"))
	assert.Equal(t, []byte(body), storage.objects[key])
	assert.Equal(t, "/files/"+key, result.URL)
	assert.Equal(t, []uint{5}, inv.ids)
}

func TestUploadFile_Rejections(t *testing.T) {
	t.Run("too large", func(t *testing.T) {
		uc := NewUploadFileUseCase(&mockFileRepository{}, newMemoryStorage(), NewCapacityGuard(allowAll(), &mockInvalidator{}, logger.NewNopLogger()), 4, logger.NewNopLogger())
		_, err := uc.Execute(context.Background(), UploadFileCommand{CompanyID: 5, FileName: "a.txt", Size: 5, Body: bytes.NewReader([]byte("12345"))})
		assert.True(t, apperrors.IsValidationError(err))
	})

	t.Run("storage ceiling reached", func(t *testing.T) {
		storage := newMemoryStorage()
		uc := NewUploadFileUseCase(&mockFileRepository{}, storage, NewCapacityGuard(denyAll(1, 1), &mockInvalidator{}, logger.NewNopLogger()), 0, logger.NewNopLogger())
		_, err := uc.Execute(context.Background(), UploadFileCommand{CompanyID: 5, FileName: "a.txt", Size: 3, Body: strings.NewReader("abc")})
		assert.Equal(t, apperrors.ErrorTypeLimitReached, apperrors.GetAppError(err).Type)
		assert.Empty(t, storage.objects)
	})

	t.Run("record failure removes stored object", func(t *testing.T) {
		storage := newMemoryStorage()
		files := &mockFileRepository{CreateErr: errors.New("disk full")}
		inv := &mockInvalidator{}
		uc := NewUploadFileUseCase(files, storage, NewCapacityGuard(allowAll(), inv, logger.NewNopLogger()), 0, logger.NewNopLogger())
		_, err := uc.Execute(context.Background(), UploadFileCommand{CompanyID: 5, FileName: "a.txt", Size: 3, Body: strings.NewReader("abc")})
		require.Error(t, err)
		assert.Empty(t, storage.objects)
		assert.Equal(t, 0, inv.count())
	})
}
