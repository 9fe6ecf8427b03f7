package handlers

import (
	"context"

	companyUsecases "github.com/csiqueira956/cflow-gestor-backend-sub002/internal/application/company/usecases"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/application/crm/dto"
	crmUsecases "github.com/csiqueira956/cflow-gestor-backend-sub002/internal/application/crm/usecases"
	subdto "github.com/csiqueira956/cflow-gestor-backend-sub002/internal/application/subscription/dto"
	subUsecases "github.com/csiqueira956/cflow-gestor-backend-sub002/internal/application/subscription/usecases"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/domain/subscription"
)

// =====================================================================
// Subscription
// =====================================================================

type mockResolveStatusUC struct {
	result *subscription.StatusSnapshot
	err    error
	gotID  uint
}

func (m *mockResolveStatusUC) Execute(ctx context.Context, companyID uint) (*subscription.StatusSnapshot, error) {
	m.gotID = companyID
	return m.result, m.err
}

type mockGetSubscriptionUC struct {
	result *subdto.SubscriptionDTO
	err    error
}

func (m *mockGetSubscriptionUC) Execute(ctx context.Context, companyID uint) (*subdto.SubscriptionDTO, error) {
	return m.result, m.err
}

type mockChangePlanUC struct {
	result *subdto.SubscriptionDTO
	err    error
	got    subUsecases.ChangePlanCommand
}

func (m *mockChangePlanUC) Execute(ctx context.Context, cmd subUsecases.ChangePlanCommand) (*subdto.SubscriptionDTO, error) {
	m.got = cmd
	return m.result, m.err
}

type mockCancelSubscriptionUC struct {
	result *subdto.SubscriptionDTO
	err    error
	got    subUsecases.CancelSubscriptionCommand
}

func (m *mockCancelSubscriptionUC) Execute(ctx context.Context, cmd subUsecases.CancelSubscriptionCommand) (*subdto.SubscriptionDTO, error) {
	m.got = cmd
	return m.result, m.err
}

type mockProcessPaymentEventUC struct {
	result *subUsecases.PaymentEventResult
	err    error
	got    subUsecases.PaymentEventCommand
}

func (m *mockProcessPaymentEventUC) Execute(ctx context.Context, cmd subUsecases.PaymentEventCommand) (*subUsecases.PaymentEventResult, error) {
	m.got = cmd
	return m.result, m.err
}

// =====================================================================
// Plans
// =====================================================================

type mockCreatePlanUC struct {
	result *subdto.PlanDTO
	err    error
	got    subUsecases.CreatePlanCommand
}

func (m *mockCreatePlanUC) Execute(ctx context.Context, cmd subUsecases.CreatePlanCommand) (*subdto.PlanDTO, error) {
	m.got = cmd
	return m.result, m.err
}

type mockUpdatePlanUC struct {
	result *subdto.PlanDTO
	err    error
	got    subUsecases.UpdatePlanCommand
}

func (m *mockUpdatePlanUC) Execute(ctx context.Context, cmd subUsecases.UpdatePlanCommand) (*subdto.PlanDTO, error) {
	m.got = cmd
	return m.result, m.err
}

type mockDeletePlanUC struct {
	err error
}

func (m *mockDeletePlanUC) Execute(ctx context.Context, planID uint) error {
	return m.err
}

type mockGetPlanUC struct {
	result *subdto.PlanDTO
	err    error
}

func (m *mockGetPlanUC) Execute(ctx context.Context, planID uint) (*subdto.PlanDTO, error) {
	return m.result, m.err
}

type mockListPlansUC struct {
	result []*subdto.PlanDTO
	err    error
	got    subUsecases.ListPlansQuery
}

func (m *mockListPlansUC) Execute(ctx context.Context, query subUsecases.ListPlansQuery) ([]*subdto.PlanDTO, error) {
	m.got = query
	return m.result, m.err
}

// =====================================================================
// Auth
// =====================================================================

type mockRegisterCompanyUC struct {
	result *companyUsecases.RegisterCompanyResult
	err    error
	got    companyUsecases.RegisterCompanyCommand
}

func (m *mockRegisterCompanyUC) Execute(ctx context.Context, cmd companyUsecases.RegisterCompanyCommand) (*companyUsecases.RegisterCompanyResult, error) {
	m.got = cmd
	return m.result, m.err
}

type mockLoginUC struct {
	result *companyUsecases.LoginResult
	err    error
}

func (m *mockLoginUC) Execute(ctx context.Context, cmd companyUsecases.LoginCommand) (*companyUsecases.LoginResult, error) {
	return m.result, m.err
}

// =====================================================================
// CRM
// =====================================================================

type mockCreateLeadUC struct {
	result *dto.LeadDTO
	err    error
	got    crmUsecases.CreateLeadCommand
}

func (m *mockCreateLeadUC) Execute(ctx context.Context, cmd crmUsecases.CreateLeadCommand) (*dto.LeadDTO, error) {
	m.got = cmd
	return m.result, m.err
}

type mockListLeadsUC struct {
	result *dto.BoardDTO
	err    error
	got    crmUsecases.ListLeadsQuery
}

func (m *mockListLeadsUC) Execute(ctx context.Context, query crmUsecases.ListLeadsQuery) (*dto.BoardDTO, error) {
	m.got = query
	return m.result, m.err
}

type mockMoveLeadUC struct {
	result *dto.LeadDTO
	err    error
	got    crmUsecases.MoveLeadCommand
}

func (m *mockMoveLeadUC) Execute(ctx context.Context, cmd crmUsecases.MoveLeadCommand) (*dto.LeadDTO, error) {
	m.got = cmd
	return m.result, m.err
}

type mockDeleteLeadUC struct {
	err                 error
	gotCompany, gotLead uint
}

func (m *mockDeleteLeadUC) Execute(ctx context.Context, companyID, leadID uint) error {
	m.gotCompany, m.gotLead = companyID, leadID
	return m.err
}

type mockCreateUserUC struct {
	result *dto.UserDTO
	err    error
	got    crmUsecases.CreateUserCommand
}

func (m *mockCreateUserUC) Execute(ctx context.Context, cmd crmUsecases.CreateUserCommand) (*dto.UserDTO, error) {
	m.got = cmd
	return m.result, m.err
}

type mockListUsersUC struct {
	result []*dto.UserDTO
	err    error
}

func (m *mockListUsersUC) Execute(ctx context.Context, companyID uint) ([]*dto.UserDTO, error) {
	return m.result, m.err
}

type mockDeactivateUserUC struct {
	err error
}

func (m *mockDeactivateUserUC) Execute(ctx context.Context, companyID, actorID, userID uint) error {
	return m.err
}

type mockUploadFileUC struct {
	result  *dto.FileDTO
	err     error
	got     crmUsecases.UploadFileCommand
	gotBody []byte
}

func (m *mockUploadFileUC) Execute(ctx context.Context, cmd crmUsecases.UploadFileCommand) (*dto.FileDTO, error) {
	m.got = cmd
	buf := make([]byte, cmd.Size)
	n, _ := cmd.Body.Read(buf)
	m.gotBody = buf[:n]
	return m.result, m.err
}

type mockListFilesUC struct {
	result []*dto.FileDTO
	err    error
}

func (m *mockListFilesUC) Execute(ctx context.Context, companyID uint) ([]*dto.FileDTO, error) {
	return m.result, m.err
}

type mockDeleteFileUC struct {
	err error
}

func (m *mockDeleteFileUC) Execute(ctx context.Context, companyID, fileID uint) error {
	return m.err
}

type mockCapturePublicLeadUC struct {
	result *crmUsecases.CapturePublicLeadResult
	err    error
	got    crmUsecases.CapturePublicLeadCommand
}

func (m *mockCapturePublicLeadUC) Execute(ctx context.Context, cmd crmUsecases.CapturePublicLeadCommand) (*crmUsecases.CapturePublicLeadResult, error) {
	m.got = cmd
	return m.result, m.err
}
