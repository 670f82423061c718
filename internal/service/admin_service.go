package service

import (
	"errors"

	"arch-market-go/internal/model"
	"arch-market-go/internal/repository"
)

// ErrInvalidPaymentStatus 表示支付状态取值不在合法集合内。
var ErrInvalidPaymentStatus = errors.New("非法的支付状态")

// ProjectCounts 按状态统计项目数量。
type ProjectCounts struct {
	Draft     int64 `json:"draft"`
	Active    int64 `json:"active"`
	Completed int64 `json:"completed"`
	Cancelled int64 `json:"cancelled"`
}

// PlatformReport 是管理端 KPI 报表的载体。
type PlatformReport struct {
	Clients       int64         `json:"clients"`
	Architects    int64         `json:"architects"`
	Admins        int64         `json:"admins"`
	Projects      ProjectCounts `json:"projects"`
	Consultations int64         `json:"consultations"`
}

// AdminService 接口定义了管理端的业务操作。
type AdminService interface {
	ListUsers() ([]model.User, error)
	ListServices() ([]model.ServiceOffering, error)
	SaveService(name, description string, price float64) (*model.ServiceOffering, error)
	ListPayments() ([]model.Payment, error)
	RecordPayment(projectID, clientID, architectID uint, amount float64, status string) (*model.Payment, error)
	PaymentSummary() (*model.PaymentSummary, error)
	Report() (*PlatformReport, error)
}

type adminService struct {
	userRepo         repository.UserRepository
	serviceRepo      repository.ServiceRepository
	paymentRepo      repository.PaymentRepository
	projectRepo      repository.ProjectRepository
	consultationRepo repository.ConsultationRepository
}

// NewAdminService 创建一个新的 AdminService 实例。
func NewAdminService(
	userRepo repository.UserRepository,
	serviceRepo repository.ServiceRepository,
	paymentRepo repository.PaymentRepository,
	projectRepo repository.ProjectRepository,
	consultationRepo repository.ConsultationRepository,
) AdminService {
	return &adminService{
		userRepo:         userRepo,
		serviceRepo:      serviceRepo,
		paymentRepo:      paymentRepo,
		projectRepo:      projectRepo,
		consultationRepo: consultationRepo,
	}
}

func (s *adminService) ListUsers() ([]model.User, error) {
	return s.userRepo.FindAll()
}

func (s *adminService) ListServices() ([]model.ServiceOffering, error) {
	return s.serviceRepo.FindAll()
}

// SaveService 新建一项服务。
func (s *adminService) SaveService(name, description string, price float64) (*model.ServiceOffering, error) {
	offering := &model.ServiceOffering{
		Name:        name,
		Description: description,
		Price:       price,
	}
	if err := s.serviceRepo.Create(offering); err != nil {
		return nil, err
	}
	return offering, nil
}

func (s *adminService) ListPayments() ([]model.Payment, error) {
	return s.paymentRepo.FindAll()
}

// RecordPayment 登记一笔由外部网关完成的支付结果。
// 扣款流程本身不在系统内，这里只存结果供报表与收益统计使用。
func (s *adminService) RecordPayment(projectID, clientID, architectID uint, amount float64, status string) (*model.Payment, error) {
	if !model.ValidPaymentStatus(status) {
		return nil, ErrInvalidPaymentStatus
	}
	payment := &model.Payment{
		ProjectID:   projectID,
		ClientID:    clientID,
		ArchitectID: architectID,
		Amount:      amount,
		Status:      status,
	}
	if err := s.paymentRepo.Create(payment); err != nil {
		return nil, err
	}
	return payment, nil
}

func (s *adminService) PaymentSummary() (*model.PaymentSummary, error) {
	return s.paymentRepo.Summary()
}

// Report 汇总平台 KPI：各角色用户数、各状态项目数、咨询总数。
func (s *adminService) Report() (*PlatformReport, error) {
	var report PlatformReport
	var err error

	if report.Clients, err = s.userRepo.CountByRole(model.RoleClient); err != nil {
		return nil, err
	}
	if report.Architects, err = s.userRepo.CountByRole(model.RoleArchitect); err != nil {
		return nil, err
	}
	if report.Admins, err = s.userRepo.CountByRole(model.RoleAdmin); err != nil {
		return nil, err
	}

	statuses := []struct {
		status string
		target *int64
	}{
		{model.ProjectStatusDraft, &report.Projects.Draft},
		{model.ProjectStatusActive, &report.Projects.Active},
		{model.ProjectStatusCompleted, &report.Projects.Completed},
		{model.ProjectStatusCancelled, &report.Projects.Cancelled},
	}
	for _, st := range statuses {
		if *st.target, err = s.projectRepo.CountByStatus(st.status); err != nil {
			return nil, err
		}
	}

	if report.Consultations, err = s.consultationRepo.Count(); err != nil {
		return nil, err
	}
	return &report, nil
}
