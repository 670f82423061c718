package service

import (
	"errors"
	"time"

	"arch-market-go/internal/model"
	"arch-market-go/internal/repository"

	"gorm.io/gorm"
)

var (
	// ErrConsultationNotFound 表示咨询预约不存在。
	ErrConsultationNotFound = errors.New("咨询预约不存在")
	// ErrInvalidStatus 表示状态取值不在合法集合内。
	ErrInvalidStatus = errors.New("非法的咨询状态")
)

// ConsultationService 接口定义了咨询预约相关的业务操作。
type ConsultationService interface {
	Book(client *model.User, architectID, serviceID uint, scheduledAt time.Time, notes string) (*model.Consultation, error)
	ListForClient(clientID uint) ([]model.Consultation, error)
	ListForArchitect(user *model.User, architectID uint) ([]model.Consultation, error)
	UpdateStatus(user *model.User, consultationID uint, status string) (*model.Consultation, error)
}

type consultationService struct {
	consultationRepo repository.ConsultationRepository
	userRepo         repository.UserRepository
}

// NewConsultationService 创建一个新的 ConsultationService 实例。
func NewConsultationService(consultationRepo repository.ConsultationRepository, userRepo repository.UserRepository) ConsultationService {
	return &consultationService{
		consultationRepo: consultationRepo,
		userRepo:         userRepo,
	}
}

// Book 由客户预约一位建筑师的咨询。
func (s *consultationService) Book(client *model.User, architectID, serviceID uint, scheduledAt time.Time, notes string) (*model.Consultation, error) {
	// 被预约方必须是建筑师
	architect, err := s.userRepo.FindByID(architectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("建筑师不存在")
		}
		return nil, err
	}
	if architect.Role != model.RoleArchitect {
		return nil, errors.New("被预约的用户不是建筑师")
	}

	consultation := &model.Consultation{
		ClientID:    client.ID,
		ArchitectID: architectID,
		ServiceID:   serviceID,
		ScheduledAt: scheduledAt,
		Status:      model.ConsultationStatusPending,
		Notes:       notes,
	}
	if err := s.consultationRepo.Create(consultation); err != nil {
		return nil, err
	}
	return consultation, nil
}

// ListForClient 返回客户自己的全部咨询预约。
func (s *consultationService) ListForClient(clientID uint) ([]model.Consultation, error) {
	return s.consultationRepo.FindByClient(clientID)
}

// ListForArchitect 返回指定建筑师的咨询预约。
// 建筑师只能查自己的，管理员可以查任何建筑师的。
func (s *consultationService) ListForArchitect(user *model.User, architectID uint) ([]model.Consultation, error) {
	if user.Role != model.RoleAdmin && user.ID != architectID {
		return nil, ErrForbidden
	}
	return s.consultationRepo.FindByArchitect(architectID)
}

// UpdateStatus 更新咨询状态。只有被预约的建筑师本人或管理员可以更新。
func (s *consultationService) UpdateStatus(user *model.User, consultationID uint, status string) (*model.Consultation, error) {
	if !model.ValidConsultationStatus(status) {
		return nil, ErrInvalidStatus
	}

	consultation, err := s.consultationRepo.FindByID(consultationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConsultationNotFound
		}
		return nil, err
	}

	if user.Role != model.RoleAdmin && consultation.ArchitectID != user.ID {
		return nil, ErrForbidden
	}

	consultation.Status = status
	if err := s.consultationRepo.Update(consultation); err != nil {
		return nil, err
	}
	return consultation, nil
}
