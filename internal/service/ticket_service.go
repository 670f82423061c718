package service

import (
	"errors"

	"arch-market-go/internal/model"
	"arch-market-go/internal/repository"

	"gorm.io/gorm"
)

var (
	// ErrTicketNotFound 表示工单不存在。
	ErrTicketNotFound = errors.New("工单不存在")
	// ErrInvalidTicketStatus 表示工单状态取值不在合法集合内。
	ErrInvalidTicketStatus = errors.New("非法的工单状态")
)

// TicketService 接口定义了支持工单相关的业务操作。
type TicketService interface {
	Create(user *model.User, subject, message string) (*model.Ticket, error)
	ListAll() ([]model.Ticket, error)
	UpdateStatus(ticketID uint, status string) (*model.Ticket, error)
}

type ticketService struct {
	ticketRepo repository.TicketRepository
}

// NewTicketService 创建一个新的 TicketService 实例。
func NewTicketService(ticketRepo repository.TicketRepository) TicketService {
	return &ticketService{ticketRepo: ticketRepo}
}

// Create 由任意已登录用户提交一条工单，初始状态为 open。
func (s *ticketService) Create(user *model.User, subject, message string) (*model.Ticket, error) {
	ticket := &model.Ticket{
		UserID:   user.ID,
		FromUser: user.FullName,
		Subject:  subject,
		Message:  message,
		Status:   model.TicketStatusOpen,
	}
	if err := s.ticketRepo.Create(ticket); err != nil {
		return nil, err
	}
	return ticket, nil
}

// ListAll 返回全部工单，管理端列表使用。
func (s *ticketService) ListAll() ([]model.Ticket, error) {
	return s.ticketRepo.FindAll()
}

// UpdateStatus 更新工单状态，路由层保证调用者是管理员。
func (s *ticketService) UpdateStatus(ticketID uint, status string) (*model.Ticket, error) {
	if !model.ValidTicketStatus(status) {
		return nil, ErrInvalidTicketStatus
	}

	ticket, err := s.ticketRepo.FindByID(ticketID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTicketNotFound
		}
		return nil, err
	}

	ticket.Status = status
	if err := s.ticketRepo.Update(ticket); err != nil {
		return nil, err
	}
	return ticket, nil
}
