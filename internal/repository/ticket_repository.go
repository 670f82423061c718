package repository

import (
	"arch-market-go/internal/model"

	"gorm.io/gorm"
)

// TicketRepository 定义了支持工单数据的操作接口。
type TicketRepository interface {
	Create(ticket *model.Ticket) error
	FindByID(id uint) (*model.Ticket, error)
	FindAll() ([]model.Ticket, error)
	Update(ticket *model.Ticket) error
}

type ticketRepository struct {
	db *gorm.DB
}

// NewTicketRepository 创建一个新的 TicketRepository 实例。
func NewTicketRepository(db *gorm.DB) TicketRepository {
	return &ticketRepository{db: db}
}

func (r *ticketRepository) Create(ticket *model.Ticket) error {
	return r.db.Create(ticket).Error
}

func (r *ticketRepository) FindByID(id uint) (*model.Ticket, error) {
	var ticket model.Ticket
	if err := r.db.First(&ticket, id).Error; err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepository) FindAll() ([]model.Ticket, error) {
	var list []model.Ticket
	err := r.db.Order("created_at desc").Find(&list).Error
	return list, err
}

func (r *ticketRepository) Update(ticket *model.Ticket) error {
	return r.db.Save(ticket).Error
}
