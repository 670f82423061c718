package repository

import (
	"arch-market-go/internal/model"

	"gorm.io/gorm"
)

// ConsultationRepository 定义了咨询预约数据的操作接口。
type ConsultationRepository interface {
	Create(consultation *model.Consultation) error
	FindByID(id uint) (*model.Consultation, error)
	FindByClient(clientID uint) ([]model.Consultation, error)
	FindByArchitect(architectID uint) ([]model.Consultation, error)
	Update(consultation *model.Consultation) error
	Count() (int64, error)
}

type consultationRepository struct {
	db *gorm.DB
}

// NewConsultationRepository 创建一个新的 ConsultationRepository 实例。
func NewConsultationRepository(db *gorm.DB) ConsultationRepository {
	return &consultationRepository{db: db}
}

func (r *consultationRepository) Create(consultation *model.Consultation) error {
	return r.db.Create(consultation).Error
}

func (r *consultationRepository) FindByID(id uint) (*model.Consultation, error) {
	var c model.Consultation
	if err := r.db.First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *consultationRepository) FindByClient(clientID uint) ([]model.Consultation, error) {
	var list []model.Consultation
	err := r.db.Where("client_id = ?", clientID).Order("scheduled_at desc").Find(&list).Error
	return list, err
}

func (r *consultationRepository) FindByArchitect(architectID uint) ([]model.Consultation, error) {
	var list []model.Consultation
	err := r.db.Where("architect_id = ?", architectID).Order("scheduled_at desc").Find(&list).Error
	return list, err
}

func (r *consultationRepository) Update(consultation *model.Consultation) error {
	return r.db.Save(consultation).Error
}

func (r *consultationRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&model.Consultation{}).Count(&count).Error
	return count, err
}
