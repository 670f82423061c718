package repository

import (
	"arch-market-go/internal/model"

	"gorm.io/gorm"
)

// ServiceRepository 定义了服务项目数据的操作接口。
type ServiceRepository interface {
	Create(offering *model.ServiceOffering) error
	FindByID(id uint) (*model.ServiceOffering, error)
	FindAll() ([]model.ServiceOffering, error)
	Update(offering *model.ServiceOffering) error
}

type serviceRepository struct {
	db *gorm.DB
}

// NewServiceRepository 创建一个新的 ServiceRepository 实例。
func NewServiceRepository(db *gorm.DB) ServiceRepository {
	return &serviceRepository{db: db}
}

func (r *serviceRepository) Create(offering *model.ServiceOffering) error {
	return r.db.Create(offering).Error
}

func (r *serviceRepository) FindByID(id uint) (*model.ServiceOffering, error) {
	var s model.ServiceOffering
	if err := r.db.First(&s, id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *serviceRepository) FindAll() ([]model.ServiceOffering, error) {
	var list []model.ServiceOffering
	err := r.db.Order("id asc").Find(&list).Error
	return list, err
}

func (r *serviceRepository) Update(offering *model.ServiceOffering) error {
	return r.db.Save(offering).Error
}
