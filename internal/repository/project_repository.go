package repository

import (
	"arch-market-go/internal/model"

	"gorm.io/gorm"
)

// ProjectRepository 定义了项目数据的操作接口。
type ProjectRepository interface {
	Create(project *model.Project) error
	FindByID(id uint) (*model.Project, error)
	FindByClient(clientID uint) ([]model.Project, error)
	FindByArchitect(architectID uint) ([]model.Project, error)
	FindAll() ([]model.Project, error)
	Update(project *model.Project) error
	CountByStatus(status string) (int64, error)
}

type projectRepository struct {
	db *gorm.DB
}

// NewProjectRepository 创建一个新的 ProjectRepository 实例。
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &projectRepository{db: db}
}

func (r *projectRepository) Create(project *model.Project) error {
	return r.db.Create(project).Error
}

func (r *projectRepository) FindByID(id uint) (*model.Project, error) {
	var project model.Project
	if err := r.db.First(&project, id).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *projectRepository) FindByClient(clientID uint) ([]model.Project, error) {
	var projects []model.Project
	err := r.db.Where("client_id = ?", clientID).Order("created_at desc").Find(&projects).Error
	return projects, err
}

func (r *projectRepository) FindByArchitect(architectID uint) ([]model.Project, error) {
	var projects []model.Project
	err := r.db.Where("architect_id = ?", architectID).Order("created_at desc").Find(&projects).Error
	return projects, err
}

func (r *projectRepository) FindAll() ([]model.Project, error) {
	var projects []model.Project
	err := r.db.Order("created_at desc").Find(&projects).Error
	return projects, err
}

func (r *projectRepository) Update(project *model.Project) error {
	return r.db.Save(project).Error
}

func (r *projectRepository) CountByStatus(status string) (int64, error) {
	var count int64
	err := r.db.Model(&model.Project{}).Where("status = ?", status).Count(&count).Error
	return count, err
}
