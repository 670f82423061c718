package service

import (
	"errors"

	"arch-market-go/internal/model"
	"arch-market-go/internal/repository"

	"gorm.io/gorm"
)

// ProjectService 接口定义了项目相关的业务操作。
type ProjectService interface {
	Create(client *model.User, title, description string, architectID uint) (*model.Project, error)
	Get(user *model.User, projectID uint) (*model.Project, error)
	ListFor(user *model.User) ([]model.Project, error)
}

type projectService struct {
	projectRepo repository.ProjectRepository
}

// NewProjectService 创建一个新的 ProjectService 实例。
func NewProjectService(projectRepo repository.ProjectRepository) ProjectService {
	return &projectService{projectRepo: projectRepo}
}

// Create 由客户创建项目。建筑师可以在创建时指定，也可以留空待后续指派。
func (s *projectService) Create(client *model.User, title, description string, architectID uint) (*model.Project, error) {
	project := &model.Project{
		Title:       title,
		Description: description,
		Status:      model.ProjectStatusDraft,
		ClientID:    client.ID,
		ArchitectID: architectID,
	}
	if err := s.projectRepo.Create(project); err != nil {
		return nil, err
	}
	return project, nil
}

// Get 返回单个项目，访问权限与项目会话一致：参与双方或管理员。
func (s *projectService) Get(user *model.User, projectID uint) (*model.Project, error) {
	project, err := s.projectRepo.FindByID(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	if user.Role != model.RoleAdmin && !project.IsParticipant(user.ID) {
		return nil, ErrForbidden
	}
	return project, nil
}

// ListFor 按角色过滤返回项目列表：客户看自己发起的，
// 建筑师看自己承接的，管理员看全部。
func (s *projectService) ListFor(user *model.User) ([]model.Project, error) {
	switch user.Role {
	case model.RoleClient:
		return s.projectRepo.FindByClient(user.ID)
	case model.RoleArchitect:
		return s.projectRepo.FindByArchitect(user.ID)
	case model.RoleAdmin:
		return s.projectRepo.FindAll()
	}
	return nil, ErrForbidden
}
