package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"arch-market-go/internal/model"
)

// Projects 返回当前用户可见的项目列表。
func (c *Client) Projects(ctx context.Context, token string) ([]model.Project, error) {
	var projects []model.Project
	if err := c.do(ctx, http.MethodGet, "/projects", token, nil, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// CreateProject 由客户创建一个新项目。
func (c *Client) CreateProject(ctx context.Context, token, title, description string, architectID uint) (*model.Project, error) {
	var project model.Project
	body := map[string]interface{}{
		"title":       title,
		"description": description,
		"architectId": architectID,
	}
	if err := c.do(ctx, http.MethodPost, "/projects", token, body, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

// MyConsultations 返回当前客户的咨询预约。
func (c *Client) MyConsultations(ctx context.Context, token string) ([]model.Consultation, error) {
	var list []model.Consultation
	if err := c.do(ctx, http.MethodGet, "/consultations/client", token, nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// BookConsultation 由客户预约一次咨询。
func (c *Client) BookConsultation(ctx context.Context, token string, architectID, serviceID uint, scheduledAt time.Time, notes string) (*model.Consultation, error) {
	var consultation model.Consultation
	body := map[string]interface{}{
		"architectId": architectID,
		"serviceId":   serviceID,
		"scheduledAt": scheduledAt,
		"notes":       notes,
	}
	if err := c.do(ctx, http.MethodPost, "/consultations/client/book", token, body, &consultation); err != nil {
		return nil, err
	}
	return &consultation, nil
}

// ArchitectConsultations 返回指定建筑师的咨询预约。
func (c *Client) ArchitectConsultations(ctx context.Context, token string, architectID uint) ([]model.Consultation, error) {
	var list []model.Consultation
	path := "/consultations/architect/" + strconv.FormatUint(uint64(architectID), 10)
	if err := c.do(ctx, http.MethodGet, path, token, nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}
