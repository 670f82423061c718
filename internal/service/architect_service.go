package service

import (
	"arch-market-go/internal/model"
	"arch-market-go/internal/repository"
)

// Earnings 是建筑师收益视图的载体。
type Earnings struct {
	Total    float64         `json:"total"`
	Payments []model.Payment `json:"payments"`
}

// ArchitectService 接口定义了建筑师工作台的业务操作。
type ArchitectService interface {
	Earnings(architectID uint) (*Earnings, error)
}

type architectService struct {
	paymentRepo repository.PaymentRepository
}

// NewArchitectService 创建一个新的 ArchitectService 实例。
func NewArchitectService(paymentRepo repository.PaymentRepository) ArchitectService {
	return &architectService{paymentRepo: paymentRepo}
}

// Earnings 返回建筑师的累计收益与相关支付记录。
// 累计收益只计入成功的支付。
func (s *architectService) Earnings(architectID uint) (*Earnings, error) {
	total, err := s.paymentRepo.SumSucceededByArchitect(architectID)
	if err != nil {
		return nil, err
	}
	payments, err := s.paymentRepo.FindByArchitect(architectID)
	if err != nil {
		return nil, err
	}
	return &Earnings{Total: total, Payments: payments}, nil
}
