package repository

import (
	"arch-market-go/internal/model"

	"gorm.io/gorm"
)

// PaymentRepository 定义了支付记录数据的操作接口。
type PaymentRepository interface {
	Create(payment *model.Payment) error
	FindAll() ([]model.Payment, error)
	FindByArchitect(architectID uint) ([]model.Payment, error)
	Summary() (*model.PaymentSummary, error)
	SumSucceededByArchitect(architectID uint) (float64, error)
}

type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository 创建一个新的 PaymentRepository 实例。
func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Create(payment *model.Payment) error {
	return r.db.Create(payment).Error
}

func (r *paymentRepository) FindAll() ([]model.Payment, error) {
	var list []model.Payment
	err := r.db.Order("created_at desc").Find(&list).Error
	return list, err
}

func (r *paymentRepository) FindByArchitect(architectID uint) ([]model.Payment, error) {
	var list []model.Payment
	err := r.db.Where("architect_id = ?", architectID).Order("created_at desc").Find(&list).Error
	return list, err
}

// Summary 汇总支付报表：总收入只统计成功的支付。
func (r *paymentRepository) Summary() (*model.PaymentSummary, error) {
	var summary model.PaymentSummary

	err := r.db.Model(&model.Payment{}).
		Where("status = ?", model.PaymentStatusSucceeded).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&summary.TotalRevenue).Error
	if err != nil {
		return nil, err
	}

	if err := r.db.Model(&model.Payment{}).
		Where("status = ?", model.PaymentStatusSucceeded).
		Count(&summary.SucceededCount).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&model.Payment{}).
		Where("status = ?", model.PaymentStatusFailed).
		Count(&summary.FailedCount).Error; err != nil {
		return nil, err
	}

	return &summary, nil
}

func (r *paymentRepository) SumSucceededByArchitect(architectID uint) (float64, error) {
	var total float64
	err := r.db.Model(&model.Payment{}).
		Where("architect_id = ? AND status = ?", architectID, model.PaymentStatusSucceeded).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return total, err
}
