package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/edubook/internal/domain/learning"
	apperrors "github.com/xiebiao/edubook/pkg/errors"
)

// certificateRepository 证书申请仓储实现(MySQL)
type certificateRepository struct {
	db *gorm.DB
}

// NewCertificateRepository 创建证书申请仓储
func NewCertificateRepository(db *gorm.DB) learning.CertificateRepository {
	return &certificateRepository{db: db}
}

// Create 创建证书申请
func (r *certificateRepository) Create(ctx context.Context, c *learning.CertificateRequest) error {
	model := toCertificateModel(c)

	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		return apperrors.Wrap(err, "创建证书申请失败")
	}

	c.ID = model.ID
	return nil
}

// FindByRequestID 根据业务标识查找证书申请
func (r *certificateRepository) FindByRequestID(ctx context.Context, requestID string) (*learning.CertificateRequest, error) {
	var model CertificateModel
	err := getDB(ctx, r.db).Where("request_id = ?", requestID).First(&model).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, learning.ErrCertificateNotFound
		}
		return nil, apperrors.Wrap(err, "查询证书申请失败")
	}

	return toCertificateEntity(&model), nil
}

// ListAll 查询全部证书申请,按提交时间倒序
func (r *certificateRepository) ListAll(ctx context.Context) ([]*learning.CertificateRequest, error) {
	var models []CertificateModel
	err := getDB(ctx, r.db).Order("submission_date DESC").Find(&models).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询证书申请列表失败")
	}

	requests := make([]*learning.CertificateRequest, len(models))
	for i := range models {
		requests[i] = toCertificateEntity(&models[i])
	}
	return requests, nil
}

// Update 更新证书申请(签发状态切换)
func (r *certificateRepository) Update(ctx context.Context, c *learning.CertificateRequest) error {
	result := getDB(ctx, r.db).Model(&CertificateModel{}).Where("id = ?", c.ID).Updates(map[string]interface{}{
		"certificate_issued": c.CertificateIssued,
		"updated_at":         c.UpdatedAt,
	})

	if result.Error != nil {
		return apperrors.Wrap(result.Error, "更新证书申请失败")
	}
	if result.RowsAffected == 0 {
		return learning.ErrCertificateNotFound
	}
	return nil
}

// Delete 删除证书申请
func (r *certificateRepository) Delete(ctx context.Context, requestID string) error {
	result := getDB(ctx, r.db).Where("request_id = ?", requestID).Delete(&CertificateModel{})

	if result.Error != nil {
		return apperrors.Wrap(result.Error, "删除证书申请失败")
	}
	if result.RowsAffected == 0 {
		return learning.ErrCertificateNotFound
	}
	return nil
}

// toCertificateModel 领域实体 → GORM模型
func toCertificateModel(c *learning.CertificateRequest) *CertificateModel {
	return &CertificateModel{
		ID:                c.ID,
		RequestID:         c.RequestID,
		UserID:            c.UserID,
		CourseID:          c.CourseID,
		StudentName:       c.StudentName,
		StartDate:         c.StartDate,
		EndDate:           c.EndDate,
		SubmissionDate:    c.SubmissionDate,
		Progress:          c.Progress,
		CertificateIssued: c.CertificateIssued,
		CreatedAt:         c.CreatedAt,
		UpdatedAt:         c.UpdatedAt,
	}
}

// toCertificateEntity GORM模型 → 领域实体
func toCertificateEntity(model *CertificateModel) *learning.CertificateRequest {
	return &learning.CertificateRequest{
		ID:                model.ID,
		RequestID:         model.RequestID,
		UserID:            model.UserID,
		CourseID:          model.CourseID,
		StudentName:       model.StudentName,
		StartDate:         model.StartDate,
		EndDate:           model.EndDate,
		SubmissionDate:    model.SubmissionDate,
		Progress:          model.Progress,
		CertificateIssued: model.CertificateIssued,
		CreatedAt:         model.CreatedAt,
		UpdatedAt:         model.UpdatedAt,
	}
}
