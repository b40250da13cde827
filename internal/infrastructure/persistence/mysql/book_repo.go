package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/edubook/internal/domain/book"
	apperrors "github.com/xiebiao/edubook/pkg/errors"
)

// bookRepository 图书仓储实现(MySQL)
// 设计说明:
// 1. 实现domain/book/repository.go定义的接口
// 2. 负责domain实体与GORM模型之间的转换
// 3. 库存的预占/释放/履约全部是单条条件UPDATE,依赖MySQL行锁保证原子性
type bookRepository struct {
	db *gorm.DB
}

// NewBookRepository 创建图书仓储
func NewBookRepository(db *gorm.DB) book.Repository {
	return &bookRepository{db: db}
}

// Create 创建图书
func (r *bookRepository) Create(ctx context.Context, b *book.Book) error {
	model := &BookModel{
		Name:           b.Name,
		Author:         b.Author,
		Price:          b.Price,
		AvailableStock: b.AvailableStock,
		ReservedStock:  b.ReservedStock,
		ImageURL:       b.ImageURL,
		Notes:          b.Notes,
	}

	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		return apperrors.Wrap(err, "创建图书失败")
	}

	b.ID = model.ID
	b.CreatedAt = model.CreatedAt
	b.UpdatedAt = model.UpdatedAt
	return nil
}

// FindByID 根据ID查找图书
func (r *bookRepository) FindByID(ctx context.Context, id uint) (*book.Book, error) {
	var model BookModel
	err := getDB(ctx, r.db).First(&model, id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, book.ErrBookNotFound
		}
		return nil, apperrors.Wrap(err, "查询图书失败")
	}

	return toBookEntity(&model), nil
}

// Update 更新图书信息
// 注意:库存计数器不走Save,避免覆盖并发中的预占;
// 管理端改库存用明确的available_stock赋值
func (r *bookRepository) Update(ctx context.Context, b *book.Book) error {
	result := getDB(ctx, r.db).Model(&BookModel{}).Where("id = ?", b.ID).Updates(map[string]interface{}{
		"name":            b.Name,
		"author":          b.Author,
		"price":           b.Price,
		"available_stock": b.AvailableStock,
		"image_url":       b.ImageURL,
		"notes":           b.Notes,
		"updated_at":      b.UpdatedAt,
	})

	if result.Error != nil {
		return apperrors.Wrap(result.Error, "更新图书失败")
	}
	if result.RowsAffected == 0 {
		return book.ErrBookNotFound
	}
	return nil
}

// Delete 删除图书(软删除)
func (r *bookRepository) Delete(ctx context.Context, id uint) error {
	result := getDB(ctx, r.db).Delete(&BookModel{}, id)

	if result.Error != nil {
		return apperrors.Wrap(result.Error, "删除图书失败")
	}
	if result.RowsAffected == 0 {
		return book.ErrBookNotFound
	}
	return nil
}

// List 分页查询图书列表
func (r *bookRepository) List(ctx context.Context, params book.ListParams) ([]*book.Book, int64, error) {
	var models []BookModel
	var total int64

	query := getDB(ctx, r.db).Model(&BookModel{})

	if params.Keyword != "" {
		keyword := "%" + params.Keyword + "%"
		query = query.Where("name LIKE ? OR author LIKE ?", keyword, keyword)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询图书总数失败")
	}

	offset := (params.Page - 1) * params.PageSize
	err := query.Order("created_at DESC").
		Limit(params.PageSize).
		Offset(offset).
		Find(&models).Error
	if err != nil {
		return nil, 0, apperrors.Wrap(err, "查询图书列表失败")
	}

	books := make([]*book.Book, len(models))
	for i := range models {
		books[i] = toBookEntity(&models[i])
	}
	return books, total, nil
}

// Reserve 预占库存(原子操作)
// UPDATE books SET reserved_stock = reserved_stock + q
// WHERE id = ? AND available_stock - reserved_stock >= q
// 并发下单同一本书时,条件在行锁内复核,只有余量足够的一方能命中,
// 另一方RowsAffected=0,返回库存不足——这就是下单竞态的闭环。
func (r *bookRepository) Reserve(ctx context.Context, id uint, quantity int) error {
	if quantity <= 0 {
		return book.ErrInvalidQuantity
	}

	result := getDB(ctx, r.db).Model(&BookModel{}).
		Where("id = ?", id).
		Where("available_stock - reserved_stock >= ?", quantity).
		Update("reserved_stock", gorm.Expr("reserved_stock + ?", quantity))

	if result.Error != nil {
		return apperrors.Wrap(result.Error, "预占库存失败")
	}

	if result.RowsAffected == 0 {
		// 可能是图书不存在,或者余量不足,再查一次区分
		var model BookModel
		if err := getDB(ctx, r.db).First(&model, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return book.ErrBookNotFound
			}
			return apperrors.Wrap(err, "查询图书失败")
		}
		return book.ErrInsufficientStock
	}

	return nil
}

// ReleaseReservation 释放预占(原子操作,GREATEST防止减至负数)
func (r *bookRepository) ReleaseReservation(ctx context.Context, id uint, quantity int) error {
	if quantity <= 0 {
		return book.ErrInvalidQuantity
	}

	result := getDB(ctx, r.db).Model(&BookModel{}).
		Where("id = ?", id).
		Update("reserved_stock", gorm.Expr("GREATEST(reserved_stock - ?, 0)", quantity))

	if result.Error != nil {
		return apperrors.Wrap(result.Error, "释放预占失败")
	}
	if result.RowsAffected == 0 {
		return book.ErrBookNotFound
	}
	return nil
}

// CommitFulfillment 履约扣减(原子操作)
// 支付成功回调时调用:在架库存和预占数量同步扣减,
// 两个计数器都用GREATEST夹底,保证永不为负。
func (r *bookRepository) CommitFulfillment(ctx context.Context, id uint, quantity int) error {
	if quantity <= 0 {
		return book.ErrInvalidQuantity
	}

	result := getDB(ctx, r.db).Model(&BookModel{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"available_stock": gorm.Expr("GREATEST(available_stock - ?, 0)", quantity),
			"reserved_stock":  gorm.Expr("GREATEST(reserved_stock - ?, 0)", quantity),
		})

	if result.Error != nil {
		return apperrors.Wrap(result.Error, "履约扣减失败")
	}
	if result.RowsAffected == 0 {
		return book.ErrBookNotFound
	}
	return nil
}

// toBookEntity GORM模型 → 领域实体
func toBookEntity(model *BookModel) *book.Book {
	return &book.Book{
		ID:             model.ID,
		Name:           model.Name,
		Author:         model.Author,
		Price:          model.Price,
		AvailableStock: model.AvailableStock,
		ReservedStock:  model.ReservedStock,
		ImageURL:       model.ImageURL,
		Notes:          model.Notes,
		CreatedAt:      model.CreatedAt,
		UpdatedAt:      model.UpdatedAt,
	}
}
