package book

import (
	"time"
)

// Book 图书实体(聚合根)
// DDD设计说明:
// 1. Book是图书聚合的根实体,包含图书的核心属性
// 2. 价格使用int64存储"分"为单位(避免浮点数精度问题)
// 3. 库存拆成两个计数器:
//    - AvailableStock: 在架库存,只在订单完成(支付成功回调)时扣减
//    - ReservedStock: 已预占但未支付的数量,下单时原子增加,支付成功/会话过期时释放
//    可售余量 = AvailableStock - ReservedStock,预占时用单条条件UPDATE保证不超卖
type Book struct {
	ID             uint
	Name           string // 书名
	Author         string // 作者
	Price          int64  // 价格(单位:分,1元=100分)
	AvailableStock int    // 在架库存
	ReservedStock  int    // 已预占数量
	ImageURL       string // 封面图片URL(图床返回的安全链接)
	Notes          string // 备注
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewBook 创建新图书(工厂方法)
// 参数需调用方先校验:name/author非空,price>0,stock>=0
func NewBook(name, author string, price int64, stock int, imageURL, notes string) *Book {
	now := time.Now()
	return &Book{
		Name:           name,
		Author:         author,
		Price:          price,
		AvailableStock: stock,
		ReservedStock:  0,
		ImageURL:       imageURL,
		Notes:          notes,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// SellableStock 当前可售余量
func (b *Book) SellableStock() int {
	return b.AvailableStock - b.ReservedStock
}

// Validate 校验图书基本属性
func (b *Book) Validate() error {
	if b.Name == "" || b.Author == "" {
		return ErrMissingFields
	}
	if b.Price <= 0 {
		return ErrInvalidPrice
	}
	if b.AvailableStock < 0 {
		return ErrInvalidStock
	}
	return nil
}

// UpdateInfo 更新图书基本信息(空值表示不修改)
func (b *Book) UpdateInfo(name, author, notes string, price int64, stock int) error {
	if name != "" {
		b.Name = name
	}
	if author != "" {
		b.Author = author
	}
	if notes != "" {
		b.Notes = notes
	}
	if price > 0 {
		b.Price = price
	}
	if stock >= 0 {
		b.AvailableStock = stock
	}
	b.UpdatedAt = time.Now()
	return b.Validate()
}
