package book

import (
	"testing"
)

// TestNewBook 测试图书工厂方法
func TestNewBook(t *testing.T) {
	b := NewBook("Go程序设计语言", "Alan Donovan", 7900, 10, "https://img.example.com/gopl.jpg", "")

	if b.AvailableStock != 10 {
		t.Errorf("期望在架库存10,实际%d", b.AvailableStock)
	}
	if b.ReservedStock != 0 {
		t.Errorf("新图书预占数量应为0,实际%d", b.ReservedStock)
	}
	if b.SellableStock() != 10 {
		t.Errorf("期望可售余量10,实际%d", b.SellableStock())
	}
}

// TestBook_SellableStock 测试可售余量计算
func TestBook_SellableStock(t *testing.T) {
	b := &Book{AvailableStock: 5, ReservedStock: 3}
	if b.SellableStock() != 2 {
		t.Errorf("期望可售余量2,实际%d", b.SellableStock())
	}

	// 全部被预占时余量为0
	b.ReservedStock = 5
	if b.SellableStock() != 0 {
		t.Errorf("期望可售余量0,实际%d", b.SellableStock())
	}
}

// TestBook_Validate 测试图书属性校验
func TestBook_Validate(t *testing.T) {
	tests := []struct {
		name    string
		book    *Book
		wantErr error
	}{
		{"正常图书", &Book{Name: "书名", Author: "作者", Price: 100, AvailableStock: 1}, nil},
		{"缺少书名", &Book{Author: "作者", Price: 100}, ErrMissingFields},
		{"缺少作者", &Book{Name: "书名", Price: 100}, ErrMissingFields},
		{"价格为0", &Book{Name: "书名", Author: "作者", Price: 0}, ErrInvalidPrice},
		{"负库存", &Book{Name: "书名", Author: "作者", Price: 100, AvailableStock: -1}, ErrInvalidStock},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.book.Validate()
			if err != tt.wantErr {
				t.Errorf("期望错误%v,实际%v", tt.wantErr, err)
			}
		})
	}
}
