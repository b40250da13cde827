package dto

// CreateBookRequest HTTP新增图书请求(multipart表单)
// 封面通过表单文件字段bookImage上传,不在这个结构里
type CreateBookRequest struct {
	Name   string `form:"name" binding:"required,max=200" example:"Go语言实战"`
	Author string `form:"author" binding:"required,max=100" example:"威廉·肯尼迪"`
	Price  int64  `form:"price" binding:"required,min=1,max=9999999" example:"5900"` // 价格(分)
	Stock  int    `form:"stock" binding:"min=0" example:"100"`
	Notes  string `form:"notes" binding:"max=5000" example:"2024年新版"`
}

// UpdateBookRequest HTTP更新图书请求(multipart表单)
// 空字段表示不修改,stock传负数表示不修改
type UpdateBookRequest struct {
	Name   string `form:"name" binding:"omitempty,max=200"`
	Author string `form:"author" binding:"omitempty,max=100"`
	Price  int64  `form:"price" binding:"omitempty,min=1,max=9999999"`
	Stock  int    `form:"stock" binding:"omitempty"`
	Notes  string `form:"notes" binding:"omitempty,max=5000"`
}

// BookResponse HTTP图书响应
// stock字段是可售余量(在架-预占),预占数不对外暴露
type BookResponse struct {
	BookID    uint   `json:"book_id" example:"1"`
	Name      string `json:"name" example:"Go语言实战"`
	Author    string `json:"author" example:"威廉·肯尼迪"`
	Price     int64  `json:"price" example:"5900"`
	PriceYuan string `json:"price_yuan" example:"59.00"`
	Stock     int    `json:"stock" example:"100"`
	ImageURL  string `json:"image_url" example:"https://img.example.com/abc.jpg"`
	Notes     string `json:"notes" example:"2024年新版"`
}

// ListBooksRequest HTTP图书列表请求
type ListBooksRequest struct {
	Page     int    `form:"page" binding:"omitempty,min=1" example:"1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100" example:"20"`
	Keyword  string `form:"keyword" binding:"omitempty,max=100" example:"Go"`
}
