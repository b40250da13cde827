package dto

// AddCourseRequest HTTP新建课程请求(multipart表单)
// 缩略图通过表单文件字段image上传
type AddCourseRequest struct {
	Title        string `form:"title" binding:"required,max=200"`
	Description  string `form:"description" binding:"max=10000"`
	Price        int64  `form:"price" binding:"min=0"`             // 原价(分)
	Discount     int    `form:"discount" binding:"min=0,max=100"`  // 折扣百分比
	DurationDays int    `form:"duration_days" binding:"min=0"`     // 课程时长(天)
}

// PurchaseCourseRequest HTTP购买课程请求
type PurchaseCourseRequest struct {
	UserID   string `json:"userId" binding:"required,max=64"`
	CourseID string `json:"courseId" binding:"required,uuid"`
}

// PurchaseCourseResponse HTTP购买课程响应
type PurchaseCourseResponse struct {
	PurchaseID string `json:"purchase_id"`
	Amount     int64  `json:"amount"`
	SessionURL string `json:"session_url"`
}
