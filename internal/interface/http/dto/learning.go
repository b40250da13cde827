package dto

// SaveProgressRequest HTTP保存进度请求
type SaveProgressRequest struct {
	EnrollmentID       string `json:"enrollmentId" binding:"required,uuid"`
	LessonsCompleted   int    `json:"lessonsCompleted" binding:"min=0"`
	ProgressPercentage int    `json:"progressPercentage" binding:"min=0,max=100"`
}

// SubmitCertificateRequest HTTP提交证书申请请求
// 日期格式: YYYY-MM-DD
type SubmitCertificateRequest struct {
	UserID      string `json:"userId" binding:"required,max=64"`
	CourseID    string `json:"courseId" binding:"required,uuid"`
	StudentName string `json:"studentName" binding:"required,max=100"`
	StartDate   string `json:"startDate" binding:"required,datetime=2006-01-02"`
	EndDate     string `json:"endDate" binding:"required,datetime=2006-01-02"`
	Progress    int    `json:"progress" binding:"min=0,max=100"`
}
