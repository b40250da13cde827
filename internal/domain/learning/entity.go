package learning

import (
	"time"
)

// Enrollment 选课记录
// 由课程购买成功回调创建,EnrollmentID是对外暴露的uuid业务标识。
// 学习进度、证书申请都挂在EnrollmentID下。
type Enrollment struct {
	ID             uint
	EnrollmentID   string // 业务标识(uuid)
	UserID         string // 学生用户ID(外部身份标识)
	CourseID       string // 课程业务标识
	EnrollmentDate time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewEnrollment 创建新选课记录(工厂方法)
func NewEnrollment(enrollmentID, userID, courseID string) *Enrollment {
	now := time.Now()
	return &Enrollment{
		EnrollmentID:   enrollmentID,
		UserID:         userID,
		CourseID:       courseID,
		EnrollmentDate: now,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// ProgressStatus 学习进度状态
type ProgressStatus string

const (
	ProgressInProgress ProgressStatus = "In Progress"
	ProgressCompleted  ProgressStatus = "Completed"
)

// Progress 学习进度
// 以EnrollmentID为幂等键做upsert:同一选课记录只有一条进度。
type Progress struct {
	ID                 uint
	ProgressID         string // 业务标识(uuid)
	EnrollmentID       string
	LessonsCompleted   int
	ProgressPercentage int // 0-100
	CurrentStatus      ProgressStatus
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// NewProgress 创建新学习进度(工厂方法)
func NewProgress(progressID, enrollmentID string, lessonsCompleted, percentage int) (*Progress, error) {
	if percentage < 0 || percentage > 100 {
		return nil, ErrInvalidPercentage
	}
	now := time.Now()
	p := &Progress{
		ProgressID:         progressID,
		EnrollmentID:       enrollmentID,
		LessonsCompleted:   lessonsCompleted,
		ProgressPercentage: percentage,
		CurrentStatus:      ProgressInProgress,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	p.refreshStatus()
	return p, nil
}

// Advance 更新进度(upsert的更新分支)
func (p *Progress) Advance(lessonsCompleted, percentage int) error {
	if percentage < 0 || percentage > 100 {
		return ErrInvalidPercentage
	}
	p.LessonsCompleted = lessonsCompleted
	p.ProgressPercentage = percentage
	p.refreshStatus()
	p.UpdatedAt = time.Now()
	return nil
}

// refreshStatus 进度100%时标记完成
func (p *Progress) refreshStatus() {
	if p.ProgressPercentage >= 100 {
		p.CurrentStatus = ProgressCompleted
	} else {
		p.CurrentStatus = ProgressInProgress
	}
}

// CertificateRequest 证书申请
// RequestID是对外暴露的uuid业务标识,管理员通过toggle切换签发状态。
type CertificateRequest struct {
	ID                uint
	RequestID         string // 业务标识(uuid)
	UserID            string
	CourseID          string
	StudentName       string
	StartDate         time.Time // 选课日期
	EndDate           time.Time // 选课日期 + 课程时长
	SubmissionDate    time.Time
	Progress          int // 提交申请时的进度百分比快照
	CertificateIssued bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// NewCertificateRequest 创建新证书申请(工厂方法)
func NewCertificateRequest(requestID, userID, courseID, studentName string, startDate, endDate time.Time, progress int) *CertificateRequest {
	now := time.Now()
	return &CertificateRequest{
		RequestID:      requestID,
		UserID:         userID,
		CourseID:       courseID,
		StudentName:    studentName,
		StartDate:      startDate,
		EndDate:        endDate,
		SubmissionDate: now,
		Progress:       progress,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// ToggleIssued 切换签发状态,返回切换后的值
func (c *CertificateRequest) ToggleIssued() bool {
	c.CertificateIssued = !c.CertificateIssued
	c.UpdatedAt = time.Now()
	return c.CertificateIssued
}
