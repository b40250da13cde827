package learning

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/xiebiao/edubook/internal/domain/course"
	"github.com/xiebiao/edubook/internal/domain/learning"
	"github.com/xiebiao/edubook/internal/domain/user"
)

// CertificateUseCase 证书申请用例
// 覆盖表单预填、提交申请、列表、签发切换、删除的完整生命周期
type CertificateUseCase struct {
	enrollmentRepo  learning.EnrollmentRepository
	progressRepo    learning.ProgressRepository
	certificateRepo learning.CertificateRepository
	courseRepo      course.Repository
	userRepo        user.Repository
}

// NewCertificateUseCase 创建证书申请用例
func NewCertificateUseCase(
	enrollmentRepo learning.EnrollmentRepository,
	progressRepo learning.ProgressRepository,
	certificateRepo learning.CertificateRepository,
	courseRepo course.Repository,
	userRepo user.Repository,
) *CertificateUseCase {
	return &CertificateUseCase{
		enrollmentRepo:  enrollmentRepo,
		progressRepo:    progressRepo,
		certificateRepo: certificateRepo,
		courseRepo:      courseRepo,
		userRepo:        userRepo,
	}
}

// CertificateForm 申请表单预填DTO
type CertificateForm struct {
	UserID       string `json:"user_id"`
	StudentName  string `json:"student_name"`
	CourseID     string `json:"course_id"`
	CourseTitle  string `json:"course_title"`
	EnrollmentID string `json:"enrollment_id"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	Progress     int    `json:"progress"`
}

// PrefillForm 预填申请表单
// 汇总用户、课程、选课、进度四方数据:
// 开始日期取选课日期,结束日期 = 选课日期 + 课程时长(天)
func (uc *CertificateUseCase) PrefillForm(ctx context.Context, userID, courseID string) (*CertificateForm, error) {
	u, err := uc.userRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	c, err := uc.courseRepo.FindByCourseID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	enrollment, err := uc.enrollmentRepo.FindByUserAndCourse(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}

	// 没有进度记录按0%处理,不算错误
	progressPct := 0
	if p, err := uc.progressRepo.FindByEnrollmentID(ctx, enrollment.EnrollmentID); err == nil {
		progressPct = p.ProgressPercentage
	}

	endDate := enrollment.EnrollmentDate.AddDate(0, 0, c.DurationDays)

	return &CertificateForm{
		UserID:       u.UserID,
		StudentName:  u.Name,
		CourseID:     c.CourseID,
		CourseTitle:  c.Title,
		EnrollmentID: enrollment.EnrollmentID,
		StartDate:    enrollment.EnrollmentDate.Format("2006-01-02"),
		EndDate:      endDate.Format("2006-01-02"),
		Progress:     progressPct,
	}, nil
}

// SubmitRequest 提交证书申请DTO
type SubmitRequest struct {
	UserID      string
	CourseID    string
	StudentName string
	StartDate   time.Time
	EndDate     time.Time
	Progress    int
}

// Submit 提交证书申请
func (uc *CertificateUseCase) Submit(ctx context.Context, req SubmitRequest) (string, error) {
	// 只能为自己实际选了的课申请
	if _, err := uc.enrollmentRepo.FindByUserAndCourse(ctx, req.UserID, req.CourseID); err != nil {
		return "", err
	}

	request := learning.NewCertificateRequest(uuid.NewString(), req.UserID, req.CourseID,
		req.StudentName, req.StartDate, req.EndDate, req.Progress)
	if err := uc.certificateRepo.Create(ctx, request); err != nil {
		return "", err
	}
	return request.RequestID, nil
}

// CertificateView 证书申请视图DTO(管理端列表)
type CertificateView struct {
	RequestID         string `json:"request_id"`
	UserID            string `json:"user_id"`
	StudentName       string `json:"student_name"`
	CourseID          string `json:"course_id"`
	CourseTitle       string `json:"course_title"`
	StartDate         string `json:"start_date"`
	EndDate           string `json:"end_date"`
	SubmissionDate    string `json:"submission_date"`
	Progress          int    `json:"progress"`
	CertificateIssued bool   `json:"certificate_issued"`
}

// ListAll 查询全部证书申请(管理端,按提交时间倒序)
// 课程标题即时关联,课程已删除时标题降级为空
func (uc *CertificateUseCase) ListAll(ctx context.Context) ([]CertificateView, error) {
	requests, err := uc.certificateRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	titleCache := make(map[string]string)
	views := make([]CertificateView, 0, len(requests))
	for _, r := range requests {
		title, ok := titleCache[r.CourseID]
		if !ok {
			if c, err := uc.courseRepo.FindByCourseID(ctx, r.CourseID); err == nil {
				title = c.Title
			}
			titleCache[r.CourseID] = title
		}
		views = append(views, CertificateView{
			RequestID:         r.RequestID,
			UserID:            r.UserID,
			StudentName:       r.StudentName,
			CourseID:          r.CourseID,
			CourseTitle:       title,
			StartDate:         r.StartDate.Format("2006-01-02"),
			EndDate:           r.EndDate.Format("2006-01-02"),
			SubmissionDate:    r.SubmissionDate.Format("2006-01-02"),
			Progress:          r.Progress,
			CertificateIssued: r.CertificateIssued,
		})
	}
	return views, nil
}

// ToggleIssued 切换签发状态,返回切换后的值
func (uc *CertificateUseCase) ToggleIssued(ctx context.Context, requestID string) (bool, error) {
	r, err := uc.certificateRepo.FindByRequestID(ctx, requestID)
	if err != nil {
		return false, err
	}
	issued := r.ToggleIssued()
	if err := uc.certificateRepo.Update(ctx, r); err != nil {
		return false, err
	}
	return issued, nil
}

// Delete 删除证书申请
func (uc *CertificateUseCase) Delete(ctx context.Context, requestID string) error {
	if _, err := uc.certificateRepo.FindByRequestID(ctx, requestID); err != nil {
		return err
	}
	return uc.certificateRepo.Delete(ctx, requestID)
}
