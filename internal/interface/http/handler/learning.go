package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	applearning "github.com/xiebiao/edubook/internal/application/learning"
	"github.com/xiebiao/edubook/internal/interface/http/dto"
	"github.com/xiebiao/edubook/pkg/response"
)

// LearningHandler 学习记录HTTP处理器(进度+证书申请)
type LearningHandler struct {
	saveProgressUseCase *applearning.SaveProgressUseCase
	certificateUseCase  *applearning.CertificateUseCase
}

// NewLearningHandler 创建学习记录处理器
func NewLearningHandler(
	saveProgressUseCase *applearning.SaveProgressUseCase,
	certificateUseCase *applearning.CertificateUseCase,
) *LearningHandler {
	return &LearningHandler{
		saveProgressUseCase: saveProgressUseCase,
		certificateUseCase:  certificateUseCase,
	}
}

// SaveProgress 保存学习进度
// @Summary      保存学习进度
// @Description  按选课记录upsert进度,100%时状态自动流转为Completed
// @Tags         学习记录
// @Accept       json
// @Produce      json
// @Param        request body dto.SaveProgressRequest true "进度信息"
// @Success      200 {object} response.Response
// @Router       /progress/save [post]
func (h *LearningHandler) SaveProgress(c *gin.Context) {
	var req dto.SaveProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	result, err := h.saveProgressUseCase.Execute(c.Request.Context(), applearning.SaveProgressRequest{
		EnrollmentID:       req.EnrollmentID,
		LessonsCompleted:   req.LessonsCompleted,
		ProgressPercentage: req.ProgressPercentage,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// PrefillCertificateForm 证书申请表单预填
// @Summary      证书申请表单预填
// @Description  汇总用户/课程/选课/进度数据,结束日期=选课日期+课程时长
// @Tags         学习记录
// @Produce      json
// @Param        user_id query string true "学生用户ID"
// @Param        course_id query string true "课程ID"
// @Success      200 {object} response.Response
// @Router       /certificates [get]
func (h *LearningHandler) PrefillCertificateForm(c *gin.Context) {
	userID := c.Query("user_id")
	courseID := c.Query("course_id")
	if userID == "" || courseID == "" {
		response.ErrorWithCode(c, 40900, "缺少user_id或course_id参数")
		return
	}

	result, err := h.certificateUseCase.PrefillForm(c.Request.Context(), userID, courseID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// SubmitCertificate 提交证书申请
// @Summary      提交证书申请
// @Tags         学习记录
// @Accept       json
// @Produce      json
// @Param        request body dto.SubmitCertificateRequest true "申请信息"
// @Success      200 {object} response.Response
// @Router       /certificates [post]
func (h *LearningHandler) SubmitCertificate(c *gin.Context) {
	var req dto.SubmitCertificateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	// datetime tag已保证格式合法
	startDate, _ := time.Parse("2006-01-02", req.StartDate)
	endDate, _ := time.Parse("2006-01-02", req.EndDate)

	requestID, err := h.certificateUseCase.Submit(c.Request.Context(), applearning.SubmitRequest{
		UserID:      req.UserID,
		CourseID:    req.CourseID,
		StudentName: req.StudentName,
		StartDate:   startDate,
		EndDate:     endDate,
		Progress:    req.Progress,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"request_id": requestID})
}

// ListCertificates 证书申请列表
// @Summary      证书申请列表
// @Description  管理端全部证书申请,按提交时间倒序,关联课程标题
// @Tags         学习记录
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response
// @Router       /certificates/all [get]
func (h *LearningHandler) ListCertificates(c *gin.Context) {
	result, err := h.certificateUseCase.ListAll(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// ToggleCertificate 切换签发状态
// @Summary      切换证书签发状态
// @Tags         学习记录
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "申请ID"
// @Success      200 {object} response.Response
// @Router       /certificates/{id}/toggle [put]
func (h *LearningHandler) ToggleCertificate(c *gin.Context) {
	requestID := c.Param("id")
	if requestID == "" {
		response.ErrorWithCode(c, 40900, "无效的申请ID")
		return
	}

	issued, err := h.certificateUseCase.ToggleIssued(c.Request.Context(), requestID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"certificate_issued": issued})
}

// DeleteCertificate 删除证书申请
// @Summary      删除证书申请
// @Tags         学习记录
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "申请ID"
// @Success      200 {object} response.Response
// @Router       /certificates/{id} [delete]
func (h *LearningHandler) DeleteCertificate(c *gin.Context) {
	requestID := c.Param("id")
	if requestID == "" {
		response.ErrorWithCode(c, 40900, "无效的申请ID")
		return
	}

	if err := h.certificateUseCase.Delete(c.Request.Context(), requestID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
