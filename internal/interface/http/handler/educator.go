package handler

import (
	"github.com/gin-gonic/gin"

	appcourse "github.com/xiebiao/edubook/internal/application/course"
	appdashboard "github.com/xiebiao/edubook/internal/application/dashboard"
	"github.com/xiebiao/edubook/internal/interface/http/dto"
	"github.com/xiebiao/edubook/internal/interface/http/middleware"
	"github.com/xiebiao/edubook/pkg/response"
)

// EducatorHandler 讲师端HTTP处理器
// 讲师身份从JWT取,课程归属校验在用例层
type EducatorHandler struct {
	addCourseUseCase    *appcourse.AddCourseUseCase
	listCoursesUseCase  *appcourse.ListCoursesUseCase
	deleteCourseUseCase *appcourse.DeleteCourseUseCase
	dashboardUseCase    *appdashboard.DashboardUseCase
}

// NewEducatorHandler 创建讲师端处理器
func NewEducatorHandler(
	addCourseUseCase *appcourse.AddCourseUseCase,
	listCoursesUseCase *appcourse.ListCoursesUseCase,
	deleteCourseUseCase *appcourse.DeleteCourseUseCase,
	dashboardUseCase *appdashboard.DashboardUseCase,
) *EducatorHandler {
	return &EducatorHandler{
		addCourseUseCase:    addCourseUseCase,
		listCoursesUseCase:  listCoursesUseCase,
		deleteCourseUseCase: deleteCourseUseCase,
		dashboardUseCase:    dashboardUseCase,
	}
}

// AddCourse 新建课程
// @Summary      新建课程
// @Description  讲师新建课程,缩略图通过multipart字段image上传
// @Tags         讲师模块
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response
// @Router       /educator/add-course [post]
func (h *EducatorHandler) AddCourse(c *gin.Context) {
	var req dto.AddCourseRequest
	if err := c.ShouldBind(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	ucReq := appcourse.AddCourseRequest{
		EducatorID:   middleware.MustGetUserID(c),
		Title:        req.Title,
		Description:  req.Description,
		Price:        req.Price,
		Discount:     req.Discount,
		DurationDays: req.DurationDays,
	}

	if file, err := c.FormFile("image"); err == nil {
		f, err := file.Open()
		if err != nil {
			response.ErrorWithCode(c, 40900, "读取缩略图失败")
			return
		}
		defer f.Close()
		ucReq.ThumbnailFilename = file.Filename
		ucReq.Thumbnail = f
	}

	result, err := h.addCourseUseCase.Execute(c.Request.Context(), ucReq)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// ListCourses 讲师课程列表
// @Summary      讲师课程列表
// @Tags         讲师模块
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response
// @Router       /educator/courses [get]
func (h *EducatorHandler) ListCourses(c *gin.Context) {
	result, err := h.listCoursesUseCase.ListByEducator(c.Request.Context(), middleware.MustGetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// DeleteCourse 删除课程
// @Summary      删除课程
// @Description  删除课程及其购买记录,只有课程讲师本人能删
// @Tags         讲师模块
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "课程ID"
// @Success      200 {object} response.Response
// @Router       /educator/delete-course/{id} [delete]
func (h *EducatorHandler) DeleteCourse(c *gin.Context) {
	courseID := c.Param("id")
	if courseID == "" {
		response.ErrorWithCode(c, 40900, "无效的课程ID")
		return
	}

	err := h.deleteCourseUseCase.Execute(c.Request.Context(), middleware.MustGetUserID(c), courseID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// Dashboard 讲师仪表盘
// @Summary      讲师仪表盘
// @Description  总收入、按日收入、好课/待改进课榜单,请求时实时聚合
// @Tags         讲师模块
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response
// @Router       /educator/dashboard [get]
func (h *EducatorHandler) Dashboard(c *gin.Context) {
	result, err := h.dashboardUseCase.Execute(c.Request.Context(), middleware.MustGetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// EnrolledStudents 已报名学生列表
// @Summary      已报名学生列表
// @Description  讲师全部课程的已完成购买,关联学生资料和课程标题
// @Tags         讲师模块
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response
// @Router       /educator/enrolled-students [get]
func (h *EducatorHandler) EnrolledStudents(c *gin.Context) {
	result, err := h.dashboardUseCase.EnrolledStudents(c.Request.Context(), middleware.MustGetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
