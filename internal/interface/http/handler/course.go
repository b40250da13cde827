package handler

import (
	"github.com/gin-gonic/gin"

	appcourse "github.com/xiebiao/edubook/internal/application/course"
	"github.com/xiebiao/edubook/internal/interface/http/dto"
	"github.com/xiebiao/edubook/pkg/response"
)

// CourseHandler 课程HTTP处理器(学生端:目录+购买)
type CourseHandler struct {
	listCoursesUseCase    *appcourse.ListCoursesUseCase
	purchaseCourseUseCase *appcourse.PurchaseCourseUseCase
}

// NewCourseHandler 创建课程处理器
func NewCourseHandler(
	listCoursesUseCase *appcourse.ListCoursesUseCase,
	purchaseCourseUseCase *appcourse.PurchaseCourseUseCase,
) *CourseHandler {
	return &CourseHandler{
		listCoursesUseCase:    listCoursesUseCase,
		purchaseCourseUseCase: purchaseCourseUseCase,
	}
}

// ListCourses 课程目录
// @Summary      课程目录
// @Description  学生端课程目录,含折后价、报名人数、平均评分
// @Tags         课程模块
// @Produce      json
// @Success      200 {object} response.Response
// @Router       /courses [get]
func (h *CourseHandler) ListCourses(c *gin.Context) {
	result, err := h.listCoursesUseCase.ListAll(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// PurchaseCourse 购买课程
// @Summary      购买课程
// @Description  创建pending购买记录和托管支付会话,返回支付页跳转地址
// @Tags         课程模块
// @Accept       json
// @Produce      json
// @Param        request body dto.PurchaseCourseRequest true "购买信息"
// @Success      200 {object} response.Response{data=dto.PurchaseCourseResponse}
// @Router       /user/purchase [post]
func (h *CourseHandler) PurchaseCourse(c *gin.Context) {
	var req dto.PurchaseCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	result, err := h.purchaseCourseUseCase.Execute(c.Request.Context(), req.UserID, req.CourseID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, &dto.PurchaseCourseResponse{
		PurchaseID: result.PurchaseID,
		Amount:     result.Amount,
		SessionURL: result.SessionURL,
	})
}
