package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	appbook "github.com/xiebiao/edubook/internal/application/book"
	"github.com/xiebiao/edubook/internal/interface/http/dto"
	"github.com/xiebiao/edubook/pkg/response"
)

// BookHandler 图书HTTP处理器(管理端CRUD+公开列表)
type BookHandler struct {
	createBookUseCase *appbook.CreateBookUseCase
	listBooksUseCase  *appbook.ListBooksUseCase
	updateBookUseCase *appbook.UpdateBookUseCase
	deleteBookUseCase *appbook.DeleteBookUseCase
}

// NewBookHandler 创建图书处理器
func NewBookHandler(
	createBookUseCase *appbook.CreateBookUseCase,
	listBooksUseCase *appbook.ListBooksUseCase,
	updateBookUseCase *appbook.UpdateBookUseCase,
	deleteBookUseCase *appbook.DeleteBookUseCase,
) *BookHandler {
	return &BookHandler{
		createBookUseCase: createBookUseCase,
		listBooksUseCase:  listBooksUseCase,
		updateBookUseCase: updateBookUseCase,
		deleteBookUseCase: deleteBookUseCase,
	}
}

// CreateBook 新增图书
// @Summary      新增图书
// @Description  管理员新增图书,封面通过multipart字段bookImage上传
// @Tags         图书模块
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        name formData string true "书名"
// @Param        author formData string true "作者"
// @Param        price formData int true "价格(分)"
// @Param        stock formData int false "库存"
// @Param        bookImage formData file false "封面图片"
// @Success      200 {object} response.Response
// @Router       /books [post]
func (h *BookHandler) CreateBook(c *gin.Context) {
	var req dto.CreateBookRequest
	if err := c.ShouldBind(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	ucReq := appbook.CreateBookRequest{
		Name:   req.Name,
		Author: req.Author,
		Price:  req.Price,
		Stock:  req.Stock,
		Notes:  req.Notes,
	}

	// 封面可选
	if file, err := c.FormFile("bookImage"); err == nil {
		f, err := file.Open()
		if err != nil {
			response.ErrorWithCode(c, 40900, "读取封面失败")
			return
		}
		defer f.Close()
		ucReq.ImageFilename = file.Filename
		ucReq.Image = f
	}

	result, err := h.createBookUseCase.Execute(c.Request.Context(), ucReq)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// ListBooks 图书列表
// @Summary      图书列表
// @Description  分页查询图书,支持书名/作者关键词搜索
// @Tags         图书模块
// @Produce      json
// @Param        page query int false "页码"
// @Param        page_size query int false "每页数量"
// @Param        keyword query string false "关键词"
// @Success      200 {object} response.Response
// @Router       /books [get]
func (h *BookHandler) ListBooks(c *gin.Context) {
	var req dto.ListBooksRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	result, err := h.listBooksUseCase.Execute(c.Request.Context(), appbook.ListBooksRequest{
		Page:     req.Page,
		PageSize: req.PageSize,
		Keyword:  req.Keyword,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPage(c, result.Books, result.Total, result.Page, len(result.Books))
}

// GetBook 图书详情
// @Summary      图书详情
// @Tags         图书模块
// @Produce      json
// @Param        id path int true "图书ID"
// @Success      200 {object} response.Response
// @Router       /books/{id} [get]
func (h *BookHandler) GetBook(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.ErrorWithCode(c, 40900, "无效的图书ID")
		return
	}

	result, err := h.listBooksUseCase.GetBook(c.Request.Context(), uint(id))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// UpdateBook 更新图书
// @Summary      更新图书
// @Description  管理员更新图书,空字段不修改,可选替换封面
// @Tags         图书模块
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "图书ID"
// @Success      200 {object} response.Response
// @Router       /books/{id} [put]
func (h *BookHandler) UpdateBook(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.ErrorWithCode(c, 40900, "无效的图书ID")
		return
	}

	var req dto.UpdateBookRequest
	if err := c.ShouldBind(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	ucReq := appbook.UpdateBookRequest{
		BookID: uint(id),
		Name:   req.Name,
		Author: req.Author,
		Price:  req.Price,
		Notes:  req.Notes,
		Stock:  -1, // 默认不修改库存
	}
	// 表单里显式带了stock才修改
	if _, ok := c.GetPostForm("stock"); ok {
		ucReq.Stock = req.Stock
	}

	if file, err := c.FormFile("bookImage"); err == nil {
		f, err := file.Open()
		if err != nil {
			response.ErrorWithCode(c, 40900, "读取封面失败")
			return
		}
		defer f.Close()
		ucReq.ImageFilename = file.Filename
		ucReq.Image = f
	}

	if err := h.updateBookUseCase.Execute(c.Request.Context(), ucReq); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// DeleteBook 删除图书
// @Summary      删除图书
// @Tags         图书模块
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "图书ID"
// @Success      200 {object} response.Response
// @Router       /books/{id} [delete]
func (h *BookHandler) DeleteBook(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.ErrorWithCode(c, 40900, "无效的图书ID")
		return
	}

	if err := h.deleteBookUseCase.Execute(c.Request.Context(), uint(id)); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
