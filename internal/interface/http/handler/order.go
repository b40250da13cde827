package handler

import (
	"github.com/gin-gonic/gin"

	apporder "github.com/xiebiao/edubook/internal/application/order"
	"github.com/xiebiao/edubook/internal/domain/order"
	"github.com/xiebiao/edubook/internal/interface/http/dto"
	"github.com/xiebiao/edubook/pkg/response"
)

// OrderHandler 订单HTTP处理器
type OrderHandler struct {
	createOrderUseCase *apporder.CreateOrderUseCase
	listOrdersUseCase  *apporder.ListOrdersUseCase
}

// NewOrderHandler 创建订单处理器
func NewOrderHandler(
	createOrderUseCase *apporder.CreateOrderUseCase,
	listOrdersUseCase *apporder.ListOrdersUseCase,
) *OrderHandler {
	return &OrderHandler{
		createOrderUseCase: createOrderUseCase,
		listOrdersUseCase:  listOrdersUseCase,
	}
}

// CreateOrder 创建订单
// @Summary      创建订单
// @Description  下单购买图书:预占库存→落库pending订单→创建托管支付会话,返回支付页跳转地址
// @Tags         订单模块
// @Accept       json
// @Produce      json
// @Param        request body dto.CreateOrderRequest true "订单信息"
// @Success      200 {object} response.Response{data=dto.CreateOrderResponse}
// @Failure      400 {object} response.Response "参数错误"
// @Failure      40001 {object} response.Response "库存不足"
// @Router       /orders [post]
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	items := make([]apporder.CreateOrderItem, len(req.Items))
	for i, item := range req.Items {
		items[i] = apporder.CreateOrderItem{
			BookID:   item.BookID,
			Quantity: item.Quantity,
		}
	}

	result, err := h.createOrderUseCase.Execute(c.Request.Context(), apporder.CreateOrderRequest{
		UserID:      req.UserID,
		UserName:    req.UserName,
		Items:       items,
		TotalAmount: req.Total,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, &dto.CreateOrderResponse{
		OrderID:    result.OrderID,
		OrderNo:    result.OrderNo,
		Total:      result.Total,
		Status:     result.Status,
		SessionURL: result.SessionURL,
		CreatedAt:  result.CreatedAt,
	})
}

// ListOrders 订单列表
// @Summary      订单列表
// @Description  管理端按时间过滤查询订单:all全部/daily当日/weekly近7天
// @Tags         订单模块
// @Produce      json
// @Security     BearerAuth
// @Param        filter query string false "过滤条件" Enums(all, daily, weekly)
// @Success      200 {object} response.Response
// @Router       /orders [get]
func (h *OrderHandler) ListOrders(c *gin.Context) {
	filter := order.ListFilter(c.DefaultQuery("filter", "all"))

	result, err := h.listOrdersUseCase.Execute(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
