package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"backoffice/internal/domain"
)

// @Summary List orders
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.Order
// @Router /orders [get]
func (s *Server) listOrders(c *gin.Context) {
	list, err := s.svc.Orders.List(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// @Summary Get order by orderId
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param orderId path string true "Order ID"
// @Success 200 {object} domain.Order
// @Failure 404 {object} map[string]string
// @Router /orders/{orderId} [get]
func (s *Server) getOrder(c *gin.Context) {
	o, err := s.svc.Orders.GetOrder(c.Request.Context(), c.Param("orderId"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

type updateOrderStatusReq struct {
	OrderStatus domain.OrderStatus `json:"orderStatus" binding:"required"`
}

type orderStatusResp struct {
	Message string        `json:"message"`
	Order   *domain.Order `json:"order"`
}

// @Summary Update order status
// @Description Delivered sets payment to Paid, Cancelled sets it to Failed. Delivered and Cancelled orders cannot change.
// @Tags orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param orderId path string true "Order ID"
// @Param input body updateOrderStatusReq true "New status"
// @Success 200 {object} orderStatusResp
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /orders/{orderId}/status [put]
func (s *Server) updateOrderStatus(c *gin.Context) {
	var req updateOrderStatusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c, err)
		return
	}
	o, err := s.svc.Orders.UpdateStatus(c.Request.Context(), c.Param("orderId"), req.OrderStatus)
	if err != nil {
		s.fail(c, err)
		return
	}
	setAuditPayload(c, gin.H{"orderStatus": o.OrderStatus, "paymentStatus": o.PaymentStatus})
	c.JSON(http.StatusOK, orderStatusResp{Message: "Order status updated", Order: o})
}
