package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"backoffice/internal/domain"
)

// @Summary List categories
// @Tags categories
// @Produce json
// @Success 200 {array} domain.Category
// @Router /categories [get]
func (s *Server) listCategories(c *gin.Context) {
	list, err := s.svc.Categories.List(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

type createCategoryReq struct {
	Name string `json:"name" binding:"required"`
}

// @Summary Create category
// @Tags categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param input body createCategoryReq true "Category"
// @Success 201 {object} map[string]any
// @Failure 400 {object} map[string]string
// @Router /categories [post]
func (s *Server) createCategory(c *gin.Context) {
	var req createCategoryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c, err)
		return
	}
	cat, err := s.svc.Categories.Create(c.Request.Context(), req.Name)
	if err != nil {
		s.fail(c, err)
		return
	}
	setAuditCreated(c, cat)
	c.JSON(http.StatusCreated, gin.H{"message": "Category created", "category": cat})
}

// @Summary List enquiries
// @Tags enquiries
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.Enquiry
// @Router /enquiries [get]
func (s *Server) listEnquiries(c *gin.Context) {
	list, err := s.svc.Enquiries.List(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// @Summary Get enquiry
// @Description First view marks the enquiry as read.
// @Tags enquiries
// @Produce json
// @Security BearerAuth
// @Param id path string true "Enquiry ID"
// @Success 200 {object} domain.Enquiry
// @Failure 404 {object} map[string]string
// @Router /enquiries/{id} [get]
func (s *Server) getEnquiry(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	e, err := s.svc.Enquiries.Get(c.Request.Context(), id)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, e)
}

// @Summary Mark enquiry as read
// @Tags enquiries
// @Produce json
// @Security BearerAuth
// @Param id path string true "Enquiry ID"
// @Success 200 {object} domain.Enquiry
// @Failure 404 {object} map[string]string
// @Router /enquiries/{id}/read [patch]
func (s *Server) markEnquiryRead(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	e, err := s.svc.Enquiries.MarkRead(c.Request.Context(), id)
	if err != nil {
		s.fail(c, err)
		return
	}
	setAuditPayload(c, gin.H{"read": true})
	c.JSON(http.StatusOK, e)
}

// @Summary Delete enquiry
// @Tags enquiries
// @Produce json
// @Security BearerAuth
// @Param id path string true "Enquiry ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /enquiries/{id} [delete]
func (s *Server) deleteEnquiry(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := s.svc.Enquiries.Delete(c.Request.Context(), id); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Enquiry deleted successfully"})
}

type createEnquiryReq struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Phone   string `json:"phone"`
	Product string `json:"product"`
	Message string `json:"message" binding:"required"`
}

// @Summary Submit enquiry
// @Tags enquiries
// @Accept json
// @Produce json
// @Param input body createEnquiryReq true "Enquiry"
// @Success 201 {object} domain.Enquiry
// @Failure 400 {object} map[string]string
// @Router /enquiries [post]
func (s *Server) createEnquiry(c *gin.Context) {
	var req createEnquiryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c, err)
		return
	}
	in := domain.Enquiry{Name: req.Name, Email: req.Email, Phone: req.Phone, Message: req.Message}
	if req.Product != "" {
		pid, err := parseID(req.Product)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid product"})
			return
		}
		in.Product = &pid
	}
	e, err := s.svc.Enquiries.Create(c.Request.Context(), in)
	if err != nil {
		s.fail(c, err)
		return
	}
	setAuditCreated(c, e)
	c.JSON(http.StatusCreated, e)
}

// @Summary List contact messages
// @Tags contact
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.ContactMessage
// @Router /contact-messages [get]
func (s *Server) listContactMessages(c *gin.Context) {
	list, err := s.svc.Contacts.List(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

type visitedReq struct {
	Visited *bool `json:"visited" binding:"required"`
}

// @Summary Toggle visited flag
// @Tags contact
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Message ID"
// @Param input body visitedReq true "Visited flag"
// @Success 200 {object} domain.ContactMessage
// @Failure 404 {object} map[string]string
// @Router /contact-messages/{id} [put]
func (s *Server) setContactVisited(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req visitedReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c, err)
		return
	}
	m, err := s.svc.Contacts.SetVisited(c.Request.Context(), id, *req.Visited)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

type contactMessageReq struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Phone   string `json:"phone"`
	Subject string `json:"subject"`
	Message string `json:"message" binding:"required"`
}

// @Summary Submit contact message
// @Tags contact
// @Accept json
// @Produce json
// @Param input body contactMessageReq true "Message"
// @Success 201 {object} domain.ContactMessage
// @Failure 400 {object} map[string]string
// @Router /contact-messages [post]
func (s *Server) createContactMessage(c *gin.Context) {
	var req contactMessageReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c, err)
		return
	}
	m, err := s.svc.Contacts.Create(c.Request.Context(), domain.ContactMessage{
		Name: req.Name, Email: req.Email, Phone: req.Phone, Subject: req.Subject, Message: req.Message,
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	setAuditCreated(c, m)
	c.JSON(http.StatusCreated, m)
}

// @Summary List audit log
// @Tags logs
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.Log
// @Router /logs [get]
func (s *Server) listLogs(c *gin.Context) {
	list, err := s.svc.Logs.List(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// @Summary Delete audit log entry
// @Tags logs
// @Produce json
// @Security BearerAuth
// @Param id path string true "Log ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /logs/{id} [delete]
func (s *Server) deleteLog(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := s.svc.Logs.Delete(c.Request.Context(), id); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Log deleted successfully"})
}

// @Summary Clear audit log
// @Tags logs
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]any
// @Router /logs [delete]
func (s *Server) clearLogs(c *gin.Context) {
	n, err := s.svc.Logs.Clear(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "All logs deleted successfully", "deleted": n})
}

// @Summary Dashboard summary
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} domain.DashboardSummary
// @Router /dashboard [get]
func (s *Server) dashboard(c *gin.Context) {
	sum, err := s.svc.Dashboard.Summary(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, sum)
}
