package httpapi

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"backoffice/internal/service"
)

type loginReq struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// @Summary Login
// @Tags auth
// @Accept json
// @Produce json
// @Param input body loginReq true "Credentials"
// @Success 200 {object} service.LoginResult
// @Failure 400 {object} map[string]string
// @Router /auth/login [post]
func (s *Server) login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c, err)
		return
	}
	res, err := s.svc.Auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// @Summary Own profile
// @Tags admins
// @Produce json
// @Security BearerAuth
// @Success 200 {object} domain.Admin
// @Router /admins/profile [get]
func (s *Server) getProfile(c *gin.Context) {
	id, _ := identity(c)
	a, err := s.svc.Admins.Get(c.Request.Context(), id.ID)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

// @Summary Update own profile
// @Tags admins
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param input body service.ProfileInput true "Profile"
// @Success 200 {object} domain.Admin
// @Failure 400 {object} map[string]string
// @Router /admins/profile [put]
func (s *Server) updateProfile(c *gin.Context) {
	var req service.ProfileInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c, err)
		return
	}
	id, _ := identity(c)
	a, err := s.svc.Admins.UpdateProfile(c.Request.Context(), id.ID, req)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

type changePasswordReq struct {
	UserID      string `json:"userId"`
	NewPassword string `json:"newPassword" binding:"required_without=Password"`
	Password    string `json:"password"`
}

// @Summary Change password
// @Description Any account may change its own password; superadmin may change anyone's.
// @Tags admins
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param input body changePasswordReq true "Target account and new password"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /admins/change-password [post]
func (s *Server) changePassword(c *gin.Context) {
	var req changePasswordReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c, err)
		return
	}
	target := primitive.NilObjectID
	if v := strings.TrimSpace(req.UserID); v != "" {
		id, err := parseID(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid userId"})
			return
		}
		target = id
	}
	password := req.NewPassword
	if password == "" {
		password = req.Password
	}
	actor, _ := identity(c)
	if err := s.svc.Admins.ChangePassword(c.Request.Context(), actor, target, password); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password updated successfully"})
}

// @Summary List accounts
// @Tags admins
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.Admin
// @Router /admins [get]
func (s *Server) listAdmins(c *gin.Context) {
	list, err := s.svc.Admins.List(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// @Summary Create account
// @Tags admins
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param input body service.AdminInput true "Account"
// @Success 201 {object} domain.Admin
// @Failure 400 {object} map[string]string
// @Router /admins [post]
func (s *Server) createAdmin(c *gin.Context) {
	var req service.AdminInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c, err)
		return
	}
	a, err := s.svc.Admins.Create(c.Request.Context(), req)
	if err != nil {
		s.fail(c, err)
		return
	}
	setAuditCreated(c, a)
	c.JSON(http.StatusCreated, a)
}

// @Summary Get account
// @Tags admins
// @Produce json
// @Security BearerAuth
// @Param id path string true "Account ID"
// @Success 200 {object} domain.Admin
// @Failure 404 {object} map[string]string
// @Router /admins/{id} [get]
func (s *Server) getAdmin(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	a, err := s.svc.Admins.Get(c.Request.Context(), id)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

// @Summary Update account
// @Tags admins
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Account ID"
// @Param input body service.AdminInput true "Name, email, role"
// @Success 200 {object} domain.Admin
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /admins/{id} [put]
func (s *Server) updateAdmin(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req service.AdminInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c, err)
		return
	}
	a, err := s.svc.Admins.Update(c.Request.Context(), id, req)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

// @Summary Delete account
// @Tags admins
// @Produce json
// @Security BearerAuth
// @Param id path string true "Account ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /admins/{id} [delete]
func (s *Server) deleteAdmin(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := s.svc.Admins.Delete(c.Request.Context(), id); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Admin deleted successfully"})
}

// @Summary List customers
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.Admin
// @Router /users/all [get]
func (s *Server) listCustomers(c *gin.Context) {
	list, err := s.svc.Admins.ListCustomers(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}
