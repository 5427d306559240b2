package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/timetable-api/internal/dto"
	"github.com/noah-isme/timetable-api/internal/service"
	appErrors "github.com/noah-isme/timetable-api/pkg/errors"
	"github.com/noah-isme/timetable-api/pkg/response"
)

type tokenIssuer interface {
	IssueToken(req dto.IssueTokenRequest) (*dto.TokenResponse, error)
}

// AuthHandler exposes token endpoints.
type AuthHandler struct {
	issuer tokenIssuer
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{issuer: svc}
}

// Issue godoc
// @Summary Issue an access token
// @Description Lets a super administrator mint tokens for other operators.
// @Tags Auth
// @Accept json
// @Produce json
// @Param payload body dto.IssueTokenRequest true "Token subject and role"
// @Success 201 {object} response.Envelope
// @Security BearerAuth
// @Router /auth/token [post]
func (h *AuthHandler) Issue(c *gin.Context) {
	var req dto.IssueTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid token payload"))
		return
	}
	token, err := h.issuer.IssueToken(req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, token)
}

// Me godoc
// @Summary Describe the caller
// @Tags Auth
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"subject": claims.UserID, "role": claims.Role}, nil)
}
