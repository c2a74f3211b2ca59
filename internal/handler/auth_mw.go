package handler

import (
	"net/http"
	"os"
	"strings"

	"github.com/BloggingApp/blog-service/internal/dto"
	"github.com/BloggingApp/blog-service/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

func (h *Handler) authMiddleware(c *gin.Context) {
	claims, accessToken, err := claimsFromAuthHeader(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, dto.NewBasicResponse(false, errNotAuthorized.Error()))
		c.Abort()
		return
	}

	user, err := h.getUserDataFromClaims(c.Request.Context(), claims, accessToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, dto.NewBasicResponse(false, errNotAuthorized.Error()))
		c.Abort()
		return
	}

	c.Set("cached-user", *user)
	c.Set("moderator", isModeratorRole(claims))

	c.Next()
}

func claimsFromAuthHeader(c *gin.Context) (jwt.MapClaims, string, error) {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return nil, "", errNotAuthorized
	}

	accessToken := strings.Split(header, " ")[1]
	if accessToken == "" {
		return nil, "", errNotAuthorized
	}

	claims, err := utils.DecodeJWT(accessToken, []byte(os.Getenv("ACCESS_SECRET")))
	if err != nil {
		return nil, "", err
	}

	return claims, accessToken, nil
}

func isModeratorRole(claims jwt.MapClaims) bool {
	roleClaim, _ := claims["role"].(string)
	role := strings.ToLower(roleClaim)
	return role == "mod" || role == "admin"
}
