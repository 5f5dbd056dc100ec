package middleware

import (
	"errors"
	"net/http"

	"quickstay/database/repository"
	userRepo "quickstay/database/repository/user"
	"quickstay/utils"

	"github.com/gin-gonic/gin"
)

// ContextUser is the gin context key holding the loaded *models.User.
const ContextUser = "user"

// RequireRole loads the authenticated user and rejects callers without role.
// It must run after ClerkAuthMiddleware.
func RequireRole(users userRepo.UserRepository, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := UserID(c)
		if id == "" {
			utils.JSONError(c, http.StatusUnauthorized, "Not authorized", "")
			return
		}
		usr, err := users.GetByID(c.Request.Context(), id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				utils.JSONError(c, http.StatusUnauthorized, "User not found", "")
				return
			}
			utils.JSONError(c, http.StatusInternalServerError, "Failed to load user", err.Error())
			return
		}
		if usr.Role != role {
			utils.JSONError(c, http.StatusForbidden, "Forbidden", "requires role "+role)
			return
		}
		c.Set(ContextUser, usr)
		c.Next()
	}
}
