package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/arquivolivre/user-directory/internal/container"
	handlers "github.com/arquivolivre/user-directory/internal/interface/http"
	"github.com/arquivolivre/user-directory/internal/interface/middleware"
)

// UserModule wires the user CRUD handlers into routes.
//
// GET    /users              list all
// GET    /users/:id          fetch by id
// GET    /users/email/:email fetch by email
// POST   /users              create
// PUT    /users/:id          update
// DELETE /users/:id          delete
// GET    /users/search       substring name search (?name=)
// GET    /users/recent       created within ?days= (default 7)
// GET    /users/count        total count
// GET    /users/health       liveness probe
type UserModule struct {
	Handler *handlers.UserHandler
}

func NewUserModule(h *handlers.UserHandler) *UserModule {
	return &UserModule{Handler: h}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	// Per-IP limiter on mutating routes; no-op when Redis is not configured.
	writeLimiter := middleware.RateLimit(container.GetRedis(), 60, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP())

	users := rg.Group("/users")
	{
		users.GET("", m.Handler.GetAllUsers)
		users.GET("/search", m.Handler.SearchUsers)
		users.GET("/recent", m.Handler.GetRecentUsers)
		users.GET("/count", m.Handler.GetUserCount)
		users.GET("/health", m.Handler.HealthCheck)
		users.GET("/email/:email", m.Handler.GetUserByEmail)
		users.GET("/:id", m.Handler.GetUserByID)

		users.POST("", writeLimiter, m.Handler.CreateUser)
		users.PUT("/:id", writeLimiter, m.Handler.UpdateUser)
		users.DELETE("/:id", writeLimiter, m.Handler.DeleteUser)
	}
}
