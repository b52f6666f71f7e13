package router

import (
	userapp "github.com/arquivolivre/user-directory/internal/application"
	"github.com/arquivolivre/user-directory/internal/container"
	repouser "github.com/arquivolivre/user-directory/internal/domain/repository"
	"github.com/arquivolivre/user-directory/internal/infrastructure/memory"
	pginfra "github.com/arquivolivre/user-directory/internal/infrastructure/postgres"
	handlers "github.com/arquivolivre/user-directory/internal/interface/http"
	"github.com/arquivolivre/user-directory/internal/router/modules"
)

type UserModuleDeps struct {
	Repo    repouser.UserRepository
	Service *userapp.Service
	Handler *handlers.UserHandler
}

func buildUserDeps() UserModuleDeps {
	var repo repouser.UserRepository
	if pool := container.GetPGPool(); pool != nil {
		repo = pginfra.NewUserRepository(pool)
	} else {
		// no database configured; serve from memory
		repo = memory.NewUserRepository()
	}

	service := userapp.NewService(repo, container.GetLogger(), container.GetTracer())
	handler := handlers.NewUserHandler(service, container.GetLogger())

	return UserModuleDeps{Repo: repo, Service: service, Handler: handler}
}

// InitModules wires all application modules into the router registry.
// Called once during startup.
func InitModules(r *Registry) {
	userDeps := buildUserDeps()
	r.Add(modules.NewUserModule(userDeps.Handler))
	if cfg := container.GetConfig(); cfg != nil && cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
