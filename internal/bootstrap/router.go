package bootstrap

import (
	fbauth "firebase.google.com/go/v4/auth"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/launchmentor/launchmentor-backend/config"
	httpapi "github.com/launchmentor/launchmentor-backend/internal/api/http"
	"github.com/launchmentor/launchmentor-backend/internal/api/http/middleware"
	"github.com/launchmentor/launchmentor-backend/internal/auth"
	authmw "github.com/launchmentor/launchmentor-backend/internal/auth/middleware"
	convhttp "github.com/launchmentor/launchmentor-backend/internal/conversations/http"
	convrepo "github.com/launchmentor/launchmentor-backend/internal/conversations/repository"
	convservice "github.com/launchmentor/launchmentor-backend/internal/conversations/service"
	"github.com/launchmentor/launchmentor-backend/internal/mentors"
	"github.com/launchmentor/launchmentor-backend/internal/projects"
	"github.com/launchmentor/launchmentor-backend/internal/realtime"
	"github.com/launchmentor/launchmentor-backend/internal/relay"
	"github.com/launchmentor/launchmentor-backend/internal/stats"
	"github.com/launchmentor/launchmentor-backend/internal/users"
)

type RouterDeps struct {
	ServiceName  string
	Version      string
	AI           config.AIConfig
	DB           *pgxpool.Pool
	Redis        *redis.Client
	FirebaseAuth *fbauth.Client
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.Default()

	// Permissive cross-origin policy; pre-flight OPTIONS is answered here.
	corsCfg := cors.DefaultConfig()
	corsCfg.AllowAllOrigins = true
	corsCfg.AllowHeaders = []string{"Authorization", "X-Client-Info", "Apikey", "Content-Type", "X-User-Id", "X-Request-Id"}
	r.Use(cors.New(corsCfg))

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.DB, dep.Redis)
	healthHandler.RegisterRoutes(r)

	api := r.Group("/api/v1")
	api.Use(middleware.RequestIDMiddleware())

	userRepo := users.NewRepo(dep.DB)
	if dep.FirebaseAuth != nil {
		api.Use(authmw.FirebaseAuthMiddleware(dep.FirebaseAuth))
	}
	api.Use(auth.WithUser(userRepo))
	users.Register(api, userRepo, auth.UserDBID)

	projectRepo := projects.NewRepo(dep.DB)
	projects.Register(api.Group("/projects"), projectRepo)

	mentorsGroup := api.Group("/mentors")
	mentors.Register(mentorsGroup)
	stats.Register(mentorsGroup, stats.NewRepo(dep.DB))

	gateway := relay.NewGatewayClient(dep.AI.GatewayURL, dep.AI.APIKey)
	relaySvc := relay.NewService(gateway, dep.AI.Model, dep.AI.APIKey != "")
	relay.NewHandler(relaySvc).Register(api)

	bus := realtime.NewBus(dep.Redis)
	convSvc := convservice.New(convrepo.New(dep.DB), projectRepo, relaySvc, bus)
	convhttp.Register(api.Group("/conversations"), convSvc, bus)

	return r
}
