package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"

	"github.com/launchmentor/launchmentor-backend/config"
	"github.com/launchmentor/launchmentor-backend/internal/auth"
	"github.com/launchmentor/launchmentor-backend/internal/bootstrap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()

	pool, err := bootstrap.OpenDB(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer pool.Close()

	rdb, err := bootstrap.OpenRedis(ctx, cfg.Redis)
	if err != nil {
		log.Fatalf("open redis: %v", err)
	}
	defer rdb.Close()

	deps := bootstrap.RouterDeps{
		ServiceName: "launchmentor-api",
		Version:     cfg.App.Version,
		AI:          cfg.AI,
		DB:          pool,
		Redis:       rdb,
	}

	// Token verification only runs when credentials are configured; the
	// demo fallback user applies otherwise.
	if cfg.Firebase.CredentialsPath != "" {
		fb, err := auth.NewFirebaseAuth(ctx, cfg.Firebase.CredentialsPath)
		if err != nil {
			log.Fatalf("init firebase: %v", err)
		}
		deps.FirebaseAuth = fb
	} else {
		log.Println("FIREBASE_CREDENTIALS_PATH not set, running without token verification")
	}

	r := bootstrap.BuildRouter(deps)

	log.Printf("listening on :%s", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("server: %v", err)
	}
}
