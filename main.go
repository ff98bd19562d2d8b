package main

import (
	"time"

	"github.com/goshala/goshala/config"
	"github.com/goshala/goshala/models"
	"github.com/goshala/goshala/routes"
	"github.com/goshala/goshala/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db := config.InitDatabase(
		&models.User{},
		&models.Post{},
		&models.Comment{},
		&models.PostLike{},
		&models.CommentLike{},
		&models.UploadedFile{},
	)

	r := routes.SetupRouter(db)

	// Background removal of expired attachment uploads (best-effort)
	utils.StartUploadCleaner(5 * time.Minute)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
