package main

import (
	"time"

	"snapnet/config"
	"snapnet/models"
	"snapnet/routes"
	"snapnet/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db := config.InitDatabase(&models.User{}, &models.Post{}, &models.Comment{}, &models.UploadedFile{})

	r := routes.SetupRouter(db)

	// Reclaim image files orphaned by crashes between upload and commit
	utils.StartUploadCleaner(db, 5*time.Minute)

	utils.Sugar.Infof("Starting server on port %s", cfg.AppPort)
	if err := utils.RunServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
