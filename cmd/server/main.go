package main

import (
	"github.com/dmarto21/finanzas-tracker/internal/api"
	"github.com/dmarto21/finanzas-tracker/internal/config"
	"github.com/dmarto21/finanzas-tracker/internal/database"
	"github.com/dmarto21/finanzas-tracker/internal/repository"
	"github.com/dmarto21/finanzas-tracker/internal/service"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	// .env опционален, в проде переменные приходят из окружения
	if err := godotenv.Load(); err != nil {
		logrus.Info(".env file not found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("failed to load configuration")
	}

	if cfg.Env == "production" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}

	db, err := database.NewPostgresDB(cfg.DatabaseURL)
	if err != nil {
		logrus.WithError(err).Fatal("failed to connect to database")
	}
	defer db.Close()

	if err := database.RunMigrations(db); err != nil {
		logrus.WithError(err).Fatal("failed to run migrations")
	}

	repos := repository.NewRepositories(db)
	services := service.NewServices(repos, cfg)

	server := api.NewServer(cfg, services)

	logrus.WithField("port", cfg.Port).Info("starting finanzas-tracker server")
	if err := server.Run(":" + cfg.Port); err != nil {
		logrus.WithError(err).Fatal("server stopped")
	}
}
