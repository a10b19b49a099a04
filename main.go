package main

import (
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/demo/audittables/controllers"
	"github.com/demo/audittables/database"
	"github.com/demo/audittables/repositories"
	"github.com/demo/audittables/services"
)

func main() {
	// .env is optional; deployments may set the environment directly
	_ = godotenv.Load()

	logger, err := newLogger()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	dbPath := os.Getenv("DATABASE_PATH")
	if dbPath == "" {
		dbPath = "todos.db"
	}

	db, err := database.Initialize(dbPath)
	if err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	repos := repositories.NewRepositories(db)
	srvs := services.NewServices(db, repos, logger)
	ctrl := controllers.NewControllers(srvs)

	r := controllers.NewRouter(ctrl, logger)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	logger.Info("todo audit service starting",
		zap.String("port", port),
		zap.String("database", dbPath),
	)

	if err := http.ListenAndServe(":"+port, r); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

// newLogger builds the application logger; LOG_LEVEL=debug switches to the
// human-readable development config
func newLogger() (*zap.Logger, error) {
	if os.Getenv("LOG_LEVEL") == "debug" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
