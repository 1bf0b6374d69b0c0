package main

import (
	"context"
	"flag"
	"log"
	"time"

	"campus-market/config"
	"campus-market/internal/store"
	"campus-market/internal/util"

	"go.uber.org/zap"
)

// Runs goose against the embedded migrations, e.g.
//
//	go run ./cmd/migrate -cmd status
//	go run ./cmd/migrate -cmd down-to -arg 0
func main() {
	command := flag.String("cmd", "up", "goose command: up, down, status, redo, reset, version, down-to, up-to")
	arg := flag.String("arg", "", "optional argument for the command, e.g. a target version")
	flag.Parse()

	cfg := config.Load()
	if err := util.InitLogger(cfg.Server.Env, cfg.Server.LogLevel); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer util.SyncLogger()
	logger := util.GetLogger()

	db, err := store.NewStore(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	var args []string
	if *arg != "" {
		args = append(args, *arg)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := db.Migrate(ctx, *command, args...); err != nil {
		logger.Fatal("Migration failed", zap.String("cmd", *command), zap.Error(err))
	}
	logger.Info("Migration finished", zap.String("cmd", *command))
}
