package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"

	"github.com/xavierca1/ligue-crm/internal/config"
	"github.com/xavierca1/ligue-crm/internal/infra/database"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("❌ configuração inválida")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := database.Migrate(ctx, cfg.Database.URL); err != nil {
		log.WithError(err).Fatal("❌ falha nas migrations")
	}
	log.Info("✅ migrations aplicadas")
}
