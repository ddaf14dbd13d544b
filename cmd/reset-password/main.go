// Command reset-password sets a new password for a local account and revokes
// its sessions. It talks to the database directly; the API need not be running.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go-asset-ledger/internal/audit"
	"go-asset-ledger/internal/config"
	"go-asset-ledger/internal/model"
	"go-asset-ledger/internal/service"
	"go-asset-ledger/internal/telemetry"
	"go-asset-ledger/pkg/database"
	"go-asset-ledger/pkg/jwt"
)

func main() {
	username := flag.String("user", "admin", "account to reset")
	password := flag.String("password", "admin123", "new password (min 6 characters)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "load config:", err)
		os.Exit(1)
	}
	log := telemetry.SetupLogger(cfg.LogFormat, cfg.LogLevel)

	db, err := database.Open(database.Options{Driver: cfg.DBDriver, DSN: cfg.DSN(), Logger: log})
	if err != nil {
		log.Error("open database", "error", err)
		os.Exit(1)
	}
	defer database.Close(db)
	if err := database.Migrate(db, model.All()...); err != nil {
		log.Error("migrate database", "error", err)
		os.Exit(1)
	}

	auth := service.NewAuthService(db, audit.NewLogger(db, log), jwt.NewManager(cfg.JWTSecret, cfg.JWTTTL), log)
	if err := auth.ResetPassword(context.Background(), *username, *password); err != nil {
		log.Error("reset password", "user", *username, "error", err)
		os.Exit(1)
	}
	log.Info("password reset, existing sessions revoked", "user", *username)
}
