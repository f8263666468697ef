package app

import (
	"context"

	"frontuser/internal/config"
	"frontuser/internal/domain/account"
	"frontuser/internal/domain/auth"
	"frontuser/internal/domain/party"
	"frontuser/internal/infrastructure/storage/postgres"
	"frontuser/internal/infrastructure/storage/postgres/account_repo"
	"frontuser/internal/infrastructure/storage/postgres/party_repo"
)

// App is the wired service.
type App struct {
	Config config.Config
	Infra  *Infra

	Accounts     account.Repository
	PartyService *party.PartyService
	JWT          *auth.JWTService
	AuthService  *auth.Service
	// AuthEvents is nil when the audit trail is disabled.
	AuthEvents *postgres.AuthEventLog
}

// New connects to the backends and builds the domain services.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	infra, err := setupInfra(ctx, cfg)
	if err != nil {
		return nil, err
	}

	accounts := account_repo.NewRepo(infra.TxManager)
	parties := party_repo.NewRepo(infra.TxManager)

	jwtService := auth.NewJWTService(auth.JWTConfig{
		Secret:         cfg.Auth.JWTSecret,
		Issuer:         cfg.Auth.JWTIssuer,
		AccessTokenTTL: cfg.Auth.AccessTokenTTL,
	})

	authService := auth.NewService(accounts, infra.Sessions, jwtService, infra.TxManager, auth.ServiceConfig{
		Provider:         cfg.Auth.Provider,
		MaxLoginAttempts: cfg.Auth.MaxLoginAttempts,
		LockDuration:     cfg.Auth.LockDuration,
		SessionTTL:       cfg.Auth.SessionTTL,
	})

	var events *postgres.AuthEventLog
	if cfg.Auth.AuditEvents {
		events, err = postgres.NewAuthEventLog(infra.TxManager)
		if err != nil {
			infra.Close()
			return nil, err
		}
		authService.WithAuditLog(events)
	}

	return &App{
		Config:       cfg,
		Infra:        infra,
		Accounts:     accounts,
		PartyService: party.NewService(parties),
		JWT:          jwtService,
		AuthService:  authService,
		AuthEvents:   events,
	}, nil
}

// Close releases the backends.
func (a *App) Close() {
	if a.AuthEvents != nil {
		a.AuthEvents.Close()
	}
	a.Infra.Close()
}
