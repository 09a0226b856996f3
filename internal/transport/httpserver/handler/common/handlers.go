package common

import (
	"context"

	accountdomain "mess-app-go/internal/domain/account"
	"mess-app-go/pkg/logger"
)

// HealthChecker reports whether a dependency is reachable.
type HealthChecker func(ctx context.Context) error

type Handlers struct {
	Accounts *accountdomain.Service
	health   HealthChecker
	validate *Validator
	log      logger.Logger
}

func New(accounts *accountdomain.Service, health HealthChecker, validate *Validator, log logger.Logger) *Handlers {
	return &Handlers{
		Accounts: accounts,
		health:   health,
		validate: validate,
		log:      log,
	}
}
