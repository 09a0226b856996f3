package admin

import (
	admindomain "mess-app-go/internal/domain/admin"
	statsdomain "mess-app-go/internal/domain/stats"
	"mess-app-go/internal/metrics"
	commonhandler "mess-app-go/internal/transport/httpserver/handler/common"
	"mess-app-go/internal/transport/httpserver/middleware"
	"mess-app-go/pkg/logger"
)

type Handlers struct {
	Stats    *statsdomain.Service
	Gateway  *admindomain.Gateway
	accounts middleware.Accounts
	metrics  *metrics.Metrics
	validate *commonhandler.Validator
	log      logger.Logger
}

func New(stats *statsdomain.Service, gateway *admindomain.Gateway, accounts middleware.Accounts, m *metrics.Metrics, validate *commonhandler.Validator, log logger.Logger) *Handlers {
	return &Handlers{
		Stats:    stats,
		Gateway:  gateway,
		accounts: accounts,
		metrics:  m,
		validate: validate,
		log:      log,
	}
}
