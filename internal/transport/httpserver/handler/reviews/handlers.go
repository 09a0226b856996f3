package reviews

import (
	reviewdomain "mess-app-go/internal/domain/review"
	"mess-app-go/internal/metrics"
	commonhandler "mess-app-go/internal/transport/httpserver/handler/common"
	"mess-app-go/pkg/logger"
)

type Handlers struct {
	Reviews  *reviewdomain.Service
	metrics  *metrics.Metrics
	validate *commonhandler.Validator
	log      logger.Logger
}

func New(reviews *reviewdomain.Service, m *metrics.Metrics, validate *commonhandler.Validator, log logger.Logger) *Handlers {
	return &Handlers{
		Reviews:  reviews,
		metrics:  m,
		validate: validate,
		log:      log,
	}
}
