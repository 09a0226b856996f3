package attendance

import (
	attendancedomain "mess-app-go/internal/domain/attendance"
	"mess-app-go/internal/metrics"
	commonhandler "mess-app-go/internal/transport/httpserver/handler/common"
	"mess-app-go/pkg/logger"
)

type Handlers struct {
	Attendance *attendancedomain.Service
	metrics    *metrics.Metrics
	validate   *commonhandler.Validator
	log        logger.Logger
}

func New(attendance *attendancedomain.Service, m *metrics.Metrics, validate *commonhandler.Validator, log logger.Logger) *Handlers {
	return &Handlers{
		Attendance: attendance,
		metrics:    m,
		validate:   validate,
		log:        log,
	}
}
