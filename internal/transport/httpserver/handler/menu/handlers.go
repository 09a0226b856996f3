package menu

import (
	"time"

	attendancedomain "mess-app-go/internal/domain/attendance"
	menudomain "mess-app-go/internal/domain/menu"
	commonhandler "mess-app-go/internal/transport/httpserver/handler/common"
	"mess-app-go/pkg/logger"
)

type Handlers struct {
	Menu       *menudomain.Service
	Attendance *attendancedomain.Service
	location   *time.Location
	now        func() time.Time
	validate   *commonhandler.Validator
	log        logger.Logger
}

func New(menu *menudomain.Service, attendance *attendancedomain.Service, location *time.Location, validate *commonhandler.Validator, log logger.Logger) *Handlers {
	return &Handlers{
		Menu:       menu,
		Attendance: attendance,
		location:   location,
		now:        time.Now,
		validate:   validate,
		log:        log,
	}
}
