package handler

import (
	adminhandler "mess-app-go/internal/transport/httpserver/handler/admin"
	attendancehandler "mess-app-go/internal/transport/httpserver/handler/attendance"
	commonhandler "mess-app-go/internal/transport/httpserver/handler/common"
	menuhandler "mess-app-go/internal/transport/httpserver/handler/menu"
	reviewshandler "mess-app-go/internal/transport/httpserver/handler/reviews"
)

type Handlers struct {
	Common     *commonhandler.Handlers
	Attendance *attendancehandler.Handlers
	Menu       *menuhandler.Handlers
	Reviews    *reviewshandler.Handlers
	Admin      *adminhandler.Handlers
}

func New(common *commonhandler.Handlers, attendance *attendancehandler.Handlers, menu *menuhandler.Handlers, reviews *reviewshandler.Handlers, admin *adminhandler.Handlers) *Handlers {
	return &Handlers{
		Common:     common,
		Attendance: attendance,
		Menu:       menu,
		Reviews:    reviews,
		Admin:      admin,
	}
}
