package admin

import (
	"net/http"
	"time"

	commonhandler "mess-app-go/internal/transport/httpserver/handler/common"
)

func writeError(w http.ResponseWriter, status int, code, message string) {
	commonhandler.WriteError(w, status, code, message)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	commonhandler.WriteJSON(w, status, payload)
}

func formatDate(date time.Time) string {
	return commonhandler.FormatDate(date)
}
