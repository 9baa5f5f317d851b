package http

import (
	"net/http"

	"go.uber.org/zap"
)

// NewRouter собирает маршруты и цепочку middleware
func NewRouter(scheduleHandler *ScheduleHandler, bookingHandler *BookingHandler, logger *zap.Logger) http.Handler {
	mux := http.NewServeMux()
	scheduleHandler.Register(mux)
	bookingHandler.Register(mux)

	var handler http.Handler = mux
	handler = Identity(logger)(handler)
	handler = RequestLogger(logger)(handler)

	return handler
}
