package http

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Freeeeeet/lecture_booking/internal/model"
)

type contextKey int

const actorKey contextKey = iota

func ContextWithActor(ctx context.Context, actor model.Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

func ActorFromContext(ctx context.Context) (model.Actor, bool) {
	actor, ok := ctx.Value(actorKey).(model.Actor)
	return actor, ok
}

// Identity строит актора из заголовков X-User-ID и X-User-Role.
// Аутентификацию выполняет внешний шлюз, сюда заголовки приходят уже
// проверенными.
func Identity(logger *zap.Logger) func(http.Handler) http.Handler {
	responder := newResponder(logger)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := strconv.ParseInt(r.Header.Get("X-User-ID"), 10, 64)
			if err != nil || userID <= 0 {
				responder.writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "missing or invalid X-User-ID header"})
				return
			}

			role, err := model.ParseRole(r.Header.Get("X-User-Role"))
			if err != nil {
				responder.writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "missing or invalid X-User-Role header"})
				return
			}

			ctx := ContextWithActor(r.Context(), model.Actor{ID: userID, Role: role})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequestLogger логирует запросы с коррелирующим request_id
func RequestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			requestLogger := logger.With(
				zap.String("request_id", uuid.NewString()),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
			)

			next.ServeHTTP(w, r)

			requestLogger.Info("Request handled", zap.Duration("duration", time.Since(start)))
		})
	}
}
