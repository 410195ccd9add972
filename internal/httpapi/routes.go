package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/GodfreyDev/CahootKlone/internal/hub"
	"github.com/GodfreyDev/CahootKlone/internal/quiz"
	"github.com/GodfreyDev/CahootKlone/internal/ws"
)

func SetupRoutes(h *hub.Hub, catalog quiz.Catalog, publicBaseURL string, log *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", Healthz)
	r.Get("/ws", ws.Handler(h, log))
	r.Get("/qr", JoinQR(publicBaseURL))

	r.Route("/api/quizzes", func(r chi.Router) {
		r.Get("/", ListQuizzes(catalog, log))
		r.Post("/", CreateQuiz(catalog, h, log))
		r.Get("/{id}", GetQuiz(catalog, log))
		r.Put("/{id}", UpdateQuiz(catalog, h, log))
		r.Delete("/{id}", DeleteQuiz(catalog, h, log))
	})

	return r
}
