package routers

import (
	"mockprep/interview/internal/handlers"
	"mockprep/interview/internal/middleware"
	"mockprep/interview/internal/models"

	"github.com/go-chi/chi/v5"
)

func InterviewRoutes(router *chi.Mux, interviewHandler *handlers.InterviewHandler, jwtSecret string) {
	router.Route("/api/v1/interviews", func(r chi.Router) {
		r.Use(middleware.Authenticate(jwtSecret))

		r.With(middleware.ValidateRequest[*models.CreateSessionRequest]()).Post("/", interviewHandler.CreateSessionHandler)
		r.Get("/", interviewHandler.ListSessionsHandler)

		r.Route("/{sessionId}", func(r chi.Router) {
			r.Get("/next", interviewHandler.NextQuestionHandler)
			r.With(middleware.ValidateRequest[*models.SubmitAnswerRequest]()).Post("/answer", interviewHandler.SubmitAnswerHandler)
			r.Post("/complete", interviewHandler.CompleteSessionHandler)
			r.Get("/summary", interviewHandler.SummaryHandler)
			r.Get("/report", interviewHandler.ReportHandler)
		})
	})
}
