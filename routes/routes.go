package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/venique/rooster/app"
	"github.com/venique/rooster/routes/middlewares"
)

func Wire(app app.App) http.Handler {
	root := chi.NewRouter()
	root.Use(middleware.Logger, middleware.Recoverer)

	root.Mount("/api", apiRouter(app))
	root.Mount("/", servePublicFiles())

	return root
}

func apiRouter(app app.App) http.Handler {
	api := chi.NewRouter()

	api.Get("/form", GetForm(app))
	api.Post("/form/state", EvaluateFormState(app))
	api.Get("/roster/{director}", GetRosterPool(app))
	api.Post("/submissions", SubmitForm(app))

	api.Route("/admin", func(r chi.Router) {
		r.Use(middlewares.AdminKey(app.AdminKeyHash))

		r.Get("/responses.csv", ExportResponses(app))
		r.Get("/non-responders", GetNonResponders(app))
		r.Get("/non-responders.csv", ExportNonResponders(app))
	})

	return api
}

func servePublicFiles() http.Handler {
	return http.FileServer(http.Dir("public"))
}
