package routes

import (
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/venique/rooster/app"
	"github.com/venique/rooster/form"
	"github.com/venique/rooster/httpx"
	"github.com/venique/rooster/log"
	"github.com/venique/rooster/model"
	"github.com/venique/rooster/report"
	"github.com/venique/rooster/store"
	"github.com/venique/rooster/window"
)

func GetForm(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := window.Evaluate(app.Schema, app.Clock(), app.Timezone)
		if status.Warning != "" {
			log.Warn("window.config:", status.Warning)
		}

		if status.State != window.StateOpen {
			render.JSON(w, r, map[string]any{"window": status})
			return
		}

		days := app.Schema.ServiceDays(status.TargetMonth)
		questions := form.BuildForm(app.Schema.Questions, days)

		directors := []string{}
		seen := map[string]bool{}
		for _, pair := range app.Schema.Roster {
			if !seen[pair.Director] {
				seen[pair.Director] = true
				directors = append(directors, pair.Director)
			}
		}
		sort.Strings(directors)

		render.JSON(w, r, map[string]any{
			"window":      status,
			"questions":   form.Resolve(questions, model.AnswerSet{}),
			"directors":   directors,
			"requiredYes": form.RequiredYes(len(form.DateLabels(days))),
		})
	}
}

// EvaluateFormState recomputes question visibility for the caller's current
// answers. The client calls this after every change instead of duplicating
// the condition logic in javascript.
func EvaluateFormState(app app.App) http.HandlerFunc {
	type stateRequest struct {
		Answers model.AnswerSet `json:"answers"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		req := stateRequest{}
		err := render.DecodeJSON(r.Body, &req)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}
		if req.Answers == nil {
			req.Answers = model.AnswerSet{}
		}

		status := window.Evaluate(app.Schema, app.Clock(), app.Timezone)
		days := app.Schema.ServiceDays(status.TargetMonth)
		labels := form.DateLabels(days)
		questions := form.BuildForm(app.Schema.Questions, days)

		yesCount := form.YesCount(req.Answers, labels)
		required := form.RequiredYes(len(labels))

		render.JSON(w, r, map[string]any{
			"window":         status,
			"questions":      form.Resolve(questions, req.Answers),
			"yesCount":       yesCount,
			"requiredYes":    required,
			"reasonRequired": yesCount < required,
		})
	}
}

func GetRosterPool(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		director := chi.URLParam(r, "director")

		known := false
		for _, pair := range app.Schema.Roster {
			if pair.Director == director {
				known = true
				break
			}
		}
		if !known {
			httpx.LogNotFound(w, "get_roster_pool", director)
			return
		}

		header, rows, err := app.All(r.Context())
		if err != nil {
			httpx.LogInternalError(w, "db.get_responses", err)
			return
		}

		status := window.Evaluate(app.Schema, app.Clock(), app.Timezone)
		pool := report.AvailablePersons(app.Schema.Roster, report.Parse(header, rows), director, status.TargetMonth)

		render.JSON(w, r, map[string]any{
			"director": director,
			"persons":  pool,
		})
	}
}

func SubmitForm(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sub := form.Submission{}
		err := render.DecodeJSON(r.Body, &sub)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}
		if sub.Answers == nil {
			sub.Answers = model.AnswerSet{}
		}

		// The gate runs again here: a session opened before the deadline is
		// still late if it submits after it.
		status := window.Evaluate(app.Schema, app.Clock(), app.Timezone)
		if status.Warning != "" {
			log.Warn("window.config:", status.Warning)
		}
		if status.State != window.StateOpen {
			httpx.LogStatusMsg(w, http.StatusForbidden, log.DebugLevel, "submit.window",
				"submissions for %s are %s", status.TargetMonth, status.State)
			return
		}

		days := app.Schema.ServiceDays(status.TargetMonth)
		if problems := form.Validate(days, sub); problems != nil {
			log.Debug("submit.validate:", problems)
			w.WriteHeader(http.StatusUnprocessableEntity)
			render.JSON(w, r, map[string]any{"errors": problems})
			return
		}

		header, rows, err := app.All(r.Context())
		if err != nil {
			httpx.LogInternalError(w, "db.get_responses", err)
			return
		}
		pool := report.AvailablePersons(app.Schema.Roster, report.Parse(header, rows), sub.Director, status.TargetMonth)
		if !contains(pool, sub.Person) {
			httpx.LogStatusMsg(w, http.StatusConflict, log.DebugLevel, "submit.pool",
				"%q is no longer selectable under director %q", sub.Person, sub.Director)
			return
		}

		rec := store.NewRecord(
			uuid.NewString(), app.Clock(),
			status.TargetMonth, sub.Director, sub.Person, sub.Reason,
			sub.Answers, form.DateLabels(days),
		)

		if err := app.Append(r.Context(), rec); err != nil {
			// The record is still composed client-side; tell the caller to
			// retry rather than refill the form.
			log.Errorf("db.append_response: %s", err)
			httpx.LogStatusMsg(w, http.StatusServiceUnavailable, log.DebugLevel, "submit.store",
				"could not save your response, please try submitting again")
			return
		}

		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, map[string]any{
			"id":      rec.ID,
			"month":   rec.Month,
			"receipt": report.Receipt(rec),
		})
	}
}

func contains(list []string, want string) bool {
	for _, item := range list {
		if item == want {
			return true
		}
	}
	return false
}
