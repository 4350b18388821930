package routes

import (
	"net/http"

	"github.com/go-chi/render"

	"github.com/venique/rooster/app"
	"github.com/venique/rooster/httpx"
	"github.com/venique/rooster/model"
	"github.com/venique/rooster/report"
	"github.com/venique/rooster/window"
)

// ExportResponses dumps the whole response log, every historical row
// included, with the reconciled header.
func ExportResponses(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header, rows, err := app.All(r.Context())
		if err != nil {
			httpx.LogInternalError(w, "db.get_responses", err)
			return
		}

		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="responses.csv"`)
		if err := report.WriteCSV(w, header, rows); err != nil {
			httpx.LogInternalError(w, "admin.export_responses.write", err)
		}
	}
}

func GetNonResponders(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		month, missing, err := nonResponders(app, r)
		if err != nil {
			httpx.LogInternalError(w, "db.get_responses", err)
			return
		}

		render.JSON(w, r, map[string]any{
			"month":         month,
			"nonResponders": missing,
		})
	}
}

func ExportNonResponders(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		month, missing, err := nonResponders(app, r)
		if err != nil {
			httpx.LogInternalError(w, "db.get_responses", err)
			return
		}

		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="non_responders_`+month+`.csv"`)
		if err := report.WriteNonRespondersCSV(w, missing); err != nil {
			httpx.LogInternalError(w, "admin.export_non_responders.write", err)
		}
	}
}

func nonResponders(app app.App, r *http.Request) (string, []model.RosterEntry, error) {
	header, rows, err := app.All(r.Context())
	if err != nil {
		return "", nil, err
	}

	status := window.Evaluate(app.Schema, app.Clock(), app.Timezone)
	missing := report.NonResponders(app.Schema.Roster, report.Parse(header, rows), status.TargetMonth)
	if missing == nil {
		missing = []model.RosterEntry{}
	}
	return status.TargetMonth, missing, nil
}
