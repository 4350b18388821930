package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/venique/rooster/app"
	"github.com/venique/rooster/config"
	"github.com/venique/rooster/form"
	"github.com/venique/rooster/model"
	"github.com/venique/rooster/store"
)

const testAdminKey = "open-sesame"

func testApp(t *testing.T, now time.Time) app.App {
	t.Helper()

	deadline, err := time.Parse("2006-01-02 15:04", "2026-08-30 18:00")
	require.NoError(t, err)

	hash, err := bcrypt.GenerateFromPassword([]byte(testAdminKey), bcrypt.MinCost)
	require.NoError(t, err)

	sch := model.Schema{
		Questions: []model.Question{
			{ID: "Q1", Text: "Select director", Type: model.TypeDropdown, OptionsSource: model.OptionsNone},
			{ID: "Q2", Text: "Select your name", Type: model.TypeDropdown, OptionsSource: model.OptionsNone, DependsOn: []string{"Q1"}},
			{ID: "Q7", Text: "Why so few dates?", Type: model.TypeText, ShowCondition: "yes_count<3"},
		},
		Roster: []model.RosterEntry{
			{Director: "Alice", Person: "Cara"},
			{Director: "Alice", Person: "Bea"},
			{Director: "Dan", Person: "Eve"},
		},
		Dates: []model.ServiceDate{
			{TargetMonth: "2026-09", Label: "Sun 6 Sep", IsServiceDay: true},
			{TargetMonth: "2026-09", Label: "Sun 13 Sep", IsServiceDay: true},
			{TargetMonth: "2026-09", Label: "Sun 20 Sep", IsServiceDay: true},
			{TargetMonth: "2026-09", Label: "Sun 27 Sep", IsServiceDay: true},
			{TargetMonth: "2026-09", Label: "Tue 29 Sep", IsServiceDay: true},
		},
		Deadlines: []model.Deadline{
			{Month: "2026-09", Local: deadline, Timezone: "Pacific/Auckland"},
		},
	}

	return app.App{
		Store:  store.NewCSVStore(filepath.Join(t.TempDir(), "responses.csv")),
		Schema: sch,
		Config: config.Config{
			Timezone:     "Pacific/Auckland",
			AdminKeyHash: string(hash),
		},
		Now: func() time.Time { return now },
	}
}

func openTime(t *testing.T) time.Time {
	t.Helper()
	loc, err := time.LoadLocation("Pacific/Auckland")
	require.NoError(t, err)
	return time.Date(2026, 8, 15, 12, 0, 0, 0, loc)
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func fullAnswers(yes int) model.AnswerSet {
	labels := []string{"Sun 6 Sep", "Sun 13 Sep", "Sun 20 Sep", "Sun 27 Sep", "Tue 29 Sep"}
	answers := model.AnswerSet{}
	for i, label := range labels {
		if i < yes {
			answers[label] = "Yes"
		} else {
			answers[label] = "No"
		}
	}
	return answers
}

func TestGetForm_OpenWindow(t *testing.T) {
	handler := Wire(testApp(t, openTime(t)))

	w := doJSON(t, handler, "GET", "/api/form", nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)
	win := body["window"].(map[string]any)
	assert.Equal(t, "open", win["state"])
	assert.Equal(t, "2026-09", win["targetMonth"])
	assert.Equal(t, []any{"Alice", "Dan"}, body["directors"])
	assert.Equal(t, float64(3), body["requiredYes"])
	assert.Len(t, body["questions"], 8, "3 schema questions plus 5 date questions")
}

func TestGetForm_ClosedAfterDeadline(t *testing.T) {
	// Aug 31: past the deadline, still inside the 2026-09 collection cycle.
	handler := Wire(testApp(t, openTime(t).AddDate(0, 0, 16)))

	w := doJSON(t, handler, "GET", "/api/form", nil)
	require.Equal(t, http.StatusOK, w.Code)

	win := decode(t, w)["window"].(map[string]any)
	assert.Equal(t, "closed", win["state"])
}

func TestEvaluateFormState_ReasonBecomesRequired(t *testing.T) {
	handler := Wire(testApp(t, openTime(t)))

	w := doJSON(t, handler, "POST", "/api/form/state", map[string]any{"answers": fullAnswers(2)})
	require.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)
	assert.Equal(t, float64(2), body["yesCount"])
	assert.Equal(t, true, body["reasonRequired"])

	w = doJSON(t, handler, "POST", "/api/form/state", map[string]any{"answers": fullAnswers(3)})
	body = decode(t, w)
	assert.Equal(t, false, body["reasonRequired"])
}

func TestGetRosterPool_SortedOptions(t *testing.T) {
	handler := Wire(testApp(t, openTime(t)))

	w := doJSON(t, handler, "GET", "/api/roster/Alice", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []any{"Bea", "Cara"}, decode(t, w)["persons"])

	w = doJSON(t, handler, "GET", "/api/roster/Nobody", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSubmitForm_FullFlow(t *testing.T) {
	handler := Wire(testApp(t, openTime(t)))

	w := doJSON(t, handler, "POST", "/api/submissions", form.Submission{
		Director: "Alice",
		Person:   "Bea",
		Answers:  fullAnswers(4),
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	body := decode(t, w)
	assert.Equal(t, "2026-09", body["month"])
	assert.Contains(t, body["receipt"], "Serving Girl: Bea")

	// Bea drops out of the selectable pool.
	w = doJSON(t, handler, "GET", "/api/roster/Alice", nil)
	assert.Equal(t, []any{"Cara"}, decode(t, w)["persons"])

	// A second submission for the same person conflicts.
	w = doJSON(t, handler, "POST", "/api/submissions", form.Submission{
		Director: "Alice",
		Person:   "Bea",
		Answers:  fullAnswers(4),
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestSubmitForm_ValidationErrorsCollected(t *testing.T) {
	handler := Wire(testApp(t, openTime(t)))

	w := doJSON(t, handler, "POST", "/api/submissions", form.Submission{
		Director: "Alice",
		Person:   "Bea",
		Answers:  fullAnswers(2),
	})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	errs := decode(t, w)["errors"].(map[string]any)
	assert.Contains(t, errs, "Reason")
}

func TestSubmitForm_LateSubmissionRejected(t *testing.T) {
	handler := Wire(testApp(t, openTime(t).AddDate(0, 0, 16)))

	w := doJSON(t, handler, "POST", "/api/submissions", form.Submission{
		Director: "Alice",
		Person:   "Bea",
		Answers:  fullAnswers(4),
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "closed")
}

func TestAdminEndpoints_KeyProtected(t *testing.T) {
	handler := Wire(testApp(t, openTime(t)))

	req := httptest.NewRequest("GET", "/api/admin/responses.csv", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req = httptest.NewRequest("GET", "/api/admin/responses.csv", nil)
	req.Header.Set("X-Admin-Key", "wrong")
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	req = httptest.NewRequest("GET", "/api/admin/responses.csv", nil)
	req.Header.Set("X-Admin-Key", testAdminKey)
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, w.Body.String(), "Serving Girl")
}

func TestAdminNonResponders_CurrentCycle(t *testing.T) {
	a := testApp(t, openTime(t))
	handler := Wire(a)

	w := doJSON(t, handler, "POST", "/api/submissions", form.Submission{
		Director: "Alice",
		Person:   "Bea",
		Answers:  fullAnswers(5),
	})
	require.Equal(t, http.StatusCreated, w.Code)

	req := httptest.NewRequest("GET", "/api/admin/non-responders", nil)
	req.Header.Set("X-Admin-Key", testAdminKey)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode(t, rec)
	assert.Equal(t, "2026-09", body["month"])
	missing := body["nonResponders"].([]any)
	require.Len(t, missing, 2)
	first := missing[0].(map[string]any)
	assert.Equal(t, "Cara", first["person"])
}
