package web

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/2beens/gymlogger/internal/entries"
	"github.com/2beens/gymlogger/internal/forms"
	"github.com/2beens/gymlogger/internal/history"
	"github.com/2beens/gymlogger/internal/telemetry/tracing"
	"github.com/2beens/gymlogger/internal/tracker"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

const historyTabAll = "all"

type categoriesPage struct {
	Categories []string
}

type weightliftingPage struct {
	Category string
	Rows     []forms.Row
	Recent   tableData
}

type bodyWeightPage struct {
	Weight string
	Recent tableData
}

type cardioPage struct {
	Form   forms.CardioForm
	Recent tableData
}

type historyTab struct {
	Value string
	Label string
}

type historyPage struct {
	Tabs    []historyTab
	Tab     string
	Heading string
	Empty   string
	Table   tableData
}

type confirmDeletePage struct {
	Kind     entries.Kind
	ReturnTo string
}

var historyTabs = []historyTab{
	{Value: string(entries.KindWeightlifting), Label: "Weightlifting"},
	{Value: string(entries.KindBodyWeight), Label: "Body Weight"},
	{Value: string(entries.KindCardio), Label: "Cardio"},
	{Value: historyTabAll, Label: "All"},
}

func (a *App) handleCategories(w http.ResponseWriter, r *http.Request) {
	a.render(w, r, "categories.html", pageData{
		Title: "Weightlifting",
		Tab:   "dashboard",
		Page:  categoriesPage{Categories: forms.Categories},
	})
}

func (a *App) handleWeightlifting(w http.ResponseWriter, r *http.Request) {
	category := mux.Vars(r)["category"]
	if !forms.IsCategory(category) {
		http.NotFound(w, r)
		return
	}

	unlock := a.lockForms()
	rows := a.liftForm(category).Rows()
	unlock()

	recent := history.FilterCategory(
		history.LastSevenDays(a.tracker.Entries(entries.KindWeightlifting), a.NowFunc()),
		category,
	)
	a.render(w, r, "weightlifting.html", pageData{
		Title: category,
		Tab:   "dashboard",
		Page: weightliftingPage{
			Category: category,
			Rows:     rows,
			Recent:   a.table(r, recent, r.URL.EscapedPath()),
		},
	})
}

func (a *App) handleLogWeightlifting(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "web.logWeightlifting")
	defer span.End()

	category := mux.Vars(r)["category"]
	if !forms.IsCategory(category) {
		http.NotFound(w, r)
		return
	}
	span.SetAttributes(attribute.String("category", category))

	unlock := a.lockForms()
	form := a.liftForm(category)
	for i, row := range form.Rows() {
		form.Set(row.Exercise, forms.SetInput{
			Weight: r.PostFormValue(fmt.Sprintf("weight_%d", i)),
			Reps:   r.PostFormValue(fmt.Sprintf("reps_%d", i)),
			Sets:   r.PostFormValue(fmt.Sprintf("sets_%d", i)),
		})
	}
	text, err := a.tracker.LogWeightlifting(ctx, form)
	unlock()

	a.setMessage(r.URL.Path, text, err == nil)
	redirect(w, r, r.URL.EscapedPath())
}

func (a *App) handleBodyWeight(w http.ResponseWriter, r *http.Request) {
	unlock := a.lockForms()
	weight := a.bodyWeightForm.Weight
	unlock()

	recent := history.LastSevenDays(a.tracker.Entries(entries.KindBodyWeight), a.NowFunc())
	a.render(w, r, "body_weight.html", pageData{
		Title: "Body Weight",
		Tab:   "dashboard",
		Page: bodyWeightPage{
			Weight: weight,
			Recent: a.table(r, recent, r.URL.Path),
		},
	})
}

func (a *App) handleLogBodyWeight(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "web.logBodyWeight")
	defer span.End()

	unlock := a.lockForms()
	a.bodyWeightForm.Weight = r.PostFormValue("weight")
	text, err := a.tracker.LogBodyWeight(ctx, a.bodyWeightForm)
	unlock()

	a.setMessage(r.URL.Path, text, err == nil)
	redirect(w, r, r.URL.Path)
}

func (a *App) handleCardio(w http.ResponseWriter, r *http.Request) {
	unlock := a.lockForms()
	if section := entries.CardioSubtype(r.URL.Query().Get("section")); section.IsValid() {
		a.cardioForm.Section = section
	}
	form := *a.cardioForm
	unlock()

	recent := history.LastSevenDays(a.tracker.Entries(entries.KindCardio), a.NowFunc())
	a.render(w, r, "cardio.html", pageData{
		Title: "Cardio",
		Tab:   "dashboard",
		Page: cardioPage{
			Form:   form,
			Recent: a.table(r, recent, r.URL.Path),
		},
	})
}

func (a *App) handleLogCardio(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "web.logCardio")
	defer span.End()

	unlock := a.lockForms()
	form := a.cardioForm
	if section := entries.CardioSubtype(r.PostFormValue("section")); section.IsValid() {
		form.Section = section
	}
	form.Time = r.PostFormValue("time")
	form.Distance = r.PostFormValue("distance")
	form.Interval = r.PostFormValue("interval")
	form.Power = r.PostFormValue("power")
	text, err := a.tracker.LogCardio(ctx, form)
	unlock()

	a.setMessage(r.URL.Path, text, err == nil)
	redirect(w, r, r.URL.Path)
}

// handleHistory shows a collection as fetched (newest local additions on
// top), or all three merged by timestamp.
func (a *App) handleHistory(w http.ResponseWriter, r *http.Request) {
	tab := r.URL.Query().Get("tab")
	if tab != historyTabAll && !entries.Kind(tab).IsValid() {
		tab = string(entries.KindWeightlifting)
	}
	returnTo := "/history?tab=" + tab

	page := historyPage{Tabs: historyTabs, Tab: tab}
	switch kind := entries.Kind(tab); kind {
	case entries.KindWeightlifting:
		page.Heading, page.Empty = "Weightlifting History", "No weightlifting data available."
		page.Table = a.table(r, a.tracker.Entries(kind), returnTo)
	case entries.KindBodyWeight:
		page.Heading, page.Empty = "Body Weight History", "No body weight data available."
		page.Table = a.table(r, a.tracker.Entries(kind), returnTo)
	case entries.KindCardio:
		page.Heading, page.Empty = "Cardio History", "No cardio data available."
		page.Table = a.table(r, a.tracker.Entries(kind), returnTo)
	default:
		page.Heading, page.Empty = "All History", "No data available for this category."
		page.Table = a.table(r, history.Combined(
			a.tracker.Entries(entries.KindWeightlifting),
			a.tracker.Entries(entries.KindBodyWeight),
			a.tracker.Entries(entries.KindCardio),
		), returnTo)
		page.Table.ShowType = true
	}

	a.render(w, r, "history.html", pageData{Title: "History", Tab: "history", Page: page})
}

func (a *App) handleRequestDelete(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	returnTo := safeReturnPath(r.PostFormValue("return_to"))

	if err := a.tracker.RequestDelete(entries.Kind(vars["kind"]), vars["id"]); err != nil {
		log.Debugf("request delete %s/%s: %s", vars["kind"], vars["id"], err)
		a.setMessage(messageKey(returnTo), "Error deleting data: "+tracker.ErrorText(err), false)
		redirect(w, r, returnTo)
		return
	}

	redirect(w, r, "/confirm-delete?return_to="+url.QueryEscape(returnTo))
}

func (a *App) handleConfirmDeletePage(w http.ResponseWriter, r *http.Request) {
	returnTo := safeReturnPath(r.URL.Query().Get("return_to"))
	pending, ok := a.tracker.PendingDelete()
	if !ok {
		redirect(w, r, returnTo)
		return
	}

	a.render(w, r, "confirm_delete.html", pageData{
		Title: "Delete Entry",
		Tab:   "history",
		Page:  confirmDeletePage{Kind: pending.Kind, ReturnTo: returnTo},
	})
}

func (a *App) handleConfirmDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "web.confirmDelete")
	defer span.End()

	returnTo := safeReturnPath(r.PostFormValue("return_to"))
	if r.PostFormValue("action") != "confirm" {
		a.tracker.CancelDelete()
		redirect(w, r, returnTo)
		return
	}

	text, err := a.tracker.ConfirmDelete(ctx)
	if errors.Is(err, tracker.ErrNoPendingDelete) {
		redirect(w, r, returnTo)
		return
	}
	a.setMessage(messageKey(returnTo), text, err == nil)
	redirect(w, r, returnTo)
}
