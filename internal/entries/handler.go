package entries

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/2beens/gymlogger/internal/telemetry/metrics"
	"github.com/2beens/gymlogger/internal/telemetry/tracing"
	"github.com/2beens/gymlogger/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=entries_test

const maxEntryBodyBytes = 64 * 1024

type entriesRepo interface {
	Add(ctx context.Context, userID string, entry Entry) (string, error)
	List(ctx context.Context, userID string, kind Kind) ([]Entry, error)
	Delete(ctx context.Context, userID, entryID string) (Kind, error)
}

type DeleteResponse struct {
	DeletedID string `json:"deletedId"`
}

type Handler struct {
	repo           entriesRepo
	metricsManager *metrics.Manager
}

func NewHandler(repo entriesRepo, metricsManager *metrics.Manager) *Handler {
	return &Handler{
		repo:           repo,
		metricsManager: metricsManager,
	}
}

func (h *Handler) SetupRoutes(r *mux.Router) {
	r.HandleFunc("/entries/{userId}", h.HandleList).Methods("GET", "OPTIONS").Name("list-entries")
	r.HandleFunc("/entries/{userId}", h.HandleCreate).Methods("POST", "OPTIONS").Name("new-entry")
	r.HandleFunc("/entries/{userId}/{entryId}", h.HandleDelete).Methods("DELETE", "OPTIONS").Name("delete-entry")
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.entries.list")
	defer span.End()

	userID := mux.Vars(r)["userId"]
	kind := Kind(r.URL.Query().Get("type"))
	span.SetAttributes(attribute.String("type", kind.String()))
	if !kind.IsValid() {
		pkg.WriteJSONError(w, "invalid or missing type, must be one of: weightlifting, body_weight, cardio", http.StatusBadRequest)
		return
	}

	entries, err := h.repo.List(ctx, userID, kind)
	if err != nil {
		log.Errorf("list %s entries for user %s: %s", kind, userID, err)
		span.SetStatus(codes.Error, err.Error())
		pkg.WriteJSONError(w, "failed to list entries", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSON(w, entries, http.StatusOK)
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.entries.create")
	defer span.End()

	if !strings.HasPrefix(r.Header.Get("Content-Type"), pkg.ContentType.JSON) {
		pkg.WriteJSONError(w, "invalid content type", http.StatusBadRequest)
		return
	}

	userID := mux.Vars(r)["userId"]

	var entry Entry
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxEntryBodyBytes)).Decode(&entry); err != nil {
		log.Tracef("new entry, unmarshal json: %s", err)
		pkg.WriteJSONError(w, "invalid entry: "+err.Error(), http.StatusBadRequest)
		return
	}
	span.SetAttributes(attribute.String("type", entry.Kind().String()))

	if err := entry.Validate(); err != nil {
		pkg.WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	id, err := h.repo.Add(ctx, userID, entry)
	if err != nil {
		log.Errorf("add %s entry for user %s: %s", entry.Kind(), userID, err)
		span.SetStatus(codes.Error, err.Error())
		if errors.Is(err, ErrDuplicateID) {
			pkg.WriteJSONError(w, err.Error(), http.StatusConflict)
			return
		}
		pkg.WriteJSONError(w, "failed to add entry", http.StatusInternalServerError)
		return
	}

	h.metricsManager.CounterEntriesCreated.WithLabelValues(entry.Kind().String()).Inc()
	log.Debugf("new %s entry added: %s", entry.Kind(), id)

	pkg.WriteJSON(w, CreateResponse{ID: id}, http.StatusCreated)
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.entries.delete")
	defer span.End()

	vars := mux.Vars(r)
	userID := vars["userId"]
	entryID := vars["entryId"]

	kind, err := h.repo.Delete(ctx, userID, entryID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			pkg.WriteJSONError(w, err.Error(), http.StatusNotFound)
			return
		}
		log.Errorf("delete entry %s for user %s: %s", entryID, userID, err)
		span.SetStatus(codes.Error, err.Error())
		pkg.WriteJSONError(w, "failed to delete entry", http.StatusInternalServerError)
		return
	}

	h.metricsManager.CounterEntriesDeleted.WithLabelValues(kind.String()).Inc()
	pkg.WriteJSON(w, DeleteResponse{DeletedID: entryID}, http.StatusOK)
}
