package handler

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/quailholm/wolfgame-go/internal/api/response"
	"github.com/quailholm/wolfgame-go/internal/model"
	"github.com/quailholm/wolfgame-go/internal/storage"
)

const defaultArchiveLimit = 25

// ArchiveHandler serves records of finished games
type ArchiveHandler struct {
	storage storage.Storage
}

// NewArchiveHandler creates a new archive handler
func NewArchiveHandler(store storage.Storage) *ArchiveHandler {
	return &ArchiveHandler{
		storage: store,
	}
}

// List handles GET /api/v1/archives
func (h *ArchiveHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := defaultArchiveLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			WriteError(w, NewInvalidRequestError("limit must be a positive integer"))
			return
		}
		limit = parsed
	}

	archives, err := h.storage.ListArchives(r.Context(), limit)
	if err != nil {
		WriteError(w, err)
		return
	}

	out := make([]response.Archive, len(archives))
	for i, a := range archives {
		out[i] = response.ArchiveSummaryFromModel(a)
	}
	response.JSON(w, http.StatusOK, response.ArchiveList{Archives: out})
}

// Get handles GET /api/v1/archives/{id}
func (h *ArchiveHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := model.ArchiveID(mux.Vars(r)["id"])

	archive, err := h.storage.GetArchive(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.ArchiveFromModel(archive))
}
