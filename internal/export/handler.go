package export

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/shapy/shapy/backend-go/internal/auth"
	"github.com/shapy/shapy/backend-go/internal/scenes"
)

type Handler struct {
	scenes *scenes.Service
}

func NewHandler(sceneService *scenes.Service) *Handler {
	return &Handler{scenes: sceneService}
}

// ExportOBJ handles GET /api/scenes/{sceneId}/export/obj: the scene's
// latest snapshot rendered as a Wavefront OBJ download.
func (h *Handler) ExportOBJ(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	sceneID := mux.Vars(r)["sceneId"]

	if err := h.scenes.CheckMembership(r.Context(), sceneID, userID); err != nil {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	scene, err := h.scenes.LoadScene(r.Context(), sceneID)
	if err != nil {
		if errors.Is(err, scenes.ErrNotFound) {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		slog.Error("load scene for export", "error", err, "scene", sceneID)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := WriteOBJ(&buf, scene); err != nil {
		slog.Error("write obj", "error", err, "scene", sceneID)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "model/obj")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.obj"`, sceneID))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Write(buf.Bytes())

	slog.Info("export complete", "scene", sceneID, "size", buf.Len())
}
