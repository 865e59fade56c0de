package restore

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"offline-restore/internal/offline"
	"offline-restore/internal/platform/metrics"

	"github.com/go-chi/chi/v5"
)

const (
	playlistContentType = "application/vnd.apple.mpegurl"
	jsonContentType     = "application/json"
	segmentContentType  = "application/octet-stream"

	// maxSegmentBytes bounds a single segment upload.
	maxSegmentBytes = 64 << 20
)

// Handler exposes restore HTTP endpoints using go-chi.
type Handler struct {
	svc     *Service
	log     *slog.Logger
	metrics *metrics.Metrics
}

// NewHandler returns a Handler that uses the given Service, Logger, and optional Metrics.
// Metrics may be nil to disable metric recording (e.g. in tests).
func NewHandler(svc *Service, log *slog.Logger, m *metrics.Metrics) *Handler {
	return &Handler{svc: svc, log: log, metrics: m}
}

// Routes mounts every endpoint on r.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/manifests", h.ListManifests)
	r.Route("/manifests/{manifest_id}", func(r chi.Router) {
		r.Put("/", h.ImportManifest)
		r.Delete("/", h.DeleteManifest)
		r.Get("/restore", h.RestoreManifest)
		r.Route("/periods/{period}", func(r chi.Router) {
			r.Get("/master.m3u8", h.GetMasterPlaylist)
			r.Get("/streams/{stream_id}/playlist.m3u8", h.GetMediaPlaylist)
		})
	})
	r.Put("/segments/{key}", h.PutSegment)
	r.Get("/segments/{key}", h.GetSegment)
	r.Get("/fetch", h.FetchURI)
}

// ListManifests handles GET /manifests.
func (h *Handler) ListManifests(w http.ResponseWriter, r *http.Request) {
	ids, err := h.svc.List(r.Context())
	if err != nil {
		h.log.Error("list manifests failed", slog.String("error", err.Error()))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string][]ManifestID{"manifests": ids})
}

// ImportManifest handles PUT /manifests/{manifest_id}.
// Body: a ManifestRecord; its id is taken from the path.
func (h *Handler) ImportManifest(w http.ResponseWriter, r *http.Request) {
	id := ManifestID(chi.URLParam(r, "manifest_id"))
	if id == "" {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	var rec ManifestRecord
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		h.log.Debug("invalid manifest body", slog.String("error", err.Error()))
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	rec.ID = id

	if err := h.svc.Import(r.Context(), &rec); err != nil {
		if errors.Is(err, ErrInvalidManifest) {
			h.log.Info("manifest rejected",
				slog.String("manifest_id", string(id)),
				slog.String("error", err.Error()))
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.log.Error("import manifest failed", slog.String("manifest_id", string(id)), slog.String("error", err.Error()))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	h.log.Info("manifest imported",
		slog.String("manifest_id", string(id)),
		slog.Int("periods", len(rec.Periods)))
	w.WriteHeader(http.StatusCreated)
	if h.metrics != nil {
		h.metrics.IncManifestsImported()
	}
}

// DeleteManifest handles DELETE /manifests/{manifest_id}.
func (h *Handler) DeleteManifest(w http.ResponseWriter, r *http.Request) {
	id := ManifestID(chi.URLParam(r, "manifest_id"))
	if id == "" {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		h.log.Error("delete manifest failed", slog.String("manifest_id", string(id)), slog.String("error", err.Error()))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	h.log.Info("manifest deleted", slog.String("manifest_id", string(id)))
	w.WriteHeader(http.StatusNoContent)
}

// RestoreManifest handles GET /manifests/{manifest_id}/restore.
func (h *Handler) RestoreManifest(w http.ResponseWriter, r *http.Request) {
	id := ManifestID(chi.URLParam(r, "manifest_id"))

	m, err := h.svc.Restore(r.Context(), id)
	if err != nil {
		h.writeError(w, "restore failed", id, err)
		return
	}

	h.log.Info("manifest restored",
		slog.String("manifest_id", string(id)),
		slog.String("session_id", m.SessionID),
		slog.Int("periods", len(m.Periods)),
		slog.Int("variants", m.VariantCount()))
	if h.metrics != nil {
		h.metrics.ObserveRestore(m.VariantCount())
	}
	h.writeJSON(w, http.StatusOK, newManifestView(m))
}

// GetMasterPlaylist handles GET /manifests/{manifest_id}/periods/{period}/master.m3u8.
func (h *Handler) GetMasterPlaylist(w http.ResponseWriter, r *http.Request) {
	id := ManifestID(chi.URLParam(r, "manifest_id"))
	period, err := strconv.Atoi(chi.URLParam(r, "period"))
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	m3u8, err := h.svc.MasterPlaylist(r.Context(), id, period)
	if err != nil {
		h.writeError(w, "master playlist failed", id, err)
		return
	}
	h.writePlaylist(w, m3u8)
}

// GetMediaPlaylist handles GET /manifests/{manifest_id}/periods/{period}/streams/{stream_id}/playlist.m3u8.
func (h *Handler) GetMediaPlaylist(w http.ResponseWriter, r *http.Request) {
	id := ManifestID(chi.URLParam(r, "manifest_id"))
	period, perr := strconv.Atoi(chi.URLParam(r, "period"))
	streamID, serr := strconv.Atoi(chi.URLParam(r, "stream_id"))
	if perr != nil || serr != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	m3u8, err := h.svc.MediaPlaylist(r.Context(), id, period, streamID)
	if err != nil {
		h.writeError(w, "media playlist failed", id, err)
		return
	}
	h.writePlaylist(w, m3u8)
}

// PutSegment handles PUT /segments/{key}. Body: raw segment bytes.
func (h *Handler) PutSegment(w http.ResponseWriter, r *http.Request) {
	key, err := strconv.ParseInt(chi.URLParam(r, "key"), 10, 64)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxSegmentBytes))
	if err != nil {
		h.log.Debug("invalid segment body", slog.Int64("key", key), slog.String("error", err.Error()))
		if errors.As(err, new(*http.MaxBytesError)) {
			w.WriteHeader(http.StatusRequestEntityTooLarge)
			return
		}
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	if err := h.svc.PutSegment(r.Context(), key, data); err != nil {
		h.log.Error("store segment failed", slog.Int64("key", key), slog.String("error", err.Error()))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	h.log.Debug("segment stored", slog.Int64("key", key), slog.Int("size", len(data)))
	w.WriteHeader(http.StatusCreated)
}

// GetSegment handles GET /segments/{key}.
func (h *Handler) GetSegment(w http.ResponseWriter, r *http.Request) {
	key, err := strconv.ParseInt(chi.URLParam(r, "key"), 10, 64)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	data, err := h.svc.Segment(r.Context(), key)
	h.writeSegment(w, key, data, err)
}

// FetchURI handles GET /fetch?uri=offline:segment/<key>.
func (h *Handler) FetchURI(w http.ResponseWriter, r *http.Request) {
	uri := r.URL.Query().Get("uri")
	key, err := offline.ParseSegmentURI(uri)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	data, err := h.svc.Fetch(r.Context(), uri)
	h.writeSegment(w, key, data, err)
}

func (h *Handler) writeSegment(w http.ResponseWriter, key int64, data []byte, err error) {
	if errors.Is(err, ErrSegmentNotFound) {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if err != nil {
		h.log.Error("read segment failed", slog.Int64("key", key), slog.String("error", err.Error()))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", segmentContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
	if h.metrics != nil {
		h.metrics.IncSegmentsServed()
	}
}

// writeError maps service errors to status codes. Malformed stored records
// are a restoration failure, not a missing resource.
func (h *Handler) writeError(w http.ResponseWriter, msg string, id ManifestID, err error) {
	switch {
	case errors.Is(err, ErrManifestNotFound),
		errors.Is(err, ErrPeriodNotFound),
		errors.Is(err, ErrStreamNotFound):
		w.WriteHeader(http.StatusNotFound)
	case errors.Is(err, ErrInvalidManifest):
		h.log.Warn(msg,
			slog.String("manifest_id", string(id)),
			slog.String("error", err.Error()))
		if h.metrics != nil {
			h.metrics.IncRestoreFailures()
		}
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		h.log.Error(msg, slog.String("manifest_id", string(id)), slog.String("error", err.Error()))
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func (h *Handler) writePlaylist(w http.ResponseWriter, m3u8 string) {
	w.Header().Set("Content-Type", playlistContentType)
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(m3u8))
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", jsonContentType)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Debug("write response failed", slog.String("error", err.Error()))
	}
}
