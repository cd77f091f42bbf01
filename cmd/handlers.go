package main

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/sells-group/extractify/internal/model"
	"github.com/sells-group/extractify/internal/pipeline"
	"github.com/sells-group/extractify/internal/store"
)

// handlers carries the dependencies shared by all HTTP endpoints.
type handlers struct {
	pipeline *pipeline.Pipeline
	store    store.Store
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("write response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

func (h *handlers) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":        "ok",
		"llm_available": h.pipeline.Resolver().ModelAvailable(),
	})
}

func (h *handlers) extract(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text     string `json:"text"`
		FileName string `json:"fileName"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.FileName == "" {
		req.FileName = "request"
	}

	res, err := h.pipeline.ExtractOne(r.Context(), req.Text, req.FileName)
	if err != nil {
		if errors.Is(err, pipeline.ErrNoText) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		zap.L().Error("extract failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "extraction failed")
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *handlers) extractBulk(w http.ResponseWriter, r *http.Request) {
	data, fileName, err := readUpload(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	batch, err := h.pipeline.Bulk(r.Context(), data, fileName)
	if err != nil {
		if errors.Is(err, pipeline.ErrNoText) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		zap.L().Error("bulk extract failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "extraction failed")
		return
	}
	writeJSON(w, http.StatusOK, batch)
}

// readUpload accepts either a multipart form with a "file" part or a raw
// request body.
func readUpload(r *http.Request) ([]byte, string, error) {
	ct := r.Header.Get("Content-Type")
	if strings.HasPrefix(ct, "multipart/form-data") {
		file, header, err := r.FormFile("file")
		if err != nil {
			return nil, "", errors.New("missing file upload")
		}
		defer file.Close()
		data, err := io.ReadAll(file)
		if err != nil {
			return nil, "", errors.New("read file upload")
		}
		return data, header.Filename, nil
	}

	data, err := io.ReadAll(r.Body)
	if err != nil || len(data) == 0 {
		return nil, "", errors.New("empty request body")
	}
	fileName := r.Header.Get("X-File-Name")
	if fileName == "" {
		fileName = "upload"
	}
	return data, fileName, nil
}

func (h *handlers) listConversations(w http.ResponseWriter, r *http.Request) {
	filter := store.ListFilter{
		Limit:  queryInt(r, "limit", 100),
		Offset: queryInt(r, "offset", 0),
	}
	list, err := h.store.ListConversations(r.Context(), filter)
	if err != nil {
		zap.L().Error("list conversations", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "list failed")
		return
	}
	if list == nil {
		list = []model.StoredConversation{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *handlers) getConversation(w http.ResponseWriter, r *http.Request) {
	sc, err := h.store.GetConversation(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			writeError(w, http.StatusNotFound, "conversation not found")
			return
		}
		zap.L().Error("get conversation", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "get failed")
		return
	}
	writeJSON(w, http.StatusOK, sc)
}

func (h *handlers) createConversation(w http.ResponseWriter, r *http.Request) {
	var req store.SaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Content) == "" && req.Result == nil {
		writeError(w, http.StatusBadRequest, "content is required")
		return
	}

	sc, err := h.store.CreateConversation(r.Context(), req)
	if err != nil {
		zap.L().Error("create conversation", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "save failed")
		return
	}
	writeJSON(w, http.StatusCreated, sc)
}

func (h *handlers) deleteConversation(w http.ResponseWriter, r *http.Request) {
	err := h.store.DeleteConversation(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			writeError(w, http.StatusNotFound, "conversation not found")
			return
		}
		zap.L().Error("delete conversation", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "delete failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *handlers) bulkSave(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Conversations []store.SaveRequest `json:"conversations"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Conversations) == 0 {
		writeError(w, http.StatusBadRequest, "conversations is required")
		return
	}

	saved := 0
	for _, sr := range req.Conversations {
		if _, err := h.store.CreateConversation(r.Context(), sr); err != nil {
			zap.L().Error("bulk save conversation", zap.Error(err))
			continue
		}
		saved++
	}
	writeJSON(w, http.StatusOK, map[string]int{"saved": saved, "total": len(req.Conversations)})
}

func queryInt(r *http.Request, key string, def int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return def
	}
	return n
}
