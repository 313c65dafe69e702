// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"techblog/internal/editor"
	"techblog/internal/middleware"
	"techblog/internal/models"
	"techblog/internal/search"
)

const (
	maxEditorJSON = maxBodyLen*4 + 4<<10

	msgUploadBusy   = "이미지 업로드가 진행 중입니다."
	msgUploadFailed = "이미지 업로드에 실패했습니다."
)

type applyRequest struct {
	editor.Buffer
	Command editor.Command `json:"command"`
}

type keyRequest struct {
	editor.Buffer
	Event editor.KeyEvent `json:"event"`
}

// EditorApply runs a toolbar command against the posted buffer.
func (d *Dashboard) EditorApply(w http.ResponseWriter, r *http.Request) {
	var req applyRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !req.Command.Valid() {
		writeJSONError(w, "unknown command", http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, editor.Apply(req.Buffer, req.Command, requestLocale(r)))
}

// EditorKey resolves a keyboard shortcut against the posted buffer.
func (d *Dashboard) EditorKey(w http.ResponseWriter, r *http.Request) {
	var req keyRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, editor.HandleKey(req.Buffer, req.Event, requestLocale(r)))
}

// EditorImage uploads a picture and returns the buffer with its markdown
// inserted at the cursor. Each browser editor may have one upload in
// flight; a second one is refused with 409.
func (d *Dashboard) EditorImage(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		writeJSONError(w, msgUploadFailed, http.StatusBadRequest)
		return
	}

	buf := editor.Buffer{
		Text: r.FormValue("text"),
		Selection: editor.Selection{
			Start: formInt(r, "start"),
			End:   formInt(r, "end"),
		},
	}

	f, hdr, err := r.FormFile("image")
	if err != nil {
		writeJSONError(w, msgUploadFailed, http.StatusBadRequest)
		return
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, editor.MaxImageBytes+1))
	if err != nil {
		writeJSONError(w, msgUploadFailed, http.StatusBadRequest)
		return
	}

	out, err := d.images.Insert(r.Context(), imageKey(r, r.FormValue("key")), buf, editor.Image{Name: hdr.Filename, Data: data}, requestLocale(r))
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, out)
	case errors.Is(err, editor.ErrUploadInProgress):
		writeJSONError(w, msgUploadBusy, http.StatusConflict)
	default:
		zerolog.Ctx(r.Context()).Warn().Err(err).Str("file", hdr.Filename).Msg("editor image")
		writeJSONError(w, msgUploadFailed, http.StatusUnprocessableEntity)
	}
}

// MemberSearch backs the co-author picker.
func (d *Dashboard) MemberSearch(w http.ResponseWriter, r *http.Request) {
	q := search.Prepare(r.URL.Query().Get("q"))
	if q.Text == "" {
		writeJSON(w, http.StatusOK, []models.Author{})
		return
	}

	found, err := d.members.SearchMembers(r.Context(), q.Text)
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Str("q", q.Text).Msg("search members")
		writeJSONError(w, msgLoadFailed, http.StatusBadGateway)
		return
	}

	authors := make([]models.Author, 0, len(found))
	for i := range found {
		authors = append(authors, found[i].AsAuthor())
	}
	writeJSON(w, http.StatusOK, authors)
}

// imageKey scopes an editor key to the browser that owns it.
func imageKey(r *http.Request, editorKey string) string {
	return middleware.CSRFToken(r) + ":" + editorKey
}

func requestLocale(r *http.Request) editor.Locale {
	return editor.ParseLocale(r.Header.Get("Accept-Language"))
}

func formInt(r *http.Request, key string) int {
	n, _ := strconv.Atoi(r.FormValue(key))
	return n
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxEditorJSON))
	if err := dec.Decode(v); err != nil {
		writeJSONError(w, "invalid request body", http.StatusBadRequest)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeJSONError sends a JSON error response.
func writeJSONError(w http.ResponseWriter, msg string, status int) {
	writeJSON(w, status, map[string]string{"error": msg})
}
