package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/starford/classlog/internal/apperr"
	"github.com/starford/classlog/internal/search"
	"github.com/starford/classlog/internal/sessionservice"
	"github.com/starford/classlog/internal/timecode"
)

// Handler holds API route handlers.
type Handler struct {
	svc *sessionservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *sessionservice.Service) *Handler {
	return &Handler{svc: svc}
}

func boolParam(r *http.Request, name string) bool {
	v, _ := strconv.ParseBool(r.URL.Query().Get(name))
	return v
}

// ListSessions handles GET /api/sessions.
//
//	@Summary		List every session in id order
//	@Tags			sessions
//	@Produce		json
//	@Success		200	{object}	SessionListResponse
//	@Security		BearerAuth
//	@Router			/sessions [get]
func (h *Handler) ListSessions(w http.ResponseWriter, r *http.Request) {
	items := h.svc.ListSessions(r.Context())
	writeJSON(w, http.StatusOK, SessionListResponse{Sessions: items, Total: len(items)})
}

// GetSession handles GET /api/sessions/{id}.
//
//	@Summary		Get a single session by id
//	@Tags			sessions
//	@Produce		json
//	@Param			id	path		string	true	"Session id (YYYY-MM-DD)"
//	@Success		200	{object}	SessionDetail
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/sessions/{id} [get]
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s, err := h.svc.GetSession(r.Context(), id)
	if err != nil {
		writeError(w, err, "get session", slog.String("session", id))
		return
	}
	writeJSON(w, http.StatusOK, s)
}

// Timeline handles GET /api/sessions/{id}/timeline/{source}.
//
//	@Summary		Read one timeline of a session
//	@Tags			sessions
//	@Produce		json
//	@Param			id		path		string	true	"Session id"
//	@Param			source	path		string	true	"Timeline source"	Enums(markers, captions, chat)
//	@Param			offset	query		int		false	"Seconds added to every timestamp"
//	@Param			rebase	query		bool	false	"Shift the first entry to zero"
//	@Param			public	query		bool	false	"Keep only publishable entries"
//	@Param			q		query		string	false	"Label filter"
//	@Param			ci		query		bool	false	"Case-insensitive filter"
//	@Success		200		{object}	TimelineView
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Failure		422		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/sessions/{id}/timeline/{source} [get]
func (h *Handler) Timeline(w http.ResponseWriter, r *http.Request) {
	id, source := chi.URLParam(r, "id"), chi.URLParam(r, "source")
	q := r.URL.Query()

	opts := sessionservice.TimelineOptions{
		Rebase:          boolParam(r, "rebase"),
		Public:          boolParam(r, "public"),
		Query:           q.Get("q"),
		CaseInsensitive: boolParam(r, "ci"),
	}
	if raw := q.Get("offset"); raw != "" {
		secs, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody("offset must be whole seconds"))
			return
		}
		opts.Offset = timecode.Seconds(secs)
	}

	v, err := h.svc.Timeline(r.Context(), id, source, opts)
	if err != nil {
		writeError(w, err, "read timeline", slog.String("session", id), slog.String("source", source))
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// Validate handles GET /api/sessions/{id}/validate.
//
//	@Summary		Validate the markers and artifacts of a session
//	@Tags			validation
//	@Produce		json
//	@Param			id	path		string	true	"Session id"
//	@Success		200	{object}	ValidateResponse
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/sessions/{id}/validate [get]
func (h *Handler) Validate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	rep, err := h.svc.Validate(r.Context(), id)
	if err != nil {
		writeError(w, err, "validate", slog.String("session", id))
		return
	}
	writeJSON(w, http.StatusOK, newValidateResponse(rep))
}

// ValidateAll handles GET /api/sessions/validate.
//
//	@Summary		Validate every session
//	@Tags			validation
//	@Produce		json
//	@Success		200	{array}		ValidateResponse
//	@Security		BearerAuth
//	@Router			/sessions/validate [get]
func (h *Handler) ValidateAll(w http.ResponseWriter, r *http.Request) {
	reports, err := h.svc.ValidateAll(r.Context())
	if err != nil {
		writeError(w, err, "validate all")
		return
	}
	out := make([]ValidateResponse, len(reports))
	for i, rep := range reports {
		out[i] = newValidateResponse(rep)
	}
	writeJSON(w, http.StatusOK, out)
}

// Comment handles GET /api/sessions/{id}/comment.
//
//	@Summary		Generate the YouTube timestamp comment of a session
//	@Tags			reports
//	@Produce		json
//	@Param			id		path		string	true	"Session id"
//	@Param			offset	query		int		false	"Override the YouTube start offset, in seconds"
//	@Success		200		{object}	CommentView
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/sessions/{id}/comment [get]
func (h *Handler) Comment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var offset *time.Duration
	if raw := r.URL.Query().Get("offset"); raw != "" {
		secs, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody("offset must be whole seconds"))
			return
		}
		d := timecode.Seconds(secs)
		offset = &d
	}
	c, err := h.svc.Comment(r.Context(), id, offset)
	if err != nil {
		writeError(w, err, "comment", slog.String("session", id))
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// Discord handles GET /api/sessions/{id}/discord.
//
//	@Summary		Split the markers of a session into Discord messages
//	@Tags			reports
//	@Produce		json
//	@Param			id	path		string	true	"Session id"
//	@Success		200	{object}	DiscordResponse
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/sessions/{id}/discord [get]
func (h *Handler) Discord(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	msgs, err := h.svc.Discord(r.Context(), id)
	if err != nil {
		writeError(w, err, "discord", slog.String("session", id))
		return
	}
	writeJSON(w, http.StatusOK, DiscordResponse{Messages: msgs})
}

// Sheet handles GET /api/sessions/{id}/sheet.
//
//	@Summary		Render the spreadsheet tab of a session
//	@Tags			reports
//	@Produce		json
//	@Param			id	path		string	true	"Session id"
//	@Success		200	{object}	Worksheet
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/sessions/{id}/sheet [get]
func (h *Handler) Sheet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ws, err := h.svc.Sheet(r.Context(), id)
	if err != nil {
		writeError(w, err, "sheet", slog.String("session", id))
		return
	}
	writeJSON(w, http.StatusOK, ws)
}

// Search handles GET /api/search.
//
//	@Summary		Search labels, links and slides across sessions
//	@Tags			search
//	@Produce		json
//	@Param			q		query		string	true	"Search text"
//	@Param			sources	query		string	false	"Comma-separated sources (markers,captions,chat,links,slides)"
//	@Param			ci		query		bool	false	"Case-insensitive"
//	@Success		200		{object}	SearchResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/search [get]
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	text := r.URL.Query().Get("q")
	if text == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'q' is required"))
		return
	}
	sources, err := search.ParseSources(r.URL.Query()["sources"])
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}

	results, err := h.svc.Search(r.Context(), search.Query{
		Text:            text,
		Sources:         sources,
		CaseInsensitive: boolParam(r, "ci"),
	})
	if err != nil {
		writeError(w, err, "search", slog.String("query", text))
		return
	}
	hits := make([]SearchHit, len(results))
	for i, res := range results {
		hits[i] = SearchHit{
			Session: res.Session.ID,
			Slug:    res.Session.Slug(),
			URL:     res.URL,
			Summary: res.Matches.Abbr(),
			Matches: res.Matches,
		}
		if res.Err != nil {
			hits[i].Error = res.Err.Error()
		}
	}
	writeJSON(w, http.StatusOK, SearchResponse{Results: hits})
}

// IndexSearch handles GET /api/index/search.
//
//	@Summary		Full-text search over the timeline index
//	@Tags			search
//	@Produce		json
//	@Param			q		query		string	true	"Search query"
//	@Param			limit	query		int		false	"Max results"
//	@Success		200		{object}	IndexSearchResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/index/search [get]
func (h *Handler) IndexSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'q' is required"))
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	results, err := h.svc.IndexSearch(r.Context(), q, limit)
	if err != nil {
		writeError(w, err, "index search", slog.String("query", q))
		return
	}
	writeJSON(w, http.StatusOK, IndexSearchResponse{Results: results})
}

// Similar handles GET /api/similar/{kind}.
//
//	@Summary		First raid or question-of-the-day marker of every session
//	@Tags			reports
//	@Produce		json
//	@Param			kind	path		string	true	"Marker kind"	Enums(raid, qotd)
//	@Success		200		{object}	SimilarResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/similar/{kind} [get]
func (h *Handler) Similar(w http.ResponseWriter, r *http.Request) {
	kind := chi.URLParam(r, "kind")
	rows, err := h.svc.Similar(r.Context(), kind)
	if errors.Is(err, apperr.ErrInvalid) {
		writeError(w, err, "similar", slog.String("kind", kind))
		return
	}
	resp := SimilarResponse{Kind: kind, Lines: make([]string, len(rows))}
	for i, row := range rows {
		resp.Lines[i] = row.Line()
	}
	if err != nil {
		slog.Warn("similar: some sessions skipped", slog.String("error", err.Error()))
		resp.Error = err.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}
