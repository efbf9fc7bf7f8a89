package api

import (
	"github.com/starford/classlog/internal/index"
	"github.com/starford/classlog/internal/report"
	"github.com/starford/classlog/internal/search"
	"github.com/starford/classlog/internal/sessionservice"
	"github.com/starford/classlog/internal/validate"
)

// SessionDetail is the full session response type (aliased from the domain layer).
type SessionDetail = sessionservice.SessionDetail

// SessionListItem is a lightweight item in a list response (aliased from the domain layer).
type SessionListItem = sessionservice.SessionListItem

// TimelineView is a transformed timeline (aliased from the domain layer).
type TimelineView = sessionservice.TimelineView

// CommentView is a generated YouTube comment (aliased from the domain layer).
type CommentView = sessionservice.CommentView

// SessionListResponse wraps session listings.
type SessionListResponse struct {
	Sessions []SessionListItem `json:"sessions" validate:"required"`
	Total    int               `json:"total" example:"42" validate:"required"`
}

// ValidateResponse is the validation report of one session.
type ValidateResponse struct {
	Session  string             `json:"session" example:"2024-01-09" validate:"required"`
	Clean    bool               `json:"clean"`
	Missing  []string           `json:"missing" validate:"required"`
	Findings []validate.Finding `json:"findings" validate:"required"`
	Lines    []string           `json:"lines" validate:"required"`
	Error    string             `json:"error,omitempty"`
}

func newValidateResponse(r validate.Report) ValidateResponse {
	resp := ValidateResponse{
		Session:  r.Session.ID,
		Clean:    r.Clean(),
		Missing:  nonNil(r.Missing),
		Findings: nonNil(r.Findings),
		Lines:    nonNil(r.Lines()),
	}
	if r.Err != nil {
		resp.Error = r.Err.Error()
	}
	return resp
}

// SearchHit is the matches of one session in a cross-source search.
type SearchHit struct {
	Session string         `json:"session" example:"2024-01-09" validate:"required"`
	Slug    string         `json:"slug" example:"CL #01 2024-01-09" validate:"required"`
	URL     string         `json:"url,omitempty"`
	Summary string         `json:"summary" example:"(ch:2, lnk:1)"`
	Matches search.Matches `json:"matches"`
	Error   string         `json:"error,omitempty"`
}

// SearchResponse wraps cross-source search results.
type SearchResponse struct {
	Results []SearchHit `json:"results" validate:"required"`
}

// IndexSearchResponse wraps full-text index hits.
type IndexSearchResponse struct {
	Results []index.SearchResult `json:"results" validate:"required"`
}

// DiscordResponse holds the Discord-sized messages of a session.
type DiscordResponse struct {
	Messages []string `json:"messages" validate:"required"`
}

// Worksheet is a spreadsheet tab (aliased from the domain layer).
type Worksheet = report.Worksheet

// SimilarResponse lists the first matching marker of each session.
type SimilarResponse struct {
	Kind  string   `json:"kind" example:"raid" validate:"required"`
	Lines []string `json:"lines" validate:"required"`
	// Error lists sessions whose markers could not be read.
	Error string `json:"error,omitempty"`
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
