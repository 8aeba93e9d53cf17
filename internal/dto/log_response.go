package dto

import (
	"logreader-backend/internal/model"
	"logreader-backend/internal/reader"
	"time"
)

type LogListRequest struct {
	Filename    string
	Environment string
	Levels      []string
	Class       string
	IncludeRead bool
	OrderBy     string
	Direction   string
	Page        int
	Size        int
}

type LogEntryResponse struct {
	ID          string             `json:"id"`
	Environment string             `json:"environment"`
	Level       string             `json:"level"`
	Class       string             `json:"class,omitempty"`
	Date        string             `json:"date"`
	Timestamp   *time.Time         `json:"timestamp,omitempty"`
	Header      string             `json:"header"`
	Body        string             `json:"body"`
	Context     model.LogContext   `json:"context"`
	StackTrace  []model.StackFrame `json:"stack_trace,omitempty"`
	FilePath    string             `json:"file_path"`
	Read        bool               `json:"read"`
}

type LogListResponse struct {
	Logs       []LogEntryResponse `json:"logs"`
	TotalCount int                `json:"totalCount"`
	Page       int                `json:"page"`
	Size       int                `json:"size"`
	LastPage   int                `json:"lastPage"`
}

type CountResponse struct {
	Count int `json:"count"`
}

type FilesResponse struct {
	Files map[string]string `json:"files"`
}

type PathsResponse struct {
	Count int      `json:"count"`
	Paths []string `json:"paths"`
}

type ClassesResponse struct {
	Classes []string `json:"classes"`
}

func NewLogEntryResponse(e *reader.Entry) LogEntryResponse {
	resp := LogEntryResponse{
		ID:          e.ID,
		Environment: e.Environment,
		Level:       e.Level,
		Class:       e.Class,
		Date:        e.Date,
		Header:      e.Header,
		Body:        e.Body,
		Context:     e.Context,
		StackTrace:  e.StackTrace,
		FilePath:    e.FilePath,
		Read:        e.IsRead(),
	}
	if !e.Timestamp.IsZero() {
		ts := e.Timestamp
		resp.Timestamp = &ts
	}
	return resp
}

func NewLogListResponse(page *reader.Page) *LogListResponse {
	logs := make([]LogEntryResponse, 0, len(page.Entries))
	for _, e := range page.Entries {
		logs = append(logs, NewLogEntryResponse(e))
	}
	return &LogListResponse{
		Logs:       logs,
		TotalCount: page.Total,
		Page:       page.CurrentPage,
		Size:       page.PerPage,
		LastPage:   page.LastPage,
	}
}
