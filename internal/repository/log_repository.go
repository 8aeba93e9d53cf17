package repository

import (
	"logreader-backend/internal/reader"
)

// LogRepository is the query and mutation surface over the log files.
type LogRepository interface {
	DefaultFilter() reader.Filter
	Get(f reader.Filter) (*reader.Collection, error)
	Find(f reader.Filter, id string) (*reader.Entry, bool, error)
	Paginate(f reader.Filter, perPage, currentPage int) (*reader.Page, error)
	MarkAllRead(f reader.Filter) (int, error)
	DeleteAll(f reader.Filter) (int, error)
	RemoveLogFiles(filename string) ([]string, error)
	FilenameList(pattern string) (map[string]string, error)
	Classes(f reader.Filter) ([]string, error)
	Collapse(f reader.Filter) ([]string, error)
}

var _ LogRepository = (*reader.Reader)(nil)
