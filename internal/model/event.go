package model

import "time"

const (
	EventEntryDeleted  = "entry_deleted"
	EventEntryRead     = "entry_read"
	EventFileRemoved   = "file_removed"
	EventFileCollapsed = "file_collapsed"
)

// MutationEvent records a change made to the log files or read state.
type MutationEvent struct {
	ID       string    `json:"id"`
	Type     string    `json:"type"`
	EntryID  string    `json:"entry_id,omitempty"`
	FilePath string    `json:"file_path,omitempty"`
	Count    int       `json:"count,omitempty"`
	Time     time.Time `json:"time"`
}
