package model

// RawEntry is one record detected in a log file. Continuation blocks that
// follow it are already merged into Body.
type RawEntry struct {
	Date        string
	Environment string
	Level       string
	Class       string
	// Header is the anchor prefix only, e.g. "[2024-01-01 10:00:00] local.ERROR:".
	// The rest of the first line starts Body.
	Header        string
	Body          string
	Continuations int
	// Offset is the byte position of Header in the parsed content.
	Offset int
}

// Text returns the exact span of the record as it appears in the file.
func (r RawEntry) Text() string {
	return r.Header + r.Body
}

// LogContext holds the exception details found in an entry body.
type LogContext struct {
	Message   string `json:"message"`
	Exception string `json:"exception,omitempty"`
	In        string `json:"in,omitempty"`
	Line      int    `json:"line,omitempty"`
}

type StackFrame struct {
	File string `json:"file"`
	Line int    `json:"line"`
	Call string `json:"call"`
}
