package reader

import (
	"time"

	"logreader-backend/internal/cache"
	"logreader-backend/internal/logfile"
	"logreader-backend/internal/model"
	"logreader-backend/internal/parser"
	"logreader-backend/internal/util"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// entryNamespace scopes the name-based entry IDs.
var entryNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("logreader-backend/entry"))

// Entry is one log record backed by the file it was parsed from.
type Entry struct {
	ID          string
	Environment string
	Level       string
	Class       string
	Date        string
	Timestamp   time.Time
	Header      string
	Body        string
	Context     model.LogContext
	StackTrace  []model.StackFrame
	FilePath    string

	raw   model.RawEntry
	cache cache.Store
	files logfile.Store
}

// EntryID derives a stable identity from the record content.
func EntryID(raw model.RawEntry) string {
	name := raw.Date + "\x00" + raw.Header + "\x00" + raw.Body
	return uuid.NewSHA1(entryNamespace, []byte(name)).String()
}

func newEntry(raw model.RawEntry, filePath string, p parser.LogParser, c cache.Store, files logfile.Store) *Entry {
	body := parser.DisplayBody(raw.Body, raw.Class)
	timestamp, _ := util.ParseTimeFlexible(raw.Date)
	return &Entry{
		ID:          EntryID(raw),
		Environment: raw.Environment,
		Level:       raw.Level,
		Class:       raw.Class,
		Date:        raw.Date,
		Timestamp:   timestamp,
		Header:      raw.Header,
		Body:        body,
		Context:     p.ParseContext(body),
		StackTrace:  p.ParseStackTrace(body),
		FilePath:    filePath,
		raw:         raw,
		cache:       c,
		files:       files,
	}
}

// Text returns the exact span of the entry in its file.
func (e *Entry) Text() string {
	return e.raw.Text()
}

func (e *Entry) IsRead() bool {
	return e.cache.Has(e.ID)
}

// MarkAsRead reports whether the entry changed from unread to read.
func (e *Entry) MarkAsRead() bool {
	if e.IsRead() {
		return false
	}
	if err := e.cache.Set(e.ID, time.Now().UTC().Format(time.RFC3339)); err != nil {
		log.Error().Err(err).Str("id", e.ID).Msg("Failed to mark entry as read")
		return false
	}
	return true
}

// Delete removes the entry text from its file.
func (e *Entry) Delete() bool {
	removed, err := e.files.RemoveEntry(e.FilePath, e.Text(), e.raw.Offset)
	if err != nil {
		log.Error().Err(err).Str("id", e.ID).Str("file", e.FilePath).Msg("Failed to delete entry")
		return false
	}
	if removed {
		log.Debug().Str("id", e.ID).Str("file", e.FilePath).Msg("Deleted entry")
	}
	return removed
}
