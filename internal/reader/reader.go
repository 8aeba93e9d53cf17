package reader

import (
	"errors"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"logreader-backend/config"
	"logreader-backend/internal/cache"
	"logreader-backend/internal/logfile"
	"logreader-backend/internal/parser"

	"github.com/maruel/natural"
	"github.com/rs/zerolog/log"
)

var ErrEntryNotFound = errors.New("log entry not found")

const DefaultPerPage = 25

var orderFields = []string{"id", "date", "level", "class", "environment", "file_path"}

// Filter selects entries. The zero value matches every unread entry of the
// configured file set, unordered.
type Filter struct {
	Filename    string
	Environment string
	Levels      []string
	Class       string
	IncludeRead bool
	OrderBy     string
	Direction   string
}

type Reader struct {
	cfg       config.LogReaderConfig
	parser    parser.LogParser
	cache     cache.Store
	files     logfile.Store
	levelable Levelable
}

func NewReader(cfg *config.Config, p parser.LogParser, c cache.Store, files logfile.Store, levelable Levelable) *Reader {
	return &Reader{
		cfg:       cfg.LogReader,
		parser:    p,
		cache:     c,
		files:     files,
		levelable: levelable,
	}
}

// DefaultFilter builds a filter from the configured defaults.
func (r *Reader) DefaultFilter() Filter {
	return Filter{
		Filename:    r.cfg.Filename,
		Environment: r.cfg.Environment,
		Levels:      ParseLevels(r.cfg.Level),
		Class:       r.cfg.Class,
		OrderBy:     r.cfg.OrderByField,
		Direction:   r.cfg.OrderByDirection,
	}
}

func (r *Reader) LogPath() string {
	return r.cfg.Path
}

func (r *Reader) filename(f Filter) string {
	if strings.TrimSpace(f.Filename) != "" {
		return f.Filename
	}
	if r.cfg.Filename != "" {
		return r.cfg.Filename
	}
	return config.DefaultFilename
}

// Get parses every matched file and returns the filtered, ordered entries.
func (r *Reader) Get(f Filter) (*Collection, error) {
	files, err := r.files.ReadAll(r.cfg.Path, r.filename(f))
	if err != nil {
		log.Error().Err(err).Str("path", r.cfg.Path).Msg("Failed to retrieve log files")
		return nil, err
	}

	collection := newCollection()
	for _, file := range files {
		result := r.parser.ParseContent(file.Contents, parser.ParseOptions{Class: f.Class, Source: file.Path})
		if result.NeedsRewrite && r.cfg.CollapseOnRead {
			if err := r.files.Rewrite(file.Path, result.Rewritten); err != nil {
				log.Error().Err(err).Str("file", file.Path).Msg("Failed to collapse continuation entries")
			} else {
				log.Info().Str("file", file.Path).Msg("Collapsed continuation entries")
				result = r.parser.ParseContent(result.Rewritten, parser.ParseOptions{Class: f.Class, Source: file.Path})
			}
		}

		for _, raw := range result.Entries {
			if f.Environment != "" && raw.Environment != f.Environment {
				continue
			}
			if !r.levelable.Filter(raw.Level, f.Levels) {
				continue
			}
			entry := newEntry(raw, file.Path, r.parser, r.cache, r.files)
			if !f.IncludeRead && entry.IsRead() {
				continue
			}
			collection.put(entry)
		}
	}

	if field, desc, ok := normalizeOrder(f.OrderBy, f.Direction); ok {
		collection.sort(field, desc)
	}

	log.Debug().Int("file_count", len(files)).Int("entries", collection.Len()).Msg("Retrieved log entries")
	return collection, nil
}

func (r *Reader) Find(f Filter, id string) (*Entry, bool, error) {
	collection, err := r.Get(f)
	if err != nil {
		return nil, false, err
	}
	entry, ok := collection.Find(id)
	return entry, ok, nil
}

func (r *Reader) Count(f Filter) (int, error) {
	collection, err := r.Get(f)
	if err != nil {
		return 0, err
	}
	return collection.Len(), nil
}

// MarkAllRead returns the number of entries that changed to read.
func (r *Reader) MarkAllRead(f Filter) (int, error) {
	collection, err := r.Get(f)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, entry := range collection.Entries() {
		if entry.MarkAsRead() {
			count++
		}
	}
	log.Info().Int("marked", count).Msg("Marked log entries as read")
	return count, nil
}

// DeleteAll removes every matched entry, one read-modify-write per entry, and
// returns how many were removed. Failures are logged and skipped.
func (r *Reader) DeleteAll(f Filter) (int, error) {
	collection, err := r.Get(f)
	if err != nil {
		return 0, err
	}
	// Last entry of each file first, so the offsets of the others still hold.
	entries := slices.Clone(collection.Entries())
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].FilePath != entries[j].FilePath {
			return entries[i].FilePath < entries[j].FilePath
		}
		return entries[i].raw.Offset > entries[j].raw.Offset
	})
	count := 0
	for _, entry := range entries {
		if entry.Delete() {
			count++
		}
	}
	log.Info().Int("deleted", count).Int("matched", collection.Len()).Msg("Deleted log entries")
	return count, nil
}

// RemoveLogFiles deletes the files matched by filename (or the configured
// pattern) and returns the removed paths.
func (r *Reader) RemoveLogFiles(filename string) ([]string, error) {
	paths, err := r.files.List(r.cfg.Path, r.filename(Filter{Filename: filename}))
	if err != nil {
		return nil, err
	}
	var removed []string
	for _, path := range paths {
		if err := r.files.Remove(path); err != nil {
			log.Warn().Err(err).Str("file", path).Msg("Failed to remove log file")
			continue
		}
		removed = append(removed, path)
	}
	log.Info().Int("removed", len(removed)).Msg("Removed log files")
	return removed, nil
}

// FilenameList maps base names to full paths for files matching pattern.
func (r *Reader) FilenameList(pattern string) (map[string]string, error) {
	if strings.TrimSpace(pattern) == "" {
		pattern = config.DefaultFilename
	}
	paths, err := r.files.List(r.cfg.Path, pattern)
	if err != nil {
		return nil, err
	}
	data := make(map[string]string, len(paths))
	for _, path := range paths {
		data[filepath.Base(path)] = path
	}
	return data, nil
}

// Classes lists the distinct non-empty classes found in the matched files,
// in order of first appearance.
func (r *Reader) Classes(f Filter) ([]string, error) {
	files, err := r.files.ReadAll(r.cfg.Path, r.filename(f))
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	var classes []string
	for _, file := range files {
		result := r.parser.ParseContent(file.Contents, parser.ParseOptions{Source: file.Path})
		for _, raw := range result.Entries {
			if raw.Class == "" {
				continue
			}
			if _, ok := seen[raw.Class]; ok {
				continue
			}
			seen[raw.Class] = struct{}{}
			classes = append(classes, raw.Class)
		}
	}
	return classes, nil
}

// Collapse persists the continuation rewrite of every matched file that needs
// one and returns the rewritten paths. Entries of a collapsed chain
// get new IDs since their file content changes.
func (r *Reader) Collapse(f Filter) ([]string, error) {
	files, err := r.files.ReadAll(r.cfg.Path, r.filename(f))
	if err != nil {
		return nil, err
	}
	var collapsed []string
	for _, file := range files {
		result := r.parser.ParseContent(file.Contents, parser.ParseOptions{Source: file.Path})
		if !result.NeedsRewrite {
			continue
		}
		if err := r.files.Rewrite(file.Path, result.Rewritten); err != nil {
			log.Error().Err(err).Str("file", file.Path).Msg("Failed to collapse continuation entries")
			continue
		}
		collapsed = append(collapsed, file.Path)
	}
	log.Info().Int("collapsed", len(collapsed)).Int("file_count", len(files)).Msg("Collapsed log files")
	return collapsed, nil
}

type Page struct {
	Entries     []*Entry
	Total       int
	PerPage     int
	CurrentPage int
	LastPage    int
}

func (r *Reader) Paginate(f Filter, perPage, currentPage int) (*Page, error) {
	collection, err := r.Get(f)
	if err != nil {
		return nil, err
	}
	return collection.Paginate(perPage, currentPage), nil
}

func normalizeOrder(field, direction string) (string, bool, bool) {
	field = strings.ToLower(strings.TrimSpace(field))
	direction = strings.ToLower(strings.TrimSpace(direction))
	if !slices.Contains(orderFields, field) {
		return "", false, false
	}
	switch direction {
	case "asc":
		return field, false, true
	case "desc":
		return field, true, true
	}
	return "", false, false
}

func orderValue(e *Entry, field string) string {
	switch field {
	case "id":
		return e.ID
	case "date":
		return e.Date
	case "level":
		return e.Level
	case "class":
		return e.Class
	case "environment":
		return e.Environment
	case "file_path":
		return e.FilePath
	}
	return ""
}

// Collection holds entries keyed by ID. Putting an existing ID replaces the
// entry in place.
type Collection struct {
	entries []*Entry
	index   map[string]int
}

func newCollection() *Collection {
	return &Collection{index: make(map[string]int)}
}

func (c *Collection) put(e *Entry) {
	if i, ok := c.index[e.ID]; ok {
		c.entries[i] = e
		return
	}
	c.index[e.ID] = len(c.entries)
	c.entries = append(c.entries, e)
}

func (c *Collection) sort(field string, desc bool) {
	sort.SliceStable(c.entries, func(i, j int) bool {
		a, b := orderValue(c.entries[i], field), orderValue(c.entries[j], field)
		if desc {
			return natural.Less(b, a)
		}
		return natural.Less(a, b)
	})
	for i, e := range c.entries {
		c.index[e.ID] = i
	}
}

func (c *Collection) Entries() []*Entry {
	return c.entries
}

func (c *Collection) Len() int {
	return len(c.entries)
}

func (c *Collection) Find(id string) (*Entry, bool) {
	i, ok := c.index[id]
	if !ok {
		return nil, false
	}
	return c.entries[i], true
}

// Paginate slices the collection. Pages start at 1.
func (c *Collection) Paginate(perPage, currentPage int) *Page {
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	if currentPage < 1 {
		currentPage = 1
	}
	total := len(c.entries)
	lastPage := (total + perPage - 1) / perPage
	if lastPage < 1 {
		lastPage = 1
	}

	offset := (currentPage - 1) * perPage
	page := &Page{
		Entries:     []*Entry{},
		Total:       total,
		PerPage:     perPage,
		CurrentPage: currentPage,
		LastPage:    lastPage,
	}
	if offset >= total {
		return page
	}
	end := offset + perPage
	if end > total {
		end = total
	}
	page.Entries = c.entries[offset:end]
	return page
}
