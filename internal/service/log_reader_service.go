package service

import (
	"context"
	"strings"
	"time"

	"logreader-backend/internal/dto"
	"logreader-backend/internal/kafka"
	"logreader-backend/internal/model"
	"logreader-backend/internal/reader"
	"logreader-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const maxPageSize = 1000

type LogReaderService interface {
	ListLogs(ctx context.Context, req dto.LogListRequest) (*dto.LogListResponse, error)
	GetLog(ctx context.Context, id string) (*dto.LogEntryResponse, error)
	MarkRead(ctx context.Context, id string) (bool, error)
	MarkAllRead(ctx context.Context, req dto.LogListRequest) (int, error)
	DeleteLog(ctx context.Context, id string) (bool, error)
	DeleteAll(ctx context.Context, req dto.LogListRequest) (int, error)
	ListFiles(ctx context.Context, pattern string) (map[string]string, error)
	RemoveFiles(ctx context.Context, filename string) ([]string, error)
	ListClasses(ctx context.Context, filename string) ([]string, error)
	Collapse(ctx context.Context, filename string) ([]string, error)
}

type logReaderService struct {
	logRepo repository.LogRepository
	audit   kafka.AuditPublisher
}

func NewLogReaderService(logRepo repository.LogRepository, audit kafka.AuditPublisher) LogReaderService {
	return &logReaderService{
		logRepo: logRepo,
		audit:   audit,
	}
}

// filter overlays the request on the configured defaults.
func (s *logReaderService) filter(req dto.LogListRequest) reader.Filter {
	f := s.logRepo.DefaultFilter()
	if req.Filename != "" {
		f.Filename = req.Filename
	}
	if req.Environment != "" {
		f.Environment = req.Environment
	}
	if len(req.Levels) > 0 {
		levels := make([]string, 0, len(req.Levels))
		for _, level := range req.Levels {
			if level = strings.ToUpper(strings.TrimSpace(level)); level != "" {
				levels = append(levels, level)
			}
		}
		f.Levels = levels
	}
	if req.Class != "" {
		f.Class = req.Class
	}
	if req.OrderBy != "" {
		f.OrderBy = req.OrderBy
		f.Direction = req.Direction
		if f.Direction == "" {
			f.Direction = "asc"
		}
	}
	f.IncludeRead = req.IncludeRead
	return f
}

func (s *logReaderService) lookupFilter() reader.Filter {
	f := s.logRepo.DefaultFilter()
	f.IncludeRead = true
	return f
}

func (s *logReaderService) ListLogs(ctx context.Context, req dto.LogListRequest) (*dto.LogListResponse, error) {
	if req.Page <= 0 {
		req.Page = 1
	}
	if req.Size <= 0 {
		req.Size = reader.DefaultPerPage
	}
	if req.Size > maxPageSize {
		req.Size = maxPageSize
	}
	f := s.filter(req)

	log.Info().
		Str("filename", f.Filename).
		Str("environment", f.Environment).
		Strs("levels", f.Levels).
		Str("class", f.Class).
		Bool("include_read", f.IncludeRead).
		Int("page", req.Page).
		Int("size", req.Size).
		Msg("Listing logs")

	page, err := s.logRepo.Paginate(f, req.Size, req.Page)
	if err != nil {
		return nil, err
	}
	return dto.NewLogListResponse(page), nil
}

func (s *logReaderService) find(id string) (*reader.Entry, error) {
	entry, ok, err := s.logRepo.Find(s.lookupFilter(), id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, reader.ErrEntryNotFound
	}
	return entry, nil
}

func (s *logReaderService) GetLog(ctx context.Context, id string) (*dto.LogEntryResponse, error) {
	entry, err := s.find(id)
	if err != nil {
		return nil, err
	}
	resp := dto.NewLogEntryResponse(entry)
	return &resp, nil
}

func (s *logReaderService) MarkRead(ctx context.Context, id string) (bool, error) {
	entry, err := s.find(id)
	if err != nil {
		return false, err
	}
	changed := entry.MarkAsRead()
	if changed {
		s.publish(ctx, newEvent(model.EventEntryRead, entry.ID, entry.FilePath, 1))
	}
	return changed, nil
}

func (s *logReaderService) MarkAllRead(ctx context.Context, req dto.LogListRequest) (int, error) {
	count, err := s.logRepo.MarkAllRead(s.filter(req))
	if err != nil {
		return 0, err
	}
	if count > 0 {
		s.publish(ctx, newEvent(model.EventEntryRead, "", "", count))
	}
	return count, nil
}

func (s *logReaderService) DeleteLog(ctx context.Context, id string) (bool, error) {
	entry, err := s.find(id)
	if err != nil {
		return false, err
	}
	deleted := entry.Delete()
	if deleted {
		s.publish(ctx, newEvent(model.EventEntryDeleted, entry.ID, entry.FilePath, 1))
	}
	return deleted, nil
}

func (s *logReaderService) DeleteAll(ctx context.Context, req dto.LogListRequest) (int, error) {
	count, err := s.logRepo.DeleteAll(s.filter(req))
	if err != nil {
		return 0, err
	}
	if count > 0 {
		s.publish(ctx, newEvent(model.EventEntryDeleted, "", "", count))
	}
	return count, nil
}

func (s *logReaderService) ListFiles(ctx context.Context, pattern string) (map[string]string, error) {
	return s.logRepo.FilenameList(pattern)
}

func (s *logReaderService) RemoveFiles(ctx context.Context, filename string) ([]string, error) {
	removed, err := s.logRepo.RemoveLogFiles(filename)
	if err != nil {
		return nil, err
	}
	events := make([]model.MutationEvent, 0, len(removed))
	for _, path := range removed {
		events = append(events, newEvent(model.EventFileRemoved, "", path, 1))
	}
	s.publish(ctx, events...)
	return removed, nil
}

func (s *logReaderService) ListClasses(ctx context.Context, filename string) ([]string, error) {
	f := s.logRepo.DefaultFilter()
	if filename != "" {
		f.Filename = filename
	}
	return s.logRepo.Classes(f)
}

func (s *logReaderService) Collapse(ctx context.Context, filename string) ([]string, error) {
	f := s.logRepo.DefaultFilter()
	if filename != "" {
		f.Filename = filename
	}
	collapsed, err := s.logRepo.Collapse(f)
	if err != nil {
		return nil, err
	}
	events := make([]model.MutationEvent, 0, len(collapsed))
	for _, path := range collapsed {
		events = append(events, newEvent(model.EventFileCollapsed, "", path, 1))
	}
	s.publish(ctx, events...)
	return collapsed, nil
}

func (s *logReaderService) publish(ctx context.Context, events ...model.MutationEvent) {
	if len(events) == 0 {
		return
	}
	if err := s.audit.Publish(ctx, events...); err != nil {
		log.Warn().Err(err).Int("event_count", len(events)).Msg("Failed to publish audit events")
	}
}

func newEvent(eventType, entryID, filePath string, count int) model.MutationEvent {
	return model.MutationEvent{
		ID:       uuid.NewString(),
		Type:     eventType,
		EntryID:  entryID,
		FilePath: filePath,
		Count:    count,
		Time:     time.Now().UTC(),
	}
}
