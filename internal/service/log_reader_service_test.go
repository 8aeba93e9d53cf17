package service_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"logreader-backend/config"
	"logreader-backend/internal/cache"
	"logreader-backend/internal/dto"
	"logreader-backend/internal/logfile"
	"logreader-backend/internal/model"
	"logreader-backend/internal/parser"
	"logreader-backend/internal/reader"
	"logreader-backend/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleLog = "[2024-01-01 10:00:00] local.ERROR: |Billing| Payment failed\n" +
	"[2024-01-01 10:01:00] local.WARNING: Disk almost full\n" +
	"[2024-01-01 10:02:00] production.INFO: Job finished\n"

type fakePublisher struct {
	events []model.MutationEvent
	err    error
}

func (p *fakePublisher) Publish(_ context.Context, events ...model.MutationEvent) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, events...)
	return nil
}

func (p *fakePublisher) Close() error { return nil }

func setup(t *testing.T, mutate func(*config.Config)) (service.LogReaderService, *fakePublisher, string) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "laravel.log")
	require.NoError(t, os.WriteFile(path, []byte(sampleLog), 0644))

	cfg := &config.Config{LogReader: config.LogReaderConfig{Path: dir, Filename: "*.log"}}
	if mutate != nil {
		mutate(cfg)
	}
	r := reader.NewReader(cfg, parser.NewLaravelLogParser(), cache.NewMemoryStore(), logfile.NewStore(), reader.ExactLevelable{})
	publisher := &fakePublisher{}
	return service.NewLogReaderService(r, publisher), publisher, path
}

func TestLogReaderService_ListLogs(t *testing.T) {
	svc, _, _ := setup(t, nil)
	ctx := context.Background()

	resp, err := svc.ListLogs(ctx, dto.LogListRequest{})
	require.NoError(t, err)
	assert.Equal(t, 3, resp.TotalCount)
	assert.Equal(t, 1, resp.Page)
	assert.Equal(t, reader.DefaultPerPage, resp.Size)
	assert.Equal(t, 1, resp.LastPage)
	require.Len(t, resp.Logs, 3)
	assert.Equal(t, "Payment failed", resp.Logs[0].Body)
	assert.Equal(t, "Billing", resp.Logs[0].Class)
	assert.False(t, resp.Logs[0].Read)
	require.NotNil(t, resp.Logs[0].Timestamp)

	resp, err = svc.ListLogs(ctx, dto.LogListRequest{Levels: []string{" error ", "warning"}})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.TotalCount)

	resp, err = svc.ListLogs(ctx, dto.LogListRequest{OrderBy: "level"})
	require.NoError(t, err)
	require.Len(t, resp.Logs, 3)
	assert.Equal(t, "ERROR", resp.Logs[0].Level)
	assert.Equal(t, "INFO", resp.Logs[1].Level)

	resp, err = svc.ListLogs(ctx, dto.LogListRequest{Size: 5000})
	require.NoError(t, err)
	assert.Equal(t, 1000, resp.Size)
}

func TestLogReaderService_ListLogsUsesConfiguredDefaults(t *testing.T) {
	svc, _, _ := setup(t, func(cfg *config.Config) {
		cfg.LogReader.Environment = "local"
		cfg.LogReader.Level = "ERROR"
	})

	resp, err := svc.ListLogs(context.Background(), dto.LogListRequest{})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.TotalCount)

	resp, err = svc.ListLogs(context.Background(), dto.LogListRequest{Environment: "production", Levels: []string{"INFO"}})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.TotalCount)
}

func TestLogReaderService_GetLogNotFound(t *testing.T) {
	svc, _, _ := setup(t, nil)

	_, err := svc.GetLog(context.Background(), "missing")
	assert.ErrorIs(t, err, reader.ErrEntryNotFound)

	_, err = svc.MarkRead(context.Background(), "missing")
	assert.ErrorIs(t, err, reader.ErrEntryNotFound)

	_, err = svc.DeleteLog(context.Background(), "missing")
	assert.ErrorIs(t, err, reader.ErrEntryNotFound)
}

func TestLogReaderService_MarkRead(t *testing.T) {
	svc, publisher, path := setup(t, nil)
	ctx := context.Background()

	list, err := svc.ListLogs(ctx, dto.LogListRequest{})
	require.NoError(t, err)
	id := list.Logs[0].ID

	changed, err := svc.MarkRead(ctx, id)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = svc.MarkRead(ctx, id)
	require.NoError(t, err)
	assert.False(t, changed)

	// Read entries can still be looked up by ID.
	entry, err := svc.GetLog(ctx, id)
	require.NoError(t, err)
	assert.True(t, entry.Read)

	list, err = svc.ListLogs(ctx, dto.LogListRequest{})
	require.NoError(t, err)
	assert.Equal(t, 2, list.TotalCount)

	list, err = svc.ListLogs(ctx, dto.LogListRequest{IncludeRead: true})
	require.NoError(t, err)
	assert.Equal(t, 3, list.TotalCount)

	require.Len(t, publisher.events, 1)
	assert.Equal(t, model.EventEntryRead, publisher.events[0].Type)
	assert.Equal(t, id, publisher.events[0].EntryID)
	assert.Equal(t, path, publisher.events[0].FilePath)
	assert.NotEmpty(t, publisher.events[0].ID)
}

func TestLogReaderService_MarkAllRead(t *testing.T) {
	svc, publisher, _ := setup(t, nil)
	ctx := context.Background()

	count, err := svc.MarkAllRead(ctx, dto.LogListRequest{Environment: "local"})
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	count, err = svc.MarkAllRead(ctx, dto.LogListRequest{Environment: "local"})
	require.NoError(t, err)
	assert.Zero(t, count)

	require.Len(t, publisher.events, 1)
	assert.Equal(t, 2, publisher.events[0].Count)
}

func TestLogReaderService_DeleteLog(t *testing.T) {
	svc, publisher, path := setup(t, nil)
	ctx := context.Background()

	list, err := svc.ListLogs(ctx, dto.LogListRequest{Levels: []string{"WARNING"}})
	require.NoError(t, err)
	require.Len(t, list.Logs, 1)

	deleted, err := svc.DeleteLog(ctx, list.Logs[0].ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t,
		"[2024-01-01 10:00:00] local.ERROR: |Billing| Payment failed\n"+
			"[2024-01-01 10:02:00] production.INFO: Job finished\n",
		string(data))

	require.Len(t, publisher.events, 1)
	assert.Equal(t, model.EventEntryDeleted, publisher.events[0].Type)
}

func TestLogReaderService_DeleteAll(t *testing.T) {
	svc, publisher, path := setup(t, nil)

	count, err := svc.DeleteAll(context.Background(), dto.LogListRequest{})
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Empty(t, string(data))

	require.Len(t, publisher.events, 1)
	assert.Equal(t, 3, publisher.events[0].Count)
}

func TestLogReaderService_Files(t *testing.T) {
	svc, publisher, path := setup(t, nil)
	ctx := context.Background()

	files, err := svc.ListFiles(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"laravel.log": path}, files)

	classes, err := svc.ListClasses(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"Billing"}, classes)

	removed, err := svc.RemoveFiles(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{path}, removed)

	require.Len(t, publisher.events, 1)
	assert.Equal(t, model.EventFileRemoved, publisher.events[0].Type)
	assert.Equal(t, path, publisher.events[0].FilePath)
}

func TestLogReaderService_Collapse(t *testing.T) {
	svc, publisher, path := setup(t, nil)
	chain := "[2024-01-01 10:00:00] local.ERROR: First\nNext Second\n"
	require.NoError(t, os.WriteFile(path, []byte(chain), 0644))

	collapsed, err := svc.Collapse(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, []string{path}, collapsed)

	require.Len(t, publisher.events, 1)
	assert.Equal(t, model.EventFileCollapsed, publisher.events[0].Type)
}

func TestLogReaderService_PublishFailureIsNotFatal(t *testing.T) {
	svc, publisher, _ := setup(t, nil)
	publisher.err = errors.New("broker down")

	count, err := svc.MarkAllRead(context.Background(), dto.LogListRequest{})
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestLogReaderService_FilesUnavailable(t *testing.T) {
	svc, _, _ := setup(t, func(cfg *config.Config) {
		cfg.LogReader.Path = filepath.Join(cfg.LogReader.Path, "missing")
	})

	_, err := svc.ListLogs(context.Background(), dto.LogListRequest{})
	assert.ErrorIs(t, err, logfile.ErrFilesUnavailable)
}
