package scheduler

import (
	"context"
	"errors"
	"testing"

	"logreader-backend/config"
	"logreader-backend/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxtest"
)

type collapseService struct {
	service.LogReaderService
	calls int
	err   error
}

func (s *collapseService) Collapse(context.Context, string) ([]string, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return []string{"/var/log/laravel.log"}, nil
}

func TestAddCollapseJob(t *testing.T) {
	tests := []struct {
		name      string
		schedule  string
		added     bool
		expectErr bool
	}{
		{"Empty Schedule", "", false, false},
		{"Seconds Field", "*/30 * * * * *", true, false},
		{"Descriptor", "@hourly", true, false},
		{"Invalid", "every now and then", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newCron()
			added, err := AddCollapseJob(c, tt.schedule, &collapseService{})
			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.added, added)
			if tt.added {
				assert.Len(t, c.Entries(), 1)
			} else {
				assert.Empty(t, c.Entries())
			}
		})
	}
}

func TestCollapseJobRunsService(t *testing.T) {
	svc := &collapseService{}
	c := newCron()
	_, err := AddCollapseJob(c, "@hourly", svc)
	require.NoError(t, err)

	c.Entries()[0].Job.Run()
	assert.Equal(t, 1, svc.calls)

	svc.err = errors.New("disk full")
	c.Entries()[0].Job.Run()
	assert.Equal(t, 2, svc.calls)
}

func TestNewScheduler(t *testing.T) {
	cfg := &config.Config{LogReader: config.LogReaderConfig{CollapseSchedule: "@daily"}}
	lc := fxtest.NewLifecycle(t)

	c, err := NewScheduler(lc, cfg, &collapseService{})
	require.NoError(t, err)
	assert.Len(t, c.Entries(), 1)

	lc.RequireStart().RequireStop()
}

func TestNewSchedulerInvalidSchedule(t *testing.T) {
	cfg := &config.Config{LogReader: config.LogReaderConfig{CollapseSchedule: "not a schedule"}}

	_, err := NewScheduler(fxtest.NewLifecycle(t), cfg, &collapseService{})
	assert.Error(t, err)
}
