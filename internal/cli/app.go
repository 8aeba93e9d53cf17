package cli

import (
	"logreader-backend/config"
	"logreader-backend/internal/cache"
	"logreader-backend/internal/kafka"
	"logreader-backend/internal/logfile"
	"logreader-backend/internal/parser"
	"logreader-backend/internal/reader"
	"logreader-backend/internal/service"

	"github.com/rs/zerolog/log"
)

type app struct {
	cfg      *config.Config
	withRead bool
}

// NewReadStateStore keeps read state in the configured JSON file, or in
// memory when no file is configured.
func NewReadStateStore(cfg *config.Config) (cache.Store, error) {
	if cfg.ReadState.FilePath == "" {
		log.Warn().Msg("Read state path not configured, read marks will not survive a restart")
		return cache.NewMemoryStore(), nil
	}
	return cache.NewFileStore(cfg.ReadState.FilePath)
}

func NewLevelable(cfg *config.Config) reader.Levelable {
	return reader.NewLevelable(cfg.LogReader.LevelMatch)
}

func NewReader(cfg *config.Config) (*reader.Reader, error) {
	readState, err := NewReadStateStore(cfg)
	if err != nil {
		return nil, err
	}
	return reader.NewReader(cfg, parser.NewLaravelLogParser(), readState, logfile.NewStore(), NewLevelable(cfg)), nil
}

func (a *app) service() (service.LogReaderService, func(), error) {
	r, err := NewReader(a.cfg)
	if err != nil {
		return nil, nil, err
	}
	audit := kafka.NewAuditPublisher(a.cfg)
	closeFn := func() {
		if err := audit.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close audit publisher")
		}
	}
	return service.NewLogReaderService(r, audit), closeFn, nil
}
