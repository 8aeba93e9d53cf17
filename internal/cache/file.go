package cache

import (
	"encoding/json"
	"os"
	"sync"

	"github.com/rs/zerolog/log"
)

type fileStore struct {
	filePath string
	state    map[string]string
	mu       sync.RWMutex
}

// NewFileStore loads the JSON state file at filePath, starting empty when it
// does not exist yet. Every Set persists the whole state.
func NewFileStore(filePath string) (Store, error) {
	s := &fileStore{
		filePath: filePath,
		state:    make(map[string]string),
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *fileStore) load() error {
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			log.Debug().Str("file", s.filePath).Msg("Read state file not found, starting fresh.")
			return nil
		}
		log.Error().Err(err).Str("file", s.filePath).Msg("Failed to read state file")
		return err
	}

	if len(data) == 0 {
		log.Warn().Str("file", s.filePath).Msg("Read state file is empty, starting fresh.")
		return nil
	}
	if err := json.Unmarshal(data, &s.state); err != nil {
		log.Error().Err(err).Str("file", s.filePath).Msg("Failed to unmarshal state file")
		return err
	}
	if s.state == nil {
		s.state = make(map[string]string)
	}

	log.Debug().Str("file", s.filePath).Int("keys", len(s.state)).Msg("Loaded read state")
	return nil
}

func (s *fileStore) Has(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.state[key]
	return ok
}

func (s *fileStore) Get(key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if value, ok := s.state[key]; ok {
		return value, nil
	}
	return "", ErrKeyNotFound
}

func (s *fileStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	previous, existed := s.state[key]
	s.state[key] = value
	if err := s.save(); err != nil {
		if existed {
			s.state[key] = previous
		} else {
			delete(s.state, key)
		}
		return err
	}
	return nil
}

func (s *fileStore) save() error {
	data, err := json.MarshalIndent(s.state, "", "  ")
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal read state")
		return err
	}

	tempFilePath := s.filePath + ".tmp"
	err = os.WriteFile(tempFilePath, data, 0644)
	if err != nil {
		log.Error().Err(err).Str("file", tempFilePath).Msg("Failed to write temporary state file")
		return err
	}

	err = os.Rename(tempFilePath, s.filePath)
	if err != nil {
		log.Error().Err(err).Str("from", tempFilePath).Str("to", s.filePath).Msg("Failed to rename state file")
		_ = os.Remove(tempFilePath)
		return err
	}
	log.Debug().Str("file", s.filePath).Int("keys", len(s.state)).Msg("Saved read state")
	return nil
}
