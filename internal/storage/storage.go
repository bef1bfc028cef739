// Package storage keeps the command audit history of each guild in a JSON
// datastore. Queue state is never stored here.
package storage

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/keshon/datastore"
)

const (
	commandHistoryLimit = 50

	// directKey holds commands issued outside any guild.
	directKey = "dm"
)

type Storage struct {
	mu    sync.Mutex
	ds    *datastore.DataStore
	limit int
}

type CommandHistoryRecord struct {
	RequestID string    `json:"request_id"`
	ChannelID string    `json:"channel_id"`
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	Command   string    `json:"command"`
	Param     string    `json:"param"`
	Outcome   string    `json:"outcome"`
	Datetime  time.Time `json:"datetime"`
}

type Record struct {
	CommandsHistoryList []CommandHistoryRecord `json:"cmd_history"`
}

type Option func(*Storage)

// WithHistoryLimit caps the records kept per guild.
func WithHistoryLimit(n int) Option {
	return func(s *Storage) {
		if n > 0 {
			s.limit = n
		}
	}
}

func New(ctx context.Context, filePath string, opts ...Option) (*Storage, error) {
	ds, err := datastore.New(ctx, filePath)
	if err != nil {
		return nil, fmt.Errorf("open datastore %s: %w", filePath, err)
	}
	s := &Storage{ds: ds, limit: commandHistoryLimit}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *Storage) Close() error {
	return s.ds.Close()
}

func key(guildID string) string {
	if guildID == "" {
		return directKey
	}
	return guildID
}

// getOrCreateGuildRecord decodes the stored record of a guild. Callers hold mu.
func (s *Storage) getOrCreateGuildRecord(guildID string) (*Record, error) {
	var record Record
	exists, err := s.ds.Get(key(guildID), &record)
	if err != nil {
		return nil, fmt.Errorf("read record %s: %w", key(guildID), err)
	}
	if !exists || record.CommandsHistoryList == nil {
		record.CommandsHistoryList = []CommandHistoryRecord{}
	}
	return &record, nil
}

// AppendCommandToHistory appends a record, dropping the oldest ones beyond
// the history limit.
func (s *Storage) AppendCommandToHistory(guildID string, command CommandHistoryRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.getOrCreateGuildRecord(guildID)
	if err != nil {
		return err
	}

	record.CommandsHistoryList = append(record.CommandsHistoryList, command)
	if n := len(record.CommandsHistoryList); n > s.limit {
		record.CommandsHistoryList = record.CommandsHistoryList[n-s.limit:]
	}
	if err := s.ds.Set(key(guildID), record); err != nil {
		return fmt.Errorf("write record %s: %w", key(guildID), err)
	}
	return nil
}

// FetchCommandHistory returns the records of a guild, oldest first.
func (s *Storage) FetchCommandHistory(guildID string) ([]CommandHistoryRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.getOrCreateGuildRecord(guildID)
	if err != nil {
		return nil, err
	}
	return record.CommandsHistoryList, nil
}
