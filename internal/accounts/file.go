package accounts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/lukman83/martdash/internal/models"
)

type tokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// FileStore keeps accounts in one JSON object keyed by mobile number.
type FileStore struct {
	path string
	mu   sync.Mutex
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Get(_ context.Context, mobile string) (models.AuthSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.load()
	if err != nil {
		return models.AuthSession{}, err
	}
	tp, ok := all[mobile]
	if !ok {
		return models.AuthSession{}, ErrNotFound
	}
	return toSession(mobile, tp), nil
}

func (s *FileStore) Save(_ context.Context, session models.AuthSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.load()
	if err != nil {
		return err
	}
	all[session.MobileNumber] = tokenPair{AccessToken: session.AccessToken, RefreshToken: session.RefreshToken}
	return s.write(all)
}

func (s *FileStore) Delete(_ context.Context, mobile string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := all[mobile]; !ok {
		return nil
	}
	delete(all, mobile)
	return s.write(all)
}

func (s *FileStore) List(_ context.Context) ([]models.AuthSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.load()
	if err != nil {
		return nil, err
	}
	out := make([]models.AuthSession, 0, len(all))
	for mobile, tp := range all {
		out = append(out, toSession(mobile, tp))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MobileNumber < out[j].MobileNumber })
	return out, nil
}

func (s *FileStore) Close() error { return nil }

func (s *FileStore) load() (map[string]tokenPair, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return make(map[string]tokenPair), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read accounts file: %w", err)
	}
	all := make(map[string]tokenPair)
	if len(data) == 0 {
		return all, nil
	}
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, fmt.Errorf("parse accounts file: %w", err)
	}
	return all, nil
}

// write replaces the file via temp file and rename.
func (s *FileStore) write(all map[string]tokenPair) error {
	data, err := json.MarshalIndent(all, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal accounts: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".accounts-*.json")
	if err != nil {
		return fmt.Errorf("create accounts temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write accounts temp file: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod accounts temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close accounts temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace accounts file: %w", err)
	}
	return nil
}

func toSession(mobile string, tp tokenPair) models.AuthSession {
	return models.AuthSession{
		MobileNumber: mobile,
		AccessToken:  tp.AccessToken,
		RefreshToken: tp.RefreshToken,
	}
}
