package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// File defines a public type used by secureauth APIs.
//
// File instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
//
// The whole session record lives in one JSON document rewritten atomically on
// every mutation (write-temp-then-rename), so a crash mid-write never leaves a
// torn record behind.
type File struct {
	mu   sync.Mutex
	path string
}

// NewFile describes the newfile operation and its observable behavior.
//
// NewFile may return an error when input validation, dependency calls, or security checks fail.
func NewFile(path string) (*File, error) {
	if path == "" {
		return nil, errors.New("empty store path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}
	return &File{path: path}, nil
}

func (f *File) load() (map[string]string, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("read session file: %w", err)
	}
	values := map[string]string{}
	if len(data) == 0 {
		return values, nil
	}
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("decode session file: %w", err)
	}
	return values, nil
}

func (f *File) save(values map[string]string) error {
	data, err := json.Marshal(values)
	if err != nil {
		return fmt.Errorf("encode session file: %w", err)
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("replace session file: %w", err)
	}
	return nil
}

func (f *File) get(key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	values, err := f.load()
	if err != nil {
		return "", err
	}
	return values[key], nil
}

func (f *File) set(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	values, err := f.load()
	if err != nil {
		return err
	}
	values[key] = value
	return f.save(values)
}

func (f *File) SetTokens(_ context.Context, access, refresh, session string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	values, err := f.load()
	if err != nil {
		return err
	}
	values[KeyAccessToken] = access
	values[KeyRefreshToken] = refresh
	if session != "" {
		values[KeySessionToken] = session
	}
	return f.save(values)
}

func (f *File) SetAccessToken(_ context.Context, access string) error {
	return f.set(KeyAccessToken, access)
}

func (f *File) AccessToken(context.Context) (string, error) {
	return f.get(KeyAccessToken)
}

func (f *File) RefreshToken(context.Context) (string, error) {
	return f.get(KeyRefreshToken)
}

func (f *File) SessionToken(context.Context) (string, error) {
	return f.get(KeySessionToken)
}

func (f *File) SetProfile(_ context.Context, raw []byte) error {
	return f.set(KeyProfile, string(raw))
}

func (f *File) Profile(context.Context) ([]byte, error) {
	v, err := f.get(KeyProfile)
	if err != nil {
		return nil, err
	}
	if v == "" {
		return nil, nil
	}
	return []byte(v), nil
}

func (f *File) SetUsername(_ context.Context, username string) error {
	return f.set(KeyUsername, username)
}

func (f *File) Username(context.Context) (string, error) {
	return f.get(KeyUsername)
}

func (f *File) Clear(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := os.Remove(f.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}
