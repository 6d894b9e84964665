package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/viant/afs"
	"github.com/velovis/velovis/auth"
)

// FileStore persists the session state as JSON at an afs URL.
// Writes go to a temporary object first and are then moved into place.
type FileStore struct {
	URL string
	fs  afs.Service
}

type fileSnapshot struct {
	Key   string      `json:"key"`
	State *auth.State `json:"state"`
}

func (f *FileStore) Load(ctx context.Context) (*auth.State, error) {
	exists, err := f.fs.Exists(ctx, f.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to check session file %v: %w", f.URL, err)
	}
	if !exists {
		return nil, nil
	}
	data, err := f.fs.DownloadWithURL(ctx, f.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to read session file %v: %w", f.URL, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	var snap fileSnapshot
	if err = json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to decode session file %v: %w", f.URL, err)
	}
	return snap.State, nil
}

func (f *FileStore) Save(ctx context.Context, state *auth.State) error {
	data, err := json.MarshalIndent(fileSnapshot{Key: DefaultKey, State: state}, "", "  ")
	if err != nil {
		return err
	}
	tmp := f.URL + ".tmp"
	if err = f.fs.Upload(ctx, tmp, 0o600, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write session file %v: %w", tmp, err)
	}
	if err = f.fs.Move(ctx, tmp, f.URL); err != nil {
		return fmt.Errorf("failed to move session file into %v: %w", f.URL, err)
	}
	return nil
}

func (f *FileStore) Clear(ctx context.Context) error {
	exists, err := f.fs.Exists(ctx, f.URL)
	if err != nil || !exists {
		return err
	}
	return f.fs.Delete(ctx, f.URL)
}

// NewFileStore creates a Store that persists the session at the given URL
func NewFileStore(URL string) *FileStore {
	return &FileStore{URL: URL, fs: afs.New()}
}
