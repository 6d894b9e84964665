package store

import (
	"context"
	"fmt"

	"github.com/viant/afs"
	"github.com/viant/scy"
	_ "github.com/viant/scy/kms/blowfish"
	"github.com/velovis/velovis/auth"
)

// DefaultEncryptionKey uses the blowfish kms with its built-in key
const DefaultEncryptionKey = "blowfish://default"

// SecureStore persists the session state encrypted at rest
type SecureStore struct {
	URL string
	Key string
	fs  afs.Service
	scy *scy.Service
}

func (s *SecureStore) resource() *scy.Resource {
	return scy.NewResource(&auth.State{}, s.URL, s.Key)
}

func (s *SecureStore) Load(ctx context.Context) (*auth.State, error) {
	exists, err := s.fs.Exists(ctx, s.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to check session secret %v: %w", s.URL, err)
	}
	if !exists {
		return nil, nil
	}
	secret, err := s.scy.Load(ctx, s.resource())
	if err != nil {
		return nil, fmt.Errorf("failed to load session secret %v: %w", s.URL, err)
	}
	switch actual := secret.Target.(type) {
	case *auth.State:
		return actual, nil
	case auth.State:
		return &actual, nil
	}
	return nil, fmt.Errorf("unexpected session secret type %T", secret.Target)
}

func (s *SecureStore) Save(ctx context.Context, state *auth.State) error {
	secret := scy.NewSecret(state, s.resource())
	if err := s.scy.Store(ctx, secret); err != nil {
		return fmt.Errorf("failed to store session secret %v: %w", s.URL, err)
	}
	return nil
}

func (s *SecureStore) Clear(ctx context.Context) error {
	exists, err := s.fs.Exists(ctx, s.URL)
	if err != nil || !exists {
		return err
	}
	return s.fs.Delete(ctx, s.URL)
}

// NewSecureStore creates an encrypted store; an empty key selects DefaultEncryptionKey
func NewSecureStore(URL, key string) *SecureStore {
	if key == "" {
		key = DefaultEncryptionKey
	}
	return &SecureStore{URL: URL, Key: key, fs: afs.New(), scy: scy.New()}
}
