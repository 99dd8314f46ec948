package visitor

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/mrxclay666777/speakyz/core/prefs"
)

// ErrPreferenceNotFound is returned by a PreferenceRepository when the key is not set.
var ErrPreferenceNotFound = errors.New("preference not found")

// PreferenceRepository stores every visitor's preferences.
type PreferenceRepository interface {
	GetPreference(ctx context.Context, visitorID, key string) (string, error)
	SetPreference(ctx context.Context, visitorID, key, value string) error
	CountVisitors(ctx context.Context) (int, error)
}

// ScopedBackend is the prefs.Backend of a single visitor.
type ScopedBackend struct {
	repo      PreferenceRepository
	visitorID string
	timeout   time.Duration
}

var _ prefs.Backend = (*ScopedBackend)(nil)

func NewScopedBackend(repo PreferenceRepository, visitorID string, timeout time.Duration) *ScopedBackend {
	return &ScopedBackend{repo: repo, visitorID: visitorID, timeout: timeout}
}

func (b *ScopedBackend) ctx() (context.Context, context.CancelFunc) {
	if b.timeout <= 0 {
		return context.Background(), func() {}
	}
	return context.WithTimeout(context.Background(), b.timeout)
}

func (b *ScopedBackend) Get(key string) (string, bool, error) {
	ctx, cancel := b.ctx()
	defer cancel()

	value, err := b.repo.GetPreference(ctx, b.visitorID, key)
	if errors.Is(err, ErrPreferenceNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.Wrapf(err, "getting %s", key)
	}
	return value, true, nil
}

func (b *ScopedBackend) Set(key, value string) error {
	ctx, cancel := b.ctx()
	defer cancel()

	return errors.Wrapf(b.repo.SetPreference(ctx, b.visitorID, key, value), "setting %s", key)
}
