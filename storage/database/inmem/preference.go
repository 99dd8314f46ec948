package inmemdb

import (
	"context"

	"github.com/mrxclay666777/speakyz/core/visitor"
)

type preferenceRepository struct {
	db *preferenceTable
}

var _ visitor.PreferenceRepository = (*preferenceRepository)(nil) // interface compliance check

func NewPreferenceRepository(db *DB) *preferenceRepository {
	return &preferenceRepository{db: db.preference}
}

func (repo *preferenceRepository) GetPreference(_ context.Context, visitorID, key string) (string, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if value, ok := repo.db.table[visitorID][key]; ok {
		return value, nil
	}
	return "", visitor.ErrPreferenceNotFound
}

func (repo *preferenceRepository) SetPreference(_ context.Context, visitorID, key, value string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	prefs, ok := repo.db.table[visitorID]
	if !ok {
		prefs = make(map[string]string)
		repo.db.table[visitorID] = prefs
	}
	prefs[key] = value
	return nil
}

func (repo *preferenceRepository) CountVisitors(context.Context) (int, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return len(repo.db.table), nil
}
