package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/mrxclay666777/speakyz/core"
	"github.com/mrxclay666777/speakyz/core/visitor"
)

var NowFunc = time.Now // mockable

type preferenceRepository struct {
	db *sqlx.DB
}

var _ visitor.PreferenceRepository = (*preferenceRepository)(nil) // interface compliance check

func NewPreferenceRepository(db *sqlx.DB) *preferenceRepository {
	return &preferenceRepository{db: db}
}

func (repo *preferenceRepository) GetPreference(ctx context.Context, visitorID, key string) (string, error) {
	var value string
	q := repo.db.Rebind(`SELECT value FROM visitor_preference WHERE visitor_id = ? AND name = ?`)
	if err := repo.db.GetContext(ctx, &value, q, visitorID, key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", visitor.ErrPreferenceNotFound
		}
		return "", core.StorageError(errors.Wrap(err, "selecting preference"))
	}
	return value, nil
}

func (repo *preferenceRepository) SetPreference(ctx context.Context, visitorID, key, value string) error {
	q := repo.db.Rebind(`
		INSERT INTO visitor_preference (visitor_id, name, value, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT (visitor_id, name) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`)
	if _, err := repo.db.ExecContext(ctx, q, visitorID, key, value, NowFunc().UTC()); err != nil {
		return core.StorageError(errors.Wrap(err, "upserting preference"))
	}
	return nil
}

func (repo *preferenceRepository) CountVisitors(ctx context.Context) (int, error) {
	var n int
	if err := repo.db.GetContext(ctx, &n, `SELECT COUNT(DISTINCT visitor_id) FROM visitor_preference`); err != nil {
		return 0, core.StorageError(errors.Wrap(err, "counting visitors"))
	}
	return n, nil
}
