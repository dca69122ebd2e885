package repos

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"ccp/internal/domain"
)

type PrefsRepo struct{ db *sqlx.DB }

func NewPrefsRepo(db *sqlx.DB) *PrefsRepo { return &PrefsRepo{db: db} }

// Get returns the stored preferences for a device, or the defaults when the
// device has none yet.
func (r *PrefsRepo) Get(deviceID string) (domain.Preferences, error) {
	var p domain.Preferences
	err := r.db.Get(&p, `SELECT theme, font_size, language FROM preferences WHERE device_id = ?`, deviceID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.DefaultPreferences(), nil
	}
	if err != nil {
		return domain.Preferences{}, err
	}
	return p.Normalize(), nil
}

func (r *PrefsRepo) Save(deviceID string, p domain.Preferences) error {
	p = p.Normalize()
	_, err := r.db.Exec(`
		INSERT INTO preferences(device_id, theme, font_size, language, updated_at)
		VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(device_id) DO UPDATE SET
		  theme = excluded.theme,
		  font_size = excluded.font_size,
		  language = excluded.language,
		  updated_at = CURRENT_TIMESTAMP
	`, deviceID, p.Theme, p.FontSize, p.Language)
	return err
}
