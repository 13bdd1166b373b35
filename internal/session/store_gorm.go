package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/shop_backoffice/internal/models"
)

type GormStore struct {
	DB  *gorm.DB
	Now func() time.Time
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{DB: db, Now: time.Now}
}

func (st *GormStore) Load(ctx context.Context, id string) (*Session, error) {
	var rec models.SessionRecord
	err := st.DB.WithContext(ctx).
		Where("id = ? AND expires_at > ?", id, st.Now().UTC()).
		First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	s := &Session{}
	if err := json.Unmarshal([]byte(rec.Data), s); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	s.ID = rec.ID
	return s, nil
}

func (st *GormStore) Save(ctx context.Context, s *Session, ttl time.Duration) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	rec := models.SessionRecord{
		ID:        s.ID,
		Data:      string(data),
		ExpiresAt: st.Now().Add(ttl).UTC(),
	}
	return st.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"data", "expires_at"}),
		}).
		Create(&rec).Error
}

func (st *GormStore) Delete(ctx context.Context, id string) error {
	return st.DB.WithContext(ctx).Delete(&models.SessionRecord{}, "id = ?", id).Error
}

// PurgeExpired removes records past their expiry and reports how many went.
func (st *GormStore) PurgeExpired(ctx context.Context) (int64, error) {
	res := st.DB.WithContext(ctx).Where("expires_at <= ?", st.Now().UTC()).Delete(&models.SessionRecord{})
	return res.RowsAffected, res.Error
}
