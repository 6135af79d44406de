package storage

import (
	"errors"
	"time"

	"cardclash/internal/battle"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type sqliteRepository struct {
	db *gorm.DB
}

func NewSQLiteRepository(db *gorm.DB) Repository {
	return &sqliteRepository{db: db}
}

func (r *sqliteRepository) CreateSession(s *battle.Session) error {
	return r.db.Create(s).Error
}

func (r *sqliteRepository) SaveSession(s *battle.Session) error {
	return r.db.Save(s).Error
}

func (r *sqliteRepository) SaveSessionWithEntries(s *battle.Session, entries []battle.LogEntry) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(s).Error; err != nil {
			return err
		}
		if len(entries) == 0 {
			return nil
		}
		return tx.Create(&entries).Error
	})
}

func (r *sqliteRepository) GetSessionByBattleID(battleID string) (*battle.Session, error) {
	var s battle.Session
	if err := r.db.Where("battle_id = ?", battleID).First(&s).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *sqliteRepository) ListLogEntries(battleID string, sinceSeq uint64) ([]battle.LogEntry, error) {
	var entries []battle.LogEntry
	if err := r.db.Where("battle_id = ? AND sequence > ?", battleID, sinceSeq).
		Order("sequence ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *sqliteRepository) FindStalledBattles(now time.Time, limit int) ([]battle.Session, error) {
	if limit <= 0 {
		limit = 20
	}
	var sessions []battle.Session
	if err := r.db.Where("status = ? AND turn_deadline <= ?", battle.StatusInProgress, now).
		Order("turn_deadline ASC").
		Limit(limit).
		Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *sqliteRepository) ListFinishedByPlayer(playerID string, limit int) ([]battle.Session, error) {
	if limit <= 0 {
		limit = 20
	}
	var sessions []battle.Session
	// Participants live inside the JSON field column; an indexed join
	// table is not worth it at this scale, so match on the serialized IDs.
	if err := r.db.Where("status IN ?", []battle.Status{battle.StatusFinished, battle.StatusAbandoned}).
		Where("field LIKE ?", "%"+playerID+"%").
		Order("updated_at DESC").
		Limit(limit).
		Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *sqliteRepository) UpsertProfile(email, tenantID, displayName string) (*battle.Profile, error) {
	var p battle.Profile
	if err := r.db.Where("email = ?", email).First(&p).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		p = battle.Profile{PlayerID: uuid.NewString(), Email: email}
	}
	p.TenantID = tenantID
	if displayName != "" {
		p.DisplayName = displayName
	}
	if err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{"tenant_id", "display_name"}),
	}).Create(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *sqliteRepository) GetProfileByEmail(email string) (*battle.Profile, error) {
	var p battle.Profile
	if err := r.db.Where("email = ?", email).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *sqliteRepository) GetProfileByPlayerID(playerID string) (*battle.Profile, error) {
	var p battle.Profile
	if err := r.db.Where("player_id = ?", playerID).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *sqliteRepository) SaveProfile(p *battle.Profile) error {
	return r.db.Save(p).Error
}

// UpdateStatsOnBattleEnd applies aggregate stat deltas for a terminal
// battle: both participants played one battle, the winner (if any) gets a
// win, an abandoning player gets an abandon. Abandonment never credits the
// opponent with a win.
func (r *sqliteRepository) UpdateStatsOnBattleEnd(s *battle.Session, abandonedBy string) error {
	apply := func(playerID string, played, wins, abandons int) error {
		var p battle.Profile
		if err := r.db.Where("player_id = ?", playerID).First(&p).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		p.BattlesPlayed += played
		p.Wins += wins
		p.Abandons += abandons
		return r.db.Save(&p).Error
	}

	for i := range s.Field.Players {
		if err := apply(s.Field.Players[i].PlayerID, 1, 0, 0); err != nil {
			return err
		}
	}
	if s.WinnerID != "" {
		if err := apply(s.WinnerID, 0, 1, 0); err != nil {
			return err
		}
	}
	if abandonedBy != "" {
		return apply(abandonedBy, 0, 0, 1)
	}
	return nil
}

func (r *sqliteRepository) GetTopPlayers(limit int) ([]battle.Profile, error) {
	if limit <= 0 {
		limit = 10
	}
	var profiles []battle.Profile
	if err := r.db.Model(&battle.Profile{}).
		Order("wins DESC").
		Order("battles_played DESC").
		Limit(limit).
		Find(&profiles).Error; err != nil {
		return nil, err
	}
	return profiles, nil
}
