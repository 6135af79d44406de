package battle

import "gorm.io/gorm"

// Profile stores unique player identity and aggregate stats. PlayerID is a
// server-minted UUID used for battle participation; TenantID scopes the
// player to their school organization.
type Profile struct {
	gorm.Model
	PlayerID      string `json:"player_id" gorm:"uniqueIndex"`
	TenantID      string `json:"tenant_id" gorm:"index"`
	Email         string `json:"email" gorm:"uniqueIndex"`
	DisplayName   string `json:"display_name"`
	BattlesPlayed int    `json:"battles_played"`
	Wins          int    `json:"wins"`
	Abandons      int    `json:"abandons"`
}

func (Profile) TableName() string { return "player_profiles" }
