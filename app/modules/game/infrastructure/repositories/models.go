package gamedb

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Game is a persisted scoring session. Its ledger is rebuilt from Rounds.
type Game struct {
	bun.BaseModel    `bun:"table:games,alias:g"`
	UUID             uuid.UUID      `bun:"uuid,pk,type:uuid"`
	Team1Name        string         `bun:"team1_name,notnull"`
	Team2Name        string         `bun:"team2_name,notnull"`
	VictoryThreshold int            `bun:"victory_threshold,notnull,default:2000"`
	Seating          *Seating       `bun:"seating,type:jsonb"`
	CreatedAt        time.Time      `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt        time.Time      `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
	Rounds           []*RoundRecord `bun:"rel:has-many,join:uuid=game_uuid"`
}

// Seating is stored as JSONB on the game row.
type Seating struct {
	Players [4]string `json:"players"`
	Dealer  int       `json:"dealer"`
}

// RoundRecord stores the two declarations of one round by label. Points and
// totals are kept for reporting queries; scoring always recomputes them.
type RoundRecord struct {
	bun.BaseModel     `bun:"table:game_rounds,alias:gr"`
	GameUUID          uuid.UUID `bun:"game_uuid,pk,type:uuid"`
	Number            int       `bun:"number,pk"`
	Team1Contract     string    `bun:"team1_contract,notnull"`
	Team1Realized     string    `bun:"team1_realized,notnull"`
	Team1Announcement string    `bun:"team1_announcement,notnull"`
	Team1Remark       string    `bun:"team1_remark,notnull"`
	Team2Contract     string    `bun:"team2_contract,notnull"`
	Team2Realized     string    `bun:"team2_realized,notnull"`
	Team2Announcement string    `bun:"team2_announcement,notnull"`
	Team2Remark       string    `bun:"team2_remark,notnull"`
	Team1Points       int       `bun:"team1_points,notnull"`
	Team2Points       int       `bun:"team2_points,notnull"`
	Team1Total        int       `bun:"team1_total,notnull"`
	Team2Total        int       `bun:"team2_total,notnull"`
	CreatedAt         time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}
