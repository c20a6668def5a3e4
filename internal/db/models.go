package db

import (
	"time"

	"gorm.io/datatypes"
)

// Round status values. Transitions only ever move forward:
// idle -> active -> closed.
const (
	RoundStatusIdle   = "idle"
	RoundStatusActive = "active"
	RoundStatusClosed = "closed"
)

const (
	RoleHost   = "host"
	RolePlayer = "player"
)

// User rows are written by the authentication layer; this service only
// reads them for display names.
type User struct {
	ID        string    `gorm:"primaryKey;size:64"`
	Name      string    `gorm:"size:128;not null"`
	Email     string    `gorm:"size:256;uniqueIndex;not null"`
	Image     string    `gorm:"size:512"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// Session rows are issued by the authentication layer; this service only
// resolves bearer tokens against them.
type Session struct {
	ID        string    `gorm:"primaryKey;size:64"`
	Token     string    `gorm:"size:128;uniqueIndex;not null"`
	UserID    string    `gorm:"size:64;index;not null"`
	ExpiresAt time.Time `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`
}

type Category struct {
	ID        uint      `gorm:"primaryKey"`
	Name      string    `gorm:"size:128;uniqueIndex;not null"`
	CreatedAt time.Time `gorm:"not null"`
}

type Question struct {
	ID         uint      `gorm:"primaryKey"`
	CategoryID uint      `gorm:"index:idx_questions_category_value;not null"`
	Value      int       `gorm:"index:idx_questions_category_value;not null"`
	Prompt     string    `gorm:"size:512;not null"`
	Answer     string    `gorm:"size:512;not null"`
	CreatedAt  time.Time `gorm:"not null"`
}

type Round struct {
	ID              string    `gorm:"primaryKey;size:36"`
	Status          string    `gorm:"size:16;not null;default:idle"`
	CurrentPlayerID *string   `gorm:"size:64"`
	CreatedAt       time.Time `gorm:"not null"`
	UpdatedAt       time.Time `gorm:"not null"`
}

type RoundPlayer struct {
	ID       uint      `gorm:"primaryKey"`
	RoundID  string    `gorm:"size:36;not null;uniqueIndex:idx_round_players_round_user"`
	UserID   string    `gorm:"size:64;not null;uniqueIndex:idx_round_players_round_user"`
	Role     string    `gorm:"size:8;not null"`
	Score    int       `gorm:"not null;default:0"`
	JoinedAt time.Time `gorm:"not null"`
}

type RoundCategory struct {
	ID          uint   `gorm:"primaryKey"`
	RoundID     string `gorm:"size:36;not null;uniqueIndex:idx_round_categories_round_column"`
	CategoryID  uint   `gorm:"not null"`
	ColumnIndex int    `gorm:"not null;uniqueIndex:idx_round_categories_round_column"`
}

type RoundClue struct {
	ID          uint   `gorm:"primaryKey"`
	RoundID     string `gorm:"size:36;not null;uniqueIndex:idx_round_clues_round_question"`
	QuestionID  uint   `gorm:"not null;uniqueIndex:idx_round_clues_round_question"`
	ColumnIndex int    `gorm:"not null"`
	RowIndex    int    `gorm:"not null"`
	Revealed    bool   `gorm:"not null;default:false"`
	Answered    bool   `gorm:"not null;default:false"`
	AnsweredAt  *time.Time
}

// Event is an append-only copy of every broadcast emission, kept for
// audit and debugging. Listeners never replay from it; a client that
// connects late resynchronizes from a snapshot instead.
type Event struct {
	ID        uint           `gorm:"primaryKey"`
	RoundID   string         `gorm:"size:36;index;not null"`
	UserID    *string        `gorm:"size:64"`
	Type      string         `gorm:"size:64;not null"`
	Payload   datatypes.JSON `gorm:"type:jsonb;not null"`
	CreatedAt time.Time      `gorm:"not null"`
}
