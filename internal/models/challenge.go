package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Challenge types.
const (
	ChallengeNutrition  = "nutrition"
	ChallengeExercise   = "exercise"
	ChallengeWeightLoss = "weight_loss"
	ChallengeHydration  = "hydration"
	ChallengeMeditation = "meditation"
	ChallengeCustom     = "custom"
)

// Difficulty levels. The point multiplier depends on these.
const (
	DifficultyBeginner     = "beginner"
	DifficultyIntermediate = "intermediate"
	DifficultyAdvanced     = "advanced"
)

// Computed challenge statuses.
const (
	StatusUpcoming  = "upcoming"
	StatusActive    = "active"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// Participant statuses.
const (
	ParticipantActive     = "active"
	ParticipantCompleted  = "completed"
	ParticipantDroppedOut = "dropped_out"
)

// ChallengeGoal is a single metric target inside a challenge.
type ChallengeGoal struct {
	ID          string  `json:"id"`
	Type        string  `json:"type"` // calories, steps, water, workouts, weight, custom
	Target      float64 `json:"target"`
	Unit        string  `json:"unit"`
	Description string  `json:"description"`
	IsRequired  bool    `json:"is_required"`
}

type ChallengeGoalList []ChallengeGoal

func (l ChallengeGoalList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return "[]", nil
	}
	return json.Marshal(l)
}

func (l *ChallengeGoalList) Scan(value interface{}) error {
	if value == nil {
		*l = ChallengeGoalList{}
		return nil
	}
	return scanJSONB(value, l)
}

// ChallengeProgress records one day's value for one goal. At most one entry
// exists per (participant, date, goal); a new submission replaces the old.
type ChallengeProgress struct {
	Date         string  `json:"date"` // YYYY-MM-DD
	GoalID       string  `json:"goal_id"`
	CurrentValue float64 `json:"current_value"`
	TargetValue  float64 `json:"target_value"`
	IsCompleted  bool    `json:"is_completed"`
	Points       int     `json:"points"`
}

// ChallengeParticipant carries a participant's progress log plus the two
// derived fields: TotalScore (sum of progress points) and Ranking (1-based
// position after the challenge-wide re-sort).
type ChallengeParticipant struct {
	UserID     uuid.UUID           `json:"user_id"`
	Username   string              `json:"username"`
	JoinedAt   time.Time           `json:"joined_at"`
	Progress   []ChallengeProgress `json:"progress"`
	TotalScore int                 `json:"total_score"`
	Ranking    int                 `json:"ranking"`
	Status     string              `json:"status"`
}

type ChallengeParticipantList []ChallengeParticipant

func (l ChallengeParticipantList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return "[]", nil
	}
	return json.Marshal(l)
}

func (l *ChallengeParticipantList) Scan(value interface{}) error {
	if value == nil {
		*l = ChallengeParticipantList{}
		return nil
	}
	return scanJSONB(value, l)
}

// ChallengeReward describes what completing a challenge earns.
type ChallengeReward struct {
	ID          string `json:"id"`
	Type        string `json:"type"` // badge, points, discount, feature_unlock
	Name        string `json:"name"`
	Description string `json:"description"`
	Requirement string `json:"requirement"`
	Value       int    `json:"value,omitempty"`
}

type ChallengeRewardList []ChallengeReward

func (l ChallengeRewardList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return "[]", nil
	}
	return json.Marshal(l)
}

func (l *ChallengeRewardList) Scan(value interface{}) error {
	if value == nil {
		*l = ChallengeRewardList{}
		return nil
	}
	return scanJSONB(value, l)
}

// Challenge is stored as a single document-shaped row: goals, participants
// and rewards live in JSONB columns so a progress update rewrites one row.
type Challenge struct {
	ID              uuid.UUID                `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt       time.Time                `json:"created_at"`
	UpdatedAt       time.Time                `json:"updated_at"`
	DeletedAt       gorm.DeletedAt           `gorm:"index" json:"-"`
	Title           string                   `gorm:"size:255;not null" json:"title"`
	Description     string                   `gorm:"type:text" json:"description"`
	Type            string                   `gorm:"size:30;not null" json:"type"`
	Duration        int                      `gorm:"not null" json:"duration"` // days
	StartDate       string                   `gorm:"size:10;not null" json:"start_date"`
	EndDate         string                   `gorm:"size:10;not null" json:"end_date"`
	Goals           ChallengeGoalList        `gorm:"type:jsonb;not null;default:'[]'" json:"goals"`
	Participants    ChallengeParticipantList `gorm:"type:jsonb;not null;default:'[]'" json:"participants"`
	Rewards         ChallengeRewardList      `gorm:"type:jsonb;not null;default:'[]'" json:"rewards"`
	Rules           JSONBStringArray         `gorm:"type:jsonb;not null;default:'[]'" json:"rules"`
	Difficulty      string                   `gorm:"size:20;not null;default:'beginner'" json:"difficulty"`
	MaxParticipants int                      `json:"max_participants,omitempty"`
	Cancelled       bool                     `gorm:"not null;default:false" json:"cancelled"`
	CreatedBy       string                   `gorm:"size:255" json:"created_by"`
}

func (c *Challenge) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// EffectiveStatus derives the challenge status from the clock. Status is
// never stored as free-floating mutable state; cancellation is the only
// explicit override.
func (c *Challenge) EffectiveStatus(now time.Time) string {
	if c.Cancelled {
		return StatusCancelled
	}
	today := now.Format("2006-01-02")
	switch {
	case today < c.StartDate:
		return StatusUpcoming
	case today <= c.EndDate:
		return StatusActive
	default:
		return StatusCompleted
	}
}

// Participant returns the participant with the given user id, or nil.
func (c *Challenge) Participant(userID uuid.UUID) *ChallengeParticipant {
	for i := range c.Participants {
		if c.Participants[i].UserID == userID {
			return &c.Participants[i]
		}
	}
	return nil
}

// Goal returns the goal with the given id, or nil.
func (c *Challenge) Goal(goalID string) *ChallengeGoal {
	for i := range c.Goals {
		if c.Goals[i].ID == goalID {
			return &c.Goals[i]
		}
	}
	return nil
}
