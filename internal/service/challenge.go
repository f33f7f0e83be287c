package service

import (
	"context"
	"errors"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/nutritrack/backend/internal/models"
	"gorm.io/gorm"
)

var (
	ErrChallengeNotFound = errors.New("challenge not found")
	ErrChallengeFull     = errors.New("challenge is full")
	ErrAlreadyJoined     = errors.New("user already joined this challenge")
	ErrNotParticipant    = errors.New("user is not a participant of this challenge")
	ErrGoalNotFound      = errors.New("challenge goal not found")
)

// Base points per completed daily goal. Required goals are worth double.
const (
	requiredGoalPoints = 10
	optionalGoalPoints = 5
)

var difficultyMultipliers = map[string]float64{
	models.DifficultyBeginner:     1.0,
	models.DifficultyIntermediate: 1.5,
	models.DifficultyAdvanced:     2.0,
}

// ChallengeFilters narrow challenge listings.
type ChallengeFilters struct {
	Type       string `form:"type" json:"type,omitempty"`
	Status     string `form:"status" json:"status,omitempty"`
	Difficulty string `form:"difficulty" json:"difficulty,omitempty"`
}

// LeaderboardEntry is one row of a challenge leaderboard.
type LeaderboardEntry struct {
	Rank           int       `json:"rank"`
	UserID         uuid.UUID `json:"user_id"`
	Username       string    `json:"username"`
	TotalScore     int       `json:"total_score"`
	CompletedGoals int       `json:"completed_goals"`
	TotalGoals     int       `json:"total_goals"`
	Streak         int       `json:"streak"`
}

// Leaderboard is the ranked participant view of one challenge.
type Leaderboard struct {
	ChallengeID uuid.UUID          `json:"challenge_id"`
	Title       string             `json:"title"`
	Entries     []LeaderboardEntry `json:"entries"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// UserStats aggregates a user's standing across all their challenges.
type UserStats struct {
	ActiveChallenges    int    `json:"active_challenges"`
	CompletedChallenges int    `json:"completed_challenges"`
	TotalPoints         int    `json:"total_points"`
	BestStreak          int    `json:"best_streak"`
	FavoriteType        string `json:"favorite_type,omitempty"`
}

// ChallengeService manages community challenges. Challenges are document
// rows: joins and progress updates rewrite the whole row, so concurrent
// writers resolve last-write-wins.
type ChallengeService struct {
	db  *gorm.DB
	now func() time.Time
}

var _ IChallengeService = (*ChallengeService)(nil)

// NewChallengeService creates a ChallengeService. The clock is injected so
// streak and status tests can pin dates.
func NewChallengeService(db *gorm.DB, now func() time.Time) *ChallengeService {
	if now == nil {
		now = time.Now
	}
	return &ChallengeService{db: db, now: now}
}

// CreateChallenge stores a new challenge. EndDate is derived from StartDate
// and Duration when absent.
func (s *ChallengeService) CreateChallenge(ctx context.Context, challenge *models.Challenge) (*models.Challenge, error) {
	if challenge.ID == uuid.Nil {
		challenge.ID = uuid.New()
	}
	if challenge.Difficulty == "" {
		challenge.Difficulty = models.DifficultyBeginner
	}
	if challenge.StartDate == "" {
		challenge.StartDate = s.now().Format("2006-01-02")
	}
	if challenge.EndDate == "" && challenge.Duration > 0 {
		start, err := time.Parse("2006-01-02", challenge.StartDate)
		if err == nil {
			challenge.EndDate = start.AddDate(0, 0, challenge.Duration-1).Format("2006-01-02")
		}
	}
	if err := s.db.WithContext(ctx).Create(challenge).Error; err != nil {
		return nil, err
	}
	return challenge, nil
}

// ListChallenges returns challenges matching the filters. Status filtering
// happens in memory because status is derived from the clock, not stored.
func (s *ChallengeService) ListChallenges(ctx context.Context, filters ChallengeFilters) ([]models.Challenge, error) {
	query := s.db.WithContext(ctx).Model(&models.Challenge{})
	if filters.Type != "" {
		query = query.Where("type = ?", filters.Type)
	}
	if filters.Difficulty != "" {
		query = query.Where("difficulty = ?", filters.Difficulty)
	}

	var challenges []models.Challenge
	if err := query.Order("start_date DESC").Find(&challenges).Error; err != nil {
		return nil, err
	}
	if filters.Status == "" {
		return challenges, nil
	}

	now := s.now()
	filtered := challenges[:0]
	for _, c := range challenges {
		if c.EffectiveStatus(now) == filters.Status {
			filtered = append(filtered, c)
		}
	}
	return filtered, nil
}

func (s *ChallengeService) GetChallenge(ctx context.Context, id uuid.UUID) (*models.Challenge, error) {
	var challenge models.Challenge
	if err := s.db.WithContext(ctx).First(&challenge, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChallengeNotFound
		}
		return nil, err
	}
	return &challenge, nil
}

// Join adds a user to a challenge. The new participant gets a provisional
// ranking at the bottom of the current standings; the real ranking is
// assigned on the next progress-driven re-sort.
func (s *ChallengeService) Join(ctx context.Context, challengeID, userID uuid.UUID, username string) error {
	challenge, err := s.GetChallenge(ctx, challengeID)
	if err != nil {
		return err
	}
	if challenge.MaxParticipants > 0 && len(challenge.Participants) >= challenge.MaxParticipants {
		return ErrChallengeFull
	}
	if challenge.Participant(userID) != nil {
		return ErrAlreadyJoined
	}

	challenge.Participants = append(challenge.Participants, models.ChallengeParticipant{
		UserID:   userID,
		Username: username,
		JoinedAt: s.now(),
		Progress: []models.ChallengeProgress{},
		Ranking:  len(challenge.Participants) + 1,
		Status:   models.ParticipantActive,
	})
	return s.db.WithContext(ctx).Save(challenge).Error
}

// UpdateProgress records today's value for one goal. Submitting twice on the
// same day replaces the earlier entry. It recomputes the participant's score
// and re-ranks the whole challenge before writing the row back.
func (s *ChallengeService) UpdateProgress(ctx context.Context, challengeID, userID uuid.UUID, goalID string, value float64) (*models.ChallengeProgress, error) {
	challenge, err := s.GetChallenge(ctx, challengeID)
	if err != nil {
		return nil, err
	}
	participant := challenge.Participant(userID)
	if participant == nil {
		return nil, ErrNotParticipant
	}
	goal := challenge.Goal(goalID)
	if goal == nil {
		return nil, ErrGoalNotFound
	}

	entry := models.ChallengeProgress{
		Date:         s.now().Format("2006-01-02"),
		GoalID:       goalID,
		CurrentValue: value,
		TargetValue:  goal.Target,
		IsCompleted:  value >= goal.Target,
	}
	if entry.IsCompleted {
		entry.Points = goalPoints(goal, challenge.Difficulty)
	}

	replaced := false
	for i := range participant.Progress {
		if participant.Progress[i].Date == entry.Date && participant.Progress[i].GoalID == goalID {
			participant.Progress[i] = entry
			replaced = true
			break
		}
	}
	if !replaced {
		participant.Progress = append(participant.Progress, entry)
	}

	participant.TotalScore = 0
	for _, p := range participant.Progress {
		participant.TotalScore += p.Points
	}
	rerank(challenge)

	if err := s.db.WithContext(ctx).Save(challenge).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

// goalPoints is the award for completing one goal on one day.
func goalPoints(goal *models.ChallengeGoal, difficulty string) int {
	base := optionalGoalPoints
	if goal.IsRequired {
		base = requiredGoalPoints
	}
	mult, ok := difficultyMultipliers[difficulty]
	if !ok {
		mult = 1.0
	}
	return int(math.Round(float64(base) * mult))
}

// rerank sorts participants by total score and reassigns 1..N rankings. The
// sort is stable, so equal scores keep their previous relative order.
func rerank(challenge *models.Challenge) {
	sort.SliceStable(challenge.Participants, func(i, j int) bool {
		return challenge.Participants[i].TotalScore > challenge.Participants[j].TotalScore
	})
	for i := range challenge.Participants {
		challenge.Participants[i].Ranking = i + 1
	}
}

// Leaderboard builds the ranked view of a challenge. TotalGoals is the
// challenge's goal count times its duration in days.
func (s *ChallengeService) Leaderboard(ctx context.Context, challengeID uuid.UUID) (*Leaderboard, error) {
	challenge, err := s.GetChallenge(ctx, challengeID)
	if err != nil {
		return nil, err
	}

	board := &Leaderboard{
		ChallengeID: challenge.ID,
		Title:       challenge.Title,
		UpdatedAt:   s.now(),
	}
	for _, p := range challenge.Participants {
		completed := 0
		for _, prog := range p.Progress {
			if prog.IsCompleted {
				completed++
			}
		}
		board.Entries = append(board.Entries, LeaderboardEntry{
			Rank:           p.Ranking,
			UserID:         p.UserID,
			Username:       p.Username,
			TotalScore:     p.TotalScore,
			CompletedGoals: completed,
			TotalGoals:     len(challenge.Goals) * challenge.Duration,
			Streak:         calculateStreak(p.Progress),
		})
	}
	sort.SliceStable(board.Entries, func(i, j int) bool {
		return board.Entries[i].Rank < board.Entries[j].Rank
	})
	return board, nil
}

// calculateStreak counts consecutive calendar days with at least one
// completed goal, walking back from the most recent completed date and
// stopping at the first gap.
func calculateStreak(progress []models.ChallengeProgress) int {
	seen := make(map[string]bool)
	var dates []string
	for _, p := range progress {
		if p.IsCompleted && !seen[p.Date] {
			seen[p.Date] = true
			dates = append(dates, p.Date)
		}
	}
	if len(dates) == 0 {
		return 0
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))

	streak := 1
	prev, err := time.Parse("2006-01-02", dates[0])
	if err != nil {
		return 0
	}
	for _, d := range dates[1:] {
		day, err := time.Parse("2006-01-02", d)
		if err != nil {
			break
		}
		if prev.Sub(day) != 24*time.Hour {
			break
		}
		streak++
		prev = day
	}
	return streak
}

// UserStats aggregates one user's totals across every challenge they joined.
func (s *ChallengeService) UserStats(ctx context.Context, userID uuid.UUID) (*UserStats, error) {
	var challenges []models.Challenge
	if err := s.db.WithContext(ctx).Find(&challenges).Error; err != nil {
		return nil, err
	}

	now := s.now()
	stats := &UserStats{}
	typeCounts := make(map[string]int)
	for _, c := range challenges {
		p := c.Participant(userID)
		if p == nil {
			continue
		}
		switch c.EffectiveStatus(now) {
		case models.StatusActive:
			stats.ActiveChallenges++
		case models.StatusCompleted:
			stats.CompletedChallenges++
		}
		stats.TotalPoints += p.TotalScore
		if streak := calculateStreak(p.Progress); streak > stats.BestStreak {
			stats.BestStreak = streak
		}
		typeCounts[c.Type]++
	}

	best := 0
	for challengeType, n := range typeCounts {
		if n > best || (n == best && challengeType < stats.FavoriteType) {
			best = n
			stats.FavoriteType = challengeType
		}
	}
	return stats, nil
}
