package service

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nutritrack/backend/internal/models"
	"gorm.io/gorm"
)

// CoachService answers free-text health questions. The generative service is
// asked first with the user's profile as context; when it is unavailable the
// rule-based knowledge base answers instead, so the coach never goes silent.
type CoachService struct {
	db  *gorm.DB
	ai  AIClient
	rng *rand.Rand
	now func() time.Time
}

var _ ICoachService = (*CoachService)(nil)

func NewCoachService(db *gorm.DB, ai AIClient, rng *rand.Rand, now func() time.Time) *CoachService {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if now == nil {
		now = time.Now
	}
	return &CoachService{db: db, ai: ai, rng: rng, now: now}
}

// Respond answers a user message and persists both sides of the exchange.
func (s *CoachService) Respond(ctx context.Context, userID uuid.UUID, message string) (*models.ChatMessage, error) {
	userMsg := &models.ChatMessage{
		UserID:  userID,
		Role:    "user",
		Content: message,
		Type:    models.MessageText,
	}
	if err := s.db.WithContext(ctx).Create(userMsg).Error; err != nil {
		return nil, err
	}

	var profile models.NutritionProfile
	var hasProfile bool
	if err := s.db.WithContext(ctx).First(&profile, "user_id = ?", userID).Error; err == nil {
		hasProfile = true
	}

	content := s.aiAnswer(ctx, message, &profile, hasProfile)
	if content == "" {
		content = s.ruleBasedAnswer(ctx, message, userID, &profile, hasProfile)
	}

	reply := &models.ChatMessage{
		UserID:  userID,
		Role:    "assistant",
		Content: content,
		Type:    models.MessageText,
	}
	if err := s.db.WithContext(ctx).Create(reply).Error; err != nil {
		return nil, err
	}
	return reply, nil
}

// History returns the most recent messages, oldest first.
func (s *CoachService) History(ctx context.Context, userID uuid.UUID, limit int) ([]models.ChatMessage, error) {
	if limit <= 0 {
		limit = 50
	}
	var messages []models.ChatMessage
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&messages).Error; err != nil {
		return nil, err
	}
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

// aiAnswer asks the generative service, prefixing the user's profile so the
// answer is personalized. Empty string means the caller should fall back.
func (s *CoachService) aiAnswer(ctx context.Context, message string, profile *models.NutritionProfile, hasProfile bool) string {
	if s.ai == nil {
		return ""
	}
	var profileContext string
	if hasProfile {
		profileContext = fmt.Sprintf(
			"User profile: %d years old, %s, %.0f cm, %.1f kg, activity level %s, goal %s, daily calorie goal %.0f kcal.",
			profile.Age, profile.Gender, profile.HeightCM, profile.WeightKG,
			profile.ActivityLevel, profile.Goal, profile.DailyCalorieGoal,
		)
	}
	answer, err := s.ai.CoachResponse(ctx, message, profileContext)
	if err != nil {
		log.Printf("[CoachService] falling back to rule-based answer: %v", err)
		return ""
	}
	return answer
}

// Intent detection order matters: the first matching category wins, so more
// specific intents are checked before broader ones.
var intentKeywords = []struct {
	intent   string
	keywords []string
}{
	{"weight_loss", []string{"lose weight", "weight loss", "losing weight", "slim", "fat loss", "deficit"}},
	{"exercise", []string{"workout", "exercise", "training", "gym", "run", "cardio", "strength"}},
	{"nutrition", []string{"protein", "carb", "fat", "vitamin", "nutrient", "calorie", "macro", "eat"}},
	{"motivation", []string{"motivat", "give up", "hard", "struggle", "tired", "discourag"}},
	{"meal_planning", []string{"meal plan", "meal prep", "plan my meals", "what should i cook", "recipes for the week"}},
	{"progress", []string{"progress", "how am i doing", "on track", "today", "status"}},
}

var intentReplies = map[string][]string{
	"weight_loss": {
		"Sustainable weight loss comes from a modest calorie deficit, around 500 kcal per day. Focus on protein and fiber to stay full, and be patient: 0.5 kg per week adds up fast.",
		"The best diet for weight loss is the one you can stick to. Keep your deficit moderate, lift weights to preserve muscle, and weigh yourself weekly rather than daily.",
		"Skip the crash diets. Aim for a small daily deficit, fill half your plate with vegetables, and keep protein high so you lose fat rather than muscle.",
	},
	"exercise": {
		"Mix it up: two or three strength sessions a week plus some cardio you actually enjoy. Consistency beats intensity every time.",
		"If you're short on time, a 20-minute full-body session still counts. Squats, push-ups, rows, planks: master the basics before adding complexity.",
		"Recovery is part of training. Sleep well, take at least one rest day a week, and increase the load gradually.",
	},
	"nutrition": {
		"Build each meal around a protein source, add complex carbs and plenty of vegetables, and don't fear healthy fats like olive oil, nuts and avocado.",
		"Aim for roughly 1.6 to 2.2 grams of protein per kilogram of body weight if you're training. Spread it across your meals for the best effect.",
		"Whole foods first: the fewer ingredients on the label, the better. Save processed snacks for the occasional treat, not the daily routine.",
	},
	"motivation": {
		"Progress is rarely linear. A bad day doesn't erase a good week; just get back to your routine at the next meal or workout.",
		"Set process goals, not just outcome goals: 'train three times this week' is in your control, 'lose 2 kg' is not. Celebrate the process wins.",
		"You don't need motivation every day, you need a routine that works even on low-motivation days. Make the healthy choice the easy choice.",
	},
	"meal_planning": {
		"Pick two or three breakfasts and lunches you can rotate, prep ingredients on the weekend, and leave dinner flexible. Boring-but-consistent beats elaborate-but-abandoned.",
		"Start with your calorie goal, split it roughly 25% breakfast, 35% lunch, 35% dinner and a small snack, then fill each slot with meals you actually like.",
		"Batch cooking saves you from decision fatigue: a pot of grains, a tray of roasted vegetables and a couple of proteins cover most of the week.",
	},
	"general": {
		"I can help with nutrition, workouts, meal planning and staying motivated. What would you like to work on?",
		"Tell me a bit about your goal, whether it's losing weight, building muscle or just eating better, and I'll point you in the right direction.",
		"Small consistent habits beat big occasional efforts. Where do you want to start: food, movement or planning?",
	},
}

// ruleBasedAnswer classifies the message into an intent and picks one reply
// from that intent's pool. The progress intent is computed live from the
// user's profile and today's logged meals instead of a canned pool.
func (s *CoachService) ruleBasedAnswer(ctx context.Context, message string, userID uuid.UUID, profile *models.NutritionProfile, hasProfile bool) string {
	lower := strings.ToLower(message)
	intent := "general"
	for _, candidate := range intentKeywords {
		for _, kw := range candidate.keywords {
			if strings.Contains(lower, kw) {
				intent = candidate.intent
				break
			}
		}
		if intent != "general" {
			break
		}
	}

	if intent == "progress" {
		if hasProfile {
			return s.progressAnswer(ctx, userID, profile)
		}
		return "I can report your daily progress once you've set up your nutrition profile. Add your details and I'll track calories against your goal."
	}
	pool := intentReplies[intent]
	return pool[s.rng.Intn(len(pool))]
}

// Recommendation is a single actionable daily tip.
type Recommendation struct {
	Category string `json:"category"` // calories, goal, hydration, consistency
	Message  string `json:"message"`
}

// DailyRecommendations builds today's tips from the profile, today's logged
// meals and the water target. Without a profile the only recommendation is
// to create one.
func (s *CoachService) DailyRecommendations(ctx context.Context, userID uuid.UUID) ([]Recommendation, error) {
	var profile models.NutritionProfile
	if err := s.db.WithContext(ctx).First(&profile, "user_id = ?", userID).Error; err != nil {
		return []Recommendation{{
			Category: "goal",
			Message:  "Set up your nutrition profile so I can tailor calorie and macro targets to you.",
		}}, nil
	}

	today := s.now()
	start := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, today.Location())

	var logs []models.MealLog
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND date >= ? AND date < ?", userID, start, start.AddDate(0, 0, 1)).
		Find(&logs).Error; err != nil {
		return nil, err
	}

	consumed := 0.0
	for _, l := range logs {
		consumed += l.TotalCalories
	}
	remaining := profile.DailyCalorieGoal - consumed

	var recs []Recommendation

	switch {
	case remaining < 0:
		recs = append(recs, Recommendation{
			Category: "calories",
			Message:  fmt.Sprintf("You're %.0f kcal over today's %.0f kcal goal. A lighter dinner or an evening walk will balance it out.", -remaining, profile.DailyCalorieGoal),
		})
	case remaining > profile.DailyCalorieGoal*0.3:
		recs = append(recs, Recommendation{
			Category: "calories",
			Message:  fmt.Sprintf("You still have %.0f kcal of your %.0f kcal goal left. Make sure your remaining meals cover your protein target.", remaining, profile.DailyCalorieGoal),
		})
	default:
		recs = append(recs, Recommendation{
			Category: "calories",
			Message:  fmt.Sprintf("You're on track with %.0f kcal left today. Finish strong with a balanced dinner.", remaining),
		})
	}

	switch profile.Goal {
	case models.GoalLoseWeight:
		recs = append(recs, Recommendation{
			Category: "goal",
			Message:  "Keep protein high and portions moderate: preserving muscle while losing fat is what makes the loss stick.",
		})
	case models.GoalBuildMuscle, models.GoalGainWeight:
		recs = append(recs, Recommendation{
			Category: "goal",
			Message:  fmt.Sprintf("Building takes fuel: aim for roughly %.0f g of protein today and don't skip your post-workout meal.", profile.Macros.Protein),
		})
	default:
		recs = append(recs, Recommendation{
			Category: "goal",
			Message:  "Maintenance is about consistency: keep your meals regular and your portions steady.",
		})
	}

	recs = append(recs, Recommendation{
		Category: "hydration",
		Message:  fmt.Sprintf("Aim for about %.1f liters of water today.", CalculateWaterIntake(&profile)),
	})

	if len(logs) < 3 {
		recs = append(recs, Recommendation{
			Category: "consistency",
			Message:  fmt.Sprintf("You've logged %d of your usual 3 meals today. Logging everything keeps your calorie picture honest.", len(logs)),
		})
	} else {
		recs = append(recs, Recommendation{
			Category: "consistency",
			Message:  "All your main meals are logged today. That kind of consistency is what moves the needle.",
		})
	}

	return recs, nil
}

// progressAnswer reports today's calorie balance against the profile goal.
func (s *CoachService) progressAnswer(ctx context.Context, userID uuid.UUID, profile *models.NutritionProfile) string {
	today := s.now()
	start := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, today.Location())

	var logs []models.MealLog
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND date >= ? AND date < ?", userID, start, start.AddDate(0, 0, 1)).
		Find(&logs).Error; err != nil {
		log.Printf("[CoachService] failed to load today's meals: %v", err)
	}

	consumed := 0.0
	for _, l := range logs {
		consumed += l.TotalCalories
	}
	remaining := profile.DailyCalorieGoal - consumed

	if len(logs) == 0 {
		return fmt.Sprintf("You haven't logged any meals today. Your daily goal is %.0f kcal, so there's plenty of room: log your next meal and I'll keep track with you.", profile.DailyCalorieGoal)
	}
	if remaining >= 0 {
		return fmt.Sprintf("You've logged %d meals for %.0f kcal today, leaving %.0f kcal of your %.0f kcal goal. You're on track, keep it up!", len(logs), consumed, remaining, profile.DailyCalorieGoal)
	}
	return fmt.Sprintf("You've logged %d meals for %.0f kcal today, which is %.0f kcal over your %.0f kcal goal. No need to panic: a lighter dinner or a walk will balance it out.", len(logs), consumed, -remaining, profile.DailyCalorieGoal)
}
