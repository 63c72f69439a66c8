package mood

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/fjod/bookmood/internal/domain"
)

const (
	neutralMood        = 3
	recommendationSize = 3
)

var activities = []domain.Recommendation{
	{ID: 1, Title: "5-Minute Breathing Exercise", Description: "Try deep breathing to reduce stress and anxiety", Type: domain.ActivityMindfulness, Icon: "🧘", Duration: "5 min"},
	{ID: 2, Title: "Take a Short Walk", Description: "Fresh air and movement can boost your mood", Type: domain.ActivityExercise, Icon: "🚶", Duration: "15 min"},
	{ID: 3, Title: "Call a Friend", Description: "Social connection is vital for mental health", Type: domain.ActivitySocial, Icon: "📞", Duration: "20 min"},
	{ID: 4, Title: "Listen to Calming Music", Description: "Music therapy can help regulate emotions", Type: domain.ActivityMindfulness, Icon: "🎵", Duration: "10 min"},
	{ID: 5, Title: "Write in a Journal", Description: "Express your thoughts and feelings on paper", Type: domain.ActivityMindfulness, Icon: "📝", Duration: "15 min"},
	{ID: 6, Title: "Prepare a Healthy Snack", Description: "Nutrition affects mood and energy levels", Type: domain.ActivityNutrition, Icon: "🥗", Duration: "10 min"},
	{ID: 7, Title: "Practice Gratitude", Description: "List three things you're grateful for today", Type: domain.ActivityMindfulness, Icon: "🙏", Duration: "5 min"},
	{ID: 8, Title: "Do Some Stretching", Description: "Gentle stretches can release tension", Type: domain.ActivityExercise, Icon: "🤸", Duration: "10 min"},
}

// Activities returns a copy of the full activity list.
func Activities() []domain.Recommendation {
	out := make([]domain.Recommendation, len(activities))
	copy(out, activities)
	return out
}

// Candidates filters the activity list for a mood score. Low moods get
// mood-boosting activities, high moods get ones that keep it up.
func Candidates(score int) []domain.Recommendation {
	var keep map[domain.ActivityType]bool
	switch {
	case score <= 2:
		keep = map[domain.ActivityType]bool{
			domain.ActivityMindfulness: true,
			domain.ActivityExercise:    true,
			domain.ActivitySocial:      true,
		}
	case score >= 4:
		keep = map[domain.ActivityType]bool{
			domain.ActivityExercise:  true,
			domain.ActivitySocial:    true,
			domain.ActivityNutrition: true,
		}
	default:
		return Activities()
	}

	out := make([]domain.Recommendation, 0, len(activities))
	for _, a := range activities {
		if keep[a.Type] {
			out = append(out, a)
		}
	}
	return out
}

// Recommender picks a few activities based on the latest recorded mood.
type Recommender struct {
	store *Store

	mu  sync.Mutex // guards rng
	rng *rand.Rand
}

// NewRecommender uses rng for shuffling; nil seeds one from the clock.
func NewRecommender(store *Store, rng *rand.Rand) *Recommender {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Recommender{store: store, rng: rng}
}

func (r *Recommender) Recommend(ctx context.Context) ([]domain.Recommendation, error) {
	score := neutralMood
	latest, ok, err := r.store.Latest(ctx)
	if err != nil {
		return nil, err
	}
	if ok {
		score = latest.Mood
	}
	return r.pick(score), nil
}

func (r *Recommender) pick(score int) []domain.Recommendation {
	candidates := Candidates(score)

	r.mu.Lock()
	r.rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})
	r.mu.Unlock()

	if len(candidates) > recommendationSize {
		candidates = candidates[:recommendationSize]
	}
	return candidates
}
