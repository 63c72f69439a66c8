package mood

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/fjod/bookmood/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func typesOf(recs []domain.Recommendation) map[domain.ActivityType]bool {
	out := make(map[domain.ActivityType]bool)
	for _, r := range recs {
		out[r.Type] = true
	}
	return out
}

func TestCandidates(t *testing.T) {
	tests := []struct {
		name    string
		score   int
		allowed []domain.ActivityType
		count   int
	}{
		{name: "very sad", score: 1, allowed: []domain.ActivityType{domain.ActivityMindfulness, domain.ActivityExercise, domain.ActivitySocial}, count: 7},
		{name: "sad", score: 2, allowed: []domain.ActivityType{domain.ActivityMindfulness, domain.ActivityExercise, domain.ActivitySocial}, count: 7},
		{name: "neutral", score: 3, count: 8},
		{name: "happy", score: 4, allowed: []domain.ActivityType{domain.ActivityExercise, domain.ActivitySocial, domain.ActivityNutrition}, count: 4},
		{name: "very happy", score: 5, allowed: []domain.ActivityType{domain.ActivityExercise, domain.ActivitySocial, domain.ActivityNutrition}, count: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Candidates(tt.score)
			assert.Len(t, got, tt.count)
			if tt.allowed == nil {
				return
			}
			allowed := make(map[domain.ActivityType]bool)
			for _, a := range tt.allowed {
				allowed[a] = true
			}
			for typ := range typesOf(got) {
				assert.True(t, allowed[typ], "unexpected type %s", typ)
			}
		})
	}
}

func TestCandidates_DoesNotAliasActivities(t *testing.T) {
	got := Candidates(3)
	got[0].Title = "changed"
	assert.NotEqual(t, "changed", Activities()[0].Title)
}

func TestRecommend_UsesLatestMood(t *testing.T) {
	kv := newMockKV()
	s := newTestStore(kv, &fakeClock{now: time.Now()})
	r := NewRecommender(s, rand.New(rand.NewSource(1)))
	ctx := context.Background()

	_, err := s.Record(ctx, 1, "")
	require.NoError(t, err)
	_, err = s.Record(ctx, 5, "")
	require.NoError(t, err)

	for i := 0; i < 20; i++ {
		recs, err := r.Recommend(ctx)
		require.NoError(t, err)
		require.Len(t, recs, 3)
		assert.False(t, typesOf(recs)[domain.ActivityMindfulness], "mindfulness is not suggested for a good mood")

		ids := make(map[int]bool)
		for _, rec := range recs {
			assert.False(t, ids[rec.ID], "duplicate recommendation %d", rec.ID)
			ids[rec.ID] = true
		}
	}
}

func TestRecommend_NoHistoryIsNeutral(t *testing.T) {
	s := newTestStore(newMockKV(), &fakeClock{now: time.Now()})
	r := NewRecommender(s, rand.New(rand.NewSource(7)))

	seen := make(map[domain.ActivityType]bool)
	for i := 0; i < 50; i++ {
		recs, err := r.Recommend(context.Background())
		require.NoError(t, err)
		require.Len(t, recs, 3)
		for typ := range typesOf(recs) {
			seen[typ] = true
		}
	}
	assert.True(t, seen[domain.ActivityMindfulness])
	assert.True(t, seen[domain.ActivityNutrition])
}

func TestRecommend_SameSeedSameResult(t *testing.T) {
	s := newTestStore(newMockKV(), &fakeClock{now: time.Now()})

	first, err := NewRecommender(s, rand.New(rand.NewSource(42))).Recommend(context.Background())
	require.NoError(t, err)
	second, err := NewRecommender(s, rand.New(rand.NewSource(42))).Recommend(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRecommend_StoreError(t *testing.T) {
	kv := newMockKV()
	kv.getErr = errors.New("down")
	r := NewRecommender(newTestStore(kv, &fakeClock{now: time.Now()}), nil)

	_, err := r.Recommend(context.Background())
	assert.Error(t, err)
}
