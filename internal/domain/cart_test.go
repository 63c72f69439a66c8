package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCart_Recalculate(t *testing.T) {
	c := Cart{
		Items: []CartItem{
			{Book: Book{ID: "a", Price: 10}, Quantity: 2},
			{Book: Book{ID: "b", Price: 5.5}, Quantity: 3},
		},
		Total:     999,
		ItemCount: 999,
	}

	c.Recalculate()

	assert.InDelta(t, 36.5, c.Total, 1e-9)
	assert.Equal(t, 5, c.ItemCount)
}

func TestCart_CloneIsDeep(t *testing.T) {
	c := Cart{Items: []CartItem{{Book: Book{ID: "a", Price: 1}, Quantity: 1}}}
	c.Recalculate()

	clone := c.Clone()
	clone.Items[0].Quantity = 7

	assert.Equal(t, 1, c.Items[0].Quantity)
	assert.Equal(t, 0, clone.Find("a"))
	assert.Equal(t, -1, clone.Find("missing"))
}

func TestNearestMood(t *testing.T) {
	cases := map[float64]int{1: 1, 1.5: 1, 1.6: 2, 2.5: 2, 3.2: 3, 4.5: 4, 4.51: 5, 5: 5}
	for avg, want := range cases {
		assert.Equal(t, want, NearestMood(avg), "avg %v", avg)
	}
}

func TestMoodLabel(t *testing.T) {
	assert.Equal(t, "Very Sad", MoodLabel(1))
	assert.Equal(t, "Very Happy", MoodLabel(5))
	assert.Equal(t, "", MoodLabel(0))
	assert.Equal(t, "", MoodLabel(6))
}
