package domain

type ActivityType string

const (
	ActivityExercise    ActivityType = "exercise"
	ActivityMindfulness ActivityType = "mindfulness"
	ActivitySocial      ActivityType = "social"
	ActivitySleep       ActivityType = "sleep"
	ActivityNutrition   ActivityType = "nutrition"
)

type Recommendation struct {
	ID          int          `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Type        ActivityType `json:"type"`
	Icon        string       `json:"icon"`
	Duration    string       `json:"duration"`
}
