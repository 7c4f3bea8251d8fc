package lesson

import (
	"github.com/volatiletech/null/v8"
)

// Challenge types
const (
	ChallengeSelect = "SELECT"
	ChallengeAssist = "ASSIST"
)

type Lesson struct {
	ID       string `json:"id"`
	UnitID   string `json:"unit_id"`
	Title    string `json:"title"`
	Position int    `json:"position"`
}

type Challenge struct {
	ID        string            `json:"id"`
	LessonID  string            `json:"lesson_id"`
	Type      string            `json:"type"`
	Question  string            `json:"question"`
	Position  int               `json:"position"`
	Completed bool              `json:"completed"` // for the requesting user
	Options   []ChallengeOption `json:"challenge_options"`
}

type ChallengeOption struct {
	ID          string      `json:"id"`
	ChallengeID string      `json:"challenge_id"`
	Text        string      `json:"text"`
	Correct     bool        `json:"correct"`
	ImageSrc    null.String `json:"image_src"`
	AudioSrc    null.String `json:"audio_src"`
}

// View is everything the quiz page needs to render a lesson.
type View struct {
	Lesson     Lesson      `json:"lesson"`
	Challenges []Challenge `json:"challenges"`
	Hearts     int         `json:"hearts"`
	Percent    float64     `json:"percent"`
}

// Percent returns the share of completed challenges, from 0 to 100.
func Percent(challenges []Challenge) float64 {
	if len(challenges) == 0 {
		return 0
	}
	var completed int
	for _, ch := range challenges {
		if ch.Completed {
			completed++
		}
	}
	return float64(completed) / float64(len(challenges)) * 100
}
