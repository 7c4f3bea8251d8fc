package progress

import (
	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/teenfin/backend/core"
)

const (
	// MaxHearts is the number of hearts of a full refill.
	MaxHearts = 5
	// RefillCost is the number of points a full hearts refill costs in the shop.
	RefillCost = 10
	// ChallengePoints is the number of points earned per completed challenge.
	ChallengePoints = 10
)

// UserProgress is the learner state of an identity-provider user.
type UserProgress struct {
	UserID         string      `json:"user_id"`
	UserName       string      `json:"user_name"`
	ActiveCourseID null.String `json:"active_course_id"`
	Hearts         int         `json:"hearts"`
	Points         int         `json:"points"`
}

func (p UserProgress) HeartsFull() bool {
	return p.Hearts >= MaxHearts
}

// CanRefill reports whether the shop would accept a hearts refill.
func (p UserProgress) CanRefill() bool {
	return !p.HeartsFull() && p.Points >= RefillCost
}

// SelectCourse is the body of an active course selection.
type SelectCourse struct {
	CourseID string `json:"course_id" validate:"required"`
}

func (sc *SelectCourse) Validate(validate *validator.Validate) error {
	sc.CourseID = core.CleanString(sc.CourseID)
	return validate.Struct(sc)
}

// Shop is what the shop page shows.
type Shop struct {
	Hearts     int  `json:"hearts"`
	Points     int  `json:"points"`
	MaxHearts  int  `json:"max_hearts"`
	RefillCost int  `json:"refill_cost"`
	CanRefill  bool `json:"can_refill"`
}

func newShop(p UserProgress) Shop {
	return Shop{
		Hearts:     p.Hearts,
		Points:     p.Points,
		MaxHearts:  MaxHearts,
		RefillCost: RefillCost,
		CanRefill:  p.CanRefill(),
	}
}
