package unit

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/teenfin/backend/core"
)

// Unit is a chapter of a Course. Positions are scoped to the course.
type Unit struct {
	ID          string    `json:"id"`
	CourseID    string    `json:"course_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Position    int       `json:"position"`
	CreatedAt   time.Time `json:"created_at"` // UTC
	UpdatedAt   time.Time `json:"updated_at"` // UTC
}

// NewUnit contains information needed to create a new Unit.
type NewUnit struct {
	CourseID    string `json:"course_id" validate:"required"`
	Title       string `json:"title" validate:"required,notblank,max=200"`
	Description string `json:"description" validate:"max=2000"`
}

func (nu *NewUnit) Validate(validate *validator.Validate) error {
	nu.CourseID = core.CleanString(nu.CourseID)
	nu.Title = core.CleanString(nu.Title)
	nu.Description = core.CleanString(nu.Description)
	return validate.Struct(nu)
}

// UpdateUnit defines what information may be provided to modify an existing Unit.
// `order` is the legacy name of `position`; `position` wins when both are sent.
type UpdateUnit struct {
	Title       *string `json:"title" validate:"omitempty,notblank,max=200"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	Position    *int    `json:"position" validate:"omitempty,min=1"`
	Order       *int    `json:"order" validate:"omitempty,min=1"`
}

func (uu *UpdateUnit) Validate(validate *validator.Validate) error {
	for _, fld := range []*string{uu.Title, uu.Description} {
		if fld != nil {
			*fld = core.CleanString(*fld)
		}
	}
	return validate.Struct(uu)
}

// TargetPosition returns the requested position, if any.
func (uu UpdateUnit) TargetPosition() *int {
	if uu.Position != nil {
		return uu.Position
	}
	return uu.Order
}

// OnlyPosition reports whether the update is a bare position write (the per-unit reorder call).
func (uu UpdateUnit) OnlyPosition() bool {
	return uu.Title == nil && uu.Description == nil && uu.TargetPosition() != nil
}

func (uu UpdateUnit) apply(u Unit) Unit {
	if uu.Title != nil {
		u.Title = *uu.Title
	}
	if uu.Description != nil {
		u.Description = *uu.Description
	}
	if pos := uu.TargetPosition(); pos != nil {
		u.Position = *pos
	}
	return u
}

// NewOrder lists every unit id of a course in the desired display order.
type NewOrder struct {
	IDs []string `json:"ids" validate:"required,min=1,unique,dive,required"`
}

func (no NewOrder) Validate(validate *validator.Validate) error { return validate.Struct(no) }

type QueryFilter struct {
	CourseID string `query:"course_id"`
}

func (qf *QueryFilter) Clean() {
	qf.CourseID = core.CleanString(qf.CourseID)
}
