package course

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/teenfin/backend/core"
)

type Course struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	ImageSrc    null.String `json:"image_src"`
	Position    int         `json:"position"`
	CreatedAt   time.Time   `json:"created_at"` // UTC
	UpdatedAt   time.Time   `json:"updated_at"` // UTC
}

// NewCourse contains information needed to create a new Course.
type NewCourse struct {
	Title       string `json:"title" validate:"required,notblank,max=200"`
	Description string `json:"description" validate:"max=2000"`
	ImageSrc    string `json:"image_src" validate:"omitempty,url"`
}

func (nc *NewCourse) Validate(validate *validator.Validate) error {
	nc.Title = core.CleanString(nc.Title)
	nc.Description = core.CleanString(nc.Description)
	nc.ImageSrc = core.CleanString(nc.ImageSrc)
	return validate.Struct(nc)
}

// UpdateCourse defines what information may be provided to modify an existing Course.
// Omitted fields keep their stored value; an empty image_src clears the image.
type UpdateCourse struct {
	Title       *string `json:"title" validate:"omitempty,notblank,max=200"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	ImageSrc    *string `json:"image_src" validate:"omitempty,url"`
}

func (uc *UpdateCourse) Validate(validate *validator.Validate) error {
	for _, fld := range []*string{uc.Title, uc.Description, uc.ImageSrc} {
		if fld != nil {
			*fld = core.CleanString(*fld)
		}
	}
	return validate.Struct(uc)
}

func (uc UpdateCourse) apply(c Course) Course {
	if uc.Title != nil {
		c.Title = *uc.Title
	}
	if uc.Description != nil {
		c.Description = *uc.Description
	}
	if uc.ImageSrc != nil {
		c.ImageSrc = null.NewString(*uc.ImageSrc, *uc.ImageSrc != "")
	}
	return c
}

// UpdatePosition is the body of the single-course reorder call.
type UpdatePosition struct {
	Position int `json:"position" validate:"min=1"`
}

func (up UpdatePosition) Validate(validate *validator.Validate) error { return validate.Struct(up) }

// NewOrder lists every course id in the desired display order.
type NewOrder struct {
	IDs []string `json:"ids" validate:"required,min=1,unique,dive,required"`
}

func (no NewOrder) Validate(validate *validator.Validate) error { return validate.Struct(no) }

type QueryFilter struct {
	Search string `query:"search"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == ""
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
}
