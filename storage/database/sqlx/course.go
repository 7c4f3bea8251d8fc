package sqlxrepos

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/teenfin/backend/core"
	"github.com/teenfin/backend/core/course"
)

var courseOrdering = []core.DBOrdering{{Field: "position", Ascending: true}, {Field: "created_at", Ascending: true}}

type courseRow struct {
	ID          string      `db:"id"`
	Title       string      `db:"title"`
	Description string      `db:"description"`
	ImageSrc    null.String `db:"image_src"`
	Position    int         `db:"position"`
	CreatedAt   time.Time   `db:"created_at"`
	UpdatedAt   time.Time   `db:"updated_at"`
}

const courseColumns = "id, title, description, image_src, position, created_at, updated_at"

type courseRepository struct {
	exec core.DBExecutor
}

var _ course.Repository = (*courseRepository)(nil) // interface compliance check

func NewCourseRepository(exec core.DBExecutor) *courseRepository {
	return &courseRepository{exec: exec}
}

func (repo courseRepository) toRow(c course.Course) courseRow {
	return courseRow{
		ID:          c.ID,
		Title:       c.Title,
		Description: c.Description,
		ImageSrc:    c.ImageSrc,
		Position:    c.Position,
		CreatedAt:   c.CreatedAt.UTC(),
		UpdatedAt:   c.UpdatedAt.UTC(),
	}
}

func (repo courseRepository) fromRow(row courseRow) course.Course {
	return course.Course{
		ID:          row.ID,
		Title:       row.Title,
		Description: row.Description,
		ImageSrc:    row.ImageSrc,
		Position:    row.Position,
		CreatedAt:   row.CreatedAt.UTC(),
		UpdatedAt:   row.UpdatedAt.UTC(),
	}
}

func (repo courseRepository) CreateCourse(ctx context.Context, c course.Course, exec ...core.DBExecutor) (course.Course, error) {
	c.ID = uuid.New().String()
	err := named(ctx, getExec(repo.exec, exec),
		"INSERT INTO courses ("+courseColumns+") "+
			"VALUES (:id, :title, :description, :image_src, :position, :created_at, :updated_at)",
		repo.toRow(c))
	if err != nil {
		return course.Course{}, errors.Wrap(err, "inserting course")
	}
	return c, nil
}

func (repo courseRepository) MaxCoursePosition(ctx context.Context, exec ...core.DBExecutor) (int, error) {
	var max int
	if err := get(ctx, getExec(repo.exec, exec), &max, "SELECT COALESCE(MAX(position), 0) FROM courses"); err != nil {
		return 0, errors.Wrap(err, "finding max course position")
	}
	return max, nil
}

func (repo courseRepository) QueryCourses(ctx context.Context, filter *course.QueryFilter, exec ...core.DBExecutor) ([]course.Course, error) {
	var where []string
	var args []interface{}

	if filter != nil && filter.Search != "" {
		// courses with Title or Description matching the search keyword
		val := "%" + strings.ToLower(filter.Search) + "%"
		where = append(where, "(LOWER(title) LIKE ? OR LOWER(description) LIKE ?)")
		args = append(args, val, val)
	}

	q := "SELECT " + courseColumns + " FROM courses"
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY " + core.OrderBy(courseOrdering...)

	var rows []courseRow
	if err := query(ctx, getExec(repo.exec, exec), &rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "querying courses")
	}
	courses := make([]course.Course, 0, len(rows))
	for _, row := range rows {
		courses = append(courses, repo.fromRow(row))
	}
	return courses, nil
}

func (repo courseRepository) GetCourse(ctx context.Context, id string, exec ...core.DBExecutor) (course.Course, error) {
	if _, err := uuid.Parse(id); err != nil {
		return course.Course{}, course.ErrNotFound
	}
	var row courseRow
	if err := get(ctx, getExec(repo.exec, exec), &row, "SELECT "+courseColumns+" FROM courses WHERE id = ?", id); err != nil {
		return course.Course{}, trapNoRowsErr(err, course.ErrNotFound, "finding course by ID")
	}
	return repo.fromRow(row), nil
}

func (repo courseRepository) UpdateCourse(ctx context.Context, c course.Course, exec ...core.DBExecutor) (course.Course, error) {
	exe := getExec(repo.exec, exec)
	row := repo.toRow(c)
	err := execOne(ctx, exe, course.ErrNotFound,
		"UPDATE courses SET title = ?, description = ?, image_src = ?, position = ?, updated_at = ? WHERE id = ?",
		row.Title, row.Description, row.ImageSrc, row.Position, row.UpdatedAt, row.ID)
	if err != nil {
		if err == course.ErrNotFound {
			return course.Course{}, err
		}
		return course.Course{}, errors.Wrap(err, "updating course")
	}
	return c, nil
}

func (repo courseRepository) UpdateCoursePosition(ctx context.Context, id string, position int, updatedAt time.Time, exec ...core.DBExecutor) (course.Course, error) {
	if _, err := uuid.Parse(id); err != nil {
		return course.Course{}, course.ErrNotFound
	}
	exe := getExec(repo.exec, exec)
	err := execOne(ctx, exe, course.ErrNotFound,
		"UPDATE courses SET position = ?, updated_at = ? WHERE id = ?", position, updatedAt.UTC(), id)
	if err != nil {
		if err == course.ErrNotFound {
			return course.Course{}, err
		}
		return course.Course{}, errors.Wrap(err, "updating course position")
	}
	return repo.GetCourse(ctx, id, exe)
}

func (repo courseRepository) DeleteCourse(ctx context.Context, id string, exec ...core.DBExecutor) error {
	if _, err := uuid.Parse(id); err != nil {
		return course.ErrNotFound
	}
	err := execOne(ctx, getExec(repo.exec, exec), course.ErrNotFound, "DELETE FROM courses WHERE id = ?", id)
	if err != nil && err != course.ErrNotFound {
		return errors.Wrap(err, "deleting course")
	}
	return err
}
