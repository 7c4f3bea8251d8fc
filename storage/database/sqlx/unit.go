package sqlxrepos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/teenfin/backend/core"
	"github.com/teenfin/backend/core/unit"
)

var unitOrdering = []core.DBOrdering{{Field: "position", Ascending: true}, {Field: "created_at", Ascending: true}}

type unitRow struct {
	ID          string    `db:"id"`
	CourseID    string    `db:"course_id"`
	Title       string    `db:"title"`
	Description string    `db:"description"`
	Position    int       `db:"position"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

const unitColumns = "id, course_id, title, description, position, created_at, updated_at"

type unitRepository struct {
	exec core.DBExecutor
}

var _ unit.Repository = (*unitRepository)(nil) // interface compliance check

func NewUnitRepository(exec core.DBExecutor) *unitRepository {
	return &unitRepository{exec: exec}
}

func (repo unitRepository) toRow(u unit.Unit) unitRow {
	return unitRow{
		ID:          u.ID,
		CourseID:    u.CourseID,
		Title:       u.Title,
		Description: u.Description,
		Position:    u.Position,
		CreatedAt:   u.CreatedAt.UTC(),
		UpdatedAt:   u.UpdatedAt.UTC(),
	}
}

func (repo unitRepository) fromRow(row unitRow) unit.Unit {
	return unit.Unit{
		ID:          row.ID,
		CourseID:    row.CourseID,
		Title:       row.Title,
		Description: row.Description,
		Position:    row.Position,
		CreatedAt:   row.CreatedAt.UTC(),
		UpdatedAt:   row.UpdatedAt.UTC(),
	}
}

func (repo unitRepository) CreateUnit(ctx context.Context, u unit.Unit, exec ...core.DBExecutor) (unit.Unit, error) {
	u.ID = uuid.New().String()
	err := named(ctx, getExec(repo.exec, exec),
		"INSERT INTO units ("+unitColumns+") "+
			"VALUES (:id, :course_id, :title, :description, :position, :created_at, :updated_at)",
		repo.toRow(u))
	if err != nil {
		return unit.Unit{}, errors.Wrap(err, "inserting unit")
	}
	return u, nil
}

func (repo unitRepository) MaxUnitPosition(ctx context.Context, courseID string, exec ...core.DBExecutor) (int, error) {
	var max int
	if err := get(ctx, getExec(repo.exec, exec), &max, "SELECT COALESCE(MAX(position), 0) FROM units WHERE course_id = ?", courseID); err != nil {
		return 0, errors.Wrap(err, "finding max unit position")
	}
	return max, nil
}

func (repo unitRepository) QueryUnits(ctx context.Context, courseID string, exec ...core.DBExecutor) ([]unit.Unit, error) {
	var rows []unitRow
	q := "SELECT " + unitColumns + " FROM units WHERE course_id = ? ORDER BY " + core.OrderBy(unitOrdering...)
	if err := query(ctx, getExec(repo.exec, exec), &rows, q, courseID); err != nil {
		return nil, errors.Wrap(err, "querying units")
	}
	units := make([]unit.Unit, 0, len(rows))
	for _, row := range rows {
		units = append(units, repo.fromRow(row))
	}
	return units, nil
}

func (repo unitRepository) GetUnit(ctx context.Context, id string, exec ...core.DBExecutor) (unit.Unit, error) {
	if _, err := uuid.Parse(id); err != nil {
		return unit.Unit{}, unit.ErrNotFound
	}
	var row unitRow
	if err := get(ctx, getExec(repo.exec, exec), &row, "SELECT "+unitColumns+" FROM units WHERE id = ?", id); err != nil {
		return unit.Unit{}, trapNoRowsErr(err, unit.ErrNotFound, "finding unit by ID")
	}
	return repo.fromRow(row), nil
}

func (repo unitRepository) UpdateUnit(ctx context.Context, u unit.Unit, exec ...core.DBExecutor) (unit.Unit, error) {
	row := repo.toRow(u)
	err := execOne(ctx, getExec(repo.exec, exec), unit.ErrNotFound,
		"UPDATE units SET title = ?, description = ?, position = ?, updated_at = ? WHERE id = ?",
		row.Title, row.Description, row.Position, row.UpdatedAt, row.ID)
	if err != nil {
		if err == unit.ErrNotFound {
			return unit.Unit{}, err
		}
		return unit.Unit{}, errors.Wrap(err, "updating unit")
	}
	return u, nil
}

func (repo unitRepository) UpdateUnitPosition(ctx context.Context, id string, position int, updatedAt time.Time, exec ...core.DBExecutor) (unit.Unit, error) {
	if _, err := uuid.Parse(id); err != nil {
		return unit.Unit{}, unit.ErrNotFound
	}
	exe := getExec(repo.exec, exec)
	err := execOne(ctx, exe, unit.ErrNotFound,
		"UPDATE units SET position = ?, updated_at = ? WHERE id = ?", position, updatedAt.UTC(), id)
	if err != nil {
		if err == unit.ErrNotFound {
			return unit.Unit{}, err
		}
		return unit.Unit{}, errors.Wrap(err, "updating unit position")
	}
	return repo.GetUnit(ctx, id, exe)
}

func (repo unitRepository) DeleteUnit(ctx context.Context, id string, exec ...core.DBExecutor) error {
	if _, err := uuid.Parse(id); err != nil {
		return unit.ErrNotFound
	}
	err := execOne(ctx, getExec(repo.exec, exec), unit.ErrNotFound, "DELETE FROM units WHERE id = ?", id)
	if err != nil && err != unit.ErrNotFound {
		return errors.Wrap(err, "deleting unit")
	}
	return err
}
