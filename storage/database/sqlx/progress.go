package sqlxrepos

import (
	"context"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/teenfin/backend/core"
	"github.com/teenfin/backend/core/progress"
)

type progressRow struct {
	UserID         string      `db:"user_id"`
	UserName       string      `db:"user_name"`
	ActiveCourseID null.String `db:"active_course_id"`
	Hearts         int         `db:"hearts"`
	Points         int         `db:"points"`
}

const progressColumns = "user_id, user_name, active_course_id, hearts, points"

type progressRepository struct {
	exec core.DBExecutor
}

var _ progress.Repository = (*progressRepository)(nil) // interface compliance check

func NewProgressRepository(exec core.DBExecutor) *progressRepository {
	return &progressRepository{exec: exec}
}

func (repo progressRepository) GetProgress(ctx context.Context, userID string, exec ...core.DBExecutor) (progress.UserProgress, error) {
	var row progressRow
	if err := get(ctx, getExec(repo.exec, exec), &row, "SELECT "+progressColumns+" FROM user_progress WHERE user_id = ?", userID); err != nil {
		return progress.UserProgress{}, trapNoRowsErr(err, progress.ErrNotFound, "finding user progress")
	}
	return progress.UserProgress(row), nil
}

func (repo progressRepository) UpsertProgress(ctx context.Context, p progress.UserProgress, exec ...core.DBExecutor) (progress.UserProgress, error) {
	err := named(ctx, getExec(repo.exec, exec),
		"INSERT INTO user_progress ("+progressColumns+") "+
			"VALUES (:user_id, :user_name, :active_course_id, :hearts, :points) "+
			"ON CONFLICT (user_id) DO UPDATE SET user_name = excluded.user_name, "+
			"active_course_id = excluded.active_course_id, hearts = excluded.hearts, points = excluded.points",
		progressRow(p))
	if err != nil {
		return progress.UserProgress{}, errors.Wrap(err, "upserting user progress")
	}
	return p, nil
}

func (repo progressRepository) UpdateProgress(ctx context.Context, p progress.UserProgress, exec ...core.DBExecutor) (progress.UserProgress, error) {
	err := execOne(ctx, getExec(repo.exec, exec), progress.ErrNotFound,
		"UPDATE user_progress SET user_name = ?, active_course_id = ?, hearts = ?, points = ? WHERE user_id = ?",
		p.UserName, p.ActiveCourseID, p.Hearts, p.Points, p.UserID)
	if err != nil {
		if err == progress.ErrNotFound {
			return progress.UserProgress{}, err
		}
		return progress.UserProgress{}, errors.Wrap(err, "updating user progress")
	}
	return p, nil
}

func (repo progressRepository) ChallengeExists(ctx context.Context, challengeID string, exec ...core.DBExecutor) (bool, error) {
	var n int
	if err := get(ctx, getExec(repo.exec, exec), &n, "SELECT COUNT(*) FROM challenges WHERE id = ?", challengeID); err != nil {
		return false, errors.Wrap(err, "checking challenge")
	}
	return n > 0, nil
}

func (repo progressRepository) IsChallengeCompleted(ctx context.Context, userID, challengeID string, exec ...core.DBExecutor) (bool, error) {
	var n int
	err := get(ctx, getExec(repo.exec, exec), &n,
		"SELECT COUNT(*) FROM challenge_progress WHERE user_id = ? AND challenge_id = ? AND completed = TRUE",
		userID, challengeID)
	if err != nil {
		return false, errors.Wrap(err, "checking challenge progress")
	}
	return n > 0, nil
}

func (repo progressRepository) MarkChallengeCompleted(ctx context.Context, userID, challengeID string, exec ...core.DBExecutor) error {
	_, err := getExec(repo.exec, exec).ExecContext(ctx, getExec(repo.exec, exec).Rebind(
		"INSERT INTO challenge_progress (user_id, challenge_id, completed) VALUES (?, ?, TRUE) "+
			"ON CONFLICT (user_id, challenge_id) DO UPDATE SET completed = TRUE"),
		userID, challengeID)
	return errors.Wrap(err, "marking challenge completed")
}
