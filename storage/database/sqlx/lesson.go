package sqlxrepos

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/teenfin/backend/core"
	"github.com/teenfin/backend/core/lesson"
)

type (
	lessonRow struct {
		ID       string `db:"id"`
		UnitID   string `db:"unit_id"`
		Title    string `db:"title"`
		Position int    `db:"position"`
	}

	challengeRow struct {
		ID        string `db:"id"`
		LessonID  string `db:"lesson_id"`
		Type      string `db:"type"`
		Question  string `db:"question"`
		Position  int    `db:"position"`
		Completed bool   `db:"completed"`
	}

	challengeOptionRow struct {
		ID          string      `db:"id"`
		ChallengeID string      `db:"challenge_id"`
		Text        string      `db:"text"`
		Correct     bool        `db:"correct"`
		ImageSrc    null.String `db:"image_src"`
		AudioSrc    null.String `db:"audio_src"`
	}
)

type lessonRepository struct {
	exec core.DBExecutor
}

var _ lesson.Repository = (*lessonRepository)(nil) // interface compliance check

func NewLessonRepository(exec core.DBExecutor) *lessonRepository {
	return &lessonRepository{exec: exec}
}

func (repo lessonRepository) CreateLesson(ctx context.Context, l lesson.Lesson, exec ...core.DBExecutor) (lesson.Lesson, error) {
	l.ID = uuid.New().String()
	err := named(ctx, getExec(repo.exec, exec),
		"INSERT INTO lessons (id, unit_id, title, position) VALUES (:id, :unit_id, :title, :position)",
		lessonRow(l))
	if err != nil {
		return lesson.Lesson{}, errors.Wrap(err, "inserting lesson")
	}
	return l, nil
}

func (repo lessonRepository) CreateChallenge(ctx context.Context, ch lesson.Challenge, exec ...core.DBExecutor) (lesson.Challenge, error) {
	ch.ID = uuid.New().String()
	err := named(ctx, getExec(repo.exec, exec),
		"INSERT INTO challenges (id, lesson_id, type, question, position) VALUES (:id, :lesson_id, :type, :question, :position)",
		challengeRow{ID: ch.ID, LessonID: ch.LessonID, Type: ch.Type, Question: ch.Question, Position: ch.Position})
	if err != nil {
		return lesson.Challenge{}, errors.Wrap(err, "inserting challenge")
	}
	ch.Completed = false
	return ch, nil
}

func (repo lessonRepository) CreateChallengeOption(ctx context.Context, opt lesson.ChallengeOption, exec ...core.DBExecutor) (lesson.ChallengeOption, error) {
	opt.ID = uuid.New().String()
	err := named(ctx, getExec(repo.exec, exec),
		"INSERT INTO challenge_options (id, challenge_id, text, correct, image_src, audio_src) "+
			"VALUES (:id, :challenge_id, :text, :correct, :image_src, :audio_src)",
		challengeOptionRow(opt))
	if err != nil {
		return lesson.ChallengeOption{}, errors.Wrap(err, "inserting challenge option")
	}
	return opt, nil
}

func (repo lessonRepository) GetLesson(ctx context.Context, id string, exec ...core.DBExecutor) (lesson.Lesson, error) {
	if _, err := uuid.Parse(id); err != nil {
		return lesson.Lesson{}, lesson.ErrNotFound
	}
	var row lessonRow
	if err := get(ctx, getExec(repo.exec, exec), &row, "SELECT id, unit_id, title, position FROM lessons WHERE id = ?", id); err != nil {
		return lesson.Lesson{}, trapNoRowsErr(err, lesson.ErrNotFound, "finding lesson by ID")
	}
	return lesson.Lesson(row), nil
}

func (repo lessonRepository) QueryChallenges(ctx context.Context, lessonID, userID string, exec ...core.DBExecutor) ([]lesson.Challenge, error) {
	exe := getExec(repo.exec, exec)

	var rows []challengeRow
	err := query(ctx, exe, &rows,
		`SELECT c.id, c.lesson_id, c.type, c.question, c.position, COALESCE(cp.completed, FALSE) AS completed
		FROM challenges c
		LEFT JOIN challenge_progress cp ON cp.challenge_id = c.id AND cp.user_id = ?
		WHERE c.lesson_id = ?
		ORDER BY c.position ASC`, userID, lessonID)
	if err != nil {
		return nil, errors.Wrap(err, "querying challenges")
	}

	var optRows []challengeOptionRow
	err = query(ctx, exe, &optRows,
		`SELECT o.id, o.challenge_id, o.text, o.correct, o.image_src, o.audio_src
		FROM challenge_options o
		JOIN challenges c ON c.id = o.challenge_id
		WHERE c.lesson_id = ?
		ORDER BY o.id ASC`, lessonID)
	if err != nil {
		return nil, errors.Wrap(err, "querying challenge options")
	}
	options := make(map[string][]lesson.ChallengeOption, len(rows))
	for _, row := range optRows {
		options[row.ChallengeID] = append(options[row.ChallengeID], lesson.ChallengeOption(row))
	}

	challenges := make([]lesson.Challenge, 0, len(rows))
	for _, row := range rows {
		opts := options[row.ID]
		if opts == nil {
			opts = []lesson.ChallengeOption{}
		}
		challenges = append(challenges, lesson.Challenge{
			ID:        row.ID,
			LessonID:  row.LessonID,
			Type:      row.Type,
			Question:  row.Question,
			Position:  row.Position,
			Completed: row.Completed,
			Options:   opts,
		})
	}
	return challenges, nil
}

func (repo lessonRepository) FirstIncompleteLesson(ctx context.Context, courseID, userID string, exec ...core.DBExecutor) (lesson.Lesson, error) {
	var row lessonRow
	err := get(ctx, getExec(repo.exec, exec), &row,
		`SELECT l.id, l.unit_id, l.title, l.position
		FROM lessons l
		JOIN units u ON u.id = l.unit_id
		WHERE u.course_id = ? AND EXISTS (
			SELECT 1 FROM challenges c
			LEFT JOIN challenge_progress cp ON cp.challenge_id = c.id AND cp.user_id = ?
			WHERE c.lesson_id = l.id AND COALESCE(cp.completed, FALSE) = FALSE
		)
		ORDER BY u.position ASC, l.position ASC
		LIMIT 1`, courseID, userID)
	if err != nil {
		return lesson.Lesson{}, trapNoRowsErr(err, lesson.ErrNotFound, "finding first incomplete lesson")
	}
	return lesson.Lesson(row), nil
}
