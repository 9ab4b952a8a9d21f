package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vyacheslavbytsko/HSE-Extra-Events-Bot/internal/domain/common/errorz"
	"github.com/vyacheslavbytsko/HSE-Extra-Events-Bot/internal/domain/entity"
)

const window = 10 * 24 * time.Hour

func newEnrollmentFixture() (*EnrollmentService, *fakeEventGameStorage, *fakeEnrollmentStorage) {
	games := &fakeEventGameStorage{games: map[string]*entity.EventGame{}}
	enrollments := newFakeEnrollmentStorage()
	return NewEnrollmentService(enrollments, games, window), games, enrollments
}

func TestJoinCreatesEnrollmentOnce(t *testing.T) {
	s, _, enrollments := newEnrollmentFixture()

	enrollment, err := s.Join(context.Background(), 42, "994006783")
	require.NoError(t, err)
	assert.False(t, enrollment.PreStartNotified)
	assert.False(t, enrollment.CheckpointsDone)
	assert.False(t, enrollment.QuestionsDone)
	assert.Len(t, enrollments.enrollments, 1)

	_, err = s.Join(context.Background(), 42, "994006783")
	assert.ErrorIs(t, err, errorz.ErrAlreadyEnrolled)
	assert.Len(t, enrollments.enrollments, 1)
}

func TestEligibleRoughEventsByRole(t *testing.T) {
	s, games, enrollments := newEnrollmentFixture()

	games.games["with-game"] = &entity.EventGame{EventID: "with-game"}
	games.games["joined"] = &entity.EventGame{EventID: "joined"}
	_, err := enrollments.Create(context.Background(), &entity.Enrollment{UserID: 42, EventID: "joined"})
	require.NoError(t, err)

	rough := []entity.RoughEvent{
		{ID: "with-game", Title: "A"},
		{ID: "joined", Title: "B"},
		{ID: "no-game", Title: "C"},
	}

	eligible, err := s.EligibleRoughEvents(context.Background(), 42, entity.Participant, rough)
	require.NoError(t, err)
	require.Len(t, eligible, 1)
	assert.Equal(t, "with-game", eligible[0].ID)

	eligible, err = s.EligibleRoughEvents(context.Background(), 42, entity.Organizer, rough)
	require.NoError(t, err)
	require.Len(t, eligible, 1)
	assert.Equal(t, "no-game", eligible[0].ID)
}

func TestCheckpointGamesWindow(t *testing.T) {
	s, games, enrollments := newEnrollmentFixture()
	now := time.Date(2025, 5, 17, 21, 0, 0, 0, time.UTC)

	add := func(id string, start, end time.Time, checkpointsDone bool) {
		games.games[id] = &entity.EventGame{EventID: id, StartTime: start, EndTime: end}
		_, err := enrollments.Create(context.Background(), &entity.Enrollment{
			UserID: 42, EventID: id, CheckpointsDone: checkpointsDone,
		})
		require.NoError(t, err)
	}

	add("running", now.Add(-time.Hour), now.Add(time.Hour), false)
	add("not-started", now.Add(time.Hour), now.Add(2*time.Hour), false)
	add("expired", now.Add(-20*24*time.Hour), now.Add(-11*24*time.Hour), false)
	add("done", now.Add(-time.Hour), now.Add(time.Hour), true)

	pending, err := s.CheckpointGames(context.Background(), 42, now)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "running", pending[0].EventID)
}

func TestQuizGamesWindow(t *testing.T) {
	s, games, enrollments := newEnrollmentFixture()
	now := time.Date(2025, 5, 17, 21, 0, 0, 0, time.UTC)

	add := func(id string, start, end time.Time, questionsDone bool) {
		games.games[id] = &entity.EventGame{EventID: id, StartTime: start, EndTime: end}
		_, err := enrollments.Create(context.Background(), &entity.Enrollment{
			UserID: 42, EventID: id, QuestionsDone: questionsDone,
		})
		require.NoError(t, err)
	}

	add("ended", now.Add(-3*time.Hour), now.Add(-time.Hour), false)
	add("still-running", now.Add(-time.Hour), now.Add(time.Hour), false)
	add("expired", now.Add(-20*24*time.Hour), now.Add(-11*24*time.Hour), false)
	add("done", now.Add(-3*time.Hour), now.Add(-time.Hour), true)

	pending, err := s.QuizGames(context.Background(), 42, now)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "ended", pending[0].EventID)
}
