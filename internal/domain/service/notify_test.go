package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vyacheslavbytsko/HSE-Extra-Events-Bot/internal/domain/entity"
	"github.com/vyacheslavbytsko/HSE-Extra-Events-Bot/pkg/logger/types"
)

type fakeUserStorage struct {
	users map[int64]*entity.User
}

func (f *fakeUserStorage) Get(_ context.Context, id int64) (*entity.User, error) {
	return f.users[id], nil
}

type sentNotification struct {
	userID  int64
	eventID string
	trigger Trigger
}

type fakeNotifier struct {
	sent []sentNotification
}

func (f *fakeNotifier) Notify(user *entity.User, game entity.EventGame, trigger Trigger) error {
	f.sent = append(f.sent, sentNotification{user.ID, game.EventID, trigger})
	return nil
}

func testLogger() *types.Logger {
	return &types.Logger{SugaredLogger: zap.NewNop().Sugar()}
}

func newNotifyFixture(t *testing.T, start, end time.Time) (*NotifyService, *fakeEnrollmentStorage, *fakeNotifier) {
	t.Helper()

	game := testGame()
	game.StartTime = start
	game.EndTime = end
	games := &fakeEventGameStorage{games: map[string]*entity.EventGame{game.EventID: game}}

	enrollments := newFakeEnrollmentStorage()
	_, err := enrollments.Create(context.Background(), &entity.Enrollment{UserID: 42, EventID: game.EventID})
	require.NoError(t, err)

	users := &fakeUserStorage{users: map[int64]*entity.User{
		42: {ID: 42, FullName: "Slava", Role: entity.Participant},
	}}
	recorder := &fakeNotifier{}

	s := NewNotifyService(games, enrollments, users, recorder, time.Minute, time.Hour, testLogger())
	return s, enrollments, recorder
}

func TestPassDeliversMissedTriggersInOrder(t *testing.T) {
	now := time.Date(2025, 5, 17, 21, 0, 0, 0, time.UTC)
	s, enrollments, recorder := newNotifyFixture(t, now.Add(-2*time.Hour), now.Add(-10*time.Minute))
	s.now = func() time.Time { return now }

	s.checkAndNotify(context.Background())

	require.Len(t, recorder.sent, 3)
	assert.Equal(t, TriggerPreStart, recorder.sent[0].trigger)
	assert.Equal(t, TriggerStart, recorder.sent[1].trigger)
	assert.Equal(t, TriggerEnd, recorder.sent[2].trigger)

	enrollment := enrollments.enrollments[enrollmentKey{42, "994006783"}]
	assert.True(t, enrollment.PreStartNotified)
	assert.True(t, enrollment.StartNotified)
	assert.True(t, enrollment.EndNotified)

	// A second immediate pass triggers nothing.
	s.checkAndNotify(context.Background())
	assert.Len(t, recorder.sent, 3)
}

func TestPassBeforePreStartWindowSendsNothing(t *testing.T) {
	now := time.Date(2025, 5, 17, 21, 0, 0, 0, time.UTC)
	s, _, recorder := newNotifyFixture(t, now.Add(3*time.Hour), now.Add(5*time.Hour))
	s.now = func() time.Time { return now }

	s.checkAndNotify(context.Background())
	assert.Empty(t, recorder.sent)
}

func TestPreStartOnlyWithinLead(t *testing.T) {
	now := time.Date(2025, 5, 17, 21, 0, 0, 0, time.UTC)
	s, enrollments, recorder := newNotifyFixture(t, now.Add(30*time.Minute), now.Add(3*time.Hour))
	s.now = func() time.Time { return now }

	s.checkAndNotify(context.Background())

	require.Len(t, recorder.sent, 1)
	assert.Equal(t, TriggerPreStart, recorder.sent[0].trigger)

	enrollment := enrollments.enrollments[enrollmentKey{42, "994006783"}]
	assert.True(t, enrollment.PreStartNotified)
	assert.False(t, enrollment.StartNotified)
	assert.False(t, enrollment.EndNotified)
}

func TestFlagsAlreadySetAreNotResent(t *testing.T) {
	now := time.Date(2025, 5, 17, 21, 0, 0, 0, time.UTC)
	s, enrollments, recorder := newNotifyFixture(t, now.Add(-2*time.Hour), now.Add(-10*time.Minute))
	s.now = func() time.Time { return now }

	enrollment := enrollments.enrollments[enrollmentKey{42, "994006783"}]
	enrollment.PreStartNotified = true
	enrollment.StartNotified = true

	s.checkAndNotify(context.Background())

	require.Len(t, recorder.sent, 1)
	assert.Equal(t, TriggerEnd, recorder.sent[0].trigger)
}
