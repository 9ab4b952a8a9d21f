package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vyacheslavbytsko/HSE-Extra-Events-Bot/internal/domain/common/errorz"
	"github.com/vyacheslavbytsko/HSE-Extra-Events-Bot/internal/domain/entity"
)

type fakeDrafter struct {
	checkpoints []string
	questions   []string
	calls       int
}

func (f *fakeDrafter) DraftCheckpoints(_ context.Context, _, _ string) (string, error) {
	draft := f.checkpoints[f.calls]
	f.calls++
	return draft, nil
}

func (f *fakeDrafter) DraftQuestions(_ context.Context, _, _ string) (string, error) {
	draft := f.questions[f.calls]
	f.calls++
	return draft, nil
}

func validQuestionsText() string {
	block := "Вопрос?\nПравильный\nНеверный 1\nНеверный 2"
	return strings.Join([]string{block, block, block, block, block}, "\n\n")
}

func TestParseQuestions(t *testing.T) {
	s := NewEventGameService(nil, nil)

	questions, err := s.ParseQuestions(validQuestionsText())
	require.NoError(t, err)
	require.Len(t, questions, 5)
	assert.Equal(t, "Вопрос?", questions[0].Prompt)
	assert.Equal(t, [3]string{"Правильный", "Неверный 1", "Неверный 2"}, questions[0].Options)
}

func TestParseQuestionsStripsNumbering(t *testing.T) {
	s := NewEventGameService(nil, nil)

	questions, err := s.ParseQuestions(
		"Контрольный вопрос №1: Когда открылся музей?\nОтвет №1: В 1898\nОтвет №2: В 1905\nОтвет №3: В 1917",
	)
	require.NoError(t, err)
	require.Len(t, questions, 1)
	assert.Equal(t, "Когда открылся музей?", questions[0].Prompt)
	assert.Equal(t, [3]string{"В 1898", "В 1905", "В 1917"}, questions[0].Options)
}

func TestParseQuestionsWrongShape(t *testing.T) {
	s := NewEventGameService(nil, nil)

	cases := []string{
		"",
		"Вопрос?\nОдин ответ",
		"Вопрос?\nA\nB\nC\nD",
		"Вопрос?\nA\nB\nC\n\nВторой вопрос без ответов",
	}
	for _, text := range cases {
		_, err := s.ParseQuestions(text)
		assert.ErrorIs(t, err, errorz.ErrValidation, "text: %q", text)
	}
}

func TestParseCheckpoints(t *testing.T) {
	s := NewEventGameService(nil, nil)

	checkpoints, err := s.ParseCheckpoints("Точка 1\nТочка 2\nТочка 3")
	require.NoError(t, err)
	assert.Equal(t, []string{"Точка 1", "Точка 2", "Точка 3"}, checkpoints)

	_, err = s.ParseCheckpoints("Точка 1\n\nТочка 3")
	assert.ErrorIs(t, err, errorz.ErrValidation)
}

func TestGenerateCheckpointsRetriesOnShapeMismatch(t *testing.T) {
	drafter := &fakeDrafter{checkpoints: []string{
		"только\nдве строки",
		"1\n2\n3\n4\n5\n6\n7",
		"Точка 1\nТочка 2\nТочка 3\nТочка 4\nТочка 5",
	}}
	s := NewEventGameService(nil, drafter)

	checkpoints, err := s.GenerateCheckpoints(context.Background(), catalogEvent())
	require.NoError(t, err)
	assert.Len(t, checkpoints, 5)
	assert.Equal(t, 3, drafter.calls)
}

func TestGenerateQuestionsFailsAfterThreeAttempts(t *testing.T) {
	drafter := &fakeDrafter{questions: []string{"bad", "bad", "bad", "never reached"}}
	s := NewEventGameService(nil, drafter)

	_, err := s.GenerateQuestions(context.Background(), catalogEvent())
	assert.ErrorIs(t, err, errorz.ErrGenerationFailed)
	assert.Equal(t, 3, drafter.calls)
}

func TestGenerateQuestionsAcceptsValidDraft(t *testing.T) {
	drafter := &fakeDrafter{questions: []string{validQuestionsText()}}
	s := NewEventGameService(nil, drafter)

	questions, err := s.GenerateQuestions(context.Background(), catalogEvent())
	require.NoError(t, err)
	assert.Len(t, questions, 5)
}

func catalogEvent() entity.CatalogEvent {
	return entity.CatalogEvent{ID: "994006783", Title: "Ночь музеев", Description: "Описание"}
}
