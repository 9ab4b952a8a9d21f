package user

import (
	"context"
	"errors"
	"time"

	tele "gopkg.in/telebot.v3"

	"github.com/vyacheslavbytsko/HSE-Extra-Events-Bot/internal/domain/callback"
	"github.com/vyacheslavbytsko/HSE-Extra-Events-Bot/internal/domain/common/errorz"
	"github.com/vyacheslavbytsko/HSE-Extra-Events-Bot/internal/domain/service"
	"github.com/vyacheslavbytsko/HSE-Extra-Events-Bot/internal/domain/utils"
	"github.com/vyacheslavbytsko/HSE-Extra-Events-Bot/internal/domain/utils/location"
)

// StopsList offers the enrolled games whose checkpoint run is currently open.
func (h Handler) StopsList(c tele.Context) error {
	h.logger.Infof("(user: %d) stops list", c.Sender().ID)

	games, err := h.enrollmentService.CheckpointGames(context.Background(), c.Sender().ID, time.Now().In(location.Location()))
	if err != nil {
		h.logger.Errorf("(user: %d) error while getting checkpoint games: %v", c.Sender().ID, err)
		return c.Send(h.layout.Text(c, "technical_issues", err.Error()))
	}
	if len(games) == 0 {
		return c.Send(h.layout.Text(c, "no_checkpoint_games"))
	}

	markup := c.Bot().NewMarkup()
	var rows []tele.Row
	for _, game := range games {
		rows = append(rows, markup.Row(*h.layout.Button(c, "user:stops:game", struct {
			Title string
			Data  string
		}{
			Title: game.Title,
			Data: callback.CheckpointState{
				EventID: game.EventID,
			}.Encode(),
		})))
	}
	markup.Inline(rows...)

	return c.Send(h.layout.Text(c, "checkpoint_games_list"), markup)
}

// QuestionsList offers the enrolled games whose quiz is currently open.
func (h Handler) QuestionsList(c tele.Context) error {
	h.logger.Infof("(user: %d) questions list", c.Sender().ID)

	games, err := h.enrollmentService.QuizGames(context.Background(), c.Sender().ID, time.Now().In(location.Location()))
	if err != nil {
		h.logger.Errorf("(user: %d) error while getting quiz games: %v", c.Sender().ID, err)
		return c.Send(h.layout.Text(c, "technical_issues", err.Error()))
	}
	if len(games) == 0 {
		return c.Send(h.layout.Text(c, "no_quiz_games"))
	}

	markup := c.Bot().NewMarkup()
	var rows []tele.Row
	for _, game := range games {
		rows = append(rows, markup.Row(*h.layout.Button(c, "user:questions:game", struct {
			Title string
			Data  string
		}{
			Title: game.Title,
			Data: callback.QuizState{
				EventID: game.EventID,
			}.Encode(),
		})))
	}
	markup.Inline(rows...)

	return c.Send(h.layout.Text(c, "quiz_games_list"), markup)
}

// Checkpoint advances a checkpoint run by one transition. The whole run
// state lives in the callback data of the pressed button.
func (h Handler) Checkpoint(c tele.Context) error {
	state, err := callback.DecodeCheckpoint(c.Callback().Data)
	if err != nil {
		return h.gameError(c, err)
	}
	h.logger.Infof("(user: %d) checkpoint step (event_id=%s, stop=%d)", c.Sender().ID, state.EventID, state.Stop)

	step, completion, err := h.progression.AdvanceCheckpoints(context.Background(), c.Sender().ID, state)
	if err != nil {
		return h.gameError(c, err)
	}

	if completion != nil {
		return h.completion(c, completion)
	}

	return c.Edit(
		h.layout.Text(c, "checkpoint_step", struct {
			Title  string
			Number int
			Prompt string
		}{
			Title:  step.Title,
			Number: state.Stop + 1,
			Prompt: step.Prompt,
		}),
		h.layout.Markup(c, "game:checkpoint", struct {
			Missed string
			Passed string
		}{
			Missed: step.Missed,
			Passed: step.Passed,
		}),
	)
}

// Quiz advances a quiz run by one transition.
func (h Handler) Quiz(c tele.Context) error {
	state, err := callback.DecodeQuiz(c.Callback().Data)
	if err != nil {
		return h.gameError(c, err)
	}
	h.logger.Infof("(user: %d) quiz step (event_id=%s, question=%d)", c.Sender().ID, state.EventID, state.Question)

	step, completion, err := h.progression.AdvanceQuiz(context.Background(), c.Sender().ID, state)
	if err != nil {
		return h.gameError(c, err)
	}

	if completion != nil {
		return h.completion(c, completion)
	}

	markup := c.Bot().NewMarkup()
	var rows []tele.Row
	for _, choice := range step.Choices {
		rows = append(rows, markup.Row(*h.layout.Button(c, "game:quiz:answer", choice)))
	}
	markup.Inline(rows...)

	return c.Edit(
		h.layout.Text(c, "quiz_step", struct {
			Title        string
			Number       int
			Prompt       string
			ShowFeedback bool
			LastCorrect  bool
		}{
			Title:        step.Title,
			Number:       state.Question + 1,
			Prompt:       step.Prompt,
			ShowFeedback: step.ShowFeedback,
			LastCorrect:  step.LastCorrect,
		}),
		markup,
	)
}

func (h Handler) completion(c tele.Context, completion *service.Completion) error {
	if completion.AlreadyDone {
		return c.Edit(h.layout.Text(c, "game_already_completed", struct {
			Title string
		}{
			Title: completion.Title,
		}))
	}

	return c.Edit(h.layout.Text(c, "game_completed", struct {
		Title        string
		Points       int
		PointsWord   string
		ShowFeedback bool
		LastCorrect  bool
	}{
		Title:        completion.Title,
		Points:       completion.Points,
		PointsWord:   utils.Declension(completion.Points, "баллов", "балл", "балла"),
		ShowFeedback: completion.ShowFeedback,
		LastCorrect:  completion.LastCorrect,
	}))
}

func (h Handler) gameError(c tele.Context, err error) error {
	switch {
	case errors.Is(err, errorz.ErrMalformedToken), errors.Is(err, errorz.ErrInvalidCallbackData):
		h.logger.Warnf("(user: %d) malformed game token: %v", c.Sender().ID, err)
		return c.Respond(&tele.CallbackResponse{
			Text:      h.layout.Text(c, "malformed_token"),
			ShowAlert: true,
		})
	case errors.Is(err, errorz.ErrUnknownEventGame):
		return c.Respond(&tele.CallbackResponse{
			Text:      h.layout.Text(c, "game_not_found"),
			ShowAlert: true,
		})
	default:
		h.logger.Errorf("(user: %d) error while advancing game: %v", c.Sender().ID, err)
		return c.Edit(h.layout.Text(c, "technical_issues", err.Error()))
	}
}
