// Package callback encodes the complete state of an in-progress mini-game run
// into the callback data carried by an inline button. The server keeps no
// session between steps: everything the next transition needs travels inside
// the token, and the decoder accepts nothing it cannot fully parse.
package callback

import (
	"strconv"
	"strings"

	"github.com/vyacheslavbytsko/HSE-Extra-Events-Bot/internal/domain/common/errorz"
)

// CheckpointState is the transition token of a checkpoint traversal.
type CheckpointState struct {
	EventID string
	Stop    int
	Points  int
}

// QuizState is the transition token of a quiz traversal. LastCorrect reports
// whether the previous answer was the canonical one; it only drives the
// feedback line and is meaningless when Question is 0.
type QuizState struct {
	EventID     string
	Question    int
	Points      int
	LastCorrect bool
}

func (s CheckpointState) Encode() string {
	return strings.Join([]string{
		s.EventID,
		strconv.Itoa(s.Stop),
		strconv.Itoa(s.Points),
	}, " ")
}

func (s QuizState) Encode() string {
	return strings.Join([]string{
		s.EventID,
		strconv.Itoa(s.Question),
		strconv.Itoa(s.Points),
		strconv.FormatBool(s.LastCorrect),
	}, " ")
}

// DecodeCheckpoint is the exact inverse of CheckpointState.Encode. Any data
// not produced by Encode fails with errorz.ErrMalformedToken.
func DecodeCheckpoint(data string) (CheckpointState, error) {
	parts := strings.Split(data, " ")
	if len(parts) != 3 || parts[0] == "" {
		return CheckpointState{}, errorz.ErrMalformedToken
	}

	stop, err := strconv.Atoi(parts[1])
	if err != nil || stop < 0 {
		return CheckpointState{}, errorz.ErrMalformedToken
	}
	points, err := strconv.Atoi(parts[2])
	if err != nil || points < 0 {
		return CheckpointState{}, errorz.ErrMalformedToken
	}

	return CheckpointState{
		EventID: parts[0],
		Stop:    stop,
		Points:  points,
	}, nil
}

// DecodeQuiz is the exact inverse of QuizState.Encode.
func DecodeQuiz(data string) (QuizState, error) {
	parts := strings.Split(data, " ")
	if len(parts) != 4 || parts[0] == "" {
		return QuizState{}, errorz.ErrMalformedToken
	}

	question, err := strconv.Atoi(parts[1])
	if err != nil || question < 0 {
		return QuizState{}, errorz.ErrMalformedToken
	}
	points, err := strconv.Atoi(parts[2])
	if err != nil || points < 0 {
		return QuizState{}, errorz.ErrMalformedToken
	}
	var lastCorrect bool
	switch parts[3] {
	case "true":
		lastCorrect = true
	case "false":
		lastCorrect = false
	default:
		return QuizState{}, errorz.ErrMalformedToken
	}

	return QuizState{
		EventID:     parts[0],
		Question:    question,
		Points:      points,
		LastCorrect: lastCorrect,
	}, nil
}
