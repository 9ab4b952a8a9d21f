package callback

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vyacheslavbytsko/HSE-Extra-Events-Bot/internal/domain/common/errorz"
)

func TestCheckpointRoundTrip(t *testing.T) {
	states := []CheckpointState{
		{EventID: "994006783", Stop: 0, Points: 0},
		{EventID: "994006783", Stop: 3, Points: 2},
		{EventID: "a", Stop: 5, Points: 5},
	}
	for _, s := range states {
		decoded, err := DecodeCheckpoint(s.Encode())
		require.NoError(t, err)
		assert.Equal(t, s, decoded)
	}
}

func TestQuizRoundTrip(t *testing.T) {
	states := []QuizState{
		{EventID: "994006783", Question: 0, Points: 0, LastCorrect: true},
		{EventID: "994006783", Question: 4, Points: 3, LastCorrect: false},
		{EventID: "x", Question: 5, Points: 5, LastCorrect: true},
	}
	for _, s := range states {
		decoded, err := DecodeQuiz(s.Encode())
		require.NoError(t, err)
		assert.Equal(t, s, decoded)
	}
}

func TestDecodeCheckpointMalformed(t *testing.T) {
	cases := []string{
		"",
		"994006783",
		"994006783 1",
		"994006783 1 2 3",
		"994006783 x 2",
		"994006783 1 x",
		"994006783 -1 0",
		"994006783 1 -2",
		" 1 2",
	}
	for _, data := range cases {
		_, err := DecodeCheckpoint(data)
		assert.ErrorIs(t, err, errorz.ErrMalformedToken, "data: %q", data)
	}
}

func TestDecodeQuizMalformed(t *testing.T) {
	cases := []string{
		"",
		"994006783 1 2",
		"994006783 1 2 maybe",
		"994006783 1 2 TRUE",
		"994006783 1 2 t",
		"994006783 1 2 1",
		"994006783 1 2 False",
		"994006783 -1 2 true",
		"994006783 1 -2 false",
		"994006783 1 2 true extra",
		" 0 0 true",
	}
	for _, data := range cases {
		_, err := DecodeQuiz(data)
		assert.ErrorIs(t, err, errorz.ErrMalformedToken, "data: %q", data)
	}
}
