package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"

	"github.com/vyacheslavbytsko/HSE-Extra-Events-Bot/internal/domain/common/errorz"
	"github.com/vyacheslavbytsko/HSE-Extra-Events-Bot/pkg/logger/types"
)

type stubContext struct {
	tele.Context
	callback *tele.Callback
}

func (s stubContext) Callback() *tele.Callback { return s.callback }
func (s stubContext) Sender() *tele.User       { return &tele.User{ID: 7} }

func testLogger() *types.Logger {
	return &types.Logger{SugaredLogger: zap.NewNop().Sugar()}
}

func TestEventsListRejectsBadPageData(t *testing.T) {
	h := Handler{logger: testLogger()}

	for _, data := range []string{"-1", "-100", "abc", ""} {
		err := h.EventsList(stubContext{callback: &tele.Callback{Unique: "user_events", Data: data}})
		assert.ErrorIs(t, err, errorz.ErrInvalidCallbackData, "data: %q", data)
	}
}
