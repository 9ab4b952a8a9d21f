package states

import (
	"github.com/nlypage/intele/storage"
)

// The input manager consumes this storage through its interface; keep the
// method set in lockstep with it.
var _ storage.StateStorage = (*Storage)(nil)
