package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/wricardo/brainstress/game/store"
)

const recordTimeout = 5 * time.Second

// storeRecorder adapts a store.Store to engine.Recorder. The engine treats
// outcome reporting as fire-and-forget, so failures are only logged.
type storeRecorder struct {
	store  store.Store
	logger *slog.Logger
}

func (r storeRecorder) IncrementWin(quizID string) {
	r.record(quizID, true)
}

func (r storeRecorder) IncrementFail(quizID string) {
	r.record(quizID, false)
}

func (r storeRecorder) record(quizID string, win bool) {
	ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
	defer cancel()

	var err error
	if win {
		err = r.store.IncrementWin(ctx, quizID)
	} else {
		err = r.store.IncrementFail(ctx, quizID)
	}
	if err != nil {
		r.logger.Error("failed to record quiz outcome", "quiz_id", quizID, "win", win, "error", err)
		return
	}
	r.logger.Info("quiz finished", "quiz_id", quizID, "win", win)
}
