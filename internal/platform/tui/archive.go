package tui

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/blockfall/internal/core"
	"github.com/vovakirdan/blockfall/internal/storage"
	"github.com/vovakirdan/blockfall/internal/storage/redis"
)

// Archive stores finished runs. Both backends are optional.
type Archive struct {
	Store *storage.Store
	Board *redis.Leaderboard
	Log   *log.Logger
}

// NewRun builds the record of a finished game.
func NewRun(gameID, player string, st core.GameState) storage.Run {
	return storage.Run{
		GameID:   gameID,
		Player:   player,
		Score:    st.Score,
		Level:    st.Level,
		Lines:    st.Lines,
		Pieces:   st.Pieces,
		Spins:    st.Spins,
		Ruleset:  st.Ruleset,
		Duration: st.Elapsed,
		Won:      st.Won,
	}
}

func (a *Archive) logger() *log.Logger {
	if a.Log == nil {
		return log.New(io.Discard)
	}
	return a.Log
}

// Save records a run. Failures are logged and never interrupt play.
// Runs that placed no pieces are skipped.
func (a *Archive) Save(r storage.Run) {
	if a == nil || r.Pieces == 0 {
		return
	}
	if a.Store != nil {
		if _, err := a.Store.SaveRun(r); err != nil {
			a.logger().Warn("could not save run", "game", r.GameID, "error", err)
		}
	}
	if a.Board != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := a.Board.Record(ctx, r); err != nil {
			a.logger().Warn("could not update leaderboard", "game", r.GameID, "error", err)
		}
	}
}
