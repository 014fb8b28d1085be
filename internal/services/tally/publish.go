package tally

import (
	"github.com/KirkDiggler/mafiabot/internal/models"
)

// RequestRecount records a "recuento" command. Only a game-master request
// newer than the last published tally sets PendingRecountRequest; requests by
// anyone else are counted against their (unenforced) quota.
func (e *Evaluator) RequestRecount(state *models.GameState, author models.PlayerID, postID int) bool {
	if author != e.gameMaster {
		if state.RecountRequests == nil {
			state.RecountRequests = make(map[models.PlayerID]int)
		}
		state.RecountRequests[author]++

		quota := 0
		if entry, ok := e.rights.Lookup(author); ok {
			quota = entry.AllowedVoteRequests
		}
		e.logger.Info("recount request from player ignored",
			"player", author,
			"post_id", postID,
			"requests", state.RecountRequests[author],
			"quota", quota)
		return false
	}

	if postID <= state.LastPublishedCountID {
		return false
	}

	state.PendingRecountRequest = true
	return true
}

// ShouldPublish decides whether an interim tally is due, either because enough
// posts have gone by since the last one or because a recount was requested.
// A pending request is consumed by the call.
func (e *Evaluator) ShouldPublish(state *models.GameState) bool {
	due := state.LastSeenPostID-state.LastPublishedCountID >= e.pushInterval || state.PendingRecountRequest
	if due {
		state.PendingRecountRequest = false
	}
	return due
}
