package room

import (
	"github.com/GodfreyDev/CahootKlone/pkg/types"
)

// snapshot projects the internal session state into its client-safe wire
// shape. Internal fields (timer handle, generation counter, outboxes)
// never cross this boundary.
func (r *Room) snapshot() types.GameState {
	players := make(map[string]types.PlayerState, len(r.g.Players))
	for id, p := range r.g.Players {
		var vote *string
		if p.VotedForQuizID != "" {
			v := p.VotedForQuizID
			vote = &v
		}
		players[id] = types.PlayerState{
			Name:           p.Name,
			Score:          p.Score,
			Answered:       p.Answered,
			VotedForQuizID: vote,
		}
	}
	return types.GameState{
		GameID:               r.g.PIN,
		HostID:               r.g.HostID,
		Status:               string(r.g.Status),
		Players:              players,
		CurrentQuestionIndex: r.g.CurrentQuestionIndex,
		SelectedQuizID:       r.selectedQuizID(),
		SelectedQuizName:     r.selectedQuizName(),
		QuizVotes:            copyVotes(r.g.QuizVotes),
		AvailableQuizzes:     r.quizzes,
	}
}

func (r *Room) snapshotMsg() types.ServerMessage {
	return types.ServerMessage{Type: types.MsgUpdateGameState, Data: r.snapshot()}
}

func (r *Room) selectedQuizID() *string {
	if r.g.SelectedQuiz == nil {
		return nil
	}
	id := r.g.SelectedQuiz.ID
	return &id
}

func (r *Room) selectedQuizName() *string {
	if r.g.SelectedQuiz == nil {
		return nil
	}
	name := r.g.SelectedQuiz.Name
	return &name
}

func copyVotes(votes map[string]int) map[string]int {
	out := make(map[string]int, len(votes))
	for id, n := range votes {
		out[id] = n
	}
	return out
}
