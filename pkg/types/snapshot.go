package types

// GameState is the sanitized session snapshot broadcast to every
// participant after any state-affecting action. It is a pure projection of
// server-side state: internal fields like timer handles never appear here.
type GameState struct {
	GameID               string                 `json:"gameId"`
	HostID               string                 `json:"hostId"`
	Status               string                 `json:"status"`
	Players              map[string]PlayerState `json:"players"`
	CurrentQuestionIndex int                    `json:"currentQuestionIndex"`
	SelectedQuizID       *string                `json:"selectedQuizId"`
	SelectedQuizName     *string                `json:"selectedQuizName"`
	QuizVotes            map[string]int         `json:"quizVotes"`
	AvailableQuizzes     []QuizSummary          `json:"availableQuizzes"`
}

type PlayerState struct {
	Name           string  `json:"name"`
	Score          int     `json:"score"`
	Answered       bool    `json:"answered"`
	VotedForQuizID *string `json:"votedForQuizId"`
}

type QuizSummary struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	QuestionCount int    `json:"questionCount"`
}
