package types

// ClientMessage is the envelope for every client -> server event.
// Type selects the action; the remaining fields are populated per type:
//
//	host:createGame    {}
//	host:selectQuiz    quizId
//	host:startGame     {}
//	host:nextQuestion  {}
//	host:resetGame     {}
//	player:join        nickname + gameId
//	player:voteForQuiz quizId
//	player:answer      answerIndex
type ClientMessage struct {
	Type        string `json:"type"`
	QuizID      string `json:"quizId,omitempty"`
	Nickname    string `json:"nickname,omitempty"`
	GameID      string `json:"gameId,omitempty"`
	AnswerIndex *int   `json:"answerIndex,omitempty"`
}

// ServerMessage is the envelope for every server -> client event.
type ServerMessage struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

// Server -> client event names.
const (
	MsgGameCreated      = "gameCreated"
	MsgJoined           = "joined"
	MsgUpdateGameState  = "updateGameState"
	MsgShowQuestion     = "showQuestion"
	MsgShowResults      = "showResults"
	MsgGameOver         = "gameOver"
	MsgGameReset        = "gameReset"
	MsgHostDisconnected = "hostDisconnected"
	MsgError            = "error"
)

type GameCreated struct {
	GameID           string        `json:"gameId"`
	HostID           string        `json:"hostId"`
	AvailableQuizzes []QuizSummary `json:"availableQuizzes"`
}

type Joined struct {
	PlayerID         string         `json:"playerId"`
	Name             string         `json:"name"`
	GameID           string         `json:"gameId"`
	SelectedQuizID   *string        `json:"selectedQuizId"`
	SelectedQuizName *string        `json:"selectedQuizName"`
	AvailableQuizzes []QuizSummary  `json:"availableQuizzes"`
	QuizVotes        map[string]int `json:"quizVotes"`
	MyVote           *string        `json:"myVote"`
}

type ShowQuestion struct {
	GameID   string   `json:"gameId"`
	Index    int      `json:"index"`
	Text     string   `json:"text"`
	Options  []string `json:"options"`
	Duration int      `json:"duration"` // seconds
	// FullQuizData is sent only with the first question so clients can
	// resolve later questions locally without re-querying.
	FullQuizData []QuizQuestion `json:"fullQuizData,omitempty"`
}

type QuizQuestion struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
}

type ShowResults struct {
	GameID        string                  `json:"gameId"`
	QuestionIndex int                     `json:"questionIndex"`
	CorrectAnswer int                     `json:"correctAnswer"`
	Scores        map[string]PlayerResult `json:"scores"`
}

type PlayerResult struct {
	Name      string `json:"name"`
	Score     int    `json:"score"`
	IsCorrect bool   `json:"isCorrect"`
	Answered  bool   `json:"answered"`
	Answer    *int   `json:"answer"`
}

type GameOver struct {
	GameID string       `json:"gameId"`
	Scores []FinalScore `json:"scores"` // sorted by score, descending
}

type FinalScore struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}
