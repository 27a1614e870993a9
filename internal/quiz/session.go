package quiz

import (
	"context"
	"errors"
	"log"
	"sync"

	"triviaclash/internal/models"
)

// State is the session lifecycle phase
type State string

const (
	StateSetup       State = "setup"
	StateLoading     State = "loading"
	StateActive      State = "active"
	StateNoQuestions State = "no_questions"
	StateFinished    State = "finished"
	StateError       State = "error"
)

var (
	ErrQuizInProgress = errors.New("quiz already in progress")
	ErrNoActiveQuiz   = errors.New("no active question")
	ErrAnswerRequired = errors.New("answer the current question first")
	ErrNotFinished    = errors.New("quiz is not finished")
)

// AttemptSaver persists one finished run's outcome
type AttemptSaver interface {
	SaveAttempt(ctx context.Context, attempt models.Attempt) error
}

// Session drives a single user's quiz lifecycle:
// Setup -> Loading -> Active -> Finished, with Error and NoQuestions
// reachable from Loading. All methods are safe for concurrent use.
//
// The user identity and collaborators are explicit constructor dependencies;
// a zero userID marks an unauthenticated session whose results are never
// persisted.
type Session struct {
	mu     sync.Mutex
	userID int64
	loader Loader
	saver  AttemptSaver

	state     State
	settings  Settings
	questions []Question
	index     int
	selected  string
	locked    bool
	score     int

	// run increments on every Start/PlayAgain and keys the save-once
	// latch: an attempt is persisted only when savedRun < run.
	run      int
	savedRun int

	// loadGen tags each load invocation; a completion whose tag no longer
	// matches is stale and must not touch session state.
	loadGen int

	loadErr error
}

// NewSession creates a session in the Setup state
func NewSession(userID int64, loader Loader, saver AttemptSaver) *Session {
	return &Session{
		userID: userID,
		loader: loader,
		saver:  saver,
		state:  StateSetup,
	}
}

// Start commits the given settings and begins loading questions.
// Amount 0 skips the loader and finishes immediately with a 0/0 score.
func (s *Session) Start(ctx context.Context, settings Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateSetup {
		return ErrQuizInProgress
	}

	s.settings = settings
	s.beginRunLocked()

	if settings.Amount == 0 {
		s.state = StateFinished
		return nil
	}

	s.state = StateLoading
	s.beginLoadLocked(ctx)
	return nil
}

// SelectAnswer records the user's pick for the current question. A second
// selection on an already-locked question is a no-op.
func (s *Session) SelectAnswer(answer string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateActive {
		return ErrNoActiveQuiz
	}
	if s.locked {
		return nil
	}

	s.selected = answer
	s.locked = true
	if answer == s.questions[s.index].CorrectAnswer {
		s.score++
	}
	return nil
}

// Advance moves to the next question, or to Finished after the last one.
// Valid only once the current question is locked.
func (s *Session) Advance(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateActive {
		return ErrNoActiveQuiz
	}
	if !s.locked {
		return ErrAnswerRequired
	}

	s.index++
	if s.index >= len(s.questions) {
		s.state = StateFinished
		s.maybeSaveAttemptLocked(ctx)
		return nil
	}

	s.selected = ""
	s.locked = false
	return nil
}

// PlayAgain reruns the quiz with the same settings
func (s *Session) PlayAgain(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateFinished && s.state != StateNoQuestions {
		return ErrNotFinished
	}

	s.beginRunLocked()

	if s.settings.Amount == 0 {
		s.state = StateFinished
		return nil
	}

	s.state = StateLoading
	s.beginLoadLocked(ctx)
	return nil
}

// ChangeSettings discards the committed settings and any in-progress run,
// returning to Setup. From Loading this acts as a cancel: the pending load's
// result is discarded by the generation bump.
func (s *Session) ChangeSettings() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.loadGen++
	s.settings = Settings{}
	s.questions = nil
	s.index = 0
	s.selected = ""
	s.locked = false
	s.score = 0
	s.loadErr = nil
	s.state = StateSetup
}

// beginRunLocked starts a fresh run: progress is reset and the save-once
// latch is re-armed
func (s *Session) beginRunLocked() {
	s.run++
	s.questions = nil
	s.index = 0
	s.selected = ""
	s.locked = false
	s.score = 0
	s.loadErr = nil
}

// beginLoadLocked launches the asynchronous load for the current settings,
// tagged with a fresh generation so superseded results are ignored
func (s *Session) beginLoadLocked(ctx context.Context) {
	s.loadGen++
	generation := s.loadGen
	settings := s.settings

	go func() {
		questions, err := s.loader.Load(ctx, settings)

		s.mu.Lock()
		defer s.mu.Unlock()

		if generation != s.loadGen || s.state != StateLoading {
			// A newer run or a settings change superseded this load.
			return
		}

		switch {
		case err != nil:
			s.loadErr = err
			s.state = StateError
		case len(questions) == 0:
			s.state = StateNoQuestions
		default:
			s.questions = questions
			s.state = StateActive
		}
	}()
}

// maybeSaveAttemptLocked persists the finished run at most once. Failures
// are logged and swallowed: the finished view must not regress and there is
// no automatic retry.
func (s *Session) maybeSaveAttemptLocked(ctx context.Context) {
	if s.savedRun >= s.run {
		return
	}
	if s.userID == 0 || s.saver == nil {
		return
	}
	if len(s.questions) == 0 {
		return
	}

	s.savedRun = s.run

	attempt := models.Attempt{
		UserID:     s.userID,
		Category:   s.settings.Category,
		Difficulty: s.settings.Difficulty,
		Correct:    s.score,
		Total:      len(s.questions),
	}
	if err := s.saver.SaveAttempt(ctx, attempt); err != nil {
		log.Printf("failed to save attempt for user %d: %v", s.userID, err)
	}
}

// QuestionView is the renderable slice of the current question
type QuestionView struct {
	ID            string   `json:"id"`
	Category      string   `json:"category"`
	Difficulty    string   `json:"difficulty"`
	Text          string   `json:"question"`
	CorrectAnswer string   `json:"correct_answer"`
	Answers       []string `json:"answers"`
}

// View is a point-in-time snapshot of the session for rendering. Reading a
// snapshot never mutates the session, so re-rendering the finished screen
// cannot re-trigger persistence.
type View struct {
	State         State         `json:"state"`
	Settings      *Settings     `json:"settings,omitempty"`
	QuestionCount int           `json:"question_count"`
	Index         int           `json:"index"`
	Question      *QuestionView `json:"question,omitempty"`
	Selected      string        `json:"selected,omitempty"`
	Locked        bool          `json:"locked"`
	Score         int           `json:"score"`
	Error         string        `json:"error,omitempty"`
}

// Snapshot returns the current session view
func (s *Session) Snapshot() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	view := View{
		State:         s.state,
		QuestionCount: len(s.questions),
		Index:         s.index,
		Selected:      s.selected,
		Locked:        s.locked,
		Score:         s.score,
	}

	if s.state != StateSetup {
		settings := s.settings
		view.Settings = &settings
	}

	if s.state == StateActive && s.index < len(s.questions) {
		question := s.questions[s.index]
		view.Question = &QuestionView{
			ID:            question.ID,
			Category:      question.Category,
			Difficulty:    question.Difficulty,
			Text:          question.Text,
			CorrectAnswer: question.CorrectAnswer,
			Answers:       question.Answers,
		}
	}

	if s.loadErr != nil {
		view.Error = s.loadErr.Error()
	}

	return view
}
