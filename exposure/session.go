package exposure

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Completer performs the blocking remote chat-completion call for one turn.
type Completer interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}

// Session is the in-memory state for one logged-in participant: the day they
// are on and an independent message history per agent. Sessions are not
// persisted; the plan store and conversation log are the recovery path.
type Session struct {
	ParticipantID string
	Day           int

	histories map[Agent][]Message

	// plan caches the stored plan for this session. Possibly stale relative
	// to disk; it is refreshed from the store whenever it is empty.
	plan *Plan
}

func NewSession(participantID string, day int) *Session {
	return &Session{
		ParticipantID: participantID,
		Day:           day,
		histories:     make(map[Agent][]Message),
	}
}

// History returns the session's message history for one agent.
func (s *Session) History(agent Agent) []Message {
	return s.histories[agent]
}

// Runner wires the per-turn flow: log the user message, compose the prompt,
// call the model, extract the reply, persist any produced plan, log the
// assistant message.
type Runner struct {
	Program   Program
	Completer Completer
	Plans     *PlanStore
	Log       *ConversationLog

	// Now supplies log timestamps. Nil means time.Now.
	Now func() time.Time
}

// TurnResult is what one successful user turn produced.
type TurnResult struct {
	Reply     Reply
	PlanSaved bool

	// Prompt is the composed system prompt for this turn, exposed so
	// researchers can inspect exactly what the model was told.
	Prompt string
}

// Turn handles one user message for the given agent. A transport error
// aborts the turn: the user message stays in history and in the log, no
// assistant reply is recorded, and the user may retry by resending.
func (r *Runner) Turn(ctx context.Context, s *Session, agent Agent, userText string) (TurnResult, error) {
	if r.Completer == nil || r.Plans == nil || r.Log == nil {
		return TurnResult{}, errors.New("Runner.Turn: runner is not fully configured")
	}
	if s == nil {
		return TurnResult{}, errors.New("Runner.Turn: session is nil")
	}
	if !agent.Valid() {
		return TurnResult{}, fmt.Errorf("Runner.Turn: unknown agent %q", agent)
	}
	if !r.Program.ValidDay(s.Day) {
		return TurnResult{}, fmt.Errorf("Runner.Turn: day %d outside program length %d", s.Day, r.Program.DayCount)
	}
	if strings.TrimSpace(userText) == "" {
		return TurnResult{}, errors.New("Runner.Turn: user message is empty")
	}

	s.histories[agent] = append(s.histories[agent], Message{Role: RoleUser, Content: userText})
	if err := r.Log.Append(LogRecord{
		Timestamp:     r.now(),
		ParticipantID: s.ParticipantID,
		Day:           s.Day,
		Agent:         agent,
		Role:          RoleUser,
		Text:          userText,
	}); err != nil {
		return TurnResult{}, err
	}

	prompt, prior, err := r.composeContext(s, agent)
	if err != nil {
		return TurnResult{}, err
	}

	messages := make([]Message, 0, 1+len(prior)+len(s.histories[agent]))
	messages = append(messages, Message{Role: RoleSystem, Content: prompt})
	messages = append(messages, prior...)
	messages = append(messages, s.histories[agent]...)

	raw, err := r.Completer.Complete(ctx, messages)
	if err != nil {
		return TurnResult{}, fmt.Errorf("Runner.Turn: completion: %w", err)
	}

	reply := ExtractReply(raw)

	res := TurnResult{Reply: reply, Prompt: prompt}
	if agent == AgentTherapist && reply.Plan != nil {
		if err := r.Plans.Save(s.ParticipantID, *reply.Plan); err != nil {
			return TurnResult{}, err
		}
		s.plan = reply.Plan
		res.PlanSaved = true
	}

	s.histories[agent] = append(s.histories[agent], Message{Role: RoleAssistant, Content: reply.Text})
	if err := r.Log.Append(LogRecord{
		Timestamp:     r.now(),
		ParticipantID: s.ParticipantID,
		Day:           s.Day,
		Agent:         agent,
		Role:          RoleAssistant,
		Text:          reply.Text,
		Emotion:       reply.Emotion,
	}); err != nil {
		return TurnResult{}, err
	}

	return res, nil
}

// composeContext builds the system prompt for the turn, plus any prior-day
// therapist history to seed continuity. Only the therapist replays prior
// days; the peer conversation starts fresh each session.
func (r *Runner) composeContext(s *Session, agent Agent) (string, []Message, error) {
	if agent == AgentTherapist {
		prior, err := r.Log.PriorTherapistTurns(s.ParticipantID, s.Day, r.Program.MaxPriorMessages)
		if err != nil {
			return "", nil, err
		}
		return r.Program.TherapistPrompt(s.Day), prior, nil
	}

	plan := s.plan
	if plan == nil {
		loaded, err := r.Plans.Load(s.ParticipantID)
		if err != nil {
			return "", nil, err
		}
		plan = loaded
		s.plan = loaded
	}
	return r.Program.PeerPrompt(plan, s.Day), nil, nil
}

// StoredPlan returns the session's view of the participant's plan, loading
// from the store when the cache is empty.
func (r *Runner) StoredPlan(s *Session) (*Plan, error) {
	if s.plan != nil {
		return s.plan, nil
	}
	loaded, err := r.Plans.Load(s.ParticipantID)
	if err != nil {
		return nil, err
	}
	s.plan = loaded
	return loaded, nil
}

func (r *Runner) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}
