package exposure

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// scriptedCompleter returns canned raw responses in order, recording the
// message lists it was given.
type scriptedCompleter struct {
	replies []string
	calls   [][]Message
	err     error
}

func (s *scriptedCompleter) Complete(_ context.Context, messages []Message) (string, error) {
	s.calls = append(s.calls, messages)
	if s.err != nil {
		return "", s.err
	}
	i := len(s.calls) - 1
	if i >= len(s.replies) {
		i = len(s.replies) - 1
	}
	return s.replies[i], nil
}

func testRunner(t *testing.T, c Completer) *Runner {
	t.Helper()
	dir := t.TempDir()
	return &Runner{
		Program:   DefaultProgram(),
		Completer: c,
		Plans:     NewPlanStore(filepath.Join(dir, "plans")),
		Log:       NewConversationLog(filepath.Join(dir, "logs", "chat_logs.csv")),
		Now:       func() time.Time { return time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC) },
	}
}

func planReplyJSON(t *testing.T) string {
	t.Helper()
	plan := Plan{Level: LevelLow}
	for i := 0; i < 6; i++ {
		plan.Scenarios = append(plan.Scenarios, Scenario{
			Title: string(rune('a' + i)),
			Level: levelOrder[i/scenariosPerTier],
		})
	}
	b, err := json.Marshal(Reply{Text: "プランができました", Emotion: "positive", Plan: &plan})
	if err != nil {
		t.Fatalf("marshal reply: %v", err)
	}
	return string(b)
}

func TestTurn_TherapistAuthorsAndPersistsPlan(t *testing.T) {
	t.Parallel()

	comp := &scriptedCompleter{replies: []string{planReplyJSON(t)}}
	r := testRunner(t, comp)
	sess := NewSession("P01", 1)

	res, err := r.Turn(context.Background(), sess, AgentTherapist, "今日の練習をまとめてください")
	if err != nil {
		t.Fatalf("Turn: %v", err)
	}
	if !res.PlanSaved {
		t.Fatal("PlanSaved=false, want plan persisted")
	}
	if res.Reply.Plan == nil || len(res.Reply.Plan.Scenarios) != 6 {
		t.Fatalf("Reply.Plan=%+v, want 6 scenarios", res.Reply.Plan)
	}

	// Day 3 (the medium block) selects positions [2,3] of the stored plan.
	stored, err := r.Plans.Load("P01")
	if err != nil || stored == nil {
		t.Fatalf("Load stored plan: %v %v", stored, err)
	}
	day3 := r.Program.ScenariosForDay(stored, 3)
	if len(day3) != 2 || day3[0].Title != "c" || day3[1].Title != "d" {
		t.Fatalf("day 3 selection=%+v, want scenarios at positions [2,3]", day3)
	}

	// Both sides of the exchange are in the session history.
	hist := sess.History(AgentTherapist)
	if len(hist) != 2 || hist[0].Role != RoleUser || hist[1].Role != RoleAssistant {
		t.Fatalf("history=%+v", hist)
	}
}

func TestTurn_SecondDaySeesPriorTherapistContext(t *testing.T) {
	t.Parallel()

	comp := &scriptedCompleter{replies: []string{
		`{"text":"day1 reply","emotion":"neutral","plan":null}`,
		`{"text":"day2 reply","emotion":"neutral","plan":null}`,
	}}
	r := testRunner(t, comp)

	day1 := NewSession("P01", 1)
	if _, err := r.Turn(context.Background(), day1, AgentTherapist, "day1 hello"); err != nil {
		t.Fatalf("day1 Turn: %v", err)
	}

	day2 := NewSession("P01", 2)
	if _, err := r.Turn(context.Background(), day2, AgentTherapist, "day2 hello"); err != nil {
		t.Fatalf("day2 Turn: %v", err)
	}

	msgs := comp.calls[1]
	if msgs[0].Role != RoleSystem {
		t.Fatalf("msgs[0].Role=%q, want system", msgs[0].Role)
	}
	// system + 2 prior-day messages + today's user turn
	if len(msgs) != 4 {
		t.Fatalf("len(msgs)=%d, want 4", len(msgs))
	}
	if msgs[1].Content != "day1 hello" || msgs[2].Content != "day1 reply" {
		t.Fatalf("prior context=%+v", msgs[1:3])
	}
	if msgs[3].Content != "day2 hello" {
		t.Fatalf("msgs[3]=%+v, want today's user turn last", msgs[3])
	}
}

func TestTurn_PeerFallsBackWithoutPlan(t *testing.T) {
	t.Parallel()

	comp := &scriptedCompleter{replies: []string{`{"text":"どうしたの？","emotion":"neutral","plan":null}`}}
	r := testRunner(t, comp)
	sess := NewSession("P02", 1)

	res, err := r.Turn(context.Background(), sess, AgentPeer, "こんにちは")
	if err != nil {
		t.Fatalf("Turn: %v", err)
	}
	if res.Reply.Plan != nil {
		t.Fatalf("Reply.Plan=%+v, want nil for peer", res.Reply.Plan)
	}
	if !strings.Contains(res.Prompt, r.Program.PeerFallbackScript) {
		t.Fatal("peer prompt should use the generic persona when no plan was ever saved")
	}
}

func TestTurn_PeerDoesNotPersistPlans(t *testing.T) {
	t.Parallel()

	comp := &scriptedCompleter{replies: []string{planReplyJSON(t)}}
	r := testRunner(t, comp)
	sess := NewSession("P03", 1)

	if _, err := r.Turn(context.Background(), sess, AgentPeer, "hi"); err != nil {
		t.Fatalf("Turn: %v", err)
	}
	stored, err := r.Plans.Load("P03")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if stored != nil {
		t.Fatalf("stored=%+v, want nil: only the therapist saves plans", stored)
	}
}

func TestTurn_TransportErrorLeavesNoAssistantRow(t *testing.T) {
	t.Parallel()

	comp := &scriptedCompleter{err: errors.New("upstream 500")}
	r := testRunner(t, comp)
	sess := NewSession("P01", 1)

	if _, err := r.Turn(context.Background(), sess, AgentTherapist, "hello"); err == nil {
		t.Fatal("want transport error surfaced")
	}

	// The user row was logged before the call; no assistant row follows.
	turns, err := r.Log.PriorTherapistTurns("P01", 2, 0)
	if err != nil {
		t.Fatalf("PriorTherapistTurns: %v", err)
	}
	if len(turns) != 1 || turns[0].Role != RoleUser {
		t.Fatalf("logged turns=%+v, want only the user row", turns)
	}
}

func TestTurn_MalformedModelOutputStillLogged(t *testing.T) {
	t.Parallel()

	comp := &scriptedCompleter{replies: []string{"sorry, I cannot produce JSON today"}}
	r := testRunner(t, comp)
	sess := NewSession("P01", 1)

	res, err := r.Turn(context.Background(), sess, AgentTherapist, "hello")
	if err != nil {
		t.Fatalf("Turn: %v", err)
	}
	if res.Reply.Text != "sorry, I cannot produce JSON today" || res.Reply.Emotion != "unknown" {
		t.Fatalf("Reply=%+v, want raw-text fallback", res.Reply)
	}

	turns, err := r.Log.PriorTherapistTurns("P01", 2, 0)
	if err != nil {
		t.Fatalf("PriorTherapistTurns: %v", err)
	}
	if len(turns) != 2 {
		t.Fatalf("logged turns=%d, want user+assistant despite extraction fallback", len(turns))
	}
}

func TestTurn_Validation(t *testing.T) {
	t.Parallel()

	r := testRunner(t, &scriptedCompleter{replies: []string{"{}"}})
	sess := NewSession("P01", 1)

	if _, err := r.Turn(context.Background(), sess, "X", "hi"); err == nil {
		t.Fatal("unknown agent: want error")
	}
	if _, err := r.Turn(context.Background(), sess, AgentTherapist, "   "); err == nil {
		t.Fatal("blank message: want error")
	}
	bad := NewSession("P01", 7)
	if _, err := r.Turn(context.Background(), bad, AgentTherapist, "hi"); err == nil {
		t.Fatal("day outside program: want error")
	}
}
