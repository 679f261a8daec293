package exposure

import (
	"path/filepath"
	"testing"
	"time"
)

func testLog(t *testing.T) *ConversationLog {
	t.Helper()
	return NewConversationLog(filepath.Join(t.TempDir(), "chat_logs.csv"))
}

func mustAppend(t *testing.T, l *ConversationLog, pid string, day int, agent Agent, role, text string) {
	t.Helper()
	err := l.Append(LogRecord{
		Timestamp:     time.Date(2026, 3, day, 10, 0, 0, 0, time.UTC),
		ParticipantID: pid,
		Day:           day,
		Agent:         agent,
		Role:          role,
		Text:          text,
	})
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
}

func TestConversationLog_PriorTherapistTurns(t *testing.T) {
	t.Parallel()

	l := testLog(t)
	mustAppend(t, l, "P01", 1, AgentTherapist, RoleUser, "day1 user")
	mustAppend(t, l, "P01", 1, AgentTherapist, RoleAssistant, "day1 reply")
	mustAppend(t, l, "P01", 1, AgentPeer, RoleUser, "peer talk")
	mustAppend(t, l, "P02", 1, AgentTherapist, RoleUser, "other participant")
	mustAppend(t, l, "P01", 2, AgentTherapist, RoleUser, "day2 user")

	got, err := l.PriorTherapistTurns("P01", 2, 0)
	if err != nil {
		t.Fatalf("PriorTherapistTurns: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len=%d, want 2 (therapist-only, P01-only, day<2)", len(got))
	}
	if got[0].Role != RoleUser || got[0].Content != "day1 user" {
		t.Fatalf("got[0]=%+v", got[0])
	}
	if got[1].Role != RoleAssistant || got[1].Content != "day1 reply" {
		t.Fatalf("got[1]=%+v", got[1])
	}
}

func TestConversationLog_PriorTurnsTailCap(t *testing.T) {
	t.Parallel()

	l := testLog(t)
	for i := 0; i < 5; i++ {
		mustAppend(t, l, "P01", 1, AgentTherapist, RoleUser, string(rune('a'+i)))
	}

	got, err := l.PriorTherapistTurns("P01", 2, 2)
	if err != nil {
		t.Fatalf("PriorTherapistTurns: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len=%d, want capped tail of 2", len(got))
	}
	if got[0].Content != "d" || got[1].Content != "e" {
		t.Fatalf("got=%+v, want the most recent tail", got)
	}
}

func TestConversationLog_MissingFileIsEmpty(t *testing.T) {
	t.Parallel()

	l := testLog(t)
	got, err := l.PriorTherapistTurns("P01", 3, 0)
	if err != nil {
		t.Fatalf("PriorTherapistTurns: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("len=%d, want 0 for missing log", len(got))
	}
}

func TestConversationLog_MultilineAndCommaText(t *testing.T) {
	t.Parallel()

	l := testLog(t)
	text := "line one,\nline \"two\""
	mustAppend(t, l, "P01", 1, AgentTherapist, RoleAssistant, text)

	got, err := l.PriorTherapistTurns("P01", 2, 0)
	if err != nil {
		t.Fatalf("PriorTherapistTurns: %v", err)
	}
	if len(got) != 1 || got[0].Content != text {
		t.Fatalf("got=%+v, want text round-tripped through CSV quoting", got)
	}
}

func TestConversationLog_AppendValidation(t *testing.T) {
	t.Parallel()

	l := testLog(t)
	if err := l.Append(LogRecord{ParticipantID: "", Agent: AgentTherapist, Role: RoleUser}); err == nil {
		t.Fatal("empty participant: want error")
	}
	if err := l.Append(LogRecord{ParticipantID: "P01", Agent: "X", Role: RoleUser}); err == nil {
		t.Fatal("unknown agent: want error")
	}
	if err := l.Append(LogRecord{ParticipantID: "P01", Agent: AgentPeer, Role: "tool"}); err == nil {
		t.Fatal("unknown role: want error")
	}
}
