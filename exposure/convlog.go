package exposure

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// logHeader is the exact column set of the conversation log. Readers match
// columns by this order; never reorder.
var logHeader = []string{"timestamp", "participant_id", "day", "agent", "role", "text", "emotion"}

// LogRecord is one appended conversation message. Records are written once
// and never mutated or deleted.
type LogRecord struct {
	Timestamp     time.Time
	ParticipantID string
	Day           int
	Agent         Agent
	Role          string
	Text          string
	Emotion       string
}

// ConversationLog is the append-only CSV transcript shared by the whole
// deployment (one file, not one per participant). On-disk encoding is UTF-8;
// legacy-encoding exports are a separate adapter (ExportShiftJIS).
type ConversationLog struct {
	path string
}

func NewConversationLog(path string) *ConversationLog {
	return &ConversationLog{path: path}
}

// Path returns the log file location, for download/export surfaces.
func (l *ConversationLog) Path() string {
	return l.path
}

// Append writes one record. The row is flushed before returning, so either
// the caller gets an error or readers will see the complete row.
func (l *ConversationLog) Append(rec LogRecord) error {
	if rec.ParticipantID == "" {
		return errors.New("ConversationLog.Append: participant id is empty")
	}
	if !rec.Agent.Valid() {
		return fmt.Errorf("ConversationLog.Append: unknown agent %q", rec.Agent)
	}
	if rec.Role != RoleUser && rec.Role != RoleAssistant {
		return fmt.Errorf("ConversationLog.Append: unknown role %q", rec.Role)
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now()
	}

	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return fmt.Errorf("ConversationLog.Append: mkdir log dir: %w", err)
	}

	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("ConversationLog.Append: open: %w", err)
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return fmt.Errorf("ConversationLog.Append: stat: %w", err)
	}

	w := csv.NewWriter(f)
	if fi.Size() == 0 {
		if err := w.Write(logHeader); err != nil {
			return fmt.Errorf("ConversationLog.Append: write header: %w", err)
		}
	}
	row := []string{
		rec.Timestamp.Format(time.RFC3339),
		rec.ParticipantID,
		strconv.Itoa(rec.Day),
		string(rec.Agent),
		rec.Role,
		rec.Text,
		rec.Emotion,
	}
	if err := w.Write(row); err != nil {
		return fmt.Errorf("ConversationLog.Append: write row: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("ConversationLog.Append: flush: %w", err)
	}
	return nil
}

// PriorTherapistTurns returns the participant's therapist-side exchanges from
// days strictly before beforeDay, in chronological order, as role/content
// pairs ready for the model context. maxMessages > 0 keeps only the most
// recent tail; 0 is unbounded. A missing log file yields an empty history.
func (l *ConversationLog) PriorTherapistTurns(participantID string, beforeDay, maxMessages int) ([]Message, error) {
	f, err := os.Open(l.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("ConversationLog.PriorTherapistTurns: open: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(logHeader)

	var out []Message
	first := true
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// Malformed rows (older writers, foreign columns) are skipped,
			// not fatal: missing prior data is never an error.
			continue
		}
		if first {
			first = false
			if row[0] == logHeader[0] {
				continue
			}
		}
		if row[1] != participantID || Agent(row[3]) != AgentTherapist {
			continue
		}
		day, err := strconv.Atoi(row[2])
		if err != nil || day >= beforeDay {
			continue
		}
		role := row[4]
		if role != RoleUser && role != RoleAssistant {
			continue
		}
		out = append(out, Message{Role: role, Content: row[5]})
	}

	if maxMessages > 0 && len(out) > maxMessages {
		out = out[len(out)-maxMessages:]
	}
	return out, nil
}
