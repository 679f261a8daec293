package exposure

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Program is the data-side description of one study variant: how many days it
// runs, which day authors the plan, and the persona scripts. The observed
// variants (3-day and 6-day, differing prompt wording) are all instances of
// this one structure.
type Program struct {
	// DayCount is the program length in days. Must be a multiple of the
	// three tiers so each tier owns an equal block of days.
	DayCount int `yaml:"day_count"`

	// PlanDay is the day on which the therapist authors the consolidated
	// plan (2 scenarios per tier). Later days review, never re-author.
	PlanDay int `yaml:"plan_day"`

	// MaxPriorMessages caps how many prior-day therapist messages are
	// replayed into the model context. 0 means unbounded.
	MaxPriorMessages int `yaml:"max_prior_messages"`

	TherapistScript    string `yaml:"therapist_script"`
	PeerTemplate       string `yaml:"peer_template"`
	PeerFallbackScript string `yaml:"peer_fallback_script"`
	OutputFormat       string `yaml:"output_format"`
}

// DefaultProgram is the 6-day variant with the embedded persona scripts.
func DefaultProgram() Program {
	return Program{
		DayCount:           6,
		PlanDay:            1,
		MaxPriorMessages:   20,
		TherapistScript:    therapistScript,
		PeerTemplate:       peerTemplate,
		PeerFallbackScript: peerFallbackScript,
		OutputFormat:       outputFormatInstruction,
	}
}

func (p Program) Validate() error {
	if p.DayCount <= 0 || p.DayCount%len(levelOrder) != 0 {
		return fmt.Errorf("Program: day_count must be a positive multiple of %d, got %d", len(levelOrder), p.DayCount)
	}
	if !p.ValidDay(p.PlanDay) {
		return fmt.Errorf("Program: plan_day %d outside 1..%d", p.PlanDay, p.DayCount)
	}
	if p.MaxPriorMessages < 0 {
		return errors.New("Program: max_prior_messages must be >= 0")
	}
	if p.TherapistScript == "" || p.PeerTemplate == "" || p.PeerFallbackScript == "" || p.OutputFormat == "" {
		return errors.New("Program: persona scripts must not be empty")
	}
	return nil
}

// ValidDay reports whether day falls inside the configured program length.
// Callers must validate before using LevelForDay or ScenariosForDay.
func (p Program) ValidDay(day int) bool {
	return day >= 1 && day <= p.DayCount
}

// LoadProgram reads a YAML override file and applies its non-zero fields on
// top of the default program. An empty path returns the defaults unchanged.
func LoadProgram(path string) (Program, error) {
	prog := DefaultProgram()
	if path == "" {
		return prog, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Program{}, fmt.Errorf("LoadProgram: read file: %w", err)
	}
	var o Program
	if err := yaml.Unmarshal(b, &o); err != nil {
		return Program{}, fmt.Errorf("LoadProgram: unmarshal: %w", err)
	}
	if o.DayCount != 0 {
		prog.DayCount = o.DayCount
	}
	if o.PlanDay != 0 {
		prog.PlanDay = o.PlanDay
	}
	if o.MaxPriorMessages != 0 {
		prog.MaxPriorMessages = o.MaxPriorMessages
	}
	if o.TherapistScript != "" {
		prog.TherapistScript = o.TherapistScript
	}
	if o.PeerTemplate != "" {
		prog.PeerTemplate = o.PeerTemplate
	}
	if o.PeerFallbackScript != "" {
		prog.PeerFallbackScript = o.PeerFallbackScript
	}
	if o.OutputFormat != "" {
		prog.OutputFormat = o.OutputFormat
	}
	if err := prog.Validate(); err != nil {
		return Program{}, fmt.Errorf("LoadProgram: %w", err)
	}
	return prog, nil
}
