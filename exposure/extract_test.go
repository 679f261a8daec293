package exposure

import "testing"

func TestExtractReply_ValidJSON(t *testing.T) {
	t.Parallel()

	raw := `{"text":"こんにちは","emotion":"neutral","plan":null}`
	got := ExtractReply(raw)
	if got.Text != "こんにちは" {
		t.Fatalf("Text=%q, want こんにちは", got.Text)
	}
	if got.Emotion != "neutral" {
		t.Fatalf("Emotion=%q, want neutral", got.Emotion)
	}
	if got.Plan != nil {
		t.Fatalf("Plan=%+v, want nil", got.Plan)
	}
}

func TestExtractReply_FencedMatchesUnwrapped(t *testing.T) {
	t.Parallel()

	inner := `{"text":"ok","emotion":"positive","plan":null}`
	fenced := "```json\n" + inner + "\n```"

	a := ExtractReply(inner)
	b := ExtractReply(fenced)
	if a.Text != b.Text || a.Emotion != b.Emotion {
		t.Fatalf("fenced=%+v, unwrapped=%+v", b, a)
	}
}

func TestExtractReply_SurroundingProse(t *testing.T) {
	t.Parallel()

	raw := "Here is the reply:\n{\"text\":\"hi\",\"emotion\":\"neutral\",\"plan\":null}\nThanks!"
	got := ExtractReply(raw)
	if got.Text != "hi" {
		t.Fatalf("Text=%q, want hi", got.Text)
	}
}

func TestExtractReply_MalformedFallsBack(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		raw  string
	}{
		{"prose", "just chatting, no json here"},
		{"truncated", `{"text":"hi","emotion":`},
		{"empty", ""},
		{"lone brace", "{"},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := ExtractReply(tc.raw)
			if got.Text != tc.raw {
				t.Fatalf("Text=%q, want raw input", got.Text)
			}
			if got.Emotion != "unknown" {
				t.Fatalf("Emotion=%q, want unknown", got.Emotion)
			}
			if got.Plan != nil {
				t.Fatalf("Plan=%+v, want nil", got.Plan)
			}
		})
	}
}

func TestExtractReply_TextAbsentDefaultsToRaw(t *testing.T) {
	t.Parallel()

	raw := `{"emotion":"sad","plan":null}`
	got := ExtractReply(raw)
	if got.Text != raw {
		t.Fatalf("Text=%q, want the raw string", got.Text)
	}
	if got.Emotion != "sad" {
		t.Fatalf("Emotion=%q, want sad", got.Emotion)
	}
}

func TestExtractReply_PlanShapes(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		raw      string
		wantPlan bool
	}{
		{"object with scenarios", `{"text":"t","emotion":"neutral","plan":{"level":"low","scenarios":[{"title":"A"}]}}`, true},
		{"plan is string", `{"text":"t","emotion":"neutral","plan":"low"}`, false},
		{"plan is list", `{"text":"t","emotion":"neutral","plan":[{"title":"A"}]}`, false},
		{"empty scenarios", `{"text":"t","emotion":"neutral","plan":{"level":"low","scenarios":[]}}`, false},
		{"plan absent", `{"text":"t","emotion":"neutral"}`, false},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := ExtractReply(tc.raw)
			if (got.Plan != nil) != tc.wantPlan {
				t.Fatalf("Plan=%+v, wantPlan=%v", got.Plan, tc.wantPlan)
			}
			if got.Text != "t" {
				t.Fatalf("Text=%q, want t", got.Text)
			}
		})
	}
}

func TestExtractReply_PlanScenarioFields(t *testing.T) {
	t.Parallel()

	raw := `{"text":"done","emotion":"positive","plan":{"level":"low","scenarios":[
		{"title":"挨拶","interaction_role":"同級生","exposure_scenario":"朝の教室","user_task":"自分から挨拶する","level":"low"}
	]}}`
	got := ExtractReply(raw)
	if got.Plan == nil {
		t.Fatal("Plan=nil, want a plan")
	}
	sc := got.Plan.Scenarios[0]
	if sc.Title != "挨拶" || sc.InteractionRole != "同級生" || sc.UserTask != "自分から挨拶する" {
		t.Fatalf("Scenario=%+v", sc)
	}
	if sc.Level != LevelLow {
		t.Fatalf("Scenario.Level=%q, want low", sc.Level)
	}
}
