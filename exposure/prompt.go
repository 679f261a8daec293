package exposure

import (
	"fmt"
	"strings"
)

// TherapistPrompt composes the system prompt for a therapist turn: a
// day/level header, the tier-specific behavioral block, the persona script,
// and the output-format instruction.
func (p Program) TherapistPrompt(day int) string {
	level := p.LevelForDay(day)

	var b strings.Builder
	fmt.Fprintf(&b, "今日は全%d日間のオンライン暴露トレーニングのうち「%d日目」です。\n", p.DayCount, day)
	fmt.Fprintf(&b, "想定している暴露レベルは「%s」（level = %q）です。\n", labelJA[level], level)
	b.WriteString("実際の日数と違う日数を名乗ってはいけません。\n")
	if day == p.DayCount {
		b.WriteString("今日はトレーニングの最終日です。最終日であることに触れてかまいません。\n")
	} else {
		b.WriteString("今日は最終日ではないので、「最終日」という表現を使ってはいけません。\n")
	}
	b.WriteString("\n")

	if day == p.PlanDay {
		b.WriteString("今日はプラン作成の日です。セッションの中で、低・中・高の各レベルについて\n")
		fmt.Fprintf(&b, "ちょうど%d個ずつ、合計%d個の暴露課題シナリオを作ってください。\n", scenariosPerTier, scenariosPerTier*len(levelOrder))
		b.WriteString("\"plan\" の scenarios にはレベル順（low → medium → high）で並べ、\n")
		b.WriteString("各シナリオに \"level\" フィールドを付けてください。\n")
		b.WriteString("プランがまとまったターンでのみ \"plan\" を埋め、それ以外のターンは null にしてください。\n")
	} else {
		b.WriteString("今日は新しいプランを作る日ではありません。\n")
		fmt.Fprintf(&b, "すでに保存されている「%s」レベルの課題を一緒に確認し、今日の練習につなげてください。\n", labelJA[level])
		b.WriteString("\"plan\" は必ず null にしてください。\n")
	}

	b.WriteString(p.TherapistScript)
	b.WriteString(p.OutputFormat)
	return b.String()
}

// PeerPrompt composes the system prompt for a peer (role-play) turn. The
// first scenario selected for today is substituted into the role-play
// template; with no usable plan the generic friend persona is used instead.
// Either way the peer is told to keep plan null.
func (p Program) PeerPrompt(plan *Plan, day int) string {
	scenarios := p.ScenariosForDay(plan, day)
	if len(scenarios) == 0 {
		return p.PeerFallbackScript + p.OutputFormat
	}

	sc := scenarios[0]
	level := sc.Level
	if level == "" {
		level = p.LevelForDay(day)
	}
	body := strings.NewReplacer(
		"{level_ja}", labelJA[level],
		"{level}", string(level),
		"{title}", sc.Title,
		"{interaction_role}", sc.InteractionRole,
		"{exposure_scenario}", sc.ExposureScenario,
		"{user_task}", sc.UserTask,
	).Replace(p.PeerTemplate)
	return body + p.OutputFormat
}
