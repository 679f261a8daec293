package exposure

// scenariosPerTier is how many scenarios the therapist authors for each tier,
// and how many a single day works through.
const scenariosPerTier = 2

// LevelForDay maps a session day to its exposure tier. Deterministic and
// total over 1..DayCount; out-of-range days are a caller bug (validate with
// ValidDay first). Days split into equal consecutive blocks: in the 6-day
// program days 1-2 are low, 3-4 medium, 5-6 high.
func (p Program) LevelForDay(day int) Level {
	return levelOrder[p.tierIndex(day)]
}

func (p Program) tierIndex(day int) int {
	perTier := p.DayCount / len(levelOrder)
	if perTier < 1 {
		perTier = 1
	}
	idx := (day - 1) / perTier
	if idx < 0 {
		idx = 0
	}
	if idx >= len(levelOrder) {
		idx = len(levelOrder) - 1
	}
	return idx
}

// ScenariosForDay selects up to 2 scenarios from a consolidated plan for the
// given day. Layered policy:
//
//  1. Scenarios whose own level tag matches today's tier, in plan order.
//  2. If the tag matched nothing and the plan holds a full tier-ordered set,
//     positional slicing: 2 scenarios per tier at stride 2.
//  3. Remaining slots fill from the other scenarios in plan order.
//
// Scenarios authored without level tags thereby degrade to a sensible
// positional default instead of being unreachable.
func (p Program) ScenariosForDay(plan *Plan, day int) []Scenario {
	if plan == nil || len(plan.Scenarios) == 0 {
		return nil
	}

	want := p.LevelForDay(day)
	picked := make([]int, 0, scenariosPerTier)
	for i, sc := range plan.Scenarios {
		if sc.Level == want {
			picked = append(picked, i)
			if len(picked) == scenariosPerTier {
				return scenariosAt(plan, picked)
			}
		}
	}

	if len(picked) == 0 && len(plan.Scenarios) >= scenariosPerTier*len(levelOrder) {
		lo := scenariosPerTier * p.tierIndex(day)
		hi := lo + scenariosPerTier
		if hi <= len(plan.Scenarios) {
			return append([]Scenario(nil), plan.Scenarios[lo:hi]...)
		}
	}

	for i := range plan.Scenarios {
		if len(picked) == scenariosPerTier {
			break
		}
		if containsInt(picked, i) {
			continue
		}
		picked = append(picked, i)
	}
	return scenariosAt(plan, picked)
}

func scenariosAt(plan *Plan, idxs []int) []Scenario {
	out := make([]Scenario, 0, len(idxs))
	for _, i := range idxs {
		out = append(out, plan.Scenarios[i])
	}
	return out
}

func containsInt(in []int, v int) bool {
	for _, x := range in {
		if x == v {
			return true
		}
	}
	return false
}
