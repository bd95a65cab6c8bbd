package interview

import (
	"mockprep/interview/internal/models"
)

// plannedRound is a round that will be generated for a new session.
type plannedRound struct {
	RoundType     string
	QuestionCount int
	Difficulty    string
}

// planRounds resolves which rounds a session gets, how many questions each
// has and at which difficulty. It returns the session-wide difficulty too.
func planRounds(role *models.RoleProfile, params CreateParams, structures StructureSource) (string, []plannedRound) {
	roleStructures := models.RoundStructures{}
	if role != nil && role.Structures != nil {
		roleStructures = role.Structures
	}

	requested := params.Difficulty
	if requested == "" {
		requested = roleStructures[models.RoundTechnical].Difficulty
	}
	if requested == "" {
		requested = models.DefaultDifficulty
	}
	sessionDifficulty := NormalizeDifficulty(requested, models.DefaultDifficulty)
	defaults := structures.DefaultStructure(sessionDifficulty)

	var planned []plannedRound
	for _, roundType := range selectRoundTypes(params.EnabledRounds, defaults) {
		count := resolveQuestionCount(roundType, params.QuestionCounts, roleStructures, defaults)
		if count <= 0 {
			continue
		}
		planned = append(planned, plannedRound{
			RoundType:     roundType,
			QuestionCount: count,
			Difficulty:    resolveRoundDifficulty(roundType, params.Difficulty, roleStructures, sessionDifficulty),
		})
	}
	return sessionDifficulty, planned
}

// selectRoundTypes keeps the caller's explicit selection in its given order,
// dropping unknown and repeated types. Without a selection every round with a
// non-zero default size is used, in canonical order.
func selectRoundTypes(enabled []string, defaults models.RoundStructures) []string {
	var out []string
	if len(enabled) > 0 {
		seen := make(map[string]bool, len(enabled))
		for _, roundType := range enabled {
			if !models.ValidRoundTypes[roundType] || seen[roundType] {
				continue
			}
			seen[roundType] = true
			out = append(out, roundType)
		}
		return out
	}

	for _, roundType := range models.RoundTypesList() {
		if defaults[roundType].QuestionCount > 0 {
			out = append(out, roundType)
		}
	}
	return out
}

// resolveQuestionCount applies the priority override > role profile >
// difficulty default > fallback constant.
func resolveQuestionCount(roundType string, overrides map[string]int, role, defaults models.RoundStructures) int {
	if n, ok := overrides[roundType]; ok && n > 0 {
		return clampCount(n)
	}
	if n := role[roundType].QuestionCount; n > 0 {
		return clampCount(n)
	}
	if n := defaults[roundType].QuestionCount; n > 0 {
		return clampCount(n)
	}
	return models.FallbackQuestions
}

func resolveRoundDifficulty(roundType, requested string, role models.RoundStructures, sessionDifficulty string) string {
	if roundType == models.RoundTechnical {
		value := requested
		if value == "" {
			value = role[models.RoundTechnical].Difficulty
		}
		if value == "" {
			value = sessionDifficulty
		}
		return NormalizeDifficulty(value, sessionDifficulty)
	}
	if value := role[roundType].Difficulty; value != "" {
		return NormalizeDifficulty(value, sessionDifficulty)
	}
	return sessionDifficulty
}

func clampCount(n int) int {
	if n < 1 {
		return 1
	}
	if n > models.MaxQuestionCount {
		return models.MaxQuestionCount
	}
	return n
}
