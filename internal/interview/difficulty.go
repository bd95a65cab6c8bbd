package interview

import (
	"regexp"
	"strconv"
	"strings"

	"mockprep/interview/internal/models"
	"mockprep/interview/internal/utils"
)

var validDifficulties = func() map[string]bool {
	m := make(map[string]bool)
	for _, d := range models.DifficultiesList() {
		m[d] = true
	}
	return m
}()

// loose labels seen in role profiles and client requests
var difficultyAliases = map[string]string{
	"intern":           models.DifficultySummerIntern,
	"summer-intern":    models.DifficultySummerIntern,
	"2-month-intern":   models.DifficultySummerIntern,
	"6-month":          models.DifficultySixMonthIntern,
	"internship":       models.DifficultySixMonthIntern,
	"six-month-intern": models.DifficultySixMonthIntern,
	"fresher":          models.DifficultyFresher,
	"entry":            models.DifficultyFresher,
	"entry-level":      models.DifficultyFresher,
	"junior":           models.DifficultyFresher,
	"easy":             models.DifficultyFresher,
	"beginner":         models.DifficultyFresher,
	"mid":              models.DifficultyTwoYears,
	"medium":           models.DifficultyTwoYears,
	"intermediate":     models.DifficultyTwoYears,
	"senior":           models.DifficultyFivePlusYears,
	"hard":             models.DifficultyFivePlusYears,
	"advanced":         models.DifficultyFivePlusYears,
}

var yearsPattern = regexp.MustCompile(`^(?:experience-)?(\d+)(?:-plus)?-years?$`)

// NormalizeDifficulty maps a free-form difficulty label onto the closed set of
// experience levels. Unknown labels resolve to fallback, or to the default
// level when fallback is not itself valid.
func NormalizeDifficulty(value, fallback string) string {
	key := utils.NormalizeKey(value)
	key = strings.NewReplacer(" ", "-", "_", "-").Replace(key)

	if validDifficulties[key] {
		return key
	}
	if alias, ok := difficultyAliases[key]; ok {
		return alias
	}
	if m := yearsPattern.FindStringSubmatch(key); m != nil {
		years, _ := strconv.Atoi(m[1])
		switch {
		case years <= 0:
			return models.DifficultyFresher
		case years == 1:
			return models.DifficultyOneYear
		case years == 2:
			return models.DifficultyTwoYears
		case years == 3:
			return models.DifficultyThreeYears
		case years == 4:
			return models.DifficultyFourYears
		default:
			return models.DifficultyFivePlusYears
		}
	}

	if fallback != "" && validDifficulties[fallback] {
		return fallback
	}
	return models.DefaultDifficulty
}
