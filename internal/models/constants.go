package models

// interview modes
const (
	ModeResume = "resume"
	ModeRole   = "role"
	ModeMixed  = "mixed"
)

// session lifecycle states
const (
	StatusPending   = "pending"
	StatusActive    = "active"
	StatusCompleted = "completed"
)

// round types
const (
	RoundTechnical = "technical"
	RoundHR        = "hr"
	RoundManager   = "manager"
	RoundCTO       = "cto"
	RoundCase      = "case"
)

// experience levels, ordered from least to most senior
const (
	DifficultySummerIntern   = "2-month-summer-intern"
	DifficultySixMonthIntern = "6-month-intern"
	DifficultyFresher        = "full-time-fresher"
	DifficultyOneYear        = "experience-1-year"
	DifficultyTwoYears       = "experience-2-years"
	DifficultyThreeYears     = "experience-3-years"
	DifficultyFourYears      = "experience-4-years"
	DifficultyFivePlusYears  = "experience-5-plus-years"
)

const (
	DefaultDifficulty  = DifficultyFresher
	DefaultTimeMinutes = 5
	MaxQuestionCount   = 20
	FallbackQuestions  = 3
)

// contains all valid interview modes
var ValidModes = map[string]bool{
	ModeResume: true,
	ModeRole:   true,
	ModeMixed:  true,
}

// contains all valid round types
var ValidRoundTypes = map[string]bool{
	RoundTechnical: true,
	RoundHR:        true,
	RoundManager:   true,
	RoundCTO:       true,
	RoundCase:      true,
}

// contains all valid candidate experience levels
var ValidExperienceLevels = map[string]bool{
	"fresher":     true,
	"experienced": true,
}

func ValidModesList() []string {
	return []string{ModeResume, ModeRole, ModeMixed}
}

// RoundTypesList returns the round types in canonical interview order.
func RoundTypesList() []string {
	return []string{RoundTechnical, RoundHR, RoundManager, RoundCTO, RoundCase}
}

// DifficultiesList returns the experience levels in seniority order.
func DifficultiesList() []string {
	return []string{
		DifficultySummerIntern,
		DifficultySixMonthIntern,
		DifficultyFresher,
		DifficultyOneYear,
		DifficultyTwoYears,
		DifficultyThreeYears,
		DifficultyFourYears,
		DifficultyFivePlusYears,
	}
}
