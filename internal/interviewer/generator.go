package interviewer

import (
	"context"
	"math"
	"strings"

	"mockprep/interview/internal/interview"
	"mockprep/interview/internal/llm"
	"mockprep/interview/internal/models"
	"mockprep/interview/internal/prompts"

	"go.uber.org/zap"
)

const questionsTemplate = "questions"

type questionPromptData struct {
	RoleName          string
	Company           string
	DomainTags        []string
	SkillExpectations []string
	Candidate         *candidatePromptData
	Resume            *resumePromptData
	QuestionCount     int
	Difficulty        string
	TimeMinutes       int
}

type candidatePromptData struct {
	Degree          string
	College         string
	ExperienceLevel string
	ExperienceYears int
	Domains         []string
}

type resumePromptData struct {
	Skills          []string
	Projects        []string
	ExperienceYears int
}

type generatedQuestions struct {
	Questions []struct {
		Text             string   `json:"text"`
		Difficulty       string   `json:"difficulty"`
		ExpectedKeywords []string `json:"expectedKeywords"`
		TimeMinutes      float64  `json:"timeMinutes"`
	} `json:"questions"`
}

// Generator asks the provider for the questions of one round.
type Generator struct {
	client
	timeMinutes int
}

func NewGenerator(provider llm.Provider, pm *prompts.PromptManager, logger *zap.Logger) *Generator {
	return &Generator{
		client:      newClient(provider, pm, logger),
		timeMinutes: models.DefaultTimeMinutes,
	}
}

// GenerateQuestions implements interview.QuestionProvider. Question ids and
// positions are left for the controller to assign.
func (g *Generator) GenerateQuestions(ctx context.Context, roundType string, qc interview.QuestionContext) ([]models.InterviewQuestion, error) {
	variant := roundType
	if !g.prompts.HasVariant(questionsTemplate, variant) {
		variant = models.RoundTechnical
	}

	var out generatedQuestions
	if err := g.generate(ctx, questionsTemplate, variant, g.promptData(qc), questionsSchema, &out); err != nil {
		return nil, err
	}

	questions := make([]models.InterviewQuestion, 0, len(out.Questions))
	for _, q := range out.Questions {
		text := strings.TrimSpace(q.Text)
		if text == "" {
			continue
		}
		keywords := q.ExpectedKeywords
		if keywords == nil {
			keywords = []string{}
		}
		questions = append(questions, models.InterviewQuestion{
			Text:             text,
			Difficulty:       strings.TrimSpace(q.Difficulty),
			ExpectedKeywords: keywords,
			TimeMinutes:      int(math.Round(q.TimeMinutes)),
		})
	}

	if len(questions) == 0 {
		return nil, &llm.ProviderError{
			Provider: g.provider.GetProviderName(),
			Code:     llm.ErrCodeInvalidResponse,
			Message:  "Response contained no questions",
		}
	}
	return questions, nil
}

func (g *Generator) promptData(qc interview.QuestionContext) questionPromptData {
	data := questionPromptData{
		QuestionCount: qc.QuestionCount,
		Difficulty:    qc.Difficulty,
		TimeMinutes:   g.timeMinutes,
	}
	if role := qc.RoleProfile; role != nil {
		data.RoleName = role.RoleName
		data.Company = role.Company
		data.DomainTags = role.DomainTags
		data.SkillExpectations = role.SkillExpectations
	}
	if c := qc.Candidate; c != nil {
		data.Candidate = &candidatePromptData{
			Degree:          c.Education.Degree,
			College:         c.Education.College,
			ExperienceLevel: c.ExperienceLevel,
			ExperienceYears: c.ExperienceYears,
			Domains:         c.Domains,
		}
	}
	if r := qc.Resume; r != nil {
		data.Resume = &resumePromptData{
			Skills:          r.Skills,
			Projects:        r.Projects,
			ExperienceYears: r.ExperienceYears,
		}
	}
	return data
}
