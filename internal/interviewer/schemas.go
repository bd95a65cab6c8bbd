package interviewer

import "mockprep/interview/internal/llm"

var stringList = map[string]any{
	"type":  "array",
	"items": map[string]any{"type": "string"},
}

var questionsSchema = &llm.Schema{
	Name: "generated_questions",
	Definition: map[string]any{
		"type":     "object",
		"required": []any{"questions"},
		"properties": map[string]any{
			"questions": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":     "object",
					"required": []any{"text"},
					"properties": map[string]any{
						"text":             map[string]any{"type": "string"},
						"difficulty":       map[string]any{"type": "string"},
						"expectedKeywords": stringList,
						"timeMinutes":      map[string]any{"type": "number", "minimum": 0},
					},
				},
			},
		},
	},
}

var evaluationSchema = &llm.Schema{
	Name: "answer_evaluation",
	Definition: map[string]any{
		"type":     "object",
		"required": []any{"score"},
		"properties": map[string]any{
			"score":           map[string]any{"type": "number"},
			"feedbackText":    map[string]any{"type": "string"},
			"strengths":       stringList,
			"weaknesses":      stringList,
			"improvementTips": stringList,
			"scoreBreakdown": map[string]any{
				"type": []any{"object", "null"},
				"properties": map[string]any{
					"relevance":    map[string]any{"type": "number"},
					"accuracy":     map[string]any{"type": "number"},
					"clarity":      map[string]any{"type": "number"},
					"completeness": map[string]any{"type": "number"},
				},
			},
		},
	},
}
