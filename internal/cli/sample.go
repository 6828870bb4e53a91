package cli

import (
	"assessment-service/internal/domain"
	"assessment-service/internal/wizard"
)

// sampleWizards provides a built-in assessment for demo runs; production
// deployments load definitions from the wizards table instead. Wizards
// without an explicit ID get one derived from their title.
func sampleWizards() map[string]domain.Wizard {
	out := make(map[string]domain.Wizard)
	for _, wz := range sampleDefinitions() {
		wz.ID = wizard.DeriveSlug(wz.ID == "", wz.Title, wz.ID)
		out[wz.ID] = wz
	}
	return out
}

func sampleDefinitions() []domain.Wizard {
	return []domain.Wizard{
		{
			ID:         "ai-readiness",
			Title:      "AI Readiness Assessment",
			Dimensions: []string{"Strategy", "Data", "Technology", "People", "Governance"},
			DashboardPrompt: "Score the AI readiness of [COMPANY_NAME] ([COMPANY_SIZE], [INDUSTRY]). " +
				"Dimensions: Strategy, Data, Technology, People, Governance. " +
				"Current AI usage: [AI_USAGE]. Biggest challenges: [CHALLENGES]. " +
				"Data maturity: [DATA_MATURITY]. Team readiness: [TEAM_READINESS]. Goal: [PRIMARY_GOAL].",
			FeedbackPrompt: "Write a short written assessment for [FIRST_NAME] ([SELECTED_ROLE]) at [COMPANY_NAME]. " +
				"They described their AI usage as [AI_USAGE], their main challenges as [CHALLENGES], " +
				"and their primary goal as [PRIMARY_GOAL].",
			Sections: []domain.Section{
				{
					Key:     "company",
					Ordinal: 0,
					Title:   "About your company",
					Questions: []domain.Question{
						{
							Key:     "company_size",
							Prompt:  "How many people work at your company?",
							Type:    domain.QuestionSingleChoice,
							Options: []string{"1-10", "11-50", "51-200", "201-1000", "1000+"},
						},
						{
							Key:     "industry",
							Prompt:  "What industry are you in?",
							Type:    domain.QuestionSingleChoice,
							Options: []string{"Technology", "Finance", "Healthcare", "Manufacturing", "Retail", "Other"},
						},
						{
							Key:     "role",
							Prompt:  "What best describes your role?",
							Type:    domain.QuestionSingleChoice,
							Options: []string{"Executive", "Manager", "Engineer", "Analyst"},
						},
					},
				},
				{
					Key:     "usage",
					Ordinal: 1,
					Title:   "Current AI usage",
					Questions: []domain.Question{
						{
							Key:     "ai_usage",
							Prompt:  "How is your team using AI today?",
							Type:    domain.QuestionSingleChoice,
							Options: []string{"Not at all", "Experimenting", "A few workflows", "Widely adopted"},
						},
					},
				},
				{
					Key:     "challenges",
					Ordinal: 2,
					Title:   "Challenges",
					Questions: []domain.Question{
						{
							Key:           "challenges",
							Prompt:        "What are your biggest challenges? (pick up to 3)",
							Type:          domain.QuestionMultiChoice,
							Options:       []string{"Data quality", "Skills gap", "Budget", "Security concerns", "Leadership buy-in", "Unclear use cases"},
							MaxSelections: 3,
						},
					},
				},
				{
					Key:     "data",
					Ordinal: 3,
					Title:   "Data maturity",
					Questions: []domain.Question{
						{
							Key:     "data_maturity",
							Prompt:  "How would you describe your data infrastructure?",
							Type:    domain.QuestionSingleChoice,
							Options: []string{"Spreadsheets", "Departmental databases", "Central warehouse", "Modern data platform"},
						},
					},
				},
				{
					Key:          "readiness",
					Ordinal:      4,
					Title:        "Team readiness",
					RoleQuestion: "role",
					Questions: []domain.Question{
						{
							Key:     "team_readiness",
							Prompt:  "How prepared is your team to adopt AI tools?",
							Type:    domain.QuestionSingleChoice,
							Options: []string{"Not prepared", "Somewhat prepared", "Ready", "Already adopting"},
						},
					},
					RoleVariants: map[string][]domain.Question{
						"Executive": {
							{
								Key:     "team_readiness",
								Prompt:  "How aligned is your leadership team on AI investment?",
								Type:    domain.QuestionSingleChoice,
								Options: []string{"No alignment", "Early discussions", "Agreed priorities", "Funded roadmap"},
							},
						},
						"Engineer": {
							{
								Key:     "team_readiness",
								Prompt:  "How far along is your engineering org with AI tooling?",
								Type:    domain.QuestionSingleChoice,
								Options: []string{"Not started", "Evaluating tools", "In production for some services", "Standard practice"},
							},
						},
					},
				},
				{
					Key:     "goals",
					Ordinal: 5,
					Title:   "Goals and contact",
					Questions: []domain.Question{
						{
							Key:     "primary_goal",
							Prompt:  "What is your primary goal for the next 12 months?",
							Type:    domain.QuestionSingleChoice,
							Options: []string{"Reduce costs", "Grow revenue", "Improve decision making", "Automate operations"},
						},
						{
							Key:      "anything_else",
							Prompt:   "Anything else we should know?",
							Type:     domain.QuestionFreeText,
							Optional: true,
						},
					},
				},
			},
		},
	}
}
