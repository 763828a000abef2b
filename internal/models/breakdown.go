package models

// BreakdownRequest carries the SMART(ER) fields sent to the AI coach.
type BreakdownRequest struct {
	Specific   string `json:"specific" validate:"required"`
	Measurable string `json:"measurable" validate:"required"`
	Achievable string `json:"achievable" validate:"required"`
	Relevant   string `json:"relevant" validate:"required"`
	Timebound  string `json:"timebound" validate:"required"`
	Exciting   string `json:"exciting" validate:"required"`
	Deadline   string `json:"deadline" validate:"required"`
}

type BreakdownTask struct {
	Title          string `json:"title"`
	Description    string `json:"description"`
	Day            int    `json:"day"`
	Priority       string `json:"priority"`
	EstimatedHours int    `json:"estimatedHours"`
}

type BreakdownWeek struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	WeekNumber  int             `json:"weekNumber"`
	StartDate   string          `json:"startDate,omitempty"`
	EndDate     string          `json:"endDate,omitempty"`
	Tasks       []BreakdownTask `json:"tasks"`
}

type Breakdown struct {
	WeeklyGoals []BreakdownWeek `json:"weeklyGoals"`
}

type RegenerateRequest struct {
	GoalData *BreakdownRequest `json:"goalData" validate:"required"`
	Feedback string            `json:"feedback"`
}

type CompleteGoalRequest struct {
	GoalData  *CreateGoalRequest `json:"goalData" validate:"required"`
	Breakdown *Breakdown         `json:"breakdown" validate:"required"`
}
