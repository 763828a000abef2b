package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/smartgoals/smartgoals-api/internal/models"
)

const systemPrompt = "You are an expert goal coach and project manager. Provide detailed, actionable goal breakdowns in JSON format."

const jsonFormatBlock = `Return the response in this exact JSON format:
{
  "weeklyGoals": [
    {
      "title": "Week title",
      "description": "What will be accomplished this week",
      "weekNumber": 1,
      "tasks": [
        {
          "title": "Specific task title",
          "description": "Detailed task description",
          "day": 1,
          "priority": "medium",
          "estimatedHours": 2
        }
      ]
    }
  ]
}

Make sure the breakdown is realistic, actionable, and directly aligned with achieving the specified goal by the deadline.`

// WeeksUntil returns how many whole weeks remain until the deadline,
// never less than 1. Accepts RFC3339 or plain dates.
func WeeksUntil(deadline string) int {
	t, err := time.Parse(time.RFC3339, deadline)
	if err != nil {
		if t, err = time.Parse("2006-01-02", deadline); err != nil {
			return 1
		}
	}
	weeks := int(math.Ceil(time.Until(t).Hours() / 24 / 7))
	if weeks < 1 {
		return 1
	}
	return weeks
}

func goalDetails(req *models.BreakdownRequest, totalWeeks int) string {
	return fmt.Sprintf(`GOAL DETAILS:
- Specific: %s
- Measurable: %s
- Achievable: %s
- Relevant: %s
- Time-bound: %s
- Exciting: %s
- Deadline: %s
- Total weeks available: %d`,
		req.Specific, req.Measurable, req.Achievable, req.Relevant,
		req.Timebound, req.Exciting, req.Deadline, totalWeeks)
}

func breakdownPrompt(req *models.BreakdownRequest) string {
	totalWeeks := WeeksUntil(req.Deadline)
	var b strings.Builder
	b.WriteString("You are an expert goal coach and project manager. Break down the following SMART(ER) goal into a detailed weekly plan with daily tasks.\n\n")
	b.WriteString(goalDetails(req, totalWeeks))
	fmt.Fprintf(&b, `

Please create a breakdown with the following structure:
1. Divide the goal into logical weekly milestones (use all %d weeks)
2. For each week, provide 3-7 specific daily tasks
3. Each task should be actionable, measurable, and realistic
4. Assign appropriate priority levels (low, medium, high)
5. Estimate time required for each task (1-8 hours)
6. Ensure tasks build upon each other progressively

`, totalWeeks)
	b.WriteString(jsonFormatBlock)
	return b.String()
}

func regeneratePrompt(req *models.BreakdownRequest, feedback string) string {
	totalWeeks := WeeksUntil(req.Deadline)
	guidance := "Please provide a different approach with alternative task sequencing and timing."
	if feedback != "" {
		guidance = "USER FEEDBACK: " + feedback
	}
	var b strings.Builder
	b.WriteString("You are an expert goal coach and project manager. I need you to regenerate a breakdown for this SMART(ER) goal with improvements.\n\n")
	b.WriteString(goalDetails(req, totalWeeks))
	b.WriteString("\n\n")
	b.WriteString(guidance)
	b.WriteString("\n\nCreate an improved breakdown that addresses any feedback and provides a fresh perspective on achieving this goal.\n\n")
	b.WriteString(jsonFormatBlock)
	return b.String()
}

// GenerateBreakdown asks the model for a weekly plan for the given goal.
func (c *Client) GenerateBreakdown(ctx context.Context, req *models.BreakdownRequest) (*models.Breakdown, error) {
	content, err := c.completeJSON(ctx, systemPrompt, breakdownPrompt(req), 0.7)
	if err != nil {
		return nil, err
	}
	return parseBreakdown(content)
}

// RegenerateBreakdown asks for a fresh plan, optionally steered by user
// feedback. Runs slightly hotter than the first pass.
func (c *Client) RegenerateBreakdown(ctx context.Context, req *models.BreakdownRequest, feedback string) (*models.Breakdown, error) {
	content, err := c.completeJSON(ctx, systemPrompt, regeneratePrompt(req, feedback), 0.8)
	if err != nil {
		return nil, err
	}
	return parseBreakdown(content)
}

func parseBreakdown(content string) (*models.Breakdown, error) {
	var breakdown models.Breakdown
	if err := json.Unmarshal([]byte(content), &breakdown); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if breakdown.WeeklyGoals == nil {
		return nil, fmt.Errorf("%w: missing weeklyGoals", ErrInvalidResponse)
	}
	for i := range breakdown.WeeklyGoals {
		wg := &breakdown.WeeklyGoals[i]
		if wg.WeekNumber <= 0 {
			wg.WeekNumber = i + 1
		}
		for j := range wg.Tasks {
			task := &wg.Tasks[j]
			if task.Day < 1 || task.Day > 7 {
				task.Day = 1
			}
			switch task.Priority {
			case models.PriorityLow, models.PriorityMedium, models.PriorityHigh:
			default:
				task.Priority = models.PriorityMedium
			}
			if task.EstimatedHours < 1 {
				task.EstimatedHours = 1
			}
		}
	}
	return &breakdown, nil
}
