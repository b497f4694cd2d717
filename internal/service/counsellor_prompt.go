package service

import (
	"encoding/json"
	"strings"
	"text/template"

	"abroad-compass/backend/internal/dto"
	"abroad-compass/backend/internal/model"
	"abroad-compass/backend/internal/recommend"
)

const counsellorSystem = "You are an AI Counsellor for a study-abroad platform. " +
	"You help students choose universities and plan applications using only the data you are given."

var counsellorPrompt = template.Must(template.New("counsellor").Parse(`Rules:
- You must NOT invent universities or data.
- You must ONLY use the data provided below.
- Only reference university ids that appear in the recommendations, shortlist or locked lists.
- You must return VALID JSON only (no markdown).

Allowed actions:
- shortlist (requires university_id, optional category: Dream, Target or Safe)
- lock (requires university_id of a shortlisted university)
- unlock (requires university_id of a locked university)
- remove (requires university_id of a shortlisted, unlocked university)
- create_task (requires title, optional stage)
- update_task (requires task_id and status: pending, in_progress or completed)
- generate_tasks (no fields)

User stage: {{.Stage.CurrentStage}}
Stage name: {{.Stage.StageName}}
Shortlisted: {{.Stage.ShortlistCount}}, locked: {{.Stage.LockedCount}}

User profile:
{{.Profile}}

Available university recommendations (use only these):
{{.Recommendations}}

Shortlisted universities:
{{.Shortlisted}}

Locked universities:
{{.Locked}}
{{- if .Tasks}}

Current tasks:
{{.Tasks}}
{{- end}}

User message:
{{.Message}}

Return JSON in this exact format:
{
  "intent": "recommend_universities|shortlist_university|lock_university|create_tasks|general_help",
  "explanation": "...",
  "recommendations": {"dream": [ids], "target": [ids], "safe": [ids]},
  "actions": [
    {"type": "shortlist", "university_id": 1, "category": "Dream"},
    {"type": "lock", "university_id": 1},
    {"type": "create_task", "title": "Draft SOP", "stage": "STAGE_4_APPLICATION"},
    {"type": "update_task", "task_id": 1, "status": "completed"},
    {"type": "generate_tasks"}
  ]
}`))

// promptSnapshot 构造提示词所需的状态快照
type promptSnapshot struct {
	Message     string
	Stage       *dto.StageInfo
	Profile     *model.Profile
	Buckets     recommend.Buckets
	Shortlisted []dto.ShortlistedUniversity
	Locked      []dto.ShortlistedUniversity
	Tasks       []dto.TaskInfo // 仅在消息涉及任务时提供
}

// promptCard 提示词中的院校精简视图
type promptCard struct {
	ID         int      `json:"id"`
	Name       string   `json:"name"`
	Country    string   `json:"country"`
	AvgCost    int      `json:"avg_cost"`
	Fields     []string `json:"fields"`
	Score      int      `json:"score"`
	CostFit    string   `json:"cost_fit"`
	RiskLevel  string   `json:"risk_level"`
	Acceptance string   `json:"acceptance_likelihood"`
	Category   string   `json:"category,omitempty"`
	Locked     bool     `json:"locked,omitempty"`
}

func buildCounsellorPrompt(snap promptSnapshot) (string, error) {
	profile := map[string]any{
		"education_level": snap.Profile.EducationLevel,
		"major":           snap.Profile.Major,
		"academic_score":  snap.Profile.AcademicScore,
		"target_degree":   snap.Profile.TargetDegree,
		"field":           snap.Profile.Field,
		"countries":       []string(snap.Profile.Countries),
		"budget_range":    snap.Profile.BudgetRange,
		"funding_type":    snap.Profile.FundingType,
		"ielts_status":    snap.Profile.IELTSStatus,
		"gre_status":      snap.Profile.GREStatus,
		"sop_status":      snap.Profile.SOPStatus,
	}
	recs := map[string][]promptCard{
		"dream":  toPromptCards(snap.Buckets.Dream),
		"target": toPromptCards(snap.Buckets.Target),
		"safe":   toPromptCards(snap.Buckets.Safe),
	}

	data := struct {
		Message         string
		Stage           *dto.StageInfo
		Profile         string
		Recommendations string
		Shortlisted     string
		Locked          string
		Tasks           string
	}{
		Message:         snap.Message,
		Stage:           snap.Stage,
		Profile:         compactJSON(profile),
		Recommendations: compactJSON(recs),
		Shortlisted:     compactJSON(shortlistPromptCards(snap.Shortlisted)),
		Locked:          compactJSON(shortlistPromptCards(snap.Locked)),
	}
	if snap.Tasks != nil {
		data.Tasks = compactJSON(snap.Tasks)
	}

	var sb strings.Builder
	if err := counsellorPrompt.Execute(&sb, data); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func toPromptCards(cards []recommend.Card) []promptCard {
	out := make([]promptCard, 0, len(cards))
	for _, c := range cards {
		out = append(out, promptCard{
			ID:         c.ID,
			Name:       c.Name,
			Country:    c.Country,
			AvgCost:    c.AvgCost,
			Fields:     c.Fields,
			Score:      c.Score,
			CostFit:    c.CostFit,
			RiskLevel:  c.RiskLevel,
			Acceptance: c.AcceptanceLikelihood,
		})
	}
	return out
}

func shortlistPromptCards(items []dto.ShortlistedUniversity) []promptCard {
	out := make([]promptCard, 0, len(items))
	for _, it := range items {
		out = append(out, promptCard{
			ID:         it.UniversityID,
			Name:       it.UniversityName,
			Country:    it.Country,
			AvgCost:    it.AvgCost,
			Fields:     it.Fields,
			Score:      it.Score,
			CostFit:    it.CostFit,
			RiskLevel:  it.RiskLevel,
			Acceptance: it.AcceptanceLikelihood,
			Category:   it.Category,
			Locked:     it.Locked,
		})
	}
	return out
}

func compactJSON(v any) string {
	raw, err := json.Marshal(v)
	if err != nil {
		return "null"
	}
	return string(raw)
}

// 消息中出现这些词时才把任务列表放入上下文
var taskKeywords = []string{
	"task", "todo", "to-do", "checklist", "application", "apply",
	"deadline", "sop", "essay", "document", "plan", "next step",
}

func mentionsTasks(message string) bool {
	m := strings.ToLower(message)
	for _, kw := range taskKeywords {
		if strings.Contains(m, kw) {
			return true
		}
	}
	return false
}
