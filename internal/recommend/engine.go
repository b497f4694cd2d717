// Package recommend 院校推荐引擎：按国家、专业、预算过滤目录，
// 对剩余院校加权打分，并划分为 Dream / Target / Safe 三组。
package recommend

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// 分类
const (
	CategoryDream  = "Dream"
	CategoryTarget = "Target"
	CategorySafe   = "Safe"
)

// 预算匹配度
const (
	CostComfortable = "Comfortable"
	CostManageable  = "Manageable"
	CostStretch     = "Stretch"
	CostOverBudget  = "Over budget"
	CostUnknown     = "Unknown"
)

// 录取可能性 / 风险等级
const (
	LevelHigh   = "High"
	LevelMedium = "Medium"
	LevelLow    = "Low"
)

// 分项得分
const (
	academicHigh    = 40
	academicDefault = 25
	academicLow     = 10

	budgetUnderMin   = 30
	budgetWithinMax  = 20
	budgetTolerance  = 10
	examCompleted    = 10
	examInProgress   = 5
	sopReady         = 10
	sopDraft         = 5
	fieldMatchBonus  = 10
	highAcceptance   = 70
	mediumAcceptance = 50
)

// Profile 推荐所需的档案字段
type Profile struct {
	AcademicScore string
	Major         string
	Field         string
	Countries     []string
	BudgetRange   string
	FundingType   string
	IELTSStatus   string
	GREStatus     string
	SOPStatus     string
}

// University 目录中的院校
type University struct {
	ID         int
	Name       string
	Country    string
	AvgCost    int
	Difficulty string
	Fields     []string
}

// Card 针对某一档案打分后的院校视图
type Card struct {
	ID                   int      `json:"id"`
	Name                 string   `json:"name"`
	Country              string   `json:"country"`
	AvgCost              int      `json:"avg_cost"`
	Fields               []string `json:"fields"`
	Difficulty           string   `json:"difficulty"`
	Score                int      `json:"score"`
	CostFit              string   `json:"cost_fit"`
	RiskLevel            string   `json:"risk_level"`
	AcceptanceLikelihood string   `json:"acceptance_likelihood"`
	Category             string   `json:"category"`
}

// Buckets 分组结果
type Buckets struct {
	Dream  []Card `json:"dream"`
	Target []Card `json:"target"`
	Safe   []Card `json:"safe"`
}

// Engine 推荐引擎
type Engine struct {
	// LoanTolerance 贷款资助时预算上限额外放宽的金额
	LoanTolerance int
}

// New 创建推荐引擎
func New(loanTolerance int) *Engine {
	return &Engine{LoanTolerance: loanTolerance}
}

// Recommend 过滤、打分并分组，各组按分数降序、费用升序、ID 升序排列
func (e *Engine) Recommend(p Profile, catalog []University) Buckets {
	budget := ParseBudget(p.BudgetRange)
	tol := e.tolerance(p.FundingType)
	keywords := FieldKeywords(p.Field, p.Major)
	countries := countrySet(p.Countries)

	out := Buckets{Dream: []Card{}, Target: []Card{}, Safe: []Card{}}
	for _, u := range catalog {
		if !matchCountry(countries, u.Country) {
			continue
		}
		if len(keywords) > 0 && !FieldMatch(u.Fields, keywords) {
			continue
		}
		if budget.Max != nil && u.AvgCost > *budget.Max+tol {
			continue
		}

		card := e.score(p, u, budget, tol, keywords)
		switch card.Category {
		case CategoryDream:
			out.Dream = append(out.Dream, card)
		case CategorySafe:
			out.Safe = append(out.Safe, card)
		default:
			out.Target = append(out.Target, card)
		}
	}

	sortCards(out.Dream)
	sortCards(out.Target)
	sortCards(out.Safe)
	return out
}

// Score 单个院校打分，不做过滤，分类由得分重新计算
func (e *Engine) Score(p Profile, u University) Card {
	return e.score(p, u, ParseBudget(p.BudgetRange), e.tolerance(p.FundingType), FieldKeywords(p.Field, p.Major))
}

// CardWithCategory 打分但保留调用方已存储的分类（渲染收藏列表时使用）
// category 非法时回退为重新计算的分类
func (e *Engine) CardWithCategory(p Profile, u University, category string) Card {
	card := e.Score(p, u)
	if validCategory(category) {
		card.Category = category
	}
	return card
}

func (e *Engine) score(p Profile, u University, budget Budget, tol int, keywords []string) Card {
	total := AcademicPoints(p.AcademicScore) +
		budgetPoints(u.AvgCost, budget, tol) +
		examPoints(p.IELTSStatus) +
		examPoints(p.GREStatus) +
		sopPoints(p.SOPStatus)
	if FieldMatch(u.Fields, keywords) {
		total += fieldMatchBonus
	}

	fit := CostFit(u.AvgCost, budget, tol)
	acceptance := acceptanceLikelihood(total)

	fields := u.Fields
	if fields == nil {
		fields = []string{}
	}
	return Card{
		ID:                   u.ID,
		Name:                 u.Name,
		Country:              u.Country,
		AvgCost:              u.AvgCost,
		Fields:               fields,
		Difficulty:           u.Difficulty,
		Score:                total,
		CostFit:              fit,
		RiskLevel:            riskLevel(fit, acceptance),
		AcceptanceLikelihood: acceptance,
		Category:             category(fit, acceptance),
	}
}

func (e *Engine) tolerance(fundingType string) int {
	if strings.Contains(strings.ToLower(fundingType), "loan") {
		return e.LoanTolerance
	}
	return 0
}

// CategoryLookup 院校 ID → 所在分组
func CategoryLookup(b Buckets) map[int]string {
	lookup := make(map[int]string, len(b.Dream)+len(b.Target)+len(b.Safe))
	for _, c := range b.Dream {
		lookup[c.ID] = CategoryDream
	}
	for _, c := range b.Target {
		lookup[c.ID] = CategoryTarget
	}
	for _, c := range b.Safe {
		lookup[c.ID] = CategorySafe
	}
	return lookup
}

// Limit 每组最多保留 n 个（n <= 0 不截断）
func (b Buckets) Limit(n int) Buckets {
	if n <= 0 {
		return b
	}
	trim := func(cs []Card) []Card {
		if len(cs) > n {
			return cs[:n]
		}
		return cs
	}
	return Buckets{Dream: trim(b.Dream), Target: trim(b.Target), Safe: trim(b.Safe)}
}

// ── 过滤 ──

func countrySet(countries []string) map[string]struct{} {
	set := make(map[string]struct{}, len(countries))
	for _, c := range countries {
		if n := normalizeCountry(c); n != "" {
			set[n] = struct{}{}
		}
	}
	return set
}

func matchCountry(set map[string]struct{}, country string) bool {
	if len(set) == 0 {
		return true
	}
	_, ok := set[normalizeCountry(country)]
	return ok
}

// FieldKeywords 展开目标专业的关键词集合
// 依次尝试：专业表 → 本科专业推导 → 原文（"Other" 除外）；目标专业为空时返回 nil
func FieldKeywords(field, major string) []string {
	field = strings.TrimSpace(field)
	if field == "" {
		return nil
	}
	if kws := FieldCategories[field]; len(kws) > 0 {
		return kws
	}

	seen := make(map[string]struct{})
	var out []string
	for _, f := range MajorToFields[strings.TrimSpace(major)] {
		for _, kw := range FieldCategories[f] {
			if _, dup := seen[kw]; dup {
				continue
			}
			seen[kw] = struct{}{}
			out = append(out, kw)
		}
	}
	if len(out) > 0 {
		return out
	}

	if strings.EqualFold(field, "other") {
		return nil
	}
	return []string{field}
}

// FieldMatch 院校开设专业与关键词是否有交集（按完整词匹配）
func FieldMatch(fields, keywords []string) bool {
	for _, f := range fields {
		for _, kw := range keywords {
			if wordMatch(f, kw) {
				return true
			}
		}
	}
	return false
}

// ── 打分 ──

var scoreNumberRe = regexp.MustCompile(`\d+(?:\.\d+)?`)

// AcademicPoints 学术成绩得分
// 数值按量纲解读：≤4 为 GPA，≤10 为 CGPA，其余为百分制；无法解析时取中间档
func AcademicPoints(score string) int {
	norm := normalize(score)
	if norm == "" {
		return academicDefault
	}

	for _, w := range academicHighWords {
		if containsWords(norm, w) {
			return academicHigh
		}
	}
	for _, w := range academicLowWords {
		if containsWords(norm, w) {
			return academicLow
		}
	}
	for _, w := range academicMidWords {
		if containsWords(norm, w) {
			return academicDefault
		}
	}

	m := scoreNumberRe.FindString(score)
	if m == "" {
		return academicDefault
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return academicDefault
	}

	switch {
	case v <= 4.0:
		return band(v, 3.5, 3.0)
	case v <= 10:
		return band(v, 8.5, 7.0)
	case v <= 100:
		return band(v, 85, 70)
	default:
		return academicDefault
	}
}

func band(v, high, mid float64) int {
	switch {
	case v >= high:
		return academicHigh
	case v >= mid:
		return academicDefault
	default:
		return academicLow
	}
}

func budgetPoints(cost int, b Budget, tol int) int {
	if b.Max == nil {
		return budgetWithinMax
	}
	switch {
	case b.Min != nil && cost <= *b.Min:
		return budgetUnderMin
	case cost <= *b.Max:
		return budgetWithinMax
	case cost <= *b.Max+tol:
		return budgetTolerance
	default:
		return 0
	}
}

func examPoints(status string) int {
	switch normalize(status) {
	case "completed", "done":
		return examCompleted
	case "scheduled", "in progress":
		return examInProgress
	default:
		return 0
	}
}

func sopPoints(status string) int {
	switch normalize(status) {
	case "ready", "completed", "done":
		return sopReady
	case "draft", "in progress":
		return sopDraft
	default:
		return 0
	}
}

// ── 标签 ──

// CostFit 费用与预算的匹配度
func CostFit(cost int, b Budget, tol int) string {
	if b.Max == nil {
		return CostUnknown
	}
	switch {
	case b.Min != nil && cost <= *b.Min:
		return CostComfortable
	case cost <= *b.Max:
		return CostManageable
	case cost <= *b.Max+tol:
		return CostStretch
	default:
		return CostOverBudget
	}
}

func acceptanceLikelihood(score int) string {
	switch {
	case score >= highAcceptance:
		return LevelHigh
	case score >= mediumAcceptance:
		return LevelMedium
	default:
		return LevelLow
	}
}

func affordable(fit string) bool {
	return fit == CostComfortable || fit == CostManageable
}

func riskLevel(fit, acceptance string) string {
	switch {
	case fit == CostOverBudget || acceptance == LevelLow:
		return LevelHigh
	case acceptance == LevelHigh && affordable(fit):
		return LevelLow
	default:
		return LevelMedium
	}
}

func category(fit, acceptance string) string {
	switch {
	case acceptance == LevelLow || fit == CostStretch || fit == CostOverBudget:
		return CategoryDream
	case acceptance == LevelHigh && affordable(fit):
		return CategorySafe
	default:
		return CategoryTarget
	}
}

func validCategory(c string) bool {
	return c == CategoryDream || c == CategoryTarget || c == CategorySafe
}

func sortCards(cards []Card) {
	sort.SliceStable(cards, func(i, j int) bool {
		if cards[i].Score != cards[j].Score {
			return cards[i].Score > cards[j].Score
		}
		if cards[i].AvgCost != cards[j].AvgCost {
			return cards[i].AvgCost < cards[j].AvgCost
		}
		return cards[i].ID < cards[j].ID
	})
}
