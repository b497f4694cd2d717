package recommend

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strongProfile() Profile {
	return Profile{
		AcademicScore: "92",
		BudgetRange:   "30000-50000",
		FundingType:   "Self-funded",
		IELTSStatus:   "Completed",
		GREStatus:     "Not started",
		SOPStatus:     "Ready",
		Field:         "Computer Science / IT",
	}
}

func TestScore_SafeScenario(t *testing.T) {
	e := New(10000)
	u := University{ID: 1, Name: "North Tech", Country: "Canada", AvgCost: 28000, Fields: []string{"Computer Science"}}

	card := e.Score(strongProfile(), u)

	assert.Equal(t, 100, card.Score)
	assert.Equal(t, LevelHigh, card.AcceptanceLikelihood)
	assert.Equal(t, CostComfortable, card.CostFit)
	assert.Equal(t, LevelLow, card.RiskLevel)
	assert.Equal(t, CategorySafe, card.Category)
}

func TestScore_OverBudgetIsDreamAndFilteredOut(t *testing.T) {
	e := New(10000)
	u := University{ID: 2, Name: "Coastal Institute", Country: "USA", AvgCost: 62000, Fields: []string{"Computer Science"}}

	card := e.Score(strongProfile(), u)
	assert.Equal(t, 70, card.Score)
	assert.Equal(t, LevelHigh, card.AcceptanceLikelihood)
	assert.Equal(t, CostOverBudget, card.CostFit)
	assert.Equal(t, LevelHigh, card.RiskLevel)
	assert.Equal(t, CategoryDream, card.Category)

	b := e.Recommend(strongProfile(), []University{u})
	assert.Empty(t, b.Dream)
	assert.Empty(t, b.Target)
	assert.Empty(t, b.Safe)
}

func TestRecommend_LoanToleranceWidensFilter(t *testing.T) {
	e := New(10000)
	p := strongProfile()
	p.FundingType = "Loan-dependent"
	u := University{ID: 3, Name: "Lake College", Country: "UK", AvgCost: 58000, Fields: []string{"Software Engineering"}}

	b := e.Recommend(p, []University{u})
	require.Len(t, b.Dream, 1)
	assert.Equal(t, CostStretch, b.Dream[0].CostFit)
	// 40 + 10 + 10 + 0 + 10 + 10
	assert.Equal(t, 80, b.Dream[0].Score)
}

func TestRecommend_UnboundedBudgetNeverExcludes(t *testing.T) {
	e := New(0)
	p := strongProfile()
	p.BudgetRange = "No budget limit"
	catalog := []University{
		{ID: 1, Name: "A", Country: "USA", AvgCost: 90000, Fields: []string{"Computer Science"}},
		{ID: 2, Name: "B", Country: "USA", AvgCost: 150000, Fields: []string{"AI"}},
	}

	b := e.Recommend(p, catalog)
	all := append(append(b.Dream, b.Target...), b.Safe...)
	require.Len(t, all, 2)
	for _, c := range all {
		assert.Equal(t, CostUnknown, c.CostFit)
	}
}

func TestRecommend_OversizedBudgetKeepsCatalog(t *testing.T) {
	e := New(0)
	p := strongProfile()
	p.BudgetRange = "0-99999999999999999999"
	catalog := []University{
		{ID: 1, Name: "A", Country: "USA", AvgCost: 1000, Fields: []string{"Computer Science"}},
	}

	b := e.Recommend(p, catalog)
	all := append(append(b.Dream, b.Target...), b.Safe...)
	require.Len(t, all, 1)
	assert.Equal(t, CostUnknown, all[0].CostFit)
}

func TestRecommend_CountryFilter(t *testing.T) {
	e := New(0)
	p := strongProfile()
	p.Countries = []string{"  united   kingdom ", "CANADA"}
	catalog := []University{
		{ID: 1, Name: "A", Country: "United Kingdom", AvgCost: 20000, Fields: []string{"Computer Science"}},
		{ID: 2, Name: "B", Country: "Canada", AvgCost: 20000, Fields: []string{"Computer Science"}},
		{ID: 3, Name: "C", Country: "Germany", AvgCost: 20000, Fields: []string{"Computer Science"}},
	}

	ids := idsOf(e.Recommend(p, catalog))
	assert.ElementsMatch(t, []int{1, 2}, ids)
}

func TestRecommend_FieldFilterUsesWordBoundaries(t *testing.T) {
	e := New(0)
	p := strongProfile()
	catalog := []University{
		{ID: 1, Name: "Digital Arts School", Country: "USA", AvgCost: 20000, Fields: []string{"Digital Media"}},
		{ID: 2, Name: "IT Academy", Country: "USA", AvgCost: 20000, Fields: []string{"IT"}},
		{ID: 3, Name: "Data U", Country: "USA", AvgCost: 20000, Fields: []string{"Data Science"}},
	}

	ids := idsOf(e.Recommend(p, catalog))
	assert.ElementsMatch(t, []int{2, 3}, ids)
}

func TestRecommend_EmptyFieldMatchesAll(t *testing.T) {
	e := New(0)
	p := strongProfile()
	p.Field = ""
	catalog := []University{
		{ID: 1, Name: "A", Country: "USA", AvgCost: 20000, Fields: []string{"Law"}},
		{ID: 2, Name: "B", Country: "USA", AvgCost: 20000, Fields: nil},
	}

	b := e.Recommend(p, catalog)
	assert.Len(t, idsOf(b), 2)
	for _, c := range b.Safe {
		assert.NotNil(t, c.Fields)
	}
}

func TestRecommend_Ordering(t *testing.T) {
	e := New(0)
	p := strongProfile()
	catalog := []University{
		{ID: 5, Name: "E", Country: "USA", AvgCost: 25000, Fields: []string{"Computer Science"}},
		{ID: 4, Name: "D", Country: "USA", AvgCost: 20000, Fields: []string{"Computer Science"}},
		{ID: 3, Name: "C", Country: "USA", AvgCost: 20000, Fields: []string{"Computer Science"}},
		{ID: 9, Name: "Z", Country: "USA", AvgCost: 45000, Fields: []string{"Computer Science"}},
	}

	b := e.Recommend(p, catalog)
	// 45000 得 20 分预算分（90 分），其余 30 分（100 分）
	got := make([]int, 0, len(b.Safe))
	for _, c := range b.Safe {
		got = append(got, c.ID)
	}
	if diff := cmp.Diff([]int{3, 4, 5, 9}, got); diff != "" {
		t.Errorf("排序不符合预期 (-want +got):\n%s", diff)
	}
}

func TestCardWithCategory_OverridesStoredCategory(t *testing.T) {
	e := New(0)
	u := University{ID: 1, Name: "A", Country: "USA", AvgCost: 28000, Fields: []string{"Computer Science"}}

	fresh := e.Score(strongProfile(), u)
	require.Equal(t, CategorySafe, fresh.Category)

	stored := e.CardWithCategory(strongProfile(), u, CategoryDream)
	assert.Equal(t, CategoryDream, stored.Category)
	assert.Equal(t, fresh.Score, stored.Score)

	invalid := e.CardWithCategory(strongProfile(), u, "Reach")
	assert.Equal(t, CategorySafe, invalid.Category)
}

func TestCategoryLookupAndLimit(t *testing.T) {
	b := Buckets{
		Dream:  []Card{{ID: 1}, {ID: 2}, {ID: 3}},
		Target: []Card{{ID: 4}},
		Safe:   []Card{{ID: 5}},
	}
	lookup := CategoryLookup(b)
	assert.Equal(t, CategoryDream, lookup[2])
	assert.Equal(t, CategoryTarget, lookup[4])
	assert.Equal(t, CategorySafe, lookup[5])
	_, ok := lookup[99]
	assert.False(t, ok)

	limited := b.Limit(2)
	assert.Len(t, limited.Dream, 2)
	assert.Len(t, b.Limit(0).Dream, 3)
}

func TestAcademicPoints(t *testing.T) {
	cases := map[string]int{
		"92":           40,
		"78%":          25,
		"65":           10,
		"3.7":          40,
		"3.2 / 4.0":    25,
		"2.5":          10,
		"8.9 CGPA":     40,
		"7.5":          25,
		"6.1":          10,
		"Excellent":    40,
		"First Class":  40,
		"good":         25,
		"below average": 10,
		"pass":         10,
		"":             25,
		"n/a":          25,
		"450":          25,
	}
	for in, want := range cases {
		assert.Equal(t, want, AcademicPoints(in), in)
	}
}

func TestFieldKeywords(t *testing.T) {
	assert.Equal(t, FieldCategories["Law"], FieldKeywords("Law", ""))
	assert.Nil(t, FieldKeywords("", "Computer Science"))
	assert.Nil(t, FieldKeywords("Other", ""))
	assert.Equal(t, []string{"Marine Biology"}, FieldKeywords("Marine Biology", ""))

	viaMajor := FieldKeywords("Other", "Business / Commerce")
	assert.Equal(t, FieldCategories["Business / MBA"], viaMajor)
}

func idsOf(b Buckets) []int {
	var ids []int
	for _, group := range [][]Card{b.Dream, b.Target, b.Safe} {
		for _, c := range group {
			ids = append(ids, c.ID)
		}
	}
	return ids
}
