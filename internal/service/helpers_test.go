package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"abroad-compass/backend/config"
	"abroad-compass/backend/internal/action"
	"abroad-compass/backend/internal/model"
	"abroad-compass/backend/internal/oracle"
	"abroad-compass/backend/internal/recommend"
	"abroad-compass/backend/internal/stage"
	"abroad-compass/backend/internal/tasktemplate"
	"abroad-compass/backend/pkg/jwt"
)

const testUserID = "user-1"

// ── Fake Oracle ──

type fakeOracle struct {
	reply   string
	err     error
	calls   int
	lastReq oracle.Request
}

func (f *fakeOracle) Generate(_ context.Context, req oracle.Request) (string, error) {
	f.calls++
	f.lastReq = req
	return f.reply, f.err
}

func (f *fakeOracle) Name() string { return "fake" }

// ── 测试辅助 ──

func testConfig() *config.Config {
	return &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:      "test-secret-key-for-unit-testing-2026",
			AccessTokenTTL: 15 * time.Minute,
		},
		Redis:     config.RedisConfig{CatalogTTL: time.Minute},
		Oracle:    config.OracleConfig{Timeout: 5 * time.Second, Temperature: 0.2},
		Recommend: config.RecommendConfig{LoanTolerance: 10000, PromptBucketLimit: 8},
		Feature:   config.FeatureConfig{GenerateTasksDedup: true},
	}
}

// setupTestService 使用内存 mock 仓储组装完整的 Service 聚合
func setupTestService() (*Service, *mockRepos, *fakeOracle) {
	return setupTestServiceWithConfig(testConfig())
}

func setupTestServiceWithConfig(cfg *config.Config) (*Service, *mockRepos, *fakeOracle) {
	repo, mocks := newMockRepos()
	orc := &fakeOracle{}
	svc := NewService(cfg, repo, jwt.NewManager(&cfg.Auth), nil, orc, tasktemplate.MustLoad(), zap.NewNop())
	seedCatalog(mocks)
	return svc, mocks, orc
}

// seedCatalog 目录：1、2 在加拿大且匹配计算机方向，3 在德国
func seedCatalog(m *mockRepos) {
	m.unis.unis[1] = &model.University{ID: 1, Name: "Maple Tech", Country: "Canada", AvgCost: 25000,
		Difficulty: model.DifficultyMedium, Fields: model.StringSet{"Computer Science"}}
	m.unis.unis[2] = &model.University{ID: 2, Name: "Northern University", Country: "Canada", AvgCost: 45000,
		Difficulty: model.DifficultyHigh, Fields: model.StringSet{"Software Engineering"}}
	m.unis.unis[3] = &model.University{ID: 3, Name: "Rhine Institute", Country: "Germany", AvgCost: 15000,
		Difficulty: model.DifficultyLow, Fields: model.StringSet{"Computer Science"}}
}

// createUser 创建用户；onboarded 为 true 时同时写入档案并设置为发现阶段
func createUser(m *mockRepos, id string, onboarded bool) *model.User {
	u := &model.User{
		UserID:              id,
		Name:                "Test Student",
		Email:               id + "@example.com",
		CurrentStage:        string(stage.Profile),
		OnboardingCompleted: onboarded,
		Version:             1,
	}
	if onboarded {
		u.CurrentStage = string(stage.Discovery)
		m.profiles.profiles[id] = testProfile(id)
	}
	m.users.users[id] = u
	return u
}

func testProfile(userID string) *model.Profile {
	return &model.Profile{
		UserID:         userID,
		EducationLevel: "Bachelor's",
		Major:          "Computer Science",
		AcademicScore:  "3.8",
		TargetDegree:   "Master's",
		Field:          "Computer Science / IT",
		Countries:      model.StringSet{"Canada"},
		BudgetRange:    "30000-50000",
		FundingType:    "Self-funded",
		IELTSStatus:    "Completed",
		GREStatus:      "Completed",
		SOPStatus:      "Ready",
	}
}

func userStage(m *mockRepos, id string) string {
	return m.users.users[id].CurrentStage
}

func shortlistAction(id int) action.Shortlist {
	return action.Shortlist{UniversityID: id, Category: model.CategorySafe}
}

func cardIDs(cards []recommend.Card) []int {
	out := make([]int, 0, len(cards))
	for _, c := range cards {
		out = append(out, c.ID)
	}
	return out
}
