package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"gorm.io/gorm"

	"abroad-compass/backend/internal/model"
	"abroad-compass/backend/internal/repository"
	pkgerrors "abroad-compass/backend/pkg/errors"
)

var errStoreDown = errors.New("connection refused")

// ── Mock UserRepository ──

type mockUserRepo struct {
	users       map[string]*model.User // key: user_id
	stageWrites int
	stageErr    error
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	for _, u := range m.users {
		if u.Email == user.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	if user.UserID == "" {
		user.UserID = "user-" + user.Email
	}
	if user.Version == 0 {
		user.Version = 1
	}
	user.CreatedAt = time.Now()
	cp := *user
	m.users[user.UserID] = &cp
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	stored, ok := m.users[user.UserID]
	if !ok || stored.Version != user.Version {
		return pkgerrors.ErrOptimisticLock
	}
	stored.Name = user.Name
	stored.PasswordHash = user.PasswordHash
	stored.Version++
	user.Version = stored.Version
	return nil
}

func (m *mockUserRepo) UpdateStage(_ context.Context, id, stage string) error {
	if m.stageErr != nil {
		return m.stageErr
	}
	if u, ok := m.users[id]; ok {
		u.CurrentStage = stage
		m.stageWrites++
	}
	return nil
}

func (m *mockUserRepo) SetOnboardingCompleted(_ context.Context, id string, completed bool) error {
	if u, ok := m.users[id]; ok {
		u.OnboardingCompleted = completed
	}
	return nil
}

// ── Mock ProfileRepository ──

type mockProfileRepo struct {
	profiles map[string]*model.Profile
}

func newMockProfileRepo() *mockProfileRepo {
	return &mockProfileRepo{profiles: make(map[string]*model.Profile)}
}

func (m *mockProfileRepo) GetByUserID(_ context.Context, userID string) (*model.Profile, error) {
	if p, ok := m.profiles[userID]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockProfileRepo) Create(_ context.Context, profile *model.Profile) error {
	if _, ok := m.profiles[profile.UserID]; ok {
		return gorm.ErrDuplicatedKey
	}
	cp := *profile
	m.profiles[profile.UserID] = &cp
	return nil
}

func (m *mockProfileRepo) Save(_ context.Context, profile *model.Profile) error {
	cp := *profile
	m.profiles[profile.UserID] = &cp
	return nil
}

// ── Mock UniversityRepository ──

type mockUniversityRepo struct {
	unis    map[int]*model.University
	listErr error
	lists   int
}

func newMockUniversityRepo() *mockUniversityRepo {
	return &mockUniversityRepo{unis: make(map[int]*model.University)}
}

func (m *mockUniversityRepo) List(_ context.Context) ([]model.University, error) {
	m.lists++
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]model.University, 0, len(m.unis))
	for _, u := range m.unis {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockUniversityRepo) GetByID(_ context.Context, id int) (*model.University, error) {
	if u, ok := m.unis[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUniversityRepo) Upsert(_ context.Context, u *model.University) error {
	for _, existing := range m.unis {
		if existing.Name == u.Name {
			u.ID = existing.ID
			cp := *u
			m.unis[u.ID] = &cp
			return nil
		}
	}
	if u.ID == 0 {
		u.ID = len(m.unis) + 1
	}
	cp := *u
	m.unis[u.ID] = &cp
	return nil
}

// ── Mock ShortlistRepository ──

type shortlistKey struct {
	userID       string
	universityID int
}

type mockShortlistRepo struct {
	rows      map[shortlistKey]*model.Shortlist
	seq       []shortlistKey // 插入顺序
	unis      *mockUniversityRepo
	createErr error
	setErr    error
	getErr    error
}

func newMockShortlistRepo(unis *mockUniversityRepo) *mockShortlistRepo {
	return &mockShortlistRepo{rows: make(map[shortlistKey]*model.Shortlist), unis: unis}
}

func (m *mockShortlistRepo) Get(_ context.Context, userID string, universityID int) (*model.Shortlist, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	if s, ok := m.rows[shortlistKey{userID, universityID}]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockShortlistRepo) ListByUser(_ context.Context, userID string, lockedOnly bool) ([]model.Shortlist, error) {
	var out []model.Shortlist
	for _, k := range m.seq {
		s, ok := m.rows[k]
		if !ok || k.userID != userID || (lockedOnly && !s.Locked) {
			continue
		}
		cp := *s
		if u, ok := m.unis.unis[k.universityID]; ok {
			uc := *u
			cp.University = &uc
		}
		out = append(out, cp)
	}
	return out, nil
}

func (m *mockShortlistRepo) Create(_ context.Context, s *model.Shortlist) error {
	if m.createErr != nil {
		return m.createErr
	}
	k := shortlistKey{s.UserID, s.UniversityID}
	if _, ok := m.rows[k]; ok {
		return gorm.ErrDuplicatedKey
	}
	cp := *s
	m.rows[k] = &cp
	m.seq = append(m.seq, k)
	return nil
}

func (m *mockShortlistRepo) SetLocked(_ context.Context, userID string, universityID int, locked bool) error {
	if m.setErr != nil {
		return m.setErr
	}
	if s, ok := m.rows[shortlistKey{userID, universityID}]; ok {
		s.Locked = locked
	}
	return nil
}

func (m *mockShortlistRepo) Delete(_ context.Context, userID string, universityID int) error {
	k := shortlistKey{userID, universityID}
	if _, ok := m.rows[k]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.rows, k)
	for i, sk := range m.seq {
		if sk == k {
			m.seq = append(m.seq[:i], m.seq[i+1:]...)
			break
		}
	}
	return nil
}

func (m *mockShortlistRepo) Counts(_ context.Context, userID string) (int64, int64, error) {
	var total, locked int64
	for k, s := range m.rows {
		if k.userID != userID {
			continue
		}
		total++
		if s.Locked {
			locked++
		}
	}
	return total, locked, nil
}

// ── Mock TaskRepository ──

type mockTaskRepo struct {
	tasks     map[int]*model.Task
	nextID    int
	createErr error
}

func newMockTaskRepo() *mockTaskRepo {
	return &mockTaskRepo{tasks: make(map[int]*model.Task), nextID: 1}
}

func (m *mockTaskRepo) Create(_ context.Context, task *model.Task) error {
	if m.createErr != nil {
		return m.createErr
	}
	task.ID = m.nextID
	m.nextID++
	now := time.Now()
	task.CreatedAt, task.UpdatedAt = now, now
	cp := *task
	m.tasks[task.ID] = &cp
	return nil
}

func (m *mockTaskRepo) GetByID(_ context.Context, userID string, id int) (*model.Task, error) {
	if t, ok := m.tasks[id]; ok && t.UserID == userID {
		cp := *t
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTaskRepo) ListByUser(_ context.Context, userID string) ([]model.Task, error) {
	var out []model.Task
	for _, t := range m.tasks {
		if t.UserID == userID {
			out = append(out, *t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockTaskRepo) ListByUserAndStage(ctx context.Context, userID, stage string) ([]model.Task, error) {
	all, _ := m.ListByUser(ctx, userID)
	var out []model.Task
	for _, t := range all {
		if t.Stage == stage {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *mockTaskRepo) UpdateStatus(_ context.Context, userID string, id int, status string) error {
	t, ok := m.tasks[id]
	if !ok || t.UserID != userID {
		return gorm.ErrRecordNotFound
	}
	t.Status = status
	t.UpdatedAt = time.Now()
	return nil
}

// ── 聚合 ──

type mockRepos struct {
	users     *mockUserRepo
	profiles  *mockProfileRepo
	unis      *mockUniversityRepo
	shortlist *mockShortlistRepo
	tasks     *mockTaskRepo
}

func newMockRepos() (*repository.Repository, *mockRepos) {
	unis := newMockUniversityRepo()
	m := &mockRepos{
		users:     newMockUserRepo(),
		profiles:  newMockProfileRepo(),
		unis:      unis,
		shortlist: newMockShortlistRepo(unis),
		tasks:     newMockTaskRepo(),
	}
	repo := &repository.Repository{
		User:       m.users,
		Profile:    m.profiles,
		University: m.unis,
		Shortlist:  m.shortlist,
		Task:       m.tasks,
	}
	return repo, m
}

// newMockReposFrom 基于已有 mock 重新组装 Repository
func newMockReposFrom(m *mockRepos) (*repository.Repository, *mockRepos) {
	return &repository.Repository{
		User:       m.users,
		Profile:    m.profiles,
		University: m.unis,
		Shortlist:  m.shortlist,
		Task:       m.tasks,
	}, m
}
