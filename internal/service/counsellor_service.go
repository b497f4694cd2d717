package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"abroad-compass/backend/config"
	"abroad-compass/backend/internal/action"
	"abroad-compass/backend/internal/dto"
	"abroad-compass/backend/internal/oracle"
	"abroad-compass/backend/internal/recommend"
	"abroad-compass/backend/internal/repository"
	pkgerrors "abroad-compass/backend/pkg/errors"
	"abroad-compass/backend/pkg/telemetry"
)

const (
	maxChatMessageLen = 2000
	rawExcerptLen     = 200
	defaultIntent     = "general_help"
)

var ErrChatMessageInvalid = pkgerrors.Validation("Message must be between 1 and %d characters", maxChatMessageLen)

// CounsellorService 对话编排：状态快照 → 提示词 → 大模型 → 解析 → 顺序执行动作 → 重新读取快照
//
// 动作按数组顺序逐个提交，后续失败不会回滚之前已执行的动作；
// 存储层错误会中止剩余动作并使整个请求失败。
type CounsellorService interface {
	Chat(ctx context.Context, userID, message string) (*dto.ChatResponse, error)
}

type counsellorService struct {
	repo        *repository.Repository
	stage       StageService
	recs        RecommendationService
	unis        UniversityService
	tasks       TaskService
	actions     ActionService
	oracle      oracle.Oracle
	timeout     time.Duration
	temperature float32
	bucketLimit int
	logger      *zap.Logger
}

// NewCounsellorService 创建 CounsellorService 实例
func NewCounsellorService(
	cfg *config.Config,
	repo *repository.Repository,
	stage StageService,
	recs RecommendationService,
	unis UniversityService,
	tasks TaskService,
	actions ActionService,
	orc oracle.Oracle,
	logger *zap.Logger,
) CounsellorService {
	return &counsellorService{
		repo:        repo,
		stage:       stage,
		recs:        recs,
		unis:        unis,
		tasks:       tasks,
		actions:     actions,
		oracle:      orc,
		timeout:     cfg.Oracle.Timeout,
		temperature: cfg.Oracle.Temperature,
		bucketLimit: cfg.Recommend.PromptBucketLimit,
		logger:      logger,
	}
}

// oracleReply 大模型返回结构
type oracleReply struct {
	Intent          string          `json:"intent"`
	Explanation     string          `json:"explanation"`
	Recommendations replyBuckets    `json:"recommendations"`
	Actions         json.RawMessage `json:"actions"`
}

type replyBuckets struct {
	Dream  idList `json:"dream"`
	Target idList `json:"target"`
	Safe   idList `json:"safe"`
}

func (s *counsellorService) Chat(ctx context.Context, userID, message string) (*dto.ChatResponse, error) {
	// 1. 校验消息
	message = strings.TrimSpace(message)
	if message == "" || utf8.RuneCountInString(message) > maxChatMessageLen {
		return nil, ErrChatMessageInvalid
	}

	// 2. 需要档案
	profile, err := loadProfile(ctx, s.repo, userID)
	if err != nil {
		return nil, err
	}

	// 3. 状态快照
	info, err := s.stage.Recompute(ctx, userID)
	if err != nil {
		return nil, err
	}
	buckets, err := s.recs.Recommend(ctx, userID)
	if err != nil {
		return nil, err
	}
	shortlisted, err := s.unis.Shortlisted(ctx, userID)
	if err != nil {
		return nil, err
	}
	locked, err := s.unis.Locked(ctx, userID)
	if err != nil {
		return nil, err
	}
	wantTasks := mentionsTasks(message)
	var tasks []dto.TaskInfo
	if wantTasks {
		if tasks, err = s.tasks.List(ctx, userID); err != nil {
			return nil, err
		}
	}

	// 4. 提示词
	prompt, err := buildCounsellorPrompt(promptSnapshot{
		Message:     message,
		Stage:       info,
		Profile:     profile,
		Buckets:     buckets.Limit(s.bucketLimit),
		Shortlisted: shortlisted,
		Locked:      locked,
		Tasks:       tasks,
	})
	if err != nil {
		return nil, fmt.Errorf("构造提示词失败: %w", err)
	}

	// 5. 调用大模型
	raw, err := s.generate(ctx, userID, prompt)
	if err != nil {
		return nil, err
	}

	// 6. 解析
	reply, actions, err := parseOracleReply(raw)
	if err != nil {
		s.logger.Warn("大模型返回格式错误", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	// 7. 顺序执行动作
	lookup := recommend.CategoryLookup(*buckets)
	results := make([]dto.ActionResult, 0, len(actions))
	taskTouched := false
	for i, a := range actions {
		res, err := s.actions.Execute(ctx, userID, a, lookup)
		if err != nil {
			s.logger.Error("动作执行中止",
				zap.String("user_id", userID),
				zap.Int("index", i),
				zap.Int("executed", len(results)),
				zap.Error(err),
			)
			return nil, err
		}
		results = append(results, *res)
		switch a.(type) {
		case action.CreateTask, action.UpdateTask, action.GenerateTasks:
			taskTouched = true
		}
	}

	// 8. 重新读取快照
	resp := &dto.ChatResponse{
		Intent:          reply.Intent,
		Reply:           reply.Explanation,
		Recommendations: filterRecommended(reply.Recommendations, *buckets),
		Actions:         results,
	}
	if resp.Intent == "" {
		resp.Intent = defaultIntent
	}
	if info, err = s.stage.Recompute(ctx, userID); err != nil {
		return nil, err
	}
	resp.Stage = info.Summary()
	if resp.ShortlistedUniversities, err = s.unis.Shortlisted(ctx, userID); err != nil {
		return nil, err
	}
	if resp.LockedUniversities, err = s.unis.Locked(ctx, userID); err != nil {
		return nil, err
	}
	if wantTasks || taskTouched {
		if resp.Tasks, err = s.tasks.List(ctx, userID); err != nil {
			return nil, err
		}
	}

	s.logger.Info("对话完成",
		zap.String("user_id", userID),
		zap.String("intent", resp.Intent),
		zap.Int("actions", len(results)),
	)
	return resp, nil
}

func (s *counsellorService) generate(ctx context.Context, userID, prompt string) (string, error) {
	ctx, span := telemetry.Tracer().Start(ctx, "counsellor.oracle")
	defer span.End()
	span.SetAttributes(
		attribute.String("oracle.backend", s.oracle.Name()),
		attribute.Int("oracle.prompt_bytes", len(prompt)),
	)

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	out, err := s.oracle.Generate(ctx, oracle.Request{
		System:      counsellorSystem,
		Prompt:      prompt,
		Temperature: s.temperature,
		JSON:        true,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "oracle call failed")
		s.logger.Error("调用大模型失败",
			zap.String("user_id", userID),
			zap.String("backend", s.oracle.Name()),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		)
		return "", pkgerrors.Upstream("Oracle request failed", err)
	}
	span.SetAttributes(attribute.Int("oracle.response_bytes", len(out)))
	s.logger.Debug("大模型返回", zap.Duration("elapsed", time.Since(start)), zap.Int("bytes", len(out)))
	return out, nil
}

// parseOracleReply 解析大模型返回，容忍 ```json 代码块包裹
func parseOracleReply(raw string) (*oracleReply, []action.Action, error) {
	body := stripCodeFence(raw)
	if !strings.HasPrefix(body, "{") {
		return nil, nil, malformedReply(raw, errors.New("reply is not a JSON object"))
	}
	var reply oracleReply
	if err := json.Unmarshal([]byte(body), &reply); err != nil {
		return nil, nil, malformedReply(raw, err)
	}
	actions, err := action.ParseList(reply.Actions)
	if err != nil {
		return nil, nil, malformedReply(raw, err)
	}
	return &reply, actions, nil
}

func malformedReply(raw string, err error) error {
	return pkgerrors.Upstream("Oracle returned an invalid response",
		fmt.Errorf("%w (raw: %q)", err, excerpt(raw, rawExcerptLen)))
}

func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		// 去掉语言标记，如 json
		s = s[nl+1:]
	}
	if end := strings.LastIndex(s, "```"); end >= 0 {
		s = s[:end]
	}
	return strings.TrimSpace(s)
}

func excerpt(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

// filterRecommended 只保留在对应推荐分组中真实存在的 ID，去重并保持顺序
func filterRecommended(r replyBuckets, b recommend.Buckets) dto.RecommendedIDs {
	return dto.RecommendedIDs{
		Dream:  keepKnown(r.Dream, b.Dream),
		Target: keepKnown(r.Target, b.Target),
		Safe:   keepKnown(r.Safe, b.Safe),
	}
}

func keepKnown(ids []int, cards []recommend.Card) []int {
	known := make(map[int]struct{}, len(cards))
	for _, c := range cards {
		known[c.ID] = struct{}{}
	}
	out := make([]int, 0, len(ids))
	seen := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := known[id]; !ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// idList 接受数字或数字字符串，其他元素忽略
type idList []int

func (l *idList) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		*l = nil
		return nil
	}
	var items []any
	if err := json.Unmarshal(b, &items); err != nil {
		return err
	}
	out := make([]int, 0, len(items))
	for _, it := range items {
		switch v := it.(type) {
		case float64:
			if v == float64(int(v)) {
				out = append(out, int(v))
			}
		case string:
			if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
				out = append(out, n)
			}
		}
	}
	*l = out
	return nil
}
