package service

import (
	"context"
	"errors"
	"testing"

	"abroad-compass/backend/internal/dto"
	"abroad-compass/backend/internal/model"
	pkgerrors "abroad-compass/backend/pkg/errors"
)

func TestResultError(t *testing.T) {
	tests := []struct {
		name string
		res  *dto.ActionResult
		want pkgerrors.Kind
	}{
		{"executed 无错误", executed("lock", msgLocked), ""},
		{"skipped 视为冲突", skipped("lock", msgAlreadyLocked), pkgerrors.KindStateConflict},
		{"缺少 ID", failed("lock", msgMissingUniversityID), pkgerrors.KindValidation},
		{"院校不存在", failed("shortlist", msgUniversityNotFound), pkgerrors.KindNotFound},
		{"未收藏", failed("lock", msgNotShortlisted), pkgerrors.KindNotFound},
		{"未锁定", failed("unlock", msgNotLocked), pkgerrors.KindStateConflict},
		{"删除已锁定", failed("remove", msgRemoveLocked), pkgerrors.KindStateConflict},
		{"其他失败", failed("create_task", "Invalid task stage"), pkgerrors.KindValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ResultError(tt.res)
			if tt.want == "" {
				if err != nil {
					t.Errorf("期望无错误，实际=%v", err)
				}
				return
			}
			if got := pkgerrors.KindOf(err); got != tt.want {
				t.Errorf("期望 %s，实际=%s", tt.want, got)
			}
			if err.Error() != tt.res.Message {
				t.Errorf("错误信息应为动作提示，实际=%q", err.Error())
			}
		})
	}
}

func TestUniversity_ShortlistRequiresOnboarding(t *testing.T) {
	svc, m, _ := setupTestService()
	createUser(m, testUserID, false)

	_, err := svc.University.Shortlist(context.Background(), testUserID, &dto.ShortlistRequest{UniversityID: 1})
	if !errors.Is(err, ErrOnboardingRequired) {
		t.Errorf("期望 ErrOnboardingRequired，实际=%v", err)
	}
	if len(m.shortlist.rows) != 0 {
		t.Error("未完成引导时不应写入收藏")
	}
}

func TestUniversity_ShortlistFlow(t *testing.T) {
	svc, m, _ := setupTestService()
	createUser(m, testUserID, true)
	ctx := context.Background()

	res, err := svc.University.Shortlist(ctx, testUserID, &dto.ShortlistRequest{UniversityID: 2, Category: model.CategoryDream})
	if err != nil || res.Status != dto.ActionExecuted {
		t.Fatalf("收藏应成功: res=%+v err=%v", res, err)
	}

	// 重复收藏 → 冲突
	_, err = svc.University.Shortlist(ctx, testUserID, &dto.ShortlistRequest{UniversityID: 2})
	if pkgerrors.KindOf(err) != pkgerrors.KindStateConflict {
		t.Errorf("重复收藏应为冲突，实际=%v", err)
	}

	// 不存在的院校 → 404
	_, err = svc.University.Shortlist(ctx, testUserID, &dto.ShortlistRequest{UniversityID: 77})
	if pkgerrors.KindOf(err) != pkgerrors.KindNotFound {
		t.Errorf("不存在的院校应为 not_found，实际=%v", err)
	}

	// 收藏列表保留收藏时的分类，即使推荐分组不同
	list, err := svc.University.Shortlisted(ctx, testUserID)
	if err != nil {
		t.Fatalf("Shortlisted 失败: %v", err)
	}
	if len(list) != 1 || list[0].Category != model.CategoryDream {
		t.Fatalf("期望保留 Dream 分类，实际=%+v", list)
	}
	if list[0].Score == 0 || list[0].CostFit == "" {
		t.Errorf("有档案时应返回评分信息，实际=%+v", list[0])
	}

	if _, err := svc.University.Lock(ctx, testUserID, 2); err != nil {
		t.Fatalf("锁定应成功: %v", err)
	}
	locked, _ := svc.University.Locked(ctx, testUserID)
	if len(locked) != 1 || !locked[0].Locked {
		t.Errorf("锁定列表不符合预期: %+v", locked)
	}

	_, err = svc.University.Remove(ctx, testUserID, 2)
	if pkgerrors.KindOf(err) != pkgerrors.KindStateConflict {
		t.Errorf("删除已锁定院校应为冲突，实际=%v", err)
	}

	res, err = svc.University.Unlock(ctx, testUserID, 2)
	if err != nil || res.Warning == "" {
		t.Errorf("解锁最后一个院校应成功并带提示: res=%+v err=%v", res, err)
	}
	if _, err := svc.University.Remove(ctx, testUserID, 2); err != nil {
		t.Errorf("解锁后应可删除: %v", err)
	}

	_, err = svc.University.Lock(ctx, testUserID, 2)
	if pkgerrors.KindOf(err) != pkgerrors.KindNotFound {
		t.Errorf("锁定未收藏院校应为 not_found，实际=%v", err)
	}
}

func TestUniversity_Recommendations(t *testing.T) {
	svc, m, _ := setupTestService()
	createUser(m, testUserID, true)
	createUser(m, "user-2", false)

	b, err := svc.University.Recommendations(context.Background(), testUserID)
	if err != nil {
		t.Fatalf("Recommendations 失败: %v", err)
	}
	ids := map[int]bool{}
	for _, group := range [][]int{cardIDs(b.Dream), cardIDs(b.Target), cardIDs(b.Safe)} {
		for _, id := range group {
			ids[id] = true
		}
	}
	if !ids[1] || !ids[2] {
		t.Errorf("加拿大院校应出现在推荐中，实际=%v", ids)
	}
	if ids[3] {
		t.Error("不在目标国家的院校不应推荐")
	}

	if _, err := svc.University.Recommendations(context.Background(), "user-2"); !errors.Is(err, ErrProfileRequired) {
		t.Errorf("无档案时期望 ErrProfileRequired，实际=%v", err)
	}
}

func TestUniversity_ShortlistedWithoutProfile(t *testing.T) {
	svc, m, _ := setupTestService()
	createUser(m, testUserID, true)
	execute(t, svc, shortlistAction(1), nil)
	delete(m.profiles.profiles, testUserID)

	list, err := svc.University.Shortlisted(context.Background(), testUserID)
	if err != nil {
		t.Fatalf("Shortlisted 失败: %v", err)
	}
	if len(list) != 1 || list[0].Score != 0 || list[0].Category != model.CategorySafe {
		t.Errorf("无档案时只返回基础信息，实际=%+v", list)
	}
}
