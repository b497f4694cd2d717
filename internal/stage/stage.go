// Package stage 用户申请流程的阶段状态机。
//
// 四个阶段严格有序，只允许按计数回退（例如锁定数归零时从 STAGE_4 回到 STAGE_3）。
// 阶段值只能由 Compute 计算得出，客户端与大模型都不能直接写入。
package stage

// Stage 流程阶段
type Stage string

const (
	Profile     Stage = "STAGE_1_PROFILE"
	Discovery   Stage = "STAGE_2_DISCOVERY"
	Locking     Stage = "STAGE_3_LOCKING"
	Application Stage = "STAGE_4_APPLICATION"
)

// Order 阶段顺序
var Order = []Stage{Profile, Discovery, Locking, Application}

var names = map[Stage]string{
	Profile:     "Building Profile",
	Discovery:   "Discovering Universities",
	Locking:     "Finalizing Universities",
	Application: "Preparing Applications",
}

// Counts 计算阶段所需的持久化计数
type Counts struct {
	OnboardingCompleted bool
	ShortlistCount      int64
	LockedCount         int64
}

// Compute 根据计数计算阶段
func Compute(c Counts) Stage {
	switch {
	case !c.OnboardingCompleted:
		return Profile
	case c.ShortlistCount == 0:
		return Discovery
	case c.LockedCount == 0:
		return Locking
	default:
		return Application
	}
}

// Valid 判断阶段字符串是否合法
func Valid(s string) bool {
	_, ok := names[Stage(s)]
	return ok
}

// Name 阶段展示名，非法阶段返回 "Unknown"
func (s Stage) Name() string {
	if n, ok := names[s]; ok {
		return n
	}
	return "Unknown"
}

// Index 阶段序号（从 0 开始），非法阶段返回 -1
func (s Stage) Index() int {
	for i, st := range Order {
		if st == s {
			return i
		}
	}
	return -1
}

// CanAccess 当前阶段是否可以查看 required 阶段的内容
// 只能查看不晚于当前阶段的内容；非法阶段一律不可访问
func CanAccess(current, required Stage) bool {
	ci, ri := current.Index(), required.Index()
	if ci < 0 || ri < 0 {
		return false
	}
	return ri <= ci
}

// Next 下一阶段；已是最后阶段或非法时 ok 为 false
func Next(s Stage) (Stage, bool) {
	i := s.Index()
	if i < 0 || i == len(Order)-1 {
		return "", false
	}
	return Order[i+1], true
}

// Previous 上一阶段；已是第一阶段或非法时 ok 为 false
func Previous(s Stage) (Stage, bool) {
	i := s.Index()
	if i <= 0 {
		return "", false
	}
	return Order[i-1], true
}
