package recommend

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Budget 预算区间，nil 表示该端无约束
type Budget struct {
	Min *int
	Max *int
}

// Unbounded 是否无预算上限
func (b Budget) Unbounded() bool { return b.Max == nil }

var budgetNumberRe = regexp.MustCompile(`(\d+(?:\.\d+)?)(k?)`)

// ParseBudget 解析文本预算区间
//
//	"30000-50000"     → (30000, 50000)
//	"70000+"          → (70000, nil)
//	"40000"           → (nil, 40000)
//	"No budget limit" → (nil, nil)
//
// 千分位、货币符号与 k 后缀均可识别；无法解析时视为无约束。
// 超出 int32 范围的数值视为该端无约束。
func ParseBudget(text string) Budget {
	s := strings.ToLower(strings.TrimSpace(text))
	if s == "" {
		return Budget{}
	}
	s = strings.NewReplacer(",", "", "_", "", " ", "", "\t", "").Replace(s)

	matches := budgetNumberRe.FindAllStringSubmatch(s, -1)
	nums := make([]*int, 0, 2)
	for _, m := range matches {
		f, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		if m[2] == "k" {
			f *= 1000
		}
		if f > math.MaxInt32 {
			nums = append(nums, nil)
			continue
		}
		nums = append(nums, intPtr(int(f)))
	}

	switch {
	case len(nums) == 0:
		return Budget{}
	case len(nums) == 1 && strings.Contains(s, "+"):
		return Budget{Min: nums[0]}
	case len(nums) == 1:
		return Budget{Max: nums[0]}
	default:
		lo, hi := nums[0], nums[1]
		switch {
		case lo == nil && hi == nil:
			return Budget{}
		case lo == nil || hi == nil:
			// 一端越界：有限端作为下限，上限无约束
			if lo == nil {
				lo = hi
			}
			return Budget{Min: lo}
		case *lo > *hi:
			lo, hi = hi, lo
		}
		return Budget{Min: lo, Max: hi}
	}
}

func intPtr(v int) *int { return &v }
