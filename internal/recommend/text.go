package recommend

import (
	"strings"
	"unicode"
)

// normalize 小写化，标点转为空格并折叠连续空白
func normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	space := true
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			space = false
			continue
		}
		if !space {
			b.WriteByte(' ')
			space = true
		}
	}
	return strings.TrimSpace(b.String())
}

// containsWords a 中是否以完整词序列出现 b（两者均已 normalize）
func containsWords(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(" "+a+" ", " "+b+" ")
}

// wordMatch 任意一方以完整词序列包含另一方
func wordMatch(a, b string) bool {
	na, nb := normalize(a), normalize(b)
	return containsWords(na, nb) || containsWords(nb, na)
}

// normalizeCountry 国家名：大小写不敏感，空白折叠
func normalizeCountry(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
