package resume

import "strings"

// Skills 将逗号分隔的技能文本拆分为列表：去除首尾空白、丢弃空项，
// 并按大小写不敏感去重（保留第一次出现的写法）。
func Skills(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	seen := make(map[string]bool, len(parts))
	for _, p := range parts {
		s := strings.TrimSpace(p)
		if s == "" {
			continue
		}
		key := strings.ToLower(s)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, s)
	}
	return out
}

// JoinSkills 是 Skills 的逆操作，用于编辑端回写。
func JoinSkills(skills []string) string {
	return strings.Join(skills, ", ")
}
