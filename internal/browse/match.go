package browse

// MatchPattern 按 Redis 的 glob 语义匹配键名
// 支持 *、?、[abc]、[a-c]、[^a] 和 \ 转义，与服务端 SCAN MATCH 行为一致，
// 虚拟键叠加层用它判断客户端键是否落在当前扫描模式内
func MatchPattern(pattern, s string) bool {
	return matchGlob([]byte(pattern), []byte(s))
}

func matchGlob(pattern, s []byte) bool {
	for len(pattern) > 0 {
		switch pattern[0] {
		case '*':
			// 折叠连续的 *
			for len(pattern) > 1 && pattern[1] == '*' {
				pattern = pattern[1:]
			}
			if len(pattern) == 1 {
				return true
			}
			for i := 0; i <= len(s); i++ {
				if matchGlob(pattern[1:], s[i:]) {
					return true
				}
			}
			return false
		case '?':
			if len(s) == 0 {
				return false
			}
			s = s[1:]
		case '[':
			if len(s) == 0 {
				return false
			}
			pattern = pattern[1:]
			negate := len(pattern) > 0 && pattern[0] == '^'
			if negate {
				pattern = pattern[1:]
			}
			matched := false
			for len(pattern) > 0 && pattern[0] != ']' {
				switch {
				case pattern[0] == '\\' && len(pattern) >= 2:
					if pattern[1] == s[0] {
						matched = true
					}
					pattern = pattern[1:]
				case len(pattern) >= 3 && pattern[1] == '-':
					lo, hi := pattern[0], pattern[2]
					if lo > hi {
						lo, hi = hi, lo
					}
					if s[0] >= lo && s[0] <= hi {
						matched = true
					}
					pattern = pattern[2:]
				default:
					if pattern[0] == s[0] {
						matched = true
					}
				}
				pattern = pattern[1:]
			}
			if negate {
				matched = !matched
			}
			if !matched {
				return false
			}
			s = s[1:]
			if len(pattern) == 0 {
				// 模式缺少结尾的 ]
				return len(s) == 0
			}
			// pattern[0] 此时是 ]，交给统一的步进跳过
		case '\\':
			if len(pattern) >= 2 {
				pattern = pattern[1:]
			}
			fallthrough
		default:
			if len(s) == 0 || pattern[0] != s[0] {
				return false
			}
			s = s[1:]
		}
		pattern = pattern[1:]
	}
	return len(s) == 0
}
