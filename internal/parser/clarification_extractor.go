package parser

import (
	"strings"
)

const (
	// ClarificationNeededMarker 引擎自报需要澄清时使用的哨兵前缀
	ClarificationNeededMarker = "CLARIFICATION_NEEDED:"
	// ClarificationNotNeededMarker 引擎自报无需澄清时使用的哨兵前缀。
	// 该标记仅作提示用途，缺少 CLARIFICATION_NEEDED: 即视为无需澄清。
	ClarificationNotNeededMarker = "CLARIFICATION_NOT_NEEDED:"
)

// clarificationEnumerators 澄清问题列表行可能使用的枚举前缀
var clarificationEnumerators = []string{"1.", "2.", "3.", "-", "•"}

// enumeratorCutset 枚举前缀中需要剔除的字符集合
const enumeratorCutset = "123.-•"

// ExtractClarification 从引擎的自由文本输出中提取澄清决策。
// 仅当文本中出现 CLARIFICATION_NEEDED: 标记时 needsClarification 为 true，
// 问题从标记之后的文本逐行提取：行以枚举前缀开头或含 "?" 才是候选，
// 剥掉枚举字符后仍含 "?" 才会保留。对任意畸形输入都不会报错，只会降级。
func ExtractClarification(text string) (bool, []string) {
	questions := make([]string, 0)

	idx := strings.Index(text, ClarificationNeededMarker)
	if idx < 0 {
		return false, questions
	}

	rest := text[idx+len(ClarificationNeededMarker):]
	// 引擎偶尔会复读标记，问题只取第一个标记到下一个标记之间的部分
	if next := strings.Index(rest, ClarificationNeededMarker); next >= 0 {
		rest = rest[:next]
	}

	for _, rawLine := range strings.Split(strings.TrimSpace(rest), "\n") {
		line := strings.TrimSpace(rawLine)
		if line == "" {
			continue
		}
		if !hasAnyPrefix(line, clarificationEnumerators) && !strings.Contains(line, "?") {
			continue
		}
		question := strings.TrimSpace(strings.TrimLeft(line, enumeratorCutset))
		if question != "" && strings.Contains(question, "?") {
			questions = append(questions, question)
		}
	}

	return true, questions
}

// hasAnyPrefix 判断行是否以任一枚举前缀开头
func hasAnyPrefix(line string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(line, p) {
			return true
		}
	}
	return false
}
