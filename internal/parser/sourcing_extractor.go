package parser

import (
	"strings"
)

// sourcingEnumerators 渠道列表行可能使用的枚举前缀
var sourcingEnumerators = []string{"1.", "2.", "3.", "4.", "5.", "-", "•"}

// sourcingCutset 渠道行行首需要剔除的枚举字符集合
const sourcingCutset = "12345.-•"

// ExtractSourcingChannels 从引擎输出中提取招聘渠道列表。
// 每个渠道保持为一条完整字符串（渠道名 + 推荐理由），顺序即引擎输出顺序。
// 没有任何一行匹配枚举前缀时，整段原始文本作为唯一元素返回，保证结果非空。
func ExtractSourcingChannels(text string) []string {
	channels := make([]string, 0)

	for _, rawLine := range strings.Split(text, "\n") {
		line := strings.TrimSpace(rawLine)
		if line == "" || !hasAnyPrefix(line, sourcingEnumerators) {
			continue
		}
		channel := strings.TrimSpace(strings.TrimLeft(line, sourcingCutset))
		if channel != "" {
			channels = append(channels, channel)
		}
	}

	if len(channels) == 0 {
		// 降级路径：引擎没有按要求输出编号列表，原文整体返回
		return []string{text}
	}
	return channels
}
