package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestExtractSourcingChannelsNumberedList 验证编号列表的提取与前缀剥离
func TestExtractSourcingChannelsNumberedList(t *testing.T) {
	text := "1. LinkedIn - great reach\n2. AngelList - startup focus"

	channels := ExtractSourcingChannels(text)

	require.Len(t, channels, 2, "两条编号行应各产出一个渠道")
	assert.Equal(t, "LinkedIn - great reach", channels[0])
	assert.Equal(t, "AngelList - startup focus", channels[1])
}

// TestExtractSourcingChannelsBullets 验证短横线与圆点前缀同样被接受
func TestExtractSourcingChannelsBullets(t *testing.T) {
	text := "Some channels to consider:\n- GitHub Jobs - developer audience\n• Hacker News - technical community\nThis trailing line has no prefix"

	channels := ExtractSourcingChannels(text)

	assert.Equal(t, []string{
		"GitHub Jobs - developer audience",
		"Hacker News - technical community",
	}, channels, "无枚举前缀的行应被跳过，其余按原始顺序保留")
}

// TestExtractSourcingChannelsFallback 验证无任何匹配行时整段原文作为唯一元素返回
func TestExtractSourcingChannelsFallback(t *testing.T) {
	text := "We recommend using professional networks and employee referrals for this role."

	channels := ExtractSourcingChannels(text)

	require.Len(t, channels, 1, "降级路径应返回单元素列表")
	assert.Equal(t, text, channels[0], "降级元素应是未经修改的原始文本")
}

// TestExtractSourcingChannelsPrefixOnlyLine 验证剥掉前缀后为空的行被丢弃
func TestExtractSourcingChannelsPrefixOnlyLine(t *testing.T) {
	text := "1. LinkedIn - great reach\n2.\n3. Wellfound - startup talent"

	channels := ExtractSourcingChannels(text)

	assert.Equal(t, []string{
		"LinkedIn - great reach",
		"Wellfound - startup talent",
	}, channels, "只剩枚举字符的行不应产出空渠道")
}

// TestExtractSourcingChannelsIdempotent 验证提取器是无状态纯函数
func TestExtractSourcingChannelsIdempotent(t *testing.T) {
	text := "1. LinkedIn - great reach\n2. AngelList - startup focus"

	first := ExtractSourcingChannels(text)
	second := ExtractSourcingChannels(text)

	assert.Equal(t, first, second, "重复执行结果应一致")
}
