package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestExtractClarificationNeeded 验证带标记的输出能提取出问题列表
func TestExtractClarificationNeeded(t *testing.T) {
	text := "CLARIFICATION_NEEDED:\n1. What is the team size?\n2. How many years of experience are required?"

	needs, questions := ExtractClarification(text)

	require.True(t, needs, "出现 CLARIFICATION_NEEDED: 标记时应判定为需要澄清")
	assert.Equal(t, []string{
		"What is the team size?",
		"How many years of experience are required?",
	}, questions, "问题应按原始顺序提取并剥掉枚举前缀")
}

// TestExtractClarificationDropsNonQuestions 验证不含 "?" 的候选行会被丢弃
func TestExtractClarificationDropsNonQuestions(t *testing.T) {
	// 第二行剥掉枚举前缀后没有问号，应被丢弃
	text := "CLARIFICATION_NEEDED:\n1. What is the team size?\n2. Not a question"

	needs, questions := ExtractClarification(text)

	require.True(t, needs)
	assert.Equal(t, []string{"What is the team size?"}, questions, "剥掉枚举前缀后不含 ? 的行应被丢弃")
}

// TestExtractClarificationNotNeeded 验证缺少标记时的负向结果
func TestExtractClarificationNotNeeded(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"显式否定标记", "CLARIFICATION_NOT_NEEDED: The description is complete, proceed to drafting."},
		{"无任何标记", "The role description looks reasonable. Let's move on."},
		{"空输入", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			needs, questions := ExtractClarification(tt.text)
			assert.False(t, needs, "没有 CLARIFICATION_NEEDED: 标记时应判定为无需澄清")
			assert.Empty(t, questions, "无需澄清时问题列表应为空")
		})
	}
}

// TestExtractClarificationBulletAndQuestionLines 验证各种枚举前缀与裸问题行
func TestExtractClarificationBulletAndQuestionLines(t *testing.T) {
	text := "CLARIFICATION_NEEDED:\n- What technologies are required?\n• Who does this role report to?\nIs there a budget range?\nJust a statement line"

	needs, questions := ExtractClarification(text)

	require.True(t, needs)
	assert.Equal(t, []string{
		"What technologies are required?",
		"Who does this role report to?",
		"Is there a budget range?",
	}, questions, "短横线、圆点与含 ? 的裸行都应被接受，纯陈述行应被丢弃")
}

// TestExtractClarificationMarkerWithNoQuestions 验证标记后没有有效问题的降级行为
func TestExtractClarificationMarkerWithNoQuestions(t *testing.T) {
	needs, questions := ExtractClarification("CLARIFICATION_NEEDED:\nEverything below is prose without any markers")

	assert.True(t, needs, "标记存在时即便提不出问题也应判定为需要澄清")
	assert.Empty(t, questions, "提取不到问题时返回空列表而不是报错")
}

// TestExtractClarificationIdempotent 验证提取器是无状态纯函数
func TestExtractClarificationIdempotent(t *testing.T) {
	text := "CLARIFICATION_NEEDED:\n1. What is the salary range?\n2. What is the team structure?"

	needs1, questions1 := ExtractClarification(text)
	needs2, questions2 := ExtractClarification(text)

	assert.Equal(t, needs1, needs2, "重复执行结果应一致")
	assert.Equal(t, questions1, questions2, "重复执行结果应一致")
}
