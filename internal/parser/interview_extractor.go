package parser

import (
	"strings"

	"hr-agent-go/internal/types"
)

const (
	// StageNameMarker 面试环节分段标记，引擎被要求每个环节以此开头
	StageNameMarker = "STAGE NAME:"
	// StagePurposePrefix 环节目的行前缀
	StagePurposePrefix = "PURPOSE:"
	// StageQuestionsPrefix 示例问题块的起始行前缀
	StageQuestionsPrefix = "KEY SAMPLE QUESTIONS:"
)

// ExtractInterviewStages 从引擎输出中提取面试环节列表。
// 文本按 STAGE NAME: 分段，第一段（标记之前的内容）丢弃；每段第一行为环节名，
// 之后逐行扫描：PURPOSE: 行设置目的并退出问题模式，KEY SAMPLE QUESTIONS: 行
// 进入问题模式，问题模式下以 "-" 开头的行剥掉前缀后计入问题列表。
// 环节顺序与问题顺序均保持引擎输出顺序。
func ExtractInterviewStages(text string) []types.InterviewStage {
	stages := make([]types.InterviewStage, 0)

	segments := strings.Split(text, StageNameMarker)
	if len(segments) < 2 {
		return stages
	}

	for _, segment := range segments[1:] {
		var lines []string
		for _, rawLine := range strings.Split(segment, "\n") {
			if line := strings.TrimSpace(rawLine); line != "" {
				lines = append(lines, line)
			}
		}
		if len(lines) == 0 {
			continue
		}

		stage := types.InterviewStage{
			StageName: lines[0],
			Questions: make([]string, 0),
		}

		parsingQuestions := false
		for _, line := range lines[1:] {
			switch {
			case strings.HasPrefix(line, StagePurposePrefix):
				stage.Purpose = strings.TrimSpace(strings.TrimPrefix(line, StagePurposePrefix))
				parsingQuestions = false
			case strings.HasPrefix(line, StageQuestionsPrefix):
				parsingQuestions = true
			case parsingQuestions && strings.HasPrefix(line, "-"):
				question := strings.TrimSpace(strings.TrimLeft(line, "- "))
				if question != "" {
					stage.Questions = append(stage.Questions, question)
				}
			}
		}

		if stage.StageName != "" {
			stages = append(stages, stage)
		}
	}

	return stages
}
