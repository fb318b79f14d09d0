package planner

import (
	"context"
	"fmt"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/gofrs/uuid/v5"

	"hr-agent-go/internal/agent"
	"hr-agent-go/internal/hrtools"
	"hr-agent-go/internal/logger"
	"hr-agent-go/internal/parser"
	"hr-agent-go/internal/types"
)

// 流水线阶段名，同时作为引擎调用流水的阶段标识
const (
	stageAnalyzeRole      = "analyze_role"
	stageJobDescription   = "job_description"
	stageSourcingChannels = "sourcing_channels"
	stageInterviewProcess = "interview_process"
	stagePlanSummary      = "plan_summary"
)

const defaultJDPreviewLength = 300

// HiringPlanner 招聘方案规划器：编排四个严格顺序的引擎调用阶段，
// 并在阶段之间传递累积上下文。进程启动时构造一次，无请求级可变状态。
type HiringPlanner struct {
	chatModel    model.ToolCallingChatModel
	memory       agent.PlanMemory
	stageTimeout time.Duration
	jdPreviewLen int
}

// NewHiringPlanner 创建一个新的规划器
func NewHiringPlanner(chatModel model.ToolCallingChatModel, options ...PlannerOption) (*HiringPlanner, error) {
	if chatModel == nil {
		return nil, fmt.Errorf("引擎模型未初始化")
	}

	p := &HiringPlanner{
		chatModel:    chatModel,
		memory:       agent.NewInMemoryPlanMemory(),
		jdPreviewLen: defaultJDPreviewLength,
	}
	for _, opt := range options {
		opt(p)
	}
	return p, nil
}

// AnalyzeRole 澄清闸口：单次引擎调用，判断岗位描述是否缺少关键信息。
// 与主流水线相互独立，调用方自行决定是否带着澄清回答重新发起规划。
func (p *HiringPlanner) AnalyzeRole(ctx context.Context, roleDescription string) (*types.ClarificationDecision, error) {
	requestID := p.newRequestID()

	output, err := p.invoke(ctx, requestID, stageAnalyzeRole, hrtools.AnalyzeRolePrompt(roleDescription))
	if err != nil {
		return nil, err
	}

	needsClarification, questions := parser.ExtractClarification(output)
	logger.Info().
		Str("request_id", requestID).
		Bool("needs_clarification", needsClarification).
		Int("question_count", len(questions)).
		Msg("岗位澄清分析完成")

	return &types.ClarificationDecision{
		NeedsClarification: needsClarification,
		Questions:          questions,
	}, nil
}

// CreatePlan 执行四阶段流水线并装配完整的招聘方案。
// 任一阶段的引擎调用失败都会立即终止，不返回部分方案，后续阶段不会执行。
func (p *HiringPlanner) CreatePlan(ctx context.Context, roleDetails string) (*types.HiringPlan, error) {
	requestID := p.newRequestID()
	logger.Info().Str("request_id", requestID).Msg("开始生成招聘方案")

	// 阶段 1：仅凭岗位细节生成职位描述
	jobDescription, err := p.invoke(ctx, requestID, stageJobDescription, hrtools.JobDescriptionPrompt(roleDetails))
	if err != nil {
		return nil, err
	}

	// 阶段 2：岗位细节 + 职位描述前缀，生成搜寻渠道文本并解析。
	// 嵌入前缀而非全文，约束后续指令的长度。
	preview := truncateRunes(jobDescription, p.jdPreviewLen)
	sourcingText, err := p.invoke(ctx, requestID, stageSourcingChannels, hrtools.SourcingChannelsPrompt(roleDetails, preview))
	if err != nil {
		return nil, err
	}
	sourcingChannels := parser.ExtractSourcingChannels(sourcingText)

	// 阶段 3：仅凭岗位细节设计面试流程并解析
	interviewText, err := p.invoke(ctx, requestID, stageInterviewProcess, hrtools.InterviewProcessPrompt(roleDetails))
	if err != nil {
		return nil, err
	}
	interviewStages := parser.ExtractInterviewStages(interviewText)

	// 阶段 4：用完整职位描述与前两阶段"解析后"的结构化结果生成总结
	summary, err := p.invoke(ctx, requestID, stagePlanSummary,
		hrtools.PlanSummaryPrompt(roleDetails, jobDescription, sourcingChannels, interviewStages))
	if err != nil {
		return nil, err
	}

	logger.Info().
		Str("request_id", requestID).
		Int("channel_count", len(sourcingChannels)).
		Int("stage_count", len(interviewStages)).
		Msg("招聘方案生成完成")

	return &types.HiringPlan{
		JobDescription:   jobDescription,
		SourcingChannels: sourcingChannels,
		InterviewStages:  interviewStages,
		FinalPlanSummary: summary,
	}, nil
}

// invoke 执行一次引擎调用：固定系统人设 + 渲染好的阶段指令，
// 超时受 stageTimeout 约束，调用流水尽力记录、失败不影响请求。
func (p *HiringPlanner) invoke(ctx context.Context, requestID string, stage string, instruction string) (string, error) {
	if p.stageTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.stageTimeout)
		defer cancel()
	}

	messages := []*schema.Message{
		schema.SystemMessage(hrtools.SystemPrompt),
		schema.UserMessage(instruction),
	}

	response, err := p.chatModel.Generate(ctx, messages)
	if err != nil {
		logger.Error().Err(err).Str("request_id", requestID).Str("stage", stage).Msg("引擎调用失败")
		return "", fmt.Errorf("阶段 %s 引擎调用失败: %w", stage, err)
	}
	if response == nil || response.Content == "" {
		return "", fmt.Errorf("阶段 %s 引擎返回空响应", stage)
	}

	if memErr := p.memory.AppendExchange(requestID, &agent.EngineExchange{
		Stage:       stage,
		Instruction: instruction,
		Output:      response.Content,
		At:          time.Now(),
	}); memErr != nil {
		logger.Warn().Err(memErr).Str("request_id", requestID).Str("stage", stage).Msg("记录引擎调用流水失败")
	}

	return response.Content, nil
}

// newRequestID 为一次方案请求生成 UUIDv7，生成失败时退化为时间戳
func (p *HiringPlanner) newRequestID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Sprintf("req-%d", time.Now().UnixNano())
	}
	return id.String()
}

// truncateRunes 按 rune 截取字符串前缀，避免在多字节字符中间截断
func truncateRunes(s string, maxLength int) string {
	runes := []rune(s)
	if len(runes) <= maxLength {
		return s
	}
	return string(runes[:maxLength])
}
