package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/utils"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"hr-agent-go/internal/config"
	"hr-agent-go/internal/hrtools"
	"hr-agent-go/internal/logger"
	"hr-agent-go/internal/planner"
	"hr-agent-go/internal/types"
)

// PlanHandler 招聘方案处理器，持有进程级只读的规划器与配置，
// 自身不携带任何请求级可变状态。
type PlanHandler struct {
	cfg      *config.Config
	planner  *planner.HiringPlanner
	llmReady bool
}

// NewPlanHandler 创建一个新的招聘方案处理器。
// llmReady 标记引擎客户端是否在启动时初始化成功，仅用于健康检查上报。
func NewPlanHandler(cfg *config.Config, hiringPlanner *planner.HiringPlanner, llmReady bool) *PlanHandler {
	return &PlanHandler{
		cfg:      cfg,
		planner:  hiringPlanner,
		llmReady: llmReady,
	}
}

// ClarificationResponse 岗位澄清分析响应
type ClarificationResponse struct {
	Questions          []string `json:"questions"`
	NeedsClarification bool     `json:"needs_clarification"`
}

// HiringPlanResponse 完整招聘方案响应
type HiringPlanResponse struct {
	JobDescription   string                 `json:"job_description"`
	SourcingChannels []string               `json:"sourcing_channels"`
	InterviewStages  []types.InterviewStage `json:"interview_stages"`
	FinalPlanSummary string                 `json:"final_plan_summary"`
}

// HandleAnalyzeRole 处理 POST /api/analyze-role：
// 分析岗位描述，判断是否需要补充信息后才能制定招聘方案
func (h *PlanHandler) HandleAnalyzeRole(c context.Context, ctx *app.RequestContext) {
	if h.planner == nil {
		ctx.JSON(consts.StatusServiceUnavailable, utils.H{"error": "服务未初始化"})
		return
	}

	var req types.RoleRequest
	if err := ctx.BindAndValidate(&req); err != nil || req.RoleDescription == "" {
		ctx.JSON(consts.StatusBadRequest, utils.H{"error": "role_description 不能为空"})
		return
	}

	decision, err := h.planner.AnalyzeRole(c, req.RoleDescription)
	if err != nil {
		logger.Error().Err(err).Msg("岗位澄清分析失败")
		ctx.JSON(consts.StatusInternalServerError, utils.H{"error": err.Error()})
		return
	}

	ctx.JSON(consts.StatusOK, ClarificationResponse{
		Questions:          decision.Questions,
		NeedsClarification: decision.NeedsClarification,
	})
}

// HandleCreateHiringPlan 处理 POST /api/create-hiring-plan：
// 基于岗位描述（和可选的澄清回答）生成完整的招聘方案。
// clarification_answers 可放在请求体，也兼容查询参数。
func (h *PlanHandler) HandleCreateHiringPlan(c context.Context, ctx *app.RequestContext) {
	if h.planner == nil {
		ctx.JSON(consts.StatusServiceUnavailable, utils.H{"error": "服务未初始化"})
		return
	}

	var req types.RoleRequest
	if err := ctx.BindAndValidate(&req); err != nil || req.RoleDescription == "" {
		ctx.JSON(consts.StatusBadRequest, utils.H{"error": "role_description 不能为空"})
		return
	}

	answers := req.ClarificationAnswers
	if answers == "" {
		answers = ctx.Query("clarification_answers")
	}

	roleDetails := req.RoleDescription
	if answers != "" {
		roleDetails += "\n\nAdditional Details:\n" + answers
	}

	plan, err := h.planner.CreatePlan(c, roleDetails)
	if err != nil {
		logger.Error().Err(err).Msg("生成招聘方案失败")
		ctx.JSON(consts.StatusInternalServerError, utils.H{"error": err.Error()})
		return
	}

	ctx.JSON(consts.StatusOK, HiringPlanResponse{
		JobDescription:   plan.JobDescription,
		SourcingChannels: plan.SourcingChannels,
		InterviewStages:  plan.InterviewStages,
		FinalPlanSummary: plan.FinalPlanSummary,
	})
}

// HandleHealth 处理 GET /api/health：返回进程就绪状态
func (h *PlanHandler) HandleHealth(c context.Context, ctx *app.RequestContext) {
	ctx.JSON(consts.StatusOK, utils.H{
		"status":              "healthy",
		"service":             "hr-agent-go",
		"llm_initialized":     h.llmReady,
		"planner_initialized": h.planner != nil,
		"tools_count":         hrtools.Count(),
	})
}

// HandleListTools 处理 GET /api/tools：暴露能力注册表内容供自省
func (h *PlanHandler) HandleListTools(c context.Context, ctx *app.RequestContext) {
	ctx.JSON(consts.StatusOK, utils.H{
		"tools": hrtools.Definitions(),
	})
}
