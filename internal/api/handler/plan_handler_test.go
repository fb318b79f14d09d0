package handler_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/ut"
	"github.com/cloudwego/hertz/pkg/protocol"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hr-agent-go/internal/agent"
	"hr-agent-go/internal/api/handler"
	"hr-agent-go/internal/api/router"
	"hr-agent-go/internal/config"
	"hr-agent-go/internal/planner"
)

const interviewOutput = "STAGE NAME: Phone Screen\nPURPOSE: Assess fit\nKEY SAMPLE QUESTIONS:\n- Why us?\n- Tell me about yourself"

// newTestServer 用 mock 引擎搭建完整路由的测试服务器。
// chatModel 为 nil 时模拟规划器未初始化的降级状态。
func newTestServer(t *testing.T, chatModel *agent.MockChatClient) *server.Hertz {
	t.Helper()

	cfg := &config.Config{}
	var hiringPlanner *planner.HiringPlanner
	llmReady := false
	if chatModel != nil {
		p, err := planner.NewHiringPlanner(chatModel)
		require.NoError(t, err, "构造规划器不应失败")
		hiringPlanner = p
		llmReady = true
	}

	h := server.New()
	router.RegisterRoutes(h, handler.NewPlanHandler(cfg, hiringPlanner, llmReady))
	return h
}

// performJSON 发起一次 JSON 请求并返回响应
func performJSON(h *server.Hertz, method, url, body string) *protocol.Response {
	var reqBody *ut.Body
	if body != "" {
		reqBody = &ut.Body{Body: bytes.NewBufferString(body), Len: len(body)}
	}
	w := ut.PerformRequest(h.Engine, method, url, reqBody,
		ut.Header{Key: "Content-Type", Value: "application/json"})
	return w.Result()
}

// TestHandleAnalyzeRole 验证澄清分析端点的正常返回
func TestHandleAnalyzeRole(t *testing.T) {
	mockClient := agent.NewMockChatClient("CLARIFICATION_NEEDED:\n1. What is the team size?", nil)
	h := newTestServer(t, mockClient)

	resp := performJSON(h, "POST", "/api/analyze-role", `{"role_description":"We need an engineer"}`)

	require.Equal(t, consts.StatusOK, resp.StatusCode())

	var out handler.ClarificationResponse
	require.NoError(t, json.Unmarshal(resp.Body(), &out))
	assert.True(t, out.NeedsClarification)
	assert.Equal(t, []string{"What is the team size?"}, out.Questions)
}

// TestHandleAnalyzeRoleEmptyDescription 验证缺少岗位描述时返回 400
func TestHandleAnalyzeRoleEmptyDescription(t *testing.T) {
	h := newTestServer(t, agent.NewMockChatClient("unused", nil))

	tests := []struct {
		name string
		body string
	}{
		{"空字符串", `{"role_description":""}`},
		{"缺少字段", `{}`},
		{"空请求体", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := performJSON(h, "POST", "/api/analyze-role", tt.body)
			assert.Equal(t, consts.StatusBadRequest, resp.StatusCode(), "role_description 为空应返回 400")
		})
	}
}

// TestHandleAnalyzeRoleEngineFailure 验证引擎失败时返回 500
func TestHandleAnalyzeRoleEngineFailure(t *testing.T) {
	mockClient := agent.NewMockChatClient("", errors.New("engine down"))
	h := newTestServer(t, mockClient)

	resp := performJSON(h, "POST", "/api/analyze-role", `{"role_description":"We need an engineer"}`)

	assert.Equal(t, consts.StatusInternalServerError, resp.StatusCode())
}

// TestHandleCreateHiringPlan 验证完整方案端点的装配结果
func TestHandleCreateHiringPlan(t *testing.T) {
	mockClient := agent.NewMockChatClientSequential([]agent.MockResponse{
		{Content: "Full job description text."},
		{Content: "1. LinkedIn - great reach\n2. AngelList - startup focus"},
		{Content: interviewOutput},
		{Content: "Complete plan summary."},
	})
	h := newTestServer(t, mockClient)

	resp := performJSON(h, "POST", "/api/create-hiring-plan", `{"role_description":"Senior Go engineer"}`)

	require.Equal(t, consts.StatusOK, resp.StatusCode())

	var out handler.HiringPlanResponse
	require.NoError(t, json.Unmarshal(resp.Body(), &out))
	assert.Equal(t, "Full job description text.", out.JobDescription)
	assert.Equal(t, []string{"LinkedIn - great reach", "AngelList - startup focus"}, out.SourcingChannels)
	require.Len(t, out.InterviewStages, 1)
	assert.Equal(t, "Phone Screen", out.InterviewStages[0].StageName)
	assert.Equal(t, "Complete plan summary.", out.FinalPlanSummary)
	assert.Equal(t, 4, mockClient.CallCount(), "完整方案应触发四次引擎调用")
}

// TestHandleCreateHiringPlanWithAnswers 验证澄清回答被拼进岗位细节
func TestHandleCreateHiringPlanWithAnswers(t *testing.T) {
	mockClient := agent.NewMockChatClientSequential([]agent.MockResponse{
		{Content: "jd"}, {Content: "1. LinkedIn - reach"}, {Content: interviewOutput}, {Content: "summary"},
	})
	h := newTestServer(t, mockClient)

	body := `{"role_description":"Senior Go engineer","clarification_answers":"Team of 6, reports to CTO"}`
	resp := performJSON(h, "POST", "/api/create-hiring-plan", body)
	require.Equal(t, consts.StatusOK, resp.StatusCode())

	// 阶段一的用户指令应包含拼接后的岗位细节
	require.True(t, len(mockClient.ReceivedMessages) >= 2)
	instruction := mockClient.ReceivedMessages[1].Content
	assert.True(t, strings.Contains(instruction, "Additional Details:\nTeam of 6, reports to CTO"),
		"澄清回答应以 Additional Details 段拼入岗位细节")
}

// TestHandleCreateHiringPlanQueryFallback 验证澄清回答兼容查询参数
func TestHandleCreateHiringPlanQueryFallback(t *testing.T) {
	mockClient := agent.NewMockChatClientSequential([]agent.MockResponse{
		{Content: "jd"}, {Content: "1. LinkedIn - reach"}, {Content: interviewOutput}, {Content: "summary"},
	})
	h := newTestServer(t, mockClient)

	resp := performJSON(h, "POST", "/api/create-hiring-plan?clarification_answers=Remote+only",
		`{"role_description":"Senior Go engineer"}`)
	require.Equal(t, consts.StatusOK, resp.StatusCode())

	require.True(t, len(mockClient.ReceivedMessages) >= 2)
	assert.Contains(t, mockClient.ReceivedMessages[1].Content, "Additional Details:\nRemote only")
}

// TestHandleCreateHiringPlanAbortsOnFailure 验证中途失败返回 500 且无部分方案
func TestHandleCreateHiringPlanAbortsOnFailure(t *testing.T) {
	mockClient := agent.NewMockChatClientSequential([]agent.MockResponse{
		{Content: "jd"},
		{Error: errors.New("engine unavailable")},
	})
	h := newTestServer(t, mockClient)

	resp := performJSON(h, "POST", "/api/create-hiring-plan", `{"role_description":"Senior Go engineer"}`)

	assert.Equal(t, consts.StatusInternalServerError, resp.StatusCode())
	assert.Equal(t, 2, mockClient.CallCount(), "失败后不应继续执行后续阶段")
}

// TestHandlersServiceUnavailable 验证规划器未初始化时两个生成端点都返回 503
func TestHandlersServiceUnavailable(t *testing.T) {
	h := newTestServer(t, nil)

	for _, url := range []string{"/api/analyze-role", "/api/create-hiring-plan"} {
		resp := performJSON(h, "POST", url, `{"role_description":"Senior Go engineer"}`)
		assert.Equal(t, consts.StatusServiceUnavailable, resp.StatusCode(), "规划器缺失时 %s 应返回 503", url)
	}
}

// TestHandleHealth 验证健康检查上报的就绪状态
func TestHandleHealth(t *testing.T) {
	h := newTestServer(t, agent.NewMockChatClient("unused", nil))

	resp := performJSON(h, "GET", "/api/health", "")
	require.Equal(t, consts.StatusOK, resp.StatusCode())

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(resp.Body(), &out))
	assert.Equal(t, "healthy", out["status"])
	assert.Equal(t, "hr-agent-go", out["service"])
	assert.Equal(t, true, out["llm_initialized"])
	assert.Equal(t, true, out["planner_initialized"])
	assert.EqualValues(t, 5, out["tools_count"])
}

// TestHandleListTools 验证能力注册表的自省端点
func TestHandleListTools(t *testing.T) {
	h := newTestServer(t, agent.NewMockChatClient("unused", nil))

	resp := performJSON(h, "GET", "/api/tools", "")
	require.Equal(t, consts.StatusOK, resp.StatusCode())

	var out struct {
		Tools []struct {
			Name        string `json:"name"`
			Description string `json:"description"`
			ArgsSchema  []struct {
				Name     string `json:"name"`
				Required bool   `json:"required"`
			} `json:"args_schema"`
		} `json:"tools"`
	}
	require.NoError(t, json.Unmarshal(resp.Body(), &out))
	require.Len(t, out.Tools, 5, "应暴露全部 5 个能力声明")
	assert.Equal(t, "analyze_role_for_clarification", out.Tools[0].Name)
	assert.NotEmpty(t, out.Tools[0].Description)
	require.NotEmpty(t, out.Tools[0].ArgsSchema)
	assert.Equal(t, "role_description", out.Tools[0].ArgsSchema[0].Name)
}
