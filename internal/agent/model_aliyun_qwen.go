package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"hr-agent-go/internal/hrtools"
	"hr-agent-go/internal/logger"
)

const (
	// DashScope 的 OpenAI 兼容端点
	openAICompatibleQwenAPIURL = "https://dashscope.aliyuncs.com/compatible-mode/v1/chat/completions"
	defaultQwenModelName       = "qwen-plus"
)

// --- OpenAI 兼容结构 ---

type OpenAIToolFunctionParamsProperty struct {
	Type        string   `json:"type"`
	Description string   `json:"description,omitempty"`
	Enum        []string `json:"enum,omitempty"`
}

type OpenAIToolFunctionParams struct {
	Type       string                                      `json:"type"` // 通常为 "object"
	Properties map[string]OpenAIToolFunctionParamsProperty `json:"properties"`
	Required   []string                                    `json:"required,omitempty"`
}

type OpenAIFunction struct {
	Name        string                   `json:"name"`
	Description string                   `json:"description"`
	Parameters  OpenAIToolFunctionParams `json:"parameters"`
}

type OpenAITool struct {
	Type     string         `json:"type"` // 必须为 "function"
	Function OpenAIFunction `json:"function"`
}

type OpenAIChatCompletionRequest struct {
	Model    string            `json:"model"`
	Messages []*schema.Message `json:"messages"`
	Tools    []OpenAITool      `json:"tools,omitempty"`
}

type OpenAIMessage struct {
	Role      string               `json:"role"`
	Content   *string              `json:"content"` // 有 tool_calls 时可能为 null
	ToolCalls []OpenAIToolCallData `json:"tool_calls,omitempty"`
}

type OpenAIToolCallData struct {
	Id       string `json:"id"`
	Type     string `json:"type"`
	Function struct {
		Name      string `json:"name"`
		Arguments string `json:"arguments"`
	} `json:"function"`
}

type OpenAIChatChoice struct {
	Index        int           `json:"index"`
	Message      OpenAIMessage `json:"message"`
	FinishReason string        `json:"finish_reason"`
}

type OpenAICompletionResponse struct {
	Id      string             `json:"id"`
	Object  string             `json:"object"`
	Created int64              `json:"created"`
	Model   string             `json:"model"`
	Choices []OpenAIChatChoice `json:"choices"`
}

// AliyunQwenChatModel 通过 OpenAI 兼容 API 访问通义千问的推理引擎客户端，
// 实现 model.ToolCallingChatModel。进程启动时构造一次，之后只读复用。
type AliyunQwenChatModel struct {
	apiKey           string
	modelName        string
	apiURL           string
	httpClient       *http.Client
	boundOpenAITools []OpenAITool
}

// NewAliyunQwenChatModel 创建引擎客户端。modelName/apiURL 为空时使用默认值。
func NewAliyunQwenChatModel(apiKey string, modelName string, apiURL string) (*AliyunQwenChatModel, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("API 密钥不能为空")
	}

	mn := modelName
	if strings.TrimSpace(mn) == "" {
		mn = defaultQwenModelName
	}

	url := apiURL
	if strings.TrimSpace(url) == "" {
		url = openAICompatibleQwenAPIURL
	}

	logger.Info().Str("api_url", url).Str("model", mn).Msg("使用阿里云通义千问引擎客户端")

	return &AliyunQwenChatModel{
		apiKey:           apiKey,
		modelName:        mn,
		apiURL:           url,
		httpClient:       &http.Client{},
		boundOpenAITools: make([]OpenAITool, 0),
	}, nil
}

// Generate 实现 model.ChatModel 接口，单次请求/响应式的引擎调用
func (aq *AliyunQwenChatModel) Generate(ctx context.Context, messages []*schema.Message, options ...model.Option) (*schema.Message, error) {
	for _, opt := range options {
		_ = opt // 本客户端的工具配置走 WithTools/BindTools，通用选项暂不处理
	}

	reqPayload := OpenAIChatCompletionRequest{
		Model:    aq.modelName,
		Messages: messages,
	}
	if len(aq.boundOpenAITools) > 0 {
		reqPayload.Tools = aq.boundOpenAITools
	}

	jsonData, err := json.Marshal(reqPayload)
	if err != nil {
		return nil, fmt.Errorf("序列化请求体失败: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, aq.apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("创建 HTTP 请求失败: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+aq.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	logger.Debug().Str("api_url", aq.apiURL).Str("model", aq.modelName).Int("message_count", len(messages)).Msg("发送引擎请求")

	httpResp, err := aq.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("发送 HTTP 请求失败: %w", err)
	}
	defer httpResp.Body.Close()

	bodyBytes, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("读取响应体失败: %w", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API 请求失败，状态 %s: %s", httpResp.Status, string(bodyBytes))
	}

	var openAIResp OpenAICompletionResponse
	if err := json.Unmarshal(bodyBytes, &openAIResp); err != nil {
		return nil, fmt.Errorf("反序列化 API 响应失败: %w。响应体: %s", err, string(bodyBytes))
	}

	if len(openAIResp.Choices) == 0 {
		return nil, fmt.Errorf("从 API 收到空选项: %s", string(bodyBytes))
	}

	apiMessage := openAIResp.Choices[0].Message
	responseContent := ""
	if apiMessage.Content != nil {
		responseContent = *apiMessage.Content
	}

	resultMessage := &schema.Message{
		Role:    schema.RoleType(apiMessage.Role),
		Content: responseContent,
	}

	if len(apiMessage.ToolCalls) > 0 {
		resultMessage.ToolCalls = make([]schema.ToolCall, len(apiMessage.ToolCalls))
		for i, tc := range apiMessage.ToolCalls {
			resultMessage.ToolCalls[i] = schema.ToolCall{
				ID: tc.Id,
				Function: schema.FunctionCall{
					Name:      tc.Function.Name,
					Arguments: tc.Function.Arguments,
				},
			}
		}
	}

	if resultMessage.Role == "" {
		resultMessage.Role = schema.RoleType("assistant")
	}

	return resultMessage, nil
}

// Stream 实现 model.ChatModel 接口。本服务不使用流式/分段响应。
func (aq *AliyunQwenChatModel) Stream(ctx context.Context, messages []*schema.Message, options ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, fmt.Errorf("AliyunQwenChatModel 的 Stream 方法未实现")
}

// BindTools 绑定能力声明。参数 schema 直接取自能力注册表，
// 注册表没有的工具退化为空对象参数。
func (aq *AliyunQwenChatModel) BindTools(tools []*schema.ToolInfo) error {
	aq.boundOpenAITools = make([]OpenAITool, 0, len(tools))
	for _, toolInfo := range tools {
		if toolInfo == nil {
			continue
		}

		params := OpenAIToolFunctionParams{
			Type:       "object",
			Properties: map[string]OpenAIToolFunctionParamsProperty{},
		}
		if def, ok := hrtools.Lookup(toolInfo.Name); ok {
			for _, field := range def.InputSchema {
				params.Properties[field.Name] = OpenAIToolFunctionParamsProperty{
					Type:        field.Type,
					Description: field.Description,
				}
				if field.Required {
					params.Required = append(params.Required, field.Name)
				}
			}
		} else {
			logger.Warn().Str("tool", toolInfo.Name).Msg("工具未在能力注册表中声明，参数 schema 使用空对象")
		}

		aq.boundOpenAITools = append(aq.boundOpenAITools, OpenAITool{
			Type: "function",
			Function: OpenAIFunction{
				Name:        toolInfo.Name,
				Description: toolInfo.Desc,
				Parameters:  params,
			},
		})
	}

	logger.Info().Int("tool_count", len(aq.boundOpenAITools)).Msg("引擎客户端已绑定能力声明")
	return nil
}

// WithTools 满足 model.ToolCallingChatModel 接口，内部复用 BindTools
func (aq *AliyunQwenChatModel) WithTools(tools []*schema.ToolInfo) (model.ToolCallingChatModel, error) {
	if err := aq.BindTools(tools); err != nil {
		return nil, err
	}
	return aq, nil
}

var _ model.ChatModel = (*AliyunQwenChatModel)(nil)
var _ model.ToolCallingChatModel = (*AliyunQwenChatModel)(nil)
