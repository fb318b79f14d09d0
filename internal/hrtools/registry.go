package hrtools

import (
	"github.com/cloudwego/eino/schema"
)

// FieldSpec 能力入参的单个字段声明
type FieldSpec struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Required    bool   `json:"required"`
}

// ToolDefinition 一条声明式能力条目。注册表只负责声明与描述，
// 不做任何推理，也不是动态分发表：提示词的渲染在 prompts.go 中完成。
type ToolDefinition struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	InputSchema []FieldSpec `json:"args_schema"`
}

// 能力名称常量，与引擎侧可见的工具名保持一致
const (
	ToolAnalyzeRole       = "analyze_role_for_clarification"
	ToolCreateJD          = "create_job_description"
	ToolSuggestSourcing   = "suggest_sourcing_channels"
	ToolDesignInterview   = "design_interview_process"
	ToolCreatePlanSummary = "create_hiring_plan_summary"
)

// definitions 静态有序的能力注册表，进程启动后只读
var definitions = []ToolDefinition{
	{
		Name:        ToolAnalyzeRole,
		Description: "分析岗位描述是否缺少制定完整招聘方案所需的关键信息，返回澄清问题或确认描述已足够完整。",
		InputSchema: []FieldSpec{
			{Name: "role_description", Type: "string", Description: "待分析的初始岗位描述", Required: true},
		},
	},
	{
		Name:        ToolCreateJD,
		Description: "基于岗位细节撰写一份完整的职位描述（JD）。",
		InputSchema: []FieldSpec{
			{Name: "role_details", Type: "string", Description: "用于撰写职位描述的岗位详细信息", Required: true},
		},
	},
	{
		Name:        ToolSuggestSourcing,
		Description: "为该岗位推荐 3-5 个多样且有效的候选人搜寻渠道。",
		InputSchema: []FieldSpec{
			{Name: "role_details", Type: "string", Description: "用于判断合适搜寻渠道的岗位细节", Required: true},
			{Name: "job_description", Type: "string", Description: "辅助渠道选择的职位描述", Required: true},
		},
	},
	{
		Name:        ToolDesignInterview,
		Description: "为该岗位设计多轮面试流程。",
		InputSchema: []FieldSpec{
			{Name: "role_details", Type: "string", Description: "用于设计面试环节的岗位细节", Required: true},
		},
	},
	{
		Name:        ToolCreatePlanSummary,
		Description: "汇总职位描述、搜寻渠道与面试流程，生成完整招聘方案的总结。",
		InputSchema: []FieldSpec{
			{Name: "role_details", Type: "string", Description: "岗位细节", Required: true},
			{Name: "job_description", Type: "string", Description: "完整的职位描述", Required: true},
			{Name: "sourcing_channels", Type: "array", Description: "候选人搜寻渠道列表", Required: true},
			{Name: "interview_stages", Type: "array", Description: "含详细信息的面试环节列表", Required: true},
		},
	},
}

// Definitions 返回注册表条目的副本，调用方不能借此修改注册表
func Definitions() []ToolDefinition {
	out := make([]ToolDefinition, len(definitions))
	copy(out, definitions)
	return out
}

// Count 注册的能力数量
func Count() int {
	return len(definitions)
}

// Lookup 按名称查找能力声明
func Lookup(name string) (ToolDefinition, bool) {
	for _, def := range definitions {
		if def.Name == name {
			return def, true
		}
	}
	return ToolDefinition{}, false
}

// ToolInfos 将注册表转换为 eino 的工具元信息，供引擎客户端在启动时绑定，
// 让引擎知晓进程声明了哪些具名操作。本服务自身从不按名回调执行这些工具。
func ToolInfos() []*schema.ToolInfo {
	infos := make([]*schema.ToolInfo, 0, len(definitions))
	for _, def := range definitions {
		params := make(map[string]*schema.ParameterInfo, len(def.InputSchema))
		for _, field := range def.InputSchema {
			params[field.Name] = &schema.ParameterInfo{
				Type:     schema.DataType(field.Type),
				Desc:     field.Description,
				Required: field.Required,
			}
		}
		infos = append(infos, &schema.ToolInfo{
			Name:        def.Name,
			Desc:        def.Description,
			ParamsOneOf: schema.NewParamsOneOfByParams(params),
		})
	}
	return infos
}
