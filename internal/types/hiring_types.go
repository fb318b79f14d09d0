package types

// RoleRequest 岗位描述请求体，role_description 为 HR 提交的原始岗位文本。
// clarification_answers 可选，是对澄清问题的补充回答，拼接后形成完整的岗位细节。
type RoleRequest struct {
	RoleDescription      string `json:"role_description"`
	ClarificationAnswers string `json:"clarification_answers,omitempty"`
}

// ClarificationDecision 澄清决策结果，每次分析请求只产生一次，产生后不再修改
type ClarificationDecision struct {
	NeedsClarification bool     `json:"needs_clarification"`
	Questions          []string `json:"questions"`
}

// InterviewStage 单个面试环节，Questions 保持引擎输出中的原始顺序
type InterviewStage struct {
	StageName string   `json:"stage_name"`
	Purpose   string   `json:"purpose"`
	Questions []string `json:"questions"`
}

// HiringPlan 完整的招聘方案聚合，四个阶段全部成功后才会构造，不存在部分填充的方案
type HiringPlan struct {
	JobDescription   string           `json:"job_description"`
	SourcingChannels []string         `json:"sourcing_channels"`
	InterviewStages  []InterviewStage `json:"interview_stages"`
	FinalPlanSummary string           `json:"final_plan_summary"`
}
