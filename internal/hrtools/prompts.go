package hrtools

import (
	"fmt"
	"strings"

	"hr-agent-go/internal/types"
)

// SystemPrompt 所有引擎调用共用的系统人设
const SystemPrompt = `You are an expert HR consultant specializing in creating comprehensive hiring plans. Be thorough and professional in your responses.`

// 各阶段的指令模板。模板本身是固定的不透明字符串，这里只做纯字符串插值，
// 不经过任何动态工具分发（注册表仅用于声明，见 registry.go）。
const (
	analyzeRoleTemplate = `You are an expert HR consultant. Based on the initial role description provided,
identify if crucial details are missing for creating a comprehensive hiring plan.
Missing details could include: specific responsibilities beyond general duties, required years of experience,
team structure (e.g., reporting line, team size), key success metrics for the role, or specific technologies.

If details are missing, formulate 2-3 targeted questions to ask the HR professional to get these details.
If the description seems reasonably complete for initial planning, state that and suggest moving to drafting the Job Description.

Output format:
- If questions are needed: Start your response with "CLARIFICATION_NEEDED:" followed by your questions.
- If no questions are needed: Start your response with "CLARIFICATION_NOT_NEEDED:" followed by your statement.

Role description: %s`

	jobDescriptionTemplate = `Create a comprehensive job description for the following role:

Role Details: %s

Please include:
- Job Title
- Company Overview
- Role Summary
- Key Responsibilities (5-7 bullet points)
- Required Qualifications
- Preferred Qualifications
- What We Offer
- Compensation Range (if applicable)

Make it engaging and specific to attract the right candidates.`

	sourcingChannelsTemplate = `Based on the role details and job description below, suggest 3-5 diverse and effective sourcing channels
for a startup to find suitable candidates. Consider a mix of common platforms (like LinkedIn, specialized job boards)
and niche communities if applicable.

For each channel, briefly explain (1-2 sentences) why it is suitable for this specific role at a startup.

Role Details: %s

Job Description: %s...

Format your response as a numbered list with explanations.`

	interviewProcessTemplate = `Based on the role details provided, outline a typical multi-stage interview process suitable for hiring
this technical role at a startup.

For each stage, please clearly structure it as follows:
STAGE NAME: [Name of the stage]
PURPOSE: [What this stage aims to assess]
KEY SAMPLE QUESTIONS:
- [Question 1]
- [Question 2]
- [Question 3]

Role Details: %s

Please structure your output clearly following this format for each stage. Ensure each stage is
distinctly separated and begins with "STAGE NAME:".`

	planSummaryTemplate = `Create a comprehensive summary of the entire hiring plan with these components:

Role: %s

Job Description:
%s

Suggested Sourcing Channels:
%s

Proposed Interview Process:
%s

Include next steps for the hiring team: reviewing and customizing the plan, setting up candidate pipeline tracking,
preparing interview scorecards based on the suggested questions, and planning timeline and resource allocation.`
)

// AnalyzeRolePrompt 渲染澄清分析阶段的引擎指令
func AnalyzeRolePrompt(roleDescription string) string {
	return fmt.Sprintf(analyzeRoleTemplate, roleDescription)
}

// JobDescriptionPrompt 渲染职位描述阶段的引擎指令
func JobDescriptionPrompt(roleDetails string) string {
	return fmt.Sprintf(jobDescriptionTemplate, roleDetails)
}

// SourcingChannelsPrompt 渲染搜寻渠道阶段的引擎指令。
// jobDescriptionPreview 应是职位描述的有界前缀，避免指令无限膨胀。
func SourcingChannelsPrompt(roleDetails string, jobDescriptionPreview string) string {
	return fmt.Sprintf(sourcingChannelsTemplate, roleDetails, jobDescriptionPreview)
}

// InterviewProcessPrompt 渲染面试流程阶段的引擎指令
func InterviewProcessPrompt(roleDetails string) string {
	return fmt.Sprintf(interviewProcessTemplate, roleDetails)
}

// PlanSummaryPrompt 渲染总结阶段的引擎指令。
// 渠道与面试环节使用的是前两个阶段解析后的结构化结果，而非原始输出。
func PlanSummaryPrompt(roleDetails string, jobDescription string, channels []string, stages []types.InterviewStage) string {
	var channelText strings.Builder
	for _, channel := range channels {
		channelText.WriteString("- ")
		channelText.WriteString(channel)
		channelText.WriteString("\n")
	}

	var stageText strings.Builder
	for _, stage := range stages {
		stageText.WriteString(fmt.Sprintf("\n- Stage: %s\n", stage.StageName))
		stageText.WriteString(fmt.Sprintf("  Purpose: %s\n", stage.Purpose))
		if len(stage.Questions) > 0 {
			stageText.WriteString("  Sample Questions:\n")
			for _, q := range stage.Questions {
				stageText.WriteString(fmt.Sprintf("    - %s\n", q))
			}
		}
	}

	return fmt.Sprintf(planSummaryTemplate, roleDetails, jobDescription, channelText.String(), stageText.String())
}
