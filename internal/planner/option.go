package planner

import (
	"time"

	"hr-agent-go/internal/agent"
)

// PlannerOption 规划器的配置选项函数类型
type PlannerOption func(*HiringPlanner)

// WithPlanMemory 设置引擎调用流水的存储实现（默认进程内存储）
func WithPlanMemory(memory agent.PlanMemory) PlannerOption {
	return func(p *HiringPlanner) {
		if memory != nil {
			p.memory = memory
		}
	}
}

// WithStageTimeout 设置单次引擎调用的超时，0 表示不限
func WithStageTimeout(timeout time.Duration) PlannerOption {
	return func(p *HiringPlanner) {
		p.stageTimeout = timeout
	}
}

// WithJDPreviewLength 设置后续阶段嵌入职位描述时截取的前缀长度
func WithJDPreviewLength(length int) PlannerOption {
	return func(p *HiringPlanner) {
		if length > 0 {
			p.jdPreviewLen = length
		}
	}
}
