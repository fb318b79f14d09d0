package agent

import (
	"fmt"
	"sync"
	"time"
)

// EngineExchange 记录一次引擎调用：哪个阶段、发出的指令与引擎的原始输出。
// 仅用于诊断回放，方案本身不做任何持久化。
type EngineExchange struct {
	Stage       string    `json:"stage"`
	Instruction string    `json:"instruction"`
	Output      string    `json:"output"`
	At          time.Time `json:"at"`
}

// PlanMemory 定义了方案请求的引擎调用流水存储接口。
// 键是每个方案请求的 UUID，流水按调用顺序追加。
type PlanMemory interface {
	// AppendExchange 向指定请求的流水中追加一次引擎调用记录。
	AppendExchange(requestID string, exchange *EngineExchange) error

	// GetTranscript 获取指定请求的完整流水。
	// 请求不存在时应返回空切片和 nil 错误。
	GetTranscript(requestID string) ([]*EngineExchange, error)

	// ClearTranscript 删除指定请求的流水，请求不存在时静默成功。
	ClearTranscript(requestID string) error
}

// defaultMaxTranscripts 进程内存储保留的最大请求数，对应 Redis 实现的 TTL 清理
const defaultMaxTranscripts = 64

// InMemoryPlanMemory 是 PlanMemory 的进程内实现。
// 不做持久化，适合测试与未配置 Redis 的部署。
// 按插入顺序最多保留 defaultMaxTranscripts 个请求的流水，
// 到达上限后淘汰最旧的请求，避免长期运行下的无界增长。
type InMemoryPlanMemory struct {
	mu          sync.RWMutex
	transcripts map[string][]*EngineExchange
	order       []string // 请求首次写入的顺序，用于淘汰
	maxEntries  int
}

// NewInMemoryPlanMemory 创建一个新的 InMemoryPlanMemory 实例
func NewInMemoryPlanMemory() *InMemoryPlanMemory {
	return &InMemoryPlanMemory{
		transcripts: make(map[string][]*EngineExchange),
		order:       make([]string, 0, defaultMaxTranscripts),
		maxEntries:  defaultMaxTranscripts,
	}
}

// AppendExchange 实现 PlanMemory 接口
func (m *InMemoryPlanMemory) AppendExchange(requestID string, exchange *EngineExchange) error {
	if exchange == nil {
		return fmt.Errorf("cannot append nil exchange to transcript for request %s", requestID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.transcripts[requestID]; !exists {
		m.order = append(m.order, requestID)
		for len(m.order) > m.maxEntries {
			oldest := m.order[0]
			m.order = m.order[1:]
			delete(m.transcripts, oldest)
		}
	}

	m.transcripts[requestID] = append(m.transcripts[requestID], exchange)
	return nil
}

// Len 当前保留的请求数
func (m *InMemoryPlanMemory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.transcripts)
}

// GetTranscript 实现 PlanMemory 接口
func (m *InMemoryPlanMemory) GetTranscript(requestID string) ([]*EngineExchange, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	transcript, ok := m.transcripts[requestID]
	if !ok {
		return []*EngineExchange{}, nil
	}
	// 返回副本，避免调用方改动内部存储
	cpy := make([]*EngineExchange, len(transcript))
	copy(cpy, transcript)
	return cpy, nil
}

// ClearTranscript 实现 PlanMemory 接口
func (m *InMemoryPlanMemory) ClearTranscript(requestID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.transcripts, requestID)
	for i, id := range m.order {
		if id == requestID {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}
