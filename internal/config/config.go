package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config 应用程序配置
type Config struct {
	Aliyun struct {
		APIKey string `yaml:"api_key"`
		APIURL string `yaml:"api_url"`
		Model  string `yaml:"model"`
	} `yaml:"aliyun"`

	// 服务器配置
	Server ServerConfig `yaml:"server"`

	// 日志配置
	Logger LoggerConfig `yaml:"logger"`

	// Redis 配置（可选，用于方案请求的引擎调用流水）
	Redis RedisConfig `yaml:"redis"`

	// 规划器配置
	Planner PlannerConfig `yaml:"planner"`
}

// ServerConfig 定义服务器配置
type ServerConfig struct {
	Address string `yaml:"address"` // 例如 ":8000" 或 "0.0.0.0:8000"
}

// LoggerConfig 日志配置
type LoggerConfig struct {
	Level        string `yaml:"level"`         // debug, info, warn, error
	Format       string `yaml:"format"`        // json, pretty
	TimeFormat   string `yaml:"time_format"`   // 时间格式
	ReportCaller bool   `yaml:"report_caller"` // 是否报告调用位置
}

// RedisConfig Redis 配置。Address 为空时流水退化为进程内存储。
type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	// 连接池设置
	PoolSize     int `yaml:"pool_size"`
	MinIdleConns int `yaml:"min_idle_conns"`
	// 引擎调用流水的过期时间(小时)，0 表示不过期
	TranscriptTTLHours int `yaml:"transcript_ttl_hours"`
}

// PlannerConfig 定义招聘方案规划器的配置
type PlannerConfig struct {
	QPM                 int `yaml:"qpm"`                   // 每分钟引擎调用数上限
	MaxRetries          int `yaml:"max_retries"`           // 单次引擎调用的最大重试次数，0 表示失败即终止
	RetryWaitSeconds    int `yaml:"retry_wait_seconds"`    // 重试等待时间(秒)
	StageTimeoutSeconds int `yaml:"stage_timeout_seconds"` // 单次引擎调用超时(秒)，0 表示不限
	JDPreviewLength     int `yaml:"jd_preview_length"`     // 后续阶段嵌入职位描述时的前缀长度
}

// LoadConfig 从文件加载配置。configPath 为空时在常见位置查找，
// 测试环境下找不到配置文件时回退到默认配置。
func LoadConfig(configPath string) (*Config, error) {
	if configPath == "" {
		searchPaths := []string{
			"config.yaml",
			"./config.yaml",
			"../config.yaml",
			"../../config.yaml",
			filepath.Join(os.Getenv("HOME"), ".hr-agent", "config.yaml"),
		}

		if execPath, err := os.Executable(); err == nil {
			execDir := filepath.Dir(execPath)
			searchPaths = append(searchPaths,
				filepath.Join(execDir, "config.yaml"),
				filepath.Join(execDir, "..", "config.yaml"),
			)
		}

		for _, path := range searchPaths {
			if _, err := os.Stat(path); err == nil {
				configPath = path
				break
			}
		}

		if configPath == "" {
			if inTestEnvironment() {
				return createDefaultConfig(), nil
			}
			configPath = "config.yaml"
		}
	}

	if _, err := os.Stat(configPath); err != nil {
		if inTestEnvironment() {
			return createDefaultConfig(), nil
		}
		return nil, fmt.Errorf("配置文件不存在: %s", configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}

	applyDefaults(&config)
	return &config, nil
}

// inTestEnvironment 粗略判断当前是否运行在 go test 下
func inTestEnvironment() bool {
	for _, arg := range os.Args {
		if strings.Contains(arg, "test") {
			return true
		}
	}
	return false
}

// applyDefaults 为缺省字段填入默认值
func applyDefaults(config *Config) {
	if config.Server.Address == "" {
		config.Server.Address = ":8000"
	}
	if config.Logger.Level == "" {
		config.Logger.Level = "info"
	}
	if config.Logger.Format == "" {
		config.Logger.Format = "json"
	}
	if config.Planner.QPM <= 0 {
		config.Planner.QPM = 30
	}
	if config.Planner.RetryWaitSeconds <= 0 {
		config.Planner.RetryWaitSeconds = 1
	}
	if config.Planner.StageTimeoutSeconds < 0 {
		config.Planner.StageTimeoutSeconds = 0
	}
	if config.Planner.JDPreviewLength <= 0 {
		config.Planner.JDPreviewLength = 300
	}
}

// createDefaultConfig 创建一份默认配置（仅测试环境使用）
func createDefaultConfig() *Config {
	config := &Config{}
	config.Logger.Level = "debug"
	config.Logger.Format = "pretty"
	config.Planner.MaxRetries = 0
	applyDefaults(config)
	return config
}
