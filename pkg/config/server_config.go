package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/gonewx/martianblue/pkg/embedded"
)

// ServerConfigPath 嵌入资源中默认服务配置的位置
const ServerConfigPath = "data/server.yaml"

// ServerConfig API 服务配置
//
// 配置文件位置: data/server.yaml（嵌入），可用 --config 指定磁盘文件覆盖
type ServerConfig struct {
	// Addr 监听地址
	Addr string `yaml:"addr"`

	Store StoreConfig `yaml:"store"`
	Log   LogConfig   `yaml:"log"`
	CORS  CORSConfig  `yaml:"cors"`

	// ShutdownTimeout 优雅关闭等待时间
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
}

// StoreConfig 文档存储
type StoreConfig struct {
	Driver  string `yaml:"driver"`  // sqlite | gdata | memory
	Path    string `yaml:"path"`    // sqlite 数据库文件
	AppName string `yaml:"appName"` // gdata 应用名
}

// LogConfig 日志
type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // console | json
}

// CORSConfig 跨域
type CORSConfig struct {
	// AllowedOrigins 为空或包含 "*" 时允许任意来源
	AllowedOrigins []string `yaml:"allowedOrigins"`
}

// DefaultServerConfig 默认服务配置
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Addr: ":5000",
		Store: StoreConfig{
			Driver:  "sqlite",
			Path:    "martianblue.db",
			AppName: "martianblue",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{"*"},
		},
		ShutdownTimeout: 10 * time.Second,
	}
}

// ParseServerConfig 解析 YAML 配置，未出现的字段保持默认
func ParseServerConfig(data []byte) (*ServerConfig, error) {
	cfg := DefaultServerConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse server config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid server config: %w", err)
	}
	return &cfg, nil
}

// LoadServerConfig 从磁盘加载；path 为空时读取嵌入的默认配置
func LoadServerConfig(path string) (*ServerConfig, error) {
	var (
		data []byte
		err  error
	)
	if path == "" {
		data, err = embedded.ReadFile(ServerConfigPath)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read server config: %w", err)
	}
	return ParseServerConfig(data)
}

// Validate 验证配置有效性
func (c *ServerConfig) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("addr is required")
	}
	switch c.Store.Driver {
	case "sqlite":
		if c.Store.Path == "" {
			return fmt.Errorf("store.path is required for sqlite driver")
		}
	case "gdata":
		if c.Store.AppName == "" {
			return fmt.Errorf("store.appName is required for gdata driver")
		}
	case "memory":
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.Log.Level)
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.Log.Format)
	}
	if c.ShutdownTimeout < 0 {
		return fmt.Errorf("shutdownTimeout must be >= 0")
	}
	return nil
}

// AllowsOrigin 报告是否允许该来源跨域访问
func (c CORSConfig) AllowsOrigin(origin string) bool {
	if len(c.AllowedOrigins) == 0 {
		return true
	}
	for _, o := range c.AllowedOrigins {
		if o == "*" || o == origin {
			return true
		}
	}
	return false
}
