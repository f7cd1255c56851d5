package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 运行配置，来源优先级：命令行 > 环境变量 (ZERDE_*) > zerde.yaml > 默认值
type Config struct {
	Server struct {
		Addr      string
		PublicURL string // 站点对外地址，同源部署时 /api/v1 由前置网关转发到内容 API
	}
	API struct {
		BaseURL string // 为空时使用 Server.PublicURL
		Timeout time.Duration
	}
	Cache struct {
		TTL        time.Duration
		MaxEntries int
	}
	Search struct {
		Debounce time.Duration
		PageSize int
	}
	Session struct {
		Max int
		TTL time.Duration
	}
	Handoff struct {
		Backend string // "memory" 或 "redis"
		TTL     time.Duration
	}
	Redis struct {
		Addr     string
		Password string
		DB       int
	}
	GitHub struct {
		Token  string
		Enrich bool
	}
	Render struct {
		Wait time.Duration // 首屏等待数据的时间，超出则先返回加载态
	}
	Log struct {
		Level  string
		Format string
	}
}

// LoadEnv 加载本地 .env 文件，文件不存在时忽略
func LoadEnv(files ...string) []string {
	if len(files) == 0 {
		files = []string{".env"}
	}
	loaded := make([]string, 0, len(files))
	for _, file := range files {
		if _, err := os.Stat(file); err != nil {
			continue
		}
		if err := godotenv.Load(file); err != nil {
			continue
		}
		loaded = append(loaded, file)
	}
	return loaded
}

// New 创建带默认值和环境变量绑定的 viper 实例
func New() *viper.Viper {
	v := viper.New()

	v.SetConfigName("zerde")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetEnvPrefix("ZERDE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.public_url", "")

	v.SetDefault("api.base_url", "")
	v.SetDefault("api.timeout", 30*time.Second)

	v.SetDefault("cache.ttl", 5*time.Minute)
	v.SetDefault("cache.max_entries", 256)

	v.SetDefault("search.debounce", 300*time.Millisecond)
	v.SetDefault("search.page_size", 10)

	v.SetDefault("session.max", 4096)
	v.SetDefault("session.ttl", 30*time.Minute)

	v.SetDefault("handoff.backend", "memory")
	v.SetDefault("handoff.ttl", 5*time.Minute)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("github.token", "")
	v.SetDefault("github.enrich", false)

	v.SetDefault("render.wait", 2*time.Second)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

// Load 读取配置文件 (可选) 并校验
func Load(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
	}

	cfg := &Config{}

	cfg.Server.Addr = v.GetString("server.addr")
	cfg.Server.PublicURL = strings.TrimRight(v.GetString("server.public_url"), "/")

	cfg.API.BaseURL = strings.TrimRight(v.GetString("api.base_url"), "/")
	cfg.API.Timeout = v.GetDuration("api.timeout")

	cfg.Cache.TTL = v.GetDuration("cache.ttl")
	cfg.Cache.MaxEntries = v.GetInt("cache.max_entries")

	cfg.Search.Debounce = v.GetDuration("search.debounce")
	cfg.Search.PageSize = v.GetInt("search.page_size")

	cfg.Session.Max = v.GetInt("session.max")
	cfg.Session.TTL = v.GetDuration("session.ttl")

	cfg.Handoff.Backend = strings.ToLower(v.GetString("handoff.backend"))
	cfg.Handoff.TTL = v.GetDuration("handoff.ttl")

	cfg.Redis.Addr = v.GetString("redis.addr")
	cfg.Redis.Password = v.GetString("redis.password")
	cfg.Redis.DB = v.GetInt("redis.db")

	cfg.GitHub.Token = v.GetString("github.token")
	cfg.GitHub.Enrich = v.GetBool("github.enrich")

	cfg.Render.Wait = v.GetDuration("render.wait")

	cfg.Log.Level = v.GetString("log.level")
	cfg.Log.Format = v.GetString("log.format")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate 校验取值范围
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return errors.New("server.addr 不能为空")
	}
	if err := validateAbsURL("api.base_url", c.API.BaseURL); err != nil {
		return err
	}
	if err := validateAbsURL("server.public_url", c.Server.PublicURL); err != nil {
		return err
	}
	if c.API.Timeout <= 0 {
		return errors.New("api.timeout 必须大于 0")
	}
	if c.Search.Debounce < 0 {
		return errors.New("search.debounce 不能为负数")
	}
	if c.Search.PageSize <= 0 {
		return errors.New("search.page_size 必须大于 0")
	}
	if c.Cache.MaxEntries < 0 {
		return errors.New("cache.max_entries 不能为负数")
	}
	switch c.Handoff.Backend {
	case "memory":
	case "redis":
		if c.Redis.Addr == "" {
			return errors.New("handoff.backend=redis 时必须配置 redis.addr")
		}
	default:
		return fmt.Errorf("未知的 handoff.backend: %q", c.Handoff.Backend)
	}
	return nil
}

// APIBase 内容 API 的地址：优先 api.base_url，其次同源的 server.public_url
// 地址只在启动时确定，不从请求头推断
func (c *Config) APIBase() string {
	if c.API.BaseURL != "" {
		return c.API.BaseURL
	}
	return c.Server.PublicURL
}

func validateAbsURL(key, raw string) error {
	if raw == "" {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%s 不是合法的绝对地址: %q", key, raw)
	}
	return nil
}
