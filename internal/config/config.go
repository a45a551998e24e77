package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/yosuke-furukawa/json5/encoding/json5"
)

const (
	DirName         = "proxyprobe"
	ConfigFileName  = "config.json"
	ProxiesFileName = "proxies.txt"
)

// ProxyConfig identifies the forward proxy endpoint. Credentials are only
// attached to requests when a scenario asks for an authenticated client.
type ProxyConfig struct {
	Host string `json:"host"`
	Port string `json:"port"`
	User string `json:"user"`
	Pass string `json:"pass"`
}

// URL renders the proxy endpoint without credentials.
func (p ProxyConfig) URL() string {
	return fmt.Sprintf("http://%s", p.Addr())
}

// AuthURL renders the proxy endpoint with userinfo credentials.
func (p ProxyConfig) AuthURL() string {
	return fmt.Sprintf("http://%s:%s@%s", url.QueryEscape(p.User), url.QueryEscape(p.Pass), p.Addr())
}

func (p ProxyConfig) Addr() string {
	return p.Host + ":" + p.Port
}

// ParseProxyURL turns a raw proxy URL into a ProxyConfig, carrying over any
// userinfo it holds.
func ParseProxyURL(raw string) (ProxyConfig, error) {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return ProxyConfig{}, err
	}
	if parsed.Hostname() == "" {
		return ProxyConfig{}, fmt.Errorf("proxy url %q has no host", raw)
	}
	cfg := ProxyConfig{Host: parsed.Hostname(), Port: parsed.Port()}
	if cfg.Port == "" {
		cfg.Port = "3128"
	}
	if parsed.User != nil {
		cfg.User = parsed.User.Username()
		cfg.Pass, _ = parsed.User.Password()
	}
	return cfg, nil
}

// Settings is the immutable per-run configuration, constructed once at
// startup and passed to each scenario.
type Settings struct {
	Proxy        ProxyConfig
	ProxyScope   string
	Target       string
	TargetTLS    string
	DelayTarget  string
	PageTarget   string
	Timeout      time.Duration
	ShortTimeout time.Duration
	Requests     int
	InsecureTLS  bool
}

func DefaultSettings() Settings {
	return Settings{
		Proxy: ProxyConfig{
			Host: "localhost",
			Port: "3128",
			User: "user",
			Pass: "password",
		},
		ProxyScope:   "all",
		Target:       "http://httpbin.org/ip",
		TargetTLS:    "https://httpbin.org/ip",
		DelayTarget:  "http://httpbin.org/delay/5",
		PageTarget:   "http://httpbin.org/html",
		Timeout:      10 * time.Second,
		ShortTimeout: 2 * time.Second,
		Requests:     10,
	}
}

type fileConfig struct {
	ProxyHost   string `json:"proxy_host"`
	ProxyPort   string `json:"proxy_port"`
	ProxyUser   string `json:"proxy_user"`
	ProxyPass   string `json:"proxy_pass"`
	ProxyScope  string `json:"proxy_scope"`
	Target      string `json:"target"`
	TargetTLS   string `json:"target_tls"`
	DelayTarget string `json:"delay_target"`
	PageTarget  string `json:"page_target"`
	Timeout     string `json:"timeout"`
	Requests    int    `json:"requests"`
}

func ConfigDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, DirName), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ConfigFileName), nil
}

func ProxiesPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ProxiesFileName), nil
}

// Load builds Settings from defaults, the optional config file, and the
// environment, in increasing order of precedence.
func Load() (Settings, error) {
	path, err := ConfigPath()
	if err != nil {
		return DefaultSettings(), err
	}
	return loadFrom(path)
}

func loadFrom(path string) (Settings, error) {
	settings := DefaultSettings()

	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return settings, err
	}
	if len(strings.TrimSpace(string(data))) > 0 {
		var file fileConfig
		if err := json5.Unmarshal(data, &file); err != nil {
			return settings, fmt.Errorf("parse %s: %w", path, err)
		}
		applyFile(&settings, file)
	}

	applyEnv(&settings)
	return settings, nil
}

func applyFile(settings *Settings, file fileConfig) {
	setString(&settings.Proxy.Host, file.ProxyHost)
	setString(&settings.Proxy.Port, file.ProxyPort)
	setString(&settings.Proxy.User, file.ProxyUser)
	setString(&settings.Proxy.Pass, file.ProxyPass)
	setString(&settings.ProxyScope, file.ProxyScope)
	setString(&settings.Target, file.Target)
	setString(&settings.TargetTLS, file.TargetTLS)
	setString(&settings.DelayTarget, file.DelayTarget)
	setString(&settings.PageTarget, file.PageTarget)
	if d, err := time.ParseDuration(file.Timeout); err == nil && d > 0 {
		settings.Timeout = d
	}
	if file.Requests > 0 {
		settings.Requests = file.Requests
	}
}

func applyEnv(settings *Settings) {
	settings.Proxy.Host = envString("PROXY_HOST", settings.Proxy.Host)
	settings.Proxy.Port = envString("PROXY_PORT", settings.Proxy.Port)
	settings.Proxy.User = envString("PROXY_USER", settings.Proxy.User)
	settings.Proxy.Pass = envString("PROXY_PASS", settings.Proxy.Pass)
	settings.ProxyScope = envString("PROXYPROBE_PROXY_SCOPE", settings.ProxyScope)
	settings.Target = envString("PROXYPROBE_TARGET", settings.Target)
	settings.TargetTLS = envString("PROXYPROBE_TARGET_TLS", settings.TargetTLS)
	settings.DelayTarget = envString("PROXYPROBE_DELAY_TARGET", settings.DelayTarget)
	settings.PageTarget = envString("PROXYPROBE_PAGE_TARGET", settings.PageTarget)
	settings.Timeout = envDuration("PROXYPROBE_TIMEOUT", settings.Timeout)
	settings.Requests = envInt("PROXYPROBE_REQUESTS", settings.Requests)
	settings.InsecureTLS = envBool("PROXYPROBE_INSECURE", settings.InsecureTLS)
}

// Init writes default config.json and proxies.txt if they don't already exist.
func Init() ([]string, error) {
	var created []string

	dir, err := ConfigDir()
	if err != nil {
		return created, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return created, err
	}

	configPath := filepath.Join(dir, ConfigFileName)
	if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
		if err := writeDefaultConfig(configPath); err != nil {
			return created, err
		}
		created = append(created, configPath)
	}

	proxiesPath := filepath.Join(dir, ProxiesFileName)
	if _, err := os.Stat(proxiesPath); errors.Is(err, os.ErrNotExist) {
		if err := os.WriteFile(proxiesPath, []byte(""), 0o644); err != nil {
			return created, err
		}
		created = append(created, proxiesPath)
	}

	return created, nil
}

func writeDefaultConfig(path string) error {
	defaults := DefaultSettings()
	file := fileConfig{
		ProxyHost:   defaults.Proxy.Host,
		ProxyPort:   defaults.Proxy.Port,
		ProxyUser:   defaults.Proxy.User,
		ProxyPass:   defaults.Proxy.Pass,
		ProxyScope:  defaults.ProxyScope,
		Target:      defaults.Target,
		TargetTLS:   defaults.TargetTLS,
		DelayTarget: defaults.DelayTarget,
		PageTarget:  defaults.PageTarget,
		Timeout:     defaults.Timeout.String(),
		Requests:    defaults.Requests,
	}
	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// LoadProxies returns extra proxy URLs for the check command: the flag value
// if given, then PROXYPROBE_PROXIES, then proxies.txt.
func LoadProxies(flagValue string) ([]string, error) {
	if strings.TrimSpace(flagValue) != "" {
		return splitCSV(flagValue), nil
	}

	if env := strings.TrimSpace(os.Getenv("PROXYPROBE_PROXIES")); env != "" {
		return splitCSV(env), nil
	}

	path, err := ProxiesPath()
	if err != nil {
		return nil, err
	}
	return readProxiesFile(path)
}

func readProxiesFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var proxies []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		proxies = append(proxies, line)
	}
	return proxies, nil
}

func setString(dst *string, value string) {
	if strings.TrimSpace(value) != "" {
		*dst = value
	}
}

func envString(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func envInt(key string, fallback int) int {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func envDuration(key string, fallback time.Duration) time.Duration {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(val)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}

func envBool(key string, fallback bool) bool {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return fallback
	}
	switch strings.ToLower(val) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}
