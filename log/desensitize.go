package log

import (
	"fmt"
	"io"
	"regexp"
)

// 内置规则名称
const (
	RuleBotTokenURL = "bot_token_url"
	RuleBotToken    = "bot_token"
	RuleTokenField  = "token_field"
)

// Rule 一条脱敏规则: 匹配 pattern 的内容替换为 replacement
type Rule struct {
	name        string
	pattern     *regexp.Regexp
	replacement []byte
}

func (r Rule) Name() string {
	return r.name
}

// ContentRule 按正则匹配内容
func ContentRule(name, pattern, replacement string) (Rule, error) {
	if name == "" {
		return Rule{}, fmt.Errorf("rule name cannot be empty")
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return Rule{}, fmt.Errorf("rule %s: invalid pattern: %w", name, err)
	}
	return Rule{name: name, pattern: re, replacement: []byte(replacement)}, nil
}

// FieldRule 屏蔽 JSON 字段 field 的字符串值, 保留字段名
func FieldRule(field string) (Rule, error) {
	if field == "" {
		return Rule{}, fmt.Errorf("field name cannot be empty")
	}
	return ContentRule(field+"_field", `("`+regexp.QuoteMeta(field)+`"\s*:\s*")(?:[^"\\]|\\.)*"`, `${1}***"`)
}

// Desensitizer 按添加顺序执行规则, 构造后只读, 可并发使用
type Desensitizer struct {
	rules []Rule
}

func NewDesensitizer(rules ...Rule) *Desensitizer {
	return &Desensitizer{rules: rules}
}

// DefaultDesensitizer 屏蔽请求 URL、错误信息和 JSON token 字段中的 bot token
func DefaultDesensitizer() *Desensitizer {
	return NewDesensitizer(
		Rule{name: RuleBotTokenURL, pattern: regexp.MustCompile(`bot\d+:[A-Za-z0-9_-]+`), replacement: []byte("bot***")},
		Rule{name: RuleBotToken, pattern: regexp.MustCompile(`\b\d{5,}:[A-Za-z0-9_-]{20,}\b`), replacement: []byte("***")},
		Rule{name: RuleTokenField, pattern: regexp.MustCompile(`("token"\s*:\s*")(?:[^"\\]|\\.)*"`), replacement: []byte(`${1}***"`)},
	)
}

// With 返回追加了 rules 的新 Desensitizer
func (d *Desensitizer) With(rules ...Rule) *Desensitizer {
	merged := make([]Rule, 0, len(d.rules)+len(rules))
	merged = append(merged, d.rules...)
	return NewDesensitizer(append(merged, rules...)...)
}

// Rules 按执行顺序返回规则名称
func (d *Desensitizer) Rules() []string {
	names := make([]string, len(d.rules))
	for i, r := range d.rules {
		names[i] = r.name
	}
	return names
}

func (d *Desensitizer) Desensitize(text string) string {
	return string(d.apply([]byte(text)))
}

func (d *Desensitizer) apply(p []byte) []byte {
	for _, r := range d.rules {
		p = r.pattern.ReplaceAll(p, r.replacement)
	}
	return p
}

// MaskConfig 日志脱敏配置
type MaskConfig struct {
	// Disabled 关闭全部脱敏, 包括内置 token 规则
	Disabled bool `json:"disabled" mapstructure:"disabled"`
	// Fields 额外屏蔽的 JSON 字段, 如 phone_number
	Fields []string `json:"fields" mapstructure:"fields"`
}

// Desensitizer 根据配置构造; Disabled 时返回 nil
func (c MaskConfig) Desensitizer() (*Desensitizer, error) {
	if c.Disabled {
		return nil, nil
	}

	rules := make([]Rule, 0, len(c.Fields))
	for _, field := range c.Fields {
		rule, err := FieldRule(field)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return DefaultDesensitizer().With(rules...), nil
}

type desensitizeWriter struct {
	w io.Writer
	d *Desensitizer
}

// NewDesensitizeWriter 写入前对每条日志脱敏
func NewDesensitizeWriter(w io.Writer, d *Desensitizer) io.Writer {
	return &desensitizeWriter{w: w, d: d}
}

func (w *desensitizeWriter) Write(p []byte) (int, error) {
	if _, err := w.w.Write(w.d.apply(p)); err != nil {
		return 0, err
	}
	return len(p), nil
}
