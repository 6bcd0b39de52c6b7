package apiclient

import (
	"net/http"

	"github.com/markdave123-py/chatdesk/internal/apierr"
)

// Locale selects the language of HTTP error messages.
type Locale string

const (
	LocaleZH Locale = "zh"
	LocaleEN Locale = "en"
)

// errorTemplate renders as "Prefix: detail", using Default when the server sent no detail.
type errorTemplate struct {
	Prefix  string
	Default string
}

func (t errorTemplate) render(detail string) string {
	if detail == "" {
		detail = t.Default
	}
	return t.Prefix + ": " + detail
}

var errorTemplates = map[Locale]map[int]errorTemplate{
	LocaleZH: {
		http.StatusBadRequest:          {Prefix: "请求参数错误", Default: "请检查输入内容"},
		http.StatusUnauthorized:        {Prefix: "API密钥无效", Default: "请检查API密钥是否正确"},
		http.StatusPaymentRequired:     {Prefix: "账户余额不足或需要付费", Default: "请检查DeepSeek账户余额或付费状态"},
		http.StatusForbidden:           {Prefix: "访问被拒绝", Default: "请检查API权限"},
		http.StatusTooManyRequests:     {Prefix: "请求频率过高", Default: "请稍后再试"},
		http.StatusInternalServerError: {Prefix: "服务器内部错误", Default: "请稍后重试"},
		http.StatusBadGateway:          {Prefix: "服务暂时不可用", Default: "请稍后重试"},
		http.StatusServiceUnavailable:  {Prefix: "服务暂时不可用", Default: "请稍后重试"},
		http.StatusGatewayTimeout:      {Prefix: "服务暂时不可用", Default: "请稍后重试"},
	},
	LocaleEN: {
		http.StatusBadRequest:          {Prefix: "Invalid request parameters", Default: "please check your input"},
		http.StatusUnauthorized:        {Prefix: "Invalid API key", Default: "please check that the API key is correct"},
		http.StatusPaymentRequired:     {Prefix: "Insufficient balance or payment required", Default: "please check the account balance or billing status"},
		http.StatusForbidden:           {Prefix: "Access denied", Default: "please check API permissions"},
		http.StatusTooManyRequests:     {Prefix: "Too many requests", Default: "please try again later"},
		http.StatusInternalServerError: {Prefix: "Internal server error", Default: "please retry later"},
		http.StatusBadGateway:          {Prefix: "Service temporarily unavailable", Default: "please retry later"},
		http.StatusServiceUnavailable:  {Prefix: "Service temporarily unavailable", Default: "please retry later"},
		http.StatusGatewayTimeout:      {Prefix: "Service temporarily unavailable", Default: "please retry later"},
	},
}

// ParseLocale maps a config value to a supported locale, defaulting to Chinese.
func ParseLocale(s string) Locale {
	if _, ok := errorTemplates[Locale(s)]; ok {
		return Locale(s)
	}
	return LocaleZH
}

// ErrorMessage builds the user-facing message for a failed response.
func ErrorMessage(locale Locale, statusCode int, statusText, detail string) string {
	templates, ok := errorTemplates[locale]
	if !ok {
		templates = errorTemplates[LocaleZH]
	}
	if tmpl, ok := templates[statusCode]; ok {
		return tmpl.render(detail)
	}
	return apierr.GenericMessage(statusCode, statusText, detail)
}
