package util

import (
	"fmt"
	"strings"
	"text/template"
)

// RenderTemplate renders a Go text/template with the given data. Persona
// instructions use it to splice session state into system prompts, so the
// output must stay verbatim text rather than HTML-escaped markup.
func RenderTemplate(tmplStr string, data map[string]any) (string, error) {
	tmpl, err := template.New("instruction").Funcs(templateFuncs()).Parse(tmplStr)
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	var buf strings.Builder
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}

// templateFuncs returns the helper functions available inside instruction
// templates.
func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"default": func(defaultValue, value any) any {
			if value == nil || value == "" {
				return defaultValue
			}
			return value
		},
		"upper": strings.ToUpper,
		"lower": strings.ToLower,
		"title": func(s string) string {
			if s == "" {
				return s
			}
			words := strings.Fields(s)
			for i, w := range words {
				words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
			}
			return strings.Join(words, " ")
		},
		"join": func(sep string, items []any) string {
			strs := make([]string, len(items))
			for i, item := range items {
				strs[i] = fmt.Sprintf("%v", item)
			}
			return strings.Join(strs, sep)
		},
	}
}
