package core

import (
	"regexp"
	"strings"
)

// placeholderRe matches {{placeholder}} tokens with optional inner spacing.
var placeholderRe = regexp.MustCompile(`\{\{\s*([a-zA-Z][a-zA-Z0-9_]*)\s*\}\}`)

// RenderTemplate substitutes contact fields into the template content.
// Supported placeholders: {{firstName}}, {{lastName}}, {{fullName}},
// {{company}}, {{email}}. Unknown placeholders are left intact so the
// caller can spot unresolved tokens before sending.
func RenderTemplate(content string, c Contact) string {
	return placeholderRe.ReplaceAllStringFunc(content, func(token string) string {
		name := placeholderRe.FindStringSubmatch(token)[1]
		switch strings.ToLower(name) {
		case "firstname", "first_name":
			return c.FirstName
		case "lastname", "last_name":
			return c.LastName
		case "fullname", "full_name", "name":
			return c.FullName()
		case "company":
			return c.Company
		case "email":
			return c.Email
		default:
			return token
		}
	})
}

// TemplateVariables extracts the distinct placeholder names used in the
// content, in order of first appearance.
func TemplateVariables(content string) []string {
	seen := make(map[string]bool)
	var vars []string
	for _, match := range placeholderRe.FindAllStringSubmatch(content, -1) {
		name := match[1]
		if !seen[name] {
			seen[name] = true
			vars = append(vars, name)
		}
	}
	return vars
}
