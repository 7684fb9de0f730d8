package api

import (
	"encoding/json"
	"fmt"
	"html/template"
	"path/filepath"
	"time"

	"github.com/terraincognita07/onboardly/internal/services"
)

var pageTemplates = []string{
	"onboarding",
	"admin",
	"data",
	"not_found",
}

func newTemplateFuncMap() template.FuncMap {
	return template.FuncMap{
		"t":             templateTranslate,
		"fieldLabel":    templateFieldLabel,
		"formatDate":    formatTemplateDate,
		"formatAddress": formatTemplateAddress,
		"toJSON":        templateToJSON,
		"dict":          templateDict,
	}
}

func parsePageTemplates(templateDir string, funcMap template.FuncMap, pages []string) (map[string]*template.Template, error) {
	templates := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		parsed, err := template.New("base").Funcs(funcMap).ParseFiles(
			filepath.Join(templateDir, "base.html"),
			filepath.Join(templateDir, page+".html"),
		)
		if err != nil {
			return nil, fmt.Errorf("parse page template %s: %w", page, err)
		}
		templates[page] = parsed
	}
	return templates, nil
}

func templateTranslate(messages map[string]string, key string) string {
	return translateMessage(messages, key)
}

func templateFieldLabel(messages map[string]string, field services.FieldIdentifier) string {
	return translateMessage(messages, "field."+field.String())
}

func formatTemplateDate(value *time.Time, layout string) string {
	if value == nil || value.IsZero() {
		return ""
	}
	return value.Format(layout)
}

func formatTemplateAddress(address *services.AddressValue) string {
	if address == nil || address.IsZero() {
		return ""
	}
	return fmt.Sprintf("%s, %s, %s %s", address.StreetAddress, address.City, address.State, address.ZipCode)
}

func templateToJSON(value any) template.JS {
	serialized, err := json.Marshal(value)
	if err != nil {
		return template.JS("null")
	}
	return template.JS(serialized)
}

func templateDict(values ...any) (map[string]any, error) {
	if len(values)%2 != 0 {
		return nil, fmt.Errorf("dict requires key-value pairs")
	}
	result := make(map[string]any, len(values)/2)
	for index := 0; index < len(values); index += 2 {
		key, ok := values[index].(string)
		if !ok {
			return nil, fmt.Errorf("dict key at index %d is not a string", index)
		}
		result[key] = values[index+1]
	}
	return result, nil
}
