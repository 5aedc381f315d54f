package llm

import (
	"bytes"
	"encoding/json"
	"text/template"

	"github.com/swaggest/jsonschema-go"
)

// PromptTemplate represents a prompt template.
// It uses Go's text/template syntax for placeholders, so rendered values are
// inserted verbatim (no HTML escaping of code blocks or quotes).
type PromptTemplate struct {
	Template string // The prompt template with placeholders
}

// NewPromptTemplate creates a new PromptTemplate with the given template string
func NewPromptTemplate(template string) PromptTemplate {
	return PromptTemplate{
		Template: template,
	}
}

// NewPromptTemplateRendered creates and renders a new PromptTemplate with the given inputs
func NewPromptTemplateRendered(template string, inputs map[string]any) (string, error) {
	return NewPromptTemplate(template).Render(inputs)
}

// Render fills the template with the provided inputs
func (pt PromptTemplate) Render(inputs map[string]any) (string, error) {
	tmpl, err := template.New("prompt").Option("missingkey=error").Parse(pt.Template)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, inputs); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// MustRender is like Render but panics on error.
// Use it only with templates and inputs fixed at compile time.
func (pt PromptTemplate) MustRender(inputs map[string]any) string {
	s, err := pt.Render(inputs)
	if err != nil {
		panic(err)
	}
	return s
}

// RenderWithJSONSchemaFor fills the template with the provided inputs
// and adds a JSON schema representation of the provided value 's' under the key "JSONSchema".
func (pt PromptTemplate) RenderWithJSONSchemaFor(inputs map[string]any, s any) (string, error) {
	reflector := jsonschema.Reflector{}

	schema, err := reflector.Reflect(s)
	if err != nil {
		return "", err
	}

	j, err := json.Marshal(schema)
	if err != nil {
		return "", err
	}

	if inputs == nil {
		inputs = map[string]any{}
	}
	inputs["JSONSchema"] = string(j)
	return pt.Render(inputs)
}
