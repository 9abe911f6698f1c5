package ai

import (
	"bytes"
	_ "embed"
	"fmt"
	"text/template"
)

//go:embed prompts/writer.txt
var writerPrompt string

//go:embed prompts/checker.txt
var checkerPrompt string

var (
	writerTmpl  = template.Must(template.New("writer").Parse(writerPrompt))
	checkerTmpl = template.Must(template.New("checker").Parse(checkerPrompt))
)

// WriterPrompt renders the narrative-generation prompt for one turn.
func WriterPrompt(env *Envelope) (string, error) {
	var buf bytes.Buffer
	if err := writerTmpl.Execute(&buf, env); err != nil {
		return "", fmt.Errorf("render writer prompt: %w", err)
	}
	return buf.String(), nil
}

// CheckerPrompt renders the delta-extraction prompt over a narrative.
func CheckerPrompt(env *Envelope, narrative string) (string, error) {
	var buf bytes.Buffer
	data := struct {
		*Envelope
		Narrative string
	}{env, narrative}
	if err := checkerTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render checker prompt: %w", err)
	}
	return buf.String(), nil
}
