package email

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"
)

//go:embed templates/*
var templateFS embed.FS

// Renderer renders named templates from the embedded templates folder. Each
// name has a _subject.txt, a .txt and a .html file.
type Renderer struct{}

// NewRenderer creates a new Renderer.
func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render executes the named template with data.
func (r *Renderer) Render(name, to string, data any) (Message, error) {
	subject, err := r.renderText(name+"_subject.txt", data)
	if err != nil {
		return Message{}, fmt.Errorf("render subject: %w", err)
	}
	text, err := r.renderText(name+".txt", data)
	if err != nil {
		return Message{}, fmt.Errorf("render text: %w", err)
	}
	html, err := r.renderHTML(name+".html", data)
	if err != nil {
		return Message{}, fmt.Errorf("render html: %w", err)
	}
	return Message{To: to, Subject: strings.TrimSpace(subject), Text: text, HTML: html}, nil
}

func (r *Renderer) renderText(file string, data any) (string, error) {
	raw, err := templateFS.ReadFile("templates/" + file)
	if err != nil {
		return "", err
	}
	t, err := texttemplate.New(file).Parse(string(raw))
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (r *Renderer) renderHTML(file string, data any) (string, error) {
	raw, err := templateFS.ReadFile("templates/" + file)
	if err != nil {
		return "", err
	}
	t, err := htmltemplate.New(file).Parse(string(raw))
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
