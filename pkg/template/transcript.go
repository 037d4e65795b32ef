package template

import "strings"

// Transcript accumulates the plain-text view of a document. Append only.
type Transcript struct {
	content   strings.Builder
	modifiers map[string]map[int][]string
}

// NewTranscript 创建空转写
func NewTranscript() *Transcript {
	return &Transcript{modifiers: make(map[string]map[int][]string)}
}

// Append adds a text fragment to the content and records it under kind/step.
func (t *Transcript) Append(kind string, step int, fragment string) {
	if t.content.Len() > 0 {
		t.content.WriteString("\n")
	}
	t.content.WriteString(fragment)
	t.Note(kind, step, fragment)
}

// Note records a fragment under kind/step without adding it to the content.
func (t *Transcript) Note(kind string, step int, fragment string) {
	steps, ok := t.modifiers[kind]
	if !ok {
		steps = make(map[int][]string)
		t.modifiers[kind] = steps
	}
	steps[step] = append(steps[step], fragment)
}

// Content 返回累计的纯文本
func (t *Transcript) Content() string {
	return t.content.String()
}

// Modifiers 返回按修饰器类型和步骤索引分组的文本片段
func (t *Transcript) Modifiers() map[string]map[int][]string {
	return t.modifiers
}
