package model

import "strings"

// DefaultAttributes is the vocabulary used when none is configured.
var DefaultAttributes = []string{
	"C", "C#", "C++", "Go", "Java", "JavaScript", "Kotlin", "Python", "Rust", "Swift", "TypeScript",
	"Angular", "Django", "Flask", "Node.js", "React", "Spring", "Vue",
	"Pygame", "Unity", "Unreal Engine",
	"AWS", "Docker", "Kubernetes", "MongoDB", "PostgreSQL",
	"Backend", "Data Science", "Design", "Frontend", "Game Development", "Machine Learning", "Mobile",
}

// Vocabulary is a static set of recognized attributes.
type Vocabulary struct {
	attributes Set
}

// NewVocabulary builds a vocabulary. Blank entries are ignored.
func NewVocabulary(attributes ...string) *Vocabulary {
	v := &Vocabulary{attributes: Set{}}
	for _, a := range attributes {
		if a = strings.TrimSpace(a); a != "" {
			v.attributes.Add(a)
		}
	}
	return v
}

// Recognizes reports whether attribute is part of the vocabulary.
func (v *Vocabulary) Recognizes(attribute string) bool {
	return v.attributes.Has(attribute)
}

// Attributes returns the vocabulary in lexical order.
func (v *Vocabulary) Attributes() []string {
	return v.attributes.Values()
}
