package lexicon

import (
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Lexicon stores the closed vocabulary the annotator relies on:
// - Lemmas: inflected forms mapped to a canonical lemma (departing → depart)
// - Numbers: number words and their values (two → 2)
// - Classes: closed-class words and their part of speech (from → ADP)
// - Entities: words that mark a date or time phrase (tomorrow → DATE)
//
// All lookups are case-insensitive.
type Lexicon struct {
	// canonical -> all variants (including canonical itself)
	synonyms map[string][]string

	// variant -> canonical
	reverseIndex map[string]string

	numbers  map[string]int
	classes  map[string]string
	entities map[string]string
}

// New creates an empty lexicon.
func New() *Lexicon {
	return &Lexicon{
		synonyms:     make(map[string][]string),
		reverseIndex: make(map[string]string),
		numbers:      make(map[string]int),
		classes:      make(map[string]string),
		entities:     make(map[string]string),
	}
}

// File is the YAML layout of a lexicon.
//
//	lemmas:
//	  - canonical: depart
//	    variants: [departs, departing, departed]
//	numbers:
//	  two: 2
//	classes:
//	  ADP: [from, to, at]
//	entities:
//	  DATE: [today, tomorrow]
type File struct {
	Lemmas []struct {
		Canonical string   `yaml:"canonical"`
		Variants  []string `yaml:"variants"`
	} `yaml:"lemmas"`
	Numbers  map[string]int      `yaml:"numbers"`
	Classes  map[string][]string `yaml:"classes"`
	Entities map[string][]string `yaml:"entities"`
}

// LoadFromYAML loads a lexicon file and merges it over the built-in
// vocabulary, so a file only needs to list additions.
func LoadFromYAML(path string) (*Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	lex := Default()
	lex.Apply(f)
	return lex, nil
}

// Apply merges the entries of f into l.
// Variants of a lemma already known are added to its group.
func (l *Lexicon) Apply(f File) {
	for _, entry := range f.Lemmas {
		variants := entry.Variants
		if held, ok := l.synonyms[strings.ToLower(entry.Canonical)]; ok {
			variants = append(append([]string(nil), held...), variants...)
		}
		l.AddSynonymGroup(entry.Canonical, variants)
	}
	for w, n := range f.Numbers {
		l.AddNumber(w, n)
	}
	for class, words := range f.Classes {
		for _, w := range words {
			l.AddClass(w, class)
		}
	}
	for ent, words := range f.Entities {
		for _, w := range words {
			l.AddEntity(w, ent)
		}
	}
}

// AddSynonymGroup adds a lemma with its variants. The canonical form is
// always included as the first entry. An existing group is replaced.
func (l *Lexicon) AddSynonymGroup(canonical string, variants []string) {
	canonical = strings.ToLower(canonical)

	if oldVariants, exists := l.synonyms[canonical]; exists {
		for _, oldV := range oldVariants {
			delete(l.reverseIndex, oldV)
		}
	}

	normalized := make([]string, 0, len(variants)+1)
	seen := make(map[string]bool)
	normalized = append(normalized, canonical)
	seen[canonical] = true
	for _, v := range variants {
		v = strings.ToLower(v)
		if !seen[v] {
			normalized = append(normalized, v)
			seen[v] = true
		}
	}

	l.synonyms[canonical] = normalized
	for _, v := range normalized {
		l.reverseIndex[v] = canonical
	}
}

// AddNumber registers a number word.
func (l *Lexicon) AddNumber(word string, value int) {
	l.numbers[strings.ToLower(word)] = value
}

// AddClass registers the part of speech of a closed-class word.
func (l *Lexicon) AddClass(word, class string) {
	l.classes[strings.ToLower(word)] = strings.ToUpper(class)
}

// AddEntity registers a word as part of a DATE or TIME phrase.
func (l *Lexicon) AddEntity(word, ent string) {
	l.entities[strings.ToLower(word)] = strings.ToUpper(ent)
}

// Normalize returns the lemma of a token.
// If the token is not in the lexicon, returns the token itself.
//
// Examples:
//   - Normalize("departing") -> "depart"
//   - Normalize("unknown") -> "unknown"
func (l *Lexicon) Normalize(token string) string {
	token = strings.ToLower(token)
	if canonical, ok := l.reverseIndex[token]; ok {
		return canonical
	}
	return token
}

// Variants returns all known forms of a token (including the canonical form).
func (l *Lexicon) Variants(token string) []string {
	token = strings.ToLower(token)
	if variants, ok := l.synonyms[token]; ok {
		return variants
	}
	if canonical, ok := l.reverseIndex[token]; ok {
		if variants, ok := l.synonyms[canonical]; ok {
			return variants
		}
	}
	return []string{token}
}

// Number returns the value of a number word.
func (l *Lexicon) Number(word string) (int, bool) {
	n, ok := l.numbers[strings.ToLower(word)]
	return n, ok
}

// Class returns the part of speech of a closed-class word.
func (l *Lexicon) Class(word string) (string, bool) {
	c, ok := l.classes[strings.ToLower(word)]
	return c, ok
}

// Entity returns the entity type a word marks.
func (l *Lexicon) Entity(word string) (string, bool) {
	e, ok := l.entities[strings.ToLower(word)]
	return e, ok
}

// Words returns every word registered under class, sorted.
func (l *Lexicon) Words(class string) []string {
	class = strings.ToUpper(class)
	var out []string
	for w, c := range l.classes {
		if c == class {
			out = append(out, w)
		}
	}
	sort.Strings(out)
	return out
}

// Stats returns statistics about the lexicon contents.
func (l *Lexicon) Stats() Stats {
	totalVariants := 0
	for _, variants := range l.synonyms {
		totalVariants += len(variants)
	}
	return Stats{
		LemmaGroups:   len(l.synonyms),
		TotalVariants: totalVariants,
		Numbers:       len(l.numbers),
		ClassWords:    len(l.classes),
		EntityWords:   len(l.entities),
	}
}

// Stats holds statistics about lexicon contents.
type Stats struct {
	LemmaGroups   int
	TotalVariants int
	Numbers       int
	ClassWords    int
	EntityWords   int
}
