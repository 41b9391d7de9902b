// Package catalog holds the chapters and lessons a student can pick from,
// plus the allowed question counts.
package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed tinhoc11.yaml
var defaultYAML []byte

// Chapter groups lessons under a topic title.
type Chapter struct {
	Title   string   `yaml:"title" json:"title"`
	Lessons []string `yaml:"lessons" json:"lessons"`
}

// Catalog is the full selection offered on the setup form.
type Catalog struct {
	Chapters       []Chapter `yaml:"chapters" json:"chapters"`
	QuestionCounts []int     `yaml:"question_counts" json:"questionCounts"`
	DefaultCount   int       `yaml:"default_count" json:"defaultCount"`
}

// Default returns the embedded Tin học 11 catalog.
func Default() *Catalog {
	c, err := Parse(defaultYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded catalog: %v", err))
	}
	return c
}

// Load reads a catalog file, or returns Default when path is empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML catalog.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks structural invariants and returns every problem found.
func (c *Catalog) Validate() error {
	var errs []string

	if len(c.Chapters) == 0 {
		errs = append(errs, "no chapters")
	}
	chapters := make(map[string]bool)
	lessons := make(map[string]string)
	for _, ch := range c.Chapters {
		if strings.TrimSpace(ch.Title) == "" {
			errs = append(errs, "chapter with empty title")
		}
		if chapters[ch.Title] {
			errs = append(errs, fmt.Sprintf("duplicate chapter %q", ch.Title))
		}
		chapters[ch.Title] = true
		if len(ch.Lessons) == 0 {
			errs = append(errs, fmt.Sprintf("chapter %q has no lessons", ch.Title))
		}
		for _, l := range ch.Lessons {
			if strings.TrimSpace(l) == "" {
				errs = append(errs, fmt.Sprintf("chapter %q has an empty lesson", ch.Title))
				continue
			}
			if prev, ok := lessons[l]; ok {
				errs = append(errs, fmt.Sprintf("lesson %q appears in %q and %q", l, prev, ch.Title))
			}
			lessons[l] = ch.Title
		}
	}

	if len(c.QuestionCounts) == 0 {
		errs = append(errs, "no question counts")
	}
	for _, n := range c.QuestionCounts {
		if n <= 0 {
			errs = append(errs, fmt.Sprintf("question count %d must be positive", n))
		}
	}
	if !slices.Contains(c.QuestionCounts, c.DefaultCount) {
		errs = append(errs, fmt.Sprintf("default count %d is not an allowed count", c.DefaultCount))
	}

	if len(errs) > 0 {
		return fmt.Errorf("catalog validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}

// Chapter returns the chapter with the given title.
func (c *Catalog) Chapter(title string) (Chapter, bool) {
	for _, ch := range c.Chapters {
		if ch.Title == title {
			return ch, true
		}
	}
	return Chapter{}, false
}

// Lessons returns the lessons of a chapter, or nil if unknown.
func (c *Catalog) Lessons(chapter string) []string {
	ch, ok := c.Chapter(chapter)
	if !ok {
		return nil
	}
	return ch.Lessons
}

// ChapterOf returns the title of the chapter containing lesson.
func (c *Catalog) ChapterOf(lesson string) (string, bool) {
	for _, ch := range c.Chapters {
		if slices.Contains(ch.Lessons, lesson) {
			return ch.Title, true
		}
	}
	return "", false
}

// AllowsCount reports whether n is one of the enumerated question counts.
func (c *Catalog) AllowsCount(n int) bool {
	return slices.Contains(c.QuestionCounts, n)
}

// LessonCount is the total number of lessons across chapters.
func (c *Catalog) LessonCount() int {
	n := 0
	for _, ch := range c.Chapters {
		n += len(ch.Lessons)
	}
	return n
}
