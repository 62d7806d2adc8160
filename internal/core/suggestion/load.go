package suggestion

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/bmatcuk/doublestar/v4"
)

// payload mirrors the platform's suggestion JSON.
type payload struct {
	SuggestionID     string        `json:"suggestion_id"`
	TargetID         string        `json:"target_id"`
	Status           string        `json:"status"`
	AuthorName       string        `json:"author_name"`
	LanguageCode     string        `json:"language_code"`
	LastUpdatedMsecs float64       `json:"last_updated_msecs"`
	Change           changePayload `json:"change"`
}

type changePayload struct {
	ContentID       string `json:"content_id"`
	StateName       string `json:"state_name"`
	TranslationHTML string `json:"translation_html"`
	ContentHTML     string `json:"content_html"`
}

type document struct {
	Suggestions []payload `json:"suggestions"`
}

// Decode parses a queue document. Both `{"suggestions": [...]}` and a bare
// array of suggestions are accepted.
func Decode(data []byte) ([]Suggestion, error) {
	var items []payload

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, fmt.Errorf("decode suggestions: %w", err)
		}
	} else {
		var doc document
		if err := json.Unmarshal(trimmed, &doc); err != nil {
			return nil, fmt.Errorf("decode suggestions: %w", err)
		}
		items = doc.Suggestions
	}

	out := make([]Suggestion, 0, len(items))
	for i, p := range items {
		if p.SuggestionID == "" {
			return nil, fmt.Errorf("suggestion %d: suggestion_id is required", i)
		}
		out = append(out, p.toSuggestion())
	}
	return out, nil
}

func (p payload) toSuggestion() Suggestion {
	s := Suggestion{
		ID:           p.SuggestionID,
		TargetID:     p.TargetID,
		Status:       ParseStatus(p.Status),
		AuthorName:   p.AuthorName,
		LanguageCode: p.LanguageCode,
		Change: Change{
			ContentID:       p.Change.ContentID,
			StateName:       p.Change.StateName,
			TranslationHTML: p.Change.TranslationHTML,
			ContentHTML:     p.Change.ContentHTML,
		},
	}
	if p.LastUpdatedMsecs > 0 {
		s.LastUpdated = time.UnixMilli(int64(p.LastUpdatedMsecs))
	}
	return s
}

// LoadFiles expands the glob patterns, reads every matching file and returns
// the suggestions in file order. Patterns are relative to root unless
// absolute. Duplicate suggestion ids across files are an error.
func LoadFiles(root string, patterns []string) ([]Suggestion, error) {
	paths, err := expand(root, patterns)
	if err != nil {
		return nil, err
	}

	if len(paths) == 0 {
		return nil, fmt.Errorf("no queue files match %v", patterns)
	}

	var (
		out  []Suggestion
		seen = make(map[string]string)
	)
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read queue file: %w", err)
		}

		items, err := Decode(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}

		for _, s := range items {
			if prev, ok := seen[s.ID]; ok {
				return nil, fmt.Errorf("duplicate suggestion %q in %s (first seen in %s)", s.ID, path, prev)
			}
			seen[s.ID] = path
			out = append(out, s)
		}
	}

	return out, nil
}

func expand(root string, patterns []string) ([]string, error) {
	var paths []string
	seen := make(map[string]bool)

	for _, pattern := range patterns {
		if !doublestar.ValidatePattern(filepath.ToSlash(pattern)) {
			return nil, fmt.Errorf("invalid queue pattern %q", pattern)
		}

		base, rel := root, filepath.ToSlash(pattern)
		if filepath.IsAbs(pattern) {
			base, rel = doublestar.SplitPattern(rel)
		}

		matches, err := doublestar.Glob(os.DirFS(base), rel, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("glob %q: %w", pattern, err)
		}
		sort.Strings(matches)

		for _, m := range matches {
			full := filepath.Join(base, filepath.FromSlash(m))
			if !seen[full] {
				seen[full] = true
				paths = append(paths, full)
			}
		}
	}

	return paths, nil
}
