package services

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"recroai/backend/internal/models"
)

// FixedCategories is the strict category key set the scoring contract
// requires. A response whose category_scores keys differ from this set is
// rejected, never coerced.
var FixedCategories = []string{"skills", "experience", "education", "company_match"}

const minReasoningLength = 10

// StripFences removes a leading/trailing triple-backtick fence (with or
// without a language tag) and surrounding whitespace. It performs no
// deeper repair: no bracket balancing, no trailing-comma removal.
func StripFences(raw string) string {
	t := strings.TrimSpace(raw)
	if strings.HasPrefix(t, "```") {
		t = strings.TrimPrefix(t, "```")
		if i := strings.IndexByte(t, '\n'); i >= 0 {
			tag := strings.TrimSpace(t[:i])
			if tag != "" && !strings.ContainsAny(tag, "{[\"") {
				t = t[i+1:]
			}
		} else {
			t = strings.TrimPrefix(t, "json")
		}
	}
	t = strings.TrimSpace(t)
	t = strings.TrimSuffix(t, "```")
	return strings.TrimSpace(t)
}

// ParseScoringDocument extracts the generic JSON document from a raw
// completion. The result is untyped on purpose: nothing past this point
// is trusted until ValidateScoringDocument has accepted it.
func ParseScoringDocument(raw string) (map[string]any, error) {
	cleaned := StripFences(raw)

	var doc map[string]any
	if err := json.Unmarshal([]byte(cleaned), &doc); err != nil {
		return nil, fmt.Errorf("%w: %v (response: %s)", ErrMalformedOutput, err, previewText(cleaned, 200))
	}
	return doc, nil
}

// ValidateScoringDocument checks a parsed document against the scoring
// contract and maps it to a typed result. requiredCategories, when
// non-nil, must match the document's category keys exactly; nil allows
// any non-empty caller-defined set. Validation is pure: it never mutates
// the document or fills in missing fields.
func ValidateScoringDocument(doc map[string]any, requiredCategories []string, minExplanation int) (*models.ScoringResult, error) {
	totalRaw, ok := doc["total_score"]
	if !ok {
		return nil, fmt.Errorf("%w: missing total_score", ErrValidation)
	}
	total, ok := asFloat(totalRaw)
	if !ok {
		return nil, fmt.Errorf("%w: total_score must be numeric", ErrValidation)
	}
	if total < 0 || total > 100 {
		return nil, fmt.Errorf("%w: total_score %v out of range [0,100]", ErrValidation, total)
	}

	explanationRaw, ok := doc["explanation"]
	if !ok {
		return nil, fmt.Errorf("%w: missing explanation", ErrValidation)
	}
	explanation, ok := explanationRaw.(string)
	if !ok {
		return nil, fmt.Errorf("%w: explanation must be a string", ErrValidation)
	}
	if len(strings.TrimSpace(explanation)) < minExplanation {
		return nil, fmt.Errorf("%w: explanation shorter than %d characters", ErrValidation, minExplanation)
	}

	categoriesRaw, ok := doc["category_scores"]
	if !ok {
		return nil, fmt.Errorf("%w: missing category_scores", ErrValidation)
	}
	categories, ok := categoriesRaw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: category_scores must be an object", ErrValidation)
	}
	if len(categories) == 0 {
		return nil, fmt.Errorf("%w: category_scores must not be empty", ErrValidation)
	}

	if requiredCategories != nil {
		if err := checkCategoryKeys(categories, requiredCategories); err != nil {
			return nil, err
		}
	}

	scores := make(models.CategoryScoreMap, len(categories))
	for name, entryRaw := range categories {
		if strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("%w: category name must not be empty", ErrValidation)
		}
		entry, ok := entryRaw.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: category %q must be an object with score and reasoning", ErrValidation, name)
		}
		score, ok := asFloat(entry["score"])
		if !ok {
			return nil, fmt.Errorf("%w: category %q score must be numeric", ErrValidation, name)
		}
		if score < 0 || score > 100 {
			return nil, fmt.Errorf("%w: category %q score %v out of range [0,100]", ErrValidation, name, score)
		}
		reasoning, _ := entry["reasoning"].(string)
		if len(strings.TrimSpace(reasoning)) < minReasoningLength {
			return nil, fmt.Errorf("%w: category %q reasoning is missing or too short", ErrValidation, name)
		}
		scores[name] = models.CategoryScore{Score: score, Reasoning: reasoning}
	}

	strengths, err := asStringList(doc["strengths"], "strengths")
	if err != nil {
		return nil, err
	}
	weaknesses, err := asStringList(doc["weaknesses"], "weaknesses")
	if err != nil {
		return nil, err
	}

	return &models.ScoringResult{
		TotalScore:     total,
		CategoryScores: scores,
		Explanation:    explanation,
		Strengths:      strengths,
		Weaknesses:     weaknesses,
	}, nil
}

func checkCategoryKeys(categories map[string]any, required []string) error {
	if len(categories) != len(required) {
		return keyMismatchError(categories, required)
	}
	for _, key := range required {
		if _, ok := categories[key]; !ok {
			return keyMismatchError(categories, required)
		}
	}
	return nil
}

func keyMismatchError(categories map[string]any, required []string) error {
	got := make([]string, 0, len(categories))
	for key := range categories {
		got = append(got, key)
	}
	sort.Strings(got)
	return fmt.Errorf("%w: category_scores keys %v do not match required set %v", ErrValidation, got, required)
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

func asStringList(v any, field string) ([]string, error) {
	if v == nil {
		return nil, nil
	}
	items, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: %s must be a list of strings", ErrValidation, field)
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("%w: %s must be a list of strings", ErrValidation, field)
		}
		out = append(out, s)
	}
	return out, nil
}

func previewText(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}
