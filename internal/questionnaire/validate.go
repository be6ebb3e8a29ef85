package questionnaire

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ValidateAnswers checks submitted answers against the question set for a
// service type. It returns a map keyed by question id; an empty map means
// every answer is acceptable.
func ValidateAnswers(questions []Question, answers []Answer) map[string]string {
	errs := make(map[string]string)

	byID := make(map[string]Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}

	answered := make(map[string]bool, len(answers))
	for _, a := range answers {
		q, ok := byID[a.QuestionID]
		if !ok {
			errs[a.QuestionID] = "Unknown question"
			continue
		}
		answered[q.ID] = true
		if msg := validateValue(q, a.Value); msg != "" {
			errs[q.ID] = msg
		}
	}

	for _, q := range questions {
		if q.Required && !answered[q.ID] {
			errs[q.ID] = "This question is required"
		}
	}

	return errs
}

func validateValue(q Question, value any) string {
	switch q.Kind {
	case KindText, KindTextarea:
		s, ok := asString(value)
		if !ok {
			return "Answer must be text"
		}
		if q.Required && strings.TrimSpace(s) == "" {
			return "This question is required"
		}

	case KindMultipleChoice:
		s, ok := asString(value)
		if !ok || s == "" {
			return "Select one option"
		}
		if !contains(q.Options, s) {
			return "Select one of the listed options"
		}

	case KindMultipleChoiceMulti:
		items, ok := asStringSlice(value)
		if !ok {
			return "Select one or more options"
		}
		if q.Required && len(items) == 0 {
			return "Select at least one option"
		}
		for _, item := range items {
			if !contains(q.Options, item) {
				return "Select only listed options"
			}
		}

	case KindCheckbox:
		if _, ok := value.(bool); !ok {
			return "Answer must be yes or no"
		}

	case KindScale:
		n, ok := asInt(value)
		if !ok {
			return fmt.Sprintf("Pick a number between %d and %d", q.ScaleMin, q.ScaleMax)
		}
		if n < q.ScaleMin || n > q.ScaleMax {
			return fmt.Sprintf("Pick a number between %d and %d", q.ScaleMin, q.ScaleMax)
		}

	default:
		return "Unsupported question kind"
	}
	return ""
}

func asString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

func asStringSlice(v any) ([]string, bool) {
	switch items := v.(type) {
	case []string:
		return items, true
	case []any:
		out := make([]string, 0, len(items))
		for _, item := range items {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	}
	return nil, false
}

func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n != float64(int(n)) {
			return 0, false
		}
		return int(n), true
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, false
		}
		return int(i), true
	}
	return 0, false
}

func contains(options []string, v string) bool {
	for _, o := range options {
		if o == v {
			return true
		}
	}
	return false
}
