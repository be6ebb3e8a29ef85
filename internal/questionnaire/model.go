package questionnaire

// Question kinds supported by the intake form.
const (
	KindText                = "text"
	KindTextarea            = "textarea"
	KindMultipleChoice      = "multiple_choice"
	KindMultipleChoiceMulti = "multiple_choice_multi"
	KindCheckbox            = "checkbox"
	KindScale               = "scale"
)

// ValidKind reports whether k names a supported question kind.
func ValidKind(k string) bool {
	switch k {
	case KindText, KindTextarea, KindMultipleChoice, KindMultipleChoiceMulti, KindCheckbox, KindScale:
		return true
	}
	return false
}

// Question is one intake question shown during booking.
type Question struct {
	ID          string   `json:"id"`
	ServiceType string   `json:"service_type"`
	Kind        string   `json:"kind"`
	Prompt      string   `json:"prompt"`
	Options     []string `json:"options,omitempty"`
	ScaleMin    int      `json:"scale_min,omitempty"`
	ScaleMax    int      `json:"scale_max,omitempty"`
	Required    bool     `json:"required"`
	Position    int      `json:"position"`
}

// Answer is a submitted response to one question. Value holds the raw
// JSON value: string for text kinds, []string for multi-select, bool for
// checkbox, number for scale.
type Answer struct {
	QuestionID string `json:"question_id"`
	Value      any    `json:"value"`
}
