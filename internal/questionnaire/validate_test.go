package questionnaire

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testQuestions() []Question {
	return []Question{
		{ID: "q-concern", ServiceType: "cosmetology", Kind: KindTextarea, Prompt: "Describe your concern", Required: true, Position: 1},
		{ID: "q-skin", ServiceType: "cosmetology", Kind: KindMultipleChoice, Prompt: "Skin type", Options: []string{"oily", "dry", "combination"}, Required: true, Position: 2},
		{ID: "q-goals", ServiceType: "cosmetology", Kind: KindMultipleChoiceMulti, Prompt: "Goals", Options: []string{"acne", "pigmentation", "anti-aging"}, Required: false, Position: 3},
		{ID: "q-allergy", ServiceType: "cosmetology", Kind: KindCheckbox, Prompt: "Known allergies?", Required: true, Position: 4},
		{ID: "q-severity", ServiceType: "cosmetology", Kind: KindScale, Prompt: "How severe?", ScaleMin: 1, ScaleMax: 10, Required: true, Position: 5},
	}
}

func TestValidateAnswersAllValid(t *testing.T) {
	errs := ValidateAnswers(testQuestions(), []Answer{
		{QuestionID: "q-concern", Value: "Recurring acne on cheeks"},
		{QuestionID: "q-skin", Value: "oily"},
		{QuestionID: "q-goals", Value: []any{"acne", "pigmentation"}},
		{QuestionID: "q-allergy", Value: false},
		{QuestionID: "q-severity", Value: float64(7)},
	})
	assert.Empty(t, errs)
}

func TestValidateAnswersMissingRequired(t *testing.T) {
	errs := ValidateAnswers(testQuestions(), []Answer{
		{QuestionID: "q-skin", Value: "dry"},
	})
	assert.Equal(t, "This question is required", errs["q-concern"])
	assert.Equal(t, "This question is required", errs["q-allergy"])
	assert.Equal(t, "This question is required", errs["q-severity"])
	assert.NotContains(t, errs, "q-goals")
}

func TestValidateAnswersBlankRequiredText(t *testing.T) {
	errs := ValidateAnswers(testQuestions(), []Answer{
		{QuestionID: "q-concern", Value: "   "},
	})
	assert.Equal(t, "This question is required", errs["q-concern"])
}

func TestValidateAnswersChoiceOutsideOptions(t *testing.T) {
	errs := ValidateAnswers(testQuestions(), []Answer{
		{QuestionID: "q-skin", Value: "scaly"},
	})
	assert.Equal(t, "Select one of the listed options", errs["q-skin"])
}

func TestValidateAnswersMultiChoiceOutsideOptions(t *testing.T) {
	errs := ValidateAnswers(testQuestions(), []Answer{
		{QuestionID: "q-goals", Value: []any{"acne", "levitation"}},
	})
	assert.Equal(t, "Select only listed options", errs["q-goals"])
}

func TestValidateAnswersCheckboxWrongType(t *testing.T) {
	errs := ValidateAnswers(testQuestions(), []Answer{
		{QuestionID: "q-allergy", Value: "yes"},
	})
	assert.Equal(t, "Answer must be yes or no", errs["q-allergy"])
}

func TestValidateAnswersScaleOutOfRange(t *testing.T) {
	errs := ValidateAnswers(testQuestions(), []Answer{
		{QuestionID: "q-severity", Value: float64(11)},
	})
	assert.Equal(t, "Pick a number between 1 and 10", errs["q-severity"])
}

func TestValidateAnswersScaleFraction(t *testing.T) {
	errs := ValidateAnswers(testQuestions(), []Answer{
		{QuestionID: "q-severity", Value: 6.5},
	})
	assert.Equal(t, "Pick a number between 1 and 10", errs["q-severity"])
}

func TestValidateAnswersUnknownQuestion(t *testing.T) {
	errs := ValidateAnswers(testQuestions(), []Answer{
		{QuestionID: "q-nope", Value: "hello"},
	})
	assert.Equal(t, "Unknown question", errs["q-nope"])
}
