// Package grading scores an exam submission. It is pure: callers load the course's
// questions and the submission's selected choices and hand them in.
package grading

import "math"

// PassingThreshold is the minimum percentage classified as a pass.
const PassingThreshold = 80

type ChoiceCategory string

const (
	CategorySelectedCorrect   ChoiceCategory = "selected_correct"
	CategorySelectedIncorrect ChoiceCategory = "selected_incorrect"
	CategoryMissed            ChoiceCategory = "missed"
	CategoryUnselected        ChoiceCategory = "unselected"
)

// Choice is the minimal view of an answer choice needed for grading.
type Choice struct {
	ID        uint
	IsCorrect bool
}

// Question is the minimal view of a question needed for grading.
type Question struct {
	ID      uint
	Points  float64
	Choices []Choice
}

// Selection is the set of choice ids a student picked. It may span many questions.
type Selection map[uint]struct{}

func NewSelection(ids ...uint) Selection {
	s := make(Selection, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func (s Selection) Has(id uint) bool {
	_, ok := s[id]
	return ok
}

type ChoiceResult struct {
	ChoiceID uint           `json:"choice_id"`
	Category ChoiceCategory `json:"category"`
}

type QuestionResult struct {
	QuestionID uint           `json:"question_id"`
	Points     float64        `json:"points"`
	Correct    bool           `json:"correct"`
	Choices    []ChoiceResult `json:"choices"`
}

type Result struct {
	Percentage     int     `json:"percentage"`
	Passed         bool    `json:"passed"`
	AchievedPoints float64 `json:"achieved_points"`
	TotalPoints    float64 `json:"total_points"`
	// NoGradablePoints is set when the exam has no questions or only zero-valued
	// ones. Percentage is 0 and Passed is false in that case.
	NoGradablePoints bool             `json:"no_gradable_points"`
	Questions        []QuestionResult `json:"questions"`
}

// IsCorrect reports whether the selection, restricted to the question's own choices,
// equals the question's correct set exactly.
func IsCorrect(q Question, selected Selection) bool {
	for _, c := range q.Choices {
		if selected.Has(c.ID) != c.IsCorrect {
			return false
		}
	}
	return true
}

// Categorize sorts each of the question's choices into exactly one display category.
func Categorize(q Question, selected Selection) []ChoiceResult {
	out := make([]ChoiceResult, len(q.Choices))
	for i, c := range q.Choices {
		var cat ChoiceCategory
		switch picked := selected.Has(c.ID); {
		case picked && c.IsCorrect:
			cat = CategorySelectedCorrect
		case picked:
			cat = CategorySelectedIncorrect
		case c.IsCorrect:
			cat = CategoryMissed
		default:
			cat = CategoryUnselected
		}
		out[i] = ChoiceResult{ChoiceID: c.ID, Category: cat}
	}
	return out
}

// Evaluate grades every question independently and aggregates the score.
func Evaluate(questions []Question, selected Selection) Result {
	res := Result{Questions: make([]QuestionResult, 0, len(questions))}

	for _, q := range questions {
		correct := IsCorrect(q, selected)
		res.TotalPoints += q.Points
		if correct {
			res.AchievedPoints += q.Points
		}
		res.Questions = append(res.Questions, QuestionResult{
			QuestionID: q.ID,
			Points:     q.Points,
			Correct:    correct,
			Choices:    Categorize(q, selected),
		})
	}

	pct, ok := Percentage(res.AchievedPoints, res.TotalPoints)
	res.Percentage = pct
	res.NoGradablePoints = !ok
	res.Passed = ok && Passed(pct)
	return res
}

// Percentage rounds achieved/total to the nearest whole percent, halves away from
// zero. It returns false when total is not positive.
func Percentage(achieved, total float64) (int, bool) {
	if total <= 0 || math.IsNaN(total) || math.IsInf(total, 0) {
		return 0, false
	}
	return int(math.Round(achieved / total * 100)), true
}

func Passed(percentage int) bool {
	return percentage >= PassingThreshold
}
