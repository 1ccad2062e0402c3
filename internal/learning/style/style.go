// Package style scores VAK questionnaire answers into a learning style.
package style

import (
	"errors"
	"fmt"
	"strings"
)

type Label string

const (
	Visual      Label = "visual"
	Auditory    Label = "auditory"
	Kinesthetic Label = "kinesthetic"
)

// Priority is the fixed tie-break order: earlier labels win ties.
var Priority = []Label{Visual, Auditory, Kinesthetic}

const (
	MinQuestions = 10
	MaxAnswers   = 30
)

func (l Label) Valid() bool {
	switch l {
	case Visual, Auditory, Kinesthetic:
		return true
	default:
		return false
	}
}

func ParseLabel(s string) (Label, error) {
	l := Label(strings.ToLower(strings.TrimSpace(s)))
	if !l.Valid() {
		return "", &ValidationError{Reason: fmt.Sprintf("invalid learning style %q", s)}
	}
	return l, nil
}

var ErrValidation = errors.New("style validation failed")

// ValidationError describes an answer set that cannot be scored.
type ValidationError struct {
	Reason string
	// Missing holds zero-based positions of empty or unknown answers.
	Missing []int
}

func (e *ValidationError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("%s (positions %v)", e.Reason, e.Missing)
	}
	return e.Reason
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

type Result struct {
	Dominant    Label `json:"learning_style"`
	Visual      int   `json:"visual_score"`
	Auditory    int   `json:"auditory_score"`
	Kinesthetic int   `json:"kinesthetic_score"`
}

func (r Result) Count(l Label) int {
	switch l {
	case Visual:
		return r.Visual
	case Auditory:
		return r.Auditory
	case Kinesthetic:
		return r.Kinesthetic
	default:
		return 0
	}
}

func (r Result) Total() int {
	return r.Visual + r.Auditory + r.Kinesthetic
}

// Score tallies answers and picks the dominant style. Every one of the
// questionCount questions must carry a valid label; anything less is a
// *ValidationError and nothing is scored.
func Score(answers []Label, questionCount int) (Result, error) {
	if questionCount <= 0 {
		return Result{}, &ValidationError{Reason: "question count must be positive"}
	}
	if len(answers) != questionCount {
		missing := make([]int, 0)
		for i := len(answers); i < questionCount; i++ {
			missing = append(missing, i)
		}
		return Result{}, &ValidationError{
			Reason:  fmt.Sprintf("answered %d of %d questions", len(answers), questionCount),
			Missing: missing,
		}
	}
	var bad []int
	for i, a := range answers {
		if !a.Valid() {
			bad = append(bad, i)
		}
	}
	if len(bad) > 0 {
		return Result{}, &ValidationError{Reason: "unanswered or invalid answers", Missing: bad}
	}

	var r Result
	for _, a := range answers {
		switch a {
		case Visual:
			r.Visual++
		case Auditory:
			r.Auditory++
		case Kinesthetic:
			r.Kinesthetic++
		}
	}
	r.Dominant = dominant(r)
	return r, nil
}

func dominant(r Result) Label {
	best := Priority[0]
	for _, l := range Priority[1:] {
		if r.Count(l) > r.Count(best) {
			best = l
		}
	}
	return best
}

// FromSelection records a directly chosen style as a full-count vector.
func FromSelection(l Label, questionCount int) (Result, error) {
	if !l.Valid() {
		return Result{}, &ValidationError{Reason: fmt.Sprintf("invalid learning style %q", l)}
	}
	if questionCount <= 0 {
		questionCount = len(defaultBank)
	}
	r := Result{Dominant: l}
	switch l {
	case Visual:
		r.Visual = questionCount
	case Auditory:
		r.Auditory = questionCount
	case Kinesthetic:
		r.Kinesthetic = questionCount
	}
	return r, nil
}

// ParseAnswers converts raw strings, reporting every bad position at once.
func ParseAnswers(raw []string) ([]Label, error) {
	out := make([]Label, len(raw))
	var bad []int
	for i, s := range raw {
		l := Label(strings.ToLower(strings.TrimSpace(s)))
		if !l.Valid() {
			bad = append(bad, i)
			continue
		}
		out[i] = l
	}
	if len(bad) > 0 {
		return nil, &ValidationError{Reason: "invalid answer value", Missing: bad}
	}
	return out, nil
}
