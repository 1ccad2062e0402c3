package style

import (
	"errors"
	"testing"
)

func TestScore(t *testing.T) {
	cases := []struct {
		name    string
		answers []Label
		want    Result
	}{
		{"visual_majority", []Label{Visual, Visual, Auditory}, Result{Dominant: Visual, Visual: 2, Auditory: 1}},
		{"tie_visual_auditory", []Label{Visual, Auditory}, Result{Dominant: Visual, Visual: 1, Auditory: 1}},
		{"tie_auditory_kinesthetic", []Label{Kinesthetic, Auditory}, Result{Dominant: Auditory, Auditory: 1, Kinesthetic: 1}},
		{"three_way_tie", []Label{Kinesthetic, Auditory, Visual}, Result{Dominant: Visual, Visual: 1, Auditory: 1, Kinesthetic: 1}},
		{"kinesthetic_strict", []Label{Kinesthetic, Kinesthetic, Visual}, Result{Dominant: Kinesthetic, Visual: 1, Kinesthetic: 2}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Score(tc.answers, len(tc.answers))
			if err != nil {
				t.Fatalf("Score: %v", err)
			}
			if got != tc.want {
				t.Fatalf("Score: want=%+v got=%+v", tc.want, got)
			}
			if got.Total() != len(tc.answers) {
				t.Fatalf("Total: want=%d got=%d", len(tc.answers), got.Total())
			}
		})
	}
}

func TestScoreTieBreakIsRepeatable(t *testing.T) {
	for i := 0; i < 50; i++ {
		got, err := Score([]Label{Auditory, Visual}, 2)
		if err != nil {
			t.Fatalf("Score: %v", err)
		}
		if got.Dominant != Visual {
			t.Fatalf("run %d: want=visual got=%s", i, got.Dominant)
		}
	}
}

func TestScoreRejectsIncompleteAnswers(t *testing.T) {
	cases := []struct {
		name    string
		answers []Label
		count   int
		missing []int
	}{
		{"too_few", []Label{Visual, Visual}, 4, []int{2, 3}},
		{"empty_slot", []Label{Visual, "", Auditory}, 3, []int{1}},
		{"unknown_label", []Label{Visual, "olfactory"}, 2, []int{1}},
		{"too_many", []Label{Visual, Visual, Visual}, 2, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Score(tc.answers, tc.count)
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("Score: want ErrValidation got %v", err)
			}
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("Score: want *ValidationError got %T", err)
			}
			if len(ve.Missing) != len(tc.missing) {
				t.Fatalf("Missing: want=%v got=%v", tc.missing, ve.Missing)
			}
			for i := range tc.missing {
				if ve.Missing[i] != tc.missing[i] {
					t.Fatalf("Missing: want=%v got=%v", tc.missing, ve.Missing)
				}
			}
		})
	}
}

func TestFromSelection(t *testing.T) {
	got, err := FromSelection(Auditory, 20)
	if err != nil {
		t.Fatalf("FromSelection: %v", err)
	}
	want := Result{Dominant: Auditory, Auditory: 20}
	if got != want {
		t.Fatalf("FromSelection: want=%+v got=%+v", want, got)
	}
	if _, err := FromSelection("smell", 20); !errors.Is(err, ErrValidation) {
		t.Fatalf("FromSelection(invalid): want ErrValidation got %v", err)
	}
}

func TestParseLabelAndAnswers(t *testing.T) {
	if l, err := ParseLabel(" Kinesthetic "); err != nil || l != Kinesthetic {
		t.Fatalf("ParseLabel: want kinesthetic got %q err=%v", l, err)
	}
	if _, err := ParseAnswers([]string{"visual", "nope", "AUDITORY", ""}); !errors.Is(err, ErrValidation) {
		t.Fatalf("ParseAnswers: want ErrValidation got %v", err)
	}
}

func TestDefaultQuestions(t *testing.T) {
	qs := DefaultQuestions()
	if len(qs) != 20 {
		t.Fatalf("DefaultQuestions: want=20 got=%d", len(qs))
	}
	for _, q := range qs {
		if err := q.Validate(); err != nil {
			t.Fatalf("Validate: %v", err)
		}
	}
	if l, ok := qs[0].StyleFor("c"); !ok || l != Kinesthetic {
		t.Fatalf("StyleFor(c): want kinesthetic got %q ok=%v", l, ok)
	}
	qs[0].Options[0].Text = "mutated"
	if DefaultQuestions()[0].Options[0].Text == "mutated" {
		t.Fatalf("DefaultQuestions must return a copy")
	}
}

func TestClampCount(t *testing.T) {
	if got := ClampCount(3); got != MinQuestions {
		t.Fatalf("ClampCount(3): want=%d got=%d", MinQuestions, got)
	}
	if got := ClampCount(99); got != MaxAnswers {
		t.Fatalf("ClampCount(99): want=%d got=%d", MaxAnswers, got)
	}
	if got := ClampCount(20); got != 20 {
		t.Fatalf("ClampCount(20): want=20 got=%d", got)
	}
}
