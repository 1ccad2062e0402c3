// Package flows composes the client core into the three learner-facing
// flows: the style test, the tutor chat and the practice lab.
package flows

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/yungbote/vaktutor/internal/client/fetch"
	"github.com/yungbote/vaktutor/internal/client/kv"
	"github.com/yungbote/vaktutor/internal/domain"
	"github.com/yungbote/vaktutor/internal/learning/style"
	"github.com/yungbote/vaktutor/internal/platform/logger"
)

type StyleAPI interface {
	Questions(ctx context.Context) ([]style.Question, error)
	GenerateQuestions(ctx context.Context, count int, interests string) (domain.QuestionsResponse, error)
	SubmitTest(ctx context.Context, answers []style.Label) (domain.StyleView, error)
	SelectStyle(ctx context.Context, l style.Label) (domain.StyleView, error)
}

// QuestionSet is what the test page renders.
type QuestionSet struct {
	Questions []style.Question
	// Source is "ai" or "default".
	Source string
}

var (
	ErrNoQuestions = errors.New("flows: questions not loaded")
	// ErrNotGenerated marks a generation call the server answered from its
	// default bank.
	ErrNotGenerated = errors.New("flows: server returned default questions")
)

type StyleTestFlow struct {
	api   StyleAPI
	store kv.Store
	log   *logger.Logger

	load   *fetch.Action[QuestionSet]
	submit *fetch.Action[domain.StyleView]

	mu      sync.Mutex
	answers map[int]style.Label
}

func NewStyleTestFlow(api StyleAPI, store kv.Store, log *logger.Logger, timeout time.Duration) *StyleTestFlow {
	return &StyleTestFlow{
		api:     api,
		store:   store,
		log:     log.With("component", "StyleTestFlow"),
		load:    fetch.New[QuestionSet]("style.questions", log, timeout),
		submit:  fetch.New[domain.StyleView]("style.submit", log, timeout),
		answers: map[int]style.Label{},
	}
}

func (f *StyleTestFlow) Questions() fetch.State[QuestionSet] { return f.load.State() }

// LoadQuestions asks for AI-generated questions and falls back to the
// server's fixed set. A generation reply sourced from the default bank ends
// degraded, not successful. Answers from a previous set are discarded.
func (f *StyleTestFlow) LoadQuestions(ctx context.Context, count int, interests string) (fetch.State[QuestionSet], error) {
	count = style.ClampCount(count)
	var served []style.Question
	primary := func(ctx context.Context) (QuestionSet, error) {
		served = nil
		resp, err := f.api.GenerateQuestions(ctx, count, interests)
		if err != nil {
			return QuestionSet{}, err
		}
		if len(resp.Questions) == 0 {
			return QuestionSet{}, ErrNoQuestions
		}
		if resp.Source != "ai" {
			served = resp.Questions
			return QuestionSet{}, ErrNotGenerated
		}
		return QuestionSet{Questions: resp.Questions, Source: resp.Source}, nil
	}
	fallback := func(ctx context.Context) (QuestionSet, error) {
		if len(served) > 0 {
			return QuestionSet{Questions: served, Source: "default"}, nil
		}
		qs, err := f.api.Questions(ctx)
		if err != nil {
			return QuestionSet{}, err
		}
		if len(qs) == 0 {
			return QuestionSet{}, ErrNoQuestions
		}
		return QuestionSet{Questions: qs, Source: "default"}, nil
	}
	st, err := f.load.Run(ctx, primary, fallback)
	if st.HasData() {
		f.resetAnswers()
	}
	return st, err
}

// Regenerate repeats the last question load.
func (f *StyleTestFlow) Regenerate(ctx context.Context) (fetch.State[QuestionSet], error) {
	st, err := f.load.Retry(ctx)
	if st.HasData() {
		f.resetAnswers()
	}
	return st, err
}

func (f *StyleTestFlow) resetAnswers() {
	f.mu.Lock()
	f.answers = map[int]style.Label{}
	f.mu.Unlock()
}

// Answer records the label chosen for question qid.
func (f *StyleTestFlow) Answer(qid int, l style.Label) error {
	if !l.Valid() {
		return fmt.Errorf("flows: unknown style %q", l)
	}
	st := f.load.State()
	if !st.HasData() {
		return ErrNoQuestions
	}
	found := false
	for _, q := range st.Data.Questions {
		if q.ID == qid {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("flows: unknown question %d", qid)
	}
	f.mu.Lock()
	f.answers[qid] = l
	f.mu.Unlock()
	return nil
}

// Answers returns labels in question order; unanswered questions are empty.
func (f *StyleTestFlow) Answers() []style.Label {
	st := f.load.State()
	qs := append([]style.Question(nil), st.Data.Questions...)
	sort.SliceStable(qs, func(i, j int) bool { return qs[i].ID < qs[j].ID })
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]style.Label, len(qs))
	for i, q := range qs {
		out[i] = f.answers[q.ID]
	}
	return out
}

// Submit validates locally first; an incomplete test never reaches the
// submission endpoint.
func (f *StyleTestFlow) Submit(ctx context.Context) (domain.StyleView, error) {
	st := f.load.State()
	if !st.HasData() {
		return domain.StyleView{}, ErrNoQuestions
	}
	n := len(st.Data.Questions)
	if n < style.MinQuestions {
		return domain.StyleView{}, &style.ValidationError{
			Reason: fmt.Sprintf("need at least %d questions, have %d", style.MinQuestions, n),
		}
	}
	answers := f.Answers()
	local, err := style.Score(answers, n)
	if err != nil {
		return domain.StyleView{}, err
	}
	res, err := f.submit.Run(ctx, func(ctx context.Context) (domain.StyleView, error) {
		return f.api.SubmitTest(ctx, answers)
	}, nil)
	if err != nil {
		return domain.StyleView{}, err
	}
	if res.Data.LearningStyle != string(local.Dominant) {
		f.log.Warn("Server style differs from local score", "server", res.Data.LearningStyle, "local", string(local.Dominant))
	}
	f.cacheSummary(ctx, res.Data)
	return res.Data, nil
}

// SelectDirect skips the test and stores l as the learner's style.
func (f *StyleTestFlow) SelectDirect(ctx context.Context, l style.Label) (domain.StyleView, error) {
	if !l.Valid() {
		return domain.StyleView{}, &style.ValidationError{Reason: fmt.Sprintf("unknown style %q", l)}
	}
	res, err := f.submit.Run(ctx, func(ctx context.Context) (domain.StyleView, error) {
		return f.api.SelectStyle(ctx, l)
	}, nil)
	if err != nil {
		return domain.StyleView{}, err
	}
	f.cacheSummary(ctx, res.Data)
	return res.Data, nil
}

func (f *StyleTestFlow) cacheSummary(ctx context.Context, v domain.StyleView) {
	if err := kv.SaveJSON(ctx, f.store, kv.KeyStyleSummary, v); err != nil {
		f.log.Warn("Caching style summary failed", "error", err)
	}
}

// CachedStyle returns the last style summary written by this client.
func CachedStyle(ctx context.Context, store kv.Store, log *logger.Logger) (domain.StyleView, bool) {
	var v domain.StyleView
	ok, err := kv.LoadJSON(ctx, store, kv.KeyStyleSummary, &v)
	if err != nil {
		log.Warn("Discarding unreadable style summary", "error", err)
		_ = store.Delete(ctx, kv.KeyStyleSummary)
		return domain.StyleView{}, false
	}
	return v, ok && v.LearningStyle != ""
}
