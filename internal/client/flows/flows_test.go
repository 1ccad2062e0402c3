package flows

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/yungbote/vaktutor/internal/client/api"
	"github.com/yungbote/vaktutor/internal/client/fetch"
	"github.com/yungbote/vaktutor/internal/client/handoff"
	"github.com/yungbote/vaktutor/internal/client/kv"
	"github.com/yungbote/vaktutor/internal/client/respcache"
	"github.com/yungbote/vaktutor/internal/domain"
	"github.com/yungbote/vaktutor/internal/learning/style"
	"github.com/yungbote/vaktutor/internal/learning/tasks"
	"github.com/yungbote/vaktutor/internal/platform/logger"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var errDown = &api.Error{Status: 503, Message: "down"}

// fakeAPI implements StyleAPI, ChatAPI and PracticeAPI.
type fakeAPI struct {
	mu    sync.Mutex
	calls map[string]int

	generated    domain.QuestionsResponse
	generateErr  error
	defaultQs    []style.Question
	submitted    []style.Label
	styleView    domain.StyleView
	styleErr     error
	askResp      domain.ContentResponse
	askErr       error
	history      []domain.ChatHistory
	clearErr     error
	createErr    error
	audio        []byte
	catalog      domain.TasksResponse
	catalogErr   error
	runResult    domain.RunResult
	runErr       error
	lastSubmit   domain.SubmitPracticeRequest
	lastDownload domain.CreateDownloadRequest

	// askStarted, when set, is signalled as Ask begins; Ask then waits on
	// askGate.
	askStarted chan struct{}
	askGate    chan struct{}
}

func newFakeAPI() *fakeAPI { return &fakeAPI{calls: map[string]int{}} }

func (f *fakeAPI) hit(name string) {
	f.mu.Lock()
	f.calls[name]++
	f.mu.Unlock()
}

func (f *fakeAPI) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeAPI) Questions(ctx context.Context) ([]style.Question, error) {
	f.hit("Questions")
	return f.defaultQs, nil
}

func (f *fakeAPI) GenerateQuestions(ctx context.Context, count int, interests string) (domain.QuestionsResponse, error) {
	f.hit("GenerateQuestions")
	return f.generated, f.generateErr
}

func (f *fakeAPI) SubmitTest(ctx context.Context, answers []style.Label) (domain.StyleView, error) {
	f.hit("SubmitTest")
	f.submitted = answers
	r, err := style.Score(answers, len(answers))
	if err != nil {
		return domain.StyleView{}, err
	}
	return domain.StyleViewFromResult(r, "test"), nil
}

func (f *fakeAPI) SelectStyle(ctx context.Context, l style.Label) (domain.StyleView, error) {
	f.hit("SelectStyle")
	return domain.StyleView{LearningStyle: string(l), Source: "select"}, nil
}

func (f *fakeAPI) MyStyle(ctx context.Context) (domain.StyleView, error) {
	f.hit("MyStyle")
	return f.styleView, f.styleErr
}

func (f *fakeAPI) Ask(ctx context.Context, q string) (domain.ContentResponse, error) {
	f.hit("Ask")
	if f.askStarted != nil {
		f.askStarted <- struct{}{}
	}
	if f.askGate != nil {
		select {
		case <-f.askGate:
		case <-ctx.Done():
			return domain.ContentResponse{}, ctx.Err()
		}
	}
	return f.askResp, f.askErr
}

func (f *fakeAPI) History(ctx context.Context) ([]domain.ChatHistory, error) {
	f.hit("History")
	return f.history, nil
}

func (f *fakeAPI) ClearHistory(ctx context.Context) error {
	f.hit("ClearHistory")
	return f.clearErr
}

func (f *fakeAPI) Feedback(ctx context.Context, id uuid.UUID, rating int, comment string) error {
	f.hit("Feedback")
	return nil
}

func (f *fakeAPI) Suggestions(ctx context.Context, topic string) ([]string, error) {
	f.hit("Suggestions")
	return []string{"Explain " + topic}, nil
}

func (f *fakeAPI) CreateDownload(ctx context.Context, req domain.CreateDownloadRequest) (domain.DownloadView, error) {
	f.hit("CreateDownload")
	f.lastDownload = req
	if f.createErr != nil {
		return domain.DownloadView{}, f.createErr
	}
	return domain.DownloadView{DownloadID: uuid.New(), ContentType: req.ContentType}, nil
}

func (f *fakeAPI) FetchDownload(ctx context.Context, id uuid.UUID) ([]byte, error) {
	f.hit("FetchDownload")
	return f.audio, nil
}

func (f *fakeAPI) TasksByTopic(ctx context.Context, topic string) (domain.TasksResponse, error) {
	f.hit("TasksByTopic")
	return f.catalog, f.catalogErr
}

func (f *fakeAPI) DefaultTasks(ctx context.Context) ([]tasks.Task, error) {
	f.hit("DefaultTasks")
	return tasks.Defaults(), nil
}

func (f *fakeAPI) Run(ctx context.Context, code string) (domain.RunResult, error) {
	f.hit("Run")
	return f.runResult, f.runErr
}

func (f *fakeAPI) SubmitPractice(ctx context.Context, req domain.SubmitPracticeRequest) (domain.SubmitPracticeResponse, error) {
	f.hit("SubmitPractice")
	f.lastSubmit = req
	return domain.SubmitPracticeResponse{ActivityID: uuid.New()}, nil
}

func (f *fakeAPI) PracticeHistory(ctx context.Context) ([]domain.PracticeActivity, error) {
	f.hit("PracticeHistory")
	return nil, nil
}

// ---- style test ----

func TestStyleTestFallsBackToDefaultQuestions(t *testing.T) {
	fa := newFakeAPI()
	fa.generateErr = errDown
	fa.defaultQs = style.DefaultQuestions()
	flow := NewStyleTestFlow(fa, kv.NewMemory(), logger.Nop(), time.Second)

	st, err := flow.LoadQuestions(context.Background(), 20, "football")
	require.NoError(t, err)
	assert.True(t, st.Fallback())
	assert.Equal(t, "default", st.Data.Source)
	assert.ErrorIs(t, st.Reason, api.ErrUnavailable)
	assert.Len(t, st.Data.Questions, len(fa.defaultQs))
}

func TestStyleTestDefaultSourcedGenerationIsDegraded(t *testing.T) {
	fa := newFakeAPI()
	fa.generated = domain.QuestionsResponse{Questions: style.DefaultQuestions(), Source: "default"}
	flow := NewStyleTestFlow(fa, kv.NewMemory(), logger.Nop(), time.Second)

	st, err := flow.LoadQuestions(context.Background(), 20, "")
	require.NoError(t, err)
	assert.True(t, st.Fallback(), "default questions must not be shown as generated")
	assert.Equal(t, "default", st.Data.Source)
	assert.ErrorIs(t, st.Reason, ErrNotGenerated)
	assert.Len(t, st.Data.Questions, len(style.DefaultQuestions()))
	assert.Zero(t, fa.count("Questions"), "the set the server already sent is reused")
}

func TestStyleSubmitRefusesIncompleteAnswers(t *testing.T) {
	fa := newFakeAPI()
	fa.generated = domain.QuestionsResponse{Questions: style.DefaultQuestions(), Source: "ai"}
	flow := NewStyleTestFlow(fa, kv.NewMemory(), logger.Nop(), time.Second)
	_, err := flow.LoadQuestions(context.Background(), 20, "")
	require.NoError(t, err)

	require.NoError(t, flow.Answer(1, style.Visual))
	_, err = flow.Submit(context.Background())
	assert.ErrorIs(t, err, style.ErrValidation)
	assert.Zero(t, fa.count("SubmitTest"), "incomplete tests never reach the collaborator")
}

func TestStyleSubmitRefusesShortTest(t *testing.T) {
	fa := newFakeAPI()
	fa.generated = domain.QuestionsResponse{Questions: style.DefaultQuestions()[:5], Source: "ai"}
	flow := NewStyleTestFlow(fa, kv.NewMemory(), logger.Nop(), time.Second)
	_, err := flow.LoadQuestions(context.Background(), 5, "")
	require.NoError(t, err)
	for _, q := range style.DefaultQuestions()[:5] {
		require.NoError(t, flow.Answer(q.ID, style.Auditory))
	}
	_, err = flow.Submit(context.Background())
	assert.ErrorIs(t, err, style.ErrValidation)
	assert.Zero(t, fa.count("SubmitTest"))
}

func TestStyleSubmitCachesSummary(t *testing.T) {
	fa := newFakeAPI()
	qs := style.DefaultQuestions()
	fa.generated = domain.QuestionsResponse{Questions: qs, Source: "ai"}
	store := kv.NewMemory()
	flow := NewStyleTestFlow(fa, store, logger.Nop(), time.Second)
	_, err := flow.LoadQuestions(context.Background(), len(qs), "")
	require.NoError(t, err)
	for i, q := range qs {
		l := style.Kinesthetic
		if i%4 == 0 {
			l = style.Visual
		}
		require.NoError(t, flow.Answer(q.ID, l))
	}

	view, err := flow.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "kinesthetic", view.LearningStyle)
	assert.Len(t, fa.submitted, len(qs))

	cached, ok := CachedStyle(context.Background(), store, logger.Nop())
	require.True(t, ok)
	assert.Equal(t, view, cached)
}

func TestAnswerRejectsUnknownQuestion(t *testing.T) {
	fa := newFakeAPI()
	fa.generated = domain.QuestionsResponse{Questions: style.DefaultQuestions(), Source: "ai"}
	flow := NewStyleTestFlow(fa, kv.NewMemory(), logger.Nop(), time.Second)
	assert.ErrorIs(t, flow.Answer(1, style.Visual), ErrNoQuestions)
	_, err := flow.LoadQuestions(context.Background(), 20, "")
	require.NoError(t, err)
	assert.Error(t, flow.Answer(999, style.Visual))
	assert.Error(t, flow.Answer(1, style.Label("smell")))
}

// ---- chat ----

type chatFixture struct {
	api     *fakeAPI
	store   kv.Store
	handoff *handoff.Store
	cache   *respcache.Cache
	flow    *ChatFlow
}

func newChatFixture() chatFixture {
	fa := newFakeAPI()
	store := kv.NewMemory()
	h := handoff.New(store, logger.Nop())
	c := respcache.New(store, logger.Nop())
	return chatFixture{api: fa, store: store, handoff: h, cache: c, flow: NewChatFlow(fa, h, c, logger.Nop(), time.Second)}
}

func TestChatAskStoresPracticeHandoffAndCache(t *testing.T) {
	fx := newChatFixture()
	fx.api.styleView = domain.StyleView{LearningStyle: "kinesthetic"}
	fx.api.askResp = domain.ContentResponse{
		Text:   "use try/catch",
		ChatID: uuid.New(),
		Practice: &domain.PracticeAssignment{
			Topic:  "Java exception handling",
			Source: tasks.SourceAI,
			Tasks:  tasks.Defaults()[:1],
		},
	}
	ctx := context.Background()
	fx.flow.Boot(ctx)

	res, err := fx.flow.Ask(ctx, "  how do exceptions work?  ")
	require.NoError(t, err)
	assert.True(t, res.Handoff)
	assert.NoError(t, res.AudioErr)
	assert.Nil(t, res.Audio)
	assert.Zero(t, fx.api.count("CreateDownload"), "only auditory learners get audio")

	b, ok := fx.handoff.Get(ctx, "java exception   handling")
	require.True(t, ok)
	assert.Equal(t, tasks.SourceAI, b.Source)

	cached, ok := fx.cache.Load(ctx)
	require.True(t, ok)
	assert.Equal(t, "how do exceptions work?", cached.AskedQuestion)
	assert.Equal(t, 2, fx.api.count("History"), "history is refreshed after the answer")
}

func TestChatAskRejectedDuplicateKeepsHandoff(t *testing.T) {
	fx := newChatFixture()
	fx.api.askResp = domain.ContentResponse{
		Text:   "loop it",
		ChatID: uuid.New(),
		Practice: &domain.PracticeAssignment{
			Topic:  "Loops",
			Source: tasks.SourceChatAssigned,
			Tasks:  tasks.Defaults()[:1],
		},
	}
	fx.api.askStarted = make(chan struct{}, 1)
	fx.api.askGate = make(chan struct{})
	ctx := context.Background()

	type outcome struct {
		res AskResult
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		res, err := fx.flow.Ask(ctx, "how do loops work?")
		done <- outcome{res, err}
	}()
	<-fx.api.askStarted

	_, err := fx.flow.Ask(ctx, "and while loops?")
	require.ErrorIs(t, err, fetch.ErrInFlight)

	close(fx.api.askGate)
	first := <-done
	require.NoError(t, first.err)
	assert.True(t, first.res.Handoff)
	_, ok := fx.handoff.Get(ctx, "loops")
	assert.True(t, ok, "the accepted ask's bundle is stored")
	assert.Equal(t, 1, fx.api.count("Ask"))
}

func TestChatAskAudioFailureIsRecorded(t *testing.T) {
	fx := newChatFixture()
	fx.api.styleView = domain.StyleView{LearningStyle: "auditory"}
	fx.api.askResp = domain.ContentResponse{Text: "narrate me", ChatID: uuid.New()}
	fx.api.createErr = errDown
	ctx := context.Background()
	fx.flow.Boot(ctx)

	res, err := fx.flow.Ask(ctx, "what is finally?")
	require.NoError(t, err, "audio failure never fails the ask")
	assert.ErrorIs(t, res.AudioErr, api.ErrUnavailable)
	assert.Equal(t, "audio", fx.api.lastDownload.ContentType)
	assert.Equal(t, "narrate me", fx.api.lastDownload.BaseContent)
}

func TestChatAskFetchesAttachedAudio(t *testing.T) {
	fx := newChatFixture()
	id := uuid.New()
	fx.api.askResp = domain.ContentResponse{Text: "x", ChatID: uuid.New(), AudioDownloadID: &id}
	fx.api.audio = []byte("mp3")

	res, err := fx.flow.Ask(context.Background(), "q")
	require.NoError(t, err)
	assert.Equal(t, []byte("mp3"), res.Audio)
	assert.Zero(t, fx.api.count("CreateDownload"))
}

func TestChatAskFailureLeavesCacheUntouched(t *testing.T) {
	fx := newChatFixture()
	ctx := context.Background()
	prev := domain.ContentResponse{Text: "before", ChatID: uuid.New()}
	require.NoError(t, fx.cache.Save(ctx, prev))
	fx.api.askErr = errDown

	_, err := fx.flow.Ask(ctx, "q")
	assert.ErrorIs(t, err, api.ErrUnavailable)
	cached, ok := fx.cache.Load(ctx)
	require.True(t, ok)
	assert.Equal(t, "before", cached.Text)
	assert.Zero(t, fx.api.count("History"))
}

func TestChatBootRestoresCache(t *testing.T) {
	fx := newChatFixture()
	ctx := context.Background()
	require.NoError(t, fx.cache.Save(ctx, domain.ContentResponse{Text: "cached", ChatID: uuid.New()}))
	fx.api.styleErr = errDown
	fx.api.history = []domain.ChatHistory{{Question: "loops"}}

	boot := fx.flow.Boot(ctx)
	require.NotNil(t, boot.Restored)
	assert.Equal(t, "cached", boot.Restored.Text)
	assert.ErrorIs(t, boot.StyleErr, api.ErrUnavailable)
	assert.Equal(t, []string{"Explain loops"}, boot.Suggestions)
	assert.Empty(t, fx.flow.Style())
}

func TestClearHistoryFailureKeepsLocalState(t *testing.T) {
	fx := newChatFixture()
	ctx := context.Background()
	require.NoError(t, fx.cache.Save(ctx, domain.ContentResponse{Text: "keep"}))
	require.NoError(t, fx.flow.AffirmTopic(ctx, "loops", tasks.Defaults()))
	fx.api.clearErr = errDown

	assert.Error(t, fx.flow.ClearHistory(ctx))
	_, ok := fx.cache.Load(ctx)
	assert.True(t, ok)
	_, ok = fx.handoff.Get(ctx, "loops")
	assert.True(t, ok)

	fx.api.clearErr = nil
	require.NoError(t, fx.flow.ClearHistory(ctx))
	_, ok = fx.cache.Load(ctx)
	assert.False(t, ok)
	_, ok = fx.handoff.Get(ctx, "loops")
	assert.False(t, ok)
}

func TestFeedbackNeedsAnAnswer(t *testing.T) {
	fx := newChatFixture()
	assert.ErrorIs(t, fx.flow.Feedback(context.Background(), 1, ""), ErrNoAnswer)
}

// ---- practice ----

func TestPracticeOpenUsesHandoffThenSubmits(t *testing.T) {
	fa := newFakeAPI()
	store := kv.NewMemory()
	h := handoff.New(store, logger.Nop())
	list := []tasks.Task{
		{Name: "Guarded divide", Description: "d", StarterCode: "public class Main { public static void main(String[] a) {} }"},
		{Name: "Finally close", Description: "d", StarterCode: "class Main { main }"},
	}
	require.NoError(t, h.Put(context.Background(), tasks.Bundle{Topic: "try catch", Source: tasks.SourceAI, Tasks: list}))

	flow := NewPracticeFlow(fa, h, logger.Nop(), time.Second)
	res := flow.Open(context.Background(), "Try-Catch", "finally close")
	assert.Equal(t, tasks.SourceAI, res.Source)
	assert.Equal(t, list[1].StarterCode, flow.Code())
	assert.Zero(t, fa.count("TasksByTopic"))

	require.True(t, flow.SelectTask("guarded divide"))
	assert.Equal(t, list[0].StarterCode, flow.Code())

	fa.runResult = domain.RunResult{Status: "error", Stderr: "boom", Runner: "simulated"}
	_, err := flow.Run(context.Background())
	require.NoError(t, err)

	_, err = flow.Submit(context.Background(), 90*time.Second)
	require.NoError(t, err)
	assert.Equal(t, StatusNeedsReview, fa.lastSubmit.Status)
	assert.Equal(t, "Guarded divide", fa.lastSubmit.TaskName)
	assert.Equal(t, 90, fa.lastSubmit.TimeSpent)
}

func TestPracticeRunFailureKeepsState(t *testing.T) {
	fa := newFakeAPI()
	fa.catalogErr = errDown
	flow := NewPracticeFlow(fa, handoff.New(kv.NewMemory(), logger.Nop()), logger.Nop(), time.Second)
	res := flow.Open(context.Background(), "anything", "")
	assert.Equal(t, tasks.SourceDefault, res.Source)

	flow.SetCode("class Main { main }")
	fa.runResult = domain.RunResult{Status: "success", Stdout: "ok"}
	_, err := flow.Run(context.Background())
	require.NoError(t, err)

	fa.runErr = errors.New("network")
	_, err = flow.Run(context.Background())
	assert.Error(t, err)
	last, ok := flow.LastRun()
	require.True(t, ok)
	assert.Equal(t, "ok", last.Stdout)
	assert.Equal(t, "class Main { main }", flow.Code())

	_, err = flow.Submit(context.Background(), time.Minute)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, fa.lastSubmit.Status)
}

func TestPracticeSubmitWithoutTask(t *testing.T) {
	fa := newFakeAPI()
	flow := NewPracticeFlow(fa, nil, logger.Nop(), time.Second)
	_, err := flow.Submit(context.Background(), time.Second)
	assert.ErrorIs(t, err, ErrNoTask)
}
