package flows

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/yungbote/vaktutor/internal/client/fetch"
	"github.com/yungbote/vaktutor/internal/client/handoff"
	"github.com/yungbote/vaktutor/internal/client/respcache"
	"github.com/yungbote/vaktutor/internal/domain"
	"github.com/yungbote/vaktutor/internal/learning/style"
	"github.com/yungbote/vaktutor/internal/learning/tasks"
	"github.com/yungbote/vaktutor/internal/platform/logger"
)

type ChatAPI interface {
	MyStyle(ctx context.Context) (domain.StyleView, error)
	Ask(ctx context.Context, question string) (domain.ContentResponse, error)
	History(ctx context.Context) ([]domain.ChatHistory, error)
	ClearHistory(ctx context.Context) error
	Feedback(ctx context.Context, chatID uuid.UUID, rating int, comment string) error
	Suggestions(ctx context.Context, topic string) ([]string, error)
	CreateDownload(ctx context.Context, req domain.CreateDownloadRequest) (domain.DownloadView, error)
	FetchDownload(ctx context.Context, id uuid.UUID) ([]byte, error)
}

var (
	ErrEmptyQuestion = errors.New("flows: question is required")
	ErrNoAnswer      = errors.New("flows: no answer to rate")
)

// BootResult is what the chat page shows on entry. Each *Err field records
// a swallowed failure of an optional fetch.
type BootResult struct {
	Style       domain.StyleView
	History     []domain.ChatHistory
	Suggestions []string
	// Restored is the cached latest answer, nil when none survived.
	Restored *domain.ContentResponse

	StyleErr       error
	HistoryErr     error
	SuggestionsErr error
}

type AskResult struct {
	Response domain.ContentResponse
	// Audio holds the narrated answer for auditory learners.
	Audio    []byte
	AudioErr error
	// Handoff is true when the answer's practice bundle was stored.
	Handoff    bool
	History    []domain.ChatHistory
	HistoryErr error
}

type ChatFlow struct {
	api     ChatAPI
	handoff *handoff.Store
	cache   *respcache.Cache
	log     *logger.Logger

	ask *fetch.Action[domain.ContentResponse]

	mu     sync.Mutex
	style  style.Label
	latest *domain.ContentResponse
}

func NewChatFlow(api ChatAPI, h *handoff.Store, cache *respcache.Cache, log *logger.Logger, timeout time.Duration) *ChatFlow {
	return &ChatFlow{
		api:     api,
		handoff: h,
		cache:   cache,
		log:     log.With("component", "ChatFlow"),
		ask:     fetch.New[domain.ContentResponse]("chat.ask", log, timeout),
	}
}

func (f *ChatFlow) AskState() fetch.State[domain.ContentResponse] { return f.ask.State() }

// Boot fetches style and history in parallel, then prompt suggestions for
// the latest topic, then restores the cached answer. None of these fail the
// page.
func (f *ChatFlow) Boot(ctx context.Context) BootResult {
	var out BootResult
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		out.Style, out.StyleErr = f.api.MyStyle(gctx)
		return nil
	})
	g.Go(func() error {
		out.History, out.HistoryErr = f.api.History(gctx)
		return nil
	})
	_ = g.Wait()

	if out.StyleErr != nil {
		f.log.Warn("Style unavailable at chat boot", "error", out.StyleErr)
	} else if l, err := style.ParseLabel(out.Style.LearningStyle); err == nil {
		f.setStyle(l)
	}
	if out.HistoryErr != nil {
		f.log.Warn("History unavailable at chat boot", "error", out.HistoryErr)
	}

	topic := ""
	if len(out.History) > 0 {
		topic = out.History[0].Question
	}
	out.Suggestions, out.SuggestionsErr = f.api.Suggestions(ctx, topic)
	if out.SuggestionsErr != nil {
		f.log.Warn("Prompt suggestions unavailable", "error", out.SuggestionsErr)
		out.Suggestions = nil
	}

	if cached, ok := f.cache.Load(ctx); ok {
		out.Restored = &cached
		f.mu.Lock()
		f.latest = &cached
		f.mu.Unlock()
	}
	return out
}

func (f *ChatFlow) setStyle(l style.Label) {
	f.mu.Lock()
	f.style = l
	f.mu.Unlock()
}

func (f *ChatFlow) Style() style.Label {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.style
}

// Latest is the answer currently shown, from this session or the cache.
func (f *ChatFlow) Latest() (domain.ContentResponse, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.latest == nil {
		return domain.ContentResponse{}, false
	}
	return *f.latest, true
}

// Ask sends a question. While a question is loading another Ask returns
// fetch.ErrInFlight. Side effects after a successful answer are
// best-effort and reported in the result.
func (f *ChatFlow) Ask(ctx context.Context, question string) (AskResult, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return AskResult{}, ErrEmptyQuestion
	}
	// The ticket is taken only once the run is accepted, so a rejected
	// duplicate cannot supersede the ask in flight.
	var ticket handoff.Ticket
	st, err := f.ask.Run(ctx, func(ctx context.Context) (domain.ContentResponse, error) {
		ticket = f.handoff.Begin()
		return f.api.Ask(ctx, question)
	}, nil)
	if err != nil {
		return AskResult{}, err
	}

	resp := st.Data
	resp.AskedQuestion = question
	out := AskResult{Response: resp}

	f.mu.Lock()
	f.latest = &resp
	f.mu.Unlock()
	if err := f.cache.Save(ctx, resp); err != nil {
		f.log.Warn("Caching latest answer failed", "error", err)
	}

	if p := resp.Practice; p != nil && len(p.Tasks) > 0 {
		src := p.Source
		if src == "" {
			src = tasks.SourceChatAssigned
		}
		topic := p.Topic
		if topic == "" {
			topic = question
		}
		ok, err := f.handoff.PutIfLatest(ctx, ticket, tasks.Bundle{Topic: topic, Source: src, Tasks: p.Tasks})
		if err != nil {
			f.log.Warn("Storing practice handoff failed", "error", err)
		}
		out.Handoff = ok
	}

	out.Audio, out.AudioErr = f.audio(ctx, resp)
	if out.AudioErr != nil {
		f.log.Warn("Audio asset unavailable", "chat_id", resp.ChatID.String(), "error", out.AudioErr)
		out.Audio = nil
	}

	out.History, out.HistoryErr = f.api.History(ctx)
	if out.HistoryErr != nil {
		f.log.Warn("History refresh failed", "error", out.HistoryErr)
	}
	return out, nil
}

func (f *ChatFlow) audio(ctx context.Context, resp domain.ContentResponse) ([]byte, error) {
	if resp.AudioDownloadID != nil {
		return f.api.FetchDownload(ctx, *resp.AudioDownloadID)
	}
	if f.Style() != style.Auditory {
		return nil, nil
	}
	dl, err := f.api.CreateDownload(ctx, domain.CreateDownloadRequest{
		ContentType: "audio",
		Topic:       resp.AskedQuestion,
		BaseContent: resp.Text,
	})
	if err != nil {
		return nil, err
	}
	return f.api.FetchDownload(ctx, dl.DownloadID)
}

// Feedback rates the answer currently shown.
func (f *ChatFlow) Feedback(ctx context.Context, rating int, comment string) error {
	latest, ok := f.Latest()
	if !ok || latest.ChatID == uuid.Nil {
		return ErrNoAnswer
	}
	return f.api.Feedback(ctx, latest.ChatID, rating, comment)
}

// AffirmTopic hands tasks for topic to the practice lab.
func (f *ChatFlow) AffirmTopic(ctx context.Context, topic string, list []tasks.Task) error {
	return f.handoff.Put(ctx, tasks.Bundle{Topic: topic, Source: tasks.SourceChatAssigned, Tasks: list})
}

// NewChat forgets the local session: cached answer and practice handoff.
func (f *ChatFlow) NewChat(ctx context.Context) error {
	f.ask.Reset()
	f.mu.Lock()
	f.latest = nil
	f.mu.Unlock()
	return errors.Join(f.cache.Clear(ctx), f.handoff.Clear(ctx))
}

// ClearHistory deletes server history and then local state. Local state is
// untouched when the server call fails.
func (f *ChatFlow) ClearHistory(ctx context.Context) error {
	if err := f.api.ClearHistory(ctx); err != nil {
		return err
	}
	return f.NewChat(ctx)
}
