package flows

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/yungbote/vaktutor/internal/client/fetch"
	"github.com/yungbote/vaktutor/internal/client/resolve"
	"github.com/yungbote/vaktutor/internal/domain"
	"github.com/yungbote/vaktutor/internal/learning/tasks"
	"github.com/yungbote/vaktutor/internal/platform/logger"
)

type PracticeAPI interface {
	resolve.Catalog
	Run(ctx context.Context, sourceCode string) (domain.RunResult, error)
	SubmitPractice(ctx context.Context, req domain.SubmitPracticeRequest) (domain.SubmitPracticeResponse, error)
	PracticeHistory(ctx context.Context) ([]domain.PracticeActivity, error)
}

const (
	StatusCompleted   = "completed"
	StatusNeedsReview = "needs_review"
)

var ErrNoTask = errors.New("flows: no task selected")

type PracticeFlow struct {
	api      PracticeAPI
	resolver *resolve.Resolver
	log      *logger.Logger

	run    *fetch.Action[domain.RunResult]
	submit *fetch.Action[domain.SubmitPracticeResponse]

	mu      sync.Mutex
	res     resolve.Resolution
	code    string
	lastRun *domain.RunResult
}

func NewPracticeFlow(api PracticeAPI, h resolve.Handoff, log *logger.Logger, timeout time.Duration) *PracticeFlow {
	return &PracticeFlow{
		api:      api,
		resolver: resolve.New(h, api, log),
		log:      log.With("component", "PracticeFlow"),
		run:      fetch.New[domain.RunResult]("practice.run", log, timeout),
		submit:   fetch.New[domain.SubmitPracticeResponse]("practice.submit", log, timeout),
	}
}

// Open resolves the task list and loads the selected task's starter code.
func (f *PracticeFlow) Open(ctx context.Context, topic, taskName string) resolve.Resolution {
	res := f.resolver.Resolve(ctx, topic, taskName)
	f.mu.Lock()
	f.res = res
	f.loadSelected()
	f.mu.Unlock()
	return res
}

func (f *PracticeFlow) Resolution() resolve.Resolution {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.res
}

// SelectTask switches tasks and resets the editor to its starter code.
func (f *PracticeFlow) SelectTask(name string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.res.SelectTask(name) {
		return false
	}
	f.loadSelected()
	return true
}

func (f *PracticeFlow) loadSelected() {
	f.code = ""
	f.lastRun = nil
	if f.res.Selected != nil {
		f.code = f.res.Selected.StarterCode
	}
}

func (f *PracticeFlow) Code() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.code
}

func (f *PracticeFlow) SetCode(code string) {
	f.mu.Lock()
	f.code = code
	f.mu.Unlock()
}

func (f *PracticeFlow) LastRun() (domain.RunResult, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.lastRun == nil {
		return domain.RunResult{}, false
	}
	return *f.lastRun, true
}

// Run executes the current code. A failed call leaves the editor and the
// previous output as they were.
func (f *PracticeFlow) Run(ctx context.Context) (domain.RunResult, error) {
	code := f.Code()
	if strings.TrimSpace(code) == "" {
		return domain.RunResult{}, errors.New("flows: no code to run")
	}
	st, err := f.run.Run(ctx, func(ctx context.Context) (domain.RunResult, error) {
		return f.api.Run(ctx, code)
	}, nil)
	if err != nil {
		return domain.RunResult{}, err
	}
	out := st.Data
	f.mu.Lock()
	f.lastRun = &out
	f.mu.Unlock()
	return out, nil
}

// Submit records the attempt. It is marked for review when the last run
// wrote to stderr.
func (f *PracticeFlow) Submit(ctx context.Context, timeSpent time.Duration) (domain.SubmitPracticeResponse, error) {
	f.mu.Lock()
	sel := f.res.Selected
	code := f.code
	status := StatusCompleted
	if f.lastRun != nil && strings.TrimSpace(f.lastRun.Stderr) != "" {
		status = StatusNeedsReview
	}
	f.mu.Unlock()
	if sel == nil {
		return domain.SubmitPracticeResponse{}, ErrNoTask
	}
	req := domain.SubmitPracticeRequest{
		TaskName:      sel.Name,
		Status:        status,
		CodeSubmitted: code,
		TimeSpent:     int(timeSpent / time.Second),
	}
	st, err := f.submit.Run(ctx, func(ctx context.Context) (domain.SubmitPracticeResponse, error) {
		return f.api.SubmitPractice(ctx, req)
	}, nil)
	if err != nil {
		return domain.SubmitPracticeResponse{}, err
	}
	f.log.Info("Practice submitted", "task", sel.Name, "status", status)
	return st.Data, nil
}

func (f *PracticeFlow) History(ctx context.Context) ([]domain.PracticeActivity, error) {
	return f.api.PracticeHistory(ctx)
}

// Selected returns the task currently open, if any.
func (f *PracticeFlow) Selected() (tasks.Task, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.res.Selected == nil {
		return tasks.Task{}, false
	}
	return *f.res.Selected, true
}
