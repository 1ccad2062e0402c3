// Package resolve decides which task list the practice page shows.
//
// Precedence, first non-empty wins:
//  1. the handoff bundle for the requested topic
//  2. the server catalog for that topic
//  3. the server default bank
package resolve

import (
	"context"
	"strings"

	"github.com/yungbote/vaktutor/internal/domain"
	"github.com/yungbote/vaktutor/internal/learning/tasks"
	"github.com/yungbote/vaktutor/internal/platform/logger"
)

type Handoff interface {
	Get(ctx context.Context, requestedTopic string) (tasks.Bundle, bool)
}

type Catalog interface {
	TasksByTopic(ctx context.Context, topic string) (domain.TasksResponse, error)
	DefaultTasks(ctx context.Context) ([]tasks.Task, error)
}

type Resolution struct {
	Tasks  []tasks.Task
	Source tasks.Source
	Topic  string
	// Selected is nil when there are no tasks.
	Selected *tasks.Task
	// Err is set only when every source failed.
	Err error
}

// SelectTask switches the selection to name (case-insensitive). It reports
// false and keeps the current selection when no task matches.
func (r *Resolution) SelectTask(name string) bool {
	t, ok := tasks.Find(r.Tasks, name)
	if !ok {
		return false
	}
	r.Selected = &t
	return true
}

func (r Resolution) Empty() bool { return len(r.Tasks) == 0 }

type Resolver struct {
	handoff Handoff
	catalog Catalog
	log     *logger.Logger
}

func New(h Handoff, c Catalog, log *logger.Logger) *Resolver {
	return &Resolver{handoff: h, catalog: c, log: log.With("component", "TaskResolver")}
}

// Resolve never fails the page: collaborator errors are logged and the next
// source is tried.
func (r *Resolver) Resolve(ctx context.Context, requestedTopic, requestedTask string) Resolution {
	requestedTopic = strings.TrimSpace(requestedTopic)
	res := r.resolveList(ctx, requestedTopic)
	res.Tasks = tasks.Dedupe(res.Tasks)
	res.selectInitial(requestedTask)
	r.log.Debug("Resolved practice tasks",
		"topic", res.Topic,
		"source", string(res.Source),
		"count", len(res.Tasks),
	)
	return res
}

func (r *Resolver) resolveList(ctx context.Context, requestedTopic string) Resolution {
	if requestedTopic != "" && r.handoff != nil {
		if b, ok := r.handoff.Get(ctx, requestedTopic); ok && len(b.Tasks) > 0 {
			src := b.Source
			if src == "" {
				src = tasks.SourceChatAssigned
			}
			return Resolution{Tasks: b.Tasks, Source: src, Topic: b.Topic}
		}
	}

	cat, err := r.catalog.TasksByTopic(ctx, requestedTopic)
	switch {
	case err != nil:
		r.log.Warn("Task catalog unavailable, using default bank", "topic", requestedTopic, "error", err)
	case len(cat.Tasks) > 0:
		t := cat.Topic
		if t == "" {
			t = requestedTopic
		}
		return Resolution{Tasks: cat.Tasks, Source: tasks.SourceCatalog, Topic: t}
	}

	defaults, err := r.catalog.DefaultTasks(ctx)
	if err != nil {
		r.log.Warn("Default task bank unavailable", "error", err)
		return Resolution{Source: tasks.SourceDefault, Topic: requestedTopic, Err: err}
	}
	return Resolution{Tasks: defaults, Source: tasks.SourceDefault, Topic: requestedTopic}
}

func (r *Resolution) selectInitial(name string) {
	r.Selected = nil
	if len(r.Tasks) == 0 {
		return
	}
	if r.SelectTask(name) {
		return
	}
	first := r.Tasks[0]
	r.Selected = &first
}
