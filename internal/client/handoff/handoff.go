// Package handoff keeps the single task bundle that one page leaves for
// another, scoped by topic.
package handoff

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/yungbote/vaktutor/internal/client/kv"
	"github.com/yungbote/vaktutor/internal/learning/tasks"
	"github.com/yungbote/vaktutor/internal/platform/logger"
)

// Ticket orders writers within one process. A ticket is superseded once a
// newer ticket is issued, a plain Put lands, or the slot is cleared.
type Ticket uint64

type Store struct {
	kv  kv.Store
	log *logger.Logger
	now func() time.Time

	mu     sync.Mutex
	issued Ticket
}

func New(store kv.Store, log *logger.Logger) *Store {
	return &Store{
		kv:  store,
		log: log.With("component", "HandoffStore"),
		now: func() time.Time { return time.Now().UTC() },
	}
}

// Begin reserves a ticket for a write that will complete later.
func (s *Store) Begin() Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued++
	return s.issued
}

// Put replaces the stored bundle. It supersedes every outstanding ticket.
func (s *Store) Put(ctx context.Context, b tasks.Bundle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued++
	return s.write(ctx, b)
}

// PutIfLatest writes b only when t is still the newest ticket. It reports
// whether the write happened.
func (s *Store) PutIfLatest(ctx context.Context, t Ticket, b tasks.Bundle) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t != s.issued {
		s.log.Info("Discarding stale handoff write", "ticket", uint64(t), "latest", uint64(s.issued), "topic", b.Topic)
		return false, nil
	}
	if err := s.write(ctx, b); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) write(ctx context.Context, b tasks.Bundle) error {
	if b.Source == "" {
		b.Source = tasks.SourceChatAssigned
	}
	b.Topic = strings.TrimSpace(b.Topic)
	if err := b.Validate(); err != nil {
		return fmt.Errorf("handoff put: %w", err)
	}
	if b.SavedAt.IsZero() {
		b.SavedAt = s.now()
	}
	if err := kv.SaveJSON(ctx, s.kv, kv.KeyPracticeBundle, b); err != nil {
		return fmt.Errorf("handoff put: %w", err)
	}
	return nil
}

// Get returns the stored bundle when requestedTopic is empty or names the
// same topic. Unreadable or invalid blobs are cleared and reported as absent.
func (s *Store) Get(ctx context.Context, requestedTopic string) (tasks.Bundle, bool) {
	var b tasks.Bundle
	ok, err := kv.LoadJSON(ctx, s.kv, kv.KeyPracticeBundle, &b)
	if err == nil && ok {
		if vErr := b.Validate(); vErr != nil {
			err = fmt.Errorf("%w: %v", kv.ErrCorrupt, vErr)
			ok = false
		} else if len(b.Tasks) == 0 && strings.TrimSpace(b.Topic) == "" {
			err = fmt.Errorf("%w: empty bundle", kv.ErrCorrupt)
			ok = false
		}
	}
	if err != nil {
		if errors.Is(err, kv.ErrCorrupt) {
			s.log.Warn("Handoff bundle corrupt, clearing", "error", err)
			if dErr := s.kv.Delete(ctx, kv.KeyPracticeBundle); dErr != nil {
				s.log.Warn("Failed to clear corrupt handoff bundle", "error", dErr)
			}
		} else {
			s.log.Warn("Handoff bundle read failed", "error", err)
		}
		return tasks.Bundle{}, false
	}
	if !ok {
		return tasks.Bundle{}, false
	}
	if !b.Matches(requestedTopic) {
		s.log.Debug("Handoff bundle topic mismatch", "requested", requestedTopic, "stored", b.Topic)
		return tasks.Bundle{}, false
	}
	if b.Source == "" {
		b.Source = tasks.SourceChatAssigned
	}
	return b, true
}

// Clear empties the slot and supersedes every outstanding ticket.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued++
	if err := s.kv.Delete(ctx, kv.KeyPracticeBundle); err != nil {
		return fmt.Errorf("handoff clear: %w", err)
	}
	return nil
}
