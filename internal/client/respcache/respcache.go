// Package respcache remembers the latest tutor answer so a reload can show it
// before the server history arrives.
package respcache

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/yungbote/vaktutor/internal/client/kv"
	"github.com/yungbote/vaktutor/internal/domain"
	"github.com/yungbote/vaktutor/internal/platform/logger"
)

type Cache struct {
	kv  kv.Store
	log *logger.Logger
}

func New(store kv.Store, log *logger.Logger) *Cache {
	return &Cache{kv: store, log: log.With("component", "ResponseCache")}
}

func (c *Cache) Save(ctx context.Context, resp domain.ContentResponse) error {
	if err := kv.SaveJSON(ctx, c.kv, kv.KeyLatestResponse, resp); err != nil {
		return fmt.Errorf("respcache save: %w", err)
	}
	return nil
}

// Load returns the cached answer. Corrupt entries are cleared and reported
// as absent.
func (c *Cache) Load(ctx context.Context) (domain.ContentResponse, bool) {
	var resp domain.ContentResponse
	ok, err := kv.LoadJSON(ctx, c.kv, kv.KeyLatestResponse, &resp)
	if err == nil && ok && empty(resp) {
		err = fmt.Errorf("%w: empty response", kv.ErrCorrupt)
	}
	if err != nil {
		if errors.Is(err, kv.ErrCorrupt) {
			c.log.Warn("Cached response corrupt, clearing", "error", err)
			if dErr := c.kv.Delete(ctx, kv.KeyLatestResponse); dErr != nil {
				c.log.Warn("Failed to clear corrupt cached response", "error", dErr)
			}
		} else {
			c.log.Warn("Cached response read failed", "error", err)
		}
		return domain.ContentResponse{}, false
	}
	return resp, ok
}

// empty reports a blob such as null or {} that no Save could have written.
func empty(r domain.ContentResponse) bool {
	return strings.TrimSpace(r.Text) == "" && r.ChatID == uuid.Nil && r.Practice == nil
}

func (c *Cache) Clear(ctx context.Context) error {
	if err := c.kv.Delete(ctx, kv.KeyLatestResponse); err != nil {
		return fmt.Errorf("respcache clear: %w", err)
	}
	return nil
}
