package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/vaktutor/internal/domain"
)

func SeedStyle(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, style string) *types.LearningStyle {
	tb.Helper()
	now := time.Now().UTC()
	row := &types.LearningStyle{
		UserID:        userID,
		LearningStyle: style,
		Source:        "select",
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := tx.WithContext(ctx).Create(row).Error; err != nil {
		tb.Fatalf("seed style: %v", err)
	}
	return row
}

func SeedChat(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, question string, at time.Time) *types.ChatHistory {
	tb.Helper()
	row := &types.ChatHistory{
		ID:                uuid.New(),
		UserID:            userID,
		Question:          question,
		Response:          "answer",
		ResponseType:      "visual",
		LearningStyleUsed: "visual",
		Timestamp:         at,
	}
	if err := tx.WithContext(ctx).Create(row).Error; err != nil {
		tb.Fatalf("seed chat: %v", err)
	}
	return row
}
