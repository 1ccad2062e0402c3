package chat

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/vaktutor/internal/data/repos/testutil"
	types "github.com/yungbote/vaktutor/internal/domain"
	"github.com/yungbote/vaktutor/internal/pkg/dbctx"
	perrors "github.com/yungbote/vaktutor/internal/pkg/errors"
)

func TestChatHistoryRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewChatHistoryRepo(db, testutil.Logger(t))
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	userID := uuid.New()

	q, err := repo.LatestQuestion(dbc, userID)
	if err != nil || q != "" {
		t.Fatalf("LatestQuestion empty: want=\"\" got=%q err=%v", q, err)
	}

	now := time.Now().UTC()
	testutil.SeedChat(t, ctx, tx, userID, "older", now.Add(-2*time.Minute))
	latest := testutil.SeedChat(t, ctx, tx, userID, "what is finally?", now)
	testutil.SeedChat(t, ctx, tx, uuid.New(), "someone else", now.Add(time.Minute))

	created, err := repo.Create(dbc, []*types.ChatHistory{{
		UserID:            userID,
		Question:          "middle",
		Response:          "r",
		ResponseType:      "visual",
		LearningStyleUsed: "visual",
		Timestamp:         now.Add(-time.Minute),
	}})
	if err != nil || len(created) != 1 || created[0].ID == uuid.Nil {
		t.Fatalf("Create: got=%+v err=%v", created, err)
	}

	rows, err := repo.ListRecent(dbc, userID, 30)
	if err != nil {
		t.Fatalf("ListRecent: %v", err)
	}
	if len(rows) != 3 || rows[0].Question != "what is finally?" || rows[2].Question != "older" {
		t.Fatalf("ListRecent: want newest first for this user only, got %d rows", len(rows))
	}

	q, err = repo.LatestQuestion(dbc, userID)
	if err != nil || q != "what is finally?" {
		t.Fatalf("LatestQuestion: want=%q got=%q err=%v", "what is finally?", q, err)
	}

	if err := repo.SetFeedback(dbc, userID, latest.ID, 1, "clear"); err != nil {
		t.Fatalf("SetFeedback: %v", err)
	}
	if err := repo.SetFeedback(dbc, uuid.New(), latest.ID, 1, ""); !errors.Is(err, perrors.ErrNotFound) {
		t.Fatalf("SetFeedback other user: want=ErrNotFound got=%v", err)
	}
	rows, _ = repo.ListRecent(dbc, userID, 1)
	if rows[0].Rating == nil || *rows[0].Rating != 1 || rows[0].FeedbackComment != "clear" {
		t.Fatalf("SetFeedback: not persisted: %+v", rows[0])
	}

	n, err := repo.DeleteByUser(dbc, userID)
	if err != nil || n != 3 {
		t.Fatalf("DeleteByUser: want=3 got=%d err=%v", n, err)
	}
	rows, _ = repo.ListRecent(dbc, userID, 30)
	if len(rows) != 0 {
		t.Fatalf("DeleteByUser: want empty history, got %d", len(rows))
	}
}
