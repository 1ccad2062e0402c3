package downloads

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/vaktutor/internal/domain"
	"github.com/yungbote/vaktutor/internal/pkg/dbctx"
	perrors "github.com/yungbote/vaktutor/internal/pkg/errors"
	"github.com/yungbote/vaktutor/internal/platform/logger"
)

type DownloadRepo interface {
	Create(dbc dbctx.Context, row *types.Download) error
	// GetForUser returns ErrNotFound unless the download exists and belongs to userID.
	GetForUser(dbc dbctx.Context, userID, downloadID uuid.UUID) (*types.Download, error)
	ListRecent(dbc dbctx.Context, userID uuid.UUID, limit int) ([]*types.Download, error)
}

type downloadRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDownloadRepo(db *gorm.DB, baseLog *logger.Logger) DownloadRepo {
	return &downloadRepo{db: db, log: baseLog.With("repo", "DownloadRepo")}
}

func (r *downloadRepo) Create(dbc dbctx.Context, row *types.Download) error {
	if row == nil {
		return perrors.ErrInvalidArgument
	}
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	if row.Timestamp.IsZero() {
		row.Timestamp = time.Now().UTC()
	}
	return perrors.MapDB(dbc.Conn(r.db).Create(row).Error)
}

func (r *downloadRepo) GetForUser(dbc dbctx.Context, userID, downloadID uuid.UUID) (*types.Download, error) {
	var row types.Download
	err := dbc.Conn(r.db).
		Where("id = ? AND user_id = ?", downloadID, userID).
		First(&row).Error
	if err != nil {
		return nil, perrors.MapDB(err)
	}
	return &row, nil
}

func (r *downloadRepo) ListRecent(dbc dbctx.Context, userID uuid.UUID, limit int) ([]*types.Download, error) {
	var out []*types.Download
	if userID == uuid.Nil {
		return out, nil
	}
	if limit <= 0 {
		limit = 50
	}
	if err := dbc.Conn(r.db).
		Where("user_id = ?", userID).
		Order("timestamp DESC").
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, perrors.MapDB(err)
	}
	return out, nil
}
