package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/vaktutor/internal/data/repos"
	types "github.com/yungbote/vaktutor/internal/domain"
	"github.com/yungbote/vaktutor/internal/learning/prompts"
	"github.com/yungbote/vaktutor/internal/learning/style"
	"github.com/yungbote/vaktutor/internal/pkg/dbctx"
	perrors "github.com/yungbote/vaktutor/internal/pkg/errors"
	"github.com/yungbote/vaktutor/internal/platform/apierr"
	"github.com/yungbote/vaktutor/internal/platform/logger"
	"github.com/yungbote/vaktutor/internal/platform/openai"
)

const (
	ContentPDF       = "pdf"
	ContentVideo     = "video"
	ContentAudio     = "audio"
	ContentTaskSheet = "task_sheet"
	ContentSolution  = "solution"

	downloadListLimit = 50
	assetContextLimit = 2500
	assetRefLimit     = 3000
	defaultAssetTopic = "general programming concept"
)

var allowedDownloads = map[style.Label]map[string]bool{
	style.Visual:      {ContentPDF: true, ContentVideo: true},
	style.Auditory:    {ContentAudio: true},
	style.Kinesthetic: {ContentTaskSheet: true, ContentSolution: true},
}

var typeInstructions = map[string]string{
	ContentPDF:       "Write concise notes suitable for export as PDF.",
	ContentVideo:     "Write storyboard-style frames for a short explainer video.",
	ContentAudio:     "Write an audio narration script.",
	ContentTaskSheet: "Write a practical coding task sheet.",
	ContentSolution:  "Write a complete worked solution with explanation.",
}

// DownloadFile locates a stored asset on disk.
type DownloadFile struct {
	Path string
	Name string
}

type DownloadService interface {
	Create(ctx context.Context, userID uuid.UUID, req types.CreateDownloadRequest) (types.DownloadView, error)
	Open(ctx context.Context, userID, downloadID uuid.UUID) (DownloadFile, error)
	List(ctx context.Context, userID uuid.UUID) ([]types.DownloadView, error)
}

type downloadService struct {
	log    *logger.Logger
	dir    string
	styles StyleService
	repo   repos.DownloadRepo
	ai     openai.Client
	now    func() time.Time
}

// NewDownloadService stores files under dir, creating it if needed. ai may
// be nil.
func NewDownloadService(log *logger.Logger, dir string, styles StyleService, repo repos.DownloadRepo, ai openai.Client) (DownloadService, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("download dir is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create download dir: %w", err)
	}
	return &downloadService{
		log:    log.With("service", "DownloadService"),
		dir:    dir,
		styles: styles,
		repo:   repo,
		ai:     ai,
		now:    func() time.Time { return time.Now().UTC() },
	}, nil
}

func (s *downloadService) Create(ctx context.Context, userID uuid.UUID, req types.CreateDownloadRequest) (types.DownloadView, error) {
	l, err := requireStyle(ctx, s.styles, userID)
	if err != nil {
		return types.DownloadView{}, err
	}
	contentType := strings.TrimSpace(req.ContentType)
	if !allowedDownloads[l][contentType] {
		return types.DownloadView{}, apierr.BadRequest("content_type_not_allowed",
			fmt.Errorf("%s is not allowed for %s", contentType, l))
	}

	text := strings.TrimSpace(req.Content)
	if text == "" {
		text = s.generateAsset(ctx, l, contentType, req.Topic, req.BaseContent)
	}
	payload, ext := []byte(text), "txt"
	if contentType == ContentAudio && s.ai != nil {
		audio, err := s.ai.Speech(ctx, text)
		if err != nil {
			s.log.Warn("Speech synthesis failed, storing script", "error", err)
			recordFallback("speech")
		} else {
			payload, ext = audio, "mp3"
		}
	}

	now := s.now()
	id := uuid.New()
	name := fmt.Sprintf("u%s_%s_%s_%s.%s", userID.String(), contentType, now.Format("20060102150405"), id.String()[:8], ext)
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return types.DownloadView{}, fmt.Errorf("write download: %w", err)
	}
	row := &types.Download{
		ID:          id,
		UserID:      userID,
		ContentType: contentType,
		FilePath:    path,
		Topic:       strings.TrimSpace(req.Topic),
		Timestamp:   now,
	}
	if err := s.repo.Create(dbctx.New(ctx), row); err != nil {
		_ = os.Remove(path)
		if errors.Is(err, perrors.ErrConflict) {
			return types.DownloadView{}, apierr.Conflict("conflict", errors.New("download already exists"))
		}
		return types.DownloadView{}, fmt.Errorf("save download: %w", err)
	}
	s.log.Info("Download generated", "user_id", userID.String(), "content_type", contentType, "bytes", len(payload))
	return downloadView(row), nil
}

func (s *downloadService) generateAsset(ctx context.Context, l style.Label, contentType, t, base string) string {
	t = strings.TrimSpace(t)
	if t == "" {
		t = defaultAssetTopic
	}
	base = strings.TrimSpace(base)
	typeInstruction, ok := typeInstructions[contentType]
	if !ok {
		typeInstruction = "Write useful learning content."
	}
	text, err := generateText(ctx, s.ai, prompts.PromptLearningAsset, prompts.Input{
		Topic:            t,
		Style:            string(l),
		StyleInstruction: styleInstruction(l),
		ContentType:      contentType,
		TypeInstruction:  typeInstruction,
		Context:          truncate(base, assetContextLimit),
	})
	if err == nil {
		return text
	}
	if !errors.Is(err, ErrAIUnavailable) {
		s.log.Warn("Asset generation failed, using fallback text", "content_type", contentType, "error", err)
	}
	recordFallback("asset")

	lines := []string{
		"Topic: " + t,
		"Learning style: " + string(l),
		"Asset type: " + contentType,
		"",
		"This is fallback generated content because AI output was unavailable.",
	}
	if base != "" {
		lines = append(lines, "", "Reference content:", truncate(base, assetRefLimit))
	}
	return strings.Join(lines, "\n")
}

func (s *downloadService) Open(ctx context.Context, userID, downloadID uuid.UUID) (DownloadFile, error) {
	row, err := s.repo.GetForUser(dbctx.New(ctx), userID, downloadID)
	if errors.Is(err, perrors.ErrNotFound) {
		return DownloadFile{}, apierr.NotFound("not_found", errors.New("download not found"))
	}
	if err != nil {
		return DownloadFile{}, err
	}
	info, err := os.Stat(row.FilePath)
	if err != nil || !info.Mode().IsRegular() {
		return DownloadFile{}, apierr.NotFound("file_missing", errors.New("file missing"))
	}
	return DownloadFile{Path: row.FilePath, Name: filepath.Base(row.FilePath)}, nil
}

func (s *downloadService) List(ctx context.Context, userID uuid.UUID) ([]types.DownloadView, error) {
	rows, err := s.repo.ListRecent(dbctx.New(ctx), userID, downloadListLimit)
	if err != nil {
		return nil, err
	}
	out := make([]types.DownloadView, 0, len(rows))
	for _, r := range rows {
		out = append(out, downloadView(r))
	}
	return out, nil
}

func downloadView(r *types.Download) types.DownloadView {
	return types.DownloadView{
		DownloadID:  r.ID,
		ContentType: r.ContentType,
		Topic:       r.Topic,
		DownloadURL: "/api/downloads/file/" + r.ID.String(),
		Timestamp:   r.Timestamp,
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
