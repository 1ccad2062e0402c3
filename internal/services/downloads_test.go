package services

import (
	"context"
	"net/http"
	"os"
	"strings"
	"testing"

	"github.com/google/uuid"

	types "github.com/yungbote/vaktutor/internal/domain"
)

func TestCreateDownloadStyleGate(t *testing.T) {
	env := newEnv(t, nil)
	ctx := context.Background()

	_, err := env.downloads.Create(ctx, uuid.New(), types.CreateDownloadRequest{ContentType: "pdf"})
	wantStatus(t, err, http.StatusBadRequest)

	uid := env.userWithStyle(t, "visual")
	cases := []struct {
		contentType string
		ok          bool
	}{
		{"pdf", true},
		{"video", true},
		{"audio", false},
		{"task_sheet", false},
		{"spreadsheet", false},
	}
	for _, tc := range cases {
		t.Run(tc.contentType, func(t *testing.T) {
			_, err := env.downloads.Create(ctx, uid, types.CreateDownloadRequest{ContentType: tc.contentType, Topic: "loops"})
			if tc.ok && err != nil {
				t.Fatalf("Create: %v", err)
			}
			if !tc.ok {
				ae := wantStatus(t, err, http.StatusBadRequest)
				if want := tc.contentType + " is not allowed for visual"; ae.Err.Error() != want {
					t.Fatalf("message: want=%q got=%q", want, ae.Err.Error())
				}
			}
		})
	}
}

func TestCreateDownloadContent(t *testing.T) {
	env := newEnv(t, nil)
	ctx := context.Background()
	uid := env.userWithStyle(t, "kinesthetic")

	explicit, err := env.downloads.Create(ctx, uid, types.CreateDownloadRequest{ContentType: "solution", Content: "given body"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if explicit.DownloadURL != "/api/downloads/file/"+explicit.DownloadID.String() {
		t.Fatalf("download url: got=%q", explicit.DownloadURL)
	}
	f, err := env.downloads.Open(ctx, uid, explicit.DownloadID)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if b, _ := os.ReadFile(f.Path); string(b) != "given body" {
		t.Fatalf("explicit content: got=%q", b)
	}
	if !strings.HasPrefix(f.Name, "u"+uid.String()+"_solution_") || !strings.HasSuffix(f.Name, ".txt") {
		t.Fatalf("file name: got=%q", f.Name)
	}

	generated, err := env.downloads.Create(ctx, uid, types.CreateDownloadRequest{ContentType: "task_sheet", BaseContent: "reference body"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	f, err = env.downloads.Open(ctx, uid, generated.DownloadID)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	b, _ := os.ReadFile(f.Path)
	for _, want := range []string{
		"Topic: general programming concept",
		"Asset type: task_sheet",
		"This is fallback generated content because AI output was unavailable.",
		"Reference content:\nreference body",
	} {
		if !strings.Contains(string(b), want) {
			t.Fatalf("fallback text missing %q in %q", want, b)
		}
	}

	list, err := env.downloads.List(ctx, uid)
	if err != nil || len(list) != 2 {
		t.Fatalf("List: n=%d err=%v", len(list), err)
	}
}

func TestOpenDownloadNotFound(t *testing.T) {
	env := newEnv(t, nil)
	ctx := context.Background()
	uid := env.userWithStyle(t, "visual")

	dl, err := env.downloads.Create(ctx, uid, types.CreateDownloadRequest{ContentType: "pdf", Content: "x"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	_, err = env.downloads.Open(ctx, uuid.New(), dl.DownloadID)
	wantStatus(t, err, http.StatusNotFound)
	_, err = env.downloads.Open(ctx, uid, uuid.New())
	wantStatus(t, err, http.StatusNotFound)

	f, err := env.downloads.Open(ctx, uid, dl.DownloadID)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := os.Remove(f.Path); err != nil {
		t.Fatalf("remove: %v", err)
	}
	ae := wantStatus(t, func() error { _, err := env.downloads.Open(ctx, uid, dl.DownloadID); return err }(), http.StatusNotFound)
	if ae.Err.Error() != "file missing" {
		t.Fatalf("message: got=%q", ae.Err.Error())
	}
}
