package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	types "github.com/yungbote/vaktutor/internal/domain"
	"github.com/yungbote/vaktutor/internal/observability"
	"github.com/yungbote/vaktutor/internal/platform/envutil"
	"github.com/yungbote/vaktutor/internal/platform/logger"
)

const (
	RunnerJudge0    = "judge0"
	RunnerLocalJava = "local-java"
	RunnerSimulated = "simulated"

	RunStatusSuccess = "success"
	RunStatusError   = "error"

	judge0LanguageJava = 62
	judge0Accepted     = 3
)

// LabRunner executes learner Java code.
type LabRunner interface {
	Run(ctx context.Context, sourceCode string) types.RunResult
}

type Judge0Config struct {
	BaseURL string
	APIKey  string
	APIHost string
	Timeout time.Duration
}

func Judge0ConfigFromEnv(log *logger.Logger) Judge0Config {
	return Judge0Config{
		BaseURL: strings.TrimRight(envutil.String("JUDGE0_BASE_URL", "", log), "/"),
		APIKey:  envutil.String("JUDGE0_API_KEY", "", nil),
		APIHost: envutil.String("JUDGE0_API_HOST", "", log),
		Timeout: envutil.Duration("JUDGE0_TIMEOUT_SECONDS", 40*time.Second, log),
	}
}

var placeholderKeys = map[string]bool{
	"your-rapidapi-key": true,
	"changeme":          true,
	"none":              true,
	"null":              true,
}

// Usable reports whether the credentials are present and not placeholders.
func (c Judge0Config) Usable() bool {
	if c.BaseURL == "" || c.APIKey == "" || c.APIHost == "" {
		return false
	}
	return !placeholderKeys[strings.ToLower(strings.TrimSpace(c.APIKey))]
}

// labRunner tries Judge0, then a local JDK, then a static simulation.
type labRunner struct {
	log        *logger.Logger
	judge0     Judge0Config
	httpClient *http.Client
	// localTimeout bounds each of javac and java.
	localTimeout time.Duration
	lookPath     func(string) (string, error)
}

func NewLabRunner(log *logger.Logger, judge0 Judge0Config) LabRunner {
	timeout := judge0.Timeout
	if timeout <= 0 {
		timeout = 40 * time.Second
	}
	return &labRunner{
		log:          log.With("service", "LabRunner"),
		judge0:       judge0,
		httpClient:   &http.Client{Timeout: timeout},
		localTimeout: 12 * time.Second,
		lookPath:     exec.LookPath,
	}
}

func (r *labRunner) Run(ctx context.Context, sourceCode string) types.RunResult {
	res := r.run(ctx, sourceCode)
	observability.Current().IncCodeRun(res.Runner, res.Status)
	return res
}

func (r *labRunner) run(ctx context.Context, sourceCode string) types.RunResult {
	if !r.judge0.Usable() {
		if res, ok := r.runLocal(ctx, sourceCode); ok {
			return res
		}
		return simulateJava(sourceCode, "Judge0 credentials missing. Local Java not available, switched to simulated execution.")
	}

	res, err := r.runJudge0(ctx, sourceCode)
	if err == nil {
		return res
	}
	r.log.Warn("Judge0 failed, falling back", "error", err)
	reason := "Judge0 network error."
	var httpErr *judge0HTTPError
	if errors.As(err, &httpErr) {
		reason = fmt.Sprintf("Judge0 HTTP error (%d).", httpErr.Status)
	}
	if local, ok := r.runLocal(ctx, sourceCode); ok {
		local.Note = reason + " Switched to local Java execution."
		return local
	}
	return simulateJava(sourceCode, reason+" Switched to simulated execution.")
}

type judge0HTTPError struct {
	Status int
	Body   string
}

func (e *judge0HTTPError) Error() string {
	return fmt.Sprintf("judge0 http %d: %s", e.Status, e.Body)
}

type judge0Response struct {
	Stdout        *string `json:"stdout"`
	Stderr        *string `json:"stderr"`
	CompileOutput *string `json:"compile_output"`
	Status        *struct {
		ID          int    `json:"id"`
		Description string `json:"description"`
	} `json:"status"`
}

func (r *labRunner) runJudge0(ctx context.Context, sourceCode string) (types.RunResult, error) {
	body, err := json.Marshal(map[string]any{
		"language_id": judge0LanguageJava,
		"source_code": sourceCode,
	})
	if err != nil {
		return types.RunResult{}, err
	}
	url := r.judge0.BaseURL + "/submissions?base64_encoded=false&wait=true"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return types.RunResult{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-RapidAPI-Key", r.judge0.APIKey)
	req.Header.Set("X-RapidAPI-Host", r.judge0.APIHost)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return types.RunResult{}, err
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return types.RunResult{}, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return types.RunResult{}, &judge0HTTPError{Status: resp.StatusCode, Body: string(raw)}
	}
	var out judge0Response
	if err := json.Unmarshal(raw, &out); err != nil {
		return types.RunResult{}, fmt.Errorf("judge0 decode: %w", err)
	}

	res := types.RunResult{
		Status:       RunStatusError,
		Stdout:       deref(out.Stdout),
		Stderr:       deref(out.Stderr),
		Judge0Status: "unknown",
		Runner:       RunnerJudge0,
	}
	if res.Stderr == "" {
		res.Stderr = deref(out.CompileOutput)
	}
	if out.Status != nil {
		if out.Status.ID == judge0Accepted {
			res.Status = RunStatusSuccess
		}
		if out.Status.Description != "" {
			res.Judge0Status = out.Status.Description
		}
	}
	return res, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

var publicClassRe = regexp.MustCompile(`public\s+class\s+([A-Za-z_][A-Za-z0-9_]*)`)

func publicClassName(sourceCode string) string {
	if m := publicClassRe.FindStringSubmatch(sourceCode); m != nil {
		return m[1]
	}
	return "Main"
}

const localNote = "Executed locally using javac/java."

// runLocal reports false when no JDK is installed.
func (r *labRunner) runLocal(ctx context.Context, sourceCode string) (types.RunResult, bool) {
	javac, err := r.lookPath("javac")
	if err != nil {
		return types.RunResult{}, false
	}
	java, err := r.lookPath("java")
	if err != nil {
		return types.RunResult{}, false
	}
	localErr := func(stderr, status string) types.RunResult {
		return types.RunResult{Status: RunStatusError, Stderr: stderr, Judge0Status: status, Runner: RunnerLocalJava, Note: localNote}
	}

	dir, err := os.MkdirTemp("", "vaktutor_java_")
	if err != nil {
		return localErr("Local execution failed: "+err.Error(), "local_error"), true
	}
	defer os.RemoveAll(dir)

	className := publicClassName(sourceCode)
	file := filepath.Join(dir, className+".java")
	if err := os.WriteFile(file, []byte(sourceCode), 0o600); err != nil {
		return localErr("Local execution failed: "+err.Error(), "local_error"), true
	}

	stdout, stderr, code, err := r.exec(ctx, dir, javac, file)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return localErr("Execution timed out.", "local_timeout"), true
		}
		return localErr("Local execution failed: "+err.Error(), "local_error"), true
	}
	if code != 0 {
		if stderr == "" {
			stderr = "Compilation failed."
		}
		res := localErr(stderr, "local_compile_error")
		res.Stdout = stdout
		return res, true
	}

	stdout, stderr, code, err = r.exec(ctx, dir, java, className)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return localErr("Execution timed out.", "local_timeout"), true
		}
		return localErr("Local execution failed: "+err.Error(), "local_error"), true
	}
	res := types.RunResult{
		Status:       RunStatusSuccess,
		Stdout:       stdout,
		Stderr:       stderr,
		Judge0Status: "local_success",
		Runner:       RunnerLocalJava,
		Note:         localNote,
	}
	if code != 0 {
		res.Status = RunStatusError
		res.Judge0Status = "local_runtime_error"
	}
	return res, true
}

// exec runs one command. A non-zero exit is reported through code, not err.
func (r *labRunner) exec(ctx context.Context, dir, bin string, args ...string) (string, string, int, error) {
	ctx, cancel := context.WithTimeout(ctx, r.localTimeout)
	defer cancel()
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	if ctx.Err() != nil {
		return "", "", -1, ctx.Err()
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return stdout.String(), stderr.String(), exitErr.ExitCode(), nil
	}
	if err != nil {
		return "", "", -1, err
	}
	return stdout.String(), stderr.String(), 0, nil
}

// simulateJava inspects the source without running it.
func simulateJava(sourceCode, reason string) types.RunResult {
	res := types.RunResult{Judge0Status: "simulation", Runner: RunnerSimulated, Note: reason}
	if !strings.Contains(sourceCode, "class") || !strings.Contains(sourceCode, "main") {
		res.Status = RunStatusError
		res.Stderr = "Simulated compile error: class/main method not found."
		return res
	}
	var hints []string
	if strings.Contains(sourceCode, "try") && strings.Contains(sourceCode, "catch") {
		hints = append(hints, "Detected try-catch block.")
	}
	if strings.Contains(sourceCode, "finally") {
		hints = append(hints, "Detected finally block.")
	}
	if strings.Contains(sourceCode, "/ 0") || strings.Contains(sourceCode, "throw new") {
		hints = append(hints, "Possible exception path identified.")
	}
	res.Status = RunStatusSuccess
	res.Stdout = "Simulated execution success."
	if len(hints) > 0 {
		res.Stdout += " " + strings.Join(hints, " ")
	}
	return res
}
