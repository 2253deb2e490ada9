package tools

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"

	"github.com/beeper/ai-pptx/pkg/pptx"
	"github.com/beeper/ai-pptx/pkg/shared/toolspec"
	"github.com/beeper/ai-pptx/pkg/textfs"
)

// MaxPptxBytes is the largest file pptx_read will load.
const MaxPptxBytes = 50 * 1024 * 1024

const noExtractableText = "PPTX contains no extractable text (may be image-only)"

// SecurityPolicy is the sandbox consulted before any file is touched.
type SecurityPolicy interface {
	IsRateLimited() bool
	IsPathAllowed(raw string) bool
	// RecordAction counts an action and reports whether the caller is still
	// within its budget. The action is counted either way.
	RecordAction() bool
	IsResolvedPathAllowed(canonical string) bool
	ResolvedPathViolationMessage(canonical string) string
}

// FailureKind classifies a failed tool call. It is reported in the result
// details under "kind".
type FailureKind string

const (
	KindInvalidArguments     FailureKind = "invalid_arguments"
	KindRateLimited          FailureKind = "rate_limited"
	KindPathDenied           FailureKind = "path_denied"
	KindBudgetExhausted      FailureKind = "budget_exhausted"
	KindPathResolutionError  FailureKind = "path_resolution_error"
	KindFileTooLarge         FailureKind = "file_too_large"
	KindReadError            FailureKind = "read_error"
	KindInvalidArchive       FailureKind = "invalid_archive"
	KindEntryReadError       FailureKind = "entry_read_error"
	KindExtractionTaskFailed FailureKind = "extraction_task_failed"
)

// PptxReadRequest is a parsed pptx_read invocation.
type PptxReadRequest struct {
	Path     string
	MaxChars *int
}

// EffectiveMaxChars applies the default and the hard ceiling.
func (r PptxReadRequest) EffectiveMaxChars() int {
	switch {
	case r.MaxChars == nil || *r.MaxChars < 1:
		return toolspec.PptxDefaultMaxChars
	case *r.MaxChars > toolspec.PptxMaxCharsCeiling:
		return toolspec.PptxMaxCharsCeiling
	default:
		return *r.MaxChars
	}
}

// ParsePptxReadRequest reads the tool arguments. A missing or non-string path
// is an error; an absent or unusable max_chars falls back to the default.
func ParsePptxReadRequest(input map[string]any) (PptxReadRequest, error) {
	path, err := ReadString(input, "path", true)
	if err != nil {
		return PptxReadRequest{}, err
	}
	return PptxReadRequest{
		Path:     path,
		MaxChars: ReadOptionalInt(input, "max_chars", toolspec.PptxMaxCharsCeiling),
	}, nil
}

// PptxReader runs pptx_read requests through the security gate and the
// extraction worker.
type PptxReader struct {
	security     SecurityPolicy
	workspaceDir string
	worker       *pptx.Worker
	estimate     func(string) int

	stat     func(string) (fs.FileInfo, error)
	readFile func(string) ([]byte, error)
}

type PptxReaderOption func(*PptxReader)

// WithWorker shares an extraction worker between readers.
func WithWorker(worker *pptx.Worker) PptxReaderOption {
	return func(r *PptxReader) {
		r.worker = worker
	}
}

// WithTokenEstimator reports an estimated token count for the returned text.
func WithTokenEstimator(estimate func(string) int) PptxReaderOption {
	return func(r *PptxReader) {
		r.estimate = estimate
	}
}

func NewPptxReader(security SecurityPolicy, workspaceDir string, opts ...PptxReaderOption) *PptxReader {
	r := &PptxReader{
		security:     security,
		workspaceDir: workspaceDir,
		stat:         os.Stat,
		readFile:     os.ReadFile,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.worker == nil {
		r.worker = pptx.NewWorker(0)
	}
	return r
}

func pptxFailure(kind FailureKind, path, message string) *Result {
	res := ErrorResult(toolspec.PptxReadName, message)
	res.Details["kind"] = kind
	if path != "" {
		res.Details["path"] = path
	}
	return res
}

// Read extracts the text of the PPTX at req.Path. Every failure is returned
// as an error result; nothing is partially returned.
//
// The checks run in a fixed order: rate limit, path allow-list, budget,
// symlink resolution, resolved path allow-list, size, read, extraction. The
// budget is charged before the file is touched, so a request that later
// fails still counts.
func (r *PptxReader) Read(ctx context.Context, req PptxReadRequest) *Result {
	log := zerolog.Ctx(ctx).With().
		Str("tool_name", toolspec.PptxReadName).
		Str("path", req.Path).
		Logger()

	if r.security.IsRateLimited() {
		log.Warn().Msg("Denied pptx_read: rate limited")
		return pptxFailure(KindRateLimited, req.Path, "Rate limit exceeded: too many actions in the last hour")
	}
	if !r.security.IsPathAllowed(req.Path) {
		log.Warn().Msg("Denied pptx_read: path not allowed")
		return pptxFailure(KindPathDenied, req.Path, fmt.Sprintf("Path not allowed by security policy: %s", req.Path))
	}
	if !r.security.RecordAction() {
		log.Warn().Msg("Denied pptx_read: budget exhausted")
		return pptxFailure(KindBudgetExhausted, req.Path, "Rate limit exceeded: action budget exhausted")
	}

	target, failure := r.resolveTarget(log, req.Path)
	if failure != nil {
		return failure
	}

	data, err := r.readFile(target.Path)
	if err != nil {
		return pptxFailure(KindReadError, req.Path, fmt.Sprintf("Failed to read PPTX file: %v", err))
	}
	// The file may have grown between stat and read.
	if len(data) > MaxPptxBytes {
		return pptxFailure(KindFileTooLarge, req.Path,
			fmt.Sprintf("PPTX too large: %d bytes (limit: %d bytes)", len(data), MaxPptxBytes))
	}

	text, err := r.worker.Extract(ctx, data)
	switch {
	case err == nil:
	case errors.Is(err, pptx.ErrTaskFailed):
		log.Err(err).Msg("PPTX extraction task failed")
		return pptxFailure(KindExtractionTaskFailed, req.Path, fmt.Sprintf("PPTX extraction task failed: %v", err))
	case errors.Is(err, pptx.ErrInvalidArchive):
		return pptxFailure(KindInvalidArchive, req.Path, fmt.Sprintf("PPTX extraction failed: %v", err))
	default:
		return pptxFailure(KindEntryReadError, req.Path, fmt.Sprintf("PPTX extraction failed: %v", err))
	}

	if strings.TrimSpace(text) == "" {
		res := TextResult(noExtractableText)
		res.Details = map[string]any{"path": req.Path, "bytes": len(data), "chars": 0}
		return res
	}

	maxChars := req.EffectiveMaxChars()
	output, truncated := textfs.TruncateChars(text, maxChars)
	res := TextResult(output)
	res.Details = map[string]any{
		"path":      req.Path,
		"bytes":     len(data),
		"chars":     utf8.RuneCountInString(text),
		"max_chars": maxChars,
		"truncated": truncated,
	}
	if r.estimate != nil {
		res.Details["tokens"] = r.estimate(output)
	}
	log.Debug().
		Int("chars", utf8.RuneCountInString(text)).
		Bool("truncated", truncated).
		Msg("Extracted PPTX text")
	return res
}

// ResolvedTarget is a file that passed both allow-list checks.
type ResolvedTarget struct {
	Path string // canonical, symlinks resolved
	Size int64
}

// resolveTarget expands and canonicalizes raw the same way IsPathAllowed
// judged it, re-checks the result against the policy
// and stats it. The body is not read.
func (r *PptxReader) resolveTarget(log zerolog.Logger, raw string) (ResolvedTarget, *Result) {
	resolved, err := textfs.Canonicalize(textfs.JoinWorkspace(r.workspaceDir, textfs.ExpandHome(raw)))
	if err != nil {
		return ResolvedTarget{}, pptxFailure(KindPathResolutionError, raw, fmt.Sprintf("Failed to resolve file path: %v", err))
	}
	if !r.security.IsResolvedPathAllowed(resolved) {
		log.Warn().Str("resolved_path", resolved).Msg("Denied pptx_read: resolved path outside allowlist")
		return ResolvedTarget{}, pptxFailure(KindPathDenied, raw, r.security.ResolvedPathViolationMessage(resolved))
	}
	log.Debug().Str("resolved_path", resolved).Msg("Reading PPTX")

	info, err := r.stat(resolved)
	if err != nil {
		return ResolvedTarget{}, pptxFailure(KindReadError, raw, fmt.Sprintf("Failed to read file metadata: %v", err))
	}
	if !info.Mode().IsRegular() {
		return ResolvedTarget{}, pptxFailure(KindReadError, raw, fmt.Sprintf("Failed to read PPTX file: %s is not a regular file", resolved))
	}
	if info.Size() > MaxPptxBytes {
		log.Warn().Str("size", textfs.FormatSize(info.Size())).Msg("Refused oversized PPTX")
		return ResolvedTarget{}, pptxFailure(KindFileTooLarge, raw,
			fmt.Sprintf("PPTX too large: %d bytes (limit: %d bytes)", info.Size(), MaxPptxBytes))
	}
	return ResolvedTarget{Path: resolved, Size: info.Size()}, nil
}

// PptxReadTool builds the pptx_read tool around reader.
func PptxReadTool(reader *PptxReader) *Tool {
	return &Tool{
		Tool: mcp.Tool{
			Name:        toolspec.PptxReadName,
			Description: toolspec.PptxReadDescription,
			Annotations: &mcp.ToolAnnotations{Title: "Read PPTX", ReadOnlyHint: true},
			InputSchema: toolspec.PptxReadSchema(),
		},
		Type:  ToolTypeBuiltin,
		Group: GroupFS,
		Execute: func(ctx context.Context, input map[string]any) (*Result, error) {
			req, err := ParsePptxReadRequest(input)
			if err != nil {
				return pptxFailure(KindInvalidArguments, "", err.Error()), nil
			}
			return reader.Read(ctx, req), nil
		},
	}
}
