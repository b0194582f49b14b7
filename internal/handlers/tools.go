package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/dustin/go-humanize"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sergi/go-diff/diffmatchpatch"

	"utime/internal/applier"
	"utime/pkg/filesystem"
	"utime/pkg/security"
	"utime/pkg/timestamp"
)

// maxTargets bounds how many files a single call may touch after glob
// expansion
const maxTargets = 1000

// ToolHandlers provides MCP tool implementations for timestamp operations
type ToolHandlers struct {
	pathValidator *security.PathValidator
	fsOps         *filesystem.Operations
	logger        *slog.Logger
}

// FileTimes is one entry of the get_file_times result
type FileTimes struct {
	*filesystem.FileInfo
	AccessedAgo string `json:"accessedAgo,omitempty"`
	ModifiedAgo string `json:"modifiedAgo,omitempty"`
	Error       string `json:"error,omitempty"`
}

// NewToolHandlers creates a new tool handlers instance
func NewToolHandlers(pathValidator *security.PathValidator, fsOps *filesystem.Operations, logger *slog.Logger) *ToolHandlers {
	return &ToolHandlers{
		pathValidator: pathValidator,
		fsOps:         fsOps,
		logger:        logger,
	}
}

// RegisterTools registers all timestamp tools with the MCP server
func (th *ToolHandlers) RegisterTools(srv *server.MCPServer) error {
	if srv == nil {
		return fmt.Errorf("server is required")
	}

	tools := []struct {
		tool    mcp.Tool
		handler server.ToolHandlerFunc
	}{
		{th.createSetFileTimesTool(), th.handleSetFileTimes},
		{th.createGetFileTimesTool(), th.handleGetFileTimes},
		{th.createListAllowedDirectoriesTool(), th.handleListAllowedDirectories},
	}

	for _, tool := range tools {
		srv.AddTool(tool.tool, tool.handler)
		th.logger.Debug("Tool registered successfully", "tool", tool.tool.Name)
	}

	th.logger.Info("All timestamp tools registered successfully", "count", len(tools))
	return nil
}

// Tool creation methods

func (th *ToolHandlers) createSetFileTimesTool() mcp.Tool {
	return mcp.NewTool("set_file_times",
		mcp.WithDescription("Change the access and modify timestamps of files. Exactly one source "+
			"is used, in this order: copy from a reference file, shift each file's own stamps "+
			"by an offset such as '+3D' or '-2H' (units S, M, H, D, W, m=31 days, Y=365 days), "+
			"or set an absolute time parsed with a strptime template. Paths may be glob "+
			"patterns. Failures on one file do not stop the others. Only works within allowed directories."),
		mcp.WithArray("paths", mcp.Required(), mcp.Description("Files or glob patterns to change"),
			mcp.Items(map[string]any{"type": "string"})),
		mcp.WithString("reference", mcp.Description("Copy timestamps from this file")),
		mcp.WithString("offset", mcp.Description("Relative change, e.g. +3D or -1Y")),
		mcp.WithString("time", mcp.Description("Absolute new time, e.g. 'Jan 15 1995 17:34:56'")),
		mcp.WithString("format", mcp.Description("strptime template for time"),
			mcp.DefaultString(timestamp.DefaultFormat)),
		mcp.WithBoolean("atimeOnly", mcp.Description("Restrict the change as the -a flag does"), mcp.DefaultBool(false)),
		mcp.WithBoolean("mtimeOnly", mcp.Description("Restrict the change as the -m flag does"), mcp.DefaultBool(false)),
		mcp.WithBoolean("dryRun", mcp.Description("Show a diff of the stamps without writing"), mcp.DefaultBool(false)))
}

func (th *ToolHandlers) createGetFileTimesTool() mcp.Tool {
	return mcp.NewTool("get_file_times",
		mcp.WithDescription("Report the access, modify and change times of files as JSON, "+
			"with human readable ages. Paths may be glob patterns. Only works within allowed directories."),
		mcp.WithArray("paths", mcp.Required(), mcp.Description("Files or glob patterns to inspect"),
			mcp.Items(map[string]any{"type": "string"})))
}

func (th *ToolHandlers) createListAllowedDirectoriesTool() mcp.Tool {
	return mcp.NewTool("list_allowed_directories",
		mcp.WithDescription("Returns the list of directories whose files this server may change."))
}

// Tool handler methods

func (th *ToolHandlers) handleSetFileTimes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	patterns, errRes := getRequiredStringSlice(req, "paths")
	if errRes != nil {
		return errRes, nil
	}

	opts, errRes := getOptions(req)
	if errRes != nil {
		return errRes, nil
	}

	if opts.ReferenceFile != "" {
		ref, err := th.pathValidator.ValidatePath(opts.ReferenceFile)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		opts.ReferenceFile = ref
	}

	targets, rejected, err := th.expandPaths(patterns)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	dryRun := req.GetBool("dryRun", false)

	// One resolver per call, so the reference file is read once per call.
	var echo bytes.Buffer
	resolver := timestamp.NewResolver(th.fsOps, nil, &echo)
	app := applier.New(th.fsOps, resolver, nil, th.logger)

	results := append([]string{}, rejected...)
	var before, after []string

	for _, target := range targets {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var outcome applier.Outcome
		if dryRun {
			outcome, err = app.Plan(target, opts)
		} else {
			outcome, err = app.Apply(target, opts)
		}
		if err != nil {
			th.logger.Warn("Timestamp resolution failed", "path", target, "error", err)
			return mcp.NewToolResultError(err.Error()), nil
		}

		if outcome.Err != nil {
			results = append(results, fmt.Sprintf("%s: Error - %s", target, outcome.Err.Error()))
			continue
		}

		before = append(before, stampLine(target, outcome.Before))
		after = append(after, stampLine(target, outcome.After))
		results = append(results, stampLine(target, outcome.After))
	}

	if dryRun {
		th.logger.Debug("Dry run completed", "targets", len(targets))
		text := createUnifiedDiff(strings.Join(before, "\n"), strings.Join(after, "\n"))
		if len(rejected) > 0 {
			text += strings.Join(rejected, "\n") + "\n"
		}
		return mcp.NewToolResultText(text), nil
	}

	th.logger.Info("File timestamps updated", "targets", len(targets), "mode", opts.Mode())
	return mcp.NewToolResultText(strings.Join(results, "\n")), nil
}

func (th *ToolHandlers) handleGetFileTimes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	patterns, errRes := getRequiredStringSlice(req, "paths")
	if errRes != nil {
		return errRes, nil
	}

	targets, rejected, err := th.expandPaths(patterns)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	entries := make([]FileTimes, 0, len(targets)+len(rejected))
	for _, msg := range rejected {
		entries = append(entries, FileTimes{Error: msg})
	}

	for _, target := range targets {
		info, err := th.fsOps.Describe(target)
		if err != nil {
			entries = append(entries, FileTimes{
				FileInfo: &filesystem.FileInfo{Path: target},
				Error:    err.Error(),
			})
			continue
		}
		entries = append(entries, FileTimes{
			FileInfo:    info,
			AccessedAgo: humanize.Time(info.Accessed),
			ModifiedAgo: humanize.Time(info.Modified),
		})
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		th.logger.Error("Failed to marshal file times", "error", err)
		return mcp.NewToolResultError("Failed to encode file times"), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (th *ToolHandlers) handleListAllowedDirectories(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	dirs := th.pathValidator.GetAllowedDirectories()
	return mcp.NewToolResultText("Allowed directories:\n" + strings.Join(dirs, "\n")), nil
}

// expandPaths expands glob patterns and validates every resulting path.
// Paths that fail validation are reported, not fatal.
func (th *ToolHandlers) expandPaths(patterns []string) (targets, rejected []string, err error) {
	for _, pattern := range patterns {
		candidates := []string{pattern}
		if strings.ContainsAny(pattern, "*?[{") {
			candidates, err = doublestar.FilepathGlob(security.ExpandHomePath(pattern))
			if err != nil {
				return nil, nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
			}
			if len(candidates) == 0 {
				rejected = append(rejected, fmt.Sprintf("%s: Error - no matches", pattern))
				continue
			}
		}

		for _, candidate := range candidates {
			valid, err := th.pathValidator.ValidatePath(candidate)
			if err != nil {
				rejected = append(rejected, fmt.Sprintf("%s: Error - %s", candidate, err.Error()))
				continue
			}
			targets = append(targets, valid)
		}
	}

	if len(targets) > maxTargets {
		return nil, nil, fmt.Errorf("too many files: %d (limit %d)", len(targets), maxTargets)
	}
	return targets, rejected, nil
}

func stampLine(path string, t filesystem.Times) string {
	return fmt.Sprintf("%s: access %s, modify %s",
		path, timestamp.FormatCtime(t.Access), timestamp.FormatCtime(t.Modify))
}

// createUnifiedDiff creates a patch between the original and planned stamp
// listings, fenced for display
func createUnifiedDiff(original, modified string) string {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(original, modified, false)
	patch := dmp.PatchToText(dmp.PatchMake(original, diffs))

	backticks := "```"
	for strings.Contains(patch, backticks) && len(backticks) < 10 {
		backticks += "`"
	}
	return fmt.Sprintf("%sdiff\n%s%s\n\n", backticks, patch, backticks)
}
