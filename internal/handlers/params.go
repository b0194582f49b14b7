package handlers

import (
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"utime/pkg/timestamp"
)

// getRequiredStringSlice extracts a required, non-empty string slice.
func getRequiredStringSlice(req mcp.CallToolRequest, key string) ([]string, *mcp.CallToolResult) {
	raw, err := req.RequireStringSlice(key)
	if err != nil {
		return nil, mcp.NewToolResultError(err.Error())
	}
	result := make([]string, 0, len(raw))
	for _, s := range raw {
		if s != "" {
			result = append(result, s)
		}
	}
	if len(result) == 0 {
		msg := fmt.Sprintf("%s parameter is required", strings.ToUpper(key[:1])+key[1:])
		return nil, mcp.NewToolResultError(msg)
	}
	return result, nil
}

// getOptions builds resolution options from the set_file_times arguments.
// Interactive prompting is unavailable here, so one of reference, offset
// or time must be present.
func getOptions(req mcp.CallToolRequest) (timestamp.Options, *mcp.CallToolResult) {
	opts := timestamp.DefaultOptions()
	opts.AtimeOnly = req.GetBool("atimeOnly", false)
	opts.MtimeOnly = req.GetBool("mtimeOnly", false)
	opts.ReferenceFile = req.GetString("reference", "")

	if format := req.GetString("format", ""); format != "" {
		opts.TimeFormat = format
		opts.FormatChanged = true
	}

	if value := req.GetString("time", ""); value != "" {
		opts.TimeString = value
		opts.HasTimeString = true
	}

	if token := req.GetString("offset", ""); token != "" {
		off, err := timestamp.ParseOffset(token)
		if err != nil {
			return opts, mcp.NewToolResultError(fmt.Sprintf("Invalid offset: %v", err))
		}
		opts.OffsetSeconds = off.Seconds
	}

	if opts.Mode() == timestamp.ModeExplicit && !opts.HasTimeString {
		return opts, mcp.NewToolResultError("One of reference, a non-zero offset or time is required")
	}
	return opts, nil
}
