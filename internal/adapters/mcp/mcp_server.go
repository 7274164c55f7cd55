// Package mcp provides the MCP (Model Context Protocol) server implementation.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/xvierd/chorebook/internal/domain"
	"github.com/xvierd/chorebook/internal/ports"
	"github.com/xvierd/chorebook/internal/schedule"
)

const timestampLayout = "2006-01-02T15:04:05"

// Server implements the MCP server using mark3labs/mcp-go.
type Server struct {
	server        *server.MCPServer
	stateProvider ports.MCPStateProvider
	ctx           context.Context
	cancel        context.CancelFunc
}

// NewServer creates a new MCP server instance.
func NewServer(stateProvider ports.MCPStateProvider, version string) *Server {
	s := &Server{
		stateProvider: stateProvider,
	}

	s.server = server.NewMCPServer(
		"chorebook",
		version,
		server.WithLogging(),
	)

	s.registerTools()

	return s
}

// registerTools registers all available MCP tools.
func (s *Server) registerTools() {
	// Tool: get_today
	s.server.AddTool(
		mcp.NewTool(
			"get_today",
			mcp.WithDescription("Get the chores due on a day with their completion and postpone state"),
			mcp.WithString(
				"date",
				mcp.Description("Optional date as YYYY-MM-DD (default: today)"),
			),
		),
		s.handleGetToday,
	)

	// Tool: list_tasks
	s.server.AddTool(
		mcp.NewTool(
			"list_tasks",
			mcp.WithDescription("List recurring chores"),
			mcp.WithBoolean(
				"include_inactive",
				mcp.Description("Also list deleted (inactive) chores"),
			),
		),
		s.handleListTasks,
	)

	// Tool: add_task
	s.server.AddTool(
		mcp.NewTool(
			"add_task",
			mcp.WithDescription("Create a recurring chore"),
			mcp.WithString(
				"name",
				mcp.Required(),
				mcp.Description("Name of the chore"),
			),
			mcp.WithString(
				"days",
				mcp.Required(),
				mcp.Description("Days it runs: comma separated (mon,wed or 1,3) or daily, weekdays, weekend"),
			),
			mcp.WithString(
				"time",
				mcp.Description("Optional reminder time as HH:mm; without it the chore is a warning"),
			),
			mcp.WithString(
				"description",
				mcp.Description("Optional description"),
			),
			mcp.WithBoolean(
				"can_be_completed",
				mcp.Description("Whether a warning (no time) can be checked off"),
			),
		),
		s.handleAddTask,
	)

	// Tool: complete_task
	s.server.AddTool(
		mcp.NewTool(
			"complete_task",
			mcp.WithDescription("Mark today's occurrence of a chore as done"),
			mcp.WithString(
				"task",
				mcp.Required(),
				mcp.Description("Chore id or (fuzzy) name"),
			),
		),
		s.handleCompleteTask,
	)

	// Tool: postpone_task
	s.server.AddTool(
		mcp.NewTool(
			"postpone_task",
			mcp.WithDescription("Push today's reminder of a chore later; at most twice a day"),
			mcp.WithString(
				"task",
				mcp.Required(),
				mcp.Description("Chore id or (fuzzy) name"),
			),
			mcp.WithNumber(
				"minutes",
				mcp.Description("Minutes to postpone by (default: 10)"),
			),
		),
		s.handlePostponeTask,
	)

	// Tool: get_stats
	s.server.AddTool(
		mcp.NewTool(
			"get_stats",
			mcp.WithDescription("Completion totals over a date range (default: the last 7 days)"),
			mcp.WithString(
				"start",
				mcp.Description("First date as YYYY-MM-DD"),
			),
			mcp.WithString(
				"end",
				mcp.Description("Last date as YYYY-MM-DD"),
			),
		),
		s.handleGetStats,
	)

	// Tool: get_streak
	s.server.AddTool(
		mcp.NewTool(
			"get_streak",
			mcp.WithDescription("Number of consecutive days with every chore done"),
		),
		s.handleGetStreak,
	)
}

// Start begins serving MCP requests via stdio.
func (s *Server) Start(ctx context.Context) error {
	s.ctx, s.cancel = context.WithCancel(ctx)
	return server.ServeStdio(s.server)
}

// Stop gracefully shuts down the server.
func (s *Server) Stop() error {
	if s.cancel != nil {
		s.cancel()
	}
	return nil
}

// IsRunning returns true if the server is active.
func (s *Server) IsRunning() bool {
	if s.ctx == nil {
		return false
	}
	return s.ctx.Err() == nil
}

// Ensure Server implements ports.MCPHandler.
var _ ports.MCPHandler = (*Server)(nil)

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}

func taskData(task *domain.Task) map[string]any {
	days := make([]string, len(task.DaysOfWeek))
	for i, d := range task.DaysOfWeek {
		days[i] = d.Short()
	}
	data := map[string]any{
		"id":         task.ID,
		"name":       task.Name,
		"days":       days,
		"is_active":  task.IsActive,
		"created_at": task.CreatedAt,
	}
	if task.Description != "" {
		data["description"] = task.Description
	}
	if task.HasTime() {
		data["time"] = task.NotificationTime
	} else {
		data["warning"] = true
		data["can_be_completed"] = task.CanBeCompleted
	}
	return data
}

// handleGetToday handles the get_today tool.
func (s *Server) handleGetToday(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var date domain.Date
	if raw := request.GetString("date", ""); raw != "" {
		d, err := domain.ParseDate(raw)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		date = d
	}

	day, err := s.stateProvider.Today(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve day: %w", err)
	}

	tasks := make([]map[string]any, 0, len(day.Tasks))
	for _, v := range day.Tasks {
		data := taskData(v.Task)
		data["completed"] = v.IsCompleted()
		if v.State != nil {
			if v.State.CompletedAt != nil {
				data["completed_at"] = v.State.CompletedAt.Format(timestampLayout)
			}
			if v.State.PostponeCount > 0 {
				data["postpone_count"] = v.State.PostponeCount
			}
		}
		if v.Task.HasTime() {
			data["time"] = v.EffectiveTime()
			data["postpones_left"] = v.State.PostponesLeft()
		}
		tasks = append(tasks, data)
	}

	return jsonResult(map[string]any{
		"date":            day.Date,
		"tasks":           tasks,
		"completed_count": day.CompletedCount,
		"total_count":     day.TotalCount,
		"completion_rate": schedule.Rate(day.CompletedCount, day.TotalCount),
	})
}

// handleListTasks handles the list_tasks tool.
func (s *Server) handleListTasks(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	includeInactive := request.GetBool("include_inactive", false)

	tasks, err := s.stateProvider.ListTasks(ctx, includeInactive)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	list := make([]map[string]any, 0, len(tasks))
	for _, task := range tasks {
		list = append(list, taskData(task))
	}

	return jsonResult(map[string]any{
		"tasks":       list,
		"total_count": len(list),
	})
}

// handleAddTask handles the add_task tool.
func (s *Server) handleAddTask(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError("name is required: " + err.Error()), nil
	}
	rawDays, err := request.RequireString("days")
	if err != nil {
		return mcp.NewToolResultError("days is required: " + err.Error()), nil
	}
	days, err := domain.ParseDays(rawDays)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	task, err := s.stateProvider.AddTask(ctx, domain.TaskSpec{
		Name:             name,
		Description:      request.GetString("description", ""),
		DaysOfWeek:       days,
		NotificationTime: request.GetString("time", ""),
		CanBeCompleted:   request.GetBool("can_be_completed", false),
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to add task: %v", err)), nil
	}
	return jsonResult(taskData(task))
}

// handleCompleteTask handles the complete_task tool.
func (s *Server) handleCompleteTask(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ref, err := request.RequireString("task")
	if err != nil {
		return mcp.NewToolResultError("task is required: " + err.Error()), nil
	}

	ok, err := s.stateProvider.Complete(ctx, ref)
	if errors.Is(err, domain.ErrTaskNotFound) {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to complete task: %w", err)
	}

	return jsonResult(map[string]any{
		"task":      ref,
		"completed": ok,
	})
}

// handlePostponeTask handles the postpone_task tool.
func (s *Server) handlePostponeTask(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ref, err := request.RequireString("task")
	if err != nil {
		return mcp.NewToolResultError("task is required: " + err.Error()), nil
	}

	minutes, err := postponeMinutes(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	ok, err := s.stateProvider.Postpone(ctx, ref, minutes)
	if errors.Is(err, domain.ErrTaskNotFound) {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to postpone task: %w", err)
	}

	return jsonResult(map[string]any{
		"task":      ref,
		"minutes":   minutes,
		"postponed": ok,
	})
}

// maxPostponeMinutes is the longest postponement that can stay on the same day.
const maxPostponeMinutes = 24*60 - 1

// postponeMinutes reads the optional minutes argument. JSON numbers arrive
// as float64; some clients send strings.
func postponeMinutes(request mcp.CallToolRequest) (int, error) {
	raw, ok := request.GetArguments()["minutes"]
	if !ok || raw == nil {
		return domain.PostponeSteps[0], nil
	}

	var m float64
	switch v := raw.(type) {
	case float64:
		m = v
	case int:
		m = float64(v)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, fmt.Errorf("minutes must be a number, got %q", v)
		}
		m = f
	default:
		return 0, fmt.Errorf("minutes must be a number, got %T", raw)
	}

	if m != math.Trunc(m) {
		return 0, fmt.Errorf("minutes must be a whole number, got %v", m)
	}
	if m < 1 || m > maxPostponeMinutes {
		return 0, fmt.Errorf("minutes must be between 1 and %d, got %v", maxPostponeMinutes, m)
	}
	return int(m), nil
}

// handleGetStats handles the get_stats tool.
func (s *Server) handleGetStats(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start, end, err := s.statsRange(ctx, request.GetString("start", ""), request.GetString("end", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	c, err := s.stateProvider.Stats(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to compute stats: %w", err)
	}

	return jsonResult(map[string]any{
		"start":           start,
		"end":             end,
		"completed":       c.Completed,
		"incomplete":      c.Incomplete,
		"total":           c.Total,
		"completion_rate": c.CompletionRate,
	})
}

// statsRange fills in missing bounds: end defaults to today and start to
// six days before end.
func (s *Server) statsRange(ctx context.Context, rawStart, rawEnd string) (domain.Date, domain.Date, error) {
	var end domain.Date
	if rawEnd != "" {
		d, err := domain.ParseDate(rawEnd)
		if err != nil {
			return "", "", err
		}
		end = d
	} else {
		today, err := s.stateProvider.Today(ctx, "")
		if err != nil {
			return "", "", err
		}
		end = today.Date
	}

	start := end.AddDays(-6)
	if rawStart != "" {
		d, err := domain.ParseDate(rawStart)
		if err != nil {
			return "", "", err
		}
		start = d
	}
	if end < start {
		return "", "", fmt.Errorf("end %s is before start %s", end, start)
	}
	return start, end, nil
}

// handleGetStreak handles the get_streak tool.
func (s *Server) handleGetStreak(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	streak, err := s.stateProvider.Streak(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compute streak: %w", err)
	}
	return jsonResult(map[string]any{"streak": streak})
}
