package mcp

import (
	"context"
	"fmt"
	"strings"

	mcp "github.com/felixgeelhaar/mcp-go"
	"github.com/felixgeelhaar/mcp-go/server"

	"github.com/lerda8/data-retrieving-training/internal/playground"
	"github.com/lerda8/data-retrieving-training/internal/question"
	"github.com/lerda8/data-retrieving-training/internal/schema"
	"github.com/lerda8/data-retrieving-training/internal/session"
)

// Server exposes one trainer session over MCP so an editor or agent can
// drive the practice loop.
type Server struct {
	mcpServer *server.Server
	machine   *session.Machine
	catalog   *schema.Catalog
	executor  *playground.Executor // nil when no playground is configured
}

// Config contains the collaborators for the MCP server.
type Config struct {
	Machine  *session.Machine
	Catalog  *schema.Catalog
	Executor *playground.Executor
}

// NewServer creates an MCP server wrapping a trainer session.
func NewServer(cfg Config) *Server {
	s := &Server{
		machine:  cfg.Machine,
		catalog:  cfg.Catalog,
		executor: cfg.Executor,
	}

	s.mcpServer = server.New(server.Info{
		Name:    "sql-trainer",
		Version: "0.1.0",
	}, server.WithInstructions(`
SQL practice trainer. Pick an industry, request business questions, submit
SQL answers and get structured feedback.

Available tools:
- sql_industries: List available industry schemas
- sql_start: Start practicing in an industry
- sql_question: Get a new practice question
- sql_submit: Submit a SQL answer for judgement
- sql_hint: Get a partial hint toward the solution
- sql_difficulty: Change difficulty (easy, medium, hard)
- sql_progress: Show attempts, accuracy and recent history
- sql_run: Run a query against the sample database (display only)
`))

	s.registerTools()

	return s
}

func (s *Server) registerTools() {
	s.mcpServer.Tool("sql_industries").
		Description("List available industry schemas").
		Handler(s.handleIndustries)

	s.mcpServer.Tool("sql_start").
		Description("Start practicing in an industry").
		Handler(s.handleStart)

	s.mcpServer.Tool("sql_question").
		Description("Generate a new practice question for the current industry and difficulty").
		Handler(s.handleQuestion)

	s.mcpServer.Tool("sql_submit").
		Description("Submit a SQL answer to the current question for judgement").
		Handler(s.handleSubmit)

	s.mcpServer.Tool("sql_hint").
		Description("Get a partial hint toward the current question's solution").
		Handler(s.handleHint)

	s.mcpServer.Tool("sql_difficulty").
		Description("Change difficulty; clears the current question").
		Handler(s.handleDifficulty)

	s.mcpServer.Tool("sql_progress").
		Description("Show attempts, accuracy and recent history").
		Handler(s.handleProgress)

	s.mcpServer.Tool("sql_run").
		Description("Run a query against the sample database for display (never judges correctness)").
		Handler(s.handleRun)
}

// Input/Output types for tools

type IndustriesOutput struct {
	Industries []IndustryInfo `json:"industries"`
}

type IndustryInfo struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	SchemaURL   string `json:"schema_url,omitempty"`
	Tables      int    `json:"tables"`
}

type StartInput struct {
	Industry string `json:"industry" jsonschema:"description=Industry name from sql_industries"`
}

type StartOutput struct {
	Industry   string `json:"industry"`
	Difficulty string `json:"difficulty"`
	Schema     string `json:"schema"`
	Message    string `json:"message"`
}

type QuestionOutput struct {
	QuestionID string `json:"question_id"`
	Question   string `json:"question"`
	Difficulty string `json:"difficulty"`
}

type SubmitInput struct {
	Query string `json:"query" jsonschema:"description=The SQL query to judge"`
}

type SubmitOutput struct {
	IsCorrect        bool   `json:"is_correct"`
	Feedback         string `json:"feedback"`
	Hint             string `json:"hint,omitempty"`
	CorrectedQuery   string `json:"corrected_query,omitempty"`
	PerformanceNotes string `json:"performance_notes,omitempty"`
}

type HintOutput struct {
	Hint string `json:"hint"`
}

type DifficultyInput struct {
	Level string `json:"level" jsonschema:"description=Difficulty tier,enum=easy,enum=medium,enum=hard"`
}

type DifficultyOutput struct {
	Difficulty string `json:"difficulty"`
	Message    string `json:"message"`
}

type ProgressOutput struct {
	TotalAttempts int      `json:"total_attempts"`
	CorrectCount  int      `json:"correct_count"`
	Accuracy      float64  `json:"accuracy"`
	Recent        []string `json:"recent"`
}

type RunInput struct {
	Query string `json:"query" jsonschema:"description=SQL to execute against the sample database"`
}

type RunOutput struct {
	Success bool   `json:"success"`
	Table   string `json:"table,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Tool handlers

func (s *Server) handleIndustries(ctx context.Context, _ struct{}) (IndustriesOutput, error) {
	var out IndustriesOutput
	for _, name := range s.catalog.Industries() {
		d, err := s.catalog.Describe(name)
		if err != nil {
			continue
		}
		out.Industries = append(out.Industries, IndustryInfo{
			Name:        d.Industry,
			Description: d.Description,
			SchemaURL:   d.SchemaURL,
			Tables:      len(d.Tables),
		})
	}
	return out, nil
}

func (s *Server) handleStart(ctx context.Context, input StartInput) (StartOutput, error) {
	snap := s.machine.Snapshot()

	var err error
	if snap.State == session.StateNoIndustry {
		err = s.machine.SelectIndustry(input.Industry)
	} else {
		err = s.machine.ChangeIndustry(input.Industry)
	}
	if err != nil {
		return StartOutput{}, fmt.Errorf("start training: %w", err)
	}

	rendered, err := s.catalog.RenderPrompt(input.Industry)
	if err != nil {
		return StartOutput{}, err
	}

	snap = s.machine.Snapshot()
	return StartOutput{
		Industry:   snap.Industry,
		Difficulty: string(snap.Difficulty),
		Schema:     rendered,
		Message:    "Training started. Use sql_question to get a question.",
	}, nil
}

func (s *Server) handleQuestion(ctx context.Context, _ struct{}) (QuestionOutput, error) {
	q, err := s.machine.RequestQuestion(ctx)
	if err != nil {
		return QuestionOutput{}, fmt.Errorf("generate question: %w", err)
	}
	return QuestionOutput{
		QuestionID: q.ID.String(),
		Question:   q.Prompt,
		Difficulty: string(q.Difficulty),
	}, nil
}

func (s *Server) handleSubmit(ctx context.Context, input SubmitInput) (SubmitOutput, error) {
	fb, err := s.machine.Submit(ctx, input.Query)
	if err != nil {
		return SubmitOutput{}, fmt.Errorf("submit query: %w", err)
	}
	return SubmitOutput{
		IsCorrect:        fb.IsCorrect,
		Feedback:         fb.Feedback,
		Hint:             fb.Hint,
		CorrectedQuery:   fb.CorrectedQuery,
		PerformanceNotes: fb.PerformanceNotes,
	}, nil
}

func (s *Server) handleHint(ctx context.Context, _ struct{}) (HintOutput, error) {
	text, err := s.machine.RequestHint(ctx)
	if err != nil {
		return HintOutput{}, fmt.Errorf("request hint: %w", err)
	}
	return HintOutput{Hint: text}, nil
}

func (s *Server) handleDifficulty(ctx context.Context, input DifficultyInput) (DifficultyOutput, error) {
	level, err := question.ParseDifficulty(input.Level)
	if err != nil {
		return DifficultyOutput{}, err
	}
	if err := s.machine.ChangeDifficulty(level); err != nil {
		return DifficultyOutput{}, fmt.Errorf("change difficulty: %w", err)
	}
	return DifficultyOutput{
		Difficulty: input.Level,
		Message:    "Difficulty changed. The current question was cleared; use sql_question for a new one.",
	}, nil
}

func (s *Server) handleProgress(ctx context.Context, _ struct{}) (ProgressOutput, error) {
	snap := s.machine.Snapshot()

	out := ProgressOutput{
		TotalAttempts: snap.Progress.TotalAttempts,
		CorrectCount:  snap.Progress.CorrectCount,
		Accuracy:      s.machine.Accuracy(),
	}
	history := snap.Progress.History
	if len(history) > 10 {
		history = history[len(history)-10:]
	}
	for _, a := range history {
		mark := "✗"
		if a.Correct {
			mark = "✓"
		}
		out.Recent = append(out.Recent, fmt.Sprintf("%s %s", mark, a.QuestionText))
	}
	return out, nil
}

func (s *Server) handleRun(ctx context.Context, input RunInput) (RunOutput, error) {
	if s.executor == nil {
		return RunOutput{}, fmt.Errorf("no playground database configured")
	}

	result := s.executor.Execute(ctx, input.Query)
	if !result.Success {
		return RunOutput{Error: result.Err}, nil
	}

	var sb strings.Builder
	sb.WriteString(strings.Join(result.Columns, " | "))
	sb.WriteString("\n")
	for _, row := range result.Rows {
		sb.WriteString(strings.Join(row, " | "))
		sb.WriteString("\n")
	}
	return RunOutput{Success: true, Table: sb.String()}, nil
}

// ServeStdio starts the MCP server on stdio.
func (s *Server) ServeStdio(ctx context.Context) error {
	return mcp.ServeStdio(ctx, s.mcpServer)
}

// GetMCPServer returns the underlying MCP server (for testing)
func (s *Server) GetMCPServer() *server.Server {
	return s.mcpServer
}
