package chat

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ptarling/trolley/internal/apperr"
	"github.com/ptarling/trolley/internal/llm"
	"github.com/ptarling/trolley/internal/model"
	"github.com/ptarling/trolley/internal/service"
)

const (
	// maxRounds bounds completion/tool cycles per turn; the loop is in
	// principle unbounded, so the cap fails closed with an apology.
	maxRounds = 8

	apologyReply = "Sorry, I couldn't finish that request. Please try again."
)

// Completer is the completion provider: message history plus tool catalog
// in, text or tool-call requests out.
type Completer interface {
	ChatWithTools(ctx context.Context, messages []llm.ChatMessage, tools []llm.Tool) (llm.ChatResponse, error)
}

// Message is one entry of the client-supplied conversation history.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Result is the outcome of a chat turn.
type Result struct {
	Reply     string
	Rounds    int
	ToolCalls int
}

// Orchestrator drives one chat turn: completion, concurrent tool execution,
// repeat until the model answers in plain text.
type Orchestrator struct {
	completer  Completer
	executor   *Executor
	lists      *service.ListService
	categories *service.CategoryService
	logger     *slog.Logger
}

func NewOrchestrator(completer Completer, executor *Executor, lists *service.ListService, categories *service.CategoryService, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		completer:  completer,
		executor:   executor,
		lists:      lists,
		categories: categories,
		logger:     logger,
	}
}

// Reply runs a full chat turn for userID against listID. The list context is
// mandatory; without it no tool can execute, so the turn is rejected before
// the loop starts. History carries prior conversation; userMessage is the
// new utterance.
func (o *Orchestrator) Reply(ctx context.Context, userID, listID int64, history []Message, userMessage string) (Result, error) {
	if listID == 0 {
		return Result{}, apperr.InvalidState("chat requires an active list")
	}
	// Also authorizes: Forbidden/NotFound surface here, before any LLM call.
	list, err := o.lists.Get(userID, listID)
	if err != nil {
		return Result{}, err
	}
	categories, err := o.categories.ListByList(userID, listID)
	if err != nil {
		return Result{}, err
	}

	messages := make([]llm.ChatMessage, 0, len(history)+2)
	messages = append(messages, llm.ChatMessage{Role: "system", Content: systemPrompt(list, categories)})
	for _, m := range history {
		if m.Role != "user" && m.Role != "assistant" {
			continue
		}
		messages = append(messages, llm.ChatMessage{Role: m.Role, Content: m.Content})
	}
	messages = append(messages, llm.ChatMessage{Role: "user", Content: userMessage})

	scope := turnScope{userID: userID, listID: listID}
	var result Result
	start := time.Now()

	for round := 0; round < maxRounds; round++ {
		resp, err := o.completer.ChatWithTools(ctx, messages, toolCatalog)
		if err != nil {
			o.logger.Warn("completion failed", "round", round, "error", err)
			return Result{}, apperr.Upstream("completion provider: %v", err)
		}

		if len(resp.ToolCalls) == 0 {
			result.Rounds = round + 1
			result.Reply = strings.TrimSpace(resp.Content)
			if result.Reply == "" && result.ToolCalls > 0 {
				result.Reply = "Done."
			}
			if result.Reply == "" {
				result.Reply = apologyReply
			}
			o.logger.Info("chat turn complete",
				"rounds", result.Rounds, "tool_calls", result.ToolCalls,
				"elapsed_ms", time.Since(start).Milliseconds())
			return result, nil
		}

		messages = append(messages, llm.ChatMessage{
			Role:      "assistant",
			Content:   resp.Content,
			ToolCalls: resp.ToolCalls,
		})
		messages = append(messages, o.runToolRound(ctx, scope, resp.ToolCalls)...)
		result.ToolCalls += len(resp.ToolCalls)
		result.Rounds = round + 1
	}

	o.logger.Warn("chat turn exhausted round cap",
		"rounds", maxRounds, "tool_calls", result.ToolCalls)
	result.Reply = apologyReply
	return result, nil
}

// runToolRound executes every call of one round concurrently and returns the
// tool-result messages in the round's original order. Sibling calls must not
// assume serialized access to shared rows; the store's uniqueness constraints
// arbitrate races and the handlers recover from losing one.
func (o *Orchestrator) runToolRound(ctx context.Context, scope turnScope, calls []llm.ToolCall) []llm.ChatMessage {
	results := make([]string, len(calls))

	g, _ := errgroup.WithContext(ctx)
	for i, call := range calls {
		g.Go(func() error {
			started := time.Now()
			results[i] = o.executor.Execute(scope, call.Function.Name, call.Function.Arguments)
			o.logger.Info("tool executed",
				"tool", call.Function.Name,
				"elapsed_ms", time.Since(started).Milliseconds(),
				"result_bytes", len(results[i]))
			return nil
		})
	}
	// Execute never returns an error; Wait is only a join point.
	_ = g.Wait()

	out := make([]llm.ChatMessage, len(calls))
	for i, call := range calls {
		out[i] = llm.ChatMessage{
			Role:       "tool",
			ToolCallID: call.ID,
			Content:    results[i],
		}
	}
	return out
}

func systemPrompt(list *model.ShoppingList, categories []model.Category) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are a helpful shopping-list assistant managing the list %q.\n", list.Name)
	b.WriteString("Use the provided functions to read and change the list. ")
	b.WriteString("Items belong to categories; create a category before adding items to it if needed. ")
	b.WriteString("When a function reports an error, explain it to the user or try a corrected call.\n")
	if len(categories) == 0 {
		b.WriteString("The list currently has no categories.")
	} else {
		names := make([]string, len(categories))
		for i, c := range categories {
			names[i] = c.Name
		}
		fmt.Fprintf(&b, "Current categories: %s.", strings.Join(names, ", "))
	}
	return b.String()
}
