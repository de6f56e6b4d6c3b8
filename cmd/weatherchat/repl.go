package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/go-go-golems/weatherchat/pkg/inference/engine"
	"github.com/go-go-golems/weatherchat/pkg/inference/toolloop"
	"github.com/go-go-golems/weatherchat/pkg/turns"
	"github.com/pkg/errors"
)

// errExitRequested ends the chat after a failed exchange when --exit-on-error is set.
var errExitRequested = errors.New("exchange failed")

type repl struct {
	in          io.Reader
	out         io.Writer
	styles      *Style
	adapter     engine.Adapter
	loop        *toolloop.Loop
	exitOnError bool
}

func (r *repl) banner(client, model string) {
	_, _ = fmt.Fprintf(r.out, "%s (Client: %s, model: %s, type %s to quit)\n",
		r.styles.Title.Render("Multi-model Chatbot "+r.styles.Bot.Render(botName)),
		client, model, r.styles.Error.Render("'exit'"))
	_, _ = fmt.Fprintln(r.out, r.styles.Title.Render(strings.Repeat("=", 40)))
}

// run reads one message per line until exit, quit or end of input.
func (r *repl) run(ctx context.Context) error {
	scanner := bufio.NewScanner(r.in)
	for {
		_, _ = fmt.Fprint(r.out, r.styles.Prompt.Render("You:")+" ")
		if !scanner.Scan() {
			_, _ = fmt.Fprintln(r.out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		switch strings.ToLower(line) {
		case "":
			continue
		case "exit", "quit":
			return nil
		case "/history":
			r.printHistory()
			continue
		}

		if err := r.exchange(ctx, line); err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

func (r *repl) exchange(ctx context.Context, line string) error {
	ex, err := r.loop.RunTurn(ctx, line)
	if err != nil {
		_, _ = fmt.Fprintf(r.out, "%s %s\n", r.styles.Error.Render("Request failed:"), err.Error())
		if r.exitOnError {
			return errors.Wrap(errExitRequested, err.Error())
		}
		return nil
	}
	tool := ""
	if ex.ToolCall != nil {
		tool = ex.ToolCall.Name
	}
	_, _ = fmt.Fprintf(r.out, "%s %s\n", r.styles.speaker(tool), strings.TrimSpace(ex.Reply))
	return nil
}

// toolNotice is installed as the loop's tool call hook.
func (r *repl) toolNotice(ctx context.Context, call turns.ToolCall) {
	args, err := json.Marshal(call.Arguments)
	if err != nil {
		args = []byte("{}")
	}
	_, _ = fmt.Fprintf(r.out, "%s I am gonna call %s tool with arguments: %s\n",
		r.styles.speaker(""), call.Name, string(args))
}

func (r *repl) printHistory() {
	hp, ok := r.adapter.(engine.HistoryProvider)
	if !ok {
		_, _ = fmt.Fprintln(r.out, r.styles.Dim.Render("history not available for this client"))
		return
	}
	h := hp.History()
	if len(h) == 0 {
		_, _ = fmt.Fprintln(r.out, r.styles.Dim.Render("history is empty"))
		return
	}
	turns.FprintTurns(r.out, h)
}
