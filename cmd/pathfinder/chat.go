package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/swaggyashwin/pathfinder/internal/model"
	"github.com/swaggyashwin/pathfinder/internal/orchestrator"
	"github.com/swaggyashwin/pathfinder/internal/render"
)

// chat is the interactive loop behind `pathfinder chat`. One session lives for
// the length of the loop.
type chat struct {
	orchestrator *orchestrator.Orchestrator
	session      *orchestrator.Session
	out          io.Writer
	show         func(*model.Roadmap) (string, error)
}

func (c *chat) run(ctx context.Context, in io.Reader) error {
	c.say(c.orchestrator.Greeting(ctx))

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for {
		fmt.Fprint(c.out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(c.out)
			return scanner.Err()
		}
		if ctx.Err() != nil {
			return nil
		}

		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, "/") {
			quit, err := c.command(ctx, line)
			if err != nil {
				return err
			}
			if quit {
				return nil
			}
			continue
		}

		result := c.orchestrator.SubmitTurn(ctx, c.session, line)
		c.say(result.Reply)
		if result.Roadmap != nil {
			out, err := c.show(result.Roadmap)
			if err != nil {
				return err
			}
			fmt.Fprintln(c.out, out)
		}
	}
}

// command handles a slash command and reports whether the loop should end.
func (c *chat) command(ctx context.Context, line string) (bool, error) {
	fields := strings.Fields(line)
	switch fields[0] {
	case "/quit", "/exit":
		return true, nil

	case "/reset":
		c.orchestrator.Reset(c.session)
		fmt.Fprintln(c.out, "Conversation cleared.")
		c.say(c.orchestrator.Greeting(ctx))

	case "/export":
		f := render.FormatJSON
		if len(fields) > 1 {
			parsed, err := render.ParseFormat(fields[1])
			if err != nil {
				fmt.Fprintln(c.out, err)
				return false, nil
			}
			f = parsed
		}
		rm := c.orchestrator.Export(c.session)
		if rm == nil {
			fmt.Fprintln(c.out, "No roadmap yet. Tell me about your goals first.")
			return false, nil
		}
		if err := render.Encode(c.out, rm, f); err != nil {
			return false, err
		}

	case "/history":
		archive := c.session.Archive()
		if len(archive) == 0 {
			fmt.Fprintln(c.out, "No roadmaps generated yet.")
			return false, nil
		}
		for i, entry := range archive {
			fmt.Fprintf(c.out, "%d. %s  %s\n", i+1, entry.GeneratedAt.Format("2006-01-02 15:04:05"), entry.Roadmap.CareerGoal)
		}

	default:
		fmt.Fprintf(c.out, "Unknown command %s. Try /reset, /export, /history or /quit.\n", fields[0])
	}
	return false, nil
}

func (c *chat) say(text string) {
	fmt.Fprintf(c.out, "Advisor: %s\n", text)
}
