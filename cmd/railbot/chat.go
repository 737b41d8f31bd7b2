package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cognicore/railbot/internal/textrender"
	"github.com/cognicore/railbot/pkg/railbot"
	"github.com/cognicore/railbot/pkg/railbot/chain"
	"github.com/cognicore/railbot/pkg/railbot/tags"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Talk to the assistant in the terminal",
	Long: `Starts an interactive conversation. Type /N to pick the Nth
suggestion, /new to start over, and Ctrl+D to leave.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		bot, cleanup, err := buildBot(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer cleanup()
		return runChat(ctx, bot, os.Stdin, os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

// conversation remembers what the last reply offered so the next input
// can be framed the way the web client frames it.
type conversation struct {
	bot  *railbot.Bot
	id   string
	out  io.Writer
	last chain.Envelope
}

func (c *conversation) show(env chain.Envelope) {
	fmt.Fprintln(c.out, textrender.Render(env).String())
	c.last = env
}

// send runs one turn and prints replies until one needs an answer.
func (c *conversation) send(ctx context.Context, text string) error {
	env, id, err := c.bot.Handle(ctx, c.id, text)
	c.id = id
	if err != nil {
		c.show(env)
		return err
	}
	for {
		c.show(env)
		if env.ResponseRequired {
			return nil
		}
		if env, err = c.bot.Pop(c.id); err != nil {
			return err
		}
	}
}

// frame turns a line typed by the user into the text sent to the bot.
func (c *conversation) frame(line string) string {
	if line == "/new" {
		return tags.ReloadToken
	}
	if strings.HasPrefix(line, "/") {
		if n, err := strconv.Atoi(line[1:]); err == nil && n >= 1 && n <= len(c.last.Suggestions) {
			return c.last.Suggestions[n-1]
		}
	}
	if slot, ok := tags.Requested(c.last.Text); ok {
		if prefix, ok := tags.RequestPrefix(slot); ok {
			return prefix + " " + line
		}
	}
	return line
}

func runChat(ctx context.Context, bot *railbot.Bot, in io.Reader, out io.Writer) error {
	c := &conversation{bot: bot, out: out}
	if err := c.send(ctx, ""); err != nil {
		return err
	}

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if err := c.send(ctx, c.frame(line)); err != nil {
			fmt.Fprintln(out, "Error:", err)
		}
	}
	fmt.Fprintln(out, "\nGoodbye!")
	return scanner.Err()
}
