package match

import (
	"context"
	"errors"
	"strings"
)

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrUsage          = errors.New("missing command arguments")
)

// Command is one parsed input line.
type Command struct {
	Name string
	Args []string
}

// ParseCommand splits a line into a lower-case verb and its arguments.
// recv keeps everything after the sender as a single argument.
func ParseCommand(line string) (Command, bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Command{}, false
	}
	cmd := Command{Name: strings.ToLower(fields[0]), Args: fields[1:]}
	if cmd.Name == "recv" && len(fields) >= 3 {
		rest := strings.TrimSpace(line)
		rest = strings.TrimSpace(rest[len(fields[0]):])
		rest = strings.TrimSpace(rest[len(fields[1]):])
		cmd.Args = []string{fields[1], rest}
	}
	return cmd, true
}

var usages = map[string]string{
	"new":   "new <opponent>",
	"join":  "join <id> <opponent>",
	"move":  "move <from> <to> [promo]",
	"mv":    "mv <from> <to> [promo]",
	"moves": "moves <square>",
	"recv":  "recv <opponent> <message>",
}

// Execute runs one command line against the manager.
func (m *Manager) Execute(ctx context.Context, line string) (Result, error) {
	cmd, ok := ParseCommand(line)
	if !ok {
		return Result{}, nil
	}
	if need := minArgs(cmd.Name); len(cmd.Args) < need {
		return Result{Notices: []string{m.text("cli.usage", map[string]any{"Usage": usages[cmd.Name]})}}, ErrUsage
	}
	switch cmd.Name {
	case "new":
		return m.NewGame(ctx, strings.Join(cmd.Args, " "))
	case "join":
		return m.JoinGame(ctx, cmd.Args[0], strings.Join(cmd.Args[1:], " "))
	case "move", "mv":
		promo := ""
		if len(cmd.Args) > 2 {
			promo = cmd.Args[2]
		}
		return m.Move(ctx, cmd.Args[0], cmd.Args[1], promo)
	case "moves":
		res, _, err := m.Destinations(ctx, cmd.Args[0])
		return res, err
	case "recv":
		return m.HandleInbound(ctx, cmd.Args[0], cmd.Args[1])
	case "resign":
		return m.Resign(ctx)
	case "reset":
		return m.Reset(ctx)
	case "board":
		if _, ok := m.View(); !ok {
			return Result{Notices: []string{m.text("game.none", nil)}}, ErrNoActiveGame
		}
		return Result{ShowBoard: true}, nil
	case "save":
		res, line, err := m.SaveLine(ctx)
		if err != nil {
			return res, err
		}
		res.notice(line)
		res.notice(m.text("save.saved", nil))
		return res, nil
	case "help", "?":
		return Result{Notices: []string{m.text("cli.help", nil)}}, nil
	case "quit", "exit":
		return Result{Quit: true}, nil
	}
	return Result{Notices: []string{m.text("cli.unknown", map[string]any{"Command": cmd.Name})}}, ErrUnknownCommand
}

func minArgs(name string) int {
	switch name {
	case "new", "moves":
		return 1
	case "join", "move", "mv", "recv":
		return 2
	}
	return 0
}
