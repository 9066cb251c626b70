package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	petname "github.com/dustinkirkland/golang-petname"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/park285/whisper-chess/internal/boardview"
	"github.com/park285/whisper-chess/internal/chessbuilder"
	"github.com/park285/whisper-chess/internal/config"
	"github.com/park285/whisper-chess/internal/match"
	"github.com/park285/whisper-chess/internal/obslog"
)

func main() {
	// stdout belongs to the board, so logs go to the file only
	def := obslog.Defaults()
	def.Console = false
	if err := obslog.InitFromEnv(def); err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	defer obslog.Sync()

	if strings.TrimSpace(os.Getenv("PLAYER_NAME")) == "" {
		_ = os.Setenv("PLAYER_NAME", petname.Generate(2, "-"))
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	ctx := context.Background()
	deps, err := chessbuilder.New(ctx, cfg)
	if err != nil {
		log.Fatalf("chess init error: %v", err)
	}
	defer deps.Close()

	ui := &console{
		mgr:         deps.Manager,
		out:         os.Stdout,
		interactive: term.IsTerminal(int(os.Stdin.Fd())),
		plain:       !term.IsTerminal(int(os.Stdout.Fd())),
		prompt:      deps.Catalog.Text("cli.prompt", nil),
	}
	fmt.Fprintf(ui.out, "Playing as %s.\n", cfg.PlayerName)

	res, err := deps.Manager.Restore(ctx)
	if err != nil {
		log.Fatalf("restore error: %v", err)
	}
	ui.show(res)

	if err := ui.run(ctx, os.Stdin); err != nil {
		obslog.L().Error("cli_input_failed", zap.Error(err))
	}
}

type console struct {
	mgr         *match.Manager
	out         io.Writer
	interactive bool
	plain       bool
	prompt      string
}

func (c *console) run(ctx context.Context, in io.Reader) error {
	sc := bufio.NewScanner(in)
	for {
		if c.interactive {
			fmt.Fprint(c.out, c.prompt)
		}
		if !sc.Scan() {
			return sc.Err()
		}
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		res, err := c.mgr.Execute(ctx, line)
		if err != nil && !errors.Is(err, match.ErrUnknownCommand) && !errors.Is(err, match.ErrUsage) {
			obslog.L().Info("cli_command_failed", zap.String("line", line), zap.Error(err))
		}
		c.show(res)
		if res.Quit {
			return nil
		}
	}
}

func (c *console) show(res match.Result) {
	if res.ShowBoard {
		if v, ok := c.mgr.View(); ok {
			opts := boardview.Options{Perspective: v.LocalColor, Plain: c.plain}
			if v.HasLastMove {
				opts.Highlight = append(opts.Highlight, v.LastMove.From, v.LastMove.To)
			}
			_ = boardview.Fprint(c.out, v.Position, opts)
		}
	}
	for _, n := range res.Notices {
		fmt.Fprintln(c.out, n)
	}
	if res.Outgoing != "" && !mentions(res.Notices, res.Outgoing) {
		fmt.Fprintf(c.out, "Send to your opponent: %s\n", res.Outgoing)
	}
}

func mentions(notices []string, s string) bool {
	for _, n := range notices {
		if strings.Contains(n, s) {
			return true
		}
	}
	return false
}
