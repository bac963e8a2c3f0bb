// Command yatdemo spawns a shell under a real pseudo-terminal, feeds its
// output through the escseq parser into a yat.Screen, and renders the
// resulting grid to stdout on exit. It exists to give the engine's public
// API (grounded on original_source/backend/*.cpp via the rest of this
// module) a runnable end-to-end caller, the way the teacher's cli/
// terminal.go wires its own Buffer to a pty (§10.5, §10.7).
package main

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	"github.com/creack/pty"

	"github.com/rburchell/yat"
	"github.com/rburchell/yat/escseq"
)

func main() {
	caps := detectCapabilities()

	shell := os.Getenv("SHELL")
	if shell == "" {
		shell = "/bin/sh"
	}
	cmd := exec.Command(shell)

	ptmx, err := pty.Start(cmd)
	if err != nil {
		fmt.Fprintln(os.Stderr, "yatdemo: starting pty:", err)
		os.Exit(1)
	}
	defer ptmx.Close()

	_ = pty.Setsize(ptmx, &pty.Winsize{Rows: 24, Cols: 80})

	screen := yat.NewScreen(
		yat.WithSize(80, 24),
		yat.WithScrollbackLimit(2000),
		yat.WithOutbound(ptmx),
		yat.WithLogger(yat.NopLogger{}),
	)
	defer screen.Close()

	if caps.IsTerminal() {
		fmt.Fprintf(os.Stderr, "yatdemo: outer terminal color depth %d\n", caps.ColorDepth())
	}

	parser := escseq.New(screen)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGWINCH)
	go func() {
		for range sigCh {
			screen.Resize(80, 24)
			_ = pty.Setsize(ptmx, &pty.Winsize{Rows: 24, Cols: 80})
		}
	}()

	done := make(chan struct{})
	go func() {
		defer close(done)
		buf := make([]byte, 4096)
		for {
			n, err := ptmx.Read(buf)
			if n > 0 {
				_, _ = parser.Write(buf[:n])
			}
			if err != nil {
				return
			}
		}
	}()

	go func() { _, _ = io.Copy(ptmx, os.Stdin) }()

	_ = cmd.Wait()
	<-done

	screen.FlushDispatch()
	sd := screen.CurrentScreenData()
	for row := 0; row < sd.Height(); row++ {
		fmt.Println(sd.Line(row))
	}
}
