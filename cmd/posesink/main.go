// posesink accepts pose streams over TCP and prints the decoded records.
// Usage: go run ./cmd/posesink --addr 127.0.0.1:5555
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/rickgao/mocap-bridge/internal/record"
)

func main() {
	addr := flag.String("addr", "127.0.0.1:5555", "TCP listen address")
	raw := flag.Bool("raw", false, "print lines as received")
	flag.Parse()

	// Setup logger
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ln, err := net.Listen("tcp", *addr)
	if err != nil {
		logger.Error("failed to listen", "addr", *addr, "error", err)
		os.Exit(1)
	}
	logger.Info("listening", "addr", ln.Addr().String())

	if err := serve(ctx, ln, &printer{w: os.Stdout, raw: *raw}, logger); err != nil {
		logger.Error("serve failed", "error", err)
		os.Exit(1)
	}
	logger.Info("sink stopped")
}

// printer serializes output from concurrent peers.
type printer struct {
	mu  sync.Mutex
	w   io.Writer
	raw bool
}

func (p *printer) print(peer string, text string, line record.Line) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.raw {
		fmt.Fprintln(p.w, text)
		return
	}
	pos, q := line.Pose.Position, line.Pose.Orientation
	fmt.Fprintf(p.w, "%s id=%d t=%.4f pos=(%.4f, %.4f, %.4f) rot=(%.4f, %.4f, %.4f, %.4f)\n",
		peer, line.ID, line.Timestamp, pos.X, pos.Y, pos.Z, q.Real, q.Imag, q.Jmag, q.Kmag)
}

// serve accepts peers until ctx is cancelled.
func serve(ctx context.Context, ln net.Listener, out *printer, logger *slog.Logger) error {
	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return fmt.Errorf("accept: %w", err)
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			defer conn.Close()

			peer := conn.RemoteAddr().String()
			logger.Info("peer connected", "peer", peer)

			// Unblock the read on shutdown
			stop := context.AfterFunc(ctx, func() { conn.Close() })
			defer stop()

			n, bad, err := readRecords(conn, peer, out, logger)
			logger.Info("peer disconnected", "peer", peer, "records", n, "malformed", bad, "error", err)
		}()
	}
}

// readRecords decodes lines from r until EOF.
func readRecords(r io.Reader, peer string, out *printer, logger *slog.Logger) (n, bad int, err error) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		text := scanner.Text()
		line, err := record.ParseLine(text)
		if err != nil {
			bad++
			logger.Warn("malformed record", "peer", peer, "line", text, "error", err)
			continue
		}
		n++
		out.print(peer, text, line)
	}
	return n, bad, scanner.Err()
}
