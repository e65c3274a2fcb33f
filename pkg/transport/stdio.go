package transport

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/contextworks/mcp-gateway/pkg/logging"
)

// Stdio is the standard-stream transport: newline-delimited JSON messages on
// stdin, responses on stdout. Requests are processed strictly sequentially:
// one message is decoded, dispatched, and fully answered before the next is
// read, so request/response ordering holds trivially. Logs go to stderr;
// stdout carries only protocol frames.
type Stdio struct {
	reader io.Reader
	writer *bufio.Writer

	logger   logging.Logger
	writeMu  sync.Mutex
	done     chan struct{}
	stopOnce sync.Once
}

// NewStdio creates a stdio transport. Config.Stdin and Config.Stdout
// override the process streams for tests.
func NewStdio(config Config, logger logging.Logger) *Stdio {
	if logger == nil {
		logger = logging.Discard()
	}
	reader := config.Stdin
	if reader == nil {
		reader = os.Stdin
	}
	var writer io.Writer = config.Stdout
	if writer == nil {
		writer = os.Stdout
	}
	return &Stdio{
		reader: reader,
		writer: bufio.NewWriter(writer),
		logger: logger.WithFields(logging.String("transport", "stdio")),
		done:   make(chan struct{}),
	}
}

// Serve reads messages until EOF, cancellation, or Shutdown. Every decoded
// message goes through handler; a nil response (notification) writes
// nothing back. A failure to write to the stream is fatal to the connection
// and ends Serve.
func (t *Stdio) Serve(ctx context.Context, handler Handler) error {
	g, gctx := errgroup.WithContext(ctx)

	scanDone := make(chan struct{})
	g.Go(func() error {
		defer close(scanDone)

		scanner := bufio.NewScanner(t.reader)
		scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

		for scanner.Scan() {
			select {
			case <-gctx.Done():
				return gctx.Err()
			case <-t.done:
				return nil
			default:
			}

			line := scanner.Bytes()
			if len(line) == 0 {
				continue
			}
			// Scanner reuses its buffer; the handler may hold the slice.
			raw := make([]byte, len(line))
			copy(raw, line)

			response := handler.Process(gctx, raw)
			if response == nil {
				continue
			}
			if err := t.write(response); err != nil {
				return err
			}
		}
		return scanner.Err()
	})

	// Unblock the scanner when the context or Shutdown fires.
	g.Go(func() error {
		select {
		case <-gctx.Done():
			t.closeReader()
			return gctx.Err()
		case <-t.done:
			t.closeReader()
			return nil
		case <-scanDone:
			return nil
		}
	})

	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// Shutdown stops the read loop and flushes buffered output. Idempotent.
func (t *Stdio) Shutdown(ctx context.Context) error {
	var flushErr error
	t.stopOnce.Do(func() {
		close(t.done)
		t.writeMu.Lock()
		flushErr = t.writer.Flush()
		t.writeMu.Unlock()
	})
	return flushErr
}

func (t *Stdio) write(response interface{}) error {
	data, err := json.Marshal(response)
	if err != nil {
		return err
	}

	t.writeMu.Lock()
	defer t.writeMu.Unlock()
	if _, err := t.writer.Write(data); err != nil {
		return err
	}
	if err := t.writer.WriteByte('\n'); err != nil {
		return err
	}
	return t.writer.Flush()
}

func (t *Stdio) closeReader() {
	if closer, ok := t.reader.(io.Closer); ok {
		_ = closer.Close()
	}
}
