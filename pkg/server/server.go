package server

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os"

	"github.com/bastiangx/foodserve/internal/logger"
	"github.com/bastiangx/foodserve/pkg/config"
	"github.com/bastiangx/foodserve/pkg/search"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// Server handles msgpack IPC over a reader and a writer, stdin and stdout
// by default.
type Server struct {
	handler      *Handler
	reader       *bufio.Reader
	writer       *bufio.Writer
	logger       *log.Logger
	requestCount int
}

// NewServer creates a server over stdin/stdout.
func NewServer(engine search.ISearcher, cfg *config.Config, configPath string) *Server {
	return NewServerWithIO(engine, cfg, configPath, os.Stdin, os.Stdout)
}

// NewServerWithIO creates a server reading requests from r and writing
// responses to w.
func NewServerWithIO(engine search.ISearcher, cfg *config.Config, configPath string, r io.Reader, w io.Writer) *Server {
	lg := logger.New("server")
	return &Server{
		handler: NewHandler(engine, cfg, configPath, lg),
		reader:  bufio.NewReader(r),
		writer:  bufio.NewWriter(w),
		logger:  lg,
	}
}

// Start serves requests until the input ends or ctx is cancelled.
// A clean end of input returns nil.
func (s *Server) Start(ctx context.Context) error {
	s.logger.Debug("Starting server")
	dec := msgpack.NewDecoder(s.reader)
	enc := msgpack.NewEncoder(s.writer)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		raw, err := dec.DecodeRaw()
		if err != nil {
			if errors.Is(err, io.EOF) {
				s.logger.Debugf("Input closed after %d requests", s.requestCount)
				return nil
			}
			s.logger.Errorf("Reading request: %v", err)
			return err
		}
		s.requestCount++

		if err := s.handleRequest(ctx, enc, raw); err != nil {
			return err
		}
	}
}

// handleRequest decodes one request and writes exactly one response.
// Only write failures are returned.
func (s *Server) handleRequest(ctx context.Context, enc *msgpack.Encoder, raw msgpack.RawMessage) error {
	var req Request
	if err := msgpack.Unmarshal(raw, &req); err != nil {
		s.logger.Errorf("Unmarshaling request: %v", err)
		return s.send(enc, ErrorResponse{Error: "invalid request", Code: 400})
	}

	resp, err := s.handler.Handle(ctx, req)
	if err != nil {
		var reqErr *RequestError
		if !errors.As(err, &reqErr) {
			reqErr = &RequestError{Code: 500, Message: err.Error()}
		}
		s.logger.Debug("Request failed", "id", req.ID, "code", reqErr.Code, "err", reqErr.Message)
		return s.send(enc, ErrorResponse{ID: req.ID, Error: reqErr.Message, Code: reqErr.Code})
	}
	return s.send(enc, resp)
}

func (s *Server) send(enc *msgpack.Encoder, v any) error {
	if err := enc.Encode(v); err != nil {
		s.logger.Errorf("Encoding response: %v", err)
		return err
	}
	return s.writer.Flush()
}

// RequestCount returns how many requests were read.
func (s *Server) RequestCount() int {
	return s.requestCount
}
