package serve

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/praetorian-inc/linepos/pkg/resolver"
)

// Version is the server protocol version
const Version = "1.0.0"

// Server answers position queries over NDJSON
type Server struct {
	core    *resolver.Core
	encoder *json.Encoder
	decoder *json.Decoder
}

// NewServer creates a new streaming server
func NewServer(core *resolver.Core, in io.Reader, out io.Writer) *Server {
	return &Server{
		core:    core,
		encoder: json.NewEncoder(out),
		decoder: json.NewDecoder(bufio.NewReader(in)),
	}
}

// Run starts the server main loop
func (s *Server) Run(ctx context.Context) error {
	// Send ready signal
	s.sendReady()

	// Use buffered channels for incoming requests
	reqChan := make(chan Request, 1)
	errChan := make(chan error, 1)

	go func() {
		for {
			var req Request
			if err := s.decoder.Decode(&req); err != nil {
				errChan <- err
				return
			}
			select {
			case reqChan <- req:
			case <-ctx.Done():
				return
			}
		}
	}()

	// Process requests until stdin closes or context cancels
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-errChan:
			// Drain any pending requests before handling EOF
			for {
				select {
				case req := <-reqChan:
					if s.processRequest(ctx, req) {
						return nil
					}
				default:
					// No more pending requests
					if err == io.EOF {
						return nil
					}
					s.sendError(TypeDecode, err.Error())
					return nil
				}
			}
		case req := <-reqChan:
			if s.processRequest(ctx, req) {
				return nil
			}
		}
	}
}

// processRequest handles a single request and returns true if the server should exit
func (s *Server) processRequest(ctx context.Context, req Request) bool {
	switch req.Type {
	case TypeOpen:
		s.handleOpen(req.Payload)
	case TypePosition:
		s.handlePosition(req.Payload)
	case TypeResolveBatch:
		s.handleResolveBatch(ctx, req.Payload)
	case TypeNumLines:
		s.handleNumLines(req.Payload)
	case TypeCloseSource:
		s.handleCloseSource(req.Payload)
	case TypeClose:
		return true
	default:
		s.sendError("unknown", "unknown request type: "+req.Type)
	}
	return false
}

func (s *Server) sendReady() {
	s.send(TypeReady, ReadyData{Version: Version})
}

func (s *Server) handleOpen(payload json.RawMessage) {
	var p OpenPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		s.sendError(TypeOpen, err.Error())
		return
	}

	result, err := s.core.Open(p.Source, p.Content)
	if err != nil {
		s.sendError(TypeOpen, err.Error())
		return
	}
	s.send(TypeOpen, result)
}

func (s *Server) handlePosition(payload json.RawMessage) {
	var p PositionPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		s.sendError(TypePosition, err.Error())
		return
	}

	var result *resolver.ResolveResult
	var err error
	switch {
	case p.Source != "":
		result, err = s.core.ResolveSource(p.Source, p.Offsets)
	case p.ID != nil:
		result, err = s.core.Resolve(*p.ID, p.Offsets)
	case p.Content != nil:
		result, err = s.core.ResolveContent("", *p.Content, p.Offsets)
	default:
		err = fmt.Errorf("one of source, id or content is required")
	}
	if err != nil {
		s.sendError(TypePosition, err.Error())
		return
	}
	s.send(TypePosition, result)
}

func (s *Server) handleResolveBatch(ctx context.Context, payload json.RawMessage) {
	var p ResolveBatchPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		s.sendError(TypeResolveBatch, err.Error())
		return
	}

	result, err := s.core.ResolveBatch(ctx, p.Items)
	if err != nil {
		s.sendError(TypeResolveBatch, err.Error())
		return
	}
	s.send(TypeResolveBatch, result)
}

func (s *Server) handleNumLines(payload json.RawMessage) {
	var p NumLinesPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		s.sendError(TypeNumLines, err.Error())
		return
	}

	n, err := s.core.NumLines(p.ID)
	if err != nil {
		s.sendError(TypeNumLines, err.Error())
		return
	}
	s.send(TypeNumLines, NumLinesData{ID: p.ID, NumLines: n})
}

func (s *Server) handleCloseSource(payload json.RawMessage) {
	var p CloseSourcePayload
	if err := json.Unmarshal(payload, &p); err != nil {
		s.sendError(TypeCloseSource, err.Error())
		return
	}
	s.send(TypeCloseSource, CloseSourceData{Closed: s.core.CloseSource(p.Source)})
}

func (s *Server) send(respType string, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		s.sendError(respType, err.Error())
		return
	}
	s.encoder.Encode(Response{
		Success: true,
		Type:    respType,
		Data:    data,
	})
}

func (s *Server) sendError(reqType, msg string) {
	s.encoder.Encode(Response{
		Success: false,
		Type:    reqType,
		Error:   msg,
	})
}
