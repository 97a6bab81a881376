package session

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/dshills/dapdebug/internal/dap"
)

// mockTransport is a minimal dap.Transport stub, same shape as the dap
// package's own test mock, so Session can be driven without a real adapter
// process.
type mockTransport struct {
	mu       sync.Mutex
	recvChan chan *dap.Message
	closed   bool
	onSend   func(*dap.Message)
}

func newMockTransport() *mockTransport {
	return &mockTransport{recvChan: make(chan *dap.Message, 16)}
}

func (t *mockTransport) Send(msg *dap.Message) error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return io.ErrClosedPipe
	}
	onSend := t.onSend
	t.mu.Unlock()
	if onSend != nil {
		onSend(msg)
	}
	return nil
}

func (t *mockTransport) Receive() (*dap.Message, error) {
	msg, ok := <-t.recvChan
	if !ok {
		return nil, io.EOF
	}
	return msg, nil
}

func (t *mockTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil
	}
	t.closed = true
	close(t.recvChan)
	return nil
}

func (t *mockTransport) feed(v interface{}) {
	content, _ := json.Marshal(v)
	t.recvChan <- &dap.Message{ContentLength: len(content), Content: content}
}

// respondOK answers every request named command with a success response
// and, when emitInitialized is set, an "initialized" event right after it,
// so Session.Start's handshake can complete end to end against the mock.
func respondOK(tr *mockTransport, command string, body interface{}, emitInitialized bool) {
	tr.onSend = func(msg *dap.Message) {
		var req dap.Request
		if err := json.Unmarshal(msg.Content, &req); err != nil || req.Command != command {
			return
		}
		bodyJSON, _ := json.Marshal(body)
		tr.feed(dap.Response{
			ProtocolMessage: dap.ProtocolMessage{Seq: req.Seq + 1000, Type: "response"},
			RequestSeq:      req.Seq,
			Success:         true,
			Command:         req.Command,
			Body:            bodyJSON,
		})
		if emitInitialized {
			tr.feed(dap.Event{
				ProtocolMessage: dap.ProtocolMessage{Seq: req.Seq + 1001, Type: "event"},
				Event:           "initialized",
			})
		}
	}
}

func TestSessionStartCompletesHandshake(t *testing.T) {
	tr := newMockTransport()
	s := New("s1", tr, AdapterSpec{}, Hooks{})

	tr.onSend = func(msg *dap.Message) {
		var req dap.Request
		if err := json.Unmarshal(msg.Content, &req); err != nil {
			return
		}
		switch req.Command {
		case "initialize":
			bodyJSON, _ := json.Marshal(dap.Capabilities{})
			tr.feed(dap.Response{
				ProtocolMessage: dap.ProtocolMessage{Seq: req.Seq + 1000, Type: "response"},
				RequestSeq:      req.Seq, Success: true, Command: req.Command, Body: bodyJSON,
			})
			tr.feed(dap.Event{
				ProtocolMessage: dap.ProtocolMessage{Seq: req.Seq + 1001, Type: "event"},
				Event:           "initialized",
			})
		case "launch", "configurationDone":
			tr.feed(dap.Response{
				ProtocolMessage: dap.ProtocolMessage{Seq: req.Seq + 1000, Type: "response"},
				RequestSeq:      req.Seq, Success: true, Command: req.Command,
			})
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	err := s.Start(ctx, Config{ClientID: "test", LaunchArgs: json.RawMessage(`{}`)})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if s.State() != StateRunning {
		t.Fatalf("got state %v, want running", s.State())
	}
}

func TestSessionStartRejectsBothOrNeitherArgs(t *testing.T) {
	tr := newMockTransport()
	s := New("s1", tr, AdapterSpec{}, Hooks{})
	defer tr.Close()

	if err := s.Start(context.Background(), Config{}); err == nil {
		t.Fatal("expected an error when neither LaunchArgs nor AttachArgs is set")
	}

	both := Config{LaunchArgs: json.RawMessage(`{}`), AttachArgs: json.RawMessage(`{}`)}
	s2 := New("s2", newMockTransport(), AdapterSpec{}, Hooks{})
	if err := s2.Start(context.Background(), both); err == nil {
		t.Fatal("expected an error when both LaunchArgs and AttachArgs are set")
	}
}

func TestSessionStartTimesOutWithoutInitialized(t *testing.T) {
	tr := newMockTransport() // never answers
	s := New("s1", tr, AdapterSpec{}, Hooks{})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	err := s.Start(ctx, Config{LaunchArgs: json.RawMessage(`{}`)})
	if err == nil {
		t.Fatal("expected a timeout error")
	}
}

func TestSessionOnStoppedTransitionsState(t *testing.T) {
	tr := newMockTransport()
	s := New("s1", tr, AdapterSpec{}, Hooks{})
	defer tr.Close()

	tr.feed(dap.Event{
		ProtocolMessage: dap.ProtocolMessage{Seq: 1, Type: "event"},
		Event:           "stopped",
		Body:            mustJSON(t, dap.StoppedEventBody{Reason: "breakpoint", ThreadID: 1}),
	})

	deadline := time.After(time.Second)
	for s.State() != StateStopped {
		select {
		case <-deadline:
			t.Fatal("timed out waiting for session to transition to stopped")
		default:
			time.Sleep(time.Millisecond)
		}
	}
}

func TestSessionShutdownClosesTransportAndMarksTerminated(t *testing.T) {
	tr := newMockTransport()
	respondOK(tr, "disconnect", nil, false)
	s := New("s1", tr, AdapterSpec{}, Hooks{})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_ = s.Shutdown(ctx, false)

	select {
	case <-s.Done():
	default:
		t.Fatal("expected Done() to be closed after Shutdown")
	}
	if s.State() != StateTerminated {
		t.Fatalf("got state %v, want terminated", s.State())
	}
}

func mustJSON(t *testing.T, v interface{}) json.RawMessage {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return b
}
