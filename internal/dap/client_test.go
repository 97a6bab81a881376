package dap

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"testing"
	"time"
)

// mockTransport implements Transport for testing, modeled on the teacher's
// own client_test.go mock: a send queue an onSend hook can react to (e.g.
// to synthesize a response), and a recv channel a test feeds directly.
type mockTransport struct {
	mu        sync.Mutex
	sendQueue []*Message
	recvChan  chan *Message
	closed    bool
	sendErr   error
	onSend    func(*Message)
}

func newMockTransport() *mockTransport {
	return &mockTransport{recvChan: make(chan *Message, 16)}
}

func (t *mockTransport) Send(msg *Message) error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return io.ErrClosedPipe
	}
	if t.sendErr != nil {
		err := t.sendErr
		t.mu.Unlock()
		return err
	}
	t.sendQueue = append(t.sendQueue, msg)
	onSend := t.onSend
	t.mu.Unlock()

	if onSend != nil {
		onSend(msg)
	}
	return nil
}

func (t *mockTransport) Receive() (*Message, error) {
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
	t.recvChan <- &Message{ContentLength: len(content), Content: content}
}

// respondOK installs an onSend hook that answers every request named
// command with a successful response carrying body.
func respondOK(t *mockTransport, command string, body interface{}) {
	t.onSend = func(msg *Message) {
		var req Request
		if err := json.Unmarshal(msg.Content, &req); err != nil || req.Command != command {
			return
		}
		bodyJSON, _ := json.Marshal(body)
		t.feed(Response{
			ProtocolMessage: ProtocolMessage{Seq: req.Seq + 1000, Type: "response"},
			RequestSeq:      req.Seq,
			Success:         true,
			Command:         req.Command,
			Body:            bodyJSON,
		})
	}
}

func TestClientInitializeRoundTrip(t *testing.T) {
	tr := newMockTransport()
	caps := Capabilities{SupportsConfigurationDoneRequest: true}
	respondOK(tr, "initialize", caps)

	c := NewClient(tr)
	defer c.Close()

	got, err := c.Initialize(context.Background(), InitializeRequestArguments{ClientID: "test"})
	if err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if !got.SupportsConfigurationDoneRequest {
		t.Errorf("expected SupportsConfigurationDoneRequest true")
	}
}

func TestClientRequestTimeout(t *testing.T) {
	tr := newMockTransport() // onSend left nil: never answers
	c := NewClient(tr, WithRequestTimeout(20*time.Millisecond))
	defer c.Close()

	_, err := c.Threads(context.Background())
	if err == nil {
		t.Fatal("expected a timeout error")
	}
}

func TestClientErrorResponse(t *testing.T) {
	tr := newMockTransport()
	tr.onSend = func(msg *Message) {
		var req Request
		_ = json.Unmarshal(msg.Content, &req)
		tr.feed(Response{
			ProtocolMessage: ProtocolMessage{Seq: req.Seq + 1000, Type: "response"},
			RequestSeq:      req.Seq,
			Success:         false,
			Command:         req.Command,
			Message:         "breakpoint verification failed",
		})
	}

	c := NewClient(tr)
	defer c.Close()

	_, err := c.SetBreakpoints(context.Background(), SetBreakpointsArguments{})
	if err == nil {
		t.Fatal("expected an error from a failed response")
	}
}

func TestClientDispatchesStoppedEvent(t *testing.T) {
	tr := newMockTransport()
	c := NewClient(tr)
	defer c.Close()

	got := make(chan StoppedEventBody, 1)
	c.OnStopped(func(b StoppedEventBody) { got <- b })

	tr.feed(Event{
		ProtocolMessage: ProtocolMessage{Seq: 1, Type: "event"},
		Event:           "stopped",
		Body:            mustJSON(t, StoppedEventBody{Reason: "breakpoint", ThreadID: 7}),
	})

	select {
	case b := <-got:
		if b.Reason != "breakpoint" || b.ThreadID != 7 {
			t.Errorf("unexpected body: %+v", b)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for stopped event")
	}
}

func TestClientReverseRequest(t *testing.T) {
	tr := newMockTransport()
	c := NewClient(tr)
	defer c.Close()

	called := make(chan json.RawMessage, 1)
	c.RegisterReverseHandler("runInTerminal", func(ctx context.Context, args json.RawMessage) (interface{}, error) {
		called <- args
		return map[string]interface{}{"processId": 123}, nil
	})

	tr.feed(Request{
		ProtocolMessage: ProtocolMessage{Seq: 1, Type: "request"},
		Command:         "runInTerminal",
		Arguments:       json.RawMessage(`{"cwd":"/tmp"}`),
	})

	select {
	case args := <-called:
		if string(args) != `{"cwd":"/tmp"}` {
			t.Errorf("unexpected args: %s", args)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for reverse handler invocation")
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
