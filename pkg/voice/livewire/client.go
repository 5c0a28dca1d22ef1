package livewire

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/BenjaminWie/emotionalCheckIn/pkg/voice"
)

const (
	defaultEndpoint       = "wss://generativelanguage.googleapis.com/ws/google.ai.generativelanguage.v1beta.GenerativeService.BidiGenerateContent"
	defaultConnectTimeout = 15 * time.Second

	eventBuffer = 256
)

// Config configures a live WebSocket client.
type Config struct {
	// APIKey authenticates the connection. Required.
	APIKey string
	// Model is the live model resource name, e.g.
	// "models/gemini-2.5-flash-native-audio-preview-09-2025". Required.
	Model string
	// SystemInstruction steers the model's voice persona. Optional.
	SystemInstruction string
	// VoiceName selects a prebuilt voice. Optional.
	VoiceName string
	// Endpoint overrides the default WebSocket endpoint. Optional.
	Endpoint string
	// Logger receives client diagnostics. Optional.
	Logger *slog.Logger
}

// Client is a voice.Transport over the Live WebSocket protocol. A
// client serves exactly one connection; create a new one per session.
type Client struct {
	config Config
	logger *slog.Logger

	conn   *websocket.Conn
	events chan voice.TransportEvent
	done   chan struct{}

	writeMu   sync.Mutex
	closeOnce sync.Once
	closed    atomic.Bool
}

// NewClient creates an unconnected client.
func NewClient(config Config) (*Client, error) {
	if strings.TrimSpace(config.APIKey) == "" {
		return nil, fmt.Errorf("livewire: api key is required")
	}
	if strings.TrimSpace(config.Model) == "" {
		return nil, fmt.Errorf("livewire: model is required")
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		config: config,
		logger: logger,
		events: make(chan voice.TransportEvent, eventBuffer),
		done:   make(chan struct{}),
	}, nil
}

// Connect dials the endpoint and completes the setup handshake. The
// connection is usable only after the server acknowledges setup; any
// failure before that point is returned and the client is dead.
func (c *Client) Connect(ctx context.Context) error {
	endpoint := c.config.Endpoint
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	wsURL, err := url.Parse(endpoint)
	if err != nil {
		return fmt.Errorf("parse endpoint: %w", err)
	}
	query := wsURL.Query()
	query.Set("key", c.config.APIKey)
	wsURL.RawQuery = query.Encode()

	dialCtx := ctx
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		dialCtx, cancel = context.WithTimeout(ctx, defaultConnectTimeout)
		defer cancel()
	}

	conn, _, err := websocket.DefaultDialer.DialContext(dialCtx, wsURL.String(), nil)
	if err != nil {
		return fmt.Errorf("dial live endpoint: %w", err)
	}

	if err := conn.WriteJSON(c.setupFrame()); err != nil {
		_ = conn.Close()
		return fmt.Errorf("send setup: %w", err)
	}

	_ = conn.SetReadDeadline(time.Now().Add(defaultConnectTimeout))
	_, payload, err := conn.ReadMessage()
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("read setup ack: %w", err)
	}
	_ = conn.SetReadDeadline(time.Time{})

	frame, err := DecodeServerFrame(payload)
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("decode setup ack: %w", err)
	}
	if frame.SetupComplete == nil {
		_ = conn.Close()
		return fmt.Errorf("unexpected first frame, want setup ack")
	}

	c.conn = conn
	c.emit(voice.OpenedEvent{})
	go c.readLoop()
	return nil
}

// SendAudio streams one base64-encoded capture block to the server.
func (c *Client) SendAudio(chunkB64 string) error {
	if c.closed.Load() {
		return voice.ErrSessionClosed
	}
	if c.conn == nil {
		return fmt.Errorf("livewire: not connected")
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteJSON(NewRealtimeAudioInput(chunkB64))
}

// Events yields inbound transport events. The channel closes when the
// connection ends, for any reason.
func (c *Client) Events() <-chan voice.TransportEvent {
	return c.events
}

// Close shuts the connection down. Idempotent; safe before Connect.
func (c *Client) Close() error {
	c.closeOnce.Do(func() {
		c.closed.Store(true)
		if c.conn == nil {
			close(c.events)
			close(c.done)
			return
		}
		c.writeMu.Lock()
		_ = c.conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(2*time.Second))
		c.writeMu.Unlock()
		_ = c.conn.Close()
		<-c.done
	})
	return nil
}

func (c *Client) setupFrame() ClientSetup {
	setup := SetupPayload{
		Model: c.config.Model,
		GenerationConfig: &GenerationConfig{
			ResponseModalities: []string{"AUDIO"},
		},
		InputAudioTranscription:  &struct{}{},
		OutputAudioTranscription: &struct{}{},
	}
	if c.config.VoiceName != "" {
		setup.GenerationConfig.SpeechConfig = &SpeechConfig{
			VoiceConfig: &VoiceConfig{
				PrebuiltVoiceConfig: &PrebuiltVoiceConfig{VoiceName: c.config.VoiceName},
			},
		}
	}
	if c.config.SystemInstruction != "" {
		setup.SystemInstruction = &Content{
			Parts: []Part{{Text: c.config.SystemInstruction}},
		}
	}
	return ClientSetup{Setup: setup}
}

// readLoop pumps inbound frames until the connection ends. A normal
// close terminates with a plain ClosedEvent; anything else surfaces
// a TransportErrorEvent first.
func (c *Client) readLoop() {
	defer close(c.done)
	defer close(c.events)

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if c.closed.Load() || websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.emit(voice.ClosedEvent{})
				return
			}
			c.emit(voice.TransportErrorEvent{Err: err})
			return
		}
		c.dispatch(data)
	}
}

// dispatch translates one server frame into transport events. An
// undecodable frame is logged and skipped; it does not end the
// connection.
func (c *Client) dispatch(data []byte) {
	frame, err := DecodeServerFrame(data)
	if err != nil {
		c.logger.Warn("skipping undecodable live frame", "error", err)
		return
	}

	if frame.GoAway != nil {
		c.logger.Warn("server announced disconnect", "time_left", frame.GoAway.TimeLeft)
		return
	}

	content := frame.ServerContent
	if content == nil {
		return
	}

	if content.ModelTurn != nil {
		for _, part := range content.ModelTurn.Parts {
			if part.InlineData != nil && part.InlineData.Data != "" {
				c.emit(voice.AudioChunkEvent{DataB64: part.InlineData.Data})
			}
		}
	}
	if content.InputTranscription != nil && content.InputTranscription.Text != "" {
		c.emit(voice.InputTranscriptionEvent{Text: content.InputTranscription.Text})
	}
	if content.OutputTranscription != nil && content.OutputTranscription.Text != "" {
		c.emit(voice.OutputTranscriptionEvent{Text: content.OutputTranscription.Text})
	}
	if content.TurnComplete {
		c.emit(voice.TurnCompleteEvent{})
	}
}

func (c *Client) emit(event voice.TransportEvent) {
	select {
	case c.events <- event:
	default:
		// Avoid deadlocking the read loop if the consumer stalls.
	}
}
