package chatlink

import "context"

// Message is one inbound chat line as delivered by the gateway.
type Message struct {
	Room   string `json:"room"`
	Sender string `json:"sender"`
	Text   string `json:"text"`
}

// ReplyRequest is the gateway's send payload, over HTTP or WebSocket.
type ReplyRequest struct {
	Type string `json:"type"`
	Room string `json:"room"`
	Data string `json:"data"`
}

// WebSocketState is the connection lifecycle reported to state callbacks.
type WebSocketState string

const (
	WSStateDisconnected WebSocketState = "disconnected"
	WSStateConnecting   WebSocketState = "connecting"
	WSStateConnected    WebSocketState = "connected"
	WSStateReconnecting WebSocketState = "reconnecting"
	WSStateFailed       WebSocketState = "failed"
)

type MessageCallback func(message *Message)

type StateCallback func(state WebSocketState)

// Receiver is the inbound half of the gateway.
type Receiver interface {
	Connect(ctx context.Context) error
	OnMessage(cb MessageCallback) int
	RemoveMessageCallback(id int)
	OnStateChange(cb StateCallback) int
	RemoveStateCallback(id int)
	Close(ctx context.Context) error
}

// HeaderProvider allows injecting per-request headers.
type HeaderProvider func() map[string]string
