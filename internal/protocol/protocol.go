package protocol

import (
	"errors"
	"fmt"
	"strings"

	"github.com/park285/whisper-chess/internal/board"
)

// Prefix starts every protocol message.
const Prefix = "CHESS:"

const (
	fieldResign = "RESIGN"
	fieldJoin   = "JOIN"
)

var (
	ErrNotProtocolMessage = errors.New("not a protocol message")
	ErrMalformedMessage   = errors.New("malformed protocol message")
)

// Kind classifies a parsed message.
type Kind int

const (
	KindMove Kind = iota + 1
	KindResign
	KindJoin
)

func (k Kind) String() string {
	switch k {
	case KindMove:
		return "move"
	case KindResign:
		return "resign"
	case KindJoin:
		return "join"
	default:
		return "unknown"
	}
}

// Message is a decoded protocol line.
type Message struct {
	Kind      Kind
	SessionID string
	Move      board.Move
}

// EncodeMove renders CHESS:<id>:<from>:<to>. An underpromotion is appended as a
// fourth field; queen promotion is implied and left out. Peers that only know
// the three-field form ignore the fourth field and promote to a queen, so an
// underpromotion desyncs against them. Every other move is wire compatible.
func EncodeMove(sessionID string, m board.Move) string {
	s := Prefix + sessionID + ":" + m.From.String() + ":" + m.To.String()
	if m.Promotion != board.NoPieceType && m.Promotion != board.Queen {
		s += ":" + string(m.Promotion.Letter())
	}
	return s
}

func EncodeResign(sessionID string) string { return Prefix + sessionID + ":" + fieldResign }

func EncodeJoin(sessionID string) string { return Prefix + sessionID + ":" + fieldJoin }

// Decode returns the colon-delimited fields after the prefix, verbatim.
// It fails with ErrNotProtocolMessage when the prefix is missing or fewer
// than two fields follow it.
func Decode(text string) ([]string, error) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, Prefix) {
		return nil, ErrNotProtocolMessage
	}
	fields := strings.Split(text[len(Prefix):], ":")
	if len(fields) < 2 || fields[0] == "" {
		return nil, ErrNotProtocolMessage
	}
	return fields, nil
}

// IsProtocolMessage is a cheap prefix check for transport filtering.
func IsProtocolMessage(text string) bool {
	return strings.HasPrefix(strings.TrimSpace(text), Prefix)
}

// Parse decodes text and interprets the fields by position.
func Parse(text string) (Message, error) {
	fields, err := Decode(text)
	if err != nil {
		return Message{}, err
	}
	msg := Message{SessionID: fields[0]}
	switch strings.ToUpper(fields[1]) {
	case fieldResign:
		msg.Kind = KindResign
		return msg, nil
	case fieldJoin:
		msg.Kind = KindJoin
		return msg, nil
	}
	if len(fields) < 3 || len(fields) > 4 {
		return Message{}, fmt.Errorf("%w: %q", ErrMalformedMessage, text)
	}
	promo := ""
	if len(fields) == 4 {
		promo = fields[3]
	}
	m, err := board.ParseMove(fields[1], fields[2], promo)
	if err != nil {
		return Message{}, fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}
	msg.Kind = KindMove
	msg.Move = m
	return msg, nil
}
