package domain

// User is a chat participant as reported by the transport.
type User struct {
	ID           string
	Name         string
	IsSubscriber bool
	IsMod        bool
}

// Message is a single inbound chat line, normalized by the transport.
type Message struct {
	ID      string
	Channel string
	Author  User
	Text    string
	Self    bool
}

// Invocation carries the per-dispatch state handed to a command handler.
// It is created for one message and discarded after handling.
type Invocation struct {
	ID      string
	Message *Message
	// Params is the free-form payload from the command definition, passed
	// through verbatim to the external handler.
	Params map[string]any
	// Args holds the parsed positional arguments keyed by argument name.
	Args map[string]any
}
