package twitch

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/GalacticGlum/glumbot/internal/core/domain"
	"github.com/GalacticGlum/glumbot/internal/core/port"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// DefaultServerURL is the public Twitch chat websocket endpoint.
const DefaultServerURL = "wss://irc-ws.chat.twitch.tv:443"

// IRC connects to Twitch chat over websocket, feeds inbound PRIVMSGs to the
// message handler and sends replies. Messages are handled one at a time on
// the read loop goroutine.
type IRC struct {
	serverURL string
	token     string
	nick      string
	channels  []string
	handler   port.MessageHandler

	displayMessages bool
	displayOwn      bool

	writeMutex sync.Mutex
	conn       *websocket.Conn
}

func NewIRC(serverURL, token, nick string, channels []string, displayMessages, displayOwn bool) *IRC {
	return &IRC{
		serverURL:       serverURL,
		token:           token,
		nick:            nick,
		channels:        channels,
		displayMessages: displayMessages,
		displayOwn:      displayOwn,
	}
}

// Run connects, authenticates and blocks reading chat until the context is
// canceled or the connection drops. Run is handed the handler late because
// the dispatcher behind it needs this transport as its sender.
func (t *IRC) Run(ctx context.Context, handler port.MessageHandler) error {
	t.handler = handler
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, t.serverURL, nil)
	if err != nil {
		return fmt.Errorf("could not connect to chat server: %w", err)
	}
	t.conn = conn
	defer conn.Close()

	for _, line := range []string{
		"CAP REQ :twitch.tv/tags twitch.tv/commands",
		"PASS oauth:" + t.token,
		"NICK " + t.nick,
	} {
		if err := t.write(line); err != nil {
			return fmt.Errorf("could not authenticate: %w", err)
		}
	}

	for _, channel := range t.channels {
		if err := t.write("JOIN #" + strings.ToLower(channel)); err != nil {
			return fmt.Errorf("could not join channel %q: %w", channel, err)
		}
	}

	log.Info().Str("nick", t.nick).Strs("channels", t.channels).Msg("connected to chat")

	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}

			return fmt.Errorf("chat connection closed: %w", err)
		}

		for _, line := range strings.Split(string(data), "\r\n") {
			if line == "" {
				continue
			}

			t.handleLine(ctx, line)
		}
	}
}

func (t *IRC) handleLine(ctx context.Context, line string) {
	if strings.HasPrefix(line, "PING") {
		if err := t.write("PONG :tmi.twitch.tv"); err != nil {
			log.Error().Err(err).Msg("failed to answer keepalive")
		}

		return
	}

	message, ok := parseMessage(line)
	if !ok {
		return
	}

	message.Self = strings.EqualFold(message.Author.Name, t.nick)

	if t.displayMessages && (t.displayOwn || !message.Self) {
		log.Info().
			Str("channel", message.Channel).
			Str("author", message.Author.Name).
			Msg(message.Text)
	}

	t.handler.Handle(ctx, message)
}

// Send delivers a PRIVMSG to the given channel.
func (t *IRC) Send(_ context.Context, channel, text string) error {
	return t.write(fmt.Sprintf("PRIVMSG #%s :%s", strings.ToLower(channel), text))
}

func (t *IRC) write(line string) error {
	t.writeMutex.Lock()
	defer t.writeMutex.Unlock()

	return t.conn.WriteMessage(websocket.TextMessage, []byte(line+"\r\n"))
}

// parseMessage extracts a chat message from one tagged IRC line. Lines that
// are not PRIVMSGs are skipped.
func parseMessage(line string) (*domain.Message, bool) {
	tags := map[string]string{}
	rest := line

	if strings.HasPrefix(rest, "@") {
		idx := strings.Index(rest, " ")
		if idx < 0 {
			return nil, false
		}

		tags = parseTags(rest[1:idx])
		rest = rest[idx+1:]
	}

	if !strings.HasPrefix(rest, ":") {
		return nil, false
	}

	idx := strings.Index(rest, " ")
	if idx < 0 {
		return nil, false
	}

	prefix := rest[1:idx]
	rest = rest[idx+1:]

	if !strings.HasPrefix(rest, "PRIVMSG ") {
		return nil, false
	}
	rest = strings.TrimPrefix(rest, "PRIVMSG ")

	idx = strings.Index(rest, " :")
	if idx < 0 {
		return nil, false
	}

	channel := strings.TrimPrefix(rest[:idx], "#")
	text := rest[idx+2:]

	nick := prefix
	if i := strings.Index(prefix, "!"); i >= 0 {
		nick = prefix[:i]
	}

	badges := tags["badges"]
	author := domain.User{
		ID:           tags["user-id"],
		Name:         nick,
		IsSubscriber: tags["subscriber"] == "1" || strings.Contains(badges, "subscriber/"),
		IsMod:        tags["mod"] == "1" || strings.Contains(badges, "broadcaster/"),
	}

	return &domain.Message{
		ID:      tags["id"],
		Channel: channel,
		Author:  author,
		Text:    text,
	}, true
}

func parseTags(raw string) map[string]string {
	tags := make(map[string]string)
	for _, pair := range strings.Split(raw, ";") {
		key, value, found := strings.Cut(pair, "=")
		if !found {
			continue
		}

		tags[key] = value
	}

	return tags
}
