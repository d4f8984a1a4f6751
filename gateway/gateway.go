// Package gateway is the chat platform adapter: a websocket client that
// receives join/message events and delivers the flow's outbound messages.
package gateway

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/robonexus/communitybot/messaging"
	"github.com/robonexus/communitybot/onboarding"
	"github.com/robonexus/communitybot/roles"
)

const (
	writeTimeout   = 10 * time.Second
	reconnectDelay = 5 * time.Second
)

var (
	_ messaging.Messenger = (*Gateway)(nil)
	_ roles.Granter       = (*Gateway)(nil)
)

// Gateway bridges the websocket connection and the onboarding service. One
// goroutine (Run) reads events; writes from any goroutine are serialised
// through writeMu because gorilla connections allow a single writer.
type Gateway struct {
	url   string
	token string
	flow  *onboarding.Service

	writeMu sync.Mutex
	conn    *websocket.Conn
	connMu  sync.RWMutex
}

// New builds an unconnected gateway. The onboarding service is handed to Run
// rather than the constructor because the service itself needs the gateway as
// its messenger and role granter.
func New(url, token string) *Gateway {
	return &Gateway{url: url, token: token}
}

// Run connects to the gateway and dispatches events into flow until ctx is
// cancelled, reconnecting with a fixed delay on connection loss.
func (g *Gateway) Run(ctx context.Context, flow *onboarding.Service) error {
	g.flow = flow
	for {
		if err := g.connectAndListen(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			log.Error().Err(err).Msg("gateway connection lost, reconnecting")
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(reconnectDelay):
		}
	}
}

func (g *Gateway) connectAndListen(ctx context.Context) error {
	header := http.Header{}
	header.Set("Authorization", "Bot "+g.token)

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, g.url, header)
	if err != nil {
		return errors.Wrap(err, "[Gateway] dialing")
	}
	defer conn.Close()

	g.connMu.Lock()
	g.conn = conn
	g.connMu.Unlock()
	log.Info().Str("url", g.url).Msg("gateway connected")

	// Close the connection when ctx ends so ReadJSON unblocks.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	for {
		var ev event
		if err := conn.ReadJSON(&ev); err != nil {
			return errors.Wrap(err, "[Gateway] reading event")
		}
		g.dispatch(ctx, ev)
	}
}

func (g *Gateway) dispatch(ctx context.Context, ev event) {
	if ev.Bot {
		return
	}

	switch ev.Op {
	case opMemberJoin:
		if err := g.flow.HandleMemberJoin(ctx, ev.MemberID); err != nil {
			log.Error().Err(err).Str("member", ev.MemberID).Msg("join event failed")
		}
	case opMessageCreate:
		err := g.flow.HandleMessage(ctx, onboarding.InboundMessage{
			MemberID:      ev.MemberID,
			ChannelID:     ev.ChannelID,
			Content:       ev.Content,
			DirectMessage: ev.DirectMessage,
		})
		if err != nil {
			log.Error().Err(err).Str("member", ev.MemberID).Msg("message event failed")
		}
	default:
		log.Debug().Str("op", ev.Op).Msg("ignoring gateway event")
	}
}

func (g *Gateway) send(ev event) error {
	g.connMu.RLock()
	conn := g.conn
	g.connMu.RUnlock()
	if conn == nil {
		return errors.New("[Gateway] not connected")
	}

	g.writeMu.Lock()
	defer g.writeMu.Unlock()

	ev.Nonce = uuid.NewString()
	_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return errors.Wrap(conn.WriteJSON(ev), "[Gateway] writing frame")
}

// SendPrompt delivers a stage prompt to the member.
func (g *Gateway) SendPrompt(_ context.Context, memberID string, prompt messaging.Prompt) error {
	return g.send(event{Op: opMemberSend, MemberID: memberID, Content: renderPrompt(prompt)})
}

// SendCompletion delivers the verification summary to the member.
func (g *Gateway) SendCompletion(_ context.Context, memberID string, completion messaging.Completion) error {
	return g.send(event{Op: opMemberSend, MemberID: memberID, Content: renderCompletion(completion)})
}

// AnnounceJoin posts the join notice in the given channel.
func (g *Gateway) AnnounceJoin(_ context.Context, channelID, memberID string) error {
	return g.send(event{Op: opChannelSend, ChannelID: channelID, Content: renderJoinAnnouncement(memberID)})
}

// EnsureRoleAndAssign asks the platform to create the class role if missing
// and attach it to the member. The platform treats the frame as idempotent.
func (g *Gateway) EnsureRoleAndAssign(_ context.Context, memberID, class string) error {
	return g.send(event{Op: opRoleAssign, MemberID: memberID, Role: class})
}

// AnnounceVerified posts the verified notice in the given channel.
func (g *Gateway) AnnounceVerified(_ context.Context, channelID string, completion messaging.Completion) error {
	return g.send(event{Op: opChannelSend, ChannelID: channelID, Content: renderVerifiedAnnouncement(completion)})
}
