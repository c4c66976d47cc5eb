// Package session wires websocket connections into towns: the join
// handshake, the per-connection event loop, and the bridge between the
// broker's subjects and the socket.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/coder/websocket"

	"github.com/hearthview/go-town/internal/messaging"
	"github.com/hearthview/go-town/internal/town"
)

// Subscriber provides the ability to subscribe to message subjects.
type Subscriber interface {
	Subscribe(subject string, handler func(data []byte)) (unsubscribe func(), err error)
}

// TokenProvider matches the video collaborator capability the join
// sequence depends on.
type TokenProvider interface {
	GetToken(ctx context.Context, townID, playerID string) (string, error)
}

// Handler accepts websocket connections at
// GET /towns/{townID}/session?userName=.
type Handler struct {
	store *town.Store
	video TokenProvider
	sub   Subscriber
}

func NewHandler(store *town.Store, video TokenProvider, sub Subscriber) *Handler {
	return &Handler{
		store: store,
		video: video,
		sub:   sub,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true, // browser clients connect cross-origin
	})
	if err != nil {
		slog.ErrorContext(ctx, "accepting websocket", "error", err)
		return
	}

	townID := r.PathValue("townID")
	userName := r.URL.Query().Get("userName")

	tw := h.store.GetTown(townID)
	if tw == nil {
		// Unknown town: close without any application message.
		conn.Close(websocket.StatusPolicyViolation, "")
		return
	}

	if err := h.runSession(ctx, conn, tw, userName); err != nil {
		slog.WarnContext(ctx, "player session", "town", townID, "error", err)
	}
}

func (h *Handler) runSession(ctx context.Context, conn *websocket.Conn, tw *town.Town, userName string) error {
	p := town.NewPlayer(userName)

	// The only asynchronous gap in the join sequence: the video
	// credential is awaited before the player is registered, so a
	// failure leaves no partial state.
	videoToken, err := h.video.GetToken(ctx, tw.ID(), p.ID)
	if err != nil {
		conn.Close(websocket.StatusInternalError, "join failed")
		return fmt.Errorf("fetching video token: %w", err)
	}
	p.SetVideoToken(videoToken)

	sessionCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	msgs := make(chan []byte, 64)
	deliver := func(data []byte) {
		select {
		case msgs <- data:
		default:
			slog.Warn("dropping message for slow connection", "player", p.ID)
		}
	}

	unsubTown, err := h.sub.Subscribe(messaging.TownSubject(tw.ID()), deliver)
	if err != nil {
		conn.Close(websocket.StatusInternalError, "join failed")
		return fmt.Errorf("subscribing to town subject: %w", err)
	}
	defer unsubTown()

	unsubPlayer, err := h.sub.Subscribe(messaging.PlayerSubject(p.ID), deliver)
	if err != nil {
		conn.Close(websocket.StatusInternalError, "join failed")
		return fmt.Errorf("subscribing to player subject: %w", err)
	}
	defer unsubPlayer()

	tw.AddPlayer(p)
	defer tw.RemovePlayer(p)

	if err := h.sendInitialize(sessionCtx, conn, tw, p); err != nil {
		conn.Close(websocket.StatusInternalError, "join failed")
		return fmt.Errorf("sending initialize: %w", err)
	}

	// Outbound pump: broker subjects to the socket. A townClosing event
	// force-closes the connection after delivery.
	go func() {
		for {
			select {
			case <-sessionCtx.Done():
				return
			case data := <-msgs:
				if err := conn.Write(sessionCtx, websocket.MessageText, data); err != nil {
					cancel()
					return
				}
				var msg town.Message
				if err := json.Unmarshal(data, &msg); err == nil && msg.Type == town.EventTownClosing {
					conn.Close(websocket.StatusGoingAway, "town closing")
					cancel()
					return
				}
			}
		}
	}()

	// Inbound pump: client messages into the town, in arrival order.
	for {
		_, data, err := conn.Read(sessionCtx)
		if err != nil {
			conn.Close(websocket.StatusNormalClosure, "")
			if errors.Is(err, context.Canceled) {
				return nil
			}
			var closeErr websocket.CloseError
			if errors.As(err, &closeErr) {
				return nil
			}
			return fmt.Errorf("reading message: %w", err)
		}
		h.dispatch(tw, p, data)
	}
}

func (h *Handler) dispatch(tw *town.Town, p *town.Player, data []byte) {
	var msg town.Message
	if err := json.Unmarshal(data, &msg); err != nil {
		slog.Debug("dropping malformed message", "player", p.ID, "error", err)
		return
	}

	switch msg.Type {
	case town.EventPlayerMovement:
		var loc town.Location
		if err := json.Unmarshal(msg.Payload, &loc); err != nil {
			slog.Debug("dropping malformed movement", "player", p.ID, "error", err)
			return
		}
		tw.UpdatePlayerLocation(p, loc)

	case town.EventChatMessage:
		tw.HandleChat(msg.Payload)

	case town.EventInteractableUpdate:
		var model town.InteractableModel
		if err := json.Unmarshal(msg.Payload, &model); err != nil {
			slog.Debug("dropping malformed interactable update", "player", p.ID, "error", err)
			return
		}
		tw.HandleInteractableUpdate(p, model)

	default:
		slog.Debug("dropping unknown message type", "player", p.ID, "type", msg.Type)
	}
}

func (h *Handler) sendInitialize(ctx context.Context, conn *websocket.Conn, tw *town.Town, p *town.Player) error {
	msg, err := town.NewMessage(town.EventInitialize, town.Initialize{
		UserID:             p.ID,
		SessionToken:       p.SessionToken,
		ProviderVideoToken: p.VideoToken(),
		CurrentPlayers:     tw.PlayerModels(),
		FriendlyName:       tw.FriendlyName(),
		IsPubliclyListed:   tw.IsPubliclyListed(),
		Interactables:      tw.InteractableModels(),
	})
	if err != nil {
		return err
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return conn.Write(ctx, websocket.MessageText, data)
}
