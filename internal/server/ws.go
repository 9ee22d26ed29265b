package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"TankDuel/internal/game"

	"github.com/gorilla/websocket"
)

const (
	rolePlayer    = "player"
	roleSpectator = "spectator"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type liveConn struct {
	conn     *websocket.Conn
	sendTick *time.Ticker
}

func (a *app) serveWS(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	matchID := query.Get("match")
	if matchID == "" {
		matchID = "default"
	}
	role := strings.ToLower(query.Get("role"))
	if role == "" {
		role = rolePlayer
	}
	if role != rolePlayer && role != roleSpectator {
		http.Error(w, "role must be player or spectator", http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		a.log.Warn().Err(err).Msg("upgrade")
		return
	}
	lc := &liveConn{
		conn:     conn,
		sendTick: time.NewTicker(time.Duration(float64(time.Second) / a.updateHz)),
	}
	defer func() {
		lc.sendTick.Stop()
		_ = conn.Close()
	}()

	log := a.log.With().Str("match", matchID).Str("role", role).Str("conn", game.RandId("c")).Logger()

	var match *game.Match
	if role == rolePlayer {
		var seated bool
		match, seated = a.hub.JoinAsPlayer(matchID)
		if !seated {
			_ = conn.WriteJSON(outboundMessage{Type: "match_full", Payload: errorDTO{Message: "match already has a player"}})
			log.Info().Msg("rejected second player")
			return
		}
		defer match.ReleasePlayer()
	} else {
		match = a.hub.GetMatch(matchID)
	}
	log.Info().Msg("connected")
	defer log.Info().Msg("disconnected")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		defer cancel()
		for {
			msgType, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			if msgType != websocket.TextMessage {
				log.Debug().Int("type", msgType).Msg("ignoring non-text frame")
				continue
			}
			var inbound inboundMessage
			if err := json.Unmarshal(data, &inbound); err != nil {
				log.Warn().Err(err).Msg("invalid JSON message")
				continue
			}
			if role != rolePlayer {
				log.Debug().Str("type", inbound.Type).Msg("spectators cannot send commands")
				continue
			}
			switch inbound.Type {
			case "input":
				var in game.Intents
				if err := json.Unmarshal(inbound.Payload, &in); err != nil {
					log.Warn().Err(err).Msg("invalid input payload")
					continue
				}
				match.SetInput(in)
			case "reset":
				match.Reset()
			default:
				log.Debug().Str("type", inbound.Type).Msg("unknown message type")
			}
		}
	}()

	send := func() error {
		return conn.WriteJSON(outboundMessage{Type: "state", Payload: stateDTO{Role: role, Frame: match.Frame()}})
	}
	if err := send(); err != nil {
		return
	}
	for {
		select {
		case <-ctx.Done():
			return
		case <-a.ctx.Done():
			return
		case <-lc.sendTick.C:
			if err := send(); err != nil {
				log.Debug().Err(err).Msg("write failed")
				return
			}
		}
	}
}
