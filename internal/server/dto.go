package server

import (
	"encoding/json"

	"TankDuel/internal/game"
	"TankDuel/internal/storage"
)

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type outboundMessage struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

type errorDTO struct {
	Message string `json:"message"`
}

type stateDTO struct {
	Role  string     `json:"role"`
	Frame game.Frame `json:"frame"`
}

type matchListDTO struct {
	Matches []game.Summary `json:"matches"`
}

type resultsDTO struct {
	Results []storage.MatchResult `json:"results"`
}
