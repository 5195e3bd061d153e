package bot

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/freeeve/relic-eclipse/pkg/eclipse"
)

// WSEvent mirrors handler.WSEvent for client-side deserialization.
type WSEvent struct {
	Type   string          `json:"type"`
	GameID string          `json:"game_id"`
	Data   json.RawMessage `json:"data,omitempty"`
}

// NewGameRequest mirrors service.CreateInput on the wire.
type NewGameRequest struct {
	Players         int    `json:"players,omitempty"`
	Ruleset         string `json:"ruleset,omitempty"`
	Difficulty      string `json:"difficulty,omitempty"`
	Seed            uint64 `json:"seed,omitempty"`
	Rounds          int    `json:"rounds,omitempty"`
	AutoAcknowledge bool   `json:"auto_acknowledge,omitempty"`
}

type gameEnvelope struct {
	State *eclipse.GameState `json:"state"`
	Token *struct {
		Token  string `json:"token"`
		GameID string `json:"game_id"`
		Seat   int    `json:"seat"`
	} `json:"token"`
}

// RejectedError is a 422 from the server: the intent broke a game rule.
type RejectedError struct {
	Path    string
	Reason  string
	Message string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("POST %s rejected (%s): %s", e.Path, e.Reason, e.Message)
}

// Client plays one seat of a live game over HTTP and WebSocket.
type Client struct {
	baseURL  string
	token    string
	gameID   string
	seat     eclipse.PlayerID
	wsConn   *websocket.Conn
	events   chan WSEvent
	httpC    *http.Client
	mu       sync.Mutex
	closedWS bool
}

// NewClient creates a client targeting the given server URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		events:  make(chan WSEvent, 64),
		httpC:   &http.Client{Timeout: 30 * time.Second},
	}
}

// GameID returns the game this client holds a seat in.
func (c *Client) GameID() string { return c.gameID }

// Seat returns the client's seat.
func (c *Client) Seat() eclipse.PlayerID { return c.seat }

// CreateGame starts a new session and keeps its seat token.
func (c *Client) CreateGame(ctx context.Context, req NewGameRequest) (*eclipse.GameState, error) {
	var env gameEnvelope
	if err := c.do(ctx, http.MethodPost, "/api/v1/games", req, http.StatusCreated, &env); err != nil {
		return nil, err
	}
	if env.Token == nil || env.Token.Token == "" {
		return nil, errors.New("create game: response carried no seat token")
	}
	c.token = env.Token.Token
	c.gameID = env.Token.GameID
	c.seat = eclipse.PlayerID(env.Token.Seat)
	return env.State, nil
}

// State fetches the seat's current view of the board.
func (c *Client) State(ctx context.Context) (*eclipse.GameState, error) {
	var env gameEnvelope
	if err := c.do(ctx, http.MethodGet, c.gamePath(""), nil, http.StatusOK, &env); err != nil {
		return nil, err
	}
	return env.State, nil
}

// Send posts an intent and returns the resulting view.
func (c *Client) Send(ctx context.Context, in Intent) (*eclipse.GameState, error) {
	var gs eclipse.GameState
	if err := c.do(ctx, http.MethodPost, c.gamePath(in.Path), in.Body, http.StatusOK, &gs); err != nil {
		return nil, err
	}
	return &gs, nil
}

// ConnectWS opens the game's WebSocket feed. The server subscribes the
// connection to the token's game on upgrade.
func (c *Client) ConnectWS(ctx context.Context) error {
	wsURL := strings.Replace(c.baseURL, "http", "ws", 1) + "/api/v1/ws?token=" + url.QueryEscape(c.token)
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return fmt.Errorf("ws dial: %w", err)
	}
	c.wsConn = conn

	go c.readWSLoop()
	return nil
}

// Events returns the channel of incoming WebSocket events.
func (c *Client) Events() <-chan WSEvent { return c.events }

// CloseWS closes the WebSocket connection.
func (c *Client) CloseWS() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.wsConn != nil && !c.closedWS {
		c.closedWS = true
		c.wsConn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		c.wsConn.Close()
	}
}

func (c *Client) readWSLoop() {
	defer close(c.events)
	for {
		_, msg, err := c.wsConn.ReadMessage()
		if err != nil {
			c.mu.Lock()
			closed := c.closedWS
			c.mu.Unlock()
			if !closed {
				log.Debug().Err(err).Str("gameId", c.gameID).Msg("WS read error")
			}
			return
		}
		var event WSEvent
		if err := json.Unmarshal(msg, &event); err != nil {
			continue
		}
		select {
		case c.events <- event:
		default:
			// Events are only wake-ups; the state is re-read over HTTP.
		}
	}
}

func (c *Client) gamePath(suffix string) string {
	p := "/api/v1/games/" + url.PathEscape(c.gameID)
	if suffix != "" {
		p += "/" + suffix
	}
	return p
}

func (c *Client) do(ctx context.Context, method, path string, payload any, want int, out any) error {
	var bodyReader io.Reader
	if method == http.MethodPost {
		data := []byte("{}")
		if payload != nil {
			var err error
			if data, err = json.Marshal(payload); err != nil {
				return err
			}
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return err
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if bodyReader != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpC.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode == http.StatusUnprocessableEntity {
		var rej struct {
			Error  string `json:"error"`
			Reason string `json:"reason"`
		}
		json.Unmarshal(body, &rej)
		return &RejectedError{Path: path, Reason: rej.Reason, Message: rej.Error}
	}
	if resp.StatusCode != want {
		return fmt.Errorf("%s %s: status %d: %s", method, path, resp.StatusCode, body)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
