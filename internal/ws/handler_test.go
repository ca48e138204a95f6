package ws

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"golang.org/x/crypto/bcrypt"

	"github.com/stretchr/testify/suite"

	"github.com/playgrid/sudoku-together/internal/dependencies/clock"
	"github.com/playgrid/sudoku-together/internal/dependencies/random"
	"github.com/playgrid/sudoku-together/internal/model"
	"github.com/playgrid/sudoku-together/internal/services/auth"
	"github.com/playgrid/sudoku-together/internal/services/game"
	"github.com/playgrid/sudoku-together/internal/storage/memory"
	"github.com/playgrid/sudoku-together/internal/sudoku"
)

type HandlerSuite struct {
	suite.Suite
	storage    *memory.Storage
	controller *game.Controller
	hubs       *HubManager
	server     *httptest.Server
	ctx        context.Context

	game *model.Game
	host *model.Player
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	s.storage = memory.New()
	s.controller = game.NewController(
		s.storage,
		sudoku.NewGenerator(random.New()),
		auth.NewWithCost(bcrypt.MinCost),
		clock.New(),
		testLogger(),
	)
	s.hubs = NewHubManager(testLogger())
	s.ctx = context.Background()

	handler := NewHandler(s.controller, s.hubs, clock.New(), testLogger())
	router := mux.NewRouter()
	router.HandleFunc("/ws/game/{gameID}", handler.ServeGame)
	s.server = httptest.NewServer(router)

	var err error
	s.game, s.host, _, err = s.controller.CreateGame(s.ctx, model.DifficultyEasy, "alice", "")
	s.Require().NoError(err)
}

func (s *HandlerSuite) TearDownTest() {
	s.server.Close()
}

// dial opens a websocket connection to the test game's room
func (s *HandlerSuite) dial(gameID model.GameID) *websocket.Conn {
	url := "ws" + strings.TrimPrefix(s.server.URL, "http") + "/ws/game/" + string(gameID)
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	s.Require().NoError(err)
	s.T().Cleanup(func() { _ = conn.Close() })
	return conn
}

// readEvent reads the next frame and returns its type tag and raw payload
func (s *HandlerSuite) readEvent(conn *websocket.Conn) (string, []byte) {
	s.Require().NoError(conn.SetReadDeadline(time.Now().Add(2 * time.Second)))
	_, raw, err := conn.ReadMessage()
	s.Require().NoError(err)
	var env Envelope
	s.Require().NoError(json.Unmarshal(raw, &env))
	return env.Type, raw
}

// waitFor reads frames until one of the wanted type arrives
func (s *HandlerSuite) waitFor(conn *websocket.Conn, wantType string) []byte {
	for i := 0; i < 10; i++ {
		typ, raw := s.readEvent(conn)
		if typ == wantType {
			return raw
		}
	}
	s.FailNowf("event not received", "no %s event within 10 frames", wantType)
	return nil
}

func (s *HandlerSuite) send(conn *websocket.Conn, msg any) {
	s.Require().NoError(conn.WriteJSON(msg))
}

func (s *HandlerSuite) findEmptyCell() (int, int) {
	for r := 0; r < model.GridSize; r++ {
		for c := 0; c < model.GridSize; c++ {
			if s.game.InitialBoard[r][c] == 0 {
				return r, c
			}
		}
	}
	s.FailNow("puzzle has no empty cells")
	return 0, 0
}

func (s *HandlerSuite) findClueCell() (int, int) {
	for r := 0; r < model.GridSize; r++ {
		for c := 0; c < model.GridSize; c++ {
			if s.game.InitialBoard[r][c] != 0 {
				return r, c
			}
		}
	}
	s.FailNow("puzzle has no clue cells")
	return 0, 0
}

func (s *HandlerSuite) TestConnectRejectsUnknownGame() {
	url := "ws" + strings.TrimPrefix(s.server.URL, "http") + "/ws/game/nope"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	s.Error(err)
	s.Require().NotNil(resp)
	s.Equal(404, resp.StatusCode)
}

func (s *HandlerSuite) TestRosterSentOnConnect() {
	conn := s.dial(s.game.ID)

	raw := s.waitFor(conn, TypePlayerListUpdate)
	var ev PlayerListEvent
	s.Require().NoError(json.Unmarshal(raw, &ev))
	s.Require().Len(ev.Players, 1)
	s.Equal(s.host.ID, ev.Players[0].PlayerID)
	s.Equal("alice", ev.Players[0].Name)
	s.True(ev.Players[0].IsHost)
}

func (s *HandlerSuite) TestMoveBroadcastReachesWholeRoom() {
	sender := s.dial(s.game.ID)
	observer := s.dial(s.game.ID)
	s.waitFor(sender, TypePlayerListUpdate)
	s.waitFor(observer, TypePlayerListUpdate)

	row, col := s.findEmptyCell()
	want := s.game.Solution[row][col]
	s.send(sender, map[string]any{
		"type": TypeMove, "player_id": s.host.ID, "row": row, "column": col, "value": want,
	})

	for _, conn := range []*websocket.Conn{sender, observer} {
		raw := s.waitFor(conn, TypeMove)
		var ev MoveEvent
		s.Require().NoError(json.Unmarshal(raw, &ev))
		s.Equal(s.host.ID, ev.PlayerID)
		s.Equal(row, ev.Row)
		s.Equal(col, ev.Column)
		s.Equal(want, ev.Value)
		s.True(ev.IsCorrect)
		s.False(ev.IsHint)
	}
}

func (s *HandlerSuite) TestClueCellRejectionGoesToSenderOnly() {
	sender := s.dial(s.game.ID)
	observer := s.dial(s.game.ID)
	s.waitFor(sender, TypePlayerListUpdate)
	s.waitFor(observer, TypePlayerListUpdate)

	row, col := s.findClueCell()
	s.send(sender, map[string]any{
		"type": TypeMove, "player_id": s.host.ID, "row": row, "column": col, "value": 5,
	})

	raw := s.waitFor(sender, TypeError)
	var ev ErrorEvent
	s.Require().NoError(json.Unmarshal(raw, &ev))
	s.Equal(model.ErrClueCell.Error(), ev.Message)

	// A follow-up chat proves the rejection was never broadcast: the
	// observer's next frame is the chat, not a move or error
	s.send(sender, ChatMessage{Type: TypeQuickChat, PlayerID: s.host.ID, Message: "oops"})
	typ, _ := s.readEvent(observer)
	s.Equal(TypeQuickChat, typ)
}

func (s *HandlerSuite) TestHintResponseGoesToRequesterOnly() {
	requester := s.dial(s.game.ID)
	observer := s.dial(s.game.ID)
	s.waitFor(requester, TypePlayerListUpdate)
	s.waitFor(observer, TypePlayerListUpdate)

	row, col := s.findEmptyCell()
	s.send(requester, map[string]any{
		"type": TypeRequestHint, "player_id": s.host.ID, "row": row, "column": col,
	})

	raw := s.waitFor(requester, TypeHintResponse)
	var hint HintResponseEvent
	s.Require().NoError(json.Unmarshal(raw, &hint))
	s.Equal(s.game.Solution[row][col], hint.Value)

	// The observer sees only the public move, flagged as a hint
	typ, moveRaw := s.readEvent(observer)
	s.Equal(TypeMove, typ)
	var ev MoveEvent
	s.Require().NoError(json.Unmarshal(moveRaw, &ev))
	s.True(ev.IsHint)
	s.True(ev.IsCorrect)
}

func (s *HandlerSuite) TestCompletionBroadcastOnFinalMove() {
	// Fill everything but one cell directly through the controller
	var lastRow, lastCol int
	remaining := 0
	for r := 0; r < model.GridSize; r++ {
		for c := 0; c < model.GridSize; c++ {
			if s.game.InitialBoard[r][c] == 0 {
				lastRow, lastCol = r, c
				remaining++
			}
		}
	}
	s.Require().Greater(remaining, 1)
	filled := 0
	for r := 0; r < model.GridSize; r++ {
		for c := 0; c < model.GridSize; c++ {
			if s.game.InitialBoard[r][c] != 0 || (r == lastRow && c == lastCol) {
				continue
			}
			_, _, err := s.controller.ApplyMove(s.ctx, s.game.ID, s.host.ID, r, c, s.game.Solution[r][c])
			s.Require().NoError(err)
			filled++
		}
	}
	s.Require().Equal(remaining-1, filled)

	conn := s.dial(s.game.ID)
	s.waitFor(conn, TypePlayerListUpdate)
	s.send(conn, map[string]any{
		"type": TypeMove, "player_id": s.host.ID,
		"row": lastRow, "column": lastCol, "value": s.game.Solution[lastRow][lastCol],
	})

	s.waitFor(conn, TypeMove)
	raw := s.waitFor(conn, TypeGameComplete)
	var ev CompletionEvent
	s.Require().NoError(json.Unmarshal(raw, &ev))
	s.Equal(s.game.ID, ev.GameID)
	s.Equal(s.host.ID, ev.CompletedBy)
}

func (s *HandlerSuite) TestExplicitCompletionClaimRejectedWhenIncomplete() {
	conn := s.dial(s.game.ID)
	s.waitFor(conn, TypePlayerListUpdate)

	s.send(conn, map[string]any{"type": TypeGameComplete, "player_id": s.host.ID})

	raw := s.waitFor(conn, TypeError)
	var ev ErrorEvent
	s.Require().NoError(json.Unmarshal(raw, &ev))
	s.Equal(model.ErrGameNotComplete.Error(), ev.Message)
}

func (s *HandlerSuite) TestLeaveGameLastPlayerDeletesGame() {
	conn := s.dial(s.game.ID)
	s.waitFor(conn, TypePlayerListUpdate)

	s.send(conn, map[string]any{
		"type": TypeLeaveGame, "player_id": s.host.ID, "game_id": s.game.ID,
	})

	raw := s.waitFor(conn, TypePlayerLeft)
	var ev PlayerLeftEvent
	s.Require().NoError(json.Unmarshal(raw, &ev))
	s.Equal(s.host.ID, ev.PlayerID)
	s.Equal("alice", ev.Name)

	_, err := s.storage.GetGame(s.ctx, s.game.ID)
	s.ErrorIs(err, model.ErrGameNotFound)

	// Once the connection drops, the empty hub is collectable
	s.Require().NoError(conn.Close())
	s.Require().Eventually(func() bool {
		s.hubs.CleanupEmptyHubs()
		return s.hubs.GetHub(s.game.ID) == nil
	}, time.Second, 10*time.Millisecond)
}

func (s *HandlerSuite) TestLeaveGameBroadcastsUpdatedRoster() {
	_, bob, _, err := s.controller.JoinGame(s.ctx, s.game.ID, "bob", "", "")
	s.Require().NoError(err)

	conn := s.dial(s.game.ID)
	s.waitFor(conn, TypePlayerListUpdate)

	s.send(conn, map[string]any{
		"type": TypeLeaveGame, "player_id": bob.ID, "game_id": s.game.ID,
	})

	s.waitFor(conn, TypePlayerLeft)
	raw := s.waitFor(conn, TypePlayerListUpdate)
	var roster PlayerListEvent
	s.Require().NoError(json.Unmarshal(raw, &roster))
	s.Require().Len(roster.Players, 1)
	s.Equal(s.host.ID, roster.Players[0].PlayerID)
}

func (s *HandlerSuite) TestCellFocusRebroadcast() {
	a := s.dial(s.game.ID)
	b := s.dial(s.game.ID)
	s.waitFor(a, TypePlayerListUpdate)
	s.waitFor(b, TypePlayerListUpdate)

	s.send(a, FocusMessage{Type: TypeCellFocus, PlayerID: s.host.ID, Row: 2, Column: 3, FocusType: "focus"})

	raw := s.waitFor(b, TypeCellFocus)
	var ev FocusMessage
	s.Require().NoError(json.Unmarshal(raw, &ev))
	s.Equal(s.host.ID, ev.PlayerID)
	s.Equal(2, ev.Row)
	s.Equal(3, ev.Column)
	s.Equal("focus", ev.FocusType)
}

func (s *HandlerSuite) TestMalformedMessageError() {
	conn := s.dial(s.game.ID)
	s.waitFor(conn, TypePlayerListUpdate)

	s.Require().NoError(conn.WriteMessage(websocket.TextMessage, []byte("not json")))

	raw := s.waitFor(conn, TypeError)
	var ev ErrorEvent
	s.Require().NoError(json.Unmarshal(raw, &ev))
	s.Contains(ev.Message, "invalid message")
}

func (s *HandlerSuite) TestUnknownMessageTypeError() {
	conn := s.dial(s.game.ID)
	s.waitFor(conn, TypePlayerListUpdate)

	s.send(conn, map[string]any{"type": "teleport"})

	raw := s.waitFor(conn, TypeError)
	var ev ErrorEvent
	s.Require().NoError(json.Unmarshal(raw, &ev))
	s.Contains(ev.Message, "unknown message type")
}

func (s *HandlerSuite) TestMissingRequiredFieldError() {
	conn := s.dial(s.game.ID)
	s.waitFor(conn, TypePlayerListUpdate)

	// A move without player_id must be answered, not dropped
	s.send(conn, map[string]any{"type": TypeMove, "row": 0, "column": 0, "value": 5})

	raw := s.waitFor(conn, TypeError)
	var ev ErrorEvent
	s.Require().NoError(json.Unmarshal(raw, &ev))
	s.Contains(ev.Message, "player_id")
}

func (s *HandlerSuite) TestMoveWithAbsentCellFieldsRejected() {
	conn := s.dial(s.game.ID)
	s.waitFor(conn, TypePlayerListUpdate)

	// Omitted coordinates decode to zero; they must be rejected, not
	// treated as a clear of cell (0,0)
	s.send(conn, map[string]any{"type": TypeMove, "player_id": s.host.ID})

	raw := s.waitFor(conn, TypeError)
	var ev ErrorEvent
	s.Require().NoError(json.Unmarshal(raw, &ev))
	s.Contains(ev.Message, "row, column and value")

	s.send(conn, map[string]any{"type": TypeRequestHint, "player_id": s.host.ID, "row": 0})

	raw = s.waitFor(conn, TypeError)
	s.Require().NoError(json.Unmarshal(raw, &ev))
	s.Contains(ev.Message, "row and column")

	// The board is untouched
	g, err := s.controller.GetGame(s.ctx, s.game.ID)
	s.Require().NoError(err)
	s.Equal(s.game.InitialBoard, g.CurrentBoard)
}
