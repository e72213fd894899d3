package dashboard

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const (
	wsReadTimeout  = 90 * time.Second
	wsWriteTimeout = 10 * time.Second
)

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 64 * 1024,
}

// wsReply is sent for every controls message: either a view or an error.
type wsReply struct {
	Type  string `json:"type"` // "view" or "error"
	View  *View  `json:"view,omitempty"`
	Error string `json:"error,omitempty"`
}

// handleWS pushes a fresh view for every controls message the page sends.
// The first view uses the default controls.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Websocket upgrade failed")
		return
	}
	defer conn.Close()

	if err := s.sendView(conn, s.dash.Bounds().Defaults()); err != nil {
		return
	}

	for {
		_ = conn.SetReadDeadline(time.Now().Add(wsReadTimeout))

		var c Controls
		if err := conn.ReadJSON(&c); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Debug().Err(err).Msg("Websocket closed")
			}
			return
		}
		if err := s.sendView(conn, c); err != nil {
			return
		}
	}
}

func (s *Server) sendView(conn *websocket.Conn, c Controls) error {
	reply := wsReply{Type: "view"}
	view, err := s.dash.Build(c)
	if err != nil {
		reply = wsReply{Type: "error", Error: err.Error()}
	} else {
		reply.View = view
	}

	_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	if err := conn.WriteJSON(reply); err != nil {
		s.logger.Debug().Err(err).Msg("Websocket write failed")
		return err
	}
	return nil
}
