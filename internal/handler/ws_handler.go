package handler

import (
	"encoding/json"
	"log"
	"time"

	"go-sitesafety-ws/internal/gate"
	"go-sitesafety-ws/internal/service"
	"go-sitesafety-ws/internal/session"
	"go-sitesafety-ws/internal/ws"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

const wsSessionKey = "ws_session"

// WSHandler streams the scope of one connection: every change of the
// session context is pushed as a snapshot message.
type WSHandler struct {
	hub         *ws.Hub
	gateService service.GateService
	source      session.Source
	loc         *time.Location
}

func NewWSHandler(hub *ws.Hub, gateService service.GateService, source session.Source, loc *time.Location) *WSHandler {
	return &WSHandler{hub: hub, gateService: gateService, source: source, loc: loc}
}

type snapshotMessage struct {
	Type string `json:"type"`
	session.Snapshot
}

type clientMessage struct {
	Type  string `json:"type"`
	Token string `json:"token"`
	Date  string `json:"date"`
}

func encodeSnapshot(s session.Snapshot) ([]byte, error) {
	return json.Marshal(snapshotMessage{Type: "snapshot", Snapshot: s})
}

// Upgrade accepts websocket requests. An optional ?token= scopes the
// connection from the start; without it the connection starts locked.
func (h *WSHandler) Upgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return c.SendStatus(fiber.StatusUpgradeRequired)
	}
	sess := gate.Locked()
	if token := c.Query("token"); token != "" {
		decoded, err := h.gateService.Decode(token)
		if err != nil {
			return c.Status(401).JSON(fiber.Map{"error": "Invalid or expired scope token"})
		}
		sess = decoded
	}
	c.Locals(wsSessionKey, sess)
	return c.Next()
}

func (h *WSHandler) Stream(conn *websocket.Conn) {
	client := ws.NewClient(conn)
	stream := ws.NewStream(client)
	go stream.Run()

	scope := session.New(h.source, h.loc, func(s session.Snapshot) {
		msg, err := encodeSnapshot(s)
		if err != nil {
			log.Printf("ws snapshot: %v", err)
			return
		}
		stream.Push(msg)
	})

	h.hub.Join(client)
	defer func() {
		scope.Close()
		stream.Stop()
		h.hub.Leave(client)
	}()

	sess, _ := conn.Locals(wsSessionKey).(gate.Session)
	h.rescope(client, scope, sess)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			break
		}
		var msg clientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			h.reply(client, "Invalid JSON")
			continue
		}
		switch msg.Type {
		case "rescope":
			next, err := h.gateService.Decode(msg.Token)
			if err != nil {
				h.reply(client, "Invalid or expired scope token")
				continue
			}
			h.rescope(client, scope, next)
		case "select_date":
			var day time.Time
			if msg.Date != "" {
				parsed, err := time.ParseInLocation("2006-01-02", msg.Date, h.loc)
				if err != nil {
					h.reply(client, "Invalid date format (YYYY-MM-DD)")
					continue
				}
				day = parsed
			}
			scope.SelectDate(day)
		case "lock":
			h.rescope(client, scope, gate.Lock())
		default:
			h.reply(client, "Unknown message type")
		}
	}
}

// rescope points both the snapshot stream and the hub notifications at sess
func (h *WSHandler) rescope(client *ws.Client, scope *session.Context, sess gate.Session) {
	if sess.Scoped() {
		client.SetStore(sess.StoreID)
	} else {
		client.SetStore("")
	}
	scope.Apply(sess)
}

func (h *WSHandler) reply(client *ws.Client, message string) {
	msg, _ := json.Marshal(map[string]interface{}{"type": "error", "error": message})
	if err := client.Send(msg); err != nil {
		log.Printf("ws reply: %v", err)
	}
}
