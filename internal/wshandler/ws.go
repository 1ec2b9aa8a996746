package wshandler

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/gofiber/contrib/websocket"

	"github.com/projectarcadia/portal/internal/model"
)

type WebMessage struct {
	Typ       string            `json:"type"`
	Message   *model.MessageDTO `json:"message,omitempty"`
	Channel   *model.ChannelDTO `json:"channel,omitempty"`
	ChannelID uint              `json:"channel_id,omitempty"`
}

type JSONWsHandler struct {
	log  *slog.Logger
	name string
	ws   *websocket.Conn

	mx     sync.Mutex
	ch     chan *WebMessage
	active bool
}

func NewHandler(log *slog.Logger, name string, ws *websocket.Conn) *JSONWsHandler {
	return &JSONWsHandler{
		log:    log.With("client", name),
		name:   name,
		ws:     ws,
		ch:     make(chan *WebMessage, 10),
		active: true,
	}
}

func (w *JSONWsHandler) Name() string {
	return w.name
}

func (w *JSONWsHandler) IsActive() bool {
	if w == nil {
		return false
	}

	w.mx.Lock()
	defer w.mx.Unlock()

	return w.active
}

func (w *JSONWsHandler) Stop() {
	w.stop()
}

func (w *JSONWsHandler) stop() {
	w.mx.Lock()
	defer w.mx.Unlock()

	if !w.active {
		return
	}

	w.active = false
	close(w.ch)

	if w.ws != nil {
		w.ws.Close()
	}
}

// trySend queues a message under the same lock that guards stop, so the
// channel cannot close between the active check and the send. A slow
// client drops the message instead of blocking the fan-out.
func (w *JSONWsHandler) trySend(msg *WebMessage) bool {
	if w == nil {
		return false
	}

	w.mx.Lock()
	defer w.mx.Unlock()

	if !w.active {
		return false
	}

	select {
	case w.ch <- msg:
	default:
	}

	return true
}

func (w *JSONWsHandler) writer() {
	for item := range w.ch {
		if !w.IsActive() {
			return
		}

		if item == nil {
			continue
		}

		_ = w.ws.WriteJSON(item)
	}
}

func (w *JSONWsHandler) reader() {
	defer w.stop()

	for {
		_, _, err := w.ws.ReadMessage()

		if err != nil {
			w.log.Error("error on read", slog.Any("error", err))

			return
		}
	}
}

func (w *JSONWsHandler) NewMessage(msg *model.MessageDTO) bool {
	return w.trySend(&WebMessage{Typ: "message", Message: msg})
}

func (w *JSONWsHandler) ChannelChanged(ch *model.ChannelDTO) bool {
	return w.trySend(&WebMessage{Typ: "channel", Channel: ch})
}

func (w *JSONWsHandler) ChannelDeleted(id uint) bool {
	return w.trySend(&WebMessage{Typ: "channel_deleted", ChannelID: id})
}

func (w *JSONWsHandler) closehandler(code int, text string) error {
	w.log.Info(fmt.Sprintf("closed with code %d, msg %s", code, text))
	w.stop()

	return nil
}

func (w *JSONWsHandler) Listen() {
	w.log.Debug("ws start")
	w.ws.SetCloseHandler(w.closehandler)

	go w.writer()
	w.reader()
	w.log.Debug("ws stop")
}
