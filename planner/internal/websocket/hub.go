package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Krimson/dental-vto/planner/internal/metrics"
	"github.com/Krimson/dental-vto/planner/internal/service"
	"github.com/Krimson/dental-vto/planner/internal/vto"
	"github.com/Krimson/dental-vto/planner/internal/wizard"
	"github.com/Krimson/dental-vto/planner/pkg/models"
)

const (
	writeWait      = 10 * time.Second
	maxMessageSize = 64 << 10
	sendBuffer     = 32
)

// Типы входящих сообщений
const (
	MessagePositions   = "positions"
	MessageDiscrepancy = "discrepancy"
	MessageGoal        = "goal"
	MessageBack        = "back"
)

// Типы исходящих сообщений
const (
	ReplyStage  = "stage"
	ReplyResult = "result"
	ReplyError  = "error"
	ReplyNotice = "notice"
)

// Message - входящее сообщение клиента
type Message struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// PositionsData - данные этапа исходных позиций
type PositionsData struct {
	Measurement vto.Measurement      `json:"measurement"`
	Growth      vto.GrowthAssessment `json:"growth"`
	SkipGrowth  bool                 `json:"skip_growth,omitempty"`
}

// DiscrepancyData - данные этапа анализа места
type DiscrepancyData struct {
	Upper vto.ArchDiscrepancy `json:"upper"`
	Lower vto.ArchDiscrepancy `json:"lower"`
}

// Reply - исходящее сообщение
type Reply struct {
	Type    string                      `json:"type"`
	Stage   wizard.Stage                `json:"stage,omitempty"`
	Data    *models.CalculationResponse `json:"data,omitempty"`
	Error   *models.ErrorResponse       `json:"error,omitempty"`
	Message string                      `json:"message,omitempty"`
}

// Hub управляет WebSocket соединениями мастера VTO
type Hub struct {
	// Зарегистрированные клиенты
	clients map[*Client]bool

	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex

	service *service.PlannerService
	metrics *metrics.Metrics

	// закрывается, когда Run завершился
	done chan struct{}
}

// Client - WebSocket клиент со своим мастером ввода
type Client struct {
	hub  *Hub
	conn *websocket.Conn

	// Буферизованный канал исходящих сообщений
	send   chan []byte
	sendMu sync.Mutex
	closed bool

	// Состояние мастера принадлежит readPump
	wizard wizard.Wizard
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Проверка домена выполняется CORS на уровне HTTP
		return true
	},
}

// NewHub создает новый Hub. metrics может быть nil.
func NewHub(svc *service.PlannerService, m *metrics.Metrics) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		service:    svc,
		metrics:    m,
		done:       make(chan struct{}),
	}
}

// Run обслуживает регистрацию клиентов до отмены ctx.
// При остановке всем клиентам рассылается уведомление, соединения закрываются.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return

		case client := <-h.register:
			h.metrics.ClientConnected()
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			log.Printf("[WEBSOCKET] Client registered: %p", client)

		case client := <-h.unregister:
			h.remove(client)
			log.Printf("[WEBSOCKET] Client unregistered: %p", client)
		}
	}
}

// ClientCount возвращает число подключенных клиентов
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	_, ok := h.clients[client]
	delete(h.clients, client)
	h.mu.Unlock()

	if ok {
		client.close()
		h.metrics.ClientDisconnected()
	}
}

func (h *Hub) shutdown() {
	notice, _ := json.Marshal(Reply{Type: ReplyNotice, Message: "server shutting down"})

	h.mu.Lock()
	clients := h.clients
	h.clients = make(map[*Client]bool)
	h.mu.Unlock()

	for client := range clients {
		client.queue(notice)
		client.close()
		h.metrics.ClientDisconnected()
	}
	log.Printf("[WEBSOCKET] Hub stopped, %d clients notified", len(clients))
}

// HandleWebSocket обрабатывает WebSocket соединения
func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[ERROR] Failed to upgrade connection: %v", err)
		return
	}

	client := &Client{
		hub:    h,
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
		wizard: wizard.New(),
	}

	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return
	}

	// первое сообщение сообщает текущий этап мастера
	client.reply(Reply{Type: ReplyStage, Stage: client.wizard.Stage()})

	go client.writePump()
	go client.readPump()
}

// queue ставит сообщение в очередь; false, если клиент закрыт или не успевает читать
func (c *Client) queue(message []byte) bool {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()

	if c.closed {
		return false
	}
	select {
	case c.send <- message:
		return true
	default:
		return false
	}
}

func (c *Client) close() {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()

	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

func (c *Client) reply(r Reply) {
	data, err := json.Marshal(r)
	if err != nil {
		log.Printf("[ERROR] Failed to marshal reply: %v", err)
		return
	}
	if !c.queue(data) {
		log.Printf("[WARN] Dropping reply for client %p", c)
	}
}

// readPump обрабатывает входящие сообщения от клиента
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				log.Printf("[ERROR] WebSocket error: %v", err)
			}
			return
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			c.replyFailure(errBadPayload)
			continue
		}

		c.handle(msg)
	}
}

// handle продвигает мастер клиента; по завершении выполняет расчет
func (c *Client) handle(msg Message) {
	next, err := c.apply(msg)
	if err != nil {
		c.replyFailure(err)
		return
	}
	c.wizard = next

	if !c.wizard.Complete() {
		c.reply(Reply{Type: ReplyStage, Stage: c.wizard.Stage()})
		return
	}

	in, err := c.wizard.Input()
	if err != nil {
		c.replyFailure(err)
		return
	}

	resp, err := c.hub.service.Calculate(context.Background(), metrics.TransportWebSocket, in)
	if err != nil {
		// возвращаемся к цели, чтобы клиент мог исправить данные
		c.wizard, _ = c.wizard.Back()
		c.replyFailure(err)
		return
	}

	c.reply(Reply{Type: ReplyResult, Stage: c.wizard.Stage(), Data: resp})
}

func (c *Client) apply(msg Message) (wizard.Wizard, error) {
	w := c.wizard

	switch msg.Type {
	case MessagePositions:
		var data PositionsData
		if err := decode(msg.Data, &data); err != nil {
			return w, err
		}
		return w.SubmitPositions(data.Measurement, data.Growth, data.SkipGrowth)

	case MessageDiscrepancy:
		var data DiscrepancyData
		if err := decode(msg.Data, &data); err != nil {
			return w, err
		}
		return w.SubmitDiscrepancy(data.Upper, data.Lower)

	case MessageGoal:
		var goal vto.TreatmentGoal
		if err := decode(msg.Data, &goal); err != nil {
			return w, err
		}
		return w.SubmitGoal(goal)

	case MessageBack:
		return w.Back()
	}

	return w, errUnknownType
}

var (
	errUnknownType = errors.New("unknown message type")
	errBadPayload  = errors.New("invalid message payload")
)

func decode(raw json.RawMessage, dst interface{}) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return errBadPayload
	}
	return nil
}

func (c *Client) replyFailure(err error) {
	if code := vto.Code(err); code != "" {
		c.replyError(http.StatusUnprocessableEntity, code, vto.FieldOf(err), err.Error())
		return
	}

	switch {
	case errors.Is(err, wizard.ErrOutOfOrder), errors.Is(err, wizard.ErrAtFirstStep), errors.Is(err, wizard.ErrIncomplete):
		c.replyError(http.StatusConflict, "wizard_order", "", err.Error())
	case errors.Is(err, errUnknownType), errors.Is(err, errBadPayload):
		c.replyError(http.StatusBadRequest, "bad_message", "", err.Error())
	default:
		log.Printf("[ERROR] WebSocket calculation failed: %v", err)
		c.replyError(http.StatusInternalServerError, "", "", "Calculation failed")
	}
}

func (c *Client) replyError(status int, code, field, message string) {
	c.reply(Reply{
		Type:  ReplyError,
		Stage: c.wizard.Stage(),
		Error: &models.ErrorResponse{
			Error:  message,
			Code:   code,
			Field:  field,
			Status: status,
		},
	})
}

// writePump отправляет сообщения клиенту
func (c *Client) writePump() {
	defer c.conn.Close()

	for message := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			log.Printf("[ERROR] Failed to write message: %v", err)
			return
		}
	}

	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
}
