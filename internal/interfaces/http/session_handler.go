package http

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"

	"github.com/jhoicas/ecolista-api/internal/application/dto"
	"github.com/jhoicas/ecolista-api/internal/application/session"
	"github.com/jhoicas/ecolista-api/internal/application/usecase"
	"github.com/jhoicas/ecolista-api/pkg/logger"
)

// Tipos de mensaje del canal de sesión.
const (
	MsgLoad           = "load"
	MsgSearch         = "search"
	MsgCategory       = "category"
	MsgFrequent       = "frequent"
	MsgUpsert         = "upsert"
	MsgEdit           = "edit"
	MsgDelete         = "delete"
	MsgAddCategory    = "add_category"
	MsgRemoveCategory = "remove_category"

	MsgView  = "view"
	MsgAck   = "ack"
	MsgError = "error"
)

// remoteTimeout límite para cada operación contra el almacén iniciada desde el socket.
const remoteTimeout = 15 * time.Second

// WSMessage sobre del protocolo de sesión.
type WSMessage struct {
	Type    string             `json:"type"`
	Payload json.RawMessage    `json:"payload,omitempty"`
	Error   *dto.ErrorResponse `json:"error,omitempty"`
}

type textPayload struct {
	Text string `json:"text"`
}

type idPayload struct {
	ID string `json:"id"`
}

type editPayload struct {
	ID string `json:"id"`
	dto.UpdateProductRequest
}

type categoryPayload struct {
	Categoria string `json:"categoria"`
}

// SessionHandler abre una sesión de vista por conexión websocket.
type SessionHandler struct {
	products   *usecase.ProductUseCase
	categories *usecase.CategoryUseCase
	validate   *validator.Validate
	debounce   time.Duration
	log        *logger.Logger
}

// NewSessionHandler construye el handler.
func NewSessionHandler(products *usecase.ProductUseCase, categories *usecase.CategoryUseCase, validate *validator.Validate, debounce time.Duration, log *logger.Logger) *SessionHandler {
	return &SessionHandler{
		products:   products,
		categories: categories,
		validate:   validate,
		debounce:   debounce,
		log:        log,
	}
}

// Handle atiende la conexión: carga inicial, despacho de mensajes y cierre de la sesión al desconectar.
func (h *SessionHandler) Handle(conn *websocket.Conn) {
	connID := uuid.New().String()
	log := h.log.With(map[string]any{"conn": connID})

	var writeMu sync.Mutex
	send := func(msg WSMessage) {
		b, err := json.Marshal(msg)
		if err != nil {
			log.Error().Err(err).Msg("serializar mensaje")
			return
		}
		writeMu.Lock()
		defer writeMu.Unlock()
		if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
			log.Debug().Err(err).Msg("escribir mensaje")
		}
	}

	defer conn.Close()
	client := h.newClient(send, log)
	defer client.close()

	log.Info().Msg("sesión abierta")
	client.dispatch(WSMessage{Type: MsgLoad})

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Msg("conexión interrumpida")
			}
			break
		}
		var msg WSMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			client.sendError(dto.ErrorResponse{Code: "INVALID_BODY", Message: "mensaje inválido"})
			continue
		}
		client.dispatch(msg)
	}
	log.Info().Msg("sesión cerrada")
}

// wsClient une una sesión con la función de envío de su conexión.
type wsClient struct {
	sess     *session.Session
	send     func(WSMessage)
	validate *validator.Validate
	log      *logger.Logger
}

func (h *SessionHandler) newClient(send func(WSMessage), log *logger.Logger) *wsClient {
	c := &wsClient{send: send, validate: h.validate, log: log}
	c.sess = session.New(h.products, h.categories, session.Options{
		Debounce: h.debounce,
		Logger:   log,
		OnChange: c.pushView,
	})
	return c
}

func (c *wsClient) close() {
	c.sess.Close()
}

func (c *wsClient) pushView(s session.Snapshot) {
	view := dto.NewViewResponse(s.View, s.Categories)
	view.Loading = s.Loading
	c.sendPayload(MsgView, view)
}

func (c *wsClient) sendPayload(typ string, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		c.log.Error().Err(err).Msg("serializar payload")
		return
	}
	c.send(WSMessage{Type: typ, Payload: b})
}

func (c *wsClient) sendError(body dto.ErrorResponse) {
	c.send(WSMessage{Type: MsgError, Error: &body})
}

func (c *wsClient) fail(err error) {
	_, body := errorBody(err)
	c.sendError(body)
}

func (c *wsClient) decode(raw json.RawMessage, v any) bool {
	if err := json.Unmarshal(raw, v); err != nil {
		c.sendError(dto.ErrorResponse{Code: "INVALID_BODY", Message: "payload inválido"})
		return false
	}
	return true
}

// dispatch ejecuta un mensaje. Las operaciones remotas corren en la goroutine de lectura,
// así que un cliente no puede solapar dos operaciones mutantes.
func (c *wsClient) dispatch(msg WSMessage) {
	ctx, cancel := context.WithTimeout(context.Background(), remoteTimeout)
	defer cancel()

	switch msg.Type {
	case MsgLoad:
		if err := c.sess.LoadAll(ctx); err != nil {
			c.fail(err)
		}
	case MsgSearch:
		var p textPayload
		if c.decode(msg.Payload, &p) {
			c.sess.Search(p.Text)
		}
	case MsgCategory:
		var p categoryPayload
		if c.decode(msg.Payload, &p) {
			c.sess.FilterByCategory(p.Categoria)
		}
	case MsgFrequent:
		c.sess.ShowFrequent()
	case MsgUpsert:
		var in dto.UpsertProductRequest
		if !c.decode(msg.Payload, &in) {
			return
		}
		if err := c.validate.Struct(in); err != nil {
			c.fail(err)
			return
		}
		res, err := c.sess.UpsertProduct(ctx, in)
		if res != nil {
			c.sendPayload(MsgAck, dto.UpsertProductResponse{Outcome: res.Outcome(), Product: dto.NewProductResponse(res.Product)})
		}
		if err != nil {
			c.fail(err)
		}
	case MsgEdit:
		var p editPayload
		if !c.decode(msg.Payload, &p) {
			return
		}
		if err := c.validate.Struct(p.UpdateProductRequest); err != nil {
			c.fail(err)
			return
		}
		if err := c.sess.SaveEdit(ctx, p.ID, p.UpdateProductRequest); err != nil {
			c.fail(err)
		}
	case MsgDelete:
		var p idPayload
		if !c.decode(msg.Payload, &p) {
			return
		}
		if err := c.sess.DeleteProduct(ctx, p.ID); err != nil {
			c.fail(err)
		}
	case MsgAddCategory:
		var p categoryPayload
		if !c.decode(msg.Payload, &p) {
			return
		}
		if _, err := c.sess.AddCategory(ctx, p.Categoria); err != nil {
			c.fail(err)
		}
	case MsgRemoveCategory:
		var p categoryPayload
		if !c.decode(msg.Payload, &p) {
			return
		}
		n, err := c.sess.RemoveCategory(ctx, p.Categoria)
		if err != nil {
			c.fail(err)
			return
		}
		c.sendPayload(MsgAck, dto.RemoveCategoryResponse{Categoria: p.Categoria, Deleted: n})
	default:
		c.sendError(dto.ErrorResponse{Code: "UNKNOWN_TYPE", Message: "tipo de mensaje desconocido: " + msg.Type})
	}
}
