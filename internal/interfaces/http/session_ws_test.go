package http_test

import (
	"context"
	"encoding/json"
	"net"
	"testing"
	"time"

	"github.com/fasthttp/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ecolista-api/internal/application/analytics"
	"github.com/jhoicas/ecolista-api/internal/application/dto"
	"github.com/jhoicas/ecolista-api/internal/application/usecase"
	"github.com/jhoicas/ecolista-api/internal/domain/repository"
	"github.com/jhoicas/ecolista-api/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/ecolista-api/internal/interfaces/http"
	"github.com/jhoicas/ecolista-api/pkg/logger"
)

// listenTestApp levanta la app en un puerto libre y devuelve la URL del socket de sesión.
func listenTestApp(t *testing.T) (string, *memory.ProductStore) {
	t.Helper()
	store := memory.NewProductStore()
	log := logger.Nop()
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	apphttp.Router(app, apphttp.RouterDeps{
		ProductUC:      usecase.NewProductUseCase(store, log),
		CategoryUC:     usecase.NewCategoryUseCase(store, log),
		SummaryUC:      analytics.NewSummaryUseCase(store),
		Logger:         log,
		SearchDebounce: 10 * time.Millisecond,
	})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = app.Listener(ln) }()
	t.Cleanup(func() { _ = app.Shutdown() })

	return "ws://" + ln.Addr().String() + "/api/session", store
}

func dialSession(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	return conn
}

// readUntil descarta mensajes hasta recibir uno del tipo pedido.
func readUntil(t *testing.T, conn *websocket.Conn, typ string) apphttp.WSMessage {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	for {
		_, raw, err := conn.ReadMessage()
		require.NoError(t, err)
		var msg apphttp.WSMessage
		require.NoError(t, json.Unmarshal(raw, &msg))
		if msg.Type == typ {
			return msg
		}
	}
}

func TestSession_ConexionReal(t *testing.T) {
	url, store := listenTestApp(t)
	conn := dialSession(t, url)

	// Al abrir, la sesión carga y envía la vista inicial.
	readUntil(t, conn, apphttp.MsgView)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{")))
	msg := readUntil(t, conn, apphttp.MsgError)
	require.NotNil(t, msg.Error)
	assert.Equal(t, "INVALID_BODY", msg.Error.Code)

	payload, err := json.Marshal(upsertBody("Arroz", "Granos", 2))
	require.NoError(t, err)
	require.NoError(t, conn.WriteJSON(apphttp.WSMessage{Type: apphttp.MsgUpsert, Payload: payload}))
	msg = readUntil(t, conn, apphttp.MsgAck)
	var ack dto.UpsertProductResponse
	require.NoError(t, json.Unmarshal(msg.Payload, &ack))
	assert.Equal(t, dto.OutcomeCreated, ack.Outcome)
	assert.Equal(t, "Arroz", ack.Product.NombreProducto)
	rows, err := store.Select(context.Background(), repository.ByCategoria("Granos"))
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	require.NoError(t, conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")))
	_ = conn.Close()

	// El servidor sigue aceptando sesiones tras cerrar la anterior.
	other := dialSession(t, url)
	defer other.Close()
	readUntil(t, other, apphttp.MsgView)
}
