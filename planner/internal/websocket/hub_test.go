package websocket

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Krimson/dental-vto/planner/internal/metrics"
	"github.com/Krimson/dental-vto/planner/internal/service"
	"github.com/Krimson/dental-vto/planner/internal/vto"
	"github.com/Krimson/dental-vto/planner/internal/wizard"
)

type testHub struct {
	hub     *Hub
	metrics *metrics.Metrics
	server  *httptest.Server
	cancel  context.CancelFunc
	stopped chan struct{}
}

func newTestHub(t *testing.T) *testHub {
	t.Helper()
	engine, err := vto.NewEngine(nil)
	require.NoError(t, err)

	m := metrics.New()
	hub := NewHub(service.NewPlannerService(engine, m), m)

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()

	server := httptest.NewServer(http.HandlerFunc(hub.HandleWebSocket))
	th := &testHub{hub: hub, metrics: m, server: server, cancel: cancel, stopped: stopped}
	t.Cleanup(func() {
		th.stop()
		server.Close()
	})
	return th
}

func (th *testHub) stop() {
	th.cancel()
	<-th.stopped
}

func (th *testHub) dial(t *testing.T) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(th.server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func send(t *testing.T, conn *websocket.Conn, raw string) Reply {
	t.Helper()
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(raw)))
	return read(t, conn)
}

func read(t *testing.T, conn *websocket.Conn) Reply {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var reply Reply
	require.NoError(t, conn.ReadJSON(&reply))
	return reply
}

func TestHub_WizardFlow(t *testing.T) {
	th := newTestHub(t)
	conn := th.dial(t)

	first := read(t, conn)
	assert.Equal(t, ReplyStage, first.Type)
	assert.Equal(t, wizard.StageInitialPositions, first.Stage)

	require.Eventually(t, func() bool { return th.hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)
	assert.Equal(t, 1.0, testutil.ToFloat64(th.metrics.LiveClients()))

	// цель до исходных позиций
	reply := send(t, conn, `{"type":"goal","data":{}}`)
	require.Equal(t, ReplyError, reply.Type)
	assert.Equal(t, "wizard_order", reply.Error.Code)
	assert.Equal(t, wizard.StageInitialPositions, reply.Stage)

	reply = send(t, conn, `{"type":"positions","data":{"measurement":{"r6":2,"l6":2,"d":5,"midline":1},"growth":{"stage":3}}}`)
	require.Equal(t, ReplyStage, reply.Type)
	assert.Equal(t, wizard.StageArchDiscrepancy, reply.Stage)

	reply = send(t, conn, `{"type":"discrepancy","data":{
		"upper":{"right":{"anterior_crowding":-2},"left":{"anterior_crowding":-2}},
		"lower":{"right":{"anterior_crowding":-1},"left":{"anterior_crowding":-1},
			"procedures":[{"kind":"extraction","side":"right"}]}}}`)
	require.Equal(t, ReplyStage, reply.Type)
	assert.Equal(t, wizard.StageMovement, reply.Stage)

	reply = send(t, conn, `{"type":"goal","data":{}}`)
	require.Equal(t, ReplyResult, reply.Type, reply.Error)
	assert.Equal(t, wizard.StageComplete, reply.Stage)
	require.NotNil(t, reply.Data)
	assert.NotEmpty(t, reply.Data.CalculationID)
	assert.Equal(t, -1.0, reply.Data.Result.MidlineCorrection)
	assert.InDelta(t, 6.2625, reply.Data.Result.Steps[vto.StepCount-1].LowerTotal.R6.Horizontal, 1e-9)

	// пересчет с другой целью
	reply = send(t, conn, `{"type":"back"}`)
	assert.Equal(t, wizard.StageMovement, reply.Stage)

	reply = send(t, conn, `{"type":"goal","data":{"right":"class_iv"}}`)
	require.Equal(t, ReplyError, reply.Type)
	assert.Equal(t, "invalid_goal", reply.Error.Code)
	assert.Equal(t, "goal.right", reply.Error.Field)
	assert.Equal(t, wizard.StageMovement, reply.Stage)

	reply = send(t, conn, `{"type":"goal","data":{"right":"class_ii","left":"class_ii"}}`)
	require.Equal(t, ReplyResult, reply.Type)
	assert.Equal(t, vto.ClassII, reply.Data.Result.Goal.Right)
}

func TestHub_BadMessages(t *testing.T) {
	th := newTestHub(t)
	conn := th.dial(t)
	read(t, conn)

	reply := send(t, conn, `not json`)
	require.Equal(t, ReplyError, reply.Type)
	assert.Equal(t, "bad_message", reply.Error.Code)

	reply = send(t, conn, `{"type":"teleport"}`)
	require.Equal(t, ReplyError, reply.Type)
	assert.Equal(t, "bad_message", reply.Error.Code)

	reply = send(t, conn, `{"type":"positions","data":{"growth":{"stage":"three"}}}`)
	require.Equal(t, ReplyError, reply.Type)
	assert.Equal(t, "bad_message", reply.Error.Code)

	reply = send(t, conn, `{"type":"back"}`)
	require.Equal(t, ReplyError, reply.Type)
	assert.Equal(t, "wizard_order", reply.Error.Code)

	// соединение остается рабочим
	reply = send(t, conn, `{"type":"positions","data":{"growth":{"stage":1}}}`)
	assert.Equal(t, ReplyStage, reply.Type)
}

func TestHub_ValidationErrorReturnsToGoal(t *testing.T) {
	th := newTestHub(t)
	conn := th.dial(t)
	read(t, conn)

	send(t, conn, `{"type":"positions","data":{"growth":{"stage":9}}}`)
	send(t, conn, `{"type":"discrepancy","data":{}}`)

	reply := send(t, conn, `{"type":"goal","data":{}}`)
	require.Equal(t, ReplyError, reply.Type)
	assert.Equal(t, "invalid_stage", reply.Error.Code)
	assert.Equal(t, "growth.stage", reply.Error.Field)
	assert.Equal(t, 422, reply.Error.Status)
	assert.Equal(t, wizard.StageMovement, reply.Stage)
}

func TestHub_ShutdownNotifiesClients(t *testing.T) {
	th := newTestHub(t)
	conn := th.dial(t)
	read(t, conn)
	require.Eventually(t, func() bool { return th.hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	th.stop()

	notice := read(t, conn)
	assert.Equal(t, ReplyNotice, notice.Type)
	assert.Equal(t, "server shutting down", notice.Message)

	_, _, err := conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseGoingAway), "unexpected error: %v", err)
	assert.Equal(t, 0, th.hub.ClientCount())
	assert.Equal(t, 0.0, testutil.ToFloat64(th.metrics.LiveClients()))
}

func TestHub_DisconnectUnregisters(t *testing.T) {
	th := newTestHub(t)
	conn := th.dial(t)
	read(t, conn)
	require.Eventually(t, func() bool { return th.hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool { return th.hub.ClientCount() == 0 }, time.Second, 10*time.Millisecond)
}
