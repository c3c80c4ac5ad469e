package analysispool

import (
	"bytes"
	"context"
	"sync"

	"combatlog_check/analysis"
	"combatlog_check/share"

	"github.com/gorilla/websocket"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

type queueData struct {
	id      string
	reqData analysis.RequestData

	ws        *websocket.Conn
	ctx       context.Context
	ctxCancel func()

	buf *bytes.Buffer

	chanResult chan bool

	msgLock sync.Mutex
}

var (
	eventRespBufferPool = sync.Pool{
		New: func() interface{} {
			return bytes.NewBuffer(make([]byte, 0, 16*1024))
		},
	}

	eventReady = []byte(`{"event":"ready"}`)
	eventStart = []byte(`{"event":"start"}`)
	eventError = []byte(`{"event":"error"}`)
)

type eventMessage struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data,omitempty"`
}

func (q *queueData) MessageJson(resp interface{}) error {
	buf := eventRespBufferPool.Get().(*bytes.Buffer)
	defer eventRespBufferPool.Put(buf)

	buf.Reset()

	err := jsoniter.NewEncoder(buf).Encode(resp)
	if err != nil {
		return errors.WithStack(err)
	}

	return q.MessageBytes(buf.Bytes())
}

func (q *queueData) MessageBytes(data []byte) error {
	q.msgLock.Lock()
	defer q.msgLock.Unlock()

	return errors.WithStack(q.ws.WriteMessage(websocket.TextMessage, data))
}

func (q *queueData) fail(err error) {
	if errors.Cause(err) != websocket.ErrCloseSent {
		share.CaptureError(err)
	}
	q.ctxCancel()
}

func (q *queueData) Reorder(order int) {
	err := q.MessageJson(&eventMessage{Event: "waiting", Data: order})
	if err != nil {
		q.fail(err)
	}
}

func (q *queueData) Start() {
	err := q.MessageBytes(eventStart)
	if err != nil {
		q.fail(err)
	}
}

func (q *queueData) Progress(s string) {
	err := q.MessageJson(&eventMessage{Event: "progress", Data: s})
	if err != nil {
		q.fail(err)
	}
}

func (q *queueData) Succ(buf *bytes.Buffer) {
	err := q.MessageJson(&eventMessage{Event: "complete", Data: buf.String()})
	if err != nil {
		q.fail(err)
	}
}

func (q *queueData) Error() {
	err := q.MessageBytes(eventError)
	if err != nil {
		q.fail(err)
	}
}
