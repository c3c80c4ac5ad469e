package analysispool

import (
	"bytes"
	"context"
	"io"
	"time"

	"combatlog_check/share"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

var (
	websockEmptyClosure = websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")

	// PingInterval is how often idle connections are pinged while queued.
	PingInterval = 5 * time.Second
)

const resultKey = "result_%016x"

// Do serves one analysis request over an upgraded websocket connection.
func (p *Pool) Do(ctx context.Context, ws *websocket.Conn) {
	ctx, ctxCancel := context.WithCancel(ctx)
	defer ctxCancel()
	defer ws.Close()

	q := queueData{
		id:         uuid.NewString(),
		ws:         ws,
		ctx:        ctx,
		ctxCancel:  ctxCancel,
		chanResult: make(chan bool, 1),
	}

	err := q.MessageBytes(eventReady)
	if err != nil {
		share.CaptureError(err)
		return
	}

	ws.SetReadDeadline(time.Now().Add(10 * time.Second))
	err = ws.ReadJSON(&q.reqData)
	if err != nil {
		log.Debug().Err(err).Str("job", q.id).Msg("bad request")
		q.Error()
		return
	}
	ws.SetReadDeadline(time.Time{})

	go func() {
		defer ctxCancel()
		for {
			_, r, err := ws.NextReader()
			if err != nil {
				return
			}

			_, err = io.Copy(io.Discard, r)
			if err != nil {
				return
			}
		}
	}()

	// not pooled: the worker may still be writing after the client left
	q.buf = bytes.NewBuffer(make([]byte, 0, 16*1024))

	if !q.reqData.CheckOptionValidation() {
		q.Error()
		p.close(ctx, ws)
		return
	}

	h := q.reqData.Hash()
	if p.results != nil && p.results.LoadRaw(q.buf, resultKey, h) {
		q.Succ(q.buf)
	} else {
		q.buf.Reset()

		go func() {
			ticker := time.NewTicker(PingInterval)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					q.msgLock.Lock()
					err := ws.WriteControl(websocket.PingMessage, []byte{}, time.Now().Add(5*time.Second))
					q.msgLock.Unlock()
					if err != nil {
						if err != websocket.ErrCloseSent {
							share.CaptureError(errors.WithStack(err))
						}
						ctxCancel()
						return
					}

				case <-ctx.Done():
					return
				}
			}
		}()

		queueCount := p.enqueue(&q)
		q.Reorder(queueCount)

		select {
		case <-ctx.Done():
		case ok := <-q.chanResult:
			if ok {
				q.Succ(q.buf)
				if p.results != nil {
					p.results.SaveRaw(q.buf.Bytes(), resultKey, h)
				}
			} else {
				q.Error()
			}
		}
	}

	p.close(ctx, ws)
}

func (p *Pool) close(ctx context.Context, ws *websocket.Conn) {
	select {
	case <-time.After(p.CloseDelay):
	case <-ctx.Done():
	}

	err := ws.WriteControl(websocket.CloseMessage, websockEmptyClosure, time.Now().Add(time.Second))
	if err != nil && err != websocket.ErrCloseSent {
		log.Debug().Err(err).Msg("close message")
	}
}
