package frontend

import (
	"time"

	"github.com/dpapathanasiou/go-recaptcha"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

func (s *Server) routeRequest(c *gin.Context) {
	ws, err := websocketUpgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Debug().Err(err).Msg("websocket upgrade")
		return
	}

	if s.Recaptcha {
		ws.SetReadDeadline(time.Now().Add(10 * time.Second))
		_, msg, err := ws.ReadMessage()
		if err != nil {
			ws.Close()
			return
		}

		ok, err := recaptcha.Confirm(c.ClientIP(), string(msg))
		if err != nil || !ok {
			log.Info().Err(err).Str("ip", c.ClientIP()).Msg("recaptcha rejected")
			ws.Close()
			return
		}
		ws.SetReadDeadline(time.Time{})
	}

	s.Pool.Do(c.Request.Context(), ws)
}
