package game

import (
	"github.com/rs/zerolog/log"
)

func (c *Conn) ReadPump(socket WebsocketConnection) {
	defer socket.Close()
	defer c.CancelAndRelease()

	for {
		data, err := socket.Read()
		if err != nil {
			log.Debug().Err(err).Str("conn", c.id).Msg("read stopped")
			return
		}

		msg, err := decodeInbound(data)
		if err != nil {
			continue
		}

		if msg.Type == KindGuess && !c.rateLimiter.Allow() {
			continue
		}

		c.dispatcher.Dispatch(c.ctx, c, msg)

		if c.ctx.Err() != nil {
			return
		}
	}
}

func (c *Conn) WritePump(socket WebsocketConnection) {
	defer socket.Close()
	defer c.CancelAndRelease()

	for {
		select {
		case <-c.ctx.Done():
			return
		case data := <-c.inbox:
			if err := socket.Write(data); err != nil {
				log.Debug().Err(err).Str("conn", c.id).Msg("write failed")
				return
			}
		case <-c.pingChan:
			if err := socket.Ping(); err != nil {
				return
			}
		}
	}
}
