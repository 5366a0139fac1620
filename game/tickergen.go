package game

import "time"

type PeriodicTickerChannelCreator interface {
	Create(duration time.Duration) <-chan time.Time
}

type ticker struct{}

func (t *ticker) Create(duration time.Duration) <-chan time.Time {
	return time.NewTicker(duration).C
}

func NewTickerGen() PeriodicTickerChannelCreator {
	return &ticker{}
}
