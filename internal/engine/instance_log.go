package engine

import (
	"zombieland-server/internal/domain"
	"zombieland-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

func (i *Instance) log() *logrus.Entry {
	return logger.For("simulation").WithFields(logrus.Fields{
		"tick": i.World.Tick,
	})
}

// playerLog - запись с полями для корреляции по игроку.
func (i *Instance) playerLog(a *domain.Agent, p *domain.Player) *logrus.Entry {
	return i.log().WithFields(logrus.Fields{
		"player_id": a.ID,
		"name":      p.Name,
		"session":   p.Session,
	})
}
