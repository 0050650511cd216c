package utils

import (
	"sync/atomic"

	"go.mongodb.org/mongo-driver/event"
)

type MongoMetrics struct {
	ActiveConnections  int64
	CreatedConnections int64
	ClosedConnections  int64
}

var mongoMetrics MongoMetrics

// MongoPoolMonitor feeds the driver's pool events into the connection
// counters reported by the health endpoint.
func MongoPoolMonitor() *event.PoolMonitor {
	return &event.PoolMonitor{
		Event: func(evt *event.PoolEvent) {
			switch evt.Type {
			case event.ConnectionCreated:
				atomic.AddInt64(&mongoMetrics.CreatedConnections, 1)
			case event.ConnectionClosed:
				atomic.AddInt64(&mongoMetrics.ClosedConnections, 1)
			case event.GetSucceeded:
				atomic.AddInt64(&mongoMetrics.ActiveConnections, 1)
			case event.ConnectionReturned:
				atomic.AddInt64(&mongoMetrics.ActiveConnections, -1)
			}
		},
	}
}

func GetMongoMetrics() MongoMetrics {
	return MongoMetrics{
		ActiveConnections:  atomic.LoadInt64(&mongoMetrics.ActiveConnections),
		CreatedConnections: atomic.LoadInt64(&mongoMetrics.CreatedConnections),
		ClosedConnections:  atomic.LoadInt64(&mongoMetrics.ClosedConnections),
	}
}
