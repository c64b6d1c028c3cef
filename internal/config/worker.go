package config

import (
	"sync"
	"time"
)

type WorkerConfig struct {
	Workers     int
	QueueSize   int
	TaskTimeout time.Duration
}

var (
	workerConfig *WorkerConfig
	workerOnce   sync.Once
)

func LoadWorkerConfig() *WorkerConfig {
	workerOnce.Do(func() {
		workerConfig = &WorkerConfig{
			Workers:     envInt("WORKER_COUNT", 4),
			QueueSize:   envInt("WORKER_QUEUE_SIZE", 100),
			TaskTimeout: envDuration("EXTRACTION_TIMEOUT", 3*time.Minute),
		}
	})
	return workerConfig
}
