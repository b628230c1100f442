package agent

import "time"

// Config - параметры соперника-компьютера и бота.
type Config struct {
	// Seed - зерно генератора случайных ходов.
	Seed int64
	// Delay - пауза бота перед ответным ходом. Чистая косметика для живого соперника.
	Delay time.Duration
}

func NewConfig() Config {
	return Config{
		Seed:  time.Now().UnixNano(),
		Delay: 500 * time.Millisecond,
	}
}
