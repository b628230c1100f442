package engine

import "jungle-server/internal/domain"

// Config хранит параметры игровой сессии
type Config struct {
	// HistoryLimit - сколько прошлых досок хранить в истории. 0 - без ограничения.
	HistoryLimit int

	// OpponentSide - сторона, за которую играет OpponentProvider в локальном режиме.
	// Первым всегда ходят черные, поэтому по умолчанию компьютер играет белыми.
	OpponentSide domain.Owner
}

// NewConfig создает конфиг по умолчанию
func NewConfig() Config {
	return Config{
		HistoryLimit: 0,
		OpponentSide: domain.White,
	}
}
