package domain

// ReplayAction - одна принятая входящая датаграмма.
type ReplayAction struct {
	Tick     uint32 `json:"tick"`
	Addr     string `json:"addr"`
	Datagram []byte `json:"datagram"`
}

// ReplaySession - полная запись сеанса: сид и входы по тикам.
type ReplaySession struct {
	Seed      int64          `json:"seed"`
	Timestamp int64          `json:"timestamp"`
	Actions   []ReplayAction `json:"actions"`
}
