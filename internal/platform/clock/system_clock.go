package clock

import "time"

type SystemClock struct{}

func NewSystemClock() SystemClock {
	return SystemClock{}
}

// Now sempre em UTC para que comparações de janela não dependam do fuso do servidor.
func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// Fixed é um relógio parado, útil em testes e em comandos que recebem a data por parâmetro.
type Fixed struct {
	At time.Time
}

func (f Fixed) Now() time.Time {
	return f.At
}
