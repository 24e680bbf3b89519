//go:build tinygo

package hw

import (
	"io"
	"machine"
	"sync/atomic"
	"time"

	"nifri2/animatronic-face/internal/audio"
	"nifri2/animatronic-face/internal/scheduler"
)

// LinkTX configures the eyes side of the serial link.
func LinkTX(baud int) io.Writer {
	uart := machine.UART0
	uart.Configure(machine.UARTConfig{BaudRate: uint32(baud), TX: linkTX, RX: machine.NoPin})
	return uart
}

// uartReader turns the polled UART into a blocking reader.
type uartReader struct {
	uart   *machine.UART
	closed atomic.Bool
}

// LinkRX configures the mouth side of the serial link.
func LinkRX(baud int) io.ReadCloser {
	uart := machine.UART0
	uart.Configure(machine.UARTConfig{BaudRate: uint32(baud), TX: machine.NoPin, RX: linkRX})
	return &uartReader{uart: uart}
}

func (r *uartReader) Read(p []byte) (int, error) {
	for {
		if r.closed.Load() {
			return 0, io.ErrClosedPipe
		}
		if r.uart.Buffered() > 0 {
			return r.uart.Read(p)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func (r *uartReader) Close() error {
	r.closed.Store(true)
	return nil
}

// Equalizer wires the MSGEQ7 strobe, reset and output pins.
func Equalizer(clk scheduler.Clock) *audio.MSGEQ7 {
	eqStrobe.Configure(machine.PinConfig{Mode: machine.PinOutput})
	eqReset.Configure(machine.PinConfig{Mode: machine.PinOutput})
	machine.InitADC()
	adc := machine.ADC{Pin: eqOut}
	adc.Configure(machine.ADCConfig{})
	return &audio.MSGEQ7{Strobe: eqStrobe, Reset: eqReset, Out: adc, Clock: clk}
}
