package protocol

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/Speshl/gorrc_pilot/internal/control"
)

const (
	FrameSize = 12
	StartFlag = 0x7b // '{'
	EndFlag   = 0x7d // '}'

	crcPoly = 0x1021
)

var (
	ErrShortFrame = errors.New("frame too short")
	ErrBadFlags   = errors.New("frame flags invalid")
	ErrBadCRC     = errors.New("frame crc mismatch")
)

// Frame is the host to drone control message. Axes are 0..255 with 0 at -1.0
// and auxiliary values are tenths.
type Frame struct {
	Mode  uint8
	Lift  uint8
	Yaw   uint8
	Pitch uint8
	Roll  uint8
	P     int8
	P1    int8
	P2    int8
}

func FromState(state control.State) Frame {
	return Frame{
		Mode:  uint8(state.Mode),
		Lift:  EncodeAxis(state.Lift),
		Yaw:   EncodeAxis(state.Yaw),
		Pitch: EncodeAxis(state.Pitch),
		Roll:  EncodeAxis(state.Roll),
		P:     EncodeAux(state.Aux[control.P]),
		P1:    EncodeAux(state.Aux[control.P1]),
		P2:    EncodeAux(state.Aux[control.P2]),
	}
}

func Encode(state control.State) [FrameSize]byte {
	return FromState(state).Encode()
}

func (f Frame) payload() []byte {
	return []byte{f.Mode, f.Lift, f.Yaw, f.Pitch, f.Roll, uint8(f.P), uint8(f.P1), uint8(f.P2)}
}

func (f Frame) Encode() [FrameSize]byte {
	var buf [FrameSize]byte
	buf[0] = StartFlag
	copy(buf[1:9], f.payload())
	binary.BigEndian.PutUint16(buf[9:11], CRC16(buf[1:9]))
	buf[11] = EndFlag
	return buf
}

func Decode(buf []byte) (Frame, error) {
	if len(buf) < FrameSize {
		return Frame{}, fmt.Errorf("%w: got %d bytes", ErrShortFrame, len(buf))
	}
	if buf[0] != StartFlag || buf[11] != EndFlag {
		return Frame{}, fmt.Errorf("%w: start 0x%02x end 0x%02x", ErrBadFlags, buf[0], buf[11])
	}

	want := binary.BigEndian.Uint16(buf[9:11])
	got := CRC16(buf[1:9])
	if want != got {
		return Frame{}, fmt.Errorf("%w: frame 0x%04x computed 0x%04x", ErrBadCRC, want, got)
	}

	return Frame{
		Mode:  buf[1],
		Lift:  buf[2],
		Yaw:   buf[3],
		Pitch: buf[4],
		Roll:  buf[5],
		P:     int8(buf[6]),
		P1:    int8(buf[7]),
		P2:    int8(buf[8]),
	}, nil
}

// State is the inverse of FromState up to encoding resolution.
func (f Frame) State() control.State {
	state := control.State{Mode: control.Mode(f.Mode)}
	state.Lift = DecodeAxis(f.Lift)
	state.Yaw = DecodeAxis(f.Yaw)
	state.Pitch = DecodeAxis(f.Pitch)
	state.Roll = DecodeAxis(f.Roll)
	state.Aux[control.P] = DecodeAux(f.P)
	state.Aux[control.P1] = DecodeAux(f.P1)
	state.Aux[control.P2] = DecodeAux(f.P2)
	return state
}

func EncodeAxis(value float64) uint8 {
	value = control.DirectAxisSet(value)
	return uint8(math.Round((value + 1) * 127.5))
}

func DecodeAxis(value uint8) float64 {
	return float64(value)/127.5 - 1
}

func EncodeAux(value float64) int8 {
	tenths := math.Round(value * 10)
	if math.IsNaN(tenths) {
		return 0
	}
	return int8(control.Clamp(tenths, math.MinInt8, math.MaxInt8))
}

func DecodeAux(value int8) float64 {
	return float64(value) / 10
}

// CRC16 is CRC-16/XMODEM: poly 0x1021, init 0, no reflection.
func CRC16(data []byte) uint16 {
	var crc uint16
	for _, b := range data {
		crc ^= uint16(b) << 8
		for i := 0; i < 8; i++ {
			if crc&0x8000 != 0 {
				crc = crc<<1 ^ crcPoly
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}
