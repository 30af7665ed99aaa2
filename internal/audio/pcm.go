package audio

import (
	"encoding/binary"
	"errors"
	"io"
	"math"
)

// PCM декодированное 16-битное аудио (сэмплы чередуются по каналам).
type PCM struct {
	Samples    []int16
	SampleRate int
	Channels   int
}

// Duration возвращает длительность в секундах.
func (p *PCM) Duration() float64 {
	if p.SampleRate == 0 || p.Channels == 0 {
		return 0
	}
	return float64(len(p.Samples)) / float64(p.SampleRate*p.Channels)
}

// MonoAt возвращает моно сэмплы с указанной частотой.
func (p *PCM) MonoAt(rate int) []int16 {
	samples := p.Samples
	if p.Channels == 2 {
		samples = downmix(samples)
	} else if p.Channels > 2 {
		samples = firstChannel(samples, p.Channels)
	}
	return resampleLinear(samples, p.SampleRate, rate)
}

// PCM16LE кодирует сэмплы в байты little-endian.
func PCM16LE(samples []int16) []byte {
	return int16ToBytes(samples)
}

// FromPCM16LE декодирует байты little-endian в сэмплы. Последний неполный байт отбрасывается.
func FromPCM16LE(data []byte) []int16 {
	return bytesToInt16(data)
}

func int16ToBytes(samples []int16) []byte {
	out := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(out[i*2:], uint16(s))
	}
	return out
}

func bytesToInt16(data []byte) []int16 {
	out := make([]int16, len(data)/2)
	for i := range out {
		out[i] = int16(binary.LittleEndian.Uint16(data[i*2:]))
	}
	return out
}

// normalize переводит сэмплы в диапазон [-1, 1].
func normalize(samples []int16) []float32 {
	out := make([]float32, len(samples))
	for i, s := range samples {
		out[i] = float32(s) / 32768
	}
	return out
}

// downmix сводит стерео в моно.
func downmix(stereo []int16) []int16 {
	mono := make([]int16, len(stereo)/2)
	for i := range mono {
		l := int(stereo[2*i])
		r := int(stereo[2*i+1])
		mono[i] = int16((l + r) / 2)
	}
	return mono
}

func firstChannel(samples []int16, channels int) []int16 {
	out := make([]int16, len(samples)/channels)
	for i := range out {
		out[i] = samples[i*channels]
	}
	return out
}

func resampleLinear(in []int16, inRate, outRate int) []int16 {
	if inRate == outRate || inRate <= 0 || len(in) == 0 {
		return append([]int16(nil), in...)
	}
	ratio := float64(outRate) / float64(inRate)
	outLen := int(math.Round(float64(len(in)) * ratio))
	if outLen <= 1 {
		return []int16{}
	}
	out := make([]int16, outLen)
	last := len(in) - 1
	for i := 0; i < outLen; i++ {
		srcPos := float64(i) / ratio
		i0 := int(math.Floor(srcPos))
		if i0 > last {
			i0 = last
		}
		i1 := i0 + 1
		if i1 > last {
			i1 = last
		}
		f := srcPos - float64(i0)
		v := float64(in[i0])*(1.0-f) + float64(in[i1])*f
		if v > math.MaxInt16 {
			v = math.MaxInt16
		}
		if v < math.MinInt16 {
			v = math.MinInt16
		}
		out[i] = int16(v)
	}
	return out
}

// memWriteSeeker буфер в памяти для wav.Encoder, которому нужен io.WriteSeeker.
type memWriteSeeker struct {
	buf []byte
	pos int
}

func (m *memWriteSeeker) Write(p []byte) (int, error) {
	if end := m.pos + len(p); end > len(m.buf) {
		if end > cap(m.buf) {
			grown := make([]byte, end, 2*end)
			copy(grown, m.buf)
			m.buf = grown
		} else {
			m.buf = m.buf[:end]
		}
	}
	n := copy(m.buf[m.pos:], p)
	m.pos += n
	return n, nil
}

func (m *memWriteSeeker) Seek(offset int64, whence int) (int64, error) {
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = int64(m.pos) + offset
	case io.SeekEnd:
		abs = int64(len(m.buf)) + offset
	default:
		return 0, errors.New("memWriteSeeker: invalid whence")
	}
	if abs < 0 {
		return 0, errors.New("memWriteSeeker: negative position")
	}
	m.pos = int(abs)
	return abs, nil
}

func (m *memWriteSeeker) Bytes() []byte { return m.buf }
