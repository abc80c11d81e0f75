package cue

import (
	"bytes"
	"encoding/binary"
	"math"
	"time"
)

// Tone is a sine sweep from StartHz to EndHz over Duration.
type Tone struct {
	StartHz  float64
	EndHz    float64
	Duration time.Duration
}

// Pattern is a set of tones that start together and share one release.
type Pattern struct {
	Tones []Tone
	// Release is how long each tone keeps sounding after its sweep ends.
	Release time.Duration
	// ReleaseTau is the exponential decay time constant during Release.
	ReleaseTau time.Duration
	// Floor is the gain the release decays toward.
	Floor      float64
	SampleRate int
	Gain       float64
}

// StartPattern is the session start cue: a low and a high sweep played at once.
var StartPattern = Pattern{
	Tones: []Tone{
		{StartHz: 400, EndHz: 1000, Duration: 500 * time.Millisecond},
		{StartHz: 2000, EndHz: 3000, Duration: 500 * time.Millisecond},
	},
	Release:    150 * time.Millisecond,
	ReleaseTau: 15 * time.Millisecond,
	Floor:      0.01,
	SampleRate: 44100,
	Gain:       0.8,
}

const (
	bitsPerSample = 16
	channels      = 1
	wavHeaderSize = 44
)

// Length returns the total playing time of the pattern.
func (p Pattern) Length() time.Duration {
	var longest time.Duration
	for _, tone := range p.Tones {
		if tone.Duration > longest {
			longest = tone.Duration
		}
	}
	return longest + p.Release
}

// Synthesize renders p as a 16-bit mono PCM WAV file.
func Synthesize(p Pattern) []byte {
	rate := p.SampleRate
	if rate <= 0 {
		rate = StartPattern.SampleRate
	}
	frames := int(p.Length().Seconds() * float64(rate))

	var buf bytes.Buffer
	buf.Grow(wavHeaderSize + frames*2)
	writeHeader(&buf, rate, frames)

	pcm := make([]byte, 2)
	for i := 0; i < frames; i++ {
		t := float64(i) / float64(rate)
		var mix float64
		for _, tone := range p.Tones {
			mix += p.sample(tone, t)
		}
		if n := len(p.Tones); n > 0 {
			mix /= float64(n)
		}
		v := math.Max(-1, math.Min(1, mix*p.Gain))
		binary.LittleEndian.PutUint16(pcm, uint16(int16(math.Round(v*math.MaxInt16))))
		buf.Write(pcm)
	}
	return buf.Bytes()
}

// sample evaluates one tone at t seconds: a linear frequency ramp at full
// gain, then the end frequency decaying toward Floor until Release elapses.
func (p Pattern) sample(tone Tone, t float64) float64 {
	sweep := tone.Duration.Seconds()
	if sweep <= 0 || t > sweep+p.Release.Seconds() {
		return 0
	}
	var phase, gain float64
	if t <= sweep {
		phase = 2 * math.Pi * (tone.StartHz*t + (tone.EndHz-tone.StartHz)*t*t/(2*sweep))
		gain = 1
	} else {
		atEnd := 2 * math.Pi * (tone.StartHz*sweep + (tone.EndHz-tone.StartHz)*sweep/2)
		phase = atEnd + 2*math.Pi*tone.EndHz*(t-sweep)
		gain = p.Floor
		if tau := p.ReleaseTau.Seconds(); tau > 0 {
			gain += (1 - p.Floor) * math.Exp(-(t-sweep)/tau)
		}
	}
	return gain * math.Sin(phase)
}

func writeHeader(buf *bytes.Buffer, rate, frames int) {
	dataSize := uint32(frames * channels * bitsPerSample / 8)
	byteRate := uint32(rate * channels * bitsPerSample / 8)

	buf.WriteString("RIFF")
	_ = binary.Write(buf, binary.LittleEndian, uint32(36)+dataSize)
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	_ = binary.Write(buf, binary.LittleEndian, uint32(16))
	_ = binary.Write(buf, binary.LittleEndian, uint16(1)) // PCM
	_ = binary.Write(buf, binary.LittleEndian, uint16(channels))
	_ = binary.Write(buf, binary.LittleEndian, uint32(rate))
	_ = binary.Write(buf, binary.LittleEndian, byteRate)
	_ = binary.Write(buf, binary.LittleEndian, uint16(channels*bitsPerSample/8))
	_ = binary.Write(buf, binary.LittleEndian, uint16(bitsPerSample))
	buf.WriteString("data")
	_ = binary.Write(buf, binary.LittleEndian, dataSize)
}
