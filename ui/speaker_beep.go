package ui

import (
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"
)

// portaudio起不来时的后备输出
type beepSpeaker struct {
	channel    chan [2]float32
	sampleRate int
}

func NewBeepSpeaker(sampleRate int) *beepSpeaker {
	return &beepSpeaker{
		channel:    make(chan [2]float32, 8192),
		sampleRate: sampleRate,
	}
}

func (s *beepSpeaker) Push(l, r float64) {
	select {
	case s.channel <- [2]float32{float32(l), float32(r)}:
	default:
	}
}

func (s *beepSpeaker) Start() error {
	sr := beep.SampleRate(s.sampleRate)
	if err := speaker.Init(sr, sr.N(time.Second/10)); err != nil {
		return err
	}
	speaker.Play(s)
	return nil
}

// beep.Streamer
func (s *beepSpeaker) Stream(samples [][2]float64) (int, bool) {
	for i := range samples {
		select {
		case sample := <-s.channel:
			samples[i][0] = float64(sample[0])
			samples[i][1] = float64(sample[1])
		default:
			samples[i] = [2]float64{}
		}
	}
	return len(samples), true
}

func (s *beepSpeaker) Err() error {
	return nil
}
