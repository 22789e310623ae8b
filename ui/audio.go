package ui

import (
	"github.com/gordonklaus/portaudio"
)

/*
声音输出，优先portaudio，初始化失败退回beep后端。
模拟线程通过channel把立体声采样推过来，
channel作为缓存区，越大声音延迟越大。
*/
type Audio struct {
	stream         *portaudio.Stream
	sampleRate     float64
	outputChannels int
	channel        chan [2]float32
}

func NewAudio() *Audio {
	return &Audio{channel: make(chan [2]float32, 8192)}
}

// 模拟侧的采样回调
func (audio *Audio) Push(l, r float64) {
	select {
	case audio.channel <- [2]float32{float32(l), float32(r)}:
	default:
		// 消费不过来就丢
	}
}

func (audio *Audio) Start() error {
	if err := portaudio.Initialize(); err != nil {
		return err
	}
	api, err := portaudio.DefaultHostApi()
	if err != nil {
		return err
	}
	parameters := portaudio.HighLatencyParameters(nil, api.DefaultOutputDevice)
	stream, err := portaudio.OpenStream(parameters, audio.Callback)
	if err != nil {
		return err
	}
	audio.stream = stream
	audio.sampleRate = parameters.SampleRate
	audio.outputChannels = parameters.Output.Channels
	return stream.Start()
}

func (audio *Audio) SampleRate() int {
	if audio.sampleRate <= 0 {
		return 44100
	}
	return int(audio.sampleRate)
}

func (audio *Audio) Stop() error {
	return audio.stream.Close()
}

func (audio *Audio) Callback(out []float32) {
	var sample [2]float32
	for i := 0; i < len(out); i += audio.outputChannels {
		select {
		case sample = <-audio.channel:
		default:
			sample = [2]float32{}
		}
		out[i] = sample[0]
		if audio.outputChannels > 1 {
			out[i+1] = sample[1]
		}
	}
}
