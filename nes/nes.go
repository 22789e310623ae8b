package nes

import "fmt"

// NTSC主频
const CPUFrequency = 1789773

const DefaultFrameRate = 60

// 宿主的配置项，全部在NewConsole时传入
type Options struct {
	OnFrame           func(buffer []uint32) // 每帧渲染完成回调，256*240的32位RGB
	OnAudioSample     func(l, r float64)    // 每个输出采样回调，左右声道 [-1, 1)
	OnStatusUpdate    func(msg string)      // 状态信息
	OnBatteryRamWrite func(addr uint16, value byte)

	SampleRate         int // APU输出采样率 Hz
	PreferredFrameRate int
	EmulateSound       bool
	TraceCPU           bool // 每条指令往状态回调打一行nestest格式的日志
}

type Option func(*Options)

func WithFrameCallback(f func(buffer []uint32)) Option {
	return func(o *Options) { o.OnFrame = f }
}

func WithAudioCallback(f func(l, r float64)) Option {
	return func(o *Options) { o.OnAudioSample = f }
}

func WithStatusCallback(f func(msg string)) Option {
	return func(o *Options) { o.OnStatusUpdate = f }
}

func WithBatteryCallback(f func(addr uint16, value byte)) Option {
	return func(o *Options) { o.OnBatteryRamWrite = f }
}

func WithSampleRate(rate int) Option {
	return func(o *Options) { o.SampleRate = rate }
}

func WithFrameRate(rate int) Option {
	return func(o *Options) { o.PreferredFrameRate = rate }
}

func WithSound(enable bool) Option {
	return func(o *Options) { o.EmulateSound = enable }
}

func WithCPUTrace(enable bool) Option {
	return func(o *Options) { o.TraceCPU = enable }
}

func defaultOptions() Options {
	return Options{
		SampleRate:         44100,
		PreferredFrameRate: DefaultFrameRate,
		EmulateSound:       true,
	}
}

// 状态输出，配置了OnStatusUpdate就走回调，否则直接打印
func (console *Console) Logger(format string, a ...interface{}) {
	msg := fmt.Sprintf(format, a...)
	if console.opts.OnStatusUpdate != nil {
		console.opts.OnStatusUpdate(msg)
	} else {
		fmt.Print(msg)
	}
}

/*
bit:	0	1	2	3	4	5	6	7
button:	A	B	Select	Start	Up	Down	Left	Right
*/
const (
	ButtonA = iota
	ButtonB
	ButtonSelect
	ButtonStart
	ButtonUp
	ButtonDown
	ButtonLeft
	ButtonRight
)
