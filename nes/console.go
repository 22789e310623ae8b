package nes

import (
	"time"

	"github.com/pkg/errors"
)

/*
这个模块是cpu/ppu/apu/mapper/手柄的封装，对宿主暴露整机接口。
宿主按帧驱动：每次Frame()跑一个完整视频帧。
*/
type Console struct {
	CPU         *CPU
	PPU         *PPU
	APU         *APU
	Card        *Cartridge
	Mapper      Mapper
	Controller1 *Controller
	Controller2 *Controller
	Zapper      *Zapper
	Genie       *Genie

	opts    Options
	crashed bool

	frameTimes []time.Time
}

func NewConsole(options ...Option) *Console {
	opts := defaultOptions()
	for _, o := range options {
		o(&opts)
	}
	console := &Console{opts: opts}
	console.Controller1 = NewController()
	console.Controller2 = NewController()
	console.Zapper = NewZapper()
	console.Genie = NewGenie()
	console.CPU = NewCPU(console)
	console.PPU = NewPPU(console)
	console.APU = NewAPU(console)
	return console
}

// 装载iNES镜像。失败时机器保持原状，可以换一个ROM再来
func (console *Console) LoadROM(data []byte) error {
	card, err := LoadNESRom(data)
	if err != nil {
		return err
	}
	prevCard, prevMapper := console.Card, console.Mapper
	console.Card = card
	mapper, err := NewMapper(console)
	if err != nil {
		console.Card, console.Mapper = prevCard, prevMapper
		return err
	}
	console.Mapper = mapper

	console.PPU.Reset()
	console.APU.Reset()
	if err := mapper.LoadROM(); err != nil {
		return errors.Wrap(err, "load rom")
	}
	console.CPU.Reset()
	console.crashed = false
	console.Logger("ROM: PRG-ROM: %d x 16kb, CHR-ROM: %d x 8kb Mapper: %d \n",
		card.PrgBankCount(), len(card.CHR)/0x2000, card.Mapper)
	return nil
}

// reset不清内存，只把各子系统拉回上电流程
func (console *Console) Reset() {
	console.crashed = false
	if console.Mapper != nil {
		console.Mapper.Reset()
	}
	console.PPU.Reset()
	console.APU.Reset()
	console.CPU.Reset()
}

/*
跑一个视频帧：
1. 帧开头铺底色
2. 循环：有DMA欠账就先还（一次最多8个周期），否则执行一条指令；
   APU帧计数器吃掉"指令周期-指令内已补跑的周期"，声道计时器吃全部；
   PPU按3倍周期数逐点推进，指令内补跑过的点要扣掉
3. VBlank翻帧就收工；CPU崩了就置crashed，之后的Frame()一直报错到Reset
*/
func (console *Console) Frame() error {
	if console.Mapper == nil {
		return errors.New("no rom loaded")
	}
	if console.crashed {
		return errors.New("crashed: reset to continue")
	}

	cpu := console.CPU
	ppu := console.PPU
	apu := console.APU

	ppu.StartFrame()

	for !ppu.frameDone {
		if cpu.cyclesToHalt > 0 {
			cycles := cpu.cyclesToHalt
			if cycles > 8 {
				cycles = 8
			}
			cpu.cyclesToHalt -= cycles
			apu.ClockFrameCounter(cycles)
			apu.ClockChannels(cycles)
			for i := 0; i < cycles*3 && !ppu.frameDone; i++ {
				ppu.AdvanceDot()
			}
			continue
		}

		cycles, err := cpu.Emulate()
		if err != nil {
			console.crashed = true
			return err
		}

		apu.ClockFrameCounter(cycles - cpu.apuCatchupCycles)
		apu.ClockChannels(cycles)
		cpu.apuCatchupCycles = 0

		dots := cycles*3 - cpu.ppuCatchupDots
		cpu.ppuCatchupDots = 0

		// 指令内补跑时已经翻帧的话，剩余的点不再追
		if ppu.frameDone {
			break
		}
		for i := 0; i < dots && !ppu.frameDone; i++ {
			ppu.AdvanceDot()
		}
	}

	console.trackFPS()
	return nil
}

func (console *Console) trackFPS() {
	now := time.Now()
	console.frameTimes = append(console.frameTimes, now)
	if len(console.frameTimes) > 60 {
		console.frameTimes = console.frameTimes[len(console.frameTimes)-60:]
	}
}

func (console *Console) GetFPS() float64 {
	n := len(console.frameTimes)
	if n < 2 {
		return 0
	}
	dur := console.frameTimes[n-1].Sub(console.frameTimes[0]).Seconds()
	if dur <= 0 {
		return 0
	}
	return float64(n-1) / dur
}

// 当前帧缓冲，256*240的0xRRGGBB
func (console *Console) Framebuffer() []uint32 {
	return console.PPU.buffer[:]
}

// 宿主驱动用的目标帧率
func (console *Console) FrameRate() int {
	if console.opts.PreferredFrameRate > 0 {
		return console.opts.PreferredFrameRate
	}
	return DefaultFrameRate
}

func (console *Console) ButtonDown(ctrl, button int) {
	console.controller(ctrl).SetButton(button, true)
}

func (console *Console) ButtonUp(ctrl, button int) {
	console.controller(ctrl).SetButton(button, false)
}

// 轮询式输入的宿主一次推整个手柄的按键状态
func (console *Console) SetButtons(ctrl int, buttons [8]bool) {
	console.controller(ctrl).SetButtons(buttons)
}

func (console *Console) controller(ctrl int) *Controller {
	if ctrl == 2 {
		return console.Controller2
	}
	return console.Controller1
}

func (console *Console) ZapperMove(x, y int) {
	console.Zapper.X = x
	console.Zapper.Y = y
}

func (console *Console) ZapperFireDown() {
	console.Zapper.Trigger = true
}

func (console *Console) ZapperFireUp() {
	console.Zapper.Trigger = false
}

// $4016：一号手柄，bit5-7是open bus
func (console *Console) joy1Read() byte {
	return console.Controller1.Read() | (console.CPU.dataBus & 0xe0)
}

// $4017：二号手柄和光枪共享
func (console *Console) joy2Read() byte {
	value := console.Controller2.Read() & 1
	value |= console.Zapper.ReadBits(console.PPU)
	return value | (console.CPU.dataBus & 0xe0)
}

// 电池存档内容，宿主自己决定落盘方式
func (console *Console) BatteryRAM() []byte {
	if console.Card == nil {
		return nil
	}
	return console.Card.SRAM
}

func (console *Console) LoadBatteryRAM(data []byte) {
	if console.Card == nil {
		return
	}
	copy(console.Card.SRAM, data)
	copy(console.CPU.mem[0x6000:0x8000], console.Card.SRAM)
}

// 金手指。codes可以是+或空白分隔的多个码
func (console *Console) EnableGenie(codes string) error {
	g := NewGenie()
	if err := g.AddCodes(codes); err != nil {
		return err
	}
	g.Enabled = true
	console.Genie = g
	return nil
}

func (console *Console) DisableGenie() {
	console.Genie.Enabled = false
}
