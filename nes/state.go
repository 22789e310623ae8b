package nes

import (
	"encoding/json"

	"github.com/pkg/errors"
)

/*
存档。
整机状态按{cpu, ppu, papu, mmap}嵌套成一个JSON文档，
字节数组序列化成整数序列。渲染用的缓存（tile、名称表展开、
调色板RGB、精灵平行数组）不落盘，恢复时从vram/OAM重建。
结构对不上时整个恢复放弃，机器保持原状。
*/

type consoleState struct {
	CPU  cpuState  `json:"cpu"`
	PPU  ppuState  `json:"ppu"`
	PAPU apuState  `json:"papu"`
	MMAP mmapState `json:"mmap"`
}

type cpuState struct {
	Mem          []int `json:"mem"`
	A            int   `json:"a"`
	X            int   `json:"x"`
	Y            int   `json:"y"`
	SP           int   `json:"sp"`
	PC           int   `json:"pc"`
	P            int   `json:"p"`
	DataBus      int   `json:"dataBus"`
	CyclesToHalt int   `json:"cyclesToHalt"`
	NmiPending   bool  `json:"nmiPending"`
	IrqPending   bool  `json:"irqPending"`
}

type ppuState struct {
	Vram       []int  `json:"vramMem"`
	SpriteMem  []int  `json:"spriteMem"`
	V          int    `json:"vramAddress"`
	T          int    `json:"vramTmpAddress"`
	FineX      int    `json:"regFH"`
	WriteTog   int    `json:"firstWrite"`
	ReadBuffer int    `json:"vramBufferedReadValue"`
	Latch      int    `json:"openBus"`
	LatchDecay int    `json:"openBusDecayFrames"`
	Ctrl       int    `json:"reg2000"`
	Mask       int    `json:"reg2001"`
	OamAddr    int    `json:"sramAddress"`
	Overflow   bool   `json:"spriteOverflow"`
	Sprite0Hit bool   `json:"sprite0Hit"`
	Vblank     bool   `json:"vblank"`
	Scanline   int    `json:"scanline"`
	CurX       int    `json:"curX"`
	NmiCounter int    `json:"nmiCounter"`
	Spr0HitX   int    `json:"spr0HitX"`
	Spr0HitY   int    `json:"spr0HitY"`
	Ntable     [4]int `json:"ntable1"`
}

type pulseState struct {
	Enabled        bool `json:"enabled"`
	DutyMode       int  `json:"dutyMode"`
	DutyValue      int  `json:"dutyValue"`
	LengthEnable   bool `json:"lengthEnable"`
	LengthValue    int  `json:"lengthValue"`
	TimerPeriod    int  `json:"timerPeriod"`
	TimerValue     int  `json:"timerValue"`
	EnvEnable      bool `json:"envEnable"`
	EnvLoop        bool `json:"envLoop"`
	EnvStart       bool `json:"envStart"`
	EnvPeriod      int  `json:"envPeriod"`
	EnvValue       int  `json:"envValue"`
	EnvVolume      int  `json:"envVolume"`
	ConstEnable    bool `json:"constEnable"`
	ConstVolume    int  `json:"constVolume"`
	SweepEnable    bool `json:"sweepEnable"`
	SweepPeriod    int  `json:"sweepPeriod"`
	SweepNegate    bool `json:"sweepNegate"`
	SweepShift     int  `json:"sweepShift"`
	SweepValue     int  `json:"sweepValue"`
	SweepReload    bool `json:"sweepReload"`
}

type triangleState struct {
	Enabled       bool `json:"enabled"`
	TimerPeriod   int  `json:"timerPeriod"`
	TimerValue    int  `json:"timerValue"`
	DutyValue     int  `json:"dutyValue"`
	LengthEnable  bool `json:"lengthEnable"`
	LengthValue   int  `json:"lengthValue"`
	LinearReload  bool `json:"linearReload"`
	LinearControl bool `json:"linearControl"`
	LinearValue   int  `json:"linearValue"`
	LinearPeriod  int  `json:"linearPeriod"`
}

type noiseState struct {
	Enabled     bool `json:"enabled"`
	ShortMode   bool `json:"shortMode"`
	Shift       int  `json:"shiftRegister"`
	LengthEn    bool `json:"lengthEnable"`
	LengthValue int  `json:"lengthValue"`
	TimerPeriod int  `json:"timerPeriod"`
	TimerValue  int  `json:"timerValue"`
	EnvEnable   bool `json:"envEnable"`
	EnvLoop     bool `json:"envLoop"`
	EnvStart    bool `json:"envStart"`
	EnvPeriod   int  `json:"envPeriod"`
	EnvValue    int  `json:"envValue"`
	EnvVolume   int  `json:"envVolume"`
	ConstVolume int  `json:"constVolume"`
}

type dmcState struct {
	Enabled    bool `json:"enabled"`
	Value      int  `json:"value"`
	SampleAddr int  `json:"sampleAddress"`
	SampleLen  int  `json:"sampleLength"`
	CurAddr    int  `json:"currentAddress"`
	CurLen     int  `json:"currentLength"`
	Shift      int  `json:"shiftRegister"`
	BitCount   int  `json:"bitCount"`
	TickPeriod int  `json:"tickPeriod"`
	TickValue  int  `json:"tickValue"`
	Loop       bool `json:"loop"`
	IrqEnable  bool `json:"irqEnable"`
}

type apuState struct {
	Pulse1   pulseState    `json:"square1"`
	Pulse2   pulseState    `json:"square2"`
	Triangle triangleState `json:"triangle"`
	Noise    noiseState    `json:"noise"`
	DMC      dmcState      `json:"dmc"`

	Cycle         uint64 `json:"cycle"`
	FrameMode     int    `json:"countSequence"`
	FrameInhibit  bool   `json:"frameIrqInhibit"`
	FrameIrq      bool   `json:"frameIrqActive"`
	FrameCycles   int    `json:"frameCycleCounter"`
	FrameStep     int    `json:"frameStep"`
	DmcIrq        bool   `json:"dmcIrqActive"`
	SampleCounter int64  `json:"sampleCounter"`
}

type mmapState struct {
	Mapper      int   `json:"mapper"`
	Regs        []int `json:"regs"`
	Joy1Index   int   `json:"joy1StrobeState"`
	Joy1Strobe  int   `json:"joypadLastWrite1"`
	Joy2Index   int   `json:"joy2StrobeState"`
	Joy2Strobe  int   `json:"joypadLastWrite2"`
	ZapperX     int   `json:"zapperX"`
	ZapperY     int   `json:"zapperY"`
	ZapperFired bool  `json:"zapperFired"`
}

func bytesToInts(b []byte) []int {
	out := make([]int, len(b))
	for i, v := range b {
		out[i] = int(v)
	}
	return out
}

func intsToBytes(dst []byte, src []int) {
	for i, v := range src {
		dst[i] = byte(v)
	}
}

func (console *Console) ToJSON() ([]byte, error) {
	if console.Mapper == nil {
		return nil, errors.New("no rom loaded")
	}
	cpu := console.CPU
	ppu := console.PPU
	apu := console.APU

	state := consoleState{
		CPU: cpuState{
			Mem:          bytesToInts(cpu.mem),
			A:            int(cpu.A),
			X:            int(cpu.X),
			Y:            int(cpu.Y),
			SP:           int(cpu.SP),
			PC:           int(cpu.PC),
			P:            int(cpu.getFlags()),
			DataBus:      int(cpu.dataBus),
			CyclesToHalt: cpu.cyclesToHalt,
			NmiPending:   cpu.nmiPending,
			IrqPending:   cpu.irqPending,
		},
		PPU: ppuState{
			Vram:       bytesToInts(ppu.vram[:]),
			SpriteMem:  bytesToInts(ppu.spriteMem[:]),
			V:          int(ppu.v),
			T:          int(ppu.t),
			FineX:      int(ppu.x),
			WriteTog:   int(ppu.w),
			ReadBuffer: int(ppu.readBuffer),
			Latch:      int(ppu.latchValue),
			LatchDecay: ppu.latchDecay,
			Ctrl:       int(ppu.controlByte()),
			Mask:       int(ppu.maskByte()),
			OamAddr:    int(ppu.oamAddress),
			Overflow:   ppu.flagSpriteOverflow != 0,
			Sprite0Hit: ppu.flagSpriteZeroHit != 0,
			Vblank:     ppu.vblankFlag,
			Scanline:   ppu.scanline,
			CurX:       ppu.curX,
			NmiCounter: ppu.nmiCounter,
			Spr0HitX:   ppu.spr0HitX,
			Spr0HitY:   ppu.spr0HitY,
			Ntable:     ppu.ntable1,
		},
		PAPU: apu.saveState(),
		MMAP: mmapState{
			Mapper:      int(console.Card.Mapper),
			Regs:        console.Mapper.SaveRegs(),
			Joy1Index:   int(console.Controller1.index),
			Joy1Strobe:  int(console.Controller1.strobe),
			Joy2Index:   int(console.Controller2.index),
			Joy2Strobe:  int(console.Controller2.strobe),
			ZapperX:     console.Zapper.X,
			ZapperY:     console.Zapper.Y,
			ZapperFired: console.Zapper.Trigger,
		},
	}
	return json.Marshal(&state)
}

func (console *Console) FromJSON(data []byte) error {
	if console.Mapper == nil {
		return errors.New("no rom loaded")
	}
	var state consoleState
	if err := json.Unmarshal(data, &state); err != nil {
		return errors.Wrap(err, "invalid state")
	}

	// 先做完整校验，改机器之前就要确定能恢复
	if len(state.CPU.Mem) != 0x10000 {
		return errors.Errorf("invalid state: cpu mem length %d", len(state.CPU.Mem))
	}
	if len(state.PPU.Vram) != 0x8000 {
		return errors.Errorf("invalid state: vram length %d", len(state.PPU.Vram))
	}
	if len(state.PPU.SpriteMem) != 256 {
		return errors.Errorf("invalid state: sprite mem length %d", len(state.PPU.SpriteMem))
	}
	if state.MMAP.Mapper != int(console.Card.Mapper) {
		return errors.Errorf("invalid state: saved for mapper %d, loaded rom is mapper %d",
			state.MMAP.Mapper, console.Card.Mapper)
	}
	// mapper寄存器直接恢复：RestoreRegs先核对个数，不对就不动mapper
	if err := console.Mapper.RestoreRegs(state.MMAP.Regs); err != nil {
		return err
	}

	cpu := console.CPU
	intsToBytes(cpu.mem, state.CPU.Mem)
	cpu.A = byte(state.CPU.A)
	cpu.X = byte(state.CPU.X)
	cpu.Y = byte(state.CPU.Y)
	cpu.SP = byte(state.CPU.SP)
	cpu.PC = uint16(state.CPU.PC)
	cpu.setFlags(byte(state.CPU.P))
	cpu.dataBus = byte(state.CPU.DataBus)
	cpu.cyclesToHalt = state.CPU.CyclesToHalt
	cpu.nmiPending = state.CPU.NmiPending
	cpu.irqPending = state.CPU.IrqPending

	ppu := console.PPU
	intsToBytes(ppu.vram[:], state.PPU.Vram)
	intsToBytes(ppu.spriteMem[:], state.PPU.SpriteMem)
	ppu.writeControl(byte(state.PPU.Ctrl))
	ppu.writeMask(byte(state.PPU.Mask))
	ppu.v = uint16(state.PPU.V)
	ppu.t = uint16(state.PPU.T)
	ppu.x = byte(state.PPU.FineX)
	ppu.w = byte(state.PPU.WriteTog)
	ppu.readBuffer = byte(state.PPU.ReadBuffer)
	ppu.latchValue = byte(state.PPU.Latch)
	ppu.latchDecay = state.PPU.LatchDecay
	ppu.oamAddress = byte(state.PPU.OamAddr)
	ppu.flagSpriteOverflow = 0
	if state.PPU.Overflow {
		ppu.flagSpriteOverflow = 1
	}
	ppu.flagSpriteZeroHit = 0
	if state.PPU.Sprite0Hit {
		ppu.flagSpriteZeroHit = 1
	}
	ppu.vblankFlag = state.PPU.Vblank
	ppu.scanline = state.PPU.Scanline
	ppu.curX = state.PPU.CurX
	ppu.nmiCounter = state.PPU.NmiCounter
	ppu.spr0HitX = state.PPU.Spr0HitX
	ppu.spr0HitY = state.PPU.Spr0HitY
	ppu.ntable1 = state.PPU.Ntable
	ppu.rebuildMirrorTable()
	ppu.rebuildFromVram()

	console.APU.restoreState(&state.PAPU)

	console.Controller1.index = byte(state.MMAP.Joy1Index)
	console.Controller1.strobe = byte(state.MMAP.Joy1Strobe)
	console.Controller2.index = byte(state.MMAP.Joy2Index)
	console.Controller2.strobe = byte(state.MMAP.Joy2Strobe)
	console.Zapper.X = state.MMAP.ZapperX
	console.Zapper.Y = state.MMAP.ZapperY
	console.Zapper.Trigger = state.MMAP.ZapperFired

	return nil
}

// $2000/$2001按当前flag拼回寄存器字节
func (ppu *PPU) controlByte() byte {
	var v byte
	v |= ppu.flagNameTable
	v |= ppu.flagIncrement << 2
	v |= ppu.flagSpriteTable << 3
	v |= ppu.flagBackgroundTable << 4
	v |= ppu.flagSpriteSize << 5
	v |= ppu.flagMasterSlave << 6
	if ppu.nmiOutput {
		v |= 1 << 7
	}
	return v
}

func (ppu *PPU) maskByte() byte {
	var v byte
	v |= ppu.flagGray
	v |= ppu.flagShowLeftBack << 1
	v |= ppu.flagShowLeftSprite << 2
	v |= ppu.flagShowBack << 3
	v |= ppu.flagShowSprite << 4
	v |= byte(ppu.paletteTable.curEmph) << 5
	return v
}

func (apu *APU) saveState() apuState {
	p := func(x *Pulse) pulseState {
		return pulseState{
			Enabled: x.enabled, DutyMode: int(x.dutyMode), DutyValue: int(x.dutyValue),
			LengthEnable: x.lengthEnable, LengthValue: int(x.lengthValue),
			TimerPeriod: int(x.timerPeriod), TimerValue: int(x.timerValue),
			EnvEnable: x.envelopeEnable, EnvLoop: x.envelopeLoop, EnvStart: x.envelopeStart,
			EnvPeriod: int(x.envelopePeriod), EnvValue: int(x.envelopeValue),
			EnvVolume: int(x.envelopeVolume),
			ConstEnable: x.constVolumeEnable, ConstVolume: int(x.constVolume),
			SweepEnable: x.sweepEnable, SweepPeriod: int(x.sweepPeriod),
			SweepNegate: x.sweepNegate, SweepShift: int(x.sweepShift),
			SweepValue: int(x.sweepValue), SweepReload: x.sweepReload,
		}
	}
	t := &apu.triangle
	n := &apu.noise
	d := &apu.dmc
	return apuState{
		Pulse1: p(&apu.pulse1),
		Pulse2: p(&apu.pulse2),
		Triangle: triangleState{
			Enabled: t.enabled, TimerPeriod: int(t.timerPeriod), TimerValue: int(t.timerValue),
			DutyValue: int(t.dutyValue), LengthEnable: t.lengthEnable,
			LengthValue: int(t.lengthValue), LinearReload: t.linearReload,
			LinearControl: t.linearControl, LinearValue: int(t.linearValue),
			LinearPeriod: int(t.linearReloadValue),
		},
		Noise: noiseState{
			Enabled: n.enabled, ShortMode: n.shortMode, Shift: int(n.shiftRegister),
			LengthEn: n.lengthEnabled, LengthValue: int(n.lengthValue),
			TimerPeriod: int(n.timerPeriod), TimerValue: int(n.timerValue),
			EnvEnable: n.envelopeEnabled, EnvLoop: n.envelopeLoop, EnvStart: n.envelopeStart,
			EnvPeriod: int(n.envelopePeriod), EnvValue: int(n.envelopeValue),
			EnvVolume: int(n.envelopeVolume), ConstVolume: int(n.constantVolume),
		},
		DMC: dmcState{
			Enabled: d.enabled, Value: int(d.value), SampleAddr: int(d.sampleAddress),
			SampleLen: int(d.sampleLength), CurAddr: int(d.currentAddress),
			CurLen: int(d.currentLength), Shift: int(d.shiftRegister),
			BitCount: int(d.bitCount), TickPeriod: int(d.tickPeriod),
			TickValue: int(d.tickValue), Loop: d.loop, IrqEnable: d.irqEnable,
		},
		Cycle:         apu.cycle,
		FrameMode:     int(apu.frameMode),
		FrameInhibit:  apu.frameIrqInhibit,
		FrameIrq:      apu.frameIrqActive,
		FrameCycles:   apu.frameCycleCounter,
		FrameStep:     apu.frameStep,
		DmcIrq:        apu.dmcIrqActive,
		SampleCounter: apu.sampleCounter,
	}
}

func (apu *APU) restoreState(s *apuState) {
	rp := func(x *Pulse, st *pulseState) {
		x.enabled = st.Enabled
		x.dutyMode = byte(st.DutyMode)
		x.dutyValue = byte(st.DutyValue)
		x.lengthEnable = st.LengthEnable
		x.lengthValue = byte(st.LengthValue)
		x.timerPeriod = uint16(st.TimerPeriod)
		x.timerValue = uint16(st.TimerValue)
		x.envelopeEnable = st.EnvEnable
		x.envelopeLoop = st.EnvLoop
		x.envelopeStart = st.EnvStart
		x.envelopePeriod = byte(st.EnvPeriod)
		x.envelopeValue = byte(st.EnvValue)
		x.envelopeVolume = byte(st.EnvVolume)
		x.constVolumeEnable = st.ConstEnable
		x.constVolume = byte(st.ConstVolume)
		x.sweepEnable = st.SweepEnable
		x.sweepPeriod = byte(st.SweepPeriod)
		x.sweepNegate = st.SweepNegate
		x.sweepShift = byte(st.SweepShift)
		x.sweepValue = byte(st.SweepValue)
		x.sweepReload = st.SweepReload
	}
	rp(&apu.pulse1, &s.Pulse1)
	rp(&apu.pulse2, &s.Pulse2)

	t := &apu.triangle
	t.enabled = s.Triangle.Enabled
	t.timerPeriod = uint16(s.Triangle.TimerPeriod)
	t.timerValue = uint16(s.Triangle.TimerValue)
	t.dutyValue = byte(s.Triangle.DutyValue)
	t.lengthEnable = s.Triangle.LengthEnable
	t.lengthValue = byte(s.Triangle.LengthValue)
	t.linearReload = s.Triangle.LinearReload
	t.linearControl = s.Triangle.LinearControl
	t.linearValue = byte(s.Triangle.LinearValue)
	t.linearReloadValue = byte(s.Triangle.LinearPeriod)

	n := &apu.noise
	n.enabled = s.Noise.Enabled
	n.shortMode = s.Noise.ShortMode
	n.shiftRegister = uint16(s.Noise.Shift)
	n.lengthEnabled = s.Noise.LengthEn
	n.lengthValue = byte(s.Noise.LengthValue)
	n.timerPeriod = uint16(s.Noise.TimerPeriod)
	n.timerValue = uint16(s.Noise.TimerValue)
	n.envelopeEnabled = s.Noise.EnvEnable
	n.envelopeLoop = s.Noise.EnvLoop
	n.envelopeStart = s.Noise.EnvStart
	n.envelopePeriod = byte(s.Noise.EnvPeriod)
	n.envelopeValue = byte(s.Noise.EnvValue)
	n.envelopeVolume = byte(s.Noise.EnvVolume)
	n.constantVolume = byte(s.Noise.ConstVolume)

	d := &apu.dmc
	d.enabled = s.DMC.Enabled
	d.value = byte(s.DMC.Value)
	d.sampleAddress = uint16(s.DMC.SampleAddr)
	d.sampleLength = uint16(s.DMC.SampleLen)
	d.currentAddress = uint16(s.DMC.CurAddr)
	d.currentLength = uint16(s.DMC.CurLen)
	d.shiftRegister = byte(s.DMC.Shift)
	d.bitCount = byte(s.DMC.BitCount)
	d.tickPeriod = byte(s.DMC.TickPeriod)
	d.tickValue = byte(s.DMC.TickValue)
	d.loop = s.DMC.Loop
	d.irqEnable = s.DMC.IrqEnable

	apu.cycle = s.Cycle
	apu.frameMode = byte(s.FrameMode)
	apu.frameIrqInhibit = s.FrameInhibit
	apu.frameIrqActive = s.FrameIrq
	apu.frameCycleCounter = s.FrameCycles
	apu.frameStep = s.FrameStep
	apu.dmcIrqActive = s.DmcIrq
	apu.sampleCounter = s.SampleCounter
}
