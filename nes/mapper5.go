package nes

/*
Mapper 5 (MMC5)
寄存器群在$5100-$5206，外加$5C00-$5FFF的1kb ExRAM。
这里是部分实现：PRG/CHR分bank、镜像控制、乘法器、
扫描线IRQ都有；split screen、ExRAM的扩展属性模式
这些寄存器收下来但不改变渲染输出。
*/
type Mapper5 struct {
	mapperBase
	prgMode byte
	chrMode byte
	exMode  byte
	ntMap   byte
	fillTile  byte
	fillColor byte

	prgRegs [4]byte // $5114-$5117
	chrRegs [12]byte // $5120-$512B

	irqTarget  byte
	irqEnable  bool
	irqPending bool
	inFrame    bool

	multA byte
	multB byte

	exRAM [0x400]byte
}

func (m *Mapper5) LoadROM() error {
	m.loadCommon()
	m.prgMode = 3
	m.chrMode = 3
	for i := range m.prgRegs {
		m.prgRegs[i] = 0xff
	}
	m.updatePrgBanks()
	return nil
}

func (m *Mapper5) Reset() {
	m.prgMode = 3
	m.chrMode = 3
	m.irqEnable = false
	m.irqPending = false
	m.multA = 0
	m.multB = 0
	for i := range m.prgRegs {
		m.prgRegs[i] = 0xff
	}
	m.loadSRAM()
	m.updatePrgBanks()
}

func (m *Mapper5) Load(addr uint16) byte {
	switch {
	case addr == 0x5204:
		// IRQ状态：D7 pending D6 in-frame，读取清pending
		var v byte
		if m.irqPending {
			v |= 0x80
		}
		if m.inFrame {
			v |= 0x40
		}
		m.irqPending = false
		return v
	case addr == 0x5205:
		return byte(uint16(m.multA) * uint16(m.multB))
	case addr == 0x5206:
		return byte(uint16(m.multA) * uint16(m.multB) >> 8)
	case addr >= 0x5c00 && addr < 0x6000:
		return m.exRAM[addr-0x5c00]
	}
	return m.mapperBase.Load(addr)
}

func (m *Mapper5) Write(addr uint16, value byte) {
	switch {
	case addr == 0x5100:
		m.prgMode = value & 3
		m.updatePrgBanks()
	case addr == 0x5101:
		m.chrMode = value & 3
		m.updateChrBanks()
	case addr == 0x5104:
		m.exMode = value & 3
	case addr == 0x5105:
		m.ntMap = value
		m.applyNametableMap()
	case addr == 0x5106:
		m.fillTile = value
	case addr == 0x5107:
		m.fillColor = value & 3
	case addr >= 0x5114 && addr <= 0x5117:
		m.prgRegs[addr-0x5114] = value
		m.updatePrgBanks()
	case addr >= 0x5120 && addr <= 0x512b:
		m.chrRegs[addr-0x5120] = value
		m.updateChrBanks()
	case addr == 0x5203:
		m.irqTarget = value
	case addr == 0x5204:
		m.irqEnable = value&0x80 != 0
	case addr == 0x5205:
		m.multA = value
	case addr == 0x5206:
		m.multB = value
	case addr >= 0x5c00 && addr < 0x6000:
		m.exRAM[addr-0x5c00] = value
	default:
		m.defaultWrite(addr, value)
	}
}

// $5105每2bit选一个象限的来源。只支持映射到两张物理表，
// fill mode记下但不单独渲染
func (m *Mapper5) applyNametableMap() {
	ppu := m.console.PPU
	for q := 0; q < 4; q++ {
		sel := (m.ntMap >> (q * 2)) & 3
		if sel < 2 {
			ppu.ntable1[q] = int(sel)
		} else {
			ppu.ntable1[q] = 0
		}
	}
	// 镜像表要跟着象限映射重建
	mode := byte(MirrorFour)
	switch {
	case ppu.ntable1 == [4]int{0, 0, 1, 1}:
		mode = MirrorHorizontal
	case ppu.ntable1 == [4]int{0, 1, 0, 1}:
		mode = MirrorVertical
	case ppu.ntable1 == [4]int{0, 0, 0, 0}:
		mode = MirrorSingle0
	case ppu.ntable1 == [4]int{1, 1, 1, 1}:
		mode = MirrorSingle1
	}
	ppu.SetMirroring(mode)
}

func (m *Mapper5) updatePrgBanks() {
	// bit7是ROM/RAM选择位，这里只接ROM
	r := func(i int) int { return int(m.prgRegs[i] & 0x7f) }
	switch m.prgMode {
	case 0:
		m.load32kRomBank(r(3)>>2, 0x8000)
	case 1:
		m.loadRomBank(r(1)>>1, 0x8000)
		m.loadRomBank(r(3)>>1, 0xc000)
	case 2:
		m.loadRomBank(r(1)>>1, 0x8000)
		m.load8kRomBank(r(2), 0xc000)
		m.load8kRomBank(r(3), 0xe000)
	default:
		m.load8kRomBank(r(0), 0x8000)
		m.load8kRomBank(r(1), 0xa000)
		m.load8kRomBank(r(2), 0xc000)
		m.load8kRomBank(r(3), 0xe000)
	}
}

func (m *Mapper5) updateChrBanks() {
	r := func(i int) int { return int(m.chrRegs[i]) }
	switch m.chrMode {
	case 0:
		m.load8kVromBank(r(7), 0x0000)
	case 1:
		m.loadVromBank(r(3), 0x0000)
		m.loadVromBank(r(7), 0x1000)
	case 2:
		m.load2kVromBank(r(1), 0x0000)
		m.load2kVromBank(r(3), 0x0800)
		m.load2kVromBank(r(5), 0x1000)
		m.load2kVromBank(r(7), 0x1800)
	default:
		for i := 0; i < 8; i++ {
			m.load1kVromBank(r(i), uint16(i*0x400))
		}
	}
}

// 每条渲染扫描线走一格，到目标行拉IRQ
func (m *Mapper5) ClockIrqCounter() {
	ppu := m.console.PPU
	line := ppu.scanline - 21
	m.inFrame = line >= 0 && line < 240
	if !m.inFrame {
		return
	}
	if byte(line) == m.irqTarget && m.irqTarget != 0 {
		m.irqPending = true
		if m.irqEnable {
			m.console.CPU.RequestIrq(interruptIRQ)
		}
	}
}

func (m *Mapper5) SaveRegs() []int {
	regs := []int{
		int(m.prgMode), int(m.chrMode), int(m.exMode), int(m.ntMap),
		int(m.fillTile), int(m.fillColor),
		int(m.irqTarget), boolInt(m.irqEnable), boolInt(m.irqPending),
		int(m.multA), int(m.multB),
	}
	for _, r := range m.prgRegs {
		regs = append(regs, int(r))
	}
	for _, r := range m.chrRegs {
		regs = append(regs, int(r))
	}
	for _, b := range m.exRAM {
		regs = append(regs, int(b))
	}
	return regs
}

func (m *Mapper5) RestoreRegs(regs []int) error {
	if err := wantRegs(regs, 11+4+12+0x400); err != nil {
		return err
	}
	m.prgMode = byte(regs[0])
	m.chrMode = byte(regs[1])
	m.exMode = byte(regs[2])
	m.ntMap = byte(regs[3])
	m.fillTile = byte(regs[4])
	m.fillColor = byte(regs[5])
	m.irqTarget = byte(regs[6])
	m.irqEnable = regs[7] != 0
	m.irqPending = regs[8] != 0
	m.multA = byte(regs[9])
	m.multB = byte(regs[10])
	for i := range m.prgRegs {
		m.prgRegs[i] = byte(regs[11+i])
	}
	for i := range m.chrRegs {
		m.chrRegs[i] = byte(regs[15+i])
	}
	for i := range m.exRAM {
		m.exRAM[i] = byte(regs[27+i])
	}
	m.applyNametableMap()
	m.updatePrgBanks()
	m.updateChrBanks()
	return nil
}
