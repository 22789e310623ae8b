package nes

/*
Mapper 4 (MMC3)
8个bank寄存器由$8000的低3bit选择，$8001写数据。
D6是PRG布局倒置，D7是CHR的A12倒置。
IRQ计数器由PPU在每条渲染扫描线的分界上打一下（近似A12上升沿），
减到0（从latch重载后）时拉IRQ线。

寄存器含义:
R0/R1: 2kb CHR bank（忽略bit0）
R2-R5: 1kb CHR bank
R6/R7: 8kb PRG bank
*/
type Mapper4 struct {
	mapperBase
	regIndex   byte
	registers  [8]byte
	prgMode    byte
	chrMode    byte
	reload     byte // IRQ计数器重载值
	counter    byte
	irqEnable  bool
	mirrorBit  byte
}

func (m *Mapper4) LoadROM() error {
	m.loadCommon()
	m.registers = [8]byte{0, 2, 4, 5, 6, 7, 0, 1}
	m.updateBanks()
	return nil
}

func (m *Mapper4) Reset() {
	m.regIndex = 0
	m.prgMode = 0
	m.chrMode = 0
	m.reload = 0
	m.counter = 0
	m.irqEnable = false
	m.registers = [8]byte{0, 2, 4, 5, 6, 7, 0, 1}
	m.loadSRAM()
	m.updateBanks()
}

func (m *Mapper4) Write(addr uint16, value byte) {
	if addr < 0x8000 {
		m.defaultWrite(addr, value)
		return
	}
	even := addr&1 == 0
	switch {
	case addr <= 0x9fff:
		if even {
			m.regIndex = value & 7
			m.prgMode = (value >> 6) & 1
			m.chrMode = (value >> 7) & 1
		} else {
			m.registers[m.regIndex] = value
		}
		m.updateBanks()
	case addr <= 0xbfff:
		if even {
			m.mirrorBit = value & 1
			if m.console.Card.Mirror != MirrorFour {
				if m.mirrorBit == 0 {
					m.console.PPU.SetMirroring(MirrorVertical)
				} else {
					m.console.PPU.SetMirroring(MirrorHorizontal)
				}
			}
		}
		// 奇地址是PRG-RAM保护，这里不需要管
	case addr <= 0xdfff:
		if even {
			m.reload = value
		} else {
			m.counter = 0
		}
	default:
		if even {
			m.irqEnable = false
		} else {
			m.irqEnable = true
		}
	}
}

func (m *Mapper4) updateBanks() {
	// PRG：一对可切换8kb加一对固定在尾部的8kb
	if m.prgMode == 0 {
		m.load8kRomBank(int(m.registers[6]), 0x8000)
		m.load8kRomBank(int(m.registers[7]), 0xa000)
		m.load8kRomBank(-2, 0xc000)
		m.load8kRomBank(-1, 0xe000)
	} else {
		m.load8kRomBank(-2, 0x8000)
		m.load8kRomBank(int(m.registers[7]), 0xa000)
		m.load8kRomBank(int(m.registers[6]), 0xc000)
		m.load8kRomBank(-1, 0xe000)
	}

	// CHR：两个2kb加四个1kb，chrMode决定哪半边放哪组
	if m.chrMode == 0 {
		m.load2kVromBank(int(m.registers[0]>>1), 0x0000)
		m.load2kVromBank(int(m.registers[1]>>1), 0x0800)
		m.load1kVromBank(int(m.registers[2]), 0x1000)
		m.load1kVromBank(int(m.registers[3]), 0x1400)
		m.load1kVromBank(int(m.registers[4]), 0x1800)
		m.load1kVromBank(int(m.registers[5]), 0x1c00)
	} else {
		m.load1kVromBank(int(m.registers[2]), 0x0000)
		m.load1kVromBank(int(m.registers[3]), 0x0400)
		m.load1kVromBank(int(m.registers[4]), 0x0800)
		m.load1kVromBank(int(m.registers[5]), 0x0c00)
		m.load2kVromBank(int(m.registers[0]>>1), 0x1000)
		m.load2kVromBank(int(m.registers[1]>>1), 0x1800)
	}
}

// PPU在每条渲染扫描线上打一次
func (m *Mapper4) ClockIrqCounter() {
	if m.counter == 0 {
		m.counter = m.reload
	} else {
		m.counter--
		if m.counter == 0 && m.irqEnable {
			m.console.CPU.RequestIrq(interruptIRQ)
		}
	}
}

func (m *Mapper4) SaveRegs() []int {
	regs := make([]int, 0, 14)
	regs = append(regs, int(m.regIndex), int(m.prgMode), int(m.chrMode),
		int(m.reload), int(m.counter), boolInt(m.irqEnable))
	for _, r := range m.registers {
		regs = append(regs, int(r))
	}
	return regs
}

func (m *Mapper4) RestoreRegs(regs []int) error {
	if err := wantRegs(regs, 14); err != nil {
		return err
	}
	m.regIndex = byte(regs[0])
	m.prgMode = byte(regs[1])
	m.chrMode = byte(regs[2])
	m.reload = byte(regs[3])
	m.counter = byte(regs[4])
	m.irqEnable = regs[5] != 0
	for i := range m.registers {
		m.registers[i] = byte(regs[6+i])
	}
	m.updateBanks()
	return nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
