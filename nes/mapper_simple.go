package nes

/*
一写一换的简单mapper族。
各自只在特定地址段接一个bank选择寄存器，其余全走默认解码。
*/

// Mapper 2 (UNROM)
// $8000+写bank号：16kb换入$8000，最后一个bank固定在$C000
// 魂斗罗/沙罗曼蛇都是这个
type Mapper2 struct {
	mapperBase
	prgBank byte
}

func (m *Mapper2) LoadROM() error {
	m.loadCommon()
	return nil
}

func (m *Mapper2) Reset() {
	m.prgBank = 0
	m.loadCommon()
}

func (m *Mapper2) Write(addr uint16, value byte) {
	if addr < 0x8000 {
		m.defaultWrite(addr, value)
		return
	}
	m.prgBank = value
	m.loadRomBank(int(value), 0x8000)
}

func (m *Mapper2) SaveRegs() []int { return []int{int(m.prgBank)} }

func (m *Mapper2) RestoreRegs(regs []int) error {
	if err := wantRegs(regs, 1); err != nil {
		return err
	}
	m.prgBank = byte(regs[0])
	m.loadRomBank(int(m.prgBank), 0x8000)
	return nil
}

// Mapper 3 (CNROM)
// $8000+写8kb CHR bank号
type Mapper3 struct {
	mapperBase
	chrBank byte
}

func (m *Mapper3) LoadROM() error {
	m.loadCommon()
	return nil
}

func (m *Mapper3) Reset() {
	m.chrBank = 0
	m.loadCommon()
}

func (m *Mapper3) Write(addr uint16, value byte) {
	if addr < 0x8000 {
		m.defaultWrite(addr, value)
		return
	}
	m.chrBank = value
	m.load8kVromBank(int(value), 0x0000)
}

func (m *Mapper3) SaveRegs() []int { return []int{int(m.chrBank)} }

func (m *Mapper3) RestoreRegs(regs []int) error {
	if err := wantRegs(regs, 1); err != nil {
		return err
	}
	m.chrBank = byte(regs[0])
	m.load8kVromBank(int(m.chrBank), 0x0000)
	return nil
}

// Mapper 7 (AxROM)
// 32kb PRG整体切换，D4选单屏镜像用哪张表
type Mapper7 struct {
	mapperBase
	reg byte
}

func (m *Mapper7) LoadROM() error {
	m.loadCommon()
	m.console.PPU.SetMirroring(MirrorSingle0)
	return nil
}

func (m *Mapper7) Reset() {
	m.reg = 0
	m.loadCommon()
	m.console.PPU.SetMirroring(MirrorSingle0)
}

func (m *Mapper7) Write(addr uint16, value byte) {
	if addr < 0x8000 {
		m.defaultWrite(addr, value)
		return
	}
	m.reg = value
	m.load32kRomBank(int(value&7), 0x8000)
	if value&0x10 == 0 {
		m.console.PPU.SetMirroring(MirrorSingle0)
	} else {
		m.console.PPU.SetMirroring(MirrorSingle1)
	}
}

func (m *Mapper7) SaveRegs() []int { return []int{int(m.reg)} }

func (m *Mapper7) RestoreRegs(regs []int) error {
	if err := wantRegs(regs, 1); err != nil {
		return err
	}
	m.Write(0x8000, byte(regs[0]))
	return nil
}

// Mapper 11 (Color Dreams)
// 一次写同时换32kb PRG（低2bit）和8kb CHR（高4bit）
type Mapper11 struct {
	mapperBase
	reg byte
}

func (m *Mapper11) LoadROM() error {
	m.loadCommon()
	return nil
}

func (m *Mapper11) Reset() {
	m.reg = 0
	m.loadCommon()
}

func (m *Mapper11) Write(addr uint16, value byte) {
	if addr < 0x8000 {
		m.defaultWrite(addr, value)
		return
	}
	m.reg = value
	m.load32kRomBank(int(value&3), 0x8000)
	m.load8kVromBank(int(value>>4), 0x0000)
}

func (m *Mapper11) SaveRegs() []int { return []int{int(m.reg)} }

func (m *Mapper11) RestoreRegs(regs []int) error {
	if err := wantRegs(regs, 1); err != nil {
		return err
	}
	m.Write(0x8000, byte(regs[0]))
	return nil
}

// Mapper 34 (BNROM)
// $8000+写32kb PRG bank号
type Mapper34 struct {
	mapperBase
	reg byte
}

func (m *Mapper34) LoadROM() error {
	m.loadCommon()
	return nil
}

func (m *Mapper34) Reset() {
	m.reg = 0
	m.loadCommon()
}

func (m *Mapper34) Write(addr uint16, value byte) {
	if addr < 0x8000 {
		m.defaultWrite(addr, value)
		return
	}
	m.reg = value
	m.load32kRomBank(int(value), 0x8000)
}

func (m *Mapper34) SaveRegs() []int { return []int{int(m.reg)} }

func (m *Mapper34) RestoreRegs(regs []int) error {
	if err := wantRegs(regs, 1); err != nil {
		return err
	}
	m.Write(0x8000, byte(regs[0]))
	return nil
}

// Mapper 38
// 寄存器在$7000-$7FFF：低2bit选32kb PRG，D2-D3选8kb CHR
type Mapper38 struct {
	mapperBase
	reg byte
}

func (m *Mapper38) LoadROM() error {
	m.loadCommon()
	return nil
}

func (m *Mapper38) Reset() {
	m.reg = 0
	m.loadCommon()
}

func (m *Mapper38) Write(addr uint16, value byte) {
	if addr >= 0x7000 && addr < 0x8000 {
		m.reg = value
		m.load32kRomBank(int(value&3), 0x8000)
		m.load8kVromBank(int(value>>2)&3, 0x0000)
		return
	}
	m.defaultWrite(addr, value)
}

func (m *Mapper38) SaveRegs() []int { return []int{int(m.reg)} }

func (m *Mapper38) RestoreRegs(regs []int) error {
	if err := wantRegs(regs, 1); err != nil {
		return err
	}
	m.Write(0x7000, byte(regs[0]))
	return nil
}

// Mapper 66 (GxROM)
// D4-D5选32kb PRG，D0-D1选8kb CHR
type Mapper66 struct {
	mapperBase
	reg byte
}

func (m *Mapper66) LoadROM() error {
	m.loadCommon()
	return nil
}

func (m *Mapper66) Reset() {
	m.reg = 0
	m.loadCommon()
}

func (m *Mapper66) Write(addr uint16, value byte) {
	if addr < 0x8000 {
		m.defaultWrite(addr, value)
		return
	}
	m.reg = value
	m.load32kRomBank(int(value>>4)&3, 0x8000)
	m.load8kVromBank(int(value&3), 0x0000)
}

func (m *Mapper66) SaveRegs() []int { return []int{int(m.reg)} }

func (m *Mapper66) RestoreRegs(regs []int) error {
	if err := wantRegs(regs, 1); err != nil {
		return err
	}
	m.Write(0x8000, byte(regs[0]))
	return nil
}

// Mapper 94 (UN1ROM)
// UNROM变种，bank号在D2-D4
type Mapper94 struct {
	mapperBase
	reg byte
}

func (m *Mapper94) LoadROM() error {
	m.loadCommon()
	return nil
}

func (m *Mapper94) Reset() {
	m.reg = 0
	m.loadCommon()
}

func (m *Mapper94) Write(addr uint16, value byte) {
	if addr < 0x8000 {
		m.defaultWrite(addr, value)
		return
	}
	m.reg = value
	m.loadRomBank(int(value>>2)&7, 0x8000)
}

func (m *Mapper94) SaveRegs() []int { return []int{int(m.reg)} }

func (m *Mapper94) RestoreRegs(regs []int) error {
	if err := wantRegs(regs, 1); err != nil {
		return err
	}
	m.Write(0x8000, byte(regs[0]))
	return nil
}

// Mapper 140
// 寄存器在$6000-$7FFF：D4-D5选32kb PRG，低nibble选8kb CHR
type Mapper140 struct {
	mapperBase
	reg byte
}

func (m *Mapper140) LoadROM() error {
	m.loadCommon()
	return nil
}

func (m *Mapper140) Reset() {
	m.reg = 0
	m.loadCommon()
}

func (m *Mapper140) Write(addr uint16, value byte) {
	if addr >= 0x6000 && addr < 0x8000 {
		m.reg = value
		m.load32kRomBank(int(value>>4)&3, 0x8000)
		m.load8kVromBank(int(value&0xf), 0x0000)
		return
	}
	m.defaultWrite(addr, value)
}

func (m *Mapper140) SaveRegs() []int { return []int{int(m.reg)} }

func (m *Mapper140) RestoreRegs(regs []int) error {
	if err := wantRegs(regs, 1); err != nil {
		return err
	}
	m.Write(0x6000, byte(regs[0]))
	return nil
}

// Mapper 180 (Crazy Climber)
// UNROM的反面：$8000固定第一个bank，$C000可切换
type Mapper180 struct {
	mapperBase
	reg byte
}

func (m *Mapper180) LoadROM() error {
	m.loadRomBank(0, 0x8000)
	m.loadRomBank(0, 0xc000)
	m.load8kVromBank(0, 0x0000)
	m.loadSRAM()
	m.console.PPU.chrWritable = m.console.Card.ChrRAM
	m.console.PPU.SetMirroring(m.console.Card.Mirror)
	return nil
}

func (m *Mapper180) Reset() {
	m.reg = 0
	m.LoadROM()
}

func (m *Mapper180) Write(addr uint16, value byte) {
	if addr < 0x8000 {
		m.defaultWrite(addr, value)
		return
	}
	m.reg = value
	m.loadRomBank(int(value&7), 0xc000)
}

func (m *Mapper180) SaveRegs() []int { return []int{int(m.reg)} }

func (m *Mapper180) RestoreRegs(regs []int) error {
	if err := wantRegs(regs, 1); err != nil {
		return err
	}
	m.Write(0x8000, byte(regs[0]))
	return nil
}

// Mapper 240
// 寄存器挂在$4020-$5FFF：D4-D5选32kb PRG，低nibble选8kb CHR
type Mapper240 struct {
	mapperBase
	reg byte
}

func (m *Mapper240) LoadROM() error {
	m.loadCommon()
	return nil
}

func (m *Mapper240) Reset() {
	m.reg = 0
	m.loadCommon()
}

func (m *Mapper240) Write(addr uint16, value byte) {
	if addr >= 0x4020 && addr < 0x6000 {
		m.reg = value
		m.load32kRomBank(int(value>>4)&3, 0x8000)
		m.load8kVromBank(int(value&0xf), 0x0000)
		return
	}
	m.defaultWrite(addr, value)
}

func (m *Mapper240) SaveRegs() []int { return []int{int(m.reg)} }

func (m *Mapper240) RestoreRegs(regs []int) error {
	if err := wantRegs(regs, 1); err != nil {
		return err
	}
	m.Write(0x4020, byte(regs[0]))
	return nil
}

// Mapper 241
// $8000+写32kb PRG bank号
type Mapper241 struct {
	mapperBase
	reg byte
}

func (m *Mapper241) LoadROM() error {
	m.loadCommon()
	return nil
}

func (m *Mapper241) Reset() {
	m.reg = 0
	m.loadCommon()
}

func (m *Mapper241) Write(addr uint16, value byte) {
	if addr < 0x8000 {
		m.defaultWrite(addr, value)
		return
	}
	m.reg = value
	m.load32kRomBank(int(value), 0x8000)
}

func (m *Mapper241) SaveRegs() []int { return []int{int(m.reg)} }

func (m *Mapper241) RestoreRegs(regs []int) error {
	if err := wantRegs(regs, 1); err != nil {
		return err
	}
	m.Write(0x8000, byte(regs[0]))
	return nil
}
