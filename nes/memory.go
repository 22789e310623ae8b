package nes

/*
CPU地址空间:
[$0000, $2000) 内部RAM 2kb，每$800镜像一次
[$2000, $4000) PPU寄存器，每8个镜像
[$4000, $4018) APU与IO寄存器
[$4018, $6000) 扩展区，默认open bus
[$6000, $8000) 卡带SRAM
[$8000, $10000) PRG-ROM，由mapper拷bank进来

所有mapper共用这里的解码逻辑，bank切换各自在Write里加。
读不到东西的地址返回数据总线上的残留值（open bus）。
*/
type mapperBase struct {
	console *Console
}

func (b *mapperBase) Load(addr uint16) byte {
	console := b.console
	cpu := console.CPU
	switch {
	case addr < 0x2000:
		return cpu.mem[addr&0x7ff]
	case addr < 0x4000:
		return console.PPU.ReadRegister(0x2000 + addr%8)
	case addr == 0x4015:
		return console.APU.ReadStatus()
	case addr == 0x4016:
		return console.joy1Read()
	case addr == 0x4017:
		return console.joy2Read()
	case addr < 0x6000:
		// $4000-$4014、$4018-$5FFF：write-only或没接东西，读到open bus
		return cpu.dataBus
	default:
		return b.loadPRG(addr)
	}
}

// $6000以上的读，$8000+带Game Genie替换钩子
func (b *mapperBase) loadPRG(addr uint16) byte {
	value := b.console.CPU.mem[addr]
	if addr >= 0x8000 {
		value = b.console.Genie.Substitute(addr, value)
	}
	return value
}

func (b *mapperBase) defaultWrite(addr uint16, value byte) {
	console := b.console
	cpu := console.CPU
	switch {
	case addr < 0x2000:
		cpu.mem[addr&0x7ff] = value
	case addr < 0x4000:
		console.PPU.WriteRegister(0x2000+addr%8, value)
	case addr == 0x4014:
		b.writeDMA(value)
	case addr == 0x4016:
		console.Controller1.Write(value)
		console.Controller2.Write(value)
	case addr < 0x4018:
		console.APU.WriteRegister(addr, value)
	case addr < 0x6000:
		// 扩展区默认不接
	case addr < 0x8000:
		cpu.mem[addr] = value
		// 卡带侧的SRAM副本同步写，reset重载时不会丢
		console.Card.SRAM[addr-0x6000] = value
		if console.opts.OnBatteryRamWrite != nil {
			console.opts.OnBatteryRamWrite(addr, value)
		}
	default:
		// $8000+ 默认没有bank切换
	}
}

// $4014 OAM DMA：从$XX00开始拷256字节进精灵内存，
// 起点是当前OAM指针，会回绕；CPU停513个周期
func (b *mapperBase) writeDMA(value byte) {
	console := b.console
	cpu := console.CPU
	ppu := console.PPU
	addr := uint16(value) << 8
	for i := 0; i < 256; i++ {
		v := console.Mapper.Load(addr)
		cpu.dataBus = v
		ppu.spriteMem[ppu.oamAddress] = v
		ppu.spriteRamWriteUpdate(ppu.oamAddress, v)
		ppu.oamAddress++
		addr++
	}
	cpu.HaltCycles(513)
}

/*
bank载入：把卡带ROM按块拷进CPU/PPU的平坦内存。
bank号都按各自的块数取模，负数从尾部数。
*/
func bankMod(bank, count int) int {
	if count == 0 {
		return 0
	}
	return ((bank % count) + count) % count
}

// 16kb PRG bank
func (b *mapperBase) loadRomBank(bank int, address uint16) {
	card := b.console.Card
	bank = bankMod(bank, card.PrgBankCount())
	copy(b.console.CPU.mem[address:int(address)+0x4000], card.PRG[bank*0x4000:])
}

// 8kb PRG bank
func (b *mapperBase) load8kRomBank(bank int, address uint16) {
	card := b.console.Card
	bank = bankMod(bank, len(card.PRG)/0x2000)
	copy(b.console.CPU.mem[address:int(address)+0x2000], card.PRG[bank*0x2000:])
}

// 32kb PRG一次全换
func (b *mapperBase) load32kRomBank(bank int, address uint16) {
	card := b.console.Card
	count := len(card.PRG) / 0x8000
	if count == 0 {
		// 不足32kb的卡带退回16kb加载
		b.loadRomBank(bank*2, address)
		b.loadRomBank(bank*2+1, address+0x4000)
		return
	}
	bank = bankMod(bank, count)
	copy(b.console.CPU.mem[address:int(address)+0x8000], card.PRG[bank*0x8000:])
}

// 4kb CHR bank，拷完刷新tile缓存
func (b *mapperBase) loadVromBank(bank int, address uint16) {
	console := b.console
	card := console.Card
	bank = bankMod(bank, card.ChrBankCount())
	copy(console.PPU.vram[address:int(address)+0x1000], card.CHR[bank*0x1000:])
	console.PPU.decodeTiles(int(address), 0x1000)
}

func (b *mapperBase) load1kVromBank(bank int, address uint16) {
	console := b.console
	card := console.Card
	bank = bankMod(bank, len(card.CHR)/0x400)
	copy(console.PPU.vram[address:int(address)+0x400], card.CHR[bank*0x400:])
	console.PPU.decodeTiles(int(address), 0x400)
}

func (b *mapperBase) load2kVromBank(bank int, address uint16) {
	console := b.console
	card := console.Card
	bank = bankMod(bank, len(card.CHR)/0x800)
	copy(console.PPU.vram[address:int(address)+0x800], card.CHR[bank*0x800:])
	console.PPU.decodeTiles(int(address), 0x800)
}

// 8kb CHR即两个4kb
func (b *mapperBase) load8kVromBank(bank8k int, address uint16) {
	b.loadVromBank(bank8k*2, address)
	b.loadVromBank(bank8k*2+1, address+0x1000)
}

// NROM式的默认布局：第一个bank在$8000，最后一个在$C000
func (b *mapperBase) loadCommon() {
	b.loadRomBank(0, 0x8000)
	b.loadRomBank(-1, 0xc000)
	b.load8kVromBank(0, 0x0000)
	b.loadSRAM()
	b.console.PPU.chrWritable = b.console.Card.ChrRAM
	b.console.PPU.SetMirroring(b.console.Card.Mirror)
}

func (b *mapperBase) loadSRAM() {
	copy(b.console.CPU.mem[0x6000:0x8000], b.console.Card.SRAM)
}

// 默认实现，没有IRQ计数也没有latch的mapper直接继承
func (b *mapperBase) ClockIrqCounter()        {}
func (b *mapperBase) LatchAccess(addr uint16) {}
func (b *mapperBase) SaveRegs() []int         { return nil }
func (b *mapperBase) RestoreRegs(regs []int) error {
	return nil
}
