package nes

import (
	"testing"
)

func TestFrameIrqInhibit(t *testing.T) {
	console := newTestConsole(t, []byte{0xea})
	apu := console.APU

	// bit6置位：清掉激活的IRQ且之后不再产生
	apu.frameIrqActive = true
	apu.WriteRegister(0x4017, 0x40)
	if apu.frameIrqActive {
		t.Fatal("writing $4017 bit6 should clear the active frame irq")
	}

	// 跑一个完整的4步序列
	apu.ClockFrameCounter(framePeriod4 + 100)
	if status := apu.ReadStatus(); status&0x40 != 0 {
		t.Fatalf("$4015 bit6 = 1 after inhibited sequence, status=%02x", status)
	}
}

func TestFrameIrqFires(t *testing.T) {
	console := newTestConsole(t, []byte{0xea})
	apu := console.APU

	apu.WriteRegister(0x4017, 0x00)
	apu.ClockFrameCounter(framePeriod4 + 100)
	if !apu.frameIrqActive {
		t.Fatal("4-step sequence should raise the frame irq")
	}
	if !console.CPU.irqPending {
		t.Fatal("frame irq should reach the cpu")
	}
	// 读$4015报告bit6并清除
	if status := apu.ReadStatus(); status&0x40 == 0 {
		t.Fatal("$4015 should report the frame irq")
	}
	if apu.frameIrqActive {
		t.Fatal("$4015 read should clear the frame irq")
	}
}

func TestFrameCounterStepBoundaries(t *testing.T) {
	console := newTestConsole(t, []byte{0xea})
	apu := console.APU

	// 拉起方波1的长度计数器
	apu.WriteRegister(0x4015, 0x01)
	apu.WriteRegister(0x4003, 0x00) // 长度索引0 -> 10
	before := apu.pulse1.lengthValue

	// 第一个quarter(7457)不动长度，half(14913)才动
	apu.ClockFrameCounter(7460)
	if apu.pulse1.lengthValue != before {
		t.Fatal("quarter frame must not clock the length counter")
	}
	apu.ClockFrameCounter(14920 - 7460)
	if apu.pulse1.lengthValue != before-1 {
		t.Fatalf("half frame should clock the length counter, got %d", apu.pulse1.lengthValue)
	}
}

func TestFiveStepImmediateClock(t *testing.T) {
	console := newTestConsole(t, []byte{0xea})
	apu := console.APU

	apu.WriteRegister(0x4015, 0x01)
	apu.WriteRegister(0x4003, 0x00)
	before := apu.pulse1.lengthValue

	// 写5步模式立刻出一次quarter+half
	apu.WriteRegister(0x4017, 0x80)
	if apu.pulse1.lengthValue != before-1 {
		t.Fatal("switching to 5-step mode should clock length immediately")
	}
}

func TestStatusChannelBits(t *testing.T) {
	console := newTestConsole(t, []byte{0xea})
	apu := console.APU

	apu.WriteRegister(0x4015, 0x0f)
	apu.WriteRegister(0x4003, 0x00) // pulse1长度
	apu.WriteRegister(0x400f, 0x00) // noise长度
	status := apu.ReadStatus()
	if status&0x01 == 0 || status&0x08 == 0 {
		t.Fatalf("status %02x should have pulse1 and noise length bits", status)
	}

	// 关掉声道清长度
	apu.WriteRegister(0x4015, 0x00)
	if status := apu.ReadStatus(); status&0x0f != 0 {
		t.Fatalf("disabling channels should zero lengths, status=%02x", status)
	}
}

func TestDmcDma(t *testing.T) {
	console := newTestConsole(t, []byte{0xea})
	apu := console.APU
	cpu := console.CPU

	// 样本放在$C400: $4012=0x10 -> $C000+0x10*64
	cpu.mem[0xc400] = 0xa5
	apu.WriteRegister(0x4010, 0x00)
	apu.WriteRegister(0x4012, 0x10)
	apu.WriteRegister(0x4013, 0x01) // 长度 1*16+1 = 17
	apu.WriteRegister(0x4015, 0x10)

	if apu.dmc.currentLength != 17 {
		t.Fatalf("dmc length %d, want 17", apu.dmc.currentLength)
	}
	if apu.dmc.sampleAddress != 0xc400 {
		t.Fatalf("dmc sample address %04x, want c400", apu.dmc.sampleAddress)
	}

	// 推进到第一次取样：CPU被停4个周期，字节留在总线上
	apu.ClockChannels(8)
	if cpu.cyclesToHalt < 4 {
		t.Fatalf("dmc fetch should steal 4 cycles, got %d", cpu.cyclesToHalt)
	}
	if cpu.dataBus != 0xa5 {
		t.Fatalf("dmc fetch should hijack the data bus, bus=%02x", cpu.dataBus)
	}
}

func TestDmcIrqNotClearedByStatusRead(t *testing.T) {
	console := newTestConsole(t, []byte{0xea})
	apu := console.APU

	apu.dmcIrqActive = true
	status := apu.ReadStatus()
	if status&0x80 == 0 {
		t.Fatal("$4015 should report the dmc irq")
	}
	if !apu.dmcIrqActive {
		t.Fatal("$4015 read must not clear the dmc irq")
	}
	// $4015写才清
	apu.WriteRegister(0x4015, 0x00)
	if apu.dmcIrqActive {
		t.Fatal("$4015 write should clear the dmc irq")
	}
}

func TestStatusOpenBusBit(t *testing.T) {
	console := newTestConsole(t, []byte{0xea})
	console.CPU.dataBus = 0xff
	if status := console.APU.ReadStatus(); status&0x20 == 0 {
		t.Fatal("$4015 bit5 should come from the data bus")
	}
}
