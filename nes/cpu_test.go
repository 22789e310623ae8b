package nes

import (
	"io/ioutil"
	"os"
	"strings"
	"testing"
)

func TestOpenBusReadReturnsDataBus(t *testing.T) {
	// LDA $4000：没接东西的地址读到总线残留值，
	// 也就是刚取完的操作数高字节$40
	console := newTestConsole(t, []byte{0xad, 0x00, 0x40})
	stepInstructions(t, console, 1)
	if console.CPU.A != 0x40 {
		t.Fatalf("open bus read got %02x, want 40", console.CPU.A)
	}
}

func TestJmpIndirectPageWrapBug(t *testing.T) {
	// JMP ($02FF)：高字节从$0200取而不是$0300
	console := newTestConsole(t, []byte{0x6c, 0xff, 0x02})
	console.CPU.mem[0x02ff] = 0x34
	console.CPU.mem[0x0200] = 0x12
	console.CPU.mem[0x0300] = 0x56
	stepInstructions(t, console, 1)
	if console.CPU.PC != 0x1234 {
		t.Fatalf("PC = %04x, want 1234", console.CPU.PC)
	}
}

func TestIndexedStoreAlwaysDummyReads(t *testing.T) {
	// STA $2000,X（X=2，不跨页）的dummy read落在$2002，
	// 会像真的读一样清掉VBlank标志
	console := newTestConsole(t, []byte{
		0xa2, 0x02, // LDX #$02
		0x9d, 0x00, 0x20, // STA $2000,X
	})
	console.PPU.vblankFlag = true
	stepInstructions(t, console, 2)
	if console.PPU.vblankFlag {
		t.Fatal("dummy read of $2002 should clear vblank flag")
	}
}

func TestJsrLeavesTargetHighOnDataBus(t *testing.T) {
	// JSR $9034：目标高字节是最后一个总线操作
	console := newTestConsole(t, []byte{0x20, 0x34, 0x90})
	stepInstructions(t, console, 1)
	if console.CPU.dataBus != 0x90 {
		t.Fatalf("dataBus = %02x, want 90", console.CPU.dataBus)
	}
	if console.CPU.PC != 0x9034 {
		t.Fatalf("PC = %04x, want 9034", console.CPU.PC)
	}
	// 返回地址（指令末字节）已经在栈上
	hi := console.CPU.mem[0x01fd]
	lo := console.CPU.mem[0x01fc]
	if hi != 0x80 || lo != 0x02 {
		t.Fatalf("stacked return address %02x%02x, want 8002", hi, lo)
	}
}

func TestAdcFlags(t *testing.T) {
	cases := []struct {
		a, m, cin  byte
		result     byte
		c, z, v, n byte
	}{
		{0x01, 0x01, 0, 0x02, 0, 0, 0, 0},
		{0x7f, 0x01, 0, 0x80, 0, 0, 1, 1},
		{0xff, 0x01, 0, 0x00, 1, 1, 0, 0},
		{0x80, 0x80, 0, 0x00, 1, 1, 1, 0},
		{0x50, 0x50, 1, 0xa1, 0, 0, 1, 1},
	}
	for _, tc := range cases {
		console := newTestConsole(t, []byte{0x69, tc.m}) // ADC #imm
		cpu := console.CPU
		cpu.A = tc.a
		cpu.C = tc.cin
		stepInstructions(t, console, 1)
		if cpu.A != tc.result || cpu.C != tc.c || cpu.Z != tc.z || cpu.V != tc.v || cpu.N != tc.n {
			t.Errorf("ADC %02x+%02x+%d: A=%02x C=%d Z=%d V=%d N=%d, want A=%02x C=%d Z=%d V=%d N=%d",
				tc.a, tc.m, tc.cin, cpu.A, cpu.C, cpu.Z, cpu.V, cpu.N,
				tc.result, tc.c, tc.z, tc.v, tc.n)
		}
	}
}

func TestUnofficialOpcodes(t *testing.T) {
	t.Run("LAX", func(t *testing.T) {
		console := newTestConsole(t, []byte{0xa7, 0x10}) // LAX $10
		console.CPU.mem[0x10] = 0x5a
		stepInstructions(t, console, 1)
		if console.CPU.A != 0x5a || console.CPU.X != 0x5a {
			t.Fatalf("LAX: A=%02x X=%02x, want 5a 5a", console.CPU.A, console.CPU.X)
		}
	})
	t.Run("SAX", func(t *testing.T) {
		console := newTestConsole(t, []byte{0x87, 0x10}) // SAX $10
		console.CPU.A = 0xf0
		console.CPU.X = 0x3c
		stepInstructions(t, console, 1)
		if console.CPU.mem[0x10] != 0x30 {
			t.Fatalf("SAX: mem=%02x, want 30", console.CPU.mem[0x10])
		}
	})
	t.Run("SLO", func(t *testing.T) {
		console := newTestConsole(t, []byte{0x07, 0x10}) // SLO $10
		console.CPU.mem[0x10] = 0x81
		console.CPU.A = 0x01
		stepInstructions(t, console, 1)
		if console.CPU.mem[0x10] != 0x02 {
			t.Fatalf("SLO: mem=%02x, want 02", console.CPU.mem[0x10])
		}
		if console.CPU.A != 0x03 {
			t.Fatalf("SLO: A=%02x, want 03", console.CPU.A)
		}
		if console.CPU.C != 1 {
			t.Fatal("SLO: carry should take the shifted-out bit")
		}
	})
	t.Run("DCP", func(t *testing.T) {
		console := newTestConsole(t, []byte{0xc7, 0x10}) // DCP $10
		console.CPU.mem[0x10] = 0x11
		console.CPU.A = 0x10
		stepInstructions(t, console, 1)
		if console.CPU.mem[0x10] != 0x10 {
			t.Fatalf("DCP: mem=%02x, want 10", console.CPU.mem[0x10])
		}
		if console.CPU.Z != 1 || console.CPU.C != 1 {
			t.Fatalf("DCP compare flags Z=%d C=%d, want 1 1", console.CPU.Z, console.CPU.C)
		}
	})
	t.Run("AXS", func(t *testing.T) {
		console := newTestConsole(t, []byte{0xcb, 0x02}) // AXS #$02
		console.CPU.A = 0x0f
		console.CPU.X = 0x07
		stepInstructions(t, console, 1)
		if console.CPU.X != 0x05 || console.CPU.C != 1 {
			t.Fatalf("AXS: X=%02x C=%d, want 05 1", console.CPU.X, console.CPU.C)
		}
	})
	t.Run("ANE magic constant", func(t *testing.T) {
		console := newTestConsole(t, []byte{0x8b, 0x55}) // XAA #$55
		console.CPU.A = 0x00
		console.CPU.X = 0xff
		stepInstructions(t, console, 1)
		// magic=$FF时结果就是 X & imm
		if console.CPU.A != 0x55 {
			t.Fatalf("ANE: A=%02x, want 55", console.CPU.A)
		}
	})
	t.Run("SHX high byte mask", func(t *testing.T) {
		// SHX $0110,Y (Y=0)：写入 X & ($01+1)
		console := newTestConsole(t, []byte{0x9e, 0x10, 0x01})
		console.CPU.X = 0xff
		stepInstructions(t, console, 1)
		if console.CPU.mem[0x0110] != 0x02 {
			t.Fatalf("SHX: mem=%02x, want 02", console.CPU.mem[0x0110])
		}
	})
}

func TestRMWWritesBack(t *testing.T) {
	console := newTestConsole(t, []byte{0xe6, 0x10}) // INC $10
	console.CPU.mem[0x10] = 0x41
	stepInstructions(t, console, 1)
	if console.CPU.mem[0x10] != 0x42 {
		t.Fatalf("INC: mem=%02x, want 42", console.CPU.mem[0x10])
	}
	// RMW的最后一个总线操作是写新值
	if console.CPU.dataBus != 0x42 {
		t.Fatalf("dataBus = %02x, want 42", console.CPU.dataBus)
	}
}

func TestInvalidOpcode(t *testing.T) {
	console := newTestConsole(t, []byte{0x02})
	_, err := console.CPU.Emulate()
	if err == nil {
		t.Fatal("KIL slot should report invalid opcode")
	}
}

func TestInterruptPriorityAndMasking(t *testing.T) {
	console := newTestConsole(t, []byte{0xea, 0xea, 0xea}) // NOP NOP NOP
	cpu := console.CPU
	// 向量
	cpu.mem[0xfffa] = 0x00
	cpu.mem[0xfffb] = 0x90 // NMI -> $9000
	cpu.mem[0xfffe] = 0x00
	cpu.mem[0xffff] = 0xa0 // IRQ -> $A000
	cpu.mem[0x9000] = 0xea // NMI入口放一个NOP
	// 两个同时挂起，NMI优先；I置位也拦不住NMI
	cpu.I = 1
	cpu.RequestIrq(interruptNMI)
	cpu.RequestIrq(interruptIRQ)
	stepInstructions(t, console, 1)
	if cpu.PC != 0x9001 {
		t.Fatalf("after NMI dispatch PC=%04x, want 9001", cpu.PC)
	}
	// 压栈的状态字节里B位是0
	pushed := cpu.mem[0x0100+uint16(cpu.SP)+1]
	if pushed&0x10 != 0 {
		t.Fatalf("hardware interrupt pushed status %02x with B set", pushed)
	}
	// IRQ被I挡住，仍然挂起
	if !cpu.irqPending {
		t.Fatal("masked IRQ should stay pending")
	}
}

func TestCPUTraceLogsInstructions(t *testing.T) {
	var lines []string
	console := NewConsole(
		WithSound(false),
		WithCPUTrace(true),
		WithStatusCallback(func(msg string) { lines = append(lines, msg) }),
	)
	if err := console.LoadROM(makeTestROM([]byte{0xa9, 0x42})); err != nil { // LDA #$42
		t.Fatal(err)
	}
	lines = nil // 丢掉装载时的状态行
	stepInstructions(t, console, 1)

	if len(lines) != 1 {
		t.Fatalf("trace produced %d lines, want 1", len(lines))
	}
	if !strings.Contains(lines[0], "8000") || !strings.Contains(lines[0], "LDA") {
		t.Fatalf("trace line %q should carry pc and mnemonic", lines[0])
	}
}

// nestest的自动化模式：PC强制$C000，错误计数写在$0002/$0003
func TestNestestAutomation(t *testing.T) {
	data, err := ioutil.ReadFile("../roms/nestest/nestest.nes")
	if os.IsNotExist(err) {
		t.Skip("nestest.nes not present")
	}
	if err != nil {
		t.Fatal(err)
	}
	console := NewConsole(WithSound(false))
	if err := console.LoadROM(data); err != nil {
		t.Fatal(err)
	}
	console.CPU.PC = 0xc000
	for i := 0; i < 26500; i++ {
		if _, err := console.CPU.Emulate(); err != nil {
			t.Fatalf("instruction %d: %v", i, err)
		}
	}
	if console.CPU.mem[0x0002] != 0 || console.CPU.mem[0x0003] != 0 {
		t.Fatalf("nestest failure codes: $0002=%02x $0003=%02x",
			console.CPU.mem[0x0002], console.CPU.mem[0x0003])
	}
}
