package nes

import (
	"testing"
)

// 拼一个单bank的NROM测试镜像：prog放在$8000起，
// reset向量指到$8000，tile 1的低位平面全1（颜色1的实心块）
func makeTestROM(prog []byte) []byte {
	return makeTestROMMapper(prog, 0)
}

func makeTestROMMapper(prog []byte, mapper byte) []byte {
	prg := make([]byte, 0x4000)
	copy(prg, prog)
	prg[0x3ffc] = 0x00
	prg[0x3ffd] = 0x80

	chr := make([]byte, 0x2000)
	for i := 16; i < 24; i++ {
		chr[i] = 0xff
	}

	header := make([]byte, 16)
	copy(header, "NES\x1a")
	header[4] = 1
	header[5] = 1
	header[6] = (mapper & 0xf) << 4
	header[7] = mapper & 0xf0

	rom := append(header, prg...)
	return append(rom, chr...)
}

// 多bank的PRG镜像，每个bank第一个字节放bank号当标记
func makeBankedROM(mapper byte, prgBanks int) []byte {
	prg := make([]byte, prgBanks*0x4000)
	for b := 0; b < prgBanks; b++ {
		prg[b*0x4000] = byte(b)
		// 每个bank都带上合法的reset向量
		prg[b*0x4000+0x3ffc] = 0x00
		prg[b*0x4000+0x3ffd] = 0x80
	}
	chr := make([]byte, 0x2000)

	header := make([]byte, 16)
	copy(header, "NES\x1a")
	header[4] = byte(prgBanks)
	header[5] = 1
	header[6] = (mapper & 0xf) << 4
	header[7] = mapper & 0xf0

	rom := append(header, prg...)
	return append(rom, chr...)
}

func newTestConsole(t *testing.T, prog []byte) *Console {
	t.Helper()
	console := NewConsole(WithSound(false))
	if err := console.LoadROM(makeTestROM(prog)); err != nil {
		t.Fatalf("load test rom: %v", err)
	}
	return console
}

// 执行n条指令
func stepInstructions(t *testing.T, console *Console, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		if _, err := console.CPU.Emulate(); err != nil {
			t.Fatalf("instruction %d failed: %v", i, err)
		}
	}
}
