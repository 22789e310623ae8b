package nes

import (
	"github.com/pkg/errors"
)

type Cartridge struct {
	PRG     []byte // PRG-ROM, 16kb一个bank
	CHR     []byte // CHR-ROM, 没有CHR的卡带这里是8kb的CHR-RAM
	SRAM    []byte // 卡带SRAM $6000-$7FFF
	Mirror  byte   // 0 水平 1 垂直
	Mapper  byte   // mapper种类
	Battery bool   // SRAM是否带电池
	ChrRAM  bool   // CHR是RAM（可写）还是ROM
}

/*
iNES文件头16byte:

0-3	"NES\x1a"
4	PRG块数目 一块大小为 16KB
5	CHR块数目 一块大小为 8KB
6	FLAG
7	FLAG2
8-15	padding

FLAG
76543210
||||||||
|||||||+- Mirroring: 0: 水平镜像 1: 垂直镜像
||||||+-- 1: 卡带上有带电池的 SRAM
|||||+--- 1: Trainer 标志(头后面跟512byte)
||||+---- 1: 4-Screen 模式
++++----- Mapper 号的低 4 bit

FLAG2
++++----- Mapper 号的高 4 bit
*/
func LoadNESRom(data []byte) (*Cartridge, error) {
	if len(data) < 16 {
		return nil, errors.New("invalid rom: truncated header")
	}
	if string(data[0:4]) != "NES\x1a" {
		return nil, errors.New("invalid rom: not an iNES file")
	}

	prgNum := int(data[4])
	chrNum := int(data[5])
	flag := data[6]
	flag2 := data[7]

	mirror := flag & 1
	if flag&0b1000 > 0 {
		mirror = MirrorFour
	}
	battery := flag&0b10 > 0
	trained := flag&0b100 > 0
	mapper := ((flag & 0xf0) >> 4) | (flag2 & 0xf0)

	offset := 16
	if trained {
		// trainer这里不使用，跳过即可
		offset += 512
	}

	if len(data) < offset+prgNum*16384 {
		return nil, errors.Errorf("invalid rom: truncated PRG data, need %d banks", prgNum)
	}
	prg := make([]byte, prgNum*16384)
	copy(prg, data[offset:offset+prgNum*16384])
	offset += prgNum * 16384

	chrRAM := chrNum == 0
	var chr []byte
	if chrRAM {
		chr = make([]byte, 8192)
	} else {
		if len(data) < offset+chrNum*8192 {
			return nil, errors.Errorf("invalid rom: truncated CHR data, need %d banks", chrNum)
		}
		chr = make([]byte, chrNum*8192)
		copy(chr, data[offset:offset+chrNum*8192])
	}

	sram := make([]byte, 0x2000)
	card := &Cartridge{
		PRG:     prg,
		CHR:     chr,
		SRAM:    sram,
		Mirror:  mirror,
		Mapper:  mapper,
		Battery: battery,
		ChrRAM:  chrRAM,
	}
	return card, nil
}

// PRG bank数量，单位16kb
func (card *Cartridge) PrgBankCount() int {
	return len(card.PRG) / 0x4000
}

// CHR bank数量，单位4kb（VROM按4kb切块载入）
func (card *Cartridge) ChrBankCount() int {
	return len(card.CHR) / 0x1000
}
