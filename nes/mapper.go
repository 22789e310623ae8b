package nes

import "github.com/pkg/errors"

/*
mapper是卡带侧的bank切换和扩展逻辑。
共性（地址解码、寄存器分发、bank载入）都在mapperBase里，
每个变种只带自己的寄存器和$8000+（个别在$4020+/$6000+）的写逻辑。
*/
type Mapper interface {
	Load(addr uint16) byte
	Write(addr uint16, value byte)
	LoadROM() error
	Reset()
	// PPU每条渲染扫描线的分界上走一格（MMC3等扫描线IRQ用）
	ClockIrqCounter()
	// pattern table取数时的地址通知（MMC2式的latch用）
	LatchAccess(addr uint16)
	// 状态存取，寄存器打平成整数序列
	SaveRegs() []int
	RestoreRegs(regs []int) error
}

func NewMapper(console *Console) (Mapper, error) {
	base := mapperBase{console: console}
	switch console.Card.Mapper {
	case 0:
		return &Mapper0{mapperBase: base}, nil
	case 1:
		return &Mapper1{mapperBase: base}, nil
	case 2:
		return &Mapper2{mapperBase: base}, nil
	case 3:
		return &Mapper3{mapperBase: base}, nil
	case 4:
		return &Mapper4{mapperBase: base}, nil
	case 5:
		return &Mapper5{mapperBase: base}, nil
	case 7:
		return &Mapper7{mapperBase: base}, nil
	case 11:
		return &Mapper11{mapperBase: base}, nil
	case 34:
		return &Mapper34{mapperBase: base}, nil
	case 38:
		return &Mapper38{mapperBase: base}, nil
	case 66:
		return &Mapper66{mapperBase: base}, nil
	case 94:
		return &Mapper94{mapperBase: base}, nil
	case 140:
		return &Mapper140{mapperBase: base}, nil
	case 180:
		return &Mapper180{mapperBase: base}, nil
	case 240:
		return &Mapper240{mapperBase: base}, nil
	case 241:
		return &Mapper241{mapperBase: base}, nil
	default:
		return nil, errors.Errorf("invalid rom: unsupported mapper %d", console.Card.Mapper)
	}
}

func wantRegs(regs []int, n int) error {
	if len(regs) != n {
		return errors.Errorf("invalid state: mapper has %d saved registers, want %d", len(regs), n)
	}
	return nil
}
