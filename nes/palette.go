package nes

/*
调色板查表。
系统固定64色，$2001的D5-D7是颜色强调位，
每种强调组合预先算好一张64色表，渲染时直接切换。
*/
type PaletteTable struct {
	emphTable [8][64]uint32
	curTable  []uint32
	curEmph   int
}

// NTSC的64色基础表，0xRRGGBB
var ntscPalette = [64]uint32{
	0x525252, 0xB40000, 0xA00000, 0xB1003D, 0x740069, 0x00005B, 0x00005F, 0x001840,
	0x002F10, 0x084A08, 0x006700, 0x124200, 0x6D2800, 0x000000, 0x000000, 0x000000,
	0xC4D5E7, 0xFF4000, 0xDC0E22, 0xFF476B, 0xD7009F, 0x680AD7, 0x0019BC, 0x0054B1,
	0x006A5B, 0x008C03, 0x00AB00, 0x2C8800, 0xA47200, 0x000000, 0x000000, 0x000000,
	0xF8F8F8, 0xFFAB3C, 0xFF7981, 0xFF5BC5, 0xFF48F2, 0xDF49FF, 0x476DFF, 0x00B4F7,
	0x00E0FF, 0x00E375, 0x03F42B, 0x78B82E, 0xE5E218, 0x787878, 0x000000, 0x000000,
	0xFFFFFF, 0xFFF2BE, 0xF8B8B8, 0xF8B8D8, 0xFFB6FF, 0xFFC3FF, 0xC7D1FF, 0x9ADAFF,
	0x88EDF8, 0x83FFDD, 0xB8F8B8, 0xF5F8AC, 0xFFFFB0, 0x787878, 0x000000, 0x000000,
}

func NewPaletteTable() *PaletteTable {
	p := &PaletteTable{}
	p.makeTables()
	p.SetEmphasis(0)
	return p
}

// 每种强调组合把未强调的分量乘0.75
// D5 强调绿 D6 强调蓝? 实际按分量衰减处理:
// bit0: 衰减R、B  bit1: 衰减R、G  bit2: 衰减G、B
func (p *PaletteTable) makeTables() {
	for emph := 0; emph < 8; emph++ {
		rFactor, gFactor, bFactor := 1.0, 1.0, 1.0
		if emph&1 != 0 {
			rFactor = 0.75
			bFactor = 0.75
		}
		if emph&2 != 0 {
			rFactor = 0.75
			gFactor = 0.75
		}
		if emph&4 != 0 {
			gFactor = 0.75
			bFactor = 0.75
		}
		for i := 0; i < 64; i++ {
			col := ntscPalette[i]
			r := uint32(float64((col>>16)&0xff) * rFactor)
			g := uint32(float64((col>>8)&0xff) * gFactor)
			b := uint32(float64(col&0xff) * bFactor)
			p.emphTable[emph][i] = (r << 16) | (g << 8) | b
		}
	}
}

func (p *PaletteTable) SetEmphasis(emph int) {
	p.curEmph = emph & 7
	p.curTable = p.emphTable[p.curEmph][:]
}

func (p *PaletteTable) GetEntry(index byte) uint32 {
	return p.curTable[index&0x3f]
}
