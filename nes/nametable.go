package nes

/*
名称表1kb：前960byte是32*30的tile索引，后64byte是属性表。
属性表每byte管4*4个tile(32*32像素)，每2bit决定一个2*2 tile区块调色板的高两位。
这里把属性展开成每tile一份，省得渲染时再拆。
*/
type NameTable struct {
	Tile   [32 * 30]byte // pattern table索引
	Attrib [32 * 30]byte // 展开后的属性值，已左移2位
}

func (nt *NameTable) TileIndex(x, y int) byte {
	return nt.Tile[y*32+x]
}

func (nt *NameTable) AttribValue(x, y int) byte {
	return nt.Attrib[y*32+x]
}

func (nt *NameTable) WriteTileIndex(index int, value byte) {
	nt.Tile[index] = value
}

// 属性表一个byte展开到16个tile
// 7654 3210
// |||| ||++- 左上2*2
// |||| ++--- 右上2*2
// ||++------ 左下2*2
// ++-------- 右下2*2
func (nt *NameTable) WriteAttrib(index int, value byte) {
	basex := (index % 8) * 4
	basey := (index / 8) * 4
	for sq := 0; sq < 4; sq++ {
		add := ((value >> (byte(sq) * 2)) & 3) << 2
		tx := basex + (sq%2)*2
		ty := basey + (sq/2)*2
		for y := 0; y < 2; y++ {
			for x := 0; x < 2; x++ {
				if ty+y < 30 && tx+x < 32 {
					nt.Attrib[(ty+y)*32+tx+x] = add
				}
			}
		}
	}
}

// $2000-$2FFF范围内对名称表的一次写
// offset是表内偏移0-0x3ff
func (nt *NameTable) Write(offset int, value byte) {
	if offset < 32*30 {
		nt.WriteTileIndex(offset, value)
	} else if offset >= 0x3c0 {
		nt.WriteAttrib(offset-0x3c0, value)
	}
}
