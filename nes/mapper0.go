package nes

/*
Mapper 0 (NROM)
没有任何bank切换：16kb的卡带在$8000和$C000各放一份镜像，
32kb的正好铺满。写$8000+直接丢弃。
*/
type Mapper0 struct {
	mapperBase
}

func (m *Mapper0) LoadROM() error {
	m.loadCommon()
	return nil
}

func (m *Mapper0) Reset() {
	m.loadCommon()
}

func (m *Mapper0) Write(addr uint16, value byte) {
	if addr >= 0x8000 {
		// ROM区的写没有效果
		return
	}
	m.defaultWrite(addr, value)
}
