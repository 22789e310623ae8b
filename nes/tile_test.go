package nes

import (
	"testing"
)

func TestTileDecode(t *testing.T) {
	chr := make([]byte, 16)
	chr[0] = 0b10000001 // 第0行低位平面
	chr[8] = 0b00000001 // 第0行高位平面

	var tile Tile
	tile.Decode(chr, 0)

	if got := tile.Pix[0]; got != 1 {
		t.Fatalf("pixel(0,0) = %d, want 1", got)
	}
	if got := tile.Pix[7]; got != 3 {
		t.Fatalf("pixel(7,0) = %d, want 3", got)
	}
	if got := tile.Pix[1]; got != 0 {
		t.Fatalf("pixel(1,0) = %d, want 0", got)
	}
	if !tile.opaque[0] {
		t.Fatal("row 0 has opaque pixels")
	}
	if tile.opaque[1] {
		t.Fatal("row 1 is fully transparent")
	}
}

func TestTileRenderFlip(t *testing.T) {
	chr := make([]byte, 16)
	chr[0] = 0b10000000 // 只有左上角一个像素

	var tile Tile
	tile.Decode(chr, 0)

	if got := tile.Pixel(0, 0, false, false); got != 1 {
		t.Fatal("unflipped pixel lookup")
	}
	if got := tile.Pixel(7, 0, true, false); got != 1 {
		t.Fatal("horizontal flip should move the pixel to the right edge")
	}
	if got := tile.Pixel(0, 7, false, true); got != 1 {
		t.Fatal("vertical flip should move the pixel to the bottom edge")
	}
}

func TestTileRenderPriority(t *testing.T) {
	chr := make([]byte, 16)
	for i := 0; i < 8; i++ {
		chr[i] = 0xff // 实心tile
	}
	var tile Tile
	tile.Decode(chr, 0)

	buffer := make([]uint32, 256*240)
	pri := make([]byte, 256*240)
	palette := make([]uint32, 16)
	palette[1] = 0xabcdef

	// 背景优先的精灵碰到不透明背景让位
	pri[0] = 1
	tile.Render(buffer, pri, 0, 8, 0, 0, 0, palette, false, false, true, 0)
	if buffer[0] != 0 {
		t.Fatal("behind-priority sprite must not cover opaque background")
	}
	if buffer[256] != 0xabcdef {
		t.Fatal("behind-priority sprite should show where background is clear")
	}

	// 已经有精灵的点不让后来的精灵再画
	buffer2 := make([]uint32, 256*240)
	pri2 := make([]byte, 256*240)
	tile.Render(buffer2, pri2, 0, 8, 0, 0, 0, palette, false, false, false, 0)
	palette[1] = 0x123456
	tile.Render(buffer2, pri2, 0, 8, 0, 0, 0, palette, false, false, false, 1)
	if buffer2[0] != 0xabcdef {
		t.Fatal("lower sprite index wins the pixel")
	}
}
