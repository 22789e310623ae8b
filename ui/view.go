package ui

import (
	"fmt"
	"time"

	"tinyfc/nes"
)

// 按目标帧率驱动整机
func RunView(console *nes.Console) {
	for range frameTicker(console.FrameRate()) {
		if err := console.Frame(); err != nil {
			fmt.Printf("emulation stopped: %v\n", err)
			return
		}
	}
}

func frameTicker(rate int) <-chan time.Time {
	return time.Tick(time.Second / time.Duration(rate))
}
