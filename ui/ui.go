/*
负责ui渲染，声音输出，接受控制的模块
*/
package ui

import (
	"image"
	"sync"

	"fyne.io/fyne"
	"fyne.io/fyne/app"
	"fyne.io/fyne/canvas"
	"fyne.io/fyne/driver/desktop"

	"tinyfc/nes"
)

const scale = 2

func keyParse(ev *fyne.KeyEvent) int {
	switch ev.Name {
	case "J":
		return nes.ButtonA
	case "K":
		return nes.ButtonB
	case "U":
		return nes.ButtonSelect
	case "I":
		return nes.ButtonStart
	case "W":
		return nes.ButtonUp
	case "S":
		return nes.ButtonDown
	case "A":
		return nes.ButtonLeft
	case "D":
		return nes.ButtonRight
	}
	return -1
}

type FrameStore struct {
	mu  sync.Mutex
	img *image.RGBA
}

func (f *FrameStore) Set(buffer []uint32) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for y := 0; y < 240; y++ {
		for x := 0; x < 256; x++ {
			c := buffer[y*256+x]
			i := f.img.PixOffset(x, y)
			f.img.Pix[i] = byte(c >> 16)
			f.img.Pix[i+1] = byte(c >> 8)
			f.img.Pix[i+2] = byte(c)
			f.img.Pix[i+3] = 0xff
		}
	}
}

func (f *FrameStore) snapshot() image.Image {
	f.mu.Lock()
	defer f.mu.Unlock()
	return Resize(f.img, 256, 240, scale)
}

func OpenWindow(console *nes.Console, frames *FrameStore) {
	myApp := app.New()
	w := myApp.NewWindow("TinyFC")
	w.Resize(fyne.NewSize(256*scale, 240*scale))
	myCanvas := w.Canvas()

	// 键盘状态攒在一个数组里整体推给一号手柄
	var ctrl1 [8]bool
	if deskCanvas, ok := w.Canvas().(desktop.Canvas); ok {
		deskCanvas.SetOnKeyDown(func(ev *fyne.KeyEvent) {
			if index := keyParse(ev); index >= 0 {
				ctrl1[index] = true
				console.SetButtons(1, ctrl1)
			}
		})
		deskCanvas.SetOnKeyUp(func(ev *fyne.KeyEvent) {
			if index := keyParse(ev); index >= 0 {
				ctrl1[index] = false
				console.SetButtons(1, ctrl1)
			}
		})
	}

	go RunView(console)
	go refresh(myCanvas, frames, console.FrameRate())

	w.ShowAndRun()
}

// 接近60fps刷新画面
func refresh(can fyne.Canvas, frames *FrameStore, rate int) {
	for range frameTicker(rate) {
		res := canvas.NewImageFromImage(frames.snapshot())
		can.SetContent(res)
	}
}

func NewFrameStore() *FrameStore {
	return &FrameStore{img: image.NewRGBA(image.Rect(0, 0, 256, 240))}
}
