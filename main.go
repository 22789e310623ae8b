package main

import (
	"fmt"
	"io/ioutil"
	"os"

	"tinyfc/nes"
	"tinyfc/ui"
)

// 声音输出后端，portaudio不行就退回beep
type speakerPort interface {
	Push(l, r float64)
	Start() error
}

func main() {
	args := os.Args
	if len(args) <= 1 {
		panic("need rom path.")
	}
	filePath := args[1]
	info, err := os.Stat(filePath)
	if err != nil {
		panic(err)
	}
	if info.IsDir() {
		panic("invalid path.")
	}

	fileData, err := ioutil.ReadFile(filePath)
	if err != nil {
		panic(err)
	}

	sampleRate := 44100
	var spk speakerPort
	audio := ui.NewAudio()
	if err := audio.Start(); err == nil {
		spk = audio
		sampleRate = audio.SampleRate()
	} else {
		fmt.Printf("portaudio unavailable (%v), falling back to beep\n", err)
		beepSpk := ui.NewBeepSpeaker(sampleRate)
		if err := beepSpk.Start(); err != nil {
			panic(err)
		}
		spk = beepSpk
	}

	frames := ui.NewFrameStore()

	console := nes.NewConsole(
		nes.WithSampleRate(sampleRate),
		nes.WithFrameCallback(frames.Set),
		nes.WithAudioCallback(spk.Push),
		nes.WithStatusCallback(func(msg string) { fmt.Print(msg) }),
	)
	if err := console.LoadROM(fileData); err != nil {
		panic(err)
	}

	ui.OpenWindow(console, frames)
}
