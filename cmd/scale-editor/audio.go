package main

import (
	"log"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"

	"github.com/gomker/partscale/part"
	"github.com/gomker/partscale/rescale"
	"github.com/gomker/partscale/scaletype"
)

const audioSampleRate = beep.SampleRate(44100)

// blipUpdater plays a short tone on every resolved rescale, pitched by
// the absolute factor so bigger parts sound lower
type blipUpdater struct{}

func (blipUpdater) OnRescale(f rescale.Factor) {
	freq := 660.0 / f.Absolute
	if freq < 110 {
		freq = 110
	}
	if freq > 1760 {
		freq = 1760
	}
	sine, err := generators.SineTone(audioSampleRate, freq)
	if err != nil {
		return
	}
	speaker.Play(beep.Take(audioSampleRate.N(60*time.Millisecond), sine))
}

func registerAudioFeedback() {
	if err := speaker.Init(audioSampleRate, audioSampleRate.N(time.Second/10)); err != nil {
		// Non-fatal, the editor runs fine without sound
		log.Printf("audio init failed: %v", err)
		return
	}
	rescale.RegisterUpdater("audio-feedback", func(p *part.Part, cfg *scaletype.PartConfig) rescale.Updater {
		return blipUpdater{}
	})
}
