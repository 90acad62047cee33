package sound

import (
	"fmt"
	"math"
	"os"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"
	"github.com/pkg/errors"
)

const SampleRate = beep.SampleRate(44100)

var (
	speakerOnce sync.Once
	speakerErr  error
)

func initSpeaker() error {
	speakerOnce.Do(func() {
		speakerErr = speaker.Init(SampleRate, SampleRate.N(time.Second/10))
	})
	return speakerErr
}

// InitSound starts a goroutine that plays the WAV files sent to the returned
// channel, interrupting whatever was playing before.  Close the channel to
// stop it.
func InitSound() chan string {
	soundsToPlay := make(chan string)
	go func() {
		defer func() {
			recover()
			for s := range soundsToPlay {
				fmt.Println("Unable to play", s)
			}
		}()
		err := initSpeaker()
		if err != nil {
			fmt.Println("Failed to open speaker", err)
			for s := range soundsToPlay {
				fmt.Println("Unable to play", s)
			}
			return
		}
		var ctrl *beep.Ctrl
		var s beep.StreamSeekCloser
		for soundToPlay := range soundsToPlay {
			if ctrl != nil {
				speaker.Lock()
				ctrl.Paused = true
				ctrl.Streamer = nil
				speaker.Unlock()
				ctrl = nil
			}
			if s != nil {
				s.Close()
				s = nil
			}

			f, err := os.Open(soundToPlay)
			if err != nil {
				fmt.Println("Failed to open sound", err)
				continue
			}
			s, _, err = wav.Decode(f)
			if err != nil {
				fmt.Println("Failed to decode sound", err)
				f.Close()
				continue
			}
			ctrl = &beep.Ctrl{Streamer: s}
			speaker.Play(ctrl)
		}
	}()
	return soundsToPlay
}

// ToneBuzzer plays a continuous tone on the speaker while on, for boards
// without a piezo buzzer.
type ToneBuzzer struct {
	ctrl *beep.Ctrl
}

func NewToneBuzzer(hz int) (*ToneBuzzer, error) {
	if err := initSpeaker(); err != nil {
		return nil, errors.Wrap(err, "failed to open speaker")
	}
	b := &ToneBuzzer{
		ctrl: &beep.Ctrl{Streamer: Tone(hz, SampleRate, 0.3), Paused: true},
	}
	speaker.Play(b.ctrl)
	return b, nil
}

func (b *ToneBuzzer) SetOn(on bool) error {
	speaker.Lock()
	b.ctrl.Paused = !on
	speaker.Unlock()
	return nil
}

// Tone is an endless sine wave streamer.
func Tone(hz int, sr beep.SampleRate, volume float64) beep.Streamer {
	var phase float64
	step := float64(hz) / float64(sr)
	return beep.StreamerFunc(func(samples [][2]float64) (n int, ok bool) {
		for i := range samples {
			v := volume * math.Sin(2*math.Pi*phase)
			samples[i][0] = v
			samples[i][1] = v
			phase += step
			if phase >= 1 {
				phase--
			}
		}
		return len(samples), true
	})
}
