package screen

import (
	"context"
	"fmt"
	"image"
	"math"
	"os"
	"time"

	"github.com/fogleman/gg"

	"github.com/tigerbot-team/tigerbot/rover-controller/pkg/camera"
	"github.com/tigerbot-team/tigerbot/rover-controller/pkg/mecanum"
)

const (
	S = 128

	UpdateInterval = 500 * time.Millisecond
)

type DriveSource interface {
	Snapshot() mecanum.Target
}

type CameraSource interface {
	State() camera.State
}

type Status struct {
	Drive  mecanum.Target
	Camera camera.State
}

// LoopUpdatingScreen redraws the status panel on the framebuffer until ctx
// is done, then blanks it.  A missing screen is not an error.
func LoopUpdatingScreen(ctx context.Context, device string, drive DriveSource, cam CameraSource) {
	f, err := os.OpenFile(device, os.O_RDWR, 0666)
	if err != nil {
		fmt.Println("Failed to open screen, ignoring")
		return
	}
	defer f.Close()

	ticker := time.NewTicker(UpdateInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			var buf [S * S * 2]byte
			_, _ = f.Seek(0, 0)
			_, _ = f.Write(buf[:])
			return
		case <-ticker.C:
		}

		buf := ToRGB565(Render(Status{Drive: drive.Snapshot(), Camera: cam.State()}))
		_, err = f.Seek(0, 0)
		if err != nil {
			fmt.Println("Screen failure: ", err)
			return
		}
		for i := 0; i < S; i++ {
			_, err = f.Write(buf[i*S*2 : (i+1)*S*2])
			if err != nil {
				fmt.Println("Screen failure: ", err)
				return
			}
			time.Sleep(10 * time.Microsecond)
		}
	}
}

// fullScale is the largest mixed wheel speed.
const fullScale = 3 * mecanum.MaxSpeed

func Render(st Status) image.Image {
	dc := gg.NewContext(S, S)
	dc.SetRGB(0, 0, 0)
	dc.Clear()
	dc.SetRGBA(1, 0.9, 0, 1)
	dc.DrawString("WHEELS", 4, 12)

	// Wheels laid out as on the chassis.
	drawWheelBar(dc, 20, 20, st.Drive.FrontLeft)
	drawWheelBar(dc, 84, 20, st.Drive.FrontRight)
	drawWheelBar(dc, 20, 64, st.Drive.BackLeft)
	drawWheelBar(dc, 84, 64, st.Drive.BackRight)

	dc.SetRGBA(1, 0.9, 0, 1)
	dc.DrawString(fmt.Sprintf("CAM %s", camLabel(st.Camera)), 4, 122)
	return dc.Image()
}

// drawWheelBar draws a 24x40 gauge, filled up from the centre line for
// forward and down for reverse.
func drawWheelBar(dc *gg.Context, x, y float64, speed int) {
	const w, h = 24, 40
	dc.SetRGBA(1, 0.9, 0, 1)
	dc.SetLineWidth(1)
	dc.DrawRectangle(x, y, w, h)
	dc.Stroke()

	frac := math.Min(math.Abs(float64(speed))/fullScale, 1)
	fill := frac * h / 2
	if speed >= 0 {
		dc.SetRGBA(0, 1, 0.2, 1)
		dc.DrawRectangle(x+2, y+h/2-fill, w-4, fill)
	} else {
		dc.SetRGBA(1, 0.2, 0, 1)
		dc.DrawRectangle(x+2, y+h/2, w-4, fill)
	}
	dc.Fill()
}

func camLabel(s camera.State) string {
	switch s {
	case camera.Active:
		return "ON"
	case camera.Inactive:
		return "OFF"
	default:
		return "..."
	}
}

// ToRGB565 converts an SxS image to the panel's rotated RGB565 layout.
func ToRGB565(img image.Image) []byte {
	buf := make([]byte, S*S*2)
	for y := 0; y < S; y++ {
		for x := 0; x < S; x++ {
			r, g, b, _ := img.At(x, y).RGBA() // 16-bit pre-multiplied

			rb := byte(r >> (16 - 5))
			gb := byte(g >> (16 - 6)) // Green has 6 bits
			bb := byte(b >> (16 - 5))

			buf[(S-1-y)*2+x*S*2+1] = (rb << 3) | (gb >> 3)
			buf[(S-1-y)*2+x*S*2] = bb | (gb << 5)
		}
	}
	return buf
}
