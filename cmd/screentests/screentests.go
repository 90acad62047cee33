package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/tigerbot-team/tigerbot/rover-controller/pkg/actuation"
	"github.com/tigerbot-team/tigerbot/rover-controller/pkg/camera"
	"github.com/tigerbot-team/tigerbot/rover-controller/pkg/mecanum"
	"github.com/tigerbot-team/tigerbot/rover-controller/pkg/screen"
)

type fakeCamera struct {
	state int32
}

func (c *fakeCamera) State() camera.State {
	return camera.State(atomic.LoadInt32(&c.state))
}

func (c *fakeCamera) flip() {
	if c.State() == camera.Active {
		atomic.StoreInt32(&c.state, int32(camera.Inactive))
	} else {
		atomic.StoreInt32(&c.state, int32(camera.Active))
	}
}

// Type "x y r" stick values (-3000..3000) to see the wheel gauges, or "c" to
// flip the camera label.
func main() {
	ctx := context.Background()

	state := actuation.NewState()
	cam := &fakeCamera{}
	go screen.LoopUpdatingScreen(ctx, "/dev/fb1", state, cam)

	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Print("> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			fmt.Println("\nFailed to read stdin: ", err)
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 1 && parts[0] == "c" {
			cam.flip()
			continue
		}
		if len(parts) != 3 {
			fmt.Println("Expected x y r")
			continue
		}
		var v [3]int
		for i, p := range parts {
			v[i], err = strconv.Atoi(p)
			if err != nil {
				fmt.Println("Expected int, not ", p)
				break
			}
		}
		if err != nil {
			continue
		}
		t := mecanum.Mix(v[0], v[1], v[2])
		fmt.Println("Target:", t)
		state.Publish(t)
	}
}
