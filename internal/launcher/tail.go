package launcher

import (
	"bufio"
	"context"
	"io"
	"os"
	"strings"
	"time"
)

// tailPollInterval is how often FollowFile checks for new data at EOF.
const tailPollInterval = 200 * time.Millisecond

// FollowFile streams the lines of a log file, then keeps following writes
// appended by the detached service until ctx is done. The channel is closed
// when following stops.
func FollowFile(ctx context.Context, path string) (<-chan string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	ch := make(chan string, 100)
	go func() {
		defer close(ch)
		defer f.Close()

		reader := bufio.NewReader(f)
		var pending strings.Builder
		for {
			chunk, err := reader.ReadString('\n')
			pending.WriteString(chunk)

			if err == nil {
				line := strings.TrimRight(pending.String(), "\n")
				pending.Reset()
				select {
				case <-ctx.Done():
					return
				case ch <- line:
				}
				continue
			}
			if err != io.EOF {
				return
			}

			// At EOF: wait for the writer to append more.
			select {
			case <-ctx.Done():
				return
			case <-time.After(tailPollInterval):
			}
		}
	}()

	return ch, nil
}
