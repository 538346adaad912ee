package main

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/gorilla/websocket"
	jsoniter "github.com/json-iterator/go"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/teslashibe/go-speakviz/internal/httpc"
	"github.com/teslashibe/go-speakviz/pkg/session"
	"github.com/teslashibe/go-speakviz/pkg/web"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// stopTimeout bounds the final stop call after an interrupted replay.
const stopTimeout = 10 * time.Second

var replayOpts struct {
	Server   string
	Interval time.Duration
	Session  bool
}

var replayCmd = &cobra.Command{
	Use:   "replay <frames.jsonl>",
	Short: "Stream recorded detections, one JSON frame per line, to a running server",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runReplay(cmd.Context(), args[0])
	},
}

func init() {
	replayCmd.Flags().StringVar(&replayOpts.Server, "server", "http://localhost:8080", "speakviz server base URL")
	replayCmd.Flags().DurationVar(&replayOpts.Interval, "interval", 0, "Delay between frames (default: SPEAKVIZ_SAMPLE_INTERVAL)")
	replayCmd.Flags().BoolVar(&replayOpts.Session, "session", true, "Start a session before and stop it after the replay")
	rootCmd.AddCommand(replayCmd)
}

func runReplay(ctx context.Context, path string) error {
	frames, err := readFrames(path)
	if err != nil {
		return err
	}
	if len(frames) == 0 {
		return fmt.Errorf("%s: no frames", path)
	}

	interval := cfg.SampleInterval
	if replayOpts.Interval > 0 {
		interval = replayOpts.Interval
	}

	base, err := url.Parse(replayOpts.Server)
	if err != nil {
		return fmt.Errorf("parse server url: %w", err)
	}

	if !replayOpts.Session {
		return streamFrames(ctx, base, frames, interval)
	}

	if err := postJSON(ctx, base.JoinPath("/api/sessions").String(), nil); err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	streamErr := streamFrames(ctx, base, frames, interval)

	// The session is stopped even when the replay was interrupted.
	stopCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), stopTimeout)
	defer cancel()
	var res session.Result
	if err := postJSON(stopCtx, base.JoinPath("/api/sessions/stop").String(), &res); err != nil {
		return errors.Join(streamErr, fmt.Errorf("stop session: %w", err))
	}
	if streamErr != nil {
		return streamErr
	}
	printResult(os.Stdout, res)
	return nil
}

// streamFrames sends every frame to /ws/ingest, one per interval, and waits
// for each acknowledgement.
func streamFrames(ctx context.Context, base *url.URL, frames [][]byte, interval time.Duration) error {
	wsURL := *base.JoinPath("/ws/ingest")
	wsURL.Scheme = "ws"
	if base.Scheme == "https" {
		wsURL.Scheme = "wss"
	}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL.String(), nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", wsURL.String(), err)
	}
	defer conn.Close()

	bar := progressbar.NewOptions(len(frames),
		progressbar.OptionSetDescription("Replaying frames"),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
	)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var observed, rejected int
	for _, frame := range frames {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
			return fmt.Errorf("send frame: %w", err)
		}
		var ack web.IngestAck
		if err := conn.ReadJSON(&ack); err != nil {
			return fmt.Errorf("read ack: %w", err)
		}
		switch {
		case !ack.OK:
			rejected++
		case ack.Observed:
			observed++
		}
		bar.Add(1)
	}
	bar.Finish()
	conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))

	fmt.Fprintf(os.Stderr, "\n%d frames sent, %d observed, %d rejected\n", len(frames), observed, rejected)
	return nil
}

// readFrames loads non-empty lines of a JSONL file.
func readFrames(path string) ([][]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var frames [][]byte
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		frames = append(frames, append([]byte(nil), line...))
	}
	return frames, sc.Err()
}

// postJSON posts an empty body and decodes the response into out when set.
func postJSON(ctx context.Context, u string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, nil)
	if err != nil {
		return err
	}
	resp, err := httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("%s: %s", resp.Status, bytes.TrimSpace(body))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
