package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/teslashibe/go-speakviz/internal/log"
	"github.com/teslashibe/go-speakviz/pkg/detection"
	"github.com/teslashibe/go-speakviz/pkg/feedback"
	"github.com/teslashibe/go-speakviz/pkg/session"
	facesignal "github.com/teslashibe/go-speakviz/pkg/signal"
	"github.com/teslashibe/go-speakviz/pkg/store"
	"github.com/teslashibe/go-speakviz/pkg/video"
)

var recordOpts struct {
	Device   int
	Width    int
	Height   int
	Duration time.Duration
	Model    string
	NoStore  bool

	// Upload
	VideoPath string
	Context   string
	Feedback  string
}

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Record from a local camera until Ctrl+C and print the analysis",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRecord(cmd.Context())
	},
}

func init() {
	vc := video.DefaultConfig()
	recordCmd.Flags().IntVar(&recordOpts.Device, "device", vc.Device, "Camera device index")
	recordCmd.Flags().IntVar(&recordOpts.Width, "width", vc.Width, "Capture width")
	recordCmd.Flags().IntVar(&recordOpts.Height, "height", vc.Height, "Capture height")
	recordCmd.Flags().DurationVar(&recordOpts.Duration, "duration", 0, "Stop after this long (0 waits for Ctrl+C)")
	recordCmd.Flags().StringVar(&recordOpts.Model, "model", "", "YuNet ONNX model (default: SPEAKVIZ_MODEL)")
	recordCmd.Flags().BoolVar(&recordOpts.NoStore, "no-store", false, "Do not save the report")
	recordCmd.Flags().StringVar(&recordOpts.VideoPath, "upload", "", "Video file to upload with the analysis for speech feedback")
	recordCmd.Flags().StringVar(&recordOpts.Context, "context", string(feedback.General), "Speaking context sent with the upload")
	recordCmd.Flags().StringVar(&recordOpts.Feedback, "feedback-url", "", "Feedback service URL (default: SPEAKVIZ_FEEDBACK_URL)")
	rootCmd.AddCommand(recordCmd)
}

func runRecord(ctx context.Context) error {
	speakingCtx, err := feedback.ParseContext(recordOpts.Context)
	if err != nil {
		return err
	}

	// The camera backend produces landmarks.
	cfg.Backend = facesignal.BackendLandmark
	rec, err := newRecorder()
	if err != nil {
		return err
	}

	if !recordOpts.NoStore {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()
		rec.AddListener(store.NewSink(st))
	}

	dc := detection.DefaultConfig()
	dc.ModelPath = cfg.ModelPath
	if recordOpts.Model != "" {
		dc.ModelPath = recordOpts.Model
	}
	detector, err := detection.NewYuNet(dc)
	if err != nil {
		return err
	}
	defer detector.Close()

	cam, err := video.Open(video.Config{
		Device:  recordOpts.Device,
		Width:   recordOpts.Width,
		Height:  recordOpts.Height,
		Quality: video.DefaultConfig().Quality,
	})
	if err != nil {
		return err
	}
	defer cam.Close()

	if recordOpts.Duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, recordOpts.Duration)
		defer cancel()
	}

	id, err := rec.Start()
	if err != nil {
		return err
	}
	fmt.Printf("Recording session %s. Press Ctrl+C to stop.\n", id)

	rec.Run(ctx, &video.Pipeline{Grabber: cam, Detector: detector})

	res, err := rec.Stop()
	if err != nil {
		return err
	}
	printResult(os.Stdout, res)

	if recordOpts.VideoPath != "" {
		return upload(res, speakingCtx)
	}
	return nil
}

func upload(res session.Result, speakingCtx feedback.SpeakingContext) error {
	f, err := os.Open(recordOpts.VideoPath)
	if err != nil {
		return fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	url := cfg.FeedbackURL
	if recordOpts.Feedback != "" {
		url = recordOpts.Feedback
	}

	// Detached from the interrupt context: the recording already ended.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	log.Info("uploading for feedback", "url", url, "context", speakingCtx)
	resp, err := feedback.NewClient(url).Submit(ctx, feedback.Upload{
		Video:    f,
		Filename: filepath.Base(f.Name()),
		Context:  speakingCtx,
		Report:   res.Report,
	})
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println("=== FEEDBACK ===")
	fmt.Println(resp.Feedback)
	fmt.Println()
	fmt.Println("=== RECOMMENDATIONS ===")
	fmt.Println(resp.Recommendations)
	return nil
}
