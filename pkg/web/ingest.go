package web

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/websocket/v2"
	jsoniter "github.com/json-iterator/go"

	"github.com/teslashibe/go-speakviz/pkg/face"
	"github.com/teslashibe/go-speakviz/pkg/geometry"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// maxIngestMessage bounds one ingest frame.
const maxIngestMessage = 256 * 1024

// IngestFrame is one tick of detections pushed by a browser-side detector.
type IngestFrame struct {
	Faces []IngestFace `json:"faces" validate:"max=16,dive"`
}

// IngestFace is a single detection in pixel space.
type IngestFace struct {
	Box       IngestBox       `json:"box"`
	Score     float64         `json:"score" validate:"gte=0,lte=1"`
	Landmarks *face.Landmarks `json:"landmarks,omitempty"`
	Rotation  *IngestRotation `json:"rotation,omitempty"`
	Gestures  []string        `json:"gestures,omitempty" validate:"max=32,dive,required,max=64"`
}

// IngestBox is a bounding box. Empty boxes are rejected here rather than
// treated as no-face frames downstream.
type IngestBox struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width" validate:"gt=0"`
	Height float64 `json:"height" validate:"gt=0"`
}

// IngestRotation is the head pose and gaze of the gesture backend. All
// angles are radians and must stay within one full turn.
type IngestRotation struct {
	Angle struct {
		Yaw   float64 `json:"yaw" validate:"gte=-6.2832,lte=6.2832"`
		Pitch float64 `json:"pitch" validate:"gte=-6.2832,lte=6.2832"`
		Roll  float64 `json:"roll" validate:"gte=-6.2832,lte=6.2832"`
	} `json:"angle"`
	Gaze struct {
		Bearing  float64 `json:"bearing" validate:"gte=-6.2832,lte=6.2832"`
		Strength float64 `json:"strength"`
	} `json:"gaze"`
}

func (r *IngestRotation) rotation() *face.Rotation {
	if r == nil {
		return nil
	}
	return &face.Rotation{
		Angle: face.Angle{Yaw: r.Angle.Yaw, Pitch: r.Angle.Pitch, Roll: r.Angle.Roll},
		Gaze:  face.Gaze{Bearing: r.Gaze.Bearing, Strength: r.Gaze.Strength},
	}
}

// IngestAck answers every ingest frame.
type IngestAck struct {
	OK       bool   `json:"ok"`
	Observed bool   `json:"observed"`
	Frame    int    `json:"frame,omitempty"`
	Error    string `json:"error,omitempty"`
}

func newValidator() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
}

// decodeIngest parses and validates one ingest message.
func (s *Server) decodeIngest(data []byte) ([]face.Detection, error) {
	var frame IngestFrame
	if err := json.Unmarshal(data, &frame); err != nil {
		return nil, fmt.Errorf("decode frame: %w", err)
	}
	if err := s.validate.Struct(frame); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return nil, fmt.Errorf("invalid %s: failed %q", verrs[0].Namespace(), verrs[0].Tag())
		}
		return nil, err
	}

	// Qualified gesture labels such as "mouth 35% open" are dropped.
	dets := make([]face.Detection, 0, len(frame.Faces))
	for _, f := range frame.Faces {
		dets = append(dets, face.Detection{
			Box: geometry.Box{
				X:      f.Box.X,
				Y:      f.Box.Y,
				Width:  f.Box.Width,
				Height: f.Box.Height,
			},
			Score:     f.Score,
			Landmarks: f.Landmarks,
			Rotation:  f.Rotation.rotation(),
			Gestures:  face.ParseGestures(f.Gestures),
		})
	}
	return dets, nil
}

// ingest handles one message and builds its acknowledgement.
func (s *Server) ingest(data []byte) IngestAck {
	dets, err := s.decodeIngest(data)
	if err != nil {
		return IngestAck{Error: err.Error()}
	}
	obs, observed := s.recorder.Observe(dets)
	return IngestAck{OK: true, Observed: observed, Frame: obs.Frame}
}

// handleIngestWS reads detection frames from a browser and feeds them to
// the recorder. Invalid frames are rejected individually; the connection
// stays open.
func (s *Server) handleIngestWS(c *websocket.Conn) {
	defer c.Close()
	c.SetReadLimit(maxIngestMessage)

	for {
		_, data, err := c.ReadMessage()
		if err != nil {
			return
		}
		ack := s.ingest(data)
		if ack.Error != "" {
			s.logger.Debug("ingest frame rejected", "error", ack.Error)
		}
		if err := c.WriteJSON(ack); err != nil {
			return
		}
	}
}
