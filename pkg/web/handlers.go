package web

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/teslashibe/go-speakviz/pkg/hub"
	"github.com/teslashibe/go-speakviz/pkg/metrics"
	"github.com/teslashibe/go-speakviz/pkg/session"
	"github.com/teslashibe/go-speakviz/pkg/store"
)

func errorJSON(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": msg,
	})
}

// handleStartSession begins a new recording.
func (s *Server) handleStartSession(c *fiber.Ctx) error {
	id, err := s.recorder.Start()
	if errors.Is(err, session.ErrAlreadyRecording) {
		return errorJSON(c, fiber.StatusConflict, err.Error())
	}
	if err != nil {
		return errorJSON(c, fiber.StatusInternalServerError, err.Error())
	}

	s.broadcast(hub.EventStarted, id, nil)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id": id,
	})
}

// handleStopSession ends the recording and returns its result.
func (s *Server) handleStopSession(c *fiber.Ctx) error {
	res, err := s.recorder.Stop()
	if errors.Is(err, session.ErrNotRecording) {
		return errorJSON(c, fiber.StatusConflict, err.Error())
	}
	if err != nil {
		return errorJSON(c, fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(res)
}

// handleSessionInfo returns the recorder state.
func (s *Server) handleSessionInfo(c *fiber.Ctx) error {
	return c.JSON(s.recorder.Info())
}

// handleLiveReport returns the spread analysis of the current state.
// Too few samples is not an error: it answers 204.
func (s *Server) handleLiveReport(c *fiber.Ctx) error {
	report, ok := s.recorder.Report()
	if !ok {
		return c.SendStatus(fiber.StatusNoContent)
	}
	return c.JSON(report)
}

// SegmentsResponse lists finalized segments and the one in progress.
type SegmentsResponse struct {
	Segments []metrics.Segment      `json:"segments"`
	Current  metrics.CurrentSegment `json:"current_segment"`
}

// handleSegments returns the segment list.
func (s *Server) handleSegments(c *fiber.Ctx) error {
	snap := s.recorder.Snapshot()
	return c.JSON(SegmentsResponse{
		Segments: snap.Segments,
		Current:  snap.Current,
	})
}

// handleListReports returns stored report summaries, newest first.
func (s *Server) handleListReports(c *fiber.Ctx) error {
	if s.reports == nil {
		return errorJSON(c, fiber.StatusServiceUnavailable, "report storage not configured")
	}
	ctx, cancel := context.WithTimeout(c.UserContext(), requestTimeout)
	defer cancel()

	list, err := s.reports.List(ctx, c.QueryInt("limit", store.DefaultListLimit))
	if err != nil {
		s.logger.Error("list reports failed", "error", err)
		return errorJSON(c, fiber.StatusInternalServerError, "list reports failed")
	}
	return c.JSON(list)
}

// handleGetReport returns one stored result.
func (s *Server) handleGetReport(c *fiber.Ctx) error {
	if s.reports == nil {
		return errorJSON(c, fiber.StatusServiceUnavailable, "report storage not configured")
	}
	ctx, cancel := context.WithTimeout(c.UserContext(), requestTimeout)
	defer cancel()

	res, err := s.reports.Get(ctx, c.Params("id"))
	if errors.Is(err, store.ErrNotFound) {
		return errorJSON(c, fiber.StatusNotFound, err.Error())
	}
	if err != nil {
		s.logger.Error("get report failed", "id", c.Params("id"), "error", err)
		return errorJSON(c, fiber.StatusInternalServerError, "get report failed")
	}
	return c.JSON(res)
}
