package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/df07/go-weekend-raytracer/pkg/output"
	"github.com/df07/go-weekend-raytracer/pkg/renderer"
	"github.com/df07/go-weekend-raytracer/pkg/scene"
)

// RenderRequest represents a render request from the client
type RenderRequest struct {
	Scene      string        // Scene name (e.g., "materials")
	Width      int           // Image width; height follows the scene's aspect ratio
	MaxSamples int           // Samples per pixel reached by the last pass
	MaxPasses  int           // Number of passes
	MaxDepth   int           // Maximum ray bounces
	Seed       int64         // Base seed for the per-row random streams
	Format     output.Format // Encoding of the streamed images
}

// PassUpdate is sent after every completed pass
type PassUpdate struct {
	PassNumber     int     `json:"passNumber"`
	TotalPasses    int     `json:"totalPasses"`
	Width          int     `json:"width"`
	Height         int     `json:"height"`
	Format         string  `json:"format"`
	ImageData      string  `json:"imageData"` // Base64 encoded image
	ElapsedMs      int64   `json:"elapsedMs"`
	TotalPixels    int     `json:"totalPixels"`
	TotalSamples   int     `json:"totalSamples"`
	AverageSamples float64 `json:"averageSamples"`
	MaxSamples     int     `json:"maxSamples"`
	MinSamples     int     `json:"minSamples"`
	PrimitiveCount int     `json:"primitiveCount"`
	IsComplete     bool    `json:"isComplete"`
}

// SSEEvent represents a unified SSE event for thread-safe writing
type SSEEvent struct {
	Type string // "console", "pass", "error", "complete"
	Data string // JSON-encoded data or a plain message
}

// handleRender streams a progressive render as Server-Sent Events, one image per pass
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	if _, ok := w.(http.Flusher); !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}
	s.setSSEHeaders(w)

	ctx := r.Context()

	// Single writer goroutine owns the ResponseWriter
	sseEventChan := make(chan SSEEvent, 100)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		s.writeSSEEvents(ctx, w, sseEventChan)
	}()
	defer func() {
		close(sseEventChan)
		<-writerDone
	}()

	req, err := s.parseRenderRequest(r)
	if err != nil {
		s.sendEvent(ctx, sseEventChan, SSEEvent{Type: "error", Data: fmt.Sprintf("Invalid request: %v", err)})
		return
	}

	sceneObj, err := s.createScene(req.Scene, renderer.CameraConfig{
		ImageWidth:      req.Width,
		SamplesPerPixel: req.MaxSamples,
		MaxDepth:        req.MaxDepth,
	})
	if err != nil {
		s.sendEvent(ctx, sseEventChan, SSEEvent{Type: "error", Data: err.Error()})
		return
	}

	// Console messages flow through their own goroutine until the render is over
	consoleChan := make(chan ConsoleMessage, 50)
	consoleDone := make(chan struct{})
	go func() {
		defer close(consoleDone)
		s.streamConsoleMessages(ctx, consoleChan, sseEventChan)
	}()
	logger := NewWebLogger(fmt.Sprintf("render-%d", time.Now().UnixNano()), consoleChan, renderer.NewDefaultLogger())

	err = s.renderPasses(ctx, sseEventChan, sceneObj, req, logger)

	// The renderer has stopped logging once its channels are closed
	close(consoleChan)
	<-consoleDone

	if err != nil {
		if ctx.Err() == nil {
			s.sendEvent(ctx, sseEventChan, SSEEvent{Type: "error", Data: fmt.Sprintf("Rendering failed: %v", err)})
		}
		return
	}
	s.sendEvent(ctx, sseEventChan, SSEEvent{Type: "complete", Data: "Rendering completed"})
}

// renderPasses runs the progressive render and sends a pass event for each frame
func (s *Server) renderPasses(ctx context.Context, sseEventChan chan<- SSEEvent, sceneObj *scene.Scene, req *RenderRequest, logger core.Logger) error {
	camera, err := sceneObj.NewCamera()
	if err != nil {
		return err
	}

	pr, err := renderer.NewProgressiveRaytracer(sceneObj.World, camera, renderer.ProgressiveConfig{
		InitialSamples: 1,
		MaxPasses:      req.MaxPasses,
		NumWorkers:     0, // Auto-detect
		Seed:           req.Seed,
	}, logger)
	if err != nil {
		return err
	}

	startTime := time.Now()
	passChan, errChan := pr.RenderProgressive(ctx)
	for result := range passChan {
		update, err := s.passUpdate(result, req, sceneObj, startTime)
		if err != nil {
			log.Printf("Error encoding pass %d: %v", result.PassNumber, err)
			continue
		}
		data, err := json.Marshal(update)
		if err != nil {
			log.Printf("Error marshaling pass update: %v", err)
			continue
		}
		s.sendEvent(ctx, sseEventChan, SSEEvent{Type: "pass", Data: string(data)})
	}
	return <-errChan
}

// passUpdate encodes a pass frame and its statistics
func (s *Server) passUpdate(result renderer.PassResult, req *RenderRequest, sceneObj *scene.Scene, startTime time.Time) (PassUpdate, error) {
	var buf bytes.Buffer
	if err := output.Encode(&buf, output.ToImage(result.Frame), req.Format); err != nil {
		return PassUpdate{}, err
	}

	return PassUpdate{
		PassNumber:     result.PassNumber,
		TotalPasses:    req.MaxPasses,
		Width:          result.Frame.Width,
		Height:         result.Frame.Height,
		Format:         string(req.Format),
		ImageData:      base64.StdEncoding.EncodeToString(buf.Bytes()),
		ElapsedMs:      time.Since(startTime).Milliseconds(),
		TotalPixels:    result.Stats.TotalPixels,
		TotalSamples:   result.Stats.TotalSamples,
		AverageSamples: result.Stats.AverageSamples,
		MaxSamples:     result.Stats.MaxSamples,
		MinSamples:     result.Stats.MinSamples,
		PrimitiveCount: sceneObj.GetPrimitiveCount(),
		IsComplete:     result.IsLast,
	}, nil
}

// setSSEHeaders sets the required headers for Server-Sent Events
func (s *Server) setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
}

// writeSSEEvents writes events until the channel is closed or the client goes away
func (s *Server) writeSSEEvents(ctx context.Context, w http.ResponseWriter, sseEventChan <-chan SSEEvent) {
	flusher := w.(http.Flusher)
	for {
		select {
		case event, ok := <-sseEventChan:
			if !ok {
				return
			}
			if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, event.Data); err != nil {
				// Client disconnected during write
				return
			}
			flusher.Flush()

		case <-ctx.Done():
			// Client disconnected
			return
		}
	}
}

// streamConsoleMessages forwards console messages until consoleChan is closed
func (s *Server) streamConsoleMessages(ctx context.Context, consoleChan <-chan ConsoleMessage, sseEventChan chan<- SSEEvent) {
	for consoleMsg := range consoleChan {
		data, err := json.Marshal(consoleMsg)
		if err != nil {
			log.Printf("Error marshaling console message: %v", err)
			continue
		}

		select {
		case sseEventChan <- SSEEvent{Type: "console", Data: string(data)}:
		case <-ctx.Done():
		default:
			// Channel full, skip message to avoid blocking
		}
	}
}

// sendEvent queues an event unless the client has gone away
func (s *Server) sendEvent(ctx context.Context, sseEventChan chan<- SSEEvent, event SSEEvent) {
	select {
	case sseEventChan <- event:
	case <-ctx.Done():
	}
}

// parseRenderRequest parses request parameters
func (s *Server) parseRenderRequest(r *http.Request) (*RenderRequest, error) {
	query := r.URL.Query()
	req := &RenderRequest{Scene: query.Get("scene")}
	if req.Scene == "" {
		req.Scene = "default"
	}

	var err error
	if req.Width, err = parseIntParam(query, "width", 400, minWidth, maxWidth); err != nil {
		return nil, err
	}
	if req.MaxSamples, err = parseIntParam(query, "maxSamples", 50, minSamples, maxSamples); err != nil {
		return nil, err
	}
	if req.MaxPasses, err = parseIntParam(query, "maxPasses", 7, minPasses, maxPasses); err != nil {
		return nil, err
	}
	if req.MaxDepth, err = parseIntParam(query, "maxDepth", 50, minDepth, maxDepth); err != nil {
		return nil, err
	}
	seed, err := parseIntParam(query, "seed", 42, 0, 1<<31-1)
	if err != nil {
		return nil, err
	}
	req.Seed = int64(seed)

	req.Format = output.FormatPNG
	if name := query.Get("format"); name != "" {
		format, err := output.ParseFormat(name)
		if err != nil {
			return nil, err
		}
		switch format {
		case output.FormatPNG, output.FormatJPEG, output.FormatWebP:
			req.Format = format
		default:
			return nil, fmt.Errorf("format %s cannot be displayed in a browser", format)
		}
	}

	// Performance warning
	if req.Width > 800 && req.MaxSamples > 100 {
		log.Printf("Render warning: Large image with high samples may render slowly")
	}

	return req, nil
}
