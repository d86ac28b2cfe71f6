// Package server exposes a pipeline.Pipeline over HTTP.
//
// Endpoints take form-encoded POST requests with the fields "str" (the text, required),
// "sanskrit_mode" and "anusvara_style", and answer in JSON:
//
//	POST /segmentbywords, /segmentbyone, /segmentbytwo -> {"segmented", "kvp", "ipa"}
//	POST /phoneticize (already segmented text)        -> {"kvp", "ipa"}
//
// Any other GET is served from the web directory, if one is given.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gomlx/go-tibphon/pipeline"
	"github.com/gomlx/go-tibphon/segment"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Form fields.
const (
	FieldText          = "str"
	FieldSanskritMode  = "sanskrit_mode"
	FieldAnusvaraStyle = "anusvara_style"
)

// RequestIDHeader carries the id of a request, generated unless the client sets it.
const RequestIDHeader = "X-Request-ID"

const requestIDKey = "requestID"

type server struct {
	pipeline *pipeline.Pipeline
}

// New returns the HTTP handler of p. If webDir is not empty, it serves the static files of
// the web interface.
func New(p *pipeline.Pipeline, webDir string) *gin.Engine {
	s := &server{pipeline: p}
	r := gin.New()
	r.Use(gin.Recovery(), requestID(), logRequests(), cors.Default())
	for _, strategy := range []segment.Strategy{segment.Words, segment.ByOne, segment.ByTwo} {
		r.POST("/segmentby"+strategy.String(), s.segmentHandler(strategy))
	}
	r.POST("/phoneticize", s.phoneticizeHandler)
	if webDir != "" {
		files := http.Dir(webDir)
		r.NoRoute(func(c *gin.Context) {
			if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
				c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
				return
			}
			c.FileFromFS(c.Request.URL.Path, files)
		})
	}
	return r
}

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

func logRequests() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		klog.V(1).Infof("server: %s %s %s -> %d in %s", c.GetString(requestIDKey), c.Request.Method,
			c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}

// parseForm returns the text and the request options, or writes a 400 answer and
// returns false.
func parseForm(c *gin.Context, strategy segment.Strategy) (string, pipeline.Request, bool) {
	text, found := c.GetPostForm(FieldText)
	if !found {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing form field " + FieldText})
		return "", pipeline.Request{}, false
	}
	req, err := pipeline.ParseRequest(strategy.String(), c.PostForm(FieldSanskritMode), c.PostForm(FieldAnusvaraStyle))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return "", pipeline.Request{}, false
	}
	return text, req, true
}

func (s *server) segmentHandler(strategy segment.Strategy) gin.HandlerFunc {
	return func(c *gin.Context) {
		text, req, ok := parseForm(c, strategy)
		if !ok {
			return
		}
		out := s.pipeline.Process(text, req)
		for _, d := range out.Degraded {
			klog.Warningf("server: request %s: text passed through unsegmented (%v): %q",
				c.GetString(requestIDKey), d.Err, d.Chunk)
		}
		c.JSON(http.StatusOK, out)
	}
}

func (s *server) phoneticizeHandler(c *gin.Context) {
	text, req, ok := parseForm(c, segment.Words)
	if !ok {
		return
	}
	out := s.pipeline.Phoneticize(text, req)
	c.JSON(http.StatusOK, gin.H{"kvp": out.KVP, "ipa": out.IPA})
}

// ListenAndServe serves handler on addr until ctx is done, and then shuts down gracefully.
func ListenAndServe(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{Addr: addr, Handler: handler, ReadHeaderTimeout: 10 * time.Second}
	errCh := make(chan error, 1)
	go func() {
		klog.Infof("Listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		return errors.Wrapf(err, "failed to serve on %q", addr)
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "failed to shut down the server")
	}
	return nil
}
