package sse

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Done is the last event of every stream that finished normally.
const Done = "[DONE]"

// ErrorEvent names the event sent instead of Done when the stream is cut.
const ErrorEvent = "error"

// Stream writes each chunk from ch as one SSE event:
//
//	data: <chunk>\n\n
//
// A multi-line chunk becomes one event with one "data:" line per line; an SSE
// client joins them back with "\n". When ch closes, a nil from errs ends the
// stream with "data: [DONE]" and anything else with an "event: error" whose
// data is the error text. Stops early if the client goes away.
func Stream(c *gin.Context, ch <-chan string, errs <-chan error) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Status(http.StatusOK)

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	done := c.Request.Context().Done()
	for {
		select {
		case <-done:
			return
		case msg, open := <-ch:
			if !open {
				if err := result(errs); err != nil {
					_, _ = c.Writer.WriteString("event: " + ErrorEvent + "\n")
					writeEvent(c.Writer, err.Error())
				} else {
					writeEvent(c.Writer, Done)
				}
				flusher.Flush()
				return
			}
			writeEvent(c.Writer, msg)
			flusher.Flush()
		}
	}
}

// result waits for the producer's verdict; a nil errs means no failure.
func result(errs <-chan error) error {
	if errs == nil {
		return nil
	}
	return <-errs
}

func writeEvent(w gin.ResponseWriter, msg string) {
	for _, line := range strings.Split(msg, "\n") {
		_, _ = w.WriteString("data: " + line + "\n")
	}
	_, _ = w.WriteString("\n")
}
