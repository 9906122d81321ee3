package server

import (
	"net/http"
	"time"

	"github.com/wb-go/wbf/ginext"
)

// Timeouts bounds request reads and response writes. Zero leaves the
// net/http default of no limit.
type Timeouts struct {
	Read  time.Duration
	Write time.Duration
}

func New(addr string, router *ginext.Engine, t Timeouts) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       t.Read,
		ReadHeaderTimeout: t.Read,
		WriteTimeout:      t.Write,
	}
}
