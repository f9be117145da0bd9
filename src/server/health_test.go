package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type healthCheckerStub struct {
	err error
}

func (h *healthCheckerStub) Ping(_ context.Context) error {
	return h.err
}

// white-box: bate no mux para cobrir também o registro da rota.
var _ = Describe("GetHealth", func() {
	var logger *slog.Logger

	BeforeEach(func() {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	})

	Context("when the database pools respond", func() {
		It("should return 200 with status ok", func() {
			// ARRANGE
			srv := NewServer(logger, 0, nil, &healthCheckerStub{})
			w := httptest.NewRecorder()
			r := httptest.NewRequest("GET", "/healthz", nil)

			// ACT
			srv.mux.ServeHTTP(w, r)

			// ASSERT
			Expect(w.Code).To(Equal(200))
			Expect(w.Body.String()).To(MatchJSON(`{"status": "ok"}`))
		})
	})

	Context("when a pool does not respond", func() {
		It("should return 503 with status unavailable", func() {
			// ARRANGE
			srv := NewServer(logger, 0, nil, &healthCheckerStub{err: errors.New("write pool: connection refused")})
			w := httptest.NewRecorder()
			r := httptest.NewRequest("GET", "/healthz", nil)

			// ACT
			srv.mux.ServeHTTP(w, r)

			// ASSERT
			Expect(w.Code).To(Equal(503))
			Expect(w.Body.String()).To(MatchJSON(`{"status": "unavailable"}`))
		})
	})

	Context("when no checker is wired", func() {
		It("should report ok", func() {
			srv := NewServer(logger, 0, nil, nil)
			w := httptest.NewRecorder()
			r := httptest.NewRequest("GET", "/healthz", nil)

			srv.mux.ServeHTTP(w, r)

			Expect(w.Code).To(Equal(200))
		})
	})
})
