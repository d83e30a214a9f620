package agent_test

import (
	"context"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/fleetscope/fleetscope/pkg/agent"
)

// newTestClient builds a client pointed at the given server.
func newTestClient(serverURL string) *agent.Client {
	c, err := agent.New(agent.Config{BaseURL: serverURL})
	Expect(err).NotTo(HaveOccurred())
	return c
}

var _ = Describe("Sessions", func() {
	var (
		server *httptest.Server
		ctx    context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
	})

	AfterEach(func() {
		if server != nil {
			server.Close()
		}
	})

	Describe("ListSessions", func() {
		It("returns sessions from the collection route", func() {
			server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				Expect(r.Method).To(Equal(http.MethodGet))
				Expect(r.URL.Path).To(Equal("/apps/vehicle_service_logs/users/user/sessions"))
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(`[{"id":"s1"},{"id":"s2","state":{"vehicle_id":"XY-12"}}]`))
			}))

			sessions := newTestClient(server.URL).ListSessions(ctx)
			Expect(sessions).To(HaveLen(2))
			Expect(sessions[0].ID).To(Equal("s1"))
			Expect(sessions[1].State).To(HaveKeyWithValue("vehicle_id", "XY-12"))
		})

		It("returns an empty slice on any non-success status", func() {
			for _, status := range []int{http.StatusBadRequest, http.StatusNotFound, http.StatusInternalServerError} {
				srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					w.WriteHeader(status)
				}))

				sessions := newTestClient(srv.URL).ListSessions(ctx)
				Expect(sessions).To(BeEmpty(), "status %d", status)
				srv.Close()
			}
		})

		It("returns an empty slice on an unparsable body", func() {
			server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("<html>definitely not json</html>"))
			}))

			Expect(newTestClient(server.URL).ListSessions(ctx)).To(BeEmpty())
		})

		It("returns an empty slice when the server is unreachable", func() {
			c, err := agent.New(agent.Config{BaseURL: "http://127.0.0.1:1"})
			Expect(err).NotTo(HaveOccurred())
			Expect(c.ListSessions(ctx)).To(BeEmpty())
		})
	})

	Describe("CreateSession", func() {
		It("POSTs an empty JSON object and returns the new session", func() {
			server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				Expect(r.Method).To(Equal(http.MethodPost))
				body := make([]byte, 2)
				r.Body.Read(body)
				Expect(string(body)).To(Equal("{}"))
				w.Write([]byte(`{"id":"fresh","appName":"vehicle_service_logs"}`))
			}))

			s, err := newTestClient(server.URL).CreateSession(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(s.ID).To(Equal("fresh"))
		})

		It("carries the server's body text in errors", func() {
			server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusConflict)
				w.Write([]byte("session limit reached"))
			}))

			_, err := newTestClient(server.URL).CreateSession(ctx)
			Expect(err).To(MatchError(ContainSubstring("session limit reached")))
		})

		It("falls back to the status code when the error body is empty", func() {
			server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
			}))

			_, err := newTestClient(server.URL).CreateSession(ctx)
			Expect(err).To(MatchError(ContainSubstring("502")))
		})

		It("treats a bodyless success as an absent session", func() {
			server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNoContent)
			}))

			s, err := newTestClient(server.URL).CreateSession(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(s).To(BeNil())
		})
	})

	Describe("GetSession", func() {
		It("fetches a session by id", func() {
			server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				Expect(r.URL.Path).To(Equal("/apps/vehicle_service_logs/users/user/sessions/s1"))
				w.Write([]byte(`{"id":"s1","lastUpdateTime":1724700000.5}`))
			}))

			s, err := newTestClient(server.URL).GetSession(ctx, "s1")
			Expect(err).NotTo(HaveOccurred())
			Expect(s.ID).To(Equal("s1"))
		})

		It("returns absent, not an error, on any non-success status", func() {
			for _, status := range []int{http.StatusNotFound, http.StatusForbidden, http.StatusInternalServerError} {
				srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					w.WriteHeader(status)
					w.Write([]byte("nope"))
				}))

				s, err := newTestClient(srv.URL).GetSession(ctx, "gone")
				Expect(err).NotTo(HaveOccurred(), "status %d", status)
				Expect(s).To(BeNil(), "status %d", status)
				srv.Close()
			}
		})
	})

	Describe("DeleteSession", func() {
		It("DELETEs the session route", func() {
			var gotMethod, gotPath string
			server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotMethod = r.Method
				gotPath = r.URL.Path
				w.WriteHeader(http.StatusNoContent)
			}))

			Expect(newTestClient(server.URL).DeleteSession(ctx, "s1")).To(Succeed())
			Expect(gotMethod).To(Equal(http.MethodDelete))
			Expect(gotPath).To(Equal("/apps/vehicle_service_logs/users/user/sessions/s1"))
		})

		It("errors with the server's text on failure", func() {
			server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusLocked)
				w.Write([]byte("session busy"))
			}))

			err := newTestClient(server.URL).DeleteSession(ctx, "s1")
			Expect(err).To(MatchError(ContainSubstring("session busy")))
		})
	})

	Describe("configuration", func() {
		It("routes through configured app and user segments", func() {
			var gotPath string
			server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotPath = r.URL.Path
				w.Write([]byte("[]"))
			}))

			c, err := agent.New(agent.Config{
				BaseURL: server.URL,
				AppName: "fleet_logs",
				UserID:  "inspector",
			})
			Expect(err).NotTo(HaveOccurred())

			c.ListSessions(ctx)
			Expect(gotPath).To(Equal("/apps/fleet_logs/users/inspector/sessions"))
		})

		It("attaches a request id header", func() {
			var gotID string
			server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotID = r.Header.Get("X-Request-Id")
				w.Write([]byte("[]"))
			}))

			newTestClient(server.URL).ListSessions(ctx)
			Expect(gotID).NotTo(BeEmpty())
		})
	})
})
