package agent_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/fleetscope/fleetscope/pkg/agent"
)

var _ = Describe("UploadFile", func() {
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

	It("POSTs a multipart form with a single file field", func() {
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			Expect(r.Method).To(Equal(http.MethodPost))
			Expect(r.URL.Path).To(Equal("/vehicle_service_logs/api/files/process-file"))

			file, header, err := r.FormFile("file")
			Expect(err).NotTo(HaveOccurred())
			defer file.Close()

			Expect(header.Filename).To(Equal("service-log.csv"))
			content, err := io.ReadAll(file)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(content)).To(Equal("date,mileage\n2026-08-01,42000\n"))

			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"processed":true,"rows":1}`))
		}))

		result, err := newTestClient(server.URL).UploadFile(ctx, "service-log.csv",
			strings.NewReader("date,mileage\n2026-08-01,42000\n"))
		Expect(err).NotTo(HaveOccurred())
		Expect(string(result)).To(MatchJSON(`{"processed":true,"rows":1}`))
	})

	It("errors with the server's text on failure", func() {
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnsupportedMediaType)
			w.Write([]byte("unsupported log format"))
		}))

		_, err := newTestClient(server.URL).UploadFile(ctx, "notes.docx", strings.NewReader("x"))
		Expect(err).To(MatchError(ContainSubstring("unsupported log format")))
	})

	It("falls back to the status code with an empty error body", func() {
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInsufficientStorage)
		}))

		_, err := newTestClient(server.URL).UploadFile(ctx, "big.csv", strings.NewReader("x"))
		Expect(err).To(MatchError(ContainSubstring("507")))
	})

	It("returns a nil result for a bodyless success", func() {
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusAccepted)
		}))

		result, err := newTestClient(server.URL).UploadFile(ctx, "log.csv", strings.NewReader("x"))
		Expect(err).NotTo(HaveOccurred())
		Expect(result).To(BeNil())
	})

	It("honors a dedicated upload target", func() {
		var uploadHits int
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			uploadHits++
			w.Write([]byte(`{}`))
		}))

		c, err := agent.New(agent.Config{
			BaseURL:      "http://127.0.0.1:1",
			UploadTarget: server.URL,
		})
		Expect(err).NotTo(HaveOccurred())

		_, err = c.UploadFile(ctx, "log.csv", strings.NewReader("x"))
		Expect(err).NotTo(HaveOccurred())
		Expect(uploadHits).To(Equal(1))
	})
})
