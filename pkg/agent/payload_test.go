package agent_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/fleetscope/fleetscope/pkg/agent"
)

// captureRunRequest sends text through a throwaway server and returns the
// decoded /run_sse payload.
func captureRunRequest(msg agent.Message) map[string]any {
	var captured map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		Expect(json.Unmarshal(body, &captured)).To(Succeed())
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).SendMessageStream(context.Background(), msg)
	Expect(err).NotTo(HaveOccurred())
	return captured
}

var _ = Describe("Run request payload", func() {
	Describe("vehicle id extraction", func() {
		It("matches a labeled vehicle id", func() {
			payload := captureRunRequest(agent.Message{SessionID: "s1", Text: "vehicle id: XY-12 please check"})
			Expect(payload["stateDelta"]).To(HaveKeyWithValue("vehicle_id", "XY-12"))
		})

		It("matches a bare id label, case-insensitively", func() {
			payload := captureRunRequest(agent.Message{SessionID: "s1", Text: "show history for ID: truck-007"})
			Expect(payload["stateDelta"]).To(HaveKeyWithValue("vehicle_id", "truck-007"))
		})

		It("takes the first match when several ids appear", func() {
			payload := captureRunRequest(agent.Message{SessionID: "s1", Text: "vehicle id: AA-1 then id: BB-2"})
			Expect(payload["stateDelta"]).To(HaveKeyWithValue("vehicle_id", "AA-1"))
		})

		It("produces no stateDelta without an id-like token", func() {
			payload := captureRunRequest(agent.Message{SessionID: "s1", Text: "summarize the last service visit"})
			Expect(payload).NotTo(HaveKey("stateDelta"))
		})
	})

	Describe("parts assembly", func() {
		It("includes both text and inline data parts", func() {
			payload := captureRunRequest(agent.Message{
				SessionID:  "s1",
				Text:       "what is in this photo",
				InlineData: map[string]any{"mimeType": "image/jpeg", "data": "AAAA"},
			})

			parts := payload["newMessage"].(map[string]any)["parts"].([]any)
			Expect(parts).To(HaveLen(2))
			Expect(parts[0].(map[string]any)).To(HaveKey("text"))
			Expect(parts[1].(map[string]any)).To(HaveKeyWithValue("inlineData",
				HaveKeyWithValue("mimeType", "image/jpeg")))
		})

		It("drops the text part when text is whitespace-only", func() {
			payload := captureRunRequest(agent.Message{
				SessionID:  "s1",
				Text:       "   ",
				InlineData: map[string]any{"mimeType": "image/jpeg", "data": "AAAA"},
			})

			parts := payload["newMessage"].(map[string]any)["parts"].([]any)
			Expect(parts).To(HaveLen(1))
			Expect(parts[0].(map[string]any)).To(HaveKey("inlineData"))
		})
	})
})
