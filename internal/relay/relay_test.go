package relay_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/fivetwenty-io/fastspring-client/internal/client"
	"github.com/fivetwenty-io/fastspring-client/internal/constants"
	internalhttp "github.com/fivetwenty-io/fastspring-client/internal/http"
	"github.com/fivetwenty-io/fastspring-client/internal/relay"
	"github.com/fivetwenty-io/fastspring-client/pkg/fastspring"
	natsserver "github.com/nats-io/nats-server/v2/test"
	"github.com/nats-io/nats.go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBrokerDown = errors.New("broker down")

type fakeConn struct {
	mutex    sync.Mutex
	messages []*nats.Msg
	failOn   string
	drained  bool
}

func (c *fakeConn) PublishMsg(msg *nats.Msg) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.failOn != "" && strings.HasSuffix(msg.Subject, c.failOn) {
		return errBrokerDown
	}

	c.messages = append(c.messages, msg)

	return nil
}

// FlushWithContext mirrors *nats.Conn, which refuses contexts without a deadline.
func (c *fakeConn) FlushWithContext(ctx context.Context) error {
	if _, ok := ctx.Deadline(); !ok {
		return nats.ErrNoDeadlineContext
	}

	return ctx.Err()
}

func (c *fakeConn) Drain() error {
	c.drained = true

	return nil
}

func (c *fakeConn) subjects() []string {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	subjects := make([]string, 0, len(c.messages))
	for _, msg := range c.messages {
		subjects = append(subjects, msg.Subject)
	}

	return subjects
}

func TestNATSPublisher_Subject(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		prefix    string
		eventType string
		want      string
		wantErr   error
	}{
		{name: "default prefix", eventType: "order.completed", want: "fastspring.events.order.completed"},
		{name: "custom prefix", prefix: "store.", eventType: "subscription.activated", want: "store.subscription.activated"},
		{name: "wildcards replaced", eventType: "odd type>", want: "fastspring.events.odd_type_"},
		{name: "empty type", eventType: " ", wantErr: constants.ErrEmptyEventType},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			publisher := relay.NewNATSPublisherWithConn(&fakeConn{}, tt.prefix)

			subject, err := publisher.Subject(tt.eventType)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, subject)
		})
	}
}

func TestNATSPublisher_Publish(t *testing.T) {
	t.Parallel()

	conn := &fakeConn{}
	publisher := relay.NewNATSPublisherWithConn(conn, "")

	event := fastspring.Event{ID: "ev-1", Type: "order.completed", Live: true, Data: json.RawMessage(`{"id":"ord-1"}`)}
	require.NoError(t, publisher.Publish(context.Background(), event))

	require.Len(t, conn.messages, 1)
	msg := conn.messages[0]
	assert.Equal(t, "fastspring.events.order.completed", msg.Subject)
	assert.Equal(t, "ev-1", msg.Header.Get(nats.MsgIdHdr))

	var decoded fastspring.Event
	require.NoError(t, json.Unmarshal(msg.Data, &decoded))
	assert.Equal(t, "ev-1", decoded.ID)
	assert.JSONEq(t, `{"id":"ord-1"}`, string(decoded.Data))

	require.NoError(t, publisher.Close())
	assert.True(t, conn.drained)

	err := publisher.Publish(context.Background(), event)
	require.ErrorIs(t, err, constants.ErrPublisherClosed)
}

func TestNATSPublisher_PublishOverLiveConnection(t *testing.T) {
	t.Parallel()

	opts := natsserver.DefaultTestOptions
	opts.Port = -1
	server := natsserver.RunServer(&opts)
	t.Cleanup(server.Shutdown)

	subscriber, err := nats.Connect(server.ClientURL())
	require.NoError(t, err)
	t.Cleanup(subscriber.Close)

	sub, err := subscriber.SubscribeSync("fastspring.events.>")
	require.NoError(t, err)
	require.NoError(t, subscriber.Flush())

	publisher, err := relay.NewNATSPublisher(server.ClientURL(), "")
	require.NoError(t, err)

	event := fastspring.Event{ID: "ev-live", Type: "order.completed", Data: json.RawMessage(`{"id":"ord-9"}`)}

	// No deadline on the caller's context.
	require.NoError(t, publisher.Publish(context.Background(), event))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	require.NoError(t, publisher.Publish(ctx, fastspring.Event{ID: "ev-live-2", Type: "order.completed"}))

	msg, err := sub.NextMsg(time.Second)
	require.NoError(t, err)
	assert.Equal(t, "fastspring.events.order.completed", msg.Subject)
	assert.Equal(t, "ev-live", msg.Header.Get(nats.MsgIdHdr))

	msg, err = sub.NextMsg(time.Second)
	require.NoError(t, err)
	assert.Equal(t, "ev-live-2", msg.Header.Get(nats.MsgIdHdr))

	require.NoError(t, publisher.Close())
}

type eventsAPI struct {
	mutex     sync.Mutex
	processed []string
}

func (a *eventsAPI) server(t *testing.T, listing string) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/events/unprocessed":
			_, _ = w.Write([]byte(listing))
		case r.Method == http.MethodPost && strings.HasPrefix(r.URL.Path, "/events/"):
			var request fastspring.EventUpdateRequest
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&request))
			assert.True(t, request.Processed)

			a.mutex.Lock()
			a.processed = append(a.processed, strings.TrimPrefix(r.URL.Path, "/events/"))
			a.mutex.Unlock()

			_, _ = w.Write([]byte(`{"result":"success"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(server.Close)

	return server
}

const twoEvents = `{"events":[
	{"id":"ev-1","type":"order.completed","created":1700000000000},
	{"id":"ev-2","type":"subscription.canceled","created":1700000001000}
]}`

func TestPoller_Poll(t *testing.T) {
	t.Parallel()

	api := &eventsAPI{}
	server := api.server(t, twoEvents)

	conn := &fakeConn{}
	poller := relay.NewPoller(
		client.NewEventsClient(internalhttp.NewClient(server.URL, nil)),
		relay.NewNATSPublisherWithConn(conn, ""),
	)

	relayed, err := poller.Poll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, relayed)
	assert.Equal(t, []string{"fastspring.events.order.completed", "fastspring.events.subscription.canceled"}, conn.subjects())
	assert.Equal(t, []string{"ev-1", "ev-2"}, api.processed)
}

func TestPoller_Poll_PublishFailureLeavesEventUnprocessed(t *testing.T) {
	t.Parallel()

	api := &eventsAPI{}
	server := api.server(t, twoEvents)

	conn := &fakeConn{failOn: "subscription.canceled"}
	poller := relay.NewPoller(
		client.NewEventsClient(internalhttp.NewClient(server.URL, nil)),
		relay.NewNATSPublisherWithConn(conn, ""),
	)

	relayed, err := poller.Poll(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, errBrokerDown)
	assert.Equal(t, 1, relayed)
	assert.Equal(t, []string{"ev-1"}, api.processed)
}

func TestPoller_Run_StopsOnCancel(t *testing.T) {
	t.Parallel()

	api := &eventsAPI{}
	server := api.server(t, `{"events":[]}`)

	poller := relay.NewPoller(
		client.NewEventsClient(internalhttp.NewClient(server.URL, nil)),
		relay.NewNATSPublisherWithConn(&fakeConn{}, ""),
	)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, poller.Run(ctx))
}

func TestWebhookHandler(t *testing.T) {
	t.Parallel()

	const secret = "shh"

	body := []byte(`{"events":[{"id":"ev-9","type":"order.completed","live":false,"created":1700000000000}]}`)

	tests := []struct {
		name       string
		body       []byte
		signature  string
		failOn     string
		wantStatus int
		wantPubs   int
		wantResult string
	}{
		{name: "valid delivery", body: body, signature: relay.Sign([]byte(secret), body), wantStatus: http.StatusAccepted, wantPubs: 1, wantResult: relay.ResultAccepted},
		{name: "wrong signature", body: body, signature: relay.Sign([]byte("other"), body), wantStatus: http.StatusUnauthorized, wantResult: relay.ResultInvalidSignature},
		{name: "missing signature", body: body, signature: "", wantStatus: http.StatusUnauthorized, wantResult: relay.ResultInvalidSignature},
		{name: "malformed signature", body: body, signature: "%%%", wantStatus: http.StatusUnauthorized, wantResult: relay.ResultInvalidSignature},
		{name: "signed garbage", body: []byte("not json"), signature: relay.Sign([]byte(secret), []byte("not json")), wantStatus: http.StatusBadRequest, wantResult: relay.ResultInvalidPayload},
		{name: "broker down", body: body, signature: relay.Sign([]byte(secret), body), failOn: "order.completed", wantStatus: http.StatusInternalServerError, wantResult: relay.ResultPublishFailed},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			conn := &fakeConn{failOn: tt.failOn}
			handler, err := relay.NewWebhookHandler(secret, relay.NewNATSPublisherWithConn(conn, ""), nil)
			require.NoError(t, err)

			reg := prometheus.NewRegistry()
			handler.WithMetrics(relay.NewWebhookMetrics(reg, "fastspring"))

			server := httptest.NewServer(handler.Routes(""))
			defer server.Close()

			req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, server.URL+constants.DefaultWebhookPath, bytes.NewReader(tt.body))
			require.NoError(t, err)

			if tt.signature != "" {
				req.Header.Set(constants.SignatureHeader, tt.signature)
			}

			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Len(t, conn.subjects(), tt.wantPubs)
			assert.InDelta(t, 1, deliveries(t, reg, tt.wantResult), 0)
		})
	}
}

func deliveries(t *testing.T, reg *prometheus.Registry, result string) float64 {
	t.Helper()

	families, err := reg.Gather()
	require.NoError(t, err)

	for _, family := range families {
		if family.GetName() != "fastspring_webhook_deliveries_total" {
			continue
		}

		for _, metric := range family.GetMetric() {
			for _, label := range metric.GetLabel() {
				if label.GetName() == "result" && label.GetValue() == result {
					return metric.GetCounter().GetValue()
				}
			}
		}
	}

	return 0
}

func TestWebhookHandler_MetricsScrape(t *testing.T) {
	t.Parallel()

	const secret = "shh"

	reg := prometheus.NewRegistry()

	handler, err := relay.NewWebhookHandler(secret, relay.NewNATSPublisherWithConn(&fakeConn{}, ""), nil)
	require.NoError(t, err)
	handler.WithMetrics(relay.NewWebhookMetrics(reg, "fastspring"))

	router := handler.Routes("")
	router.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	server := httptest.NewServer(router)
	defer server.Close()

	body := []byte(`{"events":[{"id":"ev-1","type":"order.completed"},{"id":"ev-2","type":"order.failed"}]}`)

	post := func(signature string) int {
		req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, server.URL+constants.DefaultWebhookPath, bytes.NewReader(body))
		require.NoError(t, err)
		req.Header.Set(constants.SignatureHeader, signature)

		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		return resp.StatusCode
	}

	assert.Equal(t, http.StatusAccepted, post(relay.Sign([]byte(secret), body)))
	assert.Equal(t, http.StatusUnauthorized, post(relay.Sign([]byte("other"), body)))

	resp, err := http.Get(server.URL + "/metrics") //nolint:noctx // test scrape
	require.NoError(t, err)
	defer resp.Body.Close()

	scrape, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Contains(t, string(scrape), `fastspring_webhook_deliveries_total{result="accepted"} 1`)
	assert.Contains(t, string(scrape), `fastspring_webhook_deliveries_total{result="invalid_signature"} 1`)
	assert.Contains(t, string(scrape), `fastspring_webhook_events_total{outcome="published"} 2`)
}

func TestNewWebhookHandler_RequiresSecret(t *testing.T) {
	t.Parallel()

	_, err := relay.NewWebhookHandler("", relay.NewNATSPublisherWithConn(&fakeConn{}, ""), nil)
	require.ErrorIs(t, err, constants.ErrWebhookSecretUnset)
}
