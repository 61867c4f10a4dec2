package demo_test

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/timelane-go/internal/config"
	"github.com/AntonStoeckl/timelane-go/internal/demo"
	"github.com/AntonStoeckl/timelane-go/testutil/helper"
)

func givenStack(t *testing.T, mutate func(cfg *config.Config)) (*demo.Stack, *bytes.Buffer) {
	t.Helper()

	mr := miniredis.RunT(t)

	cfg := config.Default()
	cfg.Redis.Enabled = true
	cfg.Redis.Addr = mr.Addr()
	cfg.Buffer.FlushInterval = 5 * time.Millisecond
	cfg.Tracing.Enabled = true
	if mutate != nil {
		mutate(&cfg)
	}
	require.NoError(t, cfg.Validate())

	var out bytes.Buffer
	logSpy := helper.NewLogHandlerSpy(false)
	stack, err := demo.Build(context.Background(), cfg, logSpy.Logger(), &out)
	require.NoError(t, err)
	t.Cleanup(func() { _ = stack.Close(context.Background()) })

	return stack, &out
}

func givenServer(t *testing.T, stack *demo.Stack) *httptest.Server {
	t.Helper()

	options := givenWorkloadOptions()
	server := httptest.NewServer(demo.NewRouter(stack, options, helper.NewLogHandlerSpy(false).Logger()))
	t.Cleanup(server.Close)

	return server
}

func get(t *testing.T, url string) (int, string) {
	t.Helper()

	response, err := http.Get(url)
	require.NoError(t, err)
	defer func() { _ = response.Body.Close() }()

	body, err := io.ReadAll(response.Body)
	require.NoError(t, err)

	return response.StatusCode, string(body)
}

func post(t *testing.T, url string) (int, string) {
	t.Helper()

	response, err := http.Post(url, "application/json", nil)
	require.NoError(t, err)
	defer func() { _ = response.Body.Close() }()

	body, err := io.ReadAll(response.Body)
	require.NoError(t, err)

	return response.StatusCode, string(body)
}

func Test_Build_StdoutSink(t *testing.T) {
	// arrange
	stack, out := givenStack(t, nil)

	// act
	err := demo.RunWorkload(context.Background(), stack.Sink, givenWorkloadOptions())

	// assert
	require.NoError(t, err)
	assert.Contains(t, out.String(), "begin subscribe:numbers###source:demo###id:1")
	assert.Contains(t, out.String(), "event subscription:fetch###type:Error###value:upstream unavailable###source:demo###id:2")
}

func Test_Build_MetricsBackends(t *testing.T) {
	testCases := []struct {
		backend string
		nilOK   bool
	}{
		{config.MetricsPrometheus, false},
		{config.MetricsOTel, false},
		{config.MetricsNone, true},
	}

	for _, tc := range testCases {
		t.Run(tc.backend, func(t *testing.T) {
			stack, _ := givenStack(t, func(cfg *config.Config) { cfg.Metrics.Backend = tc.backend })

			assert.Equal(t, tc.nilOK, stack.Metrics == nil)
			assert.NotNil(t, stack.Tracing)
		})
	}
}

func Test_Stack_Read_RedisUnreachable(t *testing.T) {
	// arrange
	mr, err := miniredis.Run()
	require.NoError(t, err)
	addr := mr.Addr()
	mr.Close()

	// act
	stack, _ := givenStack(t, func(cfg *config.Config) { cfg.Redis.Addr = addr })
	readErr := func() error {
		_, e := stack.Read(context.Background(), demo.Query{From: demo.StoreRedis})
		return e
	}()

	// assert
	assert.Error(t, readErr)
}

func Test_Stack_Read_UnknownOrMissingStore(t *testing.T) {
	stack, _ := givenStack(t, nil)

	_, unknownErr := stack.Read(context.Background(), demo.Query{From: "kafka"})
	_, missingErr := stack.Read(context.Background(), demo.Query{From: demo.StorePostgres})

	assert.ErrorIs(t, unknownErr, demo.ErrUnknownStore)
	assert.ErrorIs(t, missingErr, demo.ErrSinkNotConfigured)
}

func Test_Router_Healthz(t *testing.T) {
	// arrange
	stack, _ := givenStack(t, nil)
	server := givenServer(t, stack)

	// act
	status, body := get(t, server.URL+"/healthz")

	// assert
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", jsoniter.Get([]byte(body), "status").ToString())
	assert.Equal(t, stack.RunID.String(), jsoniter.Get([]byte(body), "run_id").ToString())
	assert.Contains(t, body, `"redis"`)
}

func Test_Router_RunsThenRecordsAndMetrics(t *testing.T) {
	// arrange
	stack, _ := givenStack(t, nil)
	server := givenServer(t, stack)

	// act
	status, body := post(t, server.URL+"/runs?values=2&interval=1ms")

	// assert
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, stack.RunID.String(), jsoniter.Get([]byte(body), "run_id").ToString())
	assert.Equal(t, uint64(6), jsoniter.Get([]byte(body), "last_subscription_id").ToUint64())

	var entries []demo.Entry
	assert.Eventually(t, func() bool {
		recordsStatus, recordsBody := get(t, server.URL+"/records?from=redis&lane=numbers&run_id="+stack.RunID.String())
		if recordsStatus != http.StatusOK {
			return false
		}
		entries = nil
		if err := jsoniter.UnmarshalFromString(recordsBody, &entries); err != nil {
			return false
		}
		return len(entries) == 5
	}, 2*time.Second, 10*time.Millisecond)

	require.Len(t, entries, 5)
	assert.Equal(t, "begin", entries[0].Signpost)
	assert.Equal(t, "subscribe:numbers###source:demo###id:1", entries[0].Message)
	assert.Equal(t, "subscription:numbers###type:Output###value:#1###source:demo###id:1", entries[1].Message)
	assert.Equal(t, "subscribe:numbers###id:1###state:1###", entries[3].Message)
	assert.Equal(t, "begin", jsoniter.Get(entries[0].Record, "kind").ToString())

	metricsStatus, metricsBody := get(t, server.URL+"/metrics")
	assert.Equal(t, http.StatusOK, metricsStatus)
	assert.Contains(t, metricsBody, `timelane_subscriptions_finished_total{lane="numbers",state="completed"} 1`)
	assert.Contains(t, metricsBody, "go_goroutines")
}

func Test_Router_BadRequests(t *testing.T) {
	stack, _ := givenStack(t, nil)
	server := givenServer(t, stack)

	testCases := []struct {
		name string
		call func() (int, string)
		want string
	}{
		{"unknown store", func() (int, string) { return get(t, server.URL+"/records?from=kafka") }, "unknown record store"},
		{"store not configured", func() (int, string) { return get(t, server.URL+"/records?from=postgres") }, "record store not configured"},
		{"bad run id", func() (int, string) { return get(t, server.URL+"/records?run_id=nope") }, "invalid UUID"},
		{"bad limit", func() (int, string) { return get(t, server.URL+"/records?limit=-1") }, "limit"},
		{"bad values", func() (int, string) { return post(t, server.URL+"/runs?values=many") }, "values"},
		{"bad interval", func() (int, string) { return post(t, server.URL+"/runs?interval=0s") }, "interval"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			status, body := tc.call()

			assert.Equal(t, http.StatusBadRequest, status)
			assert.True(t, strings.Contains(body, tc.want), body)
		})
	}
}
