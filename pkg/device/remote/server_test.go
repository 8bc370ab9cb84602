package remote

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"oledscreen/pkg/device/virtual"
	"oledscreen/pkg/screen"
)

type rpcReply struct {
	Result *string          `json:"result"`
	Error  *json.RawMessage `json:"error"`
}

type rpcFault struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newServer(t *testing.T, opts ...screen.Option) (*httptest.Server, *virtual.Mocker) {
	t.Helper()

	panel := virtual.Mock(zap.NewNop())
	res, err := screen.Open(panel)
	require.NoError(t, err)
	panel.Reset()

	opts = append([]screen.Option{screen.WithFaultPolicy(screen.FaultReport)}, opts...)
	h, err := NewHandler(screen.NewDispatcher(res, zaptest.NewLogger(t), opts...), zaptest.NewLogger(t))
	require.NoError(t, err)

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv, panel
}

func post(t *testing.T, srv *httptest.Server, body string, header ...string) *http.Response {
	t.Helper()

	req, err := http.NewRequest(http.MethodPost, srv.URL, bytes.NewBufferString(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func call(t *testing.T, srv *httptest.Server, body string) (*string, *rpcFault) {
	t.Helper()

	resp := post(t, srv, body)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var reply rpcReply
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&reply))
	if reply.Error == nil {
		return reply.Result, nil
	}

	var f rpcFault
	require.NoError(t, json.Unmarshal(*reply.Error, &f))
	return nil, &f
}

func TestWriteSuccess(t *testing.T) {
	srv, panel := newServer(t)

	result, fault := call(t, srv, `{"jsonrpc":"2.0","id":1,"method":"write",
		"params":{"x_coord":0,"y_coord":0,"string":"Hello","font_size":"6x8"}}`)
	require.Nil(t, fault)
	require.NotNil(t, result)
	assert.Equal(t, Success, *result)

	calls := panel.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "draw", calls[0].Op)
	assert.Equal(t, 5, calls[0].Glyphs)
}

func TestWriteValidationFault(t *testing.T) {
	srv, panel := newServer(t)

	_, fault := call(t, srv, `{"jsonrpc":"2.0","id":2,"method":"write",
		"params":{"x_coord":200,"y_coord":0,"string":"Hello","font_size":"6x8"}}`)
	require.NotNil(t, fault)
	assert.Equal(t, screen.CodeValidation, fault.Code)

	var vs []screen.Violation
	require.NoError(t, json.Unmarshal(fault.Data, &vs))
	require.Len(t, vs, 1)
	assert.Equal(t, screen.FieldX, vs[0].Field)
	assert.Equal(t, "0-128", vs[0].Allowed)
	assert.EqualValues(t, 200, vs[0].Value)

	assert.Empty(t, panel.Calls())
}

func TestWriteStrictFont(t *testing.T) {
	srv, _ := newServer(t)

	_, fault := call(t, srv, `{"jsonrpc":"2.0","id":3,"method":"write",
		"params":{"x_coord":0,"y_coord":0,"string":"","font_size":"bogus"}}`)
	require.NotNil(t, fault)
	assert.Equal(t, screen.CodeValidation, fault.Code)
	assert.Contains(t, fault.Message, "bogus is not an accepted font size")
}

func TestWriteMissingParam(t *testing.T) {
	srv, panel := newServer(t)

	_, fault := call(t, srv, `{"jsonrpc":"2.0","id":4,"method":"write",
		"params":{"x_coord":0,"y_coord":0,"font_size":"6x8"}}`)
	require.NotNil(t, fault)
	assert.Equal(t, screen.CodeInvalidParams, fault.Code)
	assert.Equal(t, "invalid params", fault.Message)
	assert.Contains(t, string(fault.Data), "string")
	assert.NotEqual(t, screen.CodeValidation, fault.Code)

	_, fault = call(t, srv, `{"jsonrpc":"2.0","id":5,"method":"write"}`)
	require.NotNil(t, fault)
	assert.Equal(t, screen.CodeInvalidParams, fault.Code)

	assert.Empty(t, panel.Calls())
}

func TestWritePositionalParams(t *testing.T) {
	srv, panel := newServer(t)

	result, fault := call(t, srv, `{"jsonrpc":"2.0","id":20,"method":"write",
		"params":[0,0,"Hello","6x8"]}`)
	require.Nil(t, fault)
	require.NotNil(t, result)
	assert.Equal(t, Success, *result)
	require.Len(t, panel.Calls(), 1)
	assert.Equal(t, "draw", panel.Calls()[0].Op)

	_, fault = call(t, srv, `{"jsonrpc":"2.0","id":21,"method":"write",
		"params":[0,200,"Hello","6x8"]}`)
	require.NotNil(t, fault)
	assert.Equal(t, screen.CodeValidation, fault.Code)

	_, fault = call(t, srv, `{"jsonrpc":"2.0","id":22,"method":"write",
		"params":[0,0,"Hello"]}`)
	require.NotNil(t, fault)
	assert.Equal(t, screen.CodeInvalidParams, fault.Code)
	assert.Contains(t, string(fault.Data), screen.FieldFont)

	_, fault = call(t, srv, `{"jsonrpc":"2.0","id":23,"method":"write",
		"params":[0,0,"Hello","6x8",1]}`)
	require.NotNil(t, fault)
	assert.Equal(t, screen.CodeInvalidParams, fault.Code)
}

func TestWriteMalformedParam(t *testing.T) {
	srv, _ := newServer(t)

	_, fault := call(t, srv, `{"jsonrpc":"2.0","id":6,"method":"write",
		"params":{"x_coord":"left","y_coord":0,"string":"a","font_size":"6x8"}}`)
	require.NotNil(t, fault)
	assert.Equal(t, screen.CodeInvalidParams, fault.Code)
}

func TestClearAndFlush(t *testing.T) {
	srv, panel := newServer(t)

	result, fault := call(t, srv, `{"jsonrpc":"2.0","id":7,"method":"clear"}`)
	require.Nil(t, fault)
	assert.Equal(t, Success, *result)

	result, fault = call(t, srv, `{"jsonrpc":"2.0","id":8,"method":"Display.Flush","params":[]}`)
	require.Nil(t, fault)
	assert.Equal(t, Success, *result)

	ops := []string{}
	for _, c := range panel.Calls() {
		ops = append(ops, c.Op)
	}
	assert.Equal(t, []string{"clear", "flush", "flush"}, ops)
}

func TestBusFault(t *testing.T) {
	srv, panel := newServer(t)
	panel.FailOn("flush", errors.New("i2c: no ack"))

	_, fault := call(t, srv, `{"jsonrpc":"2.0","id":9,"method":"flush"}`)
	require.NotNil(t, fault)
	assert.Equal(t, screen.CodeBus, fault.Code)
	assert.Equal(t, "bus error", fault.Message)
	assert.JSONEq(t, `"i2c: no ack"`, string(fault.Data))
}

func TestUnknownMethod(t *testing.T) {
	srv, _ := newServer(t)

	for _, m := range []string{"scroll", "Display.Scroll", "Other.Write"} {
		_, fault := call(t, srv, `{"jsonrpc":"2.0","id":10,"method":"`+m+`"}`)
		require.NotNil(t, fault, m)
		assert.Equal(t, -32601, fault.Code, m)
	}
}

func TestNotification(t *testing.T) {
	srv, panel := newServer(t)

	resp := post(t, srv, `{"jsonrpc":"2.0","method":"write",
		"params":{"x_coord":1,"y_coord":1,"string":"n","font_size":"6x8"}}`)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Empty(t, body)
	assert.Len(t, panel.Calls(), 1)
}

func TestOriginGate(t *testing.T) {
	srv, panel := newServer(t)
	body := `{"jsonrpc":"2.0","id":11,"method":"flush"}`

	resp := post(t, srv, body, "Origin", "https://example.com")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Empty(t, panel.Calls())

	resp = post(t, srv, body, "Origin", "null")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "null", resp.Header.Get("Access-Control-Allow-Origin"))

	resp = post(t, srv, body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-Id"))
}
