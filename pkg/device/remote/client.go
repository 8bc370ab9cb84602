package remote

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"

	"oledscreen/pkg/screen"
)

func New(addr string) *Client {
	if !strings.Contains(addr, "://") {
		addr = "http://" + addr
	}

	return &Client{
		rpc: resty.New().
			SetBaseURL(addr).
			SetHeader("Content-Type", "application/json"),
	}
}

type Client struct {
	rpc *resty.Client
	seq atomic.Uint64
}

// RPCError is an error response from the service.
type RPCError struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (e *RPCError) Error() string {
	if len(e.Data) == 0 || string(e.Data) == "null" {
		return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("rpc error %d: %s (%s)", e.Code, e.Message, e.Data)
}

type rpcRequest struct {
	Version string      `json:"jsonrpc"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params,omitempty"`
	ID      uint64      `json:"id"`
}

type rpcResponse struct {
	Result *string   `json:"result"`
	Error  *RPCError `json:"error"`
}

func (c *Client) Write(req screen.WriteRequest) error {
	return c.call("write", NewWriteRequest(req))
}

func (c *Client) Clear() error {
	return c.call("clear", nil)
}

func (c *Client) Flush() error {
	return c.call("flush", nil)
}

func (c *Client) call(method string, params interface{}) error {
	var out rpcResponse
	resp, err := c.rpc.R().
		SetBody(&rpcRequest{
			Version: "2.0",
			Method:  method,
			Params:  params,
			ID:      c.seq.Add(1),
		}).
		SetResult(&out).
		Post("/")
	if err != nil {
		return errors.Wrapf(err, "call %s", method)
	}

	if resp.IsError() {
		return errors.Errorf("call %s: %s", method, resp.Status())
	}

	if out.Error != nil {
		return out.Error
	}

	if out.Result == nil || *out.Result != Success {
		return errors.Errorf("call %s: unexpected result", method)
	}

	return nil
}
