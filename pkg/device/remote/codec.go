package remote

import (
	"net/http"
	"strings"

	"github.com/gorilla/rpc/v2"
	"github.com/gorilla/rpc/v2/json2"
	"github.com/pkg/errors"

	"oledscreen/pkg/screen"
)

// methods maps bare wire names onto the service's exported methods.
var methods = map[string]string{
	"write": "Write",
	"clear": "Clear",
	"flush": "Flush",
}

func newCodec(service string) *codec {
	return &codec{inner: json2.NewCodec(), service: service}
}

// codec is JSON-RPC 2.0 with bare method names and screen errors
// rendered through screen.Translate.
type codec struct {
	inner   rpc.Codec
	service string
}

func (c *codec) NewRequest(r *http.Request) rpc.CodecRequest {
	return &codecRequest{inner: c.inner.NewRequest(r), service: c.service}
}

type codecRequest struct {
	inner   rpc.CodecRequest
	service string
}

func (c *codecRequest) Method() (string, error) {
	m, err := c.inner.Method()
	if err != nil {
		return "", err
	}

	if strings.Contains(m, ".") {
		return m, nil
	}

	name, ok := methods[m]
	if !ok {
		return "", &json2.Error{Code: json2.E_NO_METHOD, Message: "Method not found", Data: m}
	}
	return c.service + "." + name, nil
}

func (c *codecRequest) ReadRequest(args interface{}) error {
	err := c.inner.ReadRequest(args)
	if err == nil {
		return nil
	}

	var jerr *json2.Error
	if errors.As(err, &jerr) && jerr.Code == json2.E_INVALID_REQ {
		return screen.InvalidParams(jerr.Message)
	}
	return err
}

func (c *codecRequest) WriteResponse(w http.ResponseWriter, reply interface{}) {
	c.inner.WriteResponse(w, reply)
}

func (c *codecRequest) WriteError(w http.ResponseWriter, status int, err error) {
	c.inner.WriteError(w, status, toJSONError(err))
}

func toJSONError(err error) *json2.Error {
	var jerr *json2.Error
	if errors.As(err, &jerr) {
		return jerr
	}

	var serr *screen.Error
	if !errors.As(err, &serr) && isLookupError(err) {
		return &json2.Error{Code: json2.E_NO_METHOD, Message: "Method not found", Data: err.Error()}
	}

	f := screen.Translate(err)
	return &json2.Error{Code: json2.ErrorCode(f.Code), Message: f.Message, Data: f.Data}
}

// isLookupError matches the errors gorilla/rpc raises when the method name
// does not resolve to a registered service method.
func isLookupError(err error) bool {
	msg := err.Error()
	return strings.HasPrefix(msg, "rpc: can't find") ||
		strings.HasPrefix(msg, "rpc: service/method request ill-formed")
}
