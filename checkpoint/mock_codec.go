package checkpoint

import (
	reflect "reflect"

	desim "github.com/fulcrumsim/desim/desim"
	gomock "go.uber.org/mock/gomock"
)

// MockMessageCodec is a hand-maintained mock of MessageCodec, in the shape
// mockgen would produce, kept by hand since this interface is small and
// rarely changes.
type MockMessageCodec struct {
	ctrl     *gomock.Controller
	recorder *MockMessageCodecMockRecorder
}

// MockMessageCodecMockRecorder records expected calls on a MockMessageCodec.
type MockMessageCodecMockRecorder struct {
	mock *MockMessageCodec
}

// NewMockMessageCodec creates a mock bound to ctrl.
func NewMockMessageCodec(ctrl *gomock.Controller) *MockMessageCodec {
	m := &MockMessageCodec{ctrl: ctrl}
	m.recorder = &MockMessageCodecMockRecorder{mock: m}

	return m
}

// EXPECT returns the recorder used to set up expectations.
func (m *MockMessageCodec) EXPECT() *MockMessageCodecMockRecorder {
	return m.recorder
}

// Encode mocks MessageCodec.Encode.
func (m *MockMessageCodec) Encode(msg desim.Message) ([]byte, error) {
	ret := m.ctrl.Call(m, "Encode", msg)

	var b []byte
	if ret[0] != nil {
		b = ret[0].([]byte)
	}

	return b, toError(ret[1])
}

// Encode records an expected call to Encode.
func (r *MockMessageCodecMockRecorder) Encode(msg interface{}) *gomock.Call {
	return r.mock.ctrl.RecordCallWithMethodType(
		r.mock, "Encode", reflect.TypeOf((*MockMessageCodec)(nil).Encode), msg)
}

// Decode mocks MessageCodec.Decode.
func (m *MockMessageCodec) Decode(kind desim.Kind, data []byte) (desim.Message, error) {
	ret := m.ctrl.Call(m, "Decode", kind, data)

	var msg desim.Message
	if ret[0] != nil {
		msg = ret[0].(desim.Message)
	}

	return msg, toError(ret[1])
}

// Decode records an expected call to Decode.
func (r *MockMessageCodecMockRecorder) Decode(kind, data interface{}) *gomock.Call {
	return r.mock.ctrl.RecordCallWithMethodType(
		r.mock, "Decode", reflect.TypeOf((*MockMessageCodec)(nil).Decode), kind, data)
}

func toError(v interface{}) error {
	if v == nil {
		return nil
	}

	return v.(error)
}
