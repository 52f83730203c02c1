package service

import (
	"encoding/json"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/startupheroes/package-events/internal/config"
	eventsDomain "github.com/startupheroes/package-events/internal/events/domain"
)

// Content types reported by the serializers.
const (
	ContentTypeJSON    = "application/json"
	ContentTypeMsgpack = "application/msgpack"
)

// JSONSerializer encodes events as JSON.
type JSONSerializer struct{}

// NewJSONSerializer creates a JSONSerializer.
func NewJSONSerializer() *JSONSerializer {
	return &JSONSerializer{}
}

// Serialize encodes the event as JSON.
func (s *JSONSerializer) Serialize(event *eventsDomain.PackageEvent) ([]byte, error) {
	if event == nil {
		return nil, fmt.Errorf("nil event")
	}
	return json.Marshal(event)
}

// ContentType returns ContentTypeJSON.
func (s *JSONSerializer) ContentType() string {
	return ContentTypeJSON
}

// MsgpackSerializer encodes events as MessagePack maps keyed like the JSON form.
type MsgpackSerializer struct{}

// NewMsgpackSerializer creates a MsgpackSerializer.
func NewMsgpackSerializer() *MsgpackSerializer {
	return &MsgpackSerializer{}
}

// Serialize encodes the event as MessagePack.
func (s *MsgpackSerializer) Serialize(event *eventsDomain.PackageEvent) ([]byte, error) {
	if event == nil {
		return nil, fmt.Errorf("nil event")
	}
	return msgpack.Marshal(event)
}

// ContentType returns ContentTypeMsgpack.
func (s *MsgpackSerializer) ContentType() string {
	return ContentTypeMsgpack
}

// NewSerializer selects a serializer by configured encoding name.
func NewSerializer(encoding string) (Serializer, error) {
	switch encoding {
	case config.EventEncodingJSON, "":
		return NewJSONSerializer(), nil
	case config.EventEncodingMsgpack:
		return NewMsgpackSerializer(), nil
	default:
		return nil, fmt.Errorf("unsupported event encoding: %s", encoding)
	}
}
