package backend

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/fxamacker/cbor/v2"
)

// Codec converts the store's JSON documents to and from their stored form.
type Codec interface {
	Name() string
	Encode(doc []byte) ([]byte, error)
	Decode(data []byte) ([]byte, error)
}

type jsonCodec struct{}

func (jsonCodec) Name() string                       { return "json" }
func (jsonCodec) Encode(doc []byte) ([]byte, error)  { return doc, nil }
func (jsonCodec) Decode(data []byte) ([]byte, error) { return data, nil }

// JSON stores documents as-is.
var JSON Codec = jsonCodec{}

var mapType = reflect.TypeOf(map[string]any(nil))

// cborCodec transcodes the JSON document tree into CBOR.
type cborCodec struct {
	enc cbor.EncMode
	dec cbor.DecMode
}

func newCBOR() Codec {
	enc, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("cbor enc mode: %v", err))
	}
	dec, err := cbor.DecOptions{
		DefaultMapType: mapType,
	}.DecMode()
	if err != nil {
		panic(fmt.Sprintf("cbor dec mode: %v", err))
	}
	return cborCodec{enc: enc, dec: dec}
}

func (cborCodec) Name() string { return "cbor" }

func (c cborCodec) Encode(doc []byte) ([]byte, error) {
	var tree any
	if err := json.Unmarshal(doc, &tree); err != nil {
		return nil, fmt.Errorf("cbor encode: %w", err)
	}
	return c.enc.Marshal(tree)
}

func (c cborCodec) Decode(data []byte) ([]byte, error) {
	var tree any
	if err := c.dec.Unmarshal(data, &tree); err != nil {
		return nil, fmt.Errorf("cbor decode: %w", err)
	}
	return json.Marshal(tree)
}

// CBOR stores documents as CBOR. Object key order is not preserved.
var CBOR = newCBOR()

// CodecByName returns the codec registered under name. Empty selects JSON.
func CodecByName(name string) (Codec, error) {
	switch name {
	case "", "json":
		return JSON, nil
	case "cbor":
		return CBOR, nil
	}
	return nil, fmt.Errorf("unknown codec %q", name)
}
