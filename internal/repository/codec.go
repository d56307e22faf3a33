package repository

import (
	"bytes"
	"errors"
	"fmt"
	"reflect"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/Kilat-Pet-Delivery/service-transit/internal/domain/geo"
)

// Coordinate sub-document field names. Order matters on write.
const (
	fieldLatitude  = "Latitude"
	fieldLongitude = "Longitude"
	fieldName      = "Name"
)

var coordinateType = reflect.TypeOf(geo.Coordinate{})

// NewRegistry returns the BSON registry used by every storage adapter,
// with CoordinateCodec registered for geo.Coordinate.
func NewRegistry() *bson.Registry {
	reg := bson.NewRegistry()
	codec := CoordinateCodec{}
	reg.RegisterTypeEncoder(coordinateType, codec)
	reg.RegisterTypeDecoder(coordinateType, codec)
	return reg
}

// CoordinateCodec writes a Coordinate as {Latitude, Longitude, Name} and reads it back.
// Name is written as an empty string when absent; on read, a null or
// missing Name yields an empty name.
type CoordinateCodec struct{}

// EncodeValue implements bson.ValueEncoder.
func (CoordinateCodec) EncodeValue(_ bson.EncodeContext, vw bson.ValueWriter, val reflect.Value) error {
	if !val.IsValid() || val.Type() != coordinateType {
		return fmt.Errorf("CoordinateCodec can only encode geo.Coordinate, got %v", val.Type())
	}
	c := val.Interface().(geo.Coordinate)

	dw, err := vw.WriteDocument()
	if err != nil {
		return err
	}
	if err := writeDouble(dw, fieldLatitude, c.Latitude); err != nil {
		return err
	}
	if err := writeDouble(dw, fieldLongitude, c.Longitude); err != nil {
		return err
	}
	ew, err := dw.WriteDocumentElement(fieldName)
	if err != nil {
		return err
	}
	if err := ew.WriteString(c.Name); err != nil {
		return err
	}
	return dw.WriteDocumentEnd()
}

// DecodeValue implements bson.ValueDecoder.
func (CoordinateCodec) DecodeValue(_ bson.DecodeContext, vr bson.ValueReader, val reflect.Value) error {
	if !val.CanSet() || val.Type() != coordinateType {
		return fmt.Errorf("CoordinateCodec can only decode into a settable geo.Coordinate, got %v", val.Type())
	}

	if vr.Type() == bson.TypeNull {
		val.Set(reflect.Zero(coordinateType))
		return vr.ReadNull()
	}

	dr, err := vr.ReadDocument()
	if err != nil {
		return fmt.Errorf("coordinate must be a sub-document: %w", err)
	}

	var c geo.Coordinate
	for {
		name, evr, err := dr.ReadElement()
		if errors.Is(err, bson.ErrEOD) {
			break
		}
		if err != nil {
			return err
		}

		switch name {
		case fieldLatitude:
			c.Latitude, err = readFloat(evr)
		case fieldLongitude:
			c.Longitude, err = readFloat(evr)
		case fieldName:
			c.Name, err = readOptionalString(evr)
		default:
			err = evr.Skip()
		}
		if err != nil {
			return fmt.Errorf("coordinate field %q: %w", name, err)
		}
	}

	val.Set(reflect.ValueOf(c))
	return nil
}

func writeDouble(dw bson.DocumentWriter, key string, v float64) error {
	ew, err := dw.WriteDocumentElement(key)
	if err != nil {
		return err
	}
	return ew.WriteDouble(v)
}

func readFloat(vr bson.ValueReader) (float64, error) {
	switch vr.Type() {
	case bson.TypeDouble:
		return vr.ReadDouble()
	case bson.TypeInt32:
		i, err := vr.ReadInt32()
		return float64(i), err
	case bson.TypeInt64:
		i, err := vr.ReadInt64()
		return float64(i), err
	default:
		return 0, fmt.Errorf("expected a number, got %v", vr.Type())
	}
}

func readOptionalString(vr bson.ValueReader) (string, error) {
	switch vr.Type() {
	case bson.TypeString:
		return vr.ReadString()
	case bson.TypeNull:
		return "", vr.ReadNull()
	default:
		return "", fmt.Errorf("expected a string or null, got %v", vr.Type())
	}
}

// Marshal encodes v as a BSON document using reg.
func Marshal(reg *bson.Registry, v any) ([]byte, error) {
	buf := new(bytes.Buffer)
	enc := bson.NewEncoder(bson.NewDocumentWriter(buf))
	enc.SetRegistry(reg)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes a BSON document into v using reg.
func Unmarshal(reg *bson.Registry, data []byte, v any) error {
	dec := bson.NewDecoder(bson.NewDocumentReader(bytes.NewReader(data)))
	dec.SetRegistry(reg)
	return dec.Decode(v)
}
