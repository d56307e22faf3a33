package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/Kilat-Pet-Delivery/service-transit/internal/domain/geo"
)

type coordinateHolder struct {
	Loc geo.Coordinate  `bson:"loc"`
	Ptr *geo.Coordinate `bson:"ptr"`
}

func TestCoordinateCodec_FieldShapeAndOrder(t *testing.T) {
	reg := NewRegistry()
	c := geo.NewCoordinate(1.5, -2.25, "Depot")

	data, err := Marshal(reg, coordinateHolder{Loc: c, Ptr: &c})
	require.NoError(t, err)

	for _, key := range []string{"loc", "ptr"} {
		sub := bson.Raw(data).Lookup(key)
		require.Equal(t, bson.TypeEmbeddedDocument, sub.Type, key)

		elems, err := sub.Document().Elements()
		require.NoError(t, err)
		require.Len(t, elems, 3)

		assert.Equal(t, "Latitude", elems[0].Key())
		assert.Equal(t, bson.TypeDouble, elems[0].Value().Type)
		assert.Equal(t, 1.5, elems[0].Value().Double())

		assert.Equal(t, "Longitude", elems[1].Key())
		assert.Equal(t, bson.TypeDouble, elems[1].Value().Type)
		assert.Equal(t, -2.25, elems[1].Value().Double())

		assert.Equal(t, "Name", elems[2].Key())
		assert.Equal(t, bson.TypeString, elems[2].Value().Type)
		assert.Equal(t, "Depot", elems[2].Value().StringValue())
	}
}

func TestCoordinateCodec_RoundTrip(t *testing.T) {
	reg := NewRegistry()
	c := geo.NewCoordinate(51.5072, -0.1276, "London")
	in := coordinateHolder{Loc: c, Ptr: &c}

	data, err := Marshal(reg, in)
	require.NoError(t, err)

	var out coordinateHolder
	require.NoError(t, Unmarshal(reg, data, &out))
	assert.Equal(t, in.Loc, out.Loc)
	require.NotNil(t, out.Ptr)
	assert.Equal(t, c, *out.Ptr)
}

func TestCoordinateCodec_EmptyNameRoundTrips(t *testing.T) {
	reg := NewRegistry()
	in := coordinateHolder{Loc: geo.NewCoordinate(1, 2)}

	data, err := Marshal(reg, in)
	require.NoError(t, err)

	var out coordinateHolder
	require.NoError(t, Unmarshal(reg, data, &out))
	assert.Equal(t, geo.NewCoordinate(1, 2), out.Loc)
	assert.Nil(t, out.Ptr)
}

func TestCoordinateCodec_DecodesNullAndMissingName(t *testing.T) {
	reg := NewRegistry()

	raw, err := bson.Marshal(bson.D{
		{Key: "loc", Value: bson.D{
			{Key: "Latitude", Value: 10.0},
			{Key: "Longitude", Value: 20.0},
			{Key: "Name", Value: nil},
		}},
		{Key: "ptr", Value: bson.D{
			{Key: "Longitude", Value: int32(4)},
			{Key: "Latitude", Value: int64(3)},
			{Key: "extra", Value: "ignored"},
		}},
	})
	require.NoError(t, err)

	var out coordinateHolder
	require.NoError(t, Unmarshal(reg, raw, &out))
	assert.Equal(t, geo.Coordinate{Latitude: 10, Longitude: 20}, out.Loc)
	require.NotNil(t, out.Ptr)
	assert.Equal(t, geo.Coordinate{Latitude: 3, Longitude: 4}, *out.Ptr)
}

func TestCoordinateCodec_RejectsWrongTypes(t *testing.T) {
	reg := NewRegistry()

	raw, err := bson.Marshal(bson.D{{Key: "loc", Value: "not a document"}})
	require.NoError(t, err)
	var out coordinateHolder
	assert.Error(t, Unmarshal(reg, raw, &out))

	raw, err = bson.Marshal(bson.D{{Key: "loc", Value: bson.D{{Key: "Latitude", Value: "north"}}}})
	require.NoError(t, err)
	assert.Error(t, Unmarshal(reg, raw, &out))
}
