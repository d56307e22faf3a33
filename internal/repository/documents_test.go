package repository

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/Kilat-Pet-Delivery/service-transit/internal/domain"
	"github.com/Kilat-Pet-Delivery/service-transit/internal/domain/geo"
	routeDomain "github.com/Kilat-Pet-Delivery/service-transit/internal/domain/route"
	vehicleDomain "github.com/Kilat-Pet-Delivery/service-transit/internal/domain/vehicle"
)

func TestRouteMapper_ToDocument(t *testing.T) {
	r := routeDomain.NewRoute(geo.NewCoordinate(1, 2), geo.NewCoordinate(3, 4))

	doc, err := RouteMapper{}.ToDocument(r)
	require.NoError(t, err)
	assert.Equal(t, 314.4, doc.Distance)
	assert.InDelta(t, 5.24, doc.EstimatedTravelTime, 1e-9)
	assert.Equal(t, doc.Distance/routeDomain.AverageSpeedKmh, doc.EstimatedTravelTime)

	// The document owns its own copy of the locations.
	r.StartLocation.Latitude = 80
	assert.Equal(t, 1.0, doc.StartLocation.Latitude)
}

func TestRouteMapper_ToDocumentIncompleteRoute(t *testing.T) {
	end := geo.NewCoordinate(3, 4)
	_, err := RouteMapper{}.ToDocument(&routeDomain.Route{EndLocation: &end})
	assert.True(t, domain.IsKind(err, domain.KindInvalidState))

	_, err = RouteMapper{}.ToDocument(routeDomain.NewRoute(geo.NewCoordinate(91, 0), end))
	assert.True(t, domain.IsKind(err, domain.KindInvalidArgument))
}

func TestRouteMapper_RecordLayout(t *testing.T) {
	reg := NewRegistry()
	doc, err := RouteMapper{}.ToDocument(routeDomain.NewRoute(geo.NewCoordinate(1, 2), geo.NewCoordinate(3, 4)))
	require.NoError(t, err)

	data, err := Marshal(reg, mongoRecord[RouteDocument]{Doc: doc})
	require.NoError(t, err)
	assert.Equal(t, []string{"startLocation", "endLocation", "distance", "estimatedTravelTime"}, keys(t, data))

	oid := bson.NewObjectID()
	data, err = Marshal(reg, mongoRecord[RouteDocument]{ID: oid, Doc: doc})
	require.NoError(t, err)
	assert.Equal(t, []string{"_id", "startLocation", "endLocation", "distance", "estimatedTravelTime"}, keys(t, data))
	assert.Equal(t, bson.TypeDouble, bson.Raw(data).Lookup("distance").Type)

	var rec mongoRecord[RouteDocument]
	require.NoError(t, Unmarshal(reg, data, &rec))
	got := RouteMapper{}.ToEntity(rec.ID.Hex(), rec.Doc)
	assert.Equal(t, oid.Hex(), got.ID)

	d, err := got.Distance()
	require.NoError(t, err)
	assert.Equal(t, doc.Distance, d)
}

func TestVehicleMapper(t *testing.T) {
	reg := NewRegistry()
	v := &vehicleDomain.Vehicle{Type: "bus", Capacity: 42}

	doc, err := VehicleMapper{}.ToDocument(v)
	require.NoError(t, err)

	data, err := Marshal(reg, mongoRecord[VehicleDocument]{Doc: doc})
	require.NoError(t, err)
	assert.Equal(t, []string{"type", "capacity"}, keys(t, data))
	assert.Equal(t, bson.TypeInt32, bson.Raw(data).Lookup("capacity").Type)

	var back VehicleDocument
	require.NoError(t, Unmarshal(reg, data, &back))
	assert.Equal(t, &vehicleDomain.Vehicle{ID: "x", Type: "bus", Capacity: 42}, VehicleMapper{}.ToEntity("x", back))
}

func TestVehicleMapper_CapacityOverflow(t *testing.T) {
	_, err := VehicleMapper{}.ToDocument(&vehicleDomain.Vehicle{Type: "bus", Capacity: math.MaxInt32 + 1})
	assert.True(t, domain.IsKind(err, domain.KindInvalidArgument))
}

func TestStorageError_Reasons(t *testing.T) {
	assert.Nil(t, storageError("x", nil))

	err := storageError("read", fmt.Errorf("wrapped: %w", context.Canceled))
	assert.True(t, domain.IsKind(err, domain.KindStorage))
	assert.Equal(t, domain.ReasonCancelled, domain.ReasonOf(err))

	err = storageError("read", context.DeadlineExceeded)
	assert.Equal(t, domain.ReasonTimeout, domain.ReasonOf(err))

	err = storageError("read", errors.New("connection refused"))
	assert.Equal(t, domain.ReasonFailure, domain.ReasonOf(err))

	passthrough := domain.NewInvalidState("incomplete")
	assert.Same(t, passthrough, storageError("read", passthrough))
}

func TestIdentifierParsing(t *testing.T) {
	_, err := parseObjectID("")
	assert.True(t, domain.IsKind(err, domain.KindInvalidArgument))
	_, err = parseObjectID("not-hex")
	assert.True(t, domain.IsKind(err, domain.KindInvalidArgument))
	oid := bson.NewObjectID()
	got, err := parseObjectID(oid.Hex())
	require.NoError(t, err)
	assert.Equal(t, oid, got)

	_, err = parseUUID("")
	assert.True(t, domain.IsKind(err, domain.KindInvalidArgument))
	_, err = parseUUID(oid.Hex())
	assert.True(t, domain.IsKind(err, domain.KindInvalidArgument))
	_, err = parseUUID("6f1c2a4e-3b7d-4c55-9a0e-2d8f5b1e7c90")
	assert.NoError(t, err)
}

func TestResolveSettings(t *testing.T) {
	assert.Equal(t, "route", resolveSettings[*routeDomain.Route](nil).collection)
	assert.Equal(t, "vehicle", resolveSettings[*vehicleDomain.Vehicle](nil).collection)
	assert.Equal(t, "fleet", resolveSettings[*vehicleDomain.Vehicle]([]Option{WithCollection("fleet")}).collection)
	assert.Equal(t, "route", resolveSettings[*routeDomain.Route]([]Option{WithCollection("")}).collection)
}

func keys(t *testing.T, data []byte) []string {
	t.Helper()
	elems, err := bson.Raw(data).Elements()
	require.NoError(t, err)
	out := make([]string, len(elems))
	for i, e := range elems {
		out[i] = e.Key()
	}
	return out
}
