package availability

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"greendash/backend/services/dashboard/internal/models"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name        string
		free, total int
		want        Status
	}{
		{"no spots", 0, 0, Full},
		{"negative total", 1, -1, Full},
		{"none free", 0, 10, Full},
		{"3 of 10", 3, 10, Limited},
		{"exactly 35%", 7, 20, Limited},
		{"just above 35%", 36, 100, Available},
		{"8 of 10", 8, 10, Available},
		{"all free", 4, 4, Available},
		{"1 of 3", 1, 3, Limited},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Classify(tc.free, tc.total))
		})
	}
}

func TestStatusPresentation(t *testing.T) {
	assert.Equal(t, "Full", Classify(0, 10).Label())
	assert.Equal(t, "red", Classify(0, 10).Color())
	assert.Equal(t, "Limited", Classify(3, 10).Label())
	assert.Equal(t, "yellow", Classify(3, 10).Color())
	assert.Equal(t, "Available", Classify(8, 10).Label())
	assert.Equal(t, "green", Classify(8, 10).Color())
	assert.Equal(t, "/icons/marker-green.png", Available.IconURL())
}

func TestPercentNeverNaN(t *testing.T) {
	p := Percent(0, 0)
	assert.False(t, math.IsNaN(p))
	assert.Equal(t, 0.0, p)
	assert.Equal(t, 30.0, Percent(3, 10))
}

func spot(ct models.ConnectorType, state models.SpotState) models.Spot {
	return models.Spot{ConnectorType: ct, State: state}
}

func TestClassifySpots(t *testing.T) {
	spots := []models.Spot{
		spot(models.ConnectorCCS, models.SpotFree),
		spot(models.ConnectorCCS, models.SpotOccupied),
		spot(models.ConnectorCCS, models.SpotOutOfService),
	}
	assert.Equal(t, Limited, ClassifySpots(spots))
	assert.Equal(t, Full, ClassifySpots(nil))
}

func sampleStations() []models.StationSpots {
	return []models.StationSpots{
		{ChargingStation: &models.Station{ID: 1, Name: "ccs"}, Spots: []models.Spot{spot(models.ConnectorCCS, models.SpotFree)}},
		{ChargingStation: &models.Station{ID: 2, Name: "mennekes"}, Spots: []models.Spot{spot(models.ConnectorMennekes, models.SpotFree)}},
		{ChargingStation: &models.Station{ID: 3, Name: "mixed"}, Spots: []models.Spot{
			spot(models.ConnectorCHAdeMO, models.SpotOccupied),
			spot(models.ConnectorCCS, models.SpotFree),
		}},
		{ChargingStation: &models.Station{ID: 4, Name: "no spots"}},
	}
}

func TestFilterByConnector_EmptyIsIdentity(t *testing.T) {
	in := sampleStations()
	assert.Equal(t, in, FilterByConnector(in, NewConnectorSet()))
}

func TestFilterByConnector_Single(t *testing.T) {
	out := FilterByConnector(sampleStations(), NewConnectorSet(models.ConnectorCCS))
	require.Len(t, out, 2)
	assert.Equal(t, int64(1), out[0].ChargingStation.ID)
	assert.Equal(t, int64(3), out[1].ChargingStation.ID)

	for _, st := range out {
		found := false
		for _, s := range st.Spots {
			found = found || s.ConnectorType == models.ConnectorCCS
		}
		assert.True(t, found)
	}
}

func TestFilterByConnector_Union(t *testing.T) {
	out := FilterByConnector(sampleStations(), NewConnectorSet(models.ConnectorMennekes, models.ConnectorCHAdeMO))
	require.Len(t, out, 2)
	assert.Equal(t, int64(2), out[0].ChargingStation.ID)
	assert.Equal(t, int64(3), out[1].ChargingStation.ID)
}

func TestConnectorSet_Toggle(t *testing.T) {
	set := NewConnectorSet()
	assert.True(t, set.Toggle(models.ConnectorCCS))
	assert.True(t, set.Toggle(models.ConnectorCHAdeMO))
	assert.Equal(t, []models.ConnectorType{models.ConnectorCCS, models.ConnectorCHAdeMO}, set.Slice())
	assert.False(t, set.Toggle(models.ConnectorCCS))
	assert.False(t, set.Has(models.ConnectorCCS))
	assert.Equal(t, 1, set.Len())
}

func TestSortByDistance(t *testing.T) {
	stations := []models.StationSpots{
		{ChargingStation: &models.Station{ID: 1, Lat: 41.15, Lon: -8.61}},
		{},
		{ChargingStation: &models.Station{ID: 2, Lat: 38.72, Lon: -9.14}},
	}
	out := SortByDistance(stations, 38.7, -9.1)
	assert.Equal(t, int64(2), out[0].ChargingStation.ID)
	assert.Equal(t, int64(1), out[1].ChargingStation.ID)
	assert.Nil(t, out[2].ChargingStation)
	assert.Equal(t, int64(1), stations[0].ChargingStation.ID)
}

func TestDistanceKm(t *testing.T) {
	assert.InDelta(t, 274, DistanceKm(38.7223, -9.1393, 41.1579, -8.6291), 5)
	assert.Equal(t, 0.0, DistanceKm(1, 1, 1, 1))
}

func TestBuildViews(t *testing.T) {
	views := BuildViews(append(sampleStations(), models.StationSpots{}))
	require.Len(t, views, 4)

	assert.Equal(t, Available, views[0].Status)
	assert.Equal(t, Available, views[2].Status)
	assert.Equal(t, 50.0, views[2].Percent)
	assert.Equal(t, Full, views[3].Status)
	assert.NotNil(t, views[3].Spots)

	out, err := json.Marshal(views[3])
	require.NoError(t, err)
	assert.Contains(t, string(out), `"status":"Full"`)
	assert.Contains(t, string(out), `"color":"red"`)
}
