package feed

import (
	"time"

	gtfsrt "github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"

	"citybus-tracker/internal/transit"
)

var occupancyStatus = map[transit.Occupancy]gtfsrt.VehiclePosition_OccupancyStatus{
	transit.OccupancyLow:    gtfsrt.VehiclePosition_MANY_SEATS_AVAILABLE,
	transit.OccupancyMedium: gtfsrt.VehiclePosition_FEW_SEATS_AVAILABLE,
	transit.OccupancyHigh:   gtfsrt.VehiclePosition_STANDING_ROOM_ONLY,
}

// VehiclePositions builds a full-dataset GTFS-Realtime feed of the fleet.
// Vehicles with an unknown occupancy carry no occupancy status.
func VehiclePositions(vehicles []transit.Vehicle, at time.Time) *gtfsrt.FeedMessage {
	ts := uint64(at.Unix())
	msg := &gtfsrt.FeedMessage{
		Header: &gtfsrt.FeedHeader{
			GtfsRealtimeVersion: proto.String("2.0"),
			Incrementality:      gtfsrt.FeedHeader_FULL_DATASET.Enum(),
			Timestamp:           proto.Uint64(ts),
		},
		Entity: make([]*gtfsrt.FeedEntity, 0, len(vehicles)),
	}
	for _, v := range vehicles {
		vp := &gtfsrt.VehiclePosition{
			Trip: &gtfsrt.TripDescriptor{RouteId: proto.String(v.Route)},
			Vehicle: &gtfsrt.VehicleDescriptor{
				Id:    proto.String(v.ID),
				Label: proto.String(v.Route + " " + v.Direction),
			},
			Position: &gtfsrt.Position{
				Latitude:  proto.Float32(float32(v.Lat)),
				Longitude: proto.Float32(float32(v.Lon)),
			},
			Timestamp: proto.Uint64(ts),
		}
		if st, ok := occupancyStatus[v.Occupancy]; ok {
			vp.OccupancyStatus = st.Enum()
		}
		msg.Entity = append(msg.Entity, &gtfsrt.FeedEntity{
			Id:      proto.String(v.ID),
			Vehicle: vp,
		})
	}
	return msg
}

func Marshal(msg *gtfsrt.FeedMessage) ([]byte, error) {
	return proto.Marshal(msg)
}

func MarshalJSON(msg *gtfsrt.FeedMessage) ([]byte, error) {
	return protojson.MarshalOptions{Multiline: true}.Marshal(msg)
}
