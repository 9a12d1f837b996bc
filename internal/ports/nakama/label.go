package nakama

import (
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// marshalLabel renders the queryable match label. The label carries the
// open seat count, the lifecycle phase and the score tier so the
// quick-match RPC can filter on them.
func marshalLabel(state *MatchState) (string, error) {
	phase := "lobby"
	if state.Match != nil {
		phase = string(state.Match.Phase)
	}

	label, err := structpb.NewStruct(map[string]interface{}{
		"game":                  "doudizhu",
		MatchLabelKey_OpenSeats: state.GetOpenSeatsCount(),
		"phase":                 phase,
		"tier":                  state.ScoreTier,
	})
	if err != nil {
		return "", err
	}

	labelBytes, err := (&protojson.MarshalOptions{EmitUnpopulated: true}).Marshal(label)
	if err != nil {
		return "", err
	}
	return string(labelBytes), nil
}
