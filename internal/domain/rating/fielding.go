package rating

import "github.com/okian/cricscore/internal/domain/model"

// fieldingPoints is the fixed rating delta of each fielding event.
var fieldingPoints = map[model.FieldingEventKind]float64{ //nolint:gochecknoglobals // read-only lookup table
	model.EventCatch:          0.4,
	model.EventDirectRunOut:   1.5,
	model.EventAssistedRunOut: 0.75,
	model.EventStumping:       1.0,
	model.EventDroppedCatch:   -1.5,
	model.EventMisfield:       -0.5,
}

// FieldingPoints returns the rating delta for one event of kind k.
func FieldingPoints(k model.FieldingEventKind) float64 {
	return fieldingPoints[k]
}

// RateFielding scores name's fielding from the events attributed to them.
// Events for other players are ignored; no events yields exactly 5.0.
func RateFielding(name string, events []model.FieldingEvent) (float64, model.FieldingBreakdown) {
	var d model.FieldingBreakdown
	for _, ev := range events {
		if ev.PlayerName != name {
			continue
		}
		d.Adjustment += fieldingPoints[ev.Kind]
		switch ev.Kind {
		case model.EventCatch:
			d.Catches++
		case model.EventDirectRunOut:
			d.DirectRunOuts++
		case model.EventAssistedRunOut:
			d.AssistedRunOuts++
		case model.EventStumping:
			d.Stumpings++
		case model.EventDroppedCatch:
			d.DroppedCatches++
		case model.EventMisfield:
			d.Misfields++
		}
	}
	d.Adjustment = round2(d.Adjustment)
	d.Total = clampRating(neutralRating + d.Adjustment)
	return d.Total, d
}
